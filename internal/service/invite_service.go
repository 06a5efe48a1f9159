package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"ontrackr/internal/models"
	"ontrackr/internal/repository"
)

var (
	// ErrInviteNotFound is returned for an unknown invite token.
	ErrInviteNotFound = errors.New("service: invite not found")
	// ErrInviteUsed is returned when an invite was already accepted.
	ErrInviteUsed = errors.New("service: invite already accepted")
)

// InviteStore persists team invites.
type InviteStore interface {
	Insert(ctx context.Context, inv models.Invite) (string, error)
	FindByToken(ctx context.Context, token string) (models.Invite, error)
	MarkAccepted(ctx context.Context, id, userID string) error
}

// ProjectMemberStore is the membership mutation side of the project
// repository.
type ProjectMemberStore interface {
	ProjectStore
	AddMember(ctx context.Context, projectID, userID string) error
}

// Mailer delivers invite notifications. Email delivery is an external
// collaborator; the default implementation only logs.
type Mailer interface {
	SendInvite(ctx context.Context, email, projectName, token string) error
}

// LogMailer is a Mailer that records the send instead of delivering it.
type LogMailer struct {
	Log zerolog.Logger
}

// SendInvite logs the would-be delivery.
func (m LogMailer) SendInvite(ctx context.Context, email, projectName, token string) error {
	m.Log.Info().Str("email", email).Str("project", projectName).Msg("invite mail (not delivered)")
	return nil
}

// InviteService creates and redeems team invites.
type InviteService struct {
	invites  InviteStore
	projects ProjectMemberStore
	mailer   Mailer
	log      zerolog.Logger
}

// NewInviteService wires dependencies.
func NewInviteService(invites InviteStore, projects ProjectMemberStore, mailer Mailer, log zerolog.Logger) *InviteService {
	return &InviteService{
		invites:  invites,
		projects: projects,
		mailer:   mailer,
		log:      log.With().Str("component", "invites").Logger(),
	}
}

// Create issues a pending invite for email to join a project and hands it
// to the mailer. A mail failure does not roll the invite back; the token
// can still be shared out of band.
func (s *InviteService) Create(ctx context.Context, projectID, email, invitedBy string) (models.Invite, error) {
	project, err := s.projects.FindByID(ctx, projectID)
	if err != nil {
		return models.Invite{}, err
	}

	inv := models.Invite{
		Token:     uuid.NewString(),
		ProjectID: projectID,
		Email:     email,
		InvitedBy: invitedBy,
		Status:    models.InvitePending,
	}
	id, err := s.invites.Insert(ctx, inv)
	if err != nil {
		return models.Invite{}, err
	}
	inv.ID = id

	if err := s.mailer.SendInvite(ctx, email, project.Name, inv.Token); err != nil {
		s.log.Error().Err(err).Str("invite_id", id).Msg("invite mail failed")
	}
	return inv, nil
}

// Accept redeems an invite token for userID, adding them to the project.
func (s *InviteService) Accept(ctx context.Context, token, userID string) (models.Invite, error) {
	inv, err := s.invites.FindByToken(ctx, token)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return models.Invite{}, ErrInviteNotFound
		}
		return models.Invite{}, err
	}
	if inv.Status != models.InvitePending {
		return models.Invite{}, ErrInviteUsed
	}

	if err := s.projects.AddMember(ctx, inv.ProjectID, userID); err != nil {
		return models.Invite{}, err
	}
	if err := s.invites.MarkAccepted(ctx, inv.ID, userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			// Another acceptance won between the read and the update.
			return models.Invite{}, ErrInviteUsed
		}
		return models.Invite{}, err
	}

	inv.Status = models.InviteAccepted
	inv.AcceptedBy = userID
	s.log.Info().Str("invite_id", inv.ID).Str("project_id", inv.ProjectID).
		Str("user_id", userID).Msg("invite accepted")
	return inv, nil
}
