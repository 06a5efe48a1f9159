package service

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"ontrackr/internal/models"
)

// ---- Repository layer contracts -------------------------------------------

// ProjectStore is the slice of the project repository the guard and the
// dispatcher need.
type ProjectStore interface {
	FindByID(ctx context.Context, id string) (models.Project, error)
	FindByRepo(ctx context.Context, owner, repo string) (models.Project, error)
}

// UserStore resolves registered user profiles, including the optional
// GitHub username mapping.
type UserStore interface {
	FindByID(ctx context.Context, id string) (models.User, error)
}

// ---- Guard -----------------------------------------------------------------

// MembershipGuard decides whether an external actor is allowed to generate
// activity for a project.
type MembershipGuard struct {
	projects ProjectStore
	users    UserStore
	failOpen bool
	log      zerolog.Logger
}

// NewMembershipGuard wires dependencies. failOpen selects the policy on
// store failure: authorize (availability over strictness) or refuse.
func NewMembershipGuard(projects ProjectStore, users UserStore, failOpen bool, log zerolog.Logger) *MembershipGuard {
	return &MembershipGuard{
		projects: projects,
		users:    users,
		failOpen: failOpen,
		log:      log.With().Str("component", "membership").Logger(),
	}
}

// IsAuthorized reports whether githubUsername maps to a member or the lead
// of the project. Comparison is case-insensitive. When the store is
// unreachable the configured fail-open/fail-closed policy applies.
func (g *MembershipGuard) IsAuthorized(ctx context.Context, projectID, githubUsername string) bool {
	project, err := g.projects.FindByID(ctx, projectID)
	if err != nil {
		g.log.Warn().Err(err).Str("project_id", projectID).
			Bool("fail_open", g.failOpen).Msg("project lookup failed")
		return g.failOpen
	}

	ids := project.Members
	if project.LeadID != "" {
		ids = append(append([]string{}, ids...), project.LeadID)
	}

	for _, userID := range ids {
		user, err := g.users.FindByID(ctx, userID)
		if err != nil {
			g.log.Warn().Err(err).Str("user_id", userID).
				Bool("fail_open", g.failOpen).Msg("user lookup failed")
			if g.failOpen {
				return true
			}
			continue
		}
		if user.GithubUsername != "" && strings.EqualFold(user.GithubUsername, githubUsername) {
			return true
		}
	}
	return false
}
