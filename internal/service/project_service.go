package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"ontrackr/internal/github"
	"ontrackr/internal/models"
	"ontrackr/internal/repository"
)

var (
	// ErrInvalidRepoURL is returned when a repository URL cannot be parsed
	// into an owner/name pair.
	ErrInvalidRepoURL = errors.New("service: invalid github repository url")
	// ErrInvalidProjectStatus is returned for a status outside the project
	// lifecycle.
	ErrInvalidProjectStatus = errors.New("service: invalid project status")
)

// ProjectRepository is the full persistence surface of the project
// collection.
type ProjectRepository interface {
	ProjectStore
	Insert(ctx context.Context, p models.Project) (string, error)
	ListByMember(ctx context.Context, userID string) ([]models.Project, error)
	UpdateStatus(ctx context.Context, id, status string) error
}

// UserDirectory resolves user profiles by id or email.
type UserDirectory interface {
	UserStore
	FindByEmail(ctx context.Context, email string) (models.User, error)
}

// CreateProjectInput carries the fields for a new project.
type CreateProjectInput struct {
	Name           string   `json:"name"`
	Description    string   `json:"description"`
	GithubRepoURL  string   `json:"githubRepoUrl"`
	MemberEmails   []string `json:"memberEmails"`
	CreatedBy      string   `json:"createdBy"`
	DeadlineInDays int      `json:"deadlineInDays"`
}

// CreateProjectResult pairs the created project with any member emails
// that did not resolve to a known user.
type CreateProjectResult struct {
	Project       models.Project `json:"project"`
	InvalidEmails []string       `json:"invalidEmails,omitempty"`
}

// ProjectService creates and manages projects. Creation links the project
// to its GitHub repository; the store's unique (owner, repo) index keeps
// webhook routing unambiguous.
type ProjectService struct {
	projects ProjectRepository
	users    UserDirectory
	log      zerolog.Logger
}

// NewProjectService wires dependencies.
func NewProjectService(projects ProjectRepository, users UserDirectory, log zerolog.Logger) *ProjectService {
	return &ProjectService{
		projects: projects,
		users:    users,
		log:      log.With().Str("component", "projects").Logger(),
	}
}

// Create stores a new project. The GitHub owner and repository name are
// parsed out of the repository URL, member emails are resolved to user
// ids (unknown emails are reported back, not fatal), and the creator is
// always a member. A repository already linked to another project is
// rejected with repository.ErrDuplicateRepo.
func (s *ProjectService) Create(ctx context.Context, in CreateProjectInput) (CreateProjectResult, error) {
	owner, repo, ok := github.RepoFromURL(in.GithubRepoURL)
	if !ok {
		return CreateProjectResult{}, ErrInvalidRepoURL
	}

	members := []string{in.CreatedBy}
	seen := map[string]bool{in.CreatedBy: true}
	var invalid []string
	for _, email := range in.MemberEmails {
		u, err := s.users.FindByEmail(ctx, email)
		if err != nil {
			if !errors.Is(err, repository.ErrNotFound) {
				s.log.Error().Err(err).Str("email", email).Msg("member lookup failed")
			}
			invalid = append(invalid, email)
			continue
		}
		if !seen[u.ID] {
			seen[u.ID] = true
			members = append(members, u.ID)
		}
	}

	p := models.Project{
		Name:          in.Name,
		Description:   in.Description,
		Status:        models.ProjectActive,
		CreatedBy:     in.CreatedBy,
		LeadID:        in.CreatedBy,
		Members:       members,
		GithubOwner:   owner,
		GithubRepo:    repo,
		GithubRepoURL: in.GithubRepoURL,
	}
	if in.DeadlineInDays > 0 {
		deadline := time.Now().UTC().AddDate(0, 0, in.DeadlineInDays)
		p.DeadlineAt = &deadline
	}

	id, err := s.projects.Insert(ctx, p)
	if err != nil {
		return CreateProjectResult{}, err
	}
	p.ID = id

	s.log.Info().Str("project_id", id).Str("repository", p.FullRepoName()).
		Int("members", len(members)).Msg("project created")
	return CreateProjectResult{Project: p, InvalidEmails: invalid}, nil
}

// Get fetches a project by id.
func (s *ProjectService) Get(ctx context.Context, id string) (models.Project, error) {
	return s.projects.FindByID(ctx, id)
}

// ListByMember returns the projects a user belongs to.
func (s *ProjectService) ListByMember(ctx context.Context, userID string) ([]models.Project, error) {
	return s.projects.ListByMember(ctx, userID)
}

// SetStatus moves a project through its lifecycle.
func (s *ProjectService) SetStatus(ctx context.Context, id, status string) error {
	switch status {
	case models.ProjectActive, models.ProjectOnHold, models.ProjectArchived:
	default:
		return ErrInvalidProjectStatus
	}
	return s.projects.UpdateStatus(ctx, id, status)
}
