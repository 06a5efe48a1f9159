package service

import (
	"context"

	"github.com/rs/zerolog"

	"ontrackr/internal/models"
)

// ActivityReader is the query side of the activity store.
type ActivityReader interface {
	ListByProject(ctx context.Context, projectID string, limit int) ([]models.GitHubActivity, error)
	ListByUsername(ctx context.Context, githubUsername string, limit int) ([]models.GitHubActivity, error)
}

// UserActivity is an activity record enriched with the owning project's
// name for cross-project feeds.
type UserActivity struct {
	models.GitHubActivity
	ProjectName string `json:"projectName,omitempty"`
}

// ActivityService serves the read-side activity feeds.
type ActivityService struct {
	activities ActivityReader
	projects   ProjectStore
	log        zerolog.Logger
}

// NewActivityService wires dependencies.
func NewActivityService(activities ActivityReader, projects ProjectStore, log zerolog.Logger) *ActivityService {
	return &ActivityService{
		activities: activities,
		projects:   projects,
		log:        log.With().Str("component", "activity").Logger(),
	}
}

// ProjectFeed returns a project's recent activity, newest first.
func (s *ActivityService) ProjectFeed(ctx context.Context, projectID string, limit int) ([]models.GitHubActivity, error) {
	if limit <= 0 {
		limit = 20
	}
	return s.activities.ListByProject(ctx, projectID, limit)
}

// UserFeed returns a user's recent activity across projects, each record
// annotated with its project name. A project lookup failure leaves the
// name blank rather than dropping the record.
func (s *ActivityService) UserFeed(ctx context.Context, githubUsername string, limit int) ([]UserActivity, error) {
	if limit <= 0 {
		limit = 10
	}
	records, err := s.activities.ListByUsername(ctx, githubUsername, limit)
	if err != nil {
		return nil, err
	}

	names := make(map[string]string)
	feed := make([]UserActivity, 0, len(records))
	for _, rec := range records {
		name, ok := names[rec.ProjectID]
		if !ok {
			project, err := s.projects.FindByID(ctx, rec.ProjectID)
			if err != nil {
				s.log.Warn().Err(err).Str("project_id", rec.ProjectID).Msg("project lookup failed")
			} else {
				name = project.Name
			}
			names[rec.ProjectID] = name
		}
		feed = append(feed, UserActivity{GitHubActivity: rec, ProjectName: name})
	}
	return feed, nil
}
