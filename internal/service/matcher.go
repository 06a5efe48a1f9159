package service

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"ontrackr/internal/keywords"
	"ontrackr/internal/models"
)

// TaskStore is the slice of the task repository the matcher needs.
type TaskStore interface {
	ListByStatus(ctx context.Context, projectID, status string) ([]models.Task, error)
	UpdateStatus(ctx context.Context, id, status string) error
}

// TaskMatcher advances task status when commit or PR text overlaps a
// task's keyword set and the actor is the task's assignee.
//
// Transitions are forward-only:
//
//	To Do     --commit, non-default branch--> In Review
//	To Do     --commit, default branch-----> Done
//	In Review --merged PR, default branch--> Done
//
// Done is terminal.
type TaskMatcher struct {
	tasks TaskStore
	users UserStore
	log   zerolog.Logger
}

// NewTaskMatcher wires dependencies.
func NewTaskMatcher(tasks TaskStore, users UserStore, log zerolog.Logger) *TaskMatcher {
	return &TaskMatcher{
		tasks: tasks,
		users: users,
		log:   log.With().Str("component", "matcher").Logger(),
	}
}

// MatchCommit advances To Do tasks matching a commit authored by
// githubUsername. Commits on a default branch move tasks straight to Done;
// any other branch moves them to In Review. Returns how many tasks moved.
func (m *TaskMatcher) MatchCommit(ctx context.Context, projectID, message, githubUsername string, defaultBranch bool) (int, error) {
	target := models.StatusInReview
	if defaultBranch {
		target = models.StatusDone
	}
	return m.match(ctx, projectID, models.StatusToDo, target, message, githubUsername)
}

// MatchMerge advances In Review tasks matching a merged pull request's
// title and body, authored by githubUsername. Matched tasks move to Done.
func (m *TaskMatcher) MatchMerge(ctx context.Context, projectID, title, body, githubUsername string) (int, error) {
	return m.match(ctx, projectID, models.StatusInReview, models.StatusDone, title+" "+body, githubUsername)
}

// match runs one matching pass. Candidates are queried freshly so a task
// already moved by an earlier event in the same batch is out of the pool.
// Any single shared keyword qualifies; multiple tasks may move from one
// event. Per-task failures are logged and skipped.
func (m *TaskMatcher) match(ctx context.Context, projectID, from, to, text, githubUsername string) (int, error) {
	eventKeywords := keywords.Extract(text)

	candidates, err := m.tasks.ListByStatus(ctx, projectID, from)
	if err != nil {
		return 0, err
	}

	m.log.Debug().
		Str("project_id", projectID).
		Str("from", from).Str("to", to).
		Strs("keywords", eventKeywords).
		Int("candidates", len(candidates)).
		Msg("matching tasks")

	moved := 0
	for _, task := range candidates {
		// A task whose title was all stop words has no keywords and
		// can never match.
		if len(task.Keywords) == 0 {
			continue
		}

		assignee, err := m.users.FindByID(ctx, task.AssignedTo)
		if err != nil {
			m.log.Warn().Err(err).Str("task_id", task.ID).
				Str("user_id", task.AssignedTo).Msg("assignee lookup failed")
			continue
		}
		if assignee.GithubUsername == "" || !strings.EqualFold(assignee.GithubUsername, githubUsername) {
			continue
		}

		if !keywords.Overlaps(task.Keywords, eventKeywords) {
			continue
		}

		if err := m.tasks.UpdateStatus(ctx, task.ID, to); err != nil {
			m.log.Error().Err(err).Str("task_id", task.ID).Msg("status update failed")
			continue
		}
		moved++
		m.log.Info().
			Str("task_id", task.ID).
			Str("title", task.Title).
			Str("status", to).
			Str("github_username", githubUsername).
			Msg("task advanced")
	}
	return moved, nil
}
