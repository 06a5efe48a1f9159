package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"ontrackr/internal/keywords"
	"ontrackr/internal/models"
)

// ErrInvalidStatus is returned for a status value outside the workflow.
var ErrInvalidStatus = errors.New("service: invalid task status")

// TaskRepository is the full task persistence surface the task service
// needs; it is a superset of the matcher's TaskStore.
type TaskRepository interface {
	TaskStore
	Insert(ctx context.Context, t models.Task) (string, error)
	FindByID(ctx context.Context, id string) (models.Task, error)
	ListByProject(ctx context.Context, projectID string) ([]models.Task, error)
	ListByMember(ctx context.Context, projectID, userID string) ([]models.Task, error)
	SetDeadline(ctx context.Context, id string, deadlineAt time.Time) error
}

// CreateTaskInput carries the fields a project lead supplies when creating
// a task.
type CreateTaskInput struct {
	Title          string `json:"title"`
	Description    string `json:"description,omitempty"`
	ProjectID      string `json:"projectId"`
	AssignedTo     string `json:"assignedTo"`
	AssignedToName string `json:"assignedToName,omitempty"`
	DeadlineInDays int    `json:"deadlineInDays,omitempty"`
}

// TaskService handles explicit task CRUD; the matcher owns event-driven
// status changes.
type TaskService struct {
	tasks TaskRepository
	log   zerolog.Logger
}

// NewTaskService wires dependencies.
func NewTaskService(tasks TaskRepository, log zerolog.Logger) *TaskService {
	return &TaskService{
		tasks: tasks,
		log:   log.With().Str("component", "tasks").Logger(),
	}
}

// Create stores a new To Do task. The keyword set is computed from the
// title once, here; the matcher never re-extracts it.
func (s *TaskService) Create(ctx context.Context, in CreateTaskInput) (models.Task, error) {
	now := time.Now().UTC()
	task := models.Task{
		Title:           in.Title,
		Description:     in.Description,
		Status:          models.StatusToDo,
		AssignedTo:      in.AssignedTo,
		AssignedToName:  in.AssignedToName,
		ProjectID:       in.ProjectID,
		Keywords:        keywords.Extract(in.Title),
		CreatedAt:       now,
		UpdatedAt:       now,
		ReminderEnabled: true,
		ReminderSent:    false,
	}
	if in.DeadlineInDays > 0 {
		deadline := now.AddDate(0, 0, in.DeadlineInDays)
		task.DeadlineAt = &deadline
	}

	id, err := s.tasks.Insert(ctx, task)
	if err != nil {
		return models.Task{}, err
	}
	task.ID = id

	s.log.Info().Str("task_id", id).Str("project_id", in.ProjectID).
		Strs("keywords", task.Keywords).Msg("task created")
	return task, nil
}

// ListByProject returns every task in a project.
func (s *TaskService) ListByProject(ctx context.Context, projectID string) ([]models.Task, error) {
	return s.tasks.ListByProject(ctx, projectID)
}

// ListByMember returns a member's tasks in a project.
func (s *TaskService) ListByMember(ctx context.Context, projectID, userID string) ([]models.Task, error) {
	return s.tasks.ListByMember(ctx, projectID, userID)
}

// SetStatus performs an explicit status change from the board. Unlike
// matcher transitions it may move a task in any direction.
func (s *TaskService) SetStatus(ctx context.Context, taskID, status string) error {
	switch status {
	case models.StatusToDo, models.StatusInReview, models.StatusDone:
	default:
		return ErrInvalidStatus
	}
	return s.tasks.UpdateStatus(ctx, taskID, status)
}

// SetDeadline moves a task's deadline the given number of days out and
// re-arms its reminder.
func (s *TaskService) SetDeadline(ctx context.Context, taskID string, days int) error {
	deadline := time.Now().UTC().AddDate(0, 0, days)
	return s.tasks.SetDeadline(ctx, taskID, deadline)
}
