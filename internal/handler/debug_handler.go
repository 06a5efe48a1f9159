package handler

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"

	"ontrackr/internal/models"
	"ontrackr/internal/repository"
	"ontrackr/internal/service"
)

// EventLister reads back the raw delivery audit log.
type EventLister interface {
	ListByProject(ctx context.Context, projectID string, limit int) ([]models.WebhookEvent, error)
}

// DebugHandler exposes a diagnostics view of a project's webhook wiring:
// its GitHub configuration, recent activity and recent raw deliveries.
type DebugHandler struct {
	projects   service.ProjectStore
	activities service.ActivityReader
	events     EventLister
}

// NewDebugHandler creates a DebugHandler instance.
func NewDebugHandler(projects service.ProjectStore, activities service.ActivityReader, events EventLister) *DebugHandler {
	return &DebugHandler{projects: projects, activities: activities, events: events}
}

// Register mounts GET /debug/github-activity on the given router group.
func (h *DebugHandler) Register(r fiber.Router) {
	r.Get("/debug/github-activity", h.githubActivity)
}

// githubActivity handles GET /debug/github-activity?projectId=
func (h *DebugHandler) githubActivity(c *fiber.Ctx) error {
	projectID := c.Query("projectId")
	if projectID == "" {
		return fiber.NewError(fiber.StatusBadRequest, "missing projectId parameter")
	}

	ctx := c.UserContext()
	project, err := h.projects.FindByID(ctx, projectID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "project not found")
		}
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	activities, err := h.activities.ListByProject(ctx, projectID, 10)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
	events, err := h.events.ListByProject(ctx, projectID, 5)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	hasConfig := project.GithubOwner != "" && project.GithubRepo != ""
	expected := "Not configured"
	if hasConfig {
		expected = project.FullRepoName()
	}

	return c.JSON(fiber.Map{
		"project": fiber.Map{
			"id":            project.ID,
			"name":          project.Name,
			"githubOwner":   project.GithubOwner,
			"githubRepo":    project.GithubRepo,
			"githubRepoUrl": project.GithubRepoURL,
		},
		"activitiesCount":   len(activities),
		"activities":        activities,
		"recentEventsCount": len(events),
		"recentEvents":      events,
		"diagnostics": fiber.Map{
			"hasGitHubConfig":    hasConfig,
			"expectedRepository": expected,
		},
	})
}
