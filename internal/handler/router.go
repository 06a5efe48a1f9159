package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"ontrackr/internal/service"
)

// RegisterRoutes mounts every handler. The webhook lives under /api, the
// rest of the API under /api/v1.
func RegisterRoutes(app *fiber.App,
	githubSvc *service.GitHubService,
	projectSvc *service.ProjectService,
	taskSvc *service.TaskService,
	activitySvc *service.ActivityService,
	inviteSvc *service.InviteService,
	projects service.ProjectStore,
	activities service.ActivityReader,
	events EventLister,
	webhookSecret string,
	log zerolog.Logger,
) {
	api := app.Group("/api")
	NewWebhookHandler(githubSvc, webhookSecret, log).Register(api)

	v1 := app.Group("/api/v1")
	NewProjectHandler(projectSvc).Register(v1)
	NewTaskHandler(taskSvc).Register(v1)
	NewActivityHandler(activitySvc).Register(v1)
	NewInviteHandler(inviteSvc).Register(v1)
	NewDebugHandler(projects, activities, events).Register(v1)
}
