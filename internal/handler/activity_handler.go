package handler

import (
	"github.com/gofiber/fiber/v2"

	"ontrackr/internal/service"
)

// ActivityHandler wires HTTP → ActivityService.
type ActivityHandler struct {
	svc *service.ActivityService
}

// NewActivityHandler creates an ActivityHandler instance.
func NewActivityHandler(svc *service.ActivityService) *ActivityHandler {
	return &ActivityHandler{svc: svc}
}

// Register mounts the activity feed routes on the given router group.
func (h *ActivityHandler) Register(r fiber.Router) {
	r.Get("/projects/:id/activity", h.projectFeed)
	r.Get("/users/:username/activity", h.userFeed)
}

// projectFeed handles GET /projects/:id/activity?limit=n
func (h *ActivityHandler) projectFeed(c *fiber.Ctx) error {
	projectID := c.Params("id")
	if projectID == "" {
		return fiber.NewError(fiber.StatusBadRequest, "project id is required")
	}

	feed, err := h.svc.ProjectFeed(c.UserContext(), projectID, c.QueryInt("limit", 20))
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
	return c.JSON(feed)
}

// userFeed handles GET /users/:username/activity?limit=n
func (h *ActivityHandler) userFeed(c *fiber.Ctx) error {
	username := c.Params("username")
	if username == "" {
		return fiber.NewError(fiber.StatusBadRequest, "username is required")
	}

	feed, err := h.svc.UserFeed(c.UserContext(), username, c.QueryInt("limit", 10))
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
	return c.JSON(feed)
}
