package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"ontrackr/internal/repository"
	"ontrackr/internal/service"
)

// TaskHandler wires HTTP → TaskService.
type TaskHandler struct {
	svc *service.TaskService
}

// NewTaskHandler creates a TaskHandler instance.
func NewTaskHandler(svc *service.TaskService) *TaskHandler {
	return &TaskHandler{svc: svc}
}

// Register mounts the task routes on the given router group.
func (h *TaskHandler) Register(r fiber.Router) {
	r.Post("/tasks", h.create)
	r.Get("/projects/:id/tasks", h.listByProject)
	r.Patch("/tasks/:id/status", h.setStatus)
	r.Patch("/tasks/:id/deadline", h.setDeadline)
}

// create handles POST /tasks
func (h *TaskHandler) create(c *fiber.Ctx) error {
	var in service.CreateTaskInput
	if err := c.BodyParser(&in); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if in.Title == "" || in.ProjectID == "" || in.AssignedTo == "" {
		return fiber.NewError(fiber.StatusBadRequest, "title, projectId and assignedTo are required")
	}

	task, err := h.svc.Create(c.UserContext(), in)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
	return c.Status(fiber.StatusCreated).JSON(task)
}

// listByProject handles GET /projects/:id/tasks, optionally filtered by
// ?member=<userId>.
func (h *TaskHandler) listByProject(c *fiber.Ctx) error {
	projectID := c.Params("id")
	if projectID == "" {
		return fiber.NewError(fiber.StatusBadRequest, "project id is required")
	}

	if member := c.Query("member"); member != "" {
		tasks, err := h.svc.ListByMember(c.UserContext(), projectID, member)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.JSON(tasks)
	}

	tasks, err := h.svc.ListByProject(c.UserContext(), projectID)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
	return c.JSON(tasks)
}

// setStatus handles PATCH /tasks/:id/status
func (h *TaskHandler) setStatus(c *fiber.Ctx) error {
	var body struct {
		Status string `json:"status"`
	}
	if err := c.BodyParser(&body); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	err := h.svc.SetStatus(c.UserContext(), c.Params("id"), body.Status)
	switch {
	case errors.Is(err, service.ErrInvalidStatus):
		return fiber.NewError(fiber.StatusBadRequest, "invalid task status")
	case errors.Is(err, repository.ErrNotFound):
		return fiber.NewError(fiber.StatusNotFound, "task not found")
	case err != nil:
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
	return c.JSON(fiber.Map{"success": true})
}

// setDeadline handles PATCH /tasks/:id/deadline
func (h *TaskHandler) setDeadline(c *fiber.Ctx) error {
	var body struct {
		DeadlineInDays int `json:"deadlineInDays"`
	}
	if err := c.BodyParser(&body); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if body.DeadlineInDays <= 0 {
		return fiber.NewError(fiber.StatusBadRequest, "deadlineInDays must be positive")
	}

	err := h.svc.SetDeadline(c.UserContext(), c.Params("id"), body.DeadlineInDays)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return fiber.NewError(fiber.StatusNotFound, "task not found")
	case err != nil:
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
	return c.JSON(fiber.Map{"success": true})
}
