package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"ontrackr/internal/models"
	"ontrackr/internal/repository"
	"ontrackr/internal/service"
)

// ProjectHandler wires HTTP → ProjectService.
type ProjectHandler struct {
	svc *service.ProjectService
}

// NewProjectHandler creates a ProjectHandler instance.
func NewProjectHandler(svc *service.ProjectService) *ProjectHandler {
	return &ProjectHandler{svc: svc}
}

// Register mounts the project routes on the given router group.
func (h *ProjectHandler) Register(r fiber.Router) {
	r.Post("/projects", h.create)
	r.Get("/projects/:id", h.get)
	r.Get("/users/:id/projects", h.listByMember)
	r.Patch("/projects/:id/status", h.setStatus)
}

// create handles POST /projects
func (h *ProjectHandler) create(c *fiber.Ctx) error {
	var in service.CreateProjectInput
	if err := c.BodyParser(&in); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if in.Name == "" || in.GithubRepoURL == "" || in.CreatedBy == "" {
		return fiber.NewError(fiber.StatusBadRequest, "name, githubRepoUrl and createdBy are required")
	}

	res, err := h.svc.Create(c.UserContext(), in)
	switch {
	case errors.Is(err, service.ErrInvalidRepoURL):
		return fiber.NewError(fiber.StatusBadRequest, "githubRepoUrl is not a valid GitHub repository URL")
	case errors.Is(err, repository.ErrDuplicateRepo):
		return fiber.NewError(fiber.StatusConflict, "repository is already linked to another project")
	case err != nil:
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
	return c.Status(fiber.StatusCreated).JSON(res)
}

// get handles GET /projects/:id
func (h *ProjectHandler) get(c *fiber.Ctx) error {
	project, err := h.svc.Get(c.UserContext(), c.Params("id"))
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return fiber.NewError(fiber.StatusNotFound, "project not found")
	case err != nil:
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
	return c.JSON(project)
}

// listByMember handles GET /users/:id/projects
func (h *ProjectHandler) listByMember(c *fiber.Ctx) error {
	projects, err := h.svc.ListByMember(c.UserContext(), c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
	if projects == nil {
		projects = []models.Project{}
	}
	return c.JSON(projects)
}

// setStatus handles PATCH /projects/:id/status
func (h *ProjectHandler) setStatus(c *fiber.Ctx) error {
	var body struct {
		Status string `json:"status"`
	}
	if err := c.BodyParser(&body); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	err := h.svc.SetStatus(c.UserContext(), c.Params("id"), body.Status)
	switch {
	case errors.Is(err, service.ErrInvalidProjectStatus):
		return fiber.NewError(fiber.StatusBadRequest, "invalid project status")
	case errors.Is(err, repository.ErrNotFound):
		return fiber.NewError(fiber.StatusNotFound, "project not found")
	case err != nil:
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
	return c.JSON(fiber.Map{"success": true})
}
