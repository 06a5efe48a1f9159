package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"ontrackr/internal/repository"
	"ontrackr/internal/service"
)

// InviteHandler wires HTTP → InviteService.
type InviteHandler struct {
	svc *service.InviteService
}

// NewInviteHandler creates an InviteHandler instance.
func NewInviteHandler(svc *service.InviteService) *InviteHandler {
	return &InviteHandler{svc: svc}
}

// Register mounts the invite routes on the given router group.
func (h *InviteHandler) Register(r fiber.Router) {
	r.Post("/invites", h.create)
	r.Post("/invites/:token/accept", h.accept)
}

// create handles POST /invites
func (h *InviteHandler) create(c *fiber.Ctx) error {
	var body struct {
		ProjectID string `json:"projectId"`
		Email     string `json:"email"`
		InvitedBy string `json:"invitedBy"`
	}
	if err := c.BodyParser(&body); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if body.ProjectID == "" || body.Email == "" {
		return fiber.NewError(fiber.StatusBadRequest, "projectId and email are required")
	}

	inv, err := h.svc.Create(c.UserContext(), body.ProjectID, body.Email, body.InvitedBy)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return fiber.NewError(fiber.StatusNotFound, "project not found")
	case err != nil:
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
	return c.Status(fiber.StatusCreated).JSON(inv)
}

// accept handles POST /invites/:token/accept
func (h *InviteHandler) accept(c *fiber.Ctx) error {
	var body struct {
		UserID string `json:"userId"`
	}
	if err := c.BodyParser(&body); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if body.UserID == "" {
		return fiber.NewError(fiber.StatusBadRequest, "userId is required")
	}

	inv, err := h.svc.Accept(c.UserContext(), c.Params("token"), body.UserID)
	switch {
	case errors.Is(err, service.ErrInviteNotFound):
		return fiber.NewError(fiber.StatusNotFound, "invite not found")
	case errors.Is(err, service.ErrInviteUsed):
		return fiber.NewError(fiber.StatusConflict, "invite already accepted")
	case err != nil:
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
	return c.JSON(inv)
}
