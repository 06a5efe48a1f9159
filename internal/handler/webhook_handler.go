package handler

import (
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"ontrackr/internal/github"
	"ontrackr/internal/service"
)

// WebhookHandler receives GitHub webhook deliveries and hands them to the
// dispatcher.
type WebhookHandler struct {
	svc    *service.GitHubService
	secret string // empty disables signature verification
	log    zerolog.Logger
}

// NewWebhookHandler creates a WebhookHandler. An empty secret disables
// signature verification; deployments should always set one.
func NewWebhookHandler(svc *service.GitHubService, secret string, log zerolog.Logger) *WebhookHandler {
	return &WebhookHandler{
		svc:    svc,
		secret: secret,
		log:    log.With().Str("component", "webhook").Logger(),
	}
}

// Register mounts POST and GET /webhooks/github on the given router group.
func (h *WebhookHandler) Register(r fiber.Router) {
	r.Post("/webhooks/github", h.receive)
	r.Get("/webhooks/github", h.describe)
}

// receive handles POST /webhooks/github.
func (h *WebhookHandler) receive(c *fiber.Ctx) error {
	start := time.Now()

	event := c.Get(github.HeaderEvent)
	deliveryID := c.Get(github.HeaderDelivery)
	body := c.Body()

	h.log.Info().Str("event", event).Str("delivery_id", deliveryID).Msg("delivery received")

	// Signature check runs before any parsing.
	if h.secret != "" {
		if !github.VerifySignature(body, c.Get(github.HeaderSignature), h.secret) {
			h.log.Warn().Str("delivery_id", deliveryID).Msg("signature verification failed")
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid signature",
			})
		}
	}

	if event == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Missing event type",
		})
	}

	payload, err := github.ParsePayload(body)
	if err != nil {
		h.log.Warn().Err(err).Str("delivery_id", deliveryID).Msg("payload rejected")
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid payload",
		})
	}
	fullRepoName := payload.Repository.FullName

	// Ping is GitHub's liveness check: acknowledge without resolving a
	// project or persisting anything.
	if event == github.EventPing {
		return c.JSON(fiber.Map{
			"success":    true,
			"message":    "Webhook received successfully",
			"repository": fullRepoName,
		})
	}

	result, err := h.svc.Dispatch(c.UserContext(), event, deliveryID, payload, body)
	if err != nil {
		if errors.Is(err, service.ErrProjectNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error":      "Project not found for this repository",
				"repository": fullRepoName,
			})
		}
		h.log.Error().Err(err).Str("delivery_id", deliveryID).Msg("processing failed")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   "Webhook processing failed",
			"message": err.Error(),
		})
	}

	processing := fmt.Sprintf("%dms", time.Since(start).Milliseconds())
	h.log.Info().Str("delivery_id", deliveryID).
		Str("project_id", result.ProjectID).
		Str("processing_time", processing).
		Msg("delivery processed")

	return c.JSON(fiber.Map{
		"success":        true,
		"event":          result.Event,
		"projectId":      result.ProjectID,
		"projectName":    result.ProjectName,
		"repository":     result.Repository,
		"processingTime": processing,
	})
}

// describe handles GET /webhooks/github with static setup documentation.
func (h *WebhookHandler) describe(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":          "active",
		"endpoint":        "/api/webhooks/github",
		"supportedEvents": []string{"push", "pull_request", "issues"},
		"instructions": fiber.Map{
			"setup": []string{
				"1. Go to your GitHub repository settings",
				"2. Navigate to Webhooks section",
				"3. Click \"Add webhook\"",
				"4. Set Payload URL to: https://your-domain.com/api/webhooks/github",
				"5. Set Content type to: application/json",
				"6. Set the secret to your GITHUB_WEBHOOK_SECRET value",
				"7. Select events: Push, Pull requests, Issues",
				"8. Click \"Add webhook\"",
			},
		},
	})
}
