package main

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"ontrackr/internal/config"
	"ontrackr/internal/database"
	"ontrackr/internal/handler"
	"ontrackr/internal/logger"
	"ontrackr/internal/middleware"
	"ontrackr/internal/repository"
	"ontrackr/internal/service"
)

// main is the single entry-point for the REST API.
func main() {
	// Load configuration
	cfg := config.Load()
	log := logger.New(cfg)
	log.Info().
		Str("db", cfg.DBName).
		Bool("signature_verification", cfg.WebhookSecret != "").
		Bool("membership_fail_open", cfg.MembershipFailOpen).
		Msg("configuration loaded")

	if cfg.WebhookSecret == "" {
		log.Warn().Msg("GITHUB_WEBHOOK_SECRET not set; webhook signature verification disabled")
	}

	// Connect to MongoDB
	client, cleanup, err := database.Connect(cfg.MongoURI)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to MongoDB")
	}
	defer cleanup()
	log.Info().Msg("connected to MongoDB")

	// Initialize repositories
	db := client.Database(cfg.DBName)
	projectRepo := repository.NewProjectRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	userRepo := repository.NewUserRepository(db)
	activityRepo := repository.NewActivityRepository(db)
	eventRepo := repository.NewEventRepository(db)
	inviteRepo := repository.NewInviteRepository(db)

	// Uniqueness constraints live in the store: one project per (owner,
	// repo), one activity record per idempotency key.
	if err := projectRepo.EnsureIndexes(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("failed to create project indexes")
	}
	if err := activityRepo.EnsureIndexes(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("failed to create activity indexes")
	}

	// Initialize services
	guard := service.NewMembershipGuard(projectRepo, userRepo, cfg.MembershipFailOpen, log)
	matcher := service.NewTaskMatcher(taskRepo, userRepo, log)
	githubSvc := service.NewGitHubService(projectRepo, activityRepo, eventRepo, guard, matcher, log)
	projectSvc := service.NewProjectService(projectRepo, userRepo, log)
	taskSvc := service.NewTaskService(taskRepo, log)
	activitySvc := service.NewActivityService(activityRepo, projectRepo, log)
	inviteSvc := service.NewInviteService(inviteRepo, projectRepo, service.LogMailer{Log: log}, log)

	// Create Fiber app
	app := fiber.New(fiber.Config{
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	})

	// Add middleware
	app.Use(recover.New())
	app.Use(middleware.Logging(log))

	// Register routes
	handler.RegisterRoutes(app, githubSvc, projectSvc, taskSvc, activitySvc, inviteSvc,
		projectRepo, activityRepo, eventRepo, cfg.WebhookSecret, log)

	// Add health check
	handler.NewHealthHandler(client).Register(app)

	// Start server
	log.Info().Str("port", cfg.Port).Msg("server starting")
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("server failed to start")
	}
}
