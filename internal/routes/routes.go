package routes

import (
	"fmt"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/chamabot/chamabot/internal/assistant"
	"github.com/chamabot/chamabot/internal/balance"
	"github.com/chamabot/chamabot/internal/config"
	"github.com/chamabot/chamabot/internal/contribution"
	"github.com/chamabot/chamabot/internal/member"
	"github.com/chamabot/chamabot/internal/middleware"
	"github.com/chamabot/chamabot/internal/outbound"
	"github.com/chamabot/chamabot/internal/reminder"
	"github.com/chamabot/chamabot/internal/router"
	"github.com/chamabot/chamabot/internal/webhook"
)

// Deps aggregates shared dependencies required to wire routes.
type Deps struct {
	Cfg    config.Config
	DB     *pgxpool.Pool
	Cache  *redis.Client
	Logger *slog.Logger
}

// Setup configures middlewares and all application routes.
func Setup(app *fiber.App, d Deps) error {
	// Enforce Postgres/Redis presence outside of dev, even though main also checks.
	if !d.Cfg.IsDev() {
		if d.DB == nil {
			return fmt.Errorf("database is required when APP_ENV=%s", d.Cfg.AppEnv)
		}
		if d.Cache == nil {
			return fmt.Errorf("redis is required when APP_ENV=%s", d.Cfg.AppEnv)
		}
	}

	// Middlewares
	app.Use(recover.New())
	app.Use(middleware.RequestID())
	app.Use(middleware.Audit(d.Logger))
	if d.Cache != nil {
		app.Use(middleware.Dedup(d.Cache, d.Cfg.DedupTTL, d.Logger))
	}

	// Health and metrics
	RegisterHealthRoutes(app, d)
	RegisterMetricsRoute(app)

	// Repositories
	var memberRepo member.Repository
	var contributionRepo contribution.Repository
	if d.DB != nil {
		memberRepo = member.NewPostgresRepository(d.DB)
		contributionRepo = contribution.NewPostgresRepository(d.DB)
	} else {
		memberRepo = member.NewMemoryRepository()
		contributionRepo = contribution.NewMemoryRepository()
	}

	// Services
	memberSvc := member.NewService(memberRepo)
	contributionSvc := contribution.NewService(contributionRepo)
	expected := balance.NewExpected(d.Cfg.ExpectedWelfare, d.Cfg.ExpectedEmergency, d.Cfg.ExpectedSavings)

	completer := assistant.NewOpenRouterClient(d.Cfg.AssistantAPIKey, d.Cfg.AssistantBaseURL, d.Cfg.AssistantModel)
	delegate := assistant.NewDelegate(completer, memberSvc, contributionSvc, d.Cfg.AssistantTimeout)

	var sender outbound.Sender
	if d.Cfg.TwilioAccountSID != "" {
		sender = outbound.NewTwilioSender(d.Cfg.TwilioAccountSID, d.Cfg.TwilioAuthToken, d.Cfg.TwilioWhatsAppNumber)
	} else {
		sender = outbound.NewLoggerSender(d.Logger)
	}

	intentRouter := router.New(memberSvc, contributionSvc, delegate, expected, d.Logger)
	job := reminder.NewJob(memberSvc, contributionSvc, expected, sender, d.Logger)
	handler := webhook.NewHandler(intentRouter, job)

	RegisterWebhookRoutes(app, handler, middleware.InboundRateLimit(d.Cache, 30))

	return nil
}
