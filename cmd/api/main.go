package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/event-tickets/internal/api/http"
	"github.com/spec-kit/event-tickets/internal/api/http/handlers"
	"github.com/spec-kit/event-tickets/internal/config"
	"github.com/spec-kit/event-tickets/internal/domain"
	"github.com/spec-kit/event-tickets/internal/events"
	"github.com/spec-kit/event-tickets/internal/mail"
	"github.com/spec-kit/event-tickets/internal/oauth"
	"github.com/spec-kit/event-tickets/internal/observability"
	"github.com/spec-kit/event-tickets/internal/persistence"
	"github.com/spec-kit/event-tickets/internal/qr"
	"github.com/spec-kit/event-tickets/internal/repository"
	"github.com/spec-kit/event-tickets/internal/service"
	"github.com/spec-kit/event-tickets/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	metrics := observability.NewMetrics()

	pool := pg.PoolHandle()
	userRepo := repository.NewUserRepository(pool)
	ticketRepo := repository.NewTicketRepository(pool)

	mailer, err := mail.NewSMTPMailer(cfg.SMTP, logger)
	if err != nil {
		logger.Fatal("failed to build smtp client", zap.Error(err))
	}

	dispatcher := events.NewInMemoryDispatcher()

	identityService := service.NewIdentityService(userRepo, logger)
	issuanceService := service.NewIssuanceService(service.IssuanceDependencies{
		TicketRepo: ticketRepo,
		Codes:      qr.NewPNGGenerator(),
		Dispatcher: dispatcher,
		EventID:    cfg.Event.ID,
		Logger:     logger,
	})
	ticketService := service.NewTicketService(ticketRepo, logger)
	notificationService := service.NewNotificationService(mailer, logger, metrics, cfg.Event)
	worker.StartNotificationWorker(dispatcher, notificationService)

	provider := oauth.NewGoogleProvider(cfg.OAuth)
	states := oauth.NewStateManager(cfg.OAuth.StateSecret, cfg.OAuth.StateTTL(), oauth.NewRedisNonceStore(redis.Client))

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	healthHandler := handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis)
	oauthHandler := handlers.NewOAuthHandler(provider, states, identityService, issuanceService, cfg.Frontend.Origin, logger)
	registerHandler := handlers.NewRegisterHandler(identityService, issuanceService, cfg.Frontend.Origin)
	ticketsHandler := handlers.NewTicketsHandler(ticketService)
	eventsHandler := handlers.NewEventsHandler(domain.Event{
		ID:          cfg.Event.ID,
		Title:       cfg.Event.Title,
		Description: cfg.Event.Description,
	})

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:   healthHandler,
		OAuth:    oauthHandler,
		Register: registerHandler,
		Tickets:  ticketsHandler,
		Events:   eventsHandler,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
