package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-console/internal/activity"
	httptransport "github.com/spec-kit/helpdesk-console/internal/api/http"
	"github.com/spec-kit/helpdesk-console/internal/api/http/handlers"
	"github.com/spec-kit/helpdesk-console/internal/auth"
	"github.com/spec-kit/helpdesk-console/internal/config"
	"github.com/spec-kit/helpdesk-console/internal/events"
	"github.com/spec-kit/helpdesk-console/internal/observability"
	"github.com/spec-kit/helpdesk-console/internal/persistence"
	"github.com/spec-kit/helpdesk-console/internal/repository"
	"github.com/spec-kit/helpdesk-console/internal/repository/memory"
	"github.com/spec-kit/helpdesk-console/internal/repository/postgres"
	"github.com/spec-kit/helpdesk-console/internal/service"
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

	var ticketRepo repository.TicketRepository
	if pool := pg.PoolHandle(); pool != nil {
		if cfg.Postgres.RunMigrations {
			if err := persistence.RunMigrations(ctx, pool, logger); err != nil {
				logger.Fatal("failed to run migrations", zap.Error(err))
			}
		}
		ticketRepo = postgres.NewTicketRepository(pool)
	} else {
		ticketRepo = memory.NewTicketStore()
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	feed := activity.NewFeed()
	dispatcher := events.NewInMemoryDispatcher()
	service.WireActivityFeed(dispatcher, feed)

	ticketService := service.NewTicketService(service.TicketDependencies{
		TicketRepo: ticketRepo,
		Dispatcher: dispatcher,
		Feed:       feed,
	})
	analyticsService := service.NewAnalyticsService(ticketRepo, redis.Client, logger, service.AnalyticsOptions{
		CacheTTL:      cfg.Analytics.CacheTTL(),
		TopIssueLimit: cfg.Analytics.TopIssueLimit,
		ForecastDays:  cfg.Analytics.ForecastDays,
		Baseline:      cfg.Analytics.ForecastBaseline,
		ForecastSeed:  cfg.Analytics.ForecastSeed,
	})

	if cfg.Demo.SeedSampleTickets {
		if err := service.SeedSampleTickets(ctx, ticketService); err != nil {
			logger.Warn("failed to seed sample tickets", zap.Error(err))
		} else {
			logger.Info("seeded sample tickets")
		}
	}

	adminHash, err := auth.ResolveAdminHash(cfg.Auth.AdminPasswordHash, cfg.Auth.AdminPassword, cfg.Auth.BcryptCost)
	if err != nil {
		logger.Fatal("failed to hash admin password", zap.Error(err))
	}

	tokenManager := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes)
	authMiddleware := auth.NewAuthMiddleware(tokenManager)

	metrics := observability.NewMetrics()
	app := fiber.New(fiber.Config{AppName: cfg.App.Name})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Auth:           handlers.NewAuthHandler(tokenManager, adminHash),
		Tickets:        handlers.NewTicketsHandler(ticketService),
		Analytics:      handlers.NewAnalyticsHandler(analyticsService),
		Activity:       handlers.NewActivityHandler(feed),
		AuthMiddleware: authMiddleware,
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
