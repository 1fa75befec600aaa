package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/lostfound-service/internal/api/http"
	"github.com/spec-kit/lostfound-service/internal/api/http/handlers"
	"github.com/spec-kit/lostfound-service/internal/auth"
	"github.com/spec-kit/lostfound-service/internal/config"
	"github.com/spec-kit/lostfound-service/internal/events"
	"github.com/spec-kit/lostfound-service/internal/observability"
	"github.com/spec-kit/lostfound-service/internal/persistence"
	"github.com/spec-kit/lostfound-service/internal/repository"
	"github.com/spec-kit/lostfound-service/internal/service"
	"github.com/spec-kit/lostfound-service/internal/storage"
	"github.com/spec-kit/lostfound-service/internal/worker"
)

type stores struct {
	collections service.Collections
	objects     repository.ObjectRepository
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger, cfg.App)
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

	if pg.Enabled() && cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.Pool, persistence.DefaultMigrationsDir, logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(ctx, cfg.Redis, logger)
	defer redis.Close()

	var sessions persistence.SessionStore
	if redis.Reachable {
		sessions = persistence.NewRedisSessionStore(redis.Client)
	} else {
		sessions = persistence.NewMemorySessionStore()
	}

	st := newStores(pg)
	metrics := observability.NewMetrics()
	dispatcher := events.NewInMemoryDispatcher()

	notifications := service.NewNotificationService(dispatcher, logger, cfg.Notification, cfg.App.PublicBaseURL)
	worker.StartNotificationWorker(notifications, logger)
	defer notifications.Stop()

	objectStore := storage.NewObjectStore(st.objects, cfg.App.PublicBaseURL, logger)

	authService := service.NewAuthService(cfg.Auth, service.AuthDependencies{
		Profiles:   st.collections.Profiles,
		Sessions:   sessions,
		Dispatcher: dispatcher,
		Logger:     logger,
	})

	hub := service.NewSessionHub(ctx, service.SessionHubDependencies{
		Auth: authService,
		Data: service.DataContextDependencies{
			Collections: st.collections,
			Store:       objectStore,
			ItemBucket:  cfg.Storage.ItemBucket,
			Dispatcher:  dispatcher,
			Recorder:    metrics,
			Logger:      logger,
		},
		AdminDomains: cfg.Auth.AdminEmailDomains,
		IdleTTL:      cfg.Session.IdleTTL(),
		Logger:       logger,
	})
	defer hub.Close()

	sweeperDone := worker.StartSessionSweeper(ctx, hub, cfg.Session.IdleTTL()/2, logger)

	app := fiber.New(fiber.Config{
		AppName:   cfg.App.Name,
		BodyLimit: cfg.Storage.MaxUploadBytes,
	})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout(), cfg.CORS.AllowedOrigins)

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Auth:           handlers.NewAuthHandler(authService),
		Categories:     handlers.NewCategoriesHandler(hub),
		Items:          handlers.NewItemsHandler(hub),
		Messages:       handlers.NewMessagesHandler(hub),
		Users:          handlers.NewUsersHandler(hub),
		Dashboard:      handlers.NewDashboardHandler(hub),
		Storage:        handlers.NewStorageHandler(objectStore),
		AuthMiddleware: auth.NewAuthMiddleware(hub),
		Metrics:        metrics,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	cancel()
	<-sweeperDone
	_ = app.ShutdownWithTimeout(10 * time.Second)
}

func newStores(pg *persistence.Postgres) stores {
	if !pg.Enabled() {
		return stores{
			collections: service.Collections{
				Categories: repository.NewMemoryCategoryRepository(),
				Items:      repository.NewMemoryItemRepository(),
				Messages:   repository.NewMemoryMessageRepository(),
				Profiles:   repository.NewMemoryProfileRepository(),
			},
			objects: repository.NewMemoryObjectRepository(),
		}
	}
	return stores{
		collections: service.Collections{
			Categories: repository.NewCategoryRepository(pg.Pool),
			Items:      repository.NewItemRepository(pg.Pool),
			Messages:   repository.NewMessageRepository(pg.Pool),
			Profiles:   repository.NewProfileRepository(pg.Pool),
		},
		objects: repository.NewObjectRepository(pg.Pool),
	}
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
