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

	apihttp "github.com/novelistan/novelistan-api/internal/api/http"
	"github.com/novelistan/novelistan-api/internal/api/http/handlers"
	"github.com/novelistan/novelistan-api/internal/auth"
	"github.com/novelistan/novelistan-api/internal/cache"
	"github.com/novelistan/novelistan-api/internal/config"
	"github.com/novelistan/novelistan-api/internal/events"
	"github.com/novelistan/novelistan-api/internal/observability"
	"github.com/novelistan/novelistan-api/internal/persistence"
	"github.com/novelistan/novelistan-api/internal/repository"
	"github.com/novelistan/novelistan-api/internal/service"
	"github.com/novelistan/novelistan-api/internal/storage"
	"github.com/novelistan/novelistan-api/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("postgres connection failed", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("migrations failed", zap.Error(err))
		}
	}

	rds := persistence.NewRedis(cfg.Redis, logger)
	defer rds.Close()

	metrics := observability.NewMetrics()

	store, err := buildStore(ctx, cfg.Storage, metrics)
	if err != nil {
		logger.Fatal("storage init failed", zap.Error(err))
	}
	logger.Info("asset storage ready", zap.String("backend", cfg.Storage.Backend))

	pool := pg.PoolHandle()
	authorRepo := repository.NewAuthorRepository(pool)
	customerRepo := repository.NewCustomerRepository(pool)
	bookRepo := repository.NewBookRepository(pool)
	reviewRepo := repository.NewReviewRepository(pool)
	draftRepo := repository.NewDraftRepository(pool)

	dispatcher := events.NewInMemoryDispatcher()
	catalog := cache.NewCatalog(rds.Client, cfg.Cache.CatalogTTL(), logger)

	authService := service.NewAuthService(*cfg, service.AuthDependencies{
		AuthorRepo:   authorRepo,
		CustomerRepo: customerRepo,
		Store:        store,
	})
	bookService := service.NewBookService(service.BookDependencies{
		BookRepo:   bookRepo,
		Store:      store,
		Catalog:    catalog,
		Observer:   metrics,
		Dispatcher: dispatcher,
		Logger:     logger,
	})
	reviewService := service.NewReviewService(reviewRepo, bookRepo, dispatcher)
	draftService := service.NewDraftService(draftRepo, store, dispatcher)
	notificationService := service.NewNotificationService(dispatcher, logger, cfg.Notification)

	worker.StartNotificationWorker(notificationService)
	worker.StartCatalogInvalidator(dispatcher, catalog)

	authMiddleware := auth.NewAuthMiddleware(authService.TokenManager(), authorRepo, customerRepo)

	app := fiber.New(fiber.Config{
		AppName:               cfg.App.Name,
		DisableStartupMessage: cfg.App.Env == "production",
		BodyLimit:             64 * 1024 * 1024, // book PDFs
	})

	apihttp.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())
	apihttp.RegisterRoutes(app, apihttp.RouteConfig{
		Auth:        authMiddleware,
		Authors:     handlers.NewAuthorsHandler(authService),
		Customers:   handlers.NewCustomersHandler(authService),
		Books:       handlers.NewBooksHandler(bookService),
		Reviews:     handlers.NewReviewsHandler(reviewService),
		Drafts:      handlers.NewDraftsHandler(draftService),
		Health:      handlers.NewHealthHandler(cfg.App.Version, pool, rds, store),
		Diagnostics: handlers.NewDiagnosticsHandler(cfg.Diag, pool, store),
		Metrics:     metrics,
	})

	go func() {
		logger.Info("server listening", zap.String("addr", cfg.App.Addr()))
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("server stopped", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}
}

func buildStore(ctx context.Context, cfg config.StorageConfig, metrics *observability.Metrics) (storage.Store, error) {
	var (
		inner storage.Store
		err   error
	)
	switch cfg.Backend {
	case "s3":
		inner, err = storage.NewS3Store(ctx, cfg.S3)
	default:
		inner, err = storage.NewLocalStore(cfg.LocalDir)
	}
	if err != nil {
		return nil, err
	}
	return storage.Instrument(inner, cfg.Backend, metrics), nil
}
