package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/adaptor/v2"
	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	fiberrecover "github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/swagger"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"catalogapi/docs"
	"catalogapi/internal/auth"
	"catalogapi/internal/config"
	"catalogapi/internal/database"
	"catalogapi/internal/database/migration"
	handlers "catalogapi/internal/http/handler"
	"catalogapi/internal/http/middleware"
	"catalogapi/internal/otel"
	"catalogapi/internal/repository/postgres"
	"catalogapi/internal/service"
	"catalogapi/internal/storage"
	"catalogapi/internal/tasks"
)

const version = "1.0.0"

// @title Catalog API
// @version 1.0
// @description Product catalog service with attachments, accounts, and webhooks.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and a token obtained from /auth/login.
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name X-API-Key
func main() {
	// Load configuration from environment variables (.env auto-loaded if present)
	cfg := config.Load()
	loc := time.UTC

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Tracing first, so everything below inherits the global provider
	shutdownTracing, err := otel.Init(ctx, loc)
	if err != nil {
		log.Fatalf("failed to initialize tracing: %v", err)
	}

	// PostgreSQL connection (pooled via database/sql, instrumented with otelsql)
	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := migration.EnsureMigrated(ctx, db, loc, cfg.Database.Host); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	// Reusable S3-compatible object storage client (MinIO-supported)
	objStore, err := storage.NewMinIOStore(ctx, cfg.MinIO)
	if err != nil {
		log.Fatalf("failed to initialize object storage: %v", err)
	}

	tokenIssuer, err := auth.NewTokenIssuer(
		cfg.Auth.JWTSecret,
		cfg.Auth.JWTIssuer,
		time.Duration(cfg.Auth.TokenTTLMin)*time.Minute,
	)
	if err != nil {
		log.Fatalf("failed to initialize token issuer: %v", err)
	}

	// One registry carries HTTP and task metrics plus runtime collectors
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	promMiddleware, err := middleware.NewPrometheusMiddleware(registry)
	if err != nil {
		log.Fatalf("failed to register http metrics: %v", err)
	}

	// Background runner delivers webhook events off the request path
	runner, err := tasks.NewRunner(cfg.Tasks, loc, registry)
	if err != nil {
		log.Fatalf("failed to register task metrics: %v", err)
	}
	runner.Start()
	events := tasks.NewProductEvents(runner, tasks.NewWebhookNotifier(cfg.Tasks.WebhookURL))

	// Repositories and services
	productRepo := postgres.NewProductPostgres(db)
	userRepo := postgres.NewUserPostgres(db)
	attachmentRepo := postgres.NewAttachmentPostgres(db)

	productSvc := service.NewProductService(productRepo, events)
	authSvc := service.NewAuthService(userRepo, tokenIssuer, cfg.Auth.BcryptCost)
	attachmentSvc := service.NewAttachmentService(objStore, attachmentRepo, productRepo)

	app := fiber.New(fiber.Config{
		AppName:      "catalogapi",
		ErrorHandler: handlers.ErrorHandler(),
		BodyLimit:    cfg.BodyLimitMB * 1024 * 1024,
	})

	// Register global middleware
	app.Use(fiberrecover.New())
	app.Use(middleware.RequestID())
	app.Use(middleware.Logger(loc))
	app.Use(otelfiber.Middleware())
	app.Use(promMiddleware.Handler())
	app.Use(middleware.CORS(cfg.CORS))
	app.Use(middleware.AppVersion(version))

	// Register HTTP routes with injected services
	handlers.RegisterRoutes(app, handlers.Deps{
		DB:          db,
		Products:    productSvc,
		Auth:        authSvc,
		Attachments: attachmentSvc,
		TokenParser: tokenIssuer,
		APIKeys:     cfg.Auth.APIKeys,
	})

	// Prometheus scrape endpoint
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	// Swagger UI with dynamic host and scheme
	app.Get("/swagger/*", func(c *fiber.Ctx) error {
		scheme := c.Protocol()
		if proto := c.Get("X-Forwarded-Proto"); proto != "" {
			scheme = strings.Split(proto, ",")[0]
		}

		docs.SwaggerInfo.Host = c.Get("Host")
		docs.SwaggerInfo.Schemes = []string{scheme}

		return swagger.HandlerDefault(c)
	})

	app.Hooks().OnListen(func(ld fiber.ListenData) error {
		logEvent(loc, "server_started", map[string]any{
			"host":    ld.Host,
			"port":    ld.Port,
			"version": version,
		})
		return nil
	})
	app.Hooks().OnShutdown(func() error {
		logEvent(loc, "server_stopping", nil)
		return nil
	})

	// Serve until a shutdown signal arrives
	errCh := make(chan error, 1)
	go func() {
		errCh <- app.Listen(":" + cfg.Port)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			log.Fatalf("failed to start server: %v", err)
		}
	case <-ctx.Done():
	}

	if err := app.Shutdown(); err != nil {
		logEvent(loc, "server_shutdown_error", map[string]any{"error": err.Error()})
	}

	// Let queued webhook deliveries finish before the process exits
	drainCtx, cancel := context.WithTimeout(context.Background(),
		time.Duration(cfg.Tasks.DrainTimeoutSec)*time.Second)
	defer cancel()
	if err := runner.Drain(drainCtx); err != nil {
		logEvent(loc, "tasks_drain_error", map[string]any{"error": err.Error()})
	}

	if err := shutdownTracing(context.Background()); err != nil {
		logEvent(loc, "tracing_shutdown_error", map[string]any{"error": err.Error()})
	}

	logEvent(loc, "server_stopped", nil)
}
