package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	firebase "firebase.google.com/go/v4"
	"go.uber.org/zap"

	"github.com/l4nzaerol/balagbag/internal/admin/httpserver"
	"github.com/l4nzaerol/balagbag/internal/admin/httpserver/middleware"
	"github.com/l4nzaerol/balagbag/internal/admin/orders"
	"github.com/l4nzaerol/balagbag/internal/admin/production"
	"github.com/l4nzaerol/balagbag/internal/admin/store"
	"github.com/l4nzaerol/balagbag/internal/admin/workflow"
)

func main() {
	rootCtx := context.Background()

	logger, err := buildLogger(getEnv("LOG_LEVEL", "info"), getEnv("ENV", "production"))
	if err != nil {
		log.Fatalf("failed to initialise logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	backend, gate := buildBackend(logger)

	st := store.NewStore()
	controller := store.NewController(backend, st, syncInterval(logger), logger)
	engine := workflow.NewEngine(backend, gate, controller, logger)

	srv := httpserver.New(httpserver.Config{
		Address:       getEnv("ADMIN_HTTP_ADDR", ":8080"),
		BasePath:      getEnv("ADMIN_BASE_PATH", "/admin"),
		Authenticator: buildAuthenticator(rootCtx, logger),
		Logger:        logger,
		Store:         st,
		Controller:    controller,
		Engine:        engine,
		Gate:          gate,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go controller.Run(ctx)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("http server failed", zap.Error(err))
		}
	}()

	logger.Info("admin server listening",
		zap.String("address", srv.Addr),
		zap.String("basePath", getEnv("ADMIN_BASE_PATH", "/admin")),
	)

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
		cancel()
		stop()
		os.Exit(1)
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func buildLogger(level, env string) (*zap.Logger, error) {
	parsed, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return nil, err
	}

	var config zap.Config
	if env == "development" {
		config = zap.NewDevelopmentConfig()
	} else {
		config = zap.NewProductionConfig()
	}
	config.Level = parsed

	return config.Build()
}

func syncInterval(logger *zap.Logger) time.Duration {
	raw := os.Getenv("SYNC_INTERVAL")
	if raw == "" {
		return store.DefaultInterval
	}
	interval, err := time.ParseDuration(raw)
	if err != nil || interval <= 0 {
		logger.Warn("invalid SYNC_INTERVAL, using default", zap.String("value", raw))
		return store.DefaultInterval
	}
	return interval
}

// buildBackend selects the HTTP backend when configured and falls back to the
// static in-memory services for local development.
func buildBackend(logger *zap.Logger) (orders.Service, production.Gate) {
	backendURL := os.Getenv("BACKEND_API_URL")
	if backendURL == "" {
		logger.Warn("BACKEND_API_URL not set; using static order data")
		return orders.NewStaticService(), production.NewStaticGate()
	}

	token := os.Getenv("BACKEND_API_TOKEN")

	backend, err := orders.NewHTTPService(backendURL, token, nil)
	if err != nil {
		logger.Fatal("failed to initialise backend client", zap.Error(err))
	}

	trackerURL := getEnv("PRODUCTION_API_URL", backendURL)
	gate, err := production.NewHTTPGate(trackerURL, token, nil, logger)
	if err != nil {
		logger.Fatal("failed to initialise production gate", zap.Error(err))
	}

	return backend, gate
}

func buildAuthenticator(ctx context.Context, logger *zap.Logger) middleware.Authenticator {
	projectID := os.Getenv("FIREBASE_PROJECT_ID")
	if projectID == "" {
		logger.Warn("FIREBASE_PROJECT_ID not set; using passthrough authenticator")
		return nil
	}

	app, err := firebase.NewApp(ctx, &firebase.Config{
		ProjectID: projectID,
	})
	if err != nil {
		logger.Error("failed to initialise Firebase app", zap.Error(err))
		return nil
	}

	client, err := app.Auth(ctx)
	if err != nil {
		logger.Error("failed to initialise Firebase auth client", zap.Error(err))
		return nil
	}

	logger.Info("Firebase authenticator enabled", zap.String("project", projectID))
	return middleware.NewFirebaseAuthenticator(client)
}
