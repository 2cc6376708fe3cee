package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/maxviazov/campaign-site/internal/config"
	"github.com/maxviazov/campaign-site/internal/handler"
	"github.com/maxviazov/campaign-site/internal/hub"
	"github.com/maxviazov/campaign-site/internal/logger"
	"github.com/maxviazov/campaign-site/internal/repository"
	"github.com/maxviazov/campaign-site/internal/repository/memory"
	"github.com/maxviazov/campaign-site/internal/repository/postgres"
	"github.com/maxviazov/campaign-site/internal/service"
	"github.com/rs/zerolog"
)

func main() {
	path := os.Getenv("APP_CONFIG_PATH")
	if path == "" {
		path = "config.yaml"
	}

	// Load application config
	cfg, err := config.Load(path)
	if err != nil {
		log.Fatalf("❌ Config loading failed: %v", err)
	}

	// Initialize logger
	cfg.Logger.Env = cfg.App.Env
	cfg.Logger.ServiceName = cfg.App.Name
	cfg.Logger.ServiceVersion = cfg.App.Version
	appLogger, err := logger.New(&cfg.Logger)
	if err != nil {
		log.Fatalf("❌ Logger initialization failed: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, appLogger); err != nil {
		appLogger.Fatal().Err(err).Msg("service stopped with error")
	}
	appLogger.Info().Msg("👋 Service stopped")
}

func run(ctx context.Context, cfg *config.Config, appLogger zerolog.Logger) error {
	store, closeStore, err := openStore(ctx, cfg, appLogger)
	if err != nil {
		return err
	}
	defer closeStore()

	visitorHub := hub.New(appLogger)
	hubCtx, stopHub := context.WithCancel(context.Background())
	defer stopHub()
	go visitorHub.Run(hubCtx)

	if cfg.Auth.AdminToken == "" {
		appLogger.Warn().Msg("admin token not set; admin routes are open")
	}

	if cfg.App.Env == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	handler.Register(r, handler.Deps{
		Pinger:   store.Pinger,
		Photos:   service.NewPhotoService(store.Photos, appLogger),
		Videos:   service.NewVideoService(store.Videos, appLogger),
		Press:    service.NewPressService(store.Press, appLogger),
		Contact:  service.NewContactService(store.Contact, appLogger),
		Visitors: service.NewVisitorService(store.Visitors, store.Tx, visitorHub, appLogger),
		Stream:   visitorHub,
		HTTP:     cfg.HTTP,
		Auth:     cfg.Auth,
		Logger:   appLogger,
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		appLogger.Info().Str("addr", srv.Addr).Str("storage", cfg.Storage.Driver).Msg("🚀 Service started")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	appLogger.Info().Msg("shutting down")
	// hub first so websocket subscribers do not hold Shutdown open
	stopHub()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownTimeout)*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}
	return nil
}

// openStore builds the repository set for the configured driver.
func openStore(ctx context.Context, cfg *config.Config, appLogger zerolog.Logger) (repository.Store, func(), error) {
	if cfg.Storage.Driver == "memory" {
		appLogger.Warn().Msg("using in-memory storage; data is lost on restart")
		return memory.NewStore(), func() {}, nil
	}

	conn, err := repository.New(ctx, cfg, &appLogger)
	if err != nil {
		return repository.Store{}, nil, fmt.Errorf("postgres connection failed: %w", err)
	}
	if cfg.Storage.Migrate {
		if err := postgres.Migrate(ctx, conn.Pool()); err != nil {
			conn.Close()
			return repository.Store{}, nil, fmt.Errorf("migrations failed: %w", err)
		}
		appLogger.Info().Msg("✅ Migrations applied")
	}
	return postgres.NewStore(conn.Pool()), conn.Close, nil
}
