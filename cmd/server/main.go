// Command server runs ChatMan: it ingests a live chat into the message
// store, tracks per-user activity and serves the feed and review API.
//
// Shutdown is graceful on SIGINT/SIGTERM.
//
// @title           ChatMan API
// @version         1.0
// @description     Live chat capture, activity feed and review queue.
// @BasePath        /api/v1
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/JohnSOGO/ChatMan/internal/activity"
	"github.com/JohnSOGO/ChatMan/internal/config"
	httpapi "github.com/JohnSOGO/ChatMan/internal/http"
	"github.com/JohnSOGO/ChatMan/internal/http/handlers"
	"github.com/JohnSOGO/ChatMan/internal/ingest"
	"github.com/JohnSOGO/ChatMan/internal/observability"
	"github.com/JohnSOGO/ChatMan/internal/repo"
	"github.com/JohnSOGO/ChatMan/internal/services"
	"github.com/JohnSOGO/ChatMan/internal/sysutil"
)

const version = "1.0.0"

func main() {
	// local dev convenience; production uses the real environment
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		sysutil.SetupLogger("info", false, nil)
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	if err := run(cfg); err != nil {
		log.Error().Err(err).Msg("server exited")
		os.Exit(1)
	}
}

func run(cfg config.Config) error {
	logger := sysutil.SetupLogger(cfg.LogLevel, cfg.LogPretty, nil)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownOTel, err := observability.SetupOTel(ctx, cfg.OTEL, version)
	if err != nil {
		return fmt.Errorf("tracing setup: %w", err)
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := shutdownOTel(sctx); err != nil {
			logger.Warn().Err(err).Msg("tracer shutdown")
		}
	}()

	db, location, err := repo.Open(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("open message store %q: %w", cfg.DBPath, err)
	}
	if sqlDB, err := db.DB(); err == nil {
		defer sqlDB.Close()
	}
	if err := observability.InstrumentDB(db, cfg.OTEL); err != nil {
		logger.Warn().Err(err).Msg("store tracing disabled")
	}
	logger.Info().Str("path", location).Msg("message store ready")

	svc := services.NewMessageService(db)
	svc.DefaultLimit = cfg.Review.DefaultLimit
	svc.MaxLimit = cfg.Review.MaxLimit

	// feed and room stay nil interfaces when ingestion is off
	var (
		feed handlers.Snapshotter
		room handlers.RoomReporter
	)
	ingestDone := make(chan struct{})
	if cfg.Ingest.Enabled {
		adapter := &ingest.Adapter{Logger: logger.With().Str("component", "ingest").Logger()}
		if cfg.Ingest.TrackActivity {
			tracker := activity.NewTracker(activity.WithMaxEntries(cfg.Ingest.MaxUsers))
			adapter.Activity = tracker
			feed = tracker
		}
		if cfg.Ingest.Persist {
			adapter.Store = svc
		}
		room = adapter
		src := ingest.NewTwitchSource(cfg.Ingest.Channel, cfg.Ingest.Username, cfg.Ingest.OAuthToken, adapter)
		go func() {
			defer close(ingestDone)
			if err := src.Run(ctx); err != nil {
				adapter.Logger.Error().Err(err).Msg("ingestion stopped")
			}
		}()
	} else {
		close(ingestDone)
		logger.Info().Msg("ingestion disabled")
	}

	gin.SetMode(cfg.GinMode)
	r := gin.New()
	httpapi.RegisterRoutes(r, svc, feed, room, cfg)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
		MaxHeaderBytes:    cfg.MaxHeaderBytes,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", srv.Addr).Msg("http server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	var runErr error
	select {
	case <-ctx.Done():
		logger.Info().Msg("shutting down")
	case runErr = <-serveErr:
		if runErr != nil {
			runErr = fmt.Errorf("http server: %w", runErr)
		}
		stop()
	}

	sctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(sctx); err != nil {
		logger.Warn().Err(err).Msg("http shutdown")
	}
	select {
	case <-ingestDone:
	case <-sctx.Done():
		logger.Warn().Msg("ingestion did not stop in time")
	}
	return runErr
}
