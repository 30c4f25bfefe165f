// Package main is the entry point for the trip planner API server.
// Its sole responsibility is wiring dependencies together and starting the server.
// No business logic belongs here.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"

	"github.com/pkordes/trip-planner/backend/internal/config"
	"github.com/pkordes/trip-planner/backend/internal/handler"
	"github.com/pkordes/trip-planner/backend/internal/keepalive"
	"github.com/pkordes/trip-planner/backend/internal/middleware"
	"github.com/pkordes/trip-planner/backend/internal/notify"
	"github.com/pkordes/trip-planner/backend/internal/repo"
	"github.com/pkordes/trip-planner/backend/internal/service"
	"github.com/pkordes/trip-planner/backend/migrations"
)

func main() {
	// --- Config -----------------------------------------------------------
	cfg, err := config.Load()
	if err != nil {
		slog.Error("configuration error", "error", err)
		os.Exit(1)
	}

	// --- Logger -----------------------------------------------------------
	logger := newLogger(cfg)
	slog.SetDefault(logger)

	// --- Database ---------------------------------------------------------
	pool, err := pgxpool.New(context.Background(), cfg.DatabaseURL)
	if err != nil {
		logger.Error("failed to create database pool", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	if err := pool.Ping(context.Background()); err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}

	sqlDB := stdlib.OpenDBFromPool(pool)
	applied, err := migrations.Up(context.Background(), sqlDB)
	_ = sqlDB.Close()
	if err != nil {
		logger.Error("failed to apply migrations", "error", err)
		os.Exit(1)
	}
	logger.Info("database ready", "migrations_applied", applied)

	// --- Notifications ----------------------------------------------------
	notifier, err := notify.New(newTransport(cfg, logger), cfg.Mail.Locale, logger)
	if err != nil {
		logger.Error("failed to build notifier", "error", err)
		os.Exit(1)
	}

	// --- Services ---------------------------------------------------------
	trips := repo.NewTripRepo(pool)
	participants := repo.NewParticipantRepo(pool)
	apiURL := cfg.PublicAPIURL()

	srv := handler.NewServer(handler.Services{
		Trips:        service.NewTripService(trips, notifier, apiURL),
		Activities:   service.NewActivityService(trips, repo.NewActivityRepo(pool)),
		Links:        service.NewLinkService(trips, repo.NewLinkRepo(pool)),
		Participants: service.NewParticipantService(trips, participants, notifier, apiURL),
	}, cfg.WebBaseURL, logger)

	// --- Router -----------------------------------------------------------
	// RequestID → RealIP → SlogLogger → Recoverer → CORS → MaxBodySize.
	// The logger sits outside the recoverer so recovered panics are logged as 500s.
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewSlogLogger(logger))
	r.Use(middleware.NewRecoverer(logger))
	r.Use(middleware.NewCORSHandler(cfg.WebBaseURL))
	r.Use(middleware.NewMaxBodySizeHandler(middleware.DefaultMaxBodySize))
	r.Mount("/", srv.Routes())

	// --- Keep-alive -------------------------------------------------------
	var pinger *keepalive.Pinger
	if cfg.KeepAlive.Enabled {
		pinger, err = keepalive.New(apiURL, cfg.KeepAlive.Schedule, nil, logger)
		if err != nil {
			logger.Error("failed to schedule keep-alive", "error", err)
			os.Exit(1)
		}
		pinger.Start()
	}

	// --- HTTP Server ------------------------------------------------------
	httpSrv := &http.Server{
		Addr:         cfg.ListenAddr(),
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		logger.Info("HTTP server running", "addr", httpSrv.Addr, "env", cfg.Env)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-stop
	logger.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if pinger != nil {
		pinger.Stop(ctx)
	}
	if err := httpSrv.Shutdown(ctx); err != nil {
		logger.Error("shutdown error", "error", err)
		os.Exit(1)
	}
	logger.Info("server stopped")
}

// newLogger writes JSON lines at LOG_LEVEL, or at debug when DEBUG is set.
func newLogger(cfg config.Config) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		level = slog.LevelInfo
	}
	if cfg.Debug {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
}

// newTransport picks SMTP when SMTP_HOST is configured and the log
// transport otherwise, so local runs need no mail server.
func newTransport(cfg config.Config, logger *slog.Logger) notify.Transport {
	if cfg.Mail.SMTPHost == "" {
		logger.Info("SMTP_HOST not set; mail is logged instead of sent")
		return notify.NewLogTransport(logger)
	}
	t, err := notify.NewSMTPTransport(notify.SMTPConfig{
		Host:        cfg.Mail.SMTPHost,
		Port:        cfg.Mail.SMTPPort,
		Username:    cfg.Mail.SMTPUsername,
		Password:    cfg.Mail.SMTPPassword,
		FromName:    cfg.Mail.FromName,
		FromAddress: cfg.Mail.FromAddress,
	})
	if err != nil {
		logger.Error("invalid SMTP configuration", "error", err)
		os.Exit(1)
	}
	return t
}
