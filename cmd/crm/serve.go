package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/spf13/cobra"

	"github.com/ngo-crm/feedback-crm/internal/api"
	"github.com/ngo-crm/feedback-crm/internal/api/metrics"
	"github.com/ngo-crm/feedback-crm/internal/core/service"
	infrahttp "github.com/ngo-crm/feedback-crm/internal/infrastructure/http"
	"github.com/ngo-crm/feedback-crm/internal/pkg/config"
	"github.com/ngo-crm/feedback-crm/pkg/logger"
)

const (
	devJWTSecret    = "dev-secret-change-me"
	shutdownTimeout = 10 * time.Second
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		return serve(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func serve(parent context.Context) error {
	cfg := config.Load()

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "feedback-crm",
		Env:     cfg.Env,
	})

	secret := cfg.JWTSecret
	if secret == "" {
		log.Warn().Msg("JWT_SECRET not set, using the development secret")
		secret = devJWTSecret
	}

	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, err := openStores(ctx, cfg, logger.For("storage"))
	if err != nil {
		return err
	}
	defer st.Close(context.Background())

	tasks := service.NewTaskService(st.tasks, st.guard, logger.For("tasks"))
	identity := service.NewIdentityService(st.users, st.sessions, logger.For("identity"),
		service.WithAssignmentReleaser(tasks),
		service.WithStaleSessionFallback(cfg.SessionStaleFallback),
	)

	e := api.NewRouter(api.Dependencies{
		Identity:  identity,
		Tasks:     tasks,
		Tokens:    service.NewTokenIssuer(secret, cfg.TokenTTL),
		JWTSecret: secret,
		Logger:    logger.For("http"),
	})
	e.Use(echoprometheus.NewMiddleware(metrics.Subsystem))
	infrahttp.RegisterHealthRoutes(e, version, st.checks)

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Str("storage", cfg.Storage).Str("sessions", cfg.SessionBackend).Msg("server starting")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
		return err
	}
	return nil
}
