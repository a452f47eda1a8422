// cmd/server/main.go
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/acebook/dashboard/internal/api/auth"
	"github.com/acebook/dashboard/internal/api/reservations"
	"github.com/acebook/dashboard/internal/backend"
	"github.com/acebook/dashboard/internal/config"
	"github.com/acebook/dashboard/internal/db"
	"github.com/acebook/dashboard/internal/email"
	"github.com/acebook/dashboard/internal/ratelimit"
	"github.com/acebook/dashboard/internal/scheduler"
)

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func setupLogger(cfg *config.Config) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if cfg.Features.EnableDebug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	if cfg.IsDevelopment() {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}
	log.Logger = log.With().Str("app", cfg.App.Name).Logger()
	zerolog.DefaultContextLogger = &log.Logger
}

func newEmailSender(cfg *config.Config) email.Sender {
	if !cfg.Features.EnableEmail {
		log.Info().Msg("Reservation emails disabled")
		return nil
	}
	client, err := email.NewSESClient(cfg.Email.AccessKeyID, cfg.Email.SecretAccessKey, cfg.Email.Region, cfg.Email.Sender)
	if err != nil {
		log.Warn().Err(err).Msg("SES not configured; reservation emails disabled")
		return nil
	}
	return client
}

func main() {
	cfg, err := config.Load(getEnv("CONFIG_PATH", "config.yaml"))
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	setupLogger(cfg)

	database, err := db.NewFromConfig(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open session database")
	}
	defer database.Close()

	client := backend.New(backend.Options{
		BaseURL:  cfg.Backend.BaseURL,
		Timeout:  cfg.BackendTimeout(),
		Location: cfg.Location(),
	})

	limiter := ratelimit.New(&ratelimit.Config{
		MaxAttempts:  cfg.Auth.LoginMaxAttempts,
		Lockout:      time.Duration(cfg.Auth.LoginLockoutMinutes) * time.Minute,
		MaxIPPerHour: ratelimit.DefaultConfig().MaxIPPerHour,
	})
	defer limiter.Close()

	dialogs := reservations.NewDialogRegistry(reservations.DefaultDialogTTL)

	if err := scheduler.Init(); err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize scheduler")
	}
	if err := scheduler.RegisterCleanupJobs(scheduler.CleanupJobs{
		SessionCron:   cfg.Scheduler.SessionCleanup,
		DialogCron:    cfg.Scheduler.DialogCleanup,
		PruneSessions: auth.PruneExpiredSessions,
		PruneDialogs:  dialogs.Prune,
	}); err != nil {
		log.Fatal().Err(err).Msg("Failed to register cleanup jobs")
	}

	server := newServer(cfg, serverDeps{
		queries: database.Queries,
		client:  client,
		limiter: limiter,
		dialogs: dialogs,
		mailer:  newEmailSender(cfg),
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := scheduler.Start(); err != nil {
			return fmt.Errorf("scheduler start: %w", err)
		}
		<-ctx.Done()
		return scheduler.Stop()
	})

	g.Go(func() error {
		log.Info().Int("port", cfg.App.Port).Str("backend", cfg.Backend.BaseURL).Msg("Starting server")
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout())
		defer cancel()

		log.Info().Msg("Shutting down server")
		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown error: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		log.Error().Err(err).Msg("Server terminated with error")
		os.Exit(1)
	}
}
