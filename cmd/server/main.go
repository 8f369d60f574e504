// cmd/server/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/codr1/footy/internal/config"
	"github.com/codr1/footy/internal/db"
	"github.com/codr1/footy/internal/email"
	"github.com/codr1/footy/internal/metrics"
	"github.com/codr1/footy/internal/picker"
	"github.com/codr1/footy/internal/ratelimit"
	"github.com/codr1/footy/internal/scheduler"
)

func setupLogger(cfg *config.Config) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if cfg.Features.EnableDebug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	if cfg.App.Environment == "development" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}
	log.Logger = log.With().Str("app", cfg.App.Name).Logger()
	// log.Ctx falls back to the global logger outside request scope.
	zerolog.DefaultContextLogger = &log.Logger
}

func newEmailSender(cfg *config.Config) (email.EmailSender, error) {
	if !cfg.Email.Enabled {
		log.Warn().Msg("Email delivery disabled, team announcements will only be logged")
		return email.LogSender{}, nil
	}
	return email.NewSESClient(cfg.Email.AccessKeyID, cfg.Email.SecretAccessKey, cfg.Email.Region, cfg.Email.Sender)
}

func main() {
	configPath := flag.String("config", "config/app.yaml", "Path to the YAML configuration file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal().Err(err).Str("config", *configPath).Msg("Failed to load configuration")
	}

	setupLogger(cfg)

	database, err := db.NewFromConfig(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open database")
	}
	defer database.Close()

	sender, err := newEmailSender(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize email sender")
	}
	broadcaster, err := email.NewBroadcaster(database.Queries, sender)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize team email broadcaster")
	}

	store, err := picker.NewSQLStore(database)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize picker store")
	}

	var metricsManager *metrics.Manager
	engineOpts := []picker.Option{
		picker.WithBaseURL(cfg.App.BaseURL),
		picker.WithBirthYearCutoff(cfg.Picker.BirthYearCutoff),
		picker.WithMaxCandidates(cfg.Picker.MaxCandidates),
		picker.WithAverageConcurrency(cfg.Picker.AverageConcurrency),
	}
	if cfg.Features.EnableMetrics {
		metricsManager = metrics.NewManager(metrics.WithRuntimeCollectors())
		engineOpts = append(engineOpts, picker.WithRecorder(metricsManager))
	}

	engine, err := picker.NewEngine(store, broadcaster, engineOpts...)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize picker engine")
	}

	limiter := ratelimit.New(&ratelimit.Config{Cooldown: cfg.Picker.ResubmitCooldown})
	defer limiter.Close()

	if cfg.Picker.AutoPickCron != "" {
		if err := scheduler.Init(); err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize scheduler")
		}
		svc, err := scheduler.ServiceInstance()
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to load scheduler")
		}
		var skipped scheduler.SkipRecorder
		if metricsManager != nil {
			skipped = metricsManager
		}
		if err := svc.RegisterAutoPickJob(engine, cfg.Picker.AutoPickCron, skipped); err != nil {
			log.Fatal().Err(err).Msg("Failed to register auto pick job")
		}
		if err := scheduler.Start(); err != nil {
			log.Fatal().Err(err).Msg("Failed to start scheduler")
		}
		defer func() {
			if err := scheduler.Stop(); err != nil {
				log.Error().Err(err).Msg("Failed to stop scheduler")
			}
		}()
	}

	server := newServer(cfg, engine, limiter, metricsManager)

	// Setup graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	// Run server
	g.Go(func() error {
		log.Info().Int("port", cfg.App.Port).Str("environment", cfg.App.Environment).Msg("Starting server")
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	// Wait for interrupt signal
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
