package main

import (
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/jsamuelsen/quote-reader/internal/adapters/http"
	"github.com/jsamuelsen/quote-reader/internal/adapters/http/handlers"
	"github.com/jsamuelsen/quote-reader/internal/platform/telemetry"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP server",
	Long: `Run the web server: pages at /, /quotes and /settings, the JSON API under
/api, and probes, build info and metrics under /-/.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	logger := newLogger(cfg)

	logger.Info("starting service",
		slog.String("version", Version),
		slog.String("commit", Commit),
		slog.String("environment", cfg.App.Environment),
		slog.String("speech_provider", cfg.Speech.Provider),
	)

	telProvider, err := telemetry.New(ctx, &telemetry.Config{
		Enabled:        cfg.Telemetry.Enabled,
		Endpoint:       cfg.Telemetry.Endpoint,
		ServiceName:    cfg.Telemetry.ServiceName,
		Version:        cfg.App.Version,
		Environment:    cfg.App.Environment,
		SamplingRate:   cfg.Telemetry.SamplingRate,
		SpeechProvider: cfg.Speech.Provider,
		Logger:         logger,
	})
	if err != nil {
		return fmt.Errorf("initializing telemetry: %w", err)
	}

	defer func() {
		if shutdownErr := telProvider.Shutdown(ctx); shutdownErr != nil {
			logger.Error("telemetry shutdown error", slog.Any("error", shutdownErr))
		}
	}()

	comps, err := buildComponents(cfg, logger, prometheus.DefaultRegisterer)
	if err != nil {
		return err
	}

	buildInfo := handlers.NewBuildInfo(Version, Commit, BuildTime)

	server := http.New(&cfg.Server, logger)

	http.SetupRouter(server.Engine(), http.RouterConfig{
		ServiceName: cfg.Telemetry.ServiceName,
		Auth:        &cfg.Auth,
		Timeout:     cfg.Server.RequestTimeout,
		Health:      handlers.NewHealthHandler(comps.health, buildInfo),
		Pages:       handlers.NewPageHandler(cfg.Static.Dir),
		Quotes:      handlers.NewQuoteHandler(comps.quotes),
		Speech:      handlers.NewSpeechHandler(comps.speech),
		Settings:    handlers.NewSettingsHandler(comps.settings),
	})

	runCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := server.Run(runCtx); err != nil {
		return err
	}

	logger.Info("shutdown complete")

	return nil
}
