package main

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/jsamuelsen/quote-reader/internal/adapters/clients"
	"github.com/jsamuelsen/quote-reader/internal/adapters/clients/acl"
	"github.com/jsamuelsen/quote-reader/internal/adapters/clients/llm"
	"github.com/jsamuelsen/quote-reader/internal/adapters/flags"
	"github.com/jsamuelsen/quote-reader/internal/app"
	"github.com/jsamuelsen/quote-reader/internal/platform/config"
	"github.com/jsamuelsen/quote-reader/internal/platform/logging"
	"github.com/jsamuelsen/quote-reader/internal/platform/metrics"
	"github.com/jsamuelsen/quote-reader/internal/ports"
)

const googleAPIKeyHeader = "X-Goog-Api-Key"

// errMissingAPIKey is returned when no model API key is configured.
var errMissingAPIKey = errors.New("GEMINI_API_KEY (or APP_LLM__API_KEY) is not set")

// loadConfig loads and validates configuration for the selected profile.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(profile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	err = cfg.Validate()
	if err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func newLogger(cfg *config.Config) *slog.Logger {
	logger := logging.New(&logging.Config{
		Level:     cfg.Log.Level,
		Format:    cfg.Log.Format,
		AddSource: cfg.Log.AddSource,
		Service:   cfg.App.Name,
		Version:   cfg.App.Version,
		File: logging.FileConfig{
			Enabled:    cfg.Log.File.Enabled,
			Path:       cfg.Log.File.Path,
			MaxSizeMB:  cfg.Log.File.MaxSizeMB,
			MaxBackups: cfg.Log.File.MaxBackups,
			MaxAgeDays: cfg.Log.File.MaxAgeDays,
			Compress:   cfg.Log.File.Compress,
		},
	})
	logging.SetDefault(logger)

	return logger
}

// components are the collaborators shared by every subcommand.
type components struct {
	model    *llm.ChatClient
	quotes   *app.QuoteService
	speech   *app.SpeechService
	settings *app.SettingsService
	health   *ports.DefaultHealthRegistry
}

// buildComponents creates every collaborator up front so configuration
// errors surface at startup rather than on the first request.
func buildComponents(cfg *config.Config, logger *slog.Logger, reg prometheus.Registerer) (*components, error) {
	if cfg.LLM.APIKey == "" {
		return nil, errMissingAPIKey
	}

	model, err := llm.NewChatClient(llm.ChatConfig{
		BaseURL: cfg.LLM.BaseURL,
		APIKey:  cfg.LLM.APIKey,
		Model:   cfg.LLM.Model,
		Timeout: cfg.LLM.Timeout,
		Logger:  logger,
	})
	if err != nil {
		return nil, fmt.Errorf("creating language model client: %w", err)
	}

	health := ports.NewHealthRegistry(ports.WithCheckTimeout(cfg.Client.Timeout))

	err = health.Register(model)
	if err != nil {
		return nil, fmt.Errorf("registering model health check: %w", err)
	}

	synth, err := newSynthesizer(cfg, logger, health)
	if err != nil {
		return nil, err
	}

	rec := metrics.NewRecorder(reg)

	return &components{
		model: model,
		quotes: app.NewQuoteService(app.QuoteServiceConfig{
			Model:   model,
			Flags:   flags.NewStatic(cfg.Features),
			Metrics: rec,
			Logger:  logger,
		}),
		speech: app.NewSpeechService(app.SpeechServiceConfig{
			Synthesizer: synth,
			Defaults: app.SpeechDefaults{
				VoiceID:     cfg.Speech.DefaultVoice,
				ModelName:   cfg.Speech.DefaultModel,
				StylePrompt: cfg.Speech.DefaultPrompt,
			},
			Metrics: rec,
			Logger:  logger,
		}),
		settings: app.NewSettingsService(nil, logger),
		health:   health,
	}, nil
}

// newSynthesizer selects the speech provider. A nil synthesizer makes every
// speech request defer to the browser.
func newSynthesizer(
	cfg *config.Config,
	logger *slog.Logger,
	health *ports.DefaultHealthRegistry,
) (ports.SpeechSynthesizer, error) {
	if cfg.Speech.Provider != config.SpeechProviderBrowser && cfg.Speech.APIKey == "" {
		logger.Warn("no speech API key configured, using browser speech",
			slog.String("provider", cfg.Speech.Provider))

		return nil, nil
	}

	switch cfg.Speech.Provider {
	case config.SpeechProviderCloud:
		httpClient, err := clients.New(&clients.Config{
			BaseURL:     cfg.Speech.BaseURL,
			ServiceName: acl.SpeechServiceName,
			Timeout:     cfg.Speech.Timeout,
			Retry:       cfg.Client.Retry,
			Circuit:     cfg.Client.CircuitBreaker,
			Transport:   cfg.Client.Transport,
			Headers:     map[string]string{googleAPIKeyHeader: cfg.Speech.APIKey},
			Logger:      logger,
		})
		if err != nil {
			return nil, fmt.Errorf("creating speech HTTP client: %w", err)
		}

		speech := acl.NewSpeechClient(acl.SpeechClientConfig{
			Client:       httpClient,
			LanguageCode: cfg.Speech.LanguageCode,
			Logger:       logger,
		})

		err = health.Register(speech)
		if err != nil {
			return nil, fmt.Errorf("registering speech health check: %w", err)
		}

		return speech, nil

	case config.SpeechProviderOpenAI:
		speech, err := llm.NewSpeechClient(llm.SpeechConfig{
			BaseURL: cfg.Speech.BaseURL,
			APIKey:  cfg.Speech.APIKey,
			Timeout: cfg.Speech.Timeout,
			Logger:  logger,
		})
		if err != nil {
			return nil, fmt.Errorf("creating speech client: %w", err)
		}

		return speech, nil

	default:
		return nil, nil
	}
}
