// Package app contains application services that orchestrate use cases.
package app

import (
	"context"
	"log/slog"

	"github.com/jsamuelsen/quote-reader/internal/domain"
	"github.com/jsamuelsen/quote-reader/internal/platform/metrics"
	"github.com/jsamuelsen/quote-reader/internal/ports"
)

// QuoteService runs the quote pipeline.
// It depends on port interfaces, not concrete implementations.
type QuoteService struct {
	model      ports.LanguageModel
	classifier *PersonClassifier
	flags      ports.FeatureFlags
	catalog    *domain.FallbackCatalog
	metrics    *metrics.Recorder
	logger     *slog.Logger
}

// QuoteServiceConfig contains the dependencies of the quote service.
type QuoteServiceConfig struct {
	// Model is required.
	Model ports.LanguageModel

	// Flags toggles person-aware prompting. Nil means always on.
	Flags ports.FeatureFlags

	// Catalog defaults to domain.DefaultFallbackCatalog().
	Catalog *domain.FallbackCatalog

	// Metrics may be nil.
	Metrics *metrics.Recorder

	Logger *slog.Logger
}

// NewQuoteService creates a new quote service with the provided dependencies.
func NewQuoteService(cfg QuoteServiceConfig) *QuoteService {
	if cfg.Model == nil {
		panic("app: language model is required")
	}

	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	if cfg.Catalog == nil {
		cfg.Catalog = domain.DefaultFallbackCatalog()
	}

	return &QuoteService{
		model:      cfg.Model,
		classifier: NewPersonClassifier(cfg.Model, cfg.Logger),
		flags:      cfg.Flags,
		catalog:    cfg.Catalog,
		metrics:    cfg.Metrics,
		logger:     cfg.Logger,
	}
}

// GenerateQuotes returns quotes for raw.
//
// The only error is a validation error for an empty subject. Every other
// failure is answered from the fallback catalog.
func (s *QuoteService) GenerateQuotes(ctx context.Context, raw string) (*domain.QuoteResult, error) {
	run := newStageRunner(ctx, s.logger, s.metrics, "generate_quotes")

	subject, err := runStage(ctx, run, StageValidate, "invalid subject",
		func(context.Context) (domain.Subject, error) {
			return domain.NewSubject(raw)
		})
	if err != nil {
		return nil, err
	}

	logger := run.logger.With(slog.String("subject", subject.String()))

	isPerson := false
	if s.personAware(ctx) {
		isPerson, _ = runStage(ctx, run, StageClassify, "person check",
			func(ctx context.Context) (bool, error) {
				return s.classifier.IsPerson(ctx, subject), nil
			})
	}

	prompt := domain.BuildQuotePrompt(subject, isPerson)

	text, err := runStage(ctx, run, StageGenerate, "model call", func(ctx context.Context) (string, error) {
		return s.model.Generate(ctx, prompt)
	})
	if err != nil {
		return s.fallback(ctx, logger, subject, isPerson, err), nil
	}

	quotes, err := runStage(ctx, run, StageParse, "model output", func(context.Context) (domain.QuoteSet, error) {
		return domain.ParseQuotes(text)
	})
	if err != nil {
		return s.fallback(ctx, logger, subject, isPerson, err), nil
	}

	s.metrics.QuoteResult(string(domain.SourceGenerated), "")

	logger.InfoContext(ctx, "generated quotes",
		slog.Int("count", len(quotes)),
		slog.Bool("is_person", isPerson),
	)

	return &domain.QuoteResult{
		Subject:  subject,
		Quotes:   quotes,
		IsPerson: isPerson,
		Source:   domain.SourceGenerated,
	}, nil
}

func (s *QuoteService) personAware(ctx context.Context) bool {
	if s.flags == nil {
		return true
	}

	return s.flags.IsEnabled(ctx, ports.FlagPersonAwareQuotes, true)
}

func (s *QuoteService) fallback(
	ctx context.Context,
	logger *slog.Logger,
	subject domain.Subject,
	isPerson bool,
	cause error,
) *domain.QuoteResult {
	stage, _ := GetStage(cause)
	entry := s.catalog.Match(subject.String())

	logger.WarnContext(ctx, "using fallback quotes",
		slog.String("reason", string(stage)),
		slog.String("keyword", entry.Keyword),
		slog.Any("error", cause),
	)

	s.metrics.QuoteResult(string(domain.SourceFallback), string(stage))

	return &domain.QuoteResult{
		Subject:  subject,
		Quotes:   entry.Quotes.Clone(),
		IsPerson: isPerson,
		Source:   domain.SourceFallback,
	}
}
