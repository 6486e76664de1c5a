package app

import (
	"context"
	"log/slog"
	"strings"

	"github.com/jsamuelsen/quote-reader/internal/domain"
	"github.com/jsamuelsen/quote-reader/internal/ports"
)

// PersonClassifier asks the language model whether a subject names a person.
type PersonClassifier struct {
	model  ports.LanguageModel
	logger *slog.Logger
}

// NewPersonClassifier creates a classifier backed by model.
func NewPersonClassifier(model ports.LanguageModel, logger *slog.Logger) *PersonClassifier {
	if model == nil {
		panic("app: language model is required")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PersonClassifier{model: model, logger: logger}
}

// IsPerson reports whether subject is a real or fictional person.
// Any model failure counts as "not a person".
func (c *PersonClassifier) IsPerson(ctx context.Context, subject domain.Subject) bool {
	answer, err := c.model.Generate(ctx, domain.BuildPersonCheckPrompt(subject))
	if err != nil {
		c.logger.WarnContext(ctx, "person check failed, treating subject as topic",
			slog.String("subject", string(subject)),
			slog.Any("error", err),
		)

		return false
	}

	return strings.EqualFold(strings.TrimSpace(answer), "YES")
}
