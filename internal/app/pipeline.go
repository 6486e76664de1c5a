package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jsamuelsen/quote-reader/internal/platform/logging"
	"github.com/jsamuelsen/quote-reader/internal/platform/metrics"
)

// Quote pipeline: Validate → Classify → Generate → Parse → (Fallback)
//
// Validate errors go back to the caller. Classify never fails; a model error
// there means "not a person". Generate and Parse errors are swallowed and the
// request is answered from the fallback catalog instead.

// Stage names a step of the quote pipeline.
type Stage string

const (
	StageValidate Stage = "validate"
	StageClassify Stage = "classify"
	StageGenerate Stage = "generate"
	StageParse    Stage = "parse"
)

// StageError wraps errors with the stage where they occurred.
type StageError struct {
	Stage   Stage
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *StageError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s failed: %s: %v", e.Stage, e.Message, e.Cause)
	}

	return fmt.Sprintf("%s failed: %s", e.Stage, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As support.
func (e *StageError) Unwrap() error {
	return e.Cause
}

// stageRunner carries what every stage needs for logging and timing.
type stageRunner struct {
	logger  *slog.Logger
	metrics *metrics.Recorder
}

func newStageRunner(ctx context.Context, fallback *slog.Logger, rec *metrics.Recorder, operation string) stageRunner {
	logger := logging.FromContext(ctx)
	if logger == nil {
		logger = fallback
	}

	return stageRunner{
		logger:  logger.With(slog.String("operation", operation)),
		metrics: rec,
	}
}

// runStage executes fn as the named stage, logging and timing it.
// A failure is returned as a *StageError.
func runStage[T any](ctx context.Context, r stageRunner, stage Stage, message string, fn func(context.Context) (T, error)) (T, error) {
	logger := r.logger.With(slog.String("stage", string(stage)))
	start := time.Now()

	logger.DebugContext(ctx, "stage started")

	out, err := fn(ctx)

	r.metrics.StageDuration(string(stage), time.Since(start), err)

	if err != nil {
		logger.WarnContext(ctx, "stage failed", slog.Any("error", err))

		var zero T

		return zero, &StageError{Stage: stage, Message: message, Cause: err}
	}

	logger.DebugContext(ctx, "stage completed", slog.Duration("duration", time.Since(start)))

	return out, nil
}

// IsStageError checks if an error occurred inside a pipeline stage.
func IsStageError(err error) bool {
	var stageErr *StageError

	return errors.As(err, &stageErr)
}

// GetStage extracts the stage from a stage error.
func GetStage(err error) (Stage, bool) {
	var stageErr *StageError
	if errors.As(err, &stageErr) {
		return stageErr.Stage, true
	}

	return "", false
}
