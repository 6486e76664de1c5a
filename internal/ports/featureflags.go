package ports

import (
	"context"
)

// Flag names understood by the application.
const (
	// FlagPersonAwareQuotes enables the person classification stage.
	FlagPersonAwareQuotes = "person_aware_quotes"
)

// FeatureFlags defines the contract for feature flag evaluation.
// The application checks flags without knowing the provider behind them.
//
// Example usage:
//
//	if flags.IsEnabled(ctx, ports.FlagPersonAwareQuotes, true) {
//	    isPerson = classifier.IsPerson(ctx, subject)
//	}
type FeatureFlags interface {
	// IsEnabled checks if a boolean feature flag is enabled.
	// Returns defaultValue if the flag doesn't exist or evaluation fails.
	IsEnabled(ctx context.Context, flag string, defaultValue bool) bool
}
