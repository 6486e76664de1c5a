// Package flags provides feature flag adapters.
package flags

import (
	"context"
	"maps"

	"github.com/jsamuelsen/quote-reader/internal/ports"
)

// Static serves flags from the features section of the configuration.
// Values are fixed for the life of the process.
type Static struct {
	values map[string]bool
}

var _ ports.FeatureFlags = (*Static)(nil)

// NewStatic copies values so later changes to the map have no effect.
func NewStatic(values map[string]bool) *Static {
	return &Static{values: maps.Clone(values)}
}

// IsEnabled returns the configured value, or defaultValue when the flag is unset.
func (s *Static) IsEnabled(_ context.Context, flag string, defaultValue bool) bool {
	v, ok := s.values[flag]
	if !ok {
		return defaultValue
	}

	return v
}
