// Package ports defines interfaces for external dependencies.
// Ports are contracts that adapters implement, so the application layer
// depends on abstractions rather than on SDKs or HTTP clients.
//
// Port conventions:
//   - Context is always the first parameter
//   - Return domain types, never provider DTOs
//   - Failures are domain errors (ErrUnavailable, ErrForbidden, etc.)
package ports

import (
	"context"
)

// LanguageModel generates text from a single prompt.
//
// Example usage in the application layer:
//
//	raw, err := model.Generate(ctx, domain.BuildQuotePrompt(subject, isPerson))
//	if err != nil {
//	    return fallback(subject)
//	}
type LanguageModel interface {
	// Generate sends prompt to the model and returns its text output.
	// Transport, quota and content-safety rejections are returned as errors;
	// the implementation does not retry.
	Generate(ctx context.Context, prompt string) (string, error)
}

// SpeechRequest describes one text-to-speech call.
type SpeechRequest struct {
	// Text is what to speak.
	Text string

	// VoiceID selects the provider voice, e.g. "Aoede".
	VoiceID string

	// ModelName selects the provider speech model.
	ModelName string

	// StylePrompt is a natural-language delivery instruction.
	StylePrompt string
}

// SpeechSynthesizer converts text into encoded audio.
type SpeechSynthesizer interface {
	// Synthesize returns MP3 audio for req.
	// Callers treat any error as "render speech on the client".
	Synthesize(ctx context.Context, req SpeechRequest) ([]byte, error)
}
