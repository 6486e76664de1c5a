package app

import (
	"context"
	"log/slog"
	"strings"

	"github.com/jsamuelsen/quote-reader/internal/domain"
)

// SettingsResult reports the outcome of a settings change.
type SettingsResult struct {
	Success bool
	Message string
}

// SettingsService exposes the voice catalog and validates voice choices.
// Choices are not persisted; the browser keeps them.
type SettingsService struct {
	voices *domain.VoiceCatalog
	logger *slog.Logger
}

// NewSettingsService creates a settings service. A nil catalog means the default voices.
func NewSettingsService(voices *domain.VoiceCatalog, logger *slog.Logger) *SettingsService {
	if voices == nil {
		voices = domain.DefaultVoiceCatalog()
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &SettingsService{voices: voices, logger: logger}
}

// Voices lists the selectable voices.
func (s *SettingsService) Voices() []domain.Voice {
	return s.voices.List()
}

// SaveVoice validates voiceID. Rejections are reported in the result, not as errors.
func (s *SettingsService) SaveVoice(ctx context.Context, voiceID string) SettingsResult {
	voiceID = strings.TrimSpace(voiceID)

	if voiceID == "" {
		return SettingsResult{Message: "Voice ID is required"}
	}

	if !s.voices.Contains(voiceID) {
		s.logger.InfoContext(ctx, "rejected unknown voice", slog.String("voice_id", voiceID))

		return SettingsResult{Message: "Invalid voice ID: " + voiceID}
	}

	s.logger.InfoContext(ctx, "voice setting saved", slog.String("voice_id", voiceID))

	return SettingsResult{Success: true, Message: "Voice setting saved: " + voiceID}
}
