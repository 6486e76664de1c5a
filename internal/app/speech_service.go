package app

import (
	"context"
	"encoding/base64"
	"log/slog"
	"strings"

	"github.com/jsamuelsen/quote-reader/internal/domain"
	"github.com/jsamuelsen/quote-reader/internal/platform/metrics"
	"github.com/jsamuelsen/quote-reader/internal/ports"
)

// BrowserSpeechSentinel tells the client to speak the text itself.
const BrowserSpeechSentinel = "USE_BROWSER_TTS"

const audioDataURLPrefix = "data:audio/mp3;base64,"

// SpeechInput is a text-to-speech request. Empty optional fields take defaults.
type SpeechInput struct {
	Text        string
	VoiceID     string
	ModelName   string
	StylePrompt string
}

// SpeechDefaults fill in optional SpeechInput fields.
type SpeechDefaults struct {
	VoiceID     string
	ModelName   string
	StylePrompt string
}

// SpeechService turns text into a playable audio data URL.
type SpeechService struct {
	synthesizer ports.SpeechSynthesizer
	defaults    SpeechDefaults
	metrics     *metrics.Recorder
	logger      *slog.Logger
}

// SpeechServiceConfig contains the dependencies of the speech service.
type SpeechServiceConfig struct {
	// Synthesizer may be nil, in which case every request is answered
	// with BrowserSpeechSentinel.
	Synthesizer ports.SpeechSynthesizer
	Defaults    SpeechDefaults
	Metrics     *metrics.Recorder
	Logger      *slog.Logger
}

// NewSpeechService creates a speech service.
func NewSpeechService(cfg SpeechServiceConfig) *SpeechService {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	if cfg.Defaults.VoiceID == "" {
		cfg.Defaults.VoiceID = domain.DefaultVoiceID
	}

	return &SpeechService{
		synthesizer: cfg.Synthesizer,
		defaults:    cfg.Defaults,
		metrics:     cfg.Metrics,
		logger:      cfg.Logger,
	}
}

// Synthesize returns a data URL with MP3 audio, or BrowserSpeechSentinel
// when server-side synthesis is unavailable or fails.
// Only empty text is an error.
func (s *SpeechService) Synthesize(ctx context.Context, in SpeechInput) (string, error) {
	text := strings.TrimSpace(in.Text)
	if text == "" {
		return "", domain.NewValidationError("text", "Text cannot be empty")
	}

	if s.synthesizer == nil {
		s.metrics.SpeechResult("browser")

		return BrowserSpeechSentinel, nil
	}

	req := ports.SpeechRequest{
		Text:        text,
		VoiceID:     firstNonEmpty(in.VoiceID, s.defaults.VoiceID),
		ModelName:   firstNonEmpty(in.ModelName, s.defaults.ModelName),
		StylePrompt: firstNonEmpty(in.StylePrompt, s.defaults.StylePrompt),
	}

	audio, err := s.synthesizer.Synthesize(ctx, req)
	if err != nil || len(audio) == 0 {
		s.logger.WarnContext(ctx, "speech synthesis failed, deferring to browser",
			slog.String("voice_id", req.VoiceID),
			slog.String("model", req.ModelName),
			slog.Any("error", err),
		)
		s.metrics.SpeechResult("browser")

		return BrowserSpeechSentinel, nil
	}

	s.logger.DebugContext(ctx, "speech synthesized",
		slog.String("voice_id", req.VoiceID),
		slog.Int("bytes", len(audio)),
	)
	s.metrics.SpeechResult("audio")

	return audioDataURLPrefix + base64.StdEncoding.EncodeToString(audio), nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}

	return ""
}
