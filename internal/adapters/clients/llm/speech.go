package llm

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	goopenai "github.com/sashabaranov/go-openai"

	"github.com/jsamuelsen/quote-reader/internal/domain"
	"github.com/jsamuelsen/quote-reader/internal/ports"
)

// SpeechServiceName identifies the OpenAI-compatible speech endpoint.
const SpeechServiceName = "openai-tts"

const defaultSpeechTimeout = 60 * time.Second

// SpeechConfig configures the OpenAI-compatible audio client.
type SpeechConfig struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
	Logger  *slog.Logger
}

// SpeechClient implements ports.SpeechSynthesizer with the /audio/speech endpoint.
// VoiceID and ModelName are passed through to the provider unchanged.
type SpeechClient struct {
	client  *goopenai.Client
	timeout time.Duration
	logger  *slog.Logger
}

var _ ports.SpeechSynthesizer = (*SpeechClient)(nil)

// NewSpeechClient builds an audio client. The API key is required.
func NewSpeechClient(cfg SpeechConfig) (*SpeechClient, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("llm: speech api key required")
	}

	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultSpeechTimeout
	}

	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	clientCfg := goopenai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}

	return &SpeechClient{
		client:  goopenai.NewClientWithConfig(clientCfg),
		timeout: cfg.Timeout,
		logger:  cfg.Logger.With(slog.String("component", "llm.SpeechClient")),
	}, nil
}

// Synthesize returns MP3 audio for req.
func (c *SpeechClient) Synthesize(ctx context.Context, req ports.SpeechRequest) ([]byte, error) {
	reqCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.client.CreateSpeech(reqCtx, goopenai.CreateSpeechRequest{
		Model:          goopenai.SpeechModel(req.ModelName),
		Input:          req.Text,
		Voice:          goopenai.SpeechVoice(req.VoiceID),
		Instructions:   req.StylePrompt,
		ResponseFormat: goopenai.SpeechResponseFormatMp3,
	})
	if err != nil {
		return nil, translateSpeechError(err)
	}
	defer func() { _ = resp.Close() }()

	audio, err := io.ReadAll(resp)
	if err != nil {
		return nil, domain.NewUnavailableError(SpeechServiceName, fmt.Sprintf("reading audio: %v", err))
	}

	c.logger.DebugContext(ctx, "speech synthesized",
		slog.String("voice", req.VoiceID),
		slog.Int("bytes", len(audio)),
	)

	return audio, nil
}

func translateSpeechError(err error) error {
	var apiErr *goopenai.APIError
	if errors.As(err, &apiErr) {
		return statusError(apiErr.HTTPStatusCode, apiErr.Message)
	}

	var reqErr *goopenai.RequestError
	if errors.As(err, &reqErr) {
		return statusError(reqErr.HTTPStatusCode, reqErr.Error())
	}

	return domain.NewUnavailableError(SpeechServiceName, err.Error())
}

func statusError(status int, message string) error {
	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		return domain.NewForbiddenError("synthesize speech", message)
	case http.StatusBadRequest:
		return domain.NewValidationError("", message)
	default:
		return domain.NewUnavailableError(SpeechServiceName, message)
	}
}
