package acl

import (
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"
	"net/url"

	"github.com/jsamuelsen/quote-reader/internal/adapters/clients"
	"github.com/jsamuelsen/quote-reader/internal/domain"
	"github.com/jsamuelsen/quote-reader/internal/platform/logging"
	"github.com/jsamuelsen/quote-reader/internal/ports"
)

// SpeechServiceName identifies the Cloud Text-to-Speech API in logs, traces and errors.
const SpeechServiceName = "cloud-tts"

const (
	synthesizePath = "/v1/text:synthesize"
	voicesPath     = "/v1/voices"
	audioEncoding  = "MP3"
)

// SpeechClientConfig contains configuration for the speech client.
type SpeechClientConfig struct {
	// Client must have its BaseURL set to the Text-to-Speech endpoint and
	// carry the API key header.
	Client *clients.Client

	// LanguageCode is the BCP-47 voice language, e.g. "en-US".
	LanguageCode string

	Logger *slog.Logger
}

// SpeechClient implements ports.SpeechSynthesizer with Cloud Text-to-Speech.
type SpeechClient struct {
	api          googleAPI
	languageCode string
	logger       *slog.Logger
}

var (
	_ ports.SpeechSynthesizer = (*SpeechClient)(nil)
	_ ports.HealthChecker     = (*SpeechClient)(nil)
)

// NewSpeechClient creates a speech client adapter.
// Panics if Client is nil.
func NewSpeechClient(cfg SpeechClientConfig) *SpeechClient {
	if cfg.Client == nil {
		panic("SpeechClient: Client is required")
	}

	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	if cfg.LanguageCode == "" {
		cfg.LanguageCode = "en-US"
	}

	return &SpeechClient{
		api:          googleAPI{client: cfg.Client, service: SpeechServiceName},
		languageCode: cfg.LanguageCode,
		logger:       cfg.Logger,
	}
}

// synthesizeRequest is the text:synthesize request body.
type synthesizeRequest struct {
	Input       synthesisInput   `json:"input"`
	Voice       voiceSelection   `json:"voice"`
	AudioConfig audioConfigBlock `json:"audioConfig"`
}

type synthesisInput struct {
	Text   string `json:"text"`
	Prompt string `json:"prompt,omitempty"`
}

type voiceSelection struct {
	LanguageCode string `json:"languageCode"`
	Name         string `json:"name"`
	ModelName    string `json:"modelName,omitempty"`
}

type audioConfigBlock struct {
	AudioEncoding string `json:"audioEncoding"`
}

// synthesizeResponse carries base64-encoded audio.
type synthesizeResponse struct {
	AudioContent string `json:"audioContent"`
}

// Synthesize converts req.Text to MP3 audio.
func (c *SpeechClient) Synthesize(ctx context.Context, req ports.SpeechRequest) ([]byte, error) {
	if err := requireField(req.Text, "text"); err != nil {
		return nil, err
	}

	if err := requireField(req.VoiceID, "voice"); err != nil {
		return nil, err
	}

	logger := logging.FromContext(ctx)
	logger.Log(ctx, logging.LevelTrace, "synthesizing speech",
		slog.String("voice", req.VoiceID),
		slog.String("model", req.ModelName),
		slog.Int("chars", len(req.Text)),
	)

	body, err := c.api.post(ctx, synthesizePath, c.toExternal(req), "synthesize speech")
	if err != nil {
		return nil, err
	}

	ext, err := decode[synthesizeResponse](body, SpeechServiceName)
	if err != nil {
		return nil, err
	}

	return decodeAudio(ext)
}

// toExternal builds the provider request from the port request.
func (c *SpeechClient) toExternal(req ports.SpeechRequest) synthesizeRequest {
	return synthesizeRequest{
		Input: synthesisInput{Text: req.Text, Prompt: req.StylePrompt},
		Voice: voiceSelection{
			LanguageCode: c.languageCode,
			Name:         req.VoiceID,
			ModelName:    req.ModelName,
		},
		AudioConfig: audioConfigBlock{AudioEncoding: audioEncoding},
	}
}

func decodeAudio(ext synthesizeResponse) ([]byte, error) {
	if ext.AudioContent == "" {
		return nil, domain.NewUnavailableError(SpeechServiceName, "response contained no audio")
	}

	audio, err := base64.StdEncoding.DecodeString(ext.AudioContent)
	if err != nil {
		return nil, domain.NewUnavailableError(SpeechServiceName, fmt.Sprintf("invalid audio encoding: %v", err))
	}

	return audio, nil
}

// Name implements ports.HealthChecker.
func (c *SpeechClient) Name() string {
	return SpeechServiceName
}

// Check lists voices for the configured language.
// Implements ports.HealthChecker.
func (c *SpeechClient) Check(ctx context.Context) error {
	body, err := c.api.get(ctx, voicesPath+"?languageCode="+url.QueryEscape(c.languageCode), "list voices")
	if err != nil {
		return err
	}

	return body.Close()
}
