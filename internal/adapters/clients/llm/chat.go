// Package llm adapts OpenAI-compatible model APIs to the ports.
// The default endpoint is Gemini's OpenAI-compatible surface.
package llm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"github.com/jsamuelsen/quote-reader/internal/domain"
	"github.com/jsamuelsen/quote-reader/internal/platform/logging"
	"github.com/jsamuelsen/quote-reader/internal/ports"
)

// ChatServiceName identifies the chat model in logs, errors and health checks.
const ChatServiceName = "llm"

const defaultChatTimeout = 30 * time.Second

// ChatConfig configures the chat completions client.
type ChatConfig struct {
	BaseURL string
	APIKey  string
	Model   string

	// Timeout bounds each Generate call.
	Timeout time.Duration

	Logger *slog.Logger
}

// ChatClient implements ports.LanguageModel with the Chat Completions API.
// Calls are never retried.
type ChatClient struct {
	client  openai.Client
	model   openai.ChatModel
	timeout time.Duration
	logger  *slog.Logger
}

var (
	_ ports.LanguageModel = (*ChatClient)(nil)
	_ ports.HealthChecker = (*ChatClient)(nil)
)

// NewChatClient builds a chat client. The API key and model are required.
func NewChatClient(cfg ChatConfig) (*ChatClient, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("llm: api key required")
	}

	if cfg.Model == "" {
		return nil, errors.New("llm: model required")
	}

	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultChatTimeout
	}

	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(0),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	return &ChatClient{
		client:  openai.NewClient(opts...),
		model:   openai.ChatModel(cfg.Model),
		timeout: cfg.Timeout,
		logger:  cfg.Logger.With(slog.String("component", "llm.ChatClient")),
	}, nil
}

// Generate sends prompt as a single user message and returns the reply text.
func (c *ChatClient) Generate(ctx context.Context, prompt string) (string, error) {
	reqCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	start := time.Now()

	resp, err := c.client.Chat.Completions.New(reqCtx, openai.ChatCompletionNewParams{
		Model: c.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
	})
	if err != nil {
		return "", c.translateError(err)
	}

	if len(resp.Choices) == 0 {
		return "", domain.NewUnavailableError(ChatServiceName, "no choices returned")
	}

	choice := resp.Choices[0]
	if choice.FinishReason == "content_filter" {
		return "", domain.NewUnavailableError(ChatServiceName, "response blocked by content filter")
	}

	content := strings.TrimSpace(choice.Message.Content)
	if content == "" {
		return "", domain.NewUnavailableError(ChatServiceName, "empty response")
	}

	logging.FromContext(ctx).Log(ctx, logging.LevelTrace, "model replied",
		slog.String("model", string(c.model)),
		slog.Int("chars", len(content)),
		slog.Duration("duration", time.Since(start)),
	)

	return content, nil
}

// translateError maps SDK errors to domain errors.
func (c *ChatClient) translateError(err error) error {
	var apiErr *openai.Error
	if !errors.As(err, &apiErr) {
		return domain.NewUnavailableError(ChatServiceName, err.Error())
	}

	switch apiErr.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return domain.NewForbiddenError("generate", fmt.Sprintf("model API rejected credentials (%d)", apiErr.StatusCode))
	case http.StatusTooManyRequests:
		return domain.NewUnavailableError(ChatServiceName, "quota exceeded")
	case http.StatusNotFound:
		return domain.NewNotFoundError("model", string(c.model))
	default:
		return domain.NewUnavailableError(ChatServiceName, fmt.Sprintf("model API returned %d", apiErr.StatusCode))
	}
}

// Name implements ports.HealthChecker.
func (c *ChatClient) Name() string {
	return ChatServiceName
}

// Check verifies the configured model can be retrieved.
// Implements ports.HealthChecker.
func (c *ChatClient) Check(ctx context.Context) error {
	if _, err := c.client.Models.Get(ctx, string(c.model)); err != nil {
		return c.translateError(err)
	}

	return nil
}
