//go:build integration

package integration

import (
	"encoding/base64"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/jsamuelsen/quote-reader/internal/adapters/clients"
	"github.com/jsamuelsen/quote-reader/internal/adapters/clients/acl"
	"github.com/jsamuelsen/quote-reader/internal/adapters/clients/llm"
	"github.com/jsamuelsen/quote-reader/internal/adapters/flags"
	apphttp "github.com/jsamuelsen/quote-reader/internal/adapters/http"
	"github.com/jsamuelsen/quote-reader/internal/adapters/http/handlers"
	"github.com/jsamuelsen/quote-reader/internal/app"
	"github.com/jsamuelsen/quote-reader/internal/platform/config"
	"github.com/jsamuelsen/quote-reader/internal/platform/metrics"
	"github.com/jsamuelsen/quote-reader/internal/ports"
)

const testModel = "gemini-2.5-flash-lite"

// fakeAudio is what the fake speech upstream returns, before base64.
var fakeAudio = []byte("ID3-fake-mp3")

func init() {
	gin.SetMode(gin.TestMode)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeModel is an OpenAI-compatible chat completions server. Person checks
// are answered from people; quote prompts get reply.
type fakeModel struct {
	mu     sync.Mutex
	people map[string]bool
	reply  string
	status int

	prompts []string
}

func newFakeModel() *fakeModel {
	return &fakeModel{
		people: map[string]bool{"winston churchill": true, "albert einstein": true},
		reply:  `[{"quote":"Stay hungry, stay foolish.","context":"Steve Jobs, Stanford commencement, 2005"}]`,
		status: http.StatusOK,
	}
}

func (m *fakeModel) setReply(reply string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.reply = reply
	m.status = http.StatusOK
}

func (m *fakeModel) setStatus(status int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.status = status
}

func (m *fakeModel) lastPrompt() string {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.prompts) == 0 {
		return ""
	}

	return m.prompts[len(m.prompts)-1]
}

func (m *fakeModel) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	m.mu.Lock()
	defer m.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")

	if r.Method == http.MethodGet && strings.HasPrefix(r.URL.Path, "/models/") {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id": strings.TrimPrefix(r.URL.Path, "/models/"), "object": "model", "created": 0, "owned_by": "google",
		})

		return
	}

	if m.status != http.StatusOK {
		w.WriteHeader(m.status)
		_, _ = io.WriteString(w, `{"error":{"message":"upstream failure","type":"server_error"}}`)

		return
	}

	var req struct {
		Messages []struct {
			Content string `json:"content"`
		} `json:"messages"`
	}
	_ = json.NewDecoder(r.Body).Decode(&req)

	prompt := ""
	if len(req.Messages) > 0 {
		prompt = req.Messages[len(req.Messages)-1].Content
	}

	m.prompts = append(m.prompts, prompt)

	content := m.reply
	if strings.HasPrefix(prompt, "Determine if") {
		content = "NO"

		for name := range m.people {
			if strings.Contains(strings.ToLower(prompt), name) {
				content = "YES"
			}
		}
	}

	_ = json.NewEncoder(w).Encode(map[string]any{
		"id":      "chatcmpl-test",
		"object":  "chat.completion",
		"created": time.Now().Unix(),
		"model":   testModel,
		"choices": []map[string]any{{
			"index":         0,
			"finish_reason": "stop",
			"message":       map[string]any{"role": "assistant", "content": content},
		}},
	})
}

// fakeSpeech is a Cloud Text-to-Speech server. failures counts how many
// synthesize calls answer 503 before succeeding.
type fakeSpeech struct {
	failures atomic.Int32
	calls    atomic.Int32
	apiKey   atomic.Value
}

func (s *fakeSpeech) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.apiKey.Store(r.Header.Get("X-Goog-Api-Key"))
	w.Header().Set("Content-Type", "application/json")

	if r.URL.Path == "/v1/voices" {
		_, _ = io.WriteString(w, `{"voices":[]}`)

		return
	}

	s.calls.Add(1)

	if s.failures.Add(-1) >= 0 {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = io.WriteString(w, `{"error":{"code":503,"message":"backend busy","status":"UNAVAILABLE"}}`)

		return
	}

	_ = json.NewEncoder(w).Encode(map[string]string{
		"audioContent": base64.StdEncoding.EncodeToString(fakeAudio),
	})
}

// stack is the whole service wired against fake upstreams.
type stack struct {
	model       *fakeModel
	speech      *fakeSpeech
	modelServer *httptest.Server
	server      *httptest.Server
	closers     []func()
}

type stackOptions struct {
	auth          config.AuthConfig
	browserSpeech bool
}

func newStack(opts stackOptions) (*stack, error) {
	s := &stack{model: newFakeModel(), speech: &fakeSpeech{}}

	modelServer := httptest.NewServer(s.model)
	speechServer := httptest.NewServer(s.speech)
	s.modelServer = modelServer
	s.closers = append(s.closers, modelServer.Close, speechServer.Close)

	logger := discardLogger()

	chat, err := llm.NewChatClient(llm.ChatConfig{
		BaseURL: modelServer.URL + "/",
		APIKey:  "test-key",
		Model:   testModel,
		Timeout: 5 * time.Second,
		Logger:  logger,
	})
	if err != nil {
		s.Close()

		return nil, err
	}

	registry := ports.NewHealthRegistry(ports.WithCheckTimeout(2 * time.Second))
	if err := registry.Register(chat); err != nil {
		s.Close()

		return nil, err
	}

	var synth ports.SpeechSynthesizer

	if !opts.browserSpeech {
		httpClient, err := clients.New(&clients.Config{
			BaseURL:     speechServer.URL,
			ServiceName: acl.SpeechServiceName,
			Timeout:     5 * time.Second,
			Retry: config.RetryConfig{
				MaxAttempts:     1,
				InitialInterval: 5 * time.Millisecond,
				MaxInterval:     20 * time.Millisecond,
				Multiplier:      2.0,
			},
			Circuit: config.CircuitBreakerConfig{
				MaxFailures:   5,
				Timeout:       time.Second,
				HalfOpenLimit: 1,
			},
			Headers: map[string]string{"X-Goog-Api-Key": "speech-key"},
			Logger:  logger,
		})
		if err != nil {
			s.Close()

			return nil, err
		}

		speech := acl.NewSpeechClient(acl.SpeechClientConfig{Client: httpClient, Logger: logger})
		if err := registry.Register(speech); err != nil {
			s.Close()

			return nil, err
		}

		synth = speech
	}

	rec := metrics.NewRecorder(prometheus.NewRegistry())

	engine := gin.New()
	apphttp.SetupRouter(engine, apphttp.RouterConfig{
		ServiceName: "quote-reader-integration",
		Auth:        &opts.auth,
		Timeout:     10 * time.Second,
		Health:      handlers.NewHealthHandler(registry, handlers.NewBuildInfo("it", "abc123", "now")),
		Pages:       handlers.NewPageHandler("../../web/static"),
		Quotes: handlers.NewQuoteHandler(app.NewQuoteService(app.QuoteServiceConfig{
			Model:   chat,
			Flags:   flags.NewStatic(map[string]bool{ports.FlagPersonAwareQuotes: true}),
			Metrics: rec,
			Logger:  logger,
		})),
		Speech: handlers.NewSpeechHandler(app.NewSpeechService(app.SpeechServiceConfig{
			Synthesizer: synth,
			Defaults: app.SpeechDefaults{
				VoiceID:     "Aoede",
				ModelName:   config.DefaultSpeechModel,
				StylePrompt: config.DefaultSpeechPrompt,
			},
			Metrics: rec,
			Logger:  logger,
		})),
		Settings: handlers.NewSettingsHandler(app.NewSettingsService(nil, logger)),
	})

	s.server = httptest.NewServer(engine)
	s.closers = append(s.closers, s.server.Close)

	return s, nil
}

func (s *stack) URL() string {
	return s.server.URL
}

func (s *stack) Close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		s.closers[i]()
	}
}
