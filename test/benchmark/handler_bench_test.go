package benchmark

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	apphttp "github.com/jsamuelsen/quote-reader/internal/adapters/http"
	"github.com/jsamuelsen/quote-reader/internal/adapters/http/handlers"
	"github.com/jsamuelsen/quote-reader/internal/app"
	"github.com/jsamuelsen/quote-reader/internal/domain"
	"github.com/jsamuelsen/quote-reader/internal/ports"
)

func init() {
	// Release mode for accurate numbers.
	gin.SetMode(gin.ReleaseMode)
}

const modelReply = "```json\n" + `[
  {"quote": "Stay hungry, stay foolish.", "context": "Steve Jobs, Stanford commencement, 2005"},
  {"quote": "Well done is better than well said.", "context": "Benjamin Franklin, Poor Richard's Almanack"},
  {"quote": "It always seems impossible until it's done.", "context": "Nelson Mandela"},
  {"quote": "The best way out is always through.", "context": "Robert Frost, A Servant to Servants"},
  {"quote": "Fortune favors the bold.", "context": "Virgil, Aeneid"}
]` + "\n```"

// stubModel answers person checks with NO and quote prompts with reply or err.
type stubModel struct {
	reply string
	err   error
}

func (m stubModel) Generate(_ context.Context, prompt string) (string, error) {
	if strings.HasPrefix(prompt, "Determine if") {
		return "NO", nil
	}

	return m.reply, m.err
}

type healthyChecker struct{ name string }

func (s healthyChecker) Name() string { return s.name }
func (s healthyChecker) Check(context.Context) error { return nil }

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func createGinContext(w http.ResponseWriter, r *http.Request) *gin.Context {
	c, _ := gin.CreateTestContext(w)
	c.Request = r

	return c
}

func setupHealthHandler(checkers ...ports.HealthChecker) *handlers.HealthHandler {
	registry := ports.NewHealthRegistry()
	for _, c := range checkers {
		_ = registry.Register(c)
	}

	return handlers.NewHealthHandler(registry, handlers.NewBuildInfo("1.0.0", "abc123", "2026-01-01T00:00:00Z"))
}

func setupRouter(model ports.LanguageModel) *gin.Engine {
	engine := gin.New()
	apphttp.SetupRouter(engine, apphttp.RouterConfig{
		ServiceName: "quote-reader-bench",
		Health:      setupHealthHandler(),
		Quotes: handlers.NewQuoteHandler(app.NewQuoteService(app.QuoteServiceConfig{
			Model:  model,
			Logger: discardLogger(),
		})),
		Speech: handlers.NewSpeechHandler(app.NewSpeechService(app.SpeechServiceConfig{
			Logger: discardLogger(),
		})),
	})

	return engine
}

// BenchmarkLivenessHandler is the Kubernetes probe path and should stay trivial.
func BenchmarkLivenessHandler(b *testing.B) {
	handler := setupHealthHandler()
	req := httptest.NewRequest(http.MethodGet, "/-/live", http.NoBody)

	b.ReportAllocs()

	for b.Loop() {
		handler.Liveness(createGinContext(httptest.NewRecorder(), req))
	}
}

// BenchmarkReadinessHandler_WithChecks runs the model and speech checks concurrently.
func BenchmarkReadinessHandler_WithChecks(b *testing.B) {
	handler := setupHealthHandler(healthyChecker{name: "llm"}, healthyChecker{name: "cloud-tts"})
	req := httptest.NewRequest(http.MethodGet, "/-/ready", http.NoBody)

	b.ReportAllocs()

	for b.Loop() {
		handler.Readiness(createGinContext(httptest.NewRecorder(), req))
	}
}

// BenchmarkQuotes_Generated measures the full middleware chain and pipeline
// with an instant model.
func BenchmarkQuotes_Generated(b *testing.B) {
	benchmarkQuotes(b, stubModel{reply: modelReply})
}

// BenchmarkQuotes_Fallback measures the catalog path taken when the model fails.
func BenchmarkQuotes_Fallback(b *testing.B) {
	benchmarkQuotes(b, stubModel{err: errors.New("quota exceeded")})
}

func benchmarkQuotes(b *testing.B, model ports.LanguageModel) {
	b.Helper()

	router := setupRouter(model)

	b.ReportAllocs()

	for b.Loop() {
		req := httptest.NewRequest(http.MethodPost, "/api/quotes", strings.NewReader(`{"subject":"success"}`))
		req.Header.Set("Content-Type", "application/json")

		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			b.Fatalf("status %d: %s", w.Code, w.Body.String())
		}
	}
}

// BenchmarkSpeech_Browser measures the no-provider path.
func BenchmarkSpeech_Browser(b *testing.B) {
	router := setupRouter(stubModel{reply: modelReply})

	b.ReportAllocs()

	for b.Loop() {
		req := httptest.NewRequest(http.MethodPost, "/api/tts", strings.NewReader(`{"text":"Fortune favors the bold."}`))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(httptest.NewRecorder(), req)
	}
}

func BenchmarkParseQuotes(b *testing.B) {
	b.ReportAllocs()

	for b.Loop() {
		if _, err := domain.ParseQuotes(modelReply); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkFallbackLookup(b *testing.B) {
	catalog := domain.DefaultFallbackCatalog()

	b.ReportAllocs()

	for b.Loop() {
		_ = catalog.Lookup("the wonderful world of disney")
	}
}
