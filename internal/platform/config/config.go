// Package config provides configuration loading and management using koanf.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Default configuration values.
const (
	// DefaultServerPort is the default HTTP server port.
	DefaultServerPort = 8000

	// DefaultMaxRequestSize is the default maximum request body size (1MB).
	DefaultMaxRequestSize = 1 << 20

	// DefaultClientRetryMaxAttempts is one: outbound speech calls are not retried.
	DefaultClientRetryMaxAttempts = 1

	// DefaultClientRetryMultiplier is the default exponential backoff multiplier.
	DefaultClientRetryMultiplier = 2.0

	// DefaultClientRetryJitterFactor is the default jitter percentage (±25%).
	DefaultClientRetryJitterFactor = 0.25

	// DefaultClientCircuitMaxFailures is the default failures before circuit opens.
	DefaultClientCircuitMaxFailures = 5

	// DefaultClientCircuitHalfOpenLimit is the default successes to close circuit.
	DefaultClientCircuitHalfOpenLimit = 3

	// DefaultTransportMaxIdleConns is the default max idle connections.
	DefaultTransportMaxIdleConns = 100

	// DefaultTransportMaxIdleConnsPerHost is the default max idle connections per host.
	DefaultTransportMaxIdleConnsPerHost = 10

	// DefaultLogFileMaxSizeMB is the default max log file size in megabytes.
	DefaultLogFileMaxSizeMB = 100

	// DefaultLogFileMaxBackups is the default number of old log files to retain.
	DefaultLogFileMaxBackups = 3

	// DefaultLogFileMaxAgeDays is the default max days to retain old log files.
	DefaultLogFileMaxAgeDays = 28

	// DefaultLLMBaseURL is Gemini's OpenAI-compatible endpoint.
	DefaultLLMBaseURL = "https://generativelanguage.googleapis.com/v1beta/openai/"

	// DefaultLLMModel is the chat model used for classification and generation.
	DefaultLLMModel = "gemini-2.5-flash-lite"

	// DefaultSpeechBaseURL is the Cloud Text-to-Speech REST endpoint.
	DefaultSpeechBaseURL = "https://texttospeech.googleapis.com"

	// DefaultSpeechModel is the Gemini speech model.
	DefaultSpeechModel = "gemini-2.5-flash-preview-tts"

	// DefaultSpeechPrompt is the delivery instruction sent when callers give none.
	DefaultSpeechPrompt = "Say the following in a natural, clear voice"
)

// Speech providers.
const (
	SpeechProviderCloud   = "cloud"
	SpeechProviderOpenAI  = "openai"
	SpeechProviderBrowser = "browser"
)

// Config is the root configuration structure.
type Config struct {
	App       AppConfig       `koanf:"app"       validate:"required"`
	Server    ServerConfig    `koanf:"server"    validate:"required"`
	Log       LogConfig       `koanf:"log"       validate:"required"`
	Telemetry TelemetryConfig `koanf:"telemetry"`
	Auth      AuthConfig      `koanf:"auth"`
	Client    ClientConfig    `koanf:"client"    validate:"required"`
	LLM       LLMConfig       `koanf:"llm"       validate:"required"`
	Speech    SpeechConfig    `koanf:"speech"    validate:"required"`
	Static    StaticConfig    `koanf:"static"    validate:"required"`
	Features  map[string]bool `koanf:"features"`
}

// AppConfig contains application-level settings.
type AppConfig struct {
	Name        string `koanf:"name"        validate:"required"`
	Version     string `koanf:"version"     validate:"required"`
	Environment string `koanf:"environment" validate:"required,oneof=local dev qa prod test"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Port            int           `koanf:"port"             validate:"required,min=1,max=65535"`
	Host            string        `koanf:"host"             validate:"required"`
	ReadTimeout     time.Duration `koanf:"read_timeout"     validate:"required,min=1s"`
	WriteTimeout    time.Duration `koanf:"write_timeout"    validate:"required,min=1s"`
	IdleTimeout     time.Duration `koanf:"idle_timeout"     validate:"required,min=1s"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout" validate:"required,min=1s"`
	RequestTimeout  time.Duration `koanf:"request_timeout"  validate:"required,min=1s"`
	MaxRequestSize  int64         `koanf:"max_request_size" validate:"required,min=1"`
}

// LogConfig contains logging settings.
type LogConfig struct {
	Level     string        `koanf:"level"      validate:"required,oneof=trace debug info warn error"`
	Format    string        `koanf:"format"     validate:"required,oneof=json text pretty"`
	AddSource bool          `koanf:"add_source"`
	File      LogFileConfig `koanf:"file"`
}

// LogFileConfig contains rolling log file settings.
type LogFileConfig struct {
	Enabled    bool   `koanf:"enabled"`
	Path       string `koanf:"path"        validate:"required_if=Enabled true"`
	MaxSizeMB  int    `koanf:"max_size"    validate:"omitempty,min=1,max=1024"`
	MaxBackups int    `koanf:"max_backups" validate:"omitempty,min=0,max=100"`
	MaxAgeDays int    `koanf:"max_age"     validate:"omitempty,min=0,max=365"`
	Compress   bool   `koanf:"compress"`
}

// TelemetryConfig contains OpenTelemetry settings.
type TelemetryConfig struct {
	Enabled      bool    `koanf:"enabled"`
	Endpoint     string  `koanf:"endpoint"      validate:"required_if=Enabled true,omitempty,url"`
	ServiceName  string  `koanf:"service_name"  validate:"required_if=Enabled true"`
	SamplingRate float64 `koanf:"sampling_rate" validate:"min=0,max=1"`
}

// AuthConfig contains header-based caller identity settings. An upstream
// gateway authenticates the caller and forwards identity headers.
type AuthConfig struct {
	Enabled       bool   `koanf:"enabled"`
	SubjectHeader string `koanf:"subject_header" validate:"required_if=Enabled true"`
	ScopesHeader  string `koanf:"scopes_header"`
	SettingsScope string `koanf:"settings_scope"`
}

// ClientConfig contains outbound HTTP client settings.
type ClientConfig struct {
	Timeout        time.Duration        `koanf:"timeout"         validate:"required,min=100ms"`
	Retry          RetryConfig          `koanf:"retry"           validate:"required"`
	CircuitBreaker CircuitBreakerConfig `koanf:"circuit_breaker" validate:"required"`
	Transport      TransportConfig      `koanf:"transport"       validate:"required"`
}

// RetryConfig contains retry settings for HTTP clients.
type RetryConfig struct {
	MaxAttempts     int           `koanf:"max_attempts"     validate:"required,min=1,max=10"`
	InitialInterval time.Duration `koanf:"initial_interval" validate:"required,min=10ms"`
	MaxInterval     time.Duration `koanf:"max_interval"     validate:"required,min=100ms"`
	Multiplier      float64       `koanf:"multiplier"       validate:"required,min=1.1,max=10"`
	JitterFactor    float64       `koanf:"jitter_factor"    validate:"min=0,max=1"`
}

// CircuitBreakerConfig contains circuit breaker settings for HTTP clients.
type CircuitBreakerConfig struct {
	MaxFailures   int           `koanf:"max_failures"    validate:"required,min=1"`
	Timeout       time.Duration `koanf:"timeout"         validate:"required,min=1s"`
	HalfOpenLimit int           `koanf:"half_open_limit" validate:"required,min=1"`
}

// TransportConfig contains HTTP transport pool settings.
type TransportConfig struct {
	MaxIdleConns        int           `koanf:"max_idle_conns"          validate:"required,min=1"`
	MaxIdleConnsPerHost int           `koanf:"max_idle_conns_per_host" validate:"required,min=1"`
	IdleConnTimeout     time.Duration `koanf:"idle_conn_timeout"       validate:"required,min=1s"`
}

// LLMConfig configures the OpenAI-compatible chat endpoint used for
// person classification and quote generation.
type LLMConfig struct {
	BaseURL string        `koanf:"base_url" validate:"required,url"`
	APIKey  string        `koanf:"api_key"`
	Model   string        `koanf:"model"    validate:"required"`
	Timeout time.Duration `koanf:"timeout"  validate:"required,min=1s"`
}

// SpeechConfig configures text-to-speech.
type SpeechConfig struct {
	Provider      string        `koanf:"provider"       validate:"required,oneof=cloud openai browser"`
	BaseURL       string        `koanf:"base_url"       validate:"required_unless=Provider browser,omitempty,url"`
	APIKey        string        `koanf:"api_key"`
	LanguageCode  string        `koanf:"language_code"  validate:"required"`
	DefaultVoice  string        `koanf:"default_voice"  validate:"required"`
	DefaultModel  string        `koanf:"default_model"  validate:"required"`
	DefaultPrompt string        `koanf:"default_prompt"`
	Timeout       time.Duration `koanf:"timeout"        validate:"required,min=1s"`
}

// StaticConfig locates the HTML pages served at /, /quotes and /settings.
type StaticConfig struct {
	Dir string `koanf:"dir" validate:"required"`
}

// FeatureEnabled reports a flag from the features section.
func (c *Config) FeatureEnabled(name string, defaultValue bool) bool {
	v, ok := c.Features[name]
	if !ok {
		return defaultValue
	}

	return v
}

// defaults returns the default configuration values.
func defaults() map[string]any {
	return map[string]any{
		"app.name":        "quote-reader",
		"app.version":     "dev",
		"app.environment": "local",

		"server.port":             DefaultServerPort,
		"server.host":             "0.0.0.0",
		"server.read_timeout":     "30s",
		"server.write_timeout":    "120s",
		"server.idle_timeout":     "120s",
		"server.shutdown_timeout": "10s",
		"server.request_timeout":  "90s",
		"server.max_request_size": DefaultMaxRequestSize,

		"log.level":            "info",
		"log.format":           "json",
		"log.add_source":       false,
		"log.file.enabled":     false,
		"log.file.path":        "./logs/quote-reader.log",
		"log.file.max_size":    DefaultLogFileMaxSizeMB,
		"log.file.max_backups": DefaultLogFileMaxBackups,
		"log.file.max_age":     DefaultLogFileMaxAgeDays,
		"log.file.compress":    true,

		"telemetry.enabled":       false,
		"telemetry.endpoint":      "",
		"telemetry.service_name":  "quote-reader",
		"telemetry.sampling_rate": 1.0,

		"auth.enabled":        false,
		"auth.subject_header": "X-User-ID",
		"auth.scopes_header":  "X-User-Scopes",
		"auth.settings_scope": "",

		"client.timeout":                           "30s",
		"client.retry.max_attempts":                DefaultClientRetryMaxAttempts,
		"client.retry.initial_interval":            "100ms",
		"client.retry.max_interval":                "5s",
		"client.retry.multiplier":                  DefaultClientRetryMultiplier,
		"client.retry.jitter_factor":               DefaultClientRetryJitterFactor,
		"client.circuit_breaker.max_failures":      DefaultClientCircuitMaxFailures,
		"client.circuit_breaker.timeout":           "30s",
		"client.circuit_breaker.half_open_limit":   DefaultClientCircuitHalfOpenLimit,
		"client.transport.max_idle_conns":          DefaultTransportMaxIdleConns,
		"client.transport.max_idle_conns_per_host": DefaultTransportMaxIdleConnsPerHost,
		"client.transport.idle_conn_timeout":       "90s",

		"llm.base_url": DefaultLLMBaseURL,
		"llm.api_key":  "",
		"llm.model":    DefaultLLMModel,
		"llm.timeout":  "30s",

		"speech.provider":       SpeechProviderCloud,
		"speech.base_url":       DefaultSpeechBaseURL,
		"speech.api_key":        "",
		"speech.language_code":  "en-US",
		"speech.default_voice":  "Aoede",
		"speech.default_model":  DefaultSpeechModel,
		"speech.default_prompt": DefaultSpeechPrompt,
		"speech.timeout":        "60s",

		"static.dir": "web/static",

		"features.person_aware_quotes": true,
	}
}

// Load loads configuration with the following precedence (highest to lowest):
//  1. GEMINI_API_KEY (alias for llm.api_key)
//  2. Environment variables (APP_ prefix, "__" between levels: APP_LLM__API_KEY)
//  3. .env file in the working directory (never overrides the real environment)
//  4. Profile config file (configs/{profile}.yaml)
//  5. Base config file (configs/base.yaml)
//  6. Default values
func Load(profile string) (*Config, error) {
	return load(profile, ".env")
}

func load(profile, dotenvPath string) (*Config, error) {
	k := koanf.New(".")

	err := k.Load(confmap.Provider(defaults(), "."), nil)
	if err != nil {
		return nil, fmt.Errorf("loading defaults: %w", err)
	}

	err = loadFileIfExists(k, "configs/base.yaml")
	if err != nil {
		return nil, fmt.Errorf("loading base config: %w", err)
	}

	if profile != "" {
		profilePath := fmt.Sprintf("configs/%s.yaml", profile)

		err := loadFileIfExists(k, profilePath)
		if err != nil {
			return nil, fmt.Errorf("loading profile config %q: %w", profile, err)
		}
	}

	err = loadDotenv(dotenvPath)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", dotenvPath, err)
	}

	err = k.Load(env.Provider("APP_", ".", envKey), nil)
	if err != nil {
		return nil, fmt.Errorf("loading env vars: %w", err)
	}

	err = k.Load(env.Provider("GEMINI_", ".", func(s string) string {
		if s == "GEMINI_API_KEY" {
			return "llm.api_key"
		}

		return ""
	}), nil)
	if err != nil {
		return nil, fmt.Errorf("loading GEMINI_API_KEY: %w", err)
	}

	var cfg Config

	err = k.Unmarshal("", &cfg)
	if err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	// Both endpoints are Google APIs, so one key usually serves both.
	if cfg.Speech.APIKey == "" {
		cfg.Speech.APIKey = cfg.LLM.APIKey
	}

	return &cfg, nil
}

// envKey maps APP_LLM__API_KEY to llm.api_key.
func envKey(s string) string {
	return strings.ReplaceAll(
		strings.ToLower(strings.TrimPrefix(s, "APP_")),
		"__",
		".",
	)
}

// loadFileIfExists loads a YAML config file if it exists.
// Returns nil if the file doesn't exist, error only for parse/read failures.
func loadFileIfExists(k *koanf.Koanf, path string) error {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}

	return k.Load(file.Provider(path), yaml.Parser())
}

// loadDotenv exports variables from path into the process environment.
// A missing file is not an error.
func loadDotenv(path string) error {
	if path == "" {
		return nil
	}

	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}

	return godotenv.Load(path)
}
