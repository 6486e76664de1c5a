package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig(t *testing.T) *Config {
	t.Helper()

	cfg, err := load("", "")
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	return cfg
}

func TestValidate_Violations(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{
			name:   "port out of range",
			mutate: func(c *Config) { c.Server.Port = 70000 },
			want:   "server.port must be at most 65535",
		},
		{
			name:   "unknown speech provider",
			mutate: func(c *Config) { c.Speech.Provider = "espeak" },
			want:   "speech.provider must be one of: cloud openai browser",
		},
		{
			name:   "missing model",
			mutate: func(c *Config) { c.LLM.Model = "" },
			want:   "llm.model is required",
		},
		{
			name:   "request timeout beyond write timeout",
			mutate: func(c *Config) { c.Server.RequestTimeout = c.Server.WriteTimeout + time.Second },
			want:   "server.request_timeout must not exceed write_timeout",
		},
		{
			name: "retry max below initial",
			mutate: func(c *Config) {
				c.Client.Retry.InitialInterval = 2 * time.Second
				c.Client.Retry.MaxInterval = time.Second
			},
			want: "client.retry.max_interval must be at least initial_interval",
		},
		{
			name: "settings scope without scopes header",
			mutate: func(c *Config) {
				c.Auth.Enabled = true
				c.Auth.SettingsScope = "quotes:settings"
				c.Auth.ScopesHeader = ""
			},
			want: "auth.scopes_header is required with settings_scope",
		},
		{
			name: "telemetry endpoint required",
			mutate: func(c *Config) {
				c.Telemetry.Enabled = true
				c.Telemetry.Endpoint = ""
			},
			want: "telemetry.endpoint is required when",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig(t)
			tt.mutate(cfg)

			err := cfg.Validate()

			require.Error(t, err)
			assert.Contains(t, err.Error(), "config validation failed")
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestValidate_BrowserSpeechNeedsNoURL(t *testing.T) {
	cfg := validConfig(t)
	cfg.Speech.Provider = SpeechProviderBrowser
	cfg.Speech.BaseURL = ""

	assert.NoError(t, cfg.Validate())
}

func TestKeyPath(t *testing.T) {
	assert.Equal(t, "server.port", keyPath("Config.server.port"))
	assert.Equal(t, "port", keyPath("port"))
}
