package logging

import (
	"log/slog"
	"regexp"

	"github.com/m-mizutani/masq"
)

var (
	// Gemini and Cloud TTS keys share the Google API key shape.
	googleKeyPattern = regexp.MustCompile(`AIza[0-9A-Za-z_-]{35}`)
	openAIKeyPattern = regexp.MustCompile(`^sk-[A-Za-z0-9_-]{20,}$`)
	jwtPattern       = regexp.MustCompile(`^eyJ[A-Za-z0-9_-]*\.eyJ[A-Za-z0-9_-]*\.[A-Za-z0-9_-]*$`)
	authHeaderValue  = regexp.MustCompile(`(?i)^(bearer|basic)\s+.+$`)
)

// sensitiveFields are matched exactly against attribute and struct field names.
var sensitiveFields = []string{
	"password",
	"token",
	"apiKey", "apikey", "api_key", "APIKey",
	"gemini_api_key", "x-goog-api-key",
	"access_token", "accessToken", "refresh_token", "refreshToken",
	"authorization", "Authorization",
	"cookie", "session",
	"credentials",
}

// RedactOptions returns the masq options applied to every log output.
func RedactOptions() []masq.Option {
	opts := make([]masq.Option, 0, len(sensitiveFields)+6)

	for _, name := range sensitiveFields {
		opts = append(opts, masq.WithFieldName(name))
	}

	return append(opts,
		masq.WithFieldPrefix("secret"),
		masq.WithFieldPrefix("private"),
		masq.WithRegex(googleKeyPattern),
		masq.WithRegex(openAIKeyPattern),
		masq.WithRegex(jwtPattern),
		masq.WithRegex(authHeaderValue),
	)
}

// Redactor builds a slog ReplaceAttr func from RedactOptions plus extra.
func Redactor(extra ...masq.Option) func(groups []string, a slog.Attr) slog.Attr {
	return masq.New(append(RedactOptions(), extra...)...)
}
