package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// validate reports fields by their koanf keys so messages read like the YAML.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("koanf"), ",")
		if name == "" || name == "-" {
			return f.Name
		}

		return name
	})

	v.RegisterStructValidation(validateServer, ServerConfig{})
	v.RegisterStructValidation(validateRetry, RetryConfig{})
	v.RegisterStructValidation(validateAuth, AuthConfig{})

	return v
}

// The request timeout must fire before the write deadline closes the
// connection, otherwise callers get a reset instead of a 504 envelope.
func validateServer(sl validator.StructLevel) {
	s, _ := sl.Current().Interface().(ServerConfig)
	if s.RequestTimeout > s.WriteTimeout {
		sl.ReportError(s.RequestTimeout, "request_timeout", "RequestTimeout", "ltefield", "write_timeout")
	}
}

func validateRetry(sl validator.StructLevel) {
	r, _ := sl.Current().Interface().(RetryConfig)
	if r.MaxInterval < r.InitialInterval {
		sl.ReportError(r.MaxInterval, "max_interval", "MaxInterval", "gtefield", "initial_interval")
	}
}

func validateAuth(sl validator.StructLevel) {
	a, _ := sl.Current().Interface().(AuthConfig)
	if a.Enabled && a.SettingsScope != "" && a.ScopesHeader == "" {
		sl.ReportError(a.ScopesHeader, "scopes_header", "ScopesHeader", "required_with", "settings_scope")
	}
}

// Validate checks the loaded configuration. The service refuses to start
// on any violation.
func (c *Config) Validate() error {
	err := validate.Struct(c)

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	lines := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		lines = append(lines, describe(fe))
	}

	return fmt.Errorf("config validation failed:\n  %s", strings.Join(lines, "\n  "))
}

var tagMessages = map[string]string{
	"required":        "is required",
	"required_if":     "is required when %s",
	"required_unless": "is required unless %s",
	"required_with":   "is required with %s",
	"min":             "must be at least %s",
	"max":             "must be at most %s",
	"oneof":           "must be one of: %s",
	"url":             "must be a valid URL",
	"ltefield":        "must not exceed %s",
	"gtefield":        "must be at least %s",
}

// describe renders "server.port must be at most 65535" style messages.
func describe(fe validator.FieldError) string {
	field := keyPath(fe.Namespace())

	msg, ok := tagMessages[fe.Tag()]
	if !ok {
		return fmt.Sprintf("%s failed validation: %s", field, fe.Tag())
	}

	if strings.Contains(msg, "%s") {
		msg = fmt.Sprintf(msg, fe.Param())
	}

	return field + " " + msg
}

// keyPath turns "Config.server.port" into "server.port".
func keyPath(namespace string) string {
	_, rest, found := strings.Cut(namespace, ".")
	if !found {
		rest = namespace
	}

	return strings.ToLower(rest)
}
