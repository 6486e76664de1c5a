package acl

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/bytedance/sonic"

	"github.com/jsamuelsen/quote-reader/internal/adapters/clients"
	"github.com/jsamuelsen/quote-reader/internal/domain"
)

// googleAPI issues REST calls against a Google API and returns failures as
// domain errors. Successful bodies are left for the caller to decode.
type googleAPI struct {
	client  *clients.Client
	service string
}

func (g googleAPI) get(ctx context.Context, path, operation string) (io.ReadCloser, error) {
	resp, err := g.client.Get(ctx, path)

	return g.body(resp, err, operation)
}

func (g googleAPI) post(ctx context.Context, path string, payload any, operation string) (io.ReadCloser, error) {
	resp, err := g.client.PostJSON(ctx, path, payload)

	return g.body(resp, err, operation)
}

func (g googleAPI) body(resp *http.Response, err error, operation string) (io.ReadCloser, error) {
	if err != nil {
		return nil, MapHTTPError(nil, err, g.service, operation)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		defer func() { _ = resp.Body.Close() }()

		return nil, MapHTTPError(resp, nil, g.service, operation)
	}

	return resp.Body, nil
}

// decode reads one JSON document from body and closes it. A body that is
// not the expected shape means the provider misbehaved, so it maps to
// ErrUnavailable.
func decode[T any](body io.ReadCloser, service string) (T, error) {
	defer func() { _ = body.Close() }()

	var out T
	if err := sonic.ConfigDefault.NewDecoder(body).Decode(&out); err != nil {
		return out, domain.NewUnavailableError(service, fmt.Sprintf("decoding response: %v", err))
	}

	return out, nil
}

func requireField(value, field string) error {
	if value == "" {
		return domain.NewValidationError(field, "is required")
	}

	return nil
}
