package acl

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/quote-reader/internal/adapters/clients"
	"github.com/jsamuelsen/quote-reader/internal/domain"
)

func TestGoogleAPI_MapsStatusToDomainErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case voicesPath:
			_, _ = io.WriteString(w, `{"voices":[]}`)
		default:
			w.WriteHeader(http.StatusForbidden)
			_, _ = io.WriteString(w, `{"error":{"code":403,"message":"API key not valid","status":"PERMISSION_DENIED"}}`)
		}
	}))
	defer server.Close()

	client, err := clients.New(testConfig(server.URL))
	require.NoError(t, err)

	api := googleAPI{client: client, service: SpeechServiceName}

	body, err := api.get(context.Background(), voicesPath, "list voices")
	require.NoError(t, err)
	require.NoError(t, body.Close())

	_, err = api.post(context.Background(), synthesizePath, synthesizeRequest{}, "synthesize speech")
	require.Error(t, err)
	assert.True(t, domain.IsForbidden(err))
	assert.Contains(t, err.Error(), "API key not valid")
}

func TestDecode(t *testing.T) {
	t.Run("audio payload", func(t *testing.T) {
		got, err := decode[synthesizeResponse](io.NopCloser(strings.NewReader(`{"audioContent":"bXAz"}`)), SpeechServiceName)

		require.NoError(t, err)
		assert.Equal(t, "bXAz", got.AudioContent)
	})

	t.Run("truncated body is unavailable", func(t *testing.T) {
		_, err := decode[synthesizeResponse](io.NopCloser(strings.NewReader(`{"audioContent":`)), SpeechServiceName)

		require.Error(t, err)
		assert.True(t, domain.IsUnavailable(err))
		assert.Contains(t, err.Error(), "decoding response")
	})
}

func TestDecodeAudio(t *testing.T) {
	audio, err := decodeAudio(synthesizeResponse{AudioContent: "bXAz"})
	require.NoError(t, err)
	assert.Equal(t, []byte("mp3"), audio)

	_, err = decodeAudio(synthesizeResponse{})
	assert.True(t, domain.IsUnavailable(err))

	_, err = decodeAudio(synthesizeResponse{AudioContent: "***"})
	assert.True(t, domain.IsUnavailable(err))
}

func TestRequireField(t *testing.T) {
	require.NoError(t, requireField("Kore", "voice"))

	err := requireField("", "voice")
	assert.True(t, domain.IsValidation(err))
	assert.Contains(t, err.Error(), "voice")
}
