package sumup

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Kaisa-Ukkonen/tyoukkoset/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestMe_PassesThroughResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v0.1/me", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"merchant_profile":{"merchant_code":"M123"}}`))
	}))
	defer server.Close()

	client := NewClient(config.Config{SumUpAPIKey: "test-key", SumUpBaseURL: server.URL}, zap.NewNop())
	raw, err := client.Me(context.Background())
	require.NoError(t, err)

	var payload map[string]any
	require.NoError(t, json.Unmarshal(raw, &payload))
	assert.Contains(t, payload, "merchant_profile")
}

func TestMe_UpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	client := NewClient(config.Config{SumUpAPIKey: "bad-key", SumUpBaseURL: server.URL}, zap.NewNop())
	_, err := client.Me(context.Background())
	assert.ErrorIs(t, err, ErrUpstream)
}

func TestMe_WithoutKey(t *testing.T) {
	client := NewClient(config.Config{}, zap.NewNop())
	_, err := client.Me(context.Background())
	assert.ErrorIs(t, err, ErrNotConfigured)
}
