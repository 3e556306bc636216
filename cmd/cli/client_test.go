package main

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vidshare/backend/internal/dto"
)

func withServer(t *testing.T, handler http.HandlerFunc) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	prevURL, prevToken := apiURL, authToken
	apiURL, authToken = srv.URL, "token-123"
	t.Cleanup(func() { apiURL, authToken = prevURL, prevToken })
}

func TestCallDecodesResponse(t *testing.T) {
	withServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer token-123", r.Header.Get("Authorization"))
		assert.Equal(t, "/api/v1/videos/v1/like", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"active":true}`))
	})

	var result dto.ToggleResponse
	body, err := call(http.MethodPost, "/api/v1/videos/v1/like", &result)
	require.NoError(t, err)
	assert.True(t, result.Active)
	assert.JSONEq(t, `{"active":true}`, string(body))
}

func TestCallReportsAPIError(t *testing.T) {
	withServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`{"code":"STORE_UNAVAILABLE","message":"data store temporarily unavailable","retryable":true}`))
	})

	_, err := call(http.MethodGet, "/api/v1/users/me/history", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "STORE_UNAVAILABLE")
	assert.Contains(t, err.Error(), "retryable")
}

func TestCallNonJSONError(t *testing.T) {
	withServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	_, err := call(http.MethodGet, "/", nil)
	assert.EqualError(t, err, "API error: status 502")
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "1m2s", formatDuration(61.5))
	assert.Equal(t, "0s", formatDuration(0))
}
