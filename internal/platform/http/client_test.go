package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"macrosig/internal/apperr"
)

func TestGetJSONDecodesPayload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok","count":3}`))
	}))
	defer srv.Close()

	var out struct {
		Status string `json:"status"`
		Count  int    `json:"count"`
	}
	err := NewClient(ClientOptions{}).GetJSON(context.Background(), srv.URL, &out)

	require.NoError(t, err)
	assert.Equal(t, "ok", out.Status)
	assert.Equal(t, 3, out.Count)
}

func TestGetJSONNonSuccessStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer srv.Close()

	var out map[string]any
	err := NewClient(ClientOptions{}).GetJSON(context.Background(), srv.URL, &out)

	require.Error(t, err)
	ae, ok := apperr.As(err)
	require.True(t, ok, "error should normalize to AppError")
	assert.Equal(t, apperr.CodeHTTPNotOK, ae.Code)
	assert.Equal(t, http.StatusNotFound, ae.Status)
	assert.Equal(t, srv.URL, ae.Details["url"])
}

func TestGetJSONTimeoutAborts(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(500 * time.Millisecond)
	}))
	defer srv.Close()

	var out map[string]any
	start := time.Now()
	err := NewClient(ClientOptions{Timeout: 50 * time.Millisecond}).
		GetJSON(context.Background(), srv.URL, &out)

	require.Error(t, err)
	assert.True(t, apperr.HasCode(err, apperr.CodeHTTPFetchFailed))
	assert.Less(t, time.Since(start), 400*time.Millisecond, "request should abort at the timeout")
}

func TestGetJSONCallerCancellationAborts(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(500 * time.Millisecond)
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	var out map[string]any
	err := NewClient(ClientOptions{}).GetJSON(ctx, srv.URL, &out)

	require.Error(t, err)
	assert.True(t, apperr.HasCode(err, apperr.CodeHTTPFetchFailed))
}

func TestGetJSONMalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":`))
	}))
	defer srv.Close()

	var out map[string]any
	err := NewClient(ClientOptions{}).GetJSON(context.Background(), srv.URL, &out)

	require.Error(t, err)
	assert.True(t, apperr.HasCode(err, apperr.CodeBadUpstreamShape))
}

func TestGetJSONNetworkFailure(t *testing.T) {
	var out map[string]any
	err := NewClient(ClientOptions{}).GetJSON(context.Background(), "http://127.0.0.1:1", &out)

	require.Error(t, err)
	assert.True(t, apperr.HasCode(err, apperr.CodeHTTPFetchFailed))
}
