package server

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"macrosig/internal/api/charts"
	"macrosig/internal/apperr"
	"macrosig/internal/config"
	"macrosig/internal/signal"
)

func testConfig() *config.Config {
	return &config.Config{
		Port:           8787,
		LogLevel:       "info",
		RequestTimeout: 5,
		ChartBaseURL:   "http://127.0.0.1:1",
		ChartName:      "market-price",
		ChartTimespan:  "5years",
		FredBaseURL:    "http://127.0.0.1:1",
		SeriesID:       "M2SL",
		CacheTTL:       60,
	}
}

func doGet(t *testing.T, srv *httptest.Server, path string, header http.Header) *http.Response {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, srv.URL+path, nil)
	require.NoError(t, err)
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestHealthAndCORS(t *testing.T) {
	srv := httptest.NewServer(New(testConfig(), nil, nil).Handler())
	defer srv.Close()

	resp := doGet(t, srv, "/healthz", http.Header{"Origin": {"http://example.com"}})

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
}

func TestObservationsRelayMissingAPIKey(t *testing.T) {
	cfg := testConfig()
	cfg.FredAPIKey = ""
	srv := httptest.NewServer(New(cfg, nil, nil).Handler())
	defer srv.Close()

	resp := doGet(t, srv, "/api/fred/observations", nil)

	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	var ae apperr.AppError
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&ae))
	assert.Equal(t, apperr.CodeMissingProxyOrAPIKey, ae.Code)
}

func TestObservationsRelayInjectsKey(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/series/observations", r.URL.Path)
		assert.Equal(t, "secret", r.URL.Query().Get("api_key"))
		assert.Equal(t, "M2SL", r.URL.Query().Get("series_id"))
		fmt.Fprint(w, `{"observations":[{"date":"2024-01-01","value":"110"}]}`)
	}))
	defer upstream.Close()

	cfg := testConfig()
	cfg.FredBaseURL = upstream.URL
	cfg.FredAPIKey = "secret"
	srv := httptest.NewServer(New(cfg, nil, nil).Handler())
	defer srv.Close()

	resp := doGet(t, srv, "/api/fred/observations", nil)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.JSONEq(t, `{"observations":[{"date":"2024-01-01","value":"110"}]}`, string(body))
}

func TestChartRelayCachesPayload(t *testing.T) {
	var calls atomic.Int32
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		fmt.Fprint(w, `{"status":"ok","values":[]}`)
	}))
	defer upstream.Close()

	cfg := testConfig()
	cfg.ChartBaseURL = upstream.URL
	srv := httptest.NewServer(New(cfg, nil, nil).Handler())
	defer srv.Close()

	for i := 0; i < 3; i++ {
		resp := doGet(t, srv, "/api/charts/market-price?timespan=5years", nil)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	}

	assert.Equal(t, int32(1), calls.Load(), "repeated requests must hit the cache")
}

func TestChartRelaySurfacesUpstreamStatus(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer upstream.Close()

	cfg := testConfig()
	cfg.ChartBaseURL = upstream.URL
	srv := httptest.NewServer(New(cfg, nil, nil).Handler())
	defer srv.Close()

	resp := doGet(t, srv, "/api/charts/market-price", nil)

	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
	var ae apperr.AppError
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&ae))
	assert.Equal(t, apperr.CodeHTTPNotOK, ae.Code)
}

func TestShortTermEndpoint(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		type value struct {
			X int64   `json:"x"`
			Y float64 `json:"y"`
		}
		from := time.Date(2019, 1, 1, 0, 0, 0, 0, time.UTC)
		values := make([]value, 5*365)
		for i := range values {
			values[i] = value{X: from.AddDate(0, 0, i).Unix(), Y: 100 + float64(i)}
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"status": "ok", "values": values})
	}))
	defer upstream.Close()

	cfg := testConfig()
	chartsClient := charts.NewClient(charts.ClientOptions{BaseURL: upstream.URL})
	shortTerm := signal.NewShortTerm(chartsClient, cfg.ChartTimespan)

	srv := httptest.NewServer(New(cfg, shortTerm, nil).Handler())
	defer srv.Close()

	resp := doGet(t, srv, "/api/signals/short-term", nil)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "bullish", body["signal"])
}
