package fred

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"macrosig/internal/apperr"
	"macrosig/internal/model"
	platformhttp "macrosig/internal/platform/http"
)

// Relay endpoints. The fallback is only tried when the configured relay is
// the default local one and it answered 404 (typically a relay bound to the
// loopback address under a different name).
const (
	DefaultRelayURL  = "http://localhost:8787/api/fred/observations"
	FallbackRelayURL = "http://127.0.0.1:8787/api/fred/observations"

	relayPath = "/api/fred/observations"
)

// How far back to ask for observations.
const lookbackYears = 6

// Client fetches FRED-style observation series through the relay.
type Client struct {
	relayURL    string
	fallbackURL string
	httpClient  *platformhttp.Client
	logger      zerolog.Logger
}

// ClientOptions holds options for creating a new observations client.
type ClientOptions struct {
	RelayURL       string
	FallbackURL    string
	RequestTimeout time.Duration
	RequestsPerSec int
}

// NewClient creates a new observations client.
func NewClient(opts ClientOptions) *Client {
	if opts.RelayURL == "" {
		opts.RelayURL = DefaultRelayURL
	}
	if opts.FallbackURL == "" {
		opts.FallbackURL = FallbackRelayURL
	}

	return &Client{
		relayURL:    opts.RelayURL,
		fallbackURL: opts.FallbackURL,
		httpClient: platformhttp.NewClient(platformhttp.ClientOptions{
			Timeout:        opts.RequestTimeout,
			RequestsPerSec: opts.RequestsPerSec,
		}),
		logger: log.With().Str("component", "fred_client").Logger(),
	}
}

// GetObservations fetches the observation series for seriesID. apiKey may be
// empty when the relay injects its own key. A 404 from the default local
// relay triggers exactly one attempt against the fallback address; every
// other failure surfaces as-is.
func (c *Client) GetObservations(ctx context.Context, seriesID, apiKey string) ([]model.Observation, error) {
	obs, err := c.fetch(ctx, c.relayURL, seriesID, apiKey)
	if err == nil {
		return obs, nil
	}

	if ae, ok := apperr.As(err); ok &&
		ae.Code == apperr.CodeHTTPNotOK &&
		ae.Status == http.StatusNotFound &&
		isDefaultLocalRelay(c.relayURL) {
		c.logger.Warn().Str("fallback", c.fallbackURL).Msg("Local relay returned 404, retrying against fallback")
		return c.fetch(ctx, c.fallbackURL, seriesID, apiKey)
	}

	return nil, err
}

func (c *Client) fetch(ctx context.Context, endpoint, seriesID, apiKey string) ([]model.Observation, error) {
	q := url.Values{}
	q.Set("series_id", seriesID)
	q.Set("file_type", "json")
	q.Set("observation_start", time.Now().UTC().AddDate(-lookbackYears, 0, 0).Format("2006-01-02"))
	if apiKey != "" {
		q.Set("api_key", apiKey)
	}
	fullURL := endpoint + "?" + q.Encode()

	c.logger.Debug().Str("endpoint", endpoint).Str("series_id", seriesID).Msg("Fetching observations")

	var data model.ObservationsResponse
	if err := c.httpClient.GetJSON(ctx, fullURL, &data); err != nil {
		return nil, err
	}

	if len(data.Observations) == 0 {
		c.logger.Warn().Str("endpoint", endpoint).Msg("No observations in payload")
		return nil, apperr.New(http.StatusBadGateway, apperr.CodeBadUpstreamShape,
			"no observations in payload").
			WithDetail("series_id", seriesID)
	}

	c.logger.Debug().Int("count", len(data.Observations)).Msg("Fetched observations")
	return data.Observations, nil
}

func isDefaultLocalRelay(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	host := u.Hostname()
	return (host == "localhost" || host == "127.0.0.1") && u.Path == relayPath
}
