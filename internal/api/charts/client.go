package charts

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"macrosig/internal/apperr"
	"macrosig/internal/model"
	platformhttp "macrosig/internal/platform/http"
)

// MinDailyPoints is the fewest raw daily points a chart payload may carry.
const MinDailyPoints = 60

// Client fetches daily price series from a blockchain-charts style API.
type Client struct {
	baseURL    string
	chart      string
	httpClient *platformhttp.Client
	logger     zerolog.Logger
}

// ClientOptions holds options for creating a new charts client.
type ClientOptions struct {
	BaseURL        string
	Chart          string
	RequestTimeout time.Duration
	RequestsPerSec int
}

// NewClient creates a new charts API client.
func NewClient(opts ClientOptions) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = "https://api.blockchain.info/charts"
	}
	if opts.Chart == "" {
		opts.Chart = "market-price"
	}

	return &Client{
		baseURL: opts.BaseURL,
		chart:   opts.Chart,
		httpClient: platformhttp.NewClient(platformhttp.ClientOptions{
			Timeout:        opts.RequestTimeout,
			RequestsPerSec: opts.RequestsPerSec,
		}),
		logger: log.With().Str("component", "charts_client").Logger(),
	}
}

// GetDailyPrices fetches the sampled daily series for the given timespan,
// sorted ascending by timestamp. A payload that is not status "ok" or that
// carries fewer than MinDailyPoints values is rejected as malformed.
func (c *Client) GetDailyPrices(ctx context.Context, timespan string) ([]model.PricePoint, error) {
	url := fmt.Sprintf("%s/%s?timespan=%s&sampled=true&format=json", c.baseURL, c.chart, timespan)

	c.logger.Debug().Str("url", url).Msg("Fetching daily prices")

	var data model.ChartResponse
	if err := c.httpClient.GetJSON(ctx, url, &data); err != nil {
		return nil, err
	}

	if data.Status != "ok" {
		c.logger.Error().Str("status", data.Status).Msg("Chart API returned non-ok status")
		return nil, apperr.New(http.StatusBadGateway, apperr.CodeBadUpstreamShape,
			fmt.Sprintf("chart payload status %q", data.Status)).
			WithDetail("url", url)
	}
	if len(data.Values) < MinDailyPoints {
		c.logger.Warn().Int("points", len(data.Values)).Msg("Chart payload too short")
		return nil, apperr.New(http.StatusBadGateway, apperr.CodeBadUpstreamShape,
			fmt.Sprintf("need at least %d daily points, got %d", MinDailyPoints, len(data.Values))).
			WithDetail("url", url)
	}

	points := make([]model.PricePoint, 0, len(data.Values))
	for _, v := range data.Values {
		points = append(points, model.PricePoint{Timestamp: v.X, Price: v.Y})
	}
	sort.Slice(points, func(i, j int) bool {
		return points[i].Timestamp < points[j].Timestamp
	})

	c.logger.Debug().Int("count", len(points)).Msg("Fetched daily prices")
	return points, nil
}
