package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/labstack/echo/v4"

	"macrosig/internal/apperr"
)

const jsonContentType = "application/json"

// handleChartRelay passes a chart request through to the price API,
// pinning sampled/format and forwarding the timespan.
func (s *Server) handleChartRelay(c echo.Context) error {
	chart := c.Param("chart")
	timespan := c.QueryParam("timespan")
	if timespan == "" {
		timespan = s.cfg.ChartTimespan
	}

	upstream := fmt.Sprintf("%s/%s?timespan=%s&sampled=true&format=json",
		s.cfg.ChartBaseURL, url.PathEscape(chart), url.QueryEscape(timespan))

	return s.relay(c, "chart:"+chart+":"+timespan, upstream)
}

// handleObservationsRelay passes an observations request through to the
// economic-data API, injecting the configured API key. The key never
// reaches the browser.
func (s *Server) handleObservationsRelay(c echo.Context) error {
	if s.cfg.FredAPIKey == "" {
		return s.respondError(c, apperr.New(http.StatusInternalServerError,
			apperr.CodeMissingProxyOrAPIKey, "relay has no API key configured"))
	}

	seriesID := c.QueryParam("series_id")
	if seriesID == "" {
		seriesID = s.cfg.SeriesID
	}

	q := url.Values{}
	q.Set("series_id", seriesID)
	q.Set("api_key", s.cfg.FredAPIKey)
	q.Set("file_type", "json")
	if start := c.QueryParam("observation_start"); start != "" {
		q.Set("observation_start", start)
	}
	if end := c.QueryParam("observation_end"); end != "" {
		q.Set("observation_end", end)
	}
	upstream := s.cfg.FredBaseURL + "/series/observations?" + q.Encode()

	return s.relay(c, "fred:"+seriesID+":"+c.QueryParams().Encode(), upstream)
}

// relay fetches the upstream payload as raw JSON and passes it through
// verbatim, caching successful bodies briefly.
func (s *Server) relay(c echo.Context, cacheKey, upstream string) error {
	if body, ok := s.cache.Get(cacheKey); ok {
		return c.Blob(http.StatusOK, jsonContentType, body)
	}

	var raw json.RawMessage
	if err := s.httpClient.GetJSON(c.Request().Context(), upstream, &raw); err != nil {
		return s.respondError(c, err)
	}

	s.cache.Set(cacheKey, raw)
	return c.Blob(http.StatusOK, jsonContentType, raw)
}
