package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"macrosig/internal/apperr"
	"macrosig/internal/config"
	platformhttp "macrosig/internal/platform/http"
	"macrosig/internal/signal"
)

// Server is the relay/dashboard HTTP server. It serves the static
// dashboard, relays the two upstream APIs with CORS headers and the
// injected API key, and runs the signal pipelines on request.
type Server struct {
	echo       *echo.Echo
	cfg        *config.Config
	httpClient *platformhttp.Client
	cache      *ttlCache
	logger     zerolog.Logger

	shortTerm *signal.ShortTerm
	midTerm   *signal.MidTerm

	shortRunner signal.Runner
	midRunner   signal.Runner
}

// New wires the server together. The pipelines may be nil, in which case
// the signal endpoints respond 404 and only the relay routes are served.
func New(cfg *config.Config, shortTerm *signal.ShortTerm, midTerm *signal.MidTerm) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	s := &Server{
		echo: e,
		cfg:  cfg,
		httpClient: platformhttp.NewClient(platformhttp.ClientOptions{
			Timeout: time.Duration(cfg.RequestTimeout) * time.Second,
		}),
		cache:     newTTLCache(time.Duration(cfg.CacheTTL) * time.Second),
		logger:    log.With().Str("component", "server").Logger(),
		shortTerm: shortTerm,
		midTerm:   midTerm,
	}

	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodGet, http.MethodOptions},
	}))

	e.GET("/healthz", s.handleHealth)
	e.GET("/api/charts/:chart", s.handleChartRelay)
	e.GET("/api/fred/observations", s.handleObservationsRelay)
	if shortTerm != nil {
		e.GET("/api/signals/short-term", s.handleShortTerm)
	}
	if midTerm != nil {
		e.GET("/api/signals/mid-term", s.handleMidTerm)
	}
	if cfg.StaticDir != "" {
		e.Static("/", cfg.StaticDir)
	}

	return s
}

// Start serves until the listener fails or Shutdown is called.
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.cfg.Port)
	s.logger.Info().Str("addr", addr).Msg("Starting relay server")
	if err := s.echo.Start(addr); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("serving: %w", err)
	}
	return nil
}

// Shutdown drains in-flight requests and stops the listener.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

// Handler exposes the routing tree, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.echo
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// respondError maps a pipeline failure to its JSON shape. AppError statuses
// below 400 (network failures carry 0) surface as 502.
func (s *Server) respondError(c echo.Context, err error) error {
	ae := apperr.From(err)
	s.logger.Error().Str("code", ae.Code).Int("status", ae.Status).Msg(ae.Message)
	status := ae.Status
	if status < http.StatusBadRequest {
		status = http.StatusBadGateway
	}
	return c.JSON(status, ae)
}
