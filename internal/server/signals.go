package server

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// handleShortTerm runs the BTC/MACD pipeline and returns its
// classification. A new request cancels a still-running one.
func (s *Server) handleShortTerm(c echo.Context) error {
	ctx, cancel := s.shortRunner.Begin(c.Request().Context())
	defer cancel()

	cls, err := s.shortTerm.Run(ctx)
	if err != nil {
		return s.respondError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"signal": string(cls)})
}

// handleMidTerm runs the M2/YoY pipeline and returns its SignalResult.
func (s *Server) handleMidTerm(c echo.Context) error {
	ctx, cancel := s.midRunner.Begin(c.Request().Context())
	defer cancel()

	result, err := s.midTerm.Run(ctx)
	if err != nil {
		return s.respondError(c, err)
	}
	return c.JSON(http.StatusOK, result)
}
