package signal

import (
	"context"
	"fmt"
	"net/http"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"macrosig/internal/apperr"
	"macrosig/internal/calculate"
	"macrosig/internal/model"
)

// MACD parameters for the monthly BTC series.
const (
	fastPeriod   = 12
	slowPeriod   = 26
	signalPeriod = 9

	// MinMonthlyCandles is the fewest resampled months the pipeline accepts.
	MinMonthlyCandles = 40
)

// PriceSource abstracts the daily price feed.
type PriceSource interface {
	GetDailyPrices(ctx context.Context, timespan string) ([]model.PricePoint, error)
}

// ShortTerm is the BTC monthly MACD crossover pipeline.
type ShortTerm struct {
	source   PriceSource
	timespan string
	logger   zerolog.Logger
}

// NewShortTerm creates the short-term pipeline over the given price source.
func NewShortTerm(source PriceSource, timespan string) *ShortTerm {
	if timespan == "" {
		timespan = "5years"
	}
	return &ShortTerm{
		source:   source,
		timespan: timespan,
		logger:   log.With().Str("component", "shortterm_pipeline").Logger(),
	}
}

// Run executes the pipeline once: daily prices, monthly resample, MACD,
// last crossover, classification. Loading is a valid outcome, not an error.
func (p *ShortTerm) Run(ctx context.Context) (model.Classification, error) {
	points, err := p.source.GetDailyPrices(ctx, p.timespan)
	if err != nil {
		return "", err
	}

	candles := calculate.ResampleMonthly(points)
	if len(candles) < MinMonthlyCandles {
		return "", apperr.New(http.StatusUnprocessableEntity, apperr.CodeNotEnoughData,
			fmt.Sprintf("need at least %d monthly candles, got %d", MinMonthlyCandles, len(candles)))
	}

	closes := make([]float64, len(candles))
	months := make([]string, len(candles))
	for i, c := range candles {
		closes[i] = c.Close
		months[i] = c.MonthKey
	}

	macd := calculate.ComputeMACD(closes, fastPeriod, slowPeriod, signalPeriod)
	last := calculate.LastCross(macd, months)
	cls := calculate.Classify(macd, last)

	p.logger.Info().
		Str("classification", string(cls)).
		Str("last_cross", string(last.Direction)).
		Str("cross_month", last.MonthKey).
		Int("months", len(candles)).
		Msg("Short-term signal computed")

	return cls, nil
}
