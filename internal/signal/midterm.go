package signal

import (
	"context"
	"net/http"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"macrosig/internal/apperr"
	"macrosig/internal/calculate"
	"macrosig/internal/model"
)

const (
	// MinYoYPoints is the fewest year-over-year entries the pipeline accepts.
	MinYoYPoints = 6

	priorOffsetMonths   = 3
	maxPriorSearchSteps = 12
)

// ObservationSource abstracts the relayed economic-data feed.
type ObservationSource interface {
	GetObservations(ctx context.Context, seriesID, apiKey string) ([]model.Observation, error)
}

// MidTerm is the money-supply YoY momentum pipeline.
type MidTerm struct {
	source   ObservationSource
	seriesID string
	apiKey   string
	logger   zerolog.Logger
}

// NewMidTerm creates the mid-term pipeline over the given observation source.
func NewMidTerm(source ObservationSource, seriesID, apiKey string) *MidTerm {
	if seriesID == "" {
		seriesID = "M2SL"
	}
	return &MidTerm{
		source:   source,
		seriesID: seriesID,
		apiKey:   apiKey,
		logger:   log.With().Str("component", "midterm_pipeline").Logger(),
	}
}

// Run executes the pipeline once: observations, monthly levels, YoY series,
// latest versus roughly-a-quarter-earlier comparison.
func (p *MidTerm) Run(ctx context.Context) (*model.SignalResult, error) {
	observations, err := p.source.GetObservations(ctx, p.seriesID, p.apiKey)
	if err != nil {
		return nil, err
	}

	levels := calculate.BuildLevels(observations)
	yoy := calculate.YoY(levels)
	if len(yoy) < MinYoYPoints {
		return nil, apperr.New(http.StatusUnprocessableEntity, apperr.CodeNotEnoughYoY,
			"too few YoY points").
			WithDetail("points", len(yoy))
	}

	latest := latestMonth(yoy)
	prior, err := priorMonth(yoy, latest)
	if err != nil {
		return nil, err
	}

	delta := yoy[latest] - yoy[prior]
	cls := model.Bearish
	if delta > 0 {
		cls = model.Bullish
	}

	result := &model.SignalResult{
		Signal:      cls,
		LatestMonth: latest,
		LatestYoY:   yoy[latest],
		PriorMonth:  prior,
		PriorYoY:    yoy[prior],
		Delta:       delta,
	}

	p.logger.Info().
		Str("classification", string(cls)).
		Str("latest", latest).
		Float64("latest_yoy", yoy[latest]).
		Str("prior", prior).
		Float64("prior_yoy", yoy[prior]).
		Float64("delta", delta).
		Msg("Mid-term signal computed")

	return result, nil
}

// latestMonth returns the lexicographically greatest key, which is the
// chronologically latest one since keys are zero-padded YYYY-MM.
func latestMonth(yoy map[string]float64) string {
	var latest string
	for k := range yoy {
		if k > latest {
			latest = k
		}
	}
	return latest
}

// priorMonth walks back from latest minus three months, one month at a
// time, to the nearest month that has a YoY reading.
func priorMonth(yoy map[string]float64, latest string) (string, error) {
	key, err := calculate.AddMonths(latest, -priorOffsetMonths)
	if err != nil {
		return "", apperr.New(http.StatusUnprocessableEntity, apperr.CodeNoPriorMonth, err.Error())
	}
	for step := 0; step < maxPriorSearchSteps; step++ {
		if _, ok := yoy[key]; ok {
			return key, nil
		}
		key, err = calculate.AddMonths(key, -1)
		if err != nil {
			return "", apperr.New(http.StatusUnprocessableEntity, apperr.CodeNoPriorMonth, err.Error())
		}
	}
	return "", apperr.New(http.StatusUnprocessableEntity, apperr.CodeNoPriorMonth,
		"no prior YoY month within search window").
		WithDetail("latest", latest)
}
