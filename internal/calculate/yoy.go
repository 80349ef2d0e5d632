package calculate

import (
	"strconv"

	"macrosig/internal/model"
)

// BuildLevels folds observations into a month-key to level map. A value of
// "." or "" is a missing reading and is dropped, as is anything that does
// not parse as a number. Duplicate months resolve last-seen-wins in input
// order, not latest-by-date.
func BuildLevels(observations []model.Observation) map[string]float64 {
	levels := make(map[string]float64, len(observations))
	for _, o := range observations {
		if o.Value == "." || o.Value == "" {
			continue
		}
		if len(o.Date) < len(monthKeyLayout) {
			continue
		}
		v, err := strconv.ParseFloat(o.Value, 64)
		if err != nil {
			continue
		}
		levels[o.Date[:len(monthKeyLayout)]] = v
	}
	return levels
}

// YoY returns the year-over-year percentage change per month key, defined
// only for months whose twelve-months-prior level exists and is nonzero.
func YoY(levels map[string]float64) map[string]float64 {
	out := make(map[string]float64, len(levels))
	for key, v := range levels {
		priorKey, err := AddMonths(key, -12)
		if err != nil {
			continue
		}
		prior, ok := levels[priorKey]
		if !ok || prior == 0 {
			continue
		}
		out[key] = (v - prior) / prior * 100
	}
	return out
}
