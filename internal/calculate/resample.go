package calculate

import (
	"math"
	"sort"
	"time"

	"macrosig/internal/model"
)

// ResampleMonthly collapses daily points into one candle per UTC calendar
// month, keeping the point with the latest timestamp in each month (equal
// timestamps resolve to the last one seen). Points with a non-finite price
// are discarded before aggregation. The result is sorted ascending by month.
func ResampleMonthly(points []model.PricePoint) []model.MonthlyCandle {
	byMonth := make(map[string]model.MonthlyCandle)
	for _, p := range points {
		if math.IsNaN(p.Price) || math.IsInf(p.Price, 0) {
			continue
		}
		ts := time.Unix(p.Timestamp, 0).UTC()
		key := MonthKey(ts)
		if cur, ok := byMonth[key]; ok && ts.Before(cur.ObservedAt) {
			continue
		}
		byMonth[key] = model.MonthlyCandle{MonthKey: key, Close: p.Price, ObservedAt: ts}
	}

	candles := make([]model.MonthlyCandle, 0, len(byMonth))
	for _, c := range byMonth {
		candles = append(candles, c)
	}
	sort.Slice(candles, func(i, j int) bool {
		return candles[i].MonthKey < candles[j].MonthKey
	})
	return candles
}
