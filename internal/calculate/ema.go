package calculate

import "math"

// Absent marks a gap in a series. Series keep the same length as their
// input; indices with no defined value hold NaN.
func Absent() float64 { return math.NaN() }

// IsAbsent reports whether v marks a gap.
func IsAbsent(v float64) bool { return math.IsNaN(v) }

// EMA computes an exponential moving average with the given period.
// The filter is seeded with the arithmetic mean of the earliest run of
// period consecutive present values; everything before the seed index is
// absent. A gap in the input produces a gap in the output but does not
// reset the filter: the previous EMA value carries forward to the next
// present value.
func EMA(series []float64, period int) []float64 {
	out := make([]float64, len(series))
	for i := range out {
		out[i] = Absent()
	}
	if period <= 0 || len(series) < period {
		return out
	}

	// Earliest index ending a full window of present values.
	start := -1
	run := 0
	for i, v := range series {
		if IsAbsent(v) {
			run = 0
			continue
		}
		run++
		if run == period {
			start = i
			break
		}
	}
	if start < 0 {
		return out
	}

	var sum float64
	for i := start - period + 1; i <= start; i++ {
		sum += series[i]
	}
	ema := sum / float64(period)
	out[start] = ema

	k := 2.0 / float64(period+1)
	for i := start + 1; i < len(series); i++ {
		v := series[i]
		if IsAbsent(v) {
			continue
		}
		ema = (v-ema)*k + ema
		out[i] = ema
	}
	return out
}
