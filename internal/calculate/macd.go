package calculate

import "macrosig/internal/model"

// MACD holds the MACD and signal lines, index-aligned with the input series.
type MACD struct {
	Line   []float64
	Signal []float64
}

// ComputeMACD builds the MACD line as EMA(fast) - EMA(slow) wherever both
// are present, and the signal line as an EMA of the MACD line.
func ComputeMACD(closes []float64, fastPeriod, slowPeriod, signalPeriod int) MACD {
	fast := EMA(closes, fastPeriod)
	slow := EMA(closes, slowPeriod)

	line := make([]float64, len(closes))
	for i := range closes {
		if IsAbsent(fast[i]) || IsAbsent(slow[i]) {
			line[i] = Absent()
			continue
		}
		line[i] = fast[i] - slow[i]
	}

	return MACD{Line: line, Signal: EMA(line, signalPeriod)}
}

// LastCross scans the whole series and returns the chronologically last
// sign change of (line - signal). Indices where any of the four needed
// values is absent are skipped. monthKeys is index-aligned with the series.
func LastCross(m MACD, monthKeys []string) model.CrossEvent {
	last := model.CrossEvent{Direction: model.CrossNone, Index: -1}
	for i := 1; i < len(m.Line); i++ {
		if IsAbsent(m.Line[i-1]) || IsAbsent(m.Signal[i-1]) ||
			IsAbsent(m.Line[i]) || IsAbsent(m.Signal[i]) {
			continue
		}
		prevDiff := m.Line[i-1] - m.Signal[i-1]
		currDiff := m.Line[i] - m.Signal[i]
		switch {
		case prevDiff <= 0 && currDiff > 0:
			last = model.CrossEvent{Direction: model.CrossUp, MonthKey: monthKeys[i], Index: i}
		case prevDiff >= 0 && currDiff < 0:
			last = model.CrossEvent{Direction: model.CrossDown, MonthKey: monthKeys[i], Index: i}
		}
	}
	return last
}

// Classify maps the last crossover to a stance. Without any crossover the
// sign of the final present (line - signal) value decides; if that is
// absent too, the series is still loading.
func Classify(m MACD, last model.CrossEvent) model.Classification {
	switch last.Direction {
	case model.CrossUp:
		return model.Bullish
	case model.CrossDown:
		return model.Bearish
	}
	for i := len(m.Line) - 1; i >= 0; i-- {
		if IsAbsent(m.Line[i]) || IsAbsent(m.Signal[i]) {
			continue
		}
		if m.Line[i]-m.Signal[i] >= 0 {
			return model.Bullish
		}
		return model.Bearish
	}
	return model.Loading
}
