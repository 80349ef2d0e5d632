package calculate

import (
	"math"
	"testing"
	"time"

	"macrosig/internal/model"
)

func pricePoint(t time.Time, price float64) model.PricePoint {
	return model.PricePoint{Timestamp: t.Unix(), Price: price}
}

func TestResampleMonthlyKeepsLatestPerMonth(t *testing.T) {
	early := time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)
	late := time.Date(2024, 3, 28, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		points []model.PricePoint
		want   float64
	}{
		{
			name:   "later timestamp wins",
			points: []model.PricePoint{pricePoint(early, 100), pricePoint(late, 200)},
			want:   200,
		},
		{
			name:   "input order does not matter",
			points: []model.PricePoint{pricePoint(late, 200), pricePoint(early, 100)},
			want:   200,
		},
		{
			name:   "equal timestamps resolve last seen",
			points: []model.PricePoint{pricePoint(late, 100), pricePoint(late, 300)},
			want:   300,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			candles := ResampleMonthly(tt.points)
			if len(candles) != 1 {
				t.Fatalf("ResampleMonthly() produced %d candles, want 1", len(candles))
			}
			if candles[0].MonthKey != "2024-03" {
				t.Errorf("MonthKey = %q, want 2024-03", candles[0].MonthKey)
			}
			if candles[0].Close != tt.want {
				t.Errorf("Close = %v, want %v", candles[0].Close, tt.want)
			}
		})
	}
}

func TestResampleMonthlyDropsNonFinite(t *testing.T) {
	ts := time.Date(2024, 3, 28, 0, 0, 0, 0, time.UTC)
	points := []model.PricePoint{
		pricePoint(ts.AddDate(0, 0, -1), 100),
		pricePoint(ts, math.NaN()),
		pricePoint(ts, math.Inf(1)),
	}

	candles := ResampleMonthly(points)
	if len(candles) != 1 {
		t.Fatalf("ResampleMonthly() produced %d candles, want 1", len(candles))
	}
	if candles[0].Close != 100 {
		t.Errorf("Close = %v, want finite point 100", candles[0].Close)
	}
}

func TestResampleMonthlySortsAscending(t *testing.T) {
	points := []model.PricePoint{
		pricePoint(time.Date(2024, 2, 10, 0, 0, 0, 0, time.UTC), 2),
		pricePoint(time.Date(2023, 12, 10, 0, 0, 0, 0, time.UTC), 1),
		pricePoint(time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC), 3),
	}

	candles := ResampleMonthly(points)
	want := []string{"2023-12", "2024-02", "2024-05"}
	if len(candles) != len(want) {
		t.Fatalf("ResampleMonthly() produced %d candles, want %d", len(candles), len(want))
	}
	for i, k := range want {
		if candles[i].MonthKey != k {
			t.Errorf("candles[%d].MonthKey = %q, want %q", i, candles[i].MonthKey, k)
		}
	}
}

func TestResampleMonthlyUsesUTCMonth(t *testing.T) {
	// 2024-03-31 23:30 UTC stays in March regardless of local zone.
	ts := time.Date(2024, 3, 31, 23, 30, 0, 0, time.UTC)
	candles := ResampleMonthly([]model.PricePoint{pricePoint(ts, 50)})
	if len(candles) != 1 || candles[0].MonthKey != "2024-03" {
		t.Fatalf("ResampleMonthly() = %+v, want one 2024-03 candle", candles)
	}
}
