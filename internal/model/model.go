package model

import "time"

// PricePoint is one daily BTC observation from the chart API.
type PricePoint struct {
	Timestamp int64   `json:"timestamp"`
	Price     float64 `json:"price"`
}

// MonthlyCandle is the last daily point seen within one UTC calendar month.
type MonthlyCandle struct {
	MonthKey   string    `json:"month"`
	Close      float64   `json:"close"`
	ObservedAt time.Time `json:"observed_at"`
}

// Classification is the stance a pipeline settles on.
type Classification string

const (
	Bullish Classification = "bullish"
	Bearish Classification = "bearish"
	// Loading means there is not yet enough data to classify. It is not an error.
	Loading Classification = "loading"
)

// CrossDirection is the direction of a MACD/signal crossover.
type CrossDirection string

const (
	CrossUp   CrossDirection = "up"
	CrossDown CrossDirection = "down"
	CrossNone CrossDirection = "none"
)

// CrossEvent is the most recent sign change of (macd - signal).
// Index is -1 and MonthKey empty when no crossover was found.
type CrossEvent struct {
	Direction CrossDirection `json:"direction"`
	MonthKey  string         `json:"month,omitempty"`
	Index     int            `json:"index"`
}

// SignalResult is the mid-term pipeline's output.
type SignalResult struct {
	Signal      Classification `json:"signal"`
	LatestMonth string         `json:"latest_month"`
	LatestYoY   float64        `json:"latest_yoy"`
	PriorMonth  string         `json:"prior_month"`
	PriorYoY    float64        `json:"prior_yoy"`
	Delta       float64        `json:"delta"`
}

// ChartResponse is the daily-price chart API payload.
type ChartResponse struct {
	Status string `json:"status"`
	Name   string `json:"name"`
	Unit   string `json:"unit"`
	Values []struct {
		X int64   `json:"x"`
		Y float64 `json:"y"`
	} `json:"values"`
}

// Observation is one FRED-style record. A Value of "." or "" denotes a
// missing reading.
type Observation struct {
	Date  string `json:"date"`
	Value string `json:"value"`
}

// ObservationsResponse is the economic-data observations API payload.
type ObservationsResponse struct {
	Observations []Observation `json:"observations"`
}
