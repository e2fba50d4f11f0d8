package provider

import "time"

// SeriesPoint is one dated observation from an economic or market data
// series.
type SeriesPoint struct {
	Date  time.Time
	Value float64
}

// FearGreedPoint is CNN's composite sentiment reading.
type FearGreedPoint struct {
	Value          float64
	Classification string
	Timestamp      time.Time
}

// Quote is a point-in-time quote summary for one symbol.
type Quote struct {
	Symbol     string
	Price      float64
	TrailingPE float64
}
