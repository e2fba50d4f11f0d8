package scoring

import (
	"math"

	"market-timer/internal/domain"
)

// IndicatorStat carries the fixed historical statistics and composite weight
// for one core indicator. The mean/std pairs are population statistics over a
// multi-decade reference window and are never recomputed at runtime, so
// composite scores stay comparable across time. Std must be > 0.
type IndicatorStat struct {
	Name    string
	Aliases []string
	Mean    float64
	Std     float64
	Invert  bool
	Weight  float64
}

// DefaultStats returns the reference statistics for the five core
// indicators. The weights sum to 1.0. Each indicator lists its accepted
// input aliases in priority order: verbose-camel first, storage-snake second.
func DefaultStats() []IndicatorStat {
	return []IndicatorStat{
		{
			Name:    "HY Spread",
			Aliases: []string{"hySpread", "hy_spread"},
			Mean:    5.134,
			Std:     2.5271,
			Weight:  0.281,
		},
		{
			Name:    "VIX",
			Aliases: []string{"vix"},
			Mean:    20.097,
			Std:     8.0555,
			Weight:  0.2569,
		},
		{
			Name:    "Initial Claims",
			Aliases: []string{"initialClaims", "initial_claims"},
			Mean:    358862.6001,
			Std:     318057.9358,
			Weight:  0.2351,
		},
		{
			Name:    "S&P vs 200MA",
			Aliases: []string{"spyVs200MA", "spy_vs_200ma"},
			Mean:    3.4949,
			Std:     7.9576,
			Invert:  true,
			Weight:  0.1628,
		},
		{
			Name:    "Yield Curve 10Y-2Y",
			Aliases: []string{"yieldCurve10Y2Y", "yield_curve_10y2y"},
			Mean:    0.9484,
			Std:     0.929,
			Weight:  0.0629,
		},
	}
}

// CompositeInput is a sparse record of raw indicator values, keyed by field
// name. Absent keys represent missing data for the day. Inputs are built
// fresh per scoring call and never mutated afterwards.
type CompositeInput map[string]float64

// InputFromSnapshot builds a composite input from a live collector snapshot
// using the verbose field naming.
func InputFromSnapshot(s domain.MarketIndicators) CompositeInput {
	in := CompositeInput{}
	putValue(in, "hySpread", s.HYSpread)
	putValue(in, "vix", s.VIX)
	putValue(in, "initialClaims", s.InitialClaims)
	putValue(in, "spyVs200MA", s.SPYVs200MA)
	putValue(in, "yieldCurve10Y2Y", s.YieldCurve10Y2Y)
	return in
}

// InputFromRecord builds a composite input from a persisted history row
// using the storage field naming.
func InputFromRecord(r domain.MarketHistoryRecord) CompositeInput {
	in := CompositeInput{}
	putValue(in, "hy_spread", r.HYSpread)
	putValue(in, "vix", r.VIX)
	putValue(in, "initial_claims", r.InitialClaims)
	putValue(in, "spy_vs_200ma", r.SPYVs200MA)
	putValue(in, "yield_curve_10y2y", r.YieldCurve10Y2Y)
	return in
}

func putValue(in CompositeInput, key string, v *float64) {
	if v != nil {
		in[key] = *v
	}
}

// resolveAlias returns the first populated alias in priority order.
func resolveAlias(in CompositeInput, aliases []string) (float64, bool) {
	for _, alias := range aliases {
		if v, ok := in[alias]; ok {
			return v, true
		}
	}
	return 0, false
}

// CalculateComposite aggregates the present core indicators into a single
// 0-100 attractiveness score. Each present value is converted to a z-score
// against its fixed statistics (sign-flipped when the indicator is inverted,
// so a stretched market scores low) and weight-averaged; the averaging
// renormalizes over the weights
// actually present, so a day missing some indicators still scores
// meaningfully on the rest. With no indicators present the neutral midpoint
// 50 is returned. Calibration: z=0 maps to 50, z=+1 to 60, z=+2 to 70.
func CalculateComposite(in CompositeInput, stats []IndicatorStat) float64 {
	weightedZ := 0.0
	totalWeight := 0.0

	for _, stat := range stats {
		value, ok := resolveAlias(in, stat.Aliases)
		if !ok {
			continue
		}
		z := (value - stat.Mean) / stat.Std
		if stat.Invert {
			z = -z
		}
		weightedZ += z * stat.Weight
		totalWeight += stat.Weight
	}

	if totalWeight == 0 {
		return 50
	}

	avgZ := weightedZ / totalWeight
	raw := avgZ*10 + 50
	return round2(clampRange(raw, 0, 100))
}

func clampRange(v, lo, hi float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
