package scoring

import (
	"fmt"

	"market-timer/internal/domain"
)

// IndicatorKind enumerates every indicator the scoring layer knows about.
// Adding an indicator means adding a kind plus its spec and commentary
// template, all checked at compile time.
type IndicatorKind string

const (
	KindHYSpread        IndicatorKind = "hy_spread"
	KindVIX             IndicatorKind = "vix"
	KindInitialClaims   IndicatorKind = "initial_claims"
	KindSPYVs200MA      IndicatorKind = "spy_vs_200ma"
	KindYieldCurve10Y2Y IndicatorKind = "yield_curve_10y2y"
	KindFearGreed       IndicatorKind = "fear_greed"
	KindBuffett         IndicatorKind = "buffett_indicator"
	KindEquityRiskPrem  IndicatorKind = "equity_risk_premium"
	KindFedBalanceSheet IndicatorKind = "fed_balance_sheet_yoy"
	KindM2Growth        IndicatorKind = "m2_growth_yoy"
	KindYieldCurve10Y3M IndicatorKind = "yield_curve_10y3m"
)

const (
	// Extreme cap bounds: no single reading may look better than 85 or
	// worse than 15, which keeps tail values from dominating interpretation.
	extremeFloor = 15.0
	extremeCeil  = 85.0

	// Momentum centering: zero change maps to 50, saturation at a
	// 30-point score swing over the lookback.
	momentumSwing = 30.0

	// "Three months ago" approximated as 13 records back regardless of
	// cadence gaps, matching the historical scoring behavior.
	momentumLookback = 13
)

// IndicatorSpec is the static display/scoring configuration for one
// indicator. Min != Max is a configuration invariant, not validated at
// runtime.
type IndicatorSpec struct {
	Kind          IndicatorKind
	Name          string
	Category      string
	Min           float64
	Max           float64
	Invert        bool
	Timing        domain.Timing
	DisplayWeight float64
	Format        func(float64) string
}

// TimingWeights returns the (current, momentum) blend pair for a timing
// class. Leading indicators are more about direction of change, lagging
// indicators about current level.
func TimingWeights(t domain.Timing) (current, momentum float64) {
	switch t {
	case domain.TimingLeading:
		return 0.5, 0.5
	case domain.TimingLagging:
		return 0.9, 0.1
	default:
		return 0.7, 0.3
	}
}

// DefaultIndicators returns the eleven configured indicators, ordered by
// display weight descending: the five composite cores first, then the
// reference-only indicators that inform but never enter the composite.
func DefaultIndicators() []IndicatorSpec {
	return []IndicatorSpec{
		{
			Kind: KindHYSpread, Name: "HY Spread", Category: "credit",
			Min: 2.5, Max: 12, Timing: domain.TimingLeading, DisplayWeight: 0.281,
			Format: func(v float64) string { return fmt.Sprintf("%.2f%%", v) },
		},
		{
			Kind: KindVIX, Name: "VIX", Category: "volatility",
			Min: 10, Max: 50, Timing: domain.TimingCoincident, DisplayWeight: 0.2569,
			Format: func(v float64) string { return fmt.Sprintf("%.2f", v) },
		},
		{
			Kind: KindInitialClaims, Name: "Initial Claims", Category: "macro",
			Min: 200000, Max: 700000, Timing: domain.TimingLeading, DisplayWeight: 0.2351,
			Format: func(v float64) string { return fmt.Sprintf("%.0fk", v/1000) },
		},
		{
			Kind: KindSPYVs200MA, Name: "S&P vs 200MA", Category: "trend",
			Min: -20, Max: 20, Invert: true, Timing: domain.TimingCoincident, DisplayWeight: 0.1628,
			Format: func(v float64) string { return fmt.Sprintf("%+.2f%%", v) },
		},
		{
			Kind: KindYieldCurve10Y2Y, Name: "Yield Curve 10Y-2Y", Category: "rates",
			Min: -1.5, Max: 3, Timing: domain.TimingLeading, DisplayWeight: 0.0629,
			Format: func(v float64) string { return fmt.Sprintf("%+.2f%%p", v) },
		},
		{
			Kind: KindFearGreed, Name: "Fear & Greed", Category: "sentiment",
			Min: 0, Max: 100, Invert: true, Timing: domain.TimingCoincident, DisplayWeight: 0.05,
			Format: func(v float64) string { return fmt.Sprintf("%.0f", v) },
		},
		{
			Kind: KindBuffett, Name: "Buffett Indicator", Category: "valuation",
			Min: 70, Max: 220, Invert: true, Timing: domain.TimingLagging, DisplayWeight: 0.04,
			Format: func(v float64) string { return fmt.Sprintf("%.1f%%", v) },
		},
		{
			Kind: KindEquityRiskPrem, Name: "Equity Risk Premium", Category: "valuation",
			Min: -2, Max: 6, Timing: domain.TimingLagging, DisplayWeight: 0.04,
			Format: func(v float64) string { return fmt.Sprintf("%+.2f%%p", v) },
		},
		{
			Kind: KindFedBalanceSheet, Name: "Fed Balance Sheet YoY", Category: "liquidity",
			Min: -15, Max: 30, Timing: domain.TimingCoincident, DisplayWeight: 0.03,
			Format: func(v float64) string { return fmt.Sprintf("%+.1f%%", v) },
		},
		{
			Kind: KindM2Growth, Name: "M2 Growth YoY", Category: "liquidity",
			Min: -5, Max: 27, Timing: domain.TimingLagging, DisplayWeight: 0.03,
			Format: func(v float64) string { return fmt.Sprintf("%+.1f%%", v) },
		},
		{
			Kind: KindYieldCurve10Y3M, Name: "Yield Curve 10Y-3M", Category: "rates",
			Min: -2, Max: 5, Timing: domain.TimingLeading, DisplayWeight: 0.025,
			Format: func(v float64) string { return fmt.Sprintf("%+.2f%%p", v) },
		},
	}
}

// IndicatorValue extracts the raw value for one kind from a snapshot.
// Returns nil when the snapshot has no reading for that indicator.
func IndicatorValue(kind IndicatorKind, s domain.MarketIndicators) *float64 {
	switch kind {
	case KindHYSpread:
		return s.HYSpread
	case KindVIX:
		return s.VIX
	case KindInitialClaims:
		return s.InitialClaims
	case KindSPYVs200MA:
		return s.SPYVs200MA
	case KindYieldCurve10Y2Y:
		return s.YieldCurve10Y2Y
	case KindFearGreed:
		return s.FearGreed
	case KindBuffett:
		return s.BuffettIndicator
	case KindEquityRiskPrem:
		return s.EquityRiskPremium
	case KindFedBalanceSheet:
		return s.FedBalanceSheetYoY
	case KindM2Growth:
		return s.M2GrowthYoY
	case KindYieldCurve10Y3M:
		return s.YieldCurve10Y3M
	default:
		return nil
	}
}

// Normalize maps a raw value linearly from the spec's [Min,Max] domain onto
// [0,100], clamping out-of-range inputs to the boundary first. Inverted
// indicators read high raw values as unattractive.
func Normalize(spec IndicatorSpec, value float64) float64 {
	clamped := clampRange(value, spec.Min, spec.Max)
	score := (clamped - spec.Min) / (spec.Max - spec.Min) * 100
	if spec.Invert {
		score = 100 - score
	}
	return score
}

// ExtremeCap clamps a score into [15,85].
func ExtremeCap(score float64) float64 {
	return clampRange(score, extremeFloor, extremeCeil)
}

// MomentumScore maps the change between the current and the lookback base
// score onto [0,100], centered at 50 for zero change and saturating at a
// +/-30 point swing.
func MomentumScore(current, past float64) float64 {
	return clampRange(((current-past)+momentumSwing)/(2*momentumSwing)*100, 0, 100)
}

// EvaluateIndicators runs the full per-indicator pipeline over a current
// snapshot and its chronological history: normalize, extreme-cap, momentum
// against the record ~13 periods back, then the timing-weighted blend.
// Indicators absent from the snapshot are omitted rather than placeholdered.
// The result order follows the spec order (display weight descending).
func EvaluateIndicators(snapshot domain.MarketIndicators, history []domain.MarketHistoryRecord, specs []IndicatorSpec) []domain.IndicatorScore {
	out := make([]domain.IndicatorScore, 0, len(specs))

	for _, spec := range specs {
		value := IndicatorValue(spec.Kind, snapshot)
		if value == nil {
			continue
		}

		base := ExtremeCap(Normalize(spec, *value))

		momentum := 50.0
		if past := lookbackValue(spec.Kind, history); past != nil {
			pastBase := ExtremeCap(Normalize(spec, *past))
			momentum = MomentumScore(base, pastBase)
		}

		currentW, momentumW := TimingWeights(spec.Timing)
		final := ExtremeCap(base*currentW + momentum*momentumW)

		out = append(out, domain.IndicatorScore{
			Kind:          string(spec.Kind),
			Name:          spec.Name,
			Category:      spec.Category,
			DisplayValue:  spec.Format(*value),
			BaseScore:     base,
			MomentumScore: momentum,
			FinalScore:    final,
			ValueRange:    domain.ValueRange{Min: spec.Min, Max: spec.Max},
			Timing:        spec.Timing,
		})
	}

	return out
}

// lookbackValue returns the indicator's raw value from roughly three months
// ago: 13 records back, or the oldest available record when the history is
// shorter. Nil when no usable prior reading exists.
func lookbackValue(kind IndicatorKind, history []domain.MarketHistoryRecord) *float64 {
	if len(history) == 0 {
		return nil
	}
	idx := len(history) - momentumLookback
	if idx < 0 {
		idx = 0
	}
	return IndicatorValue(kind, history[idx].Snapshot())
}
