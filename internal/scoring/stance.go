package scoring

import (
	"math"

	"market-timer/internal/domain"
)

// Allocation is a recommended stocks/bonds/cash split, kept as display
// strings because they are presentation constants, not computed values.
type Allocation struct {
	Stocks string `json:"stocks"`
	Bonds  string `json:"bonds"`
	Cash   string `json:"cash"`
}

// OutcomeStats are backtested forward-return statistics for a stance over a
// fixed horizon. The sample is the 2020-2026 calibration window baked into
// the stance table; it is domain calibration data, never recomputed from
// live history.
type OutcomeStats struct {
	RiseProb   float64 `json:"rise_prob"`
	FallProb   float64 `json:"fall_prob"`
	AvgRisePct float64 `json:"avg_rise_pct"`
	AvgFallPct float64 `json:"avg_fall_pct"`
}

// StanceMeta is the static descriptive metadata attached to one stance.
type StanceMeta struct {
	Tag         domain.StanceTag `json:"tag"`
	Label       string           `json:"label"`
	Color       string           `json:"color"`
	Description string           `json:"description"`
	Allocation  Allocation       `json:"allocation"`
	Action      string           `json:"action"`
	FourWeek    OutcomeStats     `json:"four_week"`
	TwelveWeek  OutcomeStats     `json:"twelve_week"`
}

// DetermineStance maps a composite score onto the seven-stance scale.
// Thresholds are evaluated top-down, first match wins. Any finite score,
// including negatives, resolves to a concrete stance; unknown is reserved
// for non-finite input.
func DetermineStance(score float64) domain.StanceTag {
	if math.IsNaN(score) || math.IsInf(score, 0) {
		return domain.StanceUnknown
	}
	switch {
	case score >= 60:
		return domain.StanceAggressivePlus
	case score >= 55:
		return domain.StanceAggressive
	case score >= 50:
		return domain.StanceModerateAggressive
	case score >= 45:
		return domain.StanceNeutral
	case score >= 41:
		return domain.StanceModerateDefensive
	default:
		return domain.StanceDefensive
	}
}

// StanceFor returns the full metadata for the stance a score maps to.
func StanceFor(score float64) StanceMeta {
	return stanceTable[DetermineStance(score)]
}

// MetaFor returns the static metadata for a stance tag.
func MetaFor(tag domain.StanceTag) StanceMeta {
	return stanceTable[tag]
}

// stanceTable holds the literal stance metadata. These values are domain
// assertions carried over for compatibility with existing historical
// commentary; do not derive them from data.
var stanceTable = map[domain.StanceTag]StanceMeta{
	domain.StanceAggressivePlus: {
		Tag:         domain.StanceAggressivePlus,
		Label:       "Aggressive+",
		Color:       "emerald",
		Description: "Conditions are unusually favorable: credit, volatility, and macro readings all sit in territory that has historically preceded strong forward returns.",
		Allocation:  Allocation{Stocks: "85%", Bonds: "10%", Cash: "5%"},
		Action:      "Deploy reserve cash into broad equity exposure and stay fully invested.",
		FourWeek:    OutcomeStats{RiseProb: 78.3, FallProb: 21.7, AvgRisePct: 4.1, AvgFallPct: -1.8},
		TwelveWeek:  OutcomeStats{RiseProb: 84.6, FallProb: 15.4, AvgRisePct: 8.9, AvgFallPct: -3.2},
	},
	domain.StanceAggressive: {
		Tag:         domain.StanceAggressive,
		Label:       "Aggressive",
		Color:       "green",
		Description: "The balance of indicators leans clearly positive, though not at the extremes that justify maximum exposure.",
		Allocation:  Allocation{Stocks: "75%", Bonds: "15%", Cash: "10%"},
		Action:      "Add to equities on weakness and keep bond duration short.",
		FourWeek:    OutcomeStats{RiseProb: 69.2, FallProb: 30.8, AvgRisePct: 3.2, AvgFallPct: -2.1},
		TwelveWeek:  OutcomeStats{RiseProb: 76.9, FallProb: 23.1, AvgRisePct: 6.8, AvgFallPct: -3.9},
	},
	domain.StanceModerateAggressive: {
		Tag:         domain.StanceModerateAggressive,
		Label:       "Moderately Aggressive",
		Color:       "lime",
		Description: "Readings are modestly better than average: a constructive backdrop without a strong edge.",
		Allocation:  Allocation{Stocks: "65%", Bonds: "25%", Cash: "10%"},
		Action:      "Hold a tilt toward equities and rebalance into strength.",
		FourWeek:    OutcomeStats{RiseProb: 61.5, FallProb: 38.5, AvgRisePct: 2.6, AvgFallPct: -2.4},
		TwelveWeek:  OutcomeStats{RiseProb: 68.4, FallProb: 31.6, AvgRisePct: 5.3, AvgFallPct: -4.4},
	},
	domain.StanceNeutral: {
		Tag:         domain.StanceNeutral,
		Label:       "Neutral",
		Color:       "amber",
		Description: "Indicators are mixed and close to their long-run averages; the market offers no measurable timing edge either way.",
		Allocation:  Allocation{Stocks: "55%", Bonds: "30%", Cash: "15%"},
		Action:      "Maintain strategic allocation and avoid chasing either direction.",
		FourWeek:    OutcomeStats{RiseProb: 55.0, FallProb: 45.0, AvgRisePct: 2.2, AvgFallPct: -2.5},
		TwelveWeek:  OutcomeStats{RiseProb: 60.0, FallProb: 40.0, AvgRisePct: 4.4, AvgFallPct: -4.8},
	},
	domain.StanceModerateDefensive: {
		Tag:         domain.StanceModerateDefensive,
		Label:       "Moderately Defensive",
		Color:       "orange",
		Description: "The balance of evidence has deteriorated: stretched valuations or tightening conditions argue for reduced exposure.",
		Allocation:  Allocation{Stocks: "45%", Bonds: "35%", Cash: "20%"},
		Action:      "Trim extended positions and let cash build.",
		FourWeek:    OutcomeStats{RiseProb: 48.0, FallProb: 52.0, AvgRisePct: 1.9, AvgFallPct: -3.1},
		TwelveWeek:  OutcomeStats{RiseProb: 52.6, FallProb: 47.4, AvgRisePct: 3.8, AvgFallPct: -5.7},
	},
	domain.StanceDefensive: {
		Tag:         domain.StanceDefensive,
		Label:       "Defensive",
		Color:       "red",
		Description: "Multiple indicators sit in historically dangerous territory; drawdown risk outweighs the expected reward of staying fully invested.",
		Allocation:  Allocation{Stocks: "30%", Bonds: "40%", Cash: "30%"},
		Action:      "Reduce equity exposure, extend quality bond duration, and wait for readings to normalize.",
		FourWeek:    OutcomeStats{RiseProb: 41.7, FallProb: 58.3, AvgRisePct: 1.7, AvgFallPct: -4.0},
		TwelveWeek:  OutcomeStats{RiseProb: 45.8, FallProb: 54.2, AvgRisePct: 3.5, AvgFallPct: -7.6},
	},
	domain.StanceUnknown: {
		Tag:         domain.StanceUnknown,
		Label:       "Unknown",
		Color:       "gray",
		Description: "The composite score could not be computed from the available data.",
		Allocation:  Allocation{Stocks: "-", Bonds: "-", Cash: "-"},
		Action:      "Wait for a complete data snapshot before acting.",
	},
}
