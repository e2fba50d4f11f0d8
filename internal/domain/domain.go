package domain

import "time"

// StanceTag identifies one of the seven discrete investment stances
// derived from the composite score.
type StanceTag string

const (
	StanceAggressivePlus     StanceTag = "aggressive_plus"
	StanceAggressive         StanceTag = "aggressive"
	StanceModerateAggressive StanceTag = "moderate_aggressive"
	StanceNeutral            StanceTag = "neutral"
	StanceModerateDefensive  StanceTag = "moderate_defensive"
	StanceDefensive          StanceTag = "defensive"
	StanceUnknown            StanceTag = "unknown"
)

func (s StanceTag) IsValid() bool {
	switch s {
	case StanceAggressivePlus, StanceAggressive, StanceModerateAggressive,
		StanceNeutral, StanceModerateDefensive, StanceDefensive, StanceUnknown:
		return true
	}
	return false
}

// Timing classifies an indicator as predicting, reflecting, or confirming
// market conditions. It controls how much weight momentum receives relative
// to current level when blending scores.
type Timing string

const (
	TimingLeading    Timing = "leading"
	TimingCoincident Timing = "coincident"
	TimingLagging    Timing = "lagging"
)

// MarketIndicators is one day's best-effort snapshot of raw indicator
// values as delivered by the collectors. Any field may be nil when an
// upstream fetch failed; consumers must tolerate partial snapshots.
type MarketIndicators struct {
	Date time.Time `json:"date"`

	HYSpread        *float64 `json:"hySpread,omitempty"`
	VIX             *float64 `json:"vix,omitempty"`
	InitialClaims   *float64 `json:"initialClaims,omitempty"`
	SPYClose        *float64 `json:"spyClose,omitempty"`
	SPY200MA        *float64 `json:"spy200MA,omitempty"`
	SPYVs200MA      *float64 `json:"spyVs200MA,omitempty"`
	YieldCurve10Y2Y *float64 `json:"yieldCurve10Y2Y,omitempty"`
	YieldCurve10Y3M *float64 `json:"yieldCurve10Y3M,omitempty"`

	FearGreed          *float64 `json:"fearGreed,omitempty"`
	BuffettIndicator   *float64 `json:"buffettIndicator,omitempty"`
	EquityRiskPremium  *float64 `json:"equityRiskPremium,omitempty"`
	FedBalanceSheetYoY *float64 `json:"fedBalanceSheetYoY,omitempty"`
	M2GrowthYoY        *float64 `json:"m2GrowthYoY,omitempty"`
}

// MarketHistoryRecord is one persisted daily snapshot. There is at most one
// record per calendar date; the collector upserts it once per day and every
// other component reads it as immutable history.
type MarketHistoryRecord struct {
	SnapshotDate time.Time `json:"snapshot_date"`

	HYSpread        *float64 `json:"hy_spread,omitempty"`
	VIX             *float64 `json:"vix,omitempty"`
	InitialClaims   *float64 `json:"initial_claims,omitempty"`
	SPYClose        *float64 `json:"spy_close,omitempty"`
	SPY200MA        *float64 `json:"spy_200ma,omitempty"`
	SPYVs200MA      *float64 `json:"spy_vs_200ma,omitempty"`
	YieldCurve10Y2Y *float64 `json:"yield_curve_10y2y,omitempty"`
	YieldCurve10Y3M *float64 `json:"yield_curve_10y3m,omitempty"`

	FearGreed          *float64 `json:"fear_greed,omitempty"`
	BuffettIndicator   *float64 `json:"buffett_indicator,omitempty"`
	EquityRiskPremium  *float64 `json:"equity_risk_premium,omitempty"`
	FedBalanceSheet    *float64 `json:"fed_balance_sheet,omitempty"`
	FedBalanceSheetYoY *float64 `json:"fed_balance_sheet_yoy,omitempty"`
	M2                 *float64 `json:"m2,omitempty"`
	M2GrowthYoY        *float64 `json:"m2_growth_yoy,omitempty"`

	DGS10    *float64 `json:"dgs10,omitempty"`
	SP500PE  *float64 `json:"sp500_pe,omitempty"`
	GDP      *float64 `json:"gdp,omitempty"`
	Wilshire *float64 `json:"wilshire,omitempty"`

	CompositeScore *float64 `json:"composite_score,omitempty"`

	CreatedAt time.Time `json:"created_at,omitempty"`
	UpdatedAt time.Time `json:"updated_at,omitempty"`
}

// Snapshot converts a persisted record into the verbose live-snapshot shape
// consumed by the indicator scoring layer.
func (r MarketHistoryRecord) Snapshot() MarketIndicators {
	return MarketIndicators{
		Date:               r.SnapshotDate,
		HYSpread:           r.HYSpread,
		VIX:                r.VIX,
		InitialClaims:      r.InitialClaims,
		SPYClose:           r.SPYClose,
		SPY200MA:           r.SPY200MA,
		SPYVs200MA:         r.SPYVs200MA,
		YieldCurve10Y2Y:    r.YieldCurve10Y2Y,
		YieldCurve10Y3M:    r.YieldCurve10Y3M,
		FearGreed:          r.FearGreed,
		BuffettIndicator:   r.BuffettIndicator,
		EquityRiskPremium:  r.EquityRiskPremium,
		FedBalanceSheetYoY: r.FedBalanceSheetYoY,
		M2GrowthYoY:        r.M2GrowthYoY,
	}
}

// ValueRange is the [min,max] domain an indicator is normalized against.
type ValueRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// IndicatorScore is the derived, per-render scoring of one indicator.
// It is never persisted.
type IndicatorScore struct {
	Kind          string     `json:"kind"`
	Name          string     `json:"name"`
	Category      string     `json:"category"`
	DisplayValue  string     `json:"display_value"`
	BaseScore     float64    `json:"base_score"`
	MomentumScore float64    `json:"momentum_score"`
	FinalScore    float64    `json:"final_score"`
	ValueRange    ValueRange `json:"value_range"`
	Timing        Timing     `json:"timing"`
}

// CollectRunResult summarizes one collector cycle. Per-source failures are
// accumulated as warnings rather than aborting the cycle.
type CollectRunResult struct {
	Date            time.Time `json:"date"`
	FieldsCollected int       `json:"fields_collected"`
	CompositeScore  float64   `json:"composite_score"`
	Errors          []string  `json:"errors,omitempty"`
}

type ConversationMessage struct {
	Role      string
	Content   string
	CreatedAt time.Time
}
