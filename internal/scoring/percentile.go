package scoring

import (
	"fmt"
	"math"
	"sort"

	"market-timer/internal/domain"
)

// minHistoryForCommentary is how many historical points an indicator needs
// before its distribution is considered worth commenting on.
const minHistoryForCommentary = 10

// maxCommentaries bounds how many commentary lines one render surfaces.
const maxCommentaries = 2

// Distribution describes where a current reading sits within its own
// history.
type Distribution struct {
	Rank       int
	Size       int
	Percentile int
	Extreme    bool
}

// Percentile ranks the current value within a sorted ascending history.
// Readings at or below the 20th or at or above the 80th percentile are
// flagged extreme.
func Percentile(sortedHistory []float64, current float64) Distribution {
	rank := 0
	for _, v := range sortedHistory {
		if v <= current {
			rank++
		}
	}
	d := Distribution{Rank: rank, Size: len(sortedHistory)}
	if d.Size == 0 {
		return d
	}
	d.Percentile = int(math.Round(float64(rank) / float64(d.Size) * 100))
	d.Extreme = d.Percentile <= 20 || d.Percentile >= 80
	return d
}

// CommentaryFunc renders one natural-language line about an extreme reading.
type CommentaryFunc func(value float64, d Distribution) string

// DefaultCommentary is the per-kind commentary template table. A kind
// without an entry never produces commentary.
func DefaultCommentary() map[IndicatorKind]CommentaryFunc {
	return map[IndicatorKind]CommentaryFunc{
		KindHYSpread: func(v float64, d Distribution) string {
			if d.Percentile >= 80 {
				return fmt.Sprintf("High-yield spreads at %.2f%% sit in the %dth percentile of history: credit stress this elevated has usually preceded attractive entry points.", v, d.Percentile)
			}
			return fmt.Sprintf("High-yield spreads at %.2f%% are near historical lows (%dth percentile): credit markets are pricing in very little risk.", v, d.Percentile)
		},
		KindVIX: func(v float64, d Distribution) string {
			if d.Percentile >= 80 {
				return fmt.Sprintf("VIX at %.1f is in the %dth percentile: panic-level volatility has historically rewarded patient buyers.", v, d.Percentile)
			}
			return fmt.Sprintf("VIX at %.1f is unusually calm (%dth percentile): complacency tends to precede volatility spikes.", v, d.Percentile)
		},
		KindInitialClaims: func(v float64, d Distribution) string {
			if d.Percentile >= 80 {
				return fmt.Sprintf("Initial claims at %.0fk rank in the %dth percentile: labor-market stress this deep has typically marked late-cycle lows.", v/1000, d.Percentile)
			}
			return fmt.Sprintf("Initial claims at %.0fk are historically low (%dth percentile): the labor market is running hot.", v/1000, d.Percentile)
		},
		KindSPYVs200MA: func(v float64, d Distribution) string {
			if d.Percentile >= 80 {
				return fmt.Sprintf("The S&P 500 trades %+.1f%% versus its 200-day average (%dth percentile): stretched trends revert more often than they extend.", v, d.Percentile)
			}
			return fmt.Sprintf("The S&P 500 trades %+.1f%% versus its 200-day average (%dth percentile): deep dislocations below trend have historically been buying zones.", v, d.Percentile)
		},
		KindYieldCurve10Y2Y: func(v float64, d Distribution) string {
			if d.Percentile <= 20 {
				return fmt.Sprintf("The 10Y-2Y curve at %+.2f%%p is flatter than %d%% of history: inversions have led every modern recession.", v, 100-d.Percentile)
			}
			return fmt.Sprintf("The 10Y-2Y curve at %+.2f%%p is steep (%dth percentile): early-cycle conditions historically favor risk assets.", v, d.Percentile)
		},
		KindFearGreed: func(v float64, d Distribution) string {
			if d.Percentile <= 20 {
				return fmt.Sprintf("Fear & Greed at %.0f is in the %dth percentile: extreme fear has been a contrarian buy signal.", v, d.Percentile)
			}
			return fmt.Sprintf("Fear & Greed at %.0f is in the %dth percentile: extreme greed has preceded most local tops.", v, d.Percentile)
		},
		KindBuffett: func(v float64, d Distribution) string {
			return fmt.Sprintf("Market cap to GDP at %.0f%% ranks in the %dth percentile of its history.", v, d.Percentile)
		},
		KindEquityRiskPrem: func(v float64, d Distribution) string {
			return fmt.Sprintf("The equity risk premium at %+.2f%%p sits in the %dth percentile: stocks are priced %s relative to bonds.", v, d.Percentile, cheapOrRich(d))
		},
	}
}

func cheapOrRich(d Distribution) string {
	if d.Percentile >= 80 {
		return "cheaply"
	}
	return "richly"
}

// Commentaries surfaces at most two extreme-reading lines, walking the spec
// list in display-weight order. Indicators with fewer than ten history
// points are skipped.
func Commentaries(
	snapshot domain.MarketIndicators,
	history []domain.MarketHistoryRecord,
	specs []IndicatorSpec,
	templates map[IndicatorKind]CommentaryFunc,
) []string {
	var out []string
	for _, spec := range specs {
		if len(out) >= maxCommentaries {
			break
		}
		render, ok := templates[spec.Kind]
		if !ok {
			continue
		}
		value := IndicatorValue(spec.Kind, snapshot)
		if value == nil {
			continue
		}

		series := historySeries(spec.Kind, history)
		if len(series) < minHistoryForCommentary {
			continue
		}

		d := Percentile(series, *value)
		if !d.Extreme {
			continue
		}
		out = append(out, render(*value, d))
	}
	return out
}

// historySeries collects the sorted ascending raw values one indicator has
// taken across the supplied history.
func historySeries(kind IndicatorKind, history []domain.MarketHistoryRecord) []float64 {
	values := make([]float64, 0, len(history))
	for _, record := range history {
		if v := IndicatorValue(kind, record.Snapshot()); v != nil {
			values = append(values, *v)
		}
	}
	sort.Float64s(values)
	return values
}
