package advisor

import (
	"fmt"
	"strings"
	"time"

	"market-timer/internal/service"
)

const timingPhilosophy = `You are a market-timing advisor bot. Your role is to interpret a composite market-conditions score and its underlying indicators, NOT to invent readings of your own.

Score Framework:
- The composite score runs 0-100 and is centered at 50 (average conditions).
- Higher scores mean market stress readings that have historically preceded better forward returns; they map to more aggressive stances.
- Stances: Aggressive+ (>=60), Aggressive (>=55), Moderately Aggressive (>=50), Neutral (>=45), Moderately Defensive (>=41), Defensive (below 41).
- Indicator scores also run 0-100 per indicator and are capped to [15,85] so no single reading dominates.

Rules:
- Always reference the specific indicator values and scores when making observations.
- Never fabricate data. If a reading is unavailable, say so.
- Express uncertainty when indicators conflict.
- The backtested stance statistics are historical frequencies, not predictions. Present them as such.
- Keep responses concise and actionable. You are talking via chat.
- Do not provide financial advice disclaimers on every message. The user understands this is informational.
- When asked about an indicator, summarize: its current value, its score, its momentum, and what it contributes.
- This tool times broad equity exposure, not individual stocks. Redirect single-stock questions to the overall picture.`

func BuildSystemPrompt(marketContext string) string {
	var sb strings.Builder
	sb.WriteString(timingPhilosophy)
	sb.WriteString("\n\n--- LIVE MARKET DATA (as of ")
	sb.WriteString(time.Now().UTC().Format(time.RFC822))
	sb.WriteString(") ---\n")
	sb.WriteString(marketContext)
	return sb.String()
}

// FormatMarketContext renders the dashboard view as prompt context. Focused
// indicators get their full scoring breakdown; the rest appear as one-liners.
func FormatMarketContext(view *service.DashboardView, focus []string) string {
	var sb strings.Builder

	focused := make(map[string]bool, len(focus))
	for _, kind := range focus {
		focused[kind] = true
	}

	sb.WriteString(fmt.Sprintf("Composite Score: %.2f (%s) as of %s\n",
		view.CompositeScore, view.Stance.Label, view.Date.Format("2006-01-02")))
	sb.WriteString(fmt.Sprintf("Recommended allocation: %s stocks / %s bonds / %s cash\n",
		view.Stance.Allocation.Stocks, view.Stance.Allocation.Bonds, view.Stance.Allocation.Cash))
	if view.Stance.FourWeek.RiseProb > 0 {
		sb.WriteString(fmt.Sprintf("Backtest at this stance: 4w rise %.1f%% (avg %+.1f%%), 12w rise %.1f%% (avg %+.1f%%)\n",
			view.Stance.FourWeek.RiseProb, view.Stance.FourWeek.AvgRisePct,
			view.Stance.TwelveWeek.RiseProb, view.Stance.TwelveWeek.AvgRisePct))
	}

	if len(view.Indicators) > 0 {
		sb.WriteString("\nIndicators:\n")
		for _, ind := range view.Indicators {
			if focused[ind.Kind] {
				sb.WriteString(fmt.Sprintf("  %s (%s, %s): value %s, level score %.1f, momentum %.1f, final %.1f\n",
					ind.Name, ind.Category, ind.Timing,
					ind.DisplayValue, ind.BaseScore, ind.MomentumScore, ind.FinalScore))
				continue
			}
			sb.WriteString(fmt.Sprintf("  %s: %s (score %.1f)\n", ind.Name, ind.DisplayValue, ind.FinalScore))
		}
	}

	if len(view.Commentary) > 0 {
		sb.WriteString("\nNotable extremes:\n")
		for _, line := range view.Commentary {
			sb.WriteString("  " + line + "\n")
		}
	}

	return sb.String()
}
