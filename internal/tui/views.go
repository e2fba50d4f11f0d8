package tui

import (
	"fmt"
	"strings"

	"market-timer/internal/domain"
	"market-timer/internal/service"

	"github.com/charmbracelet/lipgloss"
)

var (
	activeTabStyle = lipgloss.NewStyle().
			Bold(true).
			Padding(0, 2).
			Foreground(lipgloss.Color("229")).
			Background(lipgloss.Color("57"))
	inactiveTabStyle = lipgloss.NewStyle().
				Padding(0, 2).
				Foreground(lipgloss.Color("245"))

	titleStyle   = lipgloss.NewStyle().Bold(true)
	scoreStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	helpStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	spinnerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	bullishStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	neutralStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
	bearishStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))

	userLineStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	advisorLineStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
)

type dashboardState struct {
	view *service.DashboardView
}

func newDashboardState(view *service.DashboardView) *dashboardState {
	return &dashboardState{view: view}
}

type historyState struct {
	records []domain.MarketHistoryRecord
}

func newHistoryState(records []domain.MarketHistoryRecord) historyState {
	return historyState{records: records}
}

func scoreStyleFor(score float64) lipgloss.Style {
	switch {
	case score >= 55:
		return bullishStyle
	case score >= 45:
		return neutralStyle
	default:
		return bearishStyle
	}
}

// scoreBar renders a 20-cell gauge for a 0-100 score.
func scoreBar(score float64) string {
	const cells = 20
	filled := int(score / 100 * cells)
	if filled < 0 {
		filled = 0
	}
	if filled > cells {
		filled = cells
	}
	bar := strings.Repeat("█", filled) + strings.Repeat("░", cells-filled)
	return scoreStyleFor(score).Render(bar)
}

// sparkline compresses score points into one row of block runes,
// scaled to the 0-100 score range.
func sparkline(points []service.ScorePoint, width int) string {
	if len(points) == 0 || width <= 0 {
		return ""
	}
	blocks := []rune("▁▂▃▄▅▆▇█")

	if len(points) > width {
		points = points[len(points)-width:]
	}

	var b strings.Builder
	for _, p := range points {
		idx := int(p.Score / 100 * float64(len(blocks)))
		if idx < 0 {
			idx = 0
		}
		if idx >= len(blocks) {
			idx = len(blocks) - 1
		}
		b.WriteRune(blocks[idx])
	}
	return b.String()
}

func (m *AppModel) renderOverview() string {
	if m.view == nil || m.view.view == nil {
		return dimStyle.Render("No market data yet.")
	}
	v := m.view.view
	stance := v.Stance

	var b strings.Builder
	b.WriteString(titleStyle.Render("Market Timing Dashboard"))
	b.WriteString(dimStyle.Render(fmt.Sprintf("  as of %s\n\n", v.Date.Format("2006-01-02"))))

	stanceStyle := lipgloss.NewStyle().Bold(true)
	if stance.Color != "" {
		stanceStyle = stanceStyle.Foreground(lipgloss.Color(stance.Color))
	}
	b.WriteString(fmt.Sprintf("Composite Score  %s  %s\n",
		scoreStyle.Render(fmt.Sprintf("%.2f", v.CompositeScore)),
		scoreBar(v.CompositeScore)))
	b.WriteString(fmt.Sprintf("Stance           %s\n", stanceStyle.Render(stance.Label)))
	b.WriteString(dimStyle.Render(stance.Description) + "\n\n")

	b.WriteString(fmt.Sprintf("Allocation       stocks %s / bonds %s / cash %s\n",
		stance.Allocation.Stocks, stance.Allocation.Bonds, stance.Allocation.Cash))
	if stance.Action != "" {
		b.WriteString(fmt.Sprintf("Action           %s\n", stance.Action))
	}
	if stance.FourWeek.RiseProb > 0 {
		b.WriteString(dimStyle.Render(fmt.Sprintf(
			"Backtest (4w)    %.0f%% rise (avg %+.1f%%), %.0f%% fall (avg %+.1f%%)\n",
			stance.FourWeek.RiseProb, stance.FourWeek.AvgRisePct,
			stance.FourWeek.FallProb, stance.FourWeek.AvgFallPct)))
	}

	if len(v.Commentary) > 0 {
		b.WriteString("\n" + titleStyle.Render("Notable extremes") + "\n")
		for _, line := range v.Commentary {
			b.WriteString("  • " + line + "\n")
		}
	}
	return b.String()
}

func (m *AppModel) renderIndicators() string {
	if m.view == nil || m.view.view == nil || len(m.view.view.Indicators) == 0 {
		return dimStyle.Render("No indicators scored yet.")
	}

	var b strings.Builder
	b.WriteString(fmt.Sprintf("%-26s %-14s %6s %6s %6s  %s\n",
		"Indicator", "Value", "Level", "Mom", "Final", ""))
	b.WriteString(dimStyle.Render(strings.Repeat("─", 84)) + "\n")

	for _, ind := range m.view.view.Indicators {
		style := scoreStyleFor(ind.FinalScore)
		b.WriteString(fmt.Sprintf("%-26s %-14s %6.1f %6.1f %s  %s %s\n",
			ind.Name,
			ind.DisplayValue,
			ind.BaseScore,
			ind.MomentumScore,
			style.Render(fmt.Sprintf("%6.1f", ind.FinalScore)),
			scoreBar(ind.FinalScore),
			dimStyle.Render(string(ind.Timing))))
	}
	return b.String()
}

func (m *AppModel) renderHistory() string {
	if m.view == nil || m.view.view == nil || len(m.view.view.History) == 0 {
		return dimStyle.Render("No score history yet.")
	}
	points := m.view.view.History

	width := m.width - 4
	if width <= 0 {
		width = 60
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("Composite score trend") + "\n\n")
	b.WriteString("  " + sparkline(points, width) + "\n")
	b.WriteString(dimStyle.Render(fmt.Sprintf("  %s .. %s (%d points)\n\n",
		points[0].Date.Format("2006-01-02"),
		points[len(points)-1].Date.Format("2006-01-02"),
		len(points))))

	recent := m.history.records
	if len(recent) > 10 {
		recent = recent[len(recent)-10:]
	}
	if len(recent) > 0 {
		b.WriteString(titleStyle.Render("Recent snapshots") + "\n")
		for i := len(recent) - 1; i >= 0; i-- {
			r := recent[i]
			score := "--"
			if r.CompositeScore != nil {
				score = fmt.Sprintf("%.2f", *r.CompositeScore)
			}
			vix := "--"
			if r.VIX != nil {
				vix = fmt.Sprintf("%.1f", *r.VIX)
			}
			spread := "--"
			if r.HYSpread != nil {
				spread = fmt.Sprintf("%.2f", *r.HYSpread)
			}
			b.WriteString(fmt.Sprintf("  %s  score %-7s vix %-6s hy %-6s\n",
				r.SnapshotDate.Format("2006-01-02"), score, vix, spread))
		}
	}
	return b.String()
}

func (m *AppModel) renderChat() string {
	var b strings.Builder

	if m.svc.Advisor == nil {
		b.WriteString(dimStyle.Render("The advisor is not configured on this server.") + "\n\n")
	}
	for _, line := range m.transcript {
		if line.fromUser {
			b.WriteString(userLineStyle.Render("You: ") + line.text + "\n")
		} else {
			b.WriteString(advisorLineStyle.Render("Advisor: "+line.text) + "\n")
		}
		b.WriteString("\n")
	}
	if m.waiting {
		b.WriteString(m.spin.View() + " thinking...\n\n")
	}
	if m.err != nil && !m.waiting {
		b.WriteString(errorStyle.Render("Error: "+m.err.Error()) + "\n\n")
	}
	b.WriteString(m.input.View())
	return b.String()
}
