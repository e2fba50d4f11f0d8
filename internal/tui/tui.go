// Package tui is the bubbletea dashboard served over SSH. It renders the
// same view the HTTP API exposes: composite score, stance, scored
// indicators, score history, and an advisor chat.
package tui

import (
	"context"
	"fmt"
	"time"

	"market-timer/internal/domain"
	"market-timer/internal/service"

	tea "github.com/charmbracelet/bubbletea"
)

const fetchTimeout = 10 * time.Second

// DashboardQuerier is the read surface the terminal dashboard renders from.
type DashboardQuerier interface {
	GetDashboard(ctx context.Context) (*service.DashboardView, error)
	GetHistory(ctx context.Context, days int) ([]domain.MarketHistoryRecord, error)
}

// AdvisorQuerier answers free-form questions on the chat tab.
type AdvisorQuerier interface {
	Ask(ctx context.Context, scope, message string) (string, error)
}

// Services carries everything a TUI session needs. Advisor may be nil,
// in which case the chat tab reports itself disabled.
type Services struct {
	Dashboard DashboardQuerier
	Advisor   AdvisorQuerier
	Username  string
}

type dashboardMsg struct {
	view *service.DashboardView
}

type historyMsg struct {
	records []domain.MarketHistoryRecord
}

type advisorMsg struct {
	reply string
}

type errMsg struct {
	err error
}

func fetchDashboard(svc Services) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()

		view, err := svc.Dashboard.GetDashboard(ctx)
		if err != nil {
			return errMsg{err}
		}
		return dashboardMsg{view: view}
	}
}

func fetchHistory(svc Services) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()

		records, err := svc.Dashboard.GetHistory(ctx, 365)
		if err != nil {
			return errMsg{err}
		}
		return historyMsg{records: records}
	}
}

func askAdvisor(svc Services, question string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
		defer cancel()

		scope := fmt.Sprintf("ssh:%s", svc.Username)
		reply, err := svc.Advisor.Ask(ctx, scope, question)
		if err != nil {
			return errMsg{err}
		}
		return advisorMsg{reply: reply}
	}
}
