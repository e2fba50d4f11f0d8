package bot

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"market-timer/internal/advisor"
	"market-timer/internal/service"

	tele "gopkg.in/telebot.v3"
)

// StartTelegramBot wires the dashboard and advisor into a long-polling bot.
// The advisor may be nil when OPENAI_API_KEY is not configured; free-text
// messages then get a static pointer to the commands.
func StartTelegramBot(dashboard *service.DashboardService, adv *advisor.AdvisorService) {
	token := os.Getenv("TELEGRAM_BOT_TOKEN")
	if token == "" {
		log.Println("TELEGRAM_BOT_TOKEN not set, skipping Telegram bot startup")
		return
	}
	pref := tele.Settings{
		Token:  token,
		Poller: &tele.LongPoller{Timeout: 10 * time.Second},
	}
	b, err := tele.NewBot(pref)
	if err != nil {
		log.Fatalf("failed to create Telegram bot: %v", err)
	}

	b.Handle("/ping", func(c tele.Context) error {
		return c.Send("pong")
	})

	b.Handle("/score", func(c tele.Context) error {
		view, err := dashboard.GetDashboard(context.Background())
		if err != nil {
			return c.Send(fmt.Sprintf("Error fetching dashboard: %v", err))
		}
		msg := fmt.Sprintf(
			"Composite Score: %.2f (%s)\nDate: %s",
			view.CompositeScore, view.Stance.Label, view.Date.Format("2006-01-02"),
		)
		for _, line := range view.Commentary {
			msg += "\n\n" + line
		}
		return c.Send(msg)
	})

	b.Handle("/stance", func(c tele.Context) error {
		view, err := dashboard.GetDashboard(context.Background())
		if err != nil {
			return c.Send(fmt.Sprintf("Error fetching dashboard: %v", err))
		}
		stance := view.Stance
		msg := fmt.Sprintf(
			"%s (score %.2f)\n%s\n\nAllocation: %s stocks / %s bonds / %s cash\nAction: %s",
			stance.Label, view.CompositeScore, stance.Description,
			stance.Allocation.Stocks, stance.Allocation.Bonds, stance.Allocation.Cash,
			stance.Action,
		)
		if stance.FourWeek.RiseProb > 0 {
			msg += fmt.Sprintf(
				"\n\nBacktest: 4w rise %.1f%% (avg %+.1f%%), 12w rise %.1f%% (avg %+.1f%%)",
				stance.FourWeek.RiseProb, stance.FourWeek.AvgRisePct,
				stance.TwelveWeek.RiseProb, stance.TwelveWeek.AvgRisePct,
			)
		}
		return c.Send(msg)
	})

	b.Handle(tele.OnText, func(c tele.Context) error {
		if adv == nil {
			return c.Send("The advisor is not configured. Try /score or /stance.")
		}
		scope := fmt.Sprintf("telegram:%d", c.Chat().ID)
		reply, err := adv.Ask(context.Background(), scope, c.Text())
		if err != nil {
			log.Printf("advisor error for %s: %v", scope, err)
			return c.Send("The advisor is temporarily unavailable.")
		}
		return c.Send(reply)
	})

	log.Println("Telegram bot started")
	go b.Start()
}
