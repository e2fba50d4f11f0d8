package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"market-timer/internal/domain"
	"market-timer/internal/provider"
	"market-timer/internal/scoring"

	"go.opentelemetry.io/otel/trace"
)

const spyMovingAverageDays = 200

// SeriesProvider delivers FRED-style dated observation series.
type SeriesProvider interface {
	FetchLatest(ctx context.Context, seriesID string) (*provider.SeriesPoint, error)
	FetchRange(ctx context.Context, seriesID string, start, end time.Time) ([]provider.SeriesPoint, error)
}

// EquityProvider delivers index close history and quote summaries.
type EquityProvider interface {
	FetchDailyCloses(ctx context.Context, symbol string) ([]provider.SeriesPoint, error)
	FetchQuote(ctx context.Context, symbol string) (*provider.Quote, error)
}

// SentimentProvider delivers the CNN Fear & Greed reading.
type SentimentProvider interface {
	FetchLatest(ctx context.Context) (*provider.FearGreedPoint, error)
}

// HistoryWriter is the repository surface the collector needs.
type HistoryWriter interface {
	Upsert(ctx context.Context, record domain.MarketHistoryRecord) (domain.MarketHistoryRecord, error)
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

// CollectorService runs one best-effort collection cycle: fetch every raw
// series, derive the computed indicators, score the composite, and upsert
// the daily snapshot. Individual source failures become warnings on the run
// result; the cycle only fails outright when the final write does.
type CollectorService struct {
	tracer        trace.Tracer
	series        SeriesProvider
	equity        EquityProvider
	sentiment     SentimentProvider
	repo          HistoryWriter
	retentionDays int

	now func() time.Time
}

func NewCollectorService(
	tracer trace.Tracer,
	series SeriesProvider,
	equity EquityProvider,
	sentiment SentimentProvider,
	repo HistoryWriter,
	retentionDays int,
) *CollectorService {
	return &CollectorService{
		tracer:        tracer,
		series:        series,
		equity:        equity,
		sentiment:     sentiment,
		repo:          repo,
		retentionDays: retentionDays,
		now:           time.Now,
	}
}

func (s *CollectorService) Run(ctx context.Context) (domain.CollectRunResult, error) {
	ctx, span := s.tracer.Start(ctx, "collector-service.run")
	defer span.End()

	date := s.now().UTC().Truncate(24 * time.Hour)
	record := domain.MarketHistoryRecord{SnapshotDate: date}
	var warnings []string
	warn := func(format string, args ...any) {
		msg := fmt.Sprintf(format, args...)
		log.Printf("collector: %s", msg)
		warnings = append(warnings, msg)
	}

	s.collectDailySeries(ctx, &record, warn)
	s.collectLiquiditySeries(ctx, &record, warn)
	s.collectEquity(ctx, &record, warn)
	s.collectValuation(ctx, &record, warn)
	s.collectSentiment(ctx, &record, warn)

	composite := scoring.CalculateComposite(scoring.InputFromRecord(record), scoring.DefaultStats())
	record.CompositeScore = &composite

	stored, err := s.repo.Upsert(ctx, record)
	if err != nil {
		return domain.CollectRunResult{}, fmt.Errorf("store snapshot for %s: %w", date.Format("2006-01-02"), err)
	}

	if s.retentionDays > 0 {
		cutoff := date.AddDate(0, 0, -s.retentionDays)
		if removed, err := s.repo.DeleteOlderThan(ctx, cutoff); err != nil {
			warn("prune history before %s: %v", cutoff.Format("2006-01-02"), err)
		} else if removed > 0 {
			log.Printf("collector: pruned %d snapshots before %s", removed, cutoff.Format("2006-01-02"))
		}
	}

	return domain.CollectRunResult{
		Date:            stored.SnapshotDate,
		FieldsCollected: countCollectedFields(stored),
		CompositeScore:  composite,
		Errors:          warnings,
	}, nil
}

// collectDailySeries pulls the point-in-time FRED series the snapshot stores
// verbatim.
func (s *CollectorService) collectDailySeries(ctx context.Context, record *domain.MarketHistoryRecord, warn func(string, ...any)) {
	targets := []struct {
		seriesID string
		dst      **float64
	}{
		{provider.SeriesHYSpread, &record.HYSpread},
		{provider.SeriesVIX, &record.VIX},
		{provider.SeriesInitialClaims, &record.InitialClaims},
		{provider.SeriesCurve10Y2Y, &record.YieldCurve10Y2Y},
		{provider.SeriesCurve10Y3M, &record.YieldCurve10Y3M},
		{provider.SeriesDGS10, &record.DGS10},
		{provider.SeriesGDP, &record.GDP},
		{provider.SeriesWilshire, &record.Wilshire},
	}
	for _, target := range targets {
		point, err := s.series.FetchLatest(ctx, target.seriesID)
		if err != nil {
			warn("fetch %s: %v", target.seriesID, err)
			continue
		}
		v := point.Value
		*target.dst = &v
	}
}

// collectLiquiditySeries pulls the level series that only matter as
// year-over-year growth: the Fed balance sheet and M2.
func (s *CollectorService) collectLiquiditySeries(ctx context.Context, record *domain.MarketHistoryRecord, warn func(string, ...any)) {
	end := record.SnapshotDate
	start := end.AddDate(-1, -1, 0)

	if points, err := s.series.FetchRange(ctx, provider.SeriesFedBalance, start, end); err != nil {
		warn("fetch %s: %v", provider.SeriesFedBalance, err)
	} else {
		record.FedBalanceSheet, record.FedBalanceSheetYoY = latestAndYoY(points)
	}

	if points, err := s.series.FetchRange(ctx, provider.SeriesM2, start, end); err != nil {
		warn("fetch %s: %v", provider.SeriesM2, err)
	} else {
		record.M2, record.M2GrowthYoY = latestAndYoY(points)
	}
}

// collectEquity pulls a year of S&P 500 closes and derives the 200-day
// moving average distance.
func (s *CollectorService) collectEquity(ctx context.Context, record *domain.MarketHistoryRecord, warn func(string, ...any)) {
	closes, err := s.equity.FetchDailyCloses(ctx, "^GSPC")
	if err != nil {
		warn("fetch ^GSPC closes: %v", err)
		return
	}

	last := closes[len(closes)-1].Value
	record.SPYClose = &last

	if len(closes) < spyMovingAverageDays {
		warn("only %d closes available, need %d for the moving average", len(closes), spyMovingAverageDays)
		return
	}
	sum := 0.0
	for _, point := range closes[len(closes)-spyMovingAverageDays:] {
		sum += point.Value
	}
	ma := sum / spyMovingAverageDays
	record.SPY200MA = &ma

	distance := (last - ma) / ma * 100
	record.SPYVs200MA = &distance
}

// collectValuation derives the Buffett indicator and the equity risk
// premium from already-fetched fields plus the index quote.
func (s *CollectorService) collectValuation(ctx context.Context, record *domain.MarketHistoryRecord, warn func(string, ...any)) {
	if record.Wilshire != nil && record.GDP != nil && *record.GDP != 0 {
		buffett := *record.Wilshire / *record.GDP * 100
		record.BuffettIndicator = &buffett
	}

	quote, err := s.equity.FetchQuote(ctx, "^GSPC")
	if err != nil {
		warn("fetch ^GSPC quote: %v", err)
		return
	}
	if quote.TrailingPE <= 0 {
		warn("quote for ^GSPC has no trailing P/E")
		return
	}
	pe := quote.TrailingPE
	record.SP500PE = &pe

	if record.DGS10 != nil {
		erp := 100/pe - *record.DGS10
		record.EquityRiskPremium = &erp
	}
}

func (s *CollectorService) collectSentiment(ctx context.Context, record *domain.MarketHistoryRecord, warn func(string, ...any)) {
	point, err := s.sentiment.FetchLatest(ctx)
	if err != nil {
		warn("fetch fear & greed: %v", err)
		return
	}
	v := point.Value
	record.FearGreed = &v
}

// latestAndYoY returns the newest value of an ascending series and its
// growth versus the observation closest to one year earlier. YoY is nil when
// no observation lands within 60 days of the anniversary.
func latestAndYoY(points []provider.SeriesPoint) (latest, yoy *float64) {
	if len(points) == 0 {
		return nil, nil
	}
	newest := points[len(points)-1]
	v := newest.Value
	latest = &v

	target := newest.Date.AddDate(-1, 0, 0)
	var base *provider.SeriesPoint
	var bestGap time.Duration
	for i := range points {
		gap := points[i].Date.Sub(target)
		if gap < 0 {
			gap = -gap
		}
		if base == nil || gap < bestGap {
			base = &points[i]
			bestGap = gap
		}
	}
	if base == nil || base.Value == 0 || bestGap > 60*24*time.Hour {
		return latest, nil
	}
	growth := (newest.Value/base.Value - 1) * 100
	return latest, &growth
}

func countCollectedFields(record domain.MarketHistoryRecord) int {
	fields := []*float64{
		record.HYSpread, record.VIX, record.InitialClaims,
		record.SPYClose, record.SPY200MA, record.SPYVs200MA,
		record.YieldCurve10Y2Y, record.YieldCurve10Y3M,
		record.FearGreed, record.BuffettIndicator, record.EquityRiskPremium,
		record.FedBalanceSheet, record.FedBalanceSheetYoY,
		record.M2, record.M2GrowthYoY,
		record.DGS10, record.SP500PE, record.GDP, record.Wilshire,
	}
	count := 0
	for _, f := range fields {
		if f != nil {
			count++
		}
	}
	return count
}
