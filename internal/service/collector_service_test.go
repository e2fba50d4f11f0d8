package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"market-timer/internal/domain"
	"market-timer/internal/provider"

	"go.opentelemetry.io/otel/trace"
)

var testTracer = trace.NewNoopTracerProvider().Tracer("test")

func f(v float64) *float64 { return &v }

type fakeSeries struct {
	latest map[string]float64
	ranges map[string][]provider.SeriesPoint
	errs   map[string]error
}

func (s *fakeSeries) FetchLatest(ctx context.Context, seriesID string) (*provider.SeriesPoint, error) {
	if err := s.errs[seriesID]; err != nil {
		return nil, err
	}
	v, ok := s.latest[seriesID]
	if !ok {
		return nil, fmt.Errorf("no stub for %s", seriesID)
	}
	return &provider.SeriesPoint{Date: time.Now().UTC(), Value: v}, nil
}

func (s *fakeSeries) FetchRange(ctx context.Context, seriesID string, start, end time.Time) ([]provider.SeriesPoint, error) {
	if err := s.errs[seriesID]; err != nil {
		return nil, err
	}
	return s.ranges[seriesID], nil
}

type fakeEquity struct {
	closes   []provider.SeriesPoint
	quote    *provider.Quote
	closeErr error
	quoteErr error
}

func (e *fakeEquity) FetchDailyCloses(ctx context.Context, symbol string) ([]provider.SeriesPoint, error) {
	if e.closeErr != nil {
		return nil, e.closeErr
	}
	return e.closes, nil
}

func (e *fakeEquity) FetchQuote(ctx context.Context, symbol string) (*provider.Quote, error) {
	if e.quoteErr != nil {
		return nil, e.quoteErr
	}
	return e.quote, nil
}

type fakeSentiment struct {
	point *provider.FearGreedPoint
	err   error
}

func (s *fakeSentiment) FetchLatest(ctx context.Context) (*provider.FearGreedPoint, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.point, nil
}

type fakeHistoryRepo struct {
	stored    []domain.MarketHistoryRecord
	deleted   []time.Time
	upsertErr error
}

func (r *fakeHistoryRepo) Upsert(ctx context.Context, record domain.MarketHistoryRecord) (domain.MarketHistoryRecord, error) {
	if r.upsertErr != nil {
		return domain.MarketHistoryRecord{}, r.upsertErr
	}
	r.stored = append(r.stored, record)
	return record, nil
}

func (r *fakeHistoryRepo) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	r.deleted = append(r.deleted, cutoff)
	return 0, nil
}

// flatCloses builds n ascending daily closes at a constant price.
func flatCloses(n int, price float64) []provider.SeriesPoint {
	out := make([]provider.SeriesPoint, n)
	start := time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC)
	for i := range out {
		out[i] = provider.SeriesPoint{Date: start.AddDate(0, 0, i), Value: price}
	}
	return out
}

// yearlySeries builds monthly points growing from base a year ago to latest.
func yearlySeries(base, latest float64) []provider.SeriesPoint {
	end := time.Date(2026, 8, 26, 0, 0, 0, 0, time.UTC)
	out := make([]provider.SeriesPoint, 0, 14)
	for i := 13; i >= 0; i-- {
		v := base + (latest-base)*float64(13-i)/13
		out = append(out, provider.SeriesPoint{Date: end.AddDate(0, -i, 0), Value: v})
	}
	return out
}

func newTestCollector(series *fakeSeries, equity *fakeEquity, sentiment *fakeSentiment, repo *fakeHistoryRepo) *CollectorService {
	svc := NewCollectorService(testTracer, series, equity, sentiment, repo, 3650)
	svc.now = func() time.Time { return time.Date(2026, 8, 28, 14, 0, 0, 0, time.UTC) }
	return svc
}

func TestCollectorRunFullSnapshot(t *testing.T) {
	series := &fakeSeries{
		latest: map[string]float64{
			provider.SeriesHYSpread:      5.62,
			provider.SeriesVIX:           18.4,
			provider.SeriesInitialClaims: 231000,
			provider.SeriesCurve10Y2Y:    0.52,
			provider.SeriesCurve10Y3M:    0.31,
			provider.SeriesDGS10:         4.2,
			provider.SeriesGDP:           29000,
			provider.SeriesWilshire:      58000,
		},
		ranges: map[string][]provider.SeriesPoint{
			provider.SeriesFedBalance: yearlySeries(7400, 7100),
			provider.SeriesM2:         yearlySeries(21000, 21900),
		},
	}
	equity := &fakeEquity{
		closes: flatCloses(250, 6400),
		quote:  &provider.Quote{Symbol: "^GSPC", Price: 6400, TrailingPE: 27.5},
	}
	sentiment := &fakeSentiment{point: &provider.FearGreedPoint{Value: 41, Classification: "fear"}}
	repo := &fakeHistoryRepo{}

	result, err := newTestCollector(series, equity, sentiment, repo).Run(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Errors) != 0 {
		t.Fatalf("expected clean run, got warnings: %v", result.Errors)
	}
	if len(repo.stored) != 1 {
		t.Fatalf("expected one upsert, got %d", len(repo.stored))
	}

	record := repo.stored[0]
	if record.SnapshotDate != time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC) {
		t.Fatalf("unexpected snapshot date: %v", record.SnapshotDate)
	}
	if record.HYSpread == nil || *record.HYSpread != 5.62 {
		t.Fatalf("hy spread not collected: %+v", record.HYSpread)
	}
	if record.SPY200MA == nil || *record.SPY200MA != 6400 {
		t.Fatalf("expected flat 200MA 6400, got %+v", record.SPY200MA)
	}
	if record.SPYVs200MA == nil || *record.SPYVs200MA != 0 {
		t.Fatalf("flat closes should sit exactly on the average, got %+v", record.SPYVs200MA)
	}
	if record.BuffettIndicator == nil || *record.BuffettIndicator != 58000.0/29000.0*100 {
		t.Fatalf("unexpected buffett indicator: %+v", record.BuffettIndicator)
	}
	if record.EquityRiskPremium == nil {
		t.Fatal("equity risk premium not derived")
	}
	wantERP := 100/27.5 - 4.2
	if diff := *record.EquityRiskPremium - wantERP; diff > 1e-9 || diff < -1e-9 {
		t.Fatalf("expected ERP %v, got %v", wantERP, *record.EquityRiskPremium)
	}
	if record.FedBalanceSheetYoY == nil || *record.FedBalanceSheetYoY >= 0 {
		t.Fatalf("shrinking balance sheet should have negative YoY, got %+v", record.FedBalanceSheetYoY)
	}
	if record.M2GrowthYoY == nil || *record.M2GrowthYoY <= 0 {
		t.Fatalf("growing M2 should have positive YoY, got %+v", record.M2GrowthYoY)
	}
	if record.FearGreed == nil || *record.FearGreed != 41 {
		t.Fatalf("fear & greed not collected: %+v", record.FearGreed)
	}
	if record.CompositeScore == nil {
		t.Fatal("composite score not precomputed")
	}
	if result.CompositeScore != *record.CompositeScore {
		t.Fatalf("result score %v != stored score %v", result.CompositeScore, *record.CompositeScore)
	}
	if result.FieldsCollected < 15 {
		t.Fatalf("expected a full snapshot, only %d fields collected", result.FieldsCollected)
	}
	if len(repo.deleted) != 1 {
		t.Fatalf("expected retention prune, got %d", len(repo.deleted))
	}
}

func TestCollectorRunSurvivesSourceFailures(t *testing.T) {
	series := &fakeSeries{
		latest: map[string]float64{provider.SeriesVIX: 22.0},
		errs: map[string]error{
			provider.SeriesHYSpread:   fmt.Errorf("fred down"),
			provider.SeriesFedBalance: fmt.Errorf("fred down"),
		},
	}
	equity := &fakeEquity{closeErr: fmt.Errorf("yahoo down"), quoteErr: fmt.Errorf("yahoo down")}
	sentiment := &fakeSentiment{err: fmt.Errorf("cnn down")}
	repo := &fakeHistoryRepo{}

	result, err := newTestCollector(series, equity, sentiment, repo).Run(context.Background())
	if err != nil {
		t.Fatalf("source failures must not fail the run: %v", err)
	}
	if len(result.Errors) == 0 {
		t.Fatal("expected warnings for failed sources")
	}
	if len(repo.stored) != 1 {
		t.Fatal("partial snapshot must still be stored")
	}
	if repo.stored[0].VIX == nil {
		t.Fatal("surviving source must still be collected")
	}
	if repo.stored[0].CompositeScore == nil {
		t.Fatal("composite must be scored from whatever was collected")
	}
}

func TestCollectorRunFailsOnStoreError(t *testing.T) {
	series := &fakeSeries{latest: map[string]float64{provider.SeriesVIX: 22.0}}
	equity := &fakeEquity{closeErr: fmt.Errorf("down"), quoteErr: fmt.Errorf("down")}
	sentiment := &fakeSentiment{err: fmt.Errorf("down")}
	repo := &fakeHistoryRepo{upsertErr: fmt.Errorf("connection refused")}

	if _, err := newTestCollector(series, equity, sentiment, repo).Run(context.Background()); err == nil {
		t.Fatal("expected error when the snapshot cannot be stored")
	}
}

func TestLatestAndYoY(t *testing.T) {
	latest, yoy := latestAndYoY(yearlySeries(100, 110))
	if latest == nil || *latest != 110 {
		t.Fatalf("unexpected latest: %+v", latest)
	}
	if yoy == nil {
		t.Fatal("expected a YoY value for a 14-month series")
	}
	if *yoy < 9 || *yoy > 11 {
		t.Fatalf("expected roughly +10%% YoY, got %v", *yoy)
	}

	short := yearlySeries(100, 110)[10:]
	if _, yoy := latestAndYoY(short); yoy != nil {
		t.Fatalf("short series must not produce YoY, got %v", *yoy)
	}

	if latest, yoy := latestAndYoY(nil); latest != nil || yoy != nil {
		t.Fatal("empty series must produce nils")
	}
}
