package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"market-timer/internal/domain"
	"market-timer/internal/scoring"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel/trace"
)

const (
	dashboardCacheKey = "dashboard:view"

	// How much history feeds percentile ranks and the score sparkline.
	dashboardHistoryDepth = 400
)

// HistoryReader is the repository surface the dashboard needs.
type HistoryReader interface {
	GetRecent(ctx context.Context, limit int) ([]domain.MarketHistoryRecord, error)
	GetRange(ctx context.Context, start, end time.Time) ([]domain.MarketHistoryRecord, error)
	GetLatest(ctx context.Context) (domain.MarketHistoryRecord, error)
}

type RedisClient interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Get(ctx context.Context, key string) *redis.StringCmd
}

// ScorePoint is one dated composite score for trend rendering.
type ScorePoint struct {
	Date  time.Time `json:"date"`
	Score float64   `json:"score"`
}

// DashboardView is the fully assembled render model: the composite score,
// its stance, every scored indicator, commentary, and the score history.
type DashboardView struct {
	Date           time.Time               `json:"date"`
	CompositeScore float64                 `json:"composite_score"`
	Stance         scoring.StanceMeta      `json:"stance"`
	Indicators     []domain.IndicatorScore `json:"indicators"`
	Commentary     []string                `json:"commentary"`
	History        []ScorePoint            `json:"history"`
}

// DashboardService assembles views from persisted history, with a short
// Redis cache in front since a view only changes once per collection cycle.
type DashboardService struct {
	tracer trace.Tracer
	repo   HistoryReader
	redis  RedisClient
	ttl    time.Duration
}

func NewDashboardService(tracer trace.Tracer, repo HistoryReader, redisClient RedisClient, ttl time.Duration) *DashboardService {
	return &DashboardService{
		tracer: tracer,
		repo:   repo,
		redis:  redisClient,
		ttl:    ttl,
	}
}

func (s *DashboardService) GetDashboard(ctx context.Context) (*DashboardView, error) {
	ctx, span := s.tracer.Start(ctx, "dashboard-service.get-dashboard")
	defer span.End()

	if s.redis != nil {
		if view := s.readCache(ctx); view != nil {
			return view, nil
		}
	}

	view, err := s.buildView(ctx)
	if err != nil {
		return nil, err
	}

	if s.redis != nil {
		s.writeCache(ctx, view)
	}
	return view, nil
}

// GetIndicators scores the latest snapshot without the surrounding view.
func (s *DashboardService) GetIndicators(ctx context.Context) ([]domain.IndicatorScore, error) {
	ctx, span := s.tracer.Start(ctx, "dashboard-service.get-indicators")
	defer span.End()

	records, err := s.repo.GetRecent(ctx, dashboardHistoryDepth)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("no market history collected yet")
	}

	latest := records[len(records)-1]
	return scoring.EvaluateIndicators(latest.Snapshot(), records[:len(records)-1], scoring.DefaultIndicators()), nil
}

// GetHistory returns the persisted snapshots for the trailing number of
// days, oldest first.
func (s *DashboardService) GetHistory(ctx context.Context, days int) ([]domain.MarketHistoryRecord, error) {
	ctx, span := s.tracer.Start(ctx, "dashboard-service.get-history")
	defer span.End()

	if days <= 0 {
		days = 90
	}
	end := time.Now().UTC()
	return s.repo.GetRange(ctx, end.AddDate(0, 0, -days), end)
}

// InvalidateCache drops the cached view. Called after a collection run so
// fresh data shows up immediately instead of after TTL expiry.
func (s *DashboardService) InvalidateCache(ctx context.Context) {
	if s.redis == nil {
		return
	}
	if err := s.redis.Set(ctx, dashboardCacheKey, "", time.Millisecond).Err(); err != nil {
		log.Printf("dashboard cache invalidate error: %v", err)
	}
}

func (s *DashboardService) buildView(ctx context.Context) (*DashboardView, error) {
	records, err := s.repo.GetRecent(ctx, dashboardHistoryDepth)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("no market history collected yet")
	}

	latest := records[len(records)-1]
	prior := records[:len(records)-1]
	snapshot := latest.Snapshot()

	score := 50.0
	if latest.CompositeScore != nil {
		score = *latest.CompositeScore
	} else {
		score = scoring.CalculateComposite(scoring.InputFromRecord(latest), scoring.DefaultStats())
	}

	history := make([]ScorePoint, 0, len(records))
	for _, record := range records {
		if record.CompositeScore == nil {
			continue
		}
		history = append(history, ScorePoint{Date: record.SnapshotDate, Score: *record.CompositeScore})
	}

	return &DashboardView{
		Date:           latest.SnapshotDate,
		CompositeScore: score,
		Stance:         scoring.StanceFor(score),
		Indicators:     scoring.EvaluateIndicators(snapshot, prior, scoring.DefaultIndicators()),
		Commentary:     scoring.Commentaries(snapshot, records, scoring.DefaultIndicators(), scoring.DefaultCommentary()),
		History:        history,
	}, nil
}

func (s *DashboardService) readCache(ctx context.Context) *DashboardView {
	data, err := s.redis.Get(ctx, dashboardCacheKey).Bytes()
	if err != nil {
		if err != redis.Nil {
			log.Printf("dashboard cache read error: %v", err)
		}
		return nil
	}
	if len(data) == 0 {
		return nil
	}
	var view DashboardView
	if err := json.Unmarshal(data, &view); err != nil {
		log.Printf("dashboard cache decode error: %v", err)
		return nil
	}
	return &view
}

func (s *DashboardService) writeCache(ctx context.Context, view *DashboardView) {
	data, err := json.Marshal(view)
	if err != nil {
		log.Printf("dashboard cache encode error: %v", err)
		return
	}
	if err := s.redis.Set(ctx, dashboardCacheKey, data, s.ttl).Err(); err != nil {
		log.Printf("dashboard cache write error: %v", err)
	}
}
