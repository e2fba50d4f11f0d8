package job

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"market-timer/internal/domain"

	"go.opentelemetry.io/otel/trace"
)

type collectRunnerStub struct {
	calls *int32
}

func (s *collectRunnerStub) Run(ctx context.Context) (domain.CollectRunResult, error) {
	atomic.AddInt32(s.calls, 1)
	return domain.CollectRunResult{Date: time.Now().UTC(), FieldsCollected: 5, CompositeScore: 50}, nil
}

type invalidatorStub struct {
	calls *int32
}

func (s *invalidatorStub) InvalidateCache(ctx context.Context) {
	atomic.AddInt32(s.calls, 1)
}

func TestCollectorJobRunsAtStartup(t *testing.T) {
	var runs, invalidations int32
	job := NewCollectorJob(
		trace.NewNoopTracerProvider().Tracer("test"),
		&collectRunnerStub{calls: &runs},
		&invalidatorStub{calls: &invalidations},
		22, 1,
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan struct{})
	go func() {
		job.Start(ctx)
		close(done)
	}()

	time.Sleep(20 * time.Millisecond)
	cancel()
	<-done

	if atomic.LoadInt32(&runs) == 0 {
		t.Fatal("expected the startup collection run")
	}
	if atomic.LoadInt32(&invalidations) == 0 {
		t.Fatal("expected a cache invalidation after the run")
	}
}

func TestCollectorJobDue(t *testing.T) {
	job := NewCollectorJob(trace.NewNoopTracerProvider().Tracer("test"), nil, nil, 22, 300)

	day := time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC)

	job.now = func() time.Time { return day.Add(10 * time.Hour) }
	if job.due() {
		t.Fatal("must not be due before the collect hour")
	}

	job.now = func() time.Time { return day.Add(23 * time.Hour) }
	if !job.due() {
		t.Fatal("must be due after the collect hour with no run today")
	}

	job.lastRunDate = day
	if job.due() {
		t.Fatal("must not be due twice on the same day")
	}

	job.now = func() time.Time { return day.AddDate(0, 0, 1).Add(23 * time.Hour) }
	if !job.due() {
		t.Fatal("must be due again the next day")
	}
}
