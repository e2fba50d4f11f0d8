package job

import (
	"context"
	"log"
	"time"

	"market-timer/internal/domain"

	"go.opentelemetry.io/otel/trace"
)

type CollectRunner interface {
	Run(ctx context.Context) (domain.CollectRunResult, error)
}

type CacheInvalidator interface {
	InvalidateCache(ctx context.Context)
}

// CollectorJob runs one collection cycle at startup (the upsert merge makes
// reruns harmless) and then once per day after the configured UTC hour,
// checking the clock on a short poll interval.
type CollectorJob struct {
	tracer       trace.Tracer
	runner       CollectRunner
	invalidator  CacheInvalidator
	collectHour  int
	pollInterval time.Duration

	now         func() time.Time
	lastRunDate time.Time
}

func NewCollectorJob(tracer trace.Tracer, runner CollectRunner, invalidator CacheInvalidator, collectHourUTC, pollSecs int) *CollectorJob {
	if pollSecs <= 0 {
		pollSecs = 300
	}
	if collectHourUTC < 0 || collectHourUTC > 23 {
		collectHourUTC = 22
	}
	return &CollectorJob{
		tracer:       tracer,
		runner:       runner,
		invalidator:  invalidator,
		collectHour:  collectHourUTC,
		pollInterval: time.Duration(pollSecs) * time.Second,
		now:          time.Now,
	}
}

func (j *CollectorJob) Start(ctx context.Context) {
	if j.runner == nil {
		log.Println("Collector job disabled: no runner")
		<-ctx.Done()
		return
	}

	j.runOnce(ctx)

	ticker := time.NewTicker(j.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if j.due() {
				j.runOnce(ctx)
			}
		}
	}
}

// due reports whether today's scheduled run is still pending.
func (j *CollectorJob) due() bool {
	now := j.now().UTC()
	if now.Hour() < j.collectHour {
		return false
	}
	return j.lastRunDate.Before(now.Truncate(24 * time.Hour))
}

func (j *CollectorJob) runOnce(ctx context.Context) {
	_, span := j.tracer.Start(ctx, "collector-job.run-once")
	defer span.End()

	result, err := j.runner.Run(ctx)
	if err != nil {
		log.Printf("Collection cycle error: %v", err)
		return
	}
	j.lastRunDate = j.now().UTC().Truncate(24 * time.Hour)

	if j.invalidator != nil {
		j.invalidator.InvalidateCache(ctx)
	}
	log.Printf(
		"Collection cycle complete date=%s fields=%d score=%.2f warnings=%d",
		result.Date.Format("2006-01-02"),
		result.FieldsCollected,
		result.CompositeScore,
		len(result.Errors),
	)
}
