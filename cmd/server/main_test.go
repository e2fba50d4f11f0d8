package main

import (
	"context"
	"net/http"
	"os"
	"testing"
	"time"

	"market-timer/internal/advisor"
	"market-timer/internal/config"
	"market-timer/internal/handler"
	"market-timer/internal/job"
	"market-timer/internal/repository"
	"market-timer/internal/service"

	"github.com/gin-gonic/gin"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

func TestMainBootstrap(t *testing.T) {
	restore := stubServerDeps()
	defer restore()

	done := make(chan struct{})
	go func() {
		main()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("main did not exit")
	}
}

func stubServerDeps() func() {
	origLoadEnv := loadEnvFunc
	origLoadConfig := loadConfigFunc
	origInitPostgres := initPostgresFunc
	origInitRedis := initRedisFunc
	origInitTracer := initTracerFunc
	origNewHistoryRepo := newHistoryRepoFunc
	origNewConvRepo := newConversationRepoFunc
	origNewFRED := newFREDProviderFunc
	origNewYahoo := newYahooProviderFunc
	origNewFearGreed := newFearGreedProviderFunc
	origNewCollector := newCollectorServiceFunc
	origNewDashboard := newDashboardServiceFunc
	origNewJob := newCollectorJobFunc
	origStartJob := startCollectorJobFunc
	origNewOpenAI := newOpenAIClientFunc
	origNewAdvisor := newAdvisorServiceFunc
	origStartBot := startTelegramBotFunc
	origNewHandler := newHandlerFunc
	origNewRouter := newRouterFunc
	origSetupSignal := setupSignalNotify
	origWait := waitForSignalFunc
	origStartHTTP := startHTTPServerFunc
	origShutdownHTTP := shutdownHTTPServerFunc

	loadEnvFunc = func(...string) error { return nil }
	loadConfigFunc = func() *config.Config {
		return &config.Config{
			HTTPPort:         8080,
			CollectHourUTC:   22,
			CollectPollSecs:  300,
			RetentionDays:    3650,
			DashboardTTLSecs: 300,
		}
	}
	initPostgresFunc = func(context.Context) {}
	initRedisFunc = func(context.Context) {}
	initTracerFunc = func(ctx context.Context) (*sdktrace.TracerProvider, trace.Tracer, error) {
		tp := sdktrace.NewTracerProvider()
		return tp, tp.Tracer("test"), nil
	}
	newHistoryRepoFunc = func(repository.PgxPool, trace.Tracer) *repository.HistoryRepository {
		return nil
	}
	newConversationRepoFunc = func(repository.PgxPool, trace.Tracer) *repository.ConversationRepository {
		return nil
	}
	newFREDProviderFunc = func(string, trace.Tracer) service.SeriesProvider { return nil }
	newYahooProviderFunc = func(trace.Tracer) service.EquityProvider { return nil }
	newFearGreedProviderFunc = func(trace.Tracer) service.SentimentProvider { return nil }
	newCollectorServiceFunc = func(
		trace.Tracer,
		service.SeriesProvider,
		service.EquityProvider,
		service.SentimentProvider,
		service.HistoryWriter,
		int,
	) *service.CollectorService {
		return nil
	}
	newDashboardServiceFunc = func(
		trace.Tracer, service.HistoryReader, service.RedisClient, time.Duration,
	) *service.DashboardService {
		return nil
	}
	newCollectorJobFunc = func(
		tracer trace.Tracer, runner job.CollectRunner, inv job.CacheInvalidator, hour, poll int,
	) *job.CollectorJob {
		return job.NewCollectorJob(tracer, nil, nil, hour, poll)
	}
	startCollectorJobFunc = func(*job.CollectorJob, context.Context) {}
	newOpenAIClientFunc = func(string) advisor.LLMClient { return nil }
	newAdvisorServiceFunc = func(
		trace.Tracer, advisor.LLMClient, advisor.DashboardQuerier,
		advisor.ConversationStore, string, int,
	) *advisor.AdvisorService {
		return nil
	}
	startTelegramBotFunc = func(*service.DashboardService, *advisor.AdvisorService) {}
	newHandlerFunc = func(tracer trace.Tracer, dashboard handler.DashboardProvider, key string) *handler.Handler {
		return handler.New(tracer, dashboard, key)
	}
	newRouterFunc = func(...gin.OptionFunc) *gin.Engine {
		gin.SetMode(gin.TestMode)
		return gin.New()
	}
	setupSignalNotify = func(c chan<- os.Signal, sig ...os.Signal) {}
	waitForSignalFunc = func(<-chan os.Signal) {}
	startHTTPServerFunc = func(*http.Server) error { return http.ErrServerClosed }
	shutdownHTTPServerFunc = func(*http.Server, context.Context) error { return nil }

	return func() {
		loadEnvFunc = origLoadEnv
		loadConfigFunc = origLoadConfig
		initPostgresFunc = origInitPostgres
		initRedisFunc = origInitRedis
		initTracerFunc = origInitTracer
		newHistoryRepoFunc = origNewHistoryRepo
		newConversationRepoFunc = origNewConvRepo
		newFREDProviderFunc = origNewFRED
		newYahooProviderFunc = origNewYahoo
		newFearGreedProviderFunc = origNewFearGreed
		newCollectorServiceFunc = origNewCollector
		newDashboardServiceFunc = origNewDashboard
		newCollectorJobFunc = origNewJob
		startCollectorJobFunc = origStartJob
		newOpenAIClientFunc = origNewOpenAI
		newAdvisorServiceFunc = origNewAdvisor
		startTelegramBotFunc = origStartBot
		newHandlerFunc = origNewHandler
		newRouterFunc = origNewRouter
		setupSignalNotify = origSetupSignal
		waitForSignalFunc = origWait
		startHTTPServerFunc = origStartHTTP
		shutdownHTTPServerFunc = origShutdownHTTP
	}
}
