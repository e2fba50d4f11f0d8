package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"market-timer/internal/advisor"
	"market-timer/internal/bot"
	"market-timer/internal/cache"
	"market-timer/internal/config"
	"market-timer/internal/db"
	"market-timer/internal/handler"
	"market-timer/internal/job"
	"market-timer/internal/provider"
	"market-timer/internal/repository"
	"market-timer/internal/service"
	"market-timer/pkg/tracing"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel/trace"

	_ "market-timer/docs"
)

var (
	loadEnvFunc      = godotenv.Load
	loadConfigFunc   = config.Load
	initPostgresFunc = db.InitPostgres
	initRedisFunc    = cache.InitRedis
	initTracerFunc   = tracing.InitTracer

	newHistoryRepoFunc      = repository.NewHistoryRepository
	newConversationRepoFunc = repository.NewConversationRepository

	newFREDProviderFunc = func(apiKey string, tracer trace.Tracer) service.SeriesProvider {
		return provider.NewFREDProvider(apiKey, tracer)
	}
	newYahooProviderFunc = func(tracer trace.Tracer) service.EquityProvider {
		return provider.NewYahooProvider(tracer)
	}
	newFearGreedProviderFunc = func(tracer trace.Tracer) service.SentimentProvider {
		return provider.NewFearGreedProvider(tracer)
	}

	newCollectorServiceFunc = service.NewCollectorService
	newDashboardServiceFunc = service.NewDashboardService
	newCollectorJobFunc     = job.NewCollectorJob
	startCollectorJobFunc   = func(j *job.CollectorJob, ctx context.Context) { go j.Start(ctx) }

	newOpenAIClientFunc   = advisor.NewOpenAIClient
	newAdvisorServiceFunc = advisor.NewAdvisorService
	startTelegramBotFunc  = bot.StartTelegramBot

	newHandlerFunc = handler.New
	newRouterFunc  = gin.Default

	setupSignalNotify      = signal.Notify
	waitForSignalFunc      = func(quit <-chan os.Signal) { <-quit }
	startHTTPServerFunc    = func(srv *http.Server) error { return srv.ListenAndServe() }
	shutdownHTTPServerFunc = func(srv *http.Server, ctx context.Context) error { return srv.Shutdown(ctx) }
)

// @title           Market Timer API
// @version         1.0
// @description     Daily market-timing dashboard: composite score, stance, and scored indicators.

// @host      localhost:8080
// @BasePath  /
func main() {
	loadEnvFunc()

	cfg := loadConfigFunc()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Init Postgres and Redis
	os.Setenv("DATABASE_URL", cfg.DatabaseURL)
	os.Setenv("REDIS_URL", cfg.RedisURL)
	initPostgresFunc(ctx)
	initRedisFunc(ctx)

	// Init tracing
	tp, tracer, err := initTracerFunc(ctx)
	if err != nil {
		log.Fatalf("failed to initialize tracer: %v", err)
	}
	defer func() {
		if err := tp.Shutdown(ctx); err != nil {
			log.Printf("error shutting down tracer provider: %v", err)
		}
	}()

	// Repositories
	historyRepo := newHistoryRepoFunc(db.Pool, tracer)
	convRepo := newConversationRepoFunc(db.Pool, tracer)

	// Data providers
	fred := newFREDProviderFunc(cfg.FREDAPIKey, tracer)
	yahoo := newYahooProviderFunc(tracer)
	fearGreed := newFearGreedProviderFunc(tracer)

	// Services
	collectorService := newCollectorServiceFunc(tracer, fred, yahoo, fearGreed, historyRepo, cfg.RetentionDays)
	dashboardService := newDashboardServiceFunc(tracer, historyRepo, cache.Client,
		time.Duration(cfg.DashboardTTLSecs)*time.Second)

	// Daily collection job (background goroutine, stopped by ctx cancel)
	var collectorJob *job.CollectorJob
	if db.Pool != nil {
		collectorJob = newCollectorJobFunc(tracer, collectorService, dashboardService,
			cfg.CollectHourUTC, cfg.CollectPollSecs)
	} else {
		log.Println("Warning: no database pool, collection job disabled")
		collectorJob = newCollectorJobFunc(tracer, nil, nil, cfg.CollectHourUTC, cfg.CollectPollSecs)
	}
	startCollectorJobFunc(collectorJob, ctx)

	// Advisor (optional)
	var advisorService *advisor.AdvisorService
	if cfg.OpenAIAPIKey != "" {
		llmClient := newOpenAIClientFunc(cfg.OpenAIAPIKey)
		advisorService = newAdvisorServiceFunc(tracer, llmClient, dashboardService,
			convRepo, cfg.OpenAIModel, cfg.AdvisorMaxHistory)
		log.Println("Advisor service enabled")
	}

	// Telegram bot
	os.Setenv("TELEGRAM_BOT_TOKEN", cfg.TelegramBotToken)
	startTelegramBotFunc(dashboardService, advisorService)

	// Handlers and routes
	h := newHandlerFunc(tracer, dashboardService, cfg.AdminAPIKey)
	if db.Pool != nil {
		h.SetCollector(collectorService)
	}
	if advisorService != nil {
		h.SetAdvisor(advisorService)
	}

	r := newRouterFunc()
	r.Use(otelgin.Middleware("market-timer"))

	h.RegisterRoutes(r)
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler: r,
	}

	go func() {
		if err := startHTTPServerFunc(srv); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	setupSignalNotify(quit, syscall.SIGINT, syscall.SIGTERM)
	waitForSignalFunc(quit)
	log.Println("Shutting down server...")

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := shutdownHTTPServerFunc(srv, shutdownCtx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exiting")
}
