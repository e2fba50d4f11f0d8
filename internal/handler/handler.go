package handler

import (
	"context"

	"market-timer/internal/domain"
	"market-timer/internal/service"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/trace"
)

// DashboardProvider is the read surface behind the public API.
type DashboardProvider interface {
	GetDashboard(ctx context.Context) (*service.DashboardView, error)
	GetIndicators(ctx context.Context) ([]domain.IndicatorScore, error)
	GetHistory(ctx context.Context, days int) ([]domain.MarketHistoryRecord, error)
}

// CollectRunner triggers one collection cycle on demand.
type CollectRunner interface {
	Run(ctx context.Context) (domain.CollectRunResult, error)
}

// ChatAdvisor answers free-form questions about the current market state.
type ChatAdvisor interface {
	Ask(ctx context.Context, scope, message string) (string, error)
}

type Handler struct {
	tracer      trace.Tracer
	dashboard   DashboardProvider
	collector   CollectRunner
	advisor     ChatAdvisor
	adminAPIKey string
}

func New(tracer trace.Tracer, dashboard DashboardProvider, adminAPIKey string) *Handler {
	return &Handler{
		tracer:      tracer,
		dashboard:   dashboard,
		adminAPIKey: adminAPIKey,
	}
}

// SetCollector enables the manual collection endpoint.
func (h *Handler) SetCollector(collector CollectRunner) {
	h.collector = collector
}

// SetAdvisor enables the chat endpoint.
func (h *Handler) SetAdvisor(advisor ChatAdvisor) {
	h.advisor = advisor
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/health", h.Health)
	r.GET("/api/dashboard", h.GetDashboard)
	r.GET("/api/indicators", h.GetIndicators)
	r.GET("/api/history", h.GetHistory)
	r.POST("/api/collect/run", APIKeyAuth(h.adminAPIKey), h.TriggerCollectRun)
	r.POST("/api/chat", h.Chat)
}
