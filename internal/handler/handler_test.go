package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"market-timer/internal/domain"
	"market-timer/internal/service"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/trace"
)

type dashboardStub struct {
	view       *service.DashboardView
	indicators []domain.IndicatorScore
	history    []domain.MarketHistoryRecord
	err        error

	historyDays int
}

func (s *dashboardStub) GetDashboard(ctx context.Context) (*service.DashboardView, error) {
	return s.view, s.err
}

func (s *dashboardStub) GetIndicators(ctx context.Context) ([]domain.IndicatorScore, error) {
	return s.indicators, s.err
}

func (s *dashboardStub) GetHistory(ctx context.Context, days int) ([]domain.MarketHistoryRecord, error) {
	s.historyDays = days
	return s.history, s.err
}

type collectRunnerStub struct {
	result domain.CollectRunResult
	err    error
}

func (s collectRunnerStub) Run(ctx context.Context) (domain.CollectRunResult, error) {
	if s.err != nil {
		return domain.CollectRunResult{}, s.err
	}
	return s.result, nil
}

type chatAdvisorStub struct {
	reply string
	err   error

	scope   string
	message string
}

func (s *chatAdvisorStub) Ask(ctx context.Context, scope, message string) (string, error) {
	s.scope = scope
	s.message = message
	return s.reply, s.err
}

func newTestHandler(dashboard DashboardProvider) *Handler {
	tracer := trace.NewNoopTracerProvider().Tracer("handler-test")
	return New(tracer, dashboard, "")
}

func TestHealth(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := newTestHandler(&dashboardStub{})

	r := gin.New()
	r.GET("/health", h.Health)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "healthy") {
		t.Errorf("unexpected body: %s", w.Body.String())
	}
}

func TestGetDashboard(t *testing.T) {
	gin.SetMode(gin.TestMode)
	stub := &dashboardStub{view: &service.DashboardView{CompositeScore: 57.3}}
	h := newTestHandler(stub)

	r := gin.New()
	r.GET("/api/dashboard", h.GetDashboard)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/dashboard", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var body struct {
		CompositeScore float64 `json:"composite_score"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("parse error: %v", err)
	}
	if body.CompositeScore != 57.3 {
		t.Errorf("expected composite score 57.3, got %v", body.CompositeScore)
	}
}

func TestGetDashboardUnavailable(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := newTestHandler(&dashboardStub{err: errors.New("no history")})

	r := gin.New()
	r.GET("/api/dashboard", h.GetDashboard)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/dashboard", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", w.Code)
	}
}

func TestGetHistoryDaysParam(t *testing.T) {
	gin.SetMode(gin.TestMode)
	stub := &dashboardStub{history: []domain.MarketHistoryRecord{
		{SnapshotDate: time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC)},
	}}
	h := newTestHandler(stub)

	r := gin.New()
	r.GET("/api/history", h.GetHistory)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/history?days=30", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if stub.historyDays != 30 {
		t.Errorf("expected days=30 passed through, got %d", stub.historyDays)
	}
}

func TestGetHistoryDefaultsTo90Days(t *testing.T) {
	gin.SetMode(gin.TestMode)
	stub := &dashboardStub{}
	h := newTestHandler(stub)

	r := gin.New()
	r.GET("/api/history", h.GetHistory)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/history", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if stub.historyDays != 90 {
		t.Errorf("expected default 90 days, got %d", stub.historyDays)
	}
}

func TestGetHistoryRejectsBadDays(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := newTestHandler(&dashboardStub{})

	r := gin.New()
	r.GET("/api/history", h.GetHistory)

	for _, raw := range []string{"0", "-7", "soon"} {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/history?days="+raw, nil)
		r.ServeHTTP(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("days=%q: expected 400, got %d", raw, w.Code)
		}
	}
}

func TestTriggerCollectRunServiceUnavailable(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := newTestHandler(&dashboardStub{})

	r := gin.New()
	r.POST("/api/collect/run", h.TriggerCollectRun)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/collect/run", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", w.Code)
	}
}

func TestTriggerCollectRunSuccess(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := newTestHandler(&dashboardStub{})
	h.SetCollector(collectRunnerStub{result: domain.CollectRunResult{
		Date:            time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC),
		FieldsCollected: 17,
		CompositeScore:  54.21,
		Errors:          []string{"one warning"},
	}})

	r := gin.New()
	r.POST("/api/collect/run", h.TriggerCollectRun)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/collect/run", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var body struct {
		Status          string   `json:"status"`
		Date            string   `json:"date"`
		FieldsCollected int      `json:"fields_collected"`
		CompositeScore  float64  `json:"composite_score"`
		Errors          []string `json:"errors"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("parse error: %v", err)
	}
	if body.Status != "ok" || body.Date != "2026-08-28" || body.FieldsCollected != 17 {
		t.Fatalf("unexpected response payload: %+v", body)
	}
	if len(body.Errors) != 1 {
		t.Errorf("expected warnings to pass through, got %+v", body.Errors)
	}
}

func TestTriggerCollectRunFailure(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := newTestHandler(&dashboardStub{})
	h.SetCollector(collectRunnerStub{err: errors.New("run failed")})

	r := gin.New()
	r.POST("/api/collect/run", h.TriggerCollectRun)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/collect/run", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", w.Code)
	}
}

func TestAPIKeyAuth(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.POST("/protected", APIKeyAuth("secret"), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	cases := []struct {
		name string
		key  string
		want int
	}{
		{"missing key", "", http.StatusUnauthorized},
		{"wrong key", "nope", http.StatusForbidden},
		{"correct key", "secret", http.StatusOK},
	}
	for _, tc := range cases {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/protected", nil)
		if tc.key != "" {
			req.Header.Set("X-API-Key", tc.key)
		}
		r.ServeHTTP(w, req)

		if w.Code != tc.want {
			t.Errorf("%s: expected %d, got %d", tc.name, tc.want, w.Code)
		}
	}
}

func TestAPIKeyAuthDisabledWhenEmpty(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.POST("/protected", APIKeyAuth(""), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/protected", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected auth to be disabled with empty key, got %d", w.Code)
	}
}

func TestChat(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := newTestHandler(&dashboardStub{})
	adv := &chatAdvisorStub{reply: "stay the course"}
	h.SetAdvisor(adv)

	r := gin.New()
	r.POST("/api/chat", h.Chat)

	payload := `{"session_id":"abc123","message":"is the vix elevated?"}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/chat", bytes.NewBufferString(payload))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if adv.scope != "web:abc123" {
		t.Errorf("expected scope web:abc123, got %q", adv.scope)
	}
	if adv.message != "is the vix elevated?" {
		t.Errorf("unexpected message forwarded: %q", adv.message)
	}

	var body struct {
		Reply     string `json:"reply"`
		SessionID string `json:"session_id"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("parse error: %v", err)
	}
	if body.Reply != "stay the course" || body.SessionID != "abc123" {
		t.Fatalf("unexpected response payload: %+v", body)
	}
}

func TestChatGeneratesSessionID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := newTestHandler(&dashboardStub{})
	adv := &chatAdvisorStub{reply: "ok"}
	h.SetAdvisor(adv)

	r := gin.New()
	r.POST("/api/chat", h.Chat)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/chat", bytes.NewBufferString(`{"message":"hello"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if !strings.HasPrefix(adv.scope, "web:anon-") {
		t.Errorf("expected generated anonymous scope, got %q", adv.scope)
	}
}

func TestChatRejectsEmptyMessage(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := newTestHandler(&dashboardStub{})
	h.SetAdvisor(&chatAdvisorStub{})

	r := gin.New()
	r.POST("/api/chat", h.Chat)

	for _, payload := range []string{`{}`, `{"message":"   "}`, `not json`} {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/chat", bytes.NewBufferString(payload))
		req.Header.Set("Content-Type", "application/json")
		r.ServeHTTP(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("payload %q: expected 400, got %d", payload, w.Code)
		}
	}
}

func TestChatUnavailableWithoutAdvisor(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := newTestHandler(&dashboardStub{})

	r := gin.New()
	r.POST("/api/chat", h.Chat)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/chat", bytes.NewBufferString(`{"message":"hi"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", w.Code)
	}
}
