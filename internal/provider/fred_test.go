package provider

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"testing"
	"time"

	"go.opentelemetry.io/otel/trace"
)

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

func jsonResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(bytes.NewBufferString(body)),
		Header:     make(http.Header),
	}
}

func testTracer() trace.Tracer {
	return trace.NewNoopTracerProvider().Tracer("test")
}

func TestFREDFetchLatestSkipsMissingValues(t *testing.T) {
	p := NewFREDProvider("testkey", testTracer())
	p.baseURL = "https://example.com"
	p.client = &http.Client{Transport: roundTripFunc(func(req *http.Request) (*http.Response, error) {
		if req.URL.Path != "/fred/series/observations" {
			t.Fatalf("unexpected path: %s", req.URL.Path)
		}
		q := req.URL.Query()
		if q.Get("series_id") != "VIXCLS" || q.Get("api_key") != "testkey" || q.Get("file_type") != "json" {
			t.Fatalf("unexpected query: %s", req.URL.RawQuery)
		}
		body := `{"observations":[
			{"date":"2026-08-28","value":"."},
			{"date":"2026-08-27","value":"18.42"},
			{"date":"2026-08-26","value":"19.01"}
		]}`
		return jsonResponse(http.StatusOK, body), nil
	})}

	point, err := p.FetchLatest(context.Background(), SeriesVIX)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if point.Value != 18.42 {
		t.Fatalf("expected first valid observation 18.42, got %v", point.Value)
	}
	if point.Date.Format("2006-01-02") != "2026-08-27" {
		t.Fatalf("unexpected date: %v", point.Date)
	}
}

func TestFREDFetchLatestNoValidObservations(t *testing.T) {
	p := NewFREDProvider("testkey", testTracer())
	p.baseURL = "https://example.com"
	p.client = &http.Client{Transport: roundTripFunc(func(req *http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusOK, `{"observations":[{"date":"2026-08-28","value":"."}]}`), nil
	})}

	if _, err := p.FetchLatest(context.Background(), SeriesHYSpread); err == nil {
		t.Fatal("expected error for series with only missing values")
	}
}

func TestFREDFetchRangePassesWindow(t *testing.T) {
	p := NewFREDProvider("testkey", testTracer())
	p.baseURL = "https://example.com"
	p.client = &http.Client{Transport: roundTripFunc(func(req *http.Request) (*http.Response, error) {
		q := req.URL.Query()
		if q.Get("observation_start") != "2025-08-30" || q.Get("observation_end") != "2026-08-30" {
			t.Fatalf("unexpected window: %s", req.URL.RawQuery)
		}
		body := `{"observations":[
			{"date":"2025-09-03","value":"7435.1"},
			{"date":"2026-08-26","value":"7519.8"}
		]}`
		return jsonResponse(http.StatusOK, body), nil
	})}

	end := time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC)
	points, err := p.FetchRange(context.Background(), SeriesFedBalance, end.AddDate(-1, 0, 0), end)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(points) != 2 || points[0].Value != 7435.1 || points[1].Value != 7519.8 {
		t.Fatalf("unexpected points: %+v", points)
	}
}

func TestFREDRequiresAPIKey(t *testing.T) {
	p := NewFREDProvider("", testTracer())
	if _, err := p.FetchLatest(context.Background(), SeriesVIX); err == nil {
		t.Fatal("expected error without an API key")
	}
}

func TestFREDServerError(t *testing.T) {
	p := NewFREDProvider("testkey", testTracer())
	p.baseURL = "https://example.com"
	p.client = &http.Client{Transport: roundTripFunc(func(req *http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusTooManyRequests, `{"error_message":"rate limited"}`), nil
	})}

	if _, err := p.FetchLatest(context.Background(), SeriesVIX); err == nil {
		t.Fatal("expected error on non-200 status")
	}
}
