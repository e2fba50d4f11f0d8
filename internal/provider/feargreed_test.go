package provider

import (
	"context"
	"net/http"
	"testing"
	"time"
)

func TestFearGreedFetchLatest(t *testing.T) {
	p := NewFearGreedProvider(testTracer())
	p.baseURL = "https://example.com"
	p.client = &http.Client{Transport: roundTripFunc(func(req *http.Request) (*http.Response, error) {
		if req.URL.Path != "/index/fearandgreed/graphdata" {
			t.Fatalf("unexpected path: %s", req.URL.Path)
		}
		body := `{"fear_and_greed":{"score":38.4,"rating":"fear","timestamp":"2026-08-28T16:00:00+00:00"}}`
		return jsonResponse(http.StatusOK, body), nil
	})}

	point, err := p.FetchLatest(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if point.Value != 38.4 || point.Classification != "fear" {
		t.Fatalf("unexpected point: %+v", point)
	}
	want := time.Date(2026, 8, 28, 16, 0, 0, 0, time.UTC)
	if !point.Timestamp.Equal(want) {
		t.Fatalf("unexpected timestamp: %v", point.Timestamp)
	}
}

func TestFearGreedFetchLatestEmptyPayload(t *testing.T) {
	p := NewFearGreedProvider(testTracer())
	p.baseURL = "https://example.com"
	p.client = &http.Client{Transport: roundTripFunc(func(req *http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusOK, `{"fear_and_greed":{}}`), nil
	})}

	if _, err := p.FetchLatest(context.Background()); err == nil {
		t.Fatal("expected error for empty reading")
	}
}

func TestFearGreedFetchLatestServerError(t *testing.T) {
	p := NewFearGreedProvider(testTracer())
	p.baseURL = "https://example.com"
	p.client = &http.Client{Transport: roundTripFunc(func(req *http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusServiceUnavailable, `unavailable`), nil
	})}

	if _, err := p.FetchLatest(context.Background()); err == nil {
		t.Fatal("expected error on non-200 status")
	}
}
