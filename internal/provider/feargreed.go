package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/otel/trace"
)

const fearGreedBaseURL = "https://production.dataviz.cnn.io"

// FearGreedProvider pulls CNN's Fear & Greed composite.
type FearGreedProvider struct {
	client  *http.Client
	baseURL string
	tracer  trace.Tracer
}

func NewFearGreedProvider(tracer trace.Tracer) *FearGreedProvider {
	return &FearGreedProvider{
		client:  &http.Client{Timeout: 15 * time.Second},
		baseURL: fearGreedBaseURL,
		tracer:  tracer,
	}
}

func (p *FearGreedProvider) FetchLatest(ctx context.Context) (*FearGreedPoint, error) {
	_, span := p.tracer.Start(ctx, "feargreed.fetch-latest")
	defer span.End()

	url := strings.TrimRight(p.baseURL, "/") + "/index/fearandgreed/graphdata"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; market-timer/1.0)")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("fear & greed API error %d: %s", resp.StatusCode, string(body))
	}

	var payload struct {
		FearAndGreed struct {
			Score     float64 `json:"score"`
			Rating    string  `json:"rating"`
			Timestamp string  `json:"timestamp"`
		} `json:"fear_and_greed"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode fear & greed response: %w", err)
	}
	if payload.FearAndGreed.Score == 0 && payload.FearAndGreed.Rating == "" {
		return nil, fmt.Errorf("fear & greed response has no reading")
	}

	ts := time.Now().UTC()
	if parsed, err := time.Parse(time.RFC3339, payload.FearAndGreed.Timestamp); err == nil {
		ts = parsed.UTC()
	}

	return &FearGreedPoint{
		Value:          payload.FearAndGreed.Score,
		Classification: payload.FearAndGreed.Rating,
		Timestamp:      ts,
	}, nil
}
