package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/otel/trace"
	"golang.org/x/time/rate"
)

const fredBaseURL = "https://api.stlouisfed.org"

// FRED series IDs used by the daily collection run.
const (
	SeriesHYSpread      = "BAMLH0A0HYM2"
	SeriesVIX           = "VIXCLS"
	SeriesInitialClaims = "ICSA"
	SeriesCurve10Y2Y    = "T10Y2Y"
	SeriesCurve10Y3M    = "T10Y3M"
	SeriesFedBalance    = "WALCL"
	SeriesM2            = "M2SL"
	SeriesGDP           = "GDP"
	SeriesWilshire      = "WILL5000PRFC"
	SeriesDGS10         = "DGS10"
)

// FREDProvider pulls observation series from the St. Louis Fed API. The
// limiter keeps a collection run well under the documented 120 req/min cap.
type FREDProvider struct {
	client  *http.Client
	baseURL string
	apiKey  string
	limiter *rate.Limiter
	tracer  trace.Tracer
}

func NewFREDProvider(apiKey string, tracer trace.Tracer) *FREDProvider {
	return &FREDProvider{
		client:  &http.Client{Timeout: 15 * time.Second},
		baseURL: fredBaseURL,
		apiKey:  apiKey,
		limiter: rate.NewLimiter(rate.Every(time.Second), 2),
		tracer:  tracer,
	}
}

type fredObservation struct {
	Date  string `json:"date"`
	Value string `json:"value"`
}

// FetchLatest returns the most recent valid observation of a series. FRED
// reports holes as ".", which are skipped.
func (p *FREDProvider) FetchLatest(ctx context.Context, seriesID string) (*SeriesPoint, error) {
	ctx, span := p.tracer.Start(ctx, "fred.fetch-latest")
	defer span.End()

	points, err := p.fetch(ctx, seriesID, url.Values{
		"sort_order": {"desc"},
		"limit":      {"10"},
	})
	if err != nil {
		return nil, err
	}
	if len(points) == 0 {
		return nil, fmt.Errorf("fred series %s has no valid observations", seriesID)
	}
	return &points[0], nil
}

// FetchRange returns valid observations between start and end inclusive, in
// FRED's ascending date order.
func (p *FREDProvider) FetchRange(ctx context.Context, seriesID string, start, end time.Time) ([]SeriesPoint, error) {
	ctx, span := p.tracer.Start(ctx, "fred.fetch-range")
	defer span.End()

	return p.fetch(ctx, seriesID, url.Values{
		"observation_start": {start.Format("2006-01-02")},
		"observation_end":   {end.Format("2006-01-02")},
	})
}

func (p *FREDProvider) fetch(ctx context.Context, seriesID string, params url.Values) ([]SeriesPoint, error) {
	if p.apiKey == "" {
		return nil, fmt.Errorf("fred api key not configured")
	}
	if err := p.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	params.Set("series_id", seriesID)
	params.Set("api_key", p.apiKey)
	params.Set("file_type", "json")

	u := strings.TrimRight(p.baseURL, "/") + "/fred/series/observations?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("fred API error %d for %s: %s", resp.StatusCode, seriesID, string(body))
	}

	var payload struct {
		Observations []fredObservation `json:"observations"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode fred response for %s: %w", seriesID, err)
	}

	points := make([]SeriesPoint, 0, len(payload.Observations))
	for _, obs := range payload.Observations {
		raw := strings.TrimSpace(obs.Value)
		if raw == "" || raw == "." {
			continue
		}
		value, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			continue
		}
		date, err := time.Parse("2006-01-02", obs.Date)
		if err != nil {
			continue
		}
		points = append(points, SeriesPoint{Date: date.UTC(), Value: value})
	}
	return points, nil
}
