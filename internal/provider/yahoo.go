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
	"golang.org/x/time/rate"
)

const yahooBaseURL = "https://query1.finance.yahoo.com"

// YahooProvider pulls index quotes and daily close history from the Yahoo
// Finance chart API.
type YahooProvider struct {
	client  *http.Client
	baseURL string
	limiter *rate.Limiter
	tracer  trace.Tracer
}

func NewYahooProvider(tracer trace.Tracer) *YahooProvider {
	return &YahooProvider{
		client:  &http.Client{Timeout: 15 * time.Second},
		baseURL: yahooBaseURL,
		limiter: rate.NewLimiter(rate.Every(2*time.Second), 1),
		tracer:  tracer,
	}
}

// FetchDailyCloses returns up to a year of daily closes for a symbol in
// chronological order. Null closes (market holidays mid-series) are skipped.
func (p *YahooProvider) FetchDailyCloses(ctx context.Context, symbol string) ([]SeriesPoint, error) {
	ctx, span := p.tracer.Start(ctx, "yahoo.fetch-daily-closes")
	defer span.End()

	if err := p.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	u := fmt.Sprintf("%s/v8/finance/chart/%s?range=1y&interval=1d", strings.TrimRight(p.baseURL, "/"), symbol)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
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
		return nil, fmt.Errorf("yahoo chart API error %d for %s: %s", resp.StatusCode, symbol, string(body))
	}

	var payload struct {
		Chart struct {
			Result []struct {
				Timestamp  []int64 `json:"timestamp"`
				Indicators struct {
					Quote []struct {
						Close []*float64 `json:"close"`
					} `json:"quote"`
				} `json:"indicators"`
			} `json:"result"`
			Error *struct {
				Description string `json:"description"`
			} `json:"error"`
		} `json:"chart"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode yahoo chart response for %s: %w", symbol, err)
	}
	if payload.Chart.Error != nil {
		return nil, fmt.Errorf("yahoo chart API error for %s: %s", symbol, payload.Chart.Error.Description)
	}
	if len(payload.Chart.Result) == 0 || len(payload.Chart.Result[0].Indicators.Quote) == 0 {
		return nil, fmt.Errorf("yahoo chart response for %s has no result", symbol)
	}

	result := payload.Chart.Result[0]
	closes := result.Indicators.Quote[0].Close
	points := make([]SeriesPoint, 0, len(closes))
	for i, ts := range result.Timestamp {
		if i >= len(closes) || closes[i] == nil {
			continue
		}
		points = append(points, SeriesPoint{
			Date:  time.Unix(ts, 0).UTC(),
			Value: *closes[i],
		})
	}
	if len(points) == 0 {
		return nil, fmt.Errorf("yahoo chart response for %s has no closes", symbol)
	}
	return points, nil
}

// FetchQuote returns the current price and trailing P/E for a symbol.
func (p *YahooProvider) FetchQuote(ctx context.Context, symbol string) (*Quote, error) {
	ctx, span := p.tracer.Start(ctx, "yahoo.fetch-quote")
	defer span.End()

	if err := p.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	u := fmt.Sprintf("%s/v7/finance/quote?symbols=%s", strings.TrimRight(p.baseURL, "/"), symbol)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
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
		return nil, fmt.Errorf("yahoo quote API error %d for %s: %s", resp.StatusCode, symbol, string(body))
	}

	var payload struct {
		QuoteResponse struct {
			Result []struct {
				Symbol             string  `json:"symbol"`
				RegularMarketPrice float64 `json:"regularMarketPrice"`
				TrailingPE         float64 `json:"trailingPE"`
			} `json:"result"`
		} `json:"quoteResponse"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode yahoo quote response for %s: %w", symbol, err)
	}
	if len(payload.QuoteResponse.Result) == 0 {
		return nil, fmt.Errorf("yahoo quote response for %s has no result", symbol)
	}

	row := payload.QuoteResponse.Result[0]
	return &Quote{
		Symbol:     row.Symbol,
		Price:      row.RegularMarketPrice,
		TrailingPE: row.TrailingPE,
	}, nil
}
