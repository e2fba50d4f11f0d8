package advisor

import (
	"strings"
	"testing"
)

func TestBuildSystemPromptEmbedsContext(t *testing.T) {
	prompt := BuildSystemPrompt("Composite Score: 57.30")
	if !strings.Contains(prompt, "market-timing advisor") {
		t.Fatal("prompt must carry the advisor role")
	}
	if !strings.Contains(prompt, "LIVE MARKET DATA") {
		t.Fatal("prompt must delimit the live data section")
	}
	if !strings.Contains(prompt, "Composite Score: 57.30") {
		t.Fatal("prompt must embed the market context")
	}
}

func TestFormatMarketContext(t *testing.T) {
	view := testView()

	out := FormatMarketContext(view, nil)
	if !strings.Contains(out, "Composite Score: 57.30 (Aggressive)") {
		t.Fatalf("missing score line: %q", out)
	}
	if !strings.Contains(out, "75% stocks") {
		t.Fatalf("missing allocation line: %q", out)
	}
	if !strings.Contains(out, "VIX: 28.40 (score 53.8)") {
		t.Fatalf("missing indicator one-liner: %q", out)
	}
	if !strings.Contains(out, "88th percentile") {
		t.Fatalf("missing commentary: %q", out)
	}
}

func TestFormatMarketContextFocusExpandsIndicator(t *testing.T) {
	view := testView()

	out := FormatMarketContext(view, []string{"vix"})
	if !strings.Contains(out, "momentum 72.0") {
		t.Fatalf("focused indicator must show the full breakdown: %q", out)
	}
	if strings.Contains(out, "VIX: 28.40 (score 53.8)") {
		t.Fatalf("focused indicator must not also render the one-liner: %q", out)
	}
}

func TestExtractIndicators(t *testing.T) {
	got := ExtractIndicators("Why is the VIX so high and what about credit spreads?")
	if len(got) != 2 {
		t.Fatalf("expected two kinds, got %v", got)
	}
	found := map[string]bool{}
	for _, kind := range got {
		found[kind] = true
	}
	if !found["vix"] || !found["hy_spread"] {
		t.Fatalf("expected vix and hy_spread, got %v", got)
	}

	if got := ExtractIndicators("is the yield curve still inverted?"); len(got) != 1 || got[0] != "yield_curve_10y2y" {
		t.Fatalf("expected yield_curve_10y2y, got %v", got)
	}

	if got := ExtractIndicators("should I buy AAPL?"); got != nil {
		t.Fatalf("expected no kinds, got %v", got)
	}
}
