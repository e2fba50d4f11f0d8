package advisor

import "strings"

type indicatorAlias struct {
	alias string
	kind  string
}

// indicatorAliases maps conversational names onto indicator kinds, ordered
// so extraction output is deterministic. Single-word aliases are matched as
// whole words, phrases as substrings.
var indicatorAliases = []indicatorAlias{
	{"high-yield", "hy_spread"},
	{"high yield", "hy_spread"},
	{"spreads", "hy_spread"},
	{"spread", "hy_spread"},
	{"credit", "hy_spread"},
	{"vix", "vix"},
	{"volatility", "vix"},
	{"claims", "initial_claims"},
	{"unemployment", "initial_claims"},
	{"jobless", "initial_claims"},
	{"200ma", "spy_vs_200ma"},
	{"200-day", "spy_vs_200ma"},
	{"moving average", "spy_vs_200ma"},
	{"trend", "spy_vs_200ma"},
	{"yield curve", "yield_curve_10y2y"},
	{"curve", "yield_curve_10y2y"},
	{"inversion", "yield_curve_10y2y"},
	{"10y2y", "yield_curve_10y2y"},
	{"10y3m", "yield_curve_10y3m"},
	{"fear", "fear_greed"},
	{"greed", "fear_greed"},
	{"sentiment", "fear_greed"},
	{"buffett", "buffett_indicator"},
	{"valuation", "buffett_indicator"},
	{"risk premium", "equity_risk_premium"},
	{"erp", "equity_risk_premium"},
	{"fed", "fed_balance_sheet_yoy"},
	{"balance sheet", "fed_balance_sheet_yoy"},
	{"liquidity", "fed_balance_sheet_yoy"},
	{"m2", "m2_growth_yoy"},
	{"money supply", "m2_growth_yoy"},
}

// ExtractIndicators scans a user message for mentions of known indicators.
// Returns deduplicated indicator kinds in alias-table order.
func ExtractIndicators(text string) []string {
	lower := strings.ToLower(text)
	words := make(map[string]bool)
	for _, w := range strings.FieldsFunc(lower, func(r rune) bool {
		return !((r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-')
	}) {
		words[w] = true
	}

	seen := make(map[string]bool)
	var result []string
	for _, entry := range indicatorAliases {
		matched := false
		if strings.ContainsAny(entry.alias, " ") {
			matched = strings.Contains(lower, entry.alias)
		} else {
			matched = words[entry.alias]
		}
		if !matched || seen[entry.kind] {
			continue
		}
		seen[entry.kind] = true
		result = append(result, entry.kind)
	}
	return result
}
