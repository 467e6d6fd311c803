package spendlimit

import "github.com/shopspring/decimal"

// =============================================================================
// LIMIT RESOLVER - Explicit vs default precedence
// =============================================================================

// Resolve selects the applicable limit for a (category, multiplier) pair.
// Explicit account limits win over operator defaults; when neither list
// holds an exact match the category is unconstrained: value zero with
// SourceNone, which the checker treats as automatic success.
//
// Matching is exact on the pair. A day limit with multiplier 1 never
// satisfies a request for multiplier 7.
func Resolve(explicit, defaults []SpendLimit, category LimitCategory, multiplier int) (decimal.Decimal, LimitSource) {
	if limit, ok := findLimit(explicit, category, multiplier); ok {
		return limit, SourceExplicit
	}
	if limit, ok := findLimit(defaults, category, multiplier); ok {
		return limit, SourceDefault
	}
	return decimal.Zero, SourceNone
}

func findLimit(limits []SpendLimit, category LimitCategory, multiplier int) (decimal.Decimal, bool) {
	for _, l := range limits {
		if l.Category == category && l.Multiplier == multiplier {
			return l.Limit, true
		}
	}
	return decimal.Zero, false
}
