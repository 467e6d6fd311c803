package spendlimit

import "github.com/shopspring/decimal"

// =============================================================================
// TRANSACTION AGGREGATOR - Signed total over a window
// =============================================================================

// Aggregate computes the signed monetary total of transactions whose
// timestamp falls in [window.Start, window.End): purchases add, refunds
// subtract. The result is rounded to 2 decimal places, half-up, once at
// the end so per-transaction rounding error never cascades.
//
// An empty list or empty window yields zero, not an error. Order of the
// input list never changes the result.
func Aggregate(transactions []Transaction, window Window) decimal.Decimal {
	total := decimal.Zero
	for _, tx := range transactions {
		if !window.Contains(tx.At) {
			continue
		}
		total = total.Add(tx.Signed())
	}
	return round2(total)
}

// round2 applies the engine's single rounding policy: 2 decimal places,
// half rounded up.
func round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}
