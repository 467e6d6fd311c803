/*
checker.go - Single-category spend-limit check

PURPOSE:
  Orchestrates window computation, aggregation, and limit resolution for
  one category, and emits a structured verdict. This is the unit the
  approval composer runs once per category.

ALGORITHM (CheckDurationLimit):
  1. window  = ComputeWindow(category, multiplier, cycle day, now)
  2. history = Aggregate(transactions, window)
  3. total   = round2(history + proposed amount)
  4. limit   = Resolve(explicit, defaults, category, multiplier)
  5. no limit           -> success, applied limit 0 (unconstrained)
  6. total <= limit     -> success (boundary equality is a pass)
  7. otherwise          -> breach, with cause, reason, total, limit

  The computed total is reported regardless of outcome, so callers always
  see the evidence behind the verdict.
*/
package spendlimit

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Checker evaluates one spend-limit category at a time. Stateless and
// safe for concurrent use.
type Checker struct{}

// CheckDurationLimit evaluates the account's history plus the proposed
// payment against the (category, multiplier) cap.
//
// The only error it returns is a window-computation failure (invalid
// billing cycle day on a calendar-aligned category); everything else,
// including the absence of any limit, is expressed in the result.
func (c Checker) CheckDurationLimit(pc PaymentContext, explicit []SpendLimit, transactions []Transaction, category LimitCategory, multiplier int, now time.Time) (SpendLimitResult, error) {
	window, err := ComputeWindow(category, multiplier, pc.BillingCycleDay, now)
	if err != nil {
		return SpendLimitResult{}, err
	}

	history := Aggregate(transactions, window)
	total := round2(history.Add(pc.TransactionAmount))

	limit, source := Resolve(explicit, pc.DefaultLimits, category, multiplier)
	return verdict(category, total, limit, source), nil
}

// CheckTransactionLimit evaluates the proposed payment alone against the
// per-transaction cap. No history, no window, so it cannot fail.
func (c Checker) CheckTransactionLimit(pc PaymentContext, explicit []SpendLimit) SpendLimitResult {
	total := round2(pc.TransactionAmount)
	limit, source := Resolve(explicit, pc.DefaultLimits, CategoryTransaction, 1)
	return verdict(CategoryTransaction, total, limit, source)
}

// verdict compares total against the resolved limit and builds the result.
// Comparison is inclusive: a total exactly equal to the limit passes.
func verdict(category LimitCategory, total, limit decimal.Decimal, source LimitSource) SpendLimitResult {
	if source == SourceNone {
		return SpendLimitResult{Success: true, Total: total, AppliedLimit: limit}
	}
	if total.LessThanOrEqual(limit) {
		return SpendLimitResult{Success: true, Total: total, AppliedLimit: limit}
	}
	return SpendLimitResult{
		Success:       false,
		FailureCause:  category,
		FailureReason: failureReason(category, source),
		Total:         total,
		AppliedLimit:  limit,
	}
}

// failureReason starts with the category name. The "default spend limit"
// substring distinguishes operator-default breaches for callers that key
// off the reason text.
func failureReason(category LimitCategory, source LimitSource) string {
	if source == SourceDefault {
		return fmt.Sprintf("%s default spend limit exceeded", category)
	}
	return fmt.Sprintf("%s limit exceeded", category)
}
