/*
Package spendlimit implements the spend-limit evaluation engine.

PURPOSE:
  This package decides, for a single proposed payment, whether the account's
  historical transaction activity plus the new transaction would breach a
  configured or default spending cap over a rolling/calendar time window
  (day, week, month, year). It produces a structured approve/deny verdict
  with the evidence: computed total, applied limit, and failure cause.

KEY CONCEPTS IN THIS FILE (types.go):
  - LimitCategory: The window kind a cap applies to (per-tx, day, week, ...)
  - Transaction: A historical monetary movement (purchase or refund)
  - SpendLimit: A configured cap for a (category, multiplier) pair
  - PaymentContext: The proposed transaction plus account/locale data
  - SpendLimitResult / PaymentApproval: Per-category and aggregate verdicts

DESIGN PRINCIPLES:
  1. Purity: Every operation is a plain function of its arguments. The
     engine performs no I/O, holds no state, and never mutates its inputs,
     so identical inputs always yield identical verdicts (payment retries
     must not diverge).
  2. Precision: Uses decimal.Decimal for all money to avoid floating-point
     drift across the boundary comparisons.
  3. Type Safety: Category and multiplier travel together; limit lookup is
     an exact match on the pair, never on the category alone.

USAGE:
  approver := spendlimit.Approver{}
  approval, err := approver.ApprovePayment(ctx, limits, transactions, time.Now())

SEE ALSO:
  - window.go: Time-window computation per category
  - aggregate.go: Signed transaction aggregation
  - resolve.go: Explicit vs default limit resolution
  - checker.go: Single-category check
  - approval.go: Multi-category approval composition
*/
package spendlimit

import (
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// LIMIT CATEGORY - The window kind a cap applies to
// =============================================================================

type LimitCategory string

const (
	// CategoryTransaction caps a single payment, no history involved.
	CategoryTransaction LimitCategory = "TRANSACTION"

	CategoryAccountDay   LimitCategory = "ACCOUNT_DAY"
	CategoryAccountWeek  LimitCategory = "ACCOUNT_WEEK"
	CategoryAccountMonth LimitCategory = "ACCOUNT_MONTH"
	CategoryAccountYear  LimitCategory = "ACCOUNT_YEAR"
)

// CalendarAligned reports whether the category's window anchors to the
// account's billing cycle day rather than rolling back from "now".
func (c LimitCategory) CalendarAligned() bool {
	return c == CategoryAccountMonth || c == CategoryAccountYear
}

// DurationCategories lists the history-based categories in evaluation
// order, narrowest window first. The per-transaction cap is checked
// separately since it involves no history.
func DurationCategories() []LimitCategory {
	return []LimitCategory{
		CategoryAccountDay,
		CategoryAccountWeek,
		CategoryAccountMonth,
		CategoryAccountYear,
	}
}

// =============================================================================
// TRANSACTION - Historical monetary movement on the account
// =============================================================================

type TransactionKind string

const (
	KindPurchase TransactionKind = "purchase"
	KindRefund   TransactionKind = "refund"
)

// Transaction records one movement. Amount is always non-negative; the
// sign applied during aggregation is derived from Kind.
type Transaction struct {
	Amount decimal.Decimal
	At     time.Time
	Kind   TransactionKind
}

// Signed returns the amount with the aggregation sign applied.
func (t Transaction) Signed() decimal.Decimal {
	if t.Kind == KindRefund {
		return t.Amount.Neg()
	}
	return t.Amount
}

// =============================================================================
// SPEND LIMIT - A configured cap for a (category, multiplier) pair
// =============================================================================

// SpendLimit caps aggregated spend over Multiplier units of Category.
// A list holds at most one entry per (category, multiplier) pair.
type SpendLimit struct {
	Category   LimitCategory
	Multiplier int
	Limit      decimal.Decimal
}

// LimitSource records where a resolved limit came from.
type LimitSource string

const (
	SourceExplicit LimitSource = "explicit"
	SourceDefault  LimitSource = "default"

	// SourceNone means no cap applies: the checker treats the category as
	// unconstrained and always succeeds.
	SourceNone LimitSource = "none"
)

// =============================================================================
// CHARGING IDENTITY
// =============================================================================

type ChargingIDType string

const (
	ChargingMSISDN     ChargingIDType = "msisdn"
	ChargingVodafoneID ChargingIDType = "vodafoneid"
	ChargingPSTN       ChargingIDType = "pstn"
	ChargingSTB        ChargingIDType = "stb"
)

// ChargingID identifies the account being charged.
type ChargingID struct {
	Type  ChargingIDType
	Value string
}

func (id ChargingID) String() string {
	return string(id.Type) + ": " + id.Value
}

// =============================================================================
// PAYMENT CONTEXT - The proposed transaction plus account data
// =============================================================================

// PaymentContext carries everything the engine needs about the proposed
// payment. DefaultLimits are the operator fallback caps consulted when no
// explicit limit matches. BillingCycleDay anchors calendar-aligned windows
// and is supplied by the excluded account layer.
type PaymentContext struct {
	Locale            string
	ChargingID        ChargingID
	TransactionAmount decimal.Decimal
	DefaultLimits     []SpendLimit
	BillingCycleDay   int
}

// =============================================================================
// RESULTS
// =============================================================================

// SpendLimitResult is the outcome of checking one category.
// When Success is true, FailureCause and FailureReason are empty.
// Total and AppliedLimit are reported regardless of outcome; AppliedLimit
// is zero when no limit matched (unconstrained).
type SpendLimitResult struct {
	Success       bool
	FailureCause  LimitCategory
	FailureReason string
	Total         decimal.Decimal
	AppliedLimit  decimal.Decimal
}

// PaymentApproval is the final decision for the whole payment. Description
// carries the first breach's reason when denied, or a confirmation when
// approved.
type PaymentApproval struct {
	Success     bool
	Description string
}
