package spendlimit

import "time"

// =============================================================================
// PAYMENT APPROVAL COMPOSER - Reduce per-category checks to one verdict
// =============================================================================

// Approver runs the checker across every category relevant to payment
// approval and reduces the results to a single verdict. Stateless and
// safe for concurrent use.
type Approver struct {
	Checker Checker
}

const approvedDescription = "payment approved within spend limits"

// ApprovePayment evaluates the per-transaction cap, then each duration
// category narrowest window first (day, week, month, year), every one
// with multiplier 1. The first breach short-circuits evaluation and its
// failure reason becomes the approval description, so the reported cause
// is always the most specific window breached.
func (a Approver) ApprovePayment(pc PaymentContext, explicit []SpendLimit, transactions []Transaction, now time.Time) (PaymentApproval, error) {
	if result := a.Checker.CheckTransactionLimit(pc, explicit); !result.Success {
		return denied(result), nil
	}

	for _, category := range DurationCategories() {
		result, err := a.Checker.CheckDurationLimit(pc, explicit, transactions, category, 1, now)
		if err != nil {
			return PaymentApproval{}, err
		}
		if !result.Success {
			return denied(result), nil
		}
	}

	return PaymentApproval{Success: true, Description: approvedDescription}, nil
}

func denied(result SpendLimitResult) PaymentApproval {
	return PaymentApproval{Success: false, Description: result.FailureReason}
}
