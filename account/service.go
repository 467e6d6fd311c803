package account

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/meridian/charging-engine/spendlimit"
	"github.com/shopspring/decimal"
)

// =============================================================================
// APPROVAL SERVICE - snapshot assembly around the pure engine
// =============================================================================

// PaymentRequest is what the transport layer hands the service: the
// charging identity, locale, and proposed amount.
type PaymentRequest struct {
	ChargingID spendlimit.ChargingID
	Locale     string
	Amount     decimal.Decimal
}

// ApprovalService fetches the account, its transaction history, and its
// limit configuration, then delegates the decision to the engine. All
// blocking happens here; the engine itself evaluates a closed snapshot.
type ApprovalService struct {
	Accounts     AccountStore
	Transactions TransactionStore
	Limits       LimitStore
	Defaults     DefaultLimitProvider
	Approver     spendlimit.Approver
	Logger       *slog.Logger

	// Clock is overridable for tests; nil means time.Now.
	Clock func() time.Time
}

func (s *ApprovalService) now() time.Time {
	if s.Clock != nil {
		return s.Clock()
	}
	return time.Now()
}

func (s *ApprovalService) logger() *slog.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return slog.Default()
}

// ApprovePayment builds the payment context for the request and runs the
// full multi-category approval.
func (s *ApprovalService) ApprovePayment(ctx context.Context, req PaymentRequest) (spendlimit.PaymentApproval, error) {
	pc, explicit, transactions, err := s.snapshot(ctx, req)
	if err != nil {
		return spendlimit.PaymentApproval{}, err
	}

	approval, err := s.Approver.ApprovePayment(pc, explicit, transactions, s.now())
	if err != nil {
		return spendlimit.PaymentApproval{}, err
	}

	s.logger().Info("payment evaluated",
		slog.String("charging_id", req.ChargingID.String()),
		slog.Bool("approved", approval.Success),
		slog.String("description", approval.Description))
	return approval, nil
}

// CheckLimit runs a single-category check, exposed for diagnostics and
// the per-category API endpoint.
func (s *ApprovalService) CheckLimit(ctx context.Context, req PaymentRequest, category spendlimit.LimitCategory, multiplier int) (spendlimit.SpendLimitResult, error) {
	pc, explicit, transactions, err := s.snapshot(ctx, req)
	if err != nil {
		return spendlimit.SpendLimitResult{}, err
	}

	if category == spendlimit.CategoryTransaction {
		return s.Approver.Checker.CheckTransactionLimit(pc, explicit), nil
	}
	return s.Approver.Checker.CheckDurationLimit(pc, explicit, transactions, category, multiplier, s.now())
}

// snapshot gathers everything the engine needs in one place so approval
// and single-category checks cannot drift apart.
func (s *ApprovalService) snapshot(ctx context.Context, req PaymentRequest) (spendlimit.PaymentContext, []spendlimit.SpendLimit, []spendlimit.Transaction, error) {
	acct, err := s.Accounts.GetAccount(ctx, req.ChargingID)
	if err != nil {
		return spendlimit.PaymentContext{}, nil, nil, fmt.Errorf("load account: %w", err)
	}

	transactions, err := s.Transactions.ListTransactions(ctx, req.ChargingID)
	if err != nil {
		return spendlimit.PaymentContext{}, nil, nil, fmt.Errorf("load transactions: %w", err)
	}

	explicit, err := s.Limits.ListSpendLimits(ctx, req.ChargingID)
	if err != nil {
		return spendlimit.PaymentContext{}, nil, nil, fmt.Errorf("load spend limits: %w", err)
	}

	var defaults []spendlimit.SpendLimit
	if s.Defaults != nil {
		defaults = s.Defaults.DefaultLimits(req.Locale)
	}

	pc := spendlimit.PaymentContext{
		Locale:            req.Locale,
		ChargingID:        req.ChargingID,
		TransactionAmount: req.Amount,
		DefaultLimits:     defaults,
		BillingCycleDay:   acct.BillingCycleDay,
	}
	return pc, explicit, transactions, nil
}
