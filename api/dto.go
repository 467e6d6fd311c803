/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the engine's domain model from the external API contract.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

AMOUNTS:
  Amounts cross the wire as JSON numbers and are converted to exact
  decimals at the boundary; the engine never computes on floats.
*/
package api

import (
	"fmt"
	"time"

	"github.com/meridian/charging-engine/account"
	"github.com/meridian/charging-engine/spendlimit"
	"github.com/shopspring/decimal"
)

// =============================================================================
// REQUEST/RESPONSE TYPES
// =============================================================================

// ApprovePaymentRequest proposes a payment for approval.
type ApprovePaymentRequest struct {
	ChargingType  string  `json:"charging_type"`
	ChargingValue string  `json:"charging_value"`
	Locale        string  `json:"locale"`
	Amount        float64 `json:"amount"`
}

// CheckLimitRequest asks for a single-category evaluation.
type CheckLimitRequest struct {
	ApprovePaymentRequest
	Category   string `json:"category"`
	Multiplier int    `json:"multiplier,omitempty"` // default 1
}

// ApprovalDTO is the aggregate verdict.
type ApprovalDTO struct {
	Success     bool   `json:"success"`
	Description string `json:"description"`
}

// CheckResultDTO is the per-category verdict with its evidence.
type CheckResultDTO struct {
	Success       bool    `json:"success"`
	FailureCause  string  `json:"failure_cause,omitempty"`
	FailureReason string  `json:"failure_reason,omitempty"`
	Total         float64 `json:"total"`
	AppliedLimit  float64 `json:"applied_limit"`
}

// AccountDTO represents an account in API responses.
type AccountDTO struct {
	ID              string   `json:"id"`
	ChargingType    string   `json:"charging_type"`
	ChargingValue   string   `json:"charging_value"`
	CustomerType    string   `json:"customer_type,omitempty"`
	BillingCycleDay int      `json:"billing_cycle_day"`
	LastValidated   string   `json:"last_validated,omitempty"`
	UserGroups      []string `json:"user_groups,omitempty"`
}

// SaveAccountRequest creates or updates an account record.
type SaveAccountRequest struct {
	ID              string   `json:"id"`
	ChargingType    string   `json:"charging_type"`
	ChargingValue   string   `json:"charging_value"`
	CustomerType    string   `json:"customer_type,omitempty"`
	BillingCycleDay int      `json:"billing_cycle_day"`
	UserGroups      []string `json:"user_groups,omitempty"`
}

// TransactionDTO represents one historical movement.
type TransactionDTO struct {
	Amount     float64 `json:"amount"`
	Kind       string  `json:"kind"`
	OccurredAt string  `json:"occurred_at"`
}

// RecordTransactionRequest appends a movement to the history.
type RecordTransactionRequest struct {
	Amount     float64 `json:"amount"`
	Kind       string  `json:"kind"`
	OccurredAt string  `json:"occurred_at"` // RFC 3339
}

// SpendLimitDTO represents one configured cap.
type SpendLimitDTO struct {
	Category   string  `json:"category"`
	Multiplier int     `json:"multiplier"`
	Limit      float64 `json:"limit"`
}

// ErrorResponse is the standard error response.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// =============================================================================
// CONVERSION HELPERS
// =============================================================================

func parseChargingID(chargingType, value string) (spendlimit.ChargingID, error) {
	switch t := spendlimit.ChargingIDType(chargingType); t {
	case spendlimit.ChargingMSISDN, spendlimit.ChargingVodafoneID,
		spendlimit.ChargingPSTN, spendlimit.ChargingSTB:
		if value == "" {
			return spendlimit.ChargingID{}, fmt.Errorf("charging_value is required")
		}
		return spendlimit.ChargingID{Type: t, Value: value}, nil
	default:
		return spendlimit.ChargingID{}, fmt.Errorf("unknown charging_type %q", chargingType)
	}
}

func toAccountDTO(a *account.Account) AccountDTO {
	dto := AccountDTO{
		ID:              a.ID,
		ChargingType:    string(a.ChargingID.Type),
		ChargingValue:   a.ChargingID.Value,
		CustomerType:    a.CustomerType,
		BillingCycleDay: a.BillingCycleDay,
		UserGroups:      a.UserGroups(),
	}
	if !a.LastValidated.IsZero() {
		dto.LastValidated = a.LastValidated.Format(time.RFC3339)
	}
	return dto
}

func toCheckResultDTO(r spendlimit.SpendLimitResult) CheckResultDTO {
	total, _ := r.Total.Float64()
	limit, _ := r.AppliedLimit.Float64()
	return CheckResultDTO{
		Success:       r.Success,
		FailureCause:  string(r.FailureCause),
		FailureReason: r.FailureReason,
		Total:         total,
		AppliedLimit:  limit,
	}
}

func toTransactionDTOs(txs []spendlimit.Transaction) []TransactionDTO {
	dtos := make([]TransactionDTO, len(txs))
	for i, tx := range txs {
		amount, _ := tx.Amount.Float64()
		dtos[i] = TransactionDTO{
			Amount:     amount,
			Kind:       string(tx.Kind),
			OccurredAt: tx.At.Format(time.RFC3339),
		}
	}
	return dtos
}

func toSpendLimitDTOs(limits []spendlimit.SpendLimit) []SpendLimitDTO {
	dtos := make([]SpendLimitDTO, len(limits))
	for i, l := range limits {
		limit, _ := l.Limit.Float64()
		dtos[i] = SpendLimitDTO{
			Category:   string(l.Category),
			Multiplier: l.Multiplier,
			Limit:      limit,
		}
	}
	return dtos
}

func amountFromFloat(f float64) decimal.Decimal {
	return decimal.NewFromFloat(f)
}
