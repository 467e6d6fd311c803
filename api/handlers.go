/*
handlers.go - HTTP API handlers for the charging engine

PURPOSE:
  Exposes the spend-limit engine via REST API. Handles HTTP
  request/response, JSON serialization, and delegates to the approval
  service.

ENDPOINTS:
  Payments:
    POST /api/payments/approve          Full multi-category approval
    POST /api/payments/check            Single-category check

  Accounts:
    PUT  /api/accounts                  Create/update account
    GET  /api/accounts/{type}/{value}   Get account
    GET  /api/accounts/{type}/{value}/transactions
    POST /api/accounts/{type}/{value}/transactions
    GET  /api/accounts/{type}/{value}/limits
    PUT  /api/accounts/{type}/{value}/limits

ERROR HANDLING:
  - 400: Validation errors, invalid input, billing-cycle configuration
         defects
  - 404: Account not found
  - 500: Internal errors
  A DENIED payment is not an error: it is a 200 response carrying
  success=false and the breach reason.
*/
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/meridian/charging-engine/account"
	"github.com/meridian/charging-engine/metrics"
	"github.com/meridian/charging-engine/spendlimit"
)

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Service  *account.ApprovalService
	Accounts account.AccountStore
	Txs      account.TransactionStore
	Limits   account.LimitStore
	Metrics  *metrics.Collector
}

// NewHandler wires the handler around an approval service whose stores
// are also served directly for account management.
func NewHandler(svc *account.ApprovalService, collector *metrics.Collector) *Handler {
	return &Handler{
		Service:  svc,
		Accounts: svc.Accounts,
		Txs:      svc.Transactions,
		Limits:   svc.Limits,
		Metrics:  collector,
	}
}

// =============================================================================
// PAYMENT HANDLERS
// =============================================================================

// ApprovePayment runs the full multi-category evaluation.
func (h *Handler) ApprovePayment(w http.ResponseWriter, r *http.Request) {
	var req ApprovePaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	paymentReq, ok := h.paymentRequest(w, req)
	if !ok {
		return
	}

	started := time.Now()
	approval, err := h.Service.ApprovePayment(r.Context(), paymentReq)
	if err != nil {
		h.writeEvaluationError(w, err)
		return
	}
	if h.Metrics != nil {
		h.Metrics.RecordApproval(time.Since(started), approval.Success)
	}

	writeJSON(w, http.StatusOK, ApprovalDTO{
		Success:     approval.Success,
		Description: approval.Description,
	})
}

// CheckLimit runs a single-category evaluation.
func (h *Handler) CheckLimit(w http.ResponseWriter, r *http.Request) {
	var req CheckLimitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	paymentReq, ok := h.paymentRequest(w, req.ApprovePaymentRequest)
	if !ok {
		return
	}

	category := spendlimit.LimitCategory(req.Category)
	multiplier := req.Multiplier
	if multiplier == 0 {
		multiplier = 1
	}

	result, err := h.Service.CheckLimit(r.Context(), paymentReq, category, multiplier)
	if err != nil {
		h.writeEvaluationError(w, err)
		return
	}
	if h.Metrics != nil {
		h.Metrics.RecordCheck(string(category), result.Success)
	}

	writeJSON(w, http.StatusOK, toCheckResultDTO(result))
}

func (h *Handler) paymentRequest(w http.ResponseWriter, req ApprovePaymentRequest) (account.PaymentRequest, bool) {
	id, err := parseChargingID(req.ChargingType, req.ChargingValue)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid charging identity", err)
		return account.PaymentRequest{}, false
	}
	if req.Amount < 0 {
		writeError(w, http.StatusBadRequest, "Amount must be non-negative", nil)
		return account.PaymentRequest{}, false
	}

	return account.PaymentRequest{
		ChargingID: id,
		Locale:     req.Locale,
		Amount:     amountFromFloat(req.Amount),
	}, true
}

func (h *Handler) writeEvaluationError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, account.ErrAccountNotFound):
		writeError(w, http.StatusNotFound, "Account not found", err)
	case spendlimit.IsConfigurationError(err):
		writeError(w, http.StatusBadRequest, "Account billing cycle misconfigured", err)
	case errors.Is(err, spendlimit.ErrInvalidMultiplier):
		writeError(w, http.StatusBadRequest, "Invalid category or multiplier", err)
	default:
		writeError(w, http.StatusInternalServerError, "Evaluation failed", err)
	}
}

// =============================================================================
// ACCOUNT HANDLERS
// =============================================================================

// SaveAccount creates or updates an account record.
func (h *Handler) SaveAccount(w http.ResponseWriter, r *http.Request) {
	var req SaveAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	id, err := parseChargingID(req.ChargingType, req.ChargingValue)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid charging identity", err)
		return
	}
	if req.BillingCycleDay < 1 || req.BillingCycleDay > 31 {
		writeError(w, http.StatusBadRequest, "billing_cycle_day must be in 1..31", nil)
		return
	}

	a := account.Account{
		ID:              req.ID,
		ChargingID:      id,
		CustomerType:    req.CustomerType,
		BillingCycleDay: req.BillingCycleDay,
		LastValidated:   time.Now(),
	}
	if len(req.UserGroups) > 0 {
		a.Profiles = []account.Profile{{UserGroups: req.UserGroups}}
	}

	if err := h.Accounts.SaveAccount(r.Context(), a); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save account", err)
		return
	}

	writeJSON(w, http.StatusOK, toAccountDTO(&a))
}

// GetAccount returns a single account.
func (h *Handler) GetAccount(w http.ResponseWriter, r *http.Request) {
	id, ok := h.chargingIDFromURL(w, r)
	if !ok {
		return
	}

	a, err := h.Accounts.GetAccount(r.Context(), id)
	if errors.Is(err, account.ErrAccountNotFound) {
		writeError(w, http.StatusNotFound, "Account not found", err)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get account", err)
		return
	}

	writeJSON(w, http.StatusOK, toAccountDTO(a))
}

// =============================================================================
// TRANSACTION HANDLERS
// =============================================================================

// ListTransactions returns the account's transaction history.
func (h *Handler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	id, ok := h.chargingIDFromURL(w, r)
	if !ok {
		return
	}

	txs, err := h.Txs.ListTransactions(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list transactions", err)
		return
	}

	writeJSON(w, http.StatusOK, toTransactionDTOs(txs))
}

// RecordTransaction appends a purchase or refund to the history.
func (h *Handler) RecordTransaction(w http.ResponseWriter, r *http.Request) {
	id, ok := h.chargingIDFromURL(w, r)
	if !ok {
		return
	}

	var req RecordTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.Amount < 0 {
		writeError(w, http.StatusBadRequest, "Amount must be non-negative", nil)
		return
	}

	occurredAt := time.Now()
	if req.OccurredAt != "" {
		parsed, err := time.Parse(time.RFC3339, req.OccurredAt)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid occurred_at (use RFC 3339)", err)
			return
		}
		occurredAt = parsed
	}

	tx := spendlimit.Transaction{
		Amount: amountFromFloat(req.Amount),
		At:     occurredAt,
		Kind:   spendlimit.TransactionKind(req.Kind),
	}
	if err := h.Txs.SaveTransaction(r.Context(), id, tx); err != nil {
		writeError(w, http.StatusBadRequest, "Failed to record transaction", err)
		return
	}

	writeJSON(w, http.StatusCreated, TransactionDTO{
		Amount:     req.Amount,
		Kind:       req.Kind,
		OccurredAt: occurredAt.Format(time.RFC3339),
	})
}

// =============================================================================
// LIMIT HANDLERS
// =============================================================================

// ListLimits returns the account's explicit spend limits.
func (h *Handler) ListLimits(w http.ResponseWriter, r *http.Request) {
	id, ok := h.chargingIDFromURL(w, r)
	if !ok {
		return
	}

	limits, err := h.Limits.ListSpendLimits(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list limits", err)
		return
	}

	writeJSON(w, http.StatusOK, toSpendLimitDTOs(limits))
}

// SetLimit creates or replaces one (category, multiplier) cap.
func (h *Handler) SetLimit(w http.ResponseWriter, r *http.Request) {
	id, ok := h.chargingIDFromURL(w, r)
	if !ok {
		return
	}

	var req SpendLimitDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.Limit < 0 {
		writeError(w, http.StatusBadRequest, "Limit must be non-negative", nil)
		return
	}

	multiplier := req.Multiplier
	if multiplier == 0 {
		multiplier = 1
	}

	limit := spendlimit.SpendLimit{
		Category:   spendlimit.LimitCategory(req.Category),
		Multiplier: multiplier,
		Limit:      amountFromFloat(req.Limit),
	}
	if err := h.Limits.SaveSpendLimit(r.Context(), id, limit); err != nil {
		writeError(w, http.StatusBadRequest, "Failed to save limit", err)
		return
	}

	writeJSON(w, http.StatusOK, SpendLimitDTO{
		Category:   req.Category,
		Multiplier: multiplier,
		Limit:      req.Limit,
	})
}

// =============================================================================
// HELPERS
// =============================================================================

func (h *Handler) chargingIDFromURL(w http.ResponseWriter, r *http.Request) (spendlimit.ChargingID, bool) {
	id, err := parseChargingID(chi.URLParam(r, "type"), chi.URLParam(r, "value"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid charging identity", err)
		return spendlimit.ChargingID{}, false
	}
	return id, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Error = message + ": " + err.Error()
	}
	writeJSON(w, status, resp)
}
