// Package account implements the account domain around the spend-limit
// engine: the charging account model, the collaborator interfaces that
// supply transaction history and limit configuration, and the approval
// service that assembles a closed snapshot and invokes the engine.
package account

import (
	"context"
	"errors"
	"time"

	"github.com/meridian/charging-engine/spendlimit"
)

// =============================================================================
// ACCOUNT MODEL
// =============================================================================

// Account is the persisted charging account record, enriched from the
// external registry by the validation layer.
type Account struct {
	ID              string
	ChargingID      spendlimit.ChargingID
	CustomerType    string // "PRE" or "POST"
	BillingCycleDay int
	LastValidated   time.Time
	Profiles        []Profile
}

// Profile carries the registry enrichment attached to an account.
type Profile struct {
	UserGroups []string
}

// UserGroups returns the first profile's groups, or nil when the account
// has no profile yet.
func (a *Account) UserGroups() []string {
	if len(a.Profiles) == 0 {
		return nil
	}
	return a.Profiles[0].UserGroups
}

// =============================================================================
// COLLABORATOR INTERFACES - pure data lookups, no engine-side caching
// =============================================================================

var ErrAccountNotFound = errors.New("account not found")

// AccountStore looks up account records by charging identity.
type AccountStore interface {
	GetAccount(ctx context.Context, id spendlimit.ChargingID) (*Account, error)
	SaveAccount(ctx context.Context, a Account) error
}

// TransactionStore supplies the fully-materialized transaction snapshot
// the engine evaluates.
type TransactionStore interface {
	ListTransactions(ctx context.Context, id spendlimit.ChargingID) ([]spendlimit.Transaction, error)
	SaveTransaction(ctx context.Context, id spendlimit.ChargingID, tx spendlimit.Transaction) error
}

// LimitStore supplies the account's explicit spend limits.
type LimitStore interface {
	ListSpendLimits(ctx context.Context, id spendlimit.ChargingID) ([]spendlimit.SpendLimit, error)
	SaveSpendLimit(ctx context.Context, id spendlimit.ChargingID, limit spendlimit.SpendLimit) error
}

// DefaultLimitProvider resolves the operator fallback limits for a locale
// (per-country configuration, see the factory package).
type DefaultLimitProvider interface {
	DefaultLimits(locale string) []spendlimit.SpendLimit
}
