/*
Package sqlite provides a SQLite-backed implementation of the account
storage interfaces.

PURPOSE:
  Implements account.AccountStore, account.TransactionStore, and
  account.LimitStore using SQLite. In production the same patterns apply
  to PostgreSQL - only minor SQL dialect differences.

KEY TABLES:
  accounts:     One row per charging identity, holding the billing cycle
                day and registry enrichment
  transactions: Historical purchases and refunds per charging identity
  spend_limits: Explicit per-account caps, one row per
                (category, multiplier) pair

MONEY:
  Amounts and limits are stored as decimal strings, never floats, so the
  engine's exact-decimal arithmetic survives the round trip.

CONCURRENCY:
  Uses sync.RWMutex for thread-safety. In production with PostgreSQL,
  database-level concurrency control handles this instead.

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging) for better concurrency.

USAGE:
  store, err := sqlite.New("./data/charging.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

SEE ALSO:
  - account/types.go: Interface definitions
  - account/service.go: ApprovalService consuming these interfaces
*/
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/meridian/charging-engine/account"
	"github.com/meridian/charging-engine/spendlimit"
	"github.com/shopspring/decimal"
)

// Store implements all account storage interfaces using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// Compile-time interface checks.
var (
	_ account.AccountStore     = (*Store)(nil)
	_ account.TransactionStore = (*Store)(nil)
	_ account.LimitStore       = (*Store)(nil)
)

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	-- Accounts keyed by charging identity
	CREATE TABLE IF NOT EXISTS accounts (
		id TEXT PRIMARY KEY,
		charging_type TEXT NOT NULL,
		charging_value TEXT NOT NULL,
		customer_type TEXT,
		billing_cycle_day INTEGER NOT NULL DEFAULT 1,
		last_validated TEXT,
		user_groups_json TEXT,
		created_at TEXT NOT NULL,
		UNIQUE(charging_type, charging_value)
	);

	-- Historical purchases and refunds
	CREATE TABLE IF NOT EXISTS transactions (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		charging_type TEXT NOT NULL,
		charging_value TEXT NOT NULL,
		amount TEXT NOT NULL,
		kind TEXT NOT NULL CHECK (kind IN ('purchase', 'refund')),
		occurred_at TEXT NOT NULL
	);

	-- Hot path: snapshot assembly per charging identity, time ordered
	CREATE INDEX IF NOT EXISTS idx_transactions_charging_date
		ON transactions(charging_type, charging_value, occurred_at);

	-- Explicit per-account caps
	CREATE TABLE IF NOT EXISTS spend_limits (
		charging_type TEXT NOT NULL,
		charging_value TEXT NOT NULL,
		category TEXT NOT NULL,
		multiplier INTEGER NOT NULL DEFAULT 1,
		limit_value TEXT NOT NULL,
		created_at TEXT NOT NULL,
		UNIQUE(charging_type, charging_value, category, multiplier)
	);

	CREATE INDEX IF NOT EXISTS idx_spend_limits_charging
		ON spend_limits(charging_type, charging_value);
	`

	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// ACCOUNTS
// =============================================================================

// GetAccount looks up an account by charging identity.
func (s *Store) GetAccount(ctx context.Context, id spendlimit.ChargingID) (*account.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, `
		SELECT id, charging_type, charging_value, customer_type, billing_cycle_day, last_validated, user_groups_json
		FROM accounts WHERE charging_type = ? AND charging_value = ?`,
		string(id.Type), id.Value)

	var (
		a             account.Account
		chargingType  string
		customerType  sql.NullString
		lastValidated sql.NullString
		groupsJSON    sql.NullString
	)
	err := row.Scan(&a.ID, &chargingType, &a.ChargingID.Value, &customerType, &a.BillingCycleDay, &lastValidated, &groupsJSON)
	if err == sql.ErrNoRows {
		return nil, account.ErrAccountNotFound
	}
	if err != nil {
		return nil, err
	}

	a.ChargingID.Type = spendlimit.ChargingIDType(chargingType)
	a.CustomerType = customerType.String
	if lastValidated.Valid {
		if t, err := time.Parse(time.RFC3339Nano, lastValidated.String); err == nil {
			a.LastValidated = t
		}
	}
	if groupsJSON.Valid && groupsJSON.String != "" {
		var groups []string
		if err := json.Unmarshal([]byte(groupsJSON.String), &groups); err == nil {
			a.Profiles = []account.Profile{{UserGroups: groups}}
		}
	}
	return &a, nil
}

// SaveAccount inserts or updates the account record for its charging
// identity.
func (s *Store) SaveAccount(ctx context.Context, a account.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	groupsJSON, err := json.Marshal(a.UserGroups())
	if err != nil {
		return err
	}

	var lastValidated any
	if !a.LastValidated.IsZero() {
		lastValidated = a.LastValidated.UTC().Format(time.RFC3339Nano)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO accounts (id, charging_type, charging_value, customer_type, billing_cycle_day, last_validated, user_groups_json, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(charging_type, charging_value) DO UPDATE SET
			customer_type = excluded.customer_type,
			billing_cycle_day = excluded.billing_cycle_day,
			last_validated = excluded.last_validated,
			user_groups_json = excluded.user_groups_json`,
		a.ID, string(a.ChargingID.Type), a.ChargingID.Value, a.CustomerType,
		a.BillingCycleDay, lastValidated, string(groupsJSON),
		time.Now().UTC().Format(time.RFC3339Nano))
	return err
}

// =============================================================================
// TRANSACTIONS
// =============================================================================

// ListTransactions returns the full history for a charging identity in
// chronological order. The engine filters by window itself; the store
// just supplies the closed snapshot.
func (s *Store) ListTransactions(ctx context.Context, id spendlimit.ChargingID) ([]spendlimit.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT amount, kind, occurred_at
		FROM transactions
		WHERE charging_type = ? AND charging_value = ?
		ORDER BY occurred_at`,
		string(id.Type), id.Value)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var txs []spendlimit.Transaction
	for rows.Next() {
		var (
			amountStr  string
			kind       string
			occurredAt string
		)
		if err := rows.Scan(&amountStr, &kind, &occurredAt); err != nil {
			return nil, err
		}

		amount, err := decimal.NewFromString(amountStr)
		if err != nil {
			return nil, fmt.Errorf("corrupt amount %q: %w", amountStr, err)
		}
		at, err := time.Parse(time.RFC3339Nano, occurredAt)
		if err != nil {
			return nil, fmt.Errorf("corrupt timestamp %q: %w", occurredAt, err)
		}

		txs = append(txs, spendlimit.Transaction{
			Amount: amount,
			At:     at,
			Kind:   spendlimit.TransactionKind(kind),
		})
	}
	return txs, rows.Err()
}

// SaveTransaction appends one movement to the history.
func (s *Store) SaveTransaction(ctx context.Context, id spendlimit.ChargingID, tx spendlimit.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if tx.Amount.IsNegative() {
		return fmt.Errorf("transaction amount must be non-negative, got %s", tx.Amount)
	}
	if tx.Kind != spendlimit.KindPurchase && tx.Kind != spendlimit.KindRefund {
		return fmt.Errorf("unknown transaction kind %q", tx.Kind)
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO transactions (charging_type, charging_value, amount, kind, occurred_at)
		VALUES (?, ?, ?, ?, ?)`,
		string(id.Type), id.Value, tx.Amount.String(), string(tx.Kind),
		tx.At.UTC().Format(time.RFC3339Nano))
	return err
}

// =============================================================================
// SPEND LIMITS
// =============================================================================

// ListSpendLimits returns the explicit caps configured for a charging
// identity.
func (s *Store) ListSpendLimits(ctx context.Context, id spendlimit.ChargingID) ([]spendlimit.SpendLimit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT category, multiplier, limit_value
		FROM spend_limits
		WHERE charging_type = ? AND charging_value = ?
		ORDER BY category, multiplier`,
		string(id.Type), id.Value)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var limits []spendlimit.SpendLimit
	for rows.Next() {
		var (
			category   string
			multiplier int
			limitStr   string
		)
		if err := rows.Scan(&category, &multiplier, &limitStr); err != nil {
			return nil, err
		}

		limit, err := decimal.NewFromString(limitStr)
		if err != nil {
			return nil, fmt.Errorf("corrupt limit %q: %w", limitStr, err)
		}

		limits = append(limits, spendlimit.SpendLimit{
			Category:   spendlimit.LimitCategory(category),
			Multiplier: multiplier,
			Limit:      limit,
		})
	}
	return limits, rows.Err()
}

// SaveSpendLimit inserts or replaces the cap for the limit's
// (category, multiplier) pair.
func (s *Store) SaveSpendLimit(ctx context.Context, id spendlimit.ChargingID, limit spendlimit.SpendLimit) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if limit.Multiplier < 1 {
		return fmt.Errorf("limit multiplier must be >= 1, got %d", limit.Multiplier)
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO spend_limits (charging_type, charging_value, category, multiplier, limit_value, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(charging_type, charging_value, category, multiplier) DO UPDATE SET
			limit_value = excluded.limit_value`,
		string(id.Type), id.Value, string(limit.Category), limit.Multiplier,
		limit.Limit.String(), time.Now().UTC().Format(time.RFC3339Nano))
	return err
}
