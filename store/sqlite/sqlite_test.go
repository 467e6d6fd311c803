package sqlite_test

import (
	"context"
	"testing"
	"time"

	"github.com/meridian/charging-engine/account"
	"github.com/meridian/charging-engine/spendlimit"
	"github.com/meridian/charging-engine/store/sqlite"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *sqlite.Store {
	store, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

var msisdn = spendlimit.ChargingID{Type: spendlimit.ChargingMSISDN, Value: "447777123456"}

func TestStore_AccountRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	saved := account.Account{
		ID:              "acc-1",
		ChargingID:      msisdn,
		CustomerType:    "POST",
		BillingCycleDay: 15,
		LastValidated:   time.Date(2025, time.March, 1, 10, 0, 0, 0, time.UTC),
		Profiles:        []account.Profile{{UserGroups: []string{"gold", "roaming"}}},
	}
	require.NoError(t, store.SaveAccount(ctx, saved))

	got, err := store.GetAccount(ctx, msisdn)
	require.NoError(t, err)
	assert.Equal(t, "acc-1", got.ID)
	assert.Equal(t, msisdn, got.ChargingID)
	assert.Equal(t, "POST", got.CustomerType)
	assert.Equal(t, 15, got.BillingCycleDay)
	assert.Equal(t, []string{"gold", "roaming"}, got.UserGroups())
}

func TestStore_GetAccount_NotFound(t *testing.T) {
	store := newTestStore(t)

	_, err := store.GetAccount(context.Background(), msisdn)
	assert.ErrorIs(t, err, account.ErrAccountNotFound)
}

func TestStore_SaveAccount_UpsertsOnChargingID(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveAccount(ctx, account.Account{ID: "acc-1", ChargingID: msisdn, BillingCycleDay: 5}))
	require.NoError(t, store.SaveAccount(ctx, account.Account{ID: "acc-1", ChargingID: msisdn, BillingCycleDay: 20}))

	got, err := store.GetAccount(ctx, msisdn)
	require.NoError(t, err)
	assert.Equal(t, 20, got.BillingCycleDay)
}

func TestStore_TransactionHistory_PreservesDecimalAmounts(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	at := time.Date(2025, time.March, 10, 9, 30, 0, 0, time.UTC)

	require.NoError(t, store.SaveTransaction(ctx, msisdn, spendlimit.Transaction{
		Amount: decimal.RequireFromString("10.50"),
		At:     at,
		Kind:   spendlimit.KindPurchase,
	}))
	require.NoError(t, store.SaveTransaction(ctx, msisdn, spendlimit.Transaction{
		Amount: decimal.RequireFromString("6.30"),
		At:     at.Add(time.Hour),
		Kind:   spendlimit.KindRefund,
	}))

	txs, err := store.ListTransactions(ctx, msisdn)
	require.NoError(t, err)
	require.Len(t, txs, 2)
	assert.True(t, txs[0].Amount.Equal(decimal.RequireFromString("10.50")))
	assert.Equal(t, spendlimit.KindPurchase, txs[0].Kind)
	assert.True(t, txs[0].At.Equal(at))
	assert.Equal(t, spendlimit.KindRefund, txs[1].Kind)
}

func TestStore_SaveTransaction_RejectsNegativeAmount(t *testing.T) {
	store := newTestStore(t)

	err := store.SaveTransaction(context.Background(), msisdn, spendlimit.Transaction{
		Amount: decimal.NewFromFloat(-1.0),
		At:     time.Now(),
		Kind:   spendlimit.KindPurchase,
	})
	assert.Error(t, err)
}

func TestStore_SaveTransaction_RejectsUnknownKind(t *testing.T) {
	store := newTestStore(t)

	err := store.SaveTransaction(context.Background(), msisdn, spendlimit.Transaction{
		Amount: decimal.NewFromFloat(1.0),
		At:     time.Now(),
		Kind:   "chargeback",
	})
	assert.Error(t, err)
}

func TestStore_SpendLimits_UpsertPerCategoryPair(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	dayCap := spendlimit.SpendLimit{
		Category:   spendlimit.CategoryAccountDay,
		Multiplier: 1,
		Limit:      decimal.NewFromFloat(10.0),
	}
	require.NoError(t, store.SaveSpendLimit(ctx, msisdn, dayCap))

	// Same pair again with a new value replaces, never duplicates.
	dayCap.Limit = decimal.NewFromFloat(12.0)
	require.NoError(t, store.SaveSpendLimit(ctx, msisdn, dayCap))

	weekCap := spendlimit.SpendLimit{
		Category:   spendlimit.CategoryAccountWeek,
		Multiplier: 1,
		Limit:      decimal.NewFromFloat(50.0),
	}
	require.NoError(t, store.SaveSpendLimit(ctx, msisdn, weekCap))

	limits, err := store.ListSpendLimits(ctx, msisdn)
	require.NoError(t, err)
	require.Len(t, limits, 2)
	assert.True(t, limits[0].Limit.Equal(decimal.NewFromFloat(12.0)))
}

func TestStore_SpendLimits_RejectsBadMultiplier(t *testing.T) {
	store := newTestStore(t)

	err := store.SaveSpendLimit(context.Background(), msisdn, spendlimit.SpendLimit{
		Category:   spendlimit.CategoryAccountDay,
		Multiplier: 0,
		Limit:      decimal.NewFromFloat(10.0),
	})
	assert.Error(t, err)
}

func TestStore_BacksApprovalService(t *testing.T) {
	// GIVEN: Account, history, and limits persisted in SQLite
	// WHEN: Running the approval service against the store
	// THEN: The engine sees the snapshot and produces a verdict

	store := newTestStore(t)
	ctx := context.Background()
	asOf := time.Date(2025, time.March, 10, 12, 0, 0, 0, time.UTC)

	require.NoError(t, store.SaveAccount(ctx, account.Account{ID: "acc-1", ChargingID: msisdn, BillingCycleDay: 5}))
	require.NoError(t, store.SaveTransaction(ctx, msisdn, spendlimit.Transaction{
		Amount: decimal.NewFromFloat(9.0),
		At:     asOf.Add(-time.Hour),
		Kind:   spendlimit.KindPurchase,
	}))
	require.NoError(t, store.SaveSpendLimit(ctx, msisdn, spendlimit.SpendLimit{
		Category:   spendlimit.CategoryAccountDay,
		Multiplier: 1,
		Limit:      decimal.NewFromFloat(10.0),
	}))

	svc := &account.ApprovalService{
		Accounts:     store,
		Transactions: store,
		Limits:       store,
		Clock:        func() time.Time { return asOf },
	}

	approval, err := svc.ApprovePayment(ctx, account.PaymentRequest{
		ChargingID: msisdn,
		Locale:     "en-GB",
		Amount:     decimal.NewFromFloat(2.0),
	})
	require.NoError(t, err)
	assert.False(t, approval.Success, "9.0 history + 2.0 proposed breaches the 10.0 day cap")
}
