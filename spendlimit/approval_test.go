package spendlimit_test

import (
	"testing"
	"time"

	"github.com/meridian/charging-engine/spendlimit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func limitFor(category spendlimit.LimitCategory, limit float64) spendlimit.SpendLimit {
	return spendlimit.SpendLimit{Category: category, Multiplier: 1, Limit: dec(limit)}
}

func TestApprovePayment_AllCategoriesPass(t *testing.T) {
	// GIVEN: Generous limits across every category
	// WHEN: Proposing a small payment
	// THEN: Approved with a confirmatory description

	explicit := []spendlimit.SpendLimit{
		limitFor(spendlimit.CategoryTransaction, 100),
		limitFor(spendlimit.CategoryAccountDay, 100),
		limitFor(spendlimit.CategoryAccountWeek, 500),
		limitFor(spendlimit.CategoryAccountMonth, 1000),
		limitFor(spendlimit.CategoryAccountYear, 5000),
	}

	approval, err := spendlimit.Approver{}.ApprovePayment(contextWith(1.0), explicit, currentDayTransactions(), now)
	require.NoError(t, err)

	assert.True(t, approval.Success)
	assert.NotEmpty(t, approval.Description)
}

func TestApprovePayment_NoLimitsConfigured_Approved(t *testing.T) {
	approval, err := spendlimit.Approver{}.ApprovePayment(contextWith(9999.0), nil, currentDayTransactions(), now)
	require.NoError(t, err)
	assert.True(t, approval.Success)
}

func TestApprovePayment_FirstBreachWins_DayBeforeWeek(t *testing.T) {
	// GIVEN: Both day and week limits that the payment breaches
	// WHEN: Approving
	// THEN: The day breach is reported - narrowest window first

	explicit := []spendlimit.SpendLimit{
		limitFor(spendlimit.CategoryAccountDay, 5),
		limitFor(spendlimit.CategoryAccountWeek, 5),
	}

	approval, err := spendlimit.Approver{}.ApprovePayment(contextWith(1.0), explicit, currentDayTransactions(), now)
	require.NoError(t, err)

	assert.False(t, approval.Success)
	assert.Contains(t, approval.Description, string(spendlimit.CategoryAccountDay))
	assert.NotContains(t, approval.Description, string(spendlimit.CategoryAccountWeek))
}

func TestApprovePayment_TransactionCapCheckedFirst(t *testing.T) {
	// GIVEN: A per-transaction cap of 2.0 and a day limit of 5.0, both
	//        breached by a 3.0 payment on 9.7 of history
	// THEN: The transaction cap is the reported cause

	explicit := []spendlimit.SpendLimit{
		limitFor(spendlimit.CategoryTransaction, 2),
		limitFor(spendlimit.CategoryAccountDay, 5),
	}

	approval, err := spendlimit.Approver{}.ApprovePayment(contextWith(3.0), explicit, currentDayTransactions(), now)
	require.NoError(t, err)

	assert.False(t, approval.Success)
	assert.Contains(t, approval.Description, string(spendlimit.CategoryTransaction))
}

func TestApprovePayment_WeekBreachWhenDayPasses(t *testing.T) {
	// GIVEN: Spend spread across the week so the day total is small but
	//        the week total breaches
	// THEN: The week category is reported

	txs := []spendlimit.Transaction{
		purchase(1.0, now.Add(-2*time.Hour)),
		purchase(30.0, now.AddDate(0, 0, -3)),
	}
	explicit := []spendlimit.SpendLimit{
		limitFor(spendlimit.CategoryAccountDay, 10),
		limitFor(spendlimit.CategoryAccountWeek, 25),
	}

	approval, err := spendlimit.Approver{}.ApprovePayment(contextWith(1.0), explicit, txs, now)
	require.NoError(t, err)

	assert.False(t, approval.Success)
	assert.Contains(t, approval.Description, string(spendlimit.CategoryAccountWeek))
}

func TestApprovePayment_DefaultBreachDescriptionCarriesSource(t *testing.T) {
	pc := contextWith(6.0, dayLimit(15.0))

	approval, err := spendlimit.Approver{}.ApprovePayment(pc, nil, currentDayTransactions(), now)
	require.NoError(t, err)

	assert.False(t, approval.Success)
	assert.Contains(t, approval.Description, "default spend limit")
}

func TestApprovePayment_InvalidCycleDaySurfacesWhenMonthLimitReached(t *testing.T) {
	// GIVEN: A month limit forcing a calendar-aligned window and a broken
	//        cycle day
	// THEN: The configuration error propagates instead of a verdict

	pc := contextWith(1.0)
	pc.BillingCycleDay = 42
	explicit := []spendlimit.SpendLimit{limitFor(spendlimit.CategoryAccountMonth, 100)}

	_, err := spendlimit.Approver{}.ApprovePayment(pc, explicit, nil, now)
	assert.ErrorIs(t, err, spendlimit.ErrInvalidBillingCycleDay)
}
