package factory_test

import (
	"testing"

	"github.com/meridian/charging-engine/factory"
	"github.com/meridian/charging-engine/spendlimit"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleConfig = `{
  "defaults": [
    {
      "country": "GB",
      "limits": [
        {"category": "ACCOUNT_DAY", "limit": 15.0},
        {"category": "ACCOUNT_MONTH", "multiplier": 1, "limit": 200.0}
      ]
    },
    {
      "country": "*",
      "limits": [
        {"category": "TRANSACTION", "limit": 50.0}
      ]
    }
  ]
}`

func TestParseDefaultLimits_ServesByLocaleCountry(t *testing.T) {
	provider, err := factory.ParseDefaultLimits([]byte(sampleConfig))
	require.NoError(t, err)

	limits := provider.DefaultLimits("en-GB")
	require.Len(t, limits, 2)
	assert.Equal(t, spendlimit.CategoryAccountDay, limits[0].Category)
	assert.Equal(t, 1, limits[0].Multiplier, "multiplier defaults to 1")
	assert.True(t, limits[0].Limit.Equal(decimal.NewFromFloat(15.0)))
}

func TestParseDefaultLimits_UnderscoreLocale(t *testing.T) {
	provider, err := factory.ParseDefaultLimits([]byte(sampleConfig))
	require.NoError(t, err)

	assert.Len(t, provider.DefaultLimits("en_gb"), 2)
}

func TestParseDefaultLimits_WildcardFallback(t *testing.T) {
	provider, err := factory.ParseDefaultLimits([]byte(sampleConfig))
	require.NoError(t, err)

	limits := provider.DefaultLimits("de-DE")
	require.Len(t, limits, 1)
	assert.Equal(t, spendlimit.CategoryTransaction, limits[0].Category)
}

func TestParseDefaultLimits_RejectsUnknownCategory(t *testing.T) {
	_, err := factory.ParseDefaultLimits([]byte(`{"defaults":[{"country":"GB","limits":[{"category":"ACCOUNT_DECADE","limit":1}]}]}`))
	assert.Error(t, err)
}

func TestParseDefaultLimits_RejectsDuplicatePair(t *testing.T) {
	_, err := factory.ParseDefaultLimits([]byte(`{"defaults":[{"country":"GB","limits":[
		{"category":"ACCOUNT_DAY","limit":1},
		{"category":"ACCOUNT_DAY","multiplier":1,"limit":2}]}]}`))
	assert.Error(t, err)
}

func TestParseDefaultLimits_RejectsNegativeLimit(t *testing.T) {
	_, err := factory.ParseDefaultLimits([]byte(`{"defaults":[{"country":"GB","limits":[{"category":"ACCOUNT_DAY","limit":-5}]}]}`))
	assert.Error(t, err)
}
