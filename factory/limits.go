/*
Package factory provides JSON to Go spend-limit configuration conversion.

PURPOSE:
  Operators configure default spend limits per country. The factory turns
  that JSON into spendlimit.SpendLimit lists and serves them by locale,
  so limit configuration changes without code changes.

JSON SCHEMA:
  {
    "defaults": [
      {
        "country": "GB",
        "limits": [
          {"category": "ACCOUNT_DAY", "multiplier": 1, "limit": 15.0},
          {"category": "ACCOUNT_MONTH", "multiplier": 1, "limit": 200.0}
        ]
      },
      {"country": "*", "limits": [...]}
    ]
  }

KEY FEATURES:
  - Validates categories and multipliers
  - Rejects duplicate (category, multiplier) pairs within a country
  - "*" acts as the fallback country when a locale has no entry

USAGE:
  provider, err := factory.ParseDefaultLimits(jsonBytes)
  limits := provider.DefaultLimits("en-GB")

SEE ALSO:
  - spendlimit/resolve.go: How defaults are consulted during evaluation
  - account/types.go: DefaultLimitProvider interface
*/
package factory

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/meridian/charging-engine/spendlimit"
	"github.com/shopspring/decimal"
)

// =============================================================================
// JSON SCHEMA TYPES
// =============================================================================

type DefaultLimitsJSON struct {
	Defaults []CountryLimitsJSON `json:"defaults"`
}

type CountryLimitsJSON struct {
	Country string      `json:"country"`
	Limits  []LimitJSON `json:"limits"`
}

type LimitJSON struct {
	Category   string  `json:"category"`
	Multiplier int     `json:"multiplier,omitempty"` // default 1
	Limit      float64 `json:"limit"`
}

// =============================================================================
// PROVIDER
// =============================================================================

// DefaultLimits serves per-country operator limits. Implements
// account.DefaultLimitProvider. Immutable after parsing, safe for
// concurrent reads.
type DefaultLimits struct {
	byCountry map[string][]spendlimit.SpendLimit
}

// ParseDefaultLimits validates and converts the JSON configuration.
func ParseDefaultLimits(data []byte) (*DefaultLimits, error) {
	var cfg DefaultLimitsJSON
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse default limits: %w", err)
	}

	byCountry := make(map[string][]spendlimit.SpendLimit, len(cfg.Defaults))
	for _, entry := range cfg.Defaults {
		country := strings.ToUpper(strings.TrimSpace(entry.Country))
		if country == "" {
			return nil, fmt.Errorf("default limits entry with empty country")
		}
		if _, dup := byCountry[country]; dup {
			return nil, fmt.Errorf("duplicate country %q in default limits", country)
		}

		limits, err := convertLimits(country, entry.Limits)
		if err != nil {
			return nil, err
		}
		byCountry[country] = limits
	}

	return &DefaultLimits{byCountry: byCountry}, nil
}

func convertLimits(country string, entries []LimitJSON) ([]spendlimit.SpendLimit, error) {
	seen := make(map[string]bool, len(entries))
	limits := make([]spendlimit.SpendLimit, 0, len(entries))

	for _, e := range entries {
		category, err := parseCategory(e.Category)
		if err != nil {
			return nil, fmt.Errorf("country %s: %w", country, err)
		}

		multiplier := e.Multiplier
		if multiplier == 0 {
			multiplier = 1
		}
		if multiplier < 1 {
			return nil, fmt.Errorf("country %s: multiplier %d below 1 for %s", country, e.Multiplier, e.Category)
		}
		if e.Limit < 0 {
			return nil, fmt.Errorf("country %s: negative limit for %s", country, e.Category)
		}

		key := fmt.Sprintf("%s/%d", category, multiplier)
		if seen[key] {
			return nil, fmt.Errorf("country %s: duplicate limit for %s multiplier %d", country, category, multiplier)
		}
		seen[key] = true

		limits = append(limits, spendlimit.SpendLimit{
			Category:   category,
			Multiplier: multiplier,
			Limit:      decimal.NewFromFloat(e.Limit),
		})
	}
	return limits, nil
}

func parseCategory(s string) (spendlimit.LimitCategory, error) {
	switch c := spendlimit.LimitCategory(strings.ToUpper(strings.TrimSpace(s))); c {
	case spendlimit.CategoryTransaction,
		spendlimit.CategoryAccountDay,
		spendlimit.CategoryAccountWeek,
		spendlimit.CategoryAccountMonth,
		spendlimit.CategoryAccountYear:
		return c, nil
	default:
		return "", fmt.Errorf("unknown limit category %q", s)
	}
}

// DefaultLimits returns the limits for the locale's country, falling back
// to the "*" entry, then to none. Locale is a BCP 47-ish tag; only the
// region part matters ("en-GB" -> "GB").
func (d *DefaultLimits) DefaultLimits(locale string) []spendlimit.SpendLimit {
	if limits, ok := d.byCountry[countryOf(locale)]; ok {
		return limits
	}
	if limits, ok := d.byCountry["*"]; ok {
		return limits
	}
	return nil
}

func countryOf(locale string) string {
	parts := strings.FieldsFunc(locale, func(r rune) bool { return r == '-' || r == '_' })
	if len(parts) == 0 {
		return ""
	}
	return strings.ToUpper(parts[len(parts)-1])
}
