/*
errors.go - Error types for the evaluation engine

PURPOSE:
  The engine raises no errors of its own beyond window computation; a
  missing limit is "unconstrained", never a failure. Upstream data errors
  propagate unwrapped since the engine has no recovery strategy for them.

ERROR CATEGORIES:
  1. Configuration errors - invalid billing cycle day (upstream defect)
  2. Contract errors - invalid multiplier or category

USAGE:
  if errors.Is(err, spendlimit.ErrInvalidBillingCycleDay) {
      // map to a client-visible configuration error
  }
*/
package spendlimit

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrInvalidBillingCycleDay is returned when a calendar-aligned window
	// is requested with a billing cycle day outside 1..31. Not retried: a
	// configuration defect upstream.
	ErrInvalidBillingCycleDay = errors.New("invalid billing cycle day")

	// ErrInvalidMultiplier is returned when a window is requested with a
	// multiplier below 1 or an unknown category.
	ErrInvalidMultiplier = errors.New("invalid window multiplier")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// InvalidBillingCycleDayError reports the offending day value.
type InvalidBillingCycleDayError struct {
	Day int
}

func (e *InvalidBillingCycleDayError) Error() string {
	return fmt.Sprintf("billing cycle day %d outside valid range 1..31", e.Day)
}

func (e *InvalidBillingCycleDayError) Unwrap() error {
	return ErrInvalidBillingCycleDay
}

// InvalidMultiplierError reports a window request the calculator cannot
// satisfy.
type InvalidMultiplierError struct {
	Category   LimitCategory
	Multiplier int
}

func (e *InvalidMultiplierError) Error() string {
	return fmt.Sprintf("cannot compute %s window with multiplier %d", e.Category, e.Multiplier)
}

func (e *InvalidMultiplierError) Unwrap() error {
	return ErrInvalidMultiplier
}

// IsConfigurationError reports whether the error stems from upstream
// account configuration rather than the payment itself.
func IsConfigurationError(err error) bool {
	return errors.Is(err, ErrInvalidBillingCycleDay)
}
