package spendlimit

import "time"

// =============================================================================
// WINDOW - Half-open time range a category's transactions must fall in
// =============================================================================

// Window is the half-open interval [Start, End). End is always the
// evaluation instant, so the proposed payment itself never double-counts
// against history.
type Window struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether t falls within [Start, End).
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && t.Before(w.End)
}

// =============================================================================
// WINDOW CALCULATOR
// =============================================================================

// ComputeWindow returns the window transactions must fall within to count
// toward a (category, multiplier) limit, evaluated at "now".
//
// Day and week categories use pure rolling windows: [now - n units, now).
// Month and year categories anchor to the account's billing cycle day:
// the current cycle starts at midnight of the most recent date whose
// day-of-month equals billingCycleDay (clamped in shorter months), and
// multiplier > 1 walks back additional whole cycles. A year is treated as
// twelve billing cycles.
//
// Deterministic given "now"; no I/O.
func ComputeWindow(category LimitCategory, multiplier int, billingCycleDay int, now time.Time) (Window, error) {
	if multiplier < 1 {
		return Window{}, &InvalidMultiplierError{Category: category, Multiplier: multiplier}
	}

	switch category {
	case CategoryAccountDay:
		return Window{Start: now.AddDate(0, 0, -multiplier), End: now}, nil

	case CategoryAccountWeek:
		return Window{Start: now.AddDate(0, 0, -7*multiplier), End: now}, nil

	case CategoryAccountMonth:
		return cycleWindow(multiplier, billingCycleDay, now)

	case CategoryAccountYear:
		return cycleWindow(12*multiplier, billingCycleDay, now)

	default:
		return Window{}, &InvalidMultiplierError{Category: category, Multiplier: multiplier}
	}
}

// cycleWindow computes a calendar-aligned window spanning the given number
// of billing cycles, ending at now.
func cycleWindow(cycles int, billingCycleDay int, now time.Time) (Window, error) {
	if billingCycleDay < 1 || billingCycleDay > 31 {
		return Window{}, &InvalidBillingCycleDayError{Day: billingCycleDay}
	}

	start := currentCycleStart(billingCycleDay, now)
	for i := 1; i < cycles; i++ {
		start = previousCycleStart(billingCycleDay, start)
	}
	return Window{Start: start, End: now}, nil
}

// currentCycleStart returns midnight of the most recent date whose
// day-of-month equals billingCycleDay, at or before now. The day is
// clamped in months too short to contain it (cycle day 31 in February
// anchors to the last day of February).
func currentCycleStart(billingCycleDay int, now time.Time) time.Time {
	candidate := clampedDate(now.Year(), now.Month(), billingCycleDay, now.Location())
	if candidate.After(now) {
		prev := now.AddDate(0, 0, -now.Day()) // last day of previous month
		candidate = clampedDate(prev.Year(), prev.Month(), billingCycleDay, now.Location())
	}
	return candidate
}

// previousCycleStart returns the cycle start immediately before the given
// cycle start.
func previousCycleStart(billingCycleDay int, cycleStart time.Time) time.Time {
	prev := cycleStart.AddDate(0, 0, -cycleStart.Day())
	return clampedDate(prev.Year(), prev.Month(), billingCycleDay, cycleStart.Location())
}

// clampedDate builds midnight of year/month/day, clamping day to the
// month's length. Avoids time.Date's overflow normalization (Feb 31 must
// become Feb 28, not Mar 3).
func clampedDate(year int, month time.Month, day int, loc *time.Location) time.Time {
	last := time.Date(year, month+1, 1, 0, 0, 0, 0, loc).AddDate(0, 0, -1).Day()
	if day > last {
		day = last
	}
	return time.Date(year, month, day, 0, 0, 0, 0, loc)
}
