package limits

import (
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// WINDOW MANAGER - Lazy reset of the active spending period
// =============================================================================
//
// A limit's window state is a pure function of (last_reset, now), checked
// at every entry point that reads or writes current_spending. There is no
// scheduler: arbitrarily long silence causes no drift because the first
// access after expiry resets the window before anything reads it.

const (
	dailyPeriod  = 24 * time.Hour
	weeklyPeriod = 7 * 24 * time.Hour
)

// Expired reports whether the window that started at lastReset has ended
// by now. Daily and weekly windows expire after a fixed duration; monthly
// windows expire when a calendar month boundary has been crossed.
func Expired(t Type, lastReset, now time.Time) bool {
	switch t {
	case Daily:
		return now.Sub(lastReset) >= dailyPeriod
	case Weekly:
		return now.Sub(lastReset) >= weeklyPeriod
	case Monthly:
		return now.Month() != lastReset.Month() || now.Year() != lastReset.Year()
	}
	return false
}

// WindowStart returns the lower bound of the active window [start, now].
// Monthly windows are always anchored to the first of the current
// calendar month, so a limit created or reset mid-month still counts the
// whole month's spending.
func WindowStart(t Type, lastReset, now time.Time) time.Time {
	if t == Monthly {
		return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	}
	return lastReset
}

// CheckAndReset advances the limit to a fresh window when the current one
// has elapsed. Idempotent: resetting an already-fresh window is a no-op,
// so racing callers converge on the same state. Returns true when a reset
// happened.
func CheckAndReset(l *Limit, now time.Time) bool {
	if !Expired(l.Type, l.LastReset, now) {
		return false
	}
	l.LastReset = now
	l.CurrentSpending = decimal.Zero
	l.UpdatedAt = now
	return true
}
