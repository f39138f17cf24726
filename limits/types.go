/*
Package limits provides the spending-limit tracking engine.

PURPOSE:
  Tracks, per user and per period type (daily/weekly/monthly), a rolling
  spending ceiling. Each limit carries a materialized current_spending
  total and a last_reset marking the start of the active window. Windows
  are reset lazily on access, never by a background timer, and the total
  is always recomputed from the underlying transactions rather than
  incremented, so edits and deletes of historical transactions can never
  make the counter drift.

COMPONENTS:
  - window.go:   Window expiry/reset rules and window-start anchoring
  - service.go:  Lazy resets and full recomputation from the ledger
  - evaluate.go: Pure exceeded/warning/percentage/remaining derivation

SEE ALSO:
  - ledger package: The transaction source of truth limits derive from
*/
package limits

import (
	"errors"
	"time"

	"github.com/prannsss/budgee/ledger"
	"github.com/shopspring/decimal"
)

// Type is the limit period type.
type Type string

const (
	Daily   Type = "daily"
	Weekly  Type = "weekly"
	Monthly Type = "monthly"
)

// Types lists every period type in evaluation order.
func Types() []Type { return []Type{Daily, Weekly, Monthly} }

// ErrInvalidType is returned for an unknown period type.
var ErrInvalidType = errors.New("invalid limit type")

// ParseType validates a caller-supplied period type.
func ParseType(s string) (Type, error) {
	switch Type(s) {
	case Daily, Weekly, Monthly:
		return Type(s), nil
	}
	return "", ErrInvalidType
}

// ErrNegativeAmount is returned when setting a ceiling below zero.
var ErrNegativeAmount = errors.New("limit amount must not be negative")

// Limit is a per-user, per-type spending ceiling. Amount zero means
// disabled. CurrentSpending must equal the sum of completed expense
// transactions inside the active window; it is recomputed on access, not
// trusted incrementally. At most one Limit exists per (user, type).
type Limit struct {
	UserID          ledger.UserID
	Type            Type
	Amount          decimal.Decimal
	CurrentSpending decimal.Decimal
	LastReset       time.Time
	UpdatedAt       time.Time
}

// Enabled reports whether the ceiling is active.
func (l Limit) Enabled() bool { return l.Amount.IsPositive() }
