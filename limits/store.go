package limits

import (
	"context"
	"time"

	"github.com/prannsss/budgee/ledger"
	"github.com/shopspring/decimal"
)

// Store persists spending limits. Limits are only ever written by the
// window reset and the recomputation; no other component touches
// current_spending.
type Store interface {
	// GetLimit returns the user's limit for the type, or nil when none
	// has been created yet.
	GetLimit(ctx context.Context, userID ledger.UserID, t Type) (*Limit, error)

	// UpsertLimit writes the limit keyed by (user, type).
	UpsertLimit(ctx context.Context, l Limit) error

	// ListLimits returns every limit the user has.
	ListLimits(ctx context.Context, userID ledger.UserID) ([]Limit, error)
}

// EntryReader is the narrow view of the transaction history the
// recomputation needs: the sum of completed expense transactions in a
// window. Keeping this separate from ledger.Store keeps the two engines
// decoupled: the Balance Mutator knows nothing about limits, and limits
// never write ledger state.
type EntryReader interface {
	SumCompletedExpenses(ctx context.Context, userID ledger.UserID, from, to time.Time) (decimal.Decimal, error)
}
