/*
store.go - Persistence interface for accounts and entries

PURPOSE:
  Defines what the balance engine needs from storage. Implementations:
  - store/sqlite: SQLite-backed, production
  - store/memory: In-memory, tests and dev

ATOMICITY:
  WithTx is the atomicity boundary. Every balance mutation pairs an entry
  write with an AdjustBalance call inside a single WithTx scope; if either
  fails, neither takes effect. AdjustBalance itself must be a server-side
  single-statement delta (balance = balance + d), never read-then-write in
  application code, so concurrent mutations of the same account cannot
  lose updates.
*/
package ledger

import (
	"context"

	"github.com/shopspring/decimal"
)

// Store is the persistence surface for accounts and ledger entries.
type Store interface {
	// Accounts
	SaveAccount(ctx context.Context, a Account) error
	GetAccount(ctx context.Context, id AccountID) (*Account, error)
	ListAccounts(ctx context.Context, userID UserID) ([]Account, error)
	DeactivateAccount(ctx context.Context, id AccountID) error

	// AdjustBalance applies a signed delta to an active account as a single
	// server-side statement. Returns ErrAccountNotFound if no active row
	// was adjusted.
	AdjustBalance(ctx context.Context, id AccountID, delta decimal.Decimal) error

	// Entries
	InsertEntry(ctx context.Context, e Entry) error
	UpdateEntry(ctx context.Context, e Entry) error
	DeleteEntry(ctx context.Context, id EntryID) error
	GetEntry(ctx context.Context, id EntryID) (*Entry, error)
	ListEntries(ctx context.Context, f EntryFilter) ([]Entry, error)

	// SumSavings returns Σ deposits − Σ withdrawals over the user's savings
	// entries. Always derived, never materialized.
	SumSavings(ctx context.Context, userID UserID) (decimal.Decimal, error)

	// WithTx runs fn against a transactional view of the store. All writes
	// inside fn commit together or not at all. Nested calls reuse the
	// ambient transaction.
	WithTx(ctx context.Context, fn func(s Store) error) error
}
