/*
Package ledger provides the balance-consistency engine.

PURPOSE:
  This package contains the core types and rules for keeping account
  balances synchronized with the money-moving events that reference them.
  Transactions and savings allocations are both ledger entries: each one
  contributes exactly one signed delta to its account's balance, applied
  when the entry is created and reversed when it is deleted.

KEY CONCEPTS IN THIS FILE (types.go):
  - Account: A named money container with a materialized balance
  - Entry: A money-moving record (transaction or savings allocation)
  - Direction: Which way the money flows (income/expense, deposit/withdrawal)
  - User/Account/Entry IDs: Type-safe identifiers

DESIGN PRINCIPLES:
  1. Precision: Uses decimal.Decimal to avoid floating-point errors
  2. Materialization: Account.Balance is maintained incrementally, never
     derived lazily; only the Mutator writes it
  3. Type Safety: Strong typing for IDs prevents mixing user/account IDs

SEE ALSO:
  - mutator.go: Applies and reverses entry deltas
  - savings.go: Savings aggregate derived from entries
  - errors.go: Error taxonomy shared by the engine
*/
package ledger

import (
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// IDENTIFIERS
// =============================================================================

type UserID string
type AccountID string
type EntryID string

// =============================================================================
// ACCOUNT - A money container owned by exactly one user
// =============================================================================

type AccountKind string

const (
	KindCash    AccountKind = "cash"
	KindBank    AccountKind = "bank"
	KindEWallet AccountKind = "e-wallet"
)

// ValidKind reports whether k is a known account kind.
func ValidKind(k AccountKind) bool {
	switch k {
	case KindCash, KindBank, KindEWallet:
		return true
	}
	return false
}

// Account is a named money container. Balance is a materialized value:
// it always equals the opening value plus the sum of every currently
// applied entry delta. Accounts are soft-deactivated, never hard-deleted.
type Account struct {
	ID        AccountID
	UserID    UserID
	Name      string
	Kind      AccountKind
	Balance   decimal.Decimal
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// =============================================================================
// ENTRY - A money-moving record against an account
// =============================================================================

// EntryKind distinguishes ordinary transactions from savings allocations.
// Both mutate the account balance through the same Mutator; savings
// entries additionally feed the derived savings aggregate.
type EntryKind string

const (
	KindTransaction EntryKind = "transaction"
	KindSavings     EntryKind = "savings"
)

// Direction is which way the money flows relative to the account.
// Income and withdrawal credit the account; expense and deposit debit it
// (a deposit moves money out of the spendable account into savings).
type Direction string

const (
	DirectionIncome     Direction = "income"
	DirectionExpense    Direction = "expense"
	DirectionDeposit    Direction = "deposit"
	DirectionWithdrawal Direction = "withdrawal"
)

// Credit reports whether the direction adds to the account balance.
func (d Direction) Credit() bool {
	return d == DirectionIncome || d == DirectionWithdrawal
}

// ValidTransactionDirection reports whether d is usable on a transaction.
func ValidTransactionDirection(d Direction) bool {
	return d == DirectionIncome || d == DirectionExpense
}

// ValidSavingsDirection reports whether d is usable on a savings allocation.
func ValidSavingsDirection(d Direction) bool {
	return d == DirectionDeposit || d == DirectionWithdrawal
}

type EntryStatus string

const (
	StatusCompleted EntryStatus = "completed"
	StatusPending   EntryStatus = "pending"
)

// Entry records a single money movement. Amount is a positive magnitude;
// the signed delta against the account comes from Direction.
type Entry struct {
	ID          EntryID
	UserID      UserID
	AccountID   AccountID
	Kind        EntryKind
	Direction   Direction
	Amount      decimal.Decimal
	OccurredAt  time.Time
	Description string
	Status      EntryStatus
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Delta returns the signed effect of the entry on its account's balance.
func (e Entry) Delta() decimal.Decimal {
	if e.Direction.Credit() {
		return e.Amount
	}
	return e.Amount.Neg()
}

// SavingsDelta returns the signed effect of the entry on the owner's
// savings aggregate (the opposite side of the account delta). Zero for
// non-savings entries.
func (e Entry) SavingsDelta() decimal.Decimal {
	if e.Kind != KindSavings {
		return decimal.Zero
	}
	if e.Direction == DirectionDeposit {
		return e.Amount
	}
	return e.Amount.Neg()
}

// MustParseDecimal parses s, returning zero on malformed input.
func MustParseDecimal(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// =============================================================================
// ENTRY FILTER - Query shape for listing entries
// =============================================================================

// EntryFilter narrows entry listings. Zero-valued fields are ignored.
type EntryFilter struct {
	UserID    UserID
	AccountID AccountID
	Kind      EntryKind
	Direction Direction
	Status    EntryStatus
	From      time.Time
	To        time.Time
}

// Matches reports whether the entry satisfies every set field.
func (f EntryFilter) Matches(e Entry) bool {
	if f.UserID != "" && e.UserID != f.UserID {
		return false
	}
	if f.AccountID != "" && e.AccountID != f.AccountID {
		return false
	}
	if f.Kind != "" && e.Kind != f.Kind {
		return false
	}
	if f.Direction != "" && e.Direction != f.Direction {
		return false
	}
	if f.Status != "" && e.Status != f.Status {
		return false
	}
	if !f.From.IsZero() && e.OccurredAt.Before(f.From) {
		return false
	}
	if !f.To.IsZero() && e.OccurredAt.After(f.To) {
		return false
	}
	return true
}
