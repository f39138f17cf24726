/*
savings.go - Savings aggregate and allocation rules

PURPOSE:
  Total savings is a derived value: Σ deposits − Σ withdrawals over the
  owner's surviving savings allocations. It is never materialized on the
  account. A deposit debits the source account (money leaves the spendable
  pool) and a withdrawal credits it back, so every allocation is at once a
  ledger entry against an account and a contributor to the aggregate.

VALIDATION:
  - Deposit requires account.balance >= amount
  - Withdrawal requires TotalSavings(owner) >= amount
  Both checks run inside the same storage transaction as the mutation, so
  a concurrent write cannot race past the check.
*/
package ledger

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SavingsService allocates money between accounts and the virtual
// savings pool.
type SavingsService struct {
	store   Store
	mutator *Mutator
	clock   Clock
}

func NewSavingsService(store Store, clock Clock) *SavingsService {
	return &SavingsService{store: store, mutator: NewMutator(store), clock: clock}
}

// Total returns the owner's aggregate savings.
func (sv *SavingsService) Total(ctx context.Context, userID UserID) (decimal.Decimal, error) {
	return sv.store.SumSavings(ctx, userID)
}

// History returns the owner's savings allocations, newest filters applied
// by the store.
func (sv *SavingsService) History(ctx context.Context, userID UserID) ([]Entry, error) {
	return sv.store.ListEntries(ctx, EntryFilter{UserID: userID, Kind: KindSavings})
}

// Deposit moves amount from the account into savings. Rejected before any
// mutation if the account balance cannot cover it.
func (sv *SavingsService) Deposit(ctx context.Context, userID UserID, accountID AccountID, amount decimal.Decimal, occurredAt time.Time, description string) (*Entry, error) {
	e := sv.newEntry(userID, accountID, DirectionDeposit, amount, occurredAt, description)
	if err := ValidateEntry(e); err != nil {
		return nil, err
	}

	err := sv.store.WithTx(ctx, func(s Store) error {
		acct, err := s.GetAccount(ctx, accountID)
		if err != nil {
			return err
		}
		if acct == nil {
			return ErrAccountNotFound
		}
		if !acct.Active {
			return ErrAccountInactive
		}
		if acct.Balance.LessThan(amount) {
			return &InsufficientBalanceError{
				AccountID: accountID,
				Available: acct.Balance,
				Requested: amount,
			}
		}
		return sv.mutator.createIn(ctx, s, e)
	})
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// Withdraw moves amount from savings back into the account. Rejected
// before any mutation if the aggregate savings cannot cover it.
func (sv *SavingsService) Withdraw(ctx context.Context, userID UserID, accountID AccountID, amount decimal.Decimal, occurredAt time.Time, description string) (*Entry, error) {
	e := sv.newEntry(userID, accountID, DirectionWithdrawal, amount, occurredAt, description)
	if err := ValidateEntry(e); err != nil {
		return nil, err
	}

	err := sv.store.WithTx(ctx, func(s Store) error {
		total, err := s.SumSavings(ctx, userID)
		if err != nil {
			return err
		}
		if total.LessThan(amount) {
			return &InsufficientSavingsError{
				UserID:    userID,
				Available: total,
				Requested: amount,
			}
		}
		return sv.mutator.createIn(ctx, s, e)
	})
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// Delete reverses both sides of an allocation: the account delta is
// un-applied and the aggregate converges naturally since it sums over
// surviving entries.
func (sv *SavingsService) Delete(ctx context.Context, id EntryID) error {
	e, err := sv.store.GetEntry(ctx, id)
	if err != nil {
		return err
	}
	if e == nil || e.Kind != KindSavings {
		return ErrEntryNotFound
	}
	return sv.mutator.ApplyDelete(ctx, *e)
}

func (sv *SavingsService) newEntry(userID UserID, accountID AccountID, d Direction, amount decimal.Decimal, occurredAt time.Time, description string) Entry {
	now := sv.clock.Now()
	if occurredAt.IsZero() {
		occurredAt = now
	}
	return Entry{
		ID:          EntryID(uuid.NewString()),
		UserID:      userID,
		AccountID:   accountID,
		Kind:        KindSavings,
		Direction:   d,
		Amount:      amount,
		OccurredAt:  occurredAt,
		Description: description,
		Status:      StatusCompleted,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}
