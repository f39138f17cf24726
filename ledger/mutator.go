/*
mutator.go - The Balance Mutator

PURPOSE:
  Keeps Account.Balance synchronized with the net effect of all entries.
  This is the ONLY component that writes balances. Every operation pairs
  the entry record write with a single-statement balance delta inside one
  storage transaction, so the two can never diverge.

NET-EFFECT GUARANTEE:
  For any sequence of create/update/delete operations on the same entry,
  the net effect on the account balance equals exactly the delta implied
  by the entry's final state (or zero, if deleted), regardless of how many
  intermediate edits occurred. Updates are applied as one net adjustment
  (newDelta - oldDelta), never as a reverse-then-apply pair that could be
  observed mid-flight.

SEE ALSO:
  - store.go: AdjustBalance contract (server-side single-statement delta)
  - savings.go: Savings validation layered on top of the same primitives
*/
package ledger

import (
	"context"
	"fmt"
)

// Mutator applies and reverses entry deltas against account balances.
type Mutator struct {
	store Store
}

func NewMutator(store Store) *Mutator {
	return &Mutator{store: store}
}

// ApplyCreate records the entry and applies its delta to the referenced
// account. Fails with no effect if the account is missing or inactive.
func (m *Mutator) ApplyCreate(ctx context.Context, e Entry) error {
	if err := ValidateEntry(e); err != nil {
		return err
	}
	return m.store.WithTx(ctx, func(s Store) error {
		return m.createIn(ctx, s, e)
	})
}

// createIn runs the create inside an ambient transaction. Savings
// operations reuse it after their own validation against the same
// transactional read.
func (m *Mutator) createIn(ctx context.Context, s Store, e Entry) error {
	if err := requireActiveAccount(ctx, s, e.AccountID); err != nil {
		return err
	}
	if err := s.InsertEntry(ctx, e); err != nil {
		return fmt.Errorf("insert entry %s: %w", e.ID, err)
	}
	if err := s.AdjustBalance(ctx, e.AccountID, e.Delta()); err != nil {
		return &ConsistencyError{AccountID: e.AccountID, Delta: e.Delta(), Cause: err}
	}
	return nil
}

// ApplyUpdate rewrites the entry and adjusts the balance by the net
// difference between the old and new deltas. Date/description-only edits
// leave the balance untouched. If the account reference changed, the old
// account is reversed and the new one debited/credited instead.
func (m *Mutator) ApplyUpdate(ctx context.Context, old, updated Entry) error {
	if old.ID != updated.ID {
		return fmt.Errorf("entry identity changed: %s -> %s", old.ID, updated.ID)
	}
	if err := ValidateEntry(updated); err != nil {
		return err
	}
	return m.store.WithTx(ctx, func(s Store) error {
		if err := requireActiveAccount(ctx, s, updated.AccountID); err != nil {
			return err
		}
		if err := s.UpdateEntry(ctx, updated); err != nil {
			return fmt.Errorf("update entry %s: %w", updated.ID, err)
		}

		if old.AccountID != updated.AccountID {
			// Moving accounts: full reversal on the old one, full
			// application on the new one.
			if err := s.AdjustBalance(ctx, old.AccountID, old.Delta().Neg()); err != nil {
				return &ConsistencyError{AccountID: old.AccountID, Delta: old.Delta().Neg(), Cause: err}
			}
			if err := s.AdjustBalance(ctx, updated.AccountID, updated.Delta()); err != nil {
				return &ConsistencyError{AccountID: updated.AccountID, Delta: updated.Delta(), Cause: err}
			}
			return nil
		}

		net := updated.Delta().Sub(old.Delta())
		if net.IsZero() {
			return nil
		}
		if err := s.AdjustBalance(ctx, updated.AccountID, net); err != nil {
			return &ConsistencyError{AccountID: updated.AccountID, Delta: net, Cause: err}
		}
		return nil
	})
}

// ApplyDelete removes the entry and reverses its contributed delta.
func (m *Mutator) ApplyDelete(ctx context.Context, e Entry) error {
	return m.store.WithTx(ctx, func(s Store) error {
		return m.deleteIn(ctx, s, e)
	})
}

func (m *Mutator) deleteIn(ctx context.Context, s Store, e Entry) error {
	if err := requireActiveAccount(ctx, s, e.AccountID); err != nil {
		return err
	}
	if err := s.DeleteEntry(ctx, e.ID); err != nil {
		return fmt.Errorf("delete entry %s: %w", e.ID, err)
	}
	if err := s.AdjustBalance(ctx, e.AccountID, e.Delta().Neg()); err != nil {
		return &ConsistencyError{AccountID: e.AccountID, Delta: e.Delta().Neg(), Cause: err}
	}
	return nil
}

// ValidateEntry rejects malformed entries before any mutation.
func ValidateEntry(e Entry) error {
	if !e.Amount.IsPositive() {
		return ErrInvalidAmount
	}
	switch e.Kind {
	case KindTransaction:
		if !ValidTransactionDirection(e.Direction) {
			return ErrInvalidDirection
		}
	case KindSavings:
		if !ValidSavingsDirection(e.Direction) {
			return ErrInvalidDirection
		}
	default:
		return fmt.Errorf("unknown entry kind %q", e.Kind)
	}
	return nil
}

func requireActiveAccount(ctx context.Context, s Store, id AccountID) error {
	acct, err := s.GetAccount(ctx, id)
	if err != nil {
		return err
	}
	if acct == nil {
		return ErrAccountNotFound
	}
	if !acct.Active {
		return ErrAccountInactive
	}
	return nil
}
