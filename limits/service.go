/*
service.go - Spending-limit orchestration

PURPOSE:
  Funnels every read and write of a limit through the same sequence:
  lazily create the limit if the user has never had one, run the window
  reset check, then recompute current_spending from the ledger. Because
  recomputation always rebuilds the total from the source-of-truth
  transactions, it is idempotent and safe to run concurrently: repeated
  runs converge to the same value with no coordination.

WHY FULL RECOMPUTATION:
  An incremental counter would require the Balance Mutator to know about
  every active limit type and would drift on any code path that bypassed
  the hook. Resumming the window is O(transactions in window) per access,
  which is acceptable for windows of at most one month.
*/
package limits

import (
	"context"
	"time"

	"github.com/prannsss/budgee/ledger"
	"github.com/shopspring/decimal"
)

// Service is the spending-limit engine: window manager, recomputation
// and evaluation behind one accessor.
type Service struct {
	store   Store
	entries EntryReader
	clock   ledger.Clock
}

func NewService(store Store, entries EntryReader, clock ledger.Clock) *Service {
	return &Service{store: store, entries: entries, clock: clock}
}

// Limits returns the user's limits for every period type, each one
// reset-checked and recomputed first. Missing limits are lazily created
// disabled (amount 0).
func (s *Service) Limits(ctx context.Context, userID ledger.UserID) ([]Limit, error) {
	out := make([]Limit, 0, len(Types()))
	for _, t := range Types() {
		l, err := s.Refresh(ctx, userID, t)
		if err != nil {
			return nil, err
		}
		out = append(out, *l)
	}
	return out, nil
}

// Refresh brings a single limit current: ensure it exists, reset the
// window if it elapsed, recompute spending from the ledger, persist.
func (s *Service) Refresh(ctx context.Context, userID ledger.UserID, t Type) (*Limit, error) {
	l, err := s.ensure(ctx, userID, t)
	if err != nil {
		return nil, err
	}
	now := s.clock.Now()
	CheckAndReset(l, now)
	if err := s.recompute(ctx, l, now); err != nil {
		return nil, err
	}
	if err := s.store.UpsertLimit(ctx, *l); err != nil {
		return nil, err
	}
	return l, nil
}

// RefreshAll brings every limit type current. Used by the opportunistic
// background check; failures propagate to the caller, which logs and
// swallows them.
func (s *Service) RefreshAll(ctx context.Context, userID ledger.UserID) error {
	_, err := s.Limits(ctx, userID)
	return err
}

// Status returns the evaluated status of every limit type.
func (s *Service) Status(ctx context.Context, userID ledger.UserID) ([]Evaluation, error) {
	ls, err := s.Limits(ctx, userID)
	if err != nil {
		return nil, err
	}
	evs := make([]Evaluation, len(ls))
	for i, l := range ls {
		evs[i] = Evaluate(l)
	}
	return evs, nil
}

// SetAmount updates a limit's ceiling. Amount zero disables it. The
// window is refreshed first so the returned limit reflects the active
// period.
func (s *Service) SetAmount(ctx context.Context, userID ledger.UserID, t Type, amount decimal.Decimal) (*Limit, error) {
	if amount.IsNegative() {
		return nil, ErrNegativeAmount
	}
	l, err := s.Refresh(ctx, userID, t)
	if err != nil {
		return nil, err
	}
	l.Amount = amount
	l.UpdatedAt = s.clock.Now()
	if err := s.store.UpsertLimit(ctx, *l); err != nil {
		return nil, err
	}
	return l, nil
}

// Reset forcibly starts fresh windows for the given types (all types when
// none are named). Manual/admin use; lazy resets make this unnecessary in
// normal operation.
func (s *Service) Reset(ctx context.Context, userID ledger.UserID, types ...Type) error {
	if len(types) == 0 {
		types = Types()
	}
	now := s.clock.Now()
	for _, t := range types {
		l, err := s.ensure(ctx, userID, t)
		if err != nil {
			return err
		}
		l.LastReset = now
		l.CurrentSpending = decimal.Zero
		l.UpdatedAt = now
		if err := s.recompute(ctx, l, now); err != nil {
			return err
		}
		if err := s.store.UpsertLimit(ctx, *l); err != nil {
			return err
		}
	}
	return nil
}

// Precheck reports which enabled limits a proposed expense amount would
// push past their ceiling. It evaluates against a freshly reset-checked,
// recomputed view held in memory and persists nothing; the pre-check is
// advisory and must not mutate state.
func (s *Service) Precheck(ctx context.Context, userID ledger.UserID, proposed decimal.Decimal) ([]Violation, error) {
	if !proposed.IsPositive() {
		return nil, ledger.ErrInvalidAmount
	}
	now := s.clock.Now()
	fresh := make([]Limit, 0, len(Types()))
	for _, t := range Types() {
		stored, err := s.store.GetLimit(ctx, userID, t)
		if err != nil {
			return nil, err
		}
		if stored == nil {
			continue // never configured, nothing to violate
		}
		l := *stored
		CheckAndReset(&l, now)
		if err := s.recompute(ctx, &l, now); err != nil {
			return nil, err
		}
		fresh = append(fresh, l)
	}
	return CheckWouldExceed(fresh, proposed), nil
}

// ensure returns the stored limit, lazily creating a disabled one the
// first time a user's limits are touched.
func (s *Service) ensure(ctx context.Context, userID ledger.UserID, t Type) (*Limit, error) {
	l, err := s.store.GetLimit(ctx, userID, t)
	if err != nil {
		return nil, err
	}
	if l != nil {
		return l, nil
	}
	now := s.clock.Now()
	created := Limit{
		UserID:          userID,
		Type:            t,
		Amount:          decimal.Zero,
		CurrentSpending: decimal.Zero,
		LastReset:       now,
		UpdatedAt:       now,
	}
	if err := s.store.UpsertLimit(ctx, created); err != nil {
		return nil, err
	}
	return &created, nil
}

// recompute overwrites CurrentSpending with the sum of completed expense
// transactions dated within [WindowStart, now]. Always a full resum,
// never an increment, so historical edits and deletes are reflected.
func (s *Service) recompute(ctx context.Context, l *Limit, now time.Time) error {
	start := WindowStart(l.Type, l.LastReset, now)
	total, err := s.entries.SumCompletedExpenses(ctx, l.UserID, start, now)
	if err != nil {
		return err
	}
	l.CurrentSpending = total
	return nil
}
