package ledger

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// =============================================================================
// TRANSACTION SERVICE - User-facing transaction CRUD over the Mutator
// =============================================================================

// TransactionService creates, edits and removes income/expense
// transactions. Every write flows through the Mutator so the account
// balance and the entry record always move together.
type TransactionService struct {
	store   Store
	mutator *Mutator
	clock   Clock
}

func NewTransactionService(store Store, clock Clock) *TransactionService {
	return &TransactionService{store: store, mutator: NewMutator(store), clock: clock}
}

// CreateInput carries the caller-supplied fields for a new transaction.
type CreateInput struct {
	UserID      UserID
	AccountID   AccountID
	Direction   Direction
	Amount      decimal.Decimal
	OccurredAt  time.Time
	Description string
	Status      EntryStatus
}

func (t *TransactionService) Create(ctx context.Context, in CreateInput) (*Entry, error) {
	now := t.clock.Now()
	if in.OccurredAt.IsZero() {
		in.OccurredAt = now
	}
	if in.Status == "" {
		in.Status = StatusCompleted
	}
	e := Entry{
		ID:          EntryID(uuid.NewString()),
		UserID:      in.UserID,
		AccountID:   in.AccountID,
		Kind:        KindTransaction,
		Direction:   in.Direction,
		Amount:      in.Amount,
		OccurredAt:  in.OccurredAt,
		Description: in.Description,
		Status:      in.Status,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := t.mutator.ApplyCreate(ctx, e); err != nil {
		return nil, err
	}
	return &e, nil
}

// UpdateInput carries the editable fields. Nil pointers leave the field
// as it was; the Mutator only adjusts the balance when the net delta
// actually changed.
type UpdateInput struct {
	AccountID   *AccountID
	Direction   *Direction
	Amount      *decimal.Decimal
	OccurredAt  *time.Time
	Description *string
	Status      *EntryStatus
}

func (t *TransactionService) Update(ctx context.Context, id EntryID, in UpdateInput) (*Entry, error) {
	old, err := t.getTransaction(ctx, id)
	if err != nil {
		return nil, err
	}

	updated := *old
	if in.AccountID != nil {
		updated.AccountID = *in.AccountID
	}
	if in.Direction != nil {
		updated.Direction = *in.Direction
	}
	if in.Amount != nil {
		updated.Amount = *in.Amount
	}
	if in.OccurredAt != nil {
		updated.OccurredAt = *in.OccurredAt
	}
	if in.Description != nil {
		updated.Description = *in.Description
	}
	if in.Status != nil {
		updated.Status = *in.Status
	}
	updated.UpdatedAt = t.clock.Now()

	if err := t.mutator.ApplyUpdate(ctx, *old, updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

func (t *TransactionService) Delete(ctx context.Context, id EntryID) error {
	e, err := t.getTransaction(ctx, id)
	if err != nil {
		return err
	}
	return t.mutator.ApplyDelete(ctx, *e)
}

func (t *TransactionService) Get(ctx context.Context, id EntryID) (*Entry, error) {
	return t.getTransaction(ctx, id)
}

func (t *TransactionService) List(ctx context.Context, f EntryFilter) ([]Entry, error) {
	f.Kind = KindTransaction
	return t.store.ListEntries(ctx, f)
}

func (t *TransactionService) getTransaction(ctx context.Context, id EntryID) (*Entry, error) {
	e, err := t.store.GetEntry(ctx, id)
	if err != nil {
		return nil, err
	}
	if e == nil || e.Kind != KindTransaction {
		return nil, ErrEntryNotFound
	}
	return e, nil
}
