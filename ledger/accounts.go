package ledger

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// =============================================================================
// ACCOUNT SERVICE - Provisioning and lifecycle
// =============================================================================

// AccountService owns account lifecycle: connection, default-cash
// provisioning, and soft deactivation. It never touches balances beyond
// the opening value; that is the Mutator's job.
type AccountService struct {
	store Store
	clock Clock
}

func NewAccountService(store Store, clock Clock) *AccountService {
	return &AccountService{store: store, clock: clock}
}

// Connect creates an account with an opening balance.
func (a *AccountService) Connect(ctx context.Context, userID UserID, name string, kind AccountKind, opening decimal.Decimal) (*Account, error) {
	if !ValidKind(kind) {
		return nil, ErrInvalidKind
	}
	now := a.clock.Now()
	acct := Account{
		ID:        AccountID(uuid.NewString()),
		UserID:    userID,
		Name:      name,
		Kind:      kind,
		Balance:   opening,
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := a.store.SaveAccount(ctx, acct); err != nil {
		return nil, err
	}
	return &acct, nil
}

// ProvisionDefaultCash ensures the user has an active cash account,
// creating a zero-balance one when none exists.
func (a *AccountService) ProvisionDefaultCash(ctx context.Context, userID UserID) (*Account, error) {
	accounts, err := a.store.ListAccounts(ctx, userID)
	if err != nil {
		return nil, err
	}
	for i := range accounts {
		if accounts[i].Kind == KindCash && accounts[i].Active {
			return &accounts[i], nil
		}
	}
	return a.Connect(ctx, userID, "Cash", KindCash, decimal.Zero)
}

// Disconnect soft-deactivates the account. Records are never hard-deleted
// so the entry history behind the balance stays explainable.
func (a *AccountService) Disconnect(ctx context.Context, id AccountID) error {
	acct, err := a.store.GetAccount(ctx, id)
	if err != nil {
		return err
	}
	if acct == nil {
		return ErrAccountNotFound
	}
	return a.store.DeactivateAccount(ctx, id)
}

func (a *AccountService) Get(ctx context.Context, id AccountID) (*Account, error) {
	acct, err := a.store.GetAccount(ctx, id)
	if err != nil {
		return nil, err
	}
	if acct == nil {
		return nil, ErrAccountNotFound
	}
	return acct, nil
}

func (a *AccountService) List(ctx context.Context, userID UserID) ([]Account, error) {
	return a.store.ListAccounts(ctx, userID)
}
