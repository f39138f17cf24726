package ledger_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prannsss/budgee/ledger"
)

func newAccountService(t *testing.T) (*ledger.AccountService, ledger.Store) {
	t.Helper()
	store := newTestStore(t)
	return ledger.NewAccountService(store, ledger.FixedClock{At: testTime}), store
}

func TestAccounts_ConnectWithOpeningBalance(t *testing.T) {
	svc, _ := newAccountService(t)

	acct, err := svc.Connect(context.Background(), "u-1", "BPI Checking", ledger.KindBank, decimal.RequireFromString("2500"))
	require.NoError(t, err)

	assert.NotEmpty(t, acct.ID)
	assert.True(t, acct.Active)
	assert.Equal(t, "2500", acct.Balance.String())
	assert.Equal(t, ledger.KindBank, acct.Kind)
}

func TestAccounts_ConnectUnknownKind_Rejected(t *testing.T) {
	svc, _ := newAccountService(t)

	_, err := svc.Connect(context.Background(), "u-1", "Stocks", "brokerage", decimal.Zero)

	assert.ErrorIs(t, err, ledger.ErrInvalidKind)
}

func TestAccounts_ProvisionDefaultCash_Idempotent(t *testing.T) {
	// GIVEN: A user with no accounts
	// WHEN: Provisioning the default cash account twice
	// THEN: Both calls return the same account

	svc, _ := newAccountService(t)
	ctx := context.Background()

	first, err := svc.ProvisionDefaultCash(ctx, "u-1")
	require.NoError(t, err)
	second, err := svc.ProvisionDefaultCash(ctx, "u-1")
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, ledger.KindCash, first.Kind)
}

func TestAccounts_DisconnectKeepsHistoryVisible(t *testing.T) {
	// GIVEN: An account with a recorded transaction
	// WHEN: The account is disconnected
	// THEN: It is inactive but still readable, and new entries are rejected

	svc, store := newAccountService(t)
	ctx := context.Background()

	acct, err := svc.Connect(ctx, "u-1", "Wallet", ledger.KindEWallet, decimal.RequireFromString("100"))
	require.NoError(t, err)

	m := ledger.NewMutator(store)
	e := txEntry(string(acct.ID), ledger.DirectionExpense, "20")
	require.NoError(t, m.ApplyCreate(ctx, e))

	require.NoError(t, svc.Disconnect(ctx, acct.ID))

	got, err := svc.Get(ctx, acct.ID)
	require.NoError(t, err)
	assert.False(t, got.Active)
	assert.Equal(t, "80", got.Balance.String())

	err = m.ApplyCreate(ctx, txEntry(string(acct.ID), ledger.DirectionExpense, "5"))
	assert.ErrorIs(t, err, ledger.ErrAccountInactive)
}

func TestAccounts_GetMissing_NotFound(t *testing.T) {
	svc, _ := newAccountService(t)

	_, err := svc.Get(context.Background(), "ghost")
	assert.ErrorIs(t, err, ledger.ErrAccountNotFound)
}
