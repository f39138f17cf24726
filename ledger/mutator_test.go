package ledger_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prannsss/budgee/ledger"
	"github.com/prannsss/budgee/store/memory"
)

// =============================================================================
// TEST SETUP
// =============================================================================

var testTime = time.Date(2025, time.March, 15, 12, 0, 0, 0, time.UTC)

func newTestStore(t *testing.T) *memory.Store {
	t.Helper()
	return memory.New()
}

func seedAccount(t *testing.T, store ledger.Store, id string, balance string) ledger.Account {
	t.Helper()
	acct := ledger.Account{
		ID:        ledger.AccountID(id),
		UserID:    "u-1",
		Name:      id,
		Kind:      ledger.KindCash,
		Balance:   decimal.RequireFromString(balance),
		Active:    true,
		CreatedAt: testTime,
		UpdatedAt: testTime,
	}
	require.NoError(t, store.SaveAccount(context.Background(), acct))
	return acct
}

func txEntry(accountID string, direction ledger.Direction, amount string) ledger.Entry {
	return ledger.Entry{
		ID:         ledger.EntryID(uuid.NewString()),
		UserID:     "u-1",
		AccountID:  ledger.AccountID(accountID),
		Kind:       ledger.KindTransaction,
		Direction:  direction,
		Amount:     decimal.RequireFromString(amount),
		OccurredAt: testTime,
		Status:     ledger.StatusCompleted,
		CreatedAt:  testTime,
		UpdatedAt:  testTime,
	}
}

func accountBalance(t *testing.T, store ledger.Store, id string) decimal.Decimal {
	t.Helper()
	acct, err := store.GetAccount(context.Background(), ledger.AccountID(id))
	require.NoError(t, err)
	require.NotNil(t, acct)
	return acct.Balance
}

// =============================================================================
// CREATE TESTS
// =============================================================================

func TestMutator_CreateExpense_DebitsAccount(t *testing.T) {
	// GIVEN: An account with 1000
	// WHEN: Recording a 300 expense
	// THEN: Balance is 700 and the entry exists

	store := newTestStore(t)
	m := ledger.NewMutator(store)
	seedAccount(t, store, "a-1", "1000")
	ctx := context.Background()

	e := txEntry("a-1", ledger.DirectionExpense, "300")
	require.NoError(t, m.ApplyCreate(ctx, e))

	assert.Equal(t, "700", accountBalance(t, store, "a-1").String())

	got, err := store.GetEntry(ctx, e.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
}

func TestMutator_CreateIncome_CreditsAccount(t *testing.T) {
	store := newTestStore(t)
	m := ledger.NewMutator(store)
	seedAccount(t, store, "a-1", "1000")

	require.NoError(t, m.ApplyCreate(context.Background(), txEntry("a-1", ledger.DirectionIncome, "250.50")))

	assert.Equal(t, "1250.5", accountBalance(t, store, "a-1").String())
}

func TestMutator_Create_InactiveAccount_RejectedWithNoEffect(t *testing.T) {
	// GIVEN: A deactivated account
	// WHEN: Recording an entry against it
	// THEN: The operation fails and nothing was written

	store := newTestStore(t)
	m := ledger.NewMutator(store)
	seedAccount(t, store, "a-1", "1000")
	ctx := context.Background()
	require.NoError(t, store.DeactivateAccount(ctx, "a-1"))

	e := txEntry("a-1", ledger.DirectionExpense, "300")
	err := m.ApplyCreate(ctx, e)

	assert.ErrorIs(t, err, ledger.ErrAccountInactive)
	got, err := store.GetEntry(ctx, e.ID)
	require.NoError(t, err)
	assert.Nil(t, got, "entry must not survive a failed create")
}

func TestMutator_Create_MissingAccount_Rejected(t *testing.T) {
	store := newTestStore(t)
	m := ledger.NewMutator(store)

	err := m.ApplyCreate(context.Background(), txEntry("ghost", ledger.DirectionExpense, "10"))

	assert.ErrorIs(t, err, ledger.ErrAccountNotFound)
}

func TestMutator_Create_InvalidInput_Rejected(t *testing.T) {
	store := newTestStore(t)
	m := ledger.NewMutator(store)
	seedAccount(t, store, "a-1", "100")
	ctx := context.Background()

	zero := txEntry("a-1", ledger.DirectionExpense, "10")
	zero.Amount = decimal.Zero
	assert.ErrorIs(t, m.ApplyCreate(ctx, zero), ledger.ErrInvalidAmount)

	wrongDir := txEntry("a-1", ledger.DirectionDeposit, "10")
	assert.ErrorIs(t, m.ApplyCreate(ctx, wrongDir), ledger.ErrInvalidDirection)
}

// =============================================================================
// UPDATE TESTS (single net adjustment)
// =============================================================================

func TestMutator_UpdateAmount_AppliesNetDifference(t *testing.T) {
	// GIVEN: A 300 expense against a 1000 account (balance 700)
	// WHEN: The expense is edited to 500
	// THEN: Balance lands at 500 - one net -200 adjustment

	store := newTestStore(t)
	m := ledger.NewMutator(store)
	seedAccount(t, store, "a-1", "1000")
	ctx := context.Background()

	old := txEntry("a-1", ledger.DirectionExpense, "300")
	require.NoError(t, m.ApplyCreate(ctx, old))

	updated := old
	updated.Amount = decimal.RequireFromString("500")
	require.NoError(t, m.ApplyUpdate(ctx, old, updated))

	assert.Equal(t, "500", accountBalance(t, store, "a-1").String())
}

func TestMutator_UpdateDirection_FlipsSign(t *testing.T) {
	store := newTestStore(t)
	m := ledger.NewMutator(store)
	seedAccount(t, store, "a-1", "1000")
	ctx := context.Background()

	old := txEntry("a-1", ledger.DirectionExpense, "100")
	require.NoError(t, m.ApplyCreate(ctx, old)) // 900

	updated := old
	updated.Direction = ledger.DirectionIncome
	require.NoError(t, m.ApplyUpdate(ctx, old, updated)) // +200 net

	assert.Equal(t, "1100", accountBalance(t, store, "a-1").String())
}

func TestMutator_UpdateDescriptionOnly_BalanceUntouched(t *testing.T) {
	store := newTestStore(t)
	m := ledger.NewMutator(store)
	seedAccount(t, store, "a-1", "1000")
	ctx := context.Background()

	old := txEntry("a-1", ledger.DirectionExpense, "300")
	require.NoError(t, m.ApplyCreate(ctx, old))

	updated := old
	updated.Description = "groceries"
	require.NoError(t, m.ApplyUpdate(ctx, old, updated))

	assert.Equal(t, "700", accountBalance(t, store, "a-1").String())
}

func TestMutator_UpdateAccountMove_ReversesOldAppliesNew(t *testing.T) {
	// GIVEN: A 300 expense on account A (A=700, B=500)
	// WHEN: The entry is moved to account B
	// THEN: A is restored to 1000 and B drops to 200

	store := newTestStore(t)
	m := ledger.NewMutator(store)
	seedAccount(t, store, "a-1", "1000")
	seedAccount(t, store, "b-1", "500")
	ctx := context.Background()

	old := txEntry("a-1", ledger.DirectionExpense, "300")
	require.NoError(t, m.ApplyCreate(ctx, old))

	updated := old
	updated.AccountID = "b-1"
	require.NoError(t, m.ApplyUpdate(ctx, old, updated))

	assert.Equal(t, "1000", accountBalance(t, store, "a-1").String())
	assert.Equal(t, "200", accountBalance(t, store, "b-1").String())
}

func TestMutator_Update_IdentityChange_Rejected(t *testing.T) {
	store := newTestStore(t)
	m := ledger.NewMutator(store)
	seedAccount(t, store, "a-1", "1000")
	ctx := context.Background()

	old := txEntry("a-1", ledger.DirectionExpense, "300")
	require.NoError(t, m.ApplyCreate(ctx, old))

	updated := old
	updated.ID = ledger.EntryID(uuid.NewString())
	assert.Error(t, m.ApplyUpdate(ctx, old, updated))
}

// =============================================================================
// DELETE TESTS
// =============================================================================

func TestMutator_Delete_ReversesDelta(t *testing.T) {
	store := newTestStore(t)
	m := ledger.NewMutator(store)
	seedAccount(t, store, "a-1", "1000")
	ctx := context.Background()

	e := txEntry("a-1", ledger.DirectionExpense, "300")
	require.NoError(t, m.ApplyCreate(ctx, e))
	require.NoError(t, m.ApplyDelete(ctx, e))

	assert.Equal(t, "1000", accountBalance(t, store, "a-1").String())

	got, err := store.GetEntry(ctx, e.ID)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestMutator_CreateEditDelete_NetsToZero(t *testing.T) {
	// GIVEN: An account at 1000
	// WHEN: Creating a 300 expense, editing it to 500, then deleting it
	// THEN: The balance is exactly 1000 again

	store := newTestStore(t)
	m := ledger.NewMutator(store)
	seedAccount(t, store, "a-1", "1000")
	ctx := context.Background()

	e := txEntry("a-1", ledger.DirectionExpense, "300")
	require.NoError(t, m.ApplyCreate(ctx, e))

	updated := e
	updated.Amount = decimal.RequireFromString("500")
	require.NoError(t, m.ApplyUpdate(ctx, e, updated))
	require.NoError(t, m.ApplyDelete(ctx, updated))

	assert.Equal(t, "1000", accountBalance(t, store, "a-1").String())
}
