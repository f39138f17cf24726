/*
handlers_test.go - HTTP-level tests for the API

Tests exercise the full router with an in-memory store: accounts,
transactions, savings movements, and spending limits.
*/
package api_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prannsss/budgee/api"
	"github.com/prannsss/budgee/ledger"
	"github.com/prannsss/budgee/limits"
	"github.com/prannsss/budgee/store/memory"
)

// =============================================================================
// TEST SETUP
// =============================================================================

var testTime = time.Date(2025, time.March, 15, 12, 0, 0, 0, time.UTC)

type testEnv struct {
	router http.Handler
	store  *memory.Store
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	store := memory.New()
	clock := ledger.FixedClock{At: testTime}

	h := api.NewHandler(
		ledger.NewAccountService(store, clock),
		ledger.NewTransactionService(store, clock),
		ledger.NewSavingsService(store, clock),
		limits.NewService(store, store, clock),
		zerolog.Nop(),
	)
	return &testEnv{
		router: api.NewRouter(h, []string{"*"}),
		store:  store,
	}
}

func (e *testEnv) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func decodeJSON[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&out))
	return out
}

func (e *testEnv) seedAccount(t *testing.T, balance string) string {
	t.Helper()
	rec := e.do(t, http.MethodPost, "/api/accounts", map[string]any{
		"user_id":         "u-1",
		"name":            "Cash",
		"kind":            "cash",
		"opening_balance": balance,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decodeJSON[api.AccountDTO](t, rec).ID
}

// =============================================================================
// ACCOUNT ENDPOINT TESTS
// =============================================================================

func TestAPI_ConnectAndListAccounts(t *testing.T) {
	env := newTestEnv(t)
	env.seedAccount(t, "1000")

	rec := env.do(t, http.MethodGet, "/api/accounts?user_id=u-1", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	accounts := decodeJSON[[]api.AccountDTO](t, rec)
	require.Len(t, accounts, 1)
	assert.Equal(t, "1000.00", accounts[0].Balance)
}

func TestAPI_ConnectAccount_UnknownKind_400(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/accounts", map[string]any{
		"user_id": "u-1", "name": "Stocks", "kind": "brokerage",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAPI_GetAccount_Missing_404(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/api/accounts/ghost", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAPI_DisconnectAccount(t *testing.T) {
	env := newTestEnv(t)
	id := env.seedAccount(t, "100")

	rec := env.do(t, http.MethodDelete, "/api/accounts/"+id, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = env.do(t, http.MethodGet, "/api/accounts/"+id, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, decodeJSON[api.AccountDTO](t, rec).Active)
}

// =============================================================================
// TRANSACTION ENDPOINT TESTS
// =============================================================================

func TestAPI_CreateTransaction_MutatesBalance(t *testing.T) {
	env := newTestEnv(t)
	acctID := env.seedAccount(t, "1000")

	rec := env.do(t, http.MethodPost, "/api/transactions", map[string]any{
		"user_id":    "u-1",
		"account_id": acctID,
		"direction":  "expense",
		"amount":     "300",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = env.do(t, http.MethodGet, "/api/accounts/"+acctID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "700.00", decodeJSON[api.AccountDTO](t, rec).Balance)
}

func TestAPI_CreateTransaction_InvalidAmount_400(t *testing.T) {
	env := newTestEnv(t)
	acctID := env.seedAccount(t, "1000")

	rec := env.do(t, http.MethodPost, "/api/transactions", map[string]any{
		"user_id":    "u-1",
		"account_id": acctID,
		"direction":  "expense",
		"amount":     "not-a-number",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAPI_UpdateTransaction_NetAdjustment(t *testing.T) {
	env := newTestEnv(t)
	acctID := env.seedAccount(t, "1000")

	rec := env.do(t, http.MethodPost, "/api/transactions", map[string]any{
		"user_id": "u-1", "account_id": acctID, "direction": "expense", "amount": "300",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	txID := decodeJSON[api.EntryDTO](t, rec).ID

	rec = env.do(t, http.MethodPut, "/api/transactions/"+txID, map[string]any{"amount": "500"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = env.do(t, http.MethodGet, "/api/accounts/"+acctID, nil)
	assert.Equal(t, "500.00", decodeJSON[api.AccountDTO](t, rec).Balance)
}

func TestAPI_DeleteTransaction_RestoresBalance(t *testing.T) {
	env := newTestEnv(t)
	acctID := env.seedAccount(t, "1000")

	rec := env.do(t, http.MethodPost, "/api/transactions", map[string]any{
		"user_id": "u-1", "account_id": acctID, "direction": "expense", "amount": "300",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	txID := decodeJSON[api.EntryDTO](t, rec).ID

	rec = env.do(t, http.MethodDelete, "/api/transactions/"+txID, nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = env.do(t, http.MethodGet, "/api/accounts/"+acctID, nil)
	assert.Equal(t, "1000.00", decodeJSON[api.AccountDTO](t, rec).Balance)
}

// =============================================================================
// SAVINGS ENDPOINT TESTS
// =============================================================================

func TestAPI_SavingsDepositAndSummary(t *testing.T) {
	env := newTestEnv(t)
	acctID := env.seedAccount(t, "1000")

	rec := env.do(t, http.MethodPost, "/api/savings/deposits", map[string]any{
		"user_id": "u-1", "account_id": acctID, "amount": "400",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = env.do(t, http.MethodGet, "/api/savings?user_id=u-1", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	summary := decodeJSON[api.SavingsSummaryDTO](t, rec)
	assert.Equal(t, "400.00", summary.Total)
	assert.Len(t, summary.History, 1)
}

func TestAPI_SavingsDeposit_InsufficientBalance_422(t *testing.T) {
	env := newTestEnv(t)
	acctID := env.seedAccount(t, "100")

	rec := env.do(t, http.MethodPost, "/api/savings/deposits", map[string]any{
		"user_id": "u-1", "account_id": acctID, "amount": "500",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestAPI_SavingsWithdraw_MoreThanSaved_422(t *testing.T) {
	env := newTestEnv(t)
	acctID := env.seedAccount(t, "1000")

	rec := env.do(t, http.MethodPost, "/api/savings/withdrawals", map[string]any{
		"user_id": "u-1", "account_id": acctID, "amount": "50",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

// =============================================================================
// SPENDING LIMIT ENDPOINT TESTS
// =============================================================================

func TestAPI_SetLimitAndStatus(t *testing.T) {
	env := newTestEnv(t)
	acctID := env.seedAccount(t, "10000")

	rec := env.do(t, http.MethodPut, "/api/users/u-1/limits/monthly", map[string]any{"amount": "1000"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	// Spend 850 within the month
	rec = env.do(t, http.MethodPost, "/api/transactions", map[string]any{
		"user_id": "u-1", "account_id": acctID, "direction": "expense",
		"amount": "850", "occurred_at": testTime.Add(-time.Hour).Format(time.RFC3339),
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = env.do(t, http.MethodGet, "/api/users/u-1/limits/status", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	evals := decodeJSON[[]api.EvaluationDTO](t, rec)
	require.Len(t, evals, 3)

	var monthly *api.EvaluationDTO
	for i := range evals {
		if evals[i].Type == "monthly" {
			monthly = &evals[i]
		}
	}
	require.NotNil(t, monthly)
	assert.Equal(t, "85.00", monthly.PercentageUsed)
	assert.True(t, monthly.NearLimit)
	assert.False(t, monthly.Exceeded)
}

func TestAPI_SetLimit_InvalidType_400(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPut, "/api/users/u-1/limits/hourly", map[string]any{"amount": "10"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAPI_SetLimit_Negative_400(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPut, "/api/users/u-1/limits/daily", map[string]any{"amount": "-5"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAPI_PrecheckReportsViolation(t *testing.T) {
	env := newTestEnv(t)
	acctID := env.seedAccount(t, "10000")

	rec := env.do(t, http.MethodPut, "/api/users/u-1/limits/monthly", map[string]any{"amount": "5000"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, http.MethodPost, "/api/transactions", map[string]any{
		"user_id": "u-1", "account_id": acctID, "direction": "expense",
		"amount": "4800", "occurred_at": testTime.Add(-time.Hour).Format(time.RFC3339),
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = env.do(t, http.MethodPost, "/api/users/u-1/limits/precheck", map[string]any{"amount": "300"})
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decodeJSON[api.PrecheckResponseDTO](t, rec)
	assert.False(t, resp.Allowed)
	require.Len(t, resp.Violations, 1)
	assert.Equal(t, "100.00", resp.Violations[0].Excess)
}

func TestAPI_Precheck_Allowed(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPut, "/api/users/u-1/limits/daily", map[string]any{"amount": "100"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, http.MethodPost, "/api/users/u-1/limits/precheck", map[string]any{"amount": "50"})
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decodeJSON[api.PrecheckResponseDTO](t, rec)
	assert.True(t, resp.Allowed)
	assert.Empty(t, resp.Violations)
}

func TestAPI_ResetLimits(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPut, "/api/users/u-1/limits/daily", map[string]any{"amount": "100"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, http.MethodPost, "/api/users/u-1/limits/reset", map[string]any{"types": []string{"daily"}})
	require.Equal(t, http.StatusOK, rec.Code)

	ls := decodeJSON[[]api.LimitDTO](t, rec)
	require.Len(t, ls, 3)
	for _, l := range ls {
		assert.Equal(t, "0.00", l.CurrentSpending)
	}
}

// =============================================================================
// OPERATIONAL ENDPOINT TESTS
// =============================================================================

func TestAPI_Healthz(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAPI_Metrics(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/metrics", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}
