/*
handlers.go - HTTP API handlers for the personal finance engine

PURPOSE:
  Exposes accounts, transactions, savings and spending limits via REST.
  Handles HTTP request/response, JSON serialization, and delegates to
  domain logic in ledger/ and limits/.

ENDPOINTS:
  Accounts:
    GET    /api/accounts?user_id=         List a user's accounts
    POST   /api/accounts                  Connect an account
    POST   /api/accounts/default          Provision the default cash account
    GET    /api/accounts/{id}             Get one account
    DELETE /api/accounts/{id}             Disconnect (soft deactivate)

  Transactions:
    GET    /api/transactions?user_id=     List transactions
    POST   /api/transactions              Create (balance mutated atomically)
    GET    /api/transactions/{id}         Get one transaction
    PUT    /api/transactions/{id}         Edit (single net balance adjustment)
    DELETE /api/transactions/{id}         Delete (balance effect reversed)

  Savings:
    GET    /api/savings?user_id=          Total + movement history
    POST   /api/savings/deposits          Deposit (debits the account)
    POST   /api/savings/withdrawals       Withdraw (credits the account back)
    DELETE /api/savings/{id}              Delete a movement

  Limits:
    GET    /api/users/{userID}/limits            Refreshed limits
    GET    /api/users/{userID}/limits/status     Evaluations (pct, near, exceeded)
    PUT    /api/users/{userID}/limits/{type}     Set a ceiling (0 disables)
    POST   /api/users/{userID}/limits/reset      Manual window reset
    POST   /api/users/{userID}/limits/precheck   Advisory would-exceed check

REQUEST FLOW:
  1. Parse HTTP request
  2. Call domain logic (services own validation)
  3. Serialize response
  4. Map domain errors to HTTP status

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Validation errors, invalid input
  - 404: Resource not found
  - 422: Insufficient balance / insufficient savings
  - 500: Internal errors

SECURITY NOTE:
  Currently NO authentication or authorization. The user_id in requests
  is trusted as-is; put this behind an authenticating proxy.

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
*/
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/prannsss/budgee/ledger"
	"github.com/prannsss/budgee/limits"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Accounts     *ledger.AccountService
	Transactions *ledger.TransactionService
	Savings      *ledger.SavingsService
	Limits       *limits.Service
	Log          zerolog.Logger
}

// NewHandler wires the domain services into an HTTP handler set.
func NewHandler(accounts *ledger.AccountService, transactions *ledger.TransactionService, savings *ledger.SavingsService, lim *limits.Service, log zerolog.Logger) *Handler {
	return &Handler{
		Accounts:     accounts,
		Transactions: transactions,
		Savings:      savings,
		Limits:       lim,
		Log:          log,
	}
}

// =============================================================================
// ACCOUNT HANDLERS
// =============================================================================

// ListAccounts returns all accounts for a user.
func (h *Handler) ListAccounts(w http.ResponseWriter, r *http.Request) {
	userID := ledger.UserID(r.URL.Query().Get("user_id"))
	if userID == "" {
		writeError(w, http.StatusBadRequest, "user_id query parameter is required", nil)
		return
	}

	accounts, err := h.Accounts.List(r.Context(), userID)
	if err != nil {
		h.writeDomainError(w, "Failed to list accounts", err)
		return
	}
	writeJSON(w, http.StatusOK, toAccountDTOs(accounts))
}

// ConnectAccount registers a new account for a user.
func (h *Handler) ConnectAccount(w http.ResponseWriter, r *http.Request) {
	var req ConnectAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.UserID == "" || req.Name == "" {
		writeError(w, http.StatusBadRequest, "user_id and name are required", nil)
		return
	}

	opening := decimal.Zero
	if req.OpeningBalance != "" {
		var err error
		opening, err = parseAmount(req.OpeningBalance)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid opening_balance", err)
			return
		}
	}

	acct, err := h.Accounts.Connect(r.Context(), ledger.UserID(req.UserID), req.Name, ledger.AccountKind(req.Kind), opening)
	if err != nil {
		h.writeDomainError(w, "Failed to connect account", err)
		return
	}
	writeJSON(w, http.StatusCreated, toAccountDTO(*acct))
}

// ProvisionDefaultAccount returns the user's active cash account, creating
// it when none exists yet.
func (h *Handler) ProvisionDefaultAccount(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserID string `json:"user_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.UserID == "" {
		writeError(w, http.StatusBadRequest, "user_id is required", nil)
		return
	}

	acct, err := h.Accounts.ProvisionDefaultCash(r.Context(), ledger.UserID(req.UserID))
	if err != nil {
		h.writeDomainError(w, "Failed to provision default account", err)
		return
	}
	writeJSON(w, http.StatusOK, toAccountDTO(*acct))
}

// GetAccount returns a single account.
func (h *Handler) GetAccount(w http.ResponseWriter, r *http.Request) {
	id := ledger.AccountID(chi.URLParam(r, "id"))

	acct, err := h.Accounts.Get(r.Context(), id)
	if err != nil {
		h.writeDomainError(w, "Failed to get account", err)
		return
	}
	writeJSON(w, http.StatusOK, toAccountDTO(*acct))
}

// DisconnectAccount soft-deactivates an account. History stays intact.
func (h *Handler) DisconnectAccount(w http.ResponseWriter, r *http.Request) {
	id := ledger.AccountID(chi.URLParam(r, "id"))

	if err := h.Accounts.Disconnect(r.Context(), id); err != nil {
		h.writeDomainError(w, "Failed to disconnect account", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// TRANSACTION HANDLERS
// =============================================================================

// ListTransactions returns a user's transactions, optionally filtered.
func (h *Handler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	userID := ledger.UserID(q.Get("user_id"))
	if userID == "" {
		writeError(w, http.StatusBadRequest, "user_id query parameter is required", nil)
		return
	}

	f := ledger.EntryFilter{
		UserID:    userID,
		AccountID: ledger.AccountID(q.Get("account_id")),
		Direction: ledger.Direction(q.Get("direction")),
		Status:    ledger.EntryStatus(q.Get("status")),
	}
	if v := q.Get("from"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid from (use RFC3339)", err)
			return
		}
		f.From = t
	}
	if v := q.Get("to"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid to (use RFC3339)", err)
			return
		}
		f.To = t
	}

	entries, err := h.Transactions.List(r.Context(), f)
	if err != nil {
		h.writeDomainError(w, "Failed to list transactions", err)
		return
	}
	writeJSON(w, http.StatusOK, toEntryDTOs(entries))
}

// CreateTransaction records a transaction and applies its balance effect
// atomically. Spending limits are refreshed in the background afterwards.
func (h *Handler) CreateTransaction(w http.ResponseWriter, r *http.Request) {
	var req CreateTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	amount, err := parseAmount(req.Amount)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid amount", err)
		return
	}

	in := ledger.CreateInput{
		UserID:      ledger.UserID(req.UserID),
		AccountID:   ledger.AccountID(req.AccountID),
		Direction:   ledger.Direction(req.Direction),
		Amount:      amount,
		Description: req.Description,
		Status:      ledger.EntryStatus(req.Status),
	}
	if req.OccurredAt != "" {
		t, err := time.Parse(time.RFC3339, req.OccurredAt)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid occurred_at (use RFC3339)", err)
			return
		}
		in.OccurredAt = t
	}

	entry, err := h.Transactions.Create(r.Context(), in)
	if err != nil {
		h.writeDomainError(w, "Failed to create transaction", err)
		return
	}

	h.refreshLimitsAsync(entry.UserID)
	writeJSON(w, http.StatusCreated, toEntryDTO(*entry))
}

// GetTransaction returns a single transaction.
func (h *Handler) GetTransaction(w http.ResponseWriter, r *http.Request) {
	id := ledger.EntryID(chi.URLParam(r, "id"))

	entry, err := h.Transactions.Get(r.Context(), id)
	if err != nil {
		h.writeDomainError(w, "Failed to get transaction", err)
		return
	}
	writeJSON(w, http.StatusOK, toEntryDTO(*entry))
}

// UpdateTransaction edits a transaction; the account balance receives one
// net adjustment for the change.
func (h *Handler) UpdateTransaction(w http.ResponseWriter, r *http.Request) {
	id := ledger.EntryID(chi.URLParam(r, "id"))

	var req UpdateTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	var in ledger.UpdateInput
	if req.AccountID != nil {
		v := ledger.AccountID(*req.AccountID)
		in.AccountID = &v
	}
	if req.Direction != nil {
		v := ledger.Direction(*req.Direction)
		in.Direction = &v
	}
	if req.Amount != nil {
		amount, err := parseAmount(*req.Amount)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid amount", err)
			return
		}
		in.Amount = &amount
	}
	if req.OccurredAt != nil {
		t, err := time.Parse(time.RFC3339, *req.OccurredAt)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid occurred_at (use RFC3339)", err)
			return
		}
		in.OccurredAt = &t
	}
	if req.Description != nil {
		in.Description = req.Description
	}
	if req.Status != nil {
		v := ledger.EntryStatus(*req.Status)
		in.Status = &v
	}

	entry, err := h.Transactions.Update(r.Context(), id, in)
	if err != nil {
		h.writeDomainError(w, "Failed to update transaction", err)
		return
	}

	h.refreshLimitsAsync(entry.UserID)
	writeJSON(w, http.StatusOK, toEntryDTO(*entry))
}

// DeleteTransaction removes a transaction and reverses its balance effect.
func (h *Handler) DeleteTransaction(w http.ResponseWriter, r *http.Request) {
	id := ledger.EntryID(chi.URLParam(r, "id"))

	entry, err := h.Transactions.Get(r.Context(), id)
	if err != nil {
		h.writeDomainError(w, "Failed to delete transaction", err)
		return
	}
	if err := h.Transactions.Delete(r.Context(), id); err != nil {
		h.writeDomainError(w, "Failed to delete transaction", err)
		return
	}

	h.refreshLimitsAsync(entry.UserID)
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// SAVINGS HANDLERS
// =============================================================================

// GetSavings returns the derived savings total and movement history.
func (h *Handler) GetSavings(w http.ResponseWriter, r *http.Request) {
	userID := ledger.UserID(r.URL.Query().Get("user_id"))
	if userID == "" {
		writeError(w, http.StatusBadRequest, "user_id query parameter is required", nil)
		return
	}

	ctx := r.Context()
	total, err := h.Savings.Total(ctx, userID)
	if err != nil {
		h.writeDomainError(w, "Failed to get savings total", err)
		return
	}
	history, err := h.Savings.History(ctx, userID)
	if err != nil {
		h.writeDomainError(w, "Failed to get savings history", err)
		return
	}

	writeJSON(w, http.StatusOK, SavingsSummaryDTO{
		UserID:  string(userID),
		Total:   total.StringFixed(2),
		History: toEntryDTOs(history),
	})
}

// DepositSavings moves money from an account into savings.
func (h *Handler) DepositSavings(w http.ResponseWriter, r *http.Request) {
	h.savingsMovement(w, r, h.Savings.Deposit)
}

// WithdrawSavings moves money from savings back into an account.
func (h *Handler) WithdrawSavings(w http.ResponseWriter, r *http.Request) {
	h.savingsMovement(w, r, h.Savings.Withdraw)
}

type savingsMoveFn func(ctx context.Context, userID ledger.UserID, accountID ledger.AccountID, amount decimal.Decimal, occurredAt time.Time, description string) (*ledger.Entry, error)

func (h *Handler) savingsMovement(w http.ResponseWriter, r *http.Request, move savingsMoveFn) {
	var req SavingsMovementRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	amount, err := parseAmount(req.Amount)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid amount", err)
		return
	}

	entry, err := move(r.Context(), ledger.UserID(req.UserID), ledger.AccountID(req.AccountID), amount, time.Time{}, req.Description)
	if err != nil {
		h.writeDomainError(w, "Failed to record savings movement", err)
		return
	}
	writeJSON(w, http.StatusCreated, toEntryDTO(*entry))
}

// DeleteSavingsMovement removes a savings movement and reverses its effects.
func (h *Handler) DeleteSavingsMovement(w http.ResponseWriter, r *http.Request) {
	id := ledger.EntryID(chi.URLParam(r, "id"))

	if err := h.Savings.Delete(r.Context(), id); err != nil {
		h.writeDomainError(w, "Failed to delete savings movement", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// SPENDING LIMIT HANDLERS
// =============================================================================

// GetLimits returns the user's limits, window-refreshed and recomputed.
func (h *Handler) GetLimits(w http.ResponseWriter, r *http.Request) {
	userID := ledger.UserID(chi.URLParam(r, "userID"))

	ls, err := h.Limits.Limits(r.Context(), userID)
	if err != nil {
		h.writeDomainError(w, "Failed to get limits", err)
		return
	}
	writeJSON(w, http.StatusOK, toLimitDTOs(ls))
}

// GetLimitStatus returns evaluations (percentage used, near, exceeded).
func (h *Handler) GetLimitStatus(w http.ResponseWriter, r *http.Request) {
	userID := ledger.UserID(chi.URLParam(r, "userID"))

	evals, err := h.Limits.Status(r.Context(), userID)
	if err != nil {
		h.writeDomainError(w, "Failed to get limit status", err)
		return
	}
	writeJSON(w, http.StatusOK, toEvaluationDTOs(evals))
}

// SetLimit sets the ceiling for one limit type. Amount 0 disables it.
func (h *Handler) SetLimit(w http.ResponseWriter, r *http.Request) {
	userID := ledger.UserID(chi.URLParam(r, "userID"))
	t, err := limits.ParseType(chi.URLParam(r, "type"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid limit type", err)
		return
	}

	var req SetLimitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	amount, err := parseAmount(req.Amount)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid amount", err)
		return
	}

	l, err := h.Limits.SetAmount(r.Context(), userID, t, amount)
	if err != nil {
		h.writeDomainError(w, "Failed to set limit", err)
		return
	}
	writeJSON(w, http.StatusOK, toLimitDTO(*l))
}

// ResetLimits manually restarts the window for the given types (all when
// the body names none).
func (h *Handler) ResetLimits(w http.ResponseWriter, r *http.Request) {
	userID := ledger.UserID(chi.URLParam(r, "userID"))

	var req ResetLimitsRequest
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid request body", err)
			return
		}
	}

	types := limits.Types()
	if len(req.Types) > 0 {
		types = types[:0]
		for _, s := range req.Types {
			t, err := limits.ParseType(s)
			if err != nil {
				writeError(w, http.StatusBadRequest, "Invalid limit type", err)
				return
			}
			types = append(types, t)
		}
	}

	if err := h.Limits.Reset(r.Context(), userID, types...); err != nil {
		h.writeDomainError(w, "Failed to reset limits", err)
		return
	}

	ls, err := h.Limits.Limits(r.Context(), userID)
	if err != nil {
		h.writeDomainError(w, "Failed to get limits", err)
		return
	}
	writeJSON(w, http.StatusOK, toLimitDTOs(ls))
}

// PrecheckLimits reports which limits a proposed expense would push over
// their ceiling. Advisory only: nothing is persisted and a would-exceed
// answer never blocks the actual transaction.
func (h *Handler) PrecheckLimits(w http.ResponseWriter, r *http.Request) {
	userID := ledger.UserID(chi.URLParam(r, "userID"))

	var req PrecheckRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	amount, err := parseAmount(req.Amount)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid amount", err)
		return
	}

	violations, err := h.Limits.Precheck(r.Context(), userID, amount)
	if err != nil {
		h.writeDomainError(w, "Failed to run limit precheck", err)
		return
	}
	writeJSON(w, http.StatusOK, toPrecheckDTO(violations))
}

// =============================================================================
// HELPERS
// =============================================================================

// refreshLimitsAsync recomputes the user's spending limits after a ledger
// write. Fire-and-forget: a failure here never fails the request, the next
// limit read recomputes from the ledger anyway.
func (h *Handler) refreshLimitsAsync(userID ledger.UserID) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := h.Limits.RefreshAll(ctx, userID); err != nil {
			h.Log.Warn().Err(err).Str("user_id", string(userID)).Msg("background limit refresh failed")
		}
	}()
}

// writeDomainError maps domain errors onto HTTP status codes.
func (h *Handler) writeDomainError(w http.ResponseWriter, message string, err error) {
	switch {
	case ledger.IsNotFound(err):
		writeError(w, http.StatusNotFound, message, err)
	case errors.Is(err, ledger.ErrInsufficientBalance), errors.Is(err, ledger.ErrInsufficientSavings):
		writeError(w, http.StatusUnprocessableEntity, message, err)
	case ledger.IsClientError(err), errors.Is(err, limits.ErrInvalidType), errors.Is(err, limits.ErrNegativeAmount):
		writeError(w, http.StatusBadRequest, message, err)
	default:
		h.Log.Error().Err(err).Msg(message)
		writeError(w, http.StatusInternalServerError, message, err)
	}
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}
