/*
dto.go - Request/response data structures for the HTTP API

PURPOSE:
  JSON shapes for the REST API, kept separate from domain types so the
  wire format can evolve without touching ledger/ or limits/. Money is
  serialized as decimal strings ("1250.50") to avoid float drift in
  clients.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

VALIDATION:
  Validation is done in handlers and the domain services, not in DTOs.
  DTOs are pure data carriers.

SEE ALSO:
  - handlers.go: Handler implementations that populate these
*/
package api

import (
	"time"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"github.com/prannsss/budgee/ledger"
	"github.com/prannsss/budgee/limits"
)

// =============================================================================
// ACCOUNTS
// =============================================================================

type AccountDTO struct {
	ID        string `json:"id"`
	UserID    string `json:"user_id"`
	Name      string `json:"name"`
	Kind      string `json:"kind"`
	Balance   string `json:"balance"`
	Active    bool   `json:"active"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

func toAccountDTO(a ledger.Account) AccountDTO {
	return AccountDTO{
		ID:        string(a.ID),
		UserID:    string(a.UserID),
		Name:      a.Name,
		Kind:      string(a.Kind),
		Balance:   a.Balance.StringFixed(2),
		Active:    a.Active,
		CreatedAt: a.CreatedAt.Format(time.RFC3339),
		UpdatedAt: a.UpdatedAt.Format(time.RFC3339),
	}
}

func toAccountDTOs(accounts []ledger.Account) []AccountDTO {
	return lo.Map(accounts, func(a ledger.Account, _ int) AccountDTO {
		return toAccountDTO(a)
	})
}

type ConnectAccountRequest struct {
	UserID         string `json:"user_id"`
	Name           string `json:"name"`
	Kind           string `json:"kind"`
	OpeningBalance string `json:"opening_balance,omitempty"`
}

// =============================================================================
// TRANSACTIONS
// =============================================================================

type EntryDTO struct {
	ID          string `json:"id"`
	UserID      string `json:"user_id"`
	AccountID   string `json:"account_id"`
	Kind        string `json:"kind"`
	Direction   string `json:"direction"`
	Amount      string `json:"amount"`
	OccurredAt  string `json:"occurred_at"`
	Description string `json:"description,omitempty"`
	Status      string `json:"status"`
	CreatedAt   string `json:"created_at"`
	UpdatedAt   string `json:"updated_at"`
}

func toEntryDTO(e ledger.Entry) EntryDTO {
	return EntryDTO{
		ID:          string(e.ID),
		UserID:      string(e.UserID),
		AccountID:   string(e.AccountID),
		Kind:        string(e.Kind),
		Direction:   string(e.Direction),
		Amount:      e.Amount.StringFixed(2),
		OccurredAt:  e.OccurredAt.Format(time.RFC3339),
		Description: e.Description,
		Status:      string(e.Status),
		CreatedAt:   e.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   e.UpdatedAt.Format(time.RFC3339),
	}
}

func toEntryDTOs(entries []ledger.Entry) []EntryDTO {
	return lo.Map(entries, func(e ledger.Entry, _ int) EntryDTO {
		return toEntryDTO(e)
	})
}

type CreateTransactionRequest struct {
	UserID      string `json:"user_id"`
	AccountID   string `json:"account_id"`
	Direction   string `json:"direction"`
	Amount      string `json:"amount"`
	OccurredAt  string `json:"occurred_at,omitempty"`
	Description string `json:"description,omitempty"`
	Status      string `json:"status,omitempty"`
}

type UpdateTransactionRequest struct {
	AccountID   *string `json:"account_id,omitempty"`
	Direction   *string `json:"direction,omitempty"`
	Amount      *string `json:"amount,omitempty"`
	OccurredAt  *string `json:"occurred_at,omitempty"`
	Description *string `json:"description,omitempty"`
	Status      *string `json:"status,omitempty"`
}

// =============================================================================
// SAVINGS
// =============================================================================

type SavingsSummaryDTO struct {
	UserID  string     `json:"user_id"`
	Total   string     `json:"total"`
	History []EntryDTO `json:"history"`
}

type SavingsMovementRequest struct {
	UserID      string `json:"user_id"`
	AccountID   string `json:"account_id"`
	Amount      string `json:"amount"`
	Description string `json:"description,omitempty"`
}

// =============================================================================
// SPENDING LIMITS
// =============================================================================

type LimitDTO struct {
	UserID          string `json:"user_id"`
	Type            string `json:"type"`
	Amount          string `json:"amount"`
	CurrentSpending string `json:"current_spending"`
	LastReset       string `json:"last_reset"`
	UpdatedAt       string `json:"updated_at"`
}

func toLimitDTO(l limits.Limit) LimitDTO {
	return LimitDTO{
		UserID:          string(l.UserID),
		Type:            string(l.Type),
		Amount:          l.Amount.StringFixed(2),
		CurrentSpending: l.CurrentSpending.StringFixed(2),
		LastReset:       l.LastReset.Format(time.RFC3339),
		UpdatedAt:       l.UpdatedAt.Format(time.RFC3339),
	}
}

func toLimitDTOs(ls []limits.Limit) []LimitDTO {
	return lo.Map(ls, func(l limits.Limit, _ int) LimitDTO {
		return toLimitDTO(l)
	})
}

type EvaluationDTO struct {
	Type            string `json:"type"`
	Amount          string `json:"amount"`
	CurrentSpending string `json:"current_spending"`
	PercentageUsed  string `json:"percentage_used"`
	Remaining       string `json:"remaining"`
	Exceeded        bool   `json:"exceeded"`
	NearLimit       bool   `json:"near_limit"`
}

func toEvaluationDTO(e limits.Evaluation) EvaluationDTO {
	return EvaluationDTO{
		Type:            string(e.Type),
		Amount:          e.Amount.StringFixed(2),
		CurrentSpending: e.CurrentSpending.StringFixed(2),
		PercentageUsed:  e.PercentageUsed.StringFixed(2),
		Remaining:       e.Remaining.StringFixed(2),
		Exceeded:        e.Exceeded,
		NearLimit:       e.NearLimit,
	}
}

func toEvaluationDTOs(evals []limits.Evaluation) []EvaluationDTO {
	return lo.Map(evals, func(e limits.Evaluation, _ int) EvaluationDTO {
		return toEvaluationDTO(e)
	})
}

type SetLimitRequest struct {
	Amount string `json:"amount"`
}

type ResetLimitsRequest struct {
	Types []string `json:"types,omitempty"`
}

type PrecheckRequest struct {
	Amount string `json:"amount"`
}

type ViolationDTO struct {
	Type      string `json:"type"`
	Ceiling   string `json:"ceiling"`
	Current   string `json:"current"`
	Projected string `json:"projected"`
	Excess    string `json:"excess"`
}

type PrecheckResponseDTO struct {
	Allowed    bool           `json:"allowed"`
	Violations []ViolationDTO `json:"violations"`
}

func toPrecheckDTO(violations []limits.Violation) PrecheckResponseDTO {
	return PrecheckResponseDTO{
		Allowed: len(violations) == 0,
		Violations: lo.Map(violations, func(v limits.Violation, _ int) ViolationDTO {
			return ViolationDTO{
				Type:      string(v.Type),
				Ceiling:   v.Ceiling.StringFixed(2),
				Current:   v.Current.StringFixed(2),
				Projected: v.Projected.StringFixed(2),
				Excess:    v.Excess.StringFixed(2),
			}
		}),
	}
}

// =============================================================================
// ERRORS
// =============================================================================

type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// parseAmount parses a decimal string from a request body.
func parseAmount(s string) (decimal.Decimal, error) {
	return decimal.NewFromString(s)
}
