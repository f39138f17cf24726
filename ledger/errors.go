/*
errors.go - Centralized error types for the balance engine

PURPOSE:
  All error types in one place for consistency and discoverability.
  The taxonomy mirrors how failures propagate: validation and not-found
  errors reject the operation before any mutation; consistency failures
  are the single class that must be treated as alert-worthy, since they
  represent the invariant this engine exists to protect.

USAGE:
  Callers branch with errors.Is():

    if errors.Is(err, ledger.ErrInsufficientBalance) {
        // surface specific figures from *InsufficientBalanceError
    }

SEE ALSO:
  - mutator.go: Returns not-found / consistency errors
  - savings.go: Returns insufficient balance / savings errors
*/
package ledger

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrAccountNotFound is returned when a referenced account doesn't exist.
	ErrAccountNotFound = errors.New("account not found")

	// ErrAccountInactive is returned when an entry references a
	// soft-deactivated account. No delta is applied.
	ErrAccountInactive = errors.New("account is inactive")

	// ErrEntryNotFound is returned when a referenced entry doesn't exist.
	ErrEntryNotFound = errors.New("entry not found")

	// ErrInvalidAmount is returned for zero or negative entry amounts.
	ErrInvalidAmount = errors.New("amount must be positive")

	// ErrInvalidKind is returned for an unknown account kind.
	ErrInvalidKind = errors.New("invalid account kind")

	// ErrInvalidDirection is returned when an entry's direction doesn't
	// match its kind (e.g. a transaction with direction "deposit").
	ErrInvalidDirection = errors.New("invalid direction for entry kind")

	// ErrInsufficientBalance is returned when a savings deposit exceeds the
	// source account's balance.
	ErrInsufficientBalance = errors.New("insufficient balance")

	// ErrInsufficientSavings is returned when a withdrawal exceeds the
	// owner's aggregate savings.
	ErrInsufficientSavings = errors.New("insufficient savings")

	// ErrConsistency is returned when a balance delta and its entry write
	// could not be applied together. With atomic storage transactions this
	// must not occur; it is alert-worthy, never silent drift.
	ErrConsistency = errors.New("balance consistency failure")
)

// =============================================================================
// STRUCTURED ERRORS - Carry the current figures for the caller
// =============================================================================

// InsufficientBalanceError reports a deposit rejected before mutation.
type InsufficientBalanceError struct {
	AccountID AccountID
	Available decimal.Decimal
	Requested decimal.Decimal
}

func (e *InsufficientBalanceError) Error() string {
	return fmt.Sprintf("insufficient balance on account %s: available %s, requested %s",
		e.AccountID, e.Available, e.Requested)
}

func (e *InsufficientBalanceError) Unwrap() error { return ErrInsufficientBalance }

// InsufficientSavingsError reports a withdrawal rejected before mutation.
type InsufficientSavingsError struct {
	UserID    UserID
	Available decimal.Decimal
	Requested decimal.Decimal
}

func (e *InsufficientSavingsError) Error() string {
	return fmt.Sprintf("insufficient savings for user %s: available %s, requested %s",
		e.UserID, e.Available, e.Requested)
}

func (e *InsufficientSavingsError) Unwrap() error { return ErrInsufficientSavings }

// ConsistencyError reports a failed delta application that was detected
// mid-transaction. The surrounding storage transaction rolls back, so no
// partial state survives, but the condition still deserves an alert.
type ConsistencyError struct {
	AccountID AccountID
	Delta     decimal.Decimal
	Cause     error
}

func (e *ConsistencyError) Error() string {
	return fmt.Sprintf("consistency failure applying delta %s to account %s: %v",
		e.Delta, e.AccountID, e.Cause)
}

func (e *ConsistencyError) Unwrap() error { return ErrConsistency }

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsClientError returns true if the error is due to invalid client input
// and should map to a 4xx response.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidAmount) ||
		errors.Is(err, ErrInvalidDirection) ||
		errors.Is(err, ErrInvalidKind) ||
		errors.Is(err, ErrInsufficientBalance) ||
		errors.Is(err, ErrInsufficientSavings) ||
		errors.Is(err, ErrAccountInactive)
}

// IsNotFound returns true if the error indicates a missing record.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrAccountNotFound) ||
		errors.Is(err, ErrEntryNotFound)
}
