// Package memory provides in-memory Store implementations (for testing/dev).
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/prannsss/budgee/ledger"
	"github.com/prannsss/budgee/limits"
)

// =============================================================================
// MEMORY STORE - In-memory implementation of every storage interface
// =============================================================================

// Store keeps everything in maps behind one mutex. WithTx snapshots the
// maps before running fn and restores them on error, so mutations stay
// all-or-nothing just like the SQLite implementation.
type Store struct {
	mu       sync.RWMutex
	accounts map[ledger.AccountID]ledger.Account
	entries  map[ledger.EntryID]ledger.Entry
	limits   map[limitKey]limits.Limit
}

type limitKey struct {
	UserID ledger.UserID
	Type   limits.Type
}

func New() *Store {
	return &Store{
		accounts: make(map[ledger.AccountID]ledger.Account),
		entries:  make(map[ledger.EntryID]ledger.Entry),
		limits:   make(map[limitKey]limits.Limit),
	}
}

// =============================================================================
// ACCOUNTS
// =============================================================================

func (m *Store) SaveAccount(_ context.Context, a ledger.Account) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saveAccountLocked(a)
	return nil
}

func (m *Store) saveAccountLocked(a ledger.Account) {
	m.accounts[a.ID] = a
}

func (m *Store) GetAccount(_ context.Context, id ledger.AccountID) (*ledger.Account, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.getAccountLocked(id), nil
}

func (m *Store) getAccountLocked(id ledger.AccountID) *ledger.Account {
	a, ok := m.accounts[id]
	if !ok {
		return nil
	}
	return &a
}

func (m *Store) ListAccounts(_ context.Context, userID ledger.UserID) ([]ledger.Account, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.listAccountsLocked(userID), nil
}

func (m *Store) listAccountsLocked(userID ledger.UserID) []ledger.Account {
	var out []ledger.Account
	for _, a := range m.accounts {
		if a.UserID == userID {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Active != out[j].Active {
			return out[i].Active
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

func (m *Store) DeactivateAccount(_ context.Context, id ledger.AccountID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.deactivateAccountLocked(id)
}

func (m *Store) deactivateAccountLocked(id ledger.AccountID) error {
	a, ok := m.accounts[id]
	if !ok {
		return ledger.ErrAccountNotFound
	}
	a.Active = false
	m.accounts[id] = a
	return nil
}

func (m *Store) AdjustBalance(_ context.Context, id ledger.AccountID, delta decimal.Decimal) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.adjustBalanceLocked(id, delta)
}

func (m *Store) adjustBalanceLocked(id ledger.AccountID, delta decimal.Decimal) error {
	a, ok := m.accounts[id]
	if !ok || !a.Active {
		return ledger.ErrAccountNotFound
	}
	a.Balance = a.Balance.Add(delta)
	m.accounts[id] = a
	return nil
}

// =============================================================================
// ENTRIES
// =============================================================================

func (m *Store) InsertEntry(_ context.Context, e ledger.Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[e.ID] = e
	return nil
}

func (m *Store) UpdateEntry(_ context.Context, e ledger.Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.entries[e.ID]; !ok {
		return ledger.ErrEntryNotFound
	}
	m.entries[e.ID] = e
	return nil
}

func (m *Store) DeleteEntry(_ context.Context, id ledger.EntryID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.entries[id]; !ok {
		return ledger.ErrEntryNotFound
	}
	delete(m.entries, id)
	return nil
}

func (m *Store) GetEntry(_ context.Context, id ledger.EntryID) (*ledger.Entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.entries[id]
	if !ok {
		return nil, nil
	}
	return &e, nil
}

func (m *Store) ListEntries(_ context.Context, f ledger.EntryFilter) ([]ledger.Entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.listEntriesLocked(f), nil
}

func (m *Store) listEntriesLocked(f ledger.EntryFilter) []ledger.Entry {
	var out []ledger.Entry
	for _, e := range m.entries {
		if f.Matches(e) {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].OccurredAt.Equal(out[j].OccurredAt) {
			return out[i].OccurredAt.Before(out[j].OccurredAt)
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

func (m *Store) SumSavings(_ context.Context, userID ledger.UserID) (decimal.Decimal, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.sumSavingsLocked(userID), nil
}

func (m *Store) sumSavingsLocked(userID ledger.UserID) decimal.Decimal {
	total := decimal.Zero
	for _, e := range m.entries {
		if e.UserID == userID && e.Kind == ledger.KindSavings {
			total = total.Add(e.SavingsDelta())
		}
	}
	return total
}

// SumCompletedExpenses implements limits.EntryReader.
func (m *Store) SumCompletedExpenses(_ context.Context, userID ledger.UserID, from, to time.Time) (decimal.Decimal, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	f := ledger.EntryFilter{
		UserID:    userID,
		Kind:      ledger.KindTransaction,
		Direction: ledger.DirectionExpense,
		Status:    ledger.StatusCompleted,
		From:      from,
		To:        to,
	}
	total := decimal.Zero
	for _, e := range m.entries {
		if f.Matches(e) {
			total = total.Add(e.Amount)
		}
	}
	return total, nil
}

// =============================================================================
// TRANSACTIONS
// =============================================================================

// WithTx snapshots account and entry state, runs fn against a lock-free
// view, and rolls the snapshot back if fn fails.
func (m *Store) WithTx(ctx context.Context, fn func(s ledger.Store) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	accounts := make(map[ledger.AccountID]ledger.Account, len(m.accounts))
	for k, v := range m.accounts {
		accounts[k] = v
	}
	entries := make(map[ledger.EntryID]ledger.Entry, len(m.entries))
	for k, v := range m.entries {
		entries[k] = v
	}

	if err := fn(&txView{parent: m}); err != nil {
		m.accounts = accounts
		m.entries = entries
		return err
	}
	return nil
}

// txView reuses the parent's maps without locking; the parent holds the
// mutex for the whole WithTx scope.
type txView struct {
	parent *Store
}

func (t *txView) SaveAccount(_ context.Context, a ledger.Account) error {
	t.parent.saveAccountLocked(a)
	return nil
}

func (t *txView) GetAccount(_ context.Context, id ledger.AccountID) (*ledger.Account, error) {
	return t.parent.getAccountLocked(id), nil
}

func (t *txView) ListAccounts(_ context.Context, userID ledger.UserID) ([]ledger.Account, error) {
	return t.parent.listAccountsLocked(userID), nil
}

func (t *txView) DeactivateAccount(_ context.Context, id ledger.AccountID) error {
	return t.parent.deactivateAccountLocked(id)
}

func (t *txView) AdjustBalance(_ context.Context, id ledger.AccountID, delta decimal.Decimal) error {
	return t.parent.adjustBalanceLocked(id, delta)
}

func (t *txView) InsertEntry(_ context.Context, e ledger.Entry) error {
	t.parent.entries[e.ID] = e
	return nil
}

func (t *txView) UpdateEntry(_ context.Context, e ledger.Entry) error {
	if _, ok := t.parent.entries[e.ID]; !ok {
		return ledger.ErrEntryNotFound
	}
	t.parent.entries[e.ID] = e
	return nil
}

func (t *txView) DeleteEntry(_ context.Context, id ledger.EntryID) error {
	if _, ok := t.parent.entries[id]; !ok {
		return ledger.ErrEntryNotFound
	}
	delete(t.parent.entries, id)
	return nil
}

func (t *txView) GetEntry(_ context.Context, id ledger.EntryID) (*ledger.Entry, error) {
	e, ok := t.parent.entries[id]
	if !ok {
		return nil, nil
	}
	return &e, nil
}

func (t *txView) ListEntries(_ context.Context, f ledger.EntryFilter) ([]ledger.Entry, error) {
	return t.parent.listEntriesLocked(f), nil
}

func (t *txView) SumSavings(_ context.Context, userID ledger.UserID) (decimal.Decimal, error) {
	return t.parent.sumSavingsLocked(userID), nil
}

func (t *txView) WithTx(_ context.Context, fn func(s ledger.Store) error) error {
	return fn(t)
}

// =============================================================================
// SPENDING LIMITS (limits.Store interface)
// =============================================================================

func (m *Store) GetLimit(_ context.Context, userID ledger.UserID, ty limits.Type) (*limits.Limit, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	l, ok := m.limits[limitKey{UserID: userID, Type: ty}]
	if !ok {
		return nil, nil
	}
	return &l, nil
}

func (m *Store) UpsertLimit(_ context.Context, l limits.Limit) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.limits[limitKey{UserID: l.UserID, Type: l.Type}] = l
	return nil
}

func (m *Store) ListLimits(_ context.Context, userID ledger.UserID) ([]limits.Limit, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []limits.Limit
	for k, l := range m.limits {
		if k.UserID == userID {
			out = append(out, l)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Type < out[j].Type })
	return out, nil
}
