/*
Package sqlite provides a SQLite-backed implementation of the storage
interfaces.

PURPOSE:
  Implements ledger.Store, limits.Store and limits.EntryReader using
  SQLite. In production the same patterns apply to PostgreSQL - only
  minor SQL dialect differences.

MONEY REPRESENTATION:
  Balances and amounts are stored as integer cents. This keeps the
  critical statement

      UPDATE accounts SET balance_cents = balance_cents + ?

  exact integer arithmetic executed server-side: the delta is applied in
  one statement, so two concurrent mutations of the same account cannot
  lose updates, and no read-modify-write happens in application code.
  The domain sees decimal.Decimal; conversion happens only at this layer.

ATOMICITY:
  WithTx wraps a database transaction; every balance delta is paired with
  its entry write inside one WithTx scope, so either both commit or
  neither does.

CONCURRENCY:
  Uses sync.RWMutex for thread-safety on top of WAL mode. Helpers are
  lock-free and take a dbtx (either *sql.DB or *sql.Tx); only the
  exported methods lock, so transactional views never re-enter the mutex.

MIGRATION:
  Schema is auto-migrated on New(). For production, use a proper
  migration tool (golang-migrate, goose) with versioned migrations.

SEE ALSO:
  - ledger/store.go:  Interface contract, including AdjustBalance
  - store/memory:     In-memory implementation for tests
*/
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"github.com/prannsss/budgee/ledger"
	"github.com/prannsss/budgee/limits"
)

// Store implements all storage interfaces using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	-- Accounts (balance is materialized, only AdjustBalance writes it)
	CREATE TABLE IF NOT EXISTS accounts (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		name TEXT NOT NULL,
		kind TEXT NOT NULL,
		balance_cents INTEGER NOT NULL DEFAULT 0,
		active INTEGER NOT NULL DEFAULT 1,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_accounts_user
		ON accounts(user_id);

	-- Ledger entries (transactions and savings allocations)
	CREATE TABLE IF NOT EXISTS entries (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		account_id TEXT NOT NULL,
		kind TEXT NOT NULL,
		direction TEXT NOT NULL,
		amount_cents INTEGER NOT NULL,
		occurred_at TEXT NOT NULL,
		description TEXT,
		status TEXT NOT NULL,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_entries_user_date
		ON entries(user_id, occurred_at);
	CREATE INDEX IF NOT EXISTS idx_entries_account
		ON entries(account_id);

	-- Hot path: spending-limit recomputation sums completed expenses
	-- for a user inside the active window
	CREATE INDEX IF NOT EXISTS idx_entries_user_kind_direction_date
		ON entries(user_id, kind, direction, status, occurred_at);

	-- Spending limits, one row per (user, type)
	CREATE TABLE IF NOT EXISTS spending_limits (
		user_id TEXT NOT NULL,
		type TEXT NOT NULL,
		amount_cents INTEGER NOT NULL DEFAULT 0,
		current_spending_cents INTEGER NOT NULL DEFAULT 0,
		last_reset TEXT NOT NULL,
		updated_at TEXT NOT NULL,
		PRIMARY KEY (user_id, type)
	);
	`

	_, err := s.db.Exec(schema)
	return err
}

// dbtx is the common surface of *sql.DB and *sql.Tx the helpers run on.
type dbtx interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// =============================================================================
// ACCOUNT STORE (ledger.Store interface)
// =============================================================================

// SaveAccount inserts or updates an account.
func (s *Store) SaveAccount(ctx context.Context, a ledger.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return saveAccount(ctx, s.db, a)
}

func saveAccount(ctx context.Context, q dbtx, a ledger.Account) error {
	query := `
		INSERT INTO accounts (id, user_id, name, kind, balance_cents, active, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			kind = excluded.kind,
			active = excluded.active,
			updated_at = excluded.updated_at
	`
	_, err := q.ExecContext(ctx, query,
		a.ID, a.UserID, a.Name, a.Kind,
		toCents(a.Balance), boolInt(a.Active),
		a.CreatedAt.UTC().Format(timeLayout),
		a.UpdatedAt.UTC().Format(timeLayout),
	)
	if err != nil {
		return fmt.Errorf("failed to save account: %w", err)
	}
	return nil
}

// GetAccount retrieves an account by ID. Returns nil when missing.
func (s *Store) GetAccount(ctx context.Context, id ledger.AccountID) (*ledger.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return getAccount(ctx, s.db, id)
}

func getAccount(ctx context.Context, q dbtx, id ledger.AccountID) (*ledger.Account, error) {
	row := q.QueryRowContext(ctx,
		`SELECT id, user_id, name, kind, balance_cents, active, created_at, updated_at
		 FROM accounts WHERE id = ?`, id)
	return scanAccount(row)
}

// ListAccounts returns all accounts for a user, active first.
func (s *Store) ListAccounts(ctx context.Context, userID ledger.UserID) ([]ledger.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return listAccounts(ctx, s.db, userID)
}

func listAccounts(ctx context.Context, q dbtx, userID ledger.UserID) ([]ledger.Account, error) {
	rows, err := q.QueryContext(ctx,
		`SELECT id, user_id, name, kind, balance_cents, active, created_at, updated_at
		 FROM accounts WHERE user_id = ? ORDER BY active DESC, created_at ASC`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	defer rows.Close()

	var accounts []ledger.Account
	for rows.Next() {
		a, err := scanAccountRows(rows)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, a)
	}
	return accounts, rows.Err()
}

// DeactivateAccount soft-deactivates an account. Never a hard delete.
func (s *Store) DeactivateAccount(ctx context.Context, id ledger.AccountID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return deactivateAccount(ctx, s.db, id)
}

func deactivateAccount(ctx context.Context, q dbtx, id ledger.AccountID) error {
	res, err := q.ExecContext(ctx,
		`UPDATE accounts SET active = 0, updated_at = ? WHERE id = ?`,
		time.Now().UTC().Format(timeLayout), id)
	if err != nil {
		return fmt.Errorf("failed to deactivate account: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ledger.ErrAccountNotFound
	}
	return nil
}

// AdjustBalance applies a signed delta to an active account. This is the
// single statement the whole balance-consistency design leans on.
func (s *Store) AdjustBalance(ctx context.Context, id ledger.AccountID, delta decimal.Decimal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return adjustBalance(ctx, s.db, id, delta)
}

func adjustBalance(ctx context.Context, q dbtx, id ledger.AccountID, delta decimal.Decimal) error {
	res, err := q.ExecContext(ctx,
		`UPDATE accounts SET balance_cents = balance_cents + ?, updated_at = ?
		 WHERE id = ? AND active = 1`,
		toCents(delta), time.Now().UTC().Format(timeLayout), id)
	if err != nil {
		return fmt.Errorf("failed to adjust balance: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ledger.ErrAccountNotFound
	}
	return nil
}

// =============================================================================
// ENTRY STORE (ledger.Store interface)
// =============================================================================

// InsertEntry adds a ledger entry record. The caller pairs it with an
// AdjustBalance inside the same WithTx scope.
func (s *Store) InsertEntry(ctx context.Context, e ledger.Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return insertEntry(ctx, s.db, e)
}

func insertEntry(ctx context.Context, q dbtx, e ledger.Entry) error {
	query := `
		INSERT INTO entries
		(id, user_id, account_id, kind, direction, amount_cents, occurred_at, description, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := q.ExecContext(ctx, query,
		e.ID, e.UserID, e.AccountID, e.Kind, e.Direction,
		toCents(e.Amount),
		e.OccurredAt.UTC().Format(timeLayout),
		e.Description, e.Status,
		e.CreatedAt.UTC().Format(timeLayout),
		e.UpdatedAt.UTC().Format(timeLayout),
	)
	if err != nil {
		return fmt.Errorf("failed to insert entry: %w", err)
	}
	return nil
}

// UpdateEntry rewrites an entry record.
func (s *Store) UpdateEntry(ctx context.Context, e ledger.Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return updateEntry(ctx, s.db, e)
}

func updateEntry(ctx context.Context, q dbtx, e ledger.Entry) error {
	query := `
		UPDATE entries SET
			account_id = ?, direction = ?, amount_cents = ?,
			occurred_at = ?, description = ?, status = ?, updated_at = ?
		WHERE id = ?
	`
	res, err := q.ExecContext(ctx, query,
		e.AccountID, e.Direction, toCents(e.Amount),
		e.OccurredAt.UTC().Format(timeLayout),
		e.Description, e.Status,
		e.UpdatedAt.UTC().Format(timeLayout),
		e.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update entry: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ledger.ErrEntryNotFound
	}
	return nil
}

// DeleteEntry removes an entry record. The caller reverses the balance
// delta in the same WithTx scope.
func (s *Store) DeleteEntry(ctx context.Context, id ledger.EntryID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return deleteEntry(ctx, s.db, id)
}

func deleteEntry(ctx context.Context, q dbtx, id ledger.EntryID) error {
	res, err := q.ExecContext(ctx, `DELETE FROM entries WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete entry: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ledger.ErrEntryNotFound
	}
	return nil
}

// GetEntry retrieves an entry by ID. Returns nil when missing.
func (s *Store) GetEntry(ctx context.Context, id ledger.EntryID) (*ledger.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return getEntry(ctx, s.db, id)
}

func getEntry(ctx context.Context, q dbtx, id ledger.EntryID) (*ledger.Entry, error) {
	rows, err := q.QueryContext(ctx, entrySelect+` WHERE id = ?`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get entry: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, rows.Err()
	}
	e, err := scanEntry(rows)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

const entrySelect = `
	SELECT id, user_id, account_id, kind, direction, amount_cents,
	       occurred_at, description, status, created_at, updated_at
	FROM entries`

// ListEntries returns entries matching the filter, chronologically.
func (s *Store) ListEntries(ctx context.Context, f ledger.EntryFilter) ([]ledger.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return listEntries(ctx, s.db, f)
}

func listEntries(ctx context.Context, q dbtx, f ledger.EntryFilter) ([]ledger.Entry, error) {
	var (
		where []string
		args  []any
	)
	add := func(cond string, arg any) {
		where = append(where, cond)
		args = append(args, arg)
	}
	if f.UserID != "" {
		add("user_id = ?", f.UserID)
	}
	if f.AccountID != "" {
		add("account_id = ?", f.AccountID)
	}
	if f.Kind != "" {
		add("kind = ?", f.Kind)
	}
	if f.Direction != "" {
		add("direction = ?", f.Direction)
	}
	if f.Status != "" {
		add("status = ?", f.Status)
	}
	if !f.From.IsZero() {
		add("occurred_at >= ?", f.From.UTC().Format(timeLayout))
	}
	if !f.To.IsZero() {
		add("occurred_at <= ?", f.To.UTC().Format(timeLayout))
	}

	query := entrySelect
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY occurred_at ASC, created_at ASC"

	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list entries: %w", err)
	}
	defer rows.Close()

	var entries []ledger.Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// SumSavings computes the savings aggregate server-side.
func (s *Store) SumSavings(ctx context.Context, userID ledger.UserID) (decimal.Decimal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return sumSavings(ctx, s.db, userID)
}

func sumSavings(ctx context.Context, q dbtx, userID ledger.UserID) (decimal.Decimal, error) {
	var cents int64
	err := q.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(CASE WHEN direction = ? THEN amount_cents ELSE -amount_cents END), 0)
		 FROM entries WHERE user_id = ? AND kind = ?`,
		ledger.DirectionDeposit, userID, ledger.KindSavings,
	).Scan(&cents)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum savings: %w", err)
	}
	return fromCents(cents), nil
}

// SumCompletedExpenses sums completed expense transactions in [from, to].
// The spending-limit recomputation hot path.
func (s *Store) SumCompletedExpenses(ctx context.Context, userID ledger.UserID, from, to time.Time) (decimal.Decimal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var cents int64
	err := s.db.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(amount_cents), 0)
		 FROM entries
		 WHERE user_id = ? AND kind = ? AND direction = ? AND status = ?
		   AND occurred_at >= ? AND occurred_at <= ?`,
		userID, ledger.KindTransaction, ledger.DirectionExpense, ledger.StatusCompleted,
		from.UTC().Format(timeLayout), to.UTC().Format(timeLayout),
	).Scan(&cents)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum expenses: %w", err)
	}
	return fromCents(cents), nil
}

// =============================================================================
// TRANSACTIONAL STORE (ledger.Store WithTx)
// =============================================================================

// WithTx executes fn within a database transaction. The transactional
// view is lock-free; the store mutex is held for the whole scope.
func (s *Store) WithTx(ctx context.Context, fn func(store ledger.Store) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sqlTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer sqlTx.Rollback()

	if err := fn(&txStore{tx: sqlTx}); err != nil {
		return err
	}
	return sqlTx.Commit()
}

// txStore is the in-transaction view. No locking: the parent holds the
// mutex for the duration of WithTx.
type txStore struct {
	tx *sql.Tx
}

func (ts *txStore) SaveAccount(ctx context.Context, a ledger.Account) error {
	return saveAccount(ctx, ts.tx, a)
}

func (ts *txStore) GetAccount(ctx context.Context, id ledger.AccountID) (*ledger.Account, error) {
	return getAccount(ctx, ts.tx, id)
}

func (ts *txStore) ListAccounts(ctx context.Context, userID ledger.UserID) ([]ledger.Account, error) {
	return listAccounts(ctx, ts.tx, userID)
}

func (ts *txStore) DeactivateAccount(ctx context.Context, id ledger.AccountID) error {
	return deactivateAccount(ctx, ts.tx, id)
}

func (ts *txStore) AdjustBalance(ctx context.Context, id ledger.AccountID, delta decimal.Decimal) error {
	return adjustBalance(ctx, ts.tx, id, delta)
}

func (ts *txStore) InsertEntry(ctx context.Context, e ledger.Entry) error {
	return insertEntry(ctx, ts.tx, e)
}

func (ts *txStore) UpdateEntry(ctx context.Context, e ledger.Entry) error {
	return updateEntry(ctx, ts.tx, e)
}

func (ts *txStore) DeleteEntry(ctx context.Context, id ledger.EntryID) error {
	return deleteEntry(ctx, ts.tx, id)
}

func (ts *txStore) GetEntry(ctx context.Context, id ledger.EntryID) (*ledger.Entry, error) {
	return getEntry(ctx, ts.tx, id)
}

func (ts *txStore) ListEntries(ctx context.Context, f ledger.EntryFilter) ([]ledger.Entry, error) {
	return listEntries(ctx, ts.tx, f)
}

func (ts *txStore) SumSavings(ctx context.Context, userID ledger.UserID) (decimal.Decimal, error) {
	return sumSavings(ctx, ts.tx, userID)
}

// WithTx on a transactional view reuses the ambient transaction.
func (ts *txStore) WithTx(_ context.Context, fn func(store ledger.Store) error) error {
	return fn(ts)
}

// =============================================================================
// SPENDING-LIMIT STORE (limits.Store interface)
// =============================================================================

// GetLimit returns the limit for (user, type), or nil when none exists.
func (s *Store) GetLimit(ctx context.Context, userID ledger.UserID, t limits.Type) (*limits.Limit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx,
		`SELECT user_id, type, amount_cents, current_spending_cents, last_reset, updated_at
		 FROM spending_limits WHERE user_id = ? AND type = ?`, userID, t)

	var (
		l                     limits.Limit
		amountCents, spending int64
		lastReset, updatedAt  string
	)
	err := row.Scan(&l.UserID, &l.Type, &amountCents, &spending, &lastReset, &updatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get limit: %w", err)
	}

	l.Amount = fromCents(amountCents)
	l.CurrentSpending = fromCents(spending)
	l.LastReset, _ = time.Parse(timeLayout, lastReset)
	l.UpdatedAt, _ = time.Parse(timeLayout, updatedAt)
	return &l, nil
}

// UpsertLimit writes the limit keyed by (user, type). Idempotent, so
// racing resets of the same window converge.
func (s *Store) UpsertLimit(ctx context.Context, l limits.Limit) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT INTO spending_limits (user_id, type, amount_cents, current_spending_cents, last_reset, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(user_id, type) DO UPDATE SET
			amount_cents = excluded.amount_cents,
			current_spending_cents = excluded.current_spending_cents,
			last_reset = excluded.last_reset,
			updated_at = excluded.updated_at
	`
	_, err := s.db.ExecContext(ctx, query,
		l.UserID, l.Type, toCents(l.Amount), toCents(l.CurrentSpending),
		l.LastReset.UTC().Format(timeLayout),
		l.UpdatedAt.UTC().Format(timeLayout),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert limit: %w", err)
	}
	return nil
}

// ListLimits returns every limit for a user.
func (s *Store) ListLimits(ctx context.Context, userID ledger.UserID) ([]limits.Limit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		`SELECT user_id, type, amount_cents, current_spending_cents, last_reset, updated_at
		 FROM spending_limits WHERE user_id = ? ORDER BY type`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list limits: %w", err)
	}
	defer rows.Close()

	var out []limits.Limit
	for rows.Next() {
		var (
			l                     limits.Limit
			amountCents, spending int64
			lastReset, updatedAt  string
		)
		if err := rows.Scan(&l.UserID, &l.Type, &amountCents, &spending, &lastReset, &updatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan limit: %w", err)
		}
		l.Amount = fromCents(amountCents)
		l.CurrentSpending = fromCents(spending)
		l.LastReset, _ = time.Parse(timeLayout, lastReset)
		l.UpdatedAt, _ = time.Parse(timeLayout, updatedAt)
		out = append(out, l)
	}
	return out, rows.Err()
}

// =============================================================================
// SCANNING HELPERS
// =============================================================================

func scanAccount(row *sql.Row) (*ledger.Account, error) {
	var (
		a                    ledger.Account
		cents                int64
		active               int
		createdAt, updatedAt string
	)
	err := row.Scan(&a.ID, &a.UserID, &a.Name, &a.Kind, &cents, &active, &createdAt, &updatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan account: %w", err)
	}
	a.Balance = fromCents(cents)
	a.Active = active != 0
	a.CreatedAt, _ = time.Parse(timeLayout, createdAt)
	a.UpdatedAt, _ = time.Parse(timeLayout, updatedAt)
	return &a, nil
}

func scanAccountRows(rows *sql.Rows) (ledger.Account, error) {
	var (
		a                    ledger.Account
		cents                int64
		active               int
		createdAt, updatedAt string
	)
	err := rows.Scan(&a.ID, &a.UserID, &a.Name, &a.Kind, &cents, &active, &createdAt, &updatedAt)
	if err != nil {
		return a, fmt.Errorf("failed to scan account: %w", err)
	}
	a.Balance = fromCents(cents)
	a.Active = active != 0
	a.CreatedAt, _ = time.Parse(timeLayout, createdAt)
	a.UpdatedAt, _ = time.Parse(timeLayout, updatedAt)
	return a, nil
}

func scanEntry(rows *sql.Rows) (ledger.Entry, error) {
	var (
		e                                ledger.Entry
		cents                            int64
		occurredAt, createdAt, updatedAt string
		description                      sql.NullString
	)
	err := rows.Scan(&e.ID, &e.UserID, &e.AccountID, &e.Kind, &e.Direction,
		&cents, &occurredAt, &description, &e.Status, &createdAt, &updatedAt)
	if err != nil {
		return e, fmt.Errorf("failed to scan entry: %w", err)
	}
	e.Amount = fromCents(cents)
	e.Description = description.String
	e.OccurredAt, _ = time.Parse(timeLayout, occurredAt)
	e.CreatedAt, _ = time.Parse(timeLayout, createdAt)
	e.UpdatedAt, _ = time.Parse(timeLayout, updatedAt)
	return e, nil
}

// timeLayout is RFC3339 with a fixed-width fraction so stored strings
// compare lexicographically in chronological order.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Helper functions

func toCents(d decimal.Decimal) int64 {
	return d.Shift(2).Round(0).IntPart()
}

func fromCents(c int64) decimal.Decimal {
	return decimal.New(c, -2)
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
