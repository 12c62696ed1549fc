/*
Package sqlite provides a SQLite-backed implementation of leave.TxStore.

KEY TABLES:
  employees:      Employee registry (unique name)
  year_accounts:  One row per (employee_id, year), enforced by a UNIQUE key
  comp_grants:    Append-only comp credit grants
  leave_requests: Append-only requests with used_comp/used_annual snapshots
  comp_usages:    Request-to-grant attribution (audit display only)

DECIMALS:
  Quantities are stored as TEXT in decimal.Decimal string form and summed in
  Go, never as REAL, so 0.5 steps stay exact.

APPEND-ONLY ENFORCEMENT:
  There are no UPDATE or DELETE statements for comp_grants, leave_requests
  or comp_usages. The only UPDATEs touch employees.active and the
  entitlement columns of year_accounts.

CONCURRENCY:
  Uses sync.RWMutex plus a single pooled connection. Account creation is
  INSERT ... ON CONFLICT DO NOTHING against UNIQUE(employee_id, year), so
  two racing creators never produce two rows.

USAGE:
  store, err := sqlite.New("./data/leave.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

  svc := leave.NewService(store, logger)

SEE ALSO:
  - leave/store.go: Interface definitions
  - store/memory:   In-memory implementation for tests
*/
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	sqlite3 "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"
	"github.com/warp/leave-ledger/leave"
)

// Store implements leave.TxStore using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

var _ leave.TxStore = (*Store)(nil)

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// One connection: keeps ":memory:" databases shared and serializes writers.
	db.SetMaxOpenConns(1)

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

// Ready pings the database.
func (s *Store) Ready(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS employees (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL UNIQUE,
		birth_code TEXT NOT NULL,
		active BOOLEAN NOT NULL DEFAULT TRUE,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_employees_birth_code
		ON employees(birth_code) WHERE active;

	-- One ledger account per employee and calendar year
	CREATE TABLE IF NOT EXISTS year_accounts (
		id TEXT PRIMARY KEY,
		employee_id TEXT NOT NULL REFERENCES employees(id) ON DELETE CASCADE,
		year INTEGER NOT NULL,
		base_days TEXT NOT NULL DEFAULT '0',
		carry_over TEXT NOT NULL DEFAULT '0',
		created_at TEXT NOT NULL,
		UNIQUE(employee_id, year)
	);

	CREATE INDEX IF NOT EXISTS idx_year_accounts_year
		ON year_accounts(year);

	CREATE TABLE IF NOT EXISTS comp_grants (
		id TEXT PRIMARY KEY,
		account_id TEXT NOT NULL REFERENCES year_accounts(id) ON DELETE CASCADE,
		worked_date TEXT NOT NULL,
		label TEXT NOT NULL DEFAULT '',
		amount TEXT NOT NULL,
		memo TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_comp_grants_account
		ON comp_grants(account_id, worked_date);

	CREATE TABLE IF NOT EXISTS leave_requests (
		id TEXT PRIMARY KEY,
		account_id TEXT NOT NULL REFERENCES year_accounts(id) ON DELETE CASCADE,
		employee_id TEXT NOT NULL REFERENCES employees(id) ON DELETE CASCADE,
		leave_type TEXT NOT NULL,
		start_date TEXT NOT NULL,
		end_date TEXT NOT NULL,
		half_day TEXT,
		reason TEXT NOT NULL DEFAULT '',
		used_comp TEXT NOT NULL,
		used_annual TEXT NOT NULL,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_leave_requests_account
		ON leave_requests(account_id, start_date);
	CREATE INDEX IF NOT EXISTS idx_leave_requests_employee_start
		ON leave_requests(employee_id, start_date);

	CREATE TABLE IF NOT EXISTS comp_usages (
		id TEXT PRIMARY KEY,
		request_id TEXT NOT NULL REFERENCES leave_requests(id) ON DELETE CASCADE,
		grant_id TEXT NOT NULL REFERENCES comp_grants(id) ON DELETE CASCADE,
		amount TEXT NOT NULL,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_comp_usages_request
		ON comp_usages(request_id);
	CREATE INDEX IF NOT EXISTS idx_comp_usages_grant
		ON comp_usages(grant_id);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Reset drops all rows. Used by demo scenarios.
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tables := []string{"comp_usages", "leave_requests", "comp_grants", "year_accounts", "employees"}
	for _, t := range tables {
		if _, err := s.db.ExecContext(ctx, "DELETE FROM "+t); err != nil {
			return fmt.Errorf("failed to reset %s: %w", t, err)
		}
	}
	return nil
}

// =============================================================================
// EMPLOYEES
// =============================================================================

func (s *Store) SaveEmployee(ctx context.Context, e leave.Employee) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return saveEmployee(ctx, s.db, e)
}

func (s *Store) GetEmployee(ctx context.Context, id leave.EmployeeID) (leave.Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return getEmployee(ctx, s.db, id)
}

func (s *Store) ListEmployees(ctx context.Context, activeOnly bool) ([]leave.Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return listEmployees(ctx, s.db, activeOnly)
}

func (s *Store) FindEmployeesByBirthCode(ctx context.Context, code string) ([]leave.Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return findEmployeesByBirthCode(ctx, s.db, code)
}

func (s *Store) SetEmployeeActive(ctx context.Context, id leave.EmployeeID, active bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return setEmployeeActive(ctx, s.db, id, active)
}

const employeeColumns = `id, name, birth_code, active, created_at`

func saveEmployee(ctx context.Context, q querier, e leave.Employee) error {
	_, err := q.ExecContext(ctx, `
		INSERT INTO employees (`+employeeColumns+`)
		VALUES (?, ?, ?, ?, ?)
	`, e.ID, e.Name, e.BirthCode, e.Active, formatTime(e.CreatedAt))
	if err != nil {
		if isUniqueConstraintError(err) {
			return leave.ErrConflict
		}
		return fmt.Errorf("failed to save employee: %w", err)
	}
	return nil
}

func getEmployee(ctx context.Context, q querier, id leave.EmployeeID) (leave.Employee, error) {
	row := q.QueryRowContext(ctx, `SELECT `+employeeColumns+` FROM employees WHERE id = ?`, id)
	e, err := scanEmployee(row)
	if errors.Is(err, sql.ErrNoRows) {
		return leave.Employee{}, leave.ErrNotFound
	}
	return e, err
}

func listEmployees(ctx context.Context, q querier, activeOnly bool) ([]leave.Employee, error) {
	query := `SELECT ` + employeeColumns + ` FROM employees`
	if activeOnly {
		query += ` WHERE active`
	}
	query += ` ORDER BY name`
	return queryEmployees(ctx, q, query)
}

func findEmployeesByBirthCode(ctx context.Context, q querier, code string) ([]leave.Employee, error) {
	return queryEmployees(ctx, q,
		`SELECT `+employeeColumns+` FROM employees WHERE active AND birth_code = ? ORDER BY name`, code)
}

func setEmployeeActive(ctx context.Context, q querier, id leave.EmployeeID, active bool) error {
	res, err := q.ExecContext(ctx, `UPDATE employees SET active = ? WHERE id = ?`, active, id)
	if err != nil {
		return fmt.Errorf("failed to update employee: %w", err)
	}
	return requireOneRow(res)
}

func queryEmployees(ctx context.Context, q querier, query string, args ...any) ([]leave.Employee, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query employees: %w", err)
	}
	defer rows.Close()

	employees := []leave.Employee{}
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, err
		}
		employees = append(employees, e)
	}
	return employees, rows.Err()
}

func scanEmployee(sc scanner) (leave.Employee, error) {
	var (
		e         leave.Employee
		createdAt string
	)
	if err := sc.Scan(&e.ID, &e.Name, &e.BirthCode, &e.Active, &createdAt); err != nil {
		return e, err
	}
	e.CreatedAt = parseTime(createdAt)
	return e, nil
}

// =============================================================================
// YEAR ACCOUNTS
// =============================================================================

func (s *Store) GetAccount(ctx context.Context, employeeID leave.EmployeeID, year int) (leave.YearAccount, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return getAccount(ctx, s.db, employeeID, year)
}

func (s *Store) CreateAccount(ctx context.Context, a leave.YearAccount) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return createAccount(ctx, s.db, a)
}

func (s *Store) UpdateEntitlement(ctx context.Context, id leave.AccountID, baseDays, carryOver decimal.Decimal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return updateEntitlement(ctx, s.db, id, baseDays, carryOver)
}

func getAccount(ctx context.Context, q querier, employeeID leave.EmployeeID, year int) (leave.YearAccount, error) {
	var (
		a                   leave.YearAccount
		baseDays, carryOver string
		createdAt           string
	)
	err := q.QueryRowContext(ctx, `
		SELECT id, employee_id, year, base_days, carry_over, created_at
		FROM year_accounts
		WHERE employee_id = ? AND year = ?
	`, employeeID, year).Scan(&a.ID, &a.EmployeeID, &a.Year, &baseDays, &carryOver, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return leave.YearAccount{}, leave.ErrNotFound
	}
	if err != nil {
		return leave.YearAccount{}, fmt.Errorf("failed to load account: %w", err)
	}
	a.BaseDays = parseDecimal(baseDays)
	a.CarryOver = parseDecimal(carryOver)
	a.CreatedAt = parseTime(createdAt)
	return a, nil
}

func createAccount(ctx context.Context, q querier, a leave.YearAccount) error {
	res, err := q.ExecContext(ctx, `
		INSERT INTO year_accounts (id, employee_id, year, base_days, carry_over, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(employee_id, year) DO NOTHING
	`, a.ID, a.EmployeeID, a.Year, a.BaseDays.String(), a.CarryOver.String(), formatTime(a.CreatedAt))
	if err != nil {
		if isForeignKeyError(err) {
			return leave.ErrNotFound
		}
		return fmt.Errorf("failed to create account: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return leave.ErrConflict
	}
	return nil
}

func updateEntitlement(ctx context.Context, q querier, id leave.AccountID, baseDays, carryOver decimal.Decimal) error {
	res, err := q.ExecContext(ctx,
		`UPDATE year_accounts SET base_days = ?, carry_over = ? WHERE id = ?`,
		baseDays.String(), carryOver.String(), id)
	if err != nil {
		return fmt.Errorf("failed to update entitlement: %w", err)
	}
	return requireOneRow(res)
}

// =============================================================================
// GRANTS, REQUESTS, USAGES (append-only)
// =============================================================================

func (s *Store) AppendGrant(ctx context.Context, g leave.CompGrant) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return appendGrant(ctx, s.db, g)
}

func (s *Store) ListGrants(ctx context.Context, accountID leave.AccountID) ([]leave.CompGrant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return listGrants(ctx, s.db, accountID)
}

// AppendRequest writes the request and its usage links in one transaction.
func (s *Store) AppendRequest(ctx context.Context, r leave.LeaveRequest, usages []leave.CompUsage) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sqlTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer sqlTx.Rollback()

	if err := appendRequest(ctx, sqlTx, r, usages); err != nil {
		return err
	}
	return sqlTx.Commit()
}

func (s *Store) ListRequests(ctx context.Context, accountID leave.AccountID) ([]leave.LeaveRequest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return listRequests(ctx, s.db, accountID)
}

func (s *Store) ListUsages(ctx context.Context, accountID leave.AccountID) ([]leave.CompUsage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return listUsages(ctx, s.db, accountID)
}

func appendGrant(ctx context.Context, q querier, g leave.CompGrant) error {
	_, err := q.ExecContext(ctx, `
		INSERT INTO comp_grants (id, account_id, worked_date, label, amount, memo, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, g.ID, g.AccountID, formatDate(g.WorkedDate), g.Label, g.Amount.String(), g.Memo, formatTime(g.CreatedAt))
	if err != nil {
		if isForeignKeyError(err) {
			return leave.ErrNotFound
		}
		if isUniqueConstraintError(err) {
			return leave.ErrConflict
		}
		return fmt.Errorf("failed to append grant: %w", err)
	}
	return nil
}

func listGrants(ctx context.Context, q querier, accountID leave.AccountID) ([]leave.CompGrant, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT id, account_id, worked_date, label, amount, memo, created_at
		FROM comp_grants
		WHERE account_id = ?
		ORDER BY worked_date ASC, created_at ASC
	`, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to query grants: %w", err)
	}
	defer rows.Close()

	grants := []leave.CompGrant{}
	for rows.Next() {
		var (
			g                             leave.CompGrant
			workedDate, amount, createdAt string
		)
		if err := rows.Scan(&g.ID, &g.AccountID, &workedDate, &g.Label, &amount, &g.Memo, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan grant: %w", err)
		}
		g.WorkedDate = parseDate(workedDate)
		g.Amount = parseDecimal(amount)
		g.CreatedAt = parseTime(createdAt)
		grants = append(grants, g)
	}
	return grants, rows.Err()
}

func appendRequest(ctx context.Context, q querier, r leave.LeaveRequest, usages []leave.CompUsage) error {
	_, err := q.ExecContext(ctx, `
		INSERT INTO leave_requests
		(id, account_id, employee_id, leave_type, start_date, end_date, half_day,
		 reason, used_comp, used_annual, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		r.ID, r.AccountID, r.EmployeeID, r.Type,
		formatDate(r.Start), formatDate(r.End), nullString(string(r.HalfDay)),
		r.Reason, r.UsedComp.String(), r.UsedAnnual.String(), formatTime(r.CreatedAt),
	)
	if err != nil {
		if isForeignKeyError(err) {
			return leave.ErrNotFound
		}
		if isUniqueConstraintError(err) {
			return leave.ErrConflict
		}
		return fmt.Errorf("failed to append request: %w", err)
	}

	for _, u := range usages {
		_, err := q.ExecContext(ctx, `
			INSERT INTO comp_usages (id, request_id, grant_id, amount, created_at)
			VALUES (?, ?, ?, ?, ?)
		`, u.ID, u.RequestID, u.GrantID, u.Amount.String(), formatTime(u.CreatedAt))
		if err != nil {
			if isForeignKeyError(err) {
				return leave.ErrNotFound
			}
			return fmt.Errorf("failed to append comp usage: %w", err)
		}
	}
	return nil
}

func listRequests(ctx context.Context, q querier, accountID leave.AccountID) ([]leave.LeaveRequest, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT id, account_id, employee_id, leave_type, start_date, end_date, half_day,
		       reason, used_comp, used_annual, created_at
		FROM leave_requests
		WHERE account_id = ?
		ORDER BY start_date ASC, created_at ASC
	`, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to query requests: %w", err)
	}
	defer rows.Close()

	requests := []leave.LeaveRequest{}
	for rows.Next() {
		var (
			r                    leave.LeaveRequest
			start, end           string
			halfDay              sql.NullString
			usedComp, usedAnnual string
			createdAt            string
		)
		err := rows.Scan(&r.ID, &r.AccountID, &r.EmployeeID, &r.Type, &start, &end, &halfDay,
			&r.Reason, &usedComp, &usedAnnual, &createdAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan request: %w", err)
		}
		r.Start = parseDate(start)
		r.End = parseDate(end)
		r.HalfDay = leave.HalfDay(halfDay.String)
		r.UsedComp = parseDecimal(usedComp)
		r.UsedAnnual = parseDecimal(usedAnnual)
		r.CreatedAt = parseTime(createdAt)
		requests = append(requests, r)
	}
	return requests, rows.Err()
}

func listUsages(ctx context.Context, q querier, accountID leave.AccountID) ([]leave.CompUsage, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT u.id, u.request_id, u.grant_id, u.amount, u.created_at
		FROM comp_usages u
		JOIN leave_requests r ON r.id = u.request_id
		WHERE r.account_id = ?
		ORDER BY u.created_at ASC, u.id ASC
	`, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to query comp usages: %w", err)
	}
	defer rows.Close()

	usages := []leave.CompUsage{}
	for rows.Next() {
		var (
			u                 leave.CompUsage
			amount, createdAt string
		)
		if err := rows.Scan(&u.ID, &u.RequestID, &u.GrantID, &amount, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan comp usage: %w", err)
		}
		u.Amount = parseDecimal(amount)
		u.CreatedAt = parseTime(createdAt)
		usages = append(usages, u)
	}
	return usages, rows.Err()
}

// =============================================================================
// TRANSACTIONAL STORE (leave.TxStore interface)
// =============================================================================

// WithTx executes a function within a database transaction.
func (s *Store) WithTx(ctx context.Context, fn func(store leave.Store) error) error {
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

// txStore runs every call on the open transaction without touching the
// parent's mutex, which WithTx already holds.
type txStore struct {
	tx *sql.Tx
}

func (ts *txStore) SaveEmployee(ctx context.Context, e leave.Employee) error {
	return saveEmployee(ctx, ts.tx, e)
}

func (ts *txStore) GetEmployee(ctx context.Context, id leave.EmployeeID) (leave.Employee, error) {
	return getEmployee(ctx, ts.tx, id)
}

func (ts *txStore) ListEmployees(ctx context.Context, activeOnly bool) ([]leave.Employee, error) {
	return listEmployees(ctx, ts.tx, activeOnly)
}

func (ts *txStore) FindEmployeesByBirthCode(ctx context.Context, code string) ([]leave.Employee, error) {
	return findEmployeesByBirthCode(ctx, ts.tx, code)
}

func (ts *txStore) SetEmployeeActive(ctx context.Context, id leave.EmployeeID, active bool) error {
	return setEmployeeActive(ctx, ts.tx, id, active)
}

func (ts *txStore) GetAccount(ctx context.Context, employeeID leave.EmployeeID, year int) (leave.YearAccount, error) {
	return getAccount(ctx, ts.tx, employeeID, year)
}

func (ts *txStore) CreateAccount(ctx context.Context, a leave.YearAccount) error {
	return createAccount(ctx, ts.tx, a)
}

func (ts *txStore) UpdateEntitlement(ctx context.Context, id leave.AccountID, baseDays, carryOver decimal.Decimal) error {
	return updateEntitlement(ctx, ts.tx, id, baseDays, carryOver)
}

func (ts *txStore) AppendGrant(ctx context.Context, g leave.CompGrant) error {
	return appendGrant(ctx, ts.tx, g)
}

func (ts *txStore) ListGrants(ctx context.Context, accountID leave.AccountID) ([]leave.CompGrant, error) {
	return listGrants(ctx, ts.tx, accountID)
}

func (ts *txStore) AppendRequest(ctx context.Context, r leave.LeaveRequest, usages []leave.CompUsage) error {
	return appendRequest(ctx, ts.tx, r, usages)
}

func (ts *txStore) ListRequests(ctx context.Context, accountID leave.AccountID) ([]leave.LeaveRequest, error) {
	return listRequests(ctx, ts.tx, accountID)
}

func (ts *txStore) ListUsages(ctx context.Context, accountID leave.AccountID) ([]leave.CompUsage, error) {
	return listUsages(ctx, ts.tx, accountID)
}

// =============================================================================
// HELPERS
// =============================================================================

type scanner interface {
	Scan(dest ...any) error
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func formatDate(t time.Time) string { return t.Format(leave.DateLayout) }

func parseDate(s string) time.Time {
	t, _ := leave.ParseDate(s)
	return t
}

func formatTime(t time.Time) string { return t.UTC().Format(time.RFC3339Nano) }

func parseTime(s string) time.Time {
	t, _ := time.Parse(time.RFC3339Nano, s)
	return t
}

func parseDecimal(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

func requireOneRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return leave.ErrNotFound
	}
	return nil
}

func isUniqueConstraintError(err error) bool {
	var sqliteErr sqlite3.Error
	if !errors.As(err, &sqliteErr) {
		return false
	}
	return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
		sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
}

func isForeignKeyError(err error) bool {
	var sqliteErr sqlite3.Error
	return errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintForeignKey
}
