// Package postgres provides a pgx-backed leave.TxStore for multi-instance
// deployments. The schema mirrors store/sqlite; quantities are NUMERIC(6,1)
// columns and travel as text so no float conversion ever happens.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/warp/leave-ledger/leave"
)

const schema = `
create table if not exists employees (
    id text primary key,
    name text not null unique,
    birth_code text not null,
    active boolean not null default true,
    created_at timestamptz not null
);

create index if not exists idx_employees_birth_code on employees(birth_code) where active;

create table if not exists year_accounts (
    id text primary key,
    employee_id text not null references employees(id) on delete cascade,
    year integer not null,
    base_days numeric(6,1) not null default 0,
    carry_over numeric(6,1) not null default 0,
    created_at timestamptz not null,
    unique (employee_id, year)
);

create table if not exists comp_grants (
    id text primary key,
    account_id text not null references year_accounts(id) on delete cascade,
    worked_date date not null,
    label text not null default '',
    amount numeric(4,1) not null,
    memo text not null default '',
    created_at timestamptz not null
);

create index if not exists idx_comp_grants_account on comp_grants(account_id, worked_date);

create table if not exists leave_requests (
    id text primary key,
    account_id text not null references year_accounts(id) on delete cascade,
    employee_id text not null references employees(id) on delete cascade,
    leave_type text not null,
    start_date date not null,
    end_date date not null,
    half_day text,
    reason text not null default '',
    used_comp numeric(6,1) not null,
    used_annual numeric(6,1) not null,
    created_at timestamptz not null
);

create index if not exists idx_leave_requests_account on leave_requests(account_id, start_date);
create index if not exists idx_leave_requests_employee_start on leave_requests(employee_id, start_date);

create table if not exists comp_usages (
    id text primary key,
    request_id text not null references leave_requests(id) on delete cascade,
    grant_id text not null references comp_grants(id) on delete cascade,
    amount numeric(6,1) not null,
    created_at timestamptz not null
);

create index if not exists idx_comp_usages_request on comp_usages(request_id);
`

// Store holds a pgx connection pool. All methods are safe for concurrent use.
type Store struct {
	pool *pgxpool.Pool
}

var _ leave.TxStore = (*Store)(nil)

// dbtx is satisfied by both *pgxpool.Pool and pgx.Tx.
type dbtx interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Open establishes a pgx pool using the provided connection string and
// creates the schema when missing.
func Open(ctx context.Context, dsn string) (*Store, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, err
	}
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	if _, err := pool.Exec(ctx, schema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return &Store{pool: pool}, nil
}

// Close releases the underlying pool.
func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// Ready pings the pool to verify connectivity.
func (s *Store) Ready(ctx context.Context) error { return s.pool.Ping(ctx) }

// Reset truncates every table.
func (s *Store) Reset(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `truncate comp_usages, leave_requests, comp_grants, year_accounts, employees`)
	return err
}

// WithTx runs fn inside a single database transaction.
func (s *Store) WithTx(ctx context.Context, fn func(leave.Store) error) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(queries{db: tx}); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (s *Store) q() queries { return queries{db: s.pool} }

// --- leave.Store on the pool ---

func (s *Store) SaveEmployee(ctx context.Context, e leave.Employee) error {
	return s.q().SaveEmployee(ctx, e)
}

func (s *Store) GetEmployee(ctx context.Context, id leave.EmployeeID) (leave.Employee, error) {
	return s.q().GetEmployee(ctx, id)
}

func (s *Store) ListEmployees(ctx context.Context, activeOnly bool) ([]leave.Employee, error) {
	return s.q().ListEmployees(ctx, activeOnly)
}

func (s *Store) FindEmployeesByBirthCode(ctx context.Context, code string) ([]leave.Employee, error) {
	return s.q().FindEmployeesByBirthCode(ctx, code)
}

func (s *Store) SetEmployeeActive(ctx context.Context, id leave.EmployeeID, active bool) error {
	return s.q().SetEmployeeActive(ctx, id, active)
}

func (s *Store) GetAccount(ctx context.Context, employeeID leave.EmployeeID, year int) (leave.YearAccount, error) {
	return s.q().GetAccount(ctx, employeeID, year)
}

func (s *Store) CreateAccount(ctx context.Context, a leave.YearAccount) error {
	return s.q().CreateAccount(ctx, a)
}

func (s *Store) UpdateEntitlement(ctx context.Context, id leave.AccountID, baseDays, carryOver decimal.Decimal) error {
	return s.q().UpdateEntitlement(ctx, id, baseDays, carryOver)
}

func (s *Store) AppendGrant(ctx context.Context, g leave.CompGrant) error {
	return s.q().AppendGrant(ctx, g)
}

func (s *Store) ListGrants(ctx context.Context, accountID leave.AccountID) ([]leave.CompGrant, error) {
	return s.q().ListGrants(ctx, accountID)
}

// AppendRequest writes the request and its usage links atomically.
func (s *Store) AppendRequest(ctx context.Context, r leave.LeaveRequest, usages []leave.CompUsage) error {
	return s.WithTx(ctx, func(tx leave.Store) error {
		return tx.AppendRequest(ctx, r, usages)
	})
}

func (s *Store) ListRequests(ctx context.Context, accountID leave.AccountID) ([]leave.LeaveRequest, error) {
	return s.q().ListRequests(ctx, accountID)
}

func (s *Store) ListUsages(ctx context.Context, accountID leave.AccountID) ([]leave.CompUsage, error) {
	return s.q().ListUsages(ctx, accountID)
}

// --- queries ---

// queries implements leave.Store against either the pool or a transaction.
type queries struct {
	db dbtx
}

func (q queries) SaveEmployee(ctx context.Context, e leave.Employee) error {
	_, err := q.db.Exec(ctx, `
        insert into employees (id, name, birth_code, active, created_at)
        values ($1, $2, $3, $4, $5)
    `, string(e.ID), e.Name, e.BirthCode, e.Active, e.CreatedAt)
	return mapErr(err)
}

func (q queries) GetEmployee(ctx context.Context, id leave.EmployeeID) (leave.Employee, error) {
	var e leave.Employee
	err := q.db.QueryRow(ctx, `
        select id, name, birth_code, active, created_at
        from employees
        where id = $1
    `, string(id)).Scan(&e.ID, &e.Name, &e.BirthCode, &e.Active, &e.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return leave.Employee{}, leave.ErrNotFound
	}
	return e, err
}

func (q queries) ListEmployees(ctx context.Context, activeOnly bool) ([]leave.Employee, error) {
	return q.employees(ctx, `
        select id, name, birth_code, active, created_at
        from employees
        where active or not $1
        order by name
    `, activeOnly)
}

func (q queries) FindEmployeesByBirthCode(ctx context.Context, code string) ([]leave.Employee, error) {
	return q.employees(ctx, `
        select id, name, birth_code, active, created_at
        from employees
        where active and birth_code = $1
        order by name
    `, code)
}

func (q queries) employees(ctx context.Context, sql string, args ...any) ([]leave.Employee, error) {
	rows, err := q.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]leave.Employee, 0)
	for rows.Next() {
		var e leave.Employee
		if err := rows.Scan(&e.ID, &e.Name, &e.BirthCode, &e.Active, &e.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (q queries) SetEmployeeActive(ctx context.Context, id leave.EmployeeID, active bool) error {
	tag, err := q.db.Exec(ctx, `update employees set active = $2 where id = $1`, string(id), active)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return leave.ErrNotFound
	}
	return nil
}

func (q queries) GetAccount(ctx context.Context, employeeID leave.EmployeeID, year int) (leave.YearAccount, error) {
	var (
		a                   leave.YearAccount
		baseDays, carryOver string
	)
	err := q.db.QueryRow(ctx, `
        select id, employee_id, year, base_days::text, carry_over::text, created_at
        from year_accounts
        where employee_id = $1 and year = $2
    `, string(employeeID), year).Scan(&a.ID, &a.EmployeeID, &a.Year, &baseDays, &carryOver, &a.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return leave.YearAccount{}, leave.ErrNotFound
	}
	if err != nil {
		return leave.YearAccount{}, err
	}
	a.BaseDays = parseDecimal(baseDays)
	a.CarryOver = parseDecimal(carryOver)
	return a, nil
}

func (q queries) CreateAccount(ctx context.Context, a leave.YearAccount) error {
	tag, err := q.db.Exec(ctx, `
        insert into year_accounts (id, employee_id, year, base_days, carry_over, created_at)
        values ($1, $2, $3, $4::numeric, $5::numeric, $6)
        on conflict (employee_id, year) do nothing
    `, string(a.ID), string(a.EmployeeID), a.Year, a.BaseDays.String(), a.CarryOver.String(), a.CreatedAt)
	if err != nil {
		return mapErr(err)
	}
	if tag.RowsAffected() == 0 {
		return leave.ErrConflict
	}
	return nil
}

func (q queries) UpdateEntitlement(ctx context.Context, id leave.AccountID, baseDays, carryOver decimal.Decimal) error {
	tag, err := q.db.Exec(ctx, `
        update year_accounts set base_days = $2::numeric, carry_over = $3::numeric
        where id = $1
    `, string(id), baseDays.String(), carryOver.String())
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return leave.ErrNotFound
	}
	return nil
}

func (q queries) AppendGrant(ctx context.Context, g leave.CompGrant) error {
	_, err := q.db.Exec(ctx, `
        insert into comp_grants (id, account_id, worked_date, label, amount, memo, created_at)
        values ($1, $2, $3, $4, $5::numeric, $6, $7)
    `, string(g.ID), string(g.AccountID), g.WorkedDate, g.Label, g.Amount.String(), g.Memo, g.CreatedAt)
	return mapErr(err)
}

func (q queries) ListGrants(ctx context.Context, accountID leave.AccountID) ([]leave.CompGrant, error) {
	rows, err := q.db.Query(ctx, `
        select id, account_id, worked_date, label, amount::text, memo, created_at
        from comp_grants
        where account_id = $1
        order by worked_date, created_at
    `, string(accountID))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]leave.CompGrant, 0)
	for rows.Next() {
		var (
			g      leave.CompGrant
			amount string
		)
		if err := rows.Scan(&g.ID, &g.AccountID, &g.WorkedDate, &g.Label, &amount, &g.Memo, &g.CreatedAt); err != nil {
			return nil, err
		}
		g.WorkedDate = leave.DateOf(g.WorkedDate)
		g.Amount = parseDecimal(amount)
		out = append(out, g)
	}
	return out, rows.Err()
}

func (q queries) AppendRequest(ctx context.Context, r leave.LeaveRequest, usages []leave.CompUsage) error {
	var halfDay *string
	if r.HalfDay != leave.HalfDayNone {
		hd := string(r.HalfDay)
		halfDay = &hd
	}
	_, err := q.db.Exec(ctx, `
        insert into leave_requests
            (id, account_id, employee_id, leave_type, start_date, end_date, half_day,
             reason, used_comp, used_annual, created_at)
        values ($1, $2, $3, $4, $5, $6, $7, $8, $9::numeric, $10::numeric, $11)
    `, string(r.ID), string(r.AccountID), string(r.EmployeeID), string(r.Type), r.Start, r.End, halfDay,
		r.Reason, r.UsedComp.String(), r.UsedAnnual.String(), r.CreatedAt)
	if err != nil {
		return mapErr(err)
	}
	for _, u := range usages {
		_, err := q.db.Exec(ctx, `
            insert into comp_usages (id, request_id, grant_id, amount, created_at)
            values ($1, $2, $3, $4::numeric, $5)
        `, u.ID, string(u.RequestID), string(u.GrantID), u.Amount.String(), u.CreatedAt)
		if err != nil {
			return mapErr(err)
		}
	}
	return nil
}

func (q queries) ListRequests(ctx context.Context, accountID leave.AccountID) ([]leave.LeaveRequest, error) {
	rows, err := q.db.Query(ctx, `
        select id, account_id, employee_id, leave_type, start_date, end_date,
               coalesce(half_day, ''), reason, used_comp::text, used_annual::text, created_at
        from leave_requests
        where account_id = $1
        order by start_date, created_at
    `, string(accountID))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]leave.LeaveRequest, 0)
	for rows.Next() {
		var (
			r                    leave.LeaveRequest
			usedComp, usedAnnual string
		)
		err := rows.Scan(&r.ID, &r.AccountID, &r.EmployeeID, &r.Type, &r.Start, &r.End,
			&r.HalfDay, &r.Reason, &usedComp, &usedAnnual, &r.CreatedAt)
		if err != nil {
			return nil, err
		}
		r.Start, r.End = leave.DateOf(r.Start), leave.DateOf(r.End)
		r.UsedComp = parseDecimal(usedComp)
		r.UsedAnnual = parseDecimal(usedAnnual)
		out = append(out, r)
	}
	return out, rows.Err()
}

func (q queries) ListUsages(ctx context.Context, accountID leave.AccountID) ([]leave.CompUsage, error) {
	rows, err := q.db.Query(ctx, `
        select u.id, u.request_id, u.grant_id, u.amount::text, u.created_at
        from comp_usages u
        join leave_requests r on r.id = u.request_id
        where r.account_id = $1
        order by u.created_at, u.id
    `, string(accountID))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]leave.CompUsage, 0)
	for rows.Next() {
		var (
			u      leave.CompUsage
			amount string
		)
		if err := rows.Scan(&u.ID, &u.RequestID, &u.GrantID, &amount, &u.CreatedAt); err != nil {
			return nil, err
		}
		u.Amount = parseDecimal(amount)
		out = append(out, u)
	}
	return out, rows.Err()
}

// --- helpers ---

func parseDecimal(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// mapErr translates Postgres constraint violations into leave sentinels.
func mapErr(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505": // unique_violation
			return leave.ErrConflict
		case "23503": // foreign_key_violation
			return leave.ErrNotFound
		}
	}
	return err
}
