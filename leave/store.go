/*
store.go - Persistence interfaces consumed by the leave engine

PURPOSE:
  Defines what the engine needs from a database. Implementations live in
  store/memory, store/sqlite and store/postgres.

APPEND-ONLY CONTRACT:
  Grants and requests are append-only. There is no Update or Delete for
  either; request snapshots are the historical record and are never
  recalculated.

UNIQUENESS:
  CreateAccount must enforce (EmployeeID, Year) uniqueness atomically and
  report a duplicate as ErrConflict. ResolveAccount relies on that to stay
  race-free without any locking of its own.

ERRORS:
  Get* methods return ErrNotFound for missing rows.
  Unique violations are reported as ErrConflict.
*/
package leave

import (
	"context"

	"github.com/shopspring/decimal"
)

// EmployeeStore persists the employee registry.
type EmployeeStore interface {
	// SaveEmployee inserts a new employee. Duplicate names are ErrConflict.
	SaveEmployee(ctx context.Context, e Employee) error
	GetEmployee(ctx context.Context, id EmployeeID) (Employee, error)
	// ListEmployees returns employees ordered by name.
	ListEmployees(ctx context.Context, activeOnly bool) ([]Employee, error)
	// FindEmployeesByBirthCode returns active employees with the code, by name.
	FindEmployeesByBirthCode(ctx context.Context, code string) ([]Employee, error)
	SetEmployeeActive(ctx context.Context, id EmployeeID, active bool) error
}

// AccountStore persists year accounts.
type AccountStore interface {
	GetAccount(ctx context.Context, employeeID EmployeeID, year int) (YearAccount, error)
	// CreateAccount inserts an account. An existing (employee, year) pair is
	// ErrConflict and leaves the stored account untouched.
	CreateAccount(ctx context.Context, a YearAccount) error
	UpdateEntitlement(ctx context.Context, id AccountID, baseDays, carryOver decimal.Decimal) error
}

// LedgerStore persists grants, request snapshots and usage links.
type LedgerStore interface {
	AppendGrant(ctx context.Context, g CompGrant) error
	// ListGrants returns an account's grants by worked date, then creation.
	ListGrants(ctx context.Context, accountID AccountID) ([]CompGrant, error)

	// AppendRequest stores a request and its usage links together.
	AppendRequest(ctx context.Context, r LeaveRequest, usages []CompUsage) error
	// ListRequests returns an account's requests by start date, then creation.
	ListRequests(ctx context.Context, accountID AccountID) ([]LeaveRequest, error)
	// ListUsages returns usage links of every request on the account.
	ListUsages(ctx context.Context, accountID AccountID) ([]CompUsage, error)
}

// Store is everything the engine reads and writes.
type Store interface {
	EmployeeStore
	AccountStore
	LedgerStore
}

// TxStore wraps Store with transaction support.
type TxStore interface {
	Store

	// WithTx executes fn within a transaction.
	// If fn returns an error, every write made through the Store passed to fn
	// is rolled back.
	WithTx(ctx context.Context, fn func(Store) error) error
}

// LoadLedger reads every fact of an account.
func LoadLedger(ctx context.Context, s LedgerStore, account YearAccount) (Ledger, error) {
	grants, err := s.ListGrants(ctx, account.ID)
	if err != nil {
		return Ledger{}, err
	}
	requests, err := s.ListRequests(ctx, account.ID)
	if err != nil {
		return Ledger{}, err
	}
	return Ledger{Account: account, Grants: grants, Requests: requests}, nil
}
