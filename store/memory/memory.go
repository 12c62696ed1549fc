// Package memory provides an in-memory leave.TxStore for tests and local runs.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/shopspring/decimal"
	"github.com/warp/leave-ledger/leave"
)

// =============================================================================
// MEMORY STORE
// =============================================================================

// Memory keeps everything in maps behind a single RWMutex.
type Memory struct {
	mu sync.RWMutex
	st *state
}

type accountKey struct {
	EmployeeID leave.EmployeeID
	Year       int
}

type state struct {
	employees map[leave.EmployeeID]leave.Employee
	accounts  map[accountKey]leave.YearAccount
	grants    map[leave.AccountID][]leave.CompGrant
	requests  map[leave.AccountID][]leave.LeaveRequest
	usages    map[leave.AccountID][]leave.CompUsage
}

func newState() *state {
	return &state{
		employees: make(map[leave.EmployeeID]leave.Employee),
		accounts:  make(map[accountKey]leave.YearAccount),
		grants:    make(map[leave.AccountID][]leave.CompGrant),
		requests:  make(map[leave.AccountID][]leave.LeaveRequest),
		usages:    make(map[leave.AccountID][]leave.CompUsage),
	}
}

var _ leave.TxStore = (*Memory)(nil)

func New() *Memory {
	return &Memory{st: newState()}
}

// Reset drops all data.
func (m *Memory) Reset(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.st = newState()
	return nil
}

// =============================================================================
// LOCKED ENTRY POINTS
// =============================================================================

func (m *Memory) SaveEmployee(_ context.Context, e leave.Employee) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.st.saveEmployee(e)
}

func (m *Memory) GetEmployee(_ context.Context, id leave.EmployeeID) (leave.Employee, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.st.getEmployee(id)
}

func (m *Memory) ListEmployees(_ context.Context, activeOnly bool) ([]leave.Employee, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.st.listEmployees(func(e leave.Employee) bool { return !activeOnly || e.Active }), nil
}

func (m *Memory) FindEmployeesByBirthCode(_ context.Context, code string) ([]leave.Employee, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.st.listEmployees(func(e leave.Employee) bool { return e.Active && e.BirthCode == code }), nil
}

func (m *Memory) SetEmployeeActive(_ context.Context, id leave.EmployeeID, active bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.st.setEmployeeActive(id, active)
}

func (m *Memory) GetAccount(_ context.Context, employeeID leave.EmployeeID, year int) (leave.YearAccount, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.st.getAccount(employeeID, year)
}

func (m *Memory) CreateAccount(_ context.Context, a leave.YearAccount) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.st.createAccount(a)
}

func (m *Memory) UpdateEntitlement(_ context.Context, id leave.AccountID, baseDays, carryOver decimal.Decimal) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.st.updateEntitlement(id, baseDays, carryOver)
}

func (m *Memory) AppendGrant(_ context.Context, g leave.CompGrant) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.st.appendGrant(g)
}

func (m *Memory) ListGrants(_ context.Context, accountID leave.AccountID) ([]leave.CompGrant, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.st.listGrants(accountID), nil
}

func (m *Memory) AppendRequest(_ context.Context, r leave.LeaveRequest, usages []leave.CompUsage) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.st.appendRequest(r, usages)
}

func (m *Memory) ListRequests(_ context.Context, accountID leave.AccountID) ([]leave.LeaveRequest, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.st.listRequests(accountID), nil
}

func (m *Memory) ListUsages(_ context.Context, accountID leave.AccountID) ([]leave.CompUsage, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]leave.CompUsage(nil), m.st.usages[accountID]...), nil
}

// =============================================================================
// TRANSACTIONS
// =============================================================================

// WithTx executes fn while holding the write lock.
// Writes go to a copy of the state that replaces the original only when fn
// succeeds.
func (m *Memory) WithTx(_ context.Context, fn func(leave.Store) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	work := m.st.clone()
	if err := fn(&view{st: work}); err != nil {
		return err
	}
	m.st = work
	return nil
}

// view is the unlocked Store handed to WithTx callbacks.
type view struct {
	st *state
}

func (v *view) SaveEmployee(_ context.Context, e leave.Employee) error { return v.st.saveEmployee(e) }

func (v *view) GetEmployee(_ context.Context, id leave.EmployeeID) (leave.Employee, error) {
	return v.st.getEmployee(id)
}

func (v *view) ListEmployees(_ context.Context, activeOnly bool) ([]leave.Employee, error) {
	return v.st.listEmployees(func(e leave.Employee) bool { return !activeOnly || e.Active }), nil
}

func (v *view) FindEmployeesByBirthCode(_ context.Context, code string) ([]leave.Employee, error) {
	return v.st.listEmployees(func(e leave.Employee) bool { return e.Active && e.BirthCode == code }), nil
}

func (v *view) SetEmployeeActive(_ context.Context, id leave.EmployeeID, active bool) error {
	return v.st.setEmployeeActive(id, active)
}

func (v *view) GetAccount(_ context.Context, employeeID leave.EmployeeID, year int) (leave.YearAccount, error) {
	return v.st.getAccount(employeeID, year)
}

func (v *view) CreateAccount(_ context.Context, a leave.YearAccount) error { return v.st.createAccount(a) }

func (v *view) UpdateEntitlement(_ context.Context, id leave.AccountID, baseDays, carryOver decimal.Decimal) error {
	return v.st.updateEntitlement(id, baseDays, carryOver)
}

func (v *view) AppendGrant(_ context.Context, g leave.CompGrant) error { return v.st.appendGrant(g) }

func (v *view) ListGrants(_ context.Context, accountID leave.AccountID) ([]leave.CompGrant, error) {
	return v.st.listGrants(accountID), nil
}

func (v *view) AppendRequest(_ context.Context, r leave.LeaveRequest, usages []leave.CompUsage) error {
	return v.st.appendRequest(r, usages)
}

func (v *view) ListRequests(_ context.Context, accountID leave.AccountID) ([]leave.LeaveRequest, error) {
	return v.st.listRequests(accountID), nil
}

func (v *view) ListUsages(_ context.Context, accountID leave.AccountID) ([]leave.CompUsage, error) {
	return append([]leave.CompUsage(nil), v.st.usages[accountID]...), nil
}

// =============================================================================
// STATE (callers hold the lock)
// =============================================================================

func (s *state) clone() *state {
	c := newState()
	for k, v := range s.employees {
		c.employees[k] = v
	}
	for k, v := range s.accounts {
		c.accounts[k] = v
	}
	for k, v := range s.grants {
		c.grants[k] = append([]leave.CompGrant(nil), v...)
	}
	for k, v := range s.requests {
		c.requests[k] = append([]leave.LeaveRequest(nil), v...)
	}
	for k, v := range s.usages {
		c.usages[k] = append([]leave.CompUsage(nil), v...)
	}
	return c
}

func (s *state) saveEmployee(e leave.Employee) error {
	if _, ok := s.employees[e.ID]; ok {
		return leave.ErrConflict
	}
	for _, other := range s.employees {
		if other.Name == e.Name {
			return leave.ErrConflict
		}
	}
	s.employees[e.ID] = e
	return nil
}

func (s *state) getEmployee(id leave.EmployeeID) (leave.Employee, error) {
	e, ok := s.employees[id]
	if !ok {
		return leave.Employee{}, leave.ErrNotFound
	}
	return e, nil
}

func (s *state) listEmployees(keep func(leave.Employee) bool) []leave.Employee {
	out := make([]leave.Employee, 0, len(s.employees))
	for _, e := range s.employees {
		if keep(e) {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func (s *state) setEmployeeActive(id leave.EmployeeID, active bool) error {
	e, ok := s.employees[id]
	if !ok {
		return leave.ErrNotFound
	}
	e.Active = active
	s.employees[id] = e
	return nil
}

func (s *state) getAccount(employeeID leave.EmployeeID, year int) (leave.YearAccount, error) {
	a, ok := s.accounts[accountKey{employeeID, year}]
	if !ok {
		return leave.YearAccount{}, leave.ErrNotFound
	}
	return a, nil
}

func (s *state) createAccount(a leave.YearAccount) error {
	k := accountKey{a.EmployeeID, a.Year}
	if _, ok := s.accounts[k]; ok {
		return leave.ErrConflict
	}
	s.accounts[k] = a
	return nil
}

func (s *state) updateEntitlement(id leave.AccountID, baseDays, carryOver decimal.Decimal) error {
	for k, a := range s.accounts {
		if a.ID == id {
			a.BaseDays, a.CarryOver = baseDays, carryOver
			s.accounts[k] = a
			return nil
		}
	}
	return leave.ErrNotFound
}

func (s *state) hasAccount(id leave.AccountID) bool {
	for _, a := range s.accounts {
		if a.ID == id {
			return true
		}
	}
	return false
}

func (s *state) appendGrant(g leave.CompGrant) error {
	if !s.hasAccount(g.AccountID) {
		return leave.ErrNotFound
	}
	s.grants[g.AccountID] = append(s.grants[g.AccountID], g)
	return nil
}

func (s *state) listGrants(accountID leave.AccountID) []leave.CompGrant {
	out := append([]leave.CompGrant(nil), s.grants[accountID]...)
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].WorkedDate.Equal(out[j].WorkedDate) {
			return out[i].WorkedDate.Before(out[j].WorkedDate)
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

func (s *state) appendRequest(r leave.LeaveRequest, usages []leave.CompUsage) error {
	if !s.hasAccount(r.AccountID) {
		return leave.ErrNotFound
	}
	s.requests[r.AccountID] = append(s.requests[r.AccountID], r)
	s.usages[r.AccountID] = append(s.usages[r.AccountID], usages...)
	return nil
}

func (s *state) listRequests(accountID leave.AccountID) []leave.LeaveRequest {
	out := append([]leave.LeaveRequest(nil), s.requests[accountID]...)
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].Start.Equal(out[j].Start) {
			return out[i].Start.Before(out[j].Start)
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}
