/*
service.go - Submission and reporting workflow

PURPOSE:
  Ties the pure rules (quantity.go, ledger.go, deduct.go) to a store.
  This is the only place that reads the current ledger state and turns
  it into a persisted snapshot.

SUBMISSION FLOW:
  1. Normalize + validate the submission (nothing is read yet)
  2. Compute the requested quantity
  3. Check the employee exists and is active
  4. Resolve the (employee, start year) account, creating it if needed
  5. In one store transaction:
     a. load grants, requests and usage links of the account
     b. split the quantity between comp credit and annual leave
     c. attribute the comp part to grants
     d. append the request snapshot and its usage links

CONCURRENCY:
  Only account creation is guarded (see ResolveAccount). Two submissions
  for the same account may both read the same comp balance and both spend
  it; the overlap is tolerated and shows up as a negative balance.
*/
package leave

import (
	"context"
	"io"
	"log/slog"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	maxNameLen   = 50
	maxLabelLen  = 100
	maxMemoLen   = 200
	maxReasonLen = 200
)

// =============================================================================
// SERVICE
// =============================================================================

type Service struct {
	store  TxStore
	logger *slog.Logger
	now    func() time.Time
}

// NewService creates a service over store. A nil logger discards output.
func NewService(store TxStore, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Service{
		store:  store,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// =============================================================================
// EMPLOYEES
// =============================================================================

// CreateEmployee registers an active employee. Names are unique.
func (s *Service) CreateEmployee(ctx context.Context, name, birthCode string) (Employee, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Employee{}, ErrMissingName
	}
	if utf8.RuneCountInString(name) > maxNameLen {
		return Employee{}, &ValidationError{Field: "name", Message: "name too long"}
	}
	birthCode = strings.TrimSpace(birthCode)
	if err := ValidateBirthCode(birthCode); err != nil {
		return Employee{}, err
	}

	emp := Employee{
		ID:        EmployeeID(uuid.NewString()),
		Name:      name,
		BirthCode: birthCode,
		Active:    true,
		CreatedAt: s.now(),
	}
	if err := s.store.SaveEmployee(ctx, emp); err != nil {
		return Employee{}, err
	}
	s.logger.Info("employee created", "employee_id", emp.ID, "name", emp.Name)
	return emp, nil
}

// DeactivateEmployee hides the employee from lookups and new submissions.
// Existing accounts and history stay in place.
func (s *Service) DeactivateEmployee(ctx context.Context, id EmployeeID) error {
	if err := s.store.SetEmployeeActive(ctx, id, false); err != nil {
		return err
	}
	s.logger.Info("employee deactivated", "employee_id", id)
	return nil
}

func (s *Service) GetEmployee(ctx context.Context, id EmployeeID) (Employee, error) {
	return s.store.GetEmployee(ctx, id)
}

func (s *Service) ListEmployees(ctx context.Context, activeOnly bool) ([]Employee, error) {
	return s.store.ListEmployees(ctx, activeOnly)
}

// FindByBirthCode returns the active employees sharing a birth code. More
// than one may match; the caller must let the user pick.
func (s *Service) FindByBirthCode(ctx context.Context, code string) ([]Employee, error) {
	code = strings.TrimSpace(code)
	if err := ValidateBirthCode(code); err != nil {
		return nil, err
	}
	return s.store.FindEmployeesByBirthCode(ctx, code)
}

// =============================================================================
// ACCOUNTS
// =============================================================================

// Account resolves the year account of an existing employee.
func (s *Service) Account(ctx context.Context, id EmployeeID, year int) (YearAccount, error) {
	if _, err := s.store.GetEmployee(ctx, id); err != nil {
		return YearAccount{}, err
	}
	return ResolveAccount(ctx, s.store, id, year)
}

// SetEntitlement sets base days and carry-over for a year.
func (s *Service) SetEntitlement(ctx context.Context, id EmployeeID, year int, baseDays, carryOver decimal.Decimal) (YearAccount, error) {
	if err := ValidateEntitlement(baseDays, carryOver); err != nil {
		return YearAccount{}, err
	}
	acc, err := s.Account(ctx, id, year)
	if err != nil {
		return YearAccount{}, err
	}
	if err := s.store.UpdateEntitlement(ctx, acc.ID, baseDays, carryOver); err != nil {
		return YearAccount{}, err
	}
	acc.BaseDays, acc.CarryOver = baseDays, carryOver
	s.logger.Info("entitlement updated",
		"employee_id", id, "year", year,
		"base_days", baseDays.String(), "carry_over", carryOver.String())
	return acc, nil
}

// OpenYear makes sure every active employee has an account for year.
// It returns how many employees were visited.
func (s *Service) OpenYear(ctx context.Context, year int) (int, error) {
	emps, err := s.store.ListEmployees(ctx, true)
	if err != nil {
		return 0, err
	}
	for _, e := range emps {
		if _, err := ResolveAccount(ctx, s.store, e.ID, year); err != nil {
			return 0, err
		}
	}
	return len(emps), nil
}

// =============================================================================
// COMP GRANTS
// =============================================================================

// GrantInput describes comp credit earned on a worked holiday.
type GrantInput struct {
	WorkedDate time.Time
	Label      string
	Amount     decimal.Decimal
	Memo       string
}

func (in GrantInput) validate() error {
	if in.WorkedDate.IsZero() {
		return &ValidationError{Field: "worked_date", Message: "worked date is required"}
	}
	if err := ValidateGrantAmount(in.Amount); err != nil {
		return err
	}
	if utf8.RuneCountInString(in.Label) > maxLabelLen {
		return &ValidationError{Field: "label", Message: "label too long"}
	}
	if utf8.RuneCountInString(in.Memo) > maxMemoLen {
		return &ValidationError{Field: "memo", Message: "memo too long"}
	}
	return nil
}

// GrantComp records comp credit in the account of the worked date's year.
func (s *Service) GrantComp(ctx context.Context, id EmployeeID, in GrantInput) (CompGrant, error) {
	grants, err := s.BulkGrant(ctx, []EmployeeID{id}, in)
	if err != nil {
		return CompGrant{}, err
	}
	return grants[0], nil
}

// BulkGrant records the same grant for several employees, all or nothing.
func (s *Service) BulkGrant(ctx context.Context, ids []EmployeeID, in GrantInput) ([]CompGrant, error) {
	if len(ids) == 0 {
		return nil, ErrMissingEmployee
	}
	in.Label = strings.TrimSpace(in.Label)
	in.Memo = strings.TrimSpace(in.Memo)
	if err := in.validate(); err != nil {
		return nil, err
	}
	worked := DateOf(in.WorkedDate)

	grants := make([]CompGrant, 0, len(ids))
	seen := make(map[EmployeeID]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true

		emp, err := s.store.GetEmployee(ctx, id)
		if err != nil {
			return nil, err
		}
		if !emp.Active {
			return nil, ErrInactiveEmployee
		}
		acc, err := ResolveAccount(ctx, s.store, id, worked.Year())
		if err != nil {
			return nil, err
		}
		grants = append(grants, CompGrant{
			ID:         GrantID(uuid.NewString()),
			AccountID:  acc.ID,
			WorkedDate: worked,
			Label:      in.Label,
			Amount:     in.Amount,
			Memo:       in.Memo,
			CreatedAt:  s.now(),
		})
	}

	err := s.store.WithTx(ctx, func(tx Store) error {
		for _, g := range grants {
			if err := tx.AppendGrant(ctx, g); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("comp credit granted",
		"employees", len(grants), "worked_date", worked.Format(DateLayout),
		"amount", in.Amount.String(), "label", in.Label)
	return grants, nil
}

// =============================================================================
// LEAVE REQUESTS
// =============================================================================

// Submission is a leave request as entered by the employee.
type Submission struct {
	EmployeeID EmployeeID
	Type       LeaveType
	Start      time.Time
	End        time.Time // zero means same as Start
	HalfDay    HalfDay
	Reason     string
}

// Normalize validates the raw dates and returns the canonical form:
// HALF requests end on their start day, ANNUAL requests carry no half-day.
func (sub Submission) Normalize() (Submission, error) {
	if sub.EmployeeID == "" {
		return sub, ErrMissingEmployee
	}
	if !sub.Type.Valid() {
		return sub, ErrUnknownType
	}
	if sub.Start.IsZero() {
		return sub, ErrMissingStart
	}
	sub.Start = DateOf(sub.Start)
	if sub.End.IsZero() {
		sub.End = sub.Start
	}
	sub.End = DateOf(sub.End)
	if sub.End.Before(sub.Start) {
		return sub, ErrEndBeforeStart
	}

	switch sub.Type {
	case TypeHalf:
		sub.End = sub.Start
	case TypeAnnual:
		sub.HalfDay = HalfDayNone
	}

	sub.Reason = strings.TrimSpace(sub.Reason)
	if utf8.RuneCountInString(sub.Reason) > maxReasonLen {
		return sub, &ValidationError{Field: "reason", Message: "reason too long"}
	}
	return sub, nil
}

// Submit validates a submission, splits it across comp credit and annual
// leave, and persists the result as an immutable snapshot.
func (s *Service) Submit(ctx context.Context, raw Submission) (LeaveRequest, error) {
	sub, err := raw.Normalize()
	if err != nil {
		return LeaveRequest{}, err
	}
	qty, err := RequestedQuantity(sub.Type, sub.Start, sub.End, sub.HalfDay)
	if err != nil {
		return LeaveRequest{}, err
	}

	emp, err := s.store.GetEmployee(ctx, sub.EmployeeID)
	if err != nil {
		return LeaveRequest{}, err
	}
	if !emp.Active {
		return LeaveRequest{}, ErrInactiveEmployee
	}

	acc, err := ResolveAccount(ctx, s.store, emp.ID, sub.Start.Year())
	if err != nil {
		return LeaveRequest{}, err
	}

	var req LeaveRequest
	var compBefore decimal.Decimal
	err = s.store.WithTx(ctx, func(tx Store) error {
		ledger, err := LoadLedger(ctx, tx, acc)
		if err != nil {
			return err
		}
		prior, err := tx.ListUsages(ctx, acc.ID)
		if err != nil {
			return err
		}

		compBefore = ledger.CompBalance()
		d := ledger.AutoDeduct(sub.Type, qty)
		now := s.now()
		req = LeaveRequest{
			ID:         RequestID(uuid.NewString()),
			AccountID:  acc.ID,
			EmployeeID: emp.ID,
			Type:       sub.Type,
			Start:      sub.Start,
			End:        sub.End,
			HalfDay:    sub.HalfDay,
			Reason:     sub.Reason,
			UsedComp:   d.UsedComp,
			UsedAnnual: d.UsedAnnual,
			CreatedAt:  now,
		}

		links := Attribute(ledger.Grants, prior, req.ID, d.UsedComp)
		for i := range links {
			links[i].ID = uuid.NewString()
			links[i].CreatedAt = now
		}
		return tx.AppendRequest(ctx, req, links)
	})
	if err != nil {
		return LeaveRequest{}, err
	}

	s.logger.Info("leave request created",
		"request_id", req.ID,
		"employee_id", emp.ID,
		"year", acc.Year,
		"type", req.Type,
		"start", req.Start.Format(DateLayout),
		"end", req.End.Format(DateLayout),
		"requested", qty.String(),
		"comp_balance_before", compBefore.String(),
		"used_comp", req.UsedComp.String(),
		"used_annual", req.UsedAnnual.String(),
	)
	return req, nil
}

// =============================================================================
// REPORTING
// =============================================================================

// YearSummary aggregates an employee's account for year.
func (s *Service) YearSummary(ctx context.Context, id EmployeeID, year int) (Summary, error) {
	ledger, err := s.ledger(ctx, id, year)
	if err != nil {
		return Summary{}, err
	}
	return ledger.Summary(), nil
}

// MonthlyUsage totals usage per "YYYY-MM" of request start dates.
func (s *Service) MonthlyUsage(ctx context.Context, id EmployeeID, year int) (map[string]decimal.Decimal, error) {
	ledger, err := s.ledger(ctx, id, year)
	if err != nil {
		return nil, err
	}
	return ledger.MonthlyUsage(), nil
}

// AccountDetail is everything shown on an employee's year page.
type AccountDetail struct {
	Employee Employee
	Account  YearAccount
	Summary  Summary
	Requests []LeaveRequest
	Grants   []GrantUsage
	Usages   []CompUsage
}

func (s *Service) AccountDetail(ctx context.Context, id EmployeeID, year int) (AccountDetail, error) {
	emp, err := s.store.GetEmployee(ctx, id)
	if err != nil {
		return AccountDetail{}, err
	}
	acc, err := ResolveAccount(ctx, s.store, id, year)
	if err != nil {
		return AccountDetail{}, err
	}
	ledger, err := LoadLedger(ctx, s.store, acc)
	if err != nil {
		return AccountDetail{}, err
	}
	usages, err := s.store.ListUsages(ctx, acc.ID)
	if err != nil {
		return AccountDetail{}, err
	}
	return AccountDetail{
		Employee: emp,
		Account:  acc,
		Summary:  ledger.Summary(),
		Requests: ledger.Requests,
		Grants:   UsageByGrant(ledger.Grants, usages),
		Usages:   usages,
	}, nil
}

// EmployeeSummary is one row of a year overview.
type EmployeeSummary struct {
	Employee Employee
	Account  YearAccount
	Summary  Summary
}

// YearOverview summarizes every active employee for year, by name.
// Missing accounts are created with zero defaults on the way.
func (s *Service) YearOverview(ctx context.Context, year int) ([]EmployeeSummary, error) {
	if err := ValidateYear(year); err != nil {
		return nil, err
	}
	emps, err := s.store.ListEmployees(ctx, true)
	if err != nil {
		return nil, err
	}
	rows := make([]EmployeeSummary, 0, len(emps))
	for _, e := range emps {
		acc, err := ResolveAccount(ctx, s.store, e.ID, year)
		if err != nil {
			return nil, err
		}
		ledger, err := LoadLedger(ctx, s.store, acc)
		if err != nil {
			return nil, err
		}
		rows = append(rows, EmployeeSummary{Employee: e, Account: acc, Summary: ledger.Summary()})
	}
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Employee.Name < rows[j].Employee.Name })
	return rows, nil
}

func (s *Service) ledger(ctx context.Context, id EmployeeID, year int) (Ledger, error) {
	acc, err := s.Account(ctx, id, year)
	if err != nil {
		return Ledger{}, err
	}
	return LoadLedger(ctx, s.store, acc)
}
