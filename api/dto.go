/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the leave package's model from the external API contract.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

ENCODING:
  Quantities are decimal.Decimal and serialize as JSON strings ("1.5").
  Requests accept either "1.5" or 1.5. Dates are YYYY-MM-DD strings.

VALIDATION:
  Validation is done by the leave service, not in DTOs. DTOs only parse
  dates; everything else is passed through.

SEE ALSO:
  - handlers.go: Uses these types
  - leave/types.go: Domain types
*/
package api

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/warp/leave-ledger/leave"
)

// =============================================================================
// EMPLOYEES
// =============================================================================

// EmployeeDTO represents an employee in API responses. The birth code is a
// lookup secret and is never returned.
type EmployeeDTO struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Active    bool   `json:"active"`
	CreatedAt string `json:"created_at,omitempty"`
}

// CreateEmployeeRequest is the request to create an employee.
type CreateEmployeeRequest struct {
	Name      string `json:"name"`
	BirthCode string `json:"birth_code"`
}

// =============================================================================
// YEAR ACCOUNTS
// =============================================================================

// AccountDTO is a year account's administrator-set fields.
type AccountDTO struct {
	ID         string          `json:"id"`
	EmployeeID string          `json:"employee_id"`
	Year       int             `json:"year"`
	BaseDays   decimal.Decimal `json:"base_days"`
	CarryOver  decimal.Decimal `json:"carry_over"`
}

// SetEntitlementRequest sets base days and carry-over for a year.
type SetEntitlementRequest struct {
	BaseDays  decimal.Decimal `json:"base_days"`
	CarryOver decimal.Decimal `json:"carry_over"`
}

// SummaryDTO is the aggregated balance view of a year account.
type SummaryDTO struct {
	BaseDays        decimal.Decimal `json:"base_days"`
	CarryOver       decimal.Decimal `json:"carry_over"`
	CompGranted     decimal.Decimal `json:"comp_granted"`
	UsedComp        decimal.Decimal `json:"used_comp"`
	UsedAnnual      decimal.Decimal `json:"used_annual"`
	TotalGranted    decimal.Decimal `json:"total_granted"`
	TotalUsed       decimal.Decimal `json:"total_used"`
	Remaining       decimal.Decimal `json:"remaining"`
	CompRemaining   decimal.Decimal `json:"comp_remaining"`
	AnnualRemaining decimal.Decimal `json:"annual_remaining"`
}

// YearDetailDTO is everything shown on an employee's year page.
type YearDetailDTO struct {
	Employee EmployeeDTO    `json:"employee"`
	Account  AccountDTO     `json:"account"`
	Summary  SummaryDTO     `json:"summary"`
	Requests []RequestDTO   `json:"requests"`
	Grants   []GrantDTO     `json:"grants"`
	Usages   []CompUsageDTO `json:"usages"`
}

// MonthlyUsageDTO totals usage per request start month.
type MonthlyUsageDTO struct {
	EmployeeID string                     `json:"employee_id"`
	Year       int                        `json:"year"`
	Months     map[string]decimal.Decimal `json:"months"`
}

// OverviewRowDTO is one line of the year overview.
type OverviewRowDTO struct {
	Employee EmployeeDTO `json:"employee"`
	Summary  SummaryDTO  `json:"summary"`
}

// =============================================================================
// LEAVE REQUESTS
// =============================================================================

// SubmitRequestDTO is the body of POST /api/employees/{id}/requests.
type SubmitRequestDTO struct {
	Type      string `json:"type"`               // ANNUAL or HALF
	StartDate string `json:"start_date"`         // YYYY-MM-DD
	EndDate   string `json:"end_date,omitempty"` // defaults to start_date
	HalfDay   string `json:"half_day,omitempty"` // AM or PM, HALF only
	Reason    string `json:"reason,omitempty"`
}

// RequestDTO is a persisted request snapshot.
type RequestDTO struct {
	ID         string          `json:"id"`
	AccountID  string          `json:"account_id"`
	EmployeeID string          `json:"employee_id"`
	Type       string          `json:"type"`
	StartDate  string          `json:"start_date"`
	EndDate    string          `json:"end_date"`
	HalfDay    string          `json:"half_day,omitempty"`
	Reason     string          `json:"reason,omitempty"`
	UsedComp   decimal.Decimal `json:"used_comp"`
	UsedAnnual decimal.Decimal `json:"used_annual"`
	Total      decimal.Decimal `json:"total"`
	CreatedAt  string          `json:"created_at"`
}

// =============================================================================
// COMP GRANTS
// =============================================================================

// GrantRequest records comp credit for a worked date.
type GrantRequest struct {
	WorkedDate string          `json:"worked_date"`
	Label      string          `json:"label,omitempty"`
	Amount     decimal.Decimal `json:"amount"`
	Memo       string          `json:"memo,omitempty"`
}

// BulkGrantRequest records the same grant for several employees.
type BulkGrantRequest struct {
	EmployeeIDs []string `json:"employee_ids"`
	GrantRequest
}

// GrantDTO is a grant plus how much of it requests have drawn.
type GrantDTO struct {
	ID         string           `json:"id"`
	AccountID  string           `json:"account_id"`
	WorkedDate string           `json:"worked_date"`
	Label      string           `json:"label,omitempty"`
	Amount     decimal.Decimal  `json:"amount"`
	Memo       string           `json:"memo,omitempty"`
	Used       *decimal.Decimal `json:"used,omitempty"`
	Remaining  *decimal.Decimal `json:"remaining,omitempty"`
}

// CompUsageDTO links part of a request's comp usage to the grant it came from.
type CompUsageDTO struct {
	RequestID string          `json:"request_id"`
	GrantID   string          `json:"grant_id"`
	Amount    decimal.Decimal `json:"amount"`
}

// =============================================================================
// SCENARIOS AND ERRORS
// =============================================================================

// ScenarioDTO represents a demo scenario.
type ScenarioDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// LoadScenarioRequest selects a scenario to load.
type LoadScenarioRequest struct {
	ScenarioID string `json:"scenario_id"`
}

// ErrorResponse is the standard error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Field   string `json:"field,omitempty"`
	Details any    `json:"details,omitempty"`
}

// =============================================================================
// CONVERSION HELPERS
// =============================================================================

func toEmployeeDTO(e leave.Employee) EmployeeDTO {
	dto := EmployeeDTO{ID: string(e.ID), Name: e.Name, Active: e.Active}
	if !e.CreatedAt.IsZero() {
		dto.CreatedAt = e.CreatedAt.Format(time.RFC3339)
	}
	return dto
}

func toAccountDTO(a leave.YearAccount) AccountDTO {
	return AccountDTO{
		ID:         string(a.ID),
		EmployeeID: string(a.EmployeeID),
		Year:       a.Year,
		BaseDays:   a.BaseDays,
		CarryOver:  a.CarryOver,
	}
}

func toSummaryDTO(s leave.Summary) SummaryDTO {
	return SummaryDTO(s)
}

func toRequestDTO(r leave.LeaveRequest) RequestDTO {
	return RequestDTO{
		ID:         string(r.ID),
		AccountID:  string(r.AccountID),
		EmployeeID: string(r.EmployeeID),
		Type:       string(r.Type),
		StartDate:  r.Start.Format(leave.DateLayout),
		EndDate:    r.End.Format(leave.DateLayout),
		HalfDay:    string(r.HalfDay),
		Reason:     r.Reason,
		UsedComp:   r.UsedComp,
		UsedAnnual: r.UsedAnnual,
		Total:      r.Total(),
		CreatedAt:  r.CreatedAt.Format(time.RFC3339),
	}
}

func toGrantDTO(g leave.CompGrant) GrantDTO {
	return GrantDTO{
		ID:         string(g.ID),
		AccountID:  string(g.AccountID),
		WorkedDate: g.WorkedDate.Format(leave.DateLayout),
		Label:      g.Label,
		Amount:     g.Amount,
		Memo:       g.Memo,
	}
}

func toGrantUsageDTO(u leave.GrantUsage) GrantDTO {
	dto := toGrantDTO(u.Grant)
	used, remaining := u.Used, u.Remaining
	dto.Used, dto.Remaining = &used, &remaining
	return dto
}

func toYearDetailDTO(d leave.AccountDetail) YearDetailDTO {
	requests := make([]RequestDTO, len(d.Requests))
	for i, r := range d.Requests {
		requests[i] = toRequestDTO(r)
	}
	grants := make([]GrantDTO, len(d.Grants))
	for i, g := range d.Grants {
		grants[i] = toGrantUsageDTO(g)
	}
	usages := make([]CompUsageDTO, len(d.Usages))
	for i, u := range d.Usages {
		usages[i] = CompUsageDTO{RequestID: string(u.RequestID), GrantID: string(u.GrantID), Amount: u.Amount}
	}
	return YearDetailDTO{
		Employee: toEmployeeDTO(d.Employee),
		Account:  toAccountDTO(d.Account),
		Summary:  toSummaryDTO(d.Summary),
		Requests: requests,
		Grants:   grants,
		Usages:   usages,
	}
}
