/*
Package leave implements paid-leave balance accounting for employees.

PURPOSE:
  Tracks two entitlement pools per employee and calendar year:
  - Annual leave: administrator-set base days plus a signed carry-over
  - Comp credit:  days earned by working a holiday, granted in 0.5 steps

  Every leave request is split across the two pools exactly once, at
  creation time, and the split is stored on the request as an immutable
  snapshot. Balances are always recomputed from stored grants and
  snapshots; there is no running counter.

KEY CONCEPTS IN THIS FILE (types.go):
  - Employee:     Person who takes leave, identified by a unique name
  - YearAccount:  Ledger scope for one employee in one calendar year
  - CompGrant:    Comp credit earned on a worked date
  - LeaveRequest: A request plus its UsedComp/UsedAnnual snapshot
  - CompUsage:    Which grant a request drew its comp credit from (audit only)

QUANTITIES:
  All quantities are decimal.Decimal days. Binary floating point is never
  used for balances, since thousands of 0.5 additions must stay exact.

SEE ALSO:
  - quantity.go: Requested quantity and whole-day flooring
  - ledger.go:   Balance aggregation over an account
  - deduct.go:   Comp/annual split of a request
  - service.go:  Submission and reporting workflow
*/
package leave

import (
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// IDENTIFIERS
// =============================================================================

type EmployeeID string
type AccountID string
type GrantID string
type RequestID string

// =============================================================================
// LEAVE TYPES
// =============================================================================

// LeaveType is the kind of leave being requested.
type LeaveType string

const (
	TypeAnnual LeaveType = "ANNUAL" // whole days over an inclusive date range
	TypeHalf   LeaveType = "HALF"   // half a day, morning or afternoon
)

func (t LeaveType) Valid() bool { return t == TypeAnnual || t == TypeHalf }

// HalfDay designates the morning or afternoon of a HALF request.
type HalfDay string

const (
	HalfDayNone HalfDay = ""
	HalfDayAM   HalfDay = "AM"
	HalfDayPM   HalfDay = "PM"
)

func (h HalfDay) Valid() bool { return h == HalfDayAM || h == HalfDayPM }

// =============================================================================
// RECORDS
// =============================================================================

// Employee is owned by the administrator. Only Active ever changes after
// creation.
type Employee struct {
	ID        EmployeeID
	Name      string
	BirthCode string // YYMMDD, a weak shared secret for self-service lookup
	Active    bool
	CreatedAt time.Time
}

// YearAccount scopes all grants and requests of one employee in one year.
// Exactly one exists per (EmployeeID, Year).
type YearAccount struct {
	ID         AccountID
	EmployeeID EmployeeID
	Year       int
	BaseDays   decimal.Decimal // >= 0
	CarryOver  decimal.Decimal // may be negative
	CreatedAt  time.Time
}

// CompGrant records comp credit earned by working WorkedDate. Grants never
// expire and are never modified; consumption is tracked on requests.
type CompGrant struct {
	ID         GrantID
	AccountID  AccountID
	WorkedDate time.Time
	Label      string // e.g. holiday name
	Amount     decimal.Decimal
	Memo       string
	CreatedAt  time.Time
}

// LeaveRequest is append-only. UsedComp and UsedAnnual are computed once
// when the request is created and are never recalculated.
type LeaveRequest struct {
	ID         RequestID
	AccountID  AccountID
	EmployeeID EmployeeID
	Type       LeaveType
	Start      time.Time
	End        time.Time
	HalfDay    HalfDay
	Reason     string
	UsedComp   decimal.Decimal
	UsedAnnual decimal.Decimal
	CreatedAt  time.Time
}

// Total is the quantity the request consumed across both pools.
func (r LeaveRequest) Total() decimal.Decimal {
	return r.UsedComp.Add(r.UsedAnnual)
}

// CompUsage attributes part of a request's UsedComp to a specific grant.
// It is derived bookkeeping for display and never drives balances.
type CompUsage struct {
	ID        string
	RequestID RequestID
	GrantID   GrantID
	Amount    decimal.Decimal
	CreatedAt time.Time
}

// =============================================================================
// DATES
// =============================================================================

// Date returns midnight UTC of the given calendar day.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// DateOf drops the clock part of t, keeping its calendar day.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return Date(y, m, d)
}

// DateLayout is the wire and storage format for calendar days.
const DateLayout = "2006-01-02"

// ParseDate parses a YYYY-MM-DD day.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, s)
}
