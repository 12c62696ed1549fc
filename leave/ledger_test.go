package leave_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/warp/leave-ledger/leave"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

func account(base, carry string) leave.YearAccount {
	return leave.YearAccount{ID: "acc-1", EmployeeID: "emp-1", Year: 2026, BaseDays: d(base), CarryOver: d(carry)}
}

func grant(id string, day int, amount string) leave.CompGrant {
	return leave.CompGrant{
		ID:         leave.GrantID(id),
		AccountID:  "acc-1",
		WorkedDate: leave.Date(2026, 1, day),
		Amount:     d(amount),
	}
}

func request(typ leave.LeaveType, start, end int, usedComp, usedAnnual string) leave.LeaveRequest {
	return leave.LeaveRequest{
		AccountID:  "acc-1",
		EmployeeID: "emp-1",
		Type:       typ,
		Start:      leave.Date(2026, 3, start),
		End:        leave.Date(2026, 3, end),
		UsedComp:   d(usedComp),
		UsedAnnual: d(usedAnnual),
	}
}

// =============================================================================
// BALANCES
// =============================================================================

func TestLedger_EmptyAccountBalancesAreZero(t *testing.T) {
	l := leave.Ledger{Account: account("0", "0")}

	assertDec(t, "0", l.CompBalance())
	assertDec(t, "0", l.AnnualBalance())

	s := l.Summary()
	assertDec(t, "0", s.TotalGranted)
	assertDec(t, "0", s.TotalUsed)
	assertDec(t, "0", s.Remaining)
}

func TestLedger_SummaryFormulas(t *testing.T) {
	// GIVEN: 15 base, 2 carried over, 2.5 comp granted, three requests
	l := leave.Ledger{
		Account: account("15", "2"),
		Grants:  []leave.CompGrant{grant("g1", 1, "1"), grant("g2", 2, "1.5")},
		Requests: []leave.LeaveRequest{
			request(leave.TypeAnnual, 2, 3, "2", "0"),
			request(leave.TypeHalf, 5, 5, "0", "0.5"),
			request(leave.TypeAnnual, 9, 11, "0", "3"),
		},
	}

	s := l.Summary()

	assertDec(t, "15", s.BaseDays)
	assertDec(t, "2", s.CarryOver)
	assertDec(t, "2.5", s.CompGranted)
	assertDec(t, "2", s.UsedComp)
	assertDec(t, "3.5", s.UsedAnnual)
	assertDec(t, "19.5", s.TotalGranted)
	assertDec(t, "5.5", s.TotalUsed)
	assertDec(t, "14", s.Remaining)
	assertDec(t, "0.5", s.CompRemaining)
	assertDec(t, "13.5", s.AnnualRemaining)

	assertDec(t, "0.5", l.CompBalance())
	assertDec(t, "13.5", l.AnnualBalance())

	// remaining is always the sum of both pools
	assert.True(t, s.Remaining.Equal(s.CompRemaining.Add(s.AnnualRemaining)))
}

func TestLedger_NegativeBalancesAreReported(t *testing.T) {
	l := leave.Ledger{
		Account:  account("15", "-2"),
		Requests: []leave.LeaveRequest{request(leave.TypeAnnual, 1, 20, "0", "20")},
	}

	assertDec(t, "-7", l.AnnualBalance())
	assertDec(t, "-7", l.Summary().Remaining)
}

func TestLedger_MonthlyUsage(t *testing.T) {
	feb := request(leave.TypeAnnual, 1, 1, "1", "3")
	feb.Start = leave.Date(2026, 2, 27)
	feb.End = leave.Date(2026, 3, 2)

	l := leave.Ledger{
		Account: account("15", "0"),
		Requests: []leave.LeaveRequest{
			feb,
			request(leave.TypeHalf, 4, 4, "0", "0.5"),
			request(leave.TypeAnnual, 10, 11, "0", "2"),
		},
	}

	m := l.MonthlyUsage()

	assert.Len(t, m, 2)
	// bucketed by start date only
	assertDec(t, "4", m["2026-02"])
	assertDec(t, "2.5", m["2026-03"])
}

// =============================================================================
// AUTO-DEDUCTION
// =============================================================================

func TestAutoDeduct_WholeDayCompFirst(t *testing.T) {
	// GIVEN: three 0.5 grants, nothing used yet (comp balance 1.5)
	l := leave.Ledger{
		Account: account("15", "0"),
		Grants:  []leave.CompGrant{grant("g1", 1, "0.5"), grant("g2", 2, "0.5"), grant("g3", 3, "0.5")},
	}

	// WHEN: a two-day annual request is split
	got := l.AutoDeduct(leave.TypeAnnual, d("2"))

	// THEN: one whole comp day is used, the rest is annual
	assertDec(t, "1", got.UsedComp)
	assertDec(t, "1", got.UsedAnnual)
}

func TestAutoDeduct_HalfNeverUsesComp(t *testing.T) {
	l := leave.Ledger{
		Account:  account("15", "0"),
		Grants:   []leave.CompGrant{grant("g1", 1, "5")},
		Requests: []leave.LeaveRequest{request(leave.TypeAnnual, 2, 2, "1", "0")},
	}

	got := l.AutoDeduct(leave.TypeHalf, d("0.5"))

	assertDec(t, "0", got.UsedComp)
	assertDec(t, "0.5", got.UsedAnnual)
}

func TestSplitDemand(t *testing.T) {
	tests := []struct {
		name       string
		compBal    string
		typ        leave.LeaveType
		requested  string
		usedComp   string
		usedAnnual string
	}{
		{"no comp", "0", leave.TypeAnnual, "3", "0", "3"},
		{"comp covers all", "5", leave.TypeAnnual, "3", "3", "0"},
		{"fragment never spent", "0.5", leave.TypeAnnual, "1", "0", "1"},
		{"fragment floored away", "2.5", leave.TypeAnnual, "4", "2", "2"},
		{"negative comp balance", "-1", leave.TypeAnnual, "2", "0", "2"},
		{"half ignores comp", "10", leave.TypeHalf, "0.5", "0", "0.5"},
		{"comp exactly matches", "4", leave.TypeAnnual, "4", "4", "0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := leave.SplitDemand(d(tt.compBal), tt.typ, d(tt.requested))
			assertDec(t, tt.usedComp, got.UsedComp)
			assertDec(t, tt.usedAnnual, got.UsedAnnual)
		})
	}
}

func TestSplitDemand_Properties(t *testing.T) {
	balances := []string{"-3", "-0.5", "0", "0.5", "1", "1.5", "2", "7.5", "30"}
	requests := []string{"1", "2", "3", "5", "10", "31"}

	for _, b := range balances {
		for _, r := range requests {
			got := leave.SplitDemand(d(b), leave.TypeAnnual, d(r))

			// conservation
			assert.True(t, got.UsedComp.Add(got.UsedAnnual).Equal(d(r)), "bal=%s req=%s", b, r)
			// comp part is whole and non-negative
			assert.True(t, got.UsedComp.IsInteger(), "bal=%s req=%s", b, r)
			assert.False(t, got.UsedComp.IsNegative(), "bal=%s req=%s", b, r)
			// never more comp than the whole-day balance
			assert.True(t, got.UsedComp.LessThanOrEqual(leave.FloorToWholeDays(d(b))), "bal=%s req=%s", b, r)
			// annual part is never negative
			assert.False(t, got.UsedAnnual.IsNegative(), "bal=%s req=%s", b, r)
		}
	}
}
