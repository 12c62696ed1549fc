/*
ledger.go - Balance aggregation for one year account

PURPOSE:
  A Ledger is the full set of stored facts for a year account: the account
  row, every comp grant, and every leave request snapshot. All balances are
  derived by summing those facts on each read.

WHY NO RUNNING COUNTER?
  Grants can be added at any time and requests are immutable snapshots, so
  a sum over stored rows is always consistent with what is persisted. A
  cache would need invalidation on every grant and request write.

FORMULAS:
  compBalance     = Σ grant.Amount − Σ request.UsedComp
  annualBalance   = BaseDays + CarryOver − Σ request.UsedAnnual
  totalGranted    = BaseDays + CarryOver + Σ grant.Amount
  totalUsed       = Σ request.UsedComp + Σ request.UsedAnnual
  remaining       = totalGranted − totalUsed

  Every result may be negative. Callers display negatives; they never
  reject them.
*/
package leave

import (
	"github.com/shopspring/decimal"
)

// Ledger is a read-only view of a year account's stored facts.
type Ledger struct {
	Account  YearAccount
	Grants   []CompGrant
	Requests []LeaveRequest
}

// CompGranted sums every comp grant on the account.
func (l Ledger) CompGranted() decimal.Decimal {
	sum := decimal.Zero
	for _, g := range l.Grants {
		sum = sum.Add(g.Amount)
	}
	return sum
}

// UsedComp sums the comp snapshot of every request.
func (l Ledger) UsedComp() decimal.Decimal {
	sum := decimal.Zero
	for _, r := range l.Requests {
		sum = sum.Add(r.UsedComp)
	}
	return sum
}

// UsedAnnual sums the annual snapshot of every request.
func (l Ledger) UsedAnnual() decimal.Decimal {
	sum := decimal.Zero
	for _, r := range l.Requests {
		sum = sum.Add(r.UsedAnnual)
	}
	return sum
}

// CompBalance is comp credit granted minus comp credit used. It may hold a
// half-day fragment (e.g. 1.5) and may be negative.
func (l Ledger) CompBalance() decimal.Decimal {
	return l.CompGranted().Sub(l.UsedComp())
}

// AnnualBalance is base plus carry-over minus annual leave used.
func (l Ledger) AnnualBalance() decimal.Decimal {
	return l.Account.BaseDays.Add(l.Account.CarryOver).Sub(l.UsedAnnual())
}

// Summary is the reporting view of a year account.
type Summary struct {
	BaseDays        decimal.Decimal
	CarryOver       decimal.Decimal
	CompGranted     decimal.Decimal
	UsedComp        decimal.Decimal
	UsedAnnual      decimal.Decimal
	TotalGranted    decimal.Decimal
	TotalUsed       decimal.Decimal
	Remaining       decimal.Decimal
	CompRemaining   decimal.Decimal
	AnnualRemaining decimal.Decimal
}

// Summary aggregates the ledger in one pass over grants and requests.
func (l Ledger) Summary() Summary {
	granted := l.CompGranted()
	usedComp := l.UsedComp()
	usedAnnual := l.UsedAnnual()
	annual := l.Account.BaseDays.Add(l.Account.CarryOver)

	totalGranted := annual.Add(granted)
	totalUsed := usedComp.Add(usedAnnual)

	return Summary{
		BaseDays:        l.Account.BaseDays,
		CarryOver:       l.Account.CarryOver,
		CompGranted:     granted,
		UsedComp:        usedComp,
		UsedAnnual:      usedAnnual,
		TotalGranted:    totalGranted,
		TotalUsed:       totalUsed,
		Remaining:       totalGranted.Sub(totalUsed),
		CompRemaining:   granted.Sub(usedComp),
		AnnualRemaining: annual.Sub(usedAnnual),
	}
}

// MonthlyUsage buckets request totals by the "YYYY-MM" of their start date.
func (l Ledger) MonthlyUsage() map[string]decimal.Decimal {
	out := make(map[string]decimal.Decimal)
	for _, r := range l.Requests {
		key := r.Start.Format("2006-01")
		out[key] = out[key].Add(r.Total())
	}
	return out
}
