package leave

import (
	"github.com/shopspring/decimal"
)

// =============================================================================
// AUTO-DEDUCTION - Split a request between comp credit and annual leave
// =============================================================================

// Deduction is the snapshot stored on a request.
// UsedComp + UsedAnnual always equals the requested quantity.
type Deduction struct {
	UsedComp   decimal.Decimal
	UsedAnnual decimal.Decimal
}

// AutoDeduct splits a request against the ledger as it stands now.
func (l Ledger) AutoDeduct(t LeaveType, requested decimal.Decimal) Deduction {
	if t == TypeHalf {
		// Comp balance is irrelevant; skip summing the grants.
		return SplitDemand(decimal.Zero, t, requested)
	}
	return SplitDemand(l.CompBalance(), t, requested)
}

// SplitDemand applies the deduction rules to a known comp balance.
//
// Rules:
//   - HALF never draws on comp credit; everything goes to annual leave.
//   - ANNUAL draws comp credit first, in whole days only. A leftover
//     half-day fragment in the comp balance is never spent.
//   - Shortfalls land on annual leave even if that drives it negative.
func SplitDemand(compBalance decimal.Decimal, t LeaveType, requested decimal.Decimal) Deduction {
	if t == TypeHalf {
		return Deduction{UsedComp: decimal.Zero, UsedAnnual: requested}
	}

	compUsable := FloorToWholeDays(compBalance)
	requestWhole := FloorToWholeDays(requested)

	usedComp := decimal.Min(compUsable, requestWhole)
	return Deduction{
		UsedComp:   usedComp,
		UsedAnnual: requested.Sub(usedComp),
	}
}
