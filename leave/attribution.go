package leave

import (
	"sort"

	"github.com/shopspring/decimal"
)

// Attribute decides which grants a request's comp usage came from, oldest
// worked date first. Parts of grants already attributed to earlier requests
// are skipped.
//
// The result is display bookkeeping only. If the grants cannot cover
// usedComp (concurrent submissions may over-consume), the uncovered part is
// simply left unattributed. IDs and timestamps are left for the caller.
func Attribute(grants []CompGrant, prior []CompUsage, requestID RequestID, usedComp decimal.Decimal) []CompUsage {
	if !usedComp.IsPositive() {
		return nil
	}

	consumed := make(map[GrantID]decimal.Decimal, len(prior))
	for _, u := range prior {
		consumed[u.GrantID] = consumed[u.GrantID].Add(u.Amount)
	}

	ordered := make([]CompGrant, len(grants))
	copy(ordered, grants)
	sort.SliceStable(ordered, func(i, j int) bool {
		a, b := ordered[i], ordered[j]
		if !a.WorkedDate.Equal(b.WorkedDate) {
			return a.WorkedDate.Before(b.WorkedDate)
		}
		return a.CreatedAt.Before(b.CreatedAt)
	})

	var out []CompUsage
	remaining := usedComp
	for _, g := range ordered {
		if !remaining.IsPositive() {
			break
		}
		available := g.Amount.Sub(consumed[g.ID])
		if !available.IsPositive() {
			continue
		}
		take := decimal.Min(available, remaining)
		out = append(out, CompUsage{
			RequestID: requestID,
			GrantID:   g.ID,
			Amount:    take,
		})
		remaining = remaining.Sub(take)
	}
	return out
}

// GrantUsage is a grant together with how much of it has been attributed.
type GrantUsage struct {
	Grant     CompGrant
	Used      decimal.Decimal
	Remaining decimal.Decimal
}

// UsageByGrant joins grants with their attributed usage, in grant order.
func UsageByGrant(grants []CompGrant, usages []CompUsage) []GrantUsage {
	used := make(map[GrantID]decimal.Decimal, len(usages))
	for _, u := range usages {
		used[u.GrantID] = used[u.GrantID].Add(u.Amount)
	}
	out := make([]GrantUsage, len(grants))
	for i, g := range grants {
		u := used[g.ID]
		out[i] = GrantUsage{Grant: g, Used: u, Remaining: g.Amount.Sub(u)}
	}
	return out
}
