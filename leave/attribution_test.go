package leave_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/leave-ledger/leave"
)

func TestAttribute_OldestWorkedDateFirst(t *testing.T) {
	grants := []leave.CompGrant{
		grant("late", 20, "1"),
		grant("early", 5, "1"),
		grant("mid", 10, "0.5"),
	}

	got := leave.Attribute(grants, nil, "req-1", d("2"))

	require.Len(t, got, 3)
	assert.Equal(t, leave.GrantID("early"), got[0].GrantID)
	assertDec(t, "1", got[0].Amount)
	assert.Equal(t, leave.GrantID("mid"), got[1].GrantID)
	assertDec(t, "0.5", got[1].Amount)
	assert.Equal(t, leave.GrantID("late"), got[2].GrantID)
	assertDec(t, "0.5", got[2].Amount)

	for _, u := range got {
		assert.Equal(t, leave.RequestID("req-1"), u.RequestID)
		assert.Empty(t, u.ID)
	}
}

func TestAttribute_SameWorkedDateUsesCreationOrder(t *testing.T) {
	first := grant("first", 5, "1")
	first.CreatedAt = time.Date(2026, 1, 6, 9, 0, 0, 0, time.UTC)
	second := grant("second", 5, "1")
	second.CreatedAt = time.Date(2026, 1, 6, 10, 0, 0, 0, time.UTC)

	got := leave.Attribute([]leave.CompGrant{second, first}, nil, "req-1", d("1"))

	require.Len(t, got, 1)
	assert.Equal(t, leave.GrantID("first"), got[0].GrantID)
}

func TestAttribute_SkipsConsumedParts(t *testing.T) {
	grants := []leave.CompGrant{grant("g1", 1, "1.5"), grant("g2", 2, "2")}
	prior := []leave.CompUsage{{RequestID: "req-0", GrantID: "g1", Amount: d("1")}}

	got := leave.Attribute(grants, prior, "req-1", d("2"))

	require.Len(t, got, 2)
	assert.Equal(t, leave.GrantID("g1"), got[0].GrantID)
	assertDec(t, "0.5", got[0].Amount)
	assert.Equal(t, leave.GrantID("g2"), got[1].GrantID)
	assertDec(t, "1.5", got[1].Amount)
}

func TestAttribute_UncoveredRemainderIsDropped(t *testing.T) {
	grants := []leave.CompGrant{grant("g1", 1, "1")}

	got := leave.Attribute(grants, nil, "req-1", d("3"))

	require.Len(t, got, 1)
	assertDec(t, "1", got[0].Amount)
}

func TestAttribute_NothingToAttribute(t *testing.T) {
	grants := []leave.CompGrant{grant("g1", 1, "1")}
	assert.Empty(t, leave.Attribute(grants, nil, "req-1", d("0")))
}

func TestUsageByGrant(t *testing.T) {
	grants := []leave.CompGrant{grant("g1", 1, "1.5"), grant("g2", 2, "1")}
	usages := []leave.CompUsage{
		{GrantID: "g1", Amount: d("1")},
		{GrantID: "g1", Amount: d("0.5")},
	}

	got := leave.UsageByGrant(grants, usages)

	require.Len(t, got, 2)
	assertDec(t, "1.5", got[0].Used)
	assertDec(t, "0", got[0].Remaining)
	assertDec(t, "0", got[1].Used)
	assertDec(t, "1", got[1].Remaining)
}
