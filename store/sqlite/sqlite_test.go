package sqlite_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/leave-ledger/leave"
	"github.com/warp/leave-ledger/store/sqlite"
)

// =============================================================================
// TEST SETUP
// =============================================================================

func newTestStore(t *testing.T) *sqlite.Store {
	t.Helper()
	store, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func seed(t *testing.T, s *sqlite.Store) leave.YearAccount {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, s.SaveEmployee(ctx, leave.Employee{
		ID: "e1", Name: "Kim", BirthCode: "900101", Active: true, CreatedAt: time.Now(),
	}))
	acc := leave.NewYearAccount("e1", 2026, time.Now())
	require.NoError(t, s.CreateAccount(ctx, acc))
	return acc
}

// =============================================================================
// EMPLOYEES AND ACCOUNTS
// =============================================================================

func TestStore_EmployeeRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	seed(t, s)

	got, err := s.GetEmployee(ctx, "e1")
	require.NoError(t, err)
	assert.Equal(t, "Kim", got.Name)
	assert.True(t, got.Active)

	err = s.SaveEmployee(ctx, leave.Employee{ID: "e2", Name: "Kim", BirthCode: "850505", Active: true})
	assert.ErrorIs(t, err, leave.ErrConflict)

	require.NoError(t, s.SetEmployeeActive(ctx, "e1", false))
	found, err := s.FindEmployeesByBirthCode(ctx, "900101")
	require.NoError(t, err)
	assert.Empty(t, found)

	all, err := s.ListEmployees(ctx, false)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	_, err = s.GetEmployee(ctx, "missing")
	assert.ErrorIs(t, err, leave.ErrNotFound)
}

func TestStore_AccountUniqueness(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	acc := seed(t, s)

	err := s.CreateAccount(ctx, leave.NewYearAccount("e1", 2026, time.Now()))
	assert.ErrorIs(t, err, leave.ErrConflict)

	got, err := s.GetAccount(ctx, "e1", 2026)
	require.NoError(t, err)
	assert.Equal(t, acc.ID, got.ID)
	assert.True(t, got.BaseDays.IsZero())
}

func TestStore_UpdateEntitlementKeepsDecimals(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	acc := seed(t, s)

	require.NoError(t, s.UpdateEntitlement(ctx, acc.ID, decimal.RequireFromString("15.5"), decimal.RequireFromString("-2.5")))

	got, err := s.GetAccount(ctx, "e1", 2026)
	require.NoError(t, err)
	assert.Equal(t, "15.5", got.BaseDays.String())
	assert.Equal(t, "-2.5", got.CarryOver.String())

	err = s.UpdateEntitlement(ctx, "missing", decimal.Zero, decimal.Zero)
	assert.ErrorIs(t, err, leave.ErrNotFound)
}

func TestStore_ConcurrentResolveCreatesOneAccount(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.SaveEmployee(ctx, leave.Employee{ID: "e1", Name: "Kim", BirthCode: "900101", Active: true}))

	const n = 16
	ids := make([]leave.AccountID, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			acc, err := leave.ResolveAccount(ctx, s, "e1", 2026)
			assert.NoError(t, err)
			ids[i] = acc.ID
		}(i)
	}
	wg.Wait()

	for _, id := range ids {
		assert.Equal(t, ids[0], id)
	}
}

// =============================================================================
// LEDGER ROWS
// =============================================================================

func TestStore_GrantsAndRequests(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	acc := seed(t, s)

	require.NoError(t, s.AppendGrant(ctx, leave.CompGrant{
		ID: "g2", AccountID: acc.ID, WorkedDate: leave.Date(2026, 3, 1),
		Amount: decimal.RequireFromString("1"), CreatedAt: time.Now(),
	}))
	require.NoError(t, s.AppendGrant(ctx, leave.CompGrant{
		ID: "g1", AccountID: acc.ID, WorkedDate: leave.Date(2026, 1, 1), Label: "New Year",
		Amount: decimal.RequireFromString("0.5"), CreatedAt: time.Now(),
	}))

	grants, err := s.ListGrants(ctx, acc.ID)
	require.NoError(t, err)
	require.Len(t, grants, 2)
	assert.Equal(t, leave.GrantID("g1"), grants[0].ID)
	assert.Equal(t, "0.5", grants[0].Amount.String())
	assert.Equal(t, leave.Date(2026, 1, 1), grants[0].WorkedDate)

	req := leave.LeaveRequest{
		ID: "r1", AccountID: acc.ID, EmployeeID: "e1", Type: leave.TypeHalf,
		Start: leave.Date(2026, 4, 2), End: leave.Date(2026, 4, 2), HalfDay: leave.HalfDayAM,
		UsedComp: decimal.Zero, UsedAnnual: decimal.RequireFromString("0.5"), CreatedAt: time.Now(),
	}
	usages := []leave.CompUsage{{ID: "u1", RequestID: "r1", GrantID: "g1", Amount: decimal.RequireFromString("0.5"), CreatedAt: time.Now()}}
	require.NoError(t, s.AppendRequest(ctx, req, usages))

	requests, err := s.ListRequests(ctx, acc.ID)
	require.NoError(t, err)
	require.Len(t, requests, 1)
	assert.Equal(t, leave.HalfDayAM, requests[0].HalfDay)
	assert.Equal(t, "0.5", requests[0].UsedAnnual.String())

	got, err := s.ListUsages(ctx, acc.ID)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, leave.GrantID("g1"), got[0].GrantID)
}

func TestStore_AppendToMissingAccount(t *testing.T) {
	s := newTestStore(t)
	err := s.AppendGrant(context.Background(), leave.CompGrant{
		ID: "g1", AccountID: "nope", WorkedDate: leave.Date(2026, 1, 1), Amount: decimal.NewFromInt(1),
	})
	assert.ErrorIs(t, err, leave.ErrNotFound)
}

func TestStore_WithTxRollback(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	acc := seed(t, s)

	boom := errors.New("boom")
	err := s.WithTx(ctx, func(tx leave.Store) error {
		if err := tx.AppendGrant(ctx, leave.CompGrant{
			ID: "g1", AccountID: acc.ID, WorkedDate: leave.Date(2026, 1, 1), Amount: decimal.NewFromInt(1),
		}); err != nil {
			return err
		}
		// reads inside the transaction see the pending write
		grants, err := tx.ListGrants(ctx, acc.ID)
		if err != nil {
			return err
		}
		assert.Len(t, grants, 1)
		return boom
	})
	assert.ErrorIs(t, err, boom)

	grants, err := s.ListGrants(ctx, acc.ID)
	require.NoError(t, err)
	assert.Empty(t, grants)
}

// =============================================================================
// SERVICE OVER SQLITE
// =============================================================================

func TestStore_ServiceEndToEnd(t *testing.T) {
	s := newTestStore(t)
	svc := leave.NewService(s, nil)
	ctx := context.Background()

	emp, err := svc.CreateEmployee(ctx, "Lee", "900101")
	require.NoError(t, err)
	for day := 1; day <= 3; day++ {
		_, err := svc.GrantComp(ctx, emp.ID, leave.GrantInput{
			WorkedDate: leave.Date(2026, 1, day), Amount: decimal.RequireFromString("0.5"),
		})
		require.NoError(t, err)
	}

	req, err := svc.Submit(ctx, leave.Submission{
		EmployeeID: emp.ID, Type: leave.TypeAnnual,
		Start: leave.Date(2026, 3, 10), End: leave.Date(2026, 3, 11),
	})
	require.NoError(t, err)
	assert.Equal(t, "1", req.UsedComp.String())
	assert.Equal(t, "1", req.UsedAnnual.String())

	sum, err := svc.YearSummary(ctx, emp.ID, 2026)
	require.NoError(t, err)
	assert.Equal(t, "0.5", sum.CompRemaining.String())
}

func TestStore_Reset(t *testing.T) {
	s := newTestStore(t)
	seed(t, s)

	require.NoError(t, s.Reset(context.Background()))

	emps, err := s.ListEmployees(context.Background(), false)
	require.NoError(t, err)
	assert.Empty(t, emps)
}
