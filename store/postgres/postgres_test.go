package postgres

import (
	"context"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/leave-ledger/leave"
)

func getTestDSN(t *testing.T) string {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set; skipping Postgres store tests")
	}
	return dsn
}

func mustOpen(t *testing.T) *Store {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	s, err := Open(ctx, getTestDSN(t))
	require.NoError(t, err)
	require.NoError(t, s.Reset(ctx))
	t.Cleanup(s.Close)
	return s
}

func TestPostgres_AccountUniquenessUnderRace(t *testing.T) {
	s := mustOpen(t)
	ctx := context.Background()
	require.NoError(t, s.SaveEmployee(ctx, leave.Employee{ID: "e1", Name: "Kim", BirthCode: "900101", Active: true, CreatedAt: time.Now()}))

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

func TestPostgres_ServiceEndToEnd(t *testing.T) {
	s := mustOpen(t)
	svc := leave.NewService(s, nil)
	ctx := context.Background()

	emp, err := svc.CreateEmployee(ctx, "Lee", "900101")
	require.NoError(t, err)
	_, err = svc.SetEntitlement(ctx, emp.ID, 2026, decimal.NewFromInt(15), decimal.NewFromInt(-2))
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

	detail, err := svc.AccountDetail(ctx, emp.ID, 2026)
	require.NoError(t, err)
	assert.Equal(t, "0.5", detail.Summary.CompRemaining.String())
	assert.Equal(t, "12", detail.Summary.AnnualRemaining.String())
	assert.Len(t, detail.Usages, 2)
	assert.Equal(t, leave.Date(2026, 3, 10), detail.Requests[0].Start)
}

func TestPostgres_MissingAccountIsNotFound(t *testing.T) {
	s := mustOpen(t)
	err := s.AppendGrant(context.Background(), leave.CompGrant{
		ID: "g1", AccountID: "nope", WorkedDate: leave.Date(2026, 1, 1), Amount: decimal.NewFromInt(1), CreatedAt: time.Now(),
	})
	assert.ErrorIs(t, err, leave.ErrNotFound)
}
