package api

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/leave-ledger/leave"
	"github.com/warp/leave-ledger/store/memory"
)

func TestYearOpener_RunNowOpensCurrentYear(t *testing.T) {
	// GIVEN: Two active employees and one inactive
	store := memory.New()
	svc := leave.NewService(store, nil)
	ctx := context.Background()
	kim, err := svc.CreateEmployee(ctx, "Kim", "900101")
	require.NoError(t, err)
	_, err = svc.CreateEmployee(ctx, "Lee", "850505")
	require.NoError(t, err)
	gone, err := svc.CreateEmployee(ctx, "Park", "880315")
	require.NoError(t, err)
	require.NoError(t, svc.DeactivateEmployee(ctx, gone.ID))

	opener := NewYearOpener(svc, time.Hour, nil)
	opener.now = func() time.Time { return leave.Date(2027, time.January, 1) }

	// WHEN: Running twice
	n, err := opener.RunNow(ctx)
	require.NoError(t, err)
	_, err = opener.RunNow(ctx)
	require.NoError(t, err)

	// THEN: Only active employees are visited, one account each
	assert.Equal(t, 2, n)
	acc, err := store.GetAccount(ctx, kim.ID, 2027)
	require.NoError(t, err)
	assert.True(t, acc.BaseDays.IsZero())
	_, err = store.GetAccount(ctx, gone.ID, 2027)
	assert.ErrorIs(t, err, leave.ErrNotFound)
}

func TestYearOpener_StartRunsImmediatelyAndStops(t *testing.T) {
	store := memory.New()
	svc := leave.NewService(store, nil)
	ctx := context.Background()
	kim, err := svc.CreateEmployee(ctx, "Kim", "900101")
	require.NoError(t, err)

	opener := NewYearOpener(svc, time.Hour, nil)
	year := time.Now().Year()

	opener.Start()
	opener.Start()
	assert.Eventually(t, func() bool {
		_, err := store.GetAccount(ctx, kim.ID, year)
		return err == nil
	}, 2*time.Second, 10*time.Millisecond)

	opener.Stop()
	opener.Stop()
}

func TestYearOpener_ClockIsUTC(t *testing.T) {
	opener := NewYearOpener(leave.NewService(memory.New(), nil), time.Hour, nil)
	assert.Equal(t, time.UTC, opener.now().Location())
}
