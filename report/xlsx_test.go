package report_test

import (
	"bytes"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/leave-ledger/leave"
	"github.com/warp/leave-ledger/report"
	"github.com/xuri/excelize/v2"
)

func TestWriteYearOverview(t *testing.T) {
	// GIVEN: two employees, one of them overdrawn
	rows := []leave.EmployeeSummary{
		{
			Employee: leave.Employee{Name: "Amy"},
			Summary: leave.Ledger{
				Account: leave.YearAccount{BaseDays: decimal.NewFromInt(15), CarryOver: decimal.NewFromInt(-2)},
				Requests: []leave.LeaveRequest{
					{UsedComp: decimal.Zero, UsedAnnual: decimal.NewFromInt(20)},
				},
			}.Summary(),
		},
		{
			Employee: leave.Employee{Name: "Bo"},
			Summary: leave.Ledger{
				Grants: []leave.CompGrant{{Amount: decimal.RequireFromString("1.5")}},
			}.Summary(),
		},
	}

	// WHEN: the overview is exported
	var buf bytes.Buffer
	require.NoError(t, report.WriteYearOverview(&buf, 2026, rows))

	// THEN: it reads back with a header and one row per employee
	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	assert.Equal(t, "Leave 2026", f.GetSheetName(0))

	got, err := f.GetRows(report.SheetName(2026))
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, report.Header, got[0])

	assert.Equal(t, "Amy", got[1][0])
	assert.Equal(t, "15", got[1][1])
	assert.Equal(t, "-2", got[1][2])
	assert.Equal(t, "-7", got[1][10])

	assert.Equal(t, "Bo", got[2][0])
	assert.Equal(t, "1.5", got[2][3])
	assert.Equal(t, "1.5", got[2][8])
}

func TestWriteYearOverview_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, report.WriteYearOverview(&buf, 2026, nil))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	got, err := f.GetRows(report.SheetName(2026))
	require.NoError(t, err)
	assert.Len(t, got, 1)
}
