// Package report renders leave summaries into spreadsheet exports.
package report

import (
	"fmt"
	"io"

	"github.com/shopspring/decimal"
	"github.com/warp/leave-ledger/leave"
	"github.com/xuri/excelize/v2"
)

// Header is the first row of a year overview sheet.
var Header = []string{
	"Name",
	"Base days",
	"Carry-over",
	"Comp granted",
	"Total granted",
	"Comp used",
	"Annual used",
	"Total used",
	"Comp remaining",
	"Annual remaining",
	"Remaining",
}

// SheetName returns the worksheet name used for a year.
func SheetName(year int) string { return fmt.Sprintf("Leave %d", year) }

// WriteYearOverview writes one row per employee to w as an XLSX workbook.
// Quantities are written as numbers so the sheet can be summed.
func WriteYearOverview(w io.Writer, year int, rows []leave.EmployeeSummary) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	sheet := SheetName(year)
	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		return err
	}

	header := make([]any, len(Header))
	for i, h := range Header {
		header[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}

	for i, r := range rows {
		s := r.Summary
		values := []any{
			r.Employee.Name,
			num(s.BaseDays),
			num(s.CarryOver),
			num(s.CompGranted),
			num(s.TotalGranted),
			num(s.UsedComp),
			num(s.UsedAnnual),
			num(s.TotalUsed),
			num(s.CompRemaining),
			num(s.AnnualRemaining),
			num(s.Remaining),
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return err
		}
	}

	if err := f.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return err
	}

	_, err := f.WriteTo(w)
	return err
}

// Quantities are multiples of 0.5, which float64 represents exactly.
func num(d decimal.Decimal) float64 { return d.InexactFloat64() }
