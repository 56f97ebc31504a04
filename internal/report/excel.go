// Package report produces the charter office's reservation book as an Excel
// workbook, one sheet per yacht.
package report

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"helmsman/internal/models"
)

var manifestColumns = []string{
	"ID", "Customer", "Email", "Phone", "Start", "End",
	"Status", "Guests", "Total", "Deposit", "Notes",
}

// WriteManifest writes reservations grouped by yacht to w as an xlsx
// workbook. Yachts without reservations still get an empty sheet so the
// office sees the whole fleet.
func WriteManifest(w io.Writer, yachts []*models.Yacht, reservations []*models.Reservation) error {
	byYacht := make(map[string][]*models.Reservation)
	for _, r := range reservations {
		byYacht[r.YachtID] = append(byYacht[r.YachtID], r)
	}

	f := excelize.NewFile()
	defer f.Close()

	for i, y := range yachts {
		sheet := sheetName(y.Name)
		if i == 0 {
			f.SetSheetName("Sheet1", sheet)
		} else {
			if _, err := f.NewSheet(sheet); err != nil {
				return fmt.Errorf("create sheet %s: %w", sheet, err)
			}
		}

		if err := writeHeader(f, sheet); err != nil {
			return err
		}

		row := 2
		for _, r := range byYacht[y.ID] {
			values := []any{
				r.ID, r.CustomerName, r.CustomerEmail, r.CustomerPhone,
				r.Start.Format("2006-01-02 15:04"), r.End.Format("2006-01-02 15:04"),
				string(r.Status), r.GuestCount, r.TotalValue, r.DepositAmount, r.Notes,
			}
			for col, v := range values {
				cell, err := excelize.CoordinatesToCellName(col+1, row)
				if err != nil {
					return err
				}
				if err := f.SetCellValue(sheet, cell, v); err != nil {
					return err
				}
			}
			row++
		}
	}

	return f.Write(w)
}

func writeHeader(f *excelize.File, sheet string) error {
	for i, col := range manifestColumns {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, col); err != nil {
			return err
		}
	}

	style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err == nil {
		endCell, _ := excelize.CoordinatesToCellName(len(manifestColumns), 1)
		_ = f.SetCellStyle(sheet, "A1", endCell, style)
	}
	return nil
}

// sheetName truncates to the 31-char Excel sheet name limit.
func sheetName(name string) string {
	if len(name) > 31 {
		return name[:31]
	}
	return name
}
