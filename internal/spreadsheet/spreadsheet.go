// Package spreadsheet reads and writes meal history workbooks.
package spreadsheet

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"wgze/internal/store"
	"wgze/models"
)

// SheetName is the worksheet written by WriteMeals.
const SheetName = "Meals"

var header = []any{"Date", "Dish", "Notes"}

// Row is one meal line of a workbook or CSV file.
type Row struct {
	Date  string
	Dish  string
	Notes string
}

// WriteMeals writes entries as an xlsx workbook with a header row.
func WriteMeals(w io.Writer, entries []store.MealEntry) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), SheetName); err != nil {
		return fmt.Errorf("spreadsheet: rename sheet: %w", err)
	}
	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		return fmt.Errorf("spreadsheet: write header: %w", err)
	}
	for i, entry := range entries {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("spreadsheet: cell name: %w", err)
		}
		row := []any{models.FormatDate(entry.Date), entry.DishName, entry.NotesText()}
		if err := f.SetSheetRow(SheetName, cell, &row); err != nil {
			return fmt.Errorf("spreadsheet: write row %d: %w", i+2, err)
		}
	}
	if err := f.SetColWidth(SheetName, "A", "A", 12); err != nil {
		return fmt.Errorf("spreadsheet: column width: %w", err)
	}
	if err := f.SetColWidth(SheetName, "B", "C", 32); err != nil {
		return fmt.Errorf("spreadsheet: column width: %w", err)
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("spreadsheet: write workbook: %w", err)
	}
	return nil
}

// ReadMeals reads date, dish and notes columns from the first worksheet.
// A leading header row is skipped, as are rows without a dish.
func ReadMeals(r io.Reader) ([]Row, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("spreadsheet: open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.New("spreadsheet: workbook has no sheets")
	}
	records, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("spreadsheet: read rows: %w", err)
	}
	return Rows(records), nil
}

// Rows converts raw records into meal rows, dropping a header and blank lines.
func Rows(records [][]string) []Row {
	rows := make([]Row, 0, len(records))
	for i, record := range records {
		if i == 0 && IsHeader(record) {
			continue
		}
		row := Row{Date: cell(record, 0), Dish: cell(record, 1), Notes: cell(record, 2)}
		if row.Dish == "" {
			continue
		}
		rows = append(rows, row)
	}
	return rows
}

// IsHeader reports whether record looks like a column header line.
func IsHeader(record []string) bool {
	if len(record) == 0 {
		return false
	}
	first := strings.ToLower(strings.TrimSpace(record[0]))
	return first == "date" || first == "datum"
}

func cell(record []string, index int) string {
	if index >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[index])
}
