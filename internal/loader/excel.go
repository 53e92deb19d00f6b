package loader

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/extrame/xls"
	"github.com/xuri/excelize/v2"

	"github.com/peekknuf/dataoverview/internal/table"
)

var errNoSheets = errors.New("workbook has no sheets")

func loadXLSX(path string) (*table.Table, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, accessError(path, err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, accessError(path, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, parseError(path, errNoSheets)
	}

	// Raw values keep number formats such as "#,##0.00" from turning
	// numeric cells into text.
	rows, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, parseError(path, fmt.Errorf("sheet %q: %w", sheets[0], err))
	}
	if err := typedCells(f, sheets[0], rows); err != nil {
		return nil, parseError(path, fmt.Errorf("sheet %q: %w", sheets[0], err))
	}

	t, err := buildSheet(rows)
	if err != nil {
		return nil, parseError(path, err)
	}
	return t, nil
}

func loadXLS(path string) (t *table.Table, err error) {
	if _, err := os.Stat(path); err != nil {
		return nil, accessError(path, err)
	}

	// extrame/xls panics on some malformed workbooks.
	defer func() {
		if r := recover(); r != nil {
			t, err = nil, accessError(path, fmt.Errorf("corrupt workbook: %v", r))
		}
	}()

	wb, err := xls.Open(path, "utf-8")
	if err != nil {
		return nil, accessError(path, err)
	}
	if wb.NumSheets() == 0 {
		return nil, parseError(path, errNoSheets)
	}

	sheet := wb.GetSheet(0)
	if sheet == nil {
		return nil, parseError(path, errNoSheets)
	}

	var rows [][]string
	for i := 0; i <= int(sheet.MaxRow); i++ {
		row := xlsRow(sheet, i)
		if row == nil {
			rows = append(rows, nil)
			continue
		}

		cells := make([]string, row.LastCol())
		for c := range cells {
			cells[c] = row.Col(c)
		}
		rows = append(rows, cells)
	}

	t, err = buildSheet(rows)
	if err != nil {
		return nil, parseError(path, err)
	}
	return t, nil
}

// typedCells rewrites raw cell values whose meaning depends on the cell
// type or style: booleans are stored as 1/0 and dates as serial numbers.
func typedCells(f *excelize.File, sheet string, rows [][]string) error {
	props, err := f.GetWorkbookProps()
	if err != nil {
		return err
	}
	date1904 := props.Date1904 != nil && *props.Date1904

	dateStyles := make(map[int]bool)

	for r, row := range rows {
		for c, v := range row {
			if v == "" {
				continue
			}

			cell, err := excelize.CoordinatesToCellName(c+1, r+1)
			if err != nil {
				return err
			}

			typ, err := f.GetCellType(sheet, cell)
			if err != nil {
				return err
			}

			switch typ {
			case excelize.CellTypeBool:
				if v == "1" {
					row[c] = "TRUE"
				} else {
					row[c] = "FALSE"
				}
				continue
			case excelize.CellTypeDate:
				if tm, ok := isoDate(v); ok {
					row[c] = tm.Format(table.KeyTimeLayout)
				}
				continue
			case excelize.CellTypeUnset, excelize.CellTypeNumber:
			default:
				continue
			}

			style, err := f.GetCellStyle(sheet, cell)
			if err != nil {
				return err
			}
			isDate, ok := dateStyles[style]
			if !ok {
				isDate = dateStyle(f, style)
				dateStyles[style] = isDate
			}
			if !isDate {
				continue
			}

			serial, err := strconv.ParseFloat(v, 64)
			if err != nil {
				continue
			}
			tm, err := excelize.ExcelDateToTime(serial, date1904)
			if err != nil {
				continue
			}
			row[c] = tm.Format(table.KeyTimeLayout)
		}
	}

	return nil
}

var isoDateLayouts = []string{time.RFC3339Nano, "2006-01-02T15:04:05.999999999", "2006-01-02"}

func isoDate(s string) (time.Time, bool) {
	for _, layout := range isoDateLayouts {
		if tm, err := time.Parse(layout, s); err == nil {
			return tm, true
		}
	}
	return time.Time{}, false
}

// dateStyle reports whether a cell style formats numbers as dates or times.
func dateStyle(f *excelize.File, idx int) bool {
	style, err := f.GetStyle(idx)
	if err != nil || style == nil {
		return false
	}

	if style.CustomNumFmt != nil {
		return dateFormatCode(*style.CustomNumFmt)
	}

	switch n := style.NumFmt; {
	case n >= 14 && n <= 22, n >= 27 && n <= 36, n >= 45 && n <= 47, n >= 50 && n <= 58:
		return true
	}
	return false
}

// dateFormatCode reports whether a custom number format has date or time
// tokens outside quoted literals, escapes and bracketed sections.
func dateFormatCode(code string) bool {
	var quoted, bracket, escaped bool
	for _, r := range strings.ToLower(code) {
		switch {
		case escaped:
			escaped = false
		case quoted:
			quoted = r != '"'
		case bracket:
			bracket = r != ']'
		case r == '\\':
			escaped = true
		case r == '"':
			quoted = true
		case r == '[':
			bracket = true
		case strings.ContainsRune("ymdhs", r):
			return true
		}
	}
	return false
}

// xlsRow returns nil for rows the sheet does not store; extrame/xls panics
// when asked for one.
func xlsRow(sheet *xls.WorkSheet, i int) (row *xls.Row) {
	defer func() {
		if recover() != nil {
			row = nil
		}
	}()
	return sheet.Row(i)
}

// buildSheet turns spreadsheet rows into a table, first row as header.
// Blank rows are skipped and the header is widened to the widest row.
func buildSheet(rows [][]string) (*table.Table, error) {
	var data [][]string
	for _, r := range rows {
		if !blank(r) {
			data = append(data, r)
		}
	}
	if len(data) == 0 {
		return nil, errNoColumns
	}

	width := 0
	for _, r := range data {
		width = max(width, len(r))
	}

	header := make([]string, width)
	copy(header, data[0])

	b := table.NewBuilder(header)
	for _, r := range data[1:] {
		if err := b.Append(r); err != nil {
			return nil, err
		}
	}

	return b.Build(), nil
}

func blank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
