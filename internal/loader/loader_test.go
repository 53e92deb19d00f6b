package loader

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/peekknuf/dataoverview/internal/table"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func keys(c *table.Column) []string {
	out := make([]string, len(c.Values))
	for i, v := range c.Values {
		out[i] = v.Key
	}
	return out
}

func TestLoadCSVSemicolon(t *testing.T) {
	path := writeFile(t, "data.csv", "a;b;c\n1;2;3\n1;2;4\n")

	tbl, err := Load(path, DefaultOptions())
	require.NoError(t, err)

	require.Len(t, tbl.Columns, 3)
	assert.Equal(t, 2, tbl.Rows)
	assert.Equal(t, "a", tbl.Columns[0].Name)
	assert.Equal(t, "b", tbl.Columns[1].Name)
	assert.Equal(t, "c", tbl.Columns[2].Name)
	assert.Equal(t, table.IntType, tbl.Columns[0].Type)
	assert.Equal(t, []string{"1", "1"}, keys(tbl.Columns[0]))
}

func TestLoadCSVCommaIsNotADelimiter(t *testing.T) {
	path := writeFile(t, "data.csv", "a,b\n1,2\n")

	tbl, err := Load(path, DefaultOptions())
	require.NoError(t, err)

	require.Len(t, tbl.Columns, 1)
	assert.Equal(t, "a,b", tbl.Columns[0].Name)
	assert.Equal(t, table.TextType, tbl.Columns[0].Type)
}

func TestLoadCSVCustomDelimiter(t *testing.T) {
	path := writeFile(t, "data.csv", "a,b\n1,2\n")

	tbl, err := Load(path, Options{Delimiter: ','})
	require.NoError(t, err)
	assert.Len(t, tbl.Columns, 2)
}

func TestLoadCSVStripsBOM(t *testing.T) {
	path := writeFile(t, "bom.csv", "\xef\xbb\xbfid;name\n1;x\n")

	tbl, err := Load(path, DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, "id", tbl.Columns[0].Name)
}

func TestLoadCSVShortRowsArePadded(t *testing.T) {
	path := writeFile(t, "short.csv", "a;b;c\n1;2\n\n3;4;5\n")

	tbl, err := Load(path, DefaultOptions())
	require.NoError(t, err)

	assert.Equal(t, 2, tbl.Rows)
	c, ok := tbl.Column("c")
	require.True(t, ok)
	assert.True(t, c.Values[0].Null)
	assert.Equal(t, "5", c.Values[1].Key)
}

func TestLoadCSVQuotedMultiline(t *testing.T) {
	path := writeFile(t, "quoted.csv", "note;n\n\"one;\ntwo\";1\n")

	tbl, err := Load(path, DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, "one;\ntwo", tbl.Columns[0].Values[0].Key)
}

func TestLoadCSVBareQuote(t *testing.T) {
	path := writeFile(t, "screens.csv", "size;name\n5\" screen;tv\n7\" screen;tab\n")

	tbl, err := Load(path, DefaultOptions())
	require.NoError(t, err)

	require.Len(t, tbl.Columns, 2)
	assert.Equal(t, 2, tbl.Rows)
	assert.Equal(t, []string{`5" screen`, `7" screen`}, keys(tbl.Columns[0]))
	assert.Equal(t, []string{"tv", "tab"}, keys(tbl.Columns[1]))
}

func TestLoadMissingFileNamesPathOnce(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.csv")

	_, err := Load(path, DefaultOptions())
	require.Error(t, err)
	assert.Equal(t, 1, strings.Count(err.Error(), path), err.Error())
	assert.True(t, strings.HasPrefix(err.Error(), "cannot read "+path+": "), err.Error())
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()

	wide := filepath.Join(dir, "wide.csv")
	require.NoError(t, os.WriteFile(wide, []byte("a;b\n1;2\n1;2;3\n"), 0o644))

	empty := filepath.Join(dir, "empty.csv")
	require.NoError(t, os.WriteFile(empty, nil, 0o644))

	corrupt := filepath.Join(dir, "corrupt.xlsx")
	require.NoError(t, os.WriteFile(corrupt, []byte("not a zip"), 0o644))

	tests := map[string]struct {
		path     string
		kind     Kind
		sentinel error
		contains string
	}{
		"unsupported extension": {
			path:     filepath.Join(dir, "report.txt"),
			kind:     UnsupportedFormat,
			sentinel: ErrUnsupportedFormat,
			contains: "Unsupported file format. Please use a CSV or Excel file.",
		},
		"no extension": {
			path:     filepath.Join(dir, "data"),
			kind:     UnsupportedFormat,
			sentinel: ErrUnsupportedFormat,
		},
		"missing csv": {
			path:     filepath.Join(dir, "missing.csv"),
			kind:     FileAccess,
			sentinel: ErrFileAccess,
			contains: "missing.csv",
		},
		"missing xlsx": {
			path:     filepath.Join(dir, "missing.xlsx"),
			kind:     FileAccess,
			sentinel: ErrFileAccess,
		},
		"missing xls": {
			path:     filepath.Join(dir, "missing.xls"),
			kind:     FileAccess,
			sentinel: ErrFileAccess,
		},
		"corrupt xlsx": {
			path:     corrupt,
			kind:     FileAccess,
			sentinel: ErrFileAccess,
		},
		"row wider than header": {
			path:     wide,
			kind:     Parse,
			sentinel: ErrParse,
			contains: "expected 2 fields in line 3, saw 3",
		},
		"empty file": {
			path:     empty,
			kind:     Parse,
			sentinel: ErrParse,
			contains: "no columns to parse from file",
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			tbl, err := Load(tc.path, DefaultOptions())
			require.Error(t, err)
			assert.Nil(t, tbl)

			var le *Error
			require.True(t, errors.As(err, &le))
			assert.Equal(t, tc.kind, le.Kind)
			assert.ErrorIs(t, err, tc.sentinel)
			assert.NotContains(t, err.Error(), "\n")
			if tc.contains != "" {
				assert.Contains(t, err.Error(), tc.contains)
			}
		})
	}
}

func TestDetectFormat(t *testing.T) {
	tests := map[string]struct {
		path string
		want Format
		ok   bool
	}{
		"csv":        {"a/b.csv", FormatCSV, true},
		"upper case": {"B.CSV", FormatCSV, true},
		"xlsx":       {"sheet.xlsx", FormatXLSX, true},
		"xls":        {"sheet.xls", FormatXLS, true},
		"txt":        {"report.txt", "", false},
		"gz":         {"data.csv.gz", "", false},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			got, ok := DetectFormat(tc.path)
			assert.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.want, got)
		})
	}
}

func writeXLSX(t *testing.T, rows [][]any) string {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	for i, r := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &r))
	}

	// A second sheet must be ignored.
	_, err := f.NewSheet("Other")
	require.NoError(t, err)
	require.NoError(t, f.SetCellValue("Other", "A1", "ignored"))

	path := filepath.Join(t.TempDir(), "book.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func TestLoadXLSX(t *testing.T) {
	path := writeXLSX(t, [][]any{
		{"name", "qty", "name"},
		{"apple", 3, "x"},
		{"pear", 3, "y"},
		{},
		{"apple", 5, nil, "extra"},
	})

	tbl, err := Load(path, DefaultOptions())
	require.NoError(t, err)

	names := make([]string, len(tbl.Columns))
	for i, c := range tbl.Columns {
		names[i] = c.Name
	}
	assert.Equal(t, []string{"name", "qty", "name.1", "Unnamed: 3"}, names)
	assert.Equal(t, 3, tbl.Rows)

	qty, ok := tbl.Column("qty")
	require.True(t, ok)
	assert.Equal(t, table.IntType, qty.Type)
	assert.Equal(t, []string{"3", "3", "5"}, keys(qty))

	name, _ := tbl.Column("name")
	assert.Equal(t, table.TextType, name.Type)

	extra, _ := tbl.Column("Unnamed: 3")
	assert.True(t, extra.Values[0].Null)
	assert.Equal(t, "extra", extra.Values[2].Key)
}

func TestLoadXLSXEmptySheet(t *testing.T) {
	path := writeXLSX(t, nil)

	_, err := Load(path, DefaultOptions())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrParse)
	assert.True(t, strings.Contains(err.Error(), "no columns"))
}

func TestLoadXLSXFormattedNumbers(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	require.NoError(t, f.SetSheetRow(sheet, "A1", &[]any{"amount", "when", "paid"}))
	require.NoError(t, f.SetSheetRow(sheet, "A2", &[]any{1234.5, time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), true}))
	require.NoError(t, f.SetSheetRow(sheet, "A3", &[]any{99, time.Date(2024, 2, 1, 12, 30, 0, 0, time.UTC), false}))
	require.NoError(t, f.SetSheetRow(sheet, "A4", &[]any{1234.5, time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), true}))

	thousands, err := f.NewStyle(&excelize.Style{NumFmt: 4})
	require.NoError(t, err)
	require.NoError(t, f.SetCellStyle(sheet, "A2", "A4", thousands))

	date, err := f.NewStyle(&excelize.Style{NumFmt: 22})
	require.NoError(t, err)
	require.NoError(t, f.SetCellStyle(sheet, "B2", "B4", date))

	path := filepath.Join(t.TempDir(), "styled.xlsx")
	require.NoError(t, f.SaveAs(path))

	tbl, err := Load(path, DefaultOptions())
	require.NoError(t, err)
	require.Equal(t, 3, tbl.Rows)

	amount, ok := tbl.Column("amount")
	require.True(t, ok)
	assert.Equal(t, table.FloatType, amount.Type)
	assert.Equal(t, []string{"1234.5", "99.0", "1234.5"}, keys(amount))

	when, _ := tbl.Column("when")
	assert.Equal(t, table.DateTimeType, when.Type)
	assert.Equal(t, []string{"2024-01-15 00:00:00", "2024-02-01 12:30:00", "2024-01-15 00:00:00"}, keys(when))

	paid, _ := tbl.Column("paid")
	assert.Equal(t, table.BoolType, paid.Type)
	assert.Equal(t, []string{"True", "False", "True"}, keys(paid))
}

func TestDateFormatCode(t *testing.T) {
	tests := map[string]struct {
		code string
		want bool
	}{
		"iso date":        {"yyyy-mm-dd", true},
		"time":            {"h:mm AM/PM", true},
		"elapsed":         {"[h]:mm:ss", true},
		"locale prefix":   {"[$-409]d-mmm-yy", true},
		"currency":        {`"$"#,##0.00`, false},
		"quoted days":     {`0 "days"`, false},
		"escaped literal": {`0\h`, false},
		"percent":         {"0.00%", false},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tc.want, dateFormatCode(tc.code))
		})
	}
}

func TestLoadXLS(t *testing.T) {
	// Row 3 is not stored in the workbook and row 2 is wider than the
	// header.
	tbl, err := Load(filepath.Join("testdata", "sheet.xls"), DefaultOptions())
	require.NoError(t, err)

	names := make([]string, len(tbl.Columns))
	for i, c := range tbl.Columns {
		names[i] = c.Name
	}
	assert.Equal(t, []string{"id", "name", "score", "Unnamed: 3"}, names)
	assert.Equal(t, 3, tbl.Rows)

	id, _ := tbl.Column("id")
	assert.Equal(t, table.IntType, id.Type)
	assert.Equal(t, []string{"1", "2", "3"}, keys(id))

	name, _ := tbl.Column("name")
	assert.Equal(t, table.TextType, name.Type)
	assert.Equal(t, []string{"alice", "bob", ""}, keys(name))
	assert.True(t, name.Values[2].Null)

	score, _ := tbl.Column("score")
	assert.Equal(t, table.FloatType, score.Type)
	assert.Equal(t, []string{"90.5", "90.5", ""}, keys(score))

	extra, _ := tbl.Column("Unnamed: 3")
	assert.Equal(t, []string{"", "extra", ""}, keys(extra))
}
