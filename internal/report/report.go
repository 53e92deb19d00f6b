// Package report renders profile reports as a terminal table or as CSV.
package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"charm.land/lipgloss/v2"
	"charm.land/lipgloss/v2/table"

	"github.com/peekknuf/dataoverview/internal/profiler"
)

// Header is the field row shared by the printed table and the CSV output.
var Header = []string{
	"Field Name",
	"Data Type",
	"Count of Unique Values",
	"Example Values with Counts",
}

func records(r *profiler.Report) [][]string {
	rows := make([][]string, len(r.Columns))
	for i, c := range r.Columns {
		rows[i] = []string{
			c.Name,
			c.Type.String(),
			strconv.Itoa(c.UniqueCount),
			c.Examples(),
		}
	}
	return rows
}

// Print writes r to w as a bordered table. Example values keep one line
// per value inside their cell.
func Print(w io.Writer, r *profiler.Report) error {
	cell := lipgloss.NewStyle().Padding(0, 1)

	t := table.New().
		Border(lipgloss.NormalBorder()).
		StyleFunc(func(_, _ int) lipgloss.Style {
			return cell
		}).
		Headers(Header...).
		Rows(records(r)...)

	_, err := fmt.Fprintln(w, t.String())
	return err
}

// WriteCSV writes r as comma-separated text, one row per column.
func WriteCSV(w io.Writer, r *profiler.Report) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	if err := cw.WriteAll(records(r)); err != nil {
		return fmt.Errorf("failed to write rows: %w", err)
	}

	return nil
}

// SaveCSV writes r to a new file at path, replacing any existing file.
func SaveCSV(path string, r *profiler.Report) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}

	if err := WriteCSV(f, r); err != nil {
		f.Close()
		return err
	}

	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close output file: %w", err)
	}

	return nil
}
