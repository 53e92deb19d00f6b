// Package loader reads CSV and Excel files into in-memory tables.
package loader

import (
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/peekknuf/dataoverview/internal/table"
)

// Format is a supported input format.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
	FormatXLS  Format = "xls"
)

// DefaultDelimiter separates CSV fields unless configured otherwise.
const DefaultDelimiter = ';'

// Extensions lists the file extensions Load accepts, without the dot.
var Extensions = []string{"csv", "xlsx", "xls"}

type Options struct {
	// Delimiter separates fields in CSV input.
	Delimiter rune

	Logger *slog.Logger
}

func DefaultOptions() Options {
	return Options{
		Delimiter: DefaultDelimiter,
		Logger:    slog.Default(),
	}
}

// DetectFormat maps a path's extension to a Format.
func DetectFormat(path string) (Format, bool) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return FormatCSV, true
	case ".xlsx":
		return FormatXLSX, true
	case ".xls":
		return FormatXLS, true
	}
	return "", false
}

// Load reads the file at path into a table. Errors are always *Error.
func Load(path string, opts Options) (*table.Table, error) {
	if opts.Delimiter == 0 {
		opts.Delimiter = DefaultDelimiter
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	format, ok := DetectFormat(path)
	if !ok {
		return nil, unsupported(path)
	}

	opts.Logger.Debug("loading file", "path", path, "format", format)

	var (
		t   *table.Table
		err error
	)

	switch format {
	case FormatCSV:
		t, err = loadCSV(path, opts.Delimiter)
	case FormatXLSX:
		t, err = loadXLSX(path)
	case FormatXLS:
		t, err = loadXLS(path)
	}
	if err != nil {
		return nil, err
	}

	opts.Logger.Debug("loaded file", "path", path, "rows", t.Rows, "columns", len(t.Columns))

	return t, nil
}
