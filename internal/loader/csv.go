package loader

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/peekknuf/dataoverview/internal/table"
)

var errNoColumns = errors.New("no columns to parse from file")

func loadCSV(path string, delimiter rune) (*table.Table, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, accessError(path, err)
	}
	defer file.Close()

	t, err := readCSV(skipBOM(file), delimiter)
	if err != nil {
		var pe *csv.ParseError
		if errors.As(err, &pe) || errors.Is(err, errNoColumns) || errors.Is(err, errWideRow) {
			return nil, parseError(path, err)
		}
		return nil, accessError(path, err)
	}

	return t, nil
}

var errWideRow = errors.New("too many fields")

func readCSV(r io.Reader, delimiter rune) (*table.Table, error) {
	reader := csv.NewReader(r)
	reader.Comma = delimiter
	reader.FieldsPerRecord = -1
	// A quote inside an unquoted field is kept as a literal character.
	reader.LazyQuotes = true

	headers, err := reader.Read()
	if err == io.EOF {
		return nil, errNoColumns
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read headers: %w", err)
	}

	b := table.NewBuilder(headers)

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read record: %w", err)
		}

		if len(record) > b.Width() {
			line, _ := reader.FieldPos(0)
			return nil, fmt.Errorf("%w: expected %d fields in line %d, saw %d",
				errWideRow, b.Width(), line, len(record))
		}

		if err := b.Append(record); err != nil {
			return nil, err
		}
	}

	return b.Build(), nil
}
