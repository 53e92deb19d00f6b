package loader

import (
	"errors"
	"fmt"
	"io/fs"
)

// Kind classifies why a file could not be loaded.
type Kind uint8

const (
	// UnsupportedFormat is returned for file extensions other than .csv,
	// .xlsx and .xls.
	UnsupportedFormat Kind = iota + 1
	// FileAccess covers missing, unreadable and corrupt files.
	FileAccess
	// Parse is returned when a readable file does not hold tabular data.
	Parse
)

func (k Kind) String() string {
	switch k {
	case UnsupportedFormat:
		return "unsupported_format"
	case FileAccess:
		return "file_access"
	case Parse:
		return "parse"
	}
	return "unknown"
}

var (
	ErrUnsupportedFormat = errors.New("Unsupported file format. Please use a CSV or Excel file.")
	ErrFileAccess        = errors.New("file access error")
	ErrParse             = errors.New("parse error")
)

// Error is the error type returned by Load.
type Error struct {
	Kind Kind
	Path string
	Err  error
}

func (e *Error) Error() string {
	switch e.Kind {
	case UnsupportedFormat:
		return ErrUnsupportedFormat.Error()
	case FileAccess:
		// Filesystem errors already name the path.
		var pe *fs.PathError
		if errors.As(e.Err, &pe) {
			return fmt.Sprintf("cannot read %s: %v", e.Path, pe.Err)
		}
		return fmt.Sprintf("cannot read %s: %v", e.Path, e.Err)
	case Parse:
		return fmt.Sprintf("cannot parse %s: %v", e.Path, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches the kind sentinels so callers can use errors.Is.
func (e *Error) Is(target error) bool {
	switch target {
	case ErrUnsupportedFormat:
		return e.Kind == UnsupportedFormat
	case ErrFileAccess:
		return e.Kind == FileAccess
	case ErrParse:
		return e.Kind == Parse
	}
	return false
}

func unsupported(path string) error {
	return &Error{Kind: UnsupportedFormat, Path: path, Err: ErrUnsupportedFormat}
}

func accessError(path string, err error) error {
	return &Error{Kind: FileAccess, Path: path, Err: err}
}

func parseError(path string, err error) error {
	return &Error{Kind: Parse, Path: path, Err: err}
}
