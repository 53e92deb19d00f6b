package table

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// KeyTimeLayout is how datetime values are rendered in reports.
const KeyTimeLayout = "2006-01-02 15:04:05"

var (
	dateFormats = []string{
		"2006-01-02",
		"01-02-2006",
		"01/02/2006",
		"01/02/06",
		"1/2/06",
		"1/2/2006",
		"02-Jan-2006",
	}

	dateTimeFormats = []string{
		"2006-01-02 15:04",
		"2006-01-02 15:04:05",
		"2006-01-02T15:04:05",
		"2006-01-02T15:04:05Z07:00",
		"2006-01-02 15:04:05.999999999",
		"01/02/2006 15:04",
		"01/02/2006 15:04:05",
	}

	// Strings read as missing values, in addition to the empty cell.
	nullMarkers = map[string]struct{}{
		"":         {},
		"NA":       {},
		"N/A":      {},
		"n/a":      {},
		"NaN":      {},
		"nan":      {},
		"-NaN":     {},
		"-nan":     {},
		"null":     {},
		"NULL":     {},
		"None":     {},
		"<NA>":     {},
		"#N/A":     {},
		"#N/A N/A": {},
		"#NA":      {},
		"1.#IND":   {},
		"1.#QNAN":  {},
		"-1.#IND":  {},
		"-1.#QNAN": {},
	}
)

// IsNull reports whether a raw cell denotes a missing value.
func IsNull(s string) bool {
	_, ok := nullMarkers[strings.TrimSpace(s)]
	return ok
}

func ParseInt(s string) (int64, bool) {
	i, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, false
	}
	return i, true
}

func ParseFloat(s string) (float64, bool) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// ParseBool accepts only true/false in any case. strconv.ParseBool also
// takes 1/0 and t/f, which would shadow integer and text columns.
func ParseBool(s string) (bool, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true":
		return true, true
	case "false":
		return false, true
	}
	return false, false
}

func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)

	for _, layout := range dateFormats {
		if v, err := time.Parse(layout, s); err == nil {
			return v, true
		}
	}

	return time.Time{}, false
}

func ParseDateTime(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)

	for _, layout := range dateTimeFormats {
		if v, err := time.Parse(layout, s); err == nil {
			return v, true
		}
	}

	return time.Time{}, false
}

// hasLeadingZeros checks if a valid integer value contains leading zeros.
// This is often an indicator that this is not an integer, but an identifier.
func hasLeadingZeros(s string) bool {
	s = strings.TrimLeft(strings.TrimSpace(s), "+-")
	return len(s) > 1 && s[0] == '0'
}

// Detect returns the most specific type a single raw value satisfies.
func Detect(s string) ValueType {
	if IsNull(s) {
		return NullType
	}
	if _, ok := ParseInt(s); ok {
		return IntType
	}
	if _, ok := ParseFloat(s); ok {
		return FloatType
	}
	if _, ok := ParseBool(s); ok {
		return BoolType
	}
	if _, ok := ParseDate(s); ok {
		return DateTimeType
	}
	if _, ok := ParseDateTime(s); ok {
		return DateTimeType
	}
	return TextType
}

// FormatFloat renders f the way reports show floating-point values:
// shortest form, integral values keep a trailing ".0".
func FormatFloat(f float64) string {
	if math.IsInf(f, 0) {
		if f > 0 {
			return "inf"
		}
		return "-inf"
	}

	s := strconv.FormatFloat(f, 'f', -1, 64)
	if math.Abs(f) >= 1e16 || (f != 0 && math.Abs(f) < 1e-4) {
		s = strconv.FormatFloat(f, 'g', -1, 64)
	}
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}

// canonical renders raw in type t. Values that fail to parse as t keep
// their raw text.
func canonical(raw string, t ValueType) string {
	switch t {
	case IntType:
		if i, ok := ParseInt(raw); ok {
			return strconv.FormatInt(i, 10)
		}
		if b, ok := ParseBool(raw); ok {
			if b {
				return "1"
			}
			return "0"
		}
	case FloatType:
		if f, ok := ParseFloat(raw); ok {
			return FormatFloat(f)
		}
		if b, ok := ParseBool(raw); ok {
			if b {
				return "1.0"
			}
			return "0.0"
		}
	case BoolType:
		if b, ok := ParseBool(raw); ok {
			if b {
				return "True"
			}
			return "False"
		}
	case DateTimeType:
		if v, ok := ParseDate(raw); ok {
			return v.Format(KeyTimeLayout)
		}
		if v, ok := ParseDateTime(raw); ok {
			return v.Format(KeyTimeLayout)
		}
	}

	return raw
}
