package tabular

import (
	"strconv"
	"strings"
	"time"

	"github.com/vvka-141/tabload/pkg/tabload"
)

// naValues are the cell texts read as null, matching the NA literal set
// recognized by pandas.read_csv.
var naValues = map[string]struct{}{
	"":         {},
	"#N/A":     {},
	"#N/A N/A": {},
	"#NA":      {},
	"-1.#IND":  {},
	"-1.#QNAN": {},
	"-NaN":     {},
	"-nan":     {},
	"1.#IND":   {},
	"1.#QNAN":  {},
	"<NA>":     {},
	"N/A":      {},
	"NA":       {},
	"NULL":     {},
	"NaN":      {},
	"None":     {},
	"n/a":      {},
	"nan":      {},
	"null":     {},
}

var boolLiterals = map[string]bool{
	"true":  true,
	"True":  true,
	"TRUE":  true,
	"false": false,
	"False": false,
	"FALSE": false,
}

// timestampLayouts are tried in order. Fractional seconds after the seconds
// field are accepted by time.Parse even when the layout omits them.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"2006/01/02 15:04:05",
	"2006/01/02",
}

// IsNull reports whether a raw cell is read as null.
func IsNull(raw string) bool {
	_, ok := naValues[raw]
	return ok
}

func parseInteger(s string) (int64, bool) {
	v, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	return v, err == nil
}

// parseFloat accepts decimal notation only; hex floats such as 0x1p-2 are
// left as text.
func parseFloat(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	digits := strings.TrimLeft(s, "+-")
	if len(digits) > 1 && digits[0] == '0' && (digits[1] == 'x' || digits[1] == 'X') {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	return v, err == nil
}

func parseBoolean(s string) (bool, bool) {
	v, ok := boolLiterals[strings.TrimSpace(s)]
	return v, ok
}

func parseTimestamp(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range timestampLayouts {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts, true
		}
	}
	return time.Time{}, false
}

// candidates lists the non-Text types in precedence order.
var candidates = []struct {
	typ   tabload.ColumnType
	match func(string) bool
}{
	{tabload.ColumnTypeInteger, func(s string) bool { _, ok := parseInteger(s); return ok }},
	{tabload.ColumnTypeFloat, func(s string) bool { _, ok := parseFloat(s); return ok }},
	{tabload.ColumnTypeBoolean, func(s string) bool { _, ok := parseBoolean(s); return ok }},
	{tabload.ColumnTypeTimestamp, func(s string) bool { _, ok := parseTimestamp(s); return ok }},
}

// InferType classifies a column from its raw cell texts.
// Nulls are ignored; a column with no non-null value is Text.
func InferType(values []string) tabload.ColumnType {
	nonNull := make([]string, 0, len(values))
	for _, v := range values {
		if !IsNull(v) {
			nonNull = append(nonNull, v)
		}
	}
	if len(nonNull) == 0 {
		return tabload.ColumnTypeText
	}

	for _, c := range candidates {
		if all(nonNull, c.match) {
			return c.typ
		}
	}
	return tabload.ColumnTypeText
}

func all(values []string, match func(string) bool) bool {
	for _, v := range values {
		if !match(v) {
			return false
		}
	}
	return true
}

// ConvertValue turns a raw cell into the Go value bound for its column type.
// The cell must have been classified by InferType for that column.
func ConvertValue(raw string, typ tabload.ColumnType) any {
	if IsNull(raw) {
		return nil
	}

	switch typ {
	case tabload.ColumnTypeInteger:
		if v, ok := parseInteger(raw); ok {
			return v
		}
	case tabload.ColumnTypeFloat:
		if v, ok := parseFloat(raw); ok {
			return v
		}
	case tabload.ColumnTypeBoolean:
		if v, ok := parseBoolean(raw); ok {
			return v
		}
	case tabload.ColumnTypeTimestamp:
		if v, ok := parseTimestamp(raw); ok {
			return v
		}
	}
	return raw
}
