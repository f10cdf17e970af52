// Package fixedwidth implements the field extraction and formatting
// primitives behind every custodian converter: delimiter splitting, fixed
// column slicing, padding and fixed-precision numeric fields.
//
// Width handling is deliberately permissive on the read side. Export files
// arrive ragged, so a line shorter than the declared widths yields truncated
// or empty trailing fields instead of an error; converters treat empty
// strings as absent values.
package fixedwidth

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Terminator is the line terminator of the canonical interchange format.
const Terminator = "\r\n"

// SplitDelimited splits a line on the given delimiter. No quote or escape
// handling is applied.
func SplitDelimited(line string, delim rune) []string {
	return strings.Split(line, string(delim))
}

// SplitQuoted splits a line on the given delimiter and strips one layer of
// double quoting from each token. Schwab exports quote every field.
func SplitQuoted(line string, delim rune) []string {
	fields := strings.Split(line, string(delim))
	for i, f := range fields {
		if len(f) >= 2 && f[0] == '"' && f[len(f)-1] == '"' {
			fields[i] = f[1 : len(f)-1]
		}
	}
	return fields
}

// SplitWidths slices a line into fields of the given widths, consuming the
// line left to right. A line shorter than the total width produces a
// truncated final field and empty fields after it; excess characters beyond
// the declared widths are ignored.
func SplitWidths(line string, widths []int) []string {
	fields := make([]string, 0, len(widths))
	for _, w := range widths {
		if w > len(line) {
			w = len(line)
		}
		fields = append(fields, line[:w])
		line = line[w:]
	}
	return fields
}

// Field returns the i-th extracted field, or "" when the row is too short.
// Downstream converters never index raw slices directly.
func Field(fields []string, i int) string {
	if i < 0 || i >= len(fields) {
		return ""
	}
	return fields[i]
}

// PadRight left-justifies s in a field of the given width, truncating when
// the value is longer than the field.
func PadRight(s string, width int) string {
	if len(s) >= width {
		return s[:width]
	}
	return s + strings.Repeat(" ", width-len(s))
}

// PadLeft right-justifies s in a field of the given width, truncating when
// the value is longer than the field.
func PadLeft(s string, width int) string {
	if len(s) >= width {
		return s[:width]
	}
	return strings.Repeat(" ", width-len(s)) + s
}

// FormatDecimal right-justifies a numeric value with a fixed number of
// decimal places in a field of the given width.
func FormatDecimal(d decimal.Decimal, width, places int) string {
	return PadLeft(d.StringFixed(int32(places)), width)
}

// Join joins records with the canonical terminator. Individual records
// carry no terminator of their own; the result ends with one so appended
// writes continue cleanly.
func Join(lines []string) string {
	if len(lines) == 0 {
		return ""
	}
	return strings.Join(lines, Terminator) + Terminator
}
