// Package pricefile writes supplemental price files in the canonical
// fixed-width quote format, one file per trade date.
package pricefile

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"fjacquet/pcrecon/internal/dateutils"
	"fjacquet/pcrecon/internal/fileutils"
	"fjacquet/pcrecon/internal/models"
)

// Extension of supplemental price files.
const Extension = ".pri"

// Name returns the deterministic price file name for a trade date:
// "fi" + MMDDYY + ".pri".
func Name(date time.Time) string {
	return "fi" + dateutils.Stamp(date) + Extension
}

// NameFromStamp builds the price file name from an already-resolved 6-digit
// date stamp.
func NameFromStamp(stamp string) string {
	return "fi" + stamp + Extension
}

// WriteQuotes appends the quotes to the price file for the given date stamp
// in downloadDir, creating the file on first write. No file is touched when
// quotes is empty. Returns the file path written, or "" when nothing was
// written.
func WriteQuotes(downloadDir, stamp string, quotes []models.Quote) (string, error) {
	if len(quotes) == 0 {
		return "", nil
	}
	if len(stamp) != 6 {
		return "", fmt.Errorf("invalid date stamp %q: want MMDDYY", stamp)
	}

	lines := make([]string, len(quotes))
	for i, q := range quotes {
		lines[i] = models.FormatQuote(q, stamp)
	}

	path := filepath.Join(downloadDir, NameFromStamp(stamp))
	if err := fileutils.WriteFileString(path, strings.Join(lines, "\n")+"\n", true); err != nil {
		return "", fmt.Errorf("writing price file: %w", err)
	}
	return path, nil
}
