// Package dateutils provides the date handling shared by the converters and
// the price backfiller: PortfolioCenter date stamps, two-digit year
// resolution and business-day checks.
package dateutils

import (
	"fmt"
	"strings"
	"time"
)

// Date layout constants used throughout the application.
const (
	// LayoutStamp is the 6-digit PortfolioCenter date stamp (MMDDYY) used in
	// interchange file names and price records.
	LayoutStamp = "010206"
	// LayoutReport is the date format printed in Batch Status Report rows.
	LayoutReport = "01/02/06"
	// LayoutQuoteURL is the format expected by the historical quote source.
	LayoutQuoteURL = "01/02/2006"
)

// ResolveTwoDigitYear resolves a 2-digit year to a 4-digit year using the
// rollover window rule: if yy <= currentYear%100 the year is 2000+yy,
// otherwise 1900+yy.
func ResolveTwoDigitYear(yy int, now time.Time) int {
	yy = yy % 100
	if yy <= now.Year()%100 {
		return 2000 + yy
	}
	return 1900 + yy
}

// Stamp formats a date as the 6-digit PortfolioCenter date stamp (MMDDYY).
func Stamp(t time.Time) string {
	return t.Format(LayoutStamp)
}

// ParseQuickDate parses a 6-digit MMDDYY date, resolving the 2-digit year
// against the rollover window.
func ParseQuickDate(s string, now time.Time) (time.Time, error) {
	s = strings.TrimSpace(s)
	if len(s) != 6 {
		return time.Time{}, fmt.Errorf("invalid quick date %q: want MMDDYY", s)
	}
	t, err := time.Parse(LayoutStamp, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid quick date %q: %w", s, err)
	}
	year := ResolveTwoDigitYear(t.Year()%100, now)
	return time.Date(year, t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
}

// ParseReportDate parses a trade date as printed in report rows. Both the
// slashed form (mm/dd/yy) and the bare 6-digit stamp are accepted; the
// 2-digit year is resolved against the rollover window.
func ParseReportDate(s string, now time.Time) (time.Time, error) {
	s = strings.TrimSpace(s)
	return ParseQuickDate(strings.ReplaceAll(s, "/", ""), now)
}

// DigitsOnly strips the separators from a report date so it can be used as a
// date stamp without reinterpreting the value.
func DigitsOnly(s string) string {
	return strings.ReplaceAll(strings.TrimSpace(s), "/", "")
}

// IsWeekend checks if a date falls on a Saturday or Sunday.
func IsWeekend(t time.Time) bool {
	day := t.Weekday()
	return day == time.Saturday || day == time.Sunday
}

// IsBusinessDay checks if a date is a business day (not a weekend).
// Does not account for holidays.
func IsBusinessDay(t time.Time) bool {
	return !IsWeekend(t)
}
