package backfill

import (
	"context"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fjacquet/pcrecon/internal/bsr"
	"fjacquet/pcrecon/internal/logging"
	"fjacquet/pcrecon/internal/pricefeed"
)

var testLogger = logging.NewLogrusAdapter("error", "text")

var testClock = func() time.Time {
	return time.Date(2024, time.June, 15, 0, 0, 0, 0, time.UTC)
}

// fakeQuoter records every lookup and answers from a fixed price table.
type fakeQuoter struct {
	mu     sync.Mutex
	prices map[string]string
	calls  []string
	dates  []time.Time
}

func (f *fakeQuoter) Quote(_ context.Context, symbol string, date time.Time) (decimal.Decimal, error) {
	f.mu.Lock()
	f.calls = append(f.calls, symbol)
	f.dates = append(f.dates, date)
	f.mu.Unlock()

	p, ok := f.prices[symbol]
	if !ok {
		return decimal.Zero, pricefeed.ErrPriceNotFound
	}
	return decimal.RequireFromString(p), nil
}

// reportLine lays out a section data line with the date at column 0 and the
// symbol at the given column.
func reportLine(date, symbol string, symbolStart int) string {
	line := date
	for len(line) < symbolStart {
		line += " "
	}
	return line + symbol
}

func TestHandler_WritesPriceFile(t *testing.T) {
	dir := t.TempDir()
	quoter := &fakeQuoter{prices: map[string]string{"AAPL": "150.00"}}
	b := New(quoter, dir, testLogger, WithClock(testClock))

	data := []string{reportLine("01/05/24", "AAPL", 27)}
	require.NoError(t, b.Handler(0, 27, nil)(data))

	content, err := os.ReadFile(filepath.Join(dir, "fi010524.pri")) // #nosec G304
	require.NoError(t, err)
	line := strings.TrimSuffix(string(content), "\n")
	assert.Equal(t, "AAPL     ", line[:9])
	assert.Equal(t, "150.00", strings.TrimSpace(line[9:73]))
	assert.True(t, strings.HasSuffix(line, "010524"))
}

func TestHandler_GroupsByDateAndFlushesFinalGroup(t *testing.T) {
	dir := t.TempDir()
	quoter := &fakeQuoter{prices: map[string]string{"AAPL": "150.00", "MSFT": "390.50"}}
	b := New(quoter, dir, testLogger, WithClock(testClock))

	data := []string{
		reportLine("01/05/24", "AAPL", 27),
		reportLine("01/08/24", "MSFT", 27),
	}
	require.NoError(t, b.Handler(0, 27, nil)(data))

	// One file per date, including the final group.
	assert.FileExists(t, filepath.Join(dir, "fi010524.pri"))
	assert.FileExists(t, filepath.Join(dir, "fi010824.pri"))
}

func TestHandler_DeduplicatesSymbolsWithinGroup(t *testing.T) {
	dir := t.TempDir()
	quoter := &fakeQuoter{prices: map[string]string{"AAPL": "150.00"}}
	b := New(quoter, dir, testLogger, WithClock(testClock))

	data := []string{
		reportLine("01/05/24", "AAPL", 27),
		reportLine("01/05/24", "AAPL", 27),
	}
	require.NoError(t, b.Handler(0, 27, nil)(data))
	assert.Len(t, quoter.calls, 1)
}

func TestHandler_SkipListNeverRequested(t *testing.T) {
	dir := t.TempDir()
	quoter := &fakeQuoter{prices: map[string]string{"KBS": "1.00", "AAPL": "150.00"}}
	b := New(quoter, dir, testLogger, WithClock(testClock))

	data := []string{
		reportLine("01/05/24", "KBS", 27),
		reportLine("01/05/24", "AAPL", 27),
	}
	require.NoError(t, b.Handler(0, 27, nil)(data))
	assert.Equal(t, []string{"AAPL"}, quoter.calls)
}

func TestHandler_AggMirroredAsIndex(t *testing.T) {
	dir := t.TempDir()
	quoter := &fakeQuoter{prices: map[string]string{"AGG": "98.76"}}
	b := New(quoter, dir, testLogger, WithClock(testClock))

	data := []string{reportLine("01/05/24", "AGG", 27)}
	require.NoError(t, b.Handler(0, 27, nil)(data))

	content, err := os.ReadFile(filepath.Join(dir, "fi010524.pri")) // #nosec G304
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSuffix(string(content), "\n"), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "AGG", strings.TrimSpace(lines[0][:9]))
	assert.Equal(t, "AGGINDEX", strings.TrimSpace(lines[1][:9]))
	assert.Equal(t, strings.TrimSpace(lines[0][9:73]), strings.TrimSpace(lines[1][9:73]))
}

func TestHandler_YearRollover(t *testing.T) {
	dir := t.TempDir()
	quoter := &fakeQuoter{prices: map[string]string{"AAPL": "150.00"}}
	b := New(quoter, dir, testLogger, WithClock(testClock))

	// 25 is above the clock's 2-digit year, so the date is 1925.
	data := []string{reportLine("01/05/25", "AAPL", 27)}
	require.NoError(t, b.Handler(0, 27, nil)(data))

	require.Len(t, quoter.dates, 1)
	assert.Equal(t, 1925, quoter.dates[0].Year())
	// The stamp keeps the report's own digits.
	assert.FileExists(t, filepath.Join(dir, "fi010525.pri"))
}

func TestHandler_NoFileWhenNothingFound(t *testing.T) {
	dir := t.TempDir()
	quoter := &fakeQuoter{prices: map[string]string{}}
	b := New(quoter, dir, testLogger, WithClock(testClock))

	data := []string{reportLine("01/05/24", "AAPL", 27)}
	require.NoError(t, b.Handler(0, 27, nil)(data))
	assert.NoFileExists(t, filepath.Join(dir, "fi010524.pri"))
}

func TestHandler_PatternFiltersLines(t *testing.T) {
	dir := t.TempDir()
	quoter := &fakeQuoter{prices: map[string]string{"AAPL": "150.00", "MSFT": "390.50"}}
	b := New(quoter, dir, testLogger, WithClock(testClock))

	// Flow lines carry the date at 16 and the symbol at 26; only security
	// receipts and transfers need prices.
	pattern := regexp.MustCompile(`^Receipt|^Transfer`)
	data := []string{
		"Receipt of Secur01/05/24  AAPL",
		"Journal         01/05/24  MSFT",
	}
	require.NoError(t, b.Handler(16, 26, pattern)(data))

	assert.Equal(t, []string{"AAPL"}, quoter.calls)
}

func TestHandler_UnparsableDateGroupDropped(t *testing.T) {
	dir := t.TempDir()
	quoter := &fakeQuoter{prices: map[string]string{"AAPL": "150.00"}}
	b := New(quoter, dir, testLogger, WithClock(testClock))

	data := []string{reportLine("garbage!", "AAPL", 27)}
	require.NoError(t, b.Handler(0, 27, nil)(data))
	assert.Empty(t, quoter.calls)
}

func TestRegisterAll(t *testing.T) {
	dir := t.TempDir()
	quoter := &fakeQuoter{prices: map[string]string{"AAPL": "150.00"}}
	b := New(quoter, dir, testLogger, WithClock(testClock))

	p := bsr.NewParser(testLogger)
	require.NoError(t, b.RegisterAll(p))
}

func TestRegisterAll_EndToEnd(t *testing.T) {
	dir := t.TempDir()
	quoter := &fakeQuoter{prices: map[string]string{"AAPL": "150.00"}}
	b := New(quoter, dir, testLogger, WithClock(testClock))

	p := bsr.NewParser(testLogger)
	require.NoError(t, b.RegisterAll(p))

	report := "Unpriced Securities\n" +
		"\n" +
		"Date     Price File                 Symbol\n" +
		"--------------------------------------------\n" +
		reportLine("01/05/24", "AAPL", 27) + "\n" +
		"\n" +
		"End of report\n"
	require.NoError(t, p.Parse(strings.NewReader(report)))
	assert.FileExists(t, filepath.Join(dir, "fi010524.pri"))
}
