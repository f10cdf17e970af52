// Package backfill resolves missing-price findings from the Batch Status
// Report: it groups flagged rows by trade date, asks the price oracle for
// each symbol and writes supplemental price files the accounting system
// picks up on its next batch run.
package backfill

import (
	"context"
	"regexp"
	"sort"
	"strings"
	"time"

	"fjacquet/pcrecon/internal/bsr"
	"fjacquet/pcrecon/internal/dateutils"
	"fjacquet/pcrecon/internal/logging"
	"fjacquet/pcrecon/internal/pricefeed"
	"fjacquet/pcrecon/internal/pricefile"
)

// Report column widths of the date and symbol substrings.
const (
	dateWidth   = 8
	symbolWidth = 16
)

// Backfiller turns section data lines into supplemental price files.
type Backfiller struct {
	quoter      pricefeed.Quoter
	downloadDir string
	skipSymbols map[string]bool
	concurrency int
	logger      logging.Logger
	now         func() time.Time
}

// Option configures a Backfiller.
type Option func(*Backfiller)

// WithSkipSymbols replaces the symbol skip list. Skipped symbols are known
// to resolve to erroneous historical prices and are never requested.
func WithSkipSymbols(symbols []string) Option {
	return func(b *Backfiller) {
		b.skipSymbols = make(map[string]bool, len(symbols))
		for _, s := range symbols {
			b.skipSymbols[s] = true
		}
	}
}

// WithConcurrency bounds the quote lookup fan-out per date group.
func WithConcurrency(n int) Option {
	return func(b *Backfiller) {
		if n > 0 {
			b.concurrency = n
		}
	}
}

// WithClock overrides the clock anchoring 2-digit year resolution.
func WithClock(now func() time.Time) Option {
	return func(b *Backfiller) {
		if now != nil {
			b.now = now
		}
	}
}

// DefaultSkipSymbols is the hand-maintained list of symbols that find
// erroneous historical prices.
var DefaultSkipSymbols = []string{"1402", "1926", "1933", "1934", "FRCMQ", "KBS"}

// New builds a Backfiller writing price files into downloadDir.
func New(quoter pricefeed.Quoter, downloadDir string, logger logging.Logger, opts ...Option) *Backfiller {
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}
	b := &Backfiller{
		quoter:      quoter,
		downloadDir: downloadDir,
		concurrency: 4,
		logger:      logger,
		now:         time.Now,
	}
	WithSkipSymbols(DefaultSkipSymbols)(b)
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Handler returns a section handler reading the trade date at dateStart and
// the symbol at symbolStart in each data line. A non-nil pattern restricts
// the handler to matching lines, distinguishing record types within a
// section.
func (b *Backfiller) Handler(dateStart, symbolStart int, pattern *regexp.Regexp) bsr.Handler {
	return func(data []string) error {
		return b.run(data, dateStart, symbolStart, pattern)
	}
}

// run walks the section's data lines in order. Lines are grouped by the
// date substring; a date change flushes the previous group, and the final
// group is flushed when input is exhausted.
func (b *Backfiller) run(data []string, dateStart, symbolStart int, pattern *regexp.Regexp) error {
	date := ""
	symbols := make(map[string]bool)

	for _, line := range data {
		if pattern != nil && !pattern.MatchString(line) {
			continue
		}

		newDate := substr(line, dateStart, dateWidth)
		if newDate != date {
			if date != "" {
				if err := b.flush(date, symbols); err != nil {
					return err
				}
			}
			date = newDate
			symbols = make(map[string]bool)
		}

		symbol := strings.TrimSpace(substr(line, symbolStart, symbolWidth))
		if symbol == "" || b.skipSymbols[symbol] {
			continue
		}
		symbols[symbol] = true
	}

	if date != "" {
		return b.flush(date, symbols)
	}
	return nil
}

// flush resolves one date group: sort the deduplicated symbols, fetch
// quotes, and append the results to that date's price file. The file is
// written only after every lookup for the date has completed.
func (b *Backfiller) flush(date string, symbolSet map[string]bool) error {
	if len(symbolSet) == 0 {
		return nil
	}

	tradeDate, err := dateutils.ParseReportDate(date, b.now())
	if err != nil {
		b.logger.WithError(err).Warn("Unparsable trade date in report, group dropped",
			logging.F("date", date))
		return nil
	}

	symbols := make([]string, 0, len(symbolSet))
	for s := range symbolSet {
		symbols = append(symbols, s)
	}
	sort.Strings(symbols)

	b.logger.Info("Backfilling prices",
		logging.F("date", tradeDate.Format(dateutils.LayoutQuoteURL)),
		logging.F("symbols", len(symbols)))

	quotes := pricefeed.FetchAll(context.Background(), b.quoter, symbols, tradeDate, b.concurrency, b.logger)
	if len(quotes) == 0 {
		b.logger.Warn("No prices available for date group",
			logging.F("date", date))
		return nil
	}

	path, err := pricefile.WriteQuotes(b.downloadDir, dateutils.DigitsOnly(date), quotes)
	if err != nil {
		return err
	}
	b.logger.Info("Wrote price file",
		logging.F("file", path),
		logging.F("quotes", len(quotes)))
	return nil
}

// substr takes a column range, tolerating lines shorter than the report's
// nominal layout.
func substr(line string, start, width int) string {
	if start >= len(line) {
		return ""
	}
	end := start + width
	if end > len(line) {
		end = len(line)
	}
	return line[start:end]
}
