// Package bsr parses the Batch Status Report that PortfolioCenter produces
// after a batch interval calculation. The report is organized into titled
// sections; each section's data rows are buffered and handed to a
// registered handler when the section closes.
package bsr

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"fjacquet/pcrecon/internal/logging"
	"fjacquet/pcrecon/internal/parsererror"
)

// Sections is the closed list of section titles the report can contain.
// Titles are matched verbatim against report lines.
var Sections = []string{
	"Missing Price Files",
	"Unpriced Securities",
	"Portfolios with Inception Date After Requested Date Range",
	"No Inception Date for Portfolio",
	"Cash Flows Exceeding  10.000% of Interval Beginning Value",
	"No Market Value for Flow",
	"Journal Entries",
	"Trades to None",
	"Inception Flows for Group Members",
	"Unmanaged Asset Flows",
	"Beginning Interval Value does not match the ending value of the previous interval - Portfolio Level",
	"Beginning Interval Value does not match the ending value of the previous interval - Asset Class Level",
	"Invalid Computed Intervals",
}

// Handler consumes the buffered data lines of one completed section.
// Handlers run synchronously inside the parse loop; the parser does not
// resume scanning until the handler returns.
type Handler func(data []string) error

// Parser is the section-aware state machine over a Batch Status Report.
type Parser struct {
	handlers map[string]Handler
	known    map[string]bool
	logger   logging.Logger
}

// NewParser builds a report parser with no handlers registered.
func NewParser(logger logging.Logger) *Parser {
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}
	known := make(map[string]bool, len(Sections))
	for _, s := range Sections {
		known[s] = true
	}
	return &Parser{
		handlers: make(map[string]Handler),
		known:    known,
		logger:   logger,
	}
}

// Register binds a handler to a section title. Registering a title outside
// the known section list is an error, so a typo fails at startup instead of
// silently never matching.
func (p *Parser) Register(section string, h Handler) error {
	if !p.known[section] {
		return fmt.Errorf("unknown report section %q", section)
	}
	if h == nil {
		return fmt.Errorf("nil handler for report section %q", section)
	}
	p.handlers[section] = h
	return nil
}

// Parse reads the report top to bottom. Sections without a registered
// handler are acknowledged with a line count only. A report that ends in
// the middle of a section never dispatches that section's data; the
// partial data is dropped and a warning logged.
func (p *Parser) Parse(r io.Reader) error {
	scanner := bufio.NewScanner(r)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if !p.known[line] {
			continue
		}

		section := line
		p.logger.Info("Entering section", logging.F("section", section))

		data, err := p.readSection(scanner, section)
		if err != nil {
			p.logger.WithError(err).Warn("Structural parse failure, section dropped")
			continue
		}

		p.logger.Info("Section complete",
			logging.F("section", section),
			logging.F("lines", len(data)))

		if handler, ok := p.handlers[section]; ok {
			if err := handler(data); err != nil {
				p.logger.WithError(err).Error("Section handler failed",
					logging.F("section", section))
			}
		}
		p.logger.Info("Exiting section", logging.F("section", section))
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading report: %w", err)
	}
	return nil
}

// readSection consumes one section after its title line: a blank separator,
// header lines up to the dash marker line, then data lines up to a blank
// line. The marker line itself is discarded.
func (p *Parser) readSection(scanner *bufio.Scanner, section string) ([]string, error) {
	// Blank separator after the title.
	if !scanner.Scan() {
		return nil, &parsererror.SectionError{Section: section, Reason: "report ended before section header"}
	}

	// Header lines are printed, not parsed.
	for {
		if !scanner.Scan() {
			return nil, &parsererror.SectionError{Section: section, Reason: "report ended inside section header"}
		}
		header := strings.TrimSpace(scanner.Text())
		if strings.HasPrefix(header, "-") {
			break
		}
		p.logger.Info("\t" + header)
	}

	// Data lines are buffered until the blank line that closes the section.
	// End of input inside the data block drops the section: the report is
	// presumed to end cleanly, and an unterminated final section is never
	// dispatched.
	var data []string
	for {
		if !scanner.Scan() {
			return nil, &parsererror.SectionError{Section: section, Reason: "report ended inside section data"}
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			return data, nil
		}
		data = append(data, line)
	}
}
