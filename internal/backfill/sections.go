package backfill

import (
	"regexp"

	"fjacquet/pcrecon/internal/bsr"
)

// Report sections the backfiller remediates, with the column offsets of
// their date and symbol substrings.
const (
	// SectionUnpriced lists price files that are missing or that lack
	// symbols for a date.
	SectionUnpriced = "Unpriced Securities"
	// SectionNoFlow lists flows without market value; only security
	// receipts and transfers need prices downloaded.
	SectionNoFlow = "No Market Value for Flow"

	unpricedDateStart   = 0
	unpricedSymbolStart = 27
	noFlowDateStart     = 16
	noFlowSymbolStart   = 26
)

var noFlowPattern = regexp.MustCompile(`^Receipt|^Transfer`)

// RegisterAll binds the backfiller to every section it remediates. The
// remaining report sections require no automated response and stay
// unregistered.
func (b *Backfiller) RegisterAll(p *bsr.Parser) error {
	if err := p.Register(SectionUnpriced, b.Handler(unpricedDateStart, unpricedSymbolStart, nil)); err != nil {
		return err
	}
	return p.Register(SectionNoFlow, b.Handler(noFlowDateStart, noFlowSymbolStart, noFlowPattern))
}
