package models

import (
	"github.com/shopspring/decimal"

	"fjacquet/pcrecon/internal/fixedwidth"
)

// Field widths of the canonical interchange records. The downstream system
// reads these files byte-for-byte, so the widths are part of the contract:
// text fields are left-justified with trailing spaces, numeric fields
// right-justified with leading spaces and fixed decimal precision.
var (
	// SecWidths: security type, symbol, description, CUSIP, unit price.
	SecWidths = []int{2, 9, 40, 9, 6}
	// PriWidths: symbol, price (7 decimals), date stamp.
	PriWidths = []int{58, 15, 6}
	// QuoteWidths: symbol, price (2 decimals), date stamp.
	QuoteWidths = []int{9, 64, 6}
	// TrnWidths: account, code, cancel flag, symbol, ticker, trade date,
	// quantity (5 decimals), net and gross amounts (2 decimals), fee
	// (2 decimals), source, description.
	TrnWidths = []int{14, 2, 1, 9, 3, 6, 16, 16, 16, 10, 2, 21}
)

// SecRecord is one canonical security master record (.sec).
type SecRecord struct {
	SecType     string
	Symbol      string
	Description string
	CUSIP       string
}

// Format renders the record as a canonical fixed-width line.
func (r SecRecord) Format() string {
	return fixedwidth.PadRight(r.SecType, SecWidths[0]) +
		fixedwidth.PadRight(r.Symbol, SecWidths[1]) +
		fixedwidth.PadRight(r.Description, SecWidths[2]) +
		fixedwidth.PadLeft(r.CUSIP, SecWidths[3]) +
		"  0.00"
}

// PriRecord is one canonical price record (.pri) at full 7-decimal
// precision.
type PriRecord struct {
	Symbol    string
	Price     decimal.Decimal
	DateStamp string
}

// Format renders the record as a canonical fixed-width line.
func (r PriRecord) Format() string {
	return fixedwidth.PadRight(r.Symbol, PriWidths[0]) +
		fixedwidth.FormatDecimal(r.Price, PriWidths[1], 7) +
		r.DateStamp
}

// Quote is one (symbol, price) pair returned by the price oracle.
type Quote struct {
	Symbol string
	Price  decimal.Decimal
}

// FormatQuote renders a supplemental price file line: symbol, closing price
// and the 6-digit date stamp with no separator.
func FormatQuote(q Quote, dateStamp string) string {
	return fixedwidth.PadRight(q.Symbol, QuoteWidths[0]) +
		fixedwidth.FormatDecimal(q.Price, QuoteWidths[1], 2) +
		dateStamp
}

// TrnRecord is one canonical transaction record (.trn).
type TrnRecord struct {
	Account   string
	Code      TxnCode
	Cancelled bool
	Symbol    string
	TradeDate string // 6-digit date stamp
	Quantity  decimal.Decimal
	Net       decimal.Decimal
	Gross     decimal.Decimal
	Fee       decimal.Decimal
}

// Format renders the record as a canonical fixed-width line.
func (r TrnRecord) Format() string {
	cancel := " "
	if r.Cancelled {
		cancel = "Y"
	}
	return fixedwidth.PadRight(r.Account, TrnWidths[0]) +
		fixedwidth.PadRight(r.Code.Code, TrnWidths[1]) +
		cancel +
		fixedwidth.PadRight(r.Symbol, TrnWidths[3]) +
		fixedwidth.PadRight(r.Code.Ticker, TrnWidths[4]) +
		fixedwidth.PadRight(r.TradeDate, TrnWidths[5]) +
		fixedwidth.FormatDecimal(r.Quantity, TrnWidths[6], 5) +
		fixedwidth.FormatDecimal(r.Net, TrnWidths[7], 2) +
		fixedwidth.FormatDecimal(r.Gross, TrnWidths[8], 2) +
		fixedwidth.FormatDecimal(r.Fee, TrnWidths[9], 2) +
		fixedwidth.PadRight(r.Code.Source.Code(), TrnWidths[10]) +
		fixedwidth.PadRight(r.Code.Description, TrnWidths[11])
}
