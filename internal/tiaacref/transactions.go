package tiaacref

import (
	"strings"

	"github.com/shopspring/decimal"

	"fjacquet/pcrecon/internal/convert"
	"fjacquet/pcrecon/internal/dateutils"
	"fjacquet/pcrecon/internal/fixedwidth"
	"fjacquet/pcrecon/internal/models"
)

// Column positions in the TIAA-CREF transactions export (.trn).
const (
	trnColBroker    = 0
	trnColAccount   = 2
	trnColCode      = 3
	trnColCancel    = 4
	trnColSymbol    = 5
	trnColSecCode   = 6
	trnColTradeDate = 7
	trnColQuantity  = 8
	trnColNet       = 9
	trnColGross     = 10
	trnColBrokerFee = 11
	trnColOtherFee  = 12
)

// trnRow names the positional fields of one transactions row.
type trnRow struct {
	Account   string
	Code      string
	Cancel    string
	Symbol    string
	TradeDate string
	Quantity  string
	Net       string
	Gross     string
	BrokerFee string
	OtherFee  string
}

func newTrnRow(fields []string) trnRow {
	get := func(i int) string { return strings.TrimSpace(fixedwidth.Field(fields, i)) }
	return trnRow{
		Account:   get(trnColAccount),
		Code:      get(trnColCode),
		Cancel:    get(trnColCancel),
		Symbol:    get(trnColSymbol),
		TradeDate: get(trnColTradeDate),
		Quantity:  get(trnColQuantity),
		Net:       get(trnColNet),
		Gross:     get(trnColGross),
		BrokerFee: get(trnColBrokerFee),
		OtherFee:  get(trnColOtherFee),
	}
}

// CanonicalAccount rearranges a compound custodian account string into the
// destination layout: the last six characters followed by the first eight.
func CanonicalAccount(s string) string {
	s = strings.TrimSpace(s)
	if len(s) <= 6 {
		return s
	}
	head := s
	if len(head) > 8 {
		head = s[:8]
	}
	return s[len(s)-6:] + head
}

// ConvertTrn maps one transactions export row to a canonical transaction
// record. Rows with a transaction type outside the closed vocabulary and
// rows with malformed numeric fields are unconvertible, not fatal.
func ConvertTrn(fields []string, ctx convert.Context) models.Outcome {
	if blankRow(fields) {
		return models.Skipped()
	}
	row := newTrnRow(fields)

	code, ok := models.TxnCodes[strings.ToUpper(row.Code)]
	if !ok {
		return models.Unconvertible(rejoin(fields))
	}

	tradeDate, err := dateutils.ParseReportDate(row.TradeDate, ctx.Now)
	if err != nil {
		return models.Unconvertible(rejoin(fields))
	}

	quantity, err := parseAmount(row.Quantity)
	if err != nil {
		return models.Unconvertible(rejoin(fields))
	}
	net, err := parseAmount(row.Net)
	if err != nil {
		return models.Unconvertible(rejoin(fields))
	}
	gross, err := parseAmount(row.Gross)
	if err != nil {
		return models.Unconvertible(rejoin(fields))
	}
	brokerFee, err := parseAmount(row.BrokerFee)
	if err != nil {
		return models.Unconvertible(rejoin(fields))
	}
	otherFee, err := parseAmount(row.OtherFee)
	if err != nil {
		return models.Unconvertible(rejoin(fields))
	}

	rec := models.TrnRecord{
		Account:   CanonicalAccount(row.Account),
		Code:      code,
		Cancelled: strings.EqualFold(row.Cancel, "Y"),
		Symbol:    strings.ToLower(row.Symbol),
		TradeDate: dateutils.Stamp(tradeDate),
		Quantity:  quantity,
		Net:       net,
		Gross:     gross,
		Fee:       brokerFee.Add(otherFee),
	}
	return models.Converted(rec.Format())
}

// parseAmount parses a numeric export field; empty means zero.
func parseAmount(s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(s)
}
