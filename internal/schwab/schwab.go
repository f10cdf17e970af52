// Package schwab converts Schwab brokerage transaction exports into the
// canonical interchange format. Schwab exports are comma-separated with
// every field quoted and CRLF terminated; extraction strips one layer of
// quoting.
package schwab

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"fjacquet/pcrecon/internal/convert"
	"fjacquet/pcrecon/internal/dateutils"
	"fjacquet/pcrecon/internal/fixedwidth"
	"fjacquet/pcrecon/internal/models"
)

// Delimiter used by Schwab export files.
const Delimiter = ','

// DateFromExportName parses the export date out of an swYYMMDD.csv file
// name.
func DateFromExportName(name string) (time.Time, error) {
	base := filepath.Base(name)
	if len(base) < 8 || !strings.EqualFold(base[:2], "sw") {
		return time.Time{}, fmt.Errorf("unrecognized Schwab export name %q", base)
	}
	t, err := time.Parse("060102", base[2:8])
	if err != nil {
		return time.Time{}, fmt.Errorf("unrecognized Schwab export name %q: %w", base, err)
	}
	return time.Date(2000+t.Year()%100, t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
}

// CanonicalPath maps a Schwab export path to the cumulative transaction
// interchange file for its date.
func CanonicalPath(exportPath string) (string, error) {
	date, err := DateFromExportName(exportPath)
	if err != nil {
		return "", err
	}
	name := "fi" + dateutils.Stamp(date) + ".trn"
	return filepath.Join(filepath.Dir(exportPath), name), nil
}

// Extract splits one export row and strips the quoting Schwab applies to
// every field.
func Extract(line string) []string {
	return fixedwidth.SplitQuoted(line, Delimiter)
}

// Column positions in the Schwab transactions export.
const (
	colAccount     = 0
	colTradeDate   = 1
	colAction      = 2
	colSymbol      = 3
	colDescription = 4
	colQuantity    = 5
	colPrice       = 6
	colFees        = 7
	colAmount      = 8
)

// txnRow names the positional fields of one Schwab transactions row.
type txnRow struct {
	Account   string
	TradeDate string
	Action    string
	Symbol    string
	Quantity  string
	Fees      string
	Amount    string
}

func newTxnRow(fields []string) txnRow {
	get := func(i int) string { return strings.TrimSpace(fixedwidth.Field(fields, i)) }
	return txnRow{
		Account:   get(colAccount),
		TradeDate: get(colTradeDate),
		Action:    get(colAction),
		Symbol:    get(colSymbol),
		Quantity:  get(colQuantity),
		Fees:      get(colFees),
		Amount:    get(colAmount),
	}
}

// ConvertTxn maps one Schwab transactions row to a canonical transaction
// record. The header row Schwab prepends carries a non-vocabulary action
// word and lands in the error sidecar like any other unmapped row.
func ConvertTxn(fields []string, ctx convert.Context) models.Outcome {
	if len(fields) == 1 && strings.TrimSpace(fields[0]) == "" {
		return models.Skipped()
	}

	row := newTxnRow(fields)

	code, ok := models.TxnCodes[strings.ToUpper(row.Action)]
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
	fees, err := parseAmount(row.Fees)
	if err != nil {
		return models.Unconvertible(rejoin(fields))
	}
	amount, err := parseAmount(row.Amount)
	if err != nil {
		return models.Unconvertible(rejoin(fields))
	}

	rec := models.TrnRecord{
		Account:   canonicalAccount(row.Account),
		Code:      code,
		Symbol:    strings.ToLower(row.Symbol),
		TradeDate: dateutils.Stamp(tradeDate),
		Quantity:  quantity,
		Net:       amount.Sub(fees),
		Gross:     amount,
		Fee:       fees,
	}
	return models.Converted(rec.Format())
}

// canonicalAccount rearranges the compound Schwab account string into the
// destination layout: last six characters followed by the first eight.
func canonicalAccount(s string) string {
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

// parseAmount parses a numeric export field; empty means zero. Schwab
// prefixes dollar amounts with "$".
func parseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimPrefix(s, "$")
	s = strings.ReplaceAll(s, ",", "")
	if s == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(s)
}

func rejoin(fields []string) string {
	quoted := make([]string, len(fields))
	for i, f := range fields {
		quoted[i] = `"` + f + `"`
	}
	return strings.Join(quoted, string(Delimiter))
}
