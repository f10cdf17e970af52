package tiaacref

import (
	"strings"

	"github.com/shopspring/decimal"

	"fjacquet/pcrecon/internal/convert"
	"fjacquet/pcrecon/internal/fixedwidth"
	"fjacquet/pcrecon/internal/models"
)

// Column positions in the TIAA-CREF securities export (.sec). Field order
// is load-bearing: these indexes are the custodian's contract.
const (
	secColSymbol      = 0
	secColSecType     = 1
	secColDescription = 2
	secColCUSIP       = 21
)

// secRow names the positional fields of one securities row.
type secRow struct {
	Symbol      string
	Description string
	CUSIP       string
}

func newSecRow(fields []string) secRow {
	return secRow{
		Symbol:      strings.TrimSpace(fixedwidth.Field(fields, secColSymbol)),
		Description: strings.TrimSpace(fixedwidth.Field(fields, secColDescription)),
		CUSIP:       strings.TrimSpace(fixedwidth.Field(fields, secColCUSIP)),
	}
}

// ConvertSec maps one securities export row to a canonical security master
// record. Everything TIAA-CREF sends is a mutual fund.
func ConvertSec(fields []string, _ convert.Context) models.Outcome {
	if blankRow(fields) {
		return models.Skipped()
	}
	row := newSecRow(fields)
	if row.Symbol == "" {
		return models.Unconvertible(rejoin(fields))
	}
	rec := models.SecRecord{
		SecType:     "MF",
		Symbol:      row.Symbol,
		Description: row.Description,
		CUSIP:       row.CUSIP,
	}
	return models.Converted(rec.Format())
}

// Column positions in the TIAA-CREF prices export (.pri).
const (
	priColSymbol = 0
	priColPrice  = 3
)

// ConvertPri maps one prices export row to a canonical price record.
// Symbols are lower-cased in the canonical format as of the second format
// revision.
func ConvertPri(fields []string, ctx convert.Context) models.Outcome {
	if blankRow(fields) {
		return models.Skipped()
	}
	symbol := strings.TrimSpace(fixedwidth.Field(fields, priColSymbol))
	rawPrice := strings.TrimSpace(fixedwidth.Field(fields, priColPrice))
	if symbol == "" {
		return models.Unconvertible(rejoin(fields))
	}
	price, err := decimal.NewFromString(rawPrice)
	if err != nil {
		return models.Unconvertible(rejoin(fields))
	}
	rec := models.PriRecord{
		Symbol:    strings.ToLower(symbol),
		Price:     price,
		DateStamp: ctx.DateStamp,
	}
	return models.Converted(rec.Format())
}
