// Package axys converts price exports from the legacy Axys portfolio system
// into the canonical interchange format. Axys writes fixed-column text:
// symbol, security description, closing price and the price date.
package axys

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

// Widths of the Axys price export columns, in field order.
var Widths = []int{9, 40, 12, 8}

// DateFromExportName parses the export date out of an axYYMMDD.txt file
// name.
func DateFromExportName(name string) (time.Time, error) {
	base := filepath.Base(name)
	if len(base) < 8 || !strings.EqualFold(base[:2], "ax") {
		return time.Time{}, fmt.Errorf("unrecognized Axys export name %q", base)
	}
	t, err := time.Parse("060102", base[2:8])
	if err != nil {
		return time.Time{}, fmt.Errorf("unrecognized Axys export name %q: %w", base, err)
	}
	return time.Date(2000+t.Year()%100, t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
}

// CanonicalPath maps an Axys export path to its canonical interchange path
// in the same directory.
func CanonicalPath(exportPath string) (string, error) {
	date, err := DateFromExportName(exportPath)
	if err != nil {
		return "", err
	}
	name := "fi" + dateutils.Stamp(date) + ".pri"
	return filepath.Join(filepath.Dir(exportPath), name), nil
}

// Field order of the Axys price export.
const (
	colSymbol      = 0
	colDescription = 1
	colPrice       = 2
	colDate        = 3
)

// Extract slices one export row by the fixed column widths.
func Extract(line string) []string {
	return fixedwidth.SplitWidths(line, Widths)
}

// priceRow names the positional fields of one Axys price row.
type priceRow struct {
	Symbol string
	Price  string
	Date   string
}

func newPriceRow(fields []string) priceRow {
	get := func(i int) string { return strings.TrimSpace(fixedwidth.Field(fields, i)) }
	return priceRow{
		Symbol: get(colSymbol),
		Price:  get(colPrice),
		Date:   get(colDate),
	}
}

// ConvertPri maps one Axys price row to a canonical price record. The date
// stamp comes from the row itself: Axys files carry rows for several dates.
func ConvertPri(fields []string, ctx convert.Context) models.Outcome {
	row := newPriceRow(fields)
	if row.Symbol == "" && row.Price == "" && row.Date == "" {
		return models.Skipped()
	}
	if row.Symbol == "" {
		return models.Unconvertible(strings.Join(fields, ""))
	}

	price, err := decimal.NewFromString(row.Price)
	if err != nil {
		return models.Unconvertible(strings.Join(fields, ""))
	}

	stamp := dateutils.DigitsOnly(row.Date)
	if len(stamp) != 6 {
		if ctx.DateStamp == "" {
			return models.Unconvertible(strings.Join(fields, ""))
		}
		stamp = ctx.DateStamp
	}

	rec := models.PriRecord{
		Symbol:    strings.ToLower(row.Symbol),
		Price:     price,
		DateStamp: stamp,
	}
	return models.Converted(rec.Format())
}
