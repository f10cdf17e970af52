package tiaacref

import (
	"strings"

	"fjacquet/pcrecon/internal/convert"
	"fjacquet/pcrecon/internal/dateutils"
	"fjacquet/pcrecon/internal/fixedwidth"
	"fjacquet/pcrecon/internal/models"
)

// Column positions in the TIAA-CREF portfolios export (.trd). The custodian
// reserves address columns 3-11 but never populates them.
const (
	trdColBroker    = 0
	trdColLastName  = 1
	trdColFirstName = 2
	trdColTaxID     = 12
)

// trdRow names the positional fields of one portfolios row.
type trdRow struct {
	LastName  string
	FirstName string
	TaxID     string
}

func newTrdRow(fields []string) trdRow {
	return trdRow{
		LastName:  strings.TrimSpace(fixedwidth.Field(fields, trdColLastName)),
		FirstName: strings.TrimSpace(fixedwidth.Field(fields, trdColFirstName)),
		TaxID:     strings.TrimSpace(fixedwidth.Field(fields, trdColTaxID)),
	}
}

// accountNumbers synthesizes the portfolio account number and its target
// counterpart. TIAA-CREF does not transmit an account number usable by the
// destination system, so one is derived from the last four digits of the
// tax id plus the client's initials.
func (r trdRow) accountNumbers() (acct, target string, ok bool) {
	if r.LastName == "" || r.FirstName == "" || len(r.TaxID) < 4 {
		return "", "", false
	}
	initials := r.FirstName[:1] + r.LastName[:1]
	acct = "TCX" + r.TaxID[len(r.TaxID)-4:] + initials
	return acct, "F" + acct, true
}

func (r trdRow) fullName() string {
	return r.FirstName + " " + r.LastName
}

// ConvertNam maps one portfolios row to a canonical name record (.nam).
// The name field is the only variable-width field in the interchange
// format; it terminates the record.
func ConvertNam(fields []string, _ convert.Context) models.Outcome {
	if blankRow(fields) {
		return models.Skipped()
	}
	row := newTrdRow(fields)
	acct, target, ok := row.accountNumbers()
	if !ok {
		return models.Unconvertible(rejoin(fields))
	}
	line := fixedwidth.PadRight(acct, 11) +
		fixedwidth.PadRight(target, 10) +
		" " + row.fullName()
	return models.Converted(line)
}

// ConvertAcc maps one portfolios row to a canonical account record (.acc).
// The registration field is not transmitted by TIAA-CREF and is emitted
// blank; cost basis method and reinvestment flag are fixed.
func ConvertAcc(fields []string, ctx convert.Context) models.Outcome {
	if blankRow(fields) {
		return models.Skipped()
	}
	row := newTrdRow(fields)
	acct, target, ok := row.accountNumbers()
	if !ok {
		return models.Unconvertible(rejoin(fields))
	}

	openDate := ""
	if date, err := dateutils.ParseQuickDate(ctx.DateStamp, ctx.Now); err == nil {
		openDate = date.Format("20060102")
	}

	line := fixedwidth.PadRight(acct, 14) +
		" " +
		strings.Repeat(" ", 16) +
		fixedwidth.PadRight(row.fullName(), 20) +
		strings.Repeat(" ", 5) +
		fixedwidth.PadRight(target, 10) +
		strings.Repeat(" ", 24) + // registration, not transmitted
		strings.Repeat(" ", 6) +
		fixedwidth.PadRight(openDate, 12) +
		" FIFO N"
	return models.Converted(line)
}
