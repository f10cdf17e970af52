// Package convert implements the generic conversion engine: a per-row
// converter contract and the job runner that turns one custodian export
// file into canonical interchange output plus an error sidecar.
package convert

import (
	"time"

	"fjacquet/pcrecon/internal/models"
)

// Context carries the run-scoped data a converter needs beyond the row
// itself. It is immutable for the duration of a job.
type Context struct {
	// SourcePath is the input file being converted.
	SourcePath string
	// OutputPath is the destination interchange file.
	OutputPath string
	// DateStamp is the 6-digit MMDDYY stamp derived from the destination
	// file name.
	DateStamp string
	// Now anchors 2-digit year resolution for the whole run.
	Now time.Time
}

// Extractor splits one raw input line into ordered field values.
type Extractor func(line string) []string

// Converter maps the extracted fields of one row to a conversion outcome.
// Converters are pure functions of (fields, ctx); all per-run state lives in
// the Context.
type Converter func(fields []string, ctx Context) models.Outcome
