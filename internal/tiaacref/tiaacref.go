// Package tiaacref converts TIAA-CREF client data export files into the
// canonical interchange format. The custodian ships one comma-separated
// export per record type: securities (.sec), prices (.pri), portfolios
// (.trd) and transactions (.trn), named adYYMMDD with the type as the
// extension.
package tiaacref

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"fjacquet/pcrecon/internal/dateutils"
	"fjacquet/pcrecon/internal/fixedwidth"
)

// Delimiter used by every TIAA-CREF export file.
const Delimiter = ','

// Extract splits one export row into its comma-separated fields.
func Extract(line string) []string {
	return fixedwidth.SplitDelimited(line, Delimiter)
}

// DateFromExportName parses the export date out of an adYYMMDD.EXT file
// name. The custodian only ever sends 2000s dates in file names.
func DateFromExportName(name string) (time.Time, error) {
	base := filepath.Base(name)
	if len(base) < 8 || !strings.EqualFold(base[:2], "ad") {
		return time.Time{}, fmt.Errorf("unrecognized TIAA-CREF export name %q", base)
	}
	t, err := time.Parse("060102", base[2:8])
	if err != nil {
		return time.Time{}, fmt.Errorf("unrecognized TIAA-CREF export name %q: %w", base, err)
	}
	return time.Date(2000+t.Year()%100, t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
}

// CanonicalPath maps a TIAA-CREF export path to its canonical interchange
// path in the same directory: fiMMDDYY with the extension lower-cased.
func CanonicalPath(exportPath string) (string, error) {
	date, err := DateFromExportName(exportPath)
	if err != nil {
		return "", err
	}
	ext := strings.ToLower(filepath.Ext(exportPath))
	name := "fi" + dateutils.Stamp(date) + ext
	return filepath.Join(filepath.Dir(exportPath), name), nil
}

// rejoin rebuilds the tokenized row for the error sidecar.
func rejoin(fields []string) string {
	return strings.Join(fields, string(Delimiter))
}

// blankRow reports whether every field of a row is empty.
func blankRow(fields []string) bool {
	for _, f := range fields {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}
