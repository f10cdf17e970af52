// Package convert handles custodian export conversion commands.
package convert

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"fjacquet/pcrecon/cmd/root"
	"fjacquet/pcrecon/internal/axys"
	convertjob "fjacquet/pcrecon/internal/convert"
	"fjacquet/pcrecon/internal/logging"
	"fjacquet/pcrecon/internal/schwab"
	"fjacquet/pcrecon/internal/tiaacref"
)

var (
	custodian string
	fileTypes []string
	dataDir   string
)

// Cmd represents the convert command
var Cmd = &cobra.Command{
	Use:   "convert [file...]",
	Short: "Convert custodian export files to the interchange format",
	Long: `Convert custodian export files to the PortfolioCenter interchange format.

Without file arguments the data directory is scanned for exports matching
the custodian's naming convention (adYYMMDD.* for TIAA-CREF, swYYMMDD.csv
for Schwab, axYYMMDD.txt for Axys). Each export is converted to the
fiMMDDYY interchange file for its date and then renamed to its processed
extension so a later run does not pick it up again.

Example:
  pcrecon convert --custodian tc --dir /data/feeds
  pcrecon convert --custodian tc --type trd ad240105.trd`,
	Run: convertFunc,
}

func init() {
	Cmd.Flags().StringVarP(&custodian, "custodian", "c", "tc", "Custodian exports to convert: tc, sw or ax")
	Cmd.Flags().StringSliceVarP(&fileTypes, "type", "t", nil, "Restrict to these export types (tc: pri,sec,trd,trn)")
	Cmd.Flags().StringVarP(&dataDir, "dir", "d", "", "Directory to scan for exports (default from configuration)")
}

// outputSpec is one conversion an export type requires. A TIAA-CREF
// portfolio export fans out to two interchange files, so a type carries a
// list of them.
type outputSpec struct {
	ext     string // interchange extension, replaces the canonical one
	convert convertjob.Converter
	mode    convertjob.Mode
}

// exportType describes one custodian export type: how to find its files,
// what to convert them into and what to rename them to afterwards.
type exportType struct {
	name         string
	glob         string
	extract      convertjob.Extractor
	canonical    func(string) (string, error)
	outputs      []outputSpec
	processedExt string
}

var tiaaTypes = []exportType{
	{
		name:      "pri",
		glob:      "[aA][dD]*.[pP][rR][iI]",
		extract:   tiaacref.Extract,
		canonical: tiaacref.CanonicalPath,
		outputs: []outputSpec{
			{ext: ".pri", convert: tiaacref.ConvertPri, mode: convertjob.Overwrite},
		},
		processedExt: ".bap",
	},
	{
		name:      "sec",
		glob:      "[aA][dD]*.[sS][eE][cC]",
		extract:   tiaacref.Extract,
		canonical: tiaacref.CanonicalPath,
		outputs: []outputSpec{
			{ext: ".sec", convert: tiaacref.ConvertSec, mode: convertjob.Overwrite},
		},
		processedExt: ".bac",
	},
	{
		name:      "trd",
		glob:      "[aA][dD]*.[tT][rR][dD]",
		extract:   tiaacref.Extract,
		canonical: tiaacref.CanonicalPath,
		outputs: []outputSpec{
			{ext: ".nam", convert: tiaacref.ConvertNam, mode: convertjob.Overwrite},
			{ext: ".acc", convert: tiaacref.ConvertAcc, mode: convertjob.Overwrite},
		},
		processedExt: ".bcc",
	},
	{
		name:      "trn",
		glob:      "[aA][dD]*.[tT][rR][nN]",
		extract:   tiaacref.Extract,
		canonical: tiaacref.CanonicalPath,
		outputs: []outputSpec{
			{ext: ".trn", convert: tiaacref.ConvertTrn, mode: convertjob.Append},
		},
		processedExt: ".bct",
	},
}

var schwabTypes = []exportType{
	{
		name:      "trn",
		glob:      "[sS][wW]*.[cC][sS][vV]",
		extract:   schwab.Extract,
		canonical: schwab.CanonicalPath,
		outputs: []outputSpec{
			{ext: ".trn", convert: schwab.ConvertTxn, mode: convertjob.Append},
		},
		processedExt: ".bak",
	},
}

var axysTypes = []exportType{
	{
		name:      "pri",
		glob:      "[aA][xX]*.[tT][xX][tT]",
		extract:   axys.Extract,
		canonical: axys.CanonicalPath,
		outputs: []outputSpec{
			{ext: ".pri", convert: axys.ConvertPri, mode: convertjob.Overwrite},
		},
		processedExt: ".bak",
	},
}

func custodianTypes(name string) ([]exportType, error) {
	switch strings.ToLower(name) {
	case "tc", "tiaa-cref":
		return tiaaTypes, nil
	case "sw", "schwab":
		return schwabTypes, nil
	case "ax", "axys":
		return axysTypes, nil
	}
	return nil, fmt.Errorf("unknown custodian %q", name)
}

// selectTypes applies the --type restriction to a custodian's type table.
func selectTypes(types []exportType, wanted []string) ([]exportType, error) {
	if len(wanted) == 0 {
		return types, nil
	}
	byName := make(map[string]exportType, len(types))
	for _, t := range types {
		byName[t.name] = t
	}
	var out []exportType
	for _, w := range wanted {
		t, ok := byName[strings.ToLower(w)]
		if !ok {
			return nil, fmt.Errorf("custodian has no %q export type", w)
		}
		out = append(out, t)
	}
	return out, nil
}

func convertFunc(cmd *cobra.Command, args []string) {
	logger := root.Logger()

	types, err := custodianTypes(custodian)
	if err != nil {
		root.Log.Fatalf("%v", err)
	}
	types, err = selectTypes(types, fileTypes)
	if err != nil {
		root.Log.Fatalf("%v", err)
	}

	dir := dataDir
	if dir == "" && root.Cfg != nil {
		dir = root.Cfg.Convert.DataDir
	}
	if dir == "" {
		dir = "."
	}

	var files, failed, unconvertible int

	process := func(t exportType, path string) {
		files++
		n, err := runExport(t, path, logger)
		unconvertible += n
		if err != nil {
			failed++
			logger.WithError(err).Error("Conversion failed",
				logging.F("file", path))
		}
	}

	if len(args) > 0 {
		for _, path := range args {
			t, ok := matchType(types, path)
			if !ok {
				failed++
				logger.Error("File does not match any selected export type",
					logging.F("file", path))
				continue
			}
			process(t, path)
		}
	} else {
		logger.Info("Scanning for exports",
			logging.F("directory", dir),
			logging.F("custodian", custodian))
		for _, t := range types {
			matches, err := filepath.Glob(filepath.Join(dir, t.glob))
			if err != nil {
				root.Log.Fatalf("Bad file pattern %q: %v", t.glob, err)
			}
			for _, path := range matches {
				process(t, path)
			}
		}
	}

	logger.Info("Conversion run finished",
		logging.F("files", files),
		logging.F("failed", failed),
		logging.F("unconvertible_rows", unconvertible))
	if failed > 0 {
		root.Log.Fatalf("%d of %d files failed to convert", failed, files)
	}
}

// matchType finds the export type whose pattern matches an explicitly
// named file.
func matchType(types []exportType, path string) (exportType, bool) {
	base := filepath.Base(path)
	for _, t := range types {
		if ok, _ := filepath.Match(t.glob, base); ok {
			return t, true
		}
	}
	return exportType{}, false
}

// runExport converts one export file: one job per output the type
// requires, then the processed rename. Returns the unconvertible row
// count across all outputs.
func runExport(t exportType, path string, logger logging.Logger) (int, error) {
	canonical, err := t.canonical(path)
	if err != nil {
		return 0, err
	}

	var unconvertible int
	for _, out := range t.outputs {
		outputPath := strings.TrimSuffix(canonical, filepath.Ext(canonical)) + out.ext
		job := convertjob.NewJob(t.extract, out.convert, logger)
		res, err := job.Run(path, outputPath, out.mode)
		unconvertible += res.Unconvertible
		if err != nil {
			return unconvertible, err
		}
	}

	processed := strings.TrimSuffix(path, filepath.Ext(path)) + t.processedExt
	if err := os.Rename(path, processed); err != nil {
		return unconvertible, fmt.Errorf("marking %s processed: %w", path, err)
	}
	logger.Info("Export processed",
		logging.F("file", path),
		logging.F("renamed", processed))
	return unconvertible, nil
}
