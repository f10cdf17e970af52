package convert

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"fjacquet/pcrecon/internal/fileutils"
	"fjacquet/pcrecon/internal/fixedwidth"
	"fjacquet/pcrecon/internal/logging"
	"fjacquet/pcrecon/internal/models"
	"fjacquet/pcrecon/internal/parsererror"
)

// Mode selects how the output file is written.
type Mode int

const (
	// Overwrite replaces any existing output file. Re-running against
	// unchanged input is byte-identical.
	Overwrite Mode = iota
	// Append adds to an existing output file. The transaction converters
	// accumulate several runs into one interchange file per date.
	Append
)

// Result reports what one conversion run did.
type Result struct {
	// Input counts non-blank input rows.
	Input int
	// Output counts canonical records written.
	Output int
	// Unconvertible counts rows preserved in the error sidecar.
	Unconvertible int
	// OutputPath is the written interchange file, or "" when no convertible
	// rows were found and no file was created.
	OutputPath string
	// ErrorPath is the written sidecar, or "" when every row converted.
	ErrorPath string
}

// Job converts one input file line by line.
type Job struct {
	extract Extractor
	convert Converter
	logger  logging.Logger
	now     func() time.Time
}

// NewJob builds a conversion job from an extractor and a converter.
func NewJob(extract Extractor, convert Converter, logger logging.Logger) *Job {
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}
	return &Job{extract: extract, convert: convert, logger: logger, now: time.Now}
}

// SetNow overrides the clock used for 2-digit year resolution.
func (j *Job) SetNow(now func() time.Time) {
	if now != nil {
		j.now = now
	}
}

// Run reads every line of inputPath in order, converts each, and writes the
// accumulated canonical records to outputPath. Rows that cannot be converted
// are preserved verbatim in a sidecar next to the input; they are never
// silently discarded. When no row converts, no output file is created:
// the file's absence means "no convertible rows".
func (j *Job) Run(inputPath, outputPath string, mode Mode) (Result, error) {
	res := Result{}

	j.logger.Info("Converting file",
		logging.F("source", inputPath),
		logging.F("destination", outputPath))

	lines, err := fileutils.ReadLines(inputPath)
	if err != nil {
		return res, &parsererror.ConversionError{FilePath: inputPath, Err: err}
	}

	ctx := Context{
		SourcePath: inputPath,
		OutputPath: outputPath,
		DateStamp:  stampFromPath(outputPath),
		Now:        j.now(),
	}

	var converted []string
	var rejected []string

	for n, line := range lines {
		blank := strings.TrimSpace(line) == ""
		if !blank {
			res.Input++
		}

		outcome := j.convert(j.extract(line), ctx)

		// A skip of a non-blank row would lose data without classification;
		// route it to the sidecar instead.
		if outcome.Kind == models.KindSkipped && !blank {
			outcome = models.Unconvertible(line)
		}

		switch outcome.Kind {
		case models.KindConverted:
			converted = append(converted, outcome.Line)
		case models.KindUnconvertible:
			j.logger.Warn("Unconvertible row",
				logging.F("source", inputPath),
				logging.F("line", n+1))
			rejected = append(rejected, outcome.Raw)
		}
	}

	res.Output = len(converted)
	res.Unconvertible = len(rejected)

	if len(converted) > 0 {
		if err := fileutils.WriteFileString(outputPath, fixedwidth.Join(converted), mode == Append); err != nil {
			return res, &parsererror.ConversionError{FilePath: inputPath, Err: fmt.Errorf("writing %s: %w", outputPath, err)}
		}
		res.OutputPath = outputPath
	}

	if len(rejected) > 0 {
		errPath := inputPath + ".err"
		if err := fileutils.WriteFileString(errPath, fixedwidth.Join(rejected), false); err != nil {
			return res, &parsererror.ConversionError{FilePath: inputPath, Err: fmt.Errorf("writing %s: %w", errPath, err)}
		}
		res.ErrorPath = errPath
		j.logger.Warn("Wrote error sidecar",
			logging.F("file", errPath),
			logging.F("rows", len(rejected)))
	}

	j.logger.Info("Conversion finished",
		logging.F("rows", res.Input),
		logging.F("converted", res.Output),
		logging.F("unconvertible", res.Unconvertible))

	return res, nil
}

// stampFromPath pulls the 6-digit date stamp out of a canonical output file
// name (fiMMDDYY.ext). Other names yield "".
func stampFromPath(path string) string {
	base := filepath.Base(path)
	if len(base) >= 8 && strings.HasPrefix(base, "fi") {
		stamp := base[2:8]
		for _, c := range stamp {
			if c < '0' || c > '9' {
				return ""
			}
		}
		return stamp
	}
	return ""
}
