package convert

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fjacquet/pcrecon/internal/logging"
	"fjacquet/pcrecon/internal/models"
)

var testLogger = logging.NewLogrusAdapter("error", "text")

// upperConverter converts rows starting with "ok ", skips blank rows and
// rejects everything else.
func upperConverter(fields []string, _ Context) models.Outcome {
	line := strings.Join(fields, " ")
	if strings.TrimSpace(line) == "" {
		return models.Skipped()
	}
	if !strings.HasPrefix(line, "ok ") {
		return models.Unconvertible(line)
	}
	return models.Converted(strings.ToUpper(line[3:]))
}

func spaceExtract(line string) []string {
	return strings.Split(line, " ")
}

func writeInput(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestJobRun_EveryRowAccountedFor(t *testing.T) {
	dir := t.TempDir()
	input := writeInput(t, dir, "in.txt", "ok alpha\nbad row\n\nok beta\n")
	output := filepath.Join(dir, "out.txt")

	job := NewJob(spaceExtract, upperConverter, testLogger)
	res, err := job.Run(input, output, Overwrite)
	require.NoError(t, err)

	assert.Equal(t, 3, res.Input)
	assert.Equal(t, 2, res.Output)
	assert.Equal(t, 1, res.Unconvertible)
	assert.Equal(t, res.Input, res.Output+res.Unconvertible)

	data, err := os.ReadFile(output) // #nosec G304
	require.NoError(t, err)
	assert.Equal(t, "ALPHA\r\nBETA\r\n", string(data))

	sidecar, err := os.ReadFile(input + ".err") // #nosec G304
	require.NoError(t, err)
	assert.Equal(t, "bad row\r\n", string(sidecar))
}

func TestJobRun_SkipOfNonBlankRowGoesToSidecar(t *testing.T) {
	dir := t.TempDir()
	input := writeInput(t, dir, "in.txt", "something\n")
	output := filepath.Join(dir, "out.txt")

	// A converter that skips everything must not lose a populated row.
	skipAll := func(fields []string, _ Context) models.Outcome {
		return models.Skipped()
	}
	job := NewJob(spaceExtract, skipAll, testLogger)
	res, err := job.Run(input, output, Overwrite)
	require.NoError(t, err)

	assert.Equal(t, 1, res.Input)
	assert.Equal(t, 0, res.Output)
	assert.Equal(t, 1, res.Unconvertible)
	assert.FileExists(t, input+".err")
}

func TestJobRun_NoOutputFileWhenNothingConverts(t *testing.T) {
	dir := t.TempDir()
	input := writeInput(t, dir, "in.txt", "bad one\nbad two\n")
	output := filepath.Join(dir, "out.txt")

	job := NewJob(spaceExtract, upperConverter, testLogger)
	res, err := job.Run(input, output, Overwrite)
	require.NoError(t, err)

	assert.Equal(t, 0, res.Output)
	assert.Empty(t, res.OutputPath)
	assert.NoFileExists(t, output)
}

func TestJobRun_OverwriteIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	input := writeInput(t, dir, "in.txt", "ok alpha\n")
	output := filepath.Join(dir, "out.txt")

	job := NewJob(spaceExtract, upperConverter, testLogger)
	_, err := job.Run(input, output, Overwrite)
	require.NoError(t, err)
	_, err = job.Run(input, output, Overwrite)
	require.NoError(t, err)

	data, err := os.ReadFile(output) // #nosec G304
	require.NoError(t, err)
	assert.Equal(t, "ALPHA\r\n", string(data))
}

func TestJobRun_AppendAccumulates(t *testing.T) {
	dir := t.TempDir()
	input := writeInput(t, dir, "in.txt", "ok alpha\n")
	output := filepath.Join(dir, "out.txt")

	job := NewJob(spaceExtract, upperConverter, testLogger)
	_, err := job.Run(input, output, Append)
	require.NoError(t, err)
	_, err = job.Run(input, output, Append)
	require.NoError(t, err)

	data, err := os.ReadFile(output) // #nosec G304
	require.NoError(t, err)
	assert.Equal(t, "ALPHA\r\nALPHA\r\n", string(data))
}

func TestJobRun_MissingInput(t *testing.T) {
	dir := t.TempDir()
	job := NewJob(spaceExtract, upperConverter, testLogger)
	_, err := job.Run(filepath.Join(dir, "nope.txt"), filepath.Join(dir, "out.txt"), Overwrite)
	assert.Error(t, err)
}

func TestJobRun_DateStampFromOutputName(t *testing.T) {
	dir := t.TempDir()
	input := writeInput(t, dir, "in.txt", "ok alpha\n")
	output := filepath.Join(dir, "fi010524.pri")

	var seen Context
	capture := func(fields []string, ctx Context) models.Outcome {
		seen = ctx
		return upperConverter(fields, ctx)
	}
	job := NewJob(spaceExtract, capture, testLogger)
	job.SetNow(func() time.Time { return time.Date(2024, time.June, 15, 0, 0, 0, 0, time.UTC) })
	_, err := job.Run(input, output, Overwrite)
	require.NoError(t, err)

	assert.Equal(t, "010524", seen.DateStamp)
	assert.Equal(t, 2024, seen.Now.Year())
}

func TestStampFromPath(t *testing.T) {
	assert.Equal(t, "010524", stampFromPath("/data/fi010524.pri"))
	assert.Equal(t, "", stampFromPath("/data/ad240105.pri"))
	assert.Equal(t, "", stampFromPath("/data/fiabcdef.pri"))
}
