package bsr

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fjacquet/pcrecon/internal/config"
	"fjacquet/pcrecon/internal/logging"
)

var testLogger = logging.NewLogrusAdapter("error", "text")

func TestCommandMetadata(t *testing.T) {
	assert.Contains(t, Cmd.Use, "bsr")
	assert.NotEmpty(t, Cmd.Short)
	assert.NotNil(t, Cmd.Run)
	assert.NotNil(t, Cmd.Flags().Lookup("download-dir"))
}

func TestSkipSymbols_ConfigList(t *testing.T) {
	cfg := &config.Config{}
	cfg.Prices.SkipSymbols = []string{"AAA"}
	assert.Equal(t, []string{"AAA"}, skipSymbols(cfg, testLogger))
}

func TestSkipSymbols_FileWins(t *testing.T) {
	path := filepath.Join(t.TempDir(), "skip.yaml")
	require.NoError(t, os.WriteFile(path, []byte("- BBB\n"), 0600))

	cfg := &config.Config{}
	cfg.Prices.SkipSymbols = []string{"AAA"}
	cfg.Prices.SkipFile = path
	assert.Equal(t, []string{"BBB"}, skipSymbols(cfg, testLogger))
}

func TestSkipSymbols_UnreadableFileFallsBack(t *testing.T) {
	cfg := &config.Config{}
	cfg.Prices.SkipSymbols = []string{"AAA"}
	cfg.Prices.SkipFile = filepath.Join(t.TempDir(), "nope.yaml")
	assert.Equal(t, []string{"AAA"}, skipSymbols(cfg, testLogger))
}
