package pricefile

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fjacquet/pcrecon/internal/models"
)

func TestName(t *testing.T) {
	date := time.Date(2024, time.January, 5, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "fi010524.pri", Name(date))
	assert.Equal(t, "fi010524.pri", NameFromStamp("010524"))
}

func TestWriteQuotes(t *testing.T) {
	dir := t.TempDir()
	quotes := []models.Quote{
		{Symbol: "AAPL", Price: decimal.RequireFromString("150")},
		{Symbol: "MSFT", Price: decimal.RequireFromString("390.5")},
	}

	path, err := WriteQuotes(dir, "010524", quotes)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "fi010524.pri"), path)

	data, err := os.ReadFile(path) // #nosec G304
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSuffix(string(data), "\n"), "\n")
	require.Len(t, lines, 2)
	for _, line := range lines {
		assert.Len(t, line, 79)
		assert.True(t, strings.HasSuffix(line, "010524"))
	}
	assert.Equal(t, "AAPL", strings.TrimSpace(lines[0][:9]))
	assert.Equal(t, "150.00", strings.TrimSpace(lines[0][9:73]))
}

func TestWriteQuotes_Appends(t *testing.T) {
	dir := t.TempDir()
	one := []models.Quote{{Symbol: "AAPL", Price: decimal.RequireFromString("150")}}
	two := []models.Quote{{Symbol: "MSFT", Price: decimal.RequireFromString("390.5")}}

	_, err := WriteQuotes(dir, "010524", one)
	require.NoError(t, err)
	path, err := WriteQuotes(dir, "010524", two)
	require.NoError(t, err)

	data, err := os.ReadFile(path) // #nosec G304
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(string(data), "\n"))
}

func TestWriteQuotes_EmptyWritesNothing(t *testing.T) {
	dir := t.TempDir()
	path, err := WriteQuotes(dir, "010524", nil)
	require.NoError(t, err)
	assert.Empty(t, path)
	assert.NoFileExists(t, filepath.Join(dir, "fi010524.pri"))
}

func TestWriteQuotes_BadStamp(t *testing.T) {
	quotes := []models.Quote{{Symbol: "AAPL", Price: decimal.RequireFromString("150")}}
	_, err := WriteQuotes(t.TempDir(), "01/05/24", quotes)
	assert.Error(t, err)
}
