package prices

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fjacquet/pcrecon/internal/config"
	"fjacquet/pcrecon/internal/logging"
	"fjacquet/pcrecon/internal/pricefeed"
)

func TestCommandMetadata(t *testing.T) {
	assert.Equal(t, "prices", Cmd.Use)
	assert.NotEmpty(t, Cmd.Short)
	assert.NotNil(t, Cmd.Run)
	for _, flag := range []string{"date", "start-date", "end-date", "daily", "symbols", "symbol-file", "download-dir"} {
		assert.NotNil(t, Cmd.Flags().Lookup(flag), flag)
	}
}

func resetFlags() {
	dateFlag = ""
	startFlag = ""
	endFlag = ""
	daily = false
	symbols = nil
	symbolFile = ""
	downloadDir = ""
}

func TestResolveDates_Single(t *testing.T) {
	defer resetFlags()
	resetFlags()
	dateFlag = "01/05/24"

	now := time.Date(2024, time.June, 15, 0, 0, 0, 0, time.UTC)
	dates, err := resolveDates(now)
	require.NoError(t, err)
	require.Len(t, dates, 1)
	assert.Equal(t, time.Date(2024, time.January, 5, 0, 0, 0, 0, time.UTC), dates[0])
}

func TestResolveDates_RangeSkipsWeekends(t *testing.T) {
	defer resetFlags()
	resetFlags()
	// Friday Jan 5 through Tuesday Jan 9, 2024: the weekend drops out.
	startFlag = "01/05/24"
	endFlag = "01/09/24"

	now := time.Date(2024, time.June, 15, 0, 0, 0, 0, time.UTC)
	dates, err := resolveDates(now)
	require.NoError(t, err)
	require.Len(t, dates, 3)
	assert.Equal(t, time.Friday, dates[0].Weekday())
	assert.Equal(t, time.Monday, dates[1].Weekday())
	assert.Equal(t, time.Tuesday, dates[2].Weekday())
}

func TestResolveDates_DailyBacksUpOverWeekend(t *testing.T) {
	defer resetFlags()
	resetFlags()
	daily = true

	// A Sunday resolves to the preceding Friday.
	sunday := time.Date(2024, time.June, 16, 10, 30, 0, 0, time.UTC)
	dates, err := resolveDates(sunday)
	require.NoError(t, err)
	require.Len(t, dates, 1)
	assert.Equal(t, time.Friday, dates[0].Weekday())
	assert.Equal(t, 14, dates[0].Day())
}

func TestResolveDates_NoneSelected(t *testing.T) {
	defer resetFlags()
	resetFlags()

	dates, err := resolveDates(time.Now())
	require.NoError(t, err)
	assert.Empty(t, dates)
}

func TestResolveDates_BadDate(t *testing.T) {
	defer resetFlags()
	resetFlags()
	dateFlag = "yesterday"

	_, err := resolveDates(time.Now())
	assert.Error(t, err)
}

func TestReadSymbolFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "symbols.txt")
	content := "# watch list\nAAPL\n\nMSFT\n  QRSTX  \n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	list, err := readSymbolFile(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"AAPL", "MSFT", "QRSTX"}, list)
}

func TestReadSymbolFile_Missing(t *testing.T) {
	_, err := readSymbolFile(filepath.Join(t.TempDir(), "nope.txt"))
	assert.Error(t, err)
}

func TestQuoterFallsBackToCache(t *testing.T) {
	// The quote page knows nothing about the symbol; the download cache does.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><body>Symbol not found</body></html>`)
	}))
	defer server.Close()

	cacheDir := t.TempDir()
	csv := "01/05/2024,$27.80,500\n"
	require.NoError(t, os.WriteFile(filepath.Join(cacheDir, "qrstx.csv"), []byte(csv), 0600))

	cfg := config.Config{}
	cfg.Prices.QuoteURL = server.URL
	cfg.Prices.TimeoutSeconds = 5
	cfg.Prices.CacheDir = cacheDir

	logger := logging.NewLogrusAdapter("error", "text")
	timeout := time.Duration(cfg.Prices.TimeoutSeconds) * time.Second
	quoter := pricefeed.NewDefaultQuoter(cfg.Prices.QuoteURL, timeout, cfg.Prices.CacheDir, logger)

	date := time.Date(2024, time.January, 5, 0, 0, 0, 0, time.UTC)
	price, err := quoter.Quote(context.Background(), "QRSTX", date)
	require.NoError(t, err)
	assert.True(t, price.Equal(decimal.RequireFromString("27.80")))
}
