// Package prices handles historical price download commands.
package prices

import (
	"bufio"
	"context"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"fjacquet/pcrecon/cmd/root"
	"fjacquet/pcrecon/internal/config"
	"fjacquet/pcrecon/internal/dateutils"
	"fjacquet/pcrecon/internal/logging"
	"fjacquet/pcrecon/internal/pricefeed"
	"fjacquet/pcrecon/internal/pricefile"
)

var (
	dateFlag    string
	startFlag   string
	endFlag     string
	daily       bool
	symbols     []string
	symbolFile  string
	downloadDir string
)

// Cmd represents the prices command
var Cmd = &cobra.Command{
	Use:   "prices",
	Short: "Download closing prices and write price files",
	Long: `Download closing prices for a set of symbols and write one price
file per trade date.

The date can be a single day (--date), an inclusive range (--start-date and
--end-date, weekends skipped) or the most recent business day (--daily).
Symbols come from --symbols or from a symbol file, one symbol per line;
blank lines and lines starting with # are ignored.

Example:
  pcrecon prices --daily --symbol-file symbols.txt
  pcrecon prices --start-date 01/02/24 --end-date 01/05/24 -s AAPL -s MSFT`,
	Run: pricesFunc,
}

func init() {
	Cmd.Flags().StringVar(&dateFlag, "date", "", "Trade date (mm/dd/yy)")
	Cmd.Flags().StringVar(&startFlag, "start-date", "", "First trade date of a range (mm/dd/yy)")
	Cmd.Flags().StringVar(&endFlag, "end-date", "", "Last trade date of a range (mm/dd/yy)")
	Cmd.Flags().BoolVar(&daily, "daily", false, "Download for the most recent business day")
	Cmd.Flags().StringSliceVarP(&symbols, "symbols", "s", nil, "Symbols to download")
	Cmd.Flags().StringVar(&symbolFile, "symbol-file", "", "File listing symbols to download (default from configuration)")
	Cmd.Flags().StringVarP(&downloadDir, "download-dir", "d", "", "Directory for the generated price files (default from configuration)")
}

func pricesFunc(cmd *cobra.Command, args []string) {
	logger := root.Logger()
	cfg := root.Cfg
	now := time.Now()

	dates, err := resolveDates(now)
	if err != nil {
		root.Log.Fatalf("%v", err)
	}
	if len(dates) == 0 {
		root.Log.Fatal("No trade dates selected: use --date, --start-date/--end-date or --daily")
	}

	list, err := resolveSymbols(cfg)
	if err != nil {
		root.Log.Fatalf("%v", err)
	}
	if len(list) == 0 {
		root.Log.Fatal("No symbols to download")
	}

	dir := downloadDir
	if dir == "" {
		dir = cfg.Prices.DownloadDir
	}

	timeout := time.Duration(cfg.Prices.TimeoutSeconds) * time.Second
	quoter := pricefeed.NewDefaultQuoter(cfg.Prices.QuoteURL, timeout, cfg.Prices.CacheDir, logger)

	for _, date := range dates {
		logger.Info("Downloading prices",
			logging.F("date", date.Format(dateutils.LayoutReport)),
			logging.F("symbols", len(list)))

		quotes := pricefeed.FetchAll(context.Background(), quoter, list, date, cfg.Prices.Concurrency, logger)
		path, err := pricefile.WriteQuotes(dir, dateutils.Stamp(date), quotes)
		if err != nil {
			root.Log.Fatalf("Writing prices for %s: %v", date.Format(dateutils.LayoutReport), err)
		}
		if path == "" {
			logger.Warn("No prices found",
				logging.F("date", date.Format(dateutils.LayoutReport)))
			continue
		}
		logger.Info("Price file written",
			logging.F("file", path),
			logging.F("prices", len(quotes)))
	}
}

// resolveDates turns the date flags into the list of trade dates to
// download, weekends dropped.
func resolveDates(now time.Time) ([]time.Time, error) {
	if daily {
		date := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
		for !dateutils.IsBusinessDay(date) {
			date = date.AddDate(0, 0, -1)
		}
		return []time.Time{date}, nil
	}

	if dateFlag != "" {
		date, err := dateutils.ParseReportDate(dateFlag, now)
		if err != nil {
			return nil, err
		}
		return []time.Time{date}, nil
	}

	if startFlag == "" && endFlag == "" {
		return nil, nil
	}
	start, err := dateutils.ParseReportDate(startFlag, now)
	if err != nil {
		return nil, err
	}
	end, err := dateutils.ParseReportDate(endFlag, now)
	if err != nil {
		return nil, err
	}

	var dates []time.Time
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		if dateutils.IsBusinessDay(d) {
			dates = append(dates, d)
		}
	}
	return dates, nil
}

// resolveSymbols builds the symbol list from the flags or the symbol file.
func resolveSymbols(cfg *config.Config) ([]string, error) {
	if len(symbols) > 0 {
		return symbols, nil
	}

	path := symbolFile
	if path == "" {
		path = cfg.Prices.SymbolFile
	}
	if path == "" {
		return nil, nil
	}
	return readSymbolFile(path)
}

// readSymbolFile reads one symbol per line, skipping blank lines and #
// comments.
func readSymbolFile(path string) ([]string, error) {
	f, err := os.Open(path) // #nosec G304 -- symbol file path comes from flags or config
	if err != nil {
		return nil, err
	}
	defer f.Close() //nolint:errcheck // read-only file

	var list []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		list = append(list, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return list, nil
}
