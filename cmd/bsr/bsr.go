// Package bsr handles Batch Status Report processing commands.
package bsr

import (
	"os"
	"time"

	"github.com/spf13/cobra"

	"fjacquet/pcrecon/cmd/root"
	"fjacquet/pcrecon/internal/backfill"
	"fjacquet/pcrecon/internal/bsr"
	"fjacquet/pcrecon/internal/config"
	"fjacquet/pcrecon/internal/logging"
	"fjacquet/pcrecon/internal/pricefeed"
)

var downloadDir string

// Cmd represents the bsr command
var Cmd = &cobra.Command{
	Use:   "bsr <report>",
	Short: "Process a PortfolioCenter Batch Status Report",
	Long: `Process a PortfolioCenter Batch Status Report.

The report is walked section by section. For the sections that list
securities without a price (Unpriced Securities, No Market Value for Flow)
the closing price of every symbol is looked up and a price file is written
per exception date, ready for the next interface run.

Example:
  pcrecon bsr batchrpt.txt --download-dir /data/prices`,
	Args: cobra.ExactArgs(1),
	Run:  bsrFunc,
}

func init() {
	Cmd.Flags().StringVarP(&downloadDir, "download-dir", "d", "", "Directory for the generated price files (default from configuration)")
}

func bsrFunc(cmd *cobra.Command, args []string) {
	logger := root.Logger()
	cfg := root.Cfg

	dir := downloadDir
	if dir == "" {
		dir = cfg.Prices.DownloadDir
	}

	timeout := time.Duration(cfg.Prices.TimeoutSeconds) * time.Second
	quoter := pricefeed.NewDefaultQuoter(cfg.Prices.QuoteURL, timeout, cfg.Prices.CacheDir, logger)

	backfiller := backfill.New(quoter, dir, logger,
		backfill.WithSkipSymbols(skipSymbols(cfg, logger)),
		backfill.WithConcurrency(cfg.Prices.Concurrency))

	parser := bsr.NewParser(logger)
	if err := backfiller.RegisterAll(parser); err != nil {
		root.Log.Fatalf("Registering report sections: %v", err)
	}

	reportPath := args[0]
	f, err := os.Open(reportPath) // #nosec G304 -- report path comes from the command line
	if err != nil {
		root.Log.Fatalf("Opening report: %v", err)
	}
	defer func() {
		if err := f.Close(); err != nil {
			logger.WithError(err).Warn("Closing report")
		}
	}()

	logger.Info("Processing Batch Status Report",
		logging.F("report", reportPath),
		logging.F("download_dir", dir))

	if err := parser.Parse(f); err != nil {
		root.Log.Fatalf("Processing report: %v", err)
	}
	logger.Info("Batch Status Report processed")
}

// skipSymbols loads the configured skip list, falling back to the built-in
// one when no file is configured.
func skipSymbols(cfg *config.Config, logger logging.Logger) []string {
	if cfg.Prices.SkipFile != "" {
		symbols, err := config.LoadSkipSymbols(cfg.Prices.SkipFile)
		if err != nil {
			logger.WithError(err).Warn("Loading skip list, using defaults",
				logging.F("file", cfg.Prices.SkipFile))
			return cfg.Prices.SkipSymbols
		}
		return symbols
	}
	return cfg.Prices.SkipSymbols
}
