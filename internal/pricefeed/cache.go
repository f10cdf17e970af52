package pricefeed

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gocarina/gocsv"
	"github.com/shopspring/decimal"

	"fjacquet/pcrecon/internal/dateutils"
	"fjacquet/pcrecon/internal/logging"
)

// cacheRow is one row of a local price history CSV. The files carry no
// header: date, dollar price, volume.
type cacheRow struct {
	Date   string `csv:"date"`
	Price  string `csv:"price"`
	Volume string `csv:"volume"`
}

// CacheQuoter answers quotes from per-symbol CSV files kept on disk
// (<dir>/<symbol>.csv). It backs the remote quoter for the handful of
// annuity funds the public source does not carry.
type CacheQuoter struct {
	dir    string
	logger logging.Logger
}

// NewCacheQuoter builds a CacheQuoter reading from the given directory.
func NewCacheQuoter(dir string, logger logging.Logger) *CacheQuoter {
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}
	return &CacheQuoter{dir: dir, logger: logger}
}

// Quote implements Quoter. A missing cache file or date is ErrPriceNotFound.
func (c *CacheQuoter) Quote(_ context.Context, symbol string, date time.Time) (decimal.Decimal, error) {
	if c.dir == "" {
		return decimal.Zero, ErrPriceNotFound
	}

	path := filepath.Join(c.dir, strings.ToLower(symbol)+".csv")
	file, err := os.Open(path) // #nosec G304 -- cache dir comes from configuration
	if err != nil {
		return decimal.Zero, ErrPriceNotFound
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			c.logger.WithError(cerr).Warn("Failed to close cache file")
		}
	}()

	c.logger.Debug("Checking price cache", logging.F("file", path))

	var rows []*cacheRow
	if err := gocsv.UnmarshalWithoutHeaders(file, &rows); err != nil {
		c.logger.WithError(err).Warn("Unreadable price cache file",
			logging.F("file", path))
		return decimal.Zero, ErrPriceNotFound
	}

	want := date.Format(dateutils.LayoutQuoteURL)
	for _, row := range rows {
		if strings.TrimSpace(row.Date) != want {
			continue
		}
		raw := strings.TrimPrefix(strings.TrimSpace(row.Price), "$")
		price, err := decimal.NewFromString(strings.ReplaceAll(raw, ",", ""))
		if err != nil {
			return decimal.Zero, ErrPriceNotFound
		}
		return price, nil
	}
	return decimal.Zero, ErrPriceNotFound
}
