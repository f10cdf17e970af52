// Package pricefeed provides the historical price oracle: a remote
// closing-price lookup with a local CSV cache fallback. The rest of the
// system depends only on the Quoter contract.
package pricefeed

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"fjacquet/pcrecon/internal/logging"
)

// ErrPriceNotFound reports that no price exists for a symbol on a date.
// Callers drop the symbol and move on; it is not an error condition for a
// batch run.
var ErrPriceNotFound = errors.New("price not found")

// Quoter is the price oracle contract: the closing price of a symbol on a
// date, or ErrPriceNotFound.
type Quoter interface {
	Quote(ctx context.Context, symbol string, date time.Time) (decimal.Decimal, error)
}

// QuoterFunc adapts a function to the Quoter interface.
type QuoterFunc func(ctx context.Context, symbol string, date time.Time) (decimal.Decimal, error)

// Quote implements Quoter.
func (f QuoterFunc) Quote(ctx context.Context, symbol string, date time.Time) (decimal.Decimal, error) {
	return f(ctx, symbol, date)
}

// NewDefaultQuoter builds the standard price oracle: the remote quote page
// first, the local download cache as fallback when a cache directory is
// configured. The cache carries the handful of annuity funds the public
// source does not.
func NewDefaultQuoter(quoteURL string, timeout time.Duration, cacheDir string, logger logging.Logger) Quoter {
	quoter := Quoter(NewHTTPQuoter(quoteURL, timeout, logger))
	if cacheDir != "" {
		quoter = Chain(quoter, NewCacheQuoter(cacheDir, logger))
	}
	return quoter
}

// Chain tries each quoter in order, moving on whenever one reports
// ErrPriceNotFound. Any other error stops the chain.
func Chain(quoters ...Quoter) Quoter {
	return QuoterFunc(func(ctx context.Context, symbol string, date time.Time) (decimal.Decimal, error) {
		for _, q := range quoters {
			price, err := q.Quote(ctx, symbol, date)
			if err == nil {
				return price, nil
			}
			if !errors.Is(err, ErrPriceNotFound) {
				return decimal.Zero, err
			}
		}
		return decimal.Zero, ErrPriceNotFound
	})
}
