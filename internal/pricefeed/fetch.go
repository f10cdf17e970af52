package pricefeed

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"fjacquet/pcrecon/internal/logging"
	"fjacquet/pcrecon/internal/models"
)

// FetchAll looks up the closing price of every symbol for one date,
// fanning the lookups out over a bounded worker pool. The returned quotes
// preserve the order of symbols; symbols with no price available are
// dropped. A price for AGG is mirrored as AGGINDEX, which the downstream
// system tracks as a separate security.
func FetchAll(ctx context.Context, quoter Quoter, symbols []string, date time.Time, workers int, logger logging.Logger) []models.Quote {
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}
	if workers < 1 {
		workers = 1
	}
	if workers > len(symbols) {
		workers = len(symbols)
	}

	type result struct {
		price decimal.Decimal
		found bool
	}
	results := make([]result, len(symbols))

	var wg sync.WaitGroup
	indexes := make(chan int)

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range indexes {
				price, err := quoter.Quote(ctx, symbols[i], date)
				if err != nil {
					if !errors.Is(err, ErrPriceNotFound) {
						logger.WithError(err).Warn("Quote lookup failed",
							logging.F("symbol", symbols[i]))
					}
					continue
				}
				results[i] = result{price: price, found: true}
			}
		}()
	}

	for i := range symbols {
		indexes <- i
	}
	close(indexes)
	wg.Wait()

	var quotes []models.Quote
	for i, r := range results {
		if !r.found {
			continue
		}
		quotes = append(quotes, models.Quote{Symbol: symbols[i], Price: r.price})
		if strings.EqualFold(symbols[i], "agg") {
			quotes = append(quotes, models.Quote{Symbol: "AGGINDEX", Price: r.price})
		}
	}
	return quotes
}
