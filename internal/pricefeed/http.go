package pricefeed

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/net/html"

	"fjacquet/pcrecon/internal/dateutils"
	"fjacquet/pcrecon/internal/logging"
)

// DefaultQuoteURL is the historical quote page of the public source.
const DefaultQuoteURL = "http://bigcharts.marketwatch.com/historical/default.asp"

// HTTPQuoter looks up historical closing prices by fetching the quote page
// and scanning it for the "Closing Price:" cell. Every call carries its own
// timeout so a stalled lookup cannot hang a batch run; a timeout is treated
// as "price not found".
type HTTPQuoter struct {
	client  *http.Client
	baseURL string
	timeout time.Duration
	logger  logging.Logger
}

// NewHTTPQuoter builds an HTTPQuoter. An empty baseURL selects the default
// source; a zero timeout defaults to 30 seconds.
func NewHTTPQuoter(baseURL string, timeout time.Duration, logger logging.Logger) *HTTPQuoter {
	if baseURL == "" {
		baseURL = DefaultQuoteURL
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}
	return &HTTPQuoter{
		client:  &http.Client{},
		baseURL: baseURL,
		timeout: timeout,
		logger:  logger,
	}
}

// Quote implements Quoter.
func (q *HTTPQuoter) Quote(ctx context.Context, symbol string, date time.Time) (decimal.Decimal, error) {
	ctx, cancel := context.WithTimeout(ctx, q.timeout)
	defer cancel()

	reqURL := fmt.Sprintf("%s?symb=%s&closeDate=%s&",
		q.baseURL,
		url.QueryEscape(symbol),
		url.QueryEscape(date.Format(dateutils.LayoutQuoteURL)))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return decimal.Zero, fmt.Errorf("building quote request: %w", err)
	}

	resp, err := q.client.Do(req)
	if err != nil {
		// A slow or unreachable source means the price is unavailable now,
		// not that the run failed.
		q.logger.WithError(err).Warn("Quote request failed",
			logging.F("symbol", symbol))
		return decimal.Zero, ErrPriceNotFound
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			q.logger.WithError(cerr).Warn("Failed to close response body")
		}
	}()

	if resp.StatusCode != http.StatusOK {
		q.logger.Warn("Quote request returned non-OK status",
			logging.F("symbol", symbol),
			logging.F("status", resp.StatusCode))
		return decimal.Zero, ErrPriceNotFound
	}

	price, found := scanClosingPrice(resp.Body)
	if !found {
		return decimal.Zero, ErrPriceNotFound
	}

	q.logger.Info("Downloaded price",
		logging.F("symbol", symbol),
		logging.F("date", date.Format(dateutils.LayoutQuoteURL)),
		logging.F("price", price.StringFixed(2)))
	return price, nil
}

// scanClosingPrice tokenizes the quote page looking for a table header cell
// reading "Closing Price:"; the next data cell holds the price, with
// thousands separators.
func scanClosingPrice(body io.Reader) (decimal.Decimal, bool) {
	tokenizer := html.NewTokenizer(body)

	var inTag string
	closingPriceFound := false

	for {
		switch tokenizer.Next() {
		case html.ErrorToken:
			return decimal.Zero, false
		case html.StartTagToken:
			name, _ := tokenizer.TagName()
			inTag = string(name)
		case html.TextToken:
			text := strings.TrimSpace(string(tokenizer.Text()))
			if inTag == "th" && text == "Closing Price:" {
				closingPriceFound = true
				continue
			}
			if inTag == "td" && closingPriceFound && text != "" {
				price, err := decimal.NewFromString(strings.ReplaceAll(text, ",", ""))
				if err != nil {
					return decimal.Zero, false
				}
				return price, true
			}
		}
	}
}
