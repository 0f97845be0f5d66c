package finnhub

import (
	"context"
	"encoding/json"
	"fmt"
	"maps"
	"net/http"

	"github.com/shopspring/decimal"
)

// Quote is the quote endpoint response. Only the current price is used
// downstream; the rest is decoded for completeness.
type Quote struct {
	Current       decimal.Decimal
	High          decimal.Decimal
	Low           decimal.Decimal
	Open          decimal.Decimal
	PreviousClose decimal.Decimal
}

type quoteBody struct {
	C  json.Number `json:"c"`
	H  json.Number `json:"h"`
	L  json.Number `json:"l"`
	O  json.Number `json:"o"`
	PC json.Number `json:"pc"`
}

// GetQuote retrieves the current quote for a symbol.
func (c *Client) GetQuote(ctx context.Context, symbol string) (Quote, error) {
	query := maps.Clone(c.query)
	query.Set("symbol", symbol)

	url := fmt.Sprintf("%s/quote?%s", c.baseURL, query.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return Quote{}, fmt.Errorf("creating request: %w", err)
	}
	req.Header = c.header.Clone()

	res, err := c.httpClient.Do(req)
	if err != nil {
		return Quote{}, fmt.Errorf("performing request: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return Quote{}, fmt.Errorf("quote %s: unexpected status code: %d", symbol, res.StatusCode)
	}

	var body quoteBody
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		return Quote{}, fmt.Errorf("decoding quote response: %w", err)
	}

	q := Quote{}
	if q.Current, err = parseNumber(body.C); err != nil {
		return Quote{}, fmt.Errorf("decoding current price: %w", err)
	}
	// The remaining fields are informational; a missing one is fine.
	q.High, _ = parseNumber(body.H)
	q.Low, _ = parseNumber(body.L)
	q.Open, _ = parseNumber(body.O)
	q.PreviousClose, _ = parseNumber(body.PC)
	return q, nil
}

// parseNumber converts a json.Number into a decimal, keeping the exact
// precision of the wire value.
func parseNumber(n json.Number) (decimal.Decimal, error) {
	if n == "" {
		return decimal.Decimal{}, fmt.Errorf("missing number")
	}
	return decimal.NewFromString(n.String())
}
