package stocks

import (
    "context"
    "strings"

    "github.com/shopspring/decimal"

    "investtrack/internal/provider/finnhub"
)

// KeyPrefix namespaces stock entries in the quote cache.
const KeyPrefix = "stock_"

// Key returns the cache key for a stock symbol, or ok=false when the
// symbol is empty (nothing to price).
func Key(symbol string) (string, bool) {
    s := strings.TrimSpace(symbol)
    if s == "" { return "", false }
    return KeyPrefix + s, true
}

// Provider adapts the Finnhub client to the Quoter interface.
type Provider struct {
    client *finnhub.Client
    name   string
}

func New(client *finnhub.Client) *Provider {
    return &Provider{client: client, name: "Finnhub"}
}

func (p *Provider) Name() string { return p.name }

func (p *Provider) FetchPrice(ctx context.Context, symbol string) (decimal.Decimal, bool, error) {
    s := strings.TrimSpace(symbol)
    if s == "" {
        return decimal.Decimal{}, false, nil
    }
    q, err := p.client.GetQuote(ctx, s)
    if err != nil {
        return decimal.Decimal{}, false, err
    }
    return q.Current, true, nil
}
