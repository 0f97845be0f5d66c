package coingecko

import (
    "context"
    "encoding/json"
    "fmt"
    "net/http"
    "net/url"
    "strings"

    "github.com/shopspring/decimal"

    "investtrack/internal/httpx"
)

const defaultBaseURL = "https://api.coingecko.com/api/v3"

// KeyPrefix namespaces crypto entries in the quote cache. Keys use the
// canonical CoinGecko id, not the user-facing symbol.
const KeyPrefix = "crypto_"

// coinIDs maps the handful of supported user-facing symbols to their
// canonical CoinGecko identifiers. Anything else is not quotable and
// never hits the network.
var coinIDs = map[string]string{
    "BTC":  "bitcoin",
    "DOGE": "dogecoin",
    "ETH":  "ethereum",
    "SOL":  "solana",
    "XRP":  "ripple",
}

// CoinID resolves a user-facing symbol to its CoinGecko id.
func CoinID(symbol string) (string, bool) {
    id, ok := coinIDs[strings.ToUpper(strings.TrimSpace(symbol))]
    return id, ok
}

// Key returns the cache key for a crypto symbol, or ok=false for an
// unsupported symbol.
func Key(symbol string) (string, bool) {
    id, ok := CoinID(symbol)
    if !ok { return "", false }
    return KeyPrefix + id, true
}

// Config controls the CoinGecko provider behavior.
type Config struct {
    Name     string
    BaseURL  string
    Currency string // quote currency, e.g. "inr"
}

// Provider fetches crypto prices from CoinGecko's simple price endpoint.
type Provider struct {
    cfg    Config
    client *httpx.Client
}

func New(cfg Config, hc *httpx.Client) *Provider {
    if cfg.Name == "" { cfg.Name = "CoinGecko" }
    if cfg.BaseURL == "" { cfg.BaseURL = defaultBaseURL }
    if cfg.Currency == "" { cfg.Currency = "inr" }
    cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
    cfg.Currency = strings.ToLower(cfg.Currency)
    return &Provider{cfg: cfg, client: hc}
}

func (p *Provider) Name() string { return p.cfg.Name }

func (p *Provider) FetchPrice(ctx context.Context, symbol string) (decimal.Decimal, bool, error) {
    id, ok := CoinID(symbol)
    if !ok {
        return decimal.Decimal{}, false, nil
    }

    u, err := url.Parse(p.cfg.BaseURL + "/simple/price")
    if err != nil {
        return decimal.Decimal{}, false, err
    }
    q := u.Query()
    q.Set("ids", id)
    q.Set("vs_currencies", p.cfg.Currency)
    u.RawQuery = q.Encode()

    req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), http.NoBody)
    if err != nil {
        return decimal.Decimal{}, false, err
    }
    req.Header.Set("Accept", "application/json")

    resp, err := p.client.Do(ctx, req)
    if err != nil {
        return decimal.Decimal{}, false, err
    }
    defer resp.Body.Close()
    if resp.StatusCode < 200 || resp.StatusCode >= 300 {
        return decimal.Decimal{}, false, fmt.Errorf("GET %s -> %d", u.String(), resp.StatusCode)
    }

    var payload map[string]map[string]json.Number
    if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
        return decimal.Decimal{}, false, fmt.Errorf("decode: %w", err)
    }

    n, ok := payload[id][p.cfg.Currency]
    if !ok || n == "" {
        // Id or currency missing from the payload: no live price.
        return decimal.Decimal{}, false, nil
    }
    d, err := decimal.NewFromString(n.String())
    if err != nil {
        return decimal.Decimal{}, false, fmt.Errorf("parse price for %s: %w", id, err)
    }
    return d, true, nil
}
