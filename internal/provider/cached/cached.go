package cached

import (
    "context"

    "github.com/shopspring/decimal"
    "golang.org/x/sync/singleflight"

    "investtrack/internal/cache"
    "investtrack/internal/provider"
)

// KeyFunc maps a user-facing symbol to its provider-qualified cache
// key. ok=false means the symbol is not quotable at all: neither the
// cache nor the wrapped provider is consulted.
type KeyFunc func(symbol string) (key string, ok bool)

// Provider decorates a Quoter with the durable quote cache. Reads go
// through the freshness window; only successful fetches are written
// back. Concurrent refreshes of the same key are coalesced so a batch
// holding the same symbol twice issues at most one upstream request.
type Provider struct {
    Q      provider.Quoter
    Keys   KeyFunc
    Quotes *cache.Quotes

    sf singleflight.Group
}

func (c *Provider) Name() string { return c.Q.Name() }

func (c *Provider) FetchPrice(ctx context.Context, symbol string) (decimal.Decimal, bool, error) {
    if c.Keys == nil || c.Quotes == nil {
        return c.Q.FetchPrice(ctx, symbol)
    }
    key, ok := c.Keys(symbol)
    if !ok {
        return decimal.Decimal{}, false, nil
    }
    if p, hit := c.Quotes.Get(ctx, key); hit {
        return p, true, nil
    }

    type result struct {
        price decimal.Decimal
        ok    bool
    }
    v, err, _ := c.sf.Do(key, func() (any, error) {
        p, ok, err := c.Q.FetchPrice(ctx, symbol)
        if err != nil { return nil, err }
        if ok { c.Quotes.Set(ctx, key, p) }
        return result{price: p, ok: ok}, nil
    })
    if err != nil {
        return decimal.Decimal{}, false, err
    }
    r := v.(result)
    return r.price, r.ok, nil
}
