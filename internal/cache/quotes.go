package cache

import (
    "context"
    "encoding/json"
    "log"
    "time"

    "github.com/shopspring/decimal"
)

// FreshFor is the validity window of a cached quote. Past it an entry
// is treated as absent, which always triggers a refetch on next access.
const FreshFor = 15 * time.Minute

// envelope is the persisted shape: the provider payload plus the stamp
// it was fetched at.
type envelope struct {
    Data      string    `json:"data"`
    Timestamp time.Time `json:"timestamp"`
}

// Quotes wraps a Store with the freshness window and the quote
// serialization. A stale or unreadable entry is indistinguishable from
// a true miss to callers.
type Quotes struct {
    Store Store
}

func NewQuotes(s Store) *Quotes {
    return &Quotes{Store: s}
}

// Get returns the cached price for key if it is still fresh.
func (q *Quotes) Get(ctx context.Context, key string) (decimal.Decimal, bool) {
    b, ok := q.Store.Get(ctx, key)
    if !ok {
        return decimal.Decimal{}, false
    }
    var e envelope
    if err := json.Unmarshal(b, &e); err != nil {
        log.Printf("cache: decode %s: %v", key, err)
        return decimal.Decimal{}, false
    }
    if now().Sub(e.Timestamp) >= FreshFor {
        return decimal.Decimal{}, false
    }
    d, err := decimal.NewFromString(e.Data)
    if err != nil {
        log.Printf("cache: bad price in %s: %v", key, err)
        return decimal.Decimal{}, false
    }
    return d, true
}

// Set overwrites key unconditionally, stamping the current time.
func (q *Quotes) Set(ctx context.Context, key string, price decimal.Decimal) {
    b, err := json.Marshal(envelope{Data: price.String(), Timestamp: now()})
    if err != nil {
        log.Printf("cache: encode %s: %v", key, err)
        return
    }
    q.Store.Set(ctx, key, b)
}
