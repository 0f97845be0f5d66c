package ratelimit

import (
    "context"
    "sync"
    "time"

    "github.com/shopspring/decimal"

    "investtrack/internal/provider"
)

// MinInterval wraps a quoter and enforces a minimum time between calls.
// Concurrent calls will wait until the interval has elapsed since the last call,
// or return early if the context is canceled.
type MinInterval struct {
    Q        provider.Quoter
    Interval time.Duration
    mu       sync.Mutex
    last     time.Time
}

func (m *MinInterval) Name() string { return m.Q.Name() }

func (m *MinInterval) FetchPrice(ctx context.Context, symbol string) (decimal.Decimal, bool, error) {
    if m.Interval > 0 {
        // simple gate: ensure at least Interval since last
        m.mu.Lock()
        wait := time.Until(m.last.Add(m.Interval))
        m.mu.Unlock()
        if wait > 0 {
            t := time.NewTimer(wait)
            defer t.Stop()
            select {
            case <-ctx.Done():
                return decimal.Decimal{}, false, ctx.Err()
            case <-t.C:
            }
        }
    }
    price, ok, err := m.Q.FetchPrice(ctx, symbol)
    if m.Interval > 0 {
        m.mu.Lock()
        m.last = time.Now()
        m.mu.Unlock()
    }
    return price, ok, err
}
