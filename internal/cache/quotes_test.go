package cache

import (
    "context"
    "testing"
    "time"

    "github.com/shopspring/decimal"
)

func TestQuotes_RoundTrip(t *testing.T) {
    q := NewQuotes(NewMemory())
    ctx := context.Background()

    if _, ok := q.Get(ctx, "stock_AAPL"); ok {
        t.Fatalf("expected miss on empty store")
    }

    q.Set(ctx, "stock_AAPL", decimal.RequireFromString("150.25"))
    got, ok := q.Get(ctx, "stock_AAPL")
    if !ok {
        t.Fatalf("expected hit after set")
    }
    if got.String() != "150.25" {
        t.Fatalf("price mismatch: %s", got)
    }
}

func TestQuotes_StaleEntryIsAMiss(t *testing.T) {
    q := NewQuotes(NewMemory())
    ctx := context.Background()

    base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
    now = func() time.Time { return base }
    defer func() { now = time.Now }()

    q.Set(ctx, "crypto_bitcoin", decimal.NewFromInt(5000000))

    // Just inside the window: still served.
    now = func() time.Time { return base.Add(FreshFor - time.Second) }
    if _, ok := q.Get(ctx, "crypto_bitcoin"); !ok {
        t.Fatalf("entry inside window should be served")
    }

    // At the boundary and beyond: treated as absent.
    now = func() time.Time { return base.Add(FreshFor) }
    if _, ok := q.Get(ctx, "crypto_bitcoin"); ok {
        t.Fatalf("entry at window boundary should be a miss")
    }
}

func TestQuotes_CorruptEntryIsAMiss(t *testing.T) {
    store := NewMemory()
    q := NewQuotes(store)
    ctx := context.Background()

    store.Set(ctx, "stock_TCS", []byte("{not json"))
    if _, ok := q.Get(ctx, "stock_TCS"); ok {
        t.Fatalf("corrupt entry must degrade to a miss")
    }

    store.Set(ctx, "stock_TCS", []byte(`{"data":"abc","timestamp":"2099-01-01T00:00:00Z"}`))
    if _, ok := q.Get(ctx, "stock_TCS"); ok {
        t.Fatalf("unparseable price must degrade to a miss")
    }
}

func TestQuotes_SetOverwrites(t *testing.T) {
    q := NewQuotes(NewMemory())
    ctx := context.Background()

    q.Set(ctx, "stock_INFY", decimal.NewFromInt(100))
    q.Set(ctx, "stock_INFY", decimal.NewFromInt(101))
    got, ok := q.Get(ctx, "stock_INFY")
    if !ok || !got.Equal(decimal.NewFromInt(101)) {
        t.Fatalf("expected overwritten value 101, got %v ok=%v", got, ok)
    }
}
