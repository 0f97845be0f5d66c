package pricesync

import (
    "context"
    "log"
    "time"

    "golang.org/x/sync/errgroup"

    "investtrack/internal/model"
    "investtrack/internal/provider"
)

// DefaultPerRecordTimeout bounds a single provider call so one hung
// upstream cannot stall the whole batch join.
const DefaultPerRecordTimeout = 8 * time.Second

// Engine resolves live prices for a collection of investment records.
// Stocks and Crypto records go through their quoter; everything else,
// and anything that fails to resolve, falls back to cost basis.
type Engine struct {
    Stock  provider.Quoter
    Crypto provider.Quoter

    // PerRecordTimeout caps each record's resolution. Zero means
    // DefaultPerRecordTimeout.
    PerRecordTimeout time.Duration
}

// SyncPrices decorates every record with a CurrentValue. The output has
// the same length and order as the input; records are processed
// concurrently and independently, and a provider failure on one record
// never affects its siblings.
func (e *Engine) SyncPrices(ctx context.Context, records []model.Investment) []model.Investment {
    out := make([]model.Investment, len(records))
    g := new(errgroup.Group)
    for i := range records {
        g.Go(func() error {
            out[i] = e.syncOne(ctx, records[i])
            return nil
        })
    }
    // Per-record work never returns an error; Wait is the join barrier.
    _ = g.Wait()
    return out
}

func (e *Engine) syncOne(ctx context.Context, rec model.Investment) model.Investment {
    quantity, priceable := rec.ParseQuantity()
    if !priceable {
        rec.CurrentValue = rec.TotalCost
        return rec
    }

    var q provider.Quoter
    switch rec.AssetType {
    case model.AssetStocks:
        q = e.Stock
    case model.AssetCrypto:
        q = e.Crypto
    }
    if q == nil || rec.Symbol == "" {
        rec.CurrentValue = rec.TotalCost
        return rec
    }

    timeout := e.PerRecordTimeout
    if timeout <= 0 { timeout = DefaultPerRecordTimeout }
    fctx, cancel := context.WithTimeout(ctx, timeout)
    defer cancel()

    price, ok, err := q.FetchPrice(fctx, rec.Symbol)
    if err != nil {
        log.Printf("pricesync: %s %q: %v", q.Name(), rec.Symbol, err)
    }
    if err != nil || !ok {
        rec.CurrentValue = rec.TotalCost
        return rec
    }
    rec.CurrentValue = price.Mul(quantity)
    return rec
}
