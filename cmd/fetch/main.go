package main

import (
    "context"
    "encoding/json"
    "flag"
    "fmt"
    "io"
    "log"
    "os"
    "time"

    "investtrack/internal/cache"
    "investtrack/internal/config"
    "investtrack/internal/httpx"
    "investtrack/internal/model"
    "investtrack/internal/portfolio"
    "investtrack/internal/pricesync"
    "investtrack/internal/provider"
    "investtrack/internal/provider/cached"
    "investtrack/internal/provider/coingecko"
    "investtrack/internal/provider/finnhub"
    "investtrack/internal/provider/stocks"
)

// fetch reads an investment collection as JSON, runs one price sync
// against the live providers, and prints the decorated collection.
func main() {
    var file string
    var configPath string
    var timeout int
    var showTotals bool

    flag.StringVar(&file, "file", "-", "path to investments JSON ('-' for stdin)")
    flag.StringVar(&configPath, "config", os.Getenv("CONFIG_FILE"), "path to config.json (optional)")
    flag.IntVar(&timeout, "timeout", 0, "request timeout seconds (overrides config)")
    flag.BoolVar(&showTotals, "totals", false, "also print portfolio totals")
    flag.Parse()

    cfg, err := config.Load(configPath)
    if err != nil { log.Fatalf("config: %v", err) }
    if timeout > 0 { cfg.Server.RequestTimeoutSec = timeout }

    records, err := readRecords(file)
    if err != nil { log.Fatalf("read records: %v", err) }

    httpClient := httpx.New(time.Duration(cfg.Server.RequestTimeoutSec) * time.Second)
    quotes := cache.NewQuotes(cache.NewMemory())

    var stockQ, cryptoQ provider.Quoter
    if cfg.Stock.Enabled && cfg.Stock.APIKey != "" {
        fc, err := finnhub.NewClient(
            cfg.Stock.APIKey,
            finnhub.WithHTTPClient(httpClient.HTTP),
            finnhub.WithBaseURL(cfg.Stock.BaseURL),
        )
        if err != nil { log.Fatalf("finnhub client: %v", err) }
        stockQ = &cached.Provider{Q: stocks.New(fc), Keys: stocks.Key, Quotes: quotes}
    }
    if cfg.Crypto.Enabled {
        cg := coingecko.New(coingecko.Config{
            BaseURL:  cfg.Crypto.BaseURL,
            Currency: cfg.Crypto.Currency,
        }, httpClient)
        cryptoQ = &cached.Provider{Q: cg, Keys: coingecko.Key, Quotes: quotes}
    }

    engine := &pricesync.Engine{
        Stock:            stockQ,
        Crypto:           cryptoQ,
        PerRecordTimeout: time.Duration(cfg.Sync.PerRecordTimeoutSec) * time.Second,
    }

    ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
    defer cancel()
    synced := engine.SyncPrices(ctx, records)

    enc := json.NewEncoder(os.Stdout)
    enc.SetIndent("", "  ")
    enc.SetEscapeHTML(false)
    if showTotals {
        portfolio.Sort(synced)
        if err := enc.Encode(struct {
            Investments []model.Investment `json:"investments"`
            Totals      portfolio.Totals   `json:"totals"`
        }{synced, portfolio.Summarize(synced)}); err != nil {
            log.Fatalf("encode: %v", err)
        }
        return
    }
    if err := enc.Encode(synced); err != nil {
        log.Fatalf("encode: %v", err)
    }
}

func readRecords(path string) ([]model.Investment, error) {
    var r io.Reader = os.Stdin
    if path != "-" {
        f, err := os.Open(path)
        if err != nil { return nil, err }
        defer f.Close()
        r = f
    }
    var records []model.Investment
    if err := json.NewDecoder(r).Decode(&records); err != nil {
        return nil, fmt.Errorf("decode investments: %w", err)
    }
    return records, nil
}
