package main

import (
    "compress/gzip"
    "context"
    "io"
    "log"
    "net/http"
    "os"
    "os/signal"
    "strings"
    "sync"
    "syscall"
    "time"

    "github.com/joho/godotenv"
    "github.com/redis/go-redis/v9"
    "github.com/jackc/pgx/v5/pgxpool"

    "investtrack/internal/cache"
    "investtrack/internal/config"
    "investtrack/internal/httpx"
    "investtrack/internal/pricesync"
    "investtrack/internal/provider"
    "investtrack/internal/provider/cached"
    "investtrack/internal/provider/coingecko"
    "investtrack/internal/provider/finnhub"
    "investtrack/internal/provider/ratelimit"
    "investtrack/internal/provider/stocks"
    "investtrack/internal/records"
    "investtrack/internal/search"
)

type app struct {
    store    records.Store
    notifier *records.Notifier
    engine   *pricesync.Engine
    search   *search.Service
}

func main() {
    _ = godotenv.Load()

    cfg, err := config.Load(os.Getenv("CONFIG_FILE"))
    if err != nil { log.Fatalf("config: %v", err) }

    if cfg.Stock.Enabled && cfg.Stock.APIKey == "" {
        log.Println("warning: stock.enabled=true but FINNHUB_API_KEY not set")
    }

    httpClient := httpx.New(time.Duration(cfg.Server.RequestTimeoutSec) * time.Second)

    var store cache.Store
    if cfg.Redis.Enabled {
        store = cache.NewRedis(redis.NewClient(&redis.Options{
            Addr:     cfg.Redis.Addr,
            Password: cfg.Redis.Password,
            DB:       cfg.Redis.DB,
        }))
        log.Printf("quote cache: redis at %s", cfg.Redis.Addr)
    } else {
        store = cache.NewMemory()
        log.Println("quote cache: in-memory (quotes will not survive restarts)")
    }
    quotes := cache.NewQuotes(store)

    fc := newFinnhubClient(cfg, httpClient)
    stockQ, cryptoQ := buildQuoters(cfg, fc, httpClient, quotes)

    if cfg.Database.URL == "" {
        log.Fatalf("DATABASE_URL is required")
    }
    pool, err := pgxpool.New(context.Background(), cfg.Database.URL)
    if err != nil { log.Fatalf("database: %v", err) }
    defer pool.Close()

    notifier := records.NewNotifier()
    a := &app{
        store:    records.NewPG(pool, notifier),
        notifier: notifier,
        engine: &pricesync.Engine{
            Stock:            stockQ,
            Crypto:           cryptoQ,
            PerRecordTimeout: time.Duration(cfg.Sync.PerRecordTimeoutSec) * time.Second,
        },
    }
    if fc != nil {
        a.search = search.New(fc)
    }

    api := http.NewServeMux()
    api.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
        w.WriteHeader(http.StatusOK)
        _, _ = w.Write([]byte(`{"status":"ok"}`))
    })
    api.HandleFunc("/api/portfolio", a.handlePortfolio)
    api.HandleFunc("/api/search", a.handleSearch)
    api.HandleFunc("/api/investments", a.handleInvestments)
    api.HandleFunc("/api/investments/", a.handleInvestmentByID)

    // The websocket endpoint sits outside the middleware chain: the
    // upgrade needs the raw ResponseWriter.
    root := http.NewServeMux()
    root.HandleFunc("/ws", a.handleWS)
    root.Handle("/", withJSONHeaders(withGzip(recoverPanic(limitBody(api)))))

    srv := &http.Server{
        Addr:              ":" + cfg.Server.Port,
        Handler:           root,
        ReadHeaderTimeout: 5 * time.Second,
        ReadTimeout:       15 * time.Second,
        WriteTimeout:      20 * time.Second,
        IdleTimeout:       60 * time.Second,
    }

    go func() {
        log.Printf("server listening on :%s", cfg.Server.Port)
        if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
            log.Fatalf("server: %v", err)
        }
    }()

    // graceful shutdown
    ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
    defer stop()
    <-ctx.Done()
    shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
    defer cancel()
    _ = srv.Shutdown(shutdownCtx)
}

func newFinnhubClient(cfg config.Config, hc *httpx.Client) *finnhub.Client {
    if !cfg.Stock.Enabled {
        return nil
    }
    fc, err := finnhub.NewClient(
        cfg.Stock.APIKey,
        finnhub.WithHTTPClient(hc.HTTP),
        finnhub.WithBaseURL(cfg.Stock.BaseURL),
    )
    if err != nil {
        log.Printf("finnhub client error: %v", err)
        return nil
    }
    return fc
}

// buildQuoters assembles the provider stacks: base client, rate-limit
// gate, then the durable cache in front.
func buildQuoters(cfg config.Config, fc *finnhub.Client, hc *httpx.Client, quotes *cache.Quotes) (stockQ, cryptoQ provider.Quoter) {
    if fc != nil {
        var q provider.Quoter = stocks.New(fc)
        q = withRateLimit(q, cfg.Stock.MaxRequestsPerMinute, cfg.Stock.Burst, cfg.Stock.MinRequestIntervalSec)
        stockQ = &cached.Provider{Q: q, Keys: stocks.Key, Quotes: quotes}
    }
    if cfg.Crypto.Enabled {
        var q provider.Quoter = coingecko.New(coingecko.Config{
            BaseURL:  cfg.Crypto.BaseURL,
            Currency: cfg.Crypto.Currency,
        }, hc)
        q = withRateLimit(q, cfg.Crypto.MaxRequestsPerMinute, cfg.Crypto.Burst, cfg.Crypto.MinRequestIntervalSec)
        cryptoQ = &cached.Provider{Q: q, Keys: coingecko.Key, Quotes: quotes}
    }
    return stockQ, cryptoQ
}

// Prefer token bucket with burst if RPM is set, otherwise use min-interval.
func withRateLimit(q provider.Quoter, rpm, burst, minIntervalSec int) provider.Quoter {
    if rpm > 0 {
        if burst <= 0 { burst = 1 }
        return &ratelimit.TokenBucketQuoter{Q: q, TB: ratelimit.NewTokenBucket(float64(rpm)/60.0, burst)}
    }
    if minIntervalSec > 0 {
        return &ratelimit.MinInterval{Q: q, Interval: time.Duration(minIntervalSec) * time.Second}
    }
    return q
}

func withJSONHeaders(next http.Handler) http.Handler {
    return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
        w.Header().Set("Content-Type", "application/json; charset=utf-8")
        // Basic CORS for the mobile client; adjust as needed.
        w.Header().Set("Access-Control-Allow-Origin", "*")
        w.Header().Set("Access-Control-Allow-Methods", "GET,POST,PUT,DELETE,OPTIONS")
        w.Header().Set("Access-Control-Allow-Headers", "Content-Type,Authorization")
        if r.Method == http.MethodOptions {
            w.WriteHeader(http.StatusNoContent)
            return
        }
        next.ServeHTTP(w, r)
    })
}

// withGzip compresses response when client supports gzip.
func withGzip(next http.Handler) http.Handler {
    var gzPool = sync.Pool{New: func() any {
        // Prefer best speed to reduce CPU usage since payloads are JSON
        w, _ := gzip.NewWriterLevel(io.Discard, gzip.BestSpeed)
        return w
    }}
    return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
        if !strings.Contains(r.Header.Get("Accept-Encoding"), "gzip") {
            next.ServeHTTP(w, r)
            return
        }
        gz := gzPool.Get().(*gzip.Writer)
        gz.Reset(w)
        defer func() {
            _ = gz.Close()
            gz.Reset(io.Discard)
            gzPool.Put(gz)
        }()
        w.Header().Set("Content-Encoding", "gzip")
        w.Header().Add("Vary", "Accept-Encoding")
        gw := gzipResponseWriter{ResponseWriter: w, Writer: gz}
        next.ServeHTTP(gw, r)
    })
}

type gzipResponseWriter struct {
    http.ResponseWriter
    Writer io.Writer
}

func (g gzipResponseWriter) Write(b []byte) (int, error) {
    return g.Writer.Write(b)
}

// limitBody caps request body size to avoid memory abuse.
func limitBody(next http.Handler) http.Handler {
    const maxBody = 1 << 20 // 1MB
    return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
        if (r.Method == http.MethodPost || r.Method == http.MethodPut) && r.Body != nil {
            r.Body = http.MaxBytesReader(w, r.Body, maxBody)
        }
        next.ServeHTTP(w, r)
    })
}

// recoverPanic protects handlers from panics.
func recoverPanic(next http.Handler) http.Handler {
    return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
        defer func() {
            if rec := recover(); rec != nil {
                http.Error(w, "internal server error", http.StatusInternalServerError)
            }
        }()
        next.ServeHTTP(w, r)
    })
}
