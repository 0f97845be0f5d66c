package config

import (
    "encoding/json"
    "errors"
    "fmt"
    "os"
    "strings"
)

type Server struct {
    Port              string `json:"port"`
    RequestTimeoutSec int    `json:"request_timeout_sec"`
}

type Stock struct {
    Enabled               bool   `json:"enabled"`
    APIKey                string `json:"api_key"`
    BaseURL               string `json:"base_url"`
    MaxRequestsPerMinute  int    `json:"max_requests_per_minute"`
    MinRequestIntervalSec int    `json:"min_request_interval_sec"`
    Burst                 int    `json:"burst"`
}

type Crypto struct {
    Enabled               bool   `json:"enabled"`
    BaseURL               string `json:"base_url"`
    Currency              string `json:"currency"`
    MaxRequestsPerMinute  int    `json:"max_requests_per_minute"`
    MinRequestIntervalSec int    `json:"min_request_interval_sec"`
    Burst                 int    `json:"burst"`
}

type Redis struct {
    Enabled  bool   `json:"enabled"`
    Addr     string `json:"addr"`
    Password string `json:"password"`
    DB       int    `json:"db"`
}

type Database struct {
    URL string `json:"url"`
}

type Sync struct {
    PerRecordTimeoutSec int `json:"per_record_timeout_sec"`
}

type Config struct {
    Server   Server   `json:"server"`
    Stock    Stock    `json:"stock"`
    Crypto   Crypto   `json:"crypto"`
    Redis    Redis    `json:"redis"`
    Database Database `json:"database"`
    Sync     Sync     `json:"sync"`
}

func Default() Config {
    return Config{
        Server: Server{Port: "8080", RequestTimeoutSec: 8},
        Stock: Stock{
            Enabled: true,
            BaseURL: "https://finnhub.io/api/v1",
            MaxRequestsPerMinute: 60,
            Burst: 10,
        },
        Crypto: Crypto{
            Enabled:  true,
            BaseURL:  "https://api.coingecko.com/api/v3",
            Currency: "inr",
            MaxRequestsPerMinute: 30,
            Burst: 5,
        },
        Redis: Redis{
            Enabled: false,
            Addr:    "localhost:6379",
        },
        Sync: Sync{PerRecordTimeoutSec: 8},
    }
}

// Load reads JSON config from path. If path is empty or file does not exist,
// it returns defaults. Environment variables override select fields for secrecy.
func Load(path string) (Config, error) {
    cfg := Default()
    if path == "" {
        if _, err := os.Stat("config.json"); err == nil {
            path = "config.json"
        }
    }
    if path != "" {
        b, err := os.ReadFile(path)
        if err != nil && !errors.Is(err, os.ErrNotExist) {
            return cfg, fmt.Errorf("read config: %w", err)
        }
        if err == nil {
            if err := json.Unmarshal(b, &cfg); err != nil {
                return cfg, fmt.Errorf("parse config: %w", err)
            }
        }
    }
    applyEnv(&cfg)
    return cfg, nil
}

func applyEnv(cfg *Config) {
    if v := os.Getenv("PORT"); v != "" { cfg.Server.Port = v }
    if v := os.Getenv("REQUEST_TIMEOUT_SEC"); v != "" {
        var x int; fmt.Sscanf(v, "%d", &x); if x > 0 { cfg.Server.RequestTimeoutSec = x }
    }

    if v := os.Getenv("FINNHUB_API_KEY"); v != "" { cfg.Stock.APIKey = v }
    if v := os.Getenv("FINNHUB_BASE_URL"); v != "" { cfg.Stock.BaseURL = v }
    if v := os.Getenv("STOCK_ENABLED"); v != "" { cfg.Stock.Enabled = parseBool(v, cfg.Stock.Enabled) }
    if v := os.Getenv("STOCK_MAX_RPM"); v != "" {
        var x int; fmt.Sscanf(v, "%d", &x); if x >= 0 { cfg.Stock.MaxRequestsPerMinute = x }
    }
    if v := os.Getenv("STOCK_MIN_INTERVAL_SEC"); v != "" {
        var x int; fmt.Sscanf(v, "%d", &x); if x >= 0 { cfg.Stock.MinRequestIntervalSec = x }
    }
    if v := os.Getenv("STOCK_BURST"); v != "" {
        var x int; fmt.Sscanf(v, "%d", &x); if x > 0 { cfg.Stock.Burst = x }
    }

    if v := os.Getenv("COINGECKO_BASE_URL"); v != "" { cfg.Crypto.BaseURL = v }
    if v := os.Getenv("CRYPTO_CURRENCY"); v != "" { cfg.Crypto.Currency = v }
    if v := os.Getenv("CRYPTO_ENABLED"); v != "" { cfg.Crypto.Enabled = parseBool(v, cfg.Crypto.Enabled) }
    if v := os.Getenv("CRYPTO_MAX_RPM"); v != "" {
        var x int; fmt.Sscanf(v, "%d", &x); if x >= 0 { cfg.Crypto.MaxRequestsPerMinute = x }
    }
    if v := os.Getenv("CRYPTO_MIN_INTERVAL_SEC"); v != "" {
        var x int; fmt.Sscanf(v, "%d", &x); if x >= 0 { cfg.Crypto.MinRequestIntervalSec = x }
    }
    if v := os.Getenv("CRYPTO_BURST"); v != "" {
        var x int; fmt.Sscanf(v, "%d", &x); if x > 0 { cfg.Crypto.Burst = x }
    }

    if v := os.Getenv("REDIS_ENABLED"); v != "" { cfg.Redis.Enabled = parseBool(v, cfg.Redis.Enabled) }
    if v := os.Getenv("REDIS_ADDR"); v != "" { cfg.Redis.Addr = v; cfg.Redis.Enabled = true }
    if v := os.Getenv("REDIS_PASSWORD"); v != "" { cfg.Redis.Password = v }
    if v := os.Getenv("REDIS_DB"); v != "" {
        var x int; fmt.Sscanf(v, "%d", &x); if x >= 0 { cfg.Redis.DB = x }
    }

    if v := os.Getenv("DATABASE_URL"); v != "" { cfg.Database.URL = v }

    if v := os.Getenv("SYNC_PER_RECORD_TIMEOUT_SEC"); v != "" {
        var x int; fmt.Sscanf(v, "%d", &x); if x > 0 { cfg.Sync.PerRecordTimeoutSec = x }
    }
}

func parseBool(v string, def bool) bool {
    switch strings.ToLower(v) {
    case "1", "true", "yes", "y":
        return true
    case "0", "false", "no", "n":
        return false
    }
    return def
}
