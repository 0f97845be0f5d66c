package coingecko

import (
    "net/http"
    "net/http/httptest"
    "sync/atomic"
    "testing"
    "time"

    "investtrack/internal/httpx"
)

func TestFetchPrice_KnownSymbol(t *testing.T) {
    var hits atomic.Int32
    srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
        hits.Add(1)
        if got := r.URL.Query().Get("ids"); got != "bitcoin" {
            t.Errorf("ids=%q", got)
        }
        if got := r.URL.Query().Get("vs_currencies"); got != "inr" {
            t.Errorf("vs_currencies=%q", got)
        }
        w.Write([]byte(`{"bitcoin":{"inr":5000000}}`))
    }))
    defer srv.Close()

    p := New(Config{BaseURL: srv.URL}, httpx.New(2*time.Second))
    price, ok, err := p.FetchPrice(t.Context(), "btc")
    if err != nil { t.Fatalf("unexpected error: %v", err) }
    if !ok { t.Fatalf("expected a price") }
    if price.String() != "5000000" {
        t.Fatalf("price=%s", price)
    }
    if hits.Load() != 1 {
        t.Fatalf("want one request, got %d", hits.Load())
    }
}

func TestFetchPrice_UnknownSymbol_NoNetworkCall(t *testing.T) {
    srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
        t.Errorf("unexpected request: %s", r.URL)
    }))
    defer srv.Close()

    p := New(Config{BaseURL: srv.URL}, httpx.New(2*time.Second))
    _, ok, err := p.FetchPrice(t.Context(), "SHIB")
    if err != nil { t.Fatalf("unexpected error: %v", err) }
    if ok { t.Fatalf("unknown symbol must not resolve") }
}

func TestFetchPrice_Non2xx(t *testing.T) {
    srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
        http.Error(w, "rate limited", http.StatusTooManyRequests)
    }))
    defer srv.Close()

    p := New(Config{BaseURL: srv.URL}, httpx.New(2*time.Second))
    _, _, err := p.FetchPrice(t.Context(), "ETH")
    if err == nil { t.Fatalf("expected error on 429") }
}

func TestFetchPrice_MissingIDInPayload(t *testing.T) {
    srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
        w.Write([]byte(`{}`))
    }))
    defer srv.Close()

    p := New(Config{BaseURL: srv.URL}, httpx.New(2*time.Second))
    _, ok, err := p.FetchPrice(t.Context(), "SOL")
    if err != nil { t.Fatalf("unexpected error: %v", err) }
    if ok { t.Fatalf("missing id must mean no live price") }
}

func TestKey_CanonicalID(t *testing.T) {
    key, ok := Key("doge")
    if !ok || key != "crypto_dogecoin" {
        t.Fatalf("key=%q ok=%v", key, ok)
    }
    if _, ok := Key("ADA"); ok {
        t.Fatalf("unsupported symbol must have no key")
    }
}
