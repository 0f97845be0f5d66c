package main

import (
    "log"
    "net/http"
    "strings"
    "time"

    "github.com/gorilla/websocket"

    "investtrack/internal/portfolio"
    "investtrack/internal/records"
)

var upgrader = websocket.Upgrader{
    ReadBufferSize:  1024,
    WriteBufferSize: 4096,
    // The API is already open CORS-wise; the socket follows suit.
    CheckOrigin: func(*http.Request) bool { return true },
}

const wsWriteTimeout = 10 * time.Second

// handleWS streams a freshly synced portfolio to the client: once on
// connect, then again every time the record store reports a change for
// that user.
func (a *app) handleWS(w http.ResponseWriter, r *http.Request) {
    user := strings.TrimSpace(r.URL.Query().Get("user"))
    if user == "" {
        http.Error(w, "missing user query param", http.StatusBadRequest)
        return
    }

    conn, err := upgrader.Upgrade(w, r, nil)
    if err != nil {
        log.Printf("ws: upgrade: %v", err)
        return
    }
    defer conn.Close()

    // Coalescing trigger: many rapid mutations collapse into one push.
    trigger := make(chan struct{}, 1)
    sub := a.notifier.Subscribe(func(e records.Event) {
        if e.UserID != user {
            return
        }
        select {
        case trigger <- struct{}{}:
        default:
        }
    })
    defer sub.Unsubscribe()

    // Reader loop only exists to observe the close.
    done := make(chan struct{})
    go func() {
        defer close(done)
        for {
            if _, _, err := conn.ReadMessage(); err != nil {
                return
            }
        }
    }()

    if err := a.pushPortfolio(r, conn, user); err != nil {
        return
    }
    for {
        select {
        case <-done:
            return
        case <-r.Context().Done():
            return
        case <-trigger:
            if err := a.pushPortfolio(r, conn, user); err != nil {
                return
            }
        }
    }
}

func (a *app) pushPortfolio(r *http.Request, conn *websocket.Conn, user string) error {
    invs, err := a.store.ListByUser(r.Context(), user)
    if err != nil {
        log.Printf("ws: list records for %s: %v", user, err)
        return nil // record-store hiccups should not drop the socket
    }
    synced := a.engine.SyncPrices(r.Context(), invs)
    portfolio.Sort(synced)

    _ = conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
    if err := conn.WriteJSON(portfolioResponse{
        Investments: synced,
        Totals:      portfolio.Summarize(synced),
    }); err != nil {
        log.Printf("ws: write to %s: %v", user, err)
        return err
    }
    return nil
}
