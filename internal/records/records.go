package records

import (
    "context"
    "errors"
    "sync"

    "github.com/google/uuid"

    "investtrack/internal/model"
)

// ErrNotFound is returned for updates/deletes of unknown records.
var ErrNotFound = errors.New("records: not found")

// Store is the record-store boundary. The sync engine never touches
// this; the serving layer reads records here, syncs prices, and writes
// user mutations back.
type Store interface {
    ListByUser(ctx context.Context, userID string) ([]model.Investment, error)
    Create(ctx context.Context, inv *model.Investment) error
    Update(ctx context.Context, inv *model.Investment) error
    Delete(ctx context.Context, id uuid.UUID) error
}

// EventType says what happened to a record.
type EventType string

const (
    EventCreated EventType = "created"
    EventUpdated EventType = "updated"
    EventDeleted EventType = "deleted"
)

// Event is one record-store change.
type Event struct {
    Type   EventType
    UserID string
    ID     uuid.UUID
}

// Subscription is a live registration with a Notifier. Unsubscribe is
// idempotent and stops delivery.
type Subscription struct {
    n  *Notifier
    id int
}

func (s *Subscription) Unsubscribe() {
    if s == nil || s.n == nil { return }
    s.n.mu.Lock()
    delete(s.n.subs, s.id)
    s.n.mu.Unlock()
    s.n = nil
}

// Notifier broadcasts record changes to subscribers. Delivery happens
// on fresh goroutines so a slow subscriber never blocks the mutating
// call.
type Notifier struct {
    mu   sync.Mutex
    subs map[int]func(Event)
    next int
}

func NewNotifier() *Notifier {
    return &Notifier{subs: make(map[int]func(Event))}
}

func (n *Notifier) Subscribe(fn func(Event)) *Subscription {
    n.mu.Lock()
    defer n.mu.Unlock()
    n.next++
    id := n.next
    n.subs[id] = fn
    return &Subscription{n: n, id: id}
}

func (n *Notifier) Publish(evt Event) {
    n.mu.Lock()
    fns := make([]func(Event), 0, len(n.subs))
    for _, fn := range n.subs { fns = append(fns, fn) }
    n.mu.Unlock()
    for _, fn := range fns {
        go fn(evt)
    }
}
