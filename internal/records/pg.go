package records

import (
    "context"
    "errors"
    "fmt"
    "time"

    "github.com/google/uuid"
    "github.com/jackc/pgx/v5"
    "github.com/jackc/pgx/v5/pgxpool"
    "github.com/shopspring/decimal"

    "investtrack/internal/model"
)

// PG stores investment records in Postgres and publishes a change event
// after each successful mutation.
type PG struct {
    pool     *pgxpool.Pool
    notifier *Notifier
}

func NewPG(pool *pgxpool.Pool, notifier *Notifier) *PG {
    return &PG{pool: pool, notifier: notifier}
}

const listByUserSQL = `
SELECT id, user_id, name, COALESCE(symbol, ''), asset_type,
       COALESCE(quantity, ''), total_cost::text, created_at
FROM investments
WHERE user_id = $1
ORDER BY created_at DESC, id`

func (s *PG) ListByUser(ctx context.Context, userID string) ([]model.Investment, error) {
    rows, err := s.pool.Query(ctx, listByUserSQL, userID)
    if err != nil {
        return nil, fmt.Errorf("list investments: %w", err)
    }
    defer rows.Close()

    var out []model.Investment
    for rows.Next() {
        var inv model.Investment
        var assetType, cost string
        var createdAt time.Time
        if err := rows.Scan(&inv.ID, &inv.UserID, &inv.Name, &inv.Symbol,
            &assetType, &inv.Quantity, &cost, &createdAt); err != nil {
            return nil, fmt.Errorf("scan investment: %w", err)
        }
        inv.AssetType = model.AssetType(assetType)
        inv.CreatedAt = createdAt
        if inv.TotalCost, err = decimal.NewFromString(cost); err != nil {
            return nil, fmt.Errorf("parse total_cost for %s: %w", inv.ID, err)
        }
        out = append(out, inv)
    }
    return out, rows.Err()
}

func (s *PG) Create(ctx context.Context, inv *model.Investment) error {
    if inv.ID == uuid.Nil {
        inv.ID = uuid.New()
    }
    if inv.CreatedAt.IsZero() {
        inv.CreatedAt = time.Now().UTC()
    }
    _, err := s.pool.Exec(ctx, `
INSERT INTO investments (id, user_id, name, symbol, asset_type, quantity, total_cost, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7::numeric, $8)`,
        inv.ID, inv.UserID, inv.Name, inv.Symbol, string(inv.AssetType),
        inv.Quantity, inv.TotalCost.String(), inv.CreatedAt)
    if err != nil {
        return fmt.Errorf("insert investment: %w", err)
    }
    s.publish(EventCreated, inv.UserID, inv.ID)
    return nil
}

func (s *PG) Update(ctx context.Context, inv *model.Investment) error {
    // The owner comes from the row, not the caller, so change events always
    // reach the subscribers watching that user.
    var userID string
    err := s.pool.QueryRow(ctx, `
UPDATE investments
SET name = $2, symbol = $3, asset_type = $4, quantity = $5, total_cost = $6::numeric
WHERE id = $1
RETURNING user_id`,
        inv.ID, inv.Name, inv.Symbol, string(inv.AssetType),
        inv.Quantity, inv.TotalCost.String()).Scan(&userID)
    if err != nil {
        if errors.Is(err, pgx.ErrNoRows) {
            return ErrNotFound
        }
        return fmt.Errorf("update investment: %w", err)
    }
    inv.UserID = userID
    s.publish(EventUpdated, userID, inv.ID)
    return nil
}

func (s *PG) Delete(ctx context.Context, id uuid.UUID) error {
    var userID string
    err := s.pool.QueryRow(ctx,
        `DELETE FROM investments WHERE id = $1 RETURNING user_id`, id).Scan(&userID)
    if err != nil {
        if errors.Is(err, pgx.ErrNoRows) {
            return ErrNotFound
        }
        return fmt.Errorf("delete investment: %w", err)
    }
    s.publish(EventDeleted, userID, id)
    return nil
}

func (s *PG) publish(t EventType, userID string, id uuid.UUID) {
    if s.notifier != nil {
        s.notifier.Publish(Event{Type: t, UserID: userID, ID: id})
    }
}
