package repositories

import (
	"context"

	"github.com/asset-exchange/backend/internal/events"
	"github.com/jackc/pgx/v5/pgxpool"
)

// EventRepo is the append-only archive of engine events. Rows are only ever
// inserted; the engine never reads them back, external indexers do.
type EventRepo struct {
	pool *pgxpool.Pool
}

func NewEventRepo(pool *pgxpool.Pool) *EventRepo {
	return &EventRepo{pool: pool}
}

func (r *EventRepo) Append(ctx context.Context, e events.Event) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO events (id, type, payload, emitted_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO NOTHING
	`, e.ID, e.Type, e.Payload, e.EmittedAt)
	return err
}

// List returns archived events in emission order.
func (r *EventRepo) List(ctx context.Context, limit, offset int) ([]events.Event, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, type, payload, emitted_at
		FROM events
		ORDER BY seq ASC
		LIMIT $1 OFFSET $2
	`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []events.Event
	for rows.Next() {
		var e events.Event
		if err := rows.Scan(&e.ID, &e.Type, &e.Payload, &e.EmittedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// ListByType filters the archive by event type, oldest first.
func (r *EventRepo) ListByType(ctx context.Context, eventType string, limit, offset int) ([]events.Event, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, type, payload, emitted_at
		FROM events
		WHERE type = $1
		ORDER BY seq ASC
		LIMIT $2 OFFSET $3
	`, eventType, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []events.Event
	for rows.Next() {
		var e events.Event
		if err := rows.Scan(&e.ID, &e.Type, &e.Payload, &e.EmittedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
