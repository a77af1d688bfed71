package events

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
)

// EventsSchema creates the append-only event log table. Sequence numbers come
// from the BIGSERIAL so they stay dense and monotonic across restarts.
const EventsSchema = `
CREATE TABLE IF NOT EXISTS registry_events (
	sequence  BIGSERIAL PRIMARY KEY,
	type      TEXT NOT NULL,
	timestamp TIMESTAMPTZ NOT NULL,
	payload   JSONB NOT NULL
);
`

// PostgresStore persists the event log in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore constructs a PostgreSQL-backed event log.
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// EnsureSchema applies the event log schema.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, EventsSchema); err != nil {
		return fmt.Errorf("apply events schema: %w", err)
	}
	return nil
}

func (s *PostgresStore) Append(ctx context.Context, event Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO registry_events (type, timestamp, payload) VALUES ($1, $2, $3)`,
		string(event.Type), event.Timestamp, payload)
	if err != nil {
		return fmt.Errorf("append event: %w", err)
	}
	return nil
}

// ListRecent returns the most recent events, newest first. A non-positive
// limit returns everything.
func (s *PostgresStore) ListRecent(ctx context.Context, limit int) ([]Event, error) {
	query := `SELECT sequence, payload FROM registry_events ORDER BY sequence DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT $1`
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()

	var out []Event
	for rows.Next() {
		var seq int64
		var payload []byte
		if err := rows.Scan(&seq, &payload); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		var event Event
		if err := json.Unmarshal(payload, &event); err != nil {
			return nil, fmt.Errorf("unmarshal event: %w", err)
		}
		event.Sequence = uint64(seq)
		out = append(out, event)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate events: %w", err)
	}
	return out, nil
}
