package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"trustcore/internal/audit"
)

// Store persists audit events to Postgres. It is registered as a pipeline
// subscriber; write failures propagate to the pipeline, which contains them.
type Store struct {
	db *sql.DB
}

// New creates a PostgreSQL audit store.
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// Append writes one audit event.
func (s *Store) Append(ctx context.Context, event audit.Event) error {
	const query = `
		INSERT INTO audit_events
			(id, kind, occurred_at, uid, username, domain, outcome,
			 ip, method, resource, action, duration_ms, request_id, reason)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		ON CONFLICT (id) DO NOTHING`

	_, err := s.db.ExecContext(ctx, query,
		event.ID,
		string(event.Kind),
		event.Timestamp.UTC().Format(time.RFC3339Nano),
		event.UID,
		event.Username,
		event.Domain,
		string(event.Outcome),
		event.IP,
		event.Method,
		event.Resource,
		event.Action,
		event.Duration.Milliseconds(),
		event.RequestID,
		event.Reason,
	)
	if err != nil {
		return fmt.Errorf("append audit event: %w", err)
	}
	return nil
}
