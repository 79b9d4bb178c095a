package roles

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresSource reads role assignments from the relational store.
//
// Schema:
//
//	CREATE TABLE role_assignments (
//	    uid    TEXT NOT NULL,
//	    domain TEXT NOT NULL,
//	    role   TEXT NOT NULL,
//	    PRIMARY KEY (uid, domain, role)
//	);
type PostgresSource struct {
	pool *pgxpool.Pool
}

// NewPostgres constructs a pgx-backed role source.
func NewPostgres(pool *pgxpool.Pool) *PostgresSource {
	return &PostgresSource{pool: pool}
}

func (s *PostgresSource) RolesOf(ctx context.Context, uid, domain string) ([]string, error) {
	const query = `SELECT role FROM role_assignments WHERE uid = $1 AND domain = $2`
	rows, err := s.pool.Query(ctx, query, uid, domain)
	if err != nil {
		return nil, fmt.Errorf("query role assignments: %w", err)
	}
	defer rows.Close()

	var roles []string
	for rows.Next() {
		var role string
		if err := rows.Scan(&role); err != nil {
			return nil, fmt.Errorf("scan role: %w", err)
		}
		roles = append(roles, role)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate roles: %w", err)
	}
	return roles, nil
}
