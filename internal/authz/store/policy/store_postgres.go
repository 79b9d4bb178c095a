package policy

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"trustcore/internal/authz"
)

// PostgresStore is the durable policy tuple store.
//
// Schema:
//
//	CREATE TABLE policy_tuples (
//	    subject_role TEXT NOT NULL,
//	    domain       TEXT NOT NULL,
//	    resource     TEXT NOT NULL,
//	    action       TEXT NOT NULL,
//	    PRIMARY KEY (subject_role, domain, resource, action)
//	);
//	CREATE INDEX policy_tuples_domain_role ON policy_tuples (domain, subject_role);
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgres constructs a pgx-backed policy store.
func NewPostgres(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

func (s *PostgresStore) Grant(ctx context.Context, tuple authz.PolicyTuple) error {
	const query = `
		INSERT INTO policy_tuples (subject_role, domain, resource, action)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT DO NOTHING`
	if _, err := s.pool.Exec(ctx, query, tuple.SubjectRole, tuple.Domain, tuple.Resource, tuple.Action); err != nil {
		return fmt.Errorf("grant policy tuple: %w", err)
	}
	return nil
}

func (s *PostgresStore) Revoke(ctx context.Context, tuple authz.PolicyTuple) error {
	const query = `
		DELETE FROM policy_tuples
		WHERE subject_role = $1 AND domain = $2 AND resource = $3 AND action = $4`
	if _, err := s.pool.Exec(ctx, query, tuple.SubjectRole, tuple.Domain, tuple.Resource, tuple.Action); err != nil {
		return fmt.Errorf("revoke policy tuple: %w", err)
	}
	return nil
}

// TuplesForRoles returns every tuple in the domain held by any of the roles.
// Wildcard evaluation happens in the enforcer, not in SQL.
func (s *PostgresStore) TuplesForRoles(ctx context.Context, domain string, roles []string) ([]authz.PolicyTuple, error) {
	const query = `
		SELECT subject_role, domain, resource, action
		FROM policy_tuples
		WHERE domain = $1 AND subject_role = ANY($2)`
	rows, err := s.pool.Query(ctx, query, domain, roles)
	if err != nil {
		return nil, fmt.Errorf("query policy tuples: %w", err)
	}
	defer rows.Close()

	var tuples []authz.PolicyTuple
	for rows.Next() {
		var t authz.PolicyTuple
		if err := rows.Scan(&t.SubjectRole, &t.Domain, &t.Resource, &t.Action); err != nil {
			return nil, fmt.Errorf("scan policy tuple: %w", err)
		}
		tuples = append(tuples, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate policy tuples: %w", err)
	}
	return tuples, nil
}

func (s *PostgresStore) RemoveDomain(ctx context.Context, domain string) error {
	if _, err := s.pool.Exec(ctx, `DELETE FROM policy_tuples WHERE domain = $1`, domain); err != nil {
		return fmt.Errorf("remove domain tuples: %w", err)
	}
	return nil
}
