package authz

import (
	"context"
	"time"
)

//go:generate mockgen -source=ports.go -destination=mocks/mocks.go -package=mocks

// RoleSource resolves the roles assigned to a principal within one domain.
// Role assignment management lives outside this core; this is a read port.
type RoleSource interface {
	RolesOf(ctx context.Context, uid, domain string) ([]string, error)
}

// PolicyStore is the durable tuple store. RemoveDomain must be idempotent.
type PolicyStore interface {
	Grant(ctx context.Context, tuple PolicyTuple) error
	Revoke(ctx context.Context, tuple PolicyTuple) error
	TuplesForRoles(ctx context.Context, domain string, roles []string) ([]PolicyTuple, error)
	RemoveDomain(ctx context.Context, domain string) error
}

// DecisionCache memoizes check outcomes. It is a soft view: every code path
// must stay correct when the cache is empty, and cache errors are treated as
// misses, never as authorization failures.
type DecisionCache interface {
	Get(ctx context.Context, domain, uid, resource, action string) (allowed bool, found bool, err error)
	Set(ctx context.Context, domain, uid, resource, action string, allowed bool, ttl time.Duration) error
	InvalidateDomain(ctx context.Context, domain string) error
	InvalidatePrincipal(ctx context.Context, domain, uid string) error
}

// RoleCacheInvalidator is implemented by caching role sources so the enforcer
// can drop stale role assignments alongside decisions.
type RoleCacheInvalidator interface {
	InvalidateRoles(ctx context.Context, domain, uid string) error
}
