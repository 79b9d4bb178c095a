package authz

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"trustcore/internal/authz/metrics"
	dErrors "trustcore/pkg/domainerrors"
)

// Config holds enforcer tuning.
type Config struct {
	// DecisionTTL bounds how long a stale decision can survive after the
	// tuples behind it changed.
	DecisionTTL time.Duration
	// CacheTimeout caps decision cache round trips on the hot path.
	CacheTimeout time.Duration
}

// Enforcer answers "may principal P, scoped to domain D, perform action A on
// resource R". The domain is a hard partition: a role granted in one domain
// never authorizes anything in another. Absence of a matching tuple is deny,
// never an error.
type Enforcer struct {
	roles     RoleSource
	policies  PolicyStore
	decisions DecisionCache
	roleInv   RoleCacheInvalidator
	logger    *slog.Logger
	metrics   *metrics.Metrics
	cfg       Config
	tracer    trace.Tracer
}

// NewEnforcer wires the authorization enforcer. roleInv may be nil when the
// role source is not cached.
func NewEnforcer(roles RoleSource, policies PolicyStore, decisions DecisionCache, roleInv RoleCacheInvalidator, logger *slog.Logger, m *metrics.Metrics, cfg Config) *Enforcer {
	if cfg.DecisionTTL <= 0 {
		cfg.DecisionTTL = 5 * time.Minute
	}
	if cfg.CacheTimeout <= 0 {
		cfg.CacheTimeout = 250 * time.Millisecond
	}
	return &Enforcer{
		roles:     roles,
		policies:  policies,
		decisions: decisions,
		roleInv:   roleInv,
		logger:    logger,
		metrics:   m,
		cfg:       cfg,
		tracer:    otel.Tracer("trustcore/authz"),
	}
}

// Check evaluates one access decision. The decision cache is consulted first;
// on miss the principal's roles for the domain are resolved and the policy
// store is searched for a matching tuple. A policy store outage fails closed:
// the caller gets deny plus a typed error it can distinguish from an ordinary
// deny.
func (e *Enforcer) Check(ctx context.Context, uid, domain, resource, action string) (bool, error) {
	start := time.Now()
	ctx, span := e.tracer.Start(ctx, "authz.Check", trace.WithAttributes(
		attribute.String("authz.domain", domain),
		attribute.String("authz.resource", resource),
		attribute.String("authz.action", action),
	))
	defer span.End()
	defer func() { e.metrics.ObserveCheckLatency(time.Since(start)) }()

	if uid == "" || domain == "" {
		return false, nil
	}

	cacheCtx, cancel := context.WithTimeout(ctx, e.cfg.CacheTimeout)
	allowed, found, err := e.decisions.Get(cacheCtx, domain, uid, resource, action)
	cancel()
	if err != nil {
		// Cache trouble is a miss, not a denial
		e.logger.Warn("decision cache read failed", "error", err)
	} else if found {
		e.metrics.ObserveDecision(allowed, "cache")
		return allowed, nil
	}

	roles, err := e.roles.RolesOf(ctx, uid, domain)
	if err != nil {
		e.metrics.ObserveDecision(false, "store")
		return false, dErrors.Wrap(err, dErrors.CodePolicyUnavailable, "role resolution failed")
	}

	allowed = false
	if len(roles) > 0 {
		tuples, err := e.policies.TuplesForRoles(ctx, domain, roles)
		if err != nil {
			e.metrics.ObserveDecision(false, "store")
			return false, dErrors.Wrap(err, dErrors.CodePolicyUnavailable, "policy store unavailable")
		}
		for _, tuple := range tuples {
			if tuple.Matches(resource, action) {
				allowed = true
				break
			}
		}
	}

	cacheCtx, cancel = context.WithTimeout(ctx, e.cfg.CacheTimeout)
	if err := e.decisions.Set(cacheCtx, domain, uid, resource, action, allowed, e.cfg.DecisionTTL); err != nil {
		e.logger.Warn("decision cache write failed", "error", err)
	}
	cancel()

	e.metrics.ObserveDecision(allowed, "store")
	return allowed, nil
}

// Grant inserts a tuple and drops cached decisions for its domain, so the new
// grant becomes visible without waiting out the TTL.
func (e *Enforcer) Grant(ctx context.Context, tuple PolicyTuple) error {
	if err := e.policies.Grant(ctx, tuple); err != nil {
		return dErrors.Wrap(err, dErrors.CodePolicyUnavailable, "grant failed")
	}
	if err := e.decisions.InvalidateDomain(ctx, tuple.Domain); err != nil {
		e.logger.Warn("decision cache invalidation failed", "domain", tuple.Domain, "error", err)
	}
	return nil
}

// RevokeTuple removes a tuple and drops cached decisions for its domain.
func (e *Enforcer) RevokeTuple(ctx context.Context, tuple PolicyTuple) error {
	if err := e.policies.Revoke(ctx, tuple); err != nil {
		return dErrors.Wrap(err, dErrors.CodePolicyUnavailable, "revoke failed")
	}
	if err := e.decisions.InvalidateDomain(ctx, tuple.Domain); err != nil {
		e.logger.Warn("decision cache invalidation failed", "domain", tuple.Domain, "error", err)
	}
	return nil
}

// InvalidateDomain removes every tuple scoped to the domain and evicts its
// cached decisions. The cache eviction happens after the store mutation
// commits; a cached stale allow can survive at most until its TTL, which is
// the documented consistency bound. Idempotent.
func (e *Enforcer) InvalidateDomain(ctx context.Context, domain string) error {
	if err := e.policies.RemoveDomain(ctx, domain); err != nil {
		return dErrors.Wrap(err, dErrors.CodePolicyUnavailable, "domain removal failed")
	}
	if err := e.decisions.InvalidateDomain(ctx, domain); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "decision cache eviction failed")
	}
	return nil
}

// InvalidatePrincipal evicts cached decisions (and cached roles) for one
// principal after a role assignment change.
func (e *Enforcer) InvalidatePrincipal(ctx context.Context, uid, domain string) error {
	if e.roleInv != nil {
		if err := e.roleInv.InvalidateRoles(ctx, domain, uid); err != nil {
			e.logger.Warn("role cache invalidation failed", "domain", domain, "uid", uid, "error", err)
		}
	}
	if err := e.decisions.InvalidatePrincipal(ctx, domain, uid); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "decision cache eviction failed")
	}
	return nil
}
