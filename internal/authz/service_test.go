package authz_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"trustcore/internal/authz"
	"trustcore/internal/authz/mocks"
	decisionstore "trustcore/internal/authz/store/decision"
	policystore "trustcore/internal/authz/store/policy"
	"trustcore/internal/platform/logger"
	dErrors "trustcore/pkg/domainerrors"
)

// staticRoles is a fixed role source keyed by domain and uid.
type staticRoles map[string][]string

func (r staticRoles) RolesOf(_ context.Context, uid, domain string) ([]string, error) {
	return r[domain+"/"+uid], nil
}

func newEnforcer(t *testing.T, roles authz.RoleSource, policies authz.PolicyStore) (*authz.Enforcer, *decisionstore.MemoryCache) {
	t.Helper()
	decisions := decisionstore.NewMemory()
	e := authz.NewEnforcer(roles, policies, decisions, nil, logger.New(), nil, authz.Config{})
	return e, decisions
}

func seedPolicies(t *testing.T, store authz.PolicyStore, tuples ...authz.PolicyTuple) {
	t.Helper()
	for _, tuple := range tuples {
		require.NoError(t, store.Grant(context.Background(), tuple))
	}
}

func TestCheck_AllowViaRoleTuple(t *testing.T) {
	policies := policystore.NewMemory()
	seedPolicies(t, policies, authz.PolicyTuple{SubjectRole: "editor", Domain: "tenantA", Resource: "pages", Action: "write"})
	roles := staticRoles{"tenantA/u1": {"editor"}}
	e, _ := newEnforcer(t, roles, policies)

	allowed, err := e.Check(context.Background(), "u1", "tenantA", "pages", "write")
	require.NoError(t, err)
	assert.True(t, allowed)
}

func TestCheck_DenyByDefault(t *testing.T) {
	e, _ := newEnforcer(t, staticRoles{}, policystore.NewMemory())

	allowed, err := e.Check(context.Background(), "u1", "tenantA", "pages", "write")
	require.NoError(t, err)
	assert.False(t, allowed, "no tuple means deny, not error")
}

func TestCheck_DomainIsHardPartition(t *testing.T) {
	policies := policystore.NewMemory()
	seedPolicies(t, policies, authz.PolicyTuple{SubjectRole: "admin", Domain: "tenantA", Resource: "*", Action: "*"})
	roles := staticRoles{
		"tenantA/u1": {"admin"},
		"tenantB/u1": {"viewer"},
	}
	e, _ := newEnforcer(t, roles, policies)
	ctx := context.Background()

	allowed, err := e.Check(ctx, "u1", "tenantA", "pages", "delete")
	require.NoError(t, err)
	assert.True(t, allowed)

	// The same principal carries no admin role in tenantB, and tenantA's
	// wildcard tuple must not leak across the partition.
	allowed, err = e.Check(ctx, "u1", "tenantB", "pages", "delete")
	require.NoError(t, err)
	assert.False(t, allowed)
}

func TestCheck_EmptyPrincipalDenied(t *testing.T) {
	e, _ := newEnforcer(t, staticRoles{}, policystore.NewMemory())
	ctx := context.Background()

	allowed, err := e.Check(ctx, "", "tenantA", "pages", "read")
	require.NoError(t, err)
	assert.False(t, allowed)

	allowed, err = e.Check(ctx, "u1", "", "pages", "read")
	require.NoError(t, err)
	assert.False(t, allowed)
}

func TestCheck_ServesFromDecisionCache(t *testing.T) {
	policies := policystore.NewMemory()
	tuple := authz.PolicyTuple{SubjectRole: "editor", Domain: "tenantA", Resource: "pages", Action: "write"}
	seedPolicies(t, policies, tuple)
	roles := staticRoles{"tenantA/u1": {"editor"}}
	e, _ := newEnforcer(t, roles, policies)
	ctx := context.Background()

	allowed, err := e.Check(ctx, "u1", "tenantA", "pages", "write")
	require.NoError(t, err)
	require.True(t, allowed)

	// Delete the tuple behind the cache's back. The cached decision keeps
	// serving allow until it is invalidated or expires.
	require.NoError(t, policies.Revoke(ctx, tuple))

	allowed, err = e.Check(ctx, "u1", "tenantA", "pages", "write")
	require.NoError(t, err)
	assert.True(t, allowed, "decision should come from cache")
}

func TestInvalidateDomain_RevertsCachedAllow(t *testing.T) {
	policies := policystore.NewMemory()
	seedPolicies(t, policies, authz.PolicyTuple{SubjectRole: "editor", Domain: "tenantA", Resource: "pages", Action: "write"})
	roles := staticRoles{"tenantA/u1": {"editor"}}
	e, _ := newEnforcer(t, roles, policies)
	ctx := context.Background()

	allowed, err := e.Check(ctx, "u1", "tenantA", "pages", "write")
	require.NoError(t, err)
	require.True(t, allowed)

	require.NoError(t, e.InvalidateDomain(ctx, "tenantA"))

	allowed, err = e.Check(ctx, "u1", "tenantA", "pages", "write")
	require.NoError(t, err)
	assert.False(t, allowed, "tuples and cached decisions are both gone")
}

func TestRevokeTuple_EvictsCachedDecisions(t *testing.T) {
	policies := policystore.NewMemory()
	tuple := authz.PolicyTuple{SubjectRole: "editor", Domain: "tenantA", Resource: "pages", Action: "write"}
	seedPolicies(t, policies, tuple)
	roles := staticRoles{"tenantA/u1": {"editor"}}
	e, _ := newEnforcer(t, roles, policies)
	ctx := context.Background()

	allowed, err := e.Check(ctx, "u1", "tenantA", "pages", "write")
	require.NoError(t, err)
	require.True(t, allowed)

	require.NoError(t, e.RevokeTuple(ctx, tuple))

	allowed, err = e.Check(ctx, "u1", "tenantA", "pages", "write")
	require.NoError(t, err)
	assert.False(t, allowed)
}

func TestGrant_BecomesVisibleImmediately(t *testing.T) {
	policies := policystore.NewMemory()
	roles := staticRoles{"tenantA/u1": {"editor"}}
	e, _ := newEnforcer(t, roles, policies)
	ctx := context.Background()

	allowed, err := e.Check(ctx, "u1", "tenantA", "pages", "write")
	require.NoError(t, err)
	require.False(t, allowed)

	require.NoError(t, e.Grant(ctx, authz.PolicyTuple{SubjectRole: "editor", Domain: "tenantA", Resource: "pages", Action: "write"}))

	allowed, err = e.Check(ctx, "u1", "tenantA", "pages", "write")
	require.NoError(t, err)
	assert.True(t, allowed, "grant invalidates the cached deny")
}

func TestCheck_PolicyStoreUnavailable_FailsClosed(t *testing.T) {
	ctrl := gomock.NewController(t)
	policies := mocks.NewMockPolicyStore(ctrl)
	policies.EXPECT().
		TuplesForRoles(gomock.Any(), "tenantA", []string{"editor"}).
		Return(nil, errors.New("connection refused"))

	roles := staticRoles{"tenantA/u1": {"editor"}}
	e, _ := newEnforcer(t, roles, policies)

	allowed, err := e.Check(context.Background(), "u1", "tenantA", "pages", "write")
	assert.False(t, allowed)
	require.Error(t, err)
	assert.True(t, dErrors.Is(err, dErrors.CodePolicyUnavailable))
}

// erroringRoles simulates an unreachable role source.
type erroringRoles struct{}

func (erroringRoles) RolesOf(context.Context, string, string) ([]string, error) {
	return nil, errors.New("role backend down")
}

func TestCheck_RoleSourceUnavailable_FailsClosed(t *testing.T) {
	e, _ := newEnforcer(t, erroringRoles{}, policystore.NewMemory())

	allowed, err := e.Check(context.Background(), "u1", "tenantA", "pages", "write")
	assert.False(t, allowed)
	require.Error(t, err)
	assert.True(t, dErrors.Is(err, dErrors.CodePolicyUnavailable))
}

func TestCheck_CacheErrorTreatedAsMiss(t *testing.T) {
	ctrl := gomock.NewController(t)
	cache := mocks.NewMockDecisionCache(ctrl)
	cache.EXPECT().
		Get(gomock.Any(), "tenantA", "u1", "pages", "write").
		Return(false, false, errors.New("cache unreachable"))
	cache.EXPECT().
		Set(gomock.Any(), "tenantA", "u1", "pages", "write", true, gomock.Any()).
		Return(errors.New("cache unreachable"))

	policies := policystore.NewMemory()
	seedPolicies(t, policies, authz.PolicyTuple{SubjectRole: "editor", Domain: "tenantA", Resource: "pages", Action: "write"})
	roles := staticRoles{"tenantA/u1": {"editor"}}
	e := authz.NewEnforcer(roles, policies, cache, nil, logger.New(), nil, authz.Config{})

	allowed, err := e.Check(context.Background(), "u1", "tenantA", "pages", "write")
	require.NoError(t, err, "cache trouble must not fail the check")
	assert.True(t, allowed)
}

func TestInvalidatePrincipal_EvictsDecisionsAndRoles(t *testing.T) {
	ctrl := gomock.NewController(t)
	roleInv := mocks.NewMockRoleCacheInvalidator(ctrl)
	roleInv.EXPECT().InvalidateRoles(gomock.Any(), "tenantA", "u1").Return(nil)

	policies := policystore.NewMemory()
	seedPolicies(t, policies, authz.PolicyTuple{SubjectRole: "editor", Domain: "tenantA", Resource: "pages", Action: "write"})
	roles := staticRoles{"tenantA/u1": {"editor"}}
	decisions := decisionstore.NewMemory()
	e := authz.NewEnforcer(roles, policies, decisions, roleInv, logger.New(), nil, authz.Config{})
	ctx := context.Background()

	_, err := e.Check(ctx, "u1", "tenantA", "pages", "write")
	require.NoError(t, err)

	require.NoError(t, e.InvalidatePrincipal(ctx, "u1", "tenantA"))

	_, found, err := decisions.Get(ctx, "tenantA", "u1", "pages", "write")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestDecisionCacheExpiry(t *testing.T) {
	policies := policystore.NewMemory()
	tuple := authz.PolicyTuple{SubjectRole: "editor", Domain: "tenantA", Resource: "pages", Action: "write"}
	seedPolicies(t, policies, tuple)
	roles := staticRoles{"tenantA/u1": {"editor"}}
	decisions := decisionstore.NewMemory()
	e := authz.NewEnforcer(roles, policies, decisions, nil, logger.New(), nil, authz.Config{DecisionTTL: 10 * time.Millisecond})
	ctx := context.Background()

	allowed, err := e.Check(ctx, "u1", "tenantA", "pages", "write")
	require.NoError(t, err)
	require.True(t, allowed)

	require.NoError(t, policies.Revoke(ctx, tuple))
	time.Sleep(20 * time.Millisecond)

	allowed, err = e.Check(ctx, "u1", "tenantA", "pages", "write")
	require.NoError(t, err)
	assert.False(t, allowed, "stale allow must not outlive the decision TTL")
}
