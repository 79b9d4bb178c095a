package middleware_test

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trustcore/internal/audit"
	"trustcore/internal/platform/logger"
	"trustcore/internal/platform/middleware"
	"trustcore/internal/token"
	dErrors "trustcore/pkg/domainerrors"
	"trustcore/pkg/testutil"
)

var alice = token.Principal{UID: "u_alice", Username: "alice", Domain: "tenantA"}

// stubVerifier returns a fixed principal or error.
type stubVerifier struct {
	principal *token.Principal
	err       error
}

func (v stubVerifier) VerifyAccess(context.Context, string) (*token.Principal, error) {
	return v.principal, v.err
}

// stubChecker answers every check the same way.
type stubChecker struct {
	allowed bool
	err     error
}

func (c stubChecker) Check(context.Context, string, string, string, string) (bool, error) {
	return c.allowed, c.err
}

type eventRecorder struct {
	mu     sync.Mutex
	events []audit.Event
}

func (r *eventRecorder) Publish(event audit.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

func okHandler(invoked *bool) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		*invoked = true
		w.WriteHeader(http.StatusOK)
	})
}

func TestRequireAuth_MissingHeader(t *testing.T) {
	var invoked bool
	handler := middleware.RequireAuth(stubVerifier{principal: &alice}, logger.New())(okHandler(&invoked))

	rr := testutil.DoRequest(handler, testutil.NewRequest(t, http.MethodGet, "/pages"))

	testutil.AssertStatus(t, rr, http.StatusUnauthorized)
	assert.False(t, invoked)
}

func TestRequireAuth_InvalidToken(t *testing.T) {
	var invoked bool
	verifier := stubVerifier{err: dErrors.New(dErrors.CodeTokenExpired, "token expired")}
	handler := middleware.RequireAuth(verifier, logger.New())(okHandler(&invoked))

	req := testutil.NewRequest(t, http.MethodGet, "/pages")
	req.Header.Set("Authorization", "Bearer some-token")
	rr := testutil.DoRequest(handler, req)

	testutil.AssertStatus(t, rr, http.StatusUnauthorized)
	testutil.AssertJSONContains(t, rr, "error", "unauthorized")
	assert.False(t, invoked)
}

func TestRequireAuth_StoresPrincipal(t *testing.T) {
	var seen token.Principal
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		principal, ok := middleware.GetPrincipal(r.Context())
		require.True(t, ok)
		seen = principal
		w.WriteHeader(http.StatusOK)
	})
	handler := middleware.RequireAuth(stubVerifier{principal: &alice}, logger.New())(inner)

	req := testutil.NewRequest(t, http.MethodGet, "/pages")
	req.Header.Set("Authorization", "Bearer some-token")
	rr := testutil.DoRequest(handler, req)

	testutil.AssertStatus(t, rr, http.StatusOK)
	assert.Equal(t, alice, seen)
}

func TestRequirePermission_NoPrincipal(t *testing.T) {
	var invoked bool
	recorder := &eventRecorder{}
	handler := middleware.RequirePermission(stubChecker{allowed: true}, recorder, logger.New(),
		middleware.Permission{Resource: "pages", Action: "read"})(okHandler(&invoked))

	rr := testutil.DoRequest(handler, testutil.NewRequest(t, http.MethodGet, "/pages"))

	testutil.AssertStatus(t, rr, http.StatusForbidden)
	assert.False(t, invoked)
}

func TestRequirePermission_DeniedEmitsEvent(t *testing.T) {
	var invoked bool
	recorder := &eventRecorder{}
	handler := middleware.RequirePermission(stubChecker{allowed: false}, recorder, logger.New(),
		middleware.Permission{Resource: "pages", Action: "write"})(okHandler(&invoked))

	req := testutil.WithPrincipal(testutil.NewRequest(t, http.MethodPost, "/pages"), alice)
	rr := testutil.DoRequest(handler, req)

	testutil.AssertStatus(t, rr, http.StatusForbidden)
	assert.False(t, invoked)

	require.Len(t, recorder.events, 1)
	event := recorder.events[0]
	assert.Equal(t, audit.KindOperation, event.Kind)
	assert.Equal(t, audit.OutcomeDenied, event.Outcome)
	assert.Equal(t, alice.UID, event.UID)
	assert.Equal(t, "pages", event.Resource)
	assert.Equal(t, "write", event.Action)
}

func TestRequirePermission_AllowedRunsHandlerAndAudits(t *testing.T) {
	var invoked bool
	recorder := &eventRecorder{}
	handler := middleware.RequirePermission(stubChecker{allowed: true}, recorder, logger.New(),
		middleware.Permission{Resource: "pages", Action: "read"})(okHandler(&invoked))

	req := testutil.WithPrincipal(testutil.NewRequest(t, http.MethodGet, "/pages"), alice)
	rr := testutil.DoRequest(handler, req)

	testutil.AssertStatus(t, rr, http.StatusOK)
	assert.True(t, invoked)

	require.Len(t, recorder.events, 1)
	assert.Equal(t, audit.OutcomeSuccess, recorder.events[0].Outcome)
}

func TestRequirePermission_CheckerErrorFailsClosed(t *testing.T) {
	var invoked bool
	recorder := &eventRecorder{}
	checker := stubChecker{allowed: false, err: errors.New("policy store down")}
	handler := middleware.RequirePermission(checker, recorder, logger.New(),
		middleware.Permission{Resource: "pages", Action: "read"})(okHandler(&invoked))

	req := testutil.WithPrincipal(testutil.NewRequest(t, http.MethodGet, "/pages"), alice)
	rr := testutil.DoRequest(handler, req)

	testutil.AssertStatus(t, rr, http.StatusForbidden)
	assert.False(t, invoked)
}
