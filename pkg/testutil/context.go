package testutil

import (
	"context"
	"net/http"

	"trustcore/internal/platform/middleware"
	"trustcore/internal/token"
)

// WithPrincipal stores an authenticated principal on the request context.
// This simulates what the auth middleware would do for authenticated requests.
func WithPrincipal(req *http.Request, principal token.Principal) *http.Request {
	ctx := context.WithValue(req.Context(), middleware.ContextKeyPrincipal, principal)
	return req.WithContext(ctx)
}
