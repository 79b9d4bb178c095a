package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	chimw "github.com/go-chi/chi/v5/middleware"

	"trustcore/internal/token"
	dErrors "trustcore/pkg/domainerrors"
)

// AccessVerifier validates bearer tokens into principals.
type AccessVerifier interface {
	VerifyAccess(ctx context.Context, accessToken string) (*token.Principal, error)
}

type contextKeyPrincipal struct{}

// ContextKeyPrincipal is exported for use in handlers.
var ContextKeyPrincipal = contextKeyPrincipal{}

// GetPrincipal retrieves the authenticated principal from the context.
func GetPrincipal(ctx context.Context) (token.Principal, bool) {
	p, ok := ctx.Value(ContextKeyPrincipal).(token.Principal)
	return p, ok
}

// RequireAuth extracts the bearer token, verifies it, and stores the principal
// in the request context. Expired, invalid and revoked tokens all answer 401.
func RequireAuth(verifier AccessVerifier, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			authHeader := r.Header.Get("Authorization")
			const bearerPrefix = "Bearer "
			raw, ok := strings.CutPrefix(authHeader, bearerPrefix)
			if !ok {
				logger.WarnContext(ctx, "unauthorized access - missing token",
					"request_id", chimw.GetReqID(ctx),
				)
				writeUnauthorized(w, "Missing or invalid Authorization header")
				return
			}

			principal, err := verifier.VerifyAccess(ctx, raw)
			if err != nil {
				logger.WarnContext(ctx, "unauthorized access - invalid token",
					"code", dErrors.CodeOf(err),
					"request_id", chimw.GetReqID(ctx),
				)
				writeUnauthorized(w, "Invalid or expired token")
				return
			}

			ctx = context.WithValue(ctx, ContextKeyPrincipal, *principal)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func writeUnauthorized(w http.ResponseWriter, description string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"error":"unauthorized","error_description":"` + description + `"}`))
}
