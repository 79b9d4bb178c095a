package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"

	"trustcore/internal/audit"
)

// Permission is a statically declared (resource, action) pair attached to a
// route at startup. There is no runtime reflection; each protected route names
// its permission when the router is assembled.
type Permission struct {
	Resource string
	Action   string
}

// PermissionChecker answers access decisions for the authenticated principal.
type PermissionChecker interface {
	Check(ctx context.Context, uid, domain, resource, action string) (bool, error)
}

// AuditPublisher receives operation events after each permission-checked call.
type AuditPublisher interface {
	Publish(event audit.Event)
}

// RequirePermission enforces the permission for the principal stored by
// RequireAuth, then records an operation event once the handler returns. A
// missing principal or a failed check answers 403; errors from the enforcer
// already fail closed.
func RequirePermission(checker PermissionChecker, publisher AuditPublisher, logger *slog.Logger, perm Permission) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			principal, ok := GetPrincipal(ctx)
			if !ok {
				writeForbidden(w)
				return
			}

			allowed, err := checker.Check(ctx, principal.UID, principal.Domain, perm.Resource, perm.Action)
			if err != nil {
				logger.WarnContext(ctx, "authorization check failed closed",
					"resource", perm.Resource,
					"action", perm.Action,
					"error", err,
				)
			}
			if !allowed {
				publisher.Publish(audit.NewOperationEvent(
					principal.UID, principal.Domain, audit.OutcomeDenied,
					r.Method, perm.Resource, perm.Action, 0, chimw.GetReqID(ctx),
				))
				writeForbidden(w)
				return
			}

			start := time.Now()
			next.ServeHTTP(w, r)

			publisher.Publish(audit.NewOperationEvent(
				principal.UID, principal.Domain, audit.OutcomeSuccess,
				r.Method, perm.Resource, perm.Action, time.Since(start), chimw.GetReqID(ctx),
			))
		})
	}
}

func writeForbidden(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusForbidden)
	_, _ = w.Write([]byte(`{"error":"forbidden"}`))
}
