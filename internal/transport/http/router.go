package httptransport

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"trustcore/internal/platform/middleware"
)

// RouterDeps bundles what the router needs from bootstrap.
type RouterDeps struct {
	Auth      *AuthHandler
	Verifier  middleware.AccessVerifier
	Checker   middleware.PermissionChecker
	Publisher middleware.AuditPublisher
	Logger    *slog.Logger
}

// NewRouter wires the public endpoints. Protected routes declare their
// (resource, action) permission here, at startup, so the permission surface of
// the service is readable in one place.
func NewRouter(deps RouterDeps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)

	r.Post("/auth/login", deps.Auth.handleLogin)
	r.Post("/auth/refresh", deps.Auth.handleRefresh)

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth(deps.Verifier, deps.Logger))
		r.Post("/auth/logout", deps.Auth.handleLogout)

		protect := func(perm middleware.Permission) func(http.Handler) http.Handler {
			return middleware.RequirePermission(deps.Checker, deps.Publisher, deps.Logger, perm)
		}

		// Sample protected surface. Real deployments hang their resource
		// routes here with the same pattern.
		r.With(protect(middleware.Permission{Resource: "pages", Action: "read"})).
			Get("/pages", handleListPages)
		r.With(protect(middleware.Permission{Resource: "pages", Action: "write"})).
			Post("/pages", handleWritePage)
	})

	r.Handle("/metrics", promhttp.Handler())
	return r
}

func handleListPages(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"pages": []string{}})
}

func handleWritePage(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusAccepted)
}
