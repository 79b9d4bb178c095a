package httptransport

import (
	"context"
	"encoding/json"
	"log/slog"
	"net"
	"net/http"
	"strings"

	chimw "github.com/go-chi/chi/v5/middleware"

	"trustcore/internal/token"
	dErrors "trustcore/pkg/domainerrors"
)

// TokenService is the token lifecycle port consumed by the boundary.
type TokenService interface {
	Issue(ctx context.Context, principal token.Principal, meta token.RequestMeta) (*token.TokenPair, error)
	Rotate(ctx context.Context, refreshToken string, meta token.RequestMeta) (*token.TokenPair, error)
	Revoke(ctx context.Context, accessToken string) error
}

// Authenticator proves a login credential and resolves the principal.
// Credential verification itself (passwords, SSO, ...) lives outside this
// core.
type Authenticator interface {
	Authenticate(ctx context.Context, username, password, domain string) (token.Principal, error)
}

// AuthHandler is the thin HTTP layer over the token lifecycle. It delegates to
// domain services without embedding business logic.
type AuthHandler struct {
	tokens TokenService
	authn  Authenticator
	logger *slog.Logger
}

func NewAuthHandler(tokens TokenService, authn Authenticator, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{tokens: tokens, authn: authn, logger: logger}
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Domain   string `json:"domain"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

func (h *AuthHandler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	if req.Username == "" || req.Domain == "" {
		writeError(w, dErrors.New(dErrors.CodeBadRequest, "username and domain are required"))
		return
	}

	principal, err := h.authn.Authenticate(r.Context(), req.Username, req.Password, req.Domain)
	if err != nil {
		writeError(w, err)
		return
	}

	pair, err := h.tokens.Issue(r.Context(), principal, requestMeta(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, pair)
}

func (h *AuthHandler) handleRefresh(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	pair, err := h.tokens.Rotate(r.Context(), req.RefreshToken, requestMeta(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, pair)
}

func (h *AuthHandler) handleLogout(w http.ResponseWriter, r *http.Request) {
	raw, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
	if !ok {
		writeError(w, dErrors.New(dErrors.CodeTokenInvalid, "missing bearer token"))
		return
	}
	if err := h.tokens.Revoke(r.Context(), raw); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func requestMeta(r *http.Request) token.RequestMeta {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	return token.RequestMeta{
		IP:        host,
		RequestID: chimw.GetReqID(r.Context()),
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// writeError translates coded domain errors into stable HTTP responses.
func writeError(w http.ResponseWriter, err error) {
	code := dErrors.CodeOf(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(dErrors.HTTPStatus(code))
	_ = json.NewEncoder(w).Encode(map[string]string{"error": string(code)})
}
