package token

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"trustcore/internal/audit"
	"trustcore/internal/jwttoken"
	"trustcore/internal/token/metrics"
	dErrors "trustcore/pkg/domainerrors"
	"trustcore/pkg/sentinel"
)

// Publisher is the audit pipeline port. Publish must not block.
type Publisher interface {
	Publish(event audit.Event)
}

// RequestMeta carries boundary-supplied context for audit enrichment.
type RequestMeta struct {
	IP        string
	RequestID string
}

// Config holds the lifecycle parameters for issued token pairs.
type Config struct {
	AccessTTL  time.Duration
	RefreshTTL time.Duration
	// CacheTimeout caps blacklist lookups on the verification hot path.
	CacheTimeout time.Duration
}

// Service issues, verifies, rotates, and revokes token pairs. All shared state
// lives in the session store and blacklist; the service itself is stateless
// and safe for unlimited concurrent use.
type Service struct {
	jwt       *jwttoken.Service
	sessions  SessionStore
	blacklist Blacklist
	audit     Publisher
	logger    *slog.Logger
	metrics   *metrics.Metrics
	cfg       Config
	tracer    trace.Tracer
}

// NewService wires the token lifecycle manager.
func NewService(jwt *jwttoken.Service, sessions SessionStore, blacklist Blacklist, publisher Publisher, logger *slog.Logger, m *metrics.Metrics, cfg Config) *Service {
	if cfg.AccessTTL <= 0 {
		cfg.AccessTTL = 15 * time.Minute
	}
	if cfg.RefreshTTL <= 0 {
		cfg.RefreshTTL = 7 * 24 * time.Hour
	}
	if cfg.CacheTimeout <= 0 {
		cfg.CacheTimeout = 250 * time.Millisecond
	}
	return &Service{
		jwt:       jwt,
		sessions:  sessions,
		blacklist: blacklist,
		audit:     publisher,
		logger:    logger,
		metrics:   m,
		cfg:       cfg,
		tracer:    otel.Tracer("trustcore/token"),
	}
}

// Issue creates a fresh token pair for an authenticated principal and stores
// the backing session record. Emits a login event.
func (s *Service) Issue(ctx context.Context, principal Principal, meta RequestMeta) (*TokenPair, error) {
	if principal.UID == "" || principal.Domain == "" {
		return nil, dErrors.New(dErrors.CodeBadRequest, "principal uid and domain are required")
	}

	pair, err := s.mint(ctx, principal, 0)
	if err != nil {
		s.audit.Publish(audit.NewLoginEvent(principal.UID, principal.Username, principal.Domain, audit.OutcomeFailure, meta.IP, meta.RequestID))
		return nil, err
	}

	s.metrics.IncIssued()
	s.audit.Publish(audit.NewLoginEvent(principal.UID, principal.Username, principal.Domain, audit.OutcomeSuccess, meta.IP, meta.RequestID))
	return pair, nil
}

// VerifyAccess validates signature and expiry, then checks the blacklist. The
// blacklist lookup is bounded by the cache timeout and fails closed.
func (s *Service) VerifyAccess(ctx context.Context, accessToken string) (*Principal, error) {
	ctx, span := s.tracer.Start(ctx, "token.VerifyAccess")
	defer span.End()

	claims, err := s.jwt.ValidateToken(accessToken)
	if err != nil {
		if dErrors.Is(err, dErrors.CodeTokenExpired) {
			s.metrics.ObserveVerify("expired")
		} else {
			s.metrics.ObserveVerify("invalid")
		}
		return nil, err
	}

	cacheCtx, cancel := context.WithTimeout(ctx, s.cfg.CacheTimeout)
	defer cancel()

	revoked, err := s.blacklist.IsRevoked(cacheCtx, claims.ID)
	if err != nil {
		// Revocation state unreadable: fail closed rather than serve a
		// possibly revoked token.
		s.metrics.ObserveVerify("invalid")
		return nil, dErrors.Wrap(err, dErrors.CodeTokenInvalid, "revocation state unavailable")
	}
	if revoked {
		s.metrics.ObserveVerify("revoked")
		return nil, dErrors.New(dErrors.CodeTokenRevoked, "token has been revoked")
	}

	s.metrics.ObserveVerify("ok")
	return &Principal{UID: claims.UID, Username: claims.Username, Domain: claims.Domain}, nil
}

// Rotate exchanges a refresh token for a new pair. The session store consume
// is a single atomic operation, so of N racing rotations on one refresh token
// exactly one succeeds; the rest observe an absent record and fail as replay.
func (s *Service) Rotate(ctx context.Context, refreshToken string, meta RequestMeta) (*TokenPair, error) {
	if refreshToken == "" {
		return nil, dErrors.New(dErrors.CodeBadRequest, "refresh token is required")
	}

	rec, err := s.sessions.Consume(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, s.replayDetected(meta)
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to consume refresh token")
	}

	if rec.RotationCount >= MaxRotations {
		s.audit.Publish(audit.NewTokenRotationEvent(rec.UID, rec.Domain, audit.OutcomeFailure, "rotation limit exceeded"))
		return nil, dErrors.New(dErrors.CodeTokenInvalid, "rotation limit exceeded, re-authentication required")
	}

	pair, err := s.mint(ctx, rec.Principal(), rec.RotationCount+1)
	if err != nil {
		s.audit.Publish(audit.NewTokenRotationEvent(rec.UID, rec.Domain, audit.OutcomeFailure, "token generation failed"))
		return nil, err
	}

	s.metrics.IncRotated()
	s.audit.Publish(audit.NewTokenRotationEvent(rec.UID, rec.Domain, audit.OutcomeRotated, ""))
	return pair, nil
}

// replayDetected escalates a reused or unknown refresh token as a security
// signal. The principal is unknown at this point: the record that would have
// named it is gone.
func (s *Service) replayDetected(meta RequestMeta) error {
	s.metrics.IncReplays()
	s.logger.Warn("refresh token replay detected",
		"ip", meta.IP,
		"request_id", meta.RequestID,
	)
	event := audit.NewTokenRotationEvent("", "", audit.OutcomeReplayDetected, "unknown or already used refresh token")
	event.IP = meta.IP
	event.RequestID = meta.RequestID
	s.audit.Publish(event)
	return dErrors.New(dErrors.CodeRefreshReused, "refresh token already used")
}

// Revoke blacklists the access token for its remaining lifetime and deletes
// the session record it was issued with, so the paired refresh token can no
// longer rotate. Revoking an already blacklisted token is a no-op.
func (s *Service) Revoke(ctx context.Context, accessToken string) error {
	claims, err := s.jwt.ValidateToken(accessToken)
	if err != nil {
		return err
	}

	remaining := time.Until(claims.ExpiresAt.Time)
	if err := s.blacklist.Revoke(ctx, claims.ID, remaining); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to blacklist token")
	}

	// Tear down the session that issued this access token.
	ids, err := s.sessions.IDsByPrincipal(ctx, claims.Domain, claims.UID)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to list sessions")
	}
	for _, id := range ids {
		rec, err := s.sessions.Find(ctx, id)
		if err != nil {
			continue
		}
		if rec.AccessJTI == claims.ID {
			if err := s.sessions.Delete(ctx, id); err != nil {
				return dErrors.Wrap(err, dErrors.CodeInternal, "failed to delete session")
			}
		}
	}
	return nil
}

// RevokeAll tears down every active session of a principal in one sweep:
// the stored access token ids are blacklisted for a full access lifetime and
// the session records are deleted. This is the operator response to a replay
// signal; replay detection itself does not trigger it.
func (s *Service) RevokeAll(ctx context.Context, uid, domain string) error {
	ids, err := s.sessions.IDsByPrincipal(ctx, domain, uid)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to list sessions")
	}

	// Each marker lives exactly as long as the access token it blocks.
	ttls := make(map[string]time.Duration)
	for _, id := range ids {
		rec, err := s.sessions.Find(ctx, id)
		if err != nil {
			continue
		}
		if remaining := time.Until(rec.AccessExpiresAt); rec.AccessJTI != "" && remaining > 0 {
			ttls[rec.AccessJTI] = remaining
		}
		if err := s.sessions.Delete(ctx, id); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to delete session")
		}
	}

	if err := s.blacklist.RevokeMany(ctx, ttls); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to blacklist tokens")
	}

	event := audit.NewOperationEvent(uid, domain, audit.OutcomeSuccess, "", "sessions", "revoke_all", 0, "")
	event.Reason = fmt.Sprintf("%d sessions revoked", len(ids))
	s.audit.Publish(event)
	return nil
}

// mint generates the access/refresh pair and stores the new session record.
func (s *Service) mint(ctx context.Context, principal Principal, rotationCount int) (*TokenPair, error) {
	now := time.Now()

	accessToken, jti, err := s.jwt.GenerateAccessToken(principal.UID, principal.Username, principal.Domain, s.cfg.AccessTTL)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to sign access token")
	}

	refreshToken, err := newRefreshID()
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to generate refresh token")
	}

	rec := SessionRecord{
		UID:             principal.UID,
		Username:        principal.Username,
		Domain:          principal.Domain,
		IssuedAt:        now,
		RotationCount:   rotationCount,
		AccessJTI:       jti,
		AccessExpiresAt: now.Add(s.cfg.AccessTTL),
	}
	if err := s.sessions.Create(ctx, refreshToken, rec, s.cfg.RefreshTTL); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to store session record")
	}

	return &TokenPair{
		AccessToken:      accessToken,
		RefreshToken:     refreshToken,
		IssuedAt:         now,
		AccessExpiresAt:  now.Add(s.cfg.AccessTTL),
		RefreshExpiresAt: now.Add(s.cfg.RefreshTTL),
		Principal:        principal,
	}, nil
}

// newRefreshID returns an opaque, unguessable refresh token identifier.
func newRefreshID() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return "rt_" + base64.RawURLEncoding.EncodeToString(buf), nil
}
