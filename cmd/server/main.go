package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"trustcore/internal/audit"
	auditmetrics "trustcore/internal/audit/metrics"
	auditmem "trustcore/internal/audit/store/memory"
	auditpg "trustcore/internal/audit/store/postgres"
	"trustcore/internal/authz"
	authzmetrics "trustcore/internal/authz/metrics"
	decisionstore "trustcore/internal/authz/store/decision"
	policystore "trustcore/internal/authz/store/policy"
	rolestore "trustcore/internal/authz/store/roles"
	"trustcore/internal/jwttoken"
	"trustcore/internal/platform/config"
	"trustcore/internal/platform/httpserver"
	"trustcore/internal/platform/kafka"
	"trustcore/internal/platform/logger"
	platformpg "trustcore/internal/platform/postgres"
	redisclient "trustcore/internal/platform/redis"
	"trustcore/internal/token"
	tokenmetrics "trustcore/internal/token/metrics"
	blackliststore "trustcore/internal/token/store/blacklist"
	sessionstore "trustcore/internal/token/store/session"
	httptransport "trustcore/internal/transport/http"
)

// main wires high-level dependencies and keeps the server lifecycle small.
// Business logic lives in the internal service packages.
func main() {
	log := logger.New()

	cfg, err := config.Load()
	if err != nil {
		log.Error("config load failed", "error", err)
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	rdb, err := redisclient.New(cfg.Redis)
	if err != nil {
		log.Error("redis connect failed", "error", err)
		return
	}
	defer rdb.Close()

	// Audit pipeline and sinks.
	pipeline := audit.NewPipeline(cfg.AuditQueueSize, log, auditmetrics.New())
	pipeline.OnEvent(audit.NewSlogSink(log).Handle)
	if cfg.Postgres.AuditURL != "" {
		db, err := platformpg.OpenDB(ctx, cfg.Postgres.AuditURL)
		if err != nil {
			log.Error("audit store connect failed", "error", err)
			return
		}
		defer db.Close()
		pipeline.OnEvent(auditpg.New(db).Append)
	} else {
		// No durable sink configured; keep a volatile trail for local runs.
		log.Warn("AUDIT_DATABASE_URL not set, audit trail is in-memory only")
		pipeline.OnEvent(auditmem.New().Append)
	}
	if len(cfg.Kafka.Brokers) > 0 {
		producer, err := kafka.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.AuditTopic, log)
		if err != nil {
			log.Error("kafka connect failed", "error", err)
			return
		}
		defer producer.Close()
		pipeline.OnEvent(audit.NewKafkaSink(producer).Handle)
	}

	// Token lifecycle.
	signer := jwttoken.NewService(cfg.JWTSigningKey, cfg.JWTIssuer, cfg.JWTAudience)
	tokens := token.NewService(
		signer,
		sessionstore.NewRedis(rdb.Client),
		blackliststore.NewRedis(rdb.Client),
		pipeline,
		log,
		tokenmetrics.New(),
		token.Config{
			AccessTTL:    cfg.AccessTokenTTL,
			RefreshTTL:   cfg.RefreshTokenTTL,
			CacheTimeout: cfg.CacheTimeout,
		},
	)

	// Authorization enforcer. Without a policy database the enforcer runs on
	// an empty in-memory store, which denies everything.
	var policies authz.PolicyStore = policystore.NewMemory()
	var roleSource authz.RoleSource = emptyRoleSource{}
	if cfg.Postgres.PolicyURL != "" {
		pool, err := platformpg.NewPool(ctx, cfg.Postgres.PolicyURL)
		if err != nil {
			log.Error("policy store connect failed", "error", err)
			return
		}
		defer pool.Close()
		policies = policystore.NewPostgres(pool)
		roleSource = rolestore.NewPostgres(pool)
	} else {
		log.Warn("POLICY_DATABASE_URL not set, all authorization checks deny")
	}
	cachedRoles := rolestore.NewRedisCachedSource(rdb.Client, roleSource, cfg.RoleCacheTTL)
	enforcer := authz.NewEnforcer(
		cachedRoles,
		policies,
		decisionstore.NewRedis(rdb.Client),
		cachedRoles,
		log,
		authzmetrics.New(),
		authz.Config{DecisionTTL: cfg.DecisionCacheTTL, CacheTimeout: cfg.CacheTimeout},
	)

	router := httptransport.NewRouter(httptransport.RouterDeps{
		Auth:      httptransport.NewAuthHandler(tokens, devAuthenticator{}, log),
		Verifier:  tokens,
		Checker:   enforcer,
		Publisher: pipeline,
		Logger:    log,
	})
	srv := httpserver.New(cfg.Addr, router)

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := pipeline.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		log.Info("starting trustcore", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error("server exited with error", "error", err)
	}
}

// devAuthenticator is the local-development identity stub. Production
// deployments replace it with the adapter for their identity provider.
type devAuthenticator struct{}

func (devAuthenticator) Authenticate(_ context.Context, username, _, domain string) (token.Principal, error) {
	return token.Principal{
		UID:      "u_" + username,
		Username: username,
		Domain:   domain,
	}, nil
}

// emptyRoleSource resolves no roles; used when no policy database is wired.
type emptyRoleSource struct{}

func (emptyRoleSource) RolesOf(context.Context, string, string) ([]string, error) {
	return nil, nil
}
