// @title        Newsroom API
// @version      1.0
// @description  Session, authorization and rate limiting layer of the school newspaper blog.
// @BasePath     /
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/campuspress/newsroom/internal/api"
	"github.com/campuspress/newsroom/internal/api/metrics"
	"github.com/campuspress/newsroom/internal/core/domain"
	"github.com/campuspress/newsroom/internal/core/ports"
	"github.com/campuspress/newsroom/internal/core/service"
	mongodb "github.com/campuspress/newsroom/internal/infrastructure/db/mongo"
	"github.com/campuspress/newsroom/internal/infrastructure/db/postgres"
	redisdb "github.com/campuspress/newsroom/internal/infrastructure/db/redis"
	"github.com/campuspress/newsroom/internal/infrastructure/http/handlers"
	"github.com/campuspress/newsroom/internal/pkg/cache"
	"github.com/campuspress/newsroom/internal/pkg/config"
	"github.com/campuspress/newsroom/internal/pkg/ratelimit"
	"github.com/campuspress/newsroom/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg := config.Load()
	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.LogPretty,
		Service: "newsroom",
		Env:     cfg.Env,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}

// backend is the user and post storage selected by STORE_DRIVER.
type backend struct {
	name  string
	users ports.UserRepository
	posts ports.PostRepository
	probe interface {
		ports.DependencyProbe
		Ping(ctx context.Context) error
	}
	close func(ctx context.Context)
}

func openBackend(ctx context.Context, cfg *config.Config) (*backend, error) {
	switch cfg.Store.Driver {
	case config.StorePostgres:
		pool, err := postgres.Connect(ctx, postgres.Config{DSN: cfg.Postgres.DSN})
		if err != nil {
			return nil, err
		}
		if err := postgres.EnsureSchema(ctx, pool); err != nil {
			pool.Close()
			return nil, err
		}
		return &backend{
			name:  "postgres",
			users: postgres.NewUserRepository(pool),
			posts: postgres.NewPostRepository(pool),
			probe: postgres.NewProbe(pool),
			close: func(context.Context) { pool.Close() },
		}, nil
	default:
		client, db, err := mongodb.Connect(ctx, mongodb.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
		if err != nil {
			return nil, err
		}
		if err := mongodb.EnsureIndexes(ctx, db); err != nil {
			_ = client.Disconnect(ctx)
			return nil, err
		}
		return &backend{
			name:  "mongodb",
			users: mongodb.NewUserRepository(db),
			posts: mongodb.NewPostRepository(db),
			probe: mongodb.NewProbe(client),
			close: func(ctx context.Context) { _ = client.Disconnect(ctx) },
		}, nil
	}
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	store, err := openBackend(ctx, cfg)
	if err != nil {
		return fmt.Errorf("open %s store: %w", cfg.Store.Driver, err)
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		store.close(closeCtx)
	}()
	log.Info().Str("driver", store.name).Msg("store connected")

	checks := map[string]handlers.Check{store.name: store.probe.Ping}

	// --- Rate limit counters ---
	var counters ratelimit.Store
	switch cfg.RateLimit.Backend {
	case config.RateLimitRedis:
		rdb, err := redisdb.Connect(ctx, redisdb.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			TLS:      cfg.Redis.TLS,
		})
		if err != nil {
			return fmt.Errorf("connect redis: %w", err)
		}
		defer rdb.Close()
		counters = redisdb.NewRateLimitStore(rdb)
		checks["redis"] = redisdb.NewProbe(rdb).Ping
	default:
		mem := ratelimit.NewMemoryStore(time.Now)
		cache.StartSweeper(ctx, "ratelimit", mem, cfg.Cache.SweepInterval, logger.Component("ratelimit"))
		counters = mem
	}

	newLimiter := func(limit int, window time.Duration) (*ratelimit.Limiter, error) {
		return ratelimit.New(counters, ratelimit.Policy{Limit: limit, Window: window})
	}
	rl := cfg.RateLimit
	loginLimiter, err := newLimiter(rl.LoginLimit, rl.LoginWindow)
	if err != nil {
		return err
	}
	registerLimiter, err := newLimiter(rl.RegisterLimit, rl.RegisterWindow)
	if err != nil {
		return err
	}
	authLimiter, err := newLimiter(rl.AuthLimit, rl.AuthWindow)
	if err != nil {
		return err
	}

	// --- Sessions ---
	userCache := cache.New[*domain.User](cache.Options{MaxSize: cfg.Cache.MaxSize})
	cache.StartSweeper(ctx, "users", userCache, cfg.Cache.SweepInterval, logger.Component("cache"))
	if err := metrics.RegisterCache(prometheus.DefaultRegisterer, "users", userCache.Stats); err != nil {
		return fmt.Errorf("register cache metrics: %w", err)
	}
	users := service.NewCachedUserLookup(store.users, userCache, cfg.Cache.DefaultTTL)

	tokens, err := service.NewTokenService(service.TokenConfig{
		Secret:   cfg.Session.Secret,
		Duration: cfg.Session.Duration(),
		Secure:   cfg.IsProduction(),
	})
	if err != nil {
		return err
	}
	resolver := service.NewSessionResolver(tokens, users, store.probe, cfg.Store.LookupTimeout, logger.Component("session"))

	// --- Services ---
	authz := service.NewAuthorizer(store.posts, func(action service.Action, d service.Decision) {
		metrics.AuthorizationDecisionsTotal.WithLabelValues(string(action), string(d.Reason)).Inc()
	}, logger.Component("authz"))
	authService := service.NewAuthService(store.users)
	postService := service.NewPostService(store.posts, authz, logger.Component("posts"))

	e := api.NewRouter(api.Deps{
		Logger:      log,
		Sessions:    tokens,
		Resolver:    resolver,
		AuthService: authService,
		PostService: postService,
		CacheStats:  userCache.Stats,
		Limiters: api.Limiters{
			Login:    loginLimiter,
			Register: registerLimiter,
			Auth:     authLimiter,
		},
		GlobalPerMinute: rl.GlobalPerMinute,
		Production:      cfg.IsProduction(),
		ReadinessChecks: checks,
	})

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("server starting")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}
