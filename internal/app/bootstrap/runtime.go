package bootstrap

import (
	"context"
	"crypto/tls"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"

	"github.com/wolfman30/booksite-platform/internal/appointments"
	"github.com/wolfman30/booksite-platform/internal/booking"
	"github.com/wolfman30/booksite-platform/internal/catalog"
	appconfig "github.com/wolfman30/booksite-platform/internal/config"
	"github.com/wolfman30/booksite-platform/internal/notify"
	"github.com/wolfman30/booksite-platform/internal/observability/metrics"
	"github.com/wolfman30/booksite-platform/internal/storeconfig"
	"github.com/wolfman30/booksite-platform/internal/wizard"
	"github.com/wolfman30/booksite-platform/pkg/logging"
)

// BuildRedisClient returns a configured Redis client or nil when disabled.
// When verify is true, a ping is issued and failures return nil.
func BuildRedisClient(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger, verify bool) *redis.Client {
	if cfg == nil || strings.TrimSpace(cfg.RedisAddr) == "" {
		return nil
	}
	if logger == nil {
		logger = logging.Default()
	}
	if ctx == nil {
		ctx = context.Background()
	}

	redisOptions := &redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	}
	if cfg.RedisTLS {
		redisOptions.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	client := redis.NewClient(redisOptions)
	if !verify {
		return client
	}
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn("redis not available", "error", err)
		_ = client.Close()
		return nil
	}
	return client
}

// BuildPostgresPool opens a pgx pool, or returns nil when no DATABASE_URL is
// configured.
func BuildPostgresPool(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger) (*pgxpool.Pool, error) {
	if cfg == nil || strings.TrimSpace(cfg.DatabaseURL) == "" {
		return nil, nil
	}
	if logger == nil {
		logger = logging.Default()
	}
	if ctx == nil {
		ctx = context.Background()
	}
	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("bootstrap: open postgres: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("bootstrap: ping postgres: %w", err)
	}
	logger.Info("postgres connected")
	return pool, nil
}

// BuildLedger picks the appointment ledger: Postgres when a pool exists,
// process memory otherwise, wrapped in the Redis snapshot cache when Redis
// is available.
func BuildLedger(pool *pgxpool.Pool, redisClient *redis.Client, cfg *appconfig.Config, logger *logging.Logger) appointments.Ledger {
	if logger == nil {
		logger = logging.Default()
	}
	var ledger appointments.Ledger
	if pool != nil {
		ledger = appointments.NewPostgresLedger(pool)
	} else {
		logger.Warn("no database configured; appointments are kept in memory")
		ledger = appointments.NewInMemoryLedger()
	}
	if redisClient == nil {
		return ledger
	}
	var ttl time.Duration
	if cfg != nil {
		ttl = cfg.LedgerCacheTTL
	}
	return appointments.NewCachedLedger(ledger, redisClient, ttl, logger)
}

// BuildCatalog returns the Postgres catalog when a pool exists, or an empty
// in-memory one.
func BuildCatalog(pool *pgxpool.Pool) catalog.Catalog {
	if pool == nil {
		return catalog.NewInMemoryCatalog()
	}
	return catalog.NewPostgresCatalog(pool)
}

// BuildConfigStore returns the Redis-backed store config store, or nil when
// Redis is unavailable.
func BuildConfigStore(redisClient *redis.Client, cfg *appconfig.Config) *storeconfig.Store {
	if redisClient == nil {
		return nil
	}
	store := storeconfig.NewStore(redisClient, defaultTimezone(cfg))
	if cfg != nil {
		store.WithDefaultHorizon(cfg.BookingHorizonDays)
	}
	return store
}

// Runtime is the set of shared services the API binary serves.
type Runtime struct {
	Pool        *pgxpool.Pool
	Redis       *redis.Client
	Ledger      appointments.Ledger
	Catalog     catalog.Catalog
	Configs     storeconfig.Provider
	ConfigStore *storeconfig.Store
	Email       notify.EmailSender
	Metrics     *metrics.BookingMetrics
	Submitter   *booking.Submitter
	Wizards     *wizard.Registry
}

// BuildRuntime wires the booking services from cfg. Postgres and Redis are
// optional; without them the runtime falls back to in-memory stores.
func BuildRuntime(ctx context.Context, cfg *appconfig.Config, reg prometheus.Registerer, logger *logging.Logger) (*Runtime, error) {
	if cfg == nil {
		return nil, fmt.Errorf("bootstrap: config is required")
	}
	if logger == nil {
		logger = logging.Default()
	}

	email, err := BuildEmailSender(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	pool, err := BuildPostgresPool(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	rt := &Runtime{
		Pool:    pool,
		Redis:   BuildRedisClient(ctx, cfg, logger, true),
		Metrics: metrics.NewBookingMetrics(reg),
		Email:   email,
	}
	rt.Ledger = BuildLedger(pool, rt.Redis, cfg, logger)
	rt.Catalog = BuildCatalog(pool)
	rt.ConfigStore = BuildConfigStore(rt.Redis, cfg)
	if rt.ConfigStore != nil {
		rt.Configs = rt.ConfigStore
	} else {
		logger.Warn("redis not configured; stores use the default configuration")
		rt.Configs = storeconfig.StaticProvider{}
	}
	rt.Submitter = booking.NewSubmitter(rt.Ledger, rt.Email, rt.Metrics, logger)
	rt.Wizards = wizard.NewRegistry(wizard.Deps{
		Catalog:   rt.Catalog,
		Ledger:    rt.Ledger,
		Configs:   rt.Configs,
		Submitter: rt.Submitter,
		Metrics:   rt.Metrics,
		Logger:    logger,
	}, cfg.WizardSessionTTL)
	return rt, nil
}

// Close releases the runtime's connections.
func (rt *Runtime) Close() {
	if rt == nil {
		return
	}
	if rt.Redis != nil {
		_ = rt.Redis.Close()
	}
	if rt.Pool != nil {
		rt.Pool.Close()
	}
}

func defaultTimezone(cfg *appconfig.Config) string {
	if cfg == nil || strings.TrimSpace(cfg.DefaultTimezone) == "" {
		return "UTC"
	}
	return cfg.DefaultTimezone
}
