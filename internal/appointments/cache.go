package appointments

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/wolfman30/booksite-platform/pkg/logging"
)

var ledgerTracer = otel.Tracer("booksite.internal.appointments")

// ErrStatusUpdatesUnsupported is returned when the wrapped ledger cannot change statuses.
var ErrStatusUpdatesUnsupported = errors.New("ledger does not support status updates")

// CachedLedger keeps a Redis copy of each store's ledger snapshot. A per-store
// generation counter is bumped on every write made through it; a cached
// snapshot is only served while its recorded generation matches the counter.
// Writes made behind its back are picked up when the TTL expires or when
// Invalidate is called.
type CachedLedger struct {
	inner  Ledger
	redis  *redis.Client
	ttl    time.Duration
	logger *logging.Logger
}

type cachedSnapshot struct {
	CacheGeneration int64    `json:"cache_generation"`
	Snapshot        Snapshot `json:"snapshot"`
}

// NewCachedLedger wraps inner with a Redis snapshot cache.
func NewCachedLedger(inner Ledger, client *redis.Client, ttl time.Duration, logger *logging.Logger) *CachedLedger {
	if inner == nil {
		panic("appointments: inner ledger required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	if ttl <= 0 {
		ttl = 2 * time.Minute
	}
	return &CachedLedger{inner: inner, redis: client, ttl: ttl, logger: logger}
}

func (c *CachedLedger) generationKey(storeID string) string {
	return fmt.Sprintf("ledger:gen:%s", storeID)
}

func (c *CachedLedger) snapshotKey(storeID string) string {
	return fmt.Sprintf("ledger:snapshot:%s", storeID)
}

// List serves the cached snapshot when it is current and refreshes it otherwise.
// Redis failures degrade to reading the wrapped ledger directly.
func (c *CachedLedger) List(ctx context.Context, storeID string) (*Snapshot, error) {
	ctx, span := ledgerTracer.Start(ctx, "appointments.list", trace.WithAttributes(
		attribute.String("booksite.store_id", storeID),
	))
	defer span.End()

	gen, err := c.generation(ctx, storeID)
	if err != nil {
		c.logger.Warn("ledger cache unavailable", "store_id", storeID, "error", err)
		return c.inner.List(ctx, storeID)
	}

	if data, err := c.redis.Get(ctx, c.snapshotKey(storeID)).Bytes(); err == nil {
		var cached cachedSnapshot
		if err := json.Unmarshal(data, &cached); err == nil && cached.CacheGeneration == gen {
			span.SetAttributes(attribute.Bool("booksite.cache_hit", true))
			return &cached.Snapshot, nil
		}
	} else if !errors.Is(err, redis.Nil) {
		c.logger.Warn("ledger cache read failed", "store_id", storeID, "error", err)
	}

	span.SetAttributes(attribute.Bool("booksite.cache_hit", false))
	snap, err := c.inner.List(ctx, storeID)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	payload, err := json.Marshal(cachedSnapshot{CacheGeneration: gen, Snapshot: *snap})
	if err == nil {
		err = c.redis.Set(ctx, c.snapshotKey(storeID), payload, c.ttl).Err()
	}
	if err != nil {
		c.logger.Warn("ledger cache write failed", "store_id", storeID, "error", err)
	}
	return snap, nil
}

// Create writes through to the wrapped ledger and invalidates the store's snapshot.
func (c *CachedLedger) Create(ctx context.Context, req *CreateRequest) (*Record, error) {
	ctx, span := ledgerTracer.Start(ctx, "appointments.create", trace.WithAttributes(
		attribute.String("booksite.store_id", req.StoreID),
	))
	defer span.End()

	rec, err := c.inner.Create(ctx, req)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	c.Invalidate(ctx, req.StoreID)
	return rec, nil
}

// UpdateStatus forwards to the wrapped ledger when it supports status changes.
func (c *CachedLedger) UpdateStatus(ctx context.Context, storeID, id string, status Status) (*Record, error) {
	updater, ok := c.inner.(StatusUpdater)
	if !ok {
		return nil, ErrStatusUpdatesUnsupported
	}
	rec, err := updater.UpdateStatus(ctx, storeID, id, status)
	if err != nil {
		return nil, err
	}
	c.Invalidate(ctx, storeID)
	return rec, nil
}

// Invalidate bumps the store's generation so the next List refetches.
func (c *CachedLedger) Invalidate(ctx context.Context, storeID string) {
	pipe := c.redis.TxPipeline()
	pipe.Incr(ctx, c.generationKey(storeID))
	pipe.Del(ctx, c.snapshotKey(storeID))
	if _, err := pipe.Exec(ctx); err != nil {
		c.logger.Warn("ledger cache invalidation failed", "store_id", storeID, "error", err)
	}
}

func (c *CachedLedger) generation(ctx context.Context, storeID string) (int64, error) {
	gen, err := c.redis.Get(ctx, c.generationKey(storeID)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return gen, err
}
