// Redis-backed location cache. Positions land in a GEO set for proximity
// queries and in a per-driver hash for direct reads.
package loccache

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/medehssane/tewsilty/internal/driver/application/ports/out"
	orderout "github.com/medehssane/tewsilty/internal/order/application/ports/out"
	"github.com/medehssane/tewsilty/internal/shared/config"
	"github.com/medehssane/tewsilty/internal/shared/logger"

	"github.com/redis/go-redis/v9"
)

const geoKey = "drivers:geo"

// RedisLocationCache implements both the driver-side LocationCache and the
// order-side DriverLocator.
type RedisLocationCache struct {
	client *redis.Client
	log    *logger.Logger
}

func NewRedisLocationCache(cfg config.RedisConfig, log *logger.Logger) *RedisLocationCache {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	return &RedisLocationCache{
		client: client,
		log:    log,
	}
}

// Ping verifies the connection at startup.
func (c *RedisLocationCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *RedisLocationCache) Close() error {
	return c.client.Close()
}

// StoreFix writes the position into the GEO set and the metadata hash.
func (c *RedisLocationCache) StoreFix(ctx context.Context, driverID string, lat, lng float64) error {
	if err := c.client.GeoAdd(ctx, geoKey, &redis.GeoLocation{
		Name:      driverID,
		Latitude:  lat,
		Longitude: lng,
	}).Err(); err != nil {
		return fmt.Errorf("geoadd: %w", err)
	}

	if err := c.client.HSet(ctx, fixKey(driverID), map[string]interface{}{
		"lat":        strconv.FormatFloat(lat, 'f', -1, 64),
		"lng":        strconv.FormatFloat(lng, 'f', -1, 64),
		"updated_at": time.Now().UTC().Format(time.RFC3339Nano),
	}).Err(); err != nil {
		return fmt.Errorf("hset fix: %w", err)
	}

	return nil
}

// LastFix returns nil when the driver has never reported a position.
func (c *RedisLocationCache) LastFix(ctx context.Context, driverID string) (*out.Fix, error) {
	m, err := c.client.HGetAll(ctx, fixKey(driverID)).Result()
	if err != nil {
		return nil, fmt.Errorf("hgetall fix: %w", err)
	}
	if len(m) == 0 {
		return nil, nil
	}

	lat, err := strconv.ParseFloat(m["lat"], 64)
	if err != nil {
		return nil, fmt.Errorf("parse lat: %w", err)
	}
	lng, err := strconv.ParseFloat(m["lng"], 64)
	if err != nil {
		return nil, fmt.Errorf("parse lng: %w", err)
	}
	updatedAt, err := time.Parse(time.RFC3339Nano, m["updated_at"])
	if err != nil {
		return nil, fmt.Errorf("parse updated_at: %w", err)
	}

	return &out.Fix{Lat: lat, Lng: lng, UpdatedAt: updatedAt}, nil
}

// Locator adapts the cache to the order-side DriverLocator port.
func (c *RedisLocationCache) Locator() orderout.DriverLocator {
	return locatorAdapter{cache: c}
}

type locatorAdapter struct {
	cache *RedisLocationCache
}

func (a locatorAdapter) LastFix(ctx context.Context, driverID string) (*orderout.DriverFix, error) {
	fix, err := a.cache.LastFix(ctx, driverID)
	if err != nil || fix == nil {
		return nil, err
	}
	return &orderout.DriverFix{Lat: fix.Lat, Lng: fix.Lng, UpdatedAt: fix.UpdatedAt}, nil
}

func fixKey(driverID string) string {
	return "driver:fix:" + driverID
}
