package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jotajotaz/bcn-flights/internal/models"
)

// Cache stores raw (unfiltered) listings per leg lookup. The relaxation
// fallback re-queries the same (origin, destination, date) triples with wider
// windows, so a short-TTL cache halves provider traffic on empty weeks.
type Cache interface {
	Get(ctx context.Context, origin, destination, date string) ([]models.FareListing, bool)
	Set(ctx context.Context, origin, destination, date string, listings []models.FareListing) error
	Close() error
}

type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

func DefaultRedisConfig() RedisConfig {
	return RedisConfig{
		Addr: "localhost:6379",
		TTL:  30 * time.Minute,
	}
}

func NewRedisCache(cfg RedisConfig) (*RedisCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &RedisCache{
		client: client,
		ttl:    cfg.TTL,
	}, nil
}

func (c *RedisCache) Get(ctx context.Context, origin, destination, date string) ([]models.FareListing, bool) {
	data, err := c.client.Get(ctx, legKey(origin, destination, date)).Bytes()
	if err != nil {
		return nil, false
	}

	var listings []models.FareListing
	if err := json.Unmarshal(data, &listings); err != nil {
		return nil, false
	}

	return listings, true
}

func (c *RedisCache) Set(ctx context.Context, origin, destination, date string, listings []models.FareListing) error {
	data, err := json.Marshal(listings)
	if err != nil {
		return err
	}

	return c.client.Set(ctx, legKey(origin, destination, date), data, c.ttl).Err()
}

func (c *RedisCache) Close() error {
	return c.client.Close()
}

type NoOpCache struct{}

func NewNoOpCache() *NoOpCache {
	return &NoOpCache{}
}

func (c *NoOpCache) Get(ctx context.Context, origin, destination, date string) ([]models.FareListing, bool) {
	return nil, false
}

func (c *NoOpCache) Set(ctx context.Context, origin, destination, date string, listings []models.FareListing) error {
	return nil
}

func (c *NoOpCache) Close() error {
	return nil
}

func legKey(origin, destination, date string) string {
	hash := sha256.Sum256([]byte(origin + ":" + destination + ":" + date))
	return "fares:" + hex.EncodeToString(hash[:])
}
