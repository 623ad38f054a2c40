package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"washbooking/config"
	"washbooking/internal/domain"
)

type RedisCache struct {
	client     *redis.Client
	catalogTTL time.Duration
}

func NewRedisCache(cfg config.RedisConfig, catalogTTL time.Duration) *RedisCache {
	return &RedisCache{
		client:     redis.NewClient(&redis.Options{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB}),
		catalogTTL: catalogTTL,
	}
}

func (c *RedisCache) GetServices(ctx context.Context, vehicleType domain.VehicleType) ([]domain.ServiceItem, error) {
	data, err := c.client.Get(ctx, servicesKey(vehicleType)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}

	var items []domain.ServiceItem
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (c *RedisCache) SetServices(ctx context.Context, vehicleType domain.VehicleType, items []domain.ServiceItem) error {
	payload, err := json.Marshal(items)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, servicesKey(vehicleType), payload, c.catalogTTL).Err()
}

// AcquireSubmitLock guards a draft against concurrent submission attempts
// (double-tap, retry racing a slow first request). The lock expires on its
// own so a crashed submission never wedges the draft.
func (c *RedisCache) AcquireSubmitLock(ctx context.Context, draftID string, ttl time.Duration) (bool, error) {
	return c.client.SetNX(ctx, submitLockKey(draftID), "locked", ttl).Result()
}

func (c *RedisCache) ReleaseSubmitLock(ctx context.Context, draftID string) error {
	return c.client.Del(ctx, submitLockKey(draftID)).Err()
}

func servicesKey(vehicleType domain.VehicleType) string {
	if vehicleType == "" {
		return "cache:services"
	}
	return fmt.Sprintf("cache:services:%s", vehicleType)
}

func submitLockKey(draftID string) string {
	return fmt.Sprintf("lock:draft:%s:submit", draftID)
}
