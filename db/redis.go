// api/db/redis.go
package db

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/harvestlink/market/api/config"
	logger "github.com/harvestlink/market/api/logging"
	"github.com/harvestlink/market/api/model"
)

var RedisClient *redis.Client

func InitRedis() error {
	RedisClient = redis.NewClient(&redis.Options{
		Addr:     config.GetString("redis.addr"),
		Password: config.GetString("redis.password"),
		DB:       config.GetInt("redis.db"),
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := RedisClient.Ping(ctx).Result(); err != nil {
		return fmt.Errorf("failed to connect to Redis: %w", err)
	}

	logger.Info("Successfully connected to Redis")
	return nil
}

func CloseRedis() {
	if RedisClient != nil {
		if err := RedisClient.Close(); err != nil {
			logger.Error("Error closing Redis connection", zap.Error(err))
		}
	}
}

// RateLimit records one request for key and reports whether it is within
// limit requests per window. It uses a sliding window over a sorted set.
func RateLimit(ctx context.Context, client redis.Cmdable, key string, limit int, per time.Duration) (bool, error) {
	pipe := client.Pipeline()
	now := time.Now().UnixNano()
	key = fmt.Sprintf("ratelimit:%s", key)

	pipe.ZRemRangeByScore(ctx, key, "0", fmt.Sprintf("%d", now-(per.Nanoseconds())))
	pipe.ZAdd(ctx, key, redis.Z{Score: float64(now), Member: now})
	card := pipe.ZCard(ctx, key)
	pipe.Expire(ctx, key, per)

	if _, err := pipe.Exec(ctx); err != nil {
		return false, fmt.Errorf("failed to execute rate limit commands: %w", err)
	}

	count := card.Val()
	allowed := count <= int64(limit)
	logger.Debug("Rate limit check",
		zap.String("key", key),
		zap.Int64("count", count),
		zap.Int("limit", limit),
		zap.Bool("allowed", allowed))
	return allowed, nil
}

// RouteCache stores routing results in redis. A miss returns (nil, nil).
type RouteCache struct {
	client redis.Cmdable
	ttl    time.Duration
}

func NewRouteCache(client redis.Cmdable, ttl time.Duration) *RouteCache {
	return &RouteCache{client: client, ttl: ttl}
}

func routeKey(from, to model.Coordinate) string {
	return fmt.Sprintf("route:%s:%s", from, to)
}

func (c *RouteCache) GetRoute(ctx context.Context, from, to model.Coordinate) (*model.Route, error) {
	key := routeKey(from, to)
	data, err := c.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		logger.Debug("Route not found in cache", zap.String("key", key))
		return nil, nil
	} else if err != nil {
		return nil, fmt.Errorf("failed to get route from cache: %w", err)
	}

	var route model.Route
	if err := json.Unmarshal(data, &route); err != nil {
		return nil, fmt.Errorf("failed to unmarshal route: %w", err)
	}

	logger.Debug("Route retrieved from cache", zap.String("key", key))
	return &route, nil
}

func (c *RouteCache) SetRoute(ctx context.Context, route *model.Route) error {
	data, err := json.Marshal(route)
	if err != nil {
		return fmt.Errorf("failed to marshal route: %w", err)
	}

	key := routeKey(route.From, route.To)
	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache route: %w", err)
	}

	logger.Debug("Route cached successfully", zap.String("key", key))
	return nil
}
