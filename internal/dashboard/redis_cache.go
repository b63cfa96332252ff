package dashboard

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

// redisCmds is the subset of redis.Cmdable used by RedisCache.
type redisCmds interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// RedisCache keeps stats under dashboard:<userId> with a TTL.
type RedisCache struct {
	rdb redisCmds
	ttl time.Duration
}

// NewRedisClient connects to Redis and verifies the connection with PING.
func NewRedisClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, err
	}
	return rdb, nil
}

// NewRedisCache returns a cache on top of rdb.
func NewRedisCache(rdb redisCmds, ttl time.Duration) *RedisCache {
	return &RedisCache{rdb: rdb, ttl: ttl}
}

func cacheKey(userID string) string {
	return "dashboard:" + userID
}

func (c *RedisCache) Get(ctx context.Context, userID string) (*Stats, bool) {
	raw, err := c.rdb.Get(ctx, cacheKey(userID)).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log.WithError(err).WithField("user_id", userID).Warn("dashboard: cache get failed")
		}
		return nil, false
	}
	var st Stats
	if err := json.Unmarshal([]byte(raw), &st); err != nil {
		log.WithError(err).WithField("user_id", userID).Warn("dashboard: cached stats are corrupt")
		return nil, false
	}
	return &st, true
}

func (c *RedisCache) Set(ctx context.Context, userID string, st *Stats) {
	payload, err := json.Marshal(st)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, cacheKey(userID), string(payload), c.ttl).Err(); err != nil {
		log.WithError(err).WithField("user_id", userID).Warn("dashboard: cache set failed")
	}
}

func (c *RedisCache) Invalidate(ctx context.Context, userID string) {
	if err := c.rdb.Del(ctx, cacheKey(userID)).Err(); err != nil {
		log.WithError(err).WithField("user_id", userID).Warn("dashboard: cache invalidate failed")
	}
}
