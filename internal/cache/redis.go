// Package cache provides Redis caching utilities for the application.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"quill/internal/middleware"

	"github.com/redis/go-redis/v9"
)

var client *redis.Client

// InitRedis initializes the Redis client with the given address. The cache is
// optional: on any connection problem the app continues without it.
func InitRedis(addr string) {
	var opts *redis.Options
	if strings.Contains(addr, "://") {
		parsed, err := redis.ParseURL(addr)
		if err != nil {
			middleware.Logger.Warn("invalid REDIS_URL, continuing without cache", "url", addr, "error", err)
			client = nil
			return
		}
		opts = parsed
	} else {
		opts = &redis.Options{Addr: addr}
	}

	client = redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		middleware.Logger.Warn("Redis unavailable, continuing without cache", "error", err)
		client = nil
	} else {
		middleware.Logger.Info("Redis connected")
	}
}

// GetClient returns the current Redis client instance, possibly nil.
func GetClient() *redis.Client {
	return client
}

// SetClient replaces the client; used by tests.
func SetClient(c *redis.Client) {
	client = c
}

// GetJSON loads key into dest, reporting whether it was a hit. All failure
// modes count as a miss.
func GetJSON(ctx context.Context, name, key string, dest interface{}) bool {
	if client == nil {
		return false
	}
	raw, err := client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			middleware.CacheRequests.WithLabelValues(name, "miss").Inc()
		} else {
			middleware.CacheRequests.WithLabelValues(name, "error").Inc()
		}
		return false
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		middleware.CacheRequests.WithLabelValues(name, "error").Inc()
		return false
	}
	middleware.CacheRequests.WithLabelValues(name, "hit").Inc()
	return true
}

// SetJSON stores v under key with a TTL, best effort.
func SetJSON(ctx context.Context, key string, v interface{}, ttl time.Duration) {
	if client == nil {
		return
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return
	}
	client.Set(ctx, key, raw, ttl)
}

// Delete removes keys, best effort.
func Delete(ctx context.Context, keys ...string) {
	if client == nil || len(keys) == 0 {
		return
	}
	client.Del(ctx, keys...)
}

// DeleteByPrefix removes every key under the given prefix.
func DeleteByPrefix(ctx context.Context, prefix string) {
	if client == nil {
		return
	}
	iter := client.Scan(ctx, 0, prefix+"*", 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if len(keys) > 0 {
		client.Del(ctx, keys...)
	}
}

// Cache key builders.

const recentPostsPrefix = "posts:recent:"

// RecentPostsKey keys the recent-posts feed by requested size.
func RecentPostsKey(limit int) string {
	return fmt.Sprintf("%s%d", recentPostsPrefix, limit)
}

// RecentPostsPrefix is used to invalidate every cached feed size at once.
func RecentPostsPrefix() string {
	return recentPostsPrefix
}

// FollowerCountKey keys a user's active follower count.
func FollowerCountKey(userID uint) string {
	return fmt.Sprintf("users:%d:followers", userID)
}
