// Package cache provides the Redis client bootstrap and the rendered
// list-page cache for the global index.
package cache

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"inkwell/internal/middleware"

	"github.com/redis/go-redis/v9"
)

// NewClient connects to Redis at addr (host:port or a redis:// URL) and
// returns the client, or nil when Redis is unreachable. The application
// degrades gracefully without Redis: the page cache falls back to process
// memory and rate limiting fails open.
func NewClient(addr string) *redis.Client {
	var opts *redis.Options
	if strings.Contains(addr, "://") {
		parsed, err := redis.ParseURL(addr)
		if err != nil {
			middleware.Logger.Warn("invalid REDIS_URL, continuing without Redis",
				slog.String("addr", addr), slog.String("error", err.Error()))
			return nil
		}
		opts = parsed
	} else {
		opts = &redis.Options{Addr: addr}
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		middleware.Logger.Warn("Redis unavailable, continuing without Redis",
			slog.String("error", err.Error()))
		return nil
	}

	middleware.Logger.Info("Redis connected successfully")
	return client
}
