package rdx

import (
	"context"

	"github.com/redis/go-redis/v9"
)

// Connect opens a Redis connection and verifies it with a ping.
func Connect(ctx context.Context, addr string) (*redis.Client, error) {
	conn := redis.NewClient(&redis.Options{Addr: addr})
	if err := conn.Ping(ctx).Err(); err != nil {
		return nil, err
	}
	return conn, nil
}
