// Package cachepkg provides redis connection setup.
package cachepkg

import (
	"context"
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"
)

// Setup connects to redis and verifies connectivity.
//
// address is either a redis:// or rediss:// url or a plain host:port.
func Setup(ctx context.Context, address string) (*redis.Client, error) {
	opt := &redis.Options{Addr: address}

	if strings.HasPrefix(address, "redis://") || strings.HasPrefix(address, "rediss://") {
		var err error

		opt, err = redis.ParseURL(address)
		if err != nil {
			return nil, fmt.Errorf("parse redis url: %w", err)
		}
	}

	client := redis.NewClient(opt)

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	return client, nil
}
