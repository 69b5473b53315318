package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/IgorGrieder/short-links/internal/processing/links"
	goredis "github.com/redis/go-redis/v9"
)

const DefaultMetricsKey = "metrics"

type Config struct {
	Addr     string
	Password string
	DB       int
	PoolSize int
	// Key is the sorted set holding per-link click scores.
	Key string
}

// ClickCounter keeps click tallies in one sorted set: member is the short link
// id, score is its click count.
type ClickCounter struct {
	client *goredis.Client
	key    string
}

func New(cfg Config) (*ClickCounter, error) {
	if cfg.Addr == "" {
		cfg.Addr = "localhost:6379"
	}
	if cfg.PoolSize <= 0 {
		cfg.PoolSize = 10
	}

	client := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
		PoolSize: cfg.PoolSize,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("unable to ping redis: %w", err)
	}

	return NewWithClient(client, cfg.Key), nil
}

// NewWithClient wraps an existing client. An empty key falls back to
// DefaultMetricsKey.
func NewWithClient(client *goredis.Client, key string) *ClickCounter {
	if key == "" {
		key = DefaultMetricsKey
	}
	return &ClickCounter{client: client, key: key}
}

func (c *ClickCounter) RecordClick(ctx context.Context, shortLinkID string) error {
	if shortLinkID == "" {
		return errors.New("short link id is empty")
	}
	return c.client.ZIncrBy(ctx, c.key, 1, shortLinkID).Err()
}

func (c *ClickCounter) RangeByScore(ctx context.Context, min, max float64) ([]links.ClickTally, error) {
	zs, err := c.client.ZRangeByScoreWithScores(ctx, c.key, &goredis.ZRangeBy{
		Min: formatScore(min),
		Max: formatScore(max),
	}).Result()
	if err != nil {
		return nil, err
	}
	return toTallies(zs), nil
}

func (c *ClickCounter) TopByRank(ctx context.Context, n int64) ([]links.ClickTally, error) {
	if n <= 0 {
		return []links.ClickTally{}, nil
	}
	zs, err := c.client.ZRevRangeWithScores(ctx, c.key, 0, n-1).Result()
	if err != nil {
		return nil, err
	}
	return toTallies(zs), nil
}

func (c *ClickCounter) Close() error {
	return c.client.Close()
}

func formatScore(v float64) string {
	return fmt.Sprintf("%g", v)
}

func toTallies(zs []goredis.Z) []links.ClickTally {
	out := make([]links.ClickTally, 0, len(zs))
	for _, z := range zs {
		out = append(out, links.ClickTally{
			ShortLinkID: memberString(z.Member),
			Clicks:      z.Score,
		})
	}
	return out
}

func memberString(member any) string {
	switch m := member.(type) {
	case string:
		return m
	case []byte:
		return string(m)
	default:
		return fmt.Sprint(m)
	}
}
