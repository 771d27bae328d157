// Package sequence issues human-readable daily codes such as P-20250114-0007.
package sequence

import (
	"context"
	"fmt"
	"time"

	"github.com/fekuna/omnipos-bar-service/pkg/cache"
	"github.com/fekuna/omnipos-bar-service/pkg/logger"
	"go.uber.org/zap"
)

// CountFunc returns how many codes were already issued since the given
// instant. It backs the counter when Redis is unavailable.
type CountFunc func(ctx context.Context, since time.Time) (int, error)

const counterTTL = 48 * time.Hour

type Generator struct {
	cache  *cache.RedisClient
	loc    *time.Location
	now    func() time.Time
	logger logger.ZapLogger
}

func NewGenerator(cache *cache.RedisClient, loc *time.Location, log logger.ZapLogger) *Generator {
	if loc == nil {
		loc = time.Local
	}
	return &Generator{cache: cache, loc: loc, now: time.Now, logger: log}
}

// LoadLocation resolves a timezone name, falling back to the process zone.
func LoadLocation(name string) *time.Location {
	if name == "" || name == "Local" {
		return time.Local
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return time.Local
	}
	return loc
}

// Midnight is the start of the local day containing t.
func (g *Generator) Midnight(t time.Time) time.Time {
	t = t.In(g.loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, g.loc)
}

// Next returns the next code for prefix on the current local day. Uniqueness
// is ultimately enforced by the database constraint on the code column.
func (g *Generator) Next(ctx context.Context, prefix string, count CountFunc) (string, error) {
	now := g.now().In(g.loc)
	day := now.Format("20060102")

	seq, err := g.fromRedis(ctx, prefix, day, now, count)
	if err != nil {
		if g.cache != nil {
			g.logger.Warn("sequence counter unavailable, counting rows", zap.String("prefix", prefix), zap.Error(err))
		}
		n, err := count(ctx, g.Midnight(now))
		if err != nil {
			return "", fmt.Errorf("count codes issued today: %w", err)
		}
		seq = int64(n) + 1
	}

	return Format(prefix, day, seq), nil
}

func (g *Generator) fromRedis(ctx context.Context, prefix, day string, now time.Time, count CountFunc) (int64, error) {
	if g.cache == nil {
		return 0, fmt.Errorf("no counter configured")
	}
	key := fmt.Sprintf("seq:%s:%s", prefix, day)

	// A missing key after a flush or restart is seeded with the rows already
	// written today before anyone increments it. SETNX lets only the first
	// seeder win, so concurrent callers all continue from the same base.
	exists, err := g.cache.Client.Exists(ctx, key).Result()
	if err != nil {
		return 0, err
	}
	if exists == 0 {
		n, err := count(ctx, g.Midnight(now))
		if err != nil {
			return 0, err
		}
		if _, err := g.cache.SetIntNX(ctx, key, int64(n), counterTTL); err != nil {
			return 0, err
		}
	}
	return g.cache.IncrWithTTL(ctx, key, counterTTL)
}

func Format(prefix, day string, seq int64) string {
	return fmt.Sprintf("%s-%s-%04d", prefix, day, seq)
}
