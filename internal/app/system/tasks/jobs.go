// internal/app/system/tasks/jobs.go
package tasks

import (
	"context"
	"time"

	"github.com/dalemusser/stratacourse/internal/app/system/timeouts"
	"go.uber.org/zap"
)

// Sweeper is a cache that can drop its expired entries.
type Sweeper interface {
	Sweep() int
	Len() int
}

// Pinger reports whether a backend is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// CacheSweepJob creates a job that removes expired landing page cache entries.
// The resolver evicts lazily on read; the sweep bounds memory for slugs that
// are never asked for again.
func CacheSweepJob(cache Sweeper, interval time.Duration, logger *zap.Logger) Job {
	if interval <= 0 {
		interval = time.Minute
	}
	return Job{
		Name:     "landing-cache-sweep",
		Interval: interval,
		Run: func(ctx context.Context) error {
			if n := cache.Sweep(); n > 0 {
				logger.Debug("swept landing page cache",
					zap.Int("removed", n),
					zap.Int("remaining", cache.Len()))
			}
			return nil
		},
	}
}

// StorePingJob creates a job that checks the page store so an outage shows
// up in the logs before the next public request hits it.
func StorePingJob(name string, store Pinger, interval time.Duration, logger *zap.Logger) Job {
	return Job{
		Name:     name + "-ping",
		Interval: interval,
		Run: func(ctx context.Context) error {
			ctx, cancel := context.WithTimeout(ctx, timeouts.Ping())
			defer cancel()
			if err := store.Ping(ctx); err != nil {
				logger.Warn("page store unreachable",
					zap.String("store", name),
					zap.Error(err))
				return err
			}
			return nil
		},
	}
}
