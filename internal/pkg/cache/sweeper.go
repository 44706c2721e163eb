package cache

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// DefaultSweepInterval is how often StartSweeper purges expired entries when
// no interval is given.
const DefaultSweepInterval = 5 * time.Minute

// Expirer is anything holding entries that can be purged in bulk.
type Expirer interface {
	ClearExpired() int
}

// StartSweeper launches a goroutine that calls s.ClearExpired every interval
// until ctx is cancelled.
func StartSweeper(ctx context.Context, name string, s Expirer, interval time.Duration, log zerolog.Logger) {
	if interval <= 0 {
		interval = DefaultSweepInterval
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if n := s.ClearExpired(); n > 0 {
					log.Debug().Str("store", name).Int("removed", n).Msg("expired entries swept")
				}
			}
		}
	}()
}
