package cache

import (
	"context"
	"time"
)

// Purger is the part of a cache store the janitor needs.
type Purger interface {
	PurgeExpired()
}

// Janitor periodically purges expired entries from a set of stores.
// It is the external trigger counterpart to the lazy eviction in Get.
type Janitor struct {
	Interval time.Duration
	Stores   []Purger

	// OnSweep, when non-nil, runs after every completed sweep.
	OnSweep func()
}

// Run blocks, sweeping on every tick until ctx is cancelled.
func (j *Janitor) Run(ctx context.Context) {
	ticker := time.NewTicker(j.Interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			for _, s := range j.Stores {
				s.PurgeExpired()
			}
			if j.OnSweep != nil {
				j.OnSweep()
			}
		}
	}
}
