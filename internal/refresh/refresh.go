// Package refresh runs the enrichment batch on a wall-clock interval
// and publishes the result as an atomically swapped snapshot.
package refresh

import (
	"context"
	"fmt"
	"log"
	"os"
	"sync/atomic"
	"time"

	"solana-token-scanner/internal/domain"
	"solana-token-scanner/internal/observability"
)

// DefaultInterval between batch runs.
const DefaultInterval = 20 * time.Second

// SeedSource supplies the seed list for each run.
type SeedSource interface {
	Profiles(ctx context.Context) ([]domain.TokenSeed, error)
}

// Runner executes one enrichment batch.
type Runner interface {
	Run(ctx context.Context, seeds []domain.TokenSeed) []*domain.TokenRecord
}

// Snapshot is one complete published batch result. Readers always see
// either the previous snapshot or the new one, never a mix.
type Snapshot struct {
	Tokens      []*domain.TokenRecord
	LastUpdated time.Time
}

// Options configures the refresher.
type Options struct {
	Seeds    SeedSource
	Batch    Runner
	Interval time.Duration
	Logger   *log.Logger
	Now      func() time.Time // test hook
}

// Refresher re-runs the batch on an interval. The snapshot pointer is
// swapped atomically; a failed run keeps the previous snapshot.
type Refresher struct {
	seeds    SeedSource
	batch    Runner
	interval time.Duration
	logger   *log.Logger
	now      func() time.Time

	snapshot atomic.Pointer[Snapshot]
	lastErr  atomic.Pointer[failure]
	nextAt   atomic.Int64 // unix nanos of the next scheduled run
}

type failure struct {
	err error
}

// New creates a refresher.
func New(opts Options) *Refresher {
	if opts.Interval <= 0 {
		opts.Interval = DefaultInterval
	}
	if opts.Logger == nil {
		opts.Logger = log.New(os.Stdout, "[refresh] ", log.LstdFlags)
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Refresher{
		seeds:    opts.Seeds,
		batch:    opts.Batch,
		interval: opts.Interval,
		logger:   opts.Logger,
		now:      opts.Now,
	}
}

// Run executes the refresh loop until ctx is canceled. The first run
// starts immediately.
func (r *Refresher) Run(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	r.refresh(ctx)
	for {
		select {
		case <-ctx.Done():
			r.logger.Printf("refresh loop stopped: %v", ctx.Err())
			return
		case <-ticker.C:
			r.refresh(ctx)
		}
	}
}

func (r *Refresher) refresh(ctx context.Context) {
	defer r.nextAt.Store(r.now().Add(r.interval).UnixNano())

	seeds, err := r.seeds.Profiles(ctx)
	if err != nil {
		r.logger.Printf("seed list unavailable: %v", err)
		r.lastErr.Store(&failure{err: fmt.Errorf("fetch token profiles: %w", err)})
		return
	}

	records := r.batch.Run(ctx, seeds)
	if ctx.Err() != nil {
		return
	}

	snap := &Snapshot{Tokens: records, LastUpdated: r.now()}
	r.snapshot.Store(snap)
	r.lastErr.Store(nil)
	observability.UpdateSnapshot(len(records), snap.LastUpdated.Unix())
	r.logger.Printf("snapshot refreshed: %d tokens from %d seeds", len(records), len(seeds))
}

// Snapshot returns the latest published snapshot, nil before the first
// successful run.
func (r *Refresher) Snapshot() *Snapshot {
	return r.snapshot.Load()
}

// LastError returns the error of the most recent failed run, nil after
// any successful run.
func (r *Refresher) LastError() error {
	if f := r.lastErr.Load(); f != nil {
		return f.err
	}
	return nil
}

// RefreshIn returns the time until the next scheduled run, zero when
// the loop has not started or the run is due.
func (r *Refresher) RefreshIn() time.Duration {
	next := r.nextAt.Load()
	if next == 0 {
		return 0
	}
	d := time.Until(time.Unix(0, next))
	if d < 0 {
		return 0
	}
	return d
}
