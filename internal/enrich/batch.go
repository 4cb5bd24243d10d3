package enrich

import (
	"context"
	"log"
	"os"
	"sync"
	"time"

	"solana-token-scanner/internal/domain"
	"solana-token-scanner/internal/observability"
)

// Batch fans the pipeline out across a seed list. One goroutine per
// seed, results collected into per-index slots so the output keeps the
// input order; one seed's failure never affects its siblings.
type Batch struct {
	pipeline *Pipeline
	logger   *log.Logger

	// now is swappable for tests to pin the batch seed.
	now func() time.Time
}

// NewBatch creates a batch orchestrator over the given pipeline.
func NewBatch(pipeline *Pipeline, logger *log.Logger) *Batch {
	if logger == nil {
		logger = log.New(os.Stdout, "[batch] ", log.LstdFlags)
	}
	return &Batch{pipeline: pipeline, logger: logger, now: time.Now}
}

// Run enriches every seed concurrently and returns the records that
// carry at least one meaningful signal, in input order. A canceled
// context abandons the run and returns nil.
func (b *Batch) Run(ctx context.Context, seeds []domain.TokenSeed) []*domain.TokenRecord {
	start := b.now()
	fudSeed := start.UnixNano()

	results := make([]*domain.TokenRecord, len(seeds))
	var wg sync.WaitGroup
	for i := range seeds {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = b.pipeline.Enrich(ctx, seeds[i], fudSeed)
		}(i)
	}
	wg.Wait()

	if ctx.Err() != nil {
		b.logger.Printf("batch abandoned after %s: %v", time.Since(start), ctx.Err())
		observability.RecordBatchRun("canceled", time.Since(start).Seconds(), 0, 0)
		return nil
	}

	out := make([]*domain.TokenRecord, 0, len(results))
	for _, r := range results {
		if r.HasSignal() {
			out = append(out, r)
		}
	}
	dropped := len(results) - len(out)
	if dropped > 0 {
		b.logger.Printf("dropped %d zero-signal entities", dropped)
	}
	observability.RecordBatchRun("ok", time.Since(start).Seconds(), len(out), dropped)
	return out
}
