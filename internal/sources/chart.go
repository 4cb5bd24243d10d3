package sources

import (
	"context"
	"log"
	"math/rand"
	"os"
	"sync"
	"time"

	"solana-token-scanner/internal/domain"
)

// Chart produces the 24h price series for the deep-dive view. No free
// historical feed exists for arbitrary mints, so the series is
// synthesized from the best pair's current price and 24h change: hourly
// points walk from the implied price 24h ago toward the current price
// with small random variance.
type Chart struct {
	dex    *DexScreener
	now    func() time.Time
	logger *log.Logger

	mu  sync.Mutex
	rnd *rand.Rand
}

// ChartOptions configures the chart source.
type ChartOptions struct {
	Dex    *DexScreener
	Logger *log.Logger

	// Now and Seed pin time and randomness for tests.
	Now  func() time.Time
	Seed int64
}

// NewChart creates a chart source.
func NewChart(opts ChartOptions) *Chart {
	if opts.Logger == nil {
		opts.Logger = log.New(os.Stdout, "[chart] ", log.LstdFlags)
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Seed == 0 {
		opts.Seed = time.Now().UnixNano()
	}
	return &Chart{
		dex:    opts.Dex,
		now:    opts.Now,
		logger: opts.Logger,
		rnd:    rand.New(rand.NewSource(opts.Seed)),
	}
}

// Series returns 24 hourly points for a mint, oldest first. Empty when
// the mint has no pair or no price.
func (c *Chart) Series(ctx context.Context, mint string) []domain.ChartPoint {
	pair, err := c.dex.BestPair(ctx, mint)
	if err != nil {
		c.logger.Printf("chart data unavailable for %s: %v", mint, err)
		return nil
	}
	if pair == nil {
		return nil
	}
	f := pair.Fragment()
	if f.PriceUSD == nil || *f.PriceUSD <= 0 {
		return nil
	}
	change := 0.0
	if f.PriceChange24h != nil {
		change = *f.PriceChange24h
	}
	return c.synthesize(*f.PriceUSD, change)
}

func (c *Chart) synthesize(currentPrice, change24h float64) []domain.ChartPoint {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	points := make([]domain.ChartPoint, 0, 24)
	for i := 23; i >= 0; i-- {
		variance := (c.rnd.Float64() - 0.5) * 0.02
		price := currentPrice * (1 + (change24h/100)*(float64(i)/24) + variance)
		if price < 0 {
			price = 0
		}
		points = append(points, domain.ChartPoint{
			Time:  now.Add(-time.Duration(i) * time.Hour),
			Price: price,
		})
	}
	return points
}

// Sparkline returns a 30-sample placeholder history for the list view.
// Real per-token history is not available from the free feeds; the
// sparkline is presentation filler, regenerated every batch.
func (c *Chart) Sparkline() []float64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	prices := make([]float64, 30)
	base := c.rnd.Float64()*100 + 10
	for i := range prices {
		prices[i] = base + (c.rnd.Float64()-0.5)*base*0.2
	}
	return prices
}
