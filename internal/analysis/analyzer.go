// Package analysis implements the per-token deep dive and the
// on-demand holder profile aggregation.
package analysis

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"solana-token-scanner/internal/domain"
	"solana-token-scanner/internal/enrich"
	"solana-token-scanner/internal/metrics"
	"solana-token-scanner/internal/observability"
	"solana-token-scanner/internal/solana"
	"solana-token-scanner/internal/sources"
)

// analysisSteps is the number of progress steps of the deep dive.
const analysisSteps = 6

// topHolderLimit caps the ranked holder table.
const topHolderLimit = 50

// ProgressFunc receives step updates during a deep dive. May be nil.
type ProgressFunc func(domain.Progress)

// MetadataSource resolves deep-dive token identity.
type MetadataSource interface {
	FetchMetadata(ctx context.Context, mint string) domain.TokenMetadata
}

// PriceSource is the primary link of the market chain.
type PriceSource interface {
	Price(ctx context.Context, mint string) *float64
}

// PairSource is the aggregator link of the market chain.
type PairSource interface {
	BestPair(ctx context.Context, mint string) (*sources.Pair, error)
}

// BackupMarketSource is the last link of the market chain.
type BackupMarketSource interface {
	Market(ctx context.Context, mint string) *sources.CoinGeckoMarket
}

// ChartSource supplies the 24h price series.
type ChartSource interface {
	Series(ctx context.Context, mint string) []domain.ChartPoint
}

// AnalyzerOptions wires the deep-dive sources.
type AnalyzerOptions struct {
	RPC      solana.RPCClient
	Metadata MetadataSource
	Price    PriceSource
	Pairs    PairSource
	Backup   BackupMarketSource
	Chart    ChartSource
	Logger   *log.Logger
}

// Analyzer runs the strict six-step deep dive for one mint: metadata,
// market data, chart, full holder enumeration, supply, top holders.
// Supply is load-bearing: a zero supply fails the whole analysis.
type Analyzer struct {
	rpc      solana.RPCClient
	metadata MetadataSource
	price    PriceSource
	pairs    PairSource
	backup   BackupMarketSource
	chart    ChartSource
	logger   *log.Logger
}

// NewAnalyzer creates a deep-dive analyzer.
func NewAnalyzer(opts AnalyzerOptions) *Analyzer {
	if opts.Logger == nil {
		opts.Logger = log.New(os.Stdout, "[analysis] ", log.LstdFlags)
	}
	return &Analyzer{
		rpc:      opts.RPC,
		metadata: opts.Metadata,
		price:    opts.Price,
		pairs:    opts.Pairs,
		backup:   opts.Backup,
		chart:    opts.Chart,
		logger:   opts.Logger,
	}
}

// Analyze runs the deep dive. Market fields degrade individually; the
// chain lookups (enumeration, supply, ranking) are required and fail
// the analysis. A mint with zero supply fails with ErrNoSupply.
func (a *Analyzer) Analyze(ctx context.Context, mint string, progress ProgressFunc) (*domain.TokenAnalysis, error) {
	if mint == "" {
		return nil, domain.ErrNoAddress
	}
	start := time.Now()
	step := func(n int, msg string) {
		if progress != nil {
			progress(domain.Progress{Step: n, Total: analysisSteps, Message: msg})
		}
	}

	step(1, "Fetching token metadata...")
	meta := a.metadata.FetchMetadata(ctx, mint)

	step(2, "Fetching market data...")
	market := a.marketData(ctx, mint)

	step(3, "Fetching price chart data...")
	if a.chart != nil {
		market.Chart = a.chart.Series(ctx, mint)
	}

	step(4, "Scanning all token holders...")
	holders, err := a.activeHolders(ctx, mint)
	if err != nil {
		observability.RecordAnalysisRun("error", time.Since(start).Seconds())
		return nil, fmt.Errorf("enumerate holders: %w", err)
	}

	step(5, "Fetching token supply...")
	supply, err := a.rpc.GetTokenSupply(ctx, mint)
	if err != nil {
		observability.RecordAnalysisRun("error", time.Since(start).Seconds())
		return nil, fmt.Errorf("get supply: %w", err)
	}

	step(6, "Processing top holders data...")
	largest, err := a.rpc.GetTokenLargestAccounts(ctx, mint)
	if err != nil {
		observability.RecordAnalysisRun("error", time.Since(start).Seconds())
		return nil, fmt.Errorf("get top holders: %w", err)
	}

	totalSupply := supply.UI()
	if totalSupply == 0 {
		observability.RecordAnalysisRun("no_supply", time.Since(start).Seconds())
		return nil, domain.ErrNoSupply
	}
	market.Supply = &totalSupply

	top, percentages := rankHolders(largest, totalSupply)

	observability.RecordAnalysisRun("ok", time.Since(start).Seconds())
	a.logger.Printf("analysis complete for %s: %d holders, %d ranked", mint, holders, len(top))

	return &domain.TokenAnalysis{
		Mint:     mint,
		Metadata: meta,
		Market:   market,
		Holders: domain.HolderSummary{
			ActualHolderCount: holders,
			SampleSize:        len(largest),
			TopHolders:        top,
			Distribution:      metrics.ComputeDistribution(percentages),
		},
	}, nil
}

// marketData walks the market chain: primary price feed, aggregator
// pair, backup. Each link is independently optional and only fills
// fields earlier links left nil.
func (a *Analyzer) marketData(ctx context.Context, mint string) domain.MarketInfo {
	var market domain.MarketInfo

	if a.price != nil {
		market.Price = a.price.Price(ctx, mint)
	}

	if a.pairs != nil {
		pair, err := a.pairs.BestPair(ctx, mint)
		if err != nil {
			a.logger.Printf("pair data unavailable for %s: %v", mint, err)
		} else if pair != nil {
			f := pair.Fragment()
			market = enrich.MergeMarket(market, domain.MarketInfo{
				Price:                 f.PriceUSD,
				MarketCap:             f.MarketCap,
				Volume24h:             f.Volume24h,
				PriceChange24h:        f.PriceChange24h,
				PriceChange24hPercent: f.PriceChange24h,
			})
		}
	}

	if a.backup != nil && (market.Price == nil || market.MarketCap == nil) {
		if cg := a.backup.Market(ctx, mint); cg != nil {
			market = enrich.MergeMarket(market, domain.MarketInfo{
				Price:                 cg.Price,
				MarketCap:             cg.MarketCap,
				Volume24h:             cg.Volume24h,
				PriceChange24hPercent: cg.PriceChangePct24h,
			})
		}
	}
	return market
}

// activeHolders counts non-zero token accounts via full enumeration.
func (a *Analyzer) activeHolders(ctx context.Context, mint string) (int, error) {
	accounts, err := a.rpc.GetTokenAccountsByMint(ctx, mint)
	if err != nil {
		return 0, err
	}
	active := 0
	for _, acc := range accounts {
		if acc.Amount.UI() > 0 {
			active++
		}
	}
	return active, nil
}

// rankHolders builds the top-holder table: dense 1-based ranks in the
// order the ranking API returned (descending balance), capped at 50.
func rankHolders(largest []solana.LargestAccount, totalSupply float64) ([]domain.HolderRecord, []float64) {
	n := len(largest)
	if n > topHolderLimit {
		n = topHolderLimit
	}
	top := make([]domain.HolderRecord, 0, n)
	percentages := make([]float64, 0, n)
	for i := 0; i < n; i++ {
		amount := largest[i].UI()
		pct, ok := metrics.PercentOfSupply(amount, totalSupply)
		if !ok {
			pct = 0
		}
		top = append(top, domain.HolderRecord{
			Rank:       i + 1,
			Address:    largest[i].Address,
			Amount:     metrics.FormatAmount(amount),
			Percentage: pct,
		})
		percentages = append(percentages, pct)
	}
	return top, percentages
}
