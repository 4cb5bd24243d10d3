package enrich

import (
	"context"
	"log"
	"os"

	"solana-token-scanner/internal/domain"
	"solana-token-scanner/internal/metrics"
	"solana-token-scanner/internal/sources"
)

// Stage is the per-entity pipeline state. Stages run strictly in order
// because later stages consult fields set by earlier ones.
type Stage int

const (
	StageInitialized Stage = iota
	StageMetadata
	StageMarket
	StageHistory
	StageFallback
	StageScored
	StageDone
)

// String returns the stage name for logging.
func (s Stage) String() string {
	switch s {
	case StageInitialized:
		return "initialized"
	case StageMetadata:
		return "metadata"
	case StageMarket:
		return "market"
	case StageHistory:
		return "history"
	case StageFallback:
		return "fallback"
	case StageScored:
		return "scored"
	case StageDone:
		return "done"
	default:
		return "unknown"
	}
}

// MetadataSource resolves token identity. Failure yields an empty
// fragment.
type MetadataSource interface {
	Fetch(ctx context.Context, mint string) domain.Fragment
}

// PairSource resolves the best trading pair of a mint.
type PairSource interface {
	BestPair(ctx context.Context, mint string) (*sources.Pair, error)
}

// HistorySource supplies the list-view sparkline samples.
type HistorySource interface {
	Sparkline() []float64
}

// FallbackSource is the bulk token list consulted only when name or
// symbol are still unresolved after the primary sources.
type FallbackSource interface {
	Lookup(ctx context.Context, mint string) *domain.ListedToken
}

// Options wires the pipeline's sources.
type Options struct {
	Metadata MetadataSource
	Pairs    PairSource
	History  HistorySource
	Fallback FallbackSource
	Logger   *log.Logger
}

// Pipeline enriches one seed at a time through the fixed stage
// sequence. Its contract is "never fails": every seed produces a
// terminal record, however little data survived.
type Pipeline struct {
	metadata MetadataSource
	pairs    PairSource
	history  HistorySource
	fallback FallbackSource
	logger   *log.Logger
}

// NewPipeline creates an enrichment pipeline. Any source may be nil;
// its stage is skipped.
func NewPipeline(opts Options) *Pipeline {
	if opts.Logger == nil {
		opts.Logger = log.New(os.Stdout, "[enrich] ", log.LstdFlags)
	}
	return &Pipeline{
		metadata: opts.Metadata,
		pairs:    opts.Pairs,
		history:  opts.History,
		fallback: opts.Fallback,
		logger:   opts.Logger,
	}
}

// Enrich runs the stage sequence for one seed and returns the terminal
// record. fudSeed pins the risk placeholder for the duration of one
// batch. Stage failures degrade the record to partial data; Enrich
// never returns an error.
func (p *Pipeline) Enrich(ctx context.Context, seed domain.TokenSeed, fudSeed int64) *domain.TokenRecord {
	frag := domain.Fragment{
		Image:       seed.Icon,
		Description: seed.Description,
	}

	if p.metadata != nil && seed.Address != "" {
		frag = Merge(frag, p.metadata.Fetch(ctx, seed.Address))
	}

	if p.pairs != nil && seed.Address != "" {
		pair, err := p.pairs.BestPair(ctx, seed.Address)
		if err != nil {
			p.logger.Printf("stage %s failed for %s: %v", StageMarket, seed.Address, err)
		} else if pair != nil {
			frag = Merge(frag, pair.Fragment())
		}
	}

	var history []float64
	if p.history != nil {
		history = p.history.Sparkline()
	}

	// Fallback runs only when the primary sources left identity
	// unresolved.
	if (frag.Name == nil || frag.Symbol == nil) && p.fallback != nil && seed.Address != "" {
		if tok := p.fallback.Lookup(ctx, seed.Address); tok != nil {
			frag = Merge(frag, domain.Fragment{
				Name:     nonEmpty(tok.Name),
				Symbol:   nonEmpty(tok.Symbol),
				Image:    nonEmpty(tok.LogoURI),
				Decimals: &tok.Decimals,
			})
		}
	}

	return p.finalize(seed, frag, history, fudSeed)
}

// finalize builds the terminal record: display fields through the
// placeholder chain, price data, and derived scores.
func (p *Pipeline) finalize(seed domain.TokenSeed, frag domain.Fragment, history []float64, fudSeed int64) *domain.TokenRecord {
	record := &domain.TokenRecord{
		Address:          seed.Address,
		Name:             frag.Name,
		Symbol:           frag.Symbol,
		Icon:             frag.Image,
		Description:      frag.Description,
		Decimals:         frag.Decimals,
		HistoricalPrices: history,
		ProfileURL:       seed.URL,
		Links:            seed.Links,
		FudScore:         metrics.FudScore(seed.Address, fudSeed),
		IsCentralized:    metrics.IsCentralized(frag.Name),
	}

	record.DisplayName = metrics.PlaceholderName(seed.Address)
	if frag.Name != nil && *frag.Name != "" {
		record.DisplayName = *frag.Name
	}
	record.DisplaySymbol = metrics.PlaceholderSymbol(seed.Address)
	if frag.Symbol != nil && *frag.Symbol != "" {
		record.DisplaySymbol = *frag.Symbol
	}
	record.DisplayImage = metrics.PlaceholderImage(seed.Address)
	if frag.Image != nil && *frag.Image != "" {
		record.DisplayImage = *frag.Image
	}

	if hasMarketData(frag) {
		record.PriceData = &domain.PriceData{
			PriceUSD:       frag.PriceUSD,
			PriceChange24h: frag.PriceChange24h,
			PriceChange5m:  frag.PriceChange5m,
			Volume24h:      frag.Volume24h,
			Liquidity:      frag.Liquidity,
			MarketCap:      frag.MarketCap,
			FDV:            frag.FDV,
			PairAddress:    frag.PairAddress,
			DexID:          frag.DexID,
			PairURL:        frag.PairURL,
		}
	}
	return record
}

func hasMarketData(f domain.Fragment) bool {
	return f.PriceUSD != nil || f.Volume24h != nil || f.Liquidity != nil ||
		f.MarketCap != nil || f.FDV != nil || f.PairAddress != nil
}

func nonEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
