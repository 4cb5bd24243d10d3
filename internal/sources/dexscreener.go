package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"sort"
	"strconv"
	"time"

	"solana-token-scanner/internal/cache"
	"solana-token-scanner/internal/domain"
	"solana-token-scanner/internal/observability"
)

const (
	defaultDexBaseURL = "https://api.dexscreener.com"
	pairsCacheTTL     = 30 * time.Second
)

// Pair is one DexScreener trading pair. Every field is optional on the
// wire; absent numeric fields stay nil.
type Pair struct {
	ChainID     string         `json:"chainId"`
	DexID       string         `json:"dexId"`
	URL         string         `json:"url"`
	PairAddress string         `json:"pairAddress"`
	BaseToken   PairToken      `json:"baseToken"`
	QuoteToken  PairToken      `json:"quoteToken"`
	PriceUSD    string         `json:"priceUsd"`
	Volume      PairWindow     `json:"volume"`
	PriceChange PairWindow     `json:"priceChange"`
	Liquidity   *PairLiquidity `json:"liquidity"`
	FDV         *float64       `json:"fdv"`
	MarketCap   *float64       `json:"marketCap"`
	Info        *PairInfo      `json:"info"`
}

// PairToken identifies one side of a pair.
type PairToken struct {
	Address string `json:"address"`
	Name    string `json:"name"`
	Symbol  string `json:"symbol"`
}

// PairWindow holds a per-timeframe metric (volume or price change).
type PairWindow struct {
	M5  *float64 `json:"m5"`
	H1  *float64 `json:"h1"`
	H6  *float64 `json:"h6"`
	H24 *float64 `json:"h24"`
}

// PairLiquidity is the pooled liquidity of a pair.
type PairLiquidity struct {
	USD   *float64 `json:"usd"`
	Base  float64  `json:"base"`
	Quote float64  `json:"quote"`
}

// PairInfo carries presentation extras DexScreener attaches to a pair.
type PairInfo struct {
	ImageURL string `json:"imageUrl"`
}

// LiquidityUSD returns the pair's USD liquidity, zero when absent.
func (p *Pair) LiquidityUSD() float64 {
	if p.Liquidity == nil || p.Liquidity.USD == nil {
		return 0
	}
	return *p.Liquidity.USD
}

// Fragment converts the pair into the uniform partial-token shape.
func (p *Pair) Fragment() domain.Fragment {
	f := domain.Fragment{
		Name:           strPtr(p.BaseToken.Name),
		Symbol:         strPtr(p.BaseToken.Symbol),
		PriceChange24h: p.PriceChange.H24,
		PriceChange5m:  p.PriceChange.M5,
		Volume24h:      p.Volume.H24,
		MarketCap:      p.MarketCap,
		FDV:            p.FDV,
		PairAddress:    strPtr(p.PairAddress),
		DexID:          strPtr(p.DexID),
		PairURL:        strPtr(p.URL),
	}
	if p.Info != nil {
		f.Image = strPtr(p.Info.ImageURL)
	}
	if p.Liquidity != nil {
		f.Liquidity = p.Liquidity.USD
	}
	if price, err := strconv.ParseFloat(p.PriceUSD, 64); err == nil {
		f.PriceUSD = &price
	}
	return f
}

type profileRow struct {
	URL          *string              `json:"url"`
	ChainID      string               `json:"chainId"`
	TokenAddress string               `json:"tokenAddress"`
	Icon         *string              `json:"icon"`
	Header       *string              `json:"header"`
	Description  *string              `json:"description"`
	Links        []domain.ProfileLink `json:"links"`
}

// DexScreenerOptions configures the DexScreener client.
type DexScreenerOptions struct {
	BaseURL    string
	ChainID    string // profiles are filtered to this chain, default "solana"
	HTTPClient *http.Client
	Cache      cache.Store // optional; caches pair responses
	Logger     *log.Logger
}

// DexScreener fetches the token-profiles feed and per-token pair data.
// The profiles feed seeds the batch and is required; pair data is
// optional per token.
type DexScreener struct {
	baseURL string
	chainID string
	httpc   *http.Client
	cache   cache.Store
	logger  *log.Logger
}

// NewDexScreener creates a DexScreener client.
func NewDexScreener(opts DexScreenerOptions) *DexScreener {
	if opts.BaseURL == "" {
		opts.BaseURL = defaultDexBaseURL
	}
	if opts.ChainID == "" {
		opts.ChainID = "solana"
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{Timeout: defaultHTTPTimeout}
	}
	if opts.Logger == nil {
		opts.Logger = log.New(os.Stdout, "[dexscreener] ", log.LstdFlags)
	}
	return &DexScreener{
		baseURL: opts.BaseURL,
		chainID: opts.ChainID,
		httpc:   opts.HTTPClient,
		cache:   opts.Cache,
		logger:  opts.Logger,
	}
}

// Profiles fetches the latest token-profiles feed and returns the seeds
// for the configured chain. This is the entry point of every batch run;
// errors propagate so the caller can surface a retryable failure.
func (d *DexScreener) Profiles(ctx context.Context) ([]domain.TokenSeed, error) {
	start := time.Now()
	url := d.baseURL + "/token-profiles/latest/v1"

	var rows []profileRow
	err := getJSON(ctx, d.httpc, url, &rows)
	if err != nil {
		// Some gateway deployments wrap the array in an object.
		var wrapped struct {
			Profiles []profileRow `json:"profiles"`
		}
		if err2 := getJSON(ctx, d.httpc, url, &wrapped); err2 != nil {
			observability.RecordSourceRequest("dexscreener_profiles", err, time.Since(start).Seconds())
			return nil, fmt.Errorf("fetch token profiles: %w", err)
		}
		rows = wrapped.Profiles
	}
	observability.RecordSourceRequest("dexscreener_profiles", nil, time.Since(start).Seconds())

	seeds := make([]domain.TokenSeed, 0, len(rows))
	for _, r := range rows {
		if r.ChainID != d.chainID || r.TokenAddress == "" {
			continue
		}
		seeds = append(seeds, domain.TokenSeed{
			Address:     r.TokenAddress,
			URL:         r.URL,
			Icon:        r.Icon,
			Header:      r.Header,
			Description: r.Description,
			Links:       r.Links,
		})
	}
	return seeds, nil
}

// Pairs returns all trading pairs of a mint. Responses are cached
// briefly so the list view and the deep dive don't double-fetch.
func (d *DexScreener) Pairs(ctx context.Context, mint string) ([]Pair, error) {
	key := "dex:pairs:" + mint

	if d.cache != nil {
		if cached, ok, err := d.cache.Get(ctx, key); err == nil && ok {
			observability.RecordCacheOp("get", "hit")
			var resp pairsResponse
			if err := json.Unmarshal([]byte(cached), &resp); err == nil {
				return resp.Pairs, nil
			}
		} else {
			observability.RecordCacheOp("get", "miss")
		}
	}

	start := time.Now()
	body, status, err := getBody(ctx, d.httpc, d.baseURL+"/latest/dex/tokens/"+mint)
	if err != nil {
		observability.RecordSourceRequest("dexscreener_pairs", err, time.Since(start).Seconds())
		return nil, fmt.Errorf("fetch pairs for %s: %w", mint, err)
	}
	if status != http.StatusOK {
		err := fmt.Errorf("fetch pairs for %s: http %d", mint, status)
		observability.RecordSourceRequest("dexscreener_pairs", err, time.Since(start).Seconds())
		return nil, err
	}

	var resp pairsResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		observability.RecordSourceRequest("dexscreener_pairs", err, time.Since(start).Seconds())
		return nil, fmt.Errorf("decode pairs for %s: %w", mint, err)
	}
	observability.RecordSourceRequest("dexscreener_pairs", nil, time.Since(start).Seconds())

	if d.cache != nil {
		if err := d.cache.Set(ctx, key, string(body), pairsCacheTTL); err != nil {
			observability.RecordCacheOp("set", "error")
			d.logger.Printf("cache set failed for %s: %v", key, err)
		} else {
			observability.RecordCacheOp("set", "ok")
		}
	}
	return resp.Pairs, nil
}

type pairsResponse struct {
	Pairs []Pair `json:"pairs"`
}

// BestPair returns the pair with the highest USD liquidity, or nil when
// the mint has no pairs.
func (d *DexScreener) BestPair(ctx context.Context, mint string) (*Pair, error) {
	pairs, err := d.Pairs(ctx, mint)
	if err != nil {
		return nil, err
	}
	if len(pairs) == 0 {
		return nil, nil
	}
	sort.SliceStable(pairs, func(i, j int) bool {
		return pairs[i].LiquidityUSD() > pairs[j].LiquidityUSD()
	})
	return &pairs[0], nil
}

// Search forwards a free-form pair search and returns the verbatim
// upstream body and status. Used by the proxy route only.
func (d *DexScreener) Search(ctx context.Context, query string) ([]byte, int, error) {
	start := time.Now()
	body, status, err := getBody(ctx, d.httpc, d.baseURL+"/latest/dex/search?q="+query)
	observability.RecordSourceRequest("dexscreener_search", err, time.Since(start).Seconds())
	return body, status, err
}
