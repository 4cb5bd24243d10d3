package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"sync"
	"time"

	"solana-token-scanner/internal/cache"
	"solana-token-scanner/internal/domain"
	"solana-token-scanner/internal/observability"
)

const (
	defaultJupiterPriceURL = "https://price.jup.ag/v4/price"
	defaultJupiterListURL  = "https://token.jup.ag/strict"

	listCacheKey = "jupiter:strict"
	listCacheTTL = 24 * time.Hour
)

// JupiterPrice is the primary price feed of the market chain.
type JupiterPrice struct {
	url    string
	httpc  *http.Client
	logger *log.Logger
}

// JupiterPriceOptions configures the price client.
type JupiterPriceOptions struct {
	URL        string
	HTTPClient *http.Client
	Logger     *log.Logger
}

// NewJupiterPrice creates a Jupiter price client.
func NewJupiterPrice(opts JupiterPriceOptions) *JupiterPrice {
	if opts.URL == "" {
		opts.URL = defaultJupiterPriceURL
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{Timeout: defaultHTTPTimeout}
	}
	if opts.Logger == nil {
		opts.Logger = log.New(os.Stdout, "[jupiter] ", log.LstdFlags)
	}
	return &JupiterPrice{url: opts.URL, httpc: opts.HTTPClient, logger: opts.Logger}
}

// Price returns the USD price of a mint, or nil when Jupiter does not
// quote it or the request fails.
func (j *JupiterPrice) Price(ctx context.Context, mint string) *float64 {
	start := time.Now()

	var resp struct {
		Data map[string]struct {
			Price float64 `json:"price"`
		} `json:"data"`
	}
	err := getJSON(ctx, j.httpc, j.url+"?ids="+mint, &resp)
	observability.RecordSourceRequest("jupiter_price", err, time.Since(start).Seconds())
	if err != nil {
		j.logger.Printf("price lookup failed for %s: %v", mint, err)
		return nil
	}
	entry, ok := resp.Data[mint]
	if !ok {
		return nil
	}
	return floatPtr(entry.Price)
}

// TokenList is the process-lifetime bulk fallback list. It is fetched
// at most once per process; a failed fetch leaves the list unloaded so
// a later lookup retries. Two goroutines racing the first load both see
// equivalent values.
type TokenList struct {
	mu        sync.Mutex
	loaded    bool
	byAddress map[string]domain.ListedToken

	fetch  func(ctx context.Context) ([]domain.ListedToken, error)
	cache  cache.Store
	logger *log.Logger
}

// TokenListOptions configures the bulk fallback list.
type TokenListOptions struct {
	URL        string
	HTTPClient *http.Client
	Cache      cache.Store // optional; persists the list across restarts
	Logger     *log.Logger

	// Fetch overrides the HTTP download, for tests.
	Fetch func(ctx context.Context) ([]domain.ListedToken, error)
}

// NewTokenList creates the fallback list service.
func NewTokenList(opts TokenListOptions) *TokenList {
	if opts.URL == "" {
		opts.URL = defaultJupiterListURL
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{Timeout: defaultHTTPTimeout}
	}
	if opts.Logger == nil {
		opts.Logger = log.New(os.Stdout, "[jupiter] ", log.LstdFlags)
	}
	l := &TokenList{
		cache:  opts.Cache,
		logger: opts.Logger,
		fetch:  opts.Fetch,
	}
	if l.fetch == nil {
		url, httpc := opts.URL, opts.HTTPClient
		l.fetch = func(ctx context.Context) ([]domain.ListedToken, error) {
			var tokens []domain.ListedToken
			if err := getJSON(ctx, httpc, url, &tokens); err != nil {
				return nil, fmt.Errorf("fetch token list: %w", err)
			}
			return tokens, nil
		}
	}
	return l
}

// Lookup returns the listed token for a mint, or nil when the mint is
// not in the list or the list could not be loaded.
func (l *TokenList) Lookup(ctx context.Context, mint string) *domain.ListedToken {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.loaded {
		l.load(ctx)
	}
	if !l.loaded {
		return nil
	}
	t, ok := l.byAddress[mint]
	if !ok {
		return nil
	}
	return &t
}

// load populates the list from cache or upstream. Caller holds l.mu.
func (l *TokenList) load(ctx context.Context) {
	if l.cache != nil {
		if cached, ok, err := l.cache.Get(ctx, listCacheKey); err == nil && ok {
			var tokens []domain.ListedToken
			if err := json.Unmarshal([]byte(cached), &tokens); err == nil {
				l.index(tokens)
				observability.RecordCacheOp("get", "hit")
				return
			}
		}
	}

	start := time.Now()
	tokens, err := l.fetch(ctx)
	observability.RecordSourceRequest("jupiter_list", err, time.Since(start).Seconds())
	if err != nil {
		l.logger.Printf("token list load failed: %v", err)
		return
	}
	l.index(tokens)
	l.logger.Printf("token list loaded, %d entries", len(tokens))

	if l.cache != nil {
		if b, err := json.Marshal(tokens); err == nil {
			if err := l.cache.Set(ctx, listCacheKey, string(b), listCacheTTL); err != nil {
				l.logger.Printf("token list cache set failed: %v", err)
			}
		}
	}
}

func (l *TokenList) index(tokens []domain.ListedToken) {
	l.byAddress = make(map[string]domain.ListedToken, len(tokens))
	for _, t := range tokens {
		l.byAddress[t.Address] = t
	}
	l.loaded = true
}

// Loaded reports whether the list has been populated.
func (l *TokenList) Loaded() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.loaded
}
