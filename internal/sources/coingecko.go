package sources

import (
	"context"
	"log"
	"net/http"
	"net/url"
	"os"
	"time"

	"solana-token-scanner/internal/observability"
)

const defaultCoinGeckoBaseURL = "https://api.coingecko.com/api/v3"

// CoinGeckoMarket holds the market fields the backup feed can supply.
type CoinGeckoMarket struct {
	Price             *float64
	MarketCap         *float64
	Volume24h         *float64
	PriceChangePct24h *float64
}

// CoinGecko is the backup link of the market chain. It resolves a mint
// to a coin id via search, then reads market data for that coin.
type CoinGecko struct {
	baseURL string
	httpc   *http.Client
	logger  *log.Logger
}

// CoinGeckoOptions configures the client.
type CoinGeckoOptions struct {
	BaseURL    string
	HTTPClient *http.Client
	Logger     *log.Logger
}

// NewCoinGecko creates a CoinGecko client.
func NewCoinGecko(opts CoinGeckoOptions) *CoinGecko {
	if opts.BaseURL == "" {
		opts.BaseURL = defaultCoinGeckoBaseURL
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{Timeout: defaultHTTPTimeout}
	}
	if opts.Logger == nil {
		opts.Logger = log.New(os.Stdout, "[coingecko] ", log.LstdFlags)
	}
	return &CoinGecko{baseURL: opts.BaseURL, httpc: opts.HTTPClient, logger: opts.Logger}
}

// Market returns whatever market fields CoinGecko knows for the mint,
// or nil when the mint is unknown or the feed is unavailable.
func (c *CoinGecko) Market(ctx context.Context, mint string) *CoinGeckoMarket {
	start := time.Now()

	var search struct {
		Coins []struct {
			ID string `json:"id"`
		} `json:"coins"`
	}
	if err := getJSON(ctx, c.httpc, c.baseURL+"/search?query="+url.QueryEscape(mint), &search); err != nil {
		observability.RecordSourceRequest("coingecko", err, time.Since(start).Seconds())
		c.logger.Printf("search failed for %s: %v", mint, err)
		return nil
	}
	if len(search.Coins) == 0 {
		observability.RecordSourceRequest("coingecko", nil, time.Since(start).Seconds())
		return nil
	}

	coinURL := c.baseURL + "/coins/" + url.PathEscape(search.Coins[0].ID) +
		"?localization=false&tickers=false&market_data=true&community_data=false&developer_data=false"

	var coin struct {
		MarketData *struct {
			CurrentPrice struct {
				USD *float64 `json:"usd"`
			} `json:"current_price"`
			MarketCap struct {
				USD *float64 `json:"usd"`
			} `json:"market_cap"`
			TotalVolume struct {
				USD *float64 `json:"usd"`
			} `json:"total_volume"`
			PriceChangePct24h *float64 `json:"price_change_percentage_24h"`
		} `json:"market_data"`
	}
	err := getJSON(ctx, c.httpc, coinURL, &coin)
	observability.RecordSourceRequest("coingecko", err, time.Since(start).Seconds())
	if err != nil {
		c.logger.Printf("coin lookup failed for %s: %v", mint, err)
		return nil
	}
	if coin.MarketData == nil {
		return nil
	}
	return &CoinGeckoMarket{
		Price:             coin.MarketData.CurrentPrice.USD,
		MarketCap:         coin.MarketData.MarketCap.USD,
		Volume24h:         coin.MarketData.TotalVolume.USD,
		PriceChangePct24h: coin.MarketData.PriceChangePct24h,
	}
}
