package domain

import "time"

// ChartPoint is one sample of a price-over-time series.
type ChartPoint struct {
	Time  time.Time `json:"time"`
	Price float64   `json:"price"`
}

// MarketInfo aggregates market data for the deep-dive view. Fields are
// filled by a chain of price sources; a later source only fills what
// earlier sources left nil.
type MarketInfo struct {
	Price                 *float64     `json:"price,omitempty"`
	MarketCap             *float64     `json:"marketCap,omitempty"`
	Volume24h             *float64     `json:"volume24h,omitempty"`
	PriceChange24h        *float64     `json:"priceChange24h,omitempty"`
	PriceChange24hPercent *float64     `json:"priceChange24hPercent,omitempty"`
	Supply                *float64     `json:"supply,omitempty"`
	Chart                 []ChartPoint `json:"chartData"`
}

// TokenMetadata is the resolved identity of a mint.
type TokenMetadata struct {
	Name        *string `json:"name"`
	Symbol      *string `json:"symbol"`
	Decimals    *int    `json:"decimals"`
	LogoURI     *string `json:"logoUri"`
	Description *string `json:"description"`
}

// TokenAnalysis is the result of the full deep-dive flow for one mint.
type TokenAnalysis struct {
	Mint     string        `json:"mint"`
	Metadata TokenMetadata `json:"tokenMetadata"`
	Market   MarketInfo    `json:"marketData"`
	Holders  HolderSummary `json:"holderData"`
}

// Progress reports deep-dive pipeline advancement to the caller.
type Progress struct {
	Step    int    `json:"step"`
	Total   int    `json:"total"`
	Message string `json:"message"`
}
