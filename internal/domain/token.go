// Package domain defines the entity types shared across the scanner:
// token records built by the enrichment pipeline, per-token analysis
// results, and holder profiles. Fields that may be missing upstream are
// pointers; merge logic treats nil as "not yet resolved".
package domain

// TokenSeed is the minimal identity a token enters the pipeline with.
// It corresponds to one entry of the DexScreener token-profiles feed.
type TokenSeed struct {
	Address     string  // mint address, may be empty for malformed feed rows
	URL         *string // profile page URL
	Icon        *string
	Header      *string
	Description *string
	Links       []ProfileLink
}

// ProfileLink is a social/website link attached to a token profile.
type ProfileLink struct {
	Type  string `json:"type,omitempty"`
	Label string `json:"label,omitempty"`
	URL   string `json:"url"`
}

// PriceData holds market fields for the list view. All fields come from
// the best trading pair of the token and are independently nullable.
type PriceData struct {
	PriceUSD       *float64 `json:"price,omitempty"`
	PriceChange24h *float64 `json:"priceChange24h,omitempty"`
	PriceChange5m  *float64 `json:"priceChange5m,omitempty"`
	Volume24h      *float64 `json:"volume24h,omitempty"`
	Liquidity      *float64 `json:"liquidity,omitempty"`
	MarketCap      *float64 `json:"marketCap,omitempty"`
	FDV            *float64 `json:"fdv,omitempty"`
	PairAddress    *string  `json:"pairAddress,omitempty"`
	DexID          *string  `json:"dexId,omitempty"`
	PairURL        *string  `json:"url,omitempty"`
}

// TokenRecord is the fully enriched list-view entity. The pipeline
// always produces one per seed, however little data survived.
type TokenRecord struct {
	Address     string  `json:"address"`
	Name        *string `json:"name,omitempty"`
	Symbol      *string `json:"symbol,omitempty"`
	Icon        *string `json:"icon,omitempty"`
	Description *string `json:"description,omitempty"`
	Decimals    *int    `json:"decimals,omitempty"`

	// Display fields are resolved through the source precedence chain
	// and fall back to a truncated-address placeholder. They are never
	// empty in rendered output.
	DisplayName   string `json:"displayName"`
	DisplaySymbol string `json:"displaySymbol"`
	DisplayImage  string `json:"displayImage"`

	PriceData        *PriceData `json:"priceData,omitempty"`
	HistoricalPrices []float64  `json:"historicalPrices"`

	FudScore      int  `json:"fudScore"`
	IsCentralized bool `json:"isCentralized"`

	ProfileURL *string       `json:"profileUrl,omitempty"`
	Links      []ProfileLink `json:"links,omitempty"`
}

// HasSignal reports whether the record carries at least one meaningful
// field. Zero-signal records are dropped from batch output.
func (t *TokenRecord) HasSignal() bool {
	if t == nil {
		return false
	}
	if t.Address != "" {
		return true
	}
	if t.Name != nil && *t.Name != "" {
		return true
	}
	return t.PriceData != nil && t.PriceData.PriceUSD != nil
}
