package domain

// Fragment is the partial token view returned by a single source
// adapter. Every adapter fills only the fields it can supply; the rest
// stay nil. Fragments are folded in precedence order, first non-nil
// value wins.
type Fragment struct {
	Name        *string
	Symbol      *string
	Image       *string
	Description *string
	Decimals    *int

	PriceUSD       *float64
	PriceChange24h *float64
	PriceChange5m  *float64
	Volume24h      *float64
	Liquidity      *float64
	MarketCap      *float64
	FDV            *float64

	PairAddress *string
	DexID       *string
	PairURL     *string
}

// IsEmpty reports whether no field of the fragment is set.
func (f Fragment) IsEmpty() bool {
	return f == Fragment{}
}

// ListedToken is one entry of the bulk fallback token list.
type ListedToken struct {
	Address  string `json:"address"`
	Name     string `json:"name"`
	Symbol   string `json:"symbol"`
	LogoURI  string `json:"logoURI"`
	Decimals int    `json:"decimals"`
}
