package domain

import "time"

// AccountType classifies a holder address.
type AccountType string

const (
	AccountWallet  AccountType = "wallet"
	AccountProgram AccountType = "program"
	AccountPDA     AccountType = "pda"
	// AccountExchange marks addresses from the known-address table
	// (DEX authorities, pools).
	AccountExchange AccountType = "exchange"
)

// HolderRecord is one row of the top-holder table. Ranks are dense
// 1-based integers ordered by descending balance over at most the top
// 50 entries the ranking API returns.
type HolderRecord struct {
	Rank       int     `json:"rank"`
	Address    string  `json:"address"`
	Amount     string  `json:"amount"`
	Percentage float64 `json:"percentage"`
}

// Distribution buckets the evaluated top-holder set by percentage of
// total supply. It is computed over the bounded top-holder sample, not
// the full holder population.
type Distribution struct {
	Whales   int `json:"whales"`
	Dolphins int `json:"dolphins"`
	Fish     int `json:"fish"`
}

// HolderSummary aggregates holder-side results of a token analysis.
type HolderSummary struct {
	// ActualHolderCount is the exact number of non-zero token accounts
	// found by full enumeration.
	ActualHolderCount int `json:"actualHolderCount"`
	// SampleSize is the number of entries the ranking API returned.
	SampleSize   int            `json:"totalHolders"`
	TopHolders   []HolderRecord `json:"topHolders"`
	Distribution Distribution   `json:"distribution"`
}

// SocialLinks holds resolved social handles for a holder.
type SocialLinks struct {
	Twitter *string `json:"twitter,omitempty"`
	Discord *string `json:"discord,omitempty"`
	Website *string `json:"website,omitempty"`
}

// HolderTransaction is one parsed history entry, most recent first.
type HolderTransaction struct {
	Signature   string  `json:"signature"`
	Slot        int64   `json:"slot"`
	BlockTime   *int64  `json:"blockTime,omitempty"`
	Type        string  `json:"type"`
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
	From        *string `json:"from,omitempty"`
	To          *string `json:"to,omitempty"`
	Fee         uint64  `json:"fee"`
	Status      string  `json:"status"`
}

// PortfolioItem is one non-zero holding of a holder.
type PortfolioItem struct {
	Mint     string  `json:"mint"`
	Balance  float64 `json:"balance"`
	Decimals int     `json:"decimals"`
	Account  string  `json:"address"`
}

// HolderProfile is the on-demand deep view of one holder. It is built
// when the holder is selected and never persisted.
type HolderProfile struct {
	Address      string              `json:"address"`
	Name         *string             `json:"name"`
	Avatar       *string             `json:"avatar,omitempty"`
	AccountType  AccountType         `json:"accountType"`
	IsContract   bool                `json:"isContract"`
	ProgramOwner *string             `json:"programOwner,omitempty"`
	Balance      float64             `json:"balance"`
	BalanceUSD   *float64            `json:"balanceUsd,omitempty"`
	SolBalance   float64             `json:"solBalance"`
	Domains      []string            `json:"domains"`
	Social       SocialLinks         `json:"socialLinks"`
	Transactions []HolderTransaction `json:"transactions"`
	Portfolio    []PortfolioItem     `json:"tokenPortfolio"`
	CreationDate *time.Time          `json:"creationDate,omitempty"`
	RiskScore    *int                `json:"riskScore,omitempty"`
}
