// Package enrich folds source fragments into complete token records:
// the merge engine, the per-entity stage pipeline, and the batch
// fan-out across a seed list.
package enrich

import (
	"solana-token-scanner/internal/domain"
)

// fragmentRule merges one Fragment field. The rules form the single
// declarative precedence table for the token shape; tests enumerate it
// instead of hand-listing fields.
type fragmentRule struct {
	name  string
	merge func(dst, src *domain.Fragment)
	isSet func(f *domain.Fragment) bool
}

func strRule(name string, field func(*domain.Fragment) **string) fragmentRule {
	return fragmentRule{
		name: name,
		merge: func(dst, src *domain.Fragment) {
			if *field(dst) == nil {
				*field(dst) = *field(src)
			}
		},
		isSet: func(f *domain.Fragment) bool { return *field(f) != nil },
	}
}

func floatRule(name string, field func(*domain.Fragment) **float64) fragmentRule {
	return fragmentRule{
		name: name,
		merge: func(dst, src *domain.Fragment) {
			if *field(dst) == nil {
				*field(dst) = *field(src)
			}
		},
		isSet: func(f *domain.Fragment) bool { return *field(f) != nil },
	}
}

func intRule(name string, field func(*domain.Fragment) **int) fragmentRule {
	return fragmentRule{
		name: name,
		merge: func(dst, src *domain.Fragment) {
			if *field(dst) == nil {
				*field(dst) = *field(src)
			}
		},
		isSet: func(f *domain.Fragment) bool { return *field(f) != nil },
	}
}

var fragmentRules = []fragmentRule{
	strRule("name", func(f *domain.Fragment) **string { return &f.Name }),
	strRule("symbol", func(f *domain.Fragment) **string { return &f.Symbol }),
	strRule("image", func(f *domain.Fragment) **string { return &f.Image }),
	strRule("description", func(f *domain.Fragment) **string { return &f.Description }),
	intRule("decimals", func(f *domain.Fragment) **int { return &f.Decimals }),
	floatRule("priceUsd", func(f *domain.Fragment) **float64 { return &f.PriceUSD }),
	floatRule("priceChange24h", func(f *domain.Fragment) **float64 { return &f.PriceChange24h }),
	floatRule("priceChange5m", func(f *domain.Fragment) **float64 { return &f.PriceChange5m }),
	floatRule("volume24h", func(f *domain.Fragment) **float64 { return &f.Volume24h }),
	floatRule("liquidity", func(f *domain.Fragment) **float64 { return &f.Liquidity }),
	floatRule("marketCap", func(f *domain.Fragment) **float64 { return &f.MarketCap }),
	floatRule("fdv", func(f *domain.Fragment) **float64 { return &f.FDV }),
	strRule("pairAddress", func(f *domain.Fragment) **string { return &f.PairAddress }),
	strRule("dexId", func(f *domain.Fragment) **string { return &f.DexID }),
	strRule("pairUrl", func(f *domain.Fragment) **string { return &f.PairURL }),
}

// Merge folds incoming into existing. For every field the existing
// value wins when set; a field set by a higher-priority source is never
// overwritten or unset.
func Merge(existing, incoming domain.Fragment) domain.Fragment {
	out := existing
	for _, r := range fragmentRules {
		r.merge(&out, &incoming)
	}
	return out
}

// FieldNames lists the fields the merge table covers, in rule order.
func FieldNames() []string {
	names := make([]string, len(fragmentRules))
	for i, r := range fragmentRules {
		names[i] = r.name
	}
	return names
}

// FieldSet reports, per field name, whether the fragment has that field
// set. Used by tests to verify the table covers the whole type.
func FieldSet(f domain.Fragment) map[string]bool {
	set := make(map[string]bool, len(fragmentRules))
	for _, r := range fragmentRules {
		set[r.name] = r.isSet(&f)
	}
	return set
}

// marketRule merges one MarketInfo field, same first-non-nil-wins
// semantics as the fragment table.
type marketRule struct {
	name  string
	merge func(dst, src *domain.MarketInfo)
}

func marketFloatRule(name string, field func(*domain.MarketInfo) **float64) marketRule {
	return marketRule{
		name: name,
		merge: func(dst, src *domain.MarketInfo) {
			if *field(dst) == nil {
				*field(dst) = *field(src)
			}
		},
	}
}

var marketRules = []marketRule{
	marketFloatRule("price", func(m *domain.MarketInfo) **float64 { return &m.Price }),
	marketFloatRule("marketCap", func(m *domain.MarketInfo) **float64 { return &m.MarketCap }),
	marketFloatRule("volume24h", func(m *domain.MarketInfo) **float64 { return &m.Volume24h }),
	marketFloatRule("priceChange24h", func(m *domain.MarketInfo) **float64 { return &m.PriceChange24h }),
	marketFloatRule("priceChange24hPercent", func(m *domain.MarketInfo) **float64 { return &m.PriceChange24hPercent }),
	marketFloatRule("supply", func(m *domain.MarketInfo) **float64 { return &m.Supply }),
	{
		name: "chartData",
		merge: func(dst, src *domain.MarketInfo) {
			if len(dst.Chart) == 0 {
				dst.Chart = src.Chart
			}
		},
	},
}

// MergeMarket folds incoming market data into existing, first source to
// supply a field wins.
func MergeMarket(existing, incoming domain.MarketInfo) domain.MarketInfo {
	out := existing
	for _, r := range marketRules {
		r.merge(&out, &incoming)
	}
	return out
}
