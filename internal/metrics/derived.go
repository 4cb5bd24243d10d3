// Package metrics computes derived values from merged records: supply
// percentages, holder-distribution buckets, the FUD score, and the
// display formatting rules for missing data.
package metrics

import (
	"math"

	"solana-token-scanner/internal/domain"
)

// PercentOfSupply returns amount/supply*100. The second return is false
// when the percentage is undefined (supply not positive or a non-finite
// result); callers render "N/A" in that case.
func PercentOfSupply(amount, supply float64) (float64, bool) {
	if supply <= 0 {
		return 0, false
	}
	pct := amount / supply * 100
	if math.IsNaN(pct) || math.IsInf(pct, 0) {
		return 0, false
	}
	return pct, true
}

// ComputeDistribution buckets holder percentages. Whale > 1%, dolphin
// in [0.1%, 1%], fish < 0.1%. The buckets are mutually exclusive and
// exhaustive, so the counts always sum to len(percentages).
func ComputeDistribution(percentages []float64) domain.Distribution {
	var d domain.Distribution
	for _, pct := range percentages {
		switch {
		case pct > 1:
			d.Whales++
		case pct >= 0.1:
			d.Dolphins++
		default:
			d.Fish++
		}
	}
	return d
}

// centralizedNames is the denylist of token names flagged as
// centralized in the list view.
var centralizedNames = map[string]bool{
	"Unicoin": true,
}

// IsCentralized reports whether any of the given names is on the
// centralized-token denylist. Nil entries are skipped.
func IsCentralized(names ...*string) bool {
	for _, n := range names {
		if n != nil && centralizedNames[*n] {
			return true
		}
	}
	return false
}
