package metrics

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// NotAvailable is rendered for any undefined numeric display value.
const NotAvailable = "N/A"

// FormatNumber renders a large value with a K/M/B/T suffix. Nil and
// non-finite values render as "N/A".
func FormatNumber(n *float64) string {
	if n == nil || math.IsNaN(*n) || math.IsInf(*n, 0) {
		return NotAvailable
	}
	v := *n
	switch {
	case v >= 1e12:
		return fmt.Sprintf("%.2fT", v/1e12)
	case v >= 1e9:
		return fmt.Sprintf("%.2fB", v/1e9)
	case v >= 1e6:
		return fmt.Sprintf("%.2fM", v/1e6)
	case v >= 1e3:
		return fmt.Sprintf("%.2fK", v/1e3)
	default:
		return fmt.Sprintf("%.2f", v)
	}
}

// FormatPrice renders a USD price with tiered precision: two decimals
// at a dollar and above, four down to 0.0001, eight below that.
func FormatPrice(p *float64) string {
	if p == nil || math.IsNaN(*p) || math.IsInf(*p, 0) {
		return NotAvailable
	}
	v := *p
	switch {
	case v >= 1:
		return fmt.Sprintf("$%.2f", v)
	case v >= 0.0001:
		return fmt.Sprintf("$%.4f", v)
	default:
		return fmt.Sprintf("$%.8f", v)
	}
}

// FormatPercent renders a percentage with two decimals, "N/A" when
// undefined.
func FormatPercent(p *float64) string {
	if p == nil || math.IsNaN(*p) || math.IsInf(*p, 0) {
		return NotAvailable
	}
	return fmt.Sprintf("%.2f%%", *p)
}

// FormatAmount renders a token amount with thousands separators and at
// most two fraction digits, matching the holder table display.
func FormatAmount(amount float64) string {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return NotAvailable
	}
	s := strconv.FormatFloat(amount, 'f', 2, 64)
	s = strings.TrimRight(s, "0")
	s = strings.TrimRight(s, ".")

	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	intPart, fracPart := s, ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		intPart, fracPart = s[:i], s[i+1:]
	}

	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	for i, c := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(c)
	}
	if fracPart != "" {
		b.WriteByte('.')
		b.WriteString(fracPart)
	}
	return b.String()
}

// TruncateAddress shortens an address for display: first 6 and last 4
// characters.
func TruncateAddress(address string) string {
	if len(address) <= 12 {
		return address
	}
	return address[:6] + "..." + address[len(address)-4:]
}

// PlaceholderName is the display-name fallback when no source resolved
// a name for a token.
func PlaceholderName(address string) string {
	if address == "" {
		return "Unknown Token"
	}
	if len(address) > 8 {
		return "Token " + address[:8] + "..."
	}
	return "Token " + address
}

// PlaceholderImage is the display-image fallback: a deterministic
// identicon derived from the address.
func PlaceholderImage(address string) string {
	if address == "" {
		address = "unknown"
	}
	return "https://api.dicebear.com/7.x/identicon/svg?seed=" + address
}

// PlaceholderSymbol is the display-symbol fallback.
func PlaceholderSymbol(address string) string {
	if address == "" {
		return "???"
	}
	if len(address) > 4 {
		return strings.ToUpper(address[:4])
	}
	return strings.ToUpper(address)
}
