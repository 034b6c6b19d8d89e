package report

import (
	"fmt"
	"sort"
	"strings"
)

var currencySymbols = map[string]string{
	"USD": "$",
	"EUR": "€",
	"GBP": "£",
	"CAD": "C$",
	"AUD": "A$",
}

// FormatRevenue renders a per-currency revenue map as a single display
// string, largest amount first, e.g. "$1,204.00 + C$88.50". Amounts in
// different currencies are joined, never added.
func FormatRevenue(revenue map[string]float64) string {
	if len(revenue) == 0 {
		return "$0.00"
	}

	currencies := make([]string, 0, len(revenue))
	for c := range revenue {
		currencies = append(currencies, c)
	}
	sort.Slice(currencies, func(i, j int) bool {
		if revenue[currencies[i]] != revenue[currencies[j]] {
			return revenue[currencies[i]] > revenue[currencies[j]]
		}
		return currencies[i] < currencies[j]
	})

	parts := make([]string, 0, len(currencies))
	for _, c := range currencies {
		sym, ok := currencySymbols[c]
		if !ok {
			sym = c + " "
		}
		parts = append(parts, sym+formatAmount(revenue[c]))
	}
	return strings.Join(parts, " + ")
}

// formatAmount renders 1234567.5 as "1,234,567.50".
func formatAmount(v float64) string {
	s := fmt.Sprintf("%.2f", v)
	dot := strings.Index(s, ".")
	intPart, frac := s[:dot], s[dot:]

	neg := strings.HasPrefix(intPart, "-")
	if neg {
		intPart = intPart[1:]
	}
	var b strings.Builder
	for i, d := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(d)
	}
	out := b.String() + frac
	if neg {
		out = "-" + out
	}
	return out
}
