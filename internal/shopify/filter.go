package shopify

import (
	"strconv"
	"strings"
)

// Filter narrows an already-fetched order slice on attributes the Admin
// API cannot filter server-side. Zero values disable the corresponding
// check.
type Filter struct {
	Price     *float64 // exact total price
	MinPrice  *float64
	MaxPrice  *float64
	FromOrder string // inclusive start, by order name
	ToOrder   string // inclusive end, by order name
	Tag       string // exact tag match within the comma-separated tag list
	Email     string // case-insensitive substring of the customer email
}

// Apply returns the orders passing every configured check. Input order
// is preserved. FromOrder/ToOrder slice the listing positionally, which
// assumes the input is sorted the way the API returned it; an unmatched
// FromOrder name leaves the listing untouched.
func (f Filter) Apply(orders []Order) []Order {
	out := orders

	if f.FromOrder != "" {
		if i := indexByName(out, f.FromOrder); i >= 0 {
			out = out[i:]
		}
	}
	if f.ToOrder != "" {
		if i := indexByName(out, f.ToOrder); i >= 0 {
			out = out[:i+1]
		}
	}

	filtered := make([]Order, 0, len(out))
	for _, o := range out {
		total := parsePrice(o.TotalPrice)
		if f.Price != nil && total != *f.Price {
			continue
		}
		if f.MinPrice != nil && total < *f.MinPrice {
			continue
		}
		if f.MaxPrice != nil && total > *f.MaxPrice {
			continue
		}
		if f.Tag != "" && !hasTag(o.Tags, f.Tag) {
			continue
		}
		if f.Email != "" && !strings.Contains(strings.ToLower(o.Email), strings.ToLower(f.Email)) {
			continue
		}
		filtered = append(filtered, o)
	}
	return filtered
}

func indexByName(orders []Order, name string) int {
	for i, o := range orders {
		if o.Name == name {
			return i
		}
	}
	return -1
}

func hasTag(tags, want string) bool {
	for _, t := range strings.Split(tags, ",") {
		if strings.TrimSpace(t) == want {
			return true
		}
	}
	return false
}

func parsePrice(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return v
}
