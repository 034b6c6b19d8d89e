package sales

import (
	"errors"
	"sort"
)

// ErrNoRows is returned when aggregation receives nothing to roll up.
var ErrNoRows = errors.New("no sales rows to aggregate")

// Bucket is one dimension value's roll-up. Revenue stays keyed by
// currency; amounts in different currencies are never summed together.
// SKU and Category are only populated in the by-product dimension.
type Bucket struct {
	Units    int
	Revenue  map[string]float64
	Orders   int
	SKU      string
	Category string

	orderSet map[string]struct{}
}

func newBucket() *Bucket {
	return &Bucket{
		Revenue:  make(map[string]float64),
		orderSet: make(map[string]struct{}),
	}
}

func (b *Bucket) add(row Row) {
	b.Units += row.Quantity
	b.Revenue[row.Currency] += row.LineTotal
	b.orderSet[row.OrderNumber] = struct{}{}
}

// PrimaryRevenue returns the bucket's revenue in the given currency,
// zero when the bucket never saw it.
func (b *Bucket) PrimaryRevenue(currency string) float64 {
	return b.Revenue[currency]
}

// Summary is the full roll-up of one normalized row set.
type Summary struct {
	TotalUnits        int
	RevenueByCurrency map[string]float64
	PrimaryCurrency   string
	TotalOrders       int
	UniqueProducts    int
	UniqueSKUs        int
	FirstSale         string
	LastSale          string

	ByCategory map[string]*Bucket
	ByShow     map[string]*Bucket
	ByProduct  map[string]*Bucket
	ByMonth    map[string]*Bucket
	ByQuarter  map[string]*Bucket
	ByYear     map[string]*Bucket
	ByCountry  map[string]*Bucket
	ByChannel  map[string]*Bucket
}

// Aggregate rolls normalized rows up across every reporting dimension.
// The primary currency is the one with the greatest total revenue (ties
// break lexicographically); it is used for sorting and percentage
// display only, never for conversion.
func Aggregate(rows []Row) (*Summary, error) {
	if len(rows) == 0 {
		return nil, ErrNoRows
	}

	s := &Summary{
		RevenueByCurrency: make(map[string]float64),
		ByCategory:        make(map[string]*Bucket),
		ByShow:            make(map[string]*Bucket),
		ByProduct:         make(map[string]*Bucket),
		ByMonth:           make(map[string]*Bucket),
		ByQuarter:         make(map[string]*Bucket),
		ByYear:            make(map[string]*Bucket),
		ByCountry:         make(map[string]*Bucket),
		ByChannel:         make(map[string]*Bucket),
	}

	orders := make(map[string]struct{})
	products := make(map[string]struct{})
	skus := make(map[string]struct{})

	for _, row := range rows {
		s.TotalUnits += row.Quantity
		s.RevenueByCurrency[row.Currency] += row.LineTotal
		orders[row.OrderNumber] = struct{}{}
		products[row.ProductTitle] = struct{}{}
		if row.SKU != "" {
			skus[row.SKU] = struct{}{}
		}

		if s.FirstSale == "" || row.OrderDateFormatted < s.FirstSale {
			s.FirstSale = row.OrderDateFormatted
		}
		if row.OrderDateFormatted > s.LastSale {
			s.LastSale = row.OrderDateFormatted
		}

		bucketFor(s.ByCategory, row.Category).add(row)
		bucketFor(s.ByShow, row.ShowName).add(row)
		bucketFor(s.ByMonth, row.Month).add(row)
		bucketFor(s.ByQuarter, row.Quarter).add(row)
		bucketFor(s.ByYear, row.Year).add(row)

		prod := bucketFor(s.ByProduct, row.ProductTitle)
		prod.add(row)
		prod.SKU = row.SKU
		prod.Category = row.Category

		country := row.Country
		if country == "" {
			country = "Unknown"
		}
		bucketFor(s.ByCountry, country).add(row)

		channel := row.SalesChannel
		if channel == "" {
			channel = "web"
		}
		bucketFor(s.ByChannel, channel).add(row)
	}

	s.TotalOrders = len(orders)
	s.UniqueProducts = len(products)
	s.UniqueSKUs = len(skus)
	s.PrimaryCurrency = primaryCurrency(s.RevenueByCurrency)

	for _, dim := range []map[string]*Bucket{
		s.ByCategory, s.ByShow, s.ByProduct, s.ByMonth,
		s.ByQuarter, s.ByYear, s.ByCountry, s.ByChannel,
	} {
		for _, b := range dim {
			b.Orders = len(b.orderSet)
		}
	}

	return s, nil
}

func bucketFor(dim map[string]*Bucket, key string) *Bucket {
	b, ok := dim[key]
	if !ok {
		b = newBucket()
		dim[key] = b
	}
	return b
}

func primaryCurrency(revenue map[string]float64) string {
	primary := ""
	for currency, amount := range revenue {
		if primary == "" {
			primary = currency
			continue
		}
		if amount > revenue[primary] || (amount == revenue[primary] && currency < primary) {
			primary = currency
		}
	}
	return primary
}

// KeysByRevenue sorts a dimension's keys descending by revenue in the
// primary currency, breaking ties lexicographically so output order is
// stable run to run.
func KeysByRevenue(dim map[string]*Bucket, primary string) []string {
	keys := make([]string, 0, len(dim))
	for k := range dim {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		ri, rj := dim[keys[i]].PrimaryRevenue(primary), dim[keys[j]].PrimaryRevenue(primary)
		if ri != rj {
			return ri > rj
		}
		return keys[i] < keys[j]
	})
	return keys
}

// SortedKeys returns a dimension's keys in plain ascending order, for
// time-series output.
func SortedKeys(dim map[string]*Bucket) []string {
	keys := make([]string, 0, len(dim))
	for k := range dim {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
