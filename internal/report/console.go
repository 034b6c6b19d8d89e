// Package report renders summaries for terminal output. Formatting
// only; every number is computed upstream.
package report

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"salesflow/internal/compare"
	"salesflow/internal/sales"
	"salesflow/internal/shopify"
)

const lineWidth = 80

func header(w io.Writer, title string) {
	fmt.Fprintln(w, strings.Repeat("=", lineWidth))
	fmt.Fprintln(w, title)
	fmt.Fprintln(w, strings.Repeat("=", lineWidth))
	fmt.Fprintln(w)
}

func section(w io.Writer, title string) {
	fmt.Fprintln(w, title)
	fmt.Fprintln(w, strings.Repeat("-", 40))
}

// WriteSalesReport prints the executive summary: overall metrics, the
// category/show/geo/channel roll-ups and the top products.
func WriteSalesReport(w io.Writer, s *sales.Summary) {
	primary := s.PrimaryCurrency
	primaryTotal := s.RevenueByCurrency[primary]
	pct := func(rev map[string]float64) float64 {
		if primaryTotal <= 0 {
			return 0
		}
		return rev[primary] / primaryTotal * 100
	}

	header(w, "FULL SALES ANALYSIS - EXECUTIVE SUMMARY")

	section(w, "OVERALL METRICS")
	fmt.Fprintf(w, "  Total Units Sold:       %d\n", s.TotalUnits)
	fmt.Fprintf(w, "  Total Revenue:          %s\n", FormatRevenue(s.RevenueByCurrency))
	fmt.Fprintf(w, "  Total Orders:           %d\n", s.TotalOrders)
	fmt.Fprintf(w, "  Unique Products:        %d\n", s.UniqueProducts)
	fmt.Fprintf(w, "  Unique SKUs:            %d\n", s.UniqueSKUs)
	fmt.Fprintf(w, "  Date Range:             %s to %s\n", s.FirstSale, s.LastSale)
	fmt.Fprintln(w)

	section(w, "SALES BY CATEGORY")
	for _, cat := range sales.KeysByRevenue(s.ByCategory, primary) {
		b := s.ByCategory[cat]
		fmt.Fprintf(w, "  %s\n", cat)
		fmt.Fprintf(w, "    Units: %d  |  Revenue: %s  |  %.1f%%\n", b.Units, FormatRevenue(b.Revenue), pct(b.Revenue))
	}
	fmt.Fprintln(w)

	section(w, "TOP 10 SHOWS/FRANCHISES")
	for _, show := range top(sales.KeysByRevenue(s.ByShow, primary), 10) {
		b := s.ByShow[show]
		fmt.Fprintf(w, "  %s: %d units  |  %s  |  %.1f%%\n", show, b.Units, FormatRevenue(b.Revenue), pct(b.Revenue))
	}
	fmt.Fprintln(w)

	section(w, "SALES BY YEAR")
	for _, year := range sales.SortedKeys(s.ByYear) {
		b := s.ByYear[year]
		fmt.Fprintf(w, "  %s: %d units  |  %s  |  %d orders\n", year, b.Units, FormatRevenue(b.Revenue), b.Orders)
	}
	fmt.Fprintln(w)

	section(w, "SALES BY QUARTER (Last 8)")
	quarters := sales.SortedKeys(s.ByQuarter)
	if len(quarters) > 8 {
		quarters = quarters[len(quarters)-8:]
	}
	for _, quarter := range quarters {
		b := s.ByQuarter[quarter]
		fmt.Fprintf(w, "  %s: %d units  |  %s  |  %d orders\n", quarter, b.Units, FormatRevenue(b.Revenue), b.Orders)
	}
	fmt.Fprintln(w)

	section(w, "TOP 10 COUNTRIES")
	for _, country := range top(sales.KeysByRevenue(s.ByCountry, primary), 10) {
		b := s.ByCountry[country]
		fmt.Fprintf(w, "  %s: %d units  |  %s  |  %.1f%%\n", country, b.Units, FormatRevenue(b.Revenue), pct(b.Revenue))
	}
	fmt.Fprintln(w)

	section(w, "SALES CHANNELS")
	for _, channel := range sales.KeysByRevenue(s.ByChannel, primary) {
		b := s.ByChannel[channel]
		fmt.Fprintf(w, "  %s: %d units  |  %s  |  %.1f%%\n", channel, b.Units, FormatRevenue(b.Revenue), pct(b.Revenue))
	}
	fmt.Fprintln(w)

	section(w, "TOP 15 PRODUCTS BY REVENUE")
	for _, prod := range top(sales.KeysByRevenue(s.ByProduct, primary), 15) {
		b := s.ByProduct[prod]
		fmt.Fprintf(w, "  %s\n", truncate(prod, 50))
		fmt.Fprintf(w, "    %d units  |  %s  |  [%s]\n", b.Units, FormatRevenue(b.Revenue), b.Category)
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, strings.Repeat("=", lineWidth))
}

// WriteOrderSummary prints count, amount-by-currency and status
// breakdowns for a raw order listing.
func WriteOrderSummary(w io.Writer, orders []shopify.Order) {
	if len(orders) == 0 {
		fmt.Fprintln(w, "No orders to display")
		return
	}

	header(w, "ORDER SUMMARY")

	amounts := make(map[string]float64)
	financial := make(map[string]int)
	fulfillment := make(map[string]int)
	for _, o := range orders {
		currency := o.Currency
		if currency == "" {
			currency = "USD"
		}
		amounts[currency] += parsePrice(o.TotalPrice)

		fin := o.FinancialStatus
		if fin == "" {
			fin = "unknown"
		}
		financial[fin]++

		ful := o.FulfillmentStatus
		if ful == "" {
			ful = "unfulfilled"
		}
		fulfillment[ful]++
	}

	fmt.Fprintf(w, "Total Orders: %d\n", len(orders))
	fmt.Fprintf(w, "Total Amount: %s\n", FormatRevenue(amounts))

	fmt.Fprintln(w, "\nFinancial Status:")
	for _, status := range sortedStatusKeys(financial) {
		fmt.Fprintf(w, "  %s: %d\n", status, financial[status])
	}

	fmt.Fprintln(w, "\nFulfillment Status:")
	for _, status := range sortedStatusKeys(fulfillment) {
		fmt.Fprintf(w, "  %s: %d\n", status, fulfillment[status])
	}

	fmt.Fprintln(w, "\nOrder Range:")
	fmt.Fprintf(w, "  First: %s - %s\n", orders[0].Name, orders[0].CreatedAt)
	fmt.Fprintf(w, "  Last: %s - %s\n", orders[len(orders)-1].Name, orders[len(orders)-1].CreatedAt)
	fmt.Fprintln(w)
	fmt.Fprintln(w, strings.Repeat("=", lineWidth))
}

// WriteCompareReport prints the SKU reconciliation.
func WriteCompareReport(w io.Writer, r *compare.Report) {
	header(w, "SHOPIFY / AMPLIFIER SKU RECONCILIATION")

	fmt.Fprintf(w, "Shopify SKUs:           %d\n", len(r.Shopify))
	fmt.Fprintf(w, "Amplifier SKUs:         %d\n", len(r.Amplifier))
	fmt.Fprintf(w, "SKUs in both systems:   %d\n", len(r.Both))
	fmt.Fprintf(w, "Only in Shopify:        %d\n", len(r.OnlyShopify))
	fmt.Fprintf(w, "Only in Amplifier:      %d\n", len(r.OnlyAmplifier))
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Shopify Total Inventory:   %d units\n", r.ShopifyInventory)
	fmt.Fprintf(w, "Amplifier Total Inventory: %d units\n", r.AmplifierInventory)
	fmt.Fprintln(w)

	if len(r.OnlyShopify) > 0 {
		section(w, "ONLY IN SHOPIFY (first 10)")
		for _, sku := range top(r.OnlyShopify, 10) {
			e := r.Shopify[sku]
			fmt.Fprintf(w, "  %s  |  %s  |  inventory %d\n", sku, e.ProductTitle, e.Inventory)
		}
		fmt.Fprintln(w)
	}

	if len(r.OnlyAmplifier) > 0 {
		section(w, "ONLY IN AMPLIFIER (first 10)")
		for _, sku := range top(r.OnlyAmplifier, 10) {
			e := r.Amplifier[sku]
			fmt.Fprintf(w, "  %s  |  %s  |  on hand %d\n", sku, e.Name, e.OnHand)
		}
		fmt.Fprintln(w)
	}

	if len(r.Mismatches) > 0 {
		section(w, "INVENTORY MISMATCHES")
		for _, m := range r.Mismatches {
			fmt.Fprintf(w, "  %s  |  shopify %d  |  amplifier %d\n", m.SKU, m.ShopifyQty, m.AmplifierQty)
		}
		fmt.Fprintln(w)
	}
	fmt.Fprintln(w, strings.Repeat("=", lineWidth))
}

func top(keys []string, n int) []string {
	if len(keys) > n {
		return keys[:n]
	}
	return keys
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

func sortedStatusKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func parsePrice(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return v
}
