// Package export renders normalized rows and summaries to CSV, JSON and
// Parquet, with optional upload of the artifacts to S3.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"salesflow/internal/report"
	"salesflow/internal/sales"
	"salesflow/internal/shopify"
)

// WriteDetailedCSV writes every normalized line item, oldest first.
func WriteDetailedCSV(w io.Writer, rows []sales.Row) error {
	sorted := make([]sales.Row, len(rows))
	copy(sorted, rows)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].OrderDate < sorted[j].OrderDate })

	cw := csv.NewWriter(w)
	if err := cw.Write([]string{
		"Order Number", "Order Date", "Month", "Quarter", "Year",
		"Category", "Show/Franchise", "Product Title", "Variant", "SKU", "Vendor",
		"Quantity", "Unit Price", "Line Total", "Currency",
		"Country", "State", "City", "Sales Channel", "Fulfillment Status",
	}); err != nil {
		return err
	}
	for _, r := range sorted {
		if err := cw.Write([]string{
			r.OrderNumber, r.OrderDateFormatted, r.Month, r.Quarter, r.Year,
			r.Category, r.ShowName, r.ProductTitle, r.VariantTitle, r.SKU, r.Vendor,
			strconv.Itoa(r.Quantity), fmt.Sprintf("%.2f", r.UnitPrice), fmt.Sprintf("%.2f", r.LineTotal), r.Currency,
			r.Country, r.State, r.City, r.SalesChannel, r.FulfillmentStatus,
		}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteProductCSV writes the product roll-up, best seller first.
func WriteProductCSV(w io.Writer, s *sales.Summary) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"Product", "SKU", "Category", "Units Sold", "Revenue", "Orders"}); err != nil {
		return err
	}
	for _, name := range sales.KeysByRevenue(s.ByProduct, s.PrimaryCurrency) {
		b := s.ByProduct[name]
		if err := cw.Write([]string{
			name, b.SKU, b.Category,
			strconv.Itoa(b.Units), report.FormatRevenue(b.Revenue), strconv.Itoa(b.Orders),
		}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteCategoryCSV writes the category, show, country and channel
// roll-ups as labeled sections of one file.
func WriteCategoryCSV(w io.Writer, s *sales.Summary) error {
	cw := csv.NewWriter(w)
	primaryTotal := s.RevenueByCurrency[s.PrimaryCurrency]

	pct := func(rev map[string]float64) string {
		if primaryTotal <= 0 {
			return "0.0%"
		}
		return fmt.Sprintf("%.1f%%", rev[s.PrimaryCurrency]/primaryTotal*100)
	}

	write := func(record ...string) error { return cw.Write(record) }

	if err := write("SALES BY CATEGORY"); err != nil {
		return err
	}
	if err := write("Category", "Units", "Revenue", "% of Total", "Orders"); err != nil {
		return err
	}
	for _, cat := range sales.KeysByRevenue(s.ByCategory, s.PrimaryCurrency) {
		b := s.ByCategory[cat]
		if err := write(cat, strconv.Itoa(b.Units), report.FormatRevenue(b.Revenue), pct(b.Revenue), strconv.Itoa(b.Orders)); err != nil {
			return err
		}
	}
	if err := write(); err != nil {
		return err
	}
	if err := write("TOTALS", strconv.Itoa(s.TotalUnits), report.FormatRevenue(s.RevenueByCurrency), "100%", strconv.Itoa(s.TotalOrders)); err != nil {
		return err
	}

	if err := write(); err != nil {
		return err
	}
	if err := write("SALES BY SHOW/FRANCHISE"); err != nil {
		return err
	}
	if err := write("Show", "Units", "Revenue", "% of Total", "Orders"); err != nil {
		return err
	}
	for _, show := range sales.KeysByRevenue(s.ByShow, s.PrimaryCurrency) {
		b := s.ByShow[show]
		if err := write(show, strconv.Itoa(b.Units), report.FormatRevenue(b.Revenue), pct(b.Revenue), strconv.Itoa(b.Orders)); err != nil {
			return err
		}
	}

	if err := write(); err != nil {
		return err
	}
	if err := write("SALES BY COUNTRY"); err != nil {
		return err
	}
	if err := write("Country", "Units", "Revenue", "% of Total"); err != nil {
		return err
	}
	for _, country := range sales.KeysByRevenue(s.ByCountry, s.PrimaryCurrency) {
		b := s.ByCountry[country]
		if err := write(country, strconv.Itoa(b.Units), report.FormatRevenue(b.Revenue), pct(b.Revenue)); err != nil {
			return err
		}
	}

	if err := write(); err != nil {
		return err
	}
	if err := write("SALES BY CHANNEL"); err != nil {
		return err
	}
	if err := write("Channel", "Units", "Revenue", "% of Total"); err != nil {
		return err
	}
	for _, channel := range sales.KeysByRevenue(s.ByChannel, s.PrimaryCurrency) {
		b := s.ByChannel[channel]
		if err := write(channel, strconv.Itoa(b.Units), report.FormatRevenue(b.Revenue), pct(b.Revenue)); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteTrendsCSV writes the yearly, quarterly and monthly time series.
func WriteTrendsCSV(w io.Writer, s *sales.Summary) error {
	cw := csv.NewWriter(w)

	sections := []struct {
		title  string
		label  string
		bucket map[string]*sales.Bucket
	}{
		{"YEARLY SALES", "Year", s.ByYear},
		{"QUARTERLY SALES", "Quarter", s.ByQuarter},
		{"MONTHLY SALES", "Month", s.ByMonth},
	}
	for i, section := range sections {
		if i > 0 {
			if err := cw.Write([]string{}); err != nil {
				return err
			}
		}
		if err := cw.Write([]string{section.title}); err != nil {
			return err
		}
		if err := cw.Write([]string{section.label, "Units", "Revenue", "Orders"}); err != nil {
			return err
		}
		for _, key := range sales.SortedKeys(section.bucket) {
			b := section.bucket[key]
			if err := cw.Write([]string{key, strconv.Itoa(b.Units), report.FormatRevenue(b.Revenue), strconv.Itoa(b.Orders)}); err != nil {
				return err
			}
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteOrdersCSV writes a raw order listing (the order-fetch tool's
// export format).
func WriteOrdersCSV(w io.Writer, orders []shopify.Order) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{
		"Order Number", "Order Name", "Created At", "Total Price", "Currency",
		"Financial Status", "Fulfillment Status", "Customer Email", "Customer Name",
		"Items Count", "Tags", "Note",
	}); err != nil {
		return err
	}
	for _, o := range orders {
		name := ""
		if o.Customer != nil {
			name = strings.TrimSpace(o.Customer.FirstName + " " + o.Customer.LastName)
		}
		fulfillment := o.FulfillmentStatus
		if fulfillment == "" {
			fulfillment = "unfulfilled"
		}
		if err := cw.Write([]string{
			strconv.FormatInt(o.OrderNumber, 10), o.Name, o.CreatedAt, o.TotalPrice, o.Currency,
			o.FinancialStatus, fulfillment, o.Email, name,
			strconv.Itoa(len(o.LineItems)), o.Tags, o.Note,
		}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
