package sales

import (
	"errors"
	"testing"
)

func row(order, month, category, currency string, qty int, total float64) Row {
	return Row{
		OrderNumber:        order,
		OrderDateFormatted: month + "-01",
		Month:              month,
		Quarter:            month[:4] + "-Q1",
		Year:               month[:4],
		ProductTitle:       "Product " + category,
		SKU:                "SKU-" + category,
		Category:           category,
		ShowName:           "Some Show",
		Quantity:           qty,
		LineTotal:          total,
		Currency:           currency,
		Country:            "United States",
		SalesChannel:       "web",
	}
}

func TestAggregateEmpty(t *testing.T) {
	if _, err := Aggregate(nil); !errors.Is(err, ErrNoRows) {
		t.Fatalf("expected ErrNoRows, got %v", err)
	}
}

func TestAggregateCurrencyIsolation(t *testing.T) {
	rows := []Row{
		row("#1", "2024-01", "Program Books", "USD", 2, 24.00),
		row("#2", "2024-01", "Program Books", "EUR", 1, 15.00),
		row("#3", "2024-02", "Program Books", "USD", 1, 12.00),
	}
	s, err := Aggregate(rows)
	if err != nil {
		t.Fatalf("Aggregate failed: %v", err)
	}

	books := s.ByCategory["Program Books"]
	if books.Revenue["USD"] != 36.00 || books.Revenue["EUR"] != 15.00 {
		t.Fatalf("currencies combined or dropped: %v", books.Revenue)
	}
	if len(s.RevenueByCurrency) != 2 {
		t.Fatalf("expected 2 currencies, got %v", s.RevenueByCurrency)
	}
	if s.PrimaryCurrency != "USD" {
		t.Errorf("primary currency should be USD (36 > 15), got %q", s.PrimaryCurrency)
	}
}

func TestAggregatePrimaryCurrencyTie(t *testing.T) {
	rows := []Row{
		row("#1", "2024-01", "Other", "USD", 1, 10.00),
		row("#2", "2024-01", "Other", "EUR", 1, 10.00),
	}
	s, err := Aggregate(rows)
	if err != nil {
		t.Fatalf("Aggregate failed: %v", err)
	}
	if s.PrimaryCurrency != "EUR" {
		t.Errorf("tie should break lexicographically, got %q", s.PrimaryCurrency)
	}
}

func TestAggregateDistinctOrders(t *testing.T) {
	rows := []Row{
		row("#1", "2024-01", "Other", "USD", 1, 10.00),
		row("#1", "2024-01", "Stickers", "USD", 2, 6.00),
		row("#2", "2024-01", "Other", "USD", 1, 10.00),
	}
	s, err := Aggregate(rows)
	if err != nil {
		t.Fatalf("Aggregate failed: %v", err)
	}
	if s.TotalOrders != 2 {
		t.Errorf("expected 2 distinct orders, got %d", s.TotalOrders)
	}
	// Order #1 appears in two categories but counts once per bucket.
	if s.ByMonth["2024-01"].Orders != 2 {
		t.Errorf("month bucket order count: %d", s.ByMonth["2024-01"].Orders)
	}
	if s.ByCategory["Other"].Orders != 2 {
		t.Errorf("category bucket order count: %d", s.ByCategory["Other"].Orders)
	}
}

func TestAggregateTotalsAndDateRange(t *testing.T) {
	rows := []Row{
		row("#1", "2024-01", "Other", "USD", 2, 20.00),
		row("#2", "2024-03", "Other", "USD", 3, 30.00),
		row("#3", "2023-11", "Other", "USD", 1, 10.00),
	}
	s, err := Aggregate(rows)
	if err != nil {
		t.Fatalf("Aggregate failed: %v", err)
	}
	if s.TotalUnits != 6 {
		t.Errorf("total units: %d", s.TotalUnits)
	}
	if s.FirstSale != "2023-11-01" || s.LastSale != "2024-03-01" {
		t.Errorf("date range: %s .. %s", s.FirstSale, s.LastSale)
	}
	if s.UniqueProducts != 1 || s.UniqueSKUs != 1 {
		t.Errorf("uniques: products=%d skus=%d", s.UniqueProducts, s.UniqueSKUs)
	}
}

func TestKeysByRevenue(t *testing.T) {
	rows := []Row{
		row("#1", "2024-01", "Apparel", "USD", 1, 50.00),
		row("#2", "2024-01", "Books", "USD", 1, 80.00),
		// Zero revenue in the primary currency still appears.
		row("#3", "2024-01", "Imports", "EUR", 1, 500.00),
	}
	s, err := Aggregate(rows)
	if err != nil {
		t.Fatalf("Aggregate failed: %v", err)
	}
	keys := KeysByRevenue(s.ByCategory, s.PrimaryCurrency)
	if len(keys) != 3 {
		t.Fatalf("expected all dimension values present, got %v", keys)
	}
	if keys[0] != "Books" || keys[1] != "Apparel" || keys[2] != "Imports" {
		t.Fatalf("unexpected sort order: %v", keys)
	}
}
