package sales

import (
	"testing"

	"salesflow/internal/shopify"
)

// End-to-end over the in-memory stages: raw orders through
// normalization, classification and aggregation.
func TestPipelineOrdersToSummary(t *testing.T) {
	orders := []shopify.Order{
		{
			ID:              1,
			Name:            "#1001",
			CreatedAt:       "2024-03-15T00:00:00Z",
			FinancialStatus: "paid",
			Currency:        "USD",
			SourceName:      "web",
			ShippingAddress: &shopify.Address{Country: "United States"},
			LineItems: []shopify.LineItem{
				{ID: 11, Title: "Harry Potter 3 Program Book", SKU: "HP3USABOOK", Quantity: 4, Price: "12.00"},
			},
		},
		{
			// Fully refunded order must not contribute anything.
			ID:              2,
			Name:            "#1002",
			CreatedAt:       "2024-03-16T00:00:00Z",
			FinancialStatus: "refunded",
			Currency:        "USD",
			LineItems: []shopify.LineItem{
				{ID: 21, Title: "Elf Hoodie", SKU: "ELF1HOOD", Quantity: 1, Price: "45.00"},
			},
		},
	}

	rows := NormalizeOrders(orders)
	if len(rows) != 1 {
		t.Fatalf("expected 1 surviving row, got %d", len(rows))
	}

	summary, err := Aggregate(rows)
	if err != nil {
		t.Fatalf("Aggregate failed: %v", err)
	}

	if summary.TotalUnits != 4 {
		t.Errorf("total units: %d", summary.TotalUnits)
	}
	if summary.RevenueByCurrency["USD"] != 48.00 {
		t.Errorf("revenue: %v", summary.RevenueByCurrency)
	}
	if summary.TotalOrders != 1 {
		t.Errorf("orders: %d", summary.TotalOrders)
	}

	show := summary.ByShow["Harry Potter 3 (Prisoner of Azkaban)"]
	if show == nil || show.Units != 4 {
		t.Fatalf("show bucket missing or wrong: %+v", show)
	}
	cat := summary.ByCategory["Program Books"]
	if cat == nil || cat.Revenue["USD"] != 48.00 {
		t.Fatalf("category bucket missing or wrong: %+v", cat)
	}
	if summary.ByMonth["2024-03"] == nil || summary.ByQuarter["2024-Q1"] == nil {
		t.Fatal("time buckets missing")
	}
	if summary.ByShow["Elf"] != nil {
		t.Fatal("refunded order leaked into the summary")
	}
}
