package sales

import (
	"testing"

	"salesflow/internal/shopify"
)

func baseOrder() shopify.Order {
	return shopify.Order{
		ID:              1001,
		Name:            "#1001",
		Email:           "buyer@example.com",
		CreatedAt:       "2024-03-15T10:30:00Z",
		FinancialStatus: "paid",
		Currency:        "USD",
		SourceName:      "web",
		ShippingAddress: &shopify.Address{Country: "United States", Province: "New York", City: "Brooklyn"},
		LineItems: []shopify.LineItem{
			{ID: 11, Title: "Harry Potter 3 Program Book", SKU: "HP3USABOOK", Quantity: 4, Price: "12.00", ProductID: 555},
		},
	}
}

func TestNormalizeOrdersBasicRow(t *testing.T) {
	rows := NormalizeOrders([]shopify.Order{baseOrder()})
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}
	row := rows[0]
	if row.Quantity != 4 || row.LineTotal != 48.00 {
		t.Errorf("quantity/total wrong: %+v", row)
	}
	if row.Month != "2024-03" || row.Quarter != "2024-Q1" || row.Year != "2024" {
		t.Errorf("date derivation wrong: %+v", row)
	}
	if row.OrderDateFormatted != "2024-03-15" {
		t.Errorf("formatted date wrong: %q", row.OrderDateFormatted)
	}
	if row.Category != "Program Books" || row.ShowName != "Harry Potter 3 (Prisoner of Azkaban)" {
		t.Errorf("classification wrong: %+v", row)
	}
	if row.Country != "United States" || row.State != "New York" {
		t.Errorf("geography wrong: %+v", row)
	}
	if row.FulfillmentStatus != "unfulfilled" {
		t.Errorf("empty fulfillment status should default: %q", row.FulfillmentStatus)
	}
}

func TestNormalizeOrdersDropsDeadOrders(t *testing.T) {
	cancelledAt := "2024-03-16T00:00:00Z"

	cancelled := baseOrder()
	cancelled.CancelledAt = &cancelledAt

	refunded := baseOrder()
	refunded.FinancialStatus = "refunded"

	voided := baseOrder()
	voided.FinancialStatus = "voided"

	dateless := baseOrder()
	dateless.CreatedAt = ""

	rows := NormalizeOrders([]shopify.Order{cancelled, refunded, voided, dateless})
	if len(rows) != 0 {
		t.Fatalf("expected all orders dropped, got %d rows", len(rows))
	}
}

func TestNormalizeOrdersPartialRefund(t *testing.T) {
	order := baseOrder()
	order.Refunds = []shopify.Refund{
		{RefundLineItems: []shopify.RefundLineItem{{LineItemID: 11, Quantity: 1}}},
		{RefundLineItems: []shopify.RefundLineItem{{LineItemID: 11, Quantity: 1}, {LineItemID: 99, Quantity: 5}}},
	}

	rows := NormalizeOrders([]shopify.Order{order})
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}
	// 4 ordered minus 2 refunded across both refund records; the refund
	// for an unrelated line item must not bleed in.
	if rows[0].Quantity != 2 || rows[0].LineTotal != 24.00 {
		t.Fatalf("net quantity wrong: %+v", rows[0])
	}
}

func TestNormalizeOrdersDropsFullyRefundedLine(t *testing.T) {
	order := baseOrder()
	order.Refunds = []shopify.Refund{
		{RefundLineItems: []shopify.RefundLineItem{{LineItemID: 11, Quantity: 4}}},
	}
	if rows := NormalizeOrders([]shopify.Order{order}); len(rows) != 0 {
		t.Fatalf("expected zero rows for net-zero line, got %d", len(rows))
	}
}

func TestNormalizeOrdersGeographyFallback(t *testing.T) {
	order := baseOrder()
	order.ShippingAddress = &shopify.Address{CountryCode: "GB", ProvinceCode: "LND"}
	rows := NormalizeOrders([]shopify.Order{order})
	if rows[0].Country != "GB" || rows[0].State != "LND" {
		t.Errorf("code fallback wrong: %+v", rows[0])
	}

	order.ShippingAddress = nil
	rows = NormalizeOrders([]shopify.Order{order})
	if rows[0].Country != "" || rows[0].State != "" || rows[0].City != "" {
		t.Errorf("missing address should yield empty strings: %+v", rows[0])
	}
}

func TestNormalizeOrdersChannelDefault(t *testing.T) {
	order := baseOrder()
	order.SourceName = ""
	rows := NormalizeOrders([]shopify.Order{order})
	if rows[0].SalesChannel != "web" {
		t.Errorf("empty source_name should default to web: %q", rows[0].SalesChannel)
	}
}
