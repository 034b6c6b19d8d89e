package refund

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"salesflow/config"
	"salesflow/internal/shopify"
)

type fakeAPI struct {
	orders   map[string]*shopify.Order
	txns     map[int64][]shopify.Transaction
	refunds  []shopify.RefundRequest
	txnCalls int
}

func (f *fakeAPI) OrderByName(ctx context.Context, name string) (*shopify.Order, error) {
	key := strings.TrimPrefix(name, "#")
	order, ok := f.orders[key]
	if !ok {
		return nil, fmt.Errorf("order %q not found", name)
	}
	return order, nil
}

func (f *fakeAPI) Transactions(ctx context.Context, orderID int64) ([]shopify.Transaction, error) {
	f.txnCalls++
	return f.txns[orderID], nil
}

func (f *fakeAPI) CreateRefund(ctx context.Context, orderID int64, req shopify.RefundRequest) (*shopify.CreatedRefund, error) {
	f.refunds = append(f.refunds, req)
	return &shopify.CreatedRefund{ID: int64(len(f.refunds))}, nil
}

func testAPI() *fakeAPI {
	return &fakeAPI{
		orders: map[string]*shopify.Order{
			"1001": {
				ID: 1, Name: "#1001", FinancialStatus: "paid", TotalPrice: "48.00",
				LineItems: []shopify.LineItem{{ID: 11, Quantity: 4}},
			},
			"1002": {
				ID: 2, Name: "#1002", FinancialStatus: "refunded", TotalPrice: "20.00",
				LineItems: []shopify.LineItem{{ID: 21, Quantity: 1}},
			},
		},
		txns: map[int64][]shopify.Transaction{
			1: {
				{ID: 800, Kind: "authorization", Status: "success", Gateway: "shopify_payments"},
				{ID: 900, Kind: "capture", Status: "success", Gateway: "shopify_payments"},
			},
		},
	}
}

func newTestProcessor(api ShopifyAPI, opts Options) (*Processor, *int) {
	p := NewProcessor(api, config.RefundConfig{Delay: 12 * time.Second}, opts)
	sleeps := 0
	p.sleep = func(time.Duration) { sleeps++ }
	return p, &sleeps
}

func TestRunFullRefund(t *testing.T) {
	api := testAPI()
	p, _ := newTestProcessor(api, Options{Restock: true, Notify: true})

	res := p.Run(context.Background(), []string{"#1001"})
	if res.Succeeded != 1 || res.Failed != 0 || res.Skipped != 0 {
		t.Fatalf("unexpected result: %+v", res)
	}
	if res.BatchID == "" {
		t.Error("missing batch id")
	}
	if len(api.refunds) != 1 {
		t.Fatalf("expected 1 refund, got %d", len(api.refunds))
	}
	req := api.refunds[0]
	if req.Transactions[0].ParentID != 900 || req.Transactions[0].Amount != "48.00" {
		t.Errorf("refund transaction wrong: %+v", req.Transactions[0])
	}
	if req.Transactions[0].Kind != "refund" || req.Transactions[0].Gateway != "shopify_payments" {
		t.Errorf("refund transaction wrong: %+v", req.Transactions[0])
	}
	if req.RefundLineItems[0].RestockType != "return" || req.RefundLineItems[0].Quantity != 4 {
		t.Errorf("line items wrong: %+v", req.RefundLineItems)
	}
	if !req.Notify {
		t.Error("notify flag lost")
	}
}

func TestRunSkipsAlreadyRefunded(t *testing.T) {
	api := testAPI()
	p, _ := newTestProcessor(api, Options{})

	res := p.Run(context.Background(), []string{"#1002"})
	if res.Skipped != 1 || len(api.refunds) != 0 {
		t.Fatalf("expected skip without mutation: %+v", res)
	}

	// An explicit partial amount reprocesses a refunded order.
	amount := 5.00
	api.txns[2] = []shopify.Transaction{{ID: 901, Kind: "sale", Status: "success", Gateway: "manual"}}
	p, _ = newTestProcessor(api, Options{Amount: &amount})
	res = p.Run(context.Background(), []string{"#1002"})
	if res.Succeeded != 1 || len(api.refunds) != 1 {
		t.Fatalf("expected refund with explicit amount: %+v", res)
	}
	if api.refunds[0].Transactions[0].Amount != "5.00" {
		t.Errorf("amount wrong: %+v", api.refunds[0].Transactions[0])
	}
}

func TestRunDryRunNeverMutates(t *testing.T) {
	api := testAPI()
	p, sleeps := newTestProcessor(api, Options{DryRun: true})

	res := p.Run(context.Background(), []string{"#1001", "#1002"})
	if len(api.refunds) != 0 || api.txnCalls != 0 {
		t.Fatalf("dry run touched the API: refunds=%d txns=%d", len(api.refunds), api.txnCalls)
	}
	if res.Succeeded != 1 || res.Skipped != 1 {
		t.Fatalf("unexpected result: %+v", res)
	}
	if *sleeps != 0 {
		t.Errorf("dry run should not pace: %d sleeps", *sleeps)
	}
}

func TestRunPacesBetweenOrders(t *testing.T) {
	api := testAPI()
	api.txns[2] = []shopify.Transaction{{ID: 901, Kind: "sale", Status: "success", Gateway: "manual"}}
	amount := 1.00
	p, sleeps := newTestProcessor(api, Options{Amount: &amount})

	p.Run(context.Background(), []string{"#1001", "#1002"})
	if *sleeps != 1 {
		t.Errorf("expected 1 inter-order sleep, got %d", *sleeps)
	}
}

func TestRunFailsWithoutPaymentTransaction(t *testing.T) {
	api := testAPI()
	api.txns[1] = []shopify.Transaction{{ID: 800, Kind: "authorization", Status: "success"}}
	p, _ := newTestProcessor(api, Options{})

	res := p.Run(context.Background(), []string{"#1001"})
	if res.Failed != 1 || len(api.refunds) != 0 {
		t.Fatalf("expected failure: %+v", res)
	}
}

func TestReadOrderNames(t *testing.T) {
	csvData := "Order Number,Amount\n#1001,48.00\n#1002,20.00\n,\n"
	names, err := readOrderNames(strings.NewReader(csvData))
	if err != nil {
		t.Fatalf("readOrderNames failed: %v", err)
	}
	if len(names) != 2 || names[0] != "#1001" || names[1] != "#1002" {
		t.Fatalf("unexpected names: %v", names)
	}
}

func TestReadOrderNamesNoColumn(t *testing.T) {
	if _, err := readOrderNames(strings.NewReader("foo,bar\n1,2\n")); err == nil {
		t.Fatal("expected error for missing order column")
	}
}
