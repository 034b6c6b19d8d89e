// Package refund drives batch refunds against the storefront: read a
// list of order names, look each order up, find its successful payment
// transaction, and post a refund referencing it. A fixed delay paces
// consecutive refunds; dry-run mode previews without mutating anything.
package refund

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"

	"salesflow/config"
	"salesflow/internal/shopify"
	"salesflow/logger"
)

// ShopifyAPI is the slice of the storefront client the processor needs.
type ShopifyAPI interface {
	OrderByName(ctx context.Context, name string) (*shopify.Order, error)
	Transactions(ctx context.Context, orderID int64) ([]shopify.Transaction, error)
	CreateRefund(ctx context.Context, orderID int64, req shopify.RefundRequest) (*shopify.CreatedRefund, error)
}

// Options configure one batch run.
type Options struct {
	Amount  *float64 // nil means refund the full order total
	Note    string
	Notify  bool
	Restock bool
	DryRun  bool
	Delay   time.Duration
}

// ItemResult records the outcome of one order in the batch.
type ItemResult struct {
	OrderName string
	OrderID   int64
	Amount    string
	Skipped   bool
	Err       error
}

// BatchResult summarizes one run.
type BatchResult struct {
	BatchID   string
	Items     []ItemResult
	Succeeded int
	Skipped   int
	Failed    int
}

type Processor struct {
	api   ShopifyAPI
	opts  Options
	sleep func(time.Duration)
	log   *logger.Log
}

func NewProcessor(api ShopifyAPI, cfg config.RefundConfig, opts Options) *Processor {
	if opts.Delay <= 0 {
		opts.Delay = cfg.Delay
	}
	if opts.Note == "" {
		opts.Note = "Batch refund processed"
	}
	return &Processor{
		api:   api,
		opts:  opts,
		sleep: time.Sleep,
		log:   logger.GetLogger(),
	}
}

// Run processes every order name in sequence, pacing consecutive
// refunds with the configured delay. A per-order failure is recorded
// and the batch moves on.
func (p *Processor) Run(ctx context.Context, orderNames []string) *BatchResult {
	result := &BatchResult{BatchID: uuid.New().String()}
	log := p.log.WithComponent("refund").WithFields(logger.Fields{"batch_id": result.BatchID, "dry_run": p.opts.DryRun})
	log.WithFields(logger.Fields{"orders": len(orderNames)}).Info("starting refund batch")

	for i, name := range orderNames {
		if i > 0 && !p.opts.DryRun {
			p.sleep(p.opts.Delay)
		}

		item := p.processOne(ctx, name)
		result.Items = append(result.Items, item)
		switch {
		case item.Err != nil:
			result.Failed++
			log.WithError(item.Err).WithFields(logger.Fields{"order": name}).Error("refund failed")
		case item.Skipped:
			result.Skipped++
			log.WithFields(logger.Fields{"order": name}).Warn("order skipped, already refunded")
		default:
			result.Succeeded++
			log.WithFields(logger.Fields{"order": name, "amount": item.Amount}).Info("refund processed")
		}
	}

	log.WithFields(logger.Fields{
		"succeeded": result.Succeeded,
		"skipped":   result.Skipped,
		"failed":    result.Failed,
	}).Info("refund batch finished")
	return result
}

func (p *Processor) processOne(ctx context.Context, name string) ItemResult {
	item := ItemResult{OrderName: name}

	order, err := p.api.OrderByName(ctx, name)
	if err != nil {
		item.Err = err
		return item
	}
	item.OrderID = order.ID

	// A fully refunded order is only reprocessed when an explicit
	// partial amount was requested.
	if order.FinancialStatus == "refunded" && p.opts.Amount == nil {
		item.Skipped = true
		return item
	}

	amount := order.TotalPrice
	if p.opts.Amount != nil {
		amount = fmt.Sprintf("%.2f", *p.opts.Amount)
	}
	item.Amount = amount

	if p.opts.DryRun {
		return item
	}

	parent, err := p.paymentTransaction(ctx, order.ID)
	if err != nil {
		item.Err = err
		return item
	}

	restockType := "no_restock"
	if p.opts.Restock {
		restockType = "return"
	}
	lineItems := make([]shopify.RefundLineItemRequest, 0, len(order.LineItems))
	for _, li := range order.LineItems {
		lineItems = append(lineItems, shopify.RefundLineItemRequest{
			LineItemID:  li.ID,
			Quantity:    li.Quantity,
			RestockType: restockType,
		})
	}

	_, err = p.api.CreateRefund(ctx, order.ID, shopify.RefundRequest{
		Notify:          p.opts.Notify,
		Note:            p.opts.Note,
		RefundLineItems: lineItems,
		Transactions: []shopify.RefundTransaction{{
			ParentID: parent.ID,
			Amount:   amount,
			Kind:     "refund",
			Gateway:  parent.Gateway,
		}},
	})
	if err != nil {
		item.Err = err
	}
	return item
}

// paymentTransaction finds the successful capture or sale the refund
// must reference as its parent.
func (p *Processor) paymentTransaction(ctx context.Context, orderID int64) (*shopify.Transaction, error) {
	txns, err := p.api.Transactions(ctx, orderID)
	if err != nil {
		return nil, err
	}
	for i := range txns {
		t := &txns[i]
		if (t.Kind == "capture" || t.Kind == "sale") && t.Status == "success" {
			return t, nil
		}
	}
	return nil, fmt.Errorf("order %d has no successful payment transaction", orderID)
}

// ReadOrderNamesCSV pulls order names out of a CSV file. The order
// column is found by header name; a UTF-8 BOM on the first header is
// tolerated.
func ReadOrderNamesCSV(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open input file: %w", err)
	}
	defer f.Close()
	return readOrderNames(f)
}

var orderColumnNames = map[string]bool{
	"order_number": true,
	"order_name":   true,
	"order":        true,
	"name":         true,
	"number":       true,
}

func readOrderNames(r io.Reader) ([]string, error) {
	reader := csv.NewReader(r)
	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read csv header: %w", err)
	}

	col := -1
	for i, name := range header {
		name = strings.TrimPrefix(name, "\uFEFF")
		normalized := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), " ", "_")
		if orderColumnNames[normalized] {
			col = i
			break
		}
	}
	if col < 0 {
		return nil, fmt.Errorf("no order column found in csv header %v", header)
	}

	var names []string
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read csv row: %w", err)
		}
		if col < len(record) {
			if name := strings.TrimSpace(record[col]); name != "" {
				names = append(names, name)
			}
		}
	}
	return names, nil
}
