package shopify

// Order is the Admin API order resource, reduced to the fields the
// reporting and refund flows consume.
type Order struct {
	ID                int64      `json:"id"`
	Name              string     `json:"name"`
	OrderNumber       int64      `json:"order_number"`
	Email             string     `json:"email"`
	CreatedAt         string     `json:"created_at"`
	CancelledAt       *string    `json:"cancelled_at"`
	FinancialStatus   string     `json:"financial_status"`
	FulfillmentStatus string     `json:"fulfillment_status"`
	Currency          string     `json:"currency"`
	TotalPrice        string     `json:"total_price"`
	TotalDiscounts    string     `json:"total_discounts"`
	Tags              string     `json:"tags"`
	Note              string     `json:"note"`
	SourceName        string     `json:"source_name"`
	Customer          *Customer  `json:"customer"`
	ShippingAddress   *Address   `json:"shipping_address"`
	BillingAddress    *Address   `json:"billing_address"`
	LineItems         []LineItem `json:"line_items"`
	Refunds           []Refund   `json:"refunds"`
}

type Customer struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
}

type Address struct {
	Country      string `json:"country"`
	CountryCode  string `json:"country_code"`
	Province     string `json:"province"`
	ProvinceCode string `json:"province_code"`
	City         string `json:"city"`
}

type LineItem struct {
	ID           int64  `json:"id"`
	Title        string `json:"title"`
	VariantTitle string `json:"variant_title"`
	SKU          string `json:"sku"`
	Vendor       string `json:"vendor"`
	ProductID    int64  `json:"product_id"`
	Quantity     int    `json:"quantity"`
	Price        string `json:"price"`
}

// Refund as it appears embedded in an order: enough to work out how many
// units of each line item were already returned.
type Refund struct {
	ID              int64            `json:"id"`
	CreatedAt       string           `json:"created_at"`
	Note            string           `json:"note"`
	RefundLineItems []RefundLineItem `json:"refund_line_items"`
}

type RefundLineItem struct {
	LineItemID int64 `json:"line_item_id"`
	Quantity   int   `json:"quantity"`
}

type Product struct {
	ID       int64     `json:"id"`
	Title    string    `json:"title"`
	Vendor   string    `json:"vendor"`
	Status   string    `json:"status"`
	Variants []Variant `json:"variants"`
}

type Variant struct {
	ID                int64  `json:"id"`
	Title             string `json:"title"`
	SKU               string `json:"sku"`
	Price             string `json:"price"`
	InventoryQuantity int    `json:"inventory_quantity"`
}

// Transaction is a payment event on an order. Refunds must reference the
// successful capture or sale transaction as their parent.
type Transaction struct {
	ID      int64  `json:"id"`
	Kind    string `json:"kind"`
	Status  string `json:"status"`
	Gateway string `json:"gateway"`
	Amount  string `json:"amount"`
}

// RefundRequest is the payload for creating a refund against an order.
type RefundRequest struct {
	Notify          bool                    `json:"notify"`
	Note            string                  `json:"note,omitempty"`
	RefundLineItems []RefundLineItemRequest `json:"refund_line_items,omitempty"`
	Transactions    []RefundTransaction     `json:"transactions"`
}

type RefundLineItemRequest struct {
	LineItemID  int64  `json:"line_item_id"`
	Quantity    int    `json:"quantity"`
	RestockType string `json:"restock_type"`
}

type RefundTransaction struct {
	ParentID int64  `json:"parent_id"`
	Amount   string `json:"amount"`
	Kind     string `json:"kind"`
	Gateway  string `json:"gateway"`
}

// CreatedRefund is the API's echo of a successful refund creation.
type CreatedRefund struct {
	ID           int64               `json:"id"`
	CreatedAt    string              `json:"created_at"`
	Note         string              `json:"note"`
	Transactions []RefundTransaction `json:"transactions"`
}
