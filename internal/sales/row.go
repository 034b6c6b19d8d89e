// Package sales turns raw storefront orders into normalized line-item
// rows, classifies each row by product category and show franchise, and
// rolls the rows up into a multi-dimensional summary. Revenue is kept
// per currency throughout; amounts in different currencies are never
// combined.
package sales

// Row is one sellable line item flattened out of an order, after refund
// adjustment. This is the unit every report and export consumes.
type Row struct {
	OrderNumber        string  `json:"order_number"`
	OrderID            int64   `json:"order_id"`
	OrderDate          string  `json:"order_date"`
	OrderDateFormatted string  `json:"order_date_formatted"`
	Month              string  `json:"month"`
	Quarter            string  `json:"quarter"`
	Year               string  `json:"year"`
	ProductTitle       string  `json:"product_title"`
	VariantTitle       string  `json:"variant_title"`
	SKU                string  `json:"sku"`
	Vendor             string  `json:"vendor"`
	ProductID          int64   `json:"product_id"`
	Category           string  `json:"category"`
	ShowName           string  `json:"show_name"`
	Quantity           int     `json:"quantity"`
	UnitPrice          float64 `json:"unit_price"`
	LineTotal          float64 `json:"line_total"`
	Currency           string  `json:"currency"`
	FinancialStatus    string  `json:"financial_status"`
	FulfillmentStatus  string  `json:"fulfillment_status"`
	Country            string  `json:"country"`
	State              string  `json:"state"`
	City               string  `json:"city"`
	SalesChannel       string  `json:"sales_channel"`
	CustomerEmail      string  `json:"customer_email"`
}
