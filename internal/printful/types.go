package printful

// paging is Printful's v2 offset-pagination block.
type paging struct {
	Total  int `json:"total"`
	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

type Store struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Type string `json:"type"`
}

type CatalogProduct struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Type        string `json:"type"`
	Brand       string `json:"brand"`
	Description string `json:"description"`
}

type CatalogVariant struct {
	ID        int64  `json:"id"`
	ProductID int64  `json:"catalog_product_id"`
	Name      string `json:"name"`
	Size      string `json:"size"`
	Color     string `json:"color"`
}

type Order struct {
	ID         int64       `json:"id"`
	ExternalID string      `json:"external_id"`
	Status     string      `json:"status"`
	Recipient  *Recipient  `json:"recipient"`
	Items      []OrderItem `json:"order_items"`
}

type Recipient struct {
	Name        string `json:"name"`
	Address1    string `json:"address1"`
	City        string `json:"city"`
	CountryCode string `json:"country_code"`
	Zip         string `json:"zip"`
}

type OrderItem struct {
	CatalogVariantID int64  `json:"catalog_variant_id"`
	ExternalID       string `json:"external_id"`
	Quantity         int    `json:"quantity"`
	Name             string `json:"name"`
}

type Webhook struct {
	Type string `json:"type"`
	URL  string `json:"url"`
}

// ShippingRateRequest feeds the shipping-rates calculator.
type ShippingRateRequest struct {
	Recipient Recipient          `json:"recipient"`
	Items     []ShippingRateItem `json:"order_items"`
}

type ShippingRateItem struct {
	CatalogVariantID int64 `json:"catalog_variant_id"`
	Quantity         int   `json:"quantity"`
}

type ShippingRate struct {
	Shipping        string `json:"shipping"`
	Name            string `json:"name"`
	Rate            string `json:"rate"`
	Currency        string `json:"currency"`
	MinDeliveryDays int    `json:"min_delivery_days"`
	MaxDeliveryDays int    `json:"max_delivery_days"`
}

type Country struct {
	Code   string `json:"code"`
	Name   string `json:"name"`
	Region string `json:"region"`
}
