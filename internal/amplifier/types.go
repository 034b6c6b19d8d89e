package amplifier

// Item is an Amplifier catalog item (their product unit). Inventory is
// embedded rather than a separate resource in listings.
type Item struct {
	ID           string        `json:"id"`
	SKU          string        `json:"sku"`
	Name         string        `json:"name"`
	Description  string        `json:"description"`
	Discontinued bool          `json:"discontinued"`
	Inventory    ItemInventory `json:"inventory"`
}

type ItemInventory struct {
	QuantityAvailable int `json:"quantity_available"`
	QuantityOnHand    int `json:"quantity_on_hand"`
}

// ProductInput carries the writable product fields for create/update
// calls. Pointer fields are omitted when nil so updates stay partial.
type ProductInput struct {
	SKU          string  `json:"sku,omitempty"`
	Name         string  `json:"name,omitempty"`
	Description  *string `json:"description,omitempty"`
	Discontinued *bool   `json:"discontinued,omitempty"`
}

// itemsPage is the /items/ listing envelope: records under data plus
// flat page-count metadata.
type itemsPage struct {
	Data       []Item `json:"data"`
	Page       int    `json:"page"`
	TotalPages int    `json:"total_pages"`
}

type Order struct {
	ID        string      `json:"id"`
	Status    string      `json:"status"`
	CreatedAt string      `json:"created_at"`
	Items     []OrderItem `json:"items"`
}

type OrderItem struct {
	SKU      string `json:"sku"`
	Quantity int    `json:"quantity"`
}

// ordersPage is the /orders listing envelope: a nested pagination block
// with an explicit has_next flag instead of a page count.
type ordersPage struct {
	Orders     []Order    `json:"orders"`
	Pagination Pagination `json:"pagination"`
}

type Pagination struct {
	Page    int  `json:"page"`
	HasNext bool `json:"has_next"`
}

type InventoryLevel struct {
	ProductID         string `json:"product_id"`
	Location          string `json:"location"`
	QuantityAvailable int    `json:"quantity_available"`
	QuantityOnHand    int    `json:"quantity_on_hand"`
}

type Customer struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type Webhook struct {
	ID    string `json:"id"`
	Event string `json:"event"`
	URL   string `json:"url"`
}
