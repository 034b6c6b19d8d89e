// Package amplifier wraps the Amplifier OMS REST API. Listings paginate
// by page number: /items/ exposes total_pages, /orders exposes a
// has_next flag, and both are walked to exhaustion by the shared pager.
package amplifier

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"golang.org/x/time/rate"

	"salesflow/config"
	"salesflow/internal/httpx"
)

const platform = "amplifier"

type Client struct {
	baseURL string
	perPage int
	engine  *httpx.Engine
	pager   *httpx.Pager
}

// NewClient authenticates with the raw API key base64-encoded as a
// Basic credential, which is Amplifier's scheme (no username/password
// pair).
func NewClient(cfg config.AmplifierConfig, httpCfg config.HTTPConfig) *Client {
	limiter := rate.NewLimiter(rate.Limit(httpCfg.RateLimit.RequestsPerSecond), httpCfg.RateLimit.BurstSize)
	return &Client{
		baseURL: strings.TrimSuffix(cfg.BaseURL, "/"),
		perPage: cfg.PerPage,
		engine: httpx.NewEngine(platform, httpx.BasicKeyAuth(cfg.APIKey), httpx.Options{
			Timeout:     httpCfg.Timeout,
			MaxAttempts: httpCfg.MaxAttempts,
			BackoffBase: httpCfg.BackoffBase,
		}),
		pager: httpx.NewPager(platform, limiter),
	}
}

// ItemQuery narrows an item listing. Discontinued is tri-state: nil
// fetches everything.
type ItemQuery struct {
	Query        string
	SKU          string
	Name         string
	Discontinued *bool
}

func (q ItemQuery) values(page, perPage int) url.Values {
	params := url.Values{}
	params.Set("page", strconv.Itoa(page))
	params.Set("per_page", strconv.Itoa(perPage))
	if q.Query != "" {
		params.Set("query", q.Query)
	}
	if q.SKU != "" {
		params.Set("sku", q.SKU)
	}
	if q.Name != "" {
		params.Set("name", q.Name)
	}
	if q.Discontinued != nil {
		params.Set("discontinued", strconv.FormatBool(*q.Discontinued))
	}
	return params
}

// Items fetches a single listing page.
func (c *Client) Items(ctx context.Context, q ItemQuery, page int) ([]Item, int, error) {
	resp, err := c.engine.Do(ctx, http.MethodGet, c.baseURL+"/items/", q.values(page, c.perPage), nil)
	if err != nil {
		return nil, 0, err
	}
	var pg itemsPage
	if err := resp.Decode(&pg); err != nil {
		return nil, 0, err
	}
	return pg.Data, pg.TotalPages, nil
}

// AllItems walks every listing page, stopping at the server-reported
// total_pages. Partial results survive a mid-walk failure.
func (c *Client) AllItems(ctx context.Context, q ItemQuery) ([]Item, httpx.Result) {
	var items []Item
	res := c.pager.FetchAllPages(ctx, func(ctx context.Context, page int) (int, bool, error) {
		data, totalPages, err := c.Items(ctx, q, page)
		if err != nil {
			return 0, false, err
		}
		items = append(items, data...)
		return len(data), page >= totalPages, nil
	})
	return items, res
}

// OrderQuery narrows an order listing.
type OrderQuery struct {
	Status   string
	FromDate string
	ToDate   string
}

// Orders fetches a single order page plus the has_next flag.
func (c *Client) Orders(ctx context.Context, q OrderQuery, page int) ([]Order, bool, error) {
	params := url.Values{}
	params.Set("page", strconv.Itoa(page))
	params.Set("limit", strconv.Itoa(c.perPage))
	if q.Status != "" {
		params.Set("status", q.Status)
	}
	if q.FromDate != "" {
		params.Set("from_date", q.FromDate)
	}
	if q.ToDate != "" {
		params.Set("to_date", q.ToDate)
	}

	resp, err := c.engine.Do(ctx, http.MethodGet, c.baseURL+"/orders", params, nil)
	if err != nil {
		return nil, false, err
	}
	var pg ordersPage
	if err := resp.Decode(&pg); err != nil {
		return nil, false, err
	}
	return pg.Orders, pg.Pagination.HasNext, nil
}

// AllOrders walks every order page until has_next goes false.
func (c *Client) AllOrders(ctx context.Context, q OrderQuery) ([]Order, httpx.Result) {
	var orders []Order
	res := c.pager.FetchAllPages(ctx, func(ctx context.Context, page int) (int, bool, error) {
		data, hasNext, err := c.Orders(ctx, q, page)
		if err != nil {
			return 0, false, err
		}
		orders = append(orders, data...)
		return len(data), !hasNext, nil
	})
	return orders, res
}

// Item fetches one item by ID.
func (c *Client) Item(ctx context.Context, id string) (*Item, error) {
	resp, err := c.engine.Do(ctx, http.MethodGet, c.baseURL+"/products/"+id, nil, nil)
	if err != nil {
		return nil, err
	}
	var item Item
	if err := resp.Decode(&item); err != nil {
		return nil, err
	}
	return &item, nil
}

// CreateProduct registers a new product.
func (c *Client) CreateProduct(ctx context.Context, input ProductInput) (*Item, error) {
	resp, err := c.engine.Do(ctx, http.MethodPost, c.baseURL+"/products/", nil, input)
	if err != nil {
		return nil, err
	}
	var item Item
	if err := resp.Decode(&item); err != nil {
		return nil, err
	}
	return &item, nil
}

// UpdateProduct applies a partial update; zero-value fields are omitted
// from the request.
func (c *Client) UpdateProduct(ctx context.Context, id string, input ProductInput) (*Item, error) {
	resp, err := c.engine.Do(ctx, http.MethodPut, c.baseURL+"/products/"+id, nil, input)
	if err != nil {
		return nil, err
	}
	var item Item
	if err := resp.Decode(&item); err != nil {
		return nil, err
	}
	return &item, nil
}

// DeleteProduct removes a product.
func (c *Client) DeleteProduct(ctx context.Context, id string) error {
	_, err := c.engine.Do(ctx, http.MethodDelete, c.baseURL+"/products/"+id, nil, nil)
	return err
}

// Inventory lists inventory levels, optionally narrowed by product or
// location.
func (c *Client) Inventory(ctx context.Context, productID, location string) ([]InventoryLevel, error) {
	params := url.Values{}
	if productID != "" {
		params.Set("product_id", productID)
	}
	if location != "" {
		params.Set("location", location)
	}
	resp, err := c.engine.Do(ctx, http.MethodGet, c.baseURL+"/inventory", params, nil)
	if err != nil {
		return nil, err
	}
	var envelope struct {
		Data []InventoryLevel `json:"data"`
	}
	if err := resp.Decode(&envelope); err != nil {
		return nil, err
	}
	return envelope.Data, nil
}

// UpdateInventory sets or adjusts one product's quantity. Operation is
// "set" (replace) or "adjust" (delta).
func (c *Client) UpdateInventory(ctx context.Context, productID string, quantity int, location, operation string) error {
	body := map[string]any{
		"quantity":  quantity,
		"operation": operation,
	}
	if location != "" {
		body["location"] = location
	}
	_, err := c.engine.Do(ctx, http.MethodPut, c.baseURL+"/inventory/"+productID, nil, body)
	return err
}

// Customers fetches one page of the customer listing.
func (c *Client) Customers(ctx context.Context, page int) ([]Customer, error) {
	params := url.Values{}
	params.Set("page", strconv.Itoa(page))
	params.Set("limit", strconv.Itoa(c.perPage))
	resp, err := c.engine.Do(ctx, http.MethodGet, c.baseURL+"/customers", params, nil)
	if err != nil {
		return nil, err
	}
	var envelope struct {
		Data []Customer `json:"data"`
	}
	if err := resp.Decode(&envelope); err != nil {
		return nil, err
	}
	return envelope.Data, nil
}

// Webhooks lists the registered webhooks.
func (c *Client) Webhooks(ctx context.Context) ([]Webhook, error) {
	resp, err := c.engine.Do(ctx, http.MethodGet, c.baseURL+"/webhooks", nil, nil)
	if err != nil {
		return nil, err
	}
	var envelope struct {
		Data []Webhook `json:"data"`
	}
	if err := resp.Decode(&envelope); err != nil {
		return nil, err
	}
	return envelope.Data, nil
}

// CreateWebhook registers a callback for an event.
func (c *Client) CreateWebhook(ctx context.Context, event, callbackURL, secret string) (*Webhook, error) {
	body := map[string]any{"event": event, "url": callbackURL}
	if secret != "" {
		body["secret"] = secret
	}
	resp, err := c.engine.Do(ctx, http.MethodPost, c.baseURL+"/webhooks", nil, body)
	if err != nil {
		return nil, err
	}
	var hook Webhook
	if err := resp.Decode(&hook); err != nil {
		return nil, err
	}
	return &hook, nil
}

// DeleteWebhook removes a registered webhook.
func (c *Client) DeleteWebhook(ctx context.Context, id string) error {
	_, err := c.engine.Do(ctx, http.MethodDelete, fmt.Sprintf("%s/webhooks/%s", c.baseURL, id), nil, nil)
	return err
}
