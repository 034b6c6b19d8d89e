// Package printful wraps the Printful v2 REST API used for
// print-on-demand fulfillment. Listings paginate by offset/limit and
// report a paging.total the walker stops against.
package printful

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

const platform = "printful"

type Client struct {
	baseURL string
	limit   int
	engine  *httpx.Engine
	pager   *httpx.Pager
}

func NewClient(cfg config.PrintfulConfig, httpCfg config.HTTPConfig) *Client {
	limiter := rate.NewLimiter(rate.Limit(httpCfg.RateLimit.RequestsPerSecond), httpCfg.RateLimit.BurstSize)
	return &Client{
		baseURL: strings.TrimSuffix(cfg.BaseURL, "/"),
		limit:   cfg.Limit,
		engine: httpx.NewEngine(platform, httpx.BearerAuth(cfg.Token), httpx.Options{
			Timeout:     httpCfg.Timeout,
			MaxAttempts: httpCfg.MaxAttempts,
			BackoffBase: httpCfg.BackoffBase,
		}),
		pager: httpx.NewPager(platform, limiter),
	}
}

// Stores lists the stores the token can act on.
func (c *Client) Stores(ctx context.Context) ([]Store, error) {
	resp, err := c.engine.Do(ctx, http.MethodGet, c.baseURL+"/v2/stores", nil, nil)
	if err != nil {
		return nil, err
	}
	var envelope struct {
		Data []Store `json:"data"`
	}
	if err := resp.Decode(&envelope); err != nil {
		return nil, err
	}
	return envelope.Data, nil
}

// CatalogProducts fetches one catalog page at the given offset.
func (c *Client) CatalogProducts(ctx context.Context, offset int) ([]CatalogProduct, int, error) {
	params := url.Values{}
	params.Set("limit", strconv.Itoa(c.limit))
	params.Set("offset", strconv.Itoa(offset))

	resp, err := c.engine.Do(ctx, http.MethodGet, c.baseURL+"/v2/catalog-products", params, nil)
	if err != nil {
		return nil, 0, err
	}
	var envelope struct {
		Data   []CatalogProduct `json:"data"`
		Paging paging           `json:"paging"`
	}
	if err := resp.Decode(&envelope); err != nil {
		return nil, 0, err
	}
	return envelope.Data, envelope.Paging.Total, nil
}

// AllCatalogProducts walks the catalog until offset+limit reaches the
// reported total.
func (c *Client) AllCatalogProducts(ctx context.Context) ([]CatalogProduct, httpx.Result) {
	var products []CatalogProduct
	res := c.pager.FetchAllPages(ctx, func(ctx context.Context, page int) (int, bool, error) {
		offset := (page - 1) * c.limit
		data, total, err := c.CatalogProducts(ctx, offset)
		if err != nil {
			return 0, false, err
		}
		products = append(products, data...)
		return len(data), offset+c.limit >= total, nil
	})
	return products, res
}

// CatalogVariants lists the variants of one catalog product.
func (c *Client) CatalogVariants(ctx context.Context, productID int64) ([]CatalogVariant, error) {
	resp, err := c.engine.Do(ctx, http.MethodGet, fmt.Sprintf("%s/v2/catalog-products/%d/catalog-variants", c.baseURL, productID), nil, nil)
	if err != nil {
		return nil, err
	}
	var envelope struct {
		Data []CatalogVariant `json:"data"`
	}
	if err := resp.Decode(&envelope); err != nil {
		return nil, err
	}
	return envelope.Data, nil
}

// Orders fetches one fulfillment-order page at the given offset.
func (c *Client) Orders(ctx context.Context, offset int) ([]Order, int, error) {
	params := url.Values{}
	params.Set("limit", strconv.Itoa(c.limit))
	params.Set("offset", strconv.Itoa(offset))

	resp, err := c.engine.Do(ctx, http.MethodGet, c.baseURL+"/v2/orders", params, nil)
	if err != nil {
		return nil, 0, err
	}
	var envelope struct {
		Data   []Order `json:"data"`
		Paging paging  `json:"paging"`
	}
	if err := resp.Decode(&envelope); err != nil {
		return nil, 0, err
	}
	return envelope.Data, envelope.Paging.Total, nil
}

// AllOrders walks the full fulfillment-order listing.
func (c *Client) AllOrders(ctx context.Context) ([]Order, httpx.Result) {
	var orders []Order
	res := c.pager.FetchAllPages(ctx, func(ctx context.Context, page int) (int, bool, error) {
		offset := (page - 1) * c.limit
		data, total, err := c.Orders(ctx, offset)
		if err != nil {
			return 0, false, err
		}
		orders = append(orders, data...)
		return len(data), offset+c.limit >= total, nil
	})
	return orders, res
}

// Order fetches one fulfillment order by ID or external ID.
func (c *Client) Order(ctx context.Context, id string) (*Order, error) {
	resp, err := c.engine.Do(ctx, http.MethodGet, c.baseURL+"/v2/orders/"+id, nil, nil)
	if err != nil {
		return nil, err
	}
	var envelope struct {
		Data Order `json:"data"`
	}
	if err := resp.Decode(&envelope); err != nil {
		return nil, err
	}
	return &envelope.Data, nil
}

// CreateOrder submits a draft fulfillment order.
func (c *Client) CreateOrder(ctx context.Context, order Order) (*Order, error) {
	resp, err := c.engine.Do(ctx, http.MethodPost, c.baseURL+"/v2/orders", nil, order)
	if err != nil {
		return nil, err
	}
	var envelope struct {
		Data Order `json:"data"`
	}
	if err := resp.Decode(&envelope); err != nil {
		return nil, err
	}
	return &envelope.Data, nil
}

// UpdateOrder patches a not-yet-fulfilled order.
func (c *Client) UpdateOrder(ctx context.Context, id string, order Order) (*Order, error) {
	resp, err := c.engine.Do(ctx, http.MethodPatch, c.baseURL+"/v2/orders/"+id, nil, order)
	if err != nil {
		return nil, err
	}
	var envelope struct {
		Data Order `json:"data"`
	}
	if err := resp.Decode(&envelope); err != nil {
		return nil, err
	}
	return &envelope.Data, nil
}

// DeleteOrder cancels a draft order.
func (c *Client) DeleteOrder(ctx context.Context, id string) error {
	_, err := c.engine.Do(ctx, http.MethodDelete, c.baseURL+"/v2/orders/"+id, nil, nil)
	return err
}

// ShippingRates asks the calculator for the available rates.
func (c *Client) ShippingRates(ctx context.Context, req ShippingRateRequest) ([]ShippingRate, error) {
	resp, err := c.engine.Do(ctx, http.MethodPost, c.baseURL+"/v2/shipping-rates", nil, req)
	if err != nil {
		return nil, err
	}
	var envelope struct {
		Data []ShippingRate `json:"data"`
	}
	if err := resp.Decode(&envelope); err != nil {
		return nil, err
	}
	return envelope.Data, nil
}

// Countries lists the destinations Printful ships to.
func (c *Client) Countries(ctx context.Context) ([]Country, error) {
	resp, err := c.engine.Do(ctx, http.MethodGet, c.baseURL+"/v2/countries", nil, nil)
	if err != nil {
		return nil, err
	}
	var envelope struct {
		Data []Country `json:"data"`
	}
	if err := resp.Decode(&envelope); err != nil {
		return nil, err
	}
	return envelope.Data, nil
}

// Webhooks lists the configured webhooks.
func (c *Client) Webhooks(ctx context.Context) ([]Webhook, error) {
	resp, err := c.engine.Do(ctx, http.MethodGet, c.baseURL+"/v2/webhooks", nil, nil)
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
