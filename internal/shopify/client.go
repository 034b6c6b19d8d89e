// Package shopify wraps the Shopify Admin REST API: cursor-paginated
// order and product listings plus the transaction and refund endpoints
// the batch refund flow needs.
package shopify

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"

	"golang.org/x/time/rate"

	"salesflow/config"
	"salesflow/internal/httpx"
)

const platform = "shopify"

// Client talks to one store. Pagination follows the Link header's
// rel="next" target, which fully replaces the path and query of the
// following request.
type Client struct {
	baseURL  string
	pageSize int
	engine   *httpx.Engine
	pager    *httpx.Pager
}

func NewClient(cfg config.ShopifyConfig, httpCfg config.HTTPConfig) *Client {
	store := strings.TrimSuffix(strings.TrimSpace(cfg.Store), "/")
	store = strings.TrimPrefix(store, "https://")
	store = strings.TrimPrefix(store, "http://")

	limiter := rate.NewLimiter(rate.Limit(httpCfg.RateLimit.RequestsPerSecond), httpCfg.RateLimit.BurstSize)
	return &Client{
		baseURL:  fmt.Sprintf("https://%s/admin/api/%s", store, cfg.APIVersion),
		pageSize: cfg.PageSize,
		engine: httpx.NewEngine(platform, httpx.TokenHeaderAuth("X-Shopify-Access-Token", cfg.Token), httpx.Options{
			Timeout:     httpCfg.Timeout,
			MaxAttempts: httpCfg.MaxAttempts,
			BackoffBase: httpCfg.BackoffBase,
		}),
		pager: httpx.NewPager(platform, limiter),
	}
}

// OrderQuery narrows an order listing. Zero values mean no bound.
type OrderQuery struct {
	CreatedAtMin      string
	CreatedAtMax      string
	FinancialStatus   string
	FulfillmentStatus string
}

// bareDate matches a plain YYYY-MM-DD value with no time component.
var bareDate = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// dayBound widens a bare date to a full-day UTC bound so the whole last
// day is included; explicit timestamps pass through untouched.
func dayBound(v, timeSuffix string) string {
	if bareDate.MatchString(v) {
		return v + timeSuffix
	}
	return v
}

func (q OrderQuery) values(pageSize int) url.Values {
	params := url.Values{}
	params.Set("status", "any")
	params.Set("limit", fmt.Sprintf("%d", pageSize))
	params.Set("order", "created_at asc")
	if q.CreatedAtMin != "" {
		params.Set("created_at_min", dayBound(q.CreatedAtMin, "T00:00:00Z"))
	}
	if q.CreatedAtMax != "" {
		params.Set("created_at_max", dayBound(q.CreatedAtMax, "T23:59:59Z"))
	}
	if q.FinancialStatus != "" {
		params.Set("financial_status", q.FinancialStatus)
	}
	if q.FulfillmentStatus != "" {
		params.Set("fulfillment_status", q.FulfillmentStatus)
	}
	return params
}

// Orders fetches a single listing page and the rel="next" URL from the
// Link header; an empty next URL means the listing is exhausted.
func (c *Client) Orders(ctx context.Context, q OrderQuery) ([]Order, string, error) {
	return c.ordersPage(ctx, c.baseURL+"/orders.json?"+q.values(c.pageSize).Encode())
}

func (c *Client) ordersPage(ctx context.Context, pageURL string) ([]Order, string, error) {
	resp, err := c.engine.Do(ctx, http.MethodGet, pageURL, nil, nil)
	if err != nil {
		return nil, "", err
	}
	var envelope struct {
		Orders []Order `json:"orders"`
	}
	if err := resp.Decode(&envelope); err != nil {
		return nil, "", err
	}
	return envelope.Orders, httpx.NextLink(resp.Header.Get("Link")), nil
}

// AllOrders walks the full order listing, cancelled and refunded orders
// included (status=any), oldest first. On a mid-walk failure the orders
// fetched so far are returned alongside a partial Result.
func (c *Client) AllOrders(ctx context.Context, q OrderQuery) ([]Order, httpx.Result) {
	var orders []Order
	firstURL := c.baseURL + "/orders.json?" + q.values(c.pageSize).Encode()
	res := c.pager.FetchAllLinks(ctx, firstURL, func(ctx context.Context, pageURL string) (int, string, error) {
		page, next, err := c.ordersPage(ctx, pageURL)
		if err != nil {
			return 0, "", err
		}
		orders = append(orders, page...)
		return len(page), next, nil
	})
	return orders, res
}

// OrderByName looks an order up by its customer-facing name. A leading
// '#' is stripped so "#1001" and "1001" resolve identically.
func (c *Client) OrderByName(ctx context.Context, name string) (*Order, error) {
	trimmed := strings.TrimPrefix(strings.TrimSpace(name), "#")
	params := url.Values{}
	params.Set("name", trimmed)
	params.Set("status", "any")

	resp, err := c.engine.Do(ctx, http.MethodGet, c.baseURL+"/orders.json", params, nil)
	if err != nil {
		return nil, err
	}
	var envelope struct {
		Orders []Order `json:"orders"`
	}
	if err := resp.Decode(&envelope); err != nil {
		return nil, err
	}
	if len(envelope.Orders) == 0 {
		return nil, fmt.Errorf("order %q not found", name)
	}
	return &envelope.Orders[0], nil
}

// AllProducts walks the active product listing.
func (c *Client) AllProducts(ctx context.Context) ([]Product, httpx.Result) {
	params := url.Values{}
	params.Set("limit", fmt.Sprintf("%d", c.pageSize))
	params.Set("status", "active")

	var products []Product
	firstURL := c.baseURL + "/products.json?" + params.Encode()
	res := c.pager.FetchAllLinks(ctx, firstURL, func(ctx context.Context, pageURL string) (int, string, error) {
		resp, err := c.engine.Do(ctx, http.MethodGet, pageURL, nil, nil)
		if err != nil {
			return 0, "", err
		}
		var envelope struct {
			Products []Product `json:"products"`
		}
		if err := resp.Decode(&envelope); err != nil {
			return 0, "", err
		}
		products = append(products, envelope.Products...)
		return len(envelope.Products), httpx.NextLink(resp.Header.Get("Link")), nil
	})
	return products, res
}

// Transactions lists the payment transactions recorded against an order.
func (c *Client) Transactions(ctx context.Context, orderID int64) ([]Transaction, error) {
	resp, err := c.engine.Do(ctx, http.MethodGet, fmt.Sprintf("%s/orders/%d/transactions.json", c.baseURL, orderID), nil, nil)
	if err != nil {
		return nil, err
	}
	var envelope struct {
		Transactions []Transaction `json:"transactions"`
	}
	if err := resp.Decode(&envelope); err != nil {
		return nil, err
	}
	return envelope.Transactions, nil
}

// CreateRefund posts a refund against an order.
func (c *Client) CreateRefund(ctx context.Context, orderID int64, req RefundRequest) (*CreatedRefund, error) {
	body := map[string]RefundRequest{"refund": req}
	resp, err := c.engine.Do(ctx, http.MethodPost, fmt.Sprintf("%s/orders/%d/refunds.json", c.baseURL, orderID), nil, body)
	if err != nil {
		return nil, err
	}
	var envelope struct {
		Refund CreatedRefund `json:"refund"`
	}
	if err := resp.Decode(&envelope); err != nil {
		return nil, err
	}
	return &envelope.Refund, nil
}
