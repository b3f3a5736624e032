// Package adminclient is a Go client for the admin console API.
package adminclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"tokoadmin/internal/models"
	"tokoadmin/internal/services"
)

// RequestFailed is returned for any non-2xx response.
type RequestFailed struct {
	StatusCode int
	Message    string
	Detail     string
}

func (e *RequestFailed) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("request failed with status %d: %s: %s", e.StatusCode, e.Message, e.Detail)
	}
	return fmt.Sprintf("request failed with status %d: %s", e.StatusCode, e.Message)
}

// Client calls the admin API.
type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
	token      string
}

// Option configures a Client.
type Option func(*Client)

// WithToken sets the bearer token sent on every request.
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// New creates a Client for the API rooted at baseURL (for example http://localhost:8080).
func New(baseURL string, opts ...Option) (*Client, error) {
	base, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid base url: %w", err)
	}
	c := &Client{
		baseURL: base,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
			Transport: &http.Transport{
				DialContext: (&net.Dialer{
					Timeout:   5 * time.Second,
					KeepAlive: 30 * time.Second,
				}).DialContext,
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
			},
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// SetToken replaces the bearer token.
func (c *Client) SetToken(token string) { c.token = token }

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out interface{}) error {
	u := *c.baseURL
	u.Path = c.baseURL.Path + path
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("call %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		failed := &RequestFailed{StatusCode: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
		var payload struct {
			Message string `json:"message"`
			Error   string `json:"error"`
		}
		if json.NewDecoder(resp.Body).Decode(&payload) == nil {
			if payload.Message != "" {
				failed.Message = payload.Message
			}
			failed.Detail = payload.Error
		}
		return failed
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// Login exchanges credentials for a token and keeps it for later calls.
func (c *Client) Login(ctx context.Context, username, password string) (string, error) {
	var resp struct {
		Token string `json:"token"`
	}
	body := map[string]string{"username": username, "password": password}
	if err := c.do(ctx, http.MethodPost, "/api/v1/auth/login", nil, body, &resp); err != nil {
		return "", err
	}
	c.token = resp.Token
	return resp.Token, nil
}

// ProductPage is one page of catalog products.
type ProductPage struct {
	Products   []models.Product  `json:"products"`
	Pagination models.Pagination `json:"pagination"`
}

// ListProducts fetches one page of products matching f.
func (c *Client) ListProducts(ctx context.Context, f models.ListFilter) (*ProductPage, error) {
	var page ProductPage
	if err := c.do(ctx, http.MethodGet, "/api/v1/products", f.Values(), nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// OrderPage is one page of orders.
type OrderPage struct {
	Orders     []models.Order    `json:"orders"`
	Pagination models.Pagination `json:"pagination"`
}

// ListOrders fetches one page of orders matching f.
func (c *Client) ListOrders(ctx context.Context, f models.ListFilter) (*OrderPage, error) {
	var page OrderPage
	if err := c.do(ctx, http.MethodGet, "/api/v1/admin/orders", f.Values(), nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// ApplyOrderAction runs action on one order. reason is sent for reject and cancel.
func (c *Client) ApplyOrderAction(ctx context.Context, id string, action models.OrderAction, reason string) (*models.Order, error) {
	var body interface{}
	if reason != "" {
		body = map[string]string{"reason": reason}
	}
	var order models.Order
	path := "/api/v1/admin/orders/" + url.PathEscape(id) + "/actions/" + url.PathEscape(string(action))
	if err := c.do(ctx, http.MethodPost, path, nil, body, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// BulkResponse reports the outcome of a bulk action per order.
type BulkResponse struct {
	Action    models.OrderAction    `json:"action"`
	Results   []services.BulkResult `json:"results"`
	Succeeded int                   `json:"succeeded"`
	Failed    int                   `json:"failed"`
}

// BulkOrderAction runs action on every order in ids. Partial failure is not an error.
func (c *Client) BulkOrderAction(ctx context.Context, ids []string, action models.OrderAction, reason string) (*BulkResponse, error) {
	body := map[string]interface{}{"ids": ids, "reason": reason}
	var resp BulkResponse
	if err := c.do(ctx, http.MethodPost, "/api/v1/admin/orders/bulk/"+url.PathEscape(string(action)), nil, body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// UpdateStock sets the stock level of a product.
func (c *Client) UpdateStock(ctx context.Context, id string, quantity int) (*models.Product, error) {
	var product models.Product
	body := map[string]int{"quantity": quantity}
	if err := c.do(ctx, http.MethodPatch, "/api/v1/admin/products/"+url.PathEscape(id)+"/stock", nil, body, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

// Quote prices a cart without placing an order.
func (c *Client) Quote(ctx context.Context, req services.QuoteRequest) (*services.Quote, error) {
	var quote services.Quote
	if err := c.do(ctx, http.MethodPost, "/api/v1/checkout/quote", nil, req, &quote); err != nil {
		return nil, err
	}
	return &quote, nil
}
