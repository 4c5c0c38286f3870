// Package client is a typed HTTP client for the coffee-shop API, used by the
// mobile front end. Registration is the only retried call; everything else
// fails fast and surfaces the server's message.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
)

const (
	registerAttempts = 3
	registerBackoff  = 500 * time.Millisecond
)

type Client struct {
	baseURL    string
	httpClient *http.Client

	mu    sync.RWMutex
	token string
}

func New(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
}

func (c *Client) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// APIError carries the server's {message} body and status code.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, &buf)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if tok := c.Token(); tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var apiErr struct {
			Message string `json:"message"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&apiErr)
		if apiErr.Message == "" {
			apiErr.Message = http.StatusText(resp.StatusCode)
		}
		return &APIError{Status: resp.StatusCode, Message: apiErr.Message}
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

type User struct {
	ID        uint   `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Address   string `json:"address"`
	AvatarURL string `json:"avatarUrl"`
}

type AuthResponse struct {
	Message string `json:"message"`
	User    User   `json:"user"`
	Token   string `json:"token"`
}

type RegisterRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	Phone     string `json:"phone,omitempty"`
	Address   string `json:"address,omitempty"`
}

// Register retries on network errors and 5xx responses with a fixed backoff.
// Client errors (4xx) are final.
func (c *Client) Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error) {
	var lastErr error
	for attempt := 1; attempt <= registerAttempts; attempt++ {
		var resp AuthResponse
		err := c.do(ctx, http.MethodPost, "/api/auth/register", req, &resp)
		if err == nil {
			return &resp, nil
		}
		lastErr = err

		var apiErr *APIError
		if ok := asAPIError(err, &apiErr); ok && apiErr.Status < 500 {
			return nil, err
		}
		if attempt < registerAttempts {
			select {
			case <-time.After(time.Duration(attempt) * registerBackoff):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}
	}
	return nil, lastErr
}

func asAPIError(err error, target **APIError) bool {
	if e, ok := err.(*APIError); ok {
		*target = e
		return true
	}
	return false
}

func (c *Client) Login(ctx context.Context, email, password string) (*AuthResponse, error) {
	body := map[string]string{"email": email, "password": password}
	var resp AuthResponse
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) RequestResetOTP(ctx context.Context, email string) error {
	return c.do(ctx, http.MethodPost, "/api/auth/request-reset-otp", map[string]string{"email": email}, nil)
}

func (c *Client) VerifyResetOTP(ctx context.Context, email, otp string) error {
	body := map[string]string{"email": email, "otp": otp}
	return c.do(ctx, http.MethodPost, "/api/auth/verify-reset-otp", body, nil)
}

func (c *Client) ResetPassword(ctx context.Context, email, otp, newPassword string) error {
	body := map[string]string{"email": email, "otp": otp, "newPassword": newPassword}
	return c.do(ctx, http.MethodPost, "/api/auth/reset-password", body, nil)
}

type Product struct {
	ID              uint    `json:"id"`
	CategoryID      uint    `json:"category_id"`
	CategoryName    string  `json:"category_name"`
	Name            string  `json:"name"`
	Description     string  `json:"description"`
	FullDescription string  `json:"fullDescription"`
	Image           string  `json:"image"`
	Price           int64   `json:"price"`
	Rating          float64 `json:"rating"`
	ReviewsCount    uint    `json:"reviews_count"`
}

type Category struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

func (c *Client) Products(ctx context.Context) ([]Product, error) {
	var resp struct {
		Data []Product `json:"data"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/products", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

func (c *Client) ProductsByCategory(ctx context.Context, categoryID uint) ([]Product, error) {
	var products []Product
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/products/category/%d", categoryID), nil, &products)
	return products, err
}

func (c *Client) Categories(ctx context.Context) ([]Category, error) {
	var categories []Category
	err := c.do(ctx, http.MethodGet, "/api/products/categories", nil, &categories)
	return categories, err
}

type SearchResult struct {
	Products   []Product  `json:"products"`
	Categories []Category `json:"categories"`
}

func (c *Client) Search(ctx context.Context, query string) (*SearchResult, error) {
	var result SearchResult
	if err := c.do(ctx, http.MethodGet, "/api/search?q="+url.QueryEscape(query), nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

type CartLine struct {
	ID            string `json:"id"`
	ProductID     uint   `json:"product_id"`
	ProductName   string `json:"product_name"`
	ProductImage  string `json:"product_image"`
	ProductPrice  int64  `json:"product_price"`
	Size          string `json:"size"`
	PriceModifier int64  `json:"price_modifier"`
	Quantity      uint   `json:"quantity"`
	LineTotal     int64  `json:"line_total"`
}

type CartTotals struct {
	Subtotal    int64 `json:"subtotal"`
	DeliveryFee int64 `json:"delivery_fee"`
	Discount    int64 `json:"discount"`
	Payable     int64 `json:"payable"`
}

type CartResponse struct {
	Items  []CartLine `json:"items"`
	Totals CartTotals `json:"totals"`
}

func (c *Client) Cart(ctx context.Context) (*CartResponse, error) {
	var resp CartResponse
	if err := c.do(ctx, http.MethodGet, "/api/cart", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) AddToCart(ctx context.Context, productID uint, quantity uint, size string) (string, error) {
	body := map[string]interface{}{"productId": productID, "quantity": quantity, "size": size}
	var resp struct {
		ID string `json:"id"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/cart", body, &resp); err != nil {
		return "", err
	}
	return resp.ID, nil
}

func (c *Client) UpdateCartItem(ctx context.Context, id string, quantity uint) error {
	return c.do(ctx, http.MethodPut, "/api/cart/"+id, map[string]uint{"quantity": quantity}, nil)
}

func (c *Client) RemoveCartItem(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/cart/"+id, nil, nil)
}

func (c *Client) ClearCart(ctx context.Context) error {
	return c.do(ctx, http.MethodDelete, "/api/cart/clear/all", nil, nil)
}

type OrderItemInput struct {
	ID       uint   `json:"id"`
	Quantity uint   `json:"quantity"`
	Size     string `json:"size"`
	Price    int64  `json:"price"`
}

type CreateOrderRequest struct {
	Items         []OrderItemInput `json:"items"`
	TotalAmount   int64            `json:"totalAmount"`
	Status        string           `json:"status,omitempty"`
	Address       string           `json:"address,omitempty"`
	Note          string           `json:"note,omitempty"`
	PaymentMethod string           `json:"paymentMethod,omitempty"`
	CustomerName  string           `json:"customerName,omitempty"`
	CustomerPhone string           `json:"customerPhone,omitempty"`
}

type OrderItem struct {
	ID          string `json:"id"`
	ProductID   uint   `json:"product_id"`
	ProductName string `json:"productName"`
	Price       int64  `json:"price"`
	Quantity    uint   `json:"quantity"`
	Size        string `json:"size"`
	Image       string `json:"image"`
}

type Order struct {
	ID                    string      `json:"id"`
	TotalAmount           int64       `json:"totalAmount"`
	Status                string      `json:"status"`
	Date                  time.Time   `json:"date"`
	Address               string      `json:"address"`
	Note                  string      `json:"note"`
	PaymentMethod         string      `json:"paymentMethod"`
	CustomerName          string      `json:"customerName"`
	CustomerPhone         string      `json:"customerPhone"`
	UserConfirmedTransfer bool        `json:"userConfirmedTransfer"`
	Items                 []OrderItem `json:"items"`
}

func (c *Client) CreateOrder(ctx context.Context, req CreateOrderRequest) (string, error) {
	var resp struct {
		OrderID string `json:"orderId"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/orders", req, &resp); err != nil {
		return "", err
	}
	return resp.OrderID, nil
}

func (c *Client) Orders(ctx context.Context) ([]Order, error) {
	var orders []Order
	err := c.do(ctx, http.MethodGet, "/api/orders", nil, &orders)
	return orders, err
}

func (c *Client) UpdateOrderStatus(ctx context.Context, orderID, status string) error {
	body := map[string]string{"status": status}
	return c.do(ctx, http.MethodPut, "/api/orders/"+orderID+"/status", body, nil)
}

func (c *Client) ConfirmTransfer(ctx context.Context, orderID string) error {
	return c.do(ctx, http.MethodPut, "/api/orders/"+orderID+"/confirm-transfer", nil, nil)
}
