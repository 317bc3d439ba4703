// Package paypal is a minimal client for the PayPal Orders v2 REST API:
// create an order for an invoice amount, then capture it after buyer
// approval.
package paypal

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

type Client struct {
	clientID  string
	secret    string
	baseURL   string
	returnURL string
	cancelURL string
	client    *http.Client

	// mu guards the token cache; the client is shared across request
	// goroutines.
	mu          sync.Mutex
	token       string
	tokenExpiry time.Time
}

func NewClient(clientID, secret, baseURL, returnURL, cancelURL string) *Client {
	return &Client{
		clientID:  clientID,
		secret:    secret,
		baseURL:   strings.TrimRight(baseURL, "/"),
		returnURL: returnURL,
		cancelURL: cancelURL,
		client:    &http.Client{Timeout: 30 * time.Second},
	}
}

// Order is the subset of the order representation the billing flow needs.
type Order struct {
	ID            string         `json:"id"`
	Status        string         `json:"status"`
	Links         []Link         `json:"links"`
	PurchaseUnits []PurchaseUnit `json:"purchase_units"`
}

type Link struct {
	Href string `json:"href"`
	Rel  string `json:"rel"`
}

type PurchaseUnit struct {
	CustomID string    `json:"custom_id"`
	Payments *Payments `json:"payments,omitempty"`
}

type Payments struct {
	Captures []Capture `json:"captures"`
}

type Capture struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

// ApprovalURL returns the buyer-approval link of a freshly created order.
func (o *Order) ApprovalURL() string {
	for _, link := range o.Links {
		if link.Rel == "approve" {
			return link.Href
		}
	}
	return ""
}

// CaptureID returns the first capture id of a captured order, or the order id
// when the response carries no capture detail.
func (o *Order) CaptureID() string {
	for _, unit := range o.PurchaseUnits {
		if unit.Payments != nil && len(unit.Payments.Captures) > 0 {
			return unit.Payments.Captures[0].ID
		}
	}
	return o.ID
}

// CustomID returns the correlation id embedded at order-creation time.
func (o *Order) CustomID() string {
	for _, unit := range o.PurchaseUnits {
		if unit.CustomID != "" {
			return unit.CustomID
		}
	}
	return ""
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
}

// accessToken returns the cached OAuth token, fetching a fresh one when it is
// missing or about to expire. The lock is held across the refresh so
// concurrent callers share one fetch.
func (c *Client) accessToken(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.token != "" && time.Now().Before(c.tokenExpiry) {
		return c.token, nil
	}

	form := url.Values{}
	form.Set("grant_type", "client_credentials")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/oauth2/token", strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("build token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetBasicAuth(c.clientID, c.secret)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("token request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("paypal auth failed: %s: %s", resp.Status, string(body))
	}

	var token tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&token); err != nil {
		return "", fmt.Errorf("decode token response: %w", err)
	}

	c.token = token.AccessToken
	// refresh a minute early to avoid using a token that expires mid-request
	c.tokenExpiry = time.Now().Add(time.Duration(token.ExpiresIn-60) * time.Second)
	return c.token, nil
}

type createOrderRequest struct {
	Intent             string                   `json:"intent"`
	PurchaseUnits      []createOrderUnit        `json:"purchase_units"`
	ApplicationContext *applicationContext      `json:"application_context,omitempty"`
}

type createOrderUnit struct {
	Amount   orderAmount `json:"amount"`
	CustomID string      `json:"custom_id,omitempty"`
}

type orderAmount struct {
	CurrencyCode string `json:"currency_code"`
	Value        string `json:"value"`
}

type applicationContext struct {
	ReturnURL string `json:"return_url,omitempty"`
	CancelURL string `json:"cancel_url,omitempty"`
}

// CreateOrder creates a CAPTURE-intent order priced in PHP. customID
// correlates the order with a billing row and is echoed back on capture.
func (c *Client) CreateOrder(ctx context.Context, amount float64, customID string) (*Order, error) {
	payload := createOrderRequest{
		Intent: "CAPTURE",
		PurchaseUnits: []createOrderUnit{
			{
				Amount:   orderAmount{CurrencyCode: "PHP", Value: fmt.Sprintf("%.2f", amount)},
				CustomID: customID,
			},
		},
		ApplicationContext: &applicationContext{
			ReturnURL: c.returnURL,
			CancelURL: c.cancelURL,
		},
	}

	var order Order
	if err := c.post(ctx, "/v2/checkout/orders", payload, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// CaptureOrder captures an approved order.
func (c *Client) CaptureOrder(ctx context.Context, orderID string) (*Order, error) {
	var order Order
	if err := c.post(ctx, "/v2/checkout/orders/"+orderID+"/capture", struct{}{}, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

func (c *Client) post(ctx context.Context, path string, payload any, out any) error {
	token, err := c.accessToken(ctx)
	if err != nil {
		return err
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Prefer", "return=representation")
	req.Header.Set("Authorization", "Bearer "+token)
	// Idempotency key for retried creates and captures.
	req.Header.Set("PayPal-Request-Id", uuid.NewString())

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("paypal API error: %s: %s", resp.Status, string(raw))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
