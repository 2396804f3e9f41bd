package storefront

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	json "github.com/json-iterator/go"
	"github.com/shopspring/decimal"

	"github.com/paylume/checkout/internal/models"
	"github.com/paylume/checkout/internal/money"
)

// Client talks to the hosting storefront's internal API. It implements
// the collaborator interfaces the core services depend on: order
// persistence, shipping rates, tax rates and customer defaults.
type Client struct {
	url    string
	client *http.Client
}

func NewClient(url string, timeout time.Duration) *Client {
	return &Client{
		url: url,
		client: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        50,
				MaxIdleConnsPerHost: 50,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
}

func (c *Client) GetOrder(ctx context.Context, id string) (*models.Order, error) {
	var order models.Order
	if err := c.get(ctx, "/internal/orders/"+url.PathEscape(id), &order); err != nil {
		return nil, fmt.Errorf("order lookup failed: %w", err)
	}
	return &order, nil
}

func (c *Client) UpdateStatus(ctx context.Context, id string, status models.OrderStatus) error {
	payload := map[string]string{"status": status.String()}
	if err := c.post(ctx, "/internal/orders/"+url.PathEscape(id)+"/status", payload, nil); err != nil {
		return fmt.Errorf("order status update failed: %w", err)
	}
	return nil
}

func (c *Client) SetMeta(ctx context.Context, id, key, value string) error {
	payload := map[string]string{"key": key, "value": value}
	if err := c.post(ctx, "/internal/orders/"+url.PathEscape(id)+"/meta", payload, nil); err != nil {
		return fmt.Errorf("order meta write failed: %w", err)
	}
	return nil
}

func (c *Client) GetMeta(ctx context.Context, id, key string) (string, error) {
	var out struct {
		Value string `json:"value"`
	}
	path := "/internal/orders/" + url.PathEscape(id) + "/meta/" + url.PathEscape(key)
	if err := c.get(ctx, path, &out); err != nil {
		return "", fmt.Errorf("order meta read failed: %w", err)
	}
	return out.Value, nil
}

func (c *Client) Save(ctx context.Context, order *models.Order) error {
	if err := c.post(ctx, "/internal/orders/"+url.PathEscape(order.ID), order, nil); err != nil {
		return fmt.Errorf("order save failed: %w", err)
	}
	return nil
}

func (c *Client) CalculateRates(ctx context.Context, pkg models.ShippingPackage) ([]models.ShippingRate, error) {
	var rates []models.ShippingRate
	if err := c.post(ctx, "/internal/shipping/rates", pkg, &rates); err != nil {
		return nil, fmt.Errorf("shipping rate lookup failed: %w", err)
	}
	return rates, nil
}

func (c *Client) LastUsedMethod(ctx context.Context, customerID string) (string, error) {
	var out struct {
		MethodID string `json:"methodId"`
	}
	path := "/internal/customers/" + url.PathEscape(customerID) + "/last-shipping-method"
	if err := c.get(ctx, path, &out); err != nil {
		return "", fmt.Errorf("last shipping method lookup failed: %w", err)
	}
	return out.MethodID, nil
}

func (c *Client) FindRates(ctx context.Context, addr models.Address, taxClass string) ([]models.TaxRate, error) {
	payload := struct {
		Address  models.Address `json:"address"`
		TaxClass string         `json:"taxClass"`
	}{Address: addr, TaxClass: taxClass}

	var rates []models.TaxRate
	if err := c.post(ctx, "/internal/tax/rates", payload, &rates); err != nil {
		return nil, fmt.Errorf("tax rate lookup failed: %w", err)
	}
	return rates, nil
}

// CalcTax applies the found rates locally; each rate's contribution is
// rounded to cents before summing.
func (c *Client) CalcTax(amount money.Money, rates []models.TaxRate) money.Money {
	total := money.Zero
	for _, r := range rates {
		rate, err := decimal.NewFromString(r.Rate)
		if err != nil {
			continue
		}
		total = total.Add(amount.MulRate(rate))
	}
	return total
}

func (c *Client) DefaultAddress(ctx context.Context, customerID string) (models.Address, error) {
	var addr models.Address
	path := "/internal/customers/" + url.PathEscape(customerID) + "/address"
	if err := c.get(ctx, path, &addr); err != nil {
		return models.Address{}, fmt.Errorf("default address lookup failed: %w", err)
	}
	return addr, nil
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url+path, nil)
	if err != nil {
		return err
	}
	return c.do(req, out)
}

func (c *Client) post(ctx context.Context, path string, payload, out any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url+path, bytes.NewBuffer(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("storefront returned status %d", resp.StatusCode)
	}
	if out == nil {
		return nil
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
