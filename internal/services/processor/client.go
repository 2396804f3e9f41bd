package processor

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	json "github.com/json-iterator/go"

	"github.com/paylume/checkout/internal/money"
)

// Client talks to the vendor's REST API. All calls are blocking and
// request-scoped; a timeout surfaces as ErrServiceUnavailable, never
// as a retry.
type Client struct {
	merchantID string
	url        string
	client     *http.Client
}

func NewClient(merchantID, url string, timeout time.Duration) *Client {
	transport := &http.Transport{
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 100,
		IdleConnTimeout:     90 * time.Second,
		DisableKeepAlives:   false,
	}
	return &Client{
		merchantID: merchantID,
		url:        url,
		client: &http.Client{
			Timeout:   timeout,
			Transport: transport,
		},
	}
}

func (c *Client) GenerateCaptureContext(ctx context.Context, request *CaptureContextRequest) (*CaptureContextResponse, error) {
	status, body, err := c.post(ctx, "/microform/v2/sessions", request)
	if err != nil {
		return nil, err
	}
	if status < 200 || status >= 300 {
		return nil, fmt.Errorf("%w: capture context generation returned status %d", ErrServiceUnavailable, status)
	}
	if len(body) == 0 {
		return nil, ErrEmptyResponse
	}
	// The body is the signed context itself, not a JSON envelope.
	return &CaptureContextResponse{HTTPStatus: status, Context: string(body)}, nil
}

// CreatePayment submits a tokenized authorization. A response with a
// decodable body is returned regardless of the authorization verdict;
// the error path is transport failures, 5xx and empty bodies only.
func (c *Client) CreatePayment(ctx context.Context, request *PaymentRequest) (*PaymentResponse, error) {
	status, body, err := c.post(ctx, "/pts/v2/payments", request)
	if err != nil {
		return nil, err
	}
	if status >= 500 {
		return nil, fmt.Errorf("%w: payment returned status %d", ErrServiceUnavailable, status)
	}
	if len(body) == 0 {
		return nil, ErrEmptyResponse
	}

	var response PaymentResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("failed to decode payment response: %w", err)
	}
	response.HTTPStatus = status
	response.Raw = body
	return &response, nil
}

func (c *Client) ReverseAuthorization(ctx context.Context, transactionID string, amount money.Money, currency string) (*ReversalResponse, error) {
	request := map[string]any{
		"reversalInformation": map[string]any{
			"amountDetails": AmountDetails{TotalAmount: amount, Currency: currency},
			"reason":        "checkout reversal",
		},
	}
	path := fmt.Sprintf("/pts/v2/payments/%s/reversals", transactionID)
	status, body, err := c.post(ctx, path, request)
	if err != nil {
		return nil, err
	}
	if status < 200 || status >= 300 {
		return nil, fmt.Errorf("%w: reversal returned status %d", ErrServiceUnavailable, status)
	}

	var response ReversalResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("failed to decode reversal response: %w", err)
	}
	response.HTTPStatus = status
	return &response, nil
}

func (c *Client) GetTransactionByToken(ctx context.Context, token string) (*TransactionResponse, error) {
	url := fmt.Sprintf("%s/tss/v2/transactions?token=%s", c.url, token)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create transaction lookup request: %w", err)
	}
	req.Header.Set("V-C-Merchant-Id", c.merchantID)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrServiceUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: transaction lookup returned status %d", ErrServiceUnavailable, resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read transaction lookup response: %w", err)
	}

	var response TransactionResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("failed to decode transaction lookup response: %w", err)
	}
	response.HTTPStatus = resp.StatusCode
	return &response, nil
}

func (c *Client) post(ctx context.Context, path string, payload any) (int, []byte, error) {
	jsonData, err := json.Marshal(payload)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url+path, bytes.NewBuffer(jsonData))
	if err != nil {
		return 0, nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("V-C-Merchant-Id", c.merchantID)

	resp, err := c.client.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("%w: %v", ErrServiceUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("failed to read response body: %w", err)
	}
	return resp.StatusCode, body, nil
}
