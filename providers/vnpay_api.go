package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// APICheckoutClient requests a payment URL from the VNPay API instead of
// building it locally. The signed parameter set is identical to RedirectBuilder's.
type APICheckoutClient struct {
	cfg        Config
	httpClient *http.Client
	now        func() time.Time
}

// NewAPICheckoutClient creates an APICheckoutClient. A zero timeout uses 15s.
func NewAPICheckoutClient(cfg Config) *APICheckoutClient {
	timeout := cfg.APITimeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &APICheckoutClient{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: timeout},
		now:        time.Now,
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func (c *APICheckoutClient) WithHTTPClient(hc *http.Client) *APICheckoutClient {
	c.httpClient = hc
	return c
}

// WithClock replaces the client's time source.
func (c *APICheckoutClient) WithClock(now func() time.Time) *APICheckoutClient {
	c.now = now
	return c
}

type vnpayAPIResponse struct {
	ResponseCode string `json:"vnp_ResponseCode"`
	Message      string `json:"vnp_Message"`
	PaymentURL   string `json:"vnp_PaymentUrl"`
	TxnRef       string `json:"vnp_TxnRef"`
}

// BuildCheckout posts the signed parameters and returns the gateway's payment URL.
// Transport failures, cancellation and gateway rejections all wrap ErrGateway.
func (c *APICheckoutClient) BuildCheckout(ctx context.Context, req CheckoutRequest) (*CheckoutSession, error) {
	params, created, expires, err := buildParams(c.cfg, req, c.now())
	if err != nil {
		return nil, err
	}
	signed := make(Params, len(params)+1)
	for k, v := range params {
		signed[k] = v
	}
	signed[ParamSecureHash] = Sign(params, c.cfg.HashSecret)

	var resp vnpayAPIResponse
	if err := c.doRequest(ctx, signed, &resp); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGateway, err)
	}
	if resp.ResponseCode != ResponseCodeSuccess {
		return nil, fmt.Errorf("%w: response code %s: %s", ErrGateway, resp.ResponseCode, resp.Message)
	}
	if resp.PaymentURL == "" {
		return nil, fmt.Errorf("%w: empty payment url", ErrGateway)
	}

	txnRef := params["vnp_TxnRef"]
	if resp.TxnRef != "" && resp.TxnRef != txnRef {
		return nil, fmt.Errorf("%w: txn ref mismatch", ErrGateway)
	}

	return &CheckoutSession{
		URL:       resp.PaymentURL,
		TxnRef:    txnRef,
		CreatedAt: created,
		ExpiresAt: expires,
		Params:    signed,
	}, nil
}

func (c *APICheckoutClient) doRequest(ctx context.Context, body Params, out interface{}) error {
	b, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.APIURL, bytes.NewReader(b))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("http do: %w", err)
	}
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("vnpay API error (status %d): %s", resp.StatusCode, string(respBytes))
	}

	if err := json.Unmarshal(respBytes, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
