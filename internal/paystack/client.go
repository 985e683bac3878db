package paystack

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const DefaultBaseURL = "https://api.paystack.co"

type Client struct {
	SecretKey  string
	PublicKey  string
	BaseURL    string
	httpClient *http.Client

	readiness *Readiness
}

func NewClient(secret, public, baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		SecretKey:  secret,
		PublicKey:  public,
		BaseURL:    baseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
	c.readiness = newReadiness(c.probe)
	return c
}

// Initialize creates a transaction on the gateway and returns the
// gateway-assigned reference. Every call yields a fresh reference; a
// discarded attempt is never resubmitted under the same one.
func (c *Client) Initialize(ctx context.Context, req InitializeRequest) (InitializeResponse, error) {
	payload := map[string]any{
		"email":    req.Email,
		"amount":   req.AmountCents,
		"currency": req.Currency,
		"metadata": map[string]string{
			"order_number": req.OrderNumber,
		},
	}

	body, _ := json.Marshal(payload)

	httpReq, _ := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/transaction/initialize", bytes.NewBuffer(body))
	httpReq.Header.Set("Authorization", "Bearer "+c.SecretKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return InitializeResponse{}, fmt.Errorf("paystack initialize request: %w", err)
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusOK {
		// return raw body for logging/support
		return InitializeResponse{}, fmt.Errorf("paystack initialize failed: http=%d body=%s", resp.StatusCode, string(raw))
	}

	var res struct {
		Status  bool   `json:"status"`
		Message string `json:"message"`
		Data    struct {
			AuthorizationURL string `json:"authorization_url"`
			AccessCode       string `json:"access_code"`
			Reference        string `json:"reference"`
		} `json:"data"`
	}
	if err := json.Unmarshal(raw, &res); err != nil {
		return InitializeResponse{}, fmt.Errorf("paystack initialize decode: %w body=%s", err, string(raw))
	}
	if !res.Status || res.Data.Reference == "" {
		return InitializeResponse{}, fmt.Errorf("paystack initialize rejected: %s", res.Message)
	}

	return InitializeResponse{
		Reference:        res.Data.Reference,
		AccessCode:       res.Data.AccessCode,
		AuthorizationURL: res.Data.AuthorizationURL,
	}, nil
}

// Verify looks up the authoritative transaction status by reference.
// Transport errors are returned as-is so callers can distinguish
// "gateway said no" from "could not ask the gateway".
func (c *Client) Verify(ctx context.Context, reference string) (VerifyResponse, error) {
	if reference == "" {
		return VerifyResponse{}, fmt.Errorf("paystack verify requires a reference")
	}

	httpReq, _ := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/transaction/verify/"+reference, nil)
	httpReq.Header.Set("Authorization", "Bearer "+c.SecretKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return VerifyResponse{}, fmt.Errorf("paystack verify request: %w", err)
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusOK {
		return VerifyResponse{}, fmt.Errorf("paystack verify failed: http=%d body=%s", resp.StatusCode, string(raw))
	}

	var res struct {
		Status bool `json:"status"`
		Data   struct {
			Status    string     `json:"status"` // success, failed, abandoned, ongoing, reversed
			Reference string     `json:"reference"`
			Amount    int64      `json:"amount"`
			Currency  string     `json:"currency"`
			PaidAt    *time.Time `json:"paid_at"`
		} `json:"data"`
	}
	if err := json.Unmarshal(raw, &res); err != nil {
		return VerifyResponse{}, fmt.Errorf("paystack verify decode: %w body=%s", err, string(raw))
	}

	var rawMap map[string]any
	_ = json.Unmarshal(raw, &rawMap)

	return VerifyResponse{
		Status:      res.Data.Status,
		Reference:   res.Data.Reference,
		AmountCents: res.Data.Amount,
		Currency:    res.Data.Currency,
		PaidAt:      res.Data.PaidAt,
		Raw:         rawMap,
	}, nil
}

// Popup builds the inline-widget parameters for an initialized attempt.
func (c *Client) Popup(email string, amountCents int64, currency, reference string) PopupConfig {
	return PopupConfig{
		Key:      c.PublicKey,
		Email:    email,
		Amount:   amountCents,
		Currency: currency,
		Ref:      reference,
	}
}

// Readiness exposes the client's three-state load probe.
func (c *Client) Readiness() *Readiness { return c.readiness }

// probe performs a cheap authenticated round trip so readiness reflects
// both network reachability and key validity.
func (c *Client) probe(ctx context.Context) error {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/transaction/totals", nil)
	if err != nil {
		return err
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.SecretKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("paystack probe: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode == http.StatusUnauthorized {
		return fmt.Errorf("paystack probe: invalid secret key")
	}
	return nil
}
