package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// ChargeStatus is the provider-side state of a PIX charge
type ChargeStatus string

const (
	ChargeStatusPending ChargeStatus = "pending"
	ChargeStatusPaid    ChargeStatus = "paid"
	ChargeStatusFailed  ChargeStatus = "failed"
)

// Charge is a PIX charge as the provider reports it
type Charge struct {
	ID        string       `json:"id"`
	Amount    int64        `json:"amount"` // centavos
	Status    ChargeStatus `json:"status"`
	QRCode    string       `json:"qr_code"`
	CreatedAt time.Time    `json:"created_at"`
}

// Provider is the outbound payment gateway surface
type Provider interface {
	// CreateCharge opens a PIX charge for the amount and returns the QR code
	// the player pays against
	CreateCharge(ctx context.Context, userID int64, amount int64) (*Charge, error)

	// GetCharge reports the current provider-side state of a charge
	GetCharge(ctx context.Context, chargeID string) (*Charge, error)
}

// PixClient talks to the PIX gateway over HTTP
type PixClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewPixClient creates a PIX gateway client
func NewPixClient(baseURL, apiKey string) *PixClient {
	return &PixClient{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// CreateCharge opens a PIX charge
func (c *PixClient) CreateCharge(ctx context.Context, userID int64, amount int64) (*Charge, error) {
	payload, err := json.Marshal(map[string]any{
		"external_user_id": userID,
		"amount":           amount,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode charge request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/charges", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to build charge request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	return c.doCharge(req)
}

// GetCharge fetches a charge's current state
func (c *PixClient) GetCharge(ctx context.Context, chargeID string) (*Charge, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/v1/charges/"+chargeID, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build charge lookup: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	return c.doCharge(req)
}

func (c *PixClient) doCharge(req *http.Request) (*Charge, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("payment provider request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("payment provider returned status %d", resp.StatusCode)
	}

	var charge Charge
	if err := json.NewDecoder(resp.Body).Decode(&charge); err != nil {
		return nil, fmt.Errorf("failed to decode charge response: %w", err)
	}
	return &charge, nil
}
