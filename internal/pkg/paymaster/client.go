package paymaster

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/ManuelReschke/WalletFox/internal/pkg/env"
	"github.com/ManuelReschke/WalletFox/internal/pkg/smartwallet"
)

// Client is the fee-sponsoring relay. It receives assembled transactions,
// adds the sponsor's fee-payer signature on the vendor side and submits them
// to the cluster. The demo never touches a fee-paying key itself.
type Client struct {
	URL        string
	HTTPClient *http.Client
}

func NewClientFromEnv() *Client {
	return &Client{
		URL: strings.TrimSpace(env.GetEnv("PAYMASTER_URL", "")),
		HTTPClient: &http.Client{
			Timeout: 20 * time.Second,
		},
	}
}

// SignAndSendParams carry one transaction to the relay. Bundle completes the
// wallet's signature slot and is nil for mandate transactions, where the
// passkey approval is already embedded.
type SignAndSendParams struct {
	Transaction string
	Bundle      *smartwallet.SignatureBundle
}

type rpcRequest struct {
	JSONRPC string `json:"jsonrpc"`
	ID      int    `json:"id"`
	Method  string `json:"method"`
	Params  any    `json:"params,omitempty"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type rpcResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      int             `json:"id"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *rpcError       `json:"error,omitempty"`
}

// SignAndSend relays the transaction and returns the cluster signature.
func (c *Client) SignAndSend(ctx context.Context, p SignAndSendParams) (string, error) {
	if c == nil || strings.TrimSpace(c.URL) == "" {
		return "", errors.New("PAYMASTER_URL is not configured")
	}
	if strings.TrimSpace(p.Transaction) == "" {
		return "", errors.New("paymaster: transaction is required")
	}
	if c.HTTPClient == nil {
		c.HTTPClient = &http.Client{Timeout: 20 * time.Second}
	}

	params := map[string]any{
		"transaction": strings.TrimSpace(p.Transaction),
	}
	if p.Bundle != nil {
		params["signature"] = p.Bundle
	}

	reqBody, err := json.Marshal(rpcRequest{
		JSONRPC: "2.0",
		ID:      1,
		Method:  "pm_signAndSendTransaction",
		Params:  []any{params},
	})
	if err != nil {
		return "", fmt.Errorf("paymaster: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.URL, bytes.NewReader(reqBody))
	if err != nil {
		return "", fmt.Errorf("paymaster: new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("paymaster: http do: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("paymaster: http status=%d", resp.StatusCode)
	}

	var rr rpcResponse
	if err := json.NewDecoder(resp.Body).Decode(&rr); err != nil {
		return "", fmt.Errorf("paymaster: decode response: %w", err)
	}
	if rr.Error != nil {
		return "", fmt.Errorf("paymaster: rpc error code=%d message=%s", rr.Error.Code, rr.Error.Message)
	}

	var out struct {
		Signature string `json:"signature"`
	}
	if err := json.Unmarshal(rr.Result, &out); err != nil {
		return "", fmt.Errorf("paymaster: unmarshal result: %w", err)
	}
	if strings.TrimSpace(out.Signature) == "" {
		return "", errors.New("paymaster: relay returned an empty signature")
	}
	return out.Signature, nil
}
