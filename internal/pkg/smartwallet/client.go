package smartwallet

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/ManuelReschke/WalletFox/internal/pkg/env"
)

// Client talks to the smart-wallet vendor. Transaction assembly and the
// authorization-message format live on the vendor side; this client only
// ships instructions over and gets opaque base64 payloads back. The portal
// (passkey dialogs) and the JSON-RPC service share the same vendor, so both
// endpoints are configured here.
type Client struct {
	ServiceURL     string
	PortalURL      string
	BaseURL        string
	SponsorAddress string

	HTTPClient *http.Client
}

func NewClientFromEnv() *Client {
	return &Client{
		ServiceURL:     strings.TrimSpace(env.GetEnv("PAYMASTER_URL", "")),
		PortalURL:      strings.TrimRight(strings.TrimSpace(env.GetEnv("PORTAL_URL", "")), "/"),
		BaseURL:        strings.TrimRight(strings.TrimSpace(env.GetEnv("PUBLIC_DOMAIN", "")), "/"),
		SponsorAddress: strings.TrimSpace(env.GetEnv("SPONSOR_ADDRESS", "")),
		HTTPClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
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

func (c *Client) call(ctx context.Context, method string, params any, out any) error {
	if c == nil || strings.TrimSpace(c.ServiceURL) == "" {
		return errors.New("PAYMASTER_URL is not configured")
	}
	if c.HTTPClient == nil {
		c.HTTPClient = &http.Client{Timeout: 15 * time.Second}
	}

	reqBody, err := json.Marshal(rpcRequest{
		JSONRPC: "2.0",
		ID:      1,
		Method:  method,
		Params:  params,
	})
	if err != nil {
		return fmt.Errorf("smartwallet: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.ServiceURL, bytes.NewReader(reqBody))
	if err != nil {
		return fmt.Errorf("smartwallet: new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("smartwallet: http do: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("smartwallet: http status=%d", resp.StatusCode)
	}

	var rr rpcResponse
	if err := json.NewDecoder(resp.Body).Decode(&rr); err != nil {
		return fmt.Errorf("smartwallet: decode response: %w", err)
	}
	if rr.Error != nil {
		return fmt.Errorf("smartwallet: rpc error code=%d message=%s", rr.Error.Code, rr.Error.Message)
	}
	if out != nil {
		if err := json.Unmarshal(rr.Result, out); err != nil {
			return fmt.Errorf("smartwallet: unmarshal result: %w", err)
		}
	}
	return nil
}

// AuthMessageParams describe the authorization a passkey will sign. The
// payer is always the configured sponsor.
type AuthMessageParams struct {
	Action        Action
	Wallet        string
	PasskeyPubkey string
	CredentialID  string
	Timestamp     time.Time
}

// BuildAuthorizationMessage asks the wallet service for the opaque message a
// passkey must sign to approve the given action. The credential id is hashed
// before it leaves the process.
func (c *Client) BuildAuthorizationMessage(ctx context.Context, p AuthMessageParams) (string, error) {
	if p.Action == nil {
		return "", errors.New("smartwallet: action is required")
	}
	if strings.TrimSpace(p.Wallet) == "" {
		return "", errors.New("smartwallet: wallet address is required")
	}
	if strings.TrimSpace(p.PasskeyPubkey) == "" {
		return "", errors.New("smartwallet: passkey public key is required")
	}
	if strings.TrimSpace(p.CredentialID) == "" {
		return "", errors.New("smartwallet: credential id is required")
	}
	if strings.TrimSpace(c.SponsorAddress) == "" {
		return "", errors.New("SPONSOR_ADDRESS is not configured")
	}

	var out struct {
		Message string `json:"message"`
	}
	err := c.call(ctx, "wallet_buildAuthorizationMessage", []any{map[string]any{
		"action":          p.Action.ActionName(),
		"payer":           c.SponsorAddress,
		"wallet":          strings.TrimSpace(p.Wallet),
		"passkey":         strings.TrimSpace(p.PasskeyPubkey),
		"credential_hash": HashCredentialID(p.CredentialID),
		"timestamp":       p.Timestamp.Unix(),
	}}, &out)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(out.Message) == "" {
		return "", errors.New("smartwallet: service returned an empty authorization message")
	}
	return out.Message, nil
}

// CreateTxParams describe a mandate-creation transaction request. The
// signature bundle proves the passkey approved Message.
type CreateTxParams struct {
	Wallet       string
	Instructions []WireInstruction
	ExpiresAt    int64
	Message      string
	Bundle       SignatureBundle
}

// CreateMandateTransaction asks the wallet service to assemble the
// transaction that records a mandate on chain.
func (c *Client) CreateMandateTransaction(ctx context.Context, p CreateTxParams) (string, error) {
	if strings.TrimSpace(p.Wallet) == "" {
		return "", errors.New("smartwallet: wallet address is required")
	}
	if len(p.Instructions) == 0 {
		return "", errors.New("smartwallet: instructions are required")
	}
	if strings.TrimSpace(p.Message) == "" {
		return "", errors.New("smartwallet: authorization message is required")
	}
	if strings.TrimSpace(p.Bundle.Signature) == "" {
		return "", errors.New("smartwallet: signature bundle is required")
	}

	var out struct {
		Transaction string `json:"transaction"`
	}
	err := c.call(ctx, "wallet_buildCreateMandateTransaction", []any{map[string]any{
		"action":       CreateMandateAction{}.ActionName(),
		"payer":        c.SponsorAddress,
		"wallet":       strings.TrimSpace(p.Wallet),
		"instructions": p.Instructions,
		"expires_at":   p.ExpiresAt,
		"message":      p.Message,
		"signature":    p.Bundle,
	}}, &out)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(out.Transaction) == "" {
		return "", errors.New("smartwallet: service returned an empty transaction")
	}
	return out.Transaction, nil
}

// ExecuteTxParams describe an execution request against a recorded mandate.
// There is deliberately no signature bundle here: execution rides on the
// authorization stored at creation time.
type ExecuteTxParams struct {
	Wallet           string
	Instructions     []WireInstruction
	MandateSignature string
}

// ExecuteMandateTransaction asks the wallet service to assemble the
// transaction that charges a recorded mandate.
func (c *Client) ExecuteMandateTransaction(ctx context.Context, p ExecuteTxParams) (string, error) {
	if strings.TrimSpace(p.Wallet) == "" {
		return "", errors.New("smartwallet: wallet address is required")
	}
	if len(p.Instructions) == 0 {
		return "", errors.New("smartwallet: instructions are required")
	}
	if strings.TrimSpace(p.MandateSignature) == "" {
		return "", errors.New("smartwallet: mandate signature is required")
	}

	var out struct {
		Transaction string `json:"transaction"`
	}
	err := c.call(ctx, "wallet_buildExecuteMandateTransaction", []any{map[string]any{
		"action":       ExecuteMandateAction{}.ActionName(),
		"payer":        c.SponsorAddress,
		"wallet":       strings.TrimSpace(p.Wallet),
		"instructions": p.Instructions,
		"mandate":      strings.TrimSpace(p.MandateSignature),
	}}, &out)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(out.Transaction) == "" {
		return "", errors.New("smartwallet: service returned an empty transaction")
	}
	return out.Transaction, nil
}

// SponsoredTxParams describe a fee-sponsored transaction built from locally
// assembled instructions, e.g. a native transfer.
type SponsoredTxParams struct {
	Wallet       string
	Instructions []WireInstruction
}

// SponsoredTx is an unsigned sponsored transaction plus the message bytes
// the wallet's passkey must sign over.
type SponsoredTx struct {
	Transaction string `json:"transaction"`
	Message     string `json:"message"`
}

// BuildSponsoredTransaction asks the wallet service for a fee-sponsored
// transaction wrapping the given instructions.
func (c *Client) BuildSponsoredTransaction(ctx context.Context, p SponsoredTxParams) (*SponsoredTx, error) {
	if strings.TrimSpace(p.Wallet) == "" {
		return nil, errors.New("smartwallet: wallet address is required")
	}
	if len(p.Instructions) == 0 {
		return nil, errors.New("smartwallet: instructions are required")
	}

	var out SponsoredTx
	err := c.call(ctx, "wallet_buildSponsoredTransaction", []any{map[string]any{
		"payer":        c.SponsorAddress,
		"wallet":       strings.TrimSpace(p.Wallet),
		"instructions": p.Instructions,
	}}, &out)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(out.Transaction) == "" || strings.TrimSpace(out.Message) == "" {
		return nil, errors.New("smartwallet: service returned an incomplete sponsored transaction")
	}
	return &out, nil
}

// HashCredentialID returns the hex SHA-256 of a passkey credential id. Only
// the hash ever goes over the wire.
func HashCredentialID(credentialID string) string {
	sum := sha256.Sum256([]byte(strings.TrimSpace(credentialID)))
	return hex.EncodeToString(sum[:])
}
