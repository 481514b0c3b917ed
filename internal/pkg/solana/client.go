package solana

import (
	"context"
	"fmt"
	"strings"

	"github.com/blocto/solana-go-sdk/client"
	"github.com/blocto/solana-go-sdk/rpc"

	"github.com/ManuelReschke/WalletFox/internal/pkg/env"
)

// TxStatus is the cluster-side view of a submitted transaction.
// A zero value means the cluster does not know the signature yet.
type TxStatus struct {
	Slot      uint64
	Finalized bool
	Failed    bool
}

// Client wraps the Solana JSON-RPC client with the few read operations the
// app needs. All mutating traffic goes through the paymaster relay instead.
type Client struct {
	rpc *client.Client
}

func NewClient(rpcURL string) *Client {
	u := strings.TrimSpace(rpcURL)
	if u == "" {
		u = rpc.DevnetRPCEndpoint
	}
	return &Client{rpc: client.NewClient(u)}
}

// Balance returns the lamport balance of the given account.
func (c *Client) Balance(ctx context.Context, address string) (uint64, error) {
	addr := strings.TrimSpace(address)
	if err := ValidateAddress(addr); err != nil {
		return 0, err
	}
	balance, err := c.rpc.GetBalance(ctx, addr)
	if err != nil {
		return 0, fmt.Errorf("solana: GetBalance: %w", err)
	}
	return balance, nil
}

// LatestBlockhash returns a recent blockhash for transaction assembly.
func (c *Client) LatestBlockhash(ctx context.Context) (string, error) {
	latest, err := c.rpc.GetLatestBlockhash(ctx)
	if err != nil {
		return "", fmt.Errorf("solana: GetLatestBlockhash: %w", err)
	}
	return latest.Blockhash, nil
}

// SignatureStatus looks up a transaction signature on the cluster. An unknown
// signature returns a zero TxStatus and no error.
func (c *Client) SignatureStatus(ctx context.Context, signature string) (TxStatus, error) {
	sig := strings.TrimSpace(signature)
	if sig == "" {
		return TxStatus{}, fmt.Errorf("solana: signature is empty")
	}
	st, err := c.rpc.GetSignatureStatus(ctx, sig)
	if err != nil {
		return TxStatus{}, fmt.Errorf("solana: GetSignatureStatus: %w", err)
	}
	if st == nil {
		return TxStatus{}, nil
	}
	out := TxStatus{Slot: st.Slot}
	if st.Err != nil {
		out.Failed = true
	}
	if st.ConfirmationStatus != nil && *st.ConfirmationStatus == rpc.CommitmentFinalized {
		out.Finalized = true
	}
	return out, nil
}

var defaultClient *Client

// Setup initializes the shared RPC client from SOLANA_RPC_URL.
func Setup() {
	defaultClient = NewClient(env.GetEnv("SOLANA_RPC_URL", rpc.DevnetRPCEndpoint))
}

// GetClient returns the shared RPC client instance.
func GetClient() *Client {
	if defaultClient == nil {
		Setup()
	}
	return defaultClient
}
