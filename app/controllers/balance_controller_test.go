package controllers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ManuelReschke/WalletFox/internal/pkg/cache"
	"github.com/ManuelReschke/WalletFox/internal/pkg/solana"
)

// newGetBalanceStub fakes a Solana RPC node that knows one balance.
func newGetBalanceStub(t *testing.T, lamports uint64) *httptest.Server {
	t.Helper()

	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Method string `json:"method"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("rpc stub: decode request: %v", err)
		}
		if req.Method != "getBalance" {
			t.Errorf("rpc stub: unexpected method %q", req.Method)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"jsonrpc": "2.0",
			"id":      1,
			"result": map[string]any{
				"context": map[string]any{"slot": 1},
				"value":   lamports,
			},
		})
	}))
}

// pointSolanaRPCAt rebuilds the shared RPC client against rawURL and restores
// the regular client afterwards.
func pointSolanaRPCAt(t *testing.T, rawURL string) {
	t.Helper()

	t.Cleanup(solana.Setup)
	setTestEnv(t, "SOLANA_RPC_URL", rawURL)
	solana.Setup()
}

func TestLookupBalanceCacheHit(t *testing.T) {
	setupWebRedis(t)

	// An unreachable node proves the cached value short-circuits the RPC.
	pointSolanaRPCAt(t, "http://127.0.0.1:1")

	key := fmt.Sprintf("balance:%s", testMintAddress)
	require.NoError(t, cache.Set(key, "2039280", time.Minute))

	lamports, ok := LookupBalance(testMintAddress)
	assert.True(t, ok)
	assert.Equal(t, uint64(2039280), lamports)
}

func TestLookupBalanceQueriesRPC(t *testing.T) {
	setupWebRedis(t)

	stub := newGetBalanceStub(t, 1_500_000_000)
	defer stub.Close()
	pointSolanaRPCAt(t, stub.URL)

	lamports, ok := LookupBalance(testMerchantAddress)
	require.True(t, ok)
	assert.Equal(t, uint64(1_500_000_000), lamports)

	// The snapshot lands in the cache for the next lookup.
	cached, err := cache.Get(fmt.Sprintf("balance:%s", testMerchantAddress))
	require.NoError(t, err)
	assert.Equal(t, "1500000000", cached)
}

func TestLookupBalanceUnavailable(t *testing.T) {
	setupWebRedis(t)

	pointSolanaRPCAt(t, "http://127.0.0.1:1")

	lamports, ok := LookupBalance(testRecipientAddress)
	assert.False(t, ok)
	assert.Zero(t, lamports)
}
