package smartwallet

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type rpcCapture struct {
	Method string
	Params map[string]any
}

// newServiceStub returns a fake wallet-service endpoint that records the
// incoming call and answers with result.
func newServiceStub(t *testing.T, captured *rpcCapture, result any) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			JSONRPC string           `json:"jsonrpc"`
			Method  string           `json:"method"`
			Params  []map[string]any `json:"params"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if req.JSONRPC != "2.0" {
			t.Errorf("jsonrpc = %q, want 2.0", req.JSONRPC)
		}
		captured.Method = req.Method
		if len(req.Params) > 0 {
			captured.Params = req.Params[0]
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"jsonrpc": "2.0",
			"id":      1,
			"result":  result,
		})
	}))
}

func testClient(srv *httptest.Server) *Client {
	return &Client{
		ServiceURL:     srv.URL,
		PortalURL:      "https://portal.example.com",
		BaseURL:        "https://demo.example.com",
		SponsorAddress: "SponsorFeePayer11111111111111111111111111111",
		HTTPClient:     srv.Client(),
	}
}

func TestBuildAuthorizationMessage(t *testing.T) {
	var captured rpcCapture
	srv := newServiceStub(t, &captured, map[string]any{"message": "bXNn"})
	defer srv.Close()

	c := testClient(srv)
	ts := time.Unix(1_724_000_000, 0)
	msg, err := c.BuildAuthorizationMessage(context.Background(), AuthMessageParams{
		Action:        CreateMandateAction{},
		Wallet:        "WalletAddr111111111111111111111111111111111",
		PasskeyPubkey: "cGFzc2tleQ",
		CredentialID:  "cred-1",
		Timestamp:     ts,
	})
	assert.NoError(t, err)
	assert.Equal(t, "bXNn", msg)

	assert.Equal(t, "wallet_buildAuthorizationMessage", captured.Method)
	assert.Equal(t, "create_mandate", captured.Params["action"])
	assert.Equal(t, c.SponsorAddress, captured.Params["payer"])
	assert.Equal(t, "WalletAddr111111111111111111111111111111111", captured.Params["wallet"])
	assert.Equal(t, HashCredentialID("cred-1"), captured.Params["credential_hash"])
	assert.NotEqual(t, "cred-1", captured.Params["credential_hash"], "raw credential id must not leave the process")
	assert.Equal(t, float64(ts.Unix()), captured.Params["timestamp"])
}

func TestBuildAuthorizationMessageRequiresAction(t *testing.T) {
	c := &Client{ServiceURL: "http://unused", SponsorAddress: "payer"}
	_, err := c.BuildAuthorizationMessage(context.Background(), AuthMessageParams{
		Wallet:        "w",
		PasskeyPubkey: "p",
		CredentialID:  "c",
		Timestamp:     time.Now(),
	})
	assert.Error(t, err)
}

func TestCreateMandateTransaction(t *testing.T) {
	var captured rpcCapture
	srv := newServiceStub(t, &captured, map[string]any{"transaction": "dHg="})
	defer srv.Close()

	c := testClient(srv)
	tx, err := c.CreateMandateTransaction(context.Background(), CreateTxParams{
		Wallet:       "WalletAddr111111111111111111111111111111111",
		Instructions: []WireInstruction{{ProgramID: "prog", Data: "AA=="}},
		ExpiresAt:    1_726_592_000,
		Message:      "bXNn",
		Bundle: SignatureBundle{
			CredentialID:      "cred-1",
			Signature:         "c2ln",
			AuthenticatorData: "YXV0aA",
			ClientDataJSON:    "Y2Q",
		},
	})
	assert.NoError(t, err)
	assert.Equal(t, "dHg=", tx)

	assert.Equal(t, "wallet_buildCreateMandateTransaction", captured.Method)
	assert.Equal(t, "create_mandate", captured.Params["action"])
	assert.Equal(t, float64(1_726_592_000), captured.Params["expires_at"])
	assert.Equal(t, "bXNn", captured.Params["message"])

	sig, ok := captured.Params["signature"].(map[string]any)
	assert.True(t, ok, "create request must carry the signature bundle")
	assert.Equal(t, "c2ln", sig["signature"])
}

func TestExecuteMandateTransactionOmitsSignature(t *testing.T) {
	var captured rpcCapture
	srv := newServiceStub(t, &captured, map[string]any{"transaction": "dHg="})
	defer srv.Close()

	c := testClient(srv)
	tx, err := c.ExecuteMandateTransaction(context.Background(), ExecuteTxParams{
		Wallet:           "WalletAddr111111111111111111111111111111111",
		Instructions:     []WireInstruction{{ProgramID: "prog", Data: "AA=="}},
		MandateSignature: "mandate-sig",
	})
	assert.NoError(t, err)
	assert.Equal(t, "dHg=", tx)

	assert.Equal(t, "wallet_buildExecuteMandateTransaction", captured.Method)
	assert.Equal(t, "execute_mandate", captured.Params["action"])
	assert.Equal(t, "mandate-sig", captured.Params["mandate"])

	_, hasBundle := captured.Params["signature"]
	assert.False(t, hasBundle, "execute request must not carry a signature bundle")
}

func TestBuildSponsoredTransaction(t *testing.T) {
	var captured rpcCapture
	srv := newServiceStub(t, &captured, map[string]any{"transaction": "dHg=", "message": "bXNn"})
	defer srv.Close()

	c := testClient(srv)
	out, err := c.BuildSponsoredTransaction(context.Background(), SponsoredTxParams{
		Wallet:       "WalletAddr111111111111111111111111111111111",
		Instructions: []WireInstruction{{ProgramID: "prog", Data: "AA=="}},
	})
	assert.NoError(t, err)
	assert.Equal(t, "dHg=", out.Transaction)
	assert.Equal(t, "bXNn", out.Message)
	assert.Equal(t, "wallet_buildSponsoredTransaction", captured.Method)
	assert.Equal(t, c.SponsorAddress, captured.Params["payer"])
}

func TestRPCErrorIsSurfaced(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"jsonrpc": "2.0",
			"id":      1,
			"error":   map[string]any{"code": -32001, "message": "mandate already exists"},
		})
	}))
	defer srv.Close()

	c := testClient(srv)
	_, err := c.ExecuteMandateTransaction(context.Background(), ExecuteTxParams{
		Wallet:           "w",
		Instructions:     []WireInstruction{{ProgramID: "prog"}},
		MandateSignature: "sig",
	})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "mandate already exists")
}

func TestHashCredentialID(t *testing.T) {
	a := HashCredentialID("cred-1")
	b := HashCredentialID(" cred-1 ")
	assert.Equal(t, a, b, "hash must ignore surrounding whitespace")
	assert.Len(t, a, 64)
	assert.NotEqual(t, a, HashCredentialID("cred-2"))
}
