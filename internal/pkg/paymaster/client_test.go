package paymaster

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ManuelReschke/WalletFox/internal/pkg/smartwallet"
)

func newRelayStub(t *testing.T, captured *map[string]any, result any) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Method string           `json:"method"`
			Params []map[string]any `json:"params"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if req.Method != "pm_signAndSendTransaction" {
			t.Errorf("method = %q", req.Method)
		}
		if len(req.Params) > 0 {
			*captured = req.Params[0]
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"jsonrpc": "2.0",
			"id":      1,
			"result":  result,
		})
	}))
}

func TestSignAndSendWithBundle(t *testing.T) {
	var captured map[string]any
	srv := newRelayStub(t, &captured, map[string]any{"signature": "relayed-sig"})
	defer srv.Close()

	c := &Client{URL: srv.URL, HTTPClient: srv.Client()}
	sig, err := c.SignAndSend(context.Background(), SignAndSendParams{
		Transaction: "dHg=",
		Bundle:      &smartwallet.SignatureBundle{CredentialID: "cred-1", Signature: "c2ln", AuthenticatorData: "YQ", ClientDataJSON: "Yg"},
	})
	assert.NoError(t, err)
	assert.Equal(t, "relayed-sig", sig)
	assert.Equal(t, "dHg=", captured["transaction"])

	bundle, ok := captured["signature"].(map[string]any)
	assert.True(t, ok, "bundle must accompany the transaction")
	assert.Equal(t, "c2ln", bundle["signature"])
}

func TestSignAndSendWithoutBundle(t *testing.T) {
	var captured map[string]any
	srv := newRelayStub(t, &captured, map[string]any{"signature": "relayed-sig"})
	defer srv.Close()

	c := &Client{URL: srv.URL, HTTPClient: srv.Client()}
	sig, err := c.SignAndSend(context.Background(), SignAndSendParams{Transaction: "dHg="})
	assert.NoError(t, err)
	assert.Equal(t, "relayed-sig", sig)

	_, hasBundle := captured["signature"]
	assert.False(t, hasBundle, "mandate transactions carry no extra bundle")
}

func TestSignAndSendValidation(t *testing.T) {
	c := &Client{URL: "http://unused"}
	_, err := c.SignAndSend(context.Background(), SignAndSendParams{})
	assert.Error(t, err)

	unconfigured := &Client{}
	_, err = unconfigured.SignAndSend(context.Background(), SignAndSendParams{Transaction: "dHg="})
	assert.Error(t, err)
}

func TestSignAndSendRelayError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"jsonrpc": "2.0",
			"id":      1,
			"error":   map[string]any{"code": -32002, "message": "sponsor balance too low"},
		})
	}))
	defer srv.Close()

	c := &Client{URL: srv.URL, HTTPClient: srv.Client()}
	_, err := c.SignAndSend(context.Background(), SignAndSendParams{Transaction: "dHg="})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "sponsor balance too low")
}

func TestSignAndSendEmptySignature(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"jsonrpc": "2.0",
			"id":      1,
			"result":  map[string]any{"signature": ""},
		})
	}))
	defer srv.Close()

	c := &Client{URL: srv.URL, HTTPClient: srv.Client()}
	_, err := c.SignAndSend(context.Background(), SignAndSendParams{Transaction: "dHg="})
	assert.Error(t, err)
}
