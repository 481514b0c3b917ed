package smartwallet

import (
	"encoding/base64"
	"testing"

	"github.com/blocto/solana-go-sdk/common"
	"github.com/blocto/solana-go-sdk/types"

	wfsolana "github.com/ManuelReschke/WalletFox/internal/pkg/solana"
)

func TestEncodeInstructions(t *testing.T) {
	from := common.PublicKeyFromString("SysvarRent111111111111111111111111111111111")
	to := common.PublicKeyFromString("SysvarC1ock11111111111111111111111111111111")
	ins := wfsolana.NativeTransfer(from, to, 42)

	wire := EncodeInstructions([]types.Instruction{ins})
	if len(wire) != 1 {
		t.Fatalf("encoded %d instructions, want 1", len(wire))
	}
	w := wire[0]
	if w.ProgramID != "11111111111111111111111111111111" {
		t.Errorf("program id = %q", w.ProgramID)
	}
	if len(w.Accounts) != 2 {
		t.Fatalf("accounts = %d, want 2", len(w.Accounts))
	}
	if w.Accounts[0].Pubkey != from.ToBase58() || !w.Accounts[0].IsSigner || !w.Accounts[0].IsWritable {
		t.Error("sender account lost its flags in encoding")
	}
	raw, err := base64.StdEncoding.DecodeString(w.Data)
	if err != nil {
		t.Fatalf("data is not base64: %v", err)
	}
	if len(raw) != 12 {
		t.Errorf("decoded data length = %d, want 12", len(raw))
	}
}

func TestParseConnectCallback(t *testing.T) {
	tests := []struct {
		name         string
		address      string
		passkey      string
		credentialID string
		wantErr      bool
	}{
		{"valid", "So11111111111111111111111111111111111111112", "cGs", "cred-1", false},
		{"trims whitespace", " So11111111111111111111111111111111111111112 ", " cGs ", " cred-1 ", false},
		{"bad address", "nope", "cGs", "cred-1", true},
		{"missing passkey", "So11111111111111111111111111111111111111112", "", "cred-1", true},
		{"missing credential", "So11111111111111111111111111111111111111112", "cGs", "", true},
	}
	for _, tt := range tests {
		res, err := ParseConnectCallback(tt.address, tt.passkey, tt.credentialID)
		if tt.wantErr {
			if err == nil {
				t.Errorf("%s: expected error, got nil", tt.name)
			}
			continue
		}
		if err != nil {
			t.Errorf("%s: unexpected error: %v", tt.name, err)
			continue
		}
		if res.Address != "So11111111111111111111111111111111111111112" {
			t.Errorf("%s: address = %q", tt.name, res.Address)
		}
		if res.PasskeyPubkey != "cGs" || res.CredentialID != "cred-1" {
			t.Errorf("%s: result = %+v", tt.name, res)
		}
	}
}

func TestParseSignCallback(t *testing.T) {
	bundle, err := ParseSignCallback("c2ln", "YXV0aA", "Y2Q", "cred-1")
	if err != nil {
		t.Fatalf("ParseSignCallback: %v", err)
	}
	if bundle.Signature != "c2ln" || bundle.AuthenticatorData != "YXV0aA" || bundle.ClientDataJSON != "Y2Q" || bundle.CredentialID != "cred-1" {
		t.Errorf("bundle = %+v", bundle)
	}

	tests := []struct {
		name                      string
		sig, auth, clientData, id string
	}{
		{"missing signature", "", "YXV0aA", "Y2Q", "cred-1"},
		{"missing authenticator data", "c2ln", "", "Y2Q", "cred-1"},
		{"missing client data", "c2ln", "YXV0aA", "", "cred-1"},
		{"missing credential id", "c2ln", "YXV0aA", "Y2Q", ""},
	}
	for _, tt := range tests {
		if _, err := ParseSignCallback(tt.sig, tt.auth, tt.clientData, tt.id); err == nil {
			t.Errorf("%s: expected error, got nil", tt.name)
		}
	}
}
