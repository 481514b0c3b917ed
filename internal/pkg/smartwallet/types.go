package smartwallet

import (
	"encoding/base64"
	"errors"
	"strings"

	"github.com/blocto/solana-go-sdk/types"

	"github.com/ManuelReschke/WalletFox/internal/pkg/solana"
)

// WireAccount is the JSON form of one instruction account.
type WireAccount struct {
	Pubkey     string `json:"pubkey"`
	IsSigner   bool   `json:"is_signer"`
	IsWritable bool   `json:"is_writable"`
}

// WireInstruction is the JSON form of a Solana instruction as the wallet
// service expects it. Data is base64.
type WireInstruction struct {
	ProgramID string        `json:"program_id"`
	Accounts  []WireAccount `json:"accounts"`
	Data      string        `json:"data"`
}

// EncodeInstructions converts locally assembled instructions into their wire
// form for the remote transaction builders.
func EncodeInstructions(ins []types.Instruction) []WireInstruction {
	out := make([]WireInstruction, 0, len(ins))
	for _, in := range ins {
		accounts := make([]WireAccount, 0, len(in.Accounts))
		for _, a := range in.Accounts {
			accounts = append(accounts, WireAccount{
				Pubkey:     a.PubKey.ToBase58(),
				IsSigner:   a.IsSigner,
				IsWritable: a.IsWritable,
			})
		}
		out = append(out, WireInstruction{
			ProgramID: in.ProgramID.ToBase58(),
			Accounts:  accounts,
			Data:      base64.StdEncoding.EncodeToString(in.Data),
		})
	}
	return out
}

// SignatureBundle is a passkey assertion as returned by the portal. All
// fields are base64url encoded except the credential id, which is opaque.
type SignatureBundle struct {
	CredentialID      string `json:"credential_id"`
	Signature         string `json:"signature"`
	AuthenticatorData string `json:"authenticator_data"`
	ClientDataJSON    string `json:"client_data_json"`
}

// ConnectResult is the wallet identity delivered by a connect callback.
type ConnectResult struct {
	Address       string
	PasskeyPubkey string
	CredentialID  string
}

// ParseConnectCallback validates the query values of a connect callback.
func ParseConnectCallback(address, passkey, credentialID string) (*ConnectResult, error) {
	addr := strings.TrimSpace(address)
	if err := solana.ValidateAddress(addr); err != nil {
		return nil, err
	}
	pk := strings.TrimSpace(passkey)
	if pk == "" {
		return nil, errors.New("smartwallet: connect callback is missing the passkey public key")
	}
	cred := strings.TrimSpace(credentialID)
	if cred == "" {
		return nil, errors.New("smartwallet: connect callback is missing the credential id")
	}
	return &ConnectResult{Address: addr, PasskeyPubkey: pk, CredentialID: cred}, nil
}

// ParseSignCallback validates the query values of a signing callback and
// assembles the signature bundle handed to the transaction builders.
func ParseSignCallback(signature, authenticatorData, clientData, credentialID string) (*SignatureBundle, error) {
	sig := strings.TrimSpace(signature)
	if sig == "" {
		return nil, errors.New("smartwallet: sign callback is missing the signature")
	}
	auth := strings.TrimSpace(authenticatorData)
	if auth == "" {
		return nil, errors.New("smartwallet: sign callback is missing the authenticator data")
	}
	cd := strings.TrimSpace(clientData)
	if cd == "" {
		return nil, errors.New("smartwallet: sign callback is missing the client data")
	}
	cred := strings.TrimSpace(credentialID)
	if cred == "" {
		return nil, errors.New("smartwallet: sign callback is missing the credential id")
	}
	return &SignatureBundle{
		CredentialID:      cred,
		Signature:         sig,
		AuthenticatorData: auth,
		ClientDataJSON:    cd,
	}, nil
}
