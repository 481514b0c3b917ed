package mandate

import (
	"encoding/json"
	"fmt"

	"github.com/ManuelReschke/WalletFox/internal/pkg/smartwallet"
)

// Pending is a mandate creation between the authorization-message step and
// the portal's signing callback. It pins the exact instructions and
// expiration that were authorized, so the completion step cannot drift from
// what the passkey approved. Serialized into the session.
type Pending struct {
	PlanID       string                        `json:"plan_id"`
	Wallet       string                        `json:"wallet"`
	ExpiresAt    int64                         `json:"expires_at"`
	Message      string                        `json:"message"`
	Instructions []smartwallet.WireInstruction `json:"instructions"`
	StartedAt    int64                         `json:"started_at"`
}

// Record is a created mandate as tracked per plan in the session.
type Record struct {
	PlanID           string `json:"plan_id"`
	Signature        string `json:"signature"`
	ExpiresAt        int64  `json:"expires_at"`
	ExecuteSignature string `json:"execute_signature,omitempty"`
	ExecutedAt       int64  `json:"executed_at,omitempty"`
	CreatedAt        int64  `json:"created_at"`
}

// EncodeRecords serializes the per-plan mandate map for session storage.
func EncodeRecords(records map[string]Record) (string, error) {
	if len(records) == 0 {
		return "", nil
	}
	raw, err := json.Marshal(records)
	if err != nil {
		return "", fmt.Errorf("mandate: encode records: %w", err)
	}
	return string(raw), nil
}

// DecodeRecords restores the per-plan mandate map from session storage. An
// empty value yields an empty map.
func DecodeRecords(s string) (map[string]Record, error) {
	if s == "" {
		return map[string]Record{}, nil
	}
	var records map[string]Record
	if err := json.Unmarshal([]byte(s), &records); err != nil {
		return nil, fmt.Errorf("mandate: decode records: %w", err)
	}
	if records == nil {
		records = map[string]Record{}
	}
	return records, nil
}

// EncodePending serializes an in-flight creation for session storage.
func EncodePending(p *Pending) (string, error) {
	if p == nil {
		return "", nil
	}
	raw, err := json.Marshal(p)
	if err != nil {
		return "", fmt.Errorf("mandate: encode pending: %w", err)
	}
	return string(raw), nil
}

// DecodePending restores an in-flight creation from session storage.
func DecodePending(s string) (*Pending, error) {
	if s == "" {
		return nil, nil
	}
	var p Pending
	if err := json.Unmarshal([]byte(s), &p); err != nil {
		return nil, fmt.Errorf("mandate: decode pending: %w", err)
	}
	return &p, nil
}
