package security

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Ceremony kinds bound into a token. A callback only accepts tokens minted
// for its own kind, so a connect token cannot authorize a signing callback.
const (
	CeremonyConnect   = "connect"
	CeremonyTransfer  = "transfer"
	CeremonySubscribe = "subscribe"
)

// CeremonyTokenClaims ties a portal round-trip to the session that started it.
// State must match the nonce kept in the session. Wallet is empty for connect
// ceremonies and the connected address otherwise.
type CeremonyTokenClaims struct {
	Kind      string `json:"kind"`
	State     string `json:"state"`
	Wallet    string `json:"wallet,omitempty"`
	PlanID    string `json:"plan_id,omitempty"`
	ExpiresAt int64  `json:"exp"`
}

func GenerateCeremonyToken(kind, state, wallet, planID string, ttl time.Duration, secret string) (string, error) {
	if secret == "" {
		return "", errors.New("secret is required for token generation")
	}
	if state == "" {
		return "", errors.New("state is required for token generation")
	}
	claims := CeremonyTokenClaims{
		Kind:      kind,
		State:     state,
		Wallet:    wallet,
		PlanID:    planID,
		ExpiresAt: time.Now().Add(ttl).Unix(),
	}
	payload, err := json.Marshal(claims)
	if err != nil {
		return "", err
	}
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	sig := mac.Sum(nil)
	token := fmt.Sprintf("%s.%s", base64.RawURLEncoding.EncodeToString(payload), base64.RawURLEncoding.EncodeToString(sig))
	return token, nil
}

func VerifyCeremonyToken(token, kind, secret string) (*CeremonyTokenClaims, error) {
	if secret == "" {
		return nil, errors.New("secret is required for token verification")
	}
	parts := strings.SplitN(token, ".", 2)
	if len(parts) != 2 {
		return nil, errors.New("invalid token format")
	}
	payloadBytes, err := base64.RawURLEncoding.DecodeString(parts[0])
	if err != nil {
		return nil, errors.New("invalid payload encoding")
	}
	sigBytes, err := base64.RawURLEncoding.DecodeString(parts[1])
	if err != nil {
		return nil, errors.New("invalid signature encoding")
	}
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payloadBytes)
	expected := mac.Sum(nil)
	if !hmac.Equal(sigBytes, expected) {
		return nil, errors.New("invalid token signature")
	}
	var claims CeremonyTokenClaims
	if err := json.Unmarshal(payloadBytes, &claims); err != nil {
		return nil, errors.New("invalid payload")
	}
	if claims.Kind != kind {
		return nil, errors.New("token kind mismatch")
	}
	if time.Now().Unix() > claims.ExpiresAt {
		return nil, errors.New("token expired")
	}
	return &claims, nil
}

// GenerateState returns a random URL-safe nonce for a portal round-trip.
func GenerateState() (string, error) {
	buf := make([]byte, 24)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
