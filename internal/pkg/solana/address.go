package solana

import (
	"errors"
	"fmt"
	"strings"

	"github.com/mr-tron/base58"
)

var (
	ErrAddressEmpty   = errors.New("solana: address is empty")
	ErrAddressInvalid = errors.New("solana: address is not a valid public key")
)

// ValidateAddress checks that s is a base58-encoded 32-byte public key.
func ValidateAddress(s string) error {
	addr := strings.TrimSpace(s)
	if addr == "" {
		return ErrAddressEmpty
	}
	raw, err := base58.Decode(addr)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrAddressInvalid, err)
	}
	if len(raw) != 32 {
		return fmt.Errorf("%w: decoded to %d bytes", ErrAddressInvalid, len(raw))
	}
	return nil
}

// Mask shortens an address or signature for log output.
func Mask(s string) string {
	t := strings.TrimSpace(s)
	if len(t) <= 10 {
		return t
	}
	return t[:4] + "***" + t[len(t)-4:]
}
