package utils

import (
	"crypto/md5"
	"fmt"
	"strings"
)

// WalletAvatarURL derives a stable identicon URL for a wallet address.
// Gravatar renders a deterministic pattern for any hash, so the same
// address always gets the same picture. Default size is 200px.
func WalletAvatarURL(address string, size int) string {
	if size <= 0 {
		size = 200
	}

	hash := md5.Sum([]byte(strings.TrimSpace(address)))

	return fmt.Sprintf("https://www.gravatar.com/avatar/%x?s=%d&d=identicon&f=y", hash, size)
}
