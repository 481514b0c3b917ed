package walletcontext

import "github.com/gofiber/fiber/v2"

// WalletContext represents the connected smart wallet for a request
type WalletContext struct {
	Address       string `json:"address"`
	PasskeyPubkey string `json:"passkey_pubkey"`
	CredentialID  string `json:"credential_id"`
	Connected     bool   `json:"connected"`
}

// GetWalletContext retrieves the wallet context from fiber context
// Returns a disconnected context if none is set
func GetWalletContext(c *fiber.Ctx) WalletContext {
	if ctx := c.Locals("WALLET_CONTEXT"); ctx != nil {
		return ctx.(WalletContext)
	}
	return WalletContext{Connected: false}
}

// IsConnected checks if the current request has a connected wallet
func IsConnected(c *fiber.Ctx) bool {
	return GetWalletContext(c).Connected
}

// GetAddress returns the connected wallet address, or empty string if disconnected
func GetAddress(c *fiber.Ctx) string {
	return GetWalletContext(c).Address
}

// GetCredentialID returns the passkey credential ID, or empty string if disconnected
func GetCredentialID(c *fiber.Ctx) string {
	return GetWalletContext(c).CredentialID
}

// GetPasskeyPubkey returns the passkey public key, or empty string if disconnected
func GetPasskeyPubkey(c *fiber.Ctx) string {
	return GetWalletContext(c).PasskeyPubkey
}
