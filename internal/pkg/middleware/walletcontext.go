package middleware

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ManuelReschke/WalletFox/internal/pkg/session"
	"github.com/ManuelReschke/WalletFox/internal/pkg/walletcontext"
)

// WalletContextMiddleware sets up the wallet context for every request.
// This centralizes wallet session handling and eliminates code duplication.
func WalletContextMiddleware(c *fiber.Ctx) error {
	// Get session with error handling
	sess, err := session.GetSessionStore().Get(c)
	if err != nil {
		// On error: treat the request as disconnected
		c.Locals("WALLET_CONTEXT", walletcontext.WalletContext{Connected: false})
		c.Locals(walletcontext.KeyFromConnected, false)
		return c.Next()
	}

	// Get wallet address from session
	address := sess.Get(walletcontext.KeyWalletAddress)
	addr, ok := address.(string)
	if !ok || addr == "" {
		// No wallet connected in this session
		c.Locals("WALLET_CONTEXT", walletcontext.WalletContext{Connected: false})
		c.Locals(walletcontext.KeyFromConnected, false)
		return c.Next()
	}

	// Wallet is connected - load the ceremony results
	walletCtx := walletcontext.WalletContext{
		Address:       addr,
		PasskeyPubkey: session.GetSessionValue(c, walletcontext.KeyPasskeyPubkey),
		CredentialID:  session.GetSessionValue(c, walletcontext.KeyCredentialID),
		Connected:     true,
	}
	c.Locals("WALLET_CONTEXT", walletCtx)
	c.Locals(walletcontext.KeyFromConnected, true)

	return c.Next()
}
