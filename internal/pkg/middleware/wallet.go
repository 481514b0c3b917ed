package middleware

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ManuelReschke/WalletFox/internal/pkg/walletcontext"
)

// RequireWallet ensures a connected wallet session; redirects to /wallet if missing.
func RequireWallet(c *fiber.Ctx) error {
	v := c.Locals(walletcontext.KeyFromConnected)
	connected := false
	if b, ok := v.(bool); ok {
		connected = b
	}
	if !connected {
		return c.Redirect("/wallet", fiber.StatusSeeOther)
	}
	return c.Next()
}

// RequireAPIWallet ensures a connected wallet for API routes and returns JSON 401 instead of redirect.
func RequireAPIWallet(c *fiber.Ctx) error {
	v := c.Locals(walletcontext.KeyFromConnected)
	connected := false
	if b, ok := v.(bool); ok {
		connected = b
	}
	if !connected {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error":   "unauthorized",
			"message": "wallet connection required",
		})
	}
	return c.Next()
}
