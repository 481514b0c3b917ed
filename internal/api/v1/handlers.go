package apiv1

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	// Delegate to existing controllers to keep behavior consistent
	"github.com/ManuelReschke/WalletFox/app/controllers"
	"github.com/ManuelReschke/WalletFox/internal/pkg/mandate"
	"github.com/ManuelReschke/WalletFox/internal/pkg/middleware"
	"github.com/ManuelReschke/WalletFox/internal/pkg/smartwallet"
	"github.com/ManuelReschke/WalletFox/internal/pkg/solana"
	"github.com/ManuelReschke/WalletFox/internal/pkg/walletcontext"
)

// RegisterHandlers attaches the v1 endpoints to a router group. Wrappers
// pull path parameters out so the handlers keep explicit signatures.
func RegisterHandlers(router fiber.Router, s *APIServer) {
	router.Get("/", s.GetHello)
	router.Get("/ping", s.GetPing)
	router.Get("/wallet", middleware.RequireAPIWallet, s.GetWallet)
	router.Get("/balance/:address", func(c *fiber.Ctx) error {
		return s.GetBalance(c, c.Params("address"))
	})
	router.Get("/mandates/:signature/status", func(c *fiber.Ctx) error {
		return s.GetMandateStatus(c, c.Params("signature"))
	})
}

// Pong is the ping endpoint's response body.
type Pong struct {
	Ping string `json:"ping"`
}

// WalletInfo describes the wallet bound to the caller's session.
type WalletInfo struct {
	Connected      bool   `json:"connected"`
	Address        string `json:"address"`
	PasskeyPubkey  string `json:"passkey_pubkey"`
	CredentialHash string `json:"credential_hash"`
}

// BalanceInfo is a point-in-time balance snapshot for an address.
type BalanceInfo struct {
	Address  string `json:"address"`
	Lamports uint64 `json:"lamports"`
	Balance  string `json:"balance"`
}

// MandateStatus reports what the confirmation worker knows about a
// submitted transaction signature.
type MandateStatus struct {
	Signature string `json:"signature"`
	Status    string `json:"status"`
	Confirmed bool   `json:"confirmed"`
}

// APIServer implements the v1 endpoints.
type APIServer struct{}

// NewAPIServer creates a new API server instance
func NewAPIServer() *APIServer {
	return &APIServer{}
}

// GetHello handles the API root endpoint.
func (s *APIServer) GetHello(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"name":    "WalletFox API",
		"version": "v1",
	})
}

// GetPing handles the ping endpoint
func (s *APIServer) GetPing(c *fiber.Ctx) error {
	response := Pong{
		Ping: "pong",
	}

	return c.Status(fiber.StatusOK).JSON(response)
}

// GetWallet returns the session's wallet. The wallet guard attached in the
// router rejects disconnected sessions before this handler runs.
func (s *APIServer) GetWallet(c *fiber.Ctx) error {
	wctx := walletcontext.GetWalletContext(c)
	return c.Status(fiber.StatusOK).JSON(WalletInfo{
		Connected:      wctx.Connected,
		Address:        wctx.Address,
		PasskeyPubkey:  wctx.PasskeyPubkey,
		CredentialHash: smartwallet.HashCredentialID(wctx.CredentialID),
	})
}

// GetBalance returns the balance for an arbitrary address. Shares the page
// controller's cached lookup.
func (s *APIServer) GetBalance(c *fiber.Ctx, address string) error {
	if err := solana.ValidateAddress(address); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "bad_request",
			"message": "address is not a valid Solana address",
		})
	}

	lamports, ok := controllers.LookupBalance(strings.TrimSpace(address))
	if !ok {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error":   "rpc_unavailable",
			"message": "balance is temporarily unavailable",
		})
	}

	return c.Status(fiber.StatusOK).JSON(BalanceInfo{
		Address:  strings.TrimSpace(address),
		Lamports: lamports,
		Balance:  solana.FormatSOL(lamports),
	})
}

// GetMandateStatus reports the confirmation status for a signature.
func (s *APIServer) GetMandateStatus(c *fiber.Ctx, signature string) error {
	sig := strings.TrimSpace(signature)
	if sig == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "bad_request",
			"message": "signature missing",
		})
	}

	status, err := mandate.GetStatus(sig)
	if err != nil || status == "" {
		status = "unknown"
	}

	return c.Status(fiber.StatusOK).JSON(MandateStatus{
		Signature: sig,
		Status:    status,
		Confirmed: status == mandate.STATUS_CONFIRMED,
	})
}
