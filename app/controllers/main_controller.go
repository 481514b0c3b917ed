package controllers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"

	"github.com/ManuelReschke/WalletFox/internal/pkg/env"
	"github.com/ManuelReschke/WalletFox/internal/pkg/metrics/counter"
	"github.com/ManuelReschke/WalletFox/internal/pkg/viewmodel"
)

// HandleStart renders the home page with the demo usage counters.
func HandleStart(c *fiber.Ctx) error {
	events, err := counter.Events()
	if err != nil {
		log.Errorf("[Home] loading counters failed: %v", err)
		events = map[string]int64{}
	}

	appENV := env.GetEnv("APP_ENV", "prod")

	layout := newLayout(c, "Home")
	layout.OGViewModel = &viewmodel.OpenGraph{
		Title:       "WalletFox - Passkey wallets on Solana",
		Description: "Demo of passkey smart wallets: gasless transfers and pre-authorized payment mandates on Solana devnet.",
		Image:       "/img/walletfox-logo.png",
		URL:         "/",
	}
	return renderPage(c, "index", layout, fiber.Map{
		"IsDev":               appENV == "dev",
		"ConnectCount":        events[counter.EventWalletConnect],
		"TransferCount":       events[counter.EventTransfer],
		"MandateCreateCount":  events[counter.EventMandateCreate],
		"MandateExecuteCount": events[counter.EventMandateExecute],
	})
}
