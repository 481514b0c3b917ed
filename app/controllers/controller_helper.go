package controllers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/sujit-baniya/flash"

	"github.com/ManuelReschke/WalletFox/internal/pkg/env"
	"github.com/ManuelReschke/WalletFox/internal/pkg/jobqueue"
	"github.com/ManuelReschke/WalletFox/internal/pkg/mandate"
	"github.com/ManuelReschke/WalletFox/internal/pkg/metrics/counter"
	"github.com/ManuelReschke/WalletFox/internal/pkg/solana"
	"github.com/ManuelReschke/WalletFox/internal/pkg/viewmodel"
	"github.com/ManuelReschke/WalletFox/internal/pkg/walletcontext"
)

// ceremonyTTL bounds how long a portal round-trip may take before its state
// token expires.
const ceremonyTTL = 10 * time.Minute

func ceremonySecret() string {
	return env.GetEnv("CEREMONY_TOKEN_SECRET", "")
}

// newLayout builds the shared layout state for a page from the wallet bound
// to the current session.
func newLayout(c *fiber.Ctx, page string) viewmodel.Layout {
	wctx := walletcontext.GetWalletContext(c)
	return viewmodel.Layout{
		Page:      page,
		Connected: wctx.Connected,
		Wallet:    wctx.Address,
	}
}

// renderPage renders a view inside the main layout with the pending flash
// message merged in.
func renderPage(c *fiber.Ctx, view string, layout viewmodel.Layout, data fiber.Map) error {
	fm := flash.Get(c)
	if t, ok := fm["type"].(string); ok && t != "" {
		layout.Msg = fm
		layout.IsError = t == "error"
	}
	if data == nil {
		data = fiber.Map{}
	}
	if token, ok := c.Locals("csrf").(string); ok {
		data["CSRFToken"] = token
	}
	data["Layout"] = layout
	return c.Render(view, data, "layouts/main")
}

// enqueueConfirm seeds a submitted signature as pending and hands it to the
// confirmation worker. Queue trouble is logged, not surfaced; the status
// then simply stays pending.
func enqueueConfirm(kind, signature, wallet, planID string) {
	if err := mandate.SetStatus(signature, mandate.STATUS_PENDING); err != nil {
		log.Errorf("[Confirm] failed to seed status for %s: %v", solana.Mask(signature), err)
	}
	payload := jobqueue.ConfirmTransactionJobPayload{
		Signature: signature,
		Kind:      kind,
		Wallet:    wallet,
		PlanID:    planID,
	}
	if _, err := jobqueue.GetManager().GetQueue().EnqueueJob(jobqueue.JobTypeConfirmTransaction, payload.ToMap()); err != nil {
		log.Errorf("[Confirm] failed to enqueue confirmation for %s: %v", solana.Mask(signature), err)
	}
}

// bumpEvent increments a demo counter. Counting never fails a request.
func bumpEvent(name string) {
	if err := counter.AddEvent(name); err != nil {
		log.Errorf("[Counter] failed to count %s: %v", name, err)
	}
}
