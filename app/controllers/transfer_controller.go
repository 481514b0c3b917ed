package controllers

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/blocto/solana-go-sdk/common"
	"github.com/blocto/solana-go-sdk/types"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/sujit-baniya/flash"

	"github.com/ManuelReschke/WalletFox/internal/pkg/jobqueue"
	"github.com/ManuelReschke/WalletFox/internal/pkg/paymaster"
	"github.com/ManuelReschke/WalletFox/internal/pkg/security"
	"github.com/ManuelReschke/WalletFox/internal/pkg/session"
	"github.com/ManuelReschke/WalletFox/internal/pkg/smartwallet"
	"github.com/ManuelReschke/WalletFox/internal/pkg/solana"
	"github.com/ManuelReschke/WalletFox/internal/pkg/walletcontext"
)

const (
	transferCeremonyStateSessionKey = "transfer_ceremony_state"
	transferPendingTxSessionKey     = "transfer_pending_tx"
)

// HandleTransferPage renders the gasless transfer form.
func HandleTransferPage(c *fiber.Ctx) error {
	wctx := walletcontext.GetWalletContext(c)
	data := fiber.Map{
		"Address":      wctx.Address,
		"AddressShort": solana.Mask(wctx.Address),
	}
	return renderPage(c, "transfer", newLayout(c, "Transfer"), data)
}

// HandleTransferSubmit validates the form, builds the sponsored transaction
// and sends the user to the portal to approve it with their passkey. Input
// problems are rejected before any remote call.
func HandleTransferSubmit(c *fiber.Ctx) error {
	wctx := walletcontext.GetWalletContext(c)

	recipient := strings.TrimSpace(c.FormValue("recipient"))
	if err := solana.ValidateAddress(recipient); err != nil {
		return flash.WithError(c, fiber.Map{"type": "error", "message": "Recipient is not a valid Solana address."}).Redirect("/transfer")
	}

	amount, err := strconv.ParseFloat(strings.TrimSpace(c.FormValue("amount")), 64)
	if err != nil || amount <= 0 {
		return flash.WithError(c, fiber.Map{"type": "error", "message": "Amount must be a positive number of SOL."}).Redirect("/transfer")
	}
	lamports := solana.SOLToLamports(amount)

	ix := solana.NativeTransfer(
		common.PublicKeyFromString(wctx.Address),
		common.PublicKeyFromString(recipient),
		lamports,
	)

	client := smartwallet.NewClientFromEnv()
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	sponsored, err := client.BuildSponsoredTransaction(ctx, smartwallet.SponsoredTxParams{
		Wallet:       wctx.Address,
		Instructions: smartwallet.EncodeInstructions([]types.Instruction{ix}),
	})
	if err != nil {
		log.Errorf("[Transfer] building sponsored tx for %s failed: %v", solana.Mask(wctx.Address), err)
		return flash.WithError(c, fiber.Map{"type": "error", "message": "The transfer could not be prepared. Please try again."}).Redirect("/transfer")
	}

	state, err := security.GenerateState()
	if err != nil {
		log.Errorf("[Transfer] state generation failed: %v", err)
		return flash.WithError(c, fiber.Map{"type": "error", "message": "The transfer could not be prepared. Please try again."}).Redirect("/transfer")
	}

	sess, err := session.GetSessionStore().Get(c)
	if err != nil {
		return flash.WithError(c, fiber.Map{"type": "error", "message": "Session could not be loaded."}).Redirect("/transfer")
	}
	sess.Set(transferCeremonyStateSessionKey, state)
	sess.Set(transferPendingTxSessionKey, sponsored.Transaction)
	if err := sess.Save(); err != nil {
		return flash.WithError(c, fiber.Map{"type": "error", "message": "Session could not be saved."}).Redirect("/transfer")
	}

	token, err := security.GenerateCeremonyToken(security.CeremonyTransfer, state, wctx.Address, "", ceremonyTTL, ceremonySecret())
	if err != nil {
		log.Errorf("[Transfer] ceremony token: %v", err)
		clearPendingTransfer(c)
		return flash.WithError(c, fiber.Map{"type": "error", "message": "The transfer could not be prepared. Please try again."}).Redirect("/transfer")
	}

	url, err := client.SignURLWithState(token, sponsored.Message, wctx.CredentialID, smartwallet.TransferCallbackPath)
	if err != nil {
		log.Errorf("[Transfer] sign URL: %v", err)
		clearPendingTransfer(c)
		return flash.WithError(c, fiber.Map{"type": "error", "message": "The wallet portal is not configured."}).Redirect("/transfer")
	}

	return c.Redirect(url, fiber.StatusSeeOther)
}

// HandleTransferCallback relays the approved transaction once the portal
// returns the passkey's signature bundle. Every failure clears the pending
// transfer; retrying starts over from the form.
func HandleTransferCallback(c *fiber.Ctx) error {
	wctx := walletcontext.GetWalletContext(c)

	if portalErr := strings.TrimSpace(c.Query("error")); portalErr != "" {
		msg := c.Query("error_description", portalErr)
		log.Errorf("[Transfer] portal returned an error: %s", msg)
		clearPendingTransfer(c)
		return flash.WithError(c, fiber.Map{"type": "error", "message": "Transfer failed: " + msg}).Redirect("/transfer")
	}

	claims, err := security.VerifyCeremonyToken(strings.TrimSpace(c.Query("state")), security.CeremonyTransfer, ceremonySecret())
	if err != nil {
		log.Errorf("[Transfer] state token rejected: %v", err)
		clearPendingTransfer(c)
		return flash.WithError(c, fiber.Map{"type": "error", "message": "The signing ceremony could not be verified. Please try again."}).Redirect("/transfer")
	}

	sess, err := session.GetSessionStore().Get(c)
	if err != nil {
		return flash.WithError(c, fiber.Map{"type": "error", "message": "Session could not be loaded."}).Redirect("/transfer")
	}
	expectedState, _ := sess.Get(transferCeremonyStateSessionKey).(string)
	pendingTx, _ := sess.Get(transferPendingTxSessionKey).(string)
	sess.Delete(transferCeremonyStateSessionKey)
	sess.Delete(transferPendingTxSessionKey)
	_ = sess.Save()

	if expectedState == "" || claims.State != expectedState || claims.Wallet != wctx.Address {
		return flash.WithError(c, fiber.Map{"type": "error", "message": "The signing ceremony does not match this session. Please try again."}).Redirect("/transfer")
	}
	if pendingTx == "" {
		return flash.WithError(c, fiber.Map{"type": "error", "message": "There is no transfer in flight. Please start over."}).Redirect("/transfer")
	}

	bundle, err := smartwallet.ParseSignCallback(c.Query("signature"), c.Query("authenticator_data"), c.Query("client_data"), c.Query("credential_id"))
	if err != nil {
		log.Errorf("[Transfer] sign callback rejected: %v", err)
		return flash.WithError(c, fiber.Map{"type": "error", "message": "The portal returned an incomplete signature. Please try again."}).Redirect("/transfer")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	sig, err := paymaster.NewClientFromEnv().SignAndSend(ctx, paymaster.SignAndSendParams{
		Transaction: pendingTx,
		Bundle:      bundle,
	})
	if err != nil {
		log.Errorf("[Transfer] relay failed for %s: %v", solana.Mask(wctx.Address), err)
		return flash.WithError(c, fiber.Map{"type": "error", "message": "Transfer failed: " + err.Error()}).Redirect("/transfer")
	}

	enqueueConfirm(jobqueue.ConfirmKindTransfer, sig, wctx.Address, "")
	log.Infof("[Transfer] submitted %s for %s", solana.Mask(sig), solana.Mask(wctx.Address))

	return flash.WithSuccess(c, fiber.Map{"type": "success", "message": fmt.Sprintf("Transfer submitted: %s. Confirmation runs in the background.", sig)}).Redirect("/transfer")
}

// clearPendingTransfer drops the in-flight transfer from the session.
func clearPendingTransfer(c *fiber.Ctx) {
	sess, err := session.GetSessionStore().Get(c)
	if err != nil {
		return
	}
	sess.Delete(transferCeremonyStateSessionKey)
	sess.Delete(transferPendingTxSessionKey)
	_ = sess.Save()
}
