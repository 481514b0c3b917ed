package controllers

import (
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/sujit-baniya/flash"

	"github.com/ManuelReschke/WalletFox/internal/pkg/metrics/counter"
	"github.com/ManuelReschke/WalletFox/internal/pkg/security"
	"github.com/ManuelReschke/WalletFox/internal/pkg/session"
	"github.com/ManuelReschke/WalletFox/internal/pkg/smartwallet"
	"github.com/ManuelReschke/WalletFox/internal/pkg/solana"
	"github.com/ManuelReschke/WalletFox/internal/pkg/utils"
	"github.com/ManuelReschke/WalletFox/internal/pkg/walletcontext"
)

const walletCeremonyStateSessionKey = "wallet_ceremony_state"

// HandleWalletPage renders the wallet page: a connect button while
// disconnected, the connected address and passkey details afterwards.
func HandleWalletPage(c *fiber.Ctx) error {
	wctx := walletcontext.GetWalletContext(c)
	data := fiber.Map{}
	if wctx.Connected {
		data["Address"] = wctx.Address
		data["AddressShort"] = solana.Mask(wctx.Address)
		data["AvatarURL"] = utils.WalletAvatarURL(wctx.Address, 96)
		data["PasskeyPubkey"] = wctx.PasskeyPubkey
		data["CredentialHash"] = smartwallet.HashCredentialID(wctx.CredentialID)
	}
	return renderPage(c, "wallet", newLayout(c, "Wallet"), data)
}

// HandleWalletConnect starts the passkey creation ceremony in the portal.
func HandleWalletConnect(c *fiber.Ctx) error {
	wctx := walletcontext.GetWalletContext(c)
	if wctx.Connected {
		return flash.WithInfo(c, fiber.Map{"type": "info", "message": "Wallet is already connected."}).Redirect("/wallet")
	}

	state, err := security.GenerateState()
	if err != nil {
		log.Errorf("[Wallet] state generation failed: %v", err)
		return flash.WithError(c, fiber.Map{"type": "error", "message": "Could not start the connect ceremony. Please try again."}).Redirect("/wallet")
	}

	sess, err := session.GetSessionStore().Get(c)
	if err != nil {
		return flash.WithError(c, fiber.Map{"type": "error", "message": "Session could not be loaded."}).Redirect("/wallet")
	}
	sess.Set(walletCeremonyStateSessionKey, state)
	sess.Set(walletcontext.KeyConnectionState, walletcontext.StateConnecting)
	if err := sess.Save(); err != nil {
		return flash.WithError(c, fiber.Map{"type": "error", "message": "Session could not be saved."}).Redirect("/wallet")
	}

	token, err := security.GenerateCeremonyToken(security.CeremonyConnect, state, "", "", ceremonyTTL, ceremonySecret())
	if err != nil {
		log.Errorf("[Wallet] connect token: %v", err)
		return flash.WithError(c, fiber.Map{"type": "error", "message": "Could not start the connect ceremony. Please try again."}).Redirect("/wallet")
	}

	client := smartwallet.NewClientFromEnv()
	url, err := client.ConnectURLWithState(token)
	if err != nil {
		log.Errorf("[Wallet] connect URL: %v", err)
		return flash.WithError(c, fiber.Map{"type": "error", "message": "The wallet portal is not configured."}).Redirect("/wallet")
	}

	return c.Redirect(url, fiber.StatusSeeOther)
}

// HandleWalletCallback finishes the connect ceremony when the portal
// redirects back with the fresh wallet, or with an error.
func HandleWalletCallback(c *fiber.Ctx) error {
	if portalErr := strings.TrimSpace(c.Query("error")); portalErr != "" {
		msg := c.Query("error_description", portalErr)
		log.Errorf("[Wallet] portal returned an error: %s", msg)
		resetConnectionState(c)
		return flash.WithError(c, fiber.Map{"type": "error", "message": "Wallet connection failed: " + msg}).Redirect("/wallet")
	}

	claims, err := security.VerifyCeremonyToken(strings.TrimSpace(c.Query("state")), security.CeremonyConnect, ceremonySecret())
	if err != nil {
		log.Errorf("[Wallet] state token rejected: %v", err)
		resetConnectionState(c)
		return flash.WithError(c, fiber.Map{"type": "error", "message": "The connect ceremony could not be verified. Please try again."}).Redirect("/wallet")
	}

	sess, err := session.GetSessionStore().Get(c)
	if err != nil {
		return flash.WithError(c, fiber.Map{"type": "error", "message": "Session could not be loaded."}).Redirect("/wallet")
	}
	expectedState, _ := sess.Get(walletCeremonyStateSessionKey).(string)
	sess.Delete(walletCeremonyStateSessionKey)
	_ = sess.Save()
	if expectedState == "" || claims.State != expectedState {
		resetConnectionState(c)
		return flash.WithError(c, fiber.Map{"type": "error", "message": "The connect ceremony does not match this session. Please try again."}).Redirect("/wallet")
	}

	result, err := smartwallet.ParseConnectCallback(c.Query("address"), c.Query("passkey"), c.Query("credential_id"))
	if err != nil {
		log.Errorf("[Wallet] connect callback rejected: %v", err)
		resetConnectionState(c)
		return flash.WithError(c, fiber.Map{"type": "error", "message": "The portal sent an incomplete wallet. Please try again."}).Redirect("/wallet")
	}

	sess, err = session.GetSessionStore().Get(c)
	if err != nil {
		return flash.WithError(c, fiber.Map{"type": "error", "message": "Session could not be loaded."}).Redirect("/wallet")
	}
	sess.Set(walletcontext.KeyWalletAddress, result.Address)
	sess.Set(walletcontext.KeyPasskeyPubkey, result.PasskeyPubkey)
	sess.Set(walletcontext.KeyCredentialID, result.CredentialID)
	sess.Set(walletcontext.KeyConnectionState, walletcontext.StateConnected)
	if err := sess.Save(); err != nil {
		return flash.WithError(c, fiber.Map{"type": "error", "message": "Session could not be saved."}).Redirect("/wallet")
	}

	bumpEvent(counter.EventWalletConnect)
	log.Infof("[Wallet] connected %s", solana.Mask(result.Address))

	return flash.WithSuccess(c, fiber.Map{"type": "success", "message": fmt.Sprintf("Wallet %s connected.", solana.Mask(result.Address))}).Redirect("/wallet")
}

// resetConnectionState drops a half-done connect back to disconnected.
func resetConnectionState(c *fiber.Ctx) {
	sess, err := session.GetSessionStore().Get(c)
	if err != nil {
		return
	}
	sess.Set(walletcontext.KeyConnectionState, walletcontext.StateDisconnected)
	sess.Delete(walletCeremonyStateSessionKey)
	_ = sess.Save()
}
