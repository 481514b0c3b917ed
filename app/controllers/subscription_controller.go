package controllers

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/sujit-baniya/flash"

	"github.com/ManuelReschke/WalletFox/internal/pkg/jobqueue"
	"github.com/ManuelReschke/WalletFox/internal/pkg/mandate"
	"github.com/ManuelReschke/WalletFox/internal/pkg/plans"
	"github.com/ManuelReschke/WalletFox/internal/pkg/security"
	"github.com/ManuelReschke/WalletFox/internal/pkg/session"
	"github.com/ManuelReschke/WalletFox/internal/pkg/smartwallet"
	"github.com/ManuelReschke/WalletFox/internal/pkg/solana"
	"github.com/ManuelReschke/WalletFox/internal/pkg/viewmodel"
	"github.com/ManuelReschke/WalletFox/internal/pkg/walletcontext"
)

const (
	subscriptionCeremonyStateSessionKey = "subscription_ceremony_state"
	subscriptionPendingSessionKey       = "subscription_pending_mandate"
	mandateRecordsSessionKey            = "mandate_records"
)

// HandleSubscriptionPage renders the plan catalog with the state of each
// plan's mandate in this session.
func HandleSubscriptionPage(c *fiber.Ctx) error {
	records := loadMandateRecords(c)
	data := fiber.Map{
		"Plans": buildPlanCards(records, time.Now()),
	}
	return renderPage(c, "subscription", newLayout(c, "Subscription"), data)
}

// HandleSubscriptionSubscribe starts mandate creation for a plan: it fixes
// the validity window, fetches the authorization message and sends the user
// to the portal to sign it.
func HandleSubscriptionSubscribe(c *fiber.Ctx) error {
	wctx := walletcontext.GetWalletContext(c)

	plan, ok := plans.ByID(c.Params("plan"))
	if !ok {
		return flash.WithError(c, fiber.Map{"type": "error", "message": "Unknown plan."}).Redirect("/subscription")
	}

	records := loadMandateRecords(c)
	if rec, exists := records[plan.ID]; exists && time.Now().Unix() < rec.ExpiresAt {
		return flash.WithInfo(c, fiber.Map{"type": "info", "message": "There is already a mandate for this plan."}).Redirect("/subscription")
	}

	svc, err := mandate.NewServiceFromEnv()
	if err != nil {
		log.Errorf("[Subscription] service setup: %v", err)
		return flash.WithError(c, fiber.Map{"type": "error", "message": "Subscriptions are not configured."}).Redirect("/subscription")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	pending, err := svc.BeginCreate(ctx, mandate.CreateParams{
		Wallet:        wctx.Address,
		PasskeyPubkey: wctx.PasskeyPubkey,
		CredentialID:  wctx.CredentialID,
		Plan:          plan,
		Now:           time.Now(),
	})
	if err != nil {
		log.Errorf("[Subscription] begin create for plan %s failed: %v", plan.ID, err)
		return flash.WithError(c, fiber.Map{"type": "error", "message": "The mandate could not be prepared. Please try again."}).Redirect("/subscription")
	}

	encoded, err := mandate.EncodePending(pending)
	if err != nil {
		log.Errorf("[Subscription] encode pending: %v", err)
		return flash.WithError(c, fiber.Map{"type": "error", "message": "The mandate could not be prepared. Please try again."}).Redirect("/subscription")
	}

	state, err := security.GenerateState()
	if err != nil {
		log.Errorf("[Subscription] state generation failed: %v", err)
		return flash.WithError(c, fiber.Map{"type": "error", "message": "The mandate could not be prepared. Please try again."}).Redirect("/subscription")
	}

	sess, err := session.GetSessionStore().Get(c)
	if err != nil {
		return flash.WithError(c, fiber.Map{"type": "error", "message": "Session could not be loaded."}).Redirect("/subscription")
	}
	sess.Set(subscriptionCeremonyStateSessionKey, state)
	sess.Set(subscriptionPendingSessionKey, encoded)
	if err := sess.Save(); err != nil {
		return flash.WithError(c, fiber.Map{"type": "error", "message": "Session could not be saved."}).Redirect("/subscription")
	}

	token, err := security.GenerateCeremonyToken(security.CeremonySubscribe, state, wctx.Address, plan.ID, ceremonyTTL, ceremonySecret())
	if err != nil {
		log.Errorf("[Subscription] ceremony token: %v", err)
		clearPendingMandate(c)
		return flash.WithError(c, fiber.Map{"type": "error", "message": "The mandate could not be prepared. Please try again."}).Redirect("/subscription")
	}

	url, err := smartwallet.NewClientFromEnv().SignURLWithState(token, pending.Message, wctx.CredentialID, smartwallet.SubscribeCallbackPath)
	if err != nil {
		log.Errorf("[Subscription] sign URL: %v", err)
		clearPendingMandate(c)
		return flash.WithError(c, fiber.Map{"type": "error", "message": "The wallet portal is not configured."}).Redirect("/subscription")
	}

	return c.Redirect(url, fiber.StatusSeeOther)
}

// HandleSubscriptionCallback completes mandate creation from the portal's
// signature bundle and hands the resulting transaction to the confirmation
// worker. Failures drop the in-flight creation entirely; a retry starts
// over from the plan catalog.
func HandleSubscriptionCallback(c *fiber.Ctx) error {
	wctx := walletcontext.GetWalletContext(c)

	if portalErr := strings.TrimSpace(c.Query("error")); portalErr != "" {
		msg := c.Query("error_description", portalErr)
		log.Errorf("[Subscription] portal returned an error: %s", msg)
		clearPendingMandate(c)
		return flash.WithError(c, fiber.Map{"type": "error", "message": "Subscription failed: " + msg}).Redirect("/subscription")
	}

	claims, err := security.VerifyCeremonyToken(strings.TrimSpace(c.Query("state")), security.CeremonySubscribe, ceremonySecret())
	if err != nil {
		log.Errorf("[Subscription] state token rejected: %v", err)
		clearPendingMandate(c)
		return flash.WithError(c, fiber.Map{"type": "error", "message": "The signing ceremony could not be verified. Please try again."}).Redirect("/subscription")
	}

	sess, err := session.GetSessionStore().Get(c)
	if err != nil {
		return flash.WithError(c, fiber.Map{"type": "error", "message": "Session could not be loaded."}).Redirect("/subscription")
	}
	expectedState, _ := sess.Get(subscriptionCeremonyStateSessionKey).(string)
	pendingEncoded, _ := sess.Get(subscriptionPendingSessionKey).(string)
	sess.Delete(subscriptionCeremonyStateSessionKey)
	sess.Delete(subscriptionPendingSessionKey)
	_ = sess.Save()

	if expectedState == "" || claims.State != expectedState || claims.Wallet != wctx.Address {
		return flash.WithError(c, fiber.Map{"type": "error", "message": "The signing ceremony does not match this session. Please try again."}).Redirect("/subscription")
	}

	pending, err := mandate.DecodePending(pendingEncoded)
	if err != nil || pending == nil {
		return flash.WithError(c, fiber.Map{"type": "error", "message": "There is no subscription in flight. Please start over."}).Redirect("/subscription")
	}
	if pending.Wallet != wctx.Address || pending.PlanID != claims.PlanID {
		return flash.WithError(c, fiber.Map{"type": "error", "message": "The signing ceremony does not match this session. Please try again."}).Redirect("/subscription")
	}

	bundle, err := smartwallet.ParseSignCallback(c.Query("signature"), c.Query("authenticator_data"), c.Query("client_data"), c.Query("credential_id"))
	if err != nil {
		log.Errorf("[Subscription] sign callback rejected: %v", err)
		return flash.WithError(c, fiber.Map{"type": "error", "message": "The portal returned an incomplete signature. Please try again."}).Redirect("/subscription")
	}

	svc, err := mandate.NewServiceFromEnv()
	if err != nil {
		log.Errorf("[Subscription] service setup: %v", err)
		return flash.WithError(c, fiber.Map{"type": "error", "message": "Subscriptions are not configured."}).Redirect("/subscription")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	sig, err := svc.CompleteCreate(ctx, pending, *bundle)
	if err != nil {
		log.Errorf("[Subscription] create for plan %s failed: %v", pending.PlanID, err)
		return flash.WithError(c, fiber.Map{"type": "error", "message": "Creating the mandate failed: " + err.Error()}).Redirect("/subscription")
	}

	records := loadMandateRecords(c)
	records[pending.PlanID] = mandate.Record{
		PlanID:    pending.PlanID,
		Signature: sig,
		ExpiresAt: pending.ExpiresAt,
		CreatedAt: time.Now().Unix(),
	}
	if err := saveMandateRecords(c, records); err != nil {
		log.Errorf("[Subscription] saving mandate record failed: %v", err)
		return flash.WithError(c, fiber.Map{"type": "error", "message": fmt.Sprintf("The mandate %s was submitted but could not be recorded in this session.", sig)}).Redirect("/subscription")
	}

	enqueueConfirm(jobqueue.ConfirmKindMandateCreate, sig, wctx.Address, pending.PlanID)
	log.Infof("[Subscription] mandate %s submitted for plan %s", solana.Mask(sig), pending.PlanID)

	label := pending.PlanID
	if plan, ok := plans.ByID(pending.PlanID); ok {
		label = plan.Label
	}
	return flash.WithSuccess(c, fiber.Map{"type": "success", "message": fmt.Sprintf("Mandate for the %s plan submitted: %s. Execution unlocks once it is confirmed.", label, sig)}).Redirect("/subscription")
}

// HandleSubscriptionExecute charges a previously created mandate. No portal
// round-trip happens here; the stored pre-authorization covers the charge.
func HandleSubscriptionExecute(c *fiber.Ctx) error {
	wctx := walletcontext.GetWalletContext(c)

	plan, ok := plans.ByID(c.Params("plan"))
	if !ok {
		return flash.WithError(c, fiber.Map{"type": "error", "message": "Unknown plan."}).Redirect("/subscription")
	}

	records := loadMandateRecords(c)
	rec, ok := records[plan.ID]
	if !ok {
		return flash.WithError(c, fiber.Map{"type": "error", "message": "There is no mandate for this plan yet."}).Redirect("/subscription")
	}
	if !mandate.IsConfirmed(rec.Signature) {
		return flash.WithInfo(c, fiber.Map{"type": "info", "message": "The mandate is not confirmed yet. Try again in a moment."}).Redirect("/subscription")
	}

	svc, err := mandate.NewServiceFromEnv()
	if err != nil {
		log.Errorf("[Subscription] service setup: %v", err)
		return flash.WithError(c, fiber.Map{"type": "error", "message": "Subscriptions are not configured."}).Redirect("/subscription")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	sig, err := svc.Execute(ctx, mandate.ExecuteParams{
		Wallet: wctx.Address,
		Plan:   plan,
		Record: rec,
		Now:    time.Now(),
	})
	if errors.Is(err, mandate.ErrMandateExpired) {
		return flash.WithError(c, fiber.Map{"type": "error", "message": "The mandate for this plan has expired. Create a new one."}).Redirect("/subscription")
	}
	if err != nil {
		log.Errorf("[Subscription] execute for plan %s failed: %v", plan.ID, err)
		return flash.WithError(c, fiber.Map{"type": "error", "message": "Charging the mandate failed: " + err.Error()}).Redirect("/subscription")
	}

	rec.ExecuteSignature = sig
	rec.ExecutedAt = time.Now().Unix()
	records[plan.ID] = rec
	if err := saveMandateRecords(c, records); err != nil {
		log.Errorf("[Subscription] saving execute record failed: %v", err)
	}

	enqueueConfirm(jobqueue.ConfirmKindMandateExecute, sig, wctx.Address, plan.ID)
	log.Infof("[Subscription] mandate %s charged for plan %s", solana.Mask(rec.Signature), plan.ID)

	return flash.WithSuccess(c, fiber.Map{"type": "success", "message": fmt.Sprintf("Mandate charged: %s. Confirmation runs in the background.", sig)}).Redirect("/subscription")
}

// loadMandateRecords reads this session's per-plan mandates. Unreadable
// state counts as empty.
func loadMandateRecords(c *fiber.Ctx) map[string]mandate.Record {
	records, err := mandate.DecodeRecords(session.GetSessionValue(c, mandateRecordsSessionKey))
	if err != nil {
		log.Errorf("[Subscription] session records unreadable: %v", err)
		return map[string]mandate.Record{}
	}
	return records
}

func saveMandateRecords(c *fiber.Ctx, records map[string]mandate.Record) error {
	encoded, err := mandate.EncodeRecords(records)
	if err != nil {
		return err
	}
	return session.SetSessionValue(c, mandateRecordsSessionKey, encoded)
}

// buildPlanCards merges the static catalog with the session's mandate state.
func buildPlanCards(records map[string]mandate.Record, now time.Time) []viewmodel.PlanCard {
	catalog := plans.All()
	cards := make([]viewmodel.PlanCard, 0, len(catalog))
	for _, p := range catalog {
		card := viewmodel.PlanCard{
			ID:           p.ID,
			Label:        p.Label,
			Description:  p.Description,
			Price:        strconv.FormatFloat(p.Price, 'f', -1, 64),
			IntervalDays: p.IntervalDays,
		}
		if rec, ok := records[p.ID]; ok {
			status := mandate.STATUS_PENDING
			if s, err := mandate.GetStatus(rec.Signature); err == nil && s != "" {
				status = s
			}
			card.HasMandate = true
			card.Signature = rec.Signature
			card.ExpiresAt = time.Unix(rec.ExpiresAt, 0).UTC().Format("2006-01-02")
			card.Expired = now.Unix() >= rec.ExpiresAt
			card.Status = status
			card.Creating = status == mandate.STATUS_PENDING
			card.CanExecute = !card.Expired && status == mandate.STATUS_CONFIRMED
			card.ExecuteSignature = rec.ExecuteSignature
		}
		cards = append(cards, card)
	}
	return cards
}

// clearPendingMandate drops the in-flight creation from the session.
func clearPendingMandate(c *fiber.Ctx) {
	sess, err := session.GetSessionStore().Get(c)
	if err != nil {
		return
	}
	sess.Delete(subscriptionCeremonyStateSessionKey)
	sess.Delete(subscriptionPendingSessionKey)
	_ = sess.Save()
}
