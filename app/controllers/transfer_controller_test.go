package controllers

import (
	"net/url"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ManuelReschke/WalletFox/internal/pkg/mandate"
	"github.com/ManuelReschke/WalletFox/internal/pkg/middleware"
	"github.com/ManuelReschke/WalletFox/internal/pkg/security"
)

func TestHandleTransferSubmitRejectsInvalidRecipient(t *testing.T) {
	app := fiber.New()
	app.Use(withWallet(testWalletAddress))
	app.Post("/transfer", HandleTransferSubmit)

	form := url.Values{"recipient": {"not-an-address"}, "amount": {"1"}}
	resp, err := app.Test(newFormRequest("/transfer", form), -1)
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusFound, resp.StatusCode)
	assert.Equal(t, "/transfer", resp.Header.Get("Location"))
}

func TestHandleTransferSubmitRejectsNonPositiveAmount(t *testing.T) {
	app := fiber.New()
	app.Use(withWallet(testWalletAddress))
	app.Post("/transfer", HandleTransferSubmit)

	for _, amount := range []string{"", "0", "-0.5", "abc"} {
		form := url.Values{"recipient": {testRecipientAddress}, "amount": {amount}}
		resp, err := app.Test(newFormRequest("/transfer", form), -1)
		require.NoError(t, err, "amount %q", amount)

		assert.Equal(t, fiber.StatusFound, resp.StatusCode, "amount %q", amount)
		assert.Equal(t, "/transfer", resp.Header.Get("Location"), "amount %q", amount)
	}
}

func newTransferTestApp() *fiber.App {
	app := fiber.New()
	app.Use(middleware.WalletContextMiddleware)
	registerSessionSeed(app)
	app.Post("/transfer", HandleTransferSubmit)
	app.Get("/transfer/callback", HandleTransferCallback)
	return app
}

func TestTransferCeremonyRoundTrip(t *testing.T) {
	setupWebRedis(t)
	configureCeremonyEnv(t)

	var calls []string
	stub := newVendorStub(t, &calls)
	defer stub.Close()
	setTestEnv(t, "PAYMASTER_URL", stub.URL)

	app := newTransferTestApp()
	jar := cookieJar{}

	resp, err := app.Test(newFormRequest("/test/connect", url.Values{}), -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusNoContent, resp.StatusCode)
	jar.update(resp)

	// Submit the form: the sponsored transaction is built and the user is
	// handed to the portal to sign its message.
	form := url.Values{"recipient": {testRecipientAddress}, "amount": {"0.5"}}
	req := newFormRequest("/transfer", form)
	jar.apply(req)
	resp, err = app.Test(req, -1)
	require.NoError(t, err)
	jar.update(resp)

	require.Equal(t, fiber.StatusSeeOther, resp.StatusCode)
	portalURL := resp.Header.Get("Location")
	require.True(t, strings.HasPrefix(portalURL, "https://portal.test/sign"), "unexpected portal URL %s", portalURL)

	signURL, err := url.Parse(portalURL)
	require.NoError(t, err)
	assert.Equal(t, "c2lnbi1tZQ", signURL.Query().Get("message"), "the portal must sign exactly the built message")
	assert.Equal(t, testCredentialID, signURL.Query().Get("credential_id"))
	assert.Equal(t, "https://demo.test/transfer/callback", signURL.Query().Get("redirect_uri"))
	token := stateFromPortalURL(t, portalURL)

	// The portal returns the signature bundle; the relay submits the
	// transaction and confirmation moves to the background worker.
	cb := "/transfer/callback?" + url.Values{
		"state":              {token},
		"signature":          {"c2ln"},
		"authenticator_data": {"YXV0aA"},
		"client_data":        {"Y2Q"},
		"credential_id":      {testCredentialID},
	}.Encode()
	req = newGetRequest(cb)
	jar.apply(req)
	resp, err = app.Test(req, -1)
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusFound, resp.StatusCode)
	assert.Equal(t, "/transfer", resp.Header.Get("Location"))

	assert.Equal(t, []string{"wallet_buildSponsoredTransaction", "pm_signAndSendTransaction"}, calls)

	status, err := mandate.GetStatus(stubRelaySignature)
	require.NoError(t, err)
	assert.Equal(t, mandate.STATUS_PENDING, status, "submitted transfer must await the worker")
}

func TestHandleTransferCallbackWithoutCeremony(t *testing.T) {
	setupWebRedis(t)
	configureCeremonyEnv(t)

	app := newTransferTestApp()
	jar := cookieJar{}

	resp, err := app.Test(newFormRequest("/test/connect", url.Values{}), -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusNoContent, resp.StatusCode)
	jar.update(resp)

	// A signed token alone is not enough: the session never started a
	// transfer, so there is no nonce to match.
	token, err := security.GenerateCeremonyToken(security.CeremonyTransfer, "stray-nonce", testWalletAddress, "", ceremonyTTL, ceremonySecret())
	require.NoError(t, err)

	cb := "/transfer/callback?" + url.Values{
		"state":              {token},
		"signature":          {"c2ln"},
		"authenticator_data": {"YXV0aA"},
		"client_data":        {"Y2Q"},
		"credential_id":      {testCredentialID},
	}.Encode()
	req := newGetRequest(cb)
	jar.apply(req)
	resp, err = app.Test(req, -1)
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusFound, resp.StatusCode)
	assert.Equal(t, "/transfer", resp.Header.Get("Location"))
}
