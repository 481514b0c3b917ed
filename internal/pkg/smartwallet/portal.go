package smartwallet

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// Callback paths the portal redirects back to after a ceremony.
const (
	ConnectCallbackPath   = "/wallet/callback"
	TransferCallbackPath  = "/transfer/callback"
	SubscribeCallbackPath = "/subscription/callback"
)

// ConnectURLWithState builds the portal URL that runs the passkey creation
// dialog. The state token is opaque to the portal and echoed back on the
// callback.
func (c *Client) ConnectURLWithState(state string) (string, error) {
	if strings.TrimSpace(c.PortalURL) == "" {
		return "", errors.New("PORTAL_URL is not configured")
	}
	if strings.TrimSpace(c.BaseURL) == "" {
		return "", errors.New("PUBLIC_DOMAIN is not configured")
	}
	if strings.TrimSpace(state) == "" {
		return "", errors.New("smartwallet: state is required")
	}
	u, err := url.Parse(c.PortalURL + "/connect")
	if err != nil {
		return "", fmt.Errorf("invalid PORTAL_URL: %w", err)
	}
	q := u.Query()
	q.Set("state", state)
	q.Set("redirect_uri", c.BaseURL+ConnectCallbackPath)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// SignURLWithState builds the portal URL that runs the passkey signing
// dialog over the given base64 message. redirectPath selects which callback
// the portal returns to.
func (c *Client) SignURLWithState(state, message, credentialID, redirectPath string) (string, error) {
	if strings.TrimSpace(c.PortalURL) == "" {
		return "", errors.New("PORTAL_URL is not configured")
	}
	if strings.TrimSpace(c.BaseURL) == "" {
		return "", errors.New("PUBLIC_DOMAIN is not configured")
	}
	if strings.TrimSpace(state) == "" {
		return "", errors.New("smartwallet: state is required")
	}
	if strings.TrimSpace(message) == "" {
		return "", errors.New("smartwallet: message is required")
	}
	if strings.TrimSpace(credentialID) == "" {
		return "", errors.New("smartwallet: credential id is required")
	}
	if !strings.HasPrefix(redirectPath, "/") {
		return "", fmt.Errorf("smartwallet: invalid redirect path %q", redirectPath)
	}
	u, err := url.Parse(c.PortalURL + "/sign")
	if err != nil {
		return "", fmt.Errorf("invalid PORTAL_URL: %w", err)
	}
	q := u.Query()
	q.Set("state", state)
	q.Set("message", message)
	q.Set("credential_id", credentialID)
	q.Set("redirect_uri", c.BaseURL+redirectPath)
	u.RawQuery = q.Encode()
	return u.String(), nil
}
