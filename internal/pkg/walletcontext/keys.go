package walletcontext

// Shared Locals/session keys used across controllers and middlewares
const (
	KeyWalletAddress   = "wallet_address"
	KeyPasskeyPubkey   = "wallet_passkey"
	KeyCredentialID    = "wallet_credential"
	KeyConnectionState = "wallet_state"
	KeyFromConnected   = "from_connected"
)

// Wallet connection states kept in the session
const (
	StateDisconnected = "disconnected"
	StateConnecting   = "connecting"
	StateConnected    = "connected"
)
