package mandate

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/blocto/solana-go-sdk/common"
	"github.com/blocto/solana-go-sdk/types"

	"github.com/ManuelReschke/WalletFox/internal/pkg/env"
	"github.com/ManuelReschke/WalletFox/internal/pkg/paymaster"
	"github.com/ManuelReschke/WalletFox/internal/pkg/plans"
	"github.com/ManuelReschke/WalletFox/internal/pkg/smartwallet"
	"github.com/ManuelReschke/WalletFox/internal/pkg/solana"
)

// ValidityWindow is how long a freshly created mandate stays executable.
// The plan's billing interval is display-only and does not change this.
const ValidityWindow = 30 * 24 * time.Hour

// createComputeUnits is the elevated compute budget for the on-chain
// mandate record. Creation touches more accounts than a plain transfer.
const createComputeUnits = 600_000

var (
	ErrMandateExpired = errors.New("mandate: mandate has expired")
	ErrNotConfigured  = errors.New("mandate: service is not configured")
	ErrNoPending      = errors.New("mandate: no creation in flight")
)

// WalletService is the subset of the smart-wallet client the mandate flows
// need. Satisfied by *smartwallet.Client.
type WalletService interface {
	BuildAuthorizationMessage(ctx context.Context, p smartwallet.AuthMessageParams) (string, error)
	CreateMandateTransaction(ctx context.Context, p smartwallet.CreateTxParams) (string, error)
	ExecuteMandateTransaction(ctx context.Context, p smartwallet.ExecuteTxParams) (string, error)
}

// Relay is the fee-sponsoring submission path. Satisfied by
// *paymaster.Client.
type Relay interface {
	SignAndSend(ctx context.Context, p paymaster.SignAndSendParams) (string, error)
}

// Service orchestrates mandate creation and execution against the wallet
// service and the paymaster relay.
type Service struct {
	wallet   WalletService
	relay    Relay
	merchant common.PublicKey
	mint     common.PublicKey
	decimals uint8
}

func NewService(wallet WalletService, relay Relay, merchantAddr, mintAddr string, decimals uint8) (*Service, error) {
	if wallet == nil || relay == nil {
		return nil, ErrNotConfigured
	}
	if err := solana.ValidateAddress(merchantAddr); err != nil {
		return nil, fmt.Errorf("MERCHANT_WALLET is invalid: %w", err)
	}
	if err := solana.ValidateAddress(mintAddr); err != nil {
		return nil, fmt.Errorf("DEMO_TOKEN_MINT is invalid: %w", err)
	}
	return &Service{
		wallet:   wallet,
		relay:    relay,
		merchant: common.PublicKeyFromString(strings.TrimSpace(merchantAddr)),
		mint:     common.PublicKeyFromString(strings.TrimSpace(mintAddr)),
		decimals: decimals,
	}, nil
}

// NewServiceFromEnv wires the service with the env-configured vendor
// clients, merchant wallet and demo mint.
func NewServiceFromEnv() (*Service, error) {
	decimals := uint8(9)
	if v := strings.TrimSpace(env.GetEnv("DEMO_TOKEN_DECIMALS", "9")); v == "6" {
		decimals = 6
	}
	return NewService(
		smartwallet.NewClientFromEnv(),
		paymaster.NewClientFromEnv(),
		env.GetEnv("MERCHANT_WALLET", ""),
		env.GetEnv("DEMO_TOKEN_MINT", ""),
		decimals,
	)
}

// CreateParams start a mandate creation for a connected wallet.
type CreateParams struct {
	Wallet        string
	PasskeyPubkey string
	CredentialID  string
	Plan          plans.Plan
	Now           time.Time
}

// BeginCreate runs the pre-dialog half of mandate creation: it fixes the
// expiration, assembles the payment instruction for the plan and fetches the
// authorization message the passkey must sign. The returned Pending holds
// everything the completion step may use, so both halves stay consistent.
func (s *Service) BeginCreate(ctx context.Context, p CreateParams) (*Pending, error) {
	if s == nil {
		return nil, ErrNotConfigured
	}
	if err := solana.ValidateAddress(p.Wallet); err != nil {
		return nil, err
	}
	if p.Plan.ID == "" {
		return nil, errors.New("mandate: plan is required")
	}

	expiresAt := p.Now.Add(ValidityWindow).Unix()

	walletPk := common.PublicKeyFromString(strings.TrimSpace(p.Wallet))
	units := solana.TokenUnits(p.Plan.Price, s.decimals)
	transferIx, err := solana.TokenTransfer(s.mint, walletPk, s.merchant, units)
	if err != nil {
		return nil, err
	}
	ins := []types.Instruction{
		solana.ComputeUnitLimit(createComputeUnits),
		transferIx,
	}

	message, err := s.wallet.BuildAuthorizationMessage(ctx, smartwallet.AuthMessageParams{
		Action:        smartwallet.CreateMandateAction{},
		Wallet:        p.Wallet,
		PasskeyPubkey: p.PasskeyPubkey,
		CredentialID:  p.CredentialID,
		Timestamp:     p.Now,
	})
	if err != nil {
		return nil, err
	}

	return &Pending{
		PlanID:       p.Plan.ID,
		Wallet:       strings.TrimSpace(p.Wallet),
		ExpiresAt:    expiresAt,
		Message:      message,
		Instructions: smartwallet.EncodeInstructions(ins),
		StartedAt:    p.Now.Unix(),
	}, nil
}

// CompleteCreate runs the post-dialog half: it has the wallet service
// assemble the creation transaction from the pinned instructions and the
// passkey's signature bundle, then relays it. Returns the transaction
// signature identifying the mandate.
func (s *Service) CompleteCreate(ctx context.Context, pending *Pending, bundle smartwallet.SignatureBundle) (string, error) {
	if s == nil {
		return "", ErrNotConfigured
	}
	if pending == nil || pending.Message == "" || len(pending.Instructions) == 0 {
		return "", ErrNoPending
	}

	tx, err := s.wallet.CreateMandateTransaction(ctx, smartwallet.CreateTxParams{
		Wallet:       pending.Wallet,
		Instructions: pending.Instructions,
		ExpiresAt:    pending.ExpiresAt,
		Message:      pending.Message,
		Bundle:       bundle,
	})
	if err != nil {
		return "", err
	}

	// The passkey approval is embedded in the transaction; the relay only
	// adds the sponsor's fee-payer signature.
	sig, err := s.relay.SignAndSend(ctx, paymaster.SignAndSendParams{Transaction: tx})
	if err != nil {
		return "", err
	}
	return sig, nil
}

// ExecuteParams charge a previously created mandate.
type ExecuteParams struct {
	Wallet string
	Plan   plans.Plan
	Record Record
	Now    time.Time
}

// Execute rebuilds the payment instruction the mandate authorized and has it
// executed against the stored pre-authorization. No passkey interaction
// happens here; an expired mandate is refused before any remote call.
func (s *Service) Execute(ctx context.Context, p ExecuteParams) (string, error) {
	if s == nil {
		return "", ErrNotConfigured
	}
	if err := solana.ValidateAddress(p.Wallet); err != nil {
		return "", err
	}
	if strings.TrimSpace(p.Record.Signature) == "" {
		return "", errors.New("mandate: record has no signature")
	}
	if p.Now.Unix() >= p.Record.ExpiresAt {
		return "", ErrMandateExpired
	}

	walletPk := common.PublicKeyFromString(strings.TrimSpace(p.Wallet))
	units := solana.TokenUnits(p.Plan.Price, s.decimals)
	transferIx, err := solana.TokenTransfer(s.mint, walletPk, s.merchant, units)
	if err != nil {
		return "", err
	}

	tx, err := s.wallet.ExecuteMandateTransaction(ctx, smartwallet.ExecuteTxParams{
		Wallet:           p.Wallet,
		Instructions:     smartwallet.EncodeInstructions([]types.Instruction{transferIx}),
		MandateSignature: p.Record.Signature,
	})
	if err != nil {
		return "", err
	}

	sig, err := s.relay.SignAndSend(ctx, paymaster.SignAndSendParams{Transaction: tx})
	if err != nil {
		return "", err
	}
	return sig, nil
}
