package solana

import (
	"fmt"
	"math"
)

// LamportsPerSOL is the number of lamports in one SOL.
const LamportsPerSOL = 1_000_000_000

// SOLToLamports converts a decimal SOL amount to lamports, rounding to the
// nearest lamport.
func SOLToLamports(sol float64) uint64 {
	if sol <= 0 {
		return 0
	}
	return uint64(math.Round(sol * LamportsPerSOL))
}

// LamportsToSOL converts lamports to a decimal SOL amount.
func LamportsToSOL(lamports uint64) float64 {
	return float64(lamports) / LamportsPerSOL
}

// FormatSOL renders a lamport balance for display, e.g. "1.2500 SOL".
// A zero balance renders as "0.0000 SOL".
func FormatSOL(lamports uint64) string {
	return fmt.Sprintf("%.4f SOL", LamportsToSOL(lamports))
}

// TokenUnits converts a decimal token amount to base units for a mint with
// the given number of decimals.
func TokenUnits(amount float64, decimals uint8) uint64 {
	if amount <= 0 {
		return 0
	}
	return uint64(math.Round(amount * math.Pow10(int(decimals))))
}
