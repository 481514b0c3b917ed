package solana

import (
	"fmt"

	"github.com/blocto/solana-go-sdk/common"
	"github.com/blocto/solana-go-sdk/program/compute_budget"
	"github.com/blocto/solana-go-sdk/program/system"
	"github.com/blocto/solana-go-sdk/program/token"
	"github.com/blocto/solana-go-sdk/types"
)

// NativeTransfer builds a system-program transfer of lamports between two
// wallet accounts.
func NativeTransfer(from, to common.PublicKey, lamports uint64) types.Instruction {
	return system.Transfer(system.TransferParam{
		From:   from,
		To:     to,
		Amount: lamports,
	})
}

// TokenTransfer builds an SPL token transfer between the associated token
// accounts of two owners. Amount is in base units of the mint.
func TokenTransfer(mint, fromOwner, toOwner common.PublicKey, amount uint64) (types.Instruction, error) {
	fromATA, _, err := common.FindAssociatedTokenAddress(fromOwner, mint)
	if err != nil {
		return types.Instruction{}, fmt.Errorf("solana: derive source ATA: %w", err)
	}
	toATA, _, err := common.FindAssociatedTokenAddress(toOwner, mint)
	if err != nil {
		return types.Instruction{}, fmt.Errorf("solana: derive destination ATA: %w", err)
	}
	return token.Transfer(token.TransferParam{
		From:   fromATA,
		To:     toATA,
		Auth:   fromOwner,
		Amount: amount,
	}), nil
}

// ComputeUnitLimit builds a compute-budget instruction raising the
// transaction's compute-unit limit.
func ComputeUnitLimit(units uint32) types.Instruction {
	return compute_budget.SetComputeUnitLimit(compute_budget.SetComputeUnitLimitParam{
		Units: units,
	})
}
