package solana

import (
	"encoding/binary"
	"testing"

	"github.com/blocto/solana-go-sdk/common"
)

var (
	testMint  = common.PublicKeyFromString("So11111111111111111111111111111111111111112")
	testFrom  = common.PublicKeyFromString("SysvarRent111111111111111111111111111111111")
	testTo    = common.PublicKeyFromString("SysvarC1ock11111111111111111111111111111111")
	systemPID = common.PublicKeyFromString("11111111111111111111111111111111")
	budgetPID = common.PublicKeyFromString("ComputeBudget111111111111111111111111111111")
)

func TestNativeTransfer(t *testing.T) {
	ins := NativeTransfer(testFrom, testTo, 250_000_000)

	if ins.ProgramID != systemPID {
		t.Fatalf("program id = %s, want system program", ins.ProgramID.ToBase58())
	}
	if len(ins.Accounts) != 2 {
		t.Fatalf("accounts = %d, want 2", len(ins.Accounts))
	}
	if ins.Accounts[0].PubKey != testFrom || !ins.Accounts[0].IsSigner || !ins.Accounts[0].IsWritable {
		t.Error("sender must be the first account, signer and writable")
	}
	if ins.Accounts[1].PubKey != testTo || ins.Accounts[1].IsSigner || !ins.Accounts[1].IsWritable {
		t.Error("recipient must be the second account, writable and not a signer")
	}
	if len(ins.Data) != 12 {
		t.Fatalf("data length = %d, want 12", len(ins.Data))
	}
	if tag := binary.LittleEndian.Uint32(ins.Data[:4]); tag != 2 {
		t.Errorf("instruction tag = %d, want 2 (transfer)", tag)
	}
	if amt := binary.LittleEndian.Uint64(ins.Data[4:]); amt != 250_000_000 {
		t.Errorf("amount = %d, want 250000000", amt)
	}
}

func TestTokenTransfer(t *testing.T) {
	const amount = 50_000_000
	ins, err := TokenTransfer(testMint, testFrom, testTo, amount)
	if err != nil {
		t.Fatalf("TokenTransfer: %v", err)
	}

	tokenPID := common.PublicKeyFromString("TokenkegQfeZyiNwAJbNbGKPFXCWuBvf9Ss623VQ5DA")
	if ins.ProgramID != tokenPID {
		t.Fatalf("program id = %s, want token program", ins.ProgramID.ToBase58())
	}

	fromATA, _, err := common.FindAssociatedTokenAddress(testFrom, testMint)
	if err != nil {
		t.Fatalf("derive from ATA: %v", err)
	}
	toATA, _, err := common.FindAssociatedTokenAddress(testTo, testMint)
	if err != nil {
		t.Fatalf("derive to ATA: %v", err)
	}
	if fromATA == toATA {
		t.Fatal("distinct owners must derive distinct ATAs")
	}

	if len(ins.Accounts) < 3 {
		t.Fatalf("accounts = %d, want at least 3", len(ins.Accounts))
	}
	if ins.Accounts[0].PubKey != fromATA {
		t.Error("first account must be the source ATA")
	}
	if ins.Accounts[1].PubKey != toATA {
		t.Error("second account must be the destination ATA")
	}
	if ins.Accounts[2].PubKey != testFrom || !ins.Accounts[2].IsSigner {
		t.Error("third account must be the owner as signer")
	}

	if len(ins.Data) != 9 {
		t.Fatalf("data length = %d, want 9", len(ins.Data))
	}
	if ins.Data[0] != 3 {
		t.Errorf("instruction tag = %d, want 3 (transfer)", ins.Data[0])
	}
	if amt := binary.LittleEndian.Uint64(ins.Data[1:]); amt != amount {
		t.Errorf("amount = %d, want %d", amt, amount)
	}
}

func TestTokenTransferDeterministic(t *testing.T) {
	a, err := TokenTransfer(testMint, testFrom, testTo, 1)
	if err != nil {
		t.Fatalf("TokenTransfer: %v", err)
	}
	b, err := TokenTransfer(testMint, testFrom, testTo, 1)
	if err != nil {
		t.Fatalf("TokenTransfer: %v", err)
	}
	if a.Accounts[0].PubKey != b.Accounts[0].PubKey || a.Accounts[1].PubKey != b.Accounts[1].PubKey {
		t.Error("same owners and mint must derive the same ATAs")
	}
}

func TestComputeUnitLimit(t *testing.T) {
	ins := ComputeUnitLimit(600_000)

	if ins.ProgramID != budgetPID {
		t.Fatalf("program id = %s, want compute budget program", ins.ProgramID.ToBase58())
	}
	if len(ins.Accounts) != 0 {
		t.Errorf("accounts = %d, want 0", len(ins.Accounts))
	}
	if len(ins.Data) != 5 {
		t.Fatalf("data length = %d, want 5", len(ins.Data))
	}
	if ins.Data[0] != 2 {
		t.Errorf("instruction tag = %d, want 2 (set compute unit limit)", ins.Data[0])
	}
	if units := binary.LittleEndian.Uint32(ins.Data[1:]); units != 600_000 {
		t.Errorf("units = %d, want 600000", units)
	}
}
