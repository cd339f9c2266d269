// Copyright 2022-2026 The N42 Authors
// This file is part of the N42 library.

package vm

import (
	"testing"

	"github.com/holiman/uint256"

	"github.com/n42blockchain/N42/common/block"
	"github.com/n42blockchain/N42/common/types"
	"github.com/n42blockchain/N42/internal/vm/evmtypes"
	"github.com/n42blockchain/N42/params"
)

func newTestEVM(t *testing.T, state *fakeState) *EVM {
	t.Helper()
	blockCtx := evmtypes.BlockContext{
		CanTransfer: func(s evmtypes.IntraBlockState, addr types.Address, amount *uint256.Int) bool {
			return s.GetBalance(addr).Cmp(amount) >= 0
		},
		Transfer: func(s evmtypes.IntraBlockState, from, to types.Address, amount *uint256.Int, _ bool) {
			s.SubBalance(from, amount)
			s.AddBalance(to, amount)
		},
		GetHash: func(n uint64) types.Hash {
			var h types.Hash
			h[31] = byte(n)
			return h
		},
		BlockNumber: 42,
		Time:        1000,
		GasLimit:    30_000_000,
	}
	txCtx := evmtypes.TxContext{Origin: types.HexToAddress("0xaa")}
	return NewEVM(blockCtx, txCtx, state, params.AllProtocolChanges, Config{})
}

func TestHostBalanceAndStorage(t *testing.T) {
	state := newFakeState()
	addr := types.HexToAddress("0x01")
	state.AddBalance(addr, uint256.NewInt(100))

	evm := newTestEVM(t, state)

	if got := evm.Balance(addr); got.Cmp(uint256.NewInt(100)) != 0 {
		t.Errorf("Balance() = %v, want 100", got)
	}

	key := types.Hash{1}
	val := *uint256.NewInt(7)
	evm.SStore(addr, key, val)
	if got := evm.SLoad(addr, key); got.Cmp(&val) != 0 {
		t.Errorf("SLoad() after SStore() = %v, want %v", got, val)
	}
	t.Log("✓ Host.Balance/SStore/SLoad delegate to IntraBlockState correctly")
}

func TestHostTransientStorage(t *testing.T) {
	state := newFakeState()
	evm := newTestEVM(t, state)
	addr := types.HexToAddress("0x02")
	key := types.Hash{2}
	val := *uint256.NewInt(99)

	if got := evm.TLoad(addr, key); !got.IsZero() {
		t.Errorf("TLoad() before TStore() = %v, want zero", got)
	}
	evm.TStore(addr, key, val)
	if got := evm.TLoad(addr, key); got.Cmp(&val) != 0 {
		t.Errorf("TLoad() after TStore() = %v, want %v", got, val)
	}
	t.Log("✓ Host.TLoad/TStore delegate to transient storage correctly")
}

func TestHostLoadAccountAndCode(t *testing.T) {
	state := newFakeState()
	evm := newTestEVM(t, state)
	addr := types.HexToAddress("0x03")

	exists, empty := evm.LoadAccount(addr)
	if exists || !empty {
		t.Errorf("LoadAccount() on an untouched address = (%v, %v), want (false, true)", exists, empty)
	}

	state.CreateAccount(addr, false)
	state.SetCode(addr, []byte{0x60, 0x00})
	exists, empty = evm.LoadAccount(addr)
	if !exists || empty {
		t.Errorf("LoadAccount() after SetCode = (%v, %v), want (true, false)", exists, empty)
	}
	if got := evm.LoadCode(addr); len(got) != 2 {
		t.Errorf("LoadCode() len = %d, want 2", len(got))
	}
	if got := evm.CodeSize(addr); got != 2 {
		t.Errorf("CodeSize() = %d, want 2", got)
	}
	t.Log("✓ Host.LoadAccount/LoadCode/CodeSize reflect state changes")
}

func TestHostBlockHash(t *testing.T) {
	state := newFakeState()
	evm := newTestEVM(t, state)
	got := evm.BlockHash(5)
	if got[31] != 5 {
		t.Errorf("BlockHash(5) = %x, want last byte 5", got)
	}
	t.Log("✓ Host.BlockHash forwards to BlockContext.GetHash")
}

func TestHostSelfdestructMovesBalanceOnce(t *testing.T) {
	state := newFakeState()
	evm := newTestEVM(t, state)
	addr := types.HexToAddress("0x04")
	beneficiary := types.HexToAddress("0x05")
	state.AddBalance(addr, uint256.NewInt(50))

	first := evm.Selfdestruct(addr, beneficiary)
	if !first {
		t.Error("first Selfdestruct() should report true")
	}
	if got := evm.Balance(beneficiary); got.Cmp(uint256.NewInt(50)) != 0 {
		t.Errorf("beneficiary balance = %v, want 50", got)
	}
	if got := evm.Balance(addr); !got.IsZero() {
		t.Errorf("selfdestructed account balance = %v, want 0", got)
	}

	second := evm.Selfdestruct(addr, beneficiary)
	if second {
		t.Error("repeated Selfdestruct() on the same account should report false")
	}
	t.Log("✓ Host.Selfdestruct moves balance once and reports repeats")
}

func TestHostEmitLogAndEnvironmentAccessors(t *testing.T) {
	state := newFakeState()
	evm := newTestEVM(t, state)

	evm.EmitLog(&block.Log{Address: types.HexToAddress("0x06")})
	if len(state.logs) != 1 {
		t.Errorf("EmitLog() did not record a log, got %d", len(state.logs))
	}

	if evm.Block().BlockNumber != 42 {
		t.Errorf("Block().BlockNumber = %d, want 42", evm.Block().BlockNumber)
	}
	if evm.Tx().Origin != types.HexToAddress("0xaa") {
		t.Errorf("Tx().Origin = %v, want 0xaa", evm.Tx().Origin)
	}
	_ = evm.Cfg()

	t.Log("✓ Host.EmitLog/Block/Tx/Cfg expose the expected environment")
}

var _ Host = (*EVM)(nil)
