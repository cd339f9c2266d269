// Copyright 2022-2026 The N42 Authors
// This file is part of the N42 library.

package vm

import (
	"testing"

	"github.com/holiman/uint256"

	"github.com/n42blockchain/N42/common/crypto"
	"github.com/n42blockchain/N42/common/types"
	"github.com/n42blockchain/N42/internal/vm/evmtypes"
	"github.com/n42blockchain/N42/params"
)

func TestEVMCallToNonexistentAccountNoValueIsNoop(t *testing.T) {
	state := newFakeState()
	evm := newTestEVM(t, state)
	sender := AccountRef(types.HexToAddress("0xaa"))
	target := types.HexToAddress("0xbb")

	ret, leftOverGas, err := evm.Call(sender, target, nil, 100_000, new(uint256.Int), false)
	if err != nil {
		t.Fatalf("Call() err = %v, want nil", err)
	}
	if leftOverGas != 100_000 {
		t.Errorf("leftOverGas = %d, want all gas returned (100000)", leftOverGas)
	}
	if len(ret) != 0 {
		t.Errorf("ret = %x, want empty", ret)
	}
	if state.Exist(target) {
		t.Error("EIP-158 no-op call must not create the target account")
	}
	t.Log("✓ a value-less call to a nonexistent account under Spurious Dragon rules is a no-op")
}

func TestEVMCallTransfersValueToNoCodeAccount(t *testing.T) {
	state := newFakeState()
	sender := types.HexToAddress("0xaa")
	state.AddBalance(sender, uint256.NewInt(1_000))
	evm := newTestEVM(t, state)
	target := types.HexToAddress("0xcc")

	ret, leftOverGas, err := evm.Call(AccountRef(sender), target, nil, 50_000, uint256.NewInt(300), false)
	if err != nil {
		t.Fatalf("Call() err = %v, want nil", err)
	}
	if leftOverGas != 50_000 {
		t.Errorf("leftOverGas = %d, want all gas returned for a no-code callee", leftOverGas)
	}
	if len(ret) != 0 {
		t.Errorf("ret = %x, want empty", ret)
	}
	if got := state.GetBalance(target); got.Cmp(uint256.NewInt(300)) != 0 {
		t.Errorf("target balance = %v, want 300", got)
	}
	if got := state.GetBalance(sender); got.Cmp(uint256.NewInt(700)) != 0 {
		t.Errorf("sender balance = %v, want 700", got)
	}
	if !state.Exist(target) {
		t.Error("a value-bearing call must create the target account")
	}
	t.Log("✓ a value-bearing call to a no-code account transfers balance and creates the account")
}

func TestEVMCallInsufficientBalance(t *testing.T) {
	state := newFakeState()
	evm := newTestEVM(t, state)
	sender := types.HexToAddress("0xaa")
	target := types.HexToAddress("0xdd")

	_, leftOverGas, err := evm.Call(AccountRef(sender), target, nil, 1_000, uint256.NewInt(1), false)
	if err != ErrInsufficientBalance {
		t.Fatalf("err = %v, want ErrInsufficientBalance", err)
	}
	if leftOverGas != 1_000 {
		t.Errorf("leftOverGas = %d, want the original gas returned on an upfront balance check failure", leftOverGas)
	}
	t.Log("✓ Call rejects a value transfer the sender can't afford before touching state")
}

func TestEVMCallDepthLimit(t *testing.T) {
	state := newFakeState()
	evm := newTestEVM(t, state)
	evm.interpreter.depth = params.CallCreateDepth + 1

	_, _, err := evm.Call(AccountRef(types.HexToAddress("0xaa")), types.HexToAddress("0xbb"), nil, 1, new(uint256.Int), false)
	if err != ErrDepth {
		t.Fatalf("err = %v, want ErrDepth once past CallCreateDepth", err)
	}
	t.Log("✓ Call refuses to recurse past params.CallCreateDepth")
}

func TestEVMCreateDeploysTrivialRuntimeCode(t *testing.T) {
	state := newFakeState()
	sender := types.HexToAddress("0xaa")
	state.AddBalance(sender, uint256.NewInt(1_000))
	evm := newTestEVM(t, state)

	// PUSH1 0x00, PUSH1 0x00, RETURN: deploys zero-length runtime code.
	initCode := []byte{0x60, 0x00, 0x60, 0x00, 0xf3}

	ret, addr, _, err := evm.Create(AccountRef(sender), initCode, 200_000, new(uint256.Int))
	if err != nil {
		t.Fatalf("Create() err = %v, want nil", err)
	}
	if len(ret) != 0 {
		t.Errorf("Create() ret = %x, want empty (this init code deploys nothing)", ret)
	}
	if addr.IsZero() {
		t.Error("Create() should land on a non-zero CREATE address")
	}
	if got := state.GetNonce(sender); got != 1 {
		t.Errorf("sender nonce after Create() = %d, want 1", got)
	}
	if !state.Exist(addr) {
		t.Error("Create() should leave the new contract account in state")
	}
	t.Log("✓ Create bumps the sender nonce, derives a CREATE address, and stores the deployed code")
}

func TestEVMCreateAddressCollision(t *testing.T) {
	state := newFakeState()
	sender := types.HexToAddress("0xaa")
	evm := newTestEVM(t, state)

	// Force a collision by pre-setting a nonzero nonce at the address
	// Create is about to derive.
	firstAddr := crypto.CreateAddress(sender, 0)
	state.SetNonce(firstAddr, 1)

	_, _, _, err := evm.Create(AccountRef(sender), []byte{0x00}, 100_000, new(uint256.Int))
	if err != ErrContractAddressCollision {
		t.Fatalf("err = %v, want ErrContractAddressCollision", err)
	}
	t.Log("✓ Create refuses to redeploy over an address with a nonzero nonce")
}

func TestEVMFramePushedDuringCallAndPoppedAfter(t *testing.T) {
	state := newFakeState()
	target := types.HexToAddress("0xee")
	state.CreateAccount(target, false)
	state.SetCode(target, []byte{0x00}) // a single STOP

	tracer := &depthCapturingTracer{}
	blockCtx := evmtypes.BlockContext{
		CanTransfer: func(s evmtypes.IntraBlockState, a types.Address, v *uint256.Int) bool {
			return s.GetBalance(a).Cmp(v) >= 0
		},
		Transfer: func(s evmtypes.IntraBlockState, from, to types.Address, v *uint256.Int, _ bool) {
			s.SubBalance(from, v)
			s.AddBalance(to, v)
		},
		GetHash: func(uint64) types.Hash { return types.Hash{} },
	}
	evm := NewEVM(blockCtx, evmtypes.TxContext{}, state, params.AllProtocolChanges, Config{Tracer: tracer})
	tracer.evm = evm

	if evm.Frames().Depth() != 0 {
		t.Fatalf("Frames().Depth() before any call = %d, want 0", evm.Frames().Depth())
	}

	_, _, err := evm.Call(AccountRef(types.HexToAddress("0xaa")), target, nil, 100_000, new(uint256.Int), false)
	if err != nil {
		t.Fatalf("Call() err = %v, want nil", err)
	}
	if !tracer.captured {
		t.Fatal("tracer never observed a step; the STOP frame should have run at least one instruction")
	}
	if tracer.capturedDepth != 1 {
		t.Errorf("Frames().Depth() during the call = %d, want 1", tracer.capturedDepth)
	}
	if tracer.capturedKind != FrameCall {
		t.Errorf("Frames().Top().Kind() during the call = %v, want FrameCall", tracer.capturedKind)
	}
	if evm.Frames().Depth() != 0 {
		t.Errorf("Frames().Depth() after the call returns = %d, want 0 (frame popped)", evm.Frames().Depth())
	}
	t.Log("✓ EVM.run pushes a Frame for the duration of a call and pops it on return")
}

type depthCapturingTracer struct {
	evm           *EVM
	captured      bool
	capturedDepth int
	capturedKind  FrameKind
}

func (d *depthCapturingTracer) CaptureState(pc uint64, op OpCode, gas, cost uint64, scope *ScopeContext, rData []byte, depth int, err error) {
	if d.captured {
		return
	}
	d.captured = true
	d.capturedDepth = d.evm.Frames().Depth()
	if top := d.evm.Frames().Top(); top != nil {
		d.capturedKind = top.Kind()
	}
}
