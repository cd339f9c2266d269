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

type recordingInspector struct {
	NoopInspector
	steps        int
	frameStarts  int
	frameEnds    int
	logs         int
	selfdestruct bool
}

func (r *recordingInspector) Before(uint64, OpCode, *ScopeContext, int) { r.steps++ }
func (r *recordingInspector) FrameStart(FrameKind, *Contract, int)      { r.frameStarts++ }
func (r *recordingInspector) FrameEnd(FrameKind, int, error)            { r.frameEnds++ }
func (r *recordingInspector) Log(*block.Log)                           { r.logs++ }
func (r *recordingInspector) Selfdestruct(types.Address, types.Address) {
	r.selfdestruct = true
}

func newInspectedTestEVM(state *fakeState, insp Inspector) *EVM {
	blockCtx := evmtypes.BlockContext{
		CanTransfer: func(s evmtypes.IntraBlockState, addr types.Address, amount *uint256.Int) bool {
			return s.GetBalance(addr).Cmp(amount) >= 0
		},
		Transfer: func(s evmtypes.IntraBlockState, from, to types.Address, amount *uint256.Int, _ bool) {
			s.SubBalance(from, amount)
			s.AddBalance(to, amount)
		},
		GetHash: func(uint64) types.Hash { return types.Hash{} },
	}
	return NewEVM(blockCtx, evmtypes.TxContext{}, state, params.AllProtocolChanges, Config{Inspector: insp})
}

func TestInspectorObservesStepsAndFrameBoundaries(t *testing.T) {
	state := newFakeState()
	target := types.HexToAddress("0xee")
	state.CreateAccount(target, false)
	state.SetCode(target, []byte{0x00}) // a single STOP

	insp := &recordingInspector{}
	evm := newInspectedTestEVM(state, insp)

	_, _, err := evm.Call(AccountRef(types.HexToAddress("0xaa")), target, nil, 100_000, new(uint256.Int), false)
	if err != nil {
		t.Fatalf("Call() err = %v, want nil", err)
	}
	if insp.steps == 0 {
		t.Error("Before() should fire at least once for a single-STOP contract")
	}
	if insp.frameStarts != 1 || insp.frameEnds != 1 {
		t.Errorf("frameStarts=%d frameEnds=%d, want 1 and 1", insp.frameStarts, insp.frameEnds)
	}
}

func TestInspectorObservesLogAndSelfdestruct(t *testing.T) {
	state := newFakeState()
	logger := types.HexToAddress("0xff")
	state.CreateAccount(logger, false)
	// PUSH1 0, PUSH1 0, LOG0, STOP
	state.SetCode(logger, []byte{0x60, 0x00, 0x60, 0x00, 0xa0, 0x00})

	insp := &recordingInspector{}
	evm := newInspectedTestEVM(state, insp)
	_, _, err := evm.Call(AccountRef(types.HexToAddress("0xaa")), logger, nil, 100_000, new(uint256.Int), false)
	if err != nil {
		t.Fatalf("Call() err = %v, want nil", err)
	}
	if insp.logs != 1 {
		t.Errorf("logs = %d, want 1", insp.logs)
	}

	suicide := types.HexToAddress("0x1234")
	state.CreateAccount(suicide, false)
	// PUSH1 0, SELFDESTRUCT
	state.SetCode(suicide, []byte{0x60, 0x00, 0xff})
	insp2 := &recordingInspector{}
	evm2 := newInspectedTestEVM(state, insp2)
	_, _, err = evm2.Call(AccountRef(types.HexToAddress("0xaa")), suicide, nil, 100_000, new(uint256.Int), false)
	if err != nil {
		t.Fatalf("Call() err = %v, want nil", err)
	}
	if !insp2.selfdestruct {
		t.Error("Selfdestruct() should fire on a SELFDESTRUCT opcode")
	}
}

func TestNoopInspectorSatisfiesInterface(t *testing.T) {
	var insp Inspector = NoopInspector{}
	insp.Before(0, STOP, nil, 0)
	insp.After(0, STOP, nil, 0, nil)
	insp.FrameStart(FrameCall, nil, 0)
	insp.FrameEnd(FrameCall, 0, nil)
	insp.Log(nil)
	insp.Selfdestruct(types.Address{}, types.Address{})
}
