// Copyright 2022-2026 The N42 Authors
// This file is part of the N42 library.
//
// The N42 library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The N42 library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the N42 library. If not, see <http://www.gnu.org/licenses/>.

package vm

import (
	"math/big"
	"sync/atomic"

	"github.com/holiman/uint256"

	"github.com/n42blockchain/N42/common/crypto"
	"github.com/n42blockchain/N42/common/types"
	"github.com/n42blockchain/N42/internal/vm/evmtypes"
	"github.com/n42blockchain/N42/params"
)

// emptyCodeHash is the code hash of an account with no code, used to tell
// "no code" apart from "code not loaded yet".
var emptyCodeHash = crypto.EmptyCodeHash

// EVM is the core execution engine: it holds the context a transaction
// executes in (block info, the state it reads and writes, the active
// fork rules) and drives every nested CALL/CALLCODE/DELEGATECALL/
// STATICCALL/CREATE/CREATE2 through to completion. One EVM is created per
// transaction and discarded afterward; Reset/ResetBetweenBlocks let a
// caller reuse the struct across a block's transactions instead.
//
// An EVM must not be shared across goroutines; a fresh frame's Contract
// and memory are its only per-call state, so concurrent Call/Create
// invocations on the same EVM would race on depth and callGasTemp.
type EVM struct {
	context   evmtypes.BlockContext
	txContext evmtypes.TxContext
	state     evmtypes.IntraBlockState

	chainConfig *params.ChainConfig
	chainRules  params.Rules

	config Config

	interpreter *EVMInterpreter
	precompiles PrecompileRegistry
	frames      *FrameStack

	callGasTemp uint64

	abort int32 // atomic; set by Cancel
}

// NewEVM returns an EVM with no precompiled contracts wired in; Call/
// CallCode/StaticCall/DelegateCall against a precompile address behave as
// a call to an empty account. Most callers want NewEVMWithPrecompiles.
func NewEVM(ctx evmtypes.BlockContext, txCtx evmtypes.TxContext, state evmtypes.IntraBlockState, chainConfig *params.ChainConfig, config Config) *EVM {
	return NewEVMWithPrecompiles(ctx, txCtx, state, chainConfig, config, nil)
}

// NewEVMWithPrecompiles returns an EVM whose CALL-family opcodes dispatch
// to registry for addresses it recognizes as precompiled contracts.
func NewEVMWithPrecompiles(ctx evmtypes.BlockContext, txCtx evmtypes.TxContext, state evmtypes.IntraBlockState, chainConfig *params.ChainConfig, config Config, registry PrecompileRegistry) *EVM {
	evm := &EVM{
		context:     ctx,
		txContext:   txCtx,
		state:       state,
		chainConfig: chainConfig,
		config:      config,
		precompiles: registry,
		frames:      newFrameStack(),
	}
	evm.chainRules = chainConfig.Rules(new(big.Int).SetUint64(ctx.BlockNumber), ctx.Time)
	evm.interpreter = NewEVMInterpreter(evm)
	return evm
}

// Frames returns the explicit record of every call/create currently
// open on this EVM's transaction, outermost first.
func (e *EVM) Frames() *FrameStack { return e.frames }

func (e *EVM) Context() evmtypes.BlockContext          { return e.context }
func (e *EVM) TxContext() evmtypes.TxContext            { return e.txContext }
func (e *EVM) ChainConfig() *params.ChainConfig         { return e.chainConfig }
func (e *EVM) ChainRules() *params.Rules                { return &e.chainRules }
func (e *EVM) IntraBlockState() evmtypes.IntraBlockState { return e.state }
func (e *EVM) Config() Config                           { return e.config }

func (e *EVM) SetCallGasTemp(gas uint64) { e.callGasTemp = gas }
func (e *EVM) CallGasTemp() uint64       { return e.callGasTemp }

// Cancel signals the interpreter to abort as soon as it next checks
// Cancelled; it does not stop an in-flight opcode handler.
func (e *EVM) Cancel()          { atomic.StoreInt32(&e.abort, 1) }
func (e *EVM) Cancelled() bool  { return atomic.LoadInt32(&e.abort) == 1 }

// Reset rebinds the EVM to a new transaction within the same block,
// clearing per-transaction state (depth, call gas temp, cancellation).
func (e *EVM) Reset(txCtx evmtypes.TxContext, state evmtypes.IntraBlockState) {
	e.txContext = txCtx
	e.state = state
	e.interpreter.depth = 0
	e.frames = newFrameStack()
	e.callGasTemp = 0
	atomic.StoreInt32(&e.abort, 0)
}

// ResetBetweenBlocks rebinds the EVM to a new block, recomputing the
// active fork rules and rebuilding its interpreter's jump table.
func (e *EVM) ResetBetweenBlocks(blockCtx evmtypes.BlockContext, txCtx evmtypes.TxContext, state evmtypes.IntraBlockState, vmConfig Config, chainRules *params.Rules) {
	e.context = blockCtx
	e.txContext = txCtx
	e.state = state
	e.config = vmConfig
	if chainRules != nil {
		e.chainRules = *chainRules
	} else {
		e.chainRules = e.chainConfig.Rules(new(big.Int).SetUint64(blockCtx.BlockNumber), blockCtx.Time)
	}
	e.callGasTemp = 0
	atomic.StoreInt32(&e.abort, 0)
	e.interpreter = NewEVMInterpreter(e)
	e.frames = newFrameStack()
}

// Depth returns the current call nesting depth (0 at the top-level call
// or create a transaction makes).
func (e *EVM) Depth() int { return e.interpreter.Depth() }

// Call executes the code at addr with the given input, transferring
// value from caller. bailout suppresses the insufficient-balance check,
// used by callers (e.g. gas estimation) that want to run the call
// regardless of whether the sender can actually afford it.
func (e *EVM) Call(caller ContractRef, addr types.Address, input []byte, gas uint64, value *uint256.Int, bailout bool) (ret []byte, leftOverGas uint64, err error) {
	if e.config.NoRecursion && e.interpreter.Depth() > 0 {
		return nil, gas, nil
	}
	if e.interpreter.Depth() > params.CallCreateDepth {
		return nil, gas, ErrDepth
	}
	if !bailout && !value.IsZero() && !e.context.CanTransfer(e.state, caller.Address(), value) {
		return nil, gas, ErrInsufficientBalance
	}

	p, isPrecompile := e.precompileAt(addr)

	snapshot := e.state.Snapshot()

	if !e.state.Exist(addr) {
		if !isPrecompile && e.chainRules.IsSpuriousDragon && value.IsZero() {
			// EIP-158: a value-less call to a nonexistent account is a
			// no-op, not an implicit account creation.
			return nil, gas, nil
		}
		e.state.CreateAccount(addr, false)
	}
	e.context.Transfer(e.state, caller.Address(), addr, value, bailout)

	if isPrecompile {
		ret, leftOverGas, err = e.runPrecompiled(p, addr, input, gas)
	} else {
		code := e.state.GetCode(addr)
		if len(code) == 0 {
			ret, err = nil, nil
			leftOverGas = gas
		} else {
			contract := NewContract(caller, AccountRef(addr), value, gas, e.config.SkipAnalysis)
			contract.SetCallCode(&addr, e.state.GetCodeHash(addr), code)
			ret, err = e.run(FrameCall, snapshot, contract, input, false)
			leftOverGas = contract.Gas
		}
	}

	if err != nil {
		e.state.RevertToSnapshot(snapshot)
		if err != ErrExecutionReverted {
			leftOverGas = 0
		}
	}
	return ret, leftOverGas, err
}

// CallCode is like Call except the code at addr executes in the
// caller's own storage context: only msg.sender is inherited, not the
// address or balance.
func (e *EVM) CallCode(caller ContractRef, addr types.Address, input []byte, gas uint64, value *uint256.Int) (ret []byte, leftOverGas uint64, err error) {
	if e.config.NoRecursion && e.interpreter.Depth() > 0 {
		return nil, gas, nil
	}
	if e.interpreter.Depth() > params.CallCreateDepth {
		return nil, gas, ErrDepth
	}
	if !value.IsZero() && !e.context.CanTransfer(e.state, caller.Address(), value) {
		return nil, gas, ErrInsufficientBalance
	}

	snapshot := e.state.Snapshot()

	if p, isPrecompile := e.precompileAt(addr); isPrecompile {
		ret, leftOverGas, err = e.runPrecompiled(p, addr, input, gas)
	} else {
		code := e.state.GetCode(addr)
		contract := NewContract(caller, AccountRef(caller.Address()), value, gas, e.config.SkipAnalysis)
		contract.SetCallCode(&addr, e.state.GetCodeHash(addr), code)
		ret, err = e.run(FrameCallCode, snapshot, contract, input, false)
		leftOverGas = contract.Gas
	}

	if err != nil {
		e.state.RevertToSnapshot(snapshot)
		if err != ErrExecutionReverted {
			leftOverGas = 0
		}
	}
	return ret, leftOverGas, err
}

// DelegateCall executes the code at addr with the caller's own address,
// value, and storage all left untouched: msg.sender and msg.value are
// the caller's caller's, not the immediate invoker's.
func (e *EVM) DelegateCall(caller ContractRef, addr types.Address, input []byte, gas uint64) (ret []byte, leftOverGas uint64, err error) {
	if e.config.NoRecursion && e.interpreter.Depth() > 0 {
		return nil, gas, nil
	}
	if e.interpreter.Depth() > params.CallCreateDepth {
		return nil, gas, ErrDepth
	}

	snapshot := e.state.Snapshot()

	if p, isPrecompile := e.precompileAt(addr); isPrecompile {
		ret, leftOverGas, err = e.runPrecompiled(p, addr, input, gas)
	} else {
		code := e.state.GetCode(addr)
		contract := NewContract(caller, AccountRef(caller.Address()), nil, gas, e.config.SkipAnalysis).AsDelegate()
		contract.SetCallCode(&addr, e.state.GetCodeHash(addr), code)
		ret, err = e.run(FrameDelegateCall, snapshot, contract, input, false)
		leftOverGas = contract.Gas
	}

	if err != nil {
		e.state.RevertToSnapshot(snapshot)
		if err != ErrExecutionReverted {
			leftOverGas = 0
		}
	}
	return ret, leftOverGas, err
}

// StaticCall executes addr's code under the same read-only mode as
// STATICCALL: any attempted state mutation aborts the call frame with
// ErrWriteProtection.
func (e *EVM) StaticCall(caller ContractRef, addr types.Address, input []byte, gas uint64) (ret []byte, leftOverGas uint64, err error) {
	if e.config.NoRecursion && e.interpreter.Depth() > 0 {
		return nil, gas, nil
	}
	if e.interpreter.Depth() > params.CallCreateDepth {
		return nil, gas, ErrDepth
	}

	snapshot := e.state.Snapshot()

	if p, isPrecompile := e.precompileAt(addr); isPrecompile {
		ret, leftOverGas, err = e.runPrecompiled(p, addr, input, gas)
	} else {
		code := e.state.GetCode(addr)
		contract := NewContract(caller, AccountRef(addr), new(uint256.Int), gas, e.config.SkipAnalysis)
		contract.SetCallCode(&addr, e.state.GetCodeHash(addr), code)
		ret, err = e.run(FrameStaticCall, snapshot, contract, input, true)
		leftOverGas = contract.Gas
	}

	if err != nil {
		e.state.RevertToSnapshot(snapshot)
		if err != ErrExecutionReverted {
			leftOverGas = 0
		}
	}
	return ret, leftOverGas, err
}

// Create deploys new contract code at the CREATE-derived address.
func (e *EVM) Create(caller ContractRef, code []byte, gas uint64, endowment *uint256.Int) (ret []byte, contractAddr types.Address, leftOverGas uint64, err error) {
	nonce := e.state.GetNonce(caller.Address())
	if nonce+1 < nonce {
		return nil, types.Address{}, gas, ErrNonceUintOverflow
	}
	e.state.SetNonce(caller.Address(), nonce+1)
	contractAddr = crypto.CreateAddress(caller.Address(), nonce)
	return e.create(FrameCreate, caller, code, gas, endowment, contractAddr)
}

// Create2 deploys new contract code at the deterministic CREATE2-derived
// address, which depends only on sender, salt, and the init code itself.
func (e *EVM) Create2(caller ContractRef, code []byte, gas uint64, endowment *uint256.Int, salt *uint256.Int) (ret []byte, contractAddr types.Address, leftOverGas uint64, err error) {
	nonce := e.state.GetNonce(caller.Address())
	if nonce+1 < nonce {
		return nil, types.Address{}, gas, ErrNonceUintOverflow
	}
	e.state.SetNonce(caller.Address(), nonce+1)
	codeHash := crypto.Keccak256(code)
	contractAddr = crypto.CreateAddress2(caller.Address(), types.Hash(salt.Bytes32()), codeHash)
	return e.create(FrameCreate2, caller, code, gas, endowment, contractAddr)
}

// create is the shared CREATE/CREATE2 body: it enforces the depth limit,
// init-code size cap, and address-collision rule, transfers the
// endowment, runs the init code, and charges + stores the returned
// runtime code, reverting the whole attempt on any failure.
func (e *EVM) create(kind FrameKind, caller ContractRef, initCode []byte, gas uint64, endowment *uint256.Int, addr types.Address) (ret []byte, contractAddr types.Address, leftOverGas uint64, err error) {
	contractAddr = addr

	if e.interpreter.Depth() > params.CallCreateDepth {
		return nil, contractAddr, gas, ErrDepth
	}
	if !e.context.CanTransfer(e.state, caller.Address(), endowment) {
		return nil, contractAddr, gas, ErrInsufficientBalance
	}
	if e.config.HasEip3860(&e.chainRules) && uint64(len(initCode)) > params.MaxInitCodeSize {
		return nil, contractAddr, gas, ErrMaxInitCodeSizeExceeded
	}

	// EIP-684: a CREATE/CREATE2 that lands on an address already holding
	// code or a non-zero nonce is a collision, not a redeploy.
	contractHash := e.state.GetCodeHash(contractAddr)
	if e.state.GetNonce(contractAddr) != 0 || (contractHash != (types.Hash{}) && contractHash != emptyCodeHash) {
		return nil, contractAddr, 0, ErrContractAddressCollision
	}

	snapshot := e.state.Snapshot()
	e.state.CreateAccount(contractAddr, true)
	if e.chainRules.IsSpuriousDragon {
		e.state.SetNonce(contractAddr, 1)
	}
	e.context.Transfer(e.state, caller.Address(), contractAddr, endowment, false)

	contract := NewContract(caller, AccountRef(contractAddr), endowment, gas, e.config.SkipAnalysis)
	contract.SetCallCode(&contractAddr, crypto.Keccak256Hash(initCode), initCode)

	ret, err = e.run(kind, snapshot, contract, nil, false)

	// EIP-3541: runtime code may not begin with the 0xEF byte (reserved
	// for the EOF format).
	if err == nil && len(ret) > 0 && ret[0] == 0xEF {
		err = ErrInvalidCode
	}
	if err == nil {
		if e.chainRules.IsSpuriousDragon && uint64(len(ret)) > params.MaxCodeSize {
			err = ErrMaxCodeSizeExceeded
		}
	}
	if err == nil {
		createDataGas := uint64(len(ret)) * params.CreateDataGas
		if contract.UseGas(createDataGas) {
			e.state.SetCode(contractAddr, ret)
		} else {
			err = ErrCodeStoreOutOfGas
		}
	}

	if err != nil && (e.chainRules.IsHomestead || err != ErrCodeStoreOutOfGas) {
		e.state.RevertToSnapshot(snapshot)
		if err != ErrExecutionReverted {
			contract.UseGas(contract.Gas)
		}
	}

	leftOverGas = contract.Gas
	if err == ErrExecutionReverted {
		return ret, contractAddr, leftOverGas, err
	}
	return nil, contractAddr, leftOverGas, err
}

// run drives one call frame through the interpreter. It tracks nesting
// depth (so Call/Create can enforce params.CallCreateDepth) and pushes a
// Frame recording what kind of call this is and the snapshot it would
// revert to, giving tracers and depth queries an explicit record of the
// call tree instead of having to unwind the Go call stack to find it.
func (e *EVM) run(kind FrameKind, checkpoint int, contract *Contract, input []byte, readOnly bool) ([]byte, error) {
	e.interpreter.enter()
	defer e.interpreter.exit()

	frame := &Frame{kind: kind, checkpoint: checkpoint, contract: contract}
	if kind == FrameCreate || kind == FrameCreate2 {
		frame.createdAddr = contract.Address()
	}
	e.frames.push(frame)
	defer e.frames.pop()

	if inspector := e.interpreter.Config().Inspector; inspector != nil {
		inspector.FrameStart(kind, contract, e.interpreter.Depth())
		ret, err := e.interpreter.Run(contract, input, readOnly)
		inspector.FrameEnd(kind, e.interpreter.Depth(), err)
		return ret, err
	}

	return e.interpreter.Run(contract, input, readOnly)
}

// precompileAt reports whether addr is an active precompiled contract
// under the current fork rules. It never panics on a nil registry (the
// zero-value EVM built by NewEVM with no precompiles wired in).
func (e *EVM) precompileAt(addr types.Address) (PrecompiledContract, bool) {
	if e.precompiles == nil {
		return nil, false
	}
	return e.precompiles.Lookup(addr)
}

// runPrecompiled charges p's required gas against the supplied budget
// and runs it, translating "too little gas" into ErrOutOfGas rather than
// letting the registry's own accounting leak through.
func (e *EVM) runPrecompiled(p PrecompiledContract, addr types.Address, input []byte, suppliedGas uint64) ([]byte, uint64, error) {
	gasCost := p.RequiredGas(input)
	if suppliedGas < gasCost {
		return nil, 0, ErrOutOfGas
	}
	output, err := p.Run(input)
	return output, suppliedGas - gasCost, err
}

var _ FullVM = (*EVM)(nil)
