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
	"sync"

	"github.com/n42blockchain/N42/internal/vm/stack"
	"github.com/n42blockchain/N42/params"
)

// Tracer is implemented by anything that wants a callback on every
// opcode the interpreter executes. A nil Tracer (the default) disables
// tracing entirely; the interpreter's hot loop checks for nil rather
// than calling through an empty-body implementation.
type Tracer interface {
	CaptureState(pc uint64, op OpCode, gas, cost uint64, scope *ScopeContext, rData []byte, depth int, err error)
}

// Config bundles the interpreter's behavioral knobs, set once per EVM
// and threaded down to every nested call.
type Config struct {
	Debug        bool
	Tracer       Tracer
	Inspector    Inspector
	NoRecursion  bool
	NoBaseFee    bool
	SkipAnalysis bool
	ExtraEips    []int
}

// HasEip3860 reports whether EIP-3860 (init-code size limit and
// per-word gas) is active: natively from Shanghai on, or opted into
// early via ExtraEips.
func (c *Config) HasEip3860(rules *params.Rules) bool {
	if rules != nil && rules.IsShanghai {
		return true
	}
	for _, eip := range c.ExtraEips {
		if eip == 3860 {
			return true
		}
	}
	return false
}

// ScopeContext groups the three pieces of state one call frame's opcodes
// operate on.
type ScopeContext struct {
	Stack    *stack.Stack
	Memory   *Memory
	Contract *Contract
}

// pool recycles Memory instances across calls, avoiding an allocation
// for every call frame in the common case of shallow, short-lived calls.
var pool = sync.Pool{
	New: func() interface{} {
		return NewMemory()
	},
}

// VM carries the read-only (STATICCALL) mode flag, embedded into
// EVMInterpreter so both field access (interpreter.readOnly) and the
// helper methods below are available on *EVMInterpreter.
type VM struct {
	readOnly bool
}

func (vm *VM) getReadonly() bool {
	return vm.readOnly
}

// setReadonly sets read-only mode and returns a cleanup closure that
// restores the prior state. Calling setReadonly again while already
// read-only (a nested STATICCALL, or a plain CALL nested inside one) is
// a no-op whose cleanup is also a no-op: only the frame that actually
// turned read-only mode on may turn it back off.
func (vm *VM) setReadonly(readonly bool) func() {
	if readonly && !vm.readOnly {
		vm.readOnly = true
		return func() { vm.readOnly = false }
	}
	return vm.noop
}

func (vm *VM) disableReadonly() {
	vm.readOnly = false
}

func (vm *VM) noop() {}

// Interpreter executes contract bytecode against a Host/state backend.
type Interpreter interface {
	Run(contract *Contract, input []byte, readOnly bool) ([]byte, error)
}

// EVMInterpreter is the concrete, go-ethereum-style fetch-execute-advance
// loop: for each step it decodes the opcode at pc, validates the stack
// against the active JumpTable entry, charges gas, runs the handler, and
// either advances pc or honors the handler's explicit jump.
type EVMInterpreter struct {
	VM

	evm   VMInterpreter
	table *JumpTable

	returnData []byte

	depth int
}

// Depth returns the current call nesting depth: 0 before any frame has
// started, 1 while the outermost call or create of a transaction runs.
// EVM.run increments it for the duration of each frame it runs.
func (in *EVMInterpreter) Depth() int { return in.depth }

func (in *EVMInterpreter) enter() { in.depth++ }
func (in *EVMInterpreter) exit()  { in.depth-- }

// NewEVMInterpreter returns an interpreter bound to evm, selecting its
// JumpTable from the chain rules evm reports plus any ExtraEips in cfg.
func NewEVMInterpreter(evm VMInterpreter) *EVMInterpreter {
	cfg := evm.Config()
	table := GetCachedJumpTable(0, evm.ChainRules())
	if len(cfg.ExtraEips) > 0 {
		extended := copyJumpTable(&table)
		for _, eip := range cfg.ExtraEips {
			if activate, ok := activators[eip]; ok {
				activate(extended)
			}
		}
		validateAndFillMaxStack(extended)
		table = *extended
	}
	return &EVMInterpreter{evm: evm, table: &table}
}

// Run executes contract's code starting at pc 0, honoring readOnly for
// the duration of this frame (and any frames it calls into, via VM's
// nested setReadonly).
func (in *EVMInterpreter) Run(contract *Contract, input []byte, readOnly bool) (ret []byte, err error) {
	cleanup := in.setReadonly(readOnly)
	defer cleanup()

	in.returnData = nil

	if len(contract.Code) == 0 {
		return nil, nil
	}

	var (
		op    OpCode
		mem   = pool.Get().(*Memory)
		st    = stack.New()
		pc    = uint64(0)
		cost  uint64
		scope = &ScopeContext{Stack: st, Memory: mem, Contract: contract}
	)
	contract.Input = input

	defer func() {
		stack.ReturnNormalStack(st)
		mem.Reset()
		pool.Put(mem)
	}()

	for {
		op = contract.GetOp(pc)
		operation := in.table[op]
		if operation == nil {
			return nil, ErrInvalidOpCode
		}

		if sLen := st.Len(); sLen < operation.minStack {
			return nil, ErrStackUnderflow
		} else if sLen > operation.maxStack {
			return nil, ErrStackOverflow
		}

		cost = operation.constantGas
		if !contract.UseGas(cost) {
			return nil, ErrOutOfGas
		}

		var memorySize uint64
		if operation.memorySize != nil {
			size, overflow := operation.memorySize(st)
			if overflow {
				return nil, ErrGasUintOverflow
			}
			memorySize = toWordSize(size) * 32
		}

		if operation.dynamicGas != nil {
			dynamicCost, err := operation.dynamicGas(in.evm, contract, st, mem, memorySize)
			if err != nil {
				return nil, err
			}
			if !contract.UseGas(dynamicCost) {
				return nil, ErrOutOfGas
			}
		}

		if memorySize > 0 {
			mem.Resize(memorySize)
		}

		if in.Config().Tracer != nil {
			in.Config().Tracer.CaptureState(pc, op, contract.Gas, cost, scope, in.returnData, 0, nil)
		}
		inspector := in.Config().Inspector
		if inspector != nil {
			inspector.Before(pc, op, scope, in.depth)
		}

		res, err := operation.execute(&pc, in, scope)
		if inspector != nil {
			inspector.After(pc, op, scope, in.depth, err)
		}
		if err != nil {
			if err == errStopToken {
				in.returnData = res
				return res, nil
			}
			if err == ErrExecutionReverted {
				in.returnData = res
			}
			return res, err
		}
		pc++
	}
}

// Config returns the interpreter's VM-wide configuration, reached
// through the bound EVM so opcode handlers never need their own copy.
func (in *EVMInterpreter) Config() Config {
	return in.evm.Config()
}

var _ Interpreter = (*EVMInterpreter)(nil)
