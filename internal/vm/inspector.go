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
	"github.com/n42blockchain/N42/common/block"
	"github.com/n42blockchain/N42/common/types"
	"github.com/n42blockchain/N42/log"
)

// Inspector receives callbacks around instruction execution and call/create
// frame boundaries, independent of Tracer (which only sees CaptureState).
// A nil Inspector (the default) disables every hook; EVMInterpreter and EVM
// check for nil before calling through rather than invoking an empty-body
// implementation on every step.
type Inspector interface {
	// Before runs immediately before the operation at pc executes.
	Before(pc uint64, op OpCode, scope *ScopeContext, depth int)

	// After runs immediately after the operation at pc has executed. err is
	// nil on a normal step, set when the operation ended the frame (return,
	// revert, or an exceptional abort).
	After(pc uint64, op OpCode, scope *ScopeContext, depth int, err error)

	// FrameStart runs when a call or create frame is pushed, before its
	// code (if any) begins executing.
	FrameStart(kind FrameKind, contract *Contract, depth int)

	// FrameEnd runs when a call or create frame is popped. err is the
	// frame's outcome: nil on success, ErrExecutionReverted on a REVERT,
	// any other value on an exceptional abort.
	FrameEnd(kind FrameKind, depth int, err error)

	// Log runs when a LOG opcode appends an entry to the transaction's log
	// list.
	Log(l *block.Log)

	// Selfdestruct runs when SELFDESTRUCT moves contract's balance to
	// beneficiary.
	Selfdestruct(contract, beneficiary types.Address)
}

// NoopInspector implements Inspector with every hook a no-op. Embed it by
// value to pick up new hooks automatically as Inspector grows.
type NoopInspector struct{}

func (NoopInspector) Before(uint64, OpCode, *ScopeContext, int)       {}
func (NoopInspector) After(uint64, OpCode, *ScopeContext, int, error) {}
func (NoopInspector) FrameStart(FrameKind, *Contract, int)            {}
func (NoopInspector) FrameEnd(FrameKind, int, error)                  {}
func (NoopInspector) Log(*block.Log)                                  {}
func (NoopInspector) Selfdestruct(types.Address, types.Address)       {}

var _ Inspector = NoopInspector{}

// StepPrintInspector is a debugging inspector that logs one line per
// instruction and per frame boundary through the module's structured
// logger. It is not meant to run on a hot path; attach it only when
// diagnosing a specific execution.
type StepPrintInspector struct {
	NoopInspector
}

// NewStepPrintInspector returns a StepPrintInspector ready to attach to a
// Config.
func NewStepPrintInspector() *StepPrintInspector {
	return &StepPrintInspector{}
}

func (s *StepPrintInspector) Before(pc uint64, op OpCode, scope *ScopeContext, depth int) {
	log.Trace("evm step",
		"depth", depth,
		"pc", pc,
		"op", op.String(),
		"gas", scope.Contract.Gas,
		"stackLen", scope.Stack.Len(),
		"memSize", scope.Memory.Len(),
	)
}

func (s *StepPrintInspector) FrameStart(kind FrameKind, contract *Contract, depth int) {
	log.Debug("evm frame start",
		"depth", depth,
		"kind", kind.String(),
		"addr", contract.Address(),
		"gas", contract.Gas,
	)
}

func (s *StepPrintInspector) FrameEnd(kind FrameKind, depth int, err error) {
	log.Debug("evm frame end", "depth", depth, "kind", kind.String(), "err", err)
}

func (s *StepPrintInspector) Log(l *block.Log) {
	log.Debug("evm log", "addr", l.Address, "topics", len(l.Topics), "dataLen", len(l.Data))
}

func (s *StepPrintInspector) Selfdestruct(contract, beneficiary types.Address) {
	log.Debug("evm selfdestruct", "contract", contract, "beneficiary", beneficiary)
}

var _ Inspector = (*StepPrintInspector)(nil)
