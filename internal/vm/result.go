// Copyright 2022-2026 The N42 Authors
// This file is part of the N42 library.

package vm

import "github.com/n42blockchain/N42/common/block"

// ResultType classifies how a call or create frame finished, independent
// of the Go-level error value a caller above the EVM actually sees.
type ResultType uint8

const (
	// ResultSuccess is a normal STOP/RETURN with no revert.
	ResultSuccess ResultType = iota
	// ResultRevert is an explicit REVERT; Output carries the revert reason.
	ResultRevert
	// ResultHalt is an exceptional abort (out of gas, invalid opcode, stack
	// over/underflow, ...): all gas is consumed, Output is empty.
	ResultHalt
	// ResultFatal is a host-side error (state backend failure) rather than
	// an EVM-level outcome; execution cannot continue past it.
	ResultFatal
)

func (r ResultType) String() string {
	switch r {
	case ResultSuccess:
		return "success"
	case ResultRevert:
		return "revert"
	case ResultHalt:
		return "halt"
	case ResultFatal:
		return "fatal"
	default:
		return "unknown"
	}
}

// ExecutionResult is the outcome of a completed call or create, in the
// shape a caller above the EVM (a transaction processor, the runtime
// package, a tracer) wants to inspect: what kind of ending it was, how
// much gas it cost and refunded, what it returned, and what it logged.
type ExecutionResult struct {
	ResultType  ResultType
	GasUsed     uint64
	GasRefunded uint64
	Output      []byte
	Logs        []*block.Log
	Err         error
}

// classifyErr maps an internal/vm error into the ResultType a caller
// cares about. ErrExecutionReverted is the only outcome that still
// carries output; every other error is a halt with nothing returned.
func classifyErr(err error) ResultType {
	switch {
	case err == nil:
		return ResultSuccess
	case err == ErrExecutionReverted:
		return ResultRevert
	default:
		return ResultHalt
	}
}

// NewExecutionResult classifies a completed call/create into an
// ExecutionResult. gasLimit/leftOverGas follow the same convention as
// EVM.Call/Create: GasUsed is whatever of gasLimit was not returned.
func NewExecutionResult(gasLimit, leftOverGas, gasRefunded uint64, output []byte, logs []*block.Log, err error) *ExecutionResult {
	result := &ExecutionResult{
		ResultType:  classifyErr(err),
		GasUsed:     gasLimit - leftOverGas,
		GasRefunded: gasRefunded,
		Logs:        logs,
		Err:         err,
	}
	if result.ResultType == ResultSuccess || result.ResultType == ResultRevert {
		result.Output = output
	}
	return result
}
