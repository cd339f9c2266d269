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
	"github.com/holiman/uint256"

	"github.com/n42blockchain/N42/common/types"
)

// ContractRef is anything that can stand in for the caller or callee of a
// message call: a plain externally-owned address (AccountRef) or a live
// Contract (for nested calls, where the callee becomes the next frame's
// caller).
type ContractRef interface {
	Address() types.Address
}

// AccountRef wraps an address as a ContractRef, used for the outermost
// call's caller (a transaction sender has no code, no gas, no jumpdests).
type AccountRef types.Address

// Address returns the wrapped address.
func (ar AccountRef) Address() types.Address { return types.Address(ar) }

// Contract is the state of one executing call frame: its code, the gas
// remaining to it, and the caller/value/input it was invoked with. Two
// calls into the same contract address within one transaction share the
// jumpdest analysis cache via the parent-to-child jumpdests map.
type Contract struct {
	caller ContractRef
	self   ContractRef

	jumpdests map[types.Hash][]uint64 // per-codehash valid-jumpdest bitmap cache, shared down the call tree
	analysis  []uint64                // lazily computed jumpdest bitmap for this contract's own code

	Code     []byte
	CodeHash types.Hash
	CodeAddr *types.Address
	Input    []byte

	CallerAddress types.Address
	value         *uint256.Int

	Gas uint64

	skipAnalysis bool

	IsSystemCall bool // true for EIP-4788/2935/7002/7251 synthetic system calls
}

// NewContract returns a new call frame. If caller is itself a *Contract,
// the jumpdest cache is shared (the common case: a CALL from one
// executing contract into another, within the same transaction).
func NewContract(caller ContractRef, object ContractRef, value *uint256.Int, gas uint64, skipAnalysis bool) *Contract {
	c := &Contract{caller: caller, self: object, Gas: gas, skipAnalysis: skipAnalysis}

	if parent, ok := caller.(*Contract); ok {
		c.jumpdests = parent.jumpdests
	} else {
		c.jumpdests = make(map[types.Hash][]uint64)
	}

	if value == nil {
		value = new(uint256.Int)
	}
	c.value = value
	c.CallerAddress = caller.Address()
	return c
}

// AsDelegate configures c to execute as a DELEGATECALL: the caller
// address and value are inherited from c's own caller (the frame that
// is delegating), rather than c's immediate invoker.
func (c *Contract) AsDelegate() *Contract {
	parent := c.caller.(*Contract)
	c.CallerAddress = parent.CallerAddress
	c.value = parent.value
	return c
}

// GetOp returns the opcode at byte offset n, or STOP if n is beyond the
// end of the code (the EVM treats falling off the end of code as an
// implicit STOP).
func (c *Contract) GetOp(n uint64) OpCode {
	if n < uint64(len(c.Code)) {
		return OpCode(c.Code[n])
	}
	return STOP
}

// Caller returns the address that invoked this call frame.
func (c *Contract) Caller() types.Address {
	return c.CallerAddress
}

// UseGas deducts gas from the frame's remaining gas. Returns false
// (without modifying Gas) if gas exceeds what remains.
func (c *Contract) UseGas(gas uint64) bool {
	if c.Gas < gas {
		return false
	}
	c.Gas -= gas
	return true
}

// RefundGas credits gas back to the frame, used when a nested call
// returns unused gas to its caller's frame.
func (c *Contract) RefundGas(gas uint64) {
	c.Gas += gas
}

// Address returns the address whose code this frame is executing.
func (c *Contract) Address() types.Address {
	return c.self.Address()
}

// Value returns the wei value attached to this call.
func (c *Contract) Value() *uint256.Int {
	return c.value
}

// SetCallCode installs the code to execute along with the address and
// codehash it was read from (used by CALL/DELEGATECALL/CALLCODE, where
// the executing code's address can differ from Address() under
// DELEGATECALL/CALLCODE).
func (c *Contract) SetCallCode(addr *types.Address, codeHash types.Hash, code []byte) {
	c.Code = code
	c.CodeHash = codeHash
	c.CodeAddr = addr
}
