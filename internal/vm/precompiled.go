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
	"errors"

	"github.com/n42blockchain/N42/common/types"
)

// ErrPrecompileInput is returned by a precompiled contract when its input
// does not match the fixed shape its address requires (e.g. BLAKE2F's
// 213-byte argument list).
var ErrPrecompileInput = errors.New("invalid input length")

// PrecompiledContract is the interface every precompiled contract (the
// handful of addresses 0x01-0x09+ that run native code instead of EVM
// bytecode) must satisfy. RequiredGas is charged before Run executes, so
// a contract can signal "too expensive" without doing any work.
type PrecompiledContract interface {
	RequiredGas(input []byte) uint64
	Run(input []byte) ([]byte, error)
}

// PrecompileRegistry looks up and runs the precompiled contract active at
// an address under a given chain rule set. internal/vm/precompiles.Registry
// is the concrete implementation; this interface is what the interpreter's
// CALL/STATICCALL/DELEGATECALL dispatch depends on, so it can be swapped
// for a test double without pulling in the precompiles package.
type PrecompileRegistry interface {
	Lookup(addr types.Address) (PrecompiledContract, bool)
	Run(addr types.Address, input []byte, suppliedGas uint64) ([]byte, uint64, error)
	ActivePrecompiles() []types.Address
	Has(addr types.Address) bool
}
