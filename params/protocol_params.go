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

package params

// Gas schedule constants referenced directly by the interpreter's
// dynamic-gas calculators, broken out from ChainConfig because they are
// protocol-wide constants rather than per-chain configuration.
const (
	// CopyGas is charged per word for opcodes that copy a caller-chosen
	// number of bytes (CODECOPY, EXTCODECOPY, CALLDATACOPY, MCOPY, ...).
	CopyGas uint64 = 3

	// WarmStorageReadCostEIP2929 is charged for an access that is already
	// in the access list (EIP-2929), including the base cost of
	// accesses that charge no extra cold surcharge.
	WarmStorageReadCostEIP2929 uint64 = 100

	// ColdAccountAccessCostEIP2929 is charged the first time a
	// transaction touches an address not already in its access list.
	ColdAccountAccessCostEIP2929 uint64 = 2600

	// ColdSloadCostEIP2929 is charged the first time a transaction reads
	// a storage slot not already in its access list.
	ColdSloadCostEIP2929 uint64 = 2100

	// MaxCodeSize is the maximum permitted size of deployed runtime code
	// (EIP-170).
	MaxCodeSize = 24576

	// MaxInitCodeSize is the maximum permitted size of CREATE/CREATE2 init
	// code (EIP-3860), twice MaxCodeSize.
	MaxInitCodeSize = 2 * MaxCodeSize

	// InitCodeWordGas is charged per 32-byte word of init code on
	// CREATE/CREATE2, on top of the opcode's own gas cost (EIP-3860).
	InitCodeWordGas uint64 = 2

	// CallCreateDepth is the maximum call/create nesting depth (1024,
	// matching the yellow paper's stack-depth limit for message calls).
	CallCreateDepth = 1024

	// CreateDataGas is charged per byte of the runtime code returned by a
	// CREATE/CREATE2 init-code run, prior to storing it.
	CreateDataGas uint64 = 200
)

// PerAuthBaseCost and PerEmptyAccountCost are EIP-7702 authorization list
// gas costs. They are declared as vars, not consts: the init function in
// internal/vm/eips_pectra.go assigns them when that package loads, and
// tests can override the schedule.
var (
	PerAuthBaseCost     uint64
	PerEmptyAccountCost uint64
)
