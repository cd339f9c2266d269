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

	"github.com/n42blockchain/N42/common/block"
	"github.com/n42blockchain/N42/common/types"
	"github.com/n42blockchain/N42/internal/vm/evmtypes"
)

// Host is everything the interpreter needs from its environment beyond
// bytecode and gas: account/storage access, block and transaction
// readers, and the handful of opcodes (SELFDESTRUCT, LOG) that reach
// straight into state rather than going through a nested call. It
// exists as its own interface, separate from the larger VMContext/
// VMCaller split in interface.go, so a test can swap in a narrow fake
// without satisfying the whole FullVM surface.
type Host interface {
	// LoadAccount reports whether addr exists and, if so, whether it is
	// EIP-161-empty (no balance, no nonce, no code).
	LoadAccount(addr types.Address) (exists bool, empty bool)
	// LoadCode returns addr's code, nil if it has none.
	LoadCode(addr types.Address) []byte

	SLoad(addr types.Address, key types.Hash) uint256.Int
	SStore(addr types.Address, key types.Hash, value uint256.Int)
	TLoad(addr types.Address, key types.Hash) uint256.Int
	TStore(addr types.Address, key types.Hash, value uint256.Int)

	BlockHash(number uint64) types.Hash
	Balance(addr types.Address) *uint256.Int
	CodeSize(addr types.Address) int
	CodeHash(addr types.Address) types.Hash

	// Selfdestruct moves addr's balance to beneficiary and marks addr
	// destroyed, reporting whether this is the first time addr has been
	// marked so (a repeated SELFDESTRUCT on the same account in one
	// transaction moves no further balance).
	Selfdestruct(addr types.Address, beneficiary types.Address) bool

	EmitLog(log *block.Log)

	Block() evmtypes.BlockContext
	Tx() evmtypes.TxContext
	Cfg() Config
}

func (e *EVM) LoadAccount(addr types.Address) (bool, bool) {
	return e.state.Exist(addr), e.state.Empty(addr)
}

func (e *EVM) LoadCode(addr types.Address) []byte {
	return e.state.GetCode(addr)
}

func (e *EVM) SLoad(addr types.Address, key types.Hash) uint256.Int {
	var out uint256.Int
	e.state.GetState(addr, &key, &out)
	return out
}

func (e *EVM) SStore(addr types.Address, key types.Hash, value uint256.Int) {
	e.state.SetState(addr, &key, value)
}

func (e *EVM) TLoad(addr types.Address, key types.Hash) uint256.Int {
	return e.state.GetTransientState(addr, key)
}

func (e *EVM) TStore(addr types.Address, key types.Hash, value uint256.Int) {
	e.state.SetTransientState(addr, key, value)
}

func (e *EVM) BlockHash(number uint64) types.Hash {
	return e.context.GetHash(number)
}

func (e *EVM) Balance(addr types.Address) *uint256.Int {
	return e.state.GetBalance(addr)
}

func (e *EVM) CodeSize(addr types.Address) int {
	return e.state.GetCodeSize(addr)
}

func (e *EVM) CodeHash(addr types.Address) types.Hash {
	return e.state.GetCodeHash(addr)
}

func (e *EVM) Selfdestruct(addr types.Address, beneficiary types.Address) bool {
	alreadyDestructed := e.state.HasSelfdestructed(addr)
	balance := e.state.GetBalance(addr)
	e.state.AddBalance(beneficiary, balance)
	e.state.Selfdestruct(addr)
	return !alreadyDestructed
}

func (e *EVM) EmitLog(log *block.Log) {
	e.state.AddLog(log)
}

func (e *EVM) Block() evmtypes.BlockContext { return e.context }
func (e *EVM) Tx() evmtypes.TxContext       { return e.txContext }
func (e *EVM) Cfg() Config                  { return e.config }

var _ Host = (*EVM)(nil)
