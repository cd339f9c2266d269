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

package state

import (
	"github.com/holiman/uint256"
	"github.com/n42blockchain/N42/common/account"
	"github.com/n42blockchain/N42/common/crypto"
	"github.com/n42blockchain/N42/common/types"
)

// Storage is a set of storage slot values keyed by slot hash, shared by
// stateObject's dirty/origin caches and by transientStorage.
type Storage map[types.Hash]uint256.Int

// stateObject is the in-memory, mutable view of a single account: its
// account record, its code, and the storage slots touched so far in this
// block. It caches the account's committed (pre-block) storage values
// separately from the dirty (as-of-now) values so GetCommittedState can
// answer without re-reading the backing store.
type stateObject struct {
	address types.Address
	data    account.StateAccount

	db *IntraBlockState

	code      []byte
	dirtyCode bool

	// originStorage holds values read from the backing store this block;
	// dirtyStorage holds values written by SSTORE since the last commit.
	originStorage map[types.Hash]uint256.Int
	dirtyStorage  map[types.Hash]uint256.Int

	selfDestructed bool
	newContract    bool // true for accounts created by CREATE/CREATE2 this block
	deleted        bool // true once created-then-reverted or selfdestructed-then-committed
}

func newStateObject(db *IntraBlockState, address types.Address) *stateObject {
	return &stateObject{
		address:       address,
		db:            db,
		data:          account.StateAccount{},
		originStorage: make(map[types.Hash]uint256.Int),
		dirtyStorage:  make(map[types.Hash]uint256.Int),
	}
}

func (s *stateObject) empty() bool {
	return s.data.Nonce == 0 && s.data.Balance.IsZero() && s.data.IsEmptyCodeHash()
}

func (s *stateObject) setBalance(amount uint256.Int) {
	s.data.Balance = amount
}

func (s *stateObject) setNonce(nonce uint64) {
	s.data.Nonce = nonce
}

func (s *stateObject) setCode(codeHash types.Hash, code []byte) {
	s.code = code
	s.data.CodeHash = codeHash
	s.dirtyCode = true
}

func (s *stateObject) setState(key types.Hash, value uint256.Int) {
	s.dirtyStorage[key] = value
}

// getCommittedState returns the value of key as it stood at the start of
// the block, reading through to the backing store and caching the result
// on first access.
func (s *stateObject) getCommittedState(key types.Hash) uint256.Int {
	if v, ok := s.originStorage[key]; ok {
		return v
	}
	var value uint256.Int
	if s.db.stateReader != nil {
		raw, err := s.db.stateReader.ReadAccountStorage(s.address, s.data.Incarnation, &key)
		if err == nil && len(raw) > 0 {
			value.SetBytes(raw)
		}
	}
	s.originStorage[key] = value
	return value
}

func (s *stateObject) getState(key types.Hash) uint256.Int {
	if v, ok := s.dirtyStorage[key]; ok {
		return v
	}
	return s.getCommittedState(key)
}

// Code returns the contract code, reading through to the backing store on
// first access.
func (s *stateObject) Code() []byte {
	if s.code != nil {
		return s.code
	}
	if s.data.IsEmptyCodeHash() {
		return nil
	}
	if s.db.stateReader != nil {
		code, err := s.db.stateReader.ReadAccountCode(s.address, s.data.Incarnation, s.data.CodeHash)
		if err == nil {
			s.code = code
			return code
		}
	}
	return nil
}

func (s *stateObject) CodeSize() int {
	if s.code != nil {
		return len(s.code)
	}
	if s.data.IsEmptyCodeHash() {
		return 0
	}
	if s.db.stateReader != nil {
		size, err := s.db.stateReader.ReadAccountCodeSize(s.address, s.data.Incarnation, s.data.CodeHash)
		if err == nil {
			return size
		}
	}
	return 0
}

// selfCopy returns an independent copy of the state object, used when a
// stateObject must be duplicated across an IntraBlockState.Copy().
func (s *stateObject) selfCopy(db *IntraBlockState) *stateObject {
	cpy := &stateObject{
		address:        s.address,
		data:           s.data,
		db:             db,
		code:           s.code,
		dirtyCode:      s.dirtyCode,
		originStorage:  make(map[types.Hash]uint256.Int, len(s.originStorage)),
		dirtyStorage:   make(map[types.Hash]uint256.Int, len(s.dirtyStorage)),
		selfDestructed: s.selfDestructed,
		newContract:    s.newContract,
		deleted:        s.deleted,
	}
	for k, v := range s.originStorage {
		cpy.originStorage[k] = v
	}
	for k, v := range s.dirtyStorage {
		cpy.dirtyStorage[k] = v
	}
	return cpy
}

// setCodeByPreimage hashes code and installs both it and its hash onto the
// object; used by CREATE/CREATE2 and by SetCode's public entry point.
func (s *stateObject) setCodeByPreimage(code []byte) {
	s.setCode(crypto.Keccak256Hash(code), code)
}
