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

// Package state implements the journaled, checkpointable account/storage
// overlay the interpreter runs against: IntraBlockState caches accounts,
// code and storage read through a StateReader, tracks every mutation on a
// journal, and lets a call frame take a Snapshot() before a nested
// call/create and RevertToSnapshot() if that nested frame reverts.
package state

import (
	"github.com/holiman/uint256"
	"github.com/n42blockchain/N42/common/account"
	"github.com/n42blockchain/N42/common/block"
	"github.com/n42blockchain/N42/common/transaction"
	"github.com/n42blockchain/N42/common/types"
)

// revision pairs a Snapshot() id with the journal length at the time it was
// taken, so RevertToSnapshot can find the right journal cutoff by id even
// if snapshots are reverted out of order.
type revision struct {
	id           int
	journalIndex int
}

// IntraBlockState is the EVM-facing state database for a single
// transaction: an overlay of stateObjects over a StateReader, with a
// journal recording every mutation so nested call/create frames can be
// rolled back without touching the backing store.
type IntraBlockState struct {
	stateReader StateReader

	stateObjects      map[types.Address]*stateObject
	stateObjectsDirty map[types.Address]struct{}

	journal         *journal
	validRevisions  []revision
	nextRevisionID  int

	refund uint64

	thash   types.Hash
	txIndex int
	logs    map[types.Hash][]*block.Log
	logSize uint

	accessList       *accessList
	transientStorage transientStorage
}

// New creates a new IntraBlockState reading through to reader for any
// account/storage/code not yet cached.
func New(reader StateReader) *IntraBlockState {
	return &IntraBlockState{
		stateReader:       reader,
		stateObjects:      make(map[types.Address]*stateObject),
		stateObjectsDirty: make(map[types.Address]struct{}),
		journal:           newJournal(),
		logs:              make(map[types.Hash][]*block.Log),
		accessList:        newAccessList(),
		transientStorage:  newTransientStorage(),
	}
}

// SetTxContext records which transaction subsequent AddLog calls belong to.
func (s *IntraBlockState) SetTxContext(thash types.Hash, txIndex int) {
	s.thash = thash
	s.txIndex = txIndex
}

// Logs returns every log recorded for the current transaction hash.
func (s *IntraBlockState) Logs() []*block.Log {
	return s.logs[s.thash]
}

// =============================================================================
// stateObject lookup/creation
// =============================================================================

func (s *IntraBlockState) getStateObject(addr types.Address) *stateObject {
	if obj, ok := s.stateObjects[addr]; ok {
		return obj
	}

	var data *account.StateAccount
	if s.stateReader != nil {
		var err error
		data, err = s.stateReader.ReadAccountData(addr)
		if err != nil {
			data = nil
		}
	}
	if data == nil {
		return nil
	}

	obj := newStateObject(s, addr)
	obj.data = *data
	s.stateObjects[addr] = obj
	return obj
}

func (s *IntraBlockState) getOrNewStateObject(addr types.Address) *stateObject {
	obj := s.getStateObject(addr)
	if obj == nil || obj.deleted {
		obj, _ = s.createObject(addr)
	}
	return obj
}

// createObject creates a new stateObject for addr, journaling the previous
// object (if any) so the creation can be undone on revert.
func (s *IntraBlockState) createObject(addr types.Address) (newObj, prevObj *stateObject) {
	prevObj = s.stateObjects[addr]

	newObj = newStateObject(s, addr)
	s.journal.append(createObjectChange{account: &addr})
	s.stateObjects[addr] = newObj
	return newObj, prevObj
}

// =============================================================================
// common.StateDB implementation
// =============================================================================

// CreateAccount creates a fresh account at addr, preserving its balance if
// one already existed there (e.g. value sent to an address before it's
// deployed to). contractCreation marks the account as a new contract for
// incarnation/code-cache purposes.
func (s *IntraBlockState) CreateAccount(addr types.Address, contractCreation bool) {
	newObj, prevObj := s.createObject(addr)
	if prevObj != nil {
		newObj.setBalance(prevObj.data.Balance)
	}
	newObj.newContract = contractCreation
	if contractCreation {
		newObj.data.Incarnation++
	}
}

func (s *IntraBlockState) Exist(addr types.Address) bool {
	obj := s.getStateObject(addr)
	return obj != nil && !obj.deleted
}

func (s *IntraBlockState) Empty(addr types.Address) bool {
	obj := s.getStateObject(addr)
	return obj == nil || obj.deleted || obj.empty()
}

func (s *IntraBlockState) SubBalance(addr types.Address, amount *uint256.Int) {
	obj := s.getOrNewStateObject(addr)
	if obj == nil || amount.IsZero() {
		return
	}
	s.journal.append(balanceChange{account: &addr, prev: obj.data.Balance})
	newBalance := GetPooledBalance()
	newBalance.Sub(&obj.data.Balance, amount)
	obj.setBalance(*newBalance)
	PutPooledBalance(newBalance)
}

func (s *IntraBlockState) AddBalance(addr types.Address, amount *uint256.Int) {
	obj := s.getOrNewStateObject(addr)
	if obj == nil {
		return
	}
	if amount.IsZero() {
		// still touches the account per EIP-161
		s.journal.append(touchChange{account: &addr})
		return
	}
	s.journal.append(balanceChange{account: &addr, prev: obj.data.Balance})
	newBalance := GetPooledBalance()
	newBalance.Add(&obj.data.Balance, amount)
	obj.setBalance(*newBalance)
	PutPooledBalance(newBalance)
}

func (s *IntraBlockState) GetBalance(addr types.Address) *uint256.Int {
	obj := s.getStateObject(addr)
	if obj == nil {
		return new(uint256.Int)
	}
	bal := obj.data.Balance
	return &bal
}

func (s *IntraBlockState) GetNonce(addr types.Address) uint64 {
	obj := s.getStateObject(addr)
	if obj == nil {
		return 0
	}
	return obj.data.Nonce
}

func (s *IntraBlockState) SetNonce(addr types.Address, nonce uint64) {
	obj := s.getOrNewStateObject(addr)
	if obj == nil {
		return
	}
	s.journal.append(nonceChange{account: &addr, prev: obj.data.Nonce})
	obj.setNonce(nonce)
}

func (s *IntraBlockState) GetCodeHash(addr types.Address) types.Hash {
	obj := s.getStateObject(addr)
	if obj == nil {
		return types.Hash{}
	}
	return obj.data.CodeHash
}

func (s *IntraBlockState) GetCode(addr types.Address) []byte {
	obj := s.getStateObject(addr)
	if obj == nil {
		return nil
	}
	return obj.Code()
}

func (s *IntraBlockState) SetCode(addr types.Address, code []byte) {
	obj := s.getOrNewStateObject(addr)
	if obj == nil {
		return
	}
	s.journal.append(codeChange{account: &addr, prevcode: obj.code, prevhash: obj.data.CodeHash.Bytes()})
	obj.setCodeByPreimage(code)
}

func (s *IntraBlockState) GetCodeSize(addr types.Address) int {
	obj := s.getStateObject(addr)
	if obj == nil {
		return 0
	}
	return obj.CodeSize()
}

func (s *IntraBlockState) AddRefund(gas uint64) {
	s.journal.append(refundChange{prev: s.refund})
	s.refund += gas
}

func (s *IntraBlockState) SubRefund(gas uint64) {
	s.journal.append(refundChange{prev: s.refund})
	if gas > s.refund {
		panic("refund counter below zero")
	}
	s.refund -= gas
}

func (s *IntraBlockState) GetRefund() uint64 {
	return s.refund
}

func (s *IntraBlockState) GetCommittedState(addr types.Address, key *types.Hash, outValue *uint256.Int) {
	obj := s.getStateObject(addr)
	if obj == nil {
		outValue.Clear()
		return
	}
	v := obj.getCommittedState(*key)
	*outValue = v
}

func (s *IntraBlockState) GetState(addr types.Address, key *types.Hash, outValue *uint256.Int) {
	obj := s.getStateObject(addr)
	if obj == nil {
		outValue.Clear()
		return
	}
	v := obj.getState(*key)
	*outValue = v
}

func (s *IntraBlockState) SetState(addr types.Address, key *types.Hash, value uint256.Int) {
	obj := s.getOrNewStateObject(addr)
	if obj == nil {
		return
	}
	prev := obj.getState(*key)
	if prev == value {
		return
	}
	s.journal.append(storageChange{account: &addr, key: *key, prevalue: prev})
	obj.setState(*key, value)
}

func (s *IntraBlockState) Selfdestruct(addr types.Address) bool {
	obj := s.getStateObject(addr)
	if obj == nil || obj.deleted {
		return false
	}
	s.journal.append(selfDestructChange{
		account:     &addr,
		prev:        obj.selfDestructed,
		prevBalance: obj.data.Balance,
	})
	obj.selfDestructed = true
	obj.setBalance(uint256.Int{})
	return true
}

func (s *IntraBlockState) HasSelfdestructed(addr types.Address) bool {
	obj := s.getStateObject(addr)
	return obj != nil && obj.selfDestructed
}

// =============================================================================
// Access list (EIP-2929/2930)
// =============================================================================

func (s *IntraBlockState) PrepareAccessList(sender types.Address, dest *types.Address, precompiles []types.Address, txAccesses transaction.AccessList) {
	s.accessList = newAccessList()

	s.AddAddressToAccessList(sender)
	if dest != nil {
		s.AddAddressToAccessList(*dest)
	}
	for _, addr := range precompiles {
		s.AddAddressToAccessList(addr)
	}
	for _, el := range txAccesses {
		s.AddAddressToAccessList(el.Address)
		for _, key := range el.StorageKeys {
			s.AddSlotToAccessList(el.Address, key)
		}
	}
}

func (s *IntraBlockState) AddressInAccessList(addr types.Address) bool {
	return s.accessList.ContainsAddress(addr)
}

func (s *IntraBlockState) SlotInAccessList(addr types.Address, slot types.Hash) (addressOk bool, slotOk bool) {
	return s.accessList.Contains(addr, slot)
}

func (s *IntraBlockState) AddAddressToAccessList(addr types.Address) {
	if s.accessList.AddAddress(addr) {
		s.journal.append(accessListAddAccountChange{address: &addr})
	}
}

func (s *IntraBlockState) AddSlotToAccessList(addr types.Address, slot types.Hash) {
	addrMod, slotMod := s.accessList.AddSlot(addr, slot)
	if addrMod {
		s.journal.append(accessListAddAccountChange{address: &addr})
	}
	if slotMod {
		s.journal.append(accessListAddSlotChange{address: &addr, slot: &slot})
	}
}

// =============================================================================
// Snapshot / revert
// =============================================================================

func (s *IntraBlockState) Snapshot() int {
	id := s.nextRevisionID
	s.nextRevisionID++
	s.validRevisions = append(s.validRevisions, revision{id, s.journal.length()})
	return id
}

func (s *IntraBlockState) RevertToSnapshot(revisionID int) {
	idx := len(s.validRevisions)
	for i := len(s.validRevisions) - 1; i >= 0; i-- {
		if s.validRevisions[i].id == revisionID {
			idx = i
			break
		}
	}
	if idx == len(s.validRevisions) {
		panic("revision id not found")
	}
	snapshot := s.validRevisions[idx].journalIndex

	s.journal.revert(s, snapshot)
	s.validRevisions = s.validRevisions[:idx]
}

// =============================================================================
// Logging
// =============================================================================

func (s *IntraBlockState) AddLog(log *block.Log) {
	log.TxHash = s.thash
	log.TxIndex = uint(s.txIndex)
	log.Index = s.logSize
	s.journal.append(addLogChange{txhash: s.thash})
	s.logs[s.thash] = append(s.logs[s.thash], log)
	s.logSize++
}

// =============================================================================
// Transient storage (EIP-1153)
// =============================================================================

func (s *IntraBlockState) GetTransientState(addr types.Address, key types.Hash) uint256.Int {
	return s.transientStorage.Get(addr, key)
}

func (s *IntraBlockState) SetTransientState(addr types.Address, key types.Hash, value uint256.Int) {
	prev := s.transientStorage.Get(addr, key)
	if prev == value {
		return
	}
	s.journal.append(transientStorageChange{
		account:       addr,
		key:           key,
		prevalue:      prev,
		prevalueKnown: true,
	})
	s.transientStorage.Set(addr, key, value)
}
