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
	"github.com/n42blockchain/N42/common/types"
)

// journalEntry is a single modification recorded during a call's execution.
// Every entry knows how to revert its own effect against an IntraBlockState.
type journalEntry interface {
	// revert undoes the effect of this entry on s.
	revert(s *IntraBlockState)

	// dirtied returns the address modified by this entry, if any. Used to
	// keep the dirty-account set in sync with outstanding journal entries.
	dirtied() *types.Address
}

// journal is an ordered log of state modifications, used to implement the
// checkpoint/revert semantics a nested call frame needs: Snapshot() marks
// the current length, RevertToSnapshot() unwinds every entry recorded
// since, in reverse order.
type journal struct {
	entries []journalEntry
	dirties map[types.Address]int // address -> number of outstanding changes
}

// newJournal creates a new, empty journal.
func newJournal() *journal {
	return &journal{
		dirties: make(map[types.Address]int),
	}
}

// length returns the number of entries currently recorded.
func (j *journal) length() int {
	return len(j.entries)
}

// append records a new modification, tracking the account it affects in
// the dirty set if any.
func (j *journal) append(entry journalEntry) {
	j.entries = append(j.entries, entry)
	if addr := entry.dirtied(); addr != nil {
		j.dirties[*addr]++
	}
}

// revert replays entries backwards from the current length down to
// snapshot, undoing each one against s, and trims the dirty counters to
// match.
func (j *journal) revert(s *IntraBlockState, snapshot int) {
	for i := len(j.entries) - 1; i >= snapshot; i-- {
		j.entries[i].revert(s)

		if addr := j.entries[i].dirtied(); addr != nil {
			if j.dirties[*addr]--; j.dirties[*addr] == 0 {
				delete(j.dirties, *addr)
			}
		}
	}
	j.entries = j.entries[:snapshot]
}

// dirty marks addr as having an outstanding change, without recording a
// revertible entry. Used for accounts touched in ways that don't need an
// explicit undo (e.g. the EIP-161 "touch" that can turn an empty account
// into a collectible one at the end of the transaction).
func (j *journal) dirty(addr types.Address) {
	j.dirties[addr]++
}

// =============================================================================
// Journal entry kinds
// =============================================================================

type (
	createObjectChange struct {
		account *types.Address
	}

	selfDestructChange struct {
		account     *types.Address
		prev        bool // whether the account had already self-destructed
		prevBalance uint256.Int
	}

	balanceChange struct {
		account *types.Address
		prev    uint256.Int
	}

	nonceChange struct {
		account *types.Address
		prev    uint64
	}

	storageChange struct {
		account  *types.Address
		key      types.Hash
		prevalue uint256.Int
	}

	codeChange struct {
		account            *types.Address
		prevcode, prevhash []byte
	}

	refundChange struct {
		prev uint64
	}

	addLogChange struct {
		txhash types.Hash
	}

	touchChange struct {
		account *types.Address
	}

	accessListAddAccountChange struct {
		address *types.Address
	}

	accessListAddSlotChange struct {
		address *types.Address
		slot    *types.Hash
	}

	transientStorageChange struct {
		account       types.Address
		key           types.Hash
		prevalue      uint256.Int
		prevalueKnown bool
	}
)

func (ch createObjectChange) revert(s *IntraBlockState) {
	delete(s.stateObjects, *ch.account)
	delete(s.stateObjectsDirty, *ch.account)
}

func (ch createObjectChange) dirtied() *types.Address {
	return ch.account
}

func (ch selfDestructChange) revert(s *IntraBlockState) {
	obj := s.getStateObject(*ch.account)
	if obj != nil {
		obj.selfDestructed = ch.prev
		obj.data.Balance = ch.prevBalance
	}
}

func (ch selfDestructChange) dirtied() *types.Address {
	return ch.account
}

func (ch balanceChange) revert(s *IntraBlockState) {
	s.getStateObject(*ch.account).setBalance(ch.prev)
}

func (ch balanceChange) dirtied() *types.Address {
	return ch.account
}

func (ch nonceChange) revert(s *IntraBlockState) {
	s.getStateObject(*ch.account).setNonce(ch.prev)
}

func (ch nonceChange) dirtied() *types.Address {
	return ch.account
}

func (ch codeChange) revert(s *IntraBlockState) {
	s.getStateObject(*ch.account).setCode(types.BytesToHash(ch.prevhash), ch.prevcode)
}

func (ch codeChange) dirtied() *types.Address {
	return ch.account
}

func (ch storageChange) revert(s *IntraBlockState) {
	s.getStateObject(*ch.account).setState(ch.key, ch.prevalue)
}

func (ch storageChange) dirtied() *types.Address {
	return ch.account
}

func (ch refundChange) revert(s *IntraBlockState) {
	s.refund = ch.prev
}

func (ch refundChange) dirtied() *types.Address {
	return nil
}

func (ch addLogChange) revert(s *IntraBlockState) {
	logs := s.logs[ch.txhash]
	if len(logs) == 1 {
		delete(s.logs, ch.txhash)
	} else {
		s.logs[ch.txhash] = logs[:len(logs)-1]
	}
	s.logSize--
}

func (ch addLogChange) dirtied() *types.Address {
	return nil
}

func (ch touchChange) revert(s *IntraBlockState) {
}

func (ch touchChange) dirtied() *types.Address {
	return ch.account
}

func (ch accessListAddAccountChange) revert(s *IntraBlockState) {
	s.accessList.DeleteAddress(*ch.address)
}

func (ch accessListAddAccountChange) dirtied() *types.Address {
	return nil
}

func (ch accessListAddSlotChange) revert(s *IntraBlockState) {
	s.accessList.DeleteSlot(*ch.address, *ch.slot)
}

func (ch accessListAddSlotChange) dirtied() *types.Address {
	return nil
}

func (ch transientStorageChange) revert(s *IntraBlockState) {
	if ch.prevalueKnown {
		s.transientStorage.Set(ch.account, ch.key, ch.prevalue)
	}
}

func (ch transientStorageChange) dirtied() *types.Address {
	return nil
}
