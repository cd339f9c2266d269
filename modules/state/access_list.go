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
	"github.com/n42blockchain/N42/common/types"
)

// accessList implements the per-transaction EIP-2929/2930 warm/cold access
// set: the set of addresses and, per address, the set of storage slots that
// have been touched in the current transaction.
type accessList struct {
	addresses map[types.Address]int
	slots     []map[types.Hash]struct{}
}

// newAccessList creates a new empty accessList.
func newAccessList() *accessList {
	return &accessList{
		addresses: make(map[types.Address]int),
	}
}

// ContainsAddress reports whether address is in the access list.
func (al *accessList) ContainsAddress(address types.Address) bool {
	_, ok := al.addresses[address]
	return ok
}

// Contains reports whether (address, slot) is in the access list. The first
// return value reports address presence, the second slot presence; the
// second is only meaningful if the address has an associated slot set.
func (al *accessList) Contains(address types.Address, slot types.Hash) (addressPresent bool, slotPresent bool) {
	idx, ok := al.addresses[address]
	if !ok {
		return false, false
	}
	if idx == -1 {
		return true, false
	}
	_, slotPresent = al.slots[idx][slot]
	return true, slotPresent
}

// AddAddress adds address to the access list. Returns true if the address
// was not already present.
func (al *accessList) AddAddress(address types.Address) bool {
	if _, present := al.addresses[address]; present {
		return false
	}
	al.addresses[address] = -1
	return true
}

// AddSlot adds the (address, slot) pair to the access list. Returns whether
// the address and the slot were newly added respectively.
func (al *accessList) AddSlot(address types.Address, slot types.Hash) (addrChange bool, slotChange bool) {
	idx, addrPresent := al.addresses[address]
	if !addrPresent || idx == -1 {
		al.slots = append(al.slots, map[types.Hash]struct{}{})
		idx = len(al.slots) - 1
		al.addresses[address] = idx
		addrChange = !addrPresent
	}
	if _, slotPresent := al.slots[idx][slot]; !slotPresent {
		al.slots[idx][slot] = struct{}{}
		slotChange = true
	}
	return addrChange, slotChange
}

// DeleteSlot removes the (address, slot) pair from the access list. Used to
// undo AddSlot on a journal revert. The address must already be present
// with an associated slot set.
func (al *accessList) DeleteSlot(address types.Address, slot types.Hash) {
	idx, ok := al.addresses[address]
	if !ok || idx == -1 {
		return
	}
	delete(al.slots[idx], slot)
}

// DeleteAddress removes address from the access list. Used to undo
// AddAddress on a journal revert.
func (al *accessList) DeleteAddress(address types.Address) {
	delete(al.addresses, address)
}

// Copy returns an independent deep copy of al.
func (al *accessList) Copy() *accessList {
	cp := &accessList{
		addresses: make(map[types.Address]int, len(al.addresses)),
		slots:     make([]map[types.Hash]struct{}, len(al.slots)),
	}
	for k, v := range al.addresses {
		cp.addresses[k] = v
	}
	for i, slotMap := range al.slots {
		newSlots := make(map[types.Hash]struct{}, len(slotMap))
		for k := range slotMap {
			newSlots[k] = struct{}{}
		}
		cp.slots[i] = newSlots
	}
	return cp
}
