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

// Package account defines the on-disk account record used by the state
// layer's plain-state storage: nonce, balance, storage root, code hash and
// the incarnation counter used to invalidate cached code/storage across a
// SELFDESTRUCT followed by a recreate within the same block.
package account

import (
	"errors"

	"github.com/holiman/uint256"
	"github.com/n42blockchain/N42/common/types"
)

// ErrDecodeEmptyBuffer is returned when DecodeForStorage is given a buffer
// too short to contain even the field-set byte.
var ErrDecodeEmptyBuffer = errors.New("account: decode buffer is empty")

// ErrDecodeIncomplete is returned when the buffer is truncated relative to
// what the field-set byte promises.
var ErrDecodeIncomplete = errors.New("account: decode buffer truncated")

const (
	fieldNonce = 1 << iota
	fieldBalance
	fieldIncarnation
	fieldCodeHash
)

// StateAccount is the persisted representation of an account: an EOA or a
// contract, keyed by address in the state trie/overlay.
type StateAccount struct {
	Nonce       uint64
	Balance     uint256.Int
	Root        types.Hash // storage root; zero for accounts with no storage
	CodeHash    types.Hash // keccak256 of the contract code; zero for EOAs
	Incarnation uint16     // bumped on SELFDESTRUCT+recreate, invalidates cached code/storage
}

// NewAccount returns a freshly created account with zero nonce and balance.
func NewAccount() *StateAccount {
	return &StateAccount{}
}

// SelfCopy returns an independent copy of a, safe to mutate without
// affecting a.
func (a *StateAccount) SelfCopy() *StateAccount {
	cpy := *a
	return &cpy
}

// IsEmptyCodeHash reports whether the account has no associated code.
func (a *StateAccount) IsEmptyCodeHash() bool {
	return a.CodeHash == (types.Hash{})
}

// minimalBigEndian returns the shortest big-endian encoding of n with no
// leading zero byte, or an empty slice for n == 0.
func minimalBigEndian(n uint64) []byte {
	if n == 0 {
		return nil
	}
	var b [8]byte
	for i := 7; i >= 0; i-- {
		b[i] = byte(n)
		n >>= 8
	}
	i := 0
	for i < 8 && b[i] == 0 {
		i++
	}
	return b[i:]
}

func minimalBalance(b *uint256.Int) []byte {
	if b.IsZero() {
		return nil
	}
	buf := b.Bytes() // big-endian, already minimal (no leading zeros)
	return buf
}

// EncodingLengthForStorage returns the number of bytes EncodeForStorage
// will write for the account's current field values.
func (a *StateAccount) EncodingLengthForStorage() int {
	length := 1 // field-set byte

	nonceBytes := minimalBigEndian(a.Nonce)
	if len(nonceBytes) > 0 {
		length += 1 + len(nonceBytes)
	}

	balanceBytes := minimalBalance(&a.Balance)
	if len(balanceBytes) > 0 {
		length += 1 + len(balanceBytes)
	}

	incBytes := minimalBigEndian(uint64(a.Incarnation))
	if len(incBytes) > 0 {
		length += 1 + len(incBytes)
	}

	if !a.IsEmptyCodeHash() {
		length += types.HashLength
	}

	return length
}

// EncodeForStorage writes the account's compact storage encoding into
// buffer, which must be at least EncodingLengthForStorage() bytes long.
// The format is a single field-set byte followed by, for each set field in
// order (nonce, balance, incarnation, code hash), a length-prefixed minimal
// big-endian encoding (code hash is always the fixed 32 bytes).
func (a *StateAccount) EncodeForStorage(buffer []byte) {
	var fieldSet byte

	nonceBytes := minimalBigEndian(a.Nonce)
	if len(nonceBytes) > 0 {
		fieldSet |= fieldNonce
	}
	balanceBytes := minimalBalance(&a.Balance)
	if len(balanceBytes) > 0 {
		fieldSet |= fieldBalance
	}
	incBytes := minimalBigEndian(uint64(a.Incarnation))
	if len(incBytes) > 0 {
		fieldSet |= fieldIncarnation
	}
	hasCodeHash := !a.IsEmptyCodeHash()
	if hasCodeHash {
		fieldSet |= fieldCodeHash
	}

	pos := 0
	buffer[pos] = fieldSet
	pos++

	if len(nonceBytes) > 0 {
		buffer[pos] = byte(len(nonceBytes))
		pos++
		pos += copy(buffer[pos:], nonceBytes)
	}
	if len(balanceBytes) > 0 {
		buffer[pos] = byte(len(balanceBytes))
		pos++
		pos += copy(buffer[pos:], balanceBytes)
	}
	if len(incBytes) > 0 {
		buffer[pos] = byte(len(incBytes))
		pos++
		pos += copy(buffer[pos:], incBytes)
	}
	if hasCodeHash {
		pos += copy(buffer[pos:], a.CodeHash[:])
	}
}

// DecodeForStorage parses the compact encoding written by EncodeForStorage,
// overwriting the receiver's Nonce, Balance, Incarnation and CodeHash.
// Root is not part of the storage encoding and is left unchanged.
func (a *StateAccount) DecodeForStorage(buffer []byte) error {
	if len(buffer) == 0 {
		return ErrDecodeEmptyBuffer
	}

	fieldSet := buffer[0]
	pos := 1

	a.Nonce = 0
	a.Balance.Clear()
	a.Incarnation = 0
	a.CodeHash = types.Hash{}

	readField := func() ([]byte, error) {
		if pos >= len(buffer) {
			return nil, ErrDecodeIncomplete
		}
		n := int(buffer[pos])
		pos++
		if pos+n > len(buffer) {
			return nil, ErrDecodeIncomplete
		}
		val := buffer[pos : pos+n]
		pos += n
		return val, nil
	}

	if fieldSet&fieldNonce != 0 {
		b, err := readField()
		if err != nil {
			return err
		}
		for _, x := range b {
			a.Nonce = a.Nonce<<8 | uint64(x)
		}
	}

	if fieldSet&fieldBalance != 0 {
		b, err := readField()
		if err != nil {
			return err
		}
		a.Balance.SetBytes(b)
	}

	if fieldSet&fieldIncarnation != 0 {
		b, err := readField()
		if err != nil {
			return err
		}
		var inc uint64
		for _, x := range b {
			inc = inc<<8 | uint64(x)
		}
		a.Incarnation = uint16(inc)
	}

	if fieldSet&fieldCodeHash != 0 {
		if pos+types.HashLength > len(buffer) {
			return ErrDecodeIncomplete
		}
		copy(a.CodeHash[:], buffer[pos:pos+types.HashLength])
		pos += types.HashLength
	}

	return nil
}
