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

// Package types holds the primitive value types shared across the engine:
// 20-byte addresses and 32-byte hashes.
package types

import (
	"encoding/hex"
	"strings"
)

// AddressLength is the length in bytes of an EVM address.
const AddressLength = 20

// HashLength is the length in bytes of an EVM word/hash.
const HashLength = 32

// Address represents a 20-byte EVM account address.
type Address [AddressLength]byte

// Hash represents a 32-byte EVM word, used for storage keys/values and
// code/tx/block hashes.
type Hash [HashLength]byte

// BytesToAddress converts a byte slice to an Address, left-padding or
// truncating from the left as go-ethereum's common.BytesToAddress does.
func BytesToAddress(b []byte) Address {
	var a Address
	if len(b) > AddressLength {
		b = b[len(b)-AddressLength:]
	}
	copy(a[AddressLength-len(b):], b)
	return a
}

// BytesToHash converts a byte slice to a Hash, left-padding or truncating
// from the left.
func BytesToHash(b []byte) Hash {
	var h Hash
	if len(b) > HashLength {
		b = b[len(b)-HashLength:]
	}
	copy(h[HashLength-len(b):], b)
	return h
}

// HexToAddress parses a hex string (with or without 0x prefix) into an
// Address.
func HexToAddress(s string) Address {
	return BytesToAddress(fromHex(s))
}

// HexToHash parses a hex string (with or without 0x prefix) into a Hash.
func HexToHash(s string) Hash {
	return BytesToHash(fromHex(s))
}

func fromHex(s string) []byte {
	s = strings.TrimPrefix(s, "0x")
	s = strings.TrimPrefix(s, "0X")
	if len(s)%2 == 1 {
		s = "0" + s
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil
	}
	return b
}

// Bytes returns the address as a byte slice.
func (a Address) Bytes() []byte { return a[:] }

// Hex returns the 0x-prefixed hex encoding of the address.
func (a Address) Hex() string { return "0x" + hex.EncodeToString(a[:]) }

// String implements fmt.Stringer.
func (a Address) String() string { return a.Hex() }

// IsZero reports whether the address is the zero address.
func (a Address) IsZero() bool { return a == Address{} }

// Bytes returns the hash as a byte slice.
func (h Hash) Bytes() []byte { return h[:] }

// Hex returns the 0x-prefixed hex encoding of the hash.
func (h Hash) Hex() string { return "0x" + hex.EncodeToString(h[:]) }

// String implements fmt.Stringer.
func (h Hash) String() string { return h.Hex() }

// IsZero reports whether the hash is the zero hash.
func (h Hash) IsZero() bool { return h == Hash{} }
