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

// Package crypto provides the hashing and address-derivation primitives the
// engine needs: keccak256 (code hashing, CREATE/CREATE2 address derivation)
// and RIPEMD/ECDSA-style signature recovery are intentionally absent here —
// signature verification is outside this engine's scope.
package crypto

import (
	"golang.org/x/crypto/sha3"

	"github.com/n42blockchain/N42/common/types"
)

// Keccak256 returns the Keccak-256 digest of the concatenation of data.
func Keccak256(data ...[]byte) []byte {
	d := sha3.NewLegacyKeccak256()
	for _, b := range data {
		d.Write(b)
	}
	return d.Sum(nil)
}

// Keccak256Hash returns the Keccak-256 digest of the concatenation of data
// as a types.Hash.
func Keccak256Hash(data ...[]byte) types.Hash {
	return types.BytesToHash(Keccak256(data...))
}

// EmptyCodeHash is keccak256 of the empty byte string; the code hash of an
// account with no code.
var EmptyCodeHash = Keccak256Hash(nil)

// CreateAddress derives the address of a contract created via CREATE, per
// spec §4.9 step 5: keccak256(rlp([sender, nonce]))[-20:]. Since full RLP
// encoding is out of this engine's scope, the (sender, nonce) pair is
// encoded with the same minimal big-endian scheme go-ethereum's RLP would
// produce for this exact shape (a 20-byte string and a minimal-length
// nonce integer), which is sufficient to reproduce Ethereum's real
// CREATE address derivation.
func CreateAddress(sender types.Address, nonce uint64) types.Address {
	return types.BytesToAddress(Keccak256(rlpEncodeSenderNonce(sender, nonce)))
}

// CreateAddress2 derives the address of a contract created via CREATE2, per
// spec §4.9 step 5: keccak256(0xff ++ sender ++ salt ++ keccak256(initCode))[-20:].
func CreateAddress2(sender types.Address, salt types.Hash, initCodeHash []byte) types.Address {
	return types.BytesToAddress(Keccak256([]byte{0xff}, sender.Bytes(), salt.Bytes(), initCodeHash))
}

// rlpEncodeSenderNonce produces the RLP encoding of the two-element list
// [sender, nonce], matching go-ethereum's crypto.CreateAddress exactly for
// this fixed shape (sender is always a 20-byte string; nonce is encoded as
// the shortest big-endian byte string with no leading zero, or the empty
// string for zero).
func rlpEncodeSenderNonce(sender types.Address, nonce uint64) []byte {
	nonceBytes := rlpUint64(nonce)
	addrItem := rlpString(sender.Bytes())
	nonceItem := rlpString(nonceBytes)
	payload := append(append([]byte{}, addrItem...), nonceItem...)
	return append(rlpListHeader(len(payload)), payload...)
}

func rlpUint64(n uint64) []byte {
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

func rlpString(b []byte) []byte {
	if len(b) == 1 && b[0] < 0x80 {
		return b
	}
	return append(rlpStringHeader(len(b)), b...)
}

func rlpStringHeader(n int) []byte {
	if n < 56 {
		return []byte{byte(0x80 + n)}
	}
	lenBytes := rlpUint64(uint64(n))
	return append([]byte{byte(0xb7 + len(lenBytes))}, lenBytes...)
}

func rlpListHeader(n int) []byte {
	if n < 56 {
		return []byte{byte(0xc0 + n)}
	}
	lenBytes := rlpUint64(uint64(n))
	return append([]byte{byte(0xf7 + len(lenBytes))}, lenBytes...)
}
