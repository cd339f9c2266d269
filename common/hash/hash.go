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

// Package hash provides deterministic hashing helpers used to derive
// stable, cacheable identifiers (transaction hashes, authorization
// hashes) from Go values. It deliberately does not implement Ethereum's
// wire-format RLP codec: on-the-wire transaction serialization is outside
// this engine's scope, and every caller here only needs a hash that is
// deterministic and sensitive to every field, not one that round-trips.
package hash

import (
	"fmt"

	"github.com/n42blockchain/N42/common/crypto"
	"github.com/n42blockchain/N42/common/types"
)

// Hash returns the keccak256 digest of b.
func Hash(b []byte) types.Hash {
	return crypto.Keccak256Hash(b)
}

// PrefixedRlpHash hashes a type-prefix byte together with the values,
// producing a hash that changes whenever prefix or any field of x changes.
// The donor's own naming ("PrefixedRlpHash") anticipates a full RLP
// encoding; here it is backed by Go's %#v formatting of the value instead,
// which is deterministic for the plain structs/slices this engine's
// transaction types are built from.
func PrefixedRlpHash(prefix byte, x interface{}) types.Hash {
	repr := fmt.Sprintf("%#v", x)
	return crypto.Keccak256Hash([]byte{prefix}, []byte(repr))
}
