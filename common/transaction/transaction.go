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

// Package transaction holds the transaction envelope shapes the engine
// consumes as an external input. Signature recovery, nonce/gas validation
// and wire encoding are out of scope (see spec's Non-goals); only the
// typed field layout and the EIP-2930/7702 access/authorization lists the
// engine reads are implemented here.
package transaction

import (
	"github.com/holiman/uint256"

	"github.com/n42blockchain/N42/common/hash"
	"github.com/n42blockchain/N42/common/types"
)

// Transaction type discriminants, matching the EIP that introduced each.
const (
	LegacyTxType     = 0x00
	AccessListTxType = 0x01 // EIP-2930
	DynamicFeeTxType = 0x02 // EIP-1559
	// BlobTxType = 0x03 (EIP-4844) defined in blob_tx.go
	// SetCodeTxType = 0x04 (EIP-7702) defined in setcode_tx.go
)

// AccessTuple is one entry of an EIP-2930 access list: an address plus the
// storage slots within it that are pre-warmed.
type AccessTuple struct {
	Address     types.Address `json:"address"`
	StorageKeys []types.Hash  `json:"storageKeys"`
}

// AccessList is an EIP-2930 access list.
type AccessList []AccessTuple

// StorageKeys returns the total number of storage keys across all tuples.
func (al AccessList) StorageKeys() int {
	n := 0
	for _, tuple := range al {
		n += len(tuple.StorageKeys)
	}
	return n
}

// TxData is the set of accessors every concrete transaction type
// implements; it mirrors go-ethereum's internal TxData interface.
type TxData interface {
	txType() byte
	copy() TxData

	chainID() *uint256.Int
	accessList() AccessList
	data() []byte
	gas() uint64
	gasPrice() *uint256.Int
	gasTipCap() *uint256.Int
	gasFeeCap() *uint256.Int
	value() *uint256.Int
	nonce() uint64
	to() *types.Address
	from() *types.Address
	sign() []byte

	rawSignatureValues() (v, r, s *uint256.Int)
	setSignatureValues(chainID, v, r, s *uint256.Int)
}

// LegacyTx is a pre-EIP-2718 transaction.
type LegacyTx struct {
	Nonce    uint64
	GasPrice *uint256.Int
	Gas      uint64
	To       *types.Address
	Value    *uint256.Int
	Data     []byte

	V *uint256.Int
	R *uint256.Int
	S *uint256.Int
}

func (tx *LegacyTx) txType() byte { return LegacyTxType }

func (tx *LegacyTx) copy() TxData {
	cpy := &LegacyTx{
		Nonce: tx.Nonce,
		Gas:   tx.Gas,
		To:    copyAddressPtr(tx.To),
		Data:  append([]byte(nil), tx.Data...),
	}
	if tx.GasPrice != nil {
		cpy.GasPrice = new(uint256.Int).Set(tx.GasPrice)
	}
	if tx.Value != nil {
		cpy.Value = new(uint256.Int).Set(tx.Value)
	}
	if tx.V != nil {
		cpy.V = new(uint256.Int).Set(tx.V)
	}
	if tx.R != nil {
		cpy.R = new(uint256.Int).Set(tx.R)
	}
	if tx.S != nil {
		cpy.S = new(uint256.Int).Set(tx.S)
	}
	return cpy
}

func (tx *LegacyTx) chainID() *uint256.Int   { return nil }
func (tx *LegacyTx) accessList() AccessList  { return nil }
func (tx *LegacyTx) data() []byte            { return tx.Data }
func (tx *LegacyTx) gas() uint64             { return tx.Gas }
func (tx *LegacyTx) gasPrice() *uint256.Int  { return tx.GasPrice }
func (tx *LegacyTx) gasTipCap() *uint256.Int { return tx.GasPrice }
func (tx *LegacyTx) gasFeeCap() *uint256.Int { return tx.GasPrice }
func (tx *LegacyTx) value() *uint256.Int     { return tx.Value }
func (tx *LegacyTx) nonce() uint64           { return tx.Nonce }
func (tx *LegacyTx) to() *types.Address      { return tx.To }
func (tx *LegacyTx) from() *types.Address    { return nil }
func (tx *LegacyTx) sign() []byte            { return nil }

func (tx *LegacyTx) hash() types.Hash {
	return hash.PrefixedRlpHash(LegacyTxType, []interface{}{
		tx.Nonce, tx.GasPrice, tx.Gas, tx.To, tx.Value, tx.Data, tx.V, tx.R, tx.S,
	})
}

func (tx *LegacyTx) rawSignatureValues() (v, r, s *uint256.Int) {
	return tx.V, tx.R, tx.S
}

func (tx *LegacyTx) setSignatureValues(chainID, v, r, s *uint256.Int) {
	tx.V, tx.R, tx.S = v, r, s
}

// AccessListTx is an EIP-2930 transaction: a legacy transaction plus an
// access list.
type AccessListTx struct {
	ChainID    *uint256.Int
	Nonce      uint64
	GasPrice   *uint256.Int
	Gas        uint64
	To         *types.Address
	From       *types.Address
	Value      *uint256.Int
	Data       []byte
	AccessList AccessList

	V *uint256.Int
	R *uint256.Int
	S *uint256.Int
}

func (tx *AccessListTx) txType() byte { return AccessListTxType }

func (tx *AccessListTx) copy() TxData {
	cpy := &AccessListTx{
		Nonce:      tx.Nonce,
		Gas:        tx.Gas,
		To:         copyAddressPtr(tx.To),
		From:       copyAddressPtr(tx.From),
		Data:       append([]byte(nil), tx.Data...),
		AccessList: copyAccessList(tx.AccessList),
	}
	if tx.ChainID != nil {
		cpy.ChainID = new(uint256.Int).Set(tx.ChainID)
	}
	if tx.GasPrice != nil {
		cpy.GasPrice = new(uint256.Int).Set(tx.GasPrice)
	}
	if tx.Value != nil {
		cpy.Value = new(uint256.Int).Set(tx.Value)
	}
	if tx.V != nil {
		cpy.V = new(uint256.Int).Set(tx.V)
	}
	if tx.R != nil {
		cpy.R = new(uint256.Int).Set(tx.R)
	}
	if tx.S != nil {
		cpy.S = new(uint256.Int).Set(tx.S)
	}
	return cpy
}

func (tx *AccessListTx) chainID() *uint256.Int   { return tx.ChainID }
func (tx *AccessListTx) accessList() AccessList  { return tx.AccessList }
func (tx *AccessListTx) data() []byte            { return tx.Data }
func (tx *AccessListTx) gas() uint64             { return tx.Gas }
func (tx *AccessListTx) gasPrice() *uint256.Int  { return tx.GasPrice }
func (tx *AccessListTx) gasTipCap() *uint256.Int { return tx.GasPrice }
func (tx *AccessListTx) gasFeeCap() *uint256.Int { return tx.GasPrice }
func (tx *AccessListTx) value() *uint256.Int     { return tx.Value }
func (tx *AccessListTx) nonce() uint64           { return tx.Nonce }
func (tx *AccessListTx) to() *types.Address      { return tx.To }
func (tx *AccessListTx) from() *types.Address    { return tx.From }
func (tx *AccessListTx) sign() []byte            { return nil }

func (tx *AccessListTx) hash() types.Hash {
	return hash.PrefixedRlpHash(AccessListTxType, []interface{}{
		tx.ChainID, tx.Nonce, tx.GasPrice, tx.Gas, tx.To, tx.Value, tx.Data, tx.AccessList, tx.V, tx.R, tx.S,
	})
}

func (tx *AccessListTx) rawSignatureValues() (v, r, s *uint256.Int) {
	return tx.V, tx.R, tx.S
}

func (tx *AccessListTx) setSignatureValues(chainID, v, r, s *uint256.Int) {
	tx.ChainID, tx.V, tx.R, tx.S = chainID, v, r, s
}

// DynamicFeeTx is an EIP-1559 transaction.
type DynamicFeeTx struct {
	ChainID    *uint256.Int
	Nonce      uint64
	GasTipCap  *uint256.Int
	GasFeeCap  *uint256.Int
	Gas        uint64
	To         *types.Address
	Value      *uint256.Int
	Data       []byte
	AccessList AccessList

	V *uint256.Int
	R *uint256.Int
	S *uint256.Int
}

func (tx *DynamicFeeTx) txType() byte { return DynamicFeeTxType }

func (tx *DynamicFeeTx) copy() TxData {
	cpy := &DynamicFeeTx{
		Nonce:      tx.Nonce,
		Gas:        tx.Gas,
		To:         copyAddressPtr(tx.To),
		Data:       append([]byte(nil), tx.Data...),
		AccessList: copyAccessList(tx.AccessList),
	}
	if tx.ChainID != nil {
		cpy.ChainID = new(uint256.Int).Set(tx.ChainID)
	}
	if tx.GasTipCap != nil {
		cpy.GasTipCap = new(uint256.Int).Set(tx.GasTipCap)
	}
	if tx.GasFeeCap != nil {
		cpy.GasFeeCap = new(uint256.Int).Set(tx.GasFeeCap)
	}
	if tx.Value != nil {
		cpy.Value = new(uint256.Int).Set(tx.Value)
	}
	if tx.V != nil {
		cpy.V = new(uint256.Int).Set(tx.V)
	}
	if tx.R != nil {
		cpy.R = new(uint256.Int).Set(tx.R)
	}
	if tx.S != nil {
		cpy.S = new(uint256.Int).Set(tx.S)
	}
	return cpy
}

func (tx *DynamicFeeTx) chainID() *uint256.Int   { return tx.ChainID }
func (tx *DynamicFeeTx) accessList() AccessList  { return tx.AccessList }
func (tx *DynamicFeeTx) data() []byte            { return tx.Data }
func (tx *DynamicFeeTx) gas() uint64             { return tx.Gas }
func (tx *DynamicFeeTx) gasPrice() *uint256.Int  { return tx.GasFeeCap }
func (tx *DynamicFeeTx) gasTipCap() *uint256.Int { return tx.GasTipCap }
func (tx *DynamicFeeTx) gasFeeCap() *uint256.Int { return tx.GasFeeCap }
func (tx *DynamicFeeTx) value() *uint256.Int     { return tx.Value }
func (tx *DynamicFeeTx) nonce() uint64           { return tx.Nonce }
func (tx *DynamicFeeTx) to() *types.Address      { return tx.To }
func (tx *DynamicFeeTx) from() *types.Address    { return nil }
func (tx *DynamicFeeTx) sign() []byte            { return nil }

func (tx *DynamicFeeTx) hash() types.Hash {
	return hash.PrefixedRlpHash(DynamicFeeTxType, []interface{}{
		tx.ChainID, tx.Nonce, tx.GasTipCap, tx.GasFeeCap, tx.Gas, tx.To, tx.Value, tx.Data, tx.AccessList, tx.V, tx.R, tx.S,
	})
}

func (tx *DynamicFeeTx) rawSignatureValues() (v, r, s *uint256.Int) {
	return tx.V, tx.R, tx.S
}

func (tx *DynamicFeeTx) setSignatureValues(chainID, v, r, s *uint256.Int) {
	tx.ChainID, tx.V, tx.R, tx.S = chainID, v, r, s
}

// copyAddressPtr copies an *types.Address, returning nil for a nil input.
func copyAddressPtr(a *types.Address) *types.Address {
	if a == nil {
		return nil
	}
	cpy := *a
	return &cpy
}

// copyAccessList creates a deep copy of al (also used by setcode_tx.go and
// blob_tx.go).
func copyAccessList(al AccessList) AccessList {
	if al == nil {
		return nil
	}
	cpy := make(AccessList, len(al))
	for i, tuple := range al {
		cpy[i].Address = tuple.Address
		if tuple.StorageKeys != nil {
			cpy[i].StorageKeys = make([]types.Hash, len(tuple.StorageKeys))
			copy(cpy[i].StorageKeys, tuple.StorageKeys)
		}
	}
	return cpy
}

var (
	_ TxData = (*LegacyTx)(nil)
	_ TxData = (*AccessListTx)(nil)
	_ TxData = (*DynamicFeeTx)(nil)
)
