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

// Package block holds the receipt-side data types the interpreter produces
// as it runs: logs emitted by LOG0-LOG4, the bloom filter summarizing them,
// and the per-transaction receipt the EVM's caller assembles from an
// execution result. Block/header assembly and consensus-level receipt root
// computation are outside this package's scope; only the shapes the
// interpreter and state layer touch directly live here.
package block

import (
	"fmt"
	"math/big"

	"github.com/holiman/uint256"
	"github.com/n42blockchain/N42/common/crypto"
	"github.com/n42blockchain/N42/common/types"
)

// BloomByteLength is the number of bytes used in a header log bloom.
const BloomByteLength = 256

// BloomBitLength is the number of bits used in a header log bloom.
const BloomBitLength = 8 * BloomByteLength

// Bloom is a 2048-bit (256-byte) bloom filter over an address and its log
// topics, following Ethereum's 3-bits-per-item construction.
type Bloom [BloomByteLength]byte

// BytesToBloom converts a byte slice to a bloom filter, right-aligned.
// It panics if b is longer than BloomByteLength.
func BytesToBloom(b []byte) Bloom {
	var bloom Bloom
	bloom.SetBytes(b)
	return bloom
}

// SetBytes sets the content of b to the given bytes, right-aligned.
func (b *Bloom) SetBytes(d []byte) {
	if len(b) < len(d) {
		panic(fmt.Sprintf("bloom bytes too big %d %d", len(b), len(d)))
	}
	copy(b[BloomByteLength-len(d):], d)
}

// Add adds data to the bloom filter.
func (b *Bloom) Add(d []byte) {
	h := crypto.Keccak256(d)
	for i := 0; i < 6; i += 2 {
		bit := (uint(h[i+1]) + (uint(h[i]) << 8)) & 2047
		b[BloomByteLength-1-bit/8] |= 1 << (bit % 8)
	}
}

// Big converts b to a big integer.
func (b Bloom) Big() *big.Int {
	return new(big.Int).SetBytes(b[:])
}

// Bytes returns the backing byte slice of the bloom filter.
func (b Bloom) Bytes() []byte {
	return b[:]
}

// Test checks if the given topic is present in the bloom filter.
func (b Bloom) Test(topic []byte) bool {
	var probe Bloom
	probe.Add(topic)
	for i := range probe {
		if probe[i]&b[i] != probe[i] {
			return false
		}
	}
	return true
}

// MarshalText encodes b as a hex string with a 0x prefix.
func (b Bloom) MarshalText() ([]byte, error) {
	result := make([]byte, len(b)*2+2)
	copy(result, "0x")
	const hextable = "0123456789abcdef"
	for i, v := range b {
		result[2+i*2] = hextable[v>>4]
		result[3+i*2] = hextable[v&0x0f]
	}
	return result, nil
}

// Bloom9 returns the bloom filter for a single item of data.
func Bloom9(data []byte) []byte {
	var b Bloom
	b.Add(data)
	return b.Bytes()
}

// BloomLookup tests if topic is present in bloom.
func BloomLookup(bloom Bloom, topic types.Hash) bool {
	return bloom.Test(topic.Bytes())
}

// LogsBloom computes the bloom filter covering the address and topics of
// every log in logs, returned as a 256-byte slice.
func LogsBloom(logs []*Log) []byte {
	var b Bloom
	for _, log := range logs {
		b.Add(log.Address.Bytes())
		for _, topic := range log.Topics {
			b.Add(topic.Bytes())
		}
	}
	return b.Bytes()
}

// CreateBloom computes the aggregate bloom filter over every log in every
// receipt.
func CreateBloom(receipts Receipts) Bloom {
	var b Bloom
	for _, receipt := range receipts {
		for _, log := range receipt.Logs {
			b.Add(log.Address.Bytes())
			for _, topic := range log.Topics {
				b.Add(topic.Bytes())
			}
		}
	}
	return b
}

// BlockNonce is a 64-bit proof-of-work nonce carried in a block header.
// It is not produced or consumed by the interpreter; it lives here only as
// the type receipts/headers are built from elsewhere in the stack.
type BlockNonce [8]byte

// Log represents a single EVM log entry, produced by the LOG0-LOG4
// instructions and recorded by the state layer's AddLog.
type Log struct {
	// Consensus fields
	Address types.Address
	Topics  []types.Hash
	Data    []byte

	// Derived fields, filled in once the transaction has been placed in a
	// block (zero-valued while execution is still in flight).
	BlockNumber *uint256.Int
	TxHash      types.Hash
	TxIndex     uint
	BlockHash   types.Hash
	Index       uint

	// Removed is true if the log was reverted due to a chain reorganisation.
	Removed bool
}

// Logs is a slice of logs, typically all belonging to one transaction or
// one block.
type Logs []*Log

// LogProto is a plain, hand-written mirror of Log suitable for handing to a
// wire/RPC layer outside this engine. It intentionally does not use
// generated protobuf code: no .proto definition for logs ships in this
// engine's scope, and fabricating one would invent a wire contract nothing
// else here consumes.
type LogProto struct {
	Address     []byte
	Topics      [][]byte
	Data        []byte
	BlockNumber uint64
	TxHash      []byte
	TxIndex     uint32
	BlockHash   []byte
	Index       uint32
	Removed     bool
}

// ToProtoMessage converts the log into its LogProto mirror.
func (l *Log) ToProtoMessage() *LogProto {
	topics := make([][]byte, len(l.Topics))
	for i, t := range l.Topics {
		topics[i] = t.Bytes()
	}
	var blockNumber uint64
	if l.BlockNumber != nil {
		blockNumber = l.BlockNumber.Uint64()
	}
	return &LogProto{
		Address:     l.Address.Bytes(),
		Topics:      topics,
		Data:        l.Data,
		BlockNumber: blockNumber,
		TxHash:      l.TxHash.Bytes(),
		TxIndex:     uint32(l.TxIndex),
		BlockHash:   l.BlockHash.Bytes(),
		Index:       uint32(l.Index),
		Removed:     l.Removed,
	}
}

// ReceiptStatus values, per EIP-658.
const (
	ReceiptStatusFailed     = uint64(0)
	ReceiptStatusSuccessful = uint64(1)
)

// Receipt is the outcome of executing one transaction: whether it
// succeeded, how much gas it used, and the logs it emitted.
type Receipt struct {
	Status            uint64
	CumulativeGasUsed uint64
	Bloom             Bloom
	Logs              []*Log

	TxHash          types.Hash
	ContractAddress types.Address
	GasUsed         uint64
}

// Receipts is a slice of receipts, typically all belonging to one block.
type Receipts []*Receipt
