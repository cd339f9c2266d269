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

// Package params carries the chain configuration the interpreter is
// parameterized by: which hardfork's rules apply at a given block number
// and timestamp, and the handful of protocol constants (gas schedule
// knobs, size limits) those rules gate. Consensus rules beyond "which
// opcodes/gas costs/limits apply" (difficulty adjustment, fork choice,
// block validation) are outside this engine's scope.
package params

import "math/big"

// ChainConfig describes a chain's fork schedule: the block number (for
// pre-Merge forks) or timestamp (for post-Merge forks) at which each
// hardfork's rules take effect. A nil field means that fork is not
// scheduled.
type ChainConfig struct {
	ChainID *big.Int

	HomesteadBlock      *big.Int
	TangerineWhistleBlock *big.Int
	SpuriousDragonBlock *big.Int
	ByzantiumBlock      *big.Int
	ConstantinopleBlock *big.Int
	PetersburgBlock     *big.Int
	IstanbulBlock       *big.Int
	BerlinBlock         *big.Int
	LondonBlock         *big.Int

	ShanghaiTime *uint64
	CancunTime   *uint64
	// PragueTime is when the Prague execution-layer fork activates.
	// PectraTime is kept as an alias some call sites use for the combined
	// Prague/Electra upgrade; both are set together in AllProtocolChanges.
	// MainnetChainConfig schedules neither.
	PragueTime *uint64
	PectraTime *uint64
	OsakaTime  *uint64
}

func isBlockActive(fork *big.Int, num *big.Int) bool {
	return fork != nil && num != nil && fork.Cmp(num) <= 0
}

func isTimeActive(fork *uint64, time uint64) bool {
	return fork != nil && *fork <= time
}

// Rules is the set of hardfork rules active at a specific (block, time)
// pair, the shape the interpreter and jump table builders actually
// consult — flattened out of ChainConfig so that checking "is Cancun
// active" is a field read, not a set of big.Int comparisons per opcode.
type Rules struct {
	ChainID *big.Int

	IsHomestead        bool
	IsTangerineWhistle bool
	IsSpuriousDragon   bool
	IsByzantium        bool
	IsConstantinople   bool
	IsPetersburg       bool
	IsIstanbul         bool
	IsBerlin           bool
	IsLondon           bool
	IsShanghai         bool
	IsCancun           bool
	IsPrague           bool
	IsPectra           bool
	IsOsaka            bool
}

// Rules returns the flattened rule set active at the given block number
// and timestamp.
func (c *ChainConfig) Rules(num *big.Int, time uint64) Rules {
	chainID := c.ChainID
	if chainID == nil {
		chainID = new(big.Int)
	}
	return Rules{
		ChainID:            chainID,
		IsHomestead:        isBlockActive(c.HomesteadBlock, num),
		IsTangerineWhistle: isBlockActive(c.TangerineWhistleBlock, num),
		IsSpuriousDragon:   isBlockActive(c.SpuriousDragonBlock, num),
		IsByzantium:        isBlockActive(c.ByzantiumBlock, num),
		IsConstantinople:   isBlockActive(c.ConstantinopleBlock, num),
		IsPetersburg:       isBlockActive(c.PetersburgBlock, num),
		IsIstanbul:         isBlockActive(c.IstanbulBlock, num),
		IsBerlin:           isBlockActive(c.BerlinBlock, num),
		IsLondon:           isBlockActive(c.LondonBlock, num),
		IsShanghai:         isTimeActive(c.ShanghaiTime, time),
		IsCancun:           isTimeActive(c.CancunTime, time),
		IsPrague:           isTimeActive(c.PragueTime, time),
		IsPectra:           isTimeActive(c.PectraTime, time),
		IsOsaka:            isTimeActive(c.OsakaTime, time),
	}
}

// MainnetChainConfig is the fork schedule for Ethereum mainnet, hardfork
// blocks/times taken from the published EIP activation schedule.
var MainnetChainConfig = &ChainConfig{
	ChainID:               big.NewInt(1),
	HomesteadBlock:        big.NewInt(1_150_000),
	TangerineWhistleBlock: big.NewInt(2_463_000),
	SpuriousDragonBlock:   big.NewInt(2_675_000),
	ByzantiumBlock:        big.NewInt(4_370_000),
	ConstantinopleBlock:   big.NewInt(7_280_000),
	PetersburgBlock:       big.NewInt(7_280_000),
	IstanbulBlock:         big.NewInt(9_069_000),
	BerlinBlock:           big.NewInt(12_244_000),
	LondonBlock:           big.NewInt(12_965_000),
	ShanghaiTime:          u64ptr(1_681_338_455),
	CancunTime:            u64ptr(1_710_338_135),
}

// AllProtocolChanges is a chain config with every fork from Homestead
// through Prague/Pectra enabled from genesis (block/time 0). OsakaTime is
// left nil, so Osaka rules are never active under it. It has no
// correspondence to any real chain; it exists so tests and the runtime
// package's zero-config default can exercise these rules without pinning
// real mainnet block numbers.
var AllProtocolChanges = &ChainConfig{
	ChainID:               big.NewInt(1),
	HomesteadBlock:        big.NewInt(0),
	TangerineWhistleBlock: big.NewInt(0),
	SpuriousDragonBlock:   big.NewInt(0),
	ByzantiumBlock:        big.NewInt(0),
	ConstantinopleBlock:   big.NewInt(0),
	PetersburgBlock:       big.NewInt(0),
	IstanbulBlock:         big.NewInt(0),
	BerlinBlock:           big.NewInt(0),
	LondonBlock:           big.NewInt(0),
	ShanghaiTime:          u64ptr(0),
	CancunTime:            u64ptr(0),
	PragueTime:            u64ptr(0),
	PectraTime:            u64ptr(0),
}

func u64ptr(v uint64) *uint64 { return &v }
