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

// Package runtime is a convenience entry point for running a piece of
// EVM bytecode directly, without assembling a full block and
// transaction: Execute deploys-and-calls in one step, Create runs init
// code, Call invokes an already-deployed contract. It mirrors
// go-ethereum's core/vm/runtime package.
package runtime

import (
	"errors"
	"math/big"
	"time"

	"github.com/holiman/uint256"

	"github.com/n42blockchain/N42/common/crypto"
	"github.com/n42blockchain/N42/common/types"
	"github.com/n42blockchain/N42/internal/vm"
	"github.com/n42blockchain/N42/internal/vm/evmtypes"
	"github.com/n42blockchain/N42/internal/vm/precompiles"
	"github.com/n42blockchain/N42/params"
)

// Config bundles everything Execute/Create/Call need to build a
// BlockContext/TxContext and an EVM around a single piece of code.
// Any field left zero is filled in by setDefaults.
type Config struct {
	ChainConfig *params.ChainConfig
	Difficulty  *big.Int
	Origin      types.Address
	Coinbase    types.Address
	BlockNumber *big.Int
	Time        *big.Int
	GasLimit    uint64
	GasPrice    *uint256.Int
	Value       *uint256.Int
	BaseFee     *uint256.Int
	EVMConfig   vm.Config
	GetHashFn   func(n uint64) types.Hash

	// State is the account/storage backing this run executes against.
	// This package never constructs one itself: that needs a real
	// modules/state.PlainDatabase, which is a dependency this package
	// has no business owning. Execute/Create/Call return ErrNoState if
	// it is left nil.
	State evmtypes.IntraBlockState
}

// ErrNoState is returned by Execute/Create/Call when cfg.State is nil.
var ErrNoState = errors.New("runtime: Config.State must be set")

// setDefaults fills every zero-valued field of cfg with a sensible
// default, preserving whatever the caller already set. The defaulted
// chain config enables every fork through Prague/Pectra from genesis, so
// a bare &Config{} runs against Prague/Pectra rules; Osaka is not
// scheduled in it.
func setDefaults(cfg *Config) {
	if cfg.ChainConfig == nil {
		cfg.ChainConfig = params.AllProtocolChanges
	}
	if cfg.Difficulty == nil {
		cfg.Difficulty = new(big.Int)
	}
	if cfg.Time == nil {
		cfg.Time = big.NewInt(time.Now().Unix())
	}
	if cfg.GasLimit == 0 {
		cfg.GasLimit = 30_000_000
	}
	if cfg.GasPrice == nil {
		cfg.GasPrice = new(uint256.Int)
	}
	if cfg.Value == nil {
		cfg.Value = new(uint256.Int)
	}
	if cfg.BlockNumber == nil {
		cfg.BlockNumber = new(big.Int)
	}
	if cfg.GetHashFn == nil {
		cfg.GetHashFn = func(n uint64) types.Hash {
			return crypto.Keccak256Hash([]byte(new(big.Int).SetUint64(n).String()))
		}
	}
}

// NewEnv builds the EVM cfg describes, with a precompile registry
// matching cfg.ChainConfig's rules at cfg.BlockNumber/cfg.Time wired in.
func NewEnv(cfg *Config) *vm.EVM {
	rules := cfg.ChainConfig.Rules(cfg.BlockNumber, cfg.Time.Uint64())

	blockCtx := evmtypes.BlockContext{
		CanTransfer: CanTransfer,
		Transfer:    Transfer,
		GetHash:     cfg.GetHashFn,
		Coinbase:    cfg.Coinbase,
		BlockNumber: cfg.BlockNumber.Uint64(),
		Time:        cfg.Time.Uint64(),
		Difficulty:  cfg.Difficulty,
		GasLimit:    cfg.GasLimit,
		BaseFee:     cfg.BaseFee,
	}
	txCtx := evmtypes.TxContext{
		Origin:   cfg.Origin,
		GasPrice: cfg.GasPrice,
	}
	registry := precompiles.NewRegistry(&rules)
	return vm.NewEVMWithPrecompiles(blockCtx, txCtx, cfg.State, cfg.ChainConfig, cfg.EVMConfig, registry)
}

// CanTransfer reports whether addr's balance covers amount; the default
// transfer guard used when a caller builds a BlockContext by hand
// elsewhere and wants the same rule Execute/Create/Call use.
func CanTransfer(state evmtypes.IntraBlockState, addr types.Address, amount *uint256.Int) bool {
	return state.GetBalance(addr).Cmp(amount) >= 0
}

// Transfer moves amount from sender to recipient unconditionally; the
// bailout flag is accepted for interface parity but unused here, since
// this package never skips a transfer it was asked to make.
func Transfer(state evmtypes.IntraBlockState, sender, recipient types.Address, amount *uint256.Int, bailout bool) {
	state.SubBalance(sender, amount)
	state.AddBalance(recipient, amount)
}

// Execute deploys code as a fresh contract and immediately calls it with
// input, returning the call's return data and the gas left.
func Execute(code, input []byte, cfg *Config) ([]byte, evmtypes.IntraBlockState, uint64, error) {
	if cfg == nil {
		cfg = new(Config)
	}
	setDefaults(cfg)
	if cfg.State == nil {
		return nil, nil, 0, ErrNoState
	}

	address := types.HexToAddress("0xffffffffffffffffffffffffffffffffffffffff")
	vmenv := NewEnv(cfg)

	sender := vm.AccountRef(cfg.Origin)
	cfg.State.CreateAccount(address, true)
	cfg.State.SetCode(address, code)

	ret, leftOverGas, err := vmenv.Call(sender, address, input, cfg.GasLimit, cfg.Value, false)
	return ret, cfg.State, leftOverGas, err
}

// Create runs code as init code via CREATE, returning the deployed
// runtime code, the address it landed at, and the gas left.
func Create(input []byte, cfg *Config) ([]byte, types.Address, uint64, error) {
	if cfg == nil {
		cfg = new(Config)
	}
	setDefaults(cfg)
	if cfg.State == nil {
		return nil, types.Address{}, 0, ErrNoState
	}

	vmenv := NewEnv(cfg)
	sender := vm.AccountRef(cfg.Origin)

	ret, addr, leftOverGas, err := vmenv.Create(sender, input, cfg.GasLimit, cfg.Value)
	return ret, addr, leftOverGas, err
}

// Call invokes the already-deployed contract at address with input,
// without deploying anything first.
func Call(address types.Address, input []byte, cfg *Config) ([]byte, uint64, error) {
	if cfg == nil {
		cfg = new(Config)
	}
	setDefaults(cfg)
	if cfg.State == nil {
		return nil, 0, ErrNoState
	}

	vmenv := NewEnv(cfg)
	sender := vm.AccountRef(cfg.Origin)

	ret, leftOverGas, err := vmenv.Call(sender, address, input, cfg.GasLimit, cfg.Value, false)
	return ret, leftOverGas, err
}
