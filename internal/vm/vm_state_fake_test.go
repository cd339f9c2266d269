// Copyright 2022-2026 The N42 Authors
// This file is part of the N42 library.

package vm

import (
	"github.com/holiman/uint256"

	"github.com/n42blockchain/N42/common/block"
	"github.com/n42blockchain/N42/common/transaction"
	"github.com/n42blockchain/N42/common/types"
)

// fakeState is a minimal in-memory common.StateDB used only by this
// package's tests: no tries, no persistence, just enough bookkeeping to
// drive EVM.Call/Create through a handful of opcodes and observe the
// result.
type fakeState struct {
	balances  map[types.Address]*uint256.Int
	nonces    map[types.Address]uint64
	code      map[types.Address][]byte
	codeHash  map[types.Address]types.Hash
	storage   map[types.Address]map[types.Hash]uint256.Int
	transient map[types.Address]map[types.Hash]uint256.Int
	destructed map[types.Address]bool
	exists    map[types.Address]bool
	refund    uint64
	logs      []*block.Log
	nextSnap  int
	snapshots map[int]fakeStateSnapshot
}

type fakeStateSnapshot struct {
	balances map[types.Address]uint256.Int
	nonces   map[types.Address]uint64
	code     map[types.Address][]byte
	storage  map[types.Address]map[types.Hash]uint256.Int
	refund   uint64
}

func newFakeState() *fakeState {
	return &fakeState{
		balances:   make(map[types.Address]*uint256.Int),
		nonces:     make(map[types.Address]uint64),
		code:       make(map[types.Address][]byte),
		codeHash:   make(map[types.Address]types.Hash),
		storage:    make(map[types.Address]map[types.Hash]uint256.Int),
		transient:  make(map[types.Address]map[types.Hash]uint256.Int),
		destructed: make(map[types.Address]bool),
		exists:     make(map[types.Address]bool),
		snapshots:  make(map[int]fakeStateSnapshot),
	}
}

func (s *fakeState) CreateAccount(addr types.Address, _ bool) {
	s.exists[addr] = true
	if s.balances[addr] == nil {
		s.balances[addr] = new(uint256.Int)
	}
}

func (s *fakeState) Exist(addr types.Address) bool { return s.exists[addr] }

func (s *fakeState) Empty(addr types.Address) bool {
	if !s.exists[addr] {
		return true
	}
	bal := s.balances[addr]
	return (bal == nil || bal.IsZero()) && s.nonces[addr] == 0 && len(s.code[addr]) == 0
}

func (s *fakeState) SubBalance(addr types.Address, amount *uint256.Int) {
	s.exists[addr] = true
	if s.balances[addr] == nil {
		s.balances[addr] = new(uint256.Int)
	}
	s.balances[addr].Sub(s.balances[addr], amount)
}

func (s *fakeState) AddBalance(addr types.Address, amount *uint256.Int) {
	s.exists[addr] = true
	if s.balances[addr] == nil {
		s.balances[addr] = new(uint256.Int)
	}
	s.balances[addr].Add(s.balances[addr], amount)
}

func (s *fakeState) GetBalance(addr types.Address) *uint256.Int {
	if s.balances[addr] == nil {
		return new(uint256.Int)
	}
	return s.balances[addr]
}

func (s *fakeState) GetNonce(addr types.Address) uint64         { return s.nonces[addr] }
func (s *fakeState) SetNonce(addr types.Address, nonce uint64)  { s.exists[addr] = true; s.nonces[addr] = nonce }

func (s *fakeState) GetCodeHash(addr types.Address) types.Hash { return s.codeHash[addr] }

func (s *fakeState) GetCode(addr types.Address) []byte { return s.code[addr] }

func (s *fakeState) SetCode(addr types.Address, code []byte) {
	s.exists[addr] = true
	s.code[addr] = code
	s.codeHash[addr] = types.Hash{}
}

func (s *fakeState) GetCodeSize(addr types.Address) int { return len(s.code[addr]) }

func (s *fakeState) AddRefund(gas uint64) { s.refund += gas }
func (s *fakeState) SubRefund(gas uint64) { s.refund -= gas }
func (s *fakeState) GetRefund() uint64    { return s.refund }

func (s *fakeState) GetCommittedState(addr types.Address, key *types.Hash, outValue *uint256.Int) {
	s.GetState(addr, key, outValue)
}

func (s *fakeState) GetState(addr types.Address, key *types.Hash, outValue *uint256.Int) {
	if m, ok := s.storage[addr]; ok {
		if v, ok := m[*key]; ok {
			outValue.Set(&v)
			return
		}
	}
	outValue.Clear()
}

func (s *fakeState) SetState(addr types.Address, key *types.Hash, value uint256.Int) {
	if s.storage[addr] == nil {
		s.storage[addr] = make(map[types.Hash]uint256.Int)
	}
	s.storage[addr][*key] = value
}

func (s *fakeState) Selfdestruct(addr types.Address) bool {
	already := s.destructed[addr]
	s.destructed[addr] = true
	s.balances[addr] = new(uint256.Int)
	return !already
}

func (s *fakeState) HasSelfdestructed(addr types.Address) bool { return s.destructed[addr] }

func (s *fakeState) PrepareAccessList(types.Address, *types.Address, []types.Address, transaction.AccessList) {
}
func (s *fakeState) AddressInAccessList(types.Address) bool { return false }
func (s *fakeState) SlotInAccessList(types.Address, types.Hash) (bool, bool) { return false, false }
func (s *fakeState) AddAddressToAccessList(types.Address)                   {}
func (s *fakeState) AddSlotToAccessList(types.Address, types.Hash)          {}

func (s *fakeState) Snapshot() int {
	id := s.nextSnap
	s.nextSnap++

	balances := make(map[types.Address]uint256.Int, len(s.balances))
	for a, b := range s.balances {
		balances[a] = *b
	}
	nonces := make(map[types.Address]uint64, len(s.nonces))
	for a, n := range s.nonces {
		nonces[a] = n
	}
	code := make(map[types.Address][]byte, len(s.code))
	for a, c := range s.code {
		code[a] = c
	}
	storage := make(map[types.Address]map[types.Hash]uint256.Int, len(s.storage))
	for a, m := range s.storage {
		cp := make(map[types.Hash]uint256.Int, len(m))
		for k, v := range m {
			cp[k] = v
		}
		storage[a] = cp
	}
	s.snapshots[id] = fakeStateSnapshot{balances: balances, nonces: nonces, code: code, storage: storage, refund: s.refund}
	return id
}

func (s *fakeState) RevertToSnapshot(id int) {
	snap, ok := s.snapshots[id]
	if !ok {
		return
	}
	s.balances = make(map[types.Address]*uint256.Int, len(snap.balances))
	for a, b := range snap.balances {
		v := b
		s.balances[a] = &v
	}
	s.nonces = snap.nonces
	s.code = snap.code
	s.storage = snap.storage
	s.refund = snap.refund
}

func (s *fakeState) AddLog(log *block.Log) { s.logs = append(s.logs, log) }

func (s *fakeState) GetTransientState(addr types.Address, key types.Hash) uint256.Int {
	if m, ok := s.transient[addr]; ok {
		if v, ok := m[key]; ok {
			return v
		}
	}
	return uint256.Int{}
}

func (s *fakeState) SetTransientState(addr types.Address, key types.Hash, value uint256.Int) {
	if s.transient[addr] == nil {
		s.transient[addr] = make(map[types.Hash]uint256.Int)
	}
	s.transient[addr][key] = value
}
