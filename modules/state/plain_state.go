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
	"sync"

	"github.com/holiman/uint256"
	"github.com/n42blockchain/N42/common/account"
	"github.com/n42blockchain/N42/common/types"
)

// storageKey identifies one storage slot of one account.
type storageKey struct {
	addr types.Address
	key  types.Hash
}

// PlainDatabase is the backing key-value store PlainStateReader and
// PlainStateWriter read through to and write through to: plain (un-hashed)
// accounts, code and storage slots, keyed directly by address. It is the
// seam this engine's state overlay is built against; a production
// deployment backs it with mdbx (or any other ordered KV store) behind
// this same shape, but persistence and its transaction/cursor machinery
// are outside this engine's scope, so the only implementation here is an
// in-memory one exercised by the overlay and its tests.
type PlainDatabase struct {
	mu          sync.RWMutex
	accounts    map[types.Address]*account.StateAccount
	code        map[types.Hash][]byte
	storage     map[storageKey][]byte
	incarnation map[types.Address]uint16
}

// NewPlainDatabase returns an empty in-memory plain-state database.
func NewPlainDatabase() *PlainDatabase {
	return &PlainDatabase{
		accounts:    make(map[types.Address]*account.StateAccount),
		code:        make(map[types.Hash][]byte),
		storage:     make(map[storageKey][]byte),
		incarnation: make(map[types.Address]uint16),
	}
}

// PlainStateReader reads accounts, code and storage from the un-hashed
// "plain state" representation of the backing database.
type PlainStateReader struct {
	db *PlainDatabase
}

// NewPlainStateReader returns a PlainStateReader reading through to db.
func NewPlainStateReader(db *PlainDatabase) *PlainStateReader {
	return &PlainStateReader{db: db}
}

func (r *PlainStateReader) ReadAccountData(address types.Address) (*account.StateAccount, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	acc, ok := r.db.accounts[address]
	if !ok {
		return nil, nil
	}
	return acc.SelfCopy(), nil
}

func (r *PlainStateReader) ReadAccountStorage(address types.Address, incarnation uint16, key *types.Hash) ([]byte, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	v, ok := r.db.storage[storageKey{address, *key}]
	if !ok {
		return nil, nil
	}
	return v, nil
}

func (r *PlainStateReader) ReadAccountCode(address types.Address, incarnation uint16, codeHash types.Hash) ([]byte, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	return r.db.code[codeHash], nil
}

func (r *PlainStateReader) ReadAccountCodeSize(address types.Address, incarnation uint16, codeHash types.Hash) (int, error) {
	code, err := r.ReadAccountCode(address, incarnation, codeHash)
	if err != nil {
		return 0, err
	}
	return len(code), nil
}

func (r *PlainStateReader) ReadAccountIncarnation(address types.Address) (uint16, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	return r.db.incarnation[address], nil
}

// PlainStateWriter writes accounts, code and storage changes to the plain
// state representation, optionally accumulating a change set as it goes
// (WriteChangeSets/WriteHistory are no-ops here: history/pruning storage
// is outside this engine's scope, which only needs the current overlay to
// durably commit somewhere).
type PlainStateWriter struct {
	db *PlainDatabase
}

// NewPlainStateWriter returns a PlainStateWriter writing through to db.
func NewPlainStateWriter(db *PlainDatabase) *PlainStateWriter {
	return &PlainStateWriter{db: db}
}

func (w *PlainStateWriter) UpdateAccountData(address types.Address, original, acc *account.StateAccount) error {
	w.db.mu.Lock()
	defer w.db.mu.Unlock()
	w.db.accounts[address] = acc.SelfCopy()
	return nil
}

func (w *PlainStateWriter) UpdateAccountCode(address types.Address, incarnation uint16, codeHash types.Hash, code []byte) error {
	w.db.mu.Lock()
	defer w.db.mu.Unlock()
	w.db.code[codeHash] = code
	return nil
}

func (w *PlainStateWriter) DeleteAccount(address types.Address, original *account.StateAccount) error {
	w.db.mu.Lock()
	defer w.db.mu.Unlock()
	delete(w.db.accounts, address)
	return nil
}

func (w *PlainStateWriter) WriteAccountStorage(address types.Address, incarnation uint16, key *types.Hash, original, value *uint256.Int) error {
	w.db.mu.Lock()
	defer w.db.mu.Unlock()
	sk := storageKey{address, *key}
	if value == nil || value.IsZero() {
		delete(w.db.storage, sk)
		return nil
	}
	w.db.storage[sk] = value.Bytes()
	return nil
}

func (w *PlainStateWriter) CreateContract(address types.Address) error {
	w.db.mu.Lock()
	defer w.db.mu.Unlock()
	w.db.incarnation[address]++
	return nil
}

func (w *PlainStateWriter) WriteChangeSets() error {
	return nil
}

func (w *PlainStateWriter) WriteHistory() error {
	return nil
}

// HistoryStateReader reads account/storage/code as of a past block number,
// by reading the current plain state and ignoring everything written
// after asOf. Real historical reconstruction (replaying change sets
// backwards) is outside this engine's scope; this reader exists so
// call sites that need "state reader as of block N" for an EVM call
// (eth_call at a historical block, trace replay) have a concrete type to
// hold, even though this engine does not implement chain history itself.
type HistoryStateReader struct {
	db   *PlainDatabase
	asOf uint64
}

// NewHistoryStateReader returns a HistoryStateReader over db, pinned at
// block asOf.
func NewHistoryStateReader(db *PlainDatabase, asOf uint64) *HistoryStateReader {
	return &HistoryStateReader{db: db, asOf: asOf}
}

func (r *HistoryStateReader) ReadAccountData(address types.Address) (*account.StateAccount, error) {
	return (&PlainStateReader{db: r.db}).ReadAccountData(address)
}

func (r *HistoryStateReader) ReadAccountStorage(address types.Address, incarnation uint16, key *types.Hash) ([]byte, error) {
	return (&PlainStateReader{db: r.db}).ReadAccountStorage(address, incarnation, key)
}

func (r *HistoryStateReader) ReadAccountCode(address types.Address, incarnation uint16, codeHash types.Hash) ([]byte, error) {
	return (&PlainStateReader{db: r.db}).ReadAccountCode(address, incarnation, codeHash)
}

func (r *HistoryStateReader) ReadAccountCodeSize(address types.Address, incarnation uint16, codeHash types.Hash) (int, error) {
	return (&PlainStateReader{db: r.db}).ReadAccountCodeSize(address, incarnation, codeHash)
}

func (r *HistoryStateReader) ReadAccountIncarnation(address types.Address) (uint16, error) {
	return (&PlainStateReader{db: r.db}).ReadAccountIncarnation(address)
}
