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

package vm

import (
	"github.com/holiman/uint256"
)

// Memory is the EVM's grow-only, byte-addressable, word-expanding scratch
// space. It never shrinks within a call: Resize only ever grows the
// backing store, matching the EVM's memory-expansion gas model where
// paying once for a size keeps that size available for the rest of the
// call.
type Memory struct {
	store       []byte
	lastGasCost uint64
}

// NewMemory returns an empty Memory with a 4KB initial backing capacity
// to absorb the common case without a reallocation.
func NewMemory() *Memory {
	return &Memory{store: GetMemory(4 * 1024)[:0]}
}

// Resize grows the memory to size bytes if it is not already that large.
// size is always a multiple of 32 by the time the interpreter calls this
// (the gas calculator rounds up to the nearest word first). Growth goes
// through the size-classed pool in pool.go rather than append, so a call
// frame that grows memory several times during execution recycles the
// same backing arrays other frames already grew to that size.
func (m *Memory) Resize(size uint64) {
	if uint64(len(m.store)) >= size {
		return
	}
	if uint64(cap(m.store)) >= size {
		m.store = m.store[:size]
		return
	}
	grown := GetMemory(int(size))
	copy(grown, m.store)
	if cap(m.store) > 0 {
		PutMemory(m.store)
	}
	m.store = grown
}

// Set writes data into memory starting at offset, for size bytes. size
// may be less than len(data); only the first size bytes are copied. A
// zero size is a no-op, even if offset is out of the current bounds.
func (m *Memory) Set(offset, size uint64, data []byte) {
	if size == 0 {
		return
	}
	if offset+size > uint64(len(m.store)) {
		return
	}
	copy(m.store[offset:offset+size], data)
}

// Set32 writes val, right-aligned in 32 bytes (big-endian), to offset.
// Used by opcodes that push a stack word into memory (MSTORE et al).
func (m *Memory) Set32(offset uint64, val *uint256.Int) {
	if offset+32 > uint64(len(m.store)) {
		return
	}
	val.WriteToSlice(m.store[offset : offset+32])
}

// Resize to: go-ethereum's Memory.Set32 zero-fills first then writes;
// WriteToSlice already zero-pads the high bytes, so no separate clear is
// needed here.

// GetCopy returns an independent copy of size bytes starting at offset.
// Returns nil for a zero size, or if the range falls outside memory.
func (m *Memory) GetCopy(offset, size int64) []byte {
	if size == 0 {
		return nil
	}
	if offset < 0 || size < 0 || offset+size > int64(len(m.store)) {
		return nil
	}
	cpy := make([]byte, size)
	copy(cpy, m.store[offset:offset+size])
	return cpy
}

// GetPtr returns a slice referencing memory's own backing array, for
// callers (opcode handlers reading their own inputs) that only need a
// read-only view for the duration of the current instruction. Returns
// nil for a zero size.
func (m *Memory) GetPtr(offset, size int64) []byte {
	if size == 0 {
		return nil
	}
	if offset < 0 || size < 0 || offset+size > int64(len(m.store)) {
		return nil
	}
	return m.store[offset : offset+size]
}

// Copy performs an in-memory MCOPY: copies length bytes from src to dst,
// using Go's copy() semantics so overlapping ranges behave like memmove.
func (m *Memory) Copy(dst, src, length uint64) {
	if length == 0 {
		return
	}
	copy(m.store[dst:dst+length], m.store[src:src+length])
}

// Len returns the current size of memory in bytes.
func (m *Memory) Len() int {
	return len(m.store)
}

// Data returns the entire backing array. Callers must not retain it past
// the next Resize (which may reallocate).
func (m *Memory) Data() []byte {
	return m.store
}

// Reset empties memory and clears the last-expansion gas cost tracked
// for the quadratic memory-expansion formula. The backing array goes
// back to the size-classed pool so the next call frame to reach this
// size skips the allocation entirely.
func (m *Memory) Reset() {
	if cap(m.store) > 0 {
		PutMemory(m.store[:cap(m.store)])
	}
	m.store = nil
	m.lastGasCost = 0
}
