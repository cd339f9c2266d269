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
	"math"

	"github.com/holiman/uint256"
)

// Fixed per-step gas costs, named the way the yellow paper groups them.
const (
	GasQuickStep   uint64 = 2
	GasFastestStep uint64 = 3
	GasFastStep    uint64 = 5
	GasMidStep     uint64 = 8
	GasSlowStep    uint64 = 10
	GasExtStep     uint64 = 20
)

// safeAdd returns a+b and whether the addition overflowed uint64.
func safeAdd(a, b uint64) (uint64, bool) {
	sum := a + b
	return sum, sum < a
}

// safeMul returns a*b and whether the multiplication overflowed uint64.
func safeMul(a, b uint64) (uint64, bool) {
	if a == 0 || b == 0 {
		return 0, false
	}
	result := a * b
	return result, result/a != b
}

// toWordSize rounds size up to the nearest multiple of 32, in words, the
// unit memory-expansion gas is charged in.
func toWordSize(size uint64) uint64 {
	if size > math.MaxUint64-31 {
		return math.MaxUint64/32 + 1
	}
	return (size + 31) / 32
}

// ToWordSize is the exported form of toWordSize, used by precompile gas
// schedules outside this package.
func ToWordSize(size uint64) uint64 {
	return toWordSize(size)
}

// callGas computes the gas to give to a callee under EIP-150's
// all-but-one-64th rule, or the requested cost verbatim pre-EIP-150.
func callGas(isEip150 bool, availableGas, base uint64, callCost *uint256.Int) (uint64, error) {
	if isEip150 {
		availableGas = availableGas - base
		gas := availableGas - availableGas/64
		if !callCost.IsUint64() || gas < callCost.Uint64() {
			return gas, nil
		}
		return callCost.Uint64(), nil
	}
	if !callCost.IsUint64() {
		return 0, ErrGasUintOverflow
	}
	return callCost.Uint64(), nil
}

// calcMemSize64 returns the memory size (offset+length, in bytes) needed
// for a zero-offset-relative access of length l starting at off, and
// whether computing it overflowed uint64. A zero length never needs
// memory, regardless of offset.
func calcMemSize64(off, l *uint256.Int) (uint64, bool) {
	if l.IsZero() {
		return 0, false
	}
	if !l.IsUint64() {
		return 0, true
	}
	return calcMemSize64WithUint(off, l.Uint64())
}

// calcMemSize64WithUint is calcMemSize64 for a length already known to
// fit in uint64 (the common case: a constant or already-validated size).
func calcMemSize64WithUint(off *uint256.Int, length64 uint64) (uint64, bool) {
	if length64 == 0 {
		return 0, false
	}
	if !off.IsUint64() {
		return 0, true
	}
	return safeAdd(off.Uint64(), length64)
}

// getData returns size bytes of data starting at start, zero-padded if
// the requested range runs past the end of data.
func getData(data []byte, start, size uint64) []byte {
	length := uint64(len(data))
	if start > length {
		start = length
	}
	end := start + size
	if end > length {
		end = length
	}
	result := make([]byte, size)
	copy(result, data[start:end])
	return result
}

// getDataBig is getData with a 256-bit start offset, used where the
// offset comes straight off the stack and may not fit in uint64.
func getDataBig(data []byte, start *uint256.Int, size uint64) []byte {
	if !start.IsUint64() {
		return getData(data, math.MaxUint64, size)
	}
	return getData(data, start.Uint64(), size)
}

// allZero reports whether every byte of data is zero.
func allZero(data []byte) bool {
	for _, b := range data {
		if b != 0 {
			return false
		}
	}
	return true
}
