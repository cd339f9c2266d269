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

import "github.com/holiman/uint256"

// codeBitmap marks every byte of code that is a JUMPDEST-eligible
// instruction position (i.e. not a PUSH-data byte) with a 1 bit, one bit
// per code byte. JUMP/JUMPI validate their target against this bitmap
// rather than re-scanning code from offset zero on every jump.
func codeBitmap(code []byte) []uint64 {
	bits := make([]uint64, len(code)/64+1)
	for pc := uint64(0); pc < uint64(len(code)); {
		setBit(bits, pc)
		op := OpCode(code[pc])
		pc++
		if op >= PUSH1 && op <= PUSH32 {
			pc += uint64(op - PUSH1 + 1)
		}
	}
	return bits
}

func setBit(bits []uint64, pos uint64) {
	bits[pos/64] |= 1 << (pos % 64)
}

func isSet(bits []uint64, pos uint64) bool {
	if pos/64 >= uint64(len(bits)) {
		return false
	}
	return bits[pos/64]&(1<<(pos%64)) != 0
}

// validJumpdest reports whether dest is a position in c.Code holding a
// JUMPDEST opcode that is not itself inside a PUSH's immediate data. The
// per-codehash bitmap is computed once and cached in c.jumpdests, shared
// with sibling frames executing the same code within the transaction.
func (c *Contract) validJumpdest(dest *uint256.Int) bool {
	udest, overflow := dest.Uint64WithOverflow()
	if overflow || udest >= uint64(len(c.Code)) {
		return false
	}
	if OpCode(c.Code[udest]) != JUMPDEST {
		return false
	}
	return c.isCode(udest)
}

// isCode reports whether udest is a genuine instruction position (not
// PUSH-data), computing and caching the bitmap for this contract's code
// on first use.
func (c *Contract) isCode(udest uint64) bool {
	if c.skipAnalysis {
		return true
	}
	if c.analysis == nil {
		if c.jumpdests != nil {
			if analysis, ok := c.jumpdests[c.CodeHash]; ok {
				c.analysis = analysis
			}
		}
		if c.analysis == nil {
			c.analysis = codeBitmap(c.Code)
			if c.jumpdests != nil {
				c.jumpdests[c.CodeHash] = c.analysis
			}
		}
	}
	return isSet(c.analysis, udest)
}
