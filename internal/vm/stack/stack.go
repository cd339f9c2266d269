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

// Package stack implements the EVM operand stack: up to 1024 256-bit
// words, and the separate return-address stack used by EOF's callf/retf.
// Both are sync.Pool-backed so the interpreter's per-call setup does not
// allocate on the hot path.
package stack

import (
	"sync"

	"github.com/holiman/uint256"
)

// Limit is the maximum number of items the operand stack may hold.
const Limit = 1024

// Stack is the EVM operand stack: 256-bit words, last-in-first-out,
// indexed from the top (Back(0) is the top of stack).
type Stack struct {
	data []uint256.Int
}

var stackPool = sync.Pool{
	New: func() interface{} {
		return &Stack{data: make([]uint256.Int, 0, 16)}
	},
}

// New returns an empty Stack, reused from a pool when possible.
func New() *Stack {
	return stackPool.Get().(*Stack)
}

// ReturnNormalStack clears s and returns it to the pool.
func ReturnNormalStack(s *Stack) {
	s.data = s.data[:0]
	stackPool.Put(s)
}

// Len returns the number of items on the stack.
func (s *Stack) Len() int {
	return len(s.data)
}

// Cap returns the stack's current backing capacity.
func (s *Stack) Cap() int {
	return cap(s.data)
}

// Push pushes val onto the stack. Callers are responsible for checking
// Len() against Limit before calling Push.
func (s *Stack) Push(val *uint256.Int) {
	s.data = append(s.data, *val)
}

// PushN pushes vals onto the stack in order, so the last element of vals
// ends up on top.
func (s *Stack) PushN(vals ...uint256.Int) {
	s.data = append(s.data, vals...)
}

// Pop removes and returns the top element.
func (s *Stack) Pop() uint256.Int {
	top := len(s.data) - 1
	v := s.data[top]
	s.data = s.data[:top]
	return v
}

// Peek returns a pointer to the top element without removing it.
func (s *Stack) Peek() *uint256.Int {
	return &s.data[len(s.data)-1]
}

// Back returns a pointer to the nth element from the top (0-indexed:
// Back(0) is the same as Peek()).
func (s *Stack) Back(n int) *uint256.Int {
	return &s.data[len(s.data)-1-n]
}

// Swap exchanges the top element with the nth element from the top.
func (s *Stack) Swap(n int) {
	top := len(s.data) - 1
	s.data[top], s.data[top-n] = s.data[top-n], s.data[top]
}

// Dup duplicates the nth element from the top (1-indexed, matching the
// DUP1..DUP16 opcodes) and pushes the copy.
func (s *Stack) Dup(n int) {
	s.data = append(s.data, s.data[len(s.data)-n])
}

// Reset empties the stack without returning it to the pool.
func (s *Stack) Reset() {
	s.data = s.data[:0]
}

// Data returns the underlying slice, bottom to top. Callers must not
// retain it past the next mutating call.
func (s *Stack) Data() []uint256.Int {
	return s.data
}

// ReturnStack is the EOF return-address stack (EIP-4750 callf/retf): a
// stack of code-section-relative PC values, separate from the operand
// stack so RETF cannot be spoofed by operand-stack manipulation.
type ReturnStack struct {
	data []uint32
}

var returnStackPool = sync.Pool{
	New: func() interface{} {
		return &ReturnStack{data: make([]uint32, 0, 16)}
	},
}

// NewReturnStack returns an empty ReturnStack, reused from a pool when
// possible.
func NewReturnStack() *ReturnStack {
	return returnStackPool.Get().(*ReturnStack)
}

// ReturnRStack clears rs and returns it to the pool.
func ReturnRStack(rs *ReturnStack) {
	rs.data = rs.data[:0]
	returnStackPool.Put(rs)
}

// Push pushes a return PC.
func (rs *ReturnStack) Push(pc uint32) {
	rs.data = append(rs.data, pc)
}

// Pop removes and returns the top return PC.
func (rs *ReturnStack) Pop() uint32 {
	top := len(rs.data) - 1
	v := rs.data[top]
	rs.data = rs.data[:top]
	return v
}

// Data returns the underlying slice, bottom to top.
func (rs *ReturnStack) Data() []uint32 {
	return rs.data
}

// Len returns the number of return addresses on the stack.
func (rs *ReturnStack) Len() int {
	return len(rs.data)
}
