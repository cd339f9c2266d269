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

	"github.com/n42blockchain/N42/common/block"
	"github.com/n42blockchain/N42/common/crypto"
	"github.com/n42blockchain/N42/common/types"
)

// Arithmetic.

func opStop(pc *uint64, interpreter *EVMInterpreter, scope *ScopeContext) ([]byte, error) {
	return nil, errStopToken
}

func opAdd(pc *uint64, interpreter *EVMInterpreter, scope *ScopeContext) ([]byte, error) {
	x, y := scope.Stack.Pop(), scope.Stack.Peek()
	y.Add(&x, y)
	return nil, nil
}

func opSub(pc *uint64, interpreter *EVMInterpreter, scope *ScopeContext) ([]byte, error) {
	x, y := scope.Stack.Pop(), scope.Stack.Peek()
	y.Sub(&x, y)
	return nil, nil
}

func opMul(pc *uint64, interpreter *EVMInterpreter, scope *ScopeContext) ([]byte, error) {
	x, y := scope.Stack.Pop(), scope.Stack.Peek()
	y.Mul(&x, y)
	return nil, nil
}

func opDiv(pc *uint64, interpreter *EVMInterpreter, scope *ScopeContext) ([]byte, error) {
	x, y := scope.Stack.Pop(), scope.Stack.Peek()
	y.Div(&x, y)
	return nil, nil
}

func opSdiv(pc *uint64, interpreter *EVMInterpreter, scope *ScopeContext) ([]byte, error) {
	x, y := scope.Stack.Pop(), scope.Stack.Peek()
	y.SDiv(&x, y)
	return nil, nil
}

func opMod(pc *uint64, interpreter *EVMInterpreter, scope *ScopeContext) ([]byte, error) {
	x, y := scope.Stack.Pop(), scope.Stack.Peek()
	y.Mod(&x, y)
	return nil, nil
}

func opSmod(pc *uint64, interpreter *EVMInterpreter, scope *ScopeContext) ([]byte, error) {
	x, y := scope.Stack.Pop(), scope.Stack.Peek()
	y.SMod(&x, y)
	return nil, nil
}

func opAddmod(pc *uint64, interpreter *EVMInterpreter, scope *ScopeContext) ([]byte, error) {
	x, y, z := scope.Stack.Pop(), scope.Stack.Pop(), scope.Stack.Peek()
	z.AddMod(&x, &y, z)
	return nil, nil
}

func opMulmod(pc *uint64, interpreter *EVMInterpreter, scope *ScopeContext) ([]byte, error) {
	x, y, z := scope.Stack.Pop(), scope.Stack.Pop(), scope.Stack.Peek()
	z.MulMod(&x, &y, z)
	return nil, nil
}

func opExp(pc *uint64, interpreter *EVMInterpreter, scope *ScopeContext) ([]byte, error) {
	base, exponent := scope.Stack.Pop(), scope.Stack.Peek()
	exponent.Exp(&base, exponent)
	return nil, nil
}

func opSignExtend(pc *uint64, interpreter *EVMInterpreter, scope *ScopeContext) ([]byte, error) {
	back, num := scope.Stack.Pop(), scope.Stack.Peek()
	num.ExtendSign(num, &back)
	return nil, nil
}

// Comparison and bitwise.

func opLt(pc *uint64, interpreter *EVMInterpreter, scope *ScopeContext) ([]byte, error) {
	x, y := scope.Stack.Pop(), scope.Stack.Peek()
	if x.Lt(y) {
		y.SetOne()
	} else {
		y.Clear()
	}
	return nil, nil
}

func opGt(pc *uint64, interpreter *EVMInterpreter, scope *ScopeContext) ([]byte, error) {
	x, y := scope.Stack.Pop(), scope.Stack.Peek()
	if x.Gt(y) {
		y.SetOne()
	} else {
		y.Clear()
	}
	return nil, nil
}

func opSlt(pc *uint64, interpreter *EVMInterpreter, scope *ScopeContext) ([]byte, error) {
	x, y := scope.Stack.Pop(), scope.Stack.Peek()
	if x.Slt(y) {
		y.SetOne()
	} else {
		y.Clear()
	}
	return nil, nil
}

func opSgt(pc *uint64, interpreter *EVMInterpreter, scope *ScopeContext) ([]byte, error) {
	x, y := scope.Stack.Pop(), scope.Stack.Peek()
	if x.Sgt(y) {
		y.SetOne()
	} else {
		y.Clear()
	}
	return nil, nil
}

func opEq(pc *uint64, interpreter *EVMInterpreter, scope *ScopeContext) ([]byte, error) {
	x, y := scope.Stack.Pop(), scope.Stack.Peek()
	if x.Eq(y) {
		y.SetOne()
	} else {
		y.Clear()
	}
	return nil, nil
}

func opIszero(pc *uint64, interpreter *EVMInterpreter, scope *ScopeContext) ([]byte, error) {
	x := scope.Stack.Peek()
	if x.IsZero() {
		x.SetOne()
	} else {
		x.Clear()
	}
	return nil, nil
}

func opAnd(pc *uint64, interpreter *EVMInterpreter, scope *ScopeContext) ([]byte, error) {
	x, y := scope.Stack.Pop(), scope.Stack.Peek()
	y.And(&x, y)
	return nil, nil
}

func opOr(pc *uint64, interpreter *EVMInterpreter, scope *ScopeContext) ([]byte, error) {
	x, y := scope.Stack.Pop(), scope.Stack.Peek()
	y.Or(&x, y)
	return nil, nil
}

func opXor(pc *uint64, interpreter *EVMInterpreter, scope *ScopeContext) ([]byte, error) {
	x, y := scope.Stack.Pop(), scope.Stack.Peek()
	y.Xor(&x, y)
	return nil, nil
}

func opNot(pc *uint64, interpreter *EVMInterpreter, scope *ScopeContext) ([]byte, error) {
	x := scope.Stack.Peek()
	x.Not(x)
	return nil, nil
}

func opByte(pc *uint64, interpreter *EVMInterpreter, scope *ScopeContext) ([]byte, error) {
	th, val := scope.Stack.Pop(), scope.Stack.Peek()
	val.Byte(&th)
	return nil, nil
}

func opShl(pc *uint64, interpreter *EVMInterpreter, scope *ScopeContext) ([]byte, error) {
	shift, value := scope.Stack.Pop(), scope.Stack.Peek()
	if shift.LtUint64(256) {
		value.Lsh(value, uint(shift.Uint64()))
	} else {
		value.Clear()
	}
	return nil, nil
}

func opShr(pc *uint64, interpreter *EVMInterpreter, scope *ScopeContext) ([]byte, error) {
	shift, value := scope.Stack.Pop(), scope.Stack.Peek()
	if shift.LtUint64(256) {
		value.Rsh(value, uint(shift.Uint64()))
	} else {
		value.Clear()
	}
	return nil, nil
}

func opSar(pc *uint64, interpreter *EVMInterpreter, scope *ScopeContext) ([]byte, error) {
	shift, value := scope.Stack.Pop(), scope.Stack.Peek()
	if shift.GtUint64(256) {
		if value.Sign() >= 0 {
			value.Clear()
		} else {
			value.SetAllOne()
		}
		return nil, nil
	}
	n := uint(shift.Uint64())
	value.SRsh(value, n)
	return nil, nil
}

// Crypto.

func opKeccak256(pc *uint64, interpreter *EVMInterpreter, scope *ScopeContext) ([]byte, error) {
	offset, size := scope.Stack.Pop(), scope.Stack.Peek()
	data := scope.Memory.GetPtr(int64(offset.Uint64()), int64(size.Uint64()))
	hash := crypto.Keccak256(data)
	size.SetBytes(hash)
	return nil, nil
}

// Environment.

func opAddress(pc *uint64, interpreter *EVMInterpreter, scope *ScopeContext) ([]byte, error) {
	v := GetUint256()
	scope.Stack.Push(v.SetBytes(scope.Contract.Address().Bytes()))
	PutUint256(v)
	return nil, nil
}

func opBalance(pc *uint64, interpreter *EVMInterpreter, scope *ScopeContext) ([]byte, error) {
	slot := scope.Stack.Peek()
	addr := types.Address(slot.Bytes20())
	slot.Set(interpreter.evm.IntraBlockState().GetBalance(addr))
	return nil, nil
}

func opOrigin(pc *uint64, interpreter *EVMInterpreter, scope *ScopeContext) ([]byte, error) {
	v := GetUint256()
	scope.Stack.Push(v.SetBytes(interpreter.evm.TxContext().Origin.Bytes()))
	PutUint256(v)
	return nil, nil
}

func opCaller(pc *uint64, interpreter *EVMInterpreter, scope *ScopeContext) ([]byte, error) {
	v := GetUint256()
	scope.Stack.Push(v.SetBytes(scope.Contract.Caller().Bytes()))
	PutUint256(v)
	return nil, nil
}

func opCallValue(pc *uint64, interpreter *EVMInterpreter, scope *ScopeContext) ([]byte, error) {
	v := GetUint256()
	scope.Stack.Push(v.Set(scope.Contract.Value()))
	PutUint256(v)
	return nil, nil
}

func opCallDataLoad(pc *uint64, interpreter *EVMInterpreter, scope *ScopeContext) ([]byte, error) {
	x := scope.Stack.Peek()
	data := getDataBig(scope.Contract.Input, x, 32)
	x.SetBytes(data)
	return nil, nil
}

func opCallDataSize(pc *uint64, interpreter *EVMInterpreter, scope *ScopeContext) ([]byte, error) {
	v := GetUint256()
	scope.Stack.Push(v.SetUint64(uint64(len(scope.Contract.Input))))
	PutUint256(v)
	return nil, nil
}

func opCallDataCopy(pc *uint64, interpreter *EVMInterpreter, scope *ScopeContext) ([]byte, error) {
	memOffset, dataOffset, length := scope.Stack.Pop(), scope.Stack.Pop(), scope.Stack.Pop()
	data := getDataBig(scope.Contract.Input, &dataOffset, length.Uint64())
	scope.Memory.Set(memOffset.Uint64(), length.Uint64(), data)
	return nil, nil
}

func opCodeSize(pc *uint64, interpreter *EVMInterpreter, scope *ScopeContext) ([]byte, error) {
	v := GetUint256()
	scope.Stack.Push(v.SetUint64(uint64(len(scope.Contract.Code))))
	PutUint256(v)
	return nil, nil
}

func opCodeCopy(pc *uint64, interpreter *EVMInterpreter, scope *ScopeContext) ([]byte, error) {
	memOffset, codeOffset, length := scope.Stack.Pop(), scope.Stack.Pop(), scope.Stack.Pop()
	data := getDataBig(scope.Contract.Code, &codeOffset, length.Uint64())
	scope.Memory.Set(memOffset.Uint64(), length.Uint64(), data)
	return nil, nil
}

func opGasprice(pc *uint64, interpreter *EVMInterpreter, scope *ScopeContext) ([]byte, error) {
	v := GetUint256()
	scope.Stack.Push(v.Set(interpreter.evm.TxContext().GasPrice))
	PutUint256(v)
	return nil, nil
}

func opExtCodeSize(pc *uint64, interpreter *EVMInterpreter, scope *ScopeContext) ([]byte, error) {
	slot := scope.Stack.Peek()
	addr := types.Address(slot.Bytes20())
	slot.SetUint64(uint64(interpreter.evm.IntraBlockState().GetCodeSize(addr)))
	return nil, nil
}

func opExtCodeCopy(pc *uint64, interpreter *EVMInterpreter, scope *ScopeContext) ([]byte, error) {
	var (
		stack                        = scope.Stack
		a                            = stack.Pop()
		memOffset, codeOffset, length = stack.Pop(), stack.Pop(), stack.Pop()
	)
	addr := types.Address(a.Bytes20())
	code := interpreter.evm.IntraBlockState().GetCode(addr)
	data := getDataBig(code, &codeOffset, length.Uint64())
	scope.Memory.Set(memOffset.Uint64(), length.Uint64(), data)
	return nil, nil
}

func opExtCodeHash(pc *uint64, interpreter *EVMInterpreter, scope *ScopeContext) ([]byte, error) {
	slot := scope.Stack.Peek()
	addr := types.Address(slot.Bytes20())
	ibs := interpreter.evm.IntraBlockState()
	if ibs.Empty(addr) {
		slot.Clear()
	} else {
		slot.SetBytes(ibs.GetCodeHash(addr).Bytes())
	}
	return nil, nil
}

func opReturnDataSize(pc *uint64, interpreter *EVMInterpreter, scope *ScopeContext) ([]byte, error) {
	v := GetUint256()
	scope.Stack.Push(v.SetUint64(uint64(len(interpreter.returnData))))
	PutUint256(v)
	return nil, nil
}

func opReturnDataCopy(pc *uint64, interpreter *EVMInterpreter, scope *ScopeContext) ([]byte, error) {
	memOffset, dataOffset, length := scope.Stack.Pop(), scope.Stack.Pop(), scope.Stack.Pop()

	offset64, overflow := dataOffset.Uint64WithOverflow()
	if overflow {
		return nil, ErrReturnDataOutOfBounds
	}
	end := GetUint256()
	defer PutUint256(end)
	end.Add(&dataOffset, &length)
	end64, overflow := end.Uint64WithOverflow()
	if overflow || uint64(len(interpreter.returnData)) < end64 {
		return nil, ErrReturnDataOutOfBounds
	}
	scope.Memory.Set(memOffset.Uint64(), length.Uint64(), interpreter.returnData[offset64:end64])
	return nil, nil
}

// Block information.

func opBlockhash(pc *uint64, interpreter *EVMInterpreter, scope *ScopeContext) ([]byte, error) {
	num := scope.Stack.Peek()
	num64, overflow := num.Uint64WithOverflow()
	if overflow {
		num.Clear()
		return nil, nil
	}
	hash := interpreter.evm.Context().GetHash(num64)
	num.SetBytes(hash.Bytes())
	return nil, nil
}

func opCoinbase(pc *uint64, interpreter *EVMInterpreter, scope *ScopeContext) ([]byte, error) {
	v := GetUint256()
	scope.Stack.Push(v.SetBytes(interpreter.evm.Context().Coinbase.Bytes()))
	PutUint256(v)
	return nil, nil
}

func opTimestamp(pc *uint64, interpreter *EVMInterpreter, scope *ScopeContext) ([]byte, error) {
	v := GetUint256()
	scope.Stack.Push(v.SetUint64(interpreter.evm.Context().Time))
	PutUint256(v)
	return nil, nil
}

func opNumber(pc *uint64, interpreter *EVMInterpreter, scope *ScopeContext) ([]byte, error) {
	v := GetUint256()
	scope.Stack.Push(v.SetUint64(interpreter.evm.Context().BlockNumber))
	PutUint256(v)
	return nil, nil
}

func opDifficulty(pc *uint64, interpreter *EVMInterpreter, scope *ScopeContext) ([]byte, error) {
	ctx := interpreter.evm.Context()
	v := GetUint256()
	defer PutUint256(v)
	if ctx.PrevRanDao != nil {
		scope.Stack.Push(v.SetBytes(ctx.PrevRanDao.Bytes()))
		return nil, nil
	}
	if ctx.Difficulty != nil {
		v.SetFromBig(ctx.Difficulty)
	}
	scope.Stack.Push(v)
	return nil, nil
}

func opGasLimit(pc *uint64, interpreter *EVMInterpreter, scope *ScopeContext) ([]byte, error) {
	ctx := interpreter.evm.Context()
	v := GetUint256()
	defer PutUint256(v)
	if ctx.MaxGasLimit {
		scope.Stack.Push(v.SetAllOne())
		return nil, nil
	}
	scope.Stack.Push(v.SetUint64(ctx.GasLimit))
	return nil, nil
}

func opChainID(pc *uint64, interpreter *EVMInterpreter, scope *ScopeContext) ([]byte, error) {
	var v uint256.Int
	if id := interpreter.evm.ChainConfig().ChainID; id != nil {
		v.SetFromBig(id)
	}
	scope.Stack.Push(&v)
	return nil, nil
}

func opSelfBalance(pc *uint64, interpreter *EVMInterpreter, scope *ScopeContext) ([]byte, error) {
	balance := interpreter.evm.IntraBlockState().GetBalance(scope.Contract.Address())
	v := GetUint256()
	scope.Stack.Push(v.Set(balance))
	PutUint256(v)
	return nil, nil
}

func opBaseFee(pc *uint64, interpreter *EVMInterpreter, scope *ScopeContext) ([]byte, error) {
	baseFee := interpreter.evm.Context().BaseFee
	v := GetUint256()
	if baseFee == nil {
		v.Clear()
	} else {
		v.Set(baseFee)
	}
	scope.Stack.Push(v)
	PutUint256(v)
	return nil, nil
}

// Stack, memory, storage and flow.

func opPop(pc *uint64, interpreter *EVMInterpreter, scope *ScopeContext) ([]byte, error) {
	scope.Stack.Pop()
	return nil, nil
}

func opMload(pc *uint64, interpreter *EVMInterpreter, scope *ScopeContext) ([]byte, error) {
	v := scope.Stack.Peek()
	offset := v.Uint64()
	v.SetBytes(scope.Memory.GetPtr(int64(offset), 32))
	return nil, nil
}

func opMstore(pc *uint64, interpreter *EVMInterpreter, scope *ScopeContext) ([]byte, error) {
	mStart, val := scope.Stack.Pop(), scope.Stack.Pop()
	scope.Memory.Set32(mStart.Uint64(), &val)
	return nil, nil
}

func opMstore8(pc *uint64, interpreter *EVMInterpreter, scope *ScopeContext) ([]byte, error) {
	off, val := scope.Stack.Pop(), scope.Stack.Pop()
	scope.Memory.Set(off.Uint64(), 1, []byte{byte(val.Uint64())})
	return nil, nil
}

func opSload(pc *uint64, interpreter *EVMInterpreter, scope *ScopeContext) ([]byte, error) {
	loc := scope.Stack.Peek()
	hash := types.Hash(loc.Bytes32())
	var out uint256.Int
	interpreter.evm.IntraBlockState().GetState(scope.Contract.Address(), &hash, &out)
	loc.Set(&out)
	return nil, nil
}

func opSstore(pc *uint64, interpreter *EVMInterpreter, scope *ScopeContext) ([]byte, error) {
	if interpreter.readOnly {
		return nil, ErrWriteProtection
	}
	loc := scope.Stack.Pop()
	val := scope.Stack.Pop()
	hash := types.Hash(loc.Bytes32())
	interpreter.evm.IntraBlockState().SetState(scope.Contract.Address(), &hash, val)
	return nil, nil
}

func opJump(pc *uint64, interpreter *EVMInterpreter, scope *ScopeContext) ([]byte, error) {
	pos := scope.Stack.Pop()
	if !scope.Contract.validJumpdest(&pos) {
		return nil, ErrInvalidJump
	}
	*pc = pos.Uint64() - 1
	return nil, nil
}

func opJumpi(pc *uint64, interpreter *EVMInterpreter, scope *ScopeContext) ([]byte, error) {
	pos, cond := scope.Stack.Pop(), scope.Stack.Pop()
	if !cond.IsZero() {
		if !scope.Contract.validJumpdest(&pos) {
			return nil, ErrInvalidJump
		}
		*pc = pos.Uint64() - 1
	}
	return nil, nil
}

func opPc(pc *uint64, interpreter *EVMInterpreter, scope *ScopeContext) ([]byte, error) {
	v := GetUint256()
	scope.Stack.Push(v.SetUint64(*pc))
	PutUint256(v)
	return nil, nil
}

func opMsize(pc *uint64, interpreter *EVMInterpreter, scope *ScopeContext) ([]byte, error) {
	v := GetUint256()
	scope.Stack.Push(v.SetUint64(uint64(scope.Memory.Len())))
	PutUint256(v)
	return nil, nil
}

func opGas(pc *uint64, interpreter *EVMInterpreter, scope *ScopeContext) ([]byte, error) {
	v := GetUint256()
	scope.Stack.Push(v.SetUint64(scope.Contract.Gas))
	PutUint256(v)
	return nil, nil
}

func opJumpdest(pc *uint64, interpreter *EVMInterpreter, scope *ScopeContext) ([]byte, error) {
	return nil, nil
}

func opPush0(pc *uint64, interpreter *EVMInterpreter, scope *ScopeContext) ([]byte, error) {
	v := GetUint256()
	scope.Stack.Push(v)
	PutUint256(v)
	return nil, nil
}

// makePush returns the executionFunc for PUSH<size>: push the size bytes
// following the opcode, zero-padded if the code ends early.
func makePush(size int) executionFunc {
	return func(pc *uint64, interpreter *EVMInterpreter, scope *ScopeContext) ([]byte, error) {
		codeLen := uint64(len(scope.Contract.Code))
		start := min(codeLen, *pc+1)
		end := min(codeLen, start+uint64(size))

		word := GetUint256()
		word.SetBytes(scope.Contract.Code[start:end])
		if n := uint64(size) - (end - start); n > 0 {
			word.Lsh(word, uint(8*n))
		}
		scope.Stack.Push(word)
		PutUint256(word)
		*pc += uint64(size)
		return nil, nil
	}
}

func min(a, b uint64) uint64 {
	if a < b {
		return a
	}
	return b
}

// makeDup returns the executionFunc for DUP<n>.
func makeDup(n int) executionFunc {
	return func(pc *uint64, interpreter *EVMInterpreter, scope *ScopeContext) ([]byte, error) {
		scope.Stack.Dup(n)
		return nil, nil
	}
}

// makeSwap returns the executionFunc for SWAP<n>.
func makeSwap(n int) executionFunc {
	return func(pc *uint64, interpreter *EVMInterpreter, scope *ScopeContext) ([]byte, error) {
		scope.Stack.Swap(n)
		return nil, nil
	}
}

// makeLog returns the executionFunc for LOG<n>.
func makeLog(n int) executionFunc {
	return func(pc *uint64, interpreter *EVMInterpreter, scope *ScopeContext) ([]byte, error) {
		if interpreter.readOnly {
			return nil, ErrWriteProtection
		}
		mStart, mSize := scope.Stack.Pop(), scope.Stack.Pop()
		topics := make([]types.Hash, n)
		for i := 0; i < n; i++ {
			t := scope.Stack.Pop()
			topics[i] = types.Hash(t.Bytes32())
		}
		data := scope.Memory.GetCopy(int64(mStart.Uint64()), int64(mSize.Uint64()))
		l := &block.Log{
			Address: scope.Contract.Address(),
			Topics:  topics,
			Data:    data,
		}
		interpreter.evm.IntraBlockState().AddLog(l)
		if inspector := interpreter.Config().Inspector; inspector != nil {
			inspector.Log(l)
		}
		return nil, nil
	}
}

// System.

func opCreate(pc *uint64, interpreter *EVMInterpreter, scope *ScopeContext) ([]byte, error) {
	if interpreter.readOnly {
		return nil, ErrWriteProtection
	}
	value, offset, size := scope.Stack.Pop(), scope.Stack.Pop(), scope.Stack.Pop()
	input := scope.Memory.GetCopy(int64(offset.Uint64()), int64(size.Uint64()))
	gas := scope.Contract.Gas
	gas -= gas / 64

	scope.Contract.UseGas(gas)
	res, addr, returnGas, err := interpreter.evm.Create(scope.Contract, input, gas, &value)
	return afterCreate(scope, res, addr, returnGas, err)
}

func opCreate2(pc *uint64, interpreter *EVMInterpreter, scope *ScopeContext) ([]byte, error) {
	if interpreter.readOnly {
		return nil, ErrWriteProtection
	}
	value, offset, size, salt := scope.Stack.Pop(), scope.Stack.Pop(), scope.Stack.Pop(), scope.Stack.Pop()
	input := scope.Memory.GetCopy(int64(offset.Uint64()), int64(size.Uint64()))
	gas := scope.Contract.Gas
	gas -= gas / 64

	scope.Contract.UseGas(gas)
	res, addr, returnGas, err := interpreter.evm.Create2(scope.Contract, input, gas, &value, &salt)
	return afterCreate(scope, res, addr, returnGas, err)
}

// afterCreate folds a CREATE/CREATE2 result onto the caller's stack: the
// new address on success, zero on failure, with any revert data staged
// as returnData but never returned to the interpreter's own caller.
func afterCreate(scope *ScopeContext, res []byte, addr types.Address, returnGas uint64, err error) ([]byte, error) {
	stackValue := GetUint256()
	if err != nil {
		stackValue.Clear()
	} else {
		stackValue.SetBytes(addr.Bytes())
	}
	scope.Stack.Push(stackValue)
	PutUint256(stackValue)
	scope.Contract.Gas += returnGas

	if err == ErrExecutionReverted {
		return res, nil
	}
	return nil, nil
}

func opCall(pc *uint64, interpreter *EVMInterpreter, scope *ScopeContext) ([]byte, error) {
	stack := scope.Stack
	temp := stack.Pop()
	gas := interpreter.evm.CallGasTemp()
	addr, value, inOffset, inSize, retOffset, retSize := stack.Pop(), stack.Pop(), stack.Pop(), stack.Pop(), stack.Pop(), stack.Pop()
	toAddr := types.Address(addr.Bytes20())

	if !value.IsZero() {
		if interpreter.readOnly {
			return nil, ErrWriteProtection
		}
		gas += GasCallStipend
	}
	args := scope.Memory.GetCopy(int64(inOffset.Uint64()), int64(inSize.Uint64()))
	ret, returnGas, err := interpreter.evm.Call(scope.Contract, toAddr, args, gas, &value, false)
	return afterCall(scope, &temp, ret, retOffset.Uint64(), retSize.Uint64(), returnGas, err)
}

func opCallCode(pc *uint64, interpreter *EVMInterpreter, scope *ScopeContext) ([]byte, error) {
	stack := scope.Stack
	temp := stack.Pop()
	gas := interpreter.evm.CallGasTemp()
	addr, value, inOffset, inSize, retOffset, retSize := stack.Pop(), stack.Pop(), stack.Pop(), stack.Pop(), stack.Pop(), stack.Pop()
	toAddr := types.Address(addr.Bytes20())

	if !value.IsZero() {
		gas += GasCallStipend
	}
	args := scope.Memory.GetCopy(int64(inOffset.Uint64()), int64(inSize.Uint64()))
	ret, returnGas, err := interpreter.evm.CallCode(scope.Contract, toAddr, args, gas, &value)
	return afterCall(scope, &temp, ret, retOffset.Uint64(), retSize.Uint64(), returnGas, err)
}

func opDelegateCall(pc *uint64, interpreter *EVMInterpreter, scope *ScopeContext) ([]byte, error) {
	stack := scope.Stack
	temp := stack.Pop()
	gas := interpreter.evm.CallGasTemp()
	addr, inOffset, inSize, retOffset, retSize := stack.Pop(), stack.Pop(), stack.Pop(), stack.Pop(), stack.Pop()
	toAddr := types.Address(addr.Bytes20())

	args := scope.Memory.GetCopy(int64(inOffset.Uint64()), int64(inSize.Uint64()))
	ret, returnGas, err := interpreter.evm.DelegateCall(scope.Contract, toAddr, args, gas)
	return afterCall(scope, &temp, ret, retOffset.Uint64(), retSize.Uint64(), returnGas, err)
}

func opStaticCall(pc *uint64, interpreter *EVMInterpreter, scope *ScopeContext) ([]byte, error) {
	stack := scope.Stack
	temp := stack.Pop()
	gas := interpreter.evm.CallGasTemp()
	addr, inOffset, inSize, retOffset, retSize := stack.Pop(), stack.Pop(), stack.Pop(), stack.Pop(), stack.Pop()
	toAddr := types.Address(addr.Bytes20())

	args := scope.Memory.GetCopy(int64(inOffset.Uint64()), int64(inSize.Uint64()))
	ret, returnGas, err := interpreter.evm.StaticCall(scope.Contract, toAddr, args, gas)
	return afterCall(scope, &temp, ret, retOffset.Uint64(), retSize.Uint64(), returnGas, err)
}

// afterCall folds a CALL-family result onto the caller's stack (1 for
// success, 0 for failure), copies return data into the caller's memory,
// and stages it as interpreter.returnData for RETURNDATACOPY.
func afterCall(scope *ScopeContext, success *uint256.Int, ret []byte, retOffset, retSize, returnGas uint64, err error) ([]byte, error) {
	if err != nil {
		success.Clear()
	} else {
		success.SetOne()
	}
	if err == nil || err == ErrExecutionReverted {
		scope.Memory.Set(retOffset, min(retSize, uint64(len(ret))), ret)
	}
	scope.Contract.Gas += returnGas
	scope.Stack.Push(success)
	return ret, nil
}

func opReturn(pc *uint64, interpreter *EVMInterpreter, scope *ScopeContext) ([]byte, error) {
	offset, size := scope.Stack.Pop(), scope.Stack.Pop()
	ret := scope.Memory.GetCopy(int64(offset.Uint64()), int64(size.Uint64()))
	return ret, errStopToken
}

func opRevert(pc *uint64, interpreter *EVMInterpreter, scope *ScopeContext) ([]byte, error) {
	offset, size := scope.Stack.Pop(), scope.Stack.Pop()
	ret := scope.Memory.GetCopy(int64(offset.Uint64()), int64(size.Uint64()))
	return ret, ErrExecutionReverted
}

func opUndefined(pc *uint64, interpreter *EVMInterpreter, scope *ScopeContext) ([]byte, error) {
	return nil, ErrInvalidOpCode
}

func opSelfdestruct(pc *uint64, interpreter *EVMInterpreter, scope *ScopeContext) ([]byte, error) {
	if interpreter.readOnly {
		return nil, ErrWriteProtection
	}
	beneficiary := scope.Stack.Pop()
	beneficiaryAddr := types.Address(beneficiary.Bytes20())
	ibs := interpreter.evm.IntraBlockState()
	balance := ibs.GetBalance(scope.Contract.Address())
	ibs.AddBalance(beneficiaryAddr, balance)
	ibs.Selfdestruct(scope.Contract.Address())
	if inspector := interpreter.Config().Inspector; inspector != nil {
		inspector.Selfdestruct(scope.Contract.Address(), beneficiaryAddr)
	}
	return nil, errStopToken
}

