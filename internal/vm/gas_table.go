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

	"github.com/n42blockchain/N42/common/types"
	"github.com/n42blockchain/N42/internal/vm/stack"
	"github.com/n42blockchain/N42/params"
)

// memoryCall is the memory-size requirement for CALL/CALLCODE: the larger
// of the input range (args 3,4) and the output range (args 5,6).
func memoryCall(stk *stack.Stack) (uint64, bool) {
	inSize, inOK := calcMemSize64(stk.Back(3), stk.Back(4))
	outSize, outOK := calcMemSize64(stk.Back(5), stk.Back(6))
	if inOK || outOK {
		return 0, true
	}
	if inSize > outSize {
		return inSize, false
	}
	return outSize, false
}

// memoryDelegateStaticCall is the memory-size requirement for
// DELEGATECALL/STATICCALL, which have one fewer stack argument (no
// value) than CALL/CALLCODE.
func memoryDelegateStaticCall(stk *stack.Stack) (uint64, bool) {
	inSize, inOK := calcMemSize64(stk.Back(2), stk.Back(3))
	outSize, outOK := calcMemSize64(stk.Back(4), stk.Back(5))
	if inOK || outOK {
		return 0, true
	}
	if inSize > outSize {
		return inSize, false
	}
	return outSize, false
}

// gasExpFrontier charges GasExpByteLegacy per byte of the exponent.
func gasExpFrontier(evm VMInterpreter, contract *Contract, stk *stack.Stack, mem *Memory, memorySize uint64) (uint64, error) {
	return gasExpByte(stk, GasExpByteLegacy)
}

// gasExpEIP160 reprices EXP's per-byte cost under EIP-160.
func gasExpEIP160(evm VMInterpreter, contract *Contract, stk *stack.Stack, mem *Memory, memorySize uint64) (uint64, error) {
	return gasExpByte(stk, GasExpByteEIP160)
}

func gasExpByte(stk *stack.Stack, byteCost uint64) (uint64, error) {
	expBits := stk.Back(1).BitLen()
	if expBits == 0 {
		return 0, nil
	}
	expBytes := uint64((expBits + 7) / 8)
	gas, overflow := safeMul(expBytes, byteCost)
	if overflow {
		return 0, ErrGasUintOverflow
	}
	return gas, nil
}

func gasKeccak256(evm VMInterpreter, contract *Contract, stk *stack.Stack, mem *Memory, memorySize uint64) (uint64, error) {
	gas, err := memoryGasCost(mem, memorySize)
	if err != nil {
		return 0, err
	}
	words, overflow := stk.Back(1).Uint64WithOverflow()
	if overflow {
		return 0, ErrGasUintOverflow
	}
	wordGas, overflow := safeMul(toWordSize(words), GasSha3Word)
	if overflow {
		return 0, ErrGasUintOverflow
	}
	if gas, overflow = safeAdd(gas, wordGas); overflow {
		return 0, ErrGasUintOverflow
	}
	return gas, nil
}

func gasCopyWords(mem *Memory, memorySize uint64, wordsSource *uint256.Int) (uint64, error) {
	gas, err := memoryGasCost(mem, memorySize)
	if err != nil {
		return 0, err
	}
	words, overflow := wordsSource.Uint64WithOverflow()
	if overflow {
		return 0, ErrGasUintOverflow
	}
	wordGas, overflow := safeMul(toWordSize(words), params.CopyGas)
	if overflow {
		return 0, ErrGasUintOverflow
	}
	if gas, overflow = safeAdd(gas, wordGas); overflow {
		return 0, ErrGasUintOverflow
	}
	return gas, nil
}

func gasCallDataCopy(evm VMInterpreter, contract *Contract, stk *stack.Stack, mem *Memory, memorySize uint64) (uint64, error) {
	return gasCopyWords(mem, memorySize, stk.Back(2))
}

func gasCodeCopy(evm VMInterpreter, contract *Contract, stk *stack.Stack, mem *Memory, memorySize uint64) (uint64, error) {
	return gasCopyWords(mem, memorySize, stk.Back(2))
}

func gasReturnDataCopy(evm VMInterpreter, contract *Contract, stk *stack.Stack, mem *Memory, memorySize uint64) (uint64, error) {
	return gasCopyWords(mem, memorySize, stk.Back(2))
}

func gasExtCodeCopy(evm VMInterpreter, contract *Contract, stk *stack.Stack, mem *Memory, memorySize uint64) (uint64, error) {
	return gasCopyWords(mem, memorySize, stk.Back(3))
}

func gasExtCodeCopyEIP2929(evm VMInterpreter, contract *Contract, stk *stack.Stack, mem *Memory, memorySize uint64) (uint64, error) {
	gas, err := gasCopyWords(mem, memorySize, stk.Back(3))
	if err != nil {
		return 0, err
	}
	addr := types.Address(stk.Back(0).Bytes20())
	if !evm.IntraBlockState().AddressInAccessList(addr) {
		evm.IntraBlockState().AddAddressToAccessList(addr)
		var overflow bool
		if gas, overflow = safeAdd(gas, params.ColdAccountAccessCostEIP2929-params.WarmStorageReadCostEIP2929); overflow {
			return 0, ErrGasUintOverflow
		}
	}
	return gas, nil
}

// gasEip2929AccountCheck charges the cold-access surcharge the first
// time a transaction touches an address (BALANCE, EXTCODESIZE,
// EXTCODEHASH), whose constantGas already covers the warm case.
func gasEip2929AccountCheck(evm VMInterpreter, contract *Contract, stk *stack.Stack, mem *Memory, memorySize uint64) (uint64, error) {
	addr := types.Address(stk.Back(0).Bytes20())
	if !evm.IntraBlockState().AddressInAccessList(addr) {
		evm.IntraBlockState().AddAddressToAccessList(addr)
		return params.ColdAccountAccessCostEIP2929 - params.WarmStorageReadCostEIP2929, nil
	}
	return 0, nil
}

func gasMload(evm VMInterpreter, contract *Contract, stk *stack.Stack, mem *Memory, memorySize uint64) (uint64, error) {
	return memoryGasCost(mem, memorySize)
}

func gasMstore(evm VMInterpreter, contract *Contract, stk *stack.Stack, mem *Memory, memorySize uint64) (uint64, error) {
	return memoryGasCost(mem, memorySize)
}

func gasMstore8(evm VMInterpreter, contract *Contract, stk *stack.Stack, mem *Memory, memorySize uint64) (uint64, error) {
	return memoryGasCost(mem, memorySize)
}

// gasSstoreLegacy is the pre-Istanbul flat SSTORE pricing: 20000 gas to
// set a zero slot nonzero, 5000 otherwise, with a 15000 gas refund (not
// modeled here beyond the refund counter) when clearing a nonzero slot.
func gasSstoreLegacy(evm VMInterpreter, contract *Contract, stk *stack.Stack, mem *Memory, memorySize uint64) (uint64, error) {
	loc := stk.Back(0)
	val := stk.Back(1)
	hash := types.Hash(loc.Bytes32())
	var current uint256.Int
	evm.IntraBlockState().GetState(contract.Address(), &hash, &current)

	if current.IsZero() && !val.IsZero() {
		return GasSstoreSet, nil
	}
	if !current.IsZero() && val.IsZero() {
		evm.IntraBlockState().AddRefund(15000)
	}
	return GasSstoreReset, nil
}

// gasSstoreEIP2200 implements EIP-2200's net gas metering, charging
// based on the slot's current and original (start-of-transaction)
// values rather than a flat set/reset cost.
func gasSstoreEIP2200(evm VMInterpreter, contract *Contract, stk *stack.Stack, mem *Memory, memorySize uint64) (uint64, error) {
	const sstoreSentryGas = 2300
	if contract.Gas <= sstoreSentryGas {
		return 0, ErrOutOfGas
	}
	loc := stk.Back(0)
	val := stk.Back(1)
	hash := types.Hash(loc.Bytes32())
	ibs := evm.IntraBlockState()

	var current, original uint256.Int
	ibs.GetState(contract.Address(), &hash, &current)
	ibs.GetCommittedState(contract.Address(), &hash, &original)

	if current == *val {
		return params.WarmStorageReadCostEIP2929, nil
	}
	if original == current {
		if original.IsZero() {
			return GasSstoreSet, nil
		}
		if val.IsZero() {
			ibs.AddRefund(4800)
		}
		return GasSstoreReset, nil
	}
	if !original.IsZero() {
		if current.IsZero() && !val.IsZero() {
			ibs.SubRefund(4800)
		}
		if !current.IsZero() && val.IsZero() {
			ibs.AddRefund(4800)
		}
	}
	if original == *val {
		if original.IsZero() {
			ibs.AddRefund(GasSstoreSet - params.WarmStorageReadCostEIP2929)
		} else {
			ibs.AddRefund(GasSstoreReset - params.WarmStorageReadCostEIP2929)
		}
	}
	return params.WarmStorageReadCostEIP2929, nil
}

// gasSstoreEIP2929 layers EIP-2929's cold-slot surcharge on top of the
// EIP-2200 net-gas schedule.
func gasSstoreEIP2929(evm VMInterpreter, contract *Contract, stk *stack.Stack, mem *Memory, memorySize uint64) (uint64, error) {
	loc := stk.Back(0)
	hash := types.Hash(loc.Bytes32())
	addr := contract.Address()

	cold := false
	if _, slotWarm := evm.IntraBlockState().SlotInAccessList(addr, hash); !slotWarm {
		cold = true
		evm.IntraBlockState().AddSlotToAccessList(addr, hash)
	}
	gas, err := gasSstoreEIP2200(evm, contract, stk, mem, memorySize)
	if err != nil {
		return 0, err
	}
	if cold {
		gas += params.ColdSloadCostEIP2929
	}
	return gas, nil
}

func gasSloadEIP2929(evm VMInterpreter, contract *Contract, stk *stack.Stack, mem *Memory, memorySize uint64) (uint64, error) {
	loc := stk.Back(0)
	hash := types.Hash(loc.Bytes32())
	addr := contract.Address()
	if _, slotWarm := evm.IntraBlockState().SlotInAccessList(addr, hash); !slotWarm {
		evm.IntraBlockState().AddSlotToAccessList(addr, hash)
		return params.ColdSloadCostEIP2929 - params.WarmStorageReadCostEIP2929, nil
	}
	return 0, nil
}

// gasCallGeneric is the shared CALL-family dynamic gas calculator: memory
// expansion, the value-transfer/new-account surcharges for value-bearing
// variants, and the EIP-150 all-but-one-64th forwarding rule. It stashes
// the computed callee gas in evm.SetCallGasTemp for the executionFunc to
// pick up. addrIdx/valueIdx locate the callee address and (for CALL and
// CALLCODE) the transferred value among the opcode's stack arguments;
// valueIdx of -1 means the opcode never transfers value (DELEGATECALL,
// STATICCALL).
func gasCallGeneric(evm VMInterpreter, contract *Contract, stk *stack.Stack, mem *Memory, memorySize uint64, addrIdx, valueIdx int) (uint64, error) {
	gas, err := memoryGasCost(mem, memorySize)
	if err != nil {
		return 0, err
	}

	addr := types.Address(stk.Back(addrIdx).Bytes20())
	if valueIdx >= 0 && !stk.Back(valueIdx).IsZero() {
		var overflow bool
		if gas, overflow = safeAdd(gas, GasCallValue); overflow {
			return 0, ErrGasUintOverflow
		}
		if evm.IntraBlockState().Empty(addr) {
			if gas, overflow = safeAdd(gas, GasNewAccount); overflow {
				return 0, ErrGasUintOverflow
			}
		}
	}

	callCost := stk.Back(0)
	callGasLimit, err := callGas(true, contract.Gas-gas, 0, callCost)
	if err != nil {
		return 0, err
	}
	evm.SetCallGasTemp(callGasLimit)
	var overflow bool
	if gas, overflow = safeAdd(gas, callGasLimit); overflow {
		return 0, ErrGasUintOverflow
	}
	return gas, nil
}

// gasCallLegacy prices CALL and CALLCODE (addr at stack position 1,
// value at position 2).
func gasCallLegacy(evm VMInterpreter, contract *Contract, stk *stack.Stack, mem *Memory, memorySize uint64) (uint64, error) {
	return gasCallGeneric(evm, contract, stk, mem, memorySize, 1, 2)
}

// gasDelegateStaticCallLegacy prices DELEGATECALL and STATICCALL, which
// carry no value argument.
func gasDelegateStaticCallLegacy(evm VMInterpreter, contract *Contract, stk *stack.Stack, mem *Memory, memorySize uint64) (uint64, error) {
	return gasCallGeneric(evm, contract, stk, mem, memorySize, 1, -1)
}

// gasCallEIP2929 layers the EIP-2929 cold-address surcharge on top of
// gasCallLegacy.
func gasCallEIP2929(evm VMInterpreter, contract *Contract, stk *stack.Stack, mem *Memory, memorySize uint64) (uint64, error) {
	return gasCallAddCold(evm, stk, gasCallLegacy(evm, contract, stk, mem, memorySize))
}

// gasDelegateStaticCallEIP2929 is gasCallEIP2929 for DELEGATECALL and
// STATICCALL.
func gasDelegateStaticCallEIP2929(evm VMInterpreter, contract *Contract, stk *stack.Stack, mem *Memory, memorySize uint64) (uint64, error) {
	return gasCallAddCold(evm, stk, gasDelegateStaticCallLegacy(evm, contract, stk, mem, memorySize))
}

func gasCallAddCold(evm VMInterpreter, stk *stack.Stack, gas uint64, err error) (uint64, error) {
	if err != nil {
		return 0, err
	}
	addr := types.Address(stk.Back(1).Bytes20())
	if !evm.IntraBlockState().AddressInAccessList(addr) {
		evm.IntraBlockState().AddAddressToAccessList(addr)
		gas += params.ColdAccountAccessCostEIP2929 - params.WarmStorageReadCostEIP2929
	}
	return gas, nil
}

// gasInitCodeWordCost charges EIP-3860's per-word init-code surcharge and
// rejects oversize init code, once EIP-3860 is active. Pre-Shanghai this
// is a no-op: HasEip3860 is false and initcode size is unbounded.
func gasInitCodeWordCost(evm VMInterpreter, stk *stack.Stack, sizeIdx int) (uint64, error) {
	if !evm.Config().HasEip3860(evm.ChainRules()) {
		return 0, nil
	}
	size, overflow := stk.Back(sizeIdx).Uint64WithOverflow()
	if overflow || size > params.MaxInitCodeSize {
		return 0, ErrMaxInitCodeSizeExceeded
	}
	gas, overflow := safeMul(toWordSize(size), params.InitCodeWordGas)
	if overflow {
		return 0, ErrGasUintOverflow
	}
	return gas, nil
}

func gasCreate(evm VMInterpreter, contract *Contract, stk *stack.Stack, mem *Memory, memorySize uint64) (uint64, error) {
	gas, err := memoryGasCost(mem, memorySize)
	if err != nil {
		return 0, err
	}
	initGas, err := gasInitCodeWordCost(evm, stk, 2)
	if err != nil {
		return 0, err
	}
	overflow := false
	if gas, overflow = safeAdd(gas, initGas); overflow {
		return 0, ErrGasUintOverflow
	}
	return gas, nil
}

func gasCreate2(evm VMInterpreter, contract *Contract, stk *stack.Stack, mem *Memory, memorySize uint64) (uint64, error) {
	gas, err := memoryGasCost(mem, memorySize)
	if err != nil {
		return 0, err
	}
	words, overflow := stk.Back(2).Uint64WithOverflow()
	if overflow {
		return 0, ErrGasUintOverflow
	}
	wordGas, overflow := safeMul(toWordSize(words), GasSha3Word)
	if overflow {
		return 0, ErrGasUintOverflow
	}
	if gas, overflow = safeAdd(gas, wordGas); overflow {
		return 0, ErrGasUintOverflow
	}
	initGas, err := gasInitCodeWordCost(evm, stk, 2)
	if err != nil {
		return 0, err
	}
	if gas, overflow = safeAdd(gas, initGas); overflow {
		return 0, ErrGasUintOverflow
	}
	return gas, nil
}

func makeGasLog(n int) gasFunc {
	return func(evm VMInterpreter, contract *Contract, stk *stack.Stack, mem *Memory, memorySize uint64) (uint64, error) {
		requestedSize, overflow := stk.Back(1).Uint64WithOverflow()
		if overflow {
			return 0, ErrGasUintOverflow
		}
		gas, err := memoryGasCost(mem, memorySize)
		if err != nil {
			return 0, err
		}
		if gas, overflow = safeAdd(gas, GasLogTopic*uint64(n)); overflow {
			return 0, ErrGasUintOverflow
		}
		dataCost, overflow := safeMul(requestedSize, GasLogData)
		if overflow {
			return 0, ErrGasUintOverflow
		}
		if gas, overflow = safeAdd(gas, dataCost); overflow {
			return 0, ErrGasUintOverflow
		}
		return gas, nil
	}
}
