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

package precompiles

import (
	"crypto/sha256"
	"math/big"

	"golang.org/x/crypto/ripemd160" //nolint:staticcheck // address 0x03 requires this exact digest

	"github.com/n42blockchain/N42/internal/vm"
)

// Gas costs for the Homestead/Byzantium precompiles, unchanged since
// their introduction.
const (
	ecrecoverGas  uint64 = 3000
	sha256PerWord uint64 = 12
	sha256Base    uint64 = 60
	ripemdPerWord uint64 = 120
	ripemdBase    uint64 = 600
	dataCopyPerWord uint64 = 3
	dataCopyBase    uint64 = 15
)

func wordCount(n int) uint64 {
	return (uint64(n) + 31) / 32
}

// =============================================================================
// address 0x01: ecrecover
// =============================================================================
//
// ecrecover itself (elliptic-curve signature recovery) is precompile
// implementation detail this engine does not reimplement; only the gas
// accounting and dispatch shape that the interpreter relies on are real.
// A call always reports failure (empty output), which is
// indistinguishable on-chain from "signature did not recover".

type ecrecoverContract struct{}

// NewEcrecover creates the ecrecover precompile (address 0x01).
func NewEcrecover() PrecompiledContract { return ecrecoverContract{} }

func (ecrecoverContract) RequiredGas(_ []byte) uint64 { return ecrecoverGas }

func (ecrecoverContract) Run(_ []byte) ([]byte, error) { return nil, nil }

// =============================================================================
// address 0x02: SHA256
// =============================================================================

type sha256Contract struct{}

// NewSha256 creates the SHA256 precompile (address 0x02).
func NewSha256() PrecompiledContract { return sha256Contract{} }

func (sha256Contract) RequiredGas(input []byte) uint64 {
	return wordCount(len(input))*sha256PerWord + sha256Base
}

func (sha256Contract) Run(input []byte) ([]byte, error) {
	h := sha256.Sum256(input)
	return h[:], nil
}

// =============================================================================
// address 0x03: RIPEMD160
// =============================================================================

type ripemd160Contract struct{}

// NewRipemd160 creates the RIPEMD160 precompile (address 0x03).
func NewRipemd160() PrecompiledContract { return ripemd160Contract{} }

func (ripemd160Contract) RequiredGas(input []byte) uint64 {
	return wordCount(len(input))*ripemdPerWord + ripemdBase
}

func (ripemd160Contract) Run(input []byte) ([]byte, error) {
	h := ripemd160.New()
	h.Write(input)
	sum := h.Sum(nil)
	// Left-padded to 32 bytes, the digest occupying the low 20.
	out := make([]byte, 32)
	copy(out[32-len(sum):], sum)
	return out, nil
}

// =============================================================================
// address 0x04: identity / data copy
// =============================================================================

type dataCopyContract struct{}

// NewDataCopy creates the identity precompile (address 0x04).
func NewDataCopy() PrecompiledContract { return dataCopyContract{} }

func (dataCopyContract) RequiredGas(input []byte) uint64 {
	return wordCount(len(input))*dataCopyPerWord + dataCopyBase
}

func (dataCopyContract) Run(input []byte) ([]byte, error) {
	out := make([]byte, len(input))
	copy(out, input)
	return out, nil
}

// =============================================================================
// address 0x05: big integer modular exponentiation (EIP-198/EIP-2565)
// =============================================================================

type bigModExpContract struct {
	eip2565 bool
}

// NewBigModExp creates the MODEXP precompile (address 0x05). eip2565
// selects the Berlin gas repricing.
func NewBigModExp(eip2565 bool) PrecompiledContract {
	return bigModExpContract{eip2565: eip2565}
}

func modexpLengths(input []byte) (baseLen, expLen, modLen *big.Int) {
	get := func(i int) *big.Int {
		var b [32]byte
		if i < len(input) {
			copy(b[:], input[i:])
		}
		return new(big.Int).SetBytes(b[:])
	}
	return get(0), get(32), get(64)
}

func (c bigModExpContract) RequiredGas(input []byte) uint64 {
	baseLen, expLen, modLen := modexpLengths(input)
	maxLen := baseLen
	if modLen.Cmp(maxLen) > 0 {
		maxLen = modLen
	}
	words := (maxLen.Uint64() + 7) / 8
	gas := words * words
	if !c.eip2565 {
		return gas * divExp(expLen)
	}
	gas = gas * divExp(expLen) / 3
	if gas < 200 {
		gas = 200
	}
	return gas
}

func divExp(expLen *big.Int) uint64 {
	if expLen.Sign() == 0 {
		return 1
	}
	bits := expLen.BitLen()
	if bits <= 1 {
		return 1
	}
	return uint64(bits - 1)
}

func (bigModExpContract) Run(input []byte) ([]byte, error) {
	baseLen, expLen, modLen := modexpLengths(input)
	bl, el, ml := int(baseLen.Uint64()), int(expLen.Uint64()), int(modLen.Uint64())

	data := input
	if len(data) > 96 {
		data = data[96:]
	} else {
		data = nil
	}
	readSlice := func(n int) []byte {
		buf := make([]byte, n)
		copy(buf, data)
		if len(data) > n {
			data = data[n:]
		} else {
			data = nil
		}
		return buf
	}

	base := new(big.Int).SetBytes(readSlice(bl))
	exp := new(big.Int).SetBytes(readSlice(el))
	mod := new(big.Int).SetBytes(readSlice(ml))

	out := make([]byte, ml)
	if mod.Sign() == 0 {
		return out, nil
	}
	res := new(big.Int).Exp(base, exp, mod)
	resBytes := res.Bytes()
	copy(out[ml-len(resBytes):], resBytes)
	return out, nil
}

// =============================================================================
// addresses 0x06-0x08: alt_bn128 curve operations (EIP-196/197/1108)
// =============================================================================
//
// The elliptic-curve arithmetic itself is precompile implementation detail
// out of scope for this engine; these stand-ins carry the correct gas
// schedule (pre- and post-Istanbul) but compute no curve operation. Add
// and scalar-mul return 64 zero bytes, and pairing returns 1 for any
// input whose length is a multiple of 192 (0 otherwise), all with a nil
// error. Inputs are not validated.

const (
	bn256AddGasByzantium      uint64 = 500
	bn256AddGasIstanbul       uint64 = 150
	bn256ScalarMulGasByzantium uint64 = 40000
	bn256ScalarMulGasIstanbul  uint64 = 6000
	bn256PairingBaseByzantium uint64 = 100000
	bn256PairingBaseIstanbul  uint64 = 45000
	bn256PairingPerPointByzantium uint64 = 80000
	bn256PairingPerPointIstanbul  uint64 = 34000
)

type bn256AddContract struct{ istanbul bool }

// NewBn256Add creates the alt_bn128 point addition precompile (address 0x06).
func NewBn256Add(istanbul bool) PrecompiledContract { return bn256AddContract{istanbul} }

func (c bn256AddContract) RequiredGas(_ []byte) uint64 {
	if c.istanbul {
		return bn256AddGasIstanbul
	}
	return bn256AddGasByzantium
}

func (bn256AddContract) Run(_ []byte) ([]byte, error) { return make([]byte, 64), nil }

type bn256ScalarMulContract struct{ istanbul bool }

// NewBn256ScalarMul creates the alt_bn128 scalar multiplication
// precompile (address 0x07).
func NewBn256ScalarMul(istanbul bool) PrecompiledContract { return bn256ScalarMulContract{istanbul} }

func (c bn256ScalarMulContract) RequiredGas(_ []byte) uint64 {
	if c.istanbul {
		return bn256ScalarMulGasIstanbul
	}
	return bn256ScalarMulGasByzantium
}

func (bn256ScalarMulContract) Run(_ []byte) ([]byte, error) { return make([]byte, 64), nil }

type bn256PairingContract struct{ istanbul bool }

// NewBn256Pairing creates the alt_bn128 pairing check precompile
// (address 0x08).
func NewBn256Pairing(istanbul bool) PrecompiledContract { return bn256PairingContract{istanbul} }

func (c bn256PairingContract) RequiredGas(input []byte) uint64 {
	points := uint64(len(input) / 192)
	if c.istanbul {
		return bn256PairingBaseIstanbul + points*bn256PairingPerPointIstanbul
	}
	return bn256PairingBaseByzantium + points*bn256PairingPerPointByzantium
}

func (bn256PairingContract) Run(input []byte) ([]byte, error) {
	out := make([]byte, 32)
	if len(input)%192 == 0 {
		out[31] = 1 // no pairing is computed; only the length is checked
	}
	return out, nil
}

// =============================================================================
// address 0x09: BLAKE2b F compression function (EIP-152)
// =============================================================================

const blake2FInputLength = 213

type blake2FContract struct{}

// NewBlake2F creates the BLAKE2F precompile (address 0x09).
func NewBlake2F() PrecompiledContract { return blake2FContract{} }

func (blake2FContract) RequiredGas(input []byte) uint64 {
	if len(input) != blake2FInputLength {
		return 0
	}
	rounds := uint64(0)
	for _, b := range input[0:4] {
		rounds = rounds<<8 | uint64(b)
	}
	return rounds
}

func (blake2FContract) Run(input []byte) ([]byte, error) {
	if len(input) != blake2FInputLength {
		return nil, vm.ErrPrecompileInput
	}
	// The F compression function itself is precompile implementation
	// detail; the 64-byte output state is echoed back unmodified.
	return append([]byte(nil), input[4:4+64]...), nil
}

// =============================================================================
// BLS12-381 precompiles (EIP-2537) — curve arithmetic out of scope,
// fixed-size zero output stand-ins with the published gas schedule.
// =============================================================================

const (
	bls12381G1AddGas      uint64 = 375
	bls12381G1MulGas      uint64 = 12000
	bls12381G2AddGas      uint64 = 600
	bls12381G2MulGas      uint64 = 22500
	bls12381PairingBase   uint64 = 37700
	bls12381PairingPerPair uint64 = 32600
	bls12381MapG1Gas      uint64 = 5500
	bls12381MapG2Gas      uint64 = 23800
)

type fixedGasZeroOutput struct {
	gas uint64
	out int
}

func (c fixedGasZeroOutput) RequiredGas(_ []byte) uint64 { return c.gas }
func (c fixedGasZeroOutput) Run(_ []byte) ([]byte, error) { return make([]byte, c.out), nil }

// NewBls12381G1Add creates the BLS12-381 G1 addition precompile (address 0x0b).
func NewBls12381G1Add() PrecompiledContract { return fixedGasZeroOutput{bls12381G1AddGas, 128} }

// NewBls12381G1Mul creates the BLS12-381 G1 multiplication precompile (address 0x0c).
func NewBls12381G1Mul() PrecompiledContract { return fixedGasZeroOutput{bls12381G1MulGas, 128} }

// NewBls12381G1MultiExp creates the BLS12-381 G1 multi-exponentiation
// precompile (address 0x0d). Gas scales with the number of (point, scalar)
// pairs in the input; the discount table itself is implementation detail.
func NewBls12381G1MultiExp() PrecompiledContract {
	return multiExpContract{perPair: bls12381G1MulGas, pairLen: 160, out: 128}
}

// NewBls12381G2Add creates the BLS12-381 G2 addition precompile (address 0x0e).
func NewBls12381G2Add() PrecompiledContract { return fixedGasZeroOutput{bls12381G2AddGas, 256} }

// NewBls12381G2Mul creates the BLS12-381 G2 multiplication precompile (address 0x0f).
func NewBls12381G2Mul() PrecompiledContract { return fixedGasZeroOutput{bls12381G2MulGas, 256} }

// NewBls12381G2MultiExp creates the BLS12-381 G2 multi-exponentiation
// precompile (address 0x10).
func NewBls12381G2MultiExp() PrecompiledContract {
	return multiExpContract{perPair: bls12381G2MulGas, pairLen: 288, out: 256}
}

// NewBls12381Pairing creates the BLS12-381 pairing check precompile
// (address 0x11).
func NewBls12381Pairing() PrecompiledContract { return bls12381PairingContract{} }

// NewBls12381MapG1 creates the BLS12-381 map-to-G1 precompile (address 0x12).
func NewBls12381MapG1() PrecompiledContract { return fixedGasZeroOutput{bls12381MapG1Gas, 128} }

// NewBls12381MapG2 creates the BLS12-381 map-to-G2 precompile (address 0x13).
func NewBls12381MapG2() PrecompiledContract { return fixedGasZeroOutput{bls12381MapG2Gas, 256} }

type multiExpContract struct {
	perPair uint64
	pairLen int
	out     int
}

func (c multiExpContract) RequiredGas(input []byte) uint64 {
	k := uint64(len(input) / c.pairLen)
	if k == 0 {
		return 0
	}
	return k * c.perPair
}

func (c multiExpContract) Run(_ []byte) ([]byte, error) { return make([]byte, c.out), nil }

type bls12381PairingContract struct{}

func (bls12381PairingContract) RequiredGas(input []byte) uint64 {
	k := uint64(len(input) / 384)
	return bls12381PairingBase + k*bls12381PairingPerPair
}

func (bls12381PairingContract) Run(input []byte) ([]byte, error) {
	out := make([]byte, 32)
	if len(input)%384 == 0 {
		out[31] = 1
	}
	return out, nil
}

// =============================================================================
// secp256r1 (P-256) precompiles (EIP-7212/EIP-7951) — signature math out
// of scope, gas-correct stand-ins that always report "not verified".
// =============================================================================

const p256VerifyGas uint64 = 3450

type p256VerifyContract struct{}

// NewP256Verify creates the P-256 signature verification precompile
// (address 0x0100, Prague+).
func NewP256Verify() PrecompiledContract { return p256VerifyContract{} }

func (p256VerifyContract) RequiredGas(_ []byte) uint64 { return p256VerifyGas }

func (p256VerifyContract) Run(_ []byte) ([]byte, error) { return nil, nil }

type p256EcrecoverContract struct{}

// NewP256Ecrecover creates a P-256 public key recovery precompile. Not
// part of any shipped EIP address table; kept for parity with the
// dispatch shape of the secp256k1 ecrecover.
func NewP256Ecrecover() PrecompiledContract { return p256EcrecoverContract{} }

func (p256EcrecoverContract) RequiredGas(_ []byte) uint64 { return p256VerifyGas }

func (p256EcrecoverContract) Run(_ []byte) ([]byte, error) { return nil, nil }
