// Copyright (c) 2025, Lux Industries Inc
// SPDX-License-Identifier: BSD-3-Clause

package tfhe

import (
	"fmt"

	"github.com/luxfi/tfhe/internal/torus"
)

// Decryptor decrypts TLWE ciphertexts of either level to boolean values
type Decryptor struct {
	params Parameters
	keys   [2][]int32
}

// NewDecryptor creates a new decryptor from secret key
func NewDecryptor(params Parameters, sk *SecretKey) (*Decryptor, error) {
	if err := sk.Validate(params); err != nil {
		return nil, fmt.Errorf("new decryptor: %w", err)
	}
	return &Decryptor{
		params: params,
		keys:   [2][]int32{sk.LWE, sk.Level1()},
	}, nil
}

// Phase returns b - <a, s> for the key of the ciphertext's level.
// Note: Panics if ct does not match the parameters
func (dec *Decryptor) Phase(ct *TLWE) uint32 {
	if ct == nil || (ct.Level != Level0 && ct.Level != Level1) {
		panic(fmt.Errorf("decrypt: %w: invalid ciphertext", ErrDimensionMismatch))
	}
	if err := checkTLWE(dec.params, ct.Level, ct); err != nil {
		panic(fmt.Errorf("decrypt: %w", err))
	}
	return phase(dec.keys[ct.Level], ct)
}

// Decrypt decrypts a ciphertext to a boolean
// The phase is true near +1/8 and false near -1/8, so its sign decides.
func (dec *Decryptor) Decrypt(ct *TLWE) bool {
	return int32(dec.Phase(ct)) > 0
}

// DecryptBit returns the decrypted bit as int (0 or 1)
func (dec *Decryptor) DecryptBit(ct *TLWE) int {
	if dec.Decrypt(ct) {
		return 1
	}
	return 0
}

// DecryptBits decrypts a slice of ciphertexts
func (dec *Decryptor) DecryptBits(cts []*TLWE) []bool {
	out := make([]bool, len(cts))
	for i, ct := range cts {
		out[i] = dec.Decrypt(ct)
	}
	return out
}

// DecryptByte decrypts 8 ciphertexts to a byte
func (dec *Decryptor) DecryptByte(cts [8]*TLWE) byte {
	var b byte
	for i := 0; i < 8; i++ {
		if dec.Decrypt(cts[i]) {
			b |= 1 << i
		}
	}
	return b
}

// DecryptUint32 decrypts 32 ciphertexts to uint32
func (dec *Decryptor) DecryptUint32(cts [32]*TLWE) uint32 {
	var v uint32
	for i := 0; i < 32; i++ {
		if dec.Decrypt(cts[i]) {
			v |= 1 << i
		}
	}
	return v
}

// DecryptUint64 decrypts 64 ciphertexts to uint64
func (dec *Decryptor) DecryptUint64(cts [64]*TLWE) uint64 {
	var v uint64
	for i := 0; i < 64; i++ {
		if dec.Decrypt(cts[i]) {
			v |= 1 << i
		}
	}
	return v
}

// PhaseError returns the distance on the torus between the phase of ct and
// the nearest of ±1/8, as a fraction of the torus.
func (dec *Decryptor) PhaseError(ct *TLWE) float64 {
	p := dec.Phase(ct)
	return min(torus.Distance(p, Mu), torus.Distance(p, -Mu))
}
