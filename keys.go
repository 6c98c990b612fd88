// Copyright (c) 2025, Lux Industries Inc
// SPDX-License-Identifier: BSD-3-Clause

package tfhe

import "fmt"

// SecretKey holds the binary keys of both levels.
type SecretKey struct {
	// LWE is the level-0 key, n bits.
	LWE []int32
	// GLWE is the ring key, k binary polynomials of degree < N.
	GLWE [][]int32
}

// Level1 flattens the ring key into the kN-bit vector key of level-1 TLWE
// ciphertexts obtained by sample extraction.
func (sk *SecretKey) Level1() []int32 {
	n := 0
	for _, s := range sk.GLWE {
		n += len(s)
	}
	out := make([]int32, 0, n)
	for _, s := range sk.GLWE {
		out = append(out, s...)
	}
	return out
}

// Validate reports whether sk has the dimensions implied by params.
func (sk *SecretKey) Validate(params Parameters) error {
	if sk == nil {
		return fmt.Errorf("%w: nil secret key", ErrDimensionMismatch)
	}
	if len(sk.LWE) != params.LWEDimension() {
		return fmt.Errorf("%w: LWE key of length %d, want %d", ErrDimensionMismatch, len(sk.LWE), params.LWEDimension())
	}
	if len(sk.GLWE) != params.GLWERank() {
		return fmt.Errorf("%w: GLWE key of rank %d, want %d", ErrDimensionMismatch, len(sk.GLWE), params.GLWERank())
	}
	for i, s := range sk.GLWE {
		if len(s) != params.PolyDegree() {
			return fmt.Errorf("%w: GLWE key polynomial %d of degree %d, want %d", ErrDimensionMismatch, i, len(s), params.PolyDegree())
		}
	}
	return nil
}

// keyVector returns the vector key of the given level.
func (sk *SecretKey) keyVector(params Parameters, level Level) ([]int32, error) {
	if err := sk.Validate(params); err != nil {
		return nil, err
	}
	if level == Level0 {
		return sk.LWE, nil
	}
	return sk.Level1(), nil
}

// EvaluationKey bundles the public material needed to evaluate gates.
// It is read-only once generated and may be shared by any number of
// evaluators.
type EvaluationKey struct {
	// BSK is the bootstrapping key (TRGSW encryptions of the level-0 key bits)
	BSK *BootstrappingKey
	// KSK is the key switching key from the level-1 key to the level-0 key
	KSK *KeySwitchKey
}

// KeyGenerator generates keys
type KeyGenerator struct {
	params Parameters
	rng    RandomSource
}

// NewKeyGenerator creates a new key generator drawing from rng
func NewKeyGenerator(params Parameters, rng RandomSource) *KeyGenerator {
	return &KeyGenerator{params: params, rng: rng}
}

// GenSecretKey generates a new secret key with uniform binary coefficients
func (kg *KeyGenerator) GenSecretKey() *SecretKey {
	sk := &SecretKey{
		LWE:  make([]int32, kg.params.LWEDimension()),
		GLWE: make([][]int32, kg.params.GLWERank()),
	}
	for i := range sk.LWE {
		sk.LWE[i] = UniformBit(kg.rng)
	}
	for j := range sk.GLWE {
		sk.GLWE[j] = make([]int32, kg.params.PolyDegree())
		for i := range sk.GLWE[j] {
			sk.GLWE[j][i] = UniformBit(kg.rng)
		}
	}
	return sk
}

// GenBootstrappingKey encrypts every bit of the level-0 key as a TRGSW
// ciphertext under the ring key.
func (kg *KeyGenerator) GenBootstrappingKey(sk *SecretKey) (*BootstrappingKey, error) {
	if err := sk.Validate(kg.params); err != nil {
		return nil, fmt.Errorf("gen bootstrapping key: %w", err)
	}
	rk := newRingKey(kg.params, sk)
	rows := make([]*TRGSW, kg.params.LWEDimension())
	for i, s := range sk.LWE {
		rows[i] = NewTRGSW(kg.params)
		encryptTRGSWConst(kg.params, rk, s, kg.rng, rows[i])
	}
	return NewBootstrappingKey(kg.params, rows)
}

// GenKeySwitchKey encrypts, under the level-0 key, every multiple v/base^(j+1)
// of every bit of the level-1 key, for each non-zero digit v and each digit
// position j.
func (kg *KeyGenerator) GenKeySwitchKey(sk *SecretKey) (*KeySwitchKey, error) {
	if err := sk.Validate(kg.params); err != nil {
		return nil, fmt.Errorf("gen key switch key: %w", err)
	}
	g := kg.params.KeySwitchGadget()
	s1 := sk.Level1()
	ksk := newKeySwitchKey(kg.params)
	for i, bit := range s1 {
		for j := 0; j < g.Level; j++ {
			for v := 1; v < g.Base(); v++ {
				mu := uint32(v) * uint32(bit) * g.Factor(j)
				ct := NewTLWE(kg.params, Level0)
				encryptTLWE(sk.LWE, mu, kg.params.KeySwitchStdDev(), kg.rng, ct)
				ksk.Value[i][j][v] = ct
			}
		}
	}
	return ksk, nil
}

// GenEvaluationKey generates the bootstrapping and key switching keys.
func (kg *KeyGenerator) GenEvaluationKey(sk *SecretKey) (*EvaluationKey, error) {
	bsk, err := kg.GenBootstrappingKey(sk)
	if err != nil {
		return nil, err
	}
	ksk, err := kg.GenKeySwitchKey(sk)
	if err != nil {
		return nil, err
	}
	return &EvaluationKey{BSK: bsk, KSK: ksk}, nil
}
