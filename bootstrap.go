// Copyright (c) 2025, Lux Industries Inc
// SPDX-License-Identifier: BSD-3-Clause

package tfhe

import (
	"fmt"

	"github.com/luxfi/tfhe/internal/poly"
	"github.com/luxfi/tfhe/internal/torus"
)

// BootstrappingKey holds one TRGSW encryption, under the ring key, of each
// bit of the level-0 key, together with their NTT images.
type BootstrappingKey struct {
	Value []*TRGSW

	ntt []*TRGSWNTT
}

// NewBootstrappingKey validates rows and precomputes their NTT images.
func NewBootstrappingKey(params Parameters, rows []*TRGSW) (*BootstrappingKey, error) {
	if len(rows) != params.LWEDimension() {
		return nil, fmt.Errorf("bootstrapping key: %w: %d rows, want %d", ErrDimensionMismatch, len(rows), params.LWEDimension())
	}
	bsk := &BootstrappingKey{Value: rows, ntt: make([]*TRGSWNTT, len(rows))}
	for i, c := range rows {
		if err := checkTRGSW(params, c); err != nil {
			return nil, fmt.Errorf("bootstrapping key row %d: %w", i, err)
		}
		bsk.ntt[i] = c.NTT(params)
	}
	return bsk, nil
}

// NewTestVector returns the trivial TRLWE whose every coefficient is mu.
// Blind rotation of a ciphertext of phase p against it yields +mu in the
// constant coefficient when p is in [0, 1/2) and -mu otherwise.
func NewTestVector(params Parameters, mu uint32) *TRLWE {
	m := make([]uint32, params.PolyDegree())
	for i := range m {
		m[i] = mu
	}
	return NewTRLWETrivial(params, m)
}

// blindRotate sets acc = X^(-phase) * tv where phase is the level-0 phase
// of ct switched to Z_2N. tv and acc must not alias.
func (eval *Evaluator) blindRotate(ct *TLWE, tv, acc *TRLWE) {
	n2 := uint64(2 * eval.params.PolyDegree())
	bBar := torus.ModSwitch(ct.B, n2)
	acc.MonomialMul(tv, int((n2-bBar)%n2))

	rot := eval.rot
	for i, a := range ct.A {
		aBar := int(torus.ModSwitch(a, n2))
		if aBar == 0 {
			continue
		}
		// acc += bsk[i] ⊡ ((X^aBar - 1) * acc)
		for j := range acc.Value {
			poly.MonomialMulMinusOne(acc.Value[j], aBar, rot.Value[j])
		}
		eval.ep.externalProduct(eval.params, eval.bsk.ntt[i], rot, rot)
		acc.Add(acc, rot)
	}
}

// BlindRotate homomorphically rotates the test vector tv by the phase of
// the level-0 ciphertext ct.
func (eval *Evaluator) BlindRotate(ct *TLWE, tv *TRLWE) (*TRLWE, error) {
	if err := checkTLWE(eval.params, Level0, ct); err != nil {
		return nil, fmt.Errorf("blind rotate: %w", err)
	}
	if err := checkTRLWE(eval.params, tv); err != nil {
		return nil, fmt.Errorf("blind rotate: %w", err)
	}
	acc := NewTRLWE(eval.params)
	eval.blindRotate(ct, tv, acc)
	return acc, nil
}

// sampleExtract writes coefficient index of ct into the level-1 ciphertext
// out.
func sampleExtract(params Parameters, ct *TRLWE, index int, out *TLWE) {
	n := params.PolyDegree()
	k := params.GLWERank()
	for j := 0; j < k; j++ {
		a := ct.Value[j]
		o := out.A[j*n : (j+1)*n]
		for i := 0; i <= index; i++ {
			o[i] = a[index-i]
		}
		for i := index + 1; i < n; i++ {
			o[i] = -a[n+index-i]
		}
	}
	out.B = ct.Value[k][index]
}

// SampleExtract returns coefficient index of the message of ct as a level-1
// TLWE ciphertext under the flattened ring key.
func SampleExtract(params Parameters, ct *TRLWE, index int) (*TLWE, error) {
	if err := checkTRLWE(params, ct); err != nil {
		return nil, fmt.Errorf("sample extract: %w", err)
	}
	if index < 0 || index >= params.PolyDegree() {
		return nil, fmt.Errorf("sample extract: %w: index %d outside [0, %d)", ErrDimensionMismatch, index, params.PolyDegree())
	}
	out := NewTLWE(params, Level1)
	sampleExtract(params, ct, index, out)
	return out, nil
}

// GateBootstrappingTLWEToTLWE bootstraps a level-0 ciphertext to a fresh
// level-1 encryption of ±1/8 carrying the sign of the input phase, without
// key switching.
func (eval *Evaluator) GateBootstrappingTLWEToTLWE(ct *TLWE) (*TLWE, error) {
	if err := checkTLWE(eval.params, Level0, ct); err != nil {
		return nil, fmt.Errorf("gate bootstrapping: %w", err)
	}
	out := NewTLWE(eval.params, Level1)
	eval.bootstrapToLevel1(ct, out)
	return out, nil
}

// bootstrapToLevel1 is blind rotation against the ±1/8 test vector
// followed by extraction of the constant coefficient.
func (eval *Evaluator) bootstrapToLevel1(ct, out *TLWE) {
	eval.blindRotate(ct, eval.tv, eval.acc)
	sampleExtract(eval.params, eval.acc, 0, out)
}
