// Copyright (c) 2025, Lux Industries Inc
// SPDX-License-Identifier: BSD-3-Clause

package tfhe

import (
	"fmt"

	"github.com/luxfi/tfhe/internal/poly"
)

// TRLWE is a ring LWE ciphertext over T[X]/(X^N+1). Value holds k+1
// polynomials: the k masks a_j followed by the body
// b = sum_j a_j*s_j + m + e.
type TRLWE struct {
	Value [][]uint32
}

// NewTRLWE allocates a zero TRLWE ciphertext.
func NewTRLWE(params Parameters) *TRLWE {
	ct := &TRLWE{Value: make([][]uint32, params.GLWERank()+1)}
	for i := range ct.Value {
		ct.Value[i] = make([]uint32, params.PolyDegree())
	}
	return ct
}

// NewTRLWETrivial returns the noiseless encryption (0, ..., 0, mu).
func NewTRLWETrivial(params Parameters, mu []uint32) *TRLWE {
	ct := NewTRLWE(params)
	copy(ct.Value[params.GLWERank()], mu)
	return ct
}

// ringKey is the ring key together with its NTT image.
type ringKey struct {
	s [][]int32
	f [][]uint64
}

func newRingKey(params Parameters, sk *SecretKey) *ringKey {
	ntt := params.NTT()
	rk := &ringKey{s: sk.GLWE, f: make([][]uint64, len(sk.GLWE))}
	for j, s := range sk.GLWE {
		rk.f[j] = make([]uint64, params.PolyDegree())
		ntt.ForwardInt(s, rk.f[j])
	}
	return rk
}

// maskProduct writes sum_j a_j * s_j into out.
func (rk *ringKey) maskProduct(params Parameters, ct *TRLWE, out []uint32) {
	ntt := params.NTT()
	fa := make([]uint64, params.PolyDegree())
	acc := make([]uint64, params.PolyDegree())
	for j := range rk.f {
		ntt.ForwardTorus(ct.Value[j], fa)
		ntt.PolyMulNTTAccum(fa, rk.f[j], acc)
	}
	ntt.InverseTorus(acc, out)
}

// encryptTRLWE overwrites ct with a fresh encryption of mu (zero if nil).
func encryptTRLWE(params Parameters, rk *ringKey, mu []uint32, stdDev float64, rng RandomSource, ct *TRLWE) {
	k := params.GLWERank()
	for j := 0; j < k; j++ {
		for i := range ct.Value[j] {
			ct.Value[j][i] = rng.UniformTorus()
		}
	}
	b := ct.Value[k]
	rk.maskProduct(params, ct, b)
	for i := range b {
		b[i] += rng.NormalTorus(stdDev)
	}
	if mu != nil {
		poly.AddAssign(mu, b)
	}
}

// EncryptTRLWE encrypts a binary polynomial, coefficient i being ±1/8
// according to bits[i].
func EncryptTRLWE(params Parameters, sk *SecretKey, bits []bool, rng RandomSource) (*TRLWE, error) {
	if len(bits) != params.PolyDegree() {
		return nil, fmt.Errorf("encrypt trlwe: %w: %d bits for degree %d", ErrDimensionMismatch, len(bits), params.PolyDegree())
	}
	mu := make([]uint32, len(bits))
	for i, b := range bits {
		mu[i] = encodeBool(b)
	}
	return EncryptTRLWETorus(params, sk, mu, params.StdDev(Level1), rng)
}

// EncryptTRLWETorus encrypts an arbitrary torus polynomial.
func EncryptTRLWETorus(params Parameters, sk *SecretKey, mu []uint32, stdDev float64, rng RandomSource) (*TRLWE, error) {
	if err := sk.Validate(params); err != nil {
		return nil, fmt.Errorf("encrypt trlwe: %w", err)
	}
	if len(mu) != params.PolyDegree() {
		return nil, fmt.Errorf("encrypt trlwe: %w: message of degree %d, want %d", ErrDimensionMismatch, len(mu), params.PolyDegree())
	}
	ct := NewTRLWE(params)
	encryptTRLWE(params, newRingKey(params, sk), mu, stdDev, rng, ct)
	return ct, nil
}

// Phase returns the noisy message polynomial b - sum_j a_j*s_j.
func (ct *TRLWE) Phase(params Parameters, sk *SecretKey) ([]uint32, error) {
	if err := sk.Validate(params); err != nil {
		return nil, fmt.Errorf("trlwe phase: %w", err)
	}
	if err := checkTRLWE(params, ct); err != nil {
		return nil, fmt.Errorf("trlwe phase: %w", err)
	}
	out := make([]uint32, params.PolyDegree())
	newRingKey(params, sk).maskProduct(params, ct, out)
	poly.Sub(ct.Value[params.GLWERank()], out, out)
	return out, nil
}

// DecryptPolyBool thresholds every coefficient of the phase at zero.
func (ct *TRLWE) DecryptPolyBool(params Parameters, sk *SecretKey) ([]bool, error) {
	p, err := ct.Phase(params, sk)
	if err != nil {
		return nil, err
	}
	bits := make([]bool, len(p))
	for i, c := range p {
		bits[i] = int32(c) > 0
	}
	return bits, nil
}

// CopyNew returns a deep copy of ct.
func (ct *TRLWE) CopyNew() *TRLWE {
	c := &TRLWE{Value: make([][]uint32, len(ct.Value))}
	for i := range ct.Value {
		c.Value[i] = append([]uint32(nil), ct.Value[i]...)
	}
	return c
}

// Copy sets ct = a and returns ct.
func (ct *TRLWE) Copy(a *TRLWE) *TRLWE {
	mustMatchTRLWE(ct, a)
	for i := range ct.Value {
		copy(ct.Value[i], a.Value[i])
	}
	return ct
}

// Add sets ct = a + b and returns ct.
func (ct *TRLWE) Add(a, b *TRLWE) *TRLWE {
	mustMatchTRLWE(ct, a, b)
	for i := range ct.Value {
		poly.Add(a.Value[i], b.Value[i], ct.Value[i])
	}
	return ct
}

// Sub sets ct = a - b and returns ct.
func (ct *TRLWE) Sub(a, b *TRLWE) *TRLWE {
	mustMatchTRLWE(ct, a, b)
	for i := range ct.Value {
		poly.Sub(a.Value[i], b.Value[i], ct.Value[i])
	}
	return ct
}

// MonomialMul sets ct = X^e * a for e in [0, 2N) and returns ct.
// ct and a must not alias.
func (ct *TRLWE) MonomialMul(a *TRLWE, e int) *TRLWE {
	mustMatchTRLWE(ct, a)
	for i := range ct.Value {
		poly.MonomialMul(a.Value[i], e, ct.Value[i])
	}
	return ct
}

// mustMatchTRLWE panics if an operand does not have the polynomial count
// and degrees of ct.
func mustMatchTRLWE(ct *TRLWE, ops ...*TRLWE) {
	for _, op := range ops {
		if op == nil || len(op.Value) != len(ct.Value) {
			panic(fmt.Errorf("%w: TRLWE operand shape differs from %d polynomials", ErrDimensionMismatch, len(ct.Value)))
		}
		for i := range op.Value {
			if len(op.Value[i]) != len(ct.Value[i]) {
				panic(fmt.Errorf("%w: TRLWE polynomial %d of degree %d, want %d",
					ErrDimensionMismatch, i, len(op.Value[i]), len(ct.Value[i])))
			}
		}
	}
}

// checkTRLWE returns an error if ct does not have k+1 polynomials of degree N.
func checkTRLWE(params Parameters, ct *TRLWE) error {
	if ct == nil {
		return fmt.Errorf("%w: nil TRLWE ciphertext", ErrDimensionMismatch)
	}
	if len(ct.Value) != params.GLWERank()+1 {
		return fmt.Errorf("%w: TRLWE with %d polynomials, want %d", ErrDimensionMismatch, len(ct.Value), params.GLWERank()+1)
	}
	for i, p := range ct.Value {
		if len(p) != params.PolyDegree() {
			return fmt.Errorf("%w: TRLWE polynomial %d of degree %d, want %d", ErrDimensionMismatch, i, len(p), params.PolyDegree())
		}
	}
	return nil
}
