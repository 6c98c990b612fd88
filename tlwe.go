// Copyright (c) 2025, Lux Industries Inc
// SPDX-License-Identifier: BSD-3-Clause

package tfhe

import (
	"fmt"

	"github.com/luxfi/tfhe/internal/torus"
)

// Mu is the torus encoding of a true bit, 1/8. False is encoded as -Mu.
var Mu = torus.FromFraction(1, 3)

// encodeBool maps a bit to ±1/8.
func encodeBool(bit bool) uint32 {
	if bit {
		return Mu
	}
	return -Mu
}

// TLWE is an LWE ciphertext over the torus: B = <A, s> + m + e for the key s
// of the ciphertext's level.
type TLWE struct {
	Level Level
	A     []uint32
	B     uint32
}

// NewTLWE allocates a zero ciphertext at level.
func NewTLWE(params Parameters, level Level) *TLWE {
	return &TLWE{Level: level, A: make([]uint32, params.Dimension(level))}
}

// NewTLWETrivial returns the noiseless, keyless encryption (0, mu).
func NewTLWETrivial(params Parameters, level Level, mu uint32) *TLWE {
	ct := NewTLWE(params, level)
	ct.B = mu
	return ct
}

// EncryptTLWE encrypts bit as ±1/8 under the key of the given level, with
// the fresh-encryption noise of that level.
func EncryptTLWE(params Parameters, sk *SecretKey, level Level, bit bool, rng RandomSource) (*TLWE, error) {
	return EncryptTLWETorus(params, sk, level, encodeBool(bit), params.StdDev(level), rng)
}

// EncryptTLWETorus encrypts an arbitrary torus message mu with Gaussian
// noise of standard deviation stdDev.
func EncryptTLWETorus(params Parameters, sk *SecretKey, level Level, mu uint32, stdDev float64, rng RandomSource) (*TLWE, error) {
	key, err := sk.keyVector(params, level)
	if err != nil {
		return nil, fmt.Errorf("encrypt tlwe: %w", err)
	}
	ct := NewTLWE(params, level)
	encryptTLWE(key, mu, stdDev, rng, ct)
	return ct, nil
}

// encryptTLWE overwrites ct with a fresh encryption of mu under key.
func encryptTLWE(key []int32, mu uint32, stdDev float64, rng RandomSource, ct *TLWE) {
	b := mu + rng.NormalTorus(stdDev)
	for i := range ct.A {
		ct.A[i] = rng.UniformTorus()
		b += ct.A[i] * uint32(key[i])
	}
	ct.B = b
}

// phase returns b - <a, key>.
func phase(key []int32, ct *TLWE) uint32 {
	p := ct.B
	for i, a := range ct.A {
		p -= a * uint32(key[i])
	}
	return p
}

// Phase returns the noisy message b - <a, s> under sk.
func (ct *TLWE) Phase(params Parameters, sk *SecretKey) (uint32, error) {
	if ct == nil {
		return 0, fmt.Errorf("tlwe phase: %w: nil ciphertext", ErrDimensionMismatch)
	}
	key, err := sk.keyVector(params, ct.Level)
	if err != nil {
		return 0, fmt.Errorf("tlwe phase: %w", err)
	}
	if len(ct.A) != len(key) {
		return 0, fmt.Errorf("tlwe phase: %w: mask of length %d for %s key of length %d",
			ErrDimensionMismatch, len(ct.A), ct.Level, len(key))
	}
	return phase(key, ct), nil
}

// DecryptBool returns true iff the signed phase is positive, that is, iff
// it is nearer to +1/8 than to -1/8.
func (ct *TLWE) DecryptBool(params Parameters, sk *SecretKey) (bool, error) {
	p, err := ct.Phase(params, sk)
	if err != nil {
		return false, err
	}
	return int32(p) > 0, nil
}

// CopyNew returns a deep copy of ct.
func (ct *TLWE) CopyNew() *TLWE {
	return &TLWE{Level: ct.Level, A: append([]uint32(nil), ct.A...), B: ct.B}
}

// Copy sets ct = a and returns ct.
func (ct *TLWE) Copy(a *TLWE) *TLWE {
	mustMatchTLWE(ct, a)
	copy(ct.A, a.A)
	ct.B = a.B
	return ct
}

// SetTrivial sets ct to the trivial ciphertext (0, mu) and returns ct.
func (ct *TLWE) SetTrivial(mu uint32) *TLWE {
	clear(ct.A)
	ct.B = mu
	return ct
}

// Add sets ct = a + b and returns ct.
func (ct *TLWE) Add(a, b *TLWE) *TLWE {
	mustMatchTLWE(ct, a, b)
	for i := range ct.A {
		ct.A[i] = a.A[i] + b.A[i]
	}
	ct.B = a.B + b.B
	return ct
}

// Sub sets ct = a - b and returns ct.
func (ct *TLWE) Sub(a, b *TLWE) *TLWE {
	mustMatchTLWE(ct, a, b)
	for i := range ct.A {
		ct.A[i] = a.A[i] - b.A[i]
	}
	ct.B = a.B - b.B
	return ct
}

// Neg sets ct = -a and returns ct.
func (ct *TLWE) Neg(a *TLWE) *TLWE {
	mustMatchTLWE(ct, a)
	for i := range ct.A {
		ct.A[i] = -a.A[i]
	}
	ct.B = -a.B
	return ct
}

// MulScalar sets ct = c * a and returns ct.
func (ct *TLWE) MulScalar(a *TLWE, c int32) *TLWE {
	mustMatchTLWE(ct, a)
	for i := range ct.A {
		ct.A[i] = uint32(c) * a.A[i]
	}
	ct.B = uint32(c) * a.B
	return ct
}

// AddMul sets ct += c * a and returns ct.
func (ct *TLWE) AddMul(a *TLWE, c int32) *TLWE {
	mustMatchTLWE(ct, a)
	for i := range ct.A {
		ct.A[i] += uint32(c) * a.A[i]
	}
	ct.B += uint32(c) * a.B
	return ct
}

// AddConstant adds the torus constant mu to the body and returns ct.
func (ct *TLWE) AddConstant(mu uint32) *TLWE {
	ct.B += mu
	return ct
}

// mustMatchTLWE panics if the operands do not share a level and dimension.
func mustMatchTLWE(ct *TLWE, ops ...*TLWE) {
	for _, op := range ops {
		if op.Level != ct.Level || len(op.A) != len(ct.A) {
			panic(fmt.Errorf("%w: %s/%d and %s/%d", ErrDimensionMismatch, ct.Level, len(ct.A), op.Level, len(op.A)))
		}
	}
}

// checkTLWE returns an error if ct is not a well-formed ciphertext at level.
func checkTLWE(params Parameters, level Level, ct *TLWE) error {
	if ct == nil {
		return fmt.Errorf("%w: nil ciphertext", ErrDimensionMismatch)
	}
	if ct.Level != level || len(ct.A) != params.Dimension(level) {
		return fmt.Errorf("%w: got %s ciphertext of dimension %d, want %s of dimension %d",
			ErrDimensionMismatch, ct.Level, len(ct.A), level, params.Dimension(level))
	}
	return nil
}
