// Copyright (c) 2025, Lux Industries Inc
// SPDX-License-Identifier: BSD-3-Clause

package poly

import (
	"fmt"

	"github.com/luxfi/lattice/v7/ring"
)

// Q is the NTT prime: 2^58 - 2^26 - 2^17 + 1, with Q ≡ 1 (mod 2^17).
// It supports negacyclic transforms up to N = 2^16, and its half-width
// (2^57) bounds the magnitude of any integer convolution computed exactly.
const Q uint64 = 0x3ffffffffbe0001

// MinDegree is the smallest polynomial degree the engine accepts; the
// ring transforms are loop-unrolled over blocks of 16 coefficients.
const MinDegree = 16

// NTTEngine computes exact negacyclic convolutions in Z[X]/(X^N+1) through
// a single-modulus ring.Ring over Q.
//
// Torus coefficients are lifted to their signed representative in
// [-2^31, 2^31) and integer coefficients are taken as is, so the product is
// exact as long as every coefficient of the integer result lies in
// (-Q/2, Q/2). The torus result is that integer reduced modulo 2^32.
//
// The engine is read-only after construction and safe for concurrent use.
type NTTEngine struct {
	N int
	Q uint64

	ringQ *ring.Ring
}

// NewNTTEngine creates an engine for polynomials of degree N.
func NewNTTEngine(N int) (*NTTEngine, error) {
	if N < MinDegree || N&(N-1) != 0 {
		return nil, fmt.Errorf("ntt: degree %d is not a power of two >= %d", N, MinDegree)
	}
	if (Q-1)%(2*uint64(N)) != 0 {
		return nil, fmt.Errorf("ntt: Q-1 is not divisible by 2N (%d)", 2*N)
	}

	ringQ, err := ring.NewRing(N, []uint64{Q})
	if err != nil {
		return nil, fmt.Errorf("ntt: new ring: %w", err)
	}
	return &NTTEngine{N: N, Q: Q, ringQ: ringQ}, nil
}

// asPoly views a coefficient slice as a level-0 ring polynomial.
func asPoly(coeffs []uint64) ring.Poly {
	return ring.Poly{Coeffs: [][]uint64{coeffs}}
}

// NTTInPlace performs the forward negacyclic NTT. Coefficients must be in
// [0, Q).
func (e *NTTEngine) NTTInPlace(coeffs []uint64) {
	p := asPoly(coeffs)
	e.ringQ.NTT(p, p)
}

// INTTInPlace performs the inverse negacyclic NTT, including the N^-1
// scaling.
func (e *NTTEngine) INTTInPlace(coeffs []uint64) {
	p := asPoly(coeffs)
	e.ringQ.INTT(p, p)
}

// ForwardTorus lifts a torus polynomial to its signed representative and
// transforms it into out.
func (e *NTTEngine) ForwardTorus(p []uint32, out []uint64) {
	for i, c := range p {
		out[i] = e.lift(int64(int32(c)))
	}
	e.NTTInPlace(out)
}

// ForwardInt transforms a signed integer polynomial into out.
func (e *NTTEngine) ForwardInt(p []int32, out []uint64) {
	for i, c := range p {
		out[i] = e.lift(int64(c))
	}
	e.NTTInPlace(out)
}

// InverseTorus transforms in back to coefficients and writes the result
// reduced modulo 2^32 into out. in is overwritten.
func (e *NTTEngine) InverseTorus(in []uint64, out []uint32) {
	e.INTTInPlace(in)
	for i, c := range in {
		out[i] = uint32(e.center(c))
	}
}

// InverseTorusAdd is InverseTorus followed by an accumulation into out.
func (e *NTTEngine) InverseTorusAdd(in []uint64, out []uint32) {
	e.INTTInPlace(in)
	for i, c := range in {
		out[i] += uint32(e.center(c))
	}
}

// PolyMulNTT multiplies two polynomials in NTT form: result = a * b.
func (e *NTTEngine) PolyMulNTT(a, b, result []uint64) {
	e.ringQ.MulCoeffsBarrett(asPoly(a), asPoly(b), asPoly(result))
}

// PolyMulNTTAccum multiplies and accumulates in NTT form: result += a * b.
func (e *NTTEngine) PolyMulNTTAccum(a, b, result []uint64) {
	e.ringQ.MulCoeffsBarrettThenAdd(asPoly(a), asPoly(b), asPoly(result))
}

// ToMontgomery converts an NTT-form polynomial in place to Montgomery form,
// for use as the second operand of PolyMulMontAccum.
func (e *NTTEngine) ToMontgomery(p []uint64) {
	mp := asPoly(p)
	e.ringQ.MForm(mp, mp)
}

// PolyMulMontAccum computes result += a * b in NTT form, with b in
// Montgomery form. It costs one reduction per coefficient instead of two.
func (e *NTTEngine) PolyMulMontAccum(a, bMont, result []uint64) {
	e.ringQ.MulCoeffsMontgomeryThenAdd(asPoly(a), asPoly(bMont), asPoly(result))
}

// MulTorusInt sets out = a * b mod X^N+1 for a torus polynomial a and an
// integer polynomial b. It allocates its own scratch space; hot loops should
// use the Forward/PolyMul/Inverse primitives with reusable buffers instead.
func (e *NTTEngine) MulTorusInt(a []uint32, b []int32, out []uint32) {
	fa := make([]uint64, e.N)
	fb := make([]uint64, e.N)
	e.ForwardTorus(a, fa)
	e.ForwardInt(b, fb)
	e.PolyMulNTT(fa, fb, fa)
	e.InverseTorus(fa, out)
}

// Bound returns the largest coefficient magnitude the engine reproduces
// exactly.
func (e *NTTEngine) Bound() float64 {
	return float64(e.Q >> 1)
}

// lift maps a signed integer to [0, Q).
func (e *NTTEngine) lift(x int64) uint64 {
	if x < 0 {
		return e.Q - uint64(-x)
	}
	return uint64(x)
}

// center maps [0, Q) to the signed representative in (-Q/2, Q/2].
func (e *NTTEngine) center(x uint64) int64 {
	if x > e.Q>>1 {
		return -int64(e.Q - x)
	}
	return int64(x)
}
