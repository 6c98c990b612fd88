// Copyright (c) 2025, Lux Industries Inc
// SPDX-License-Identifier: BSD-3-Clause

// Package poly implements arithmetic in Z[X]/(X^N+1) for polynomials with
// torus (uint32) or small signed integer coefficients.
//
// Coefficient arithmetic wraps at the width of the coefficient type; for
// torus polynomials this wraparound is the reduction modulo 1.
package poly

import "golang.org/x/exp/constraints"

// Add sets out = a + b.
func Add[T constraints.Integer](a, b, out []T) {
	for i := range out {
		out[i] = a[i] + b[i]
	}
}

// AddAssign sets out += a.
func AddAssign[T constraints.Integer](a, out []T) {
	for i := range out {
		out[i] += a[i]
	}
}

// Sub sets out = a - b.
func Sub[T constraints.Integer](a, b, out []T) {
	for i := range out {
		out[i] = a[i] - b[i]
	}
}

// SubAssign sets out -= a.
func SubAssign[T constraints.Integer](a, out []T) {
	for i := range out {
		out[i] -= a[i]
	}
}

// Neg sets out = -a.
func Neg[T constraints.Integer](a, out []T) {
	for i := range out {
		out[i] = -a[i]
	}
}

// MulScalar sets out = c * a.
func MulScalar[T constraints.Integer](a []T, c T, out []T) {
	for i := range out {
		out[i] = c * a[i]
	}
}

// MonomialMul sets out = X^e * a mod X^N+1, for e in [0, 2N).
// a and out must not alias.
func MonomialMul[T constraints.Integer](a []T, e int, out []T) {
	n := len(a)
	if e < n {
		for i := 0; i < e; i++ {
			out[i] = -a[i-e+n]
		}
		for i := e; i < n; i++ {
			out[i] = a[i-e]
		}
		return
	}
	e -= n
	for i := 0; i < e; i++ {
		out[i] = a[i-e+n]
	}
	for i := e; i < n; i++ {
		out[i] = -a[i-e]
	}
}

// MonomialMulMinusOne sets out = (X^e - 1) * a mod X^N+1, for e in [0, 2N).
// a and out must not alias.
func MonomialMulMinusOne[T constraints.Integer](a []T, e int, out []T) {
	MonomialMul(a, e, out)
	SubAssign(a, out)
}

// MulNaive sets out = a * b mod X^N+1 by schoolbook convolution.
// Products are computed in the output type T, so a signed integer
// polynomial a times a torus polynomial b yields the exact torus result.
// out must not alias a or b.
func MulNaive[S, T constraints.Integer](a []S, b []T, out []T) {
	n := len(out)
	for i := range out {
		out[i] = 0
	}
	for i := 0; i < n; i++ {
		ai := T(a[i])
		if ai == 0 {
			continue
		}
		for j := 0; j < n-i; j++ {
			out[i+j] += ai * b[j]
		}
		for j := n - i; j < n; j++ {
			out[i+j-n] -= ai * b[j]
		}
	}
}

// Equal reports whether a and b have identical coefficients.
func Equal[T constraints.Integer](a, b []T) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
