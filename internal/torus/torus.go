// Copyright (c) 2025, Lux Industries Inc
// SPDX-License-Identifier: BSD-3-Clause

// Package torus implements the fixed-point encoding of the real torus R/Z
// on 32-bit unsigned integers, together with the digit decompositions used by
// the external product and by key switching.
//
// A Torus value t represents the real t / 2^32. Addition, subtraction and
// multiplication by an integer wrap modulo 2^32, which is exactly reduction
// modulo 1 on the real torus.
package torus

import "math"

// Bits is the width of the fixed-point encoding.
const Bits = 32

// scale is 2^Bits as a float64.
const scale = float64(1 << Bits)

// Torus is an element of R/Z scaled by 2^32.
type Torus = uint32

// FromFloat maps a real x to its torus encoding: x mod 1 scaled by 2^32 and
// rounded to the nearest integer, ties away from zero. Negative inputs wrap
// around, so FromFloat(-0.25) == FromFloat(0.75).
func FromFloat(x float64) Torus {
	frac := math.Mod(x, 1.0)
	// |frac*scale| < 2^32 so the int64 conversion is exact after rounding.
	return Torus(int64(math.Round(frac * scale)))
}

// ToFloat returns the signed reading of t in [-1/2, 1/2).
func ToFloat(t Torus) float64 {
	return float64(int32(t)) / scale
}

// FromFraction returns the exact encoding of num / 2^logDen.
// logDen must be in [0, Bits].
func FromFraction(num int64, logDen int) Torus {
	return Torus(uint64(num) << (Bits - logDen))
}

// ModSwitch rounds t to the nearest multiple of 1/m and returns the
// numerator in [0, m). m must be a power of two no larger than 2^Bits.
func ModSwitch(t Torus, m uint64) uint64 {
	// round(t * m / 2^32) with the rounding bit added before the shift.
	return ((uint64(t)*m + (1 << (Bits - 1))) >> Bits) % m
}

// Distance returns the absolute signed distance between a and b on the
// torus, as a real in [0, 1/2].
func Distance(a, b Torus) float64 {
	return math.Abs(ToFloat(a - b))
}
