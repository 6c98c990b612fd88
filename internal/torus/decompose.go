// Copyright (c) 2025, Lux Industries Inc
// SPDX-License-Identifier: BSD-3-Clause

package torus

import "fmt"

// Gadget describes the balanced base-2^BaseLog decomposition of a torus
// value into Level signed digits, as consumed by the external product.
//
// Decompose(t) returns digits d_1..d_Level in (-B/2, B/2] such that
//
//	t ≈ sum_i d_i * B^-i
//
// with the approximation error bounded by B^-Level / 2.
type Gadget struct {
	BaseLog int
	Level   int
}

// NewGadget checks that the decomposition fits in the torus width.
func NewGadget(baseLog, level int) (Gadget, error) {
	if baseLog < 1 || baseLog > 30 || level < 1 || baseLog*level > Bits-1 {
		return Gadget{}, fmt.Errorf("invalid gadget: base 2^%d with %d digits does not fit in %d bits", baseLog, level, Bits)
	}
	return Gadget{BaseLog: baseLog, Level: level}, nil
}

// Base returns 2^BaseLog.
func (g Gadget) Base() int32 {
	return 1 << g.BaseLog
}

// Factor returns the torus encoding of B^-(i+1), the weight of digit i.
func (g Gadget) Factor(i int) Torus {
	return 1 << (Bits - (i+1)*g.BaseLog)
}

// offset is sum_i (B/2 - 1) * B^-i plus half of the last digit's weight.
// Adding it before an unsigned extraction shifts every digit into
// [0, B) and rounds the dropped tail to the nearest value.
func (g Gadget) offset() Torus {
	var off Torus
	half := Torus(1)<<(g.BaseLog-1) - 1
	for i := 0; i < g.Level; i++ {
		off += half * g.Factor(i)
	}
	return off + 1<<(Bits-g.Level*g.BaseLog-1)
}

// Decompose writes the Level balanced digits of t into digits.
func (g Gadget) Decompose(t Torus, digits []int32) {
	g.decompose(t, g.offset(), digits)
}

func (g Gadget) decompose(t, off Torus, digits []int32) {
	u := t + off
	mask := Torus(1)<<g.BaseLog - 1
	half := int32(1)<<(g.BaseLog-1) - 1
	for i := 0; i < g.Level; i++ {
		digits[i] = int32((u>>(Bits-(i+1)*g.BaseLog))&mask) - half
	}
}

// DecomposePoly decomposes every coefficient of p. out must hold Level
// slices of len(p); out[i][j] is digit i of coefficient j.
func (g Gadget) DecomposePoly(p []Torus, out [][]int32) {
	off := g.offset()
	mask := Torus(1)<<g.BaseLog - 1
	half := int32(1)<<(g.BaseLog-1) - 1
	for j, t := range p {
		u := t + off
		for i := 0; i < g.Level; i++ {
			out[i][j] = int32((u>>(Bits-(i+1)*g.BaseLog))&mask) - half
		}
	}
}

// Recompose returns sum_i digits[i] * B^-(i+1).
func (g Gadget) Recompose(digits []int32) Torus {
	var t Torus
	for i := 0; i < g.Level; i++ {
		t += Torus(digits[i]) * g.Factor(i)
	}
	return t
}

// KeySwitchGadget describes the unsigned base-2^BaseLog decomposition used by
// identity key switching: Level digits in [0, 2^BaseLog), rounded to the
// nearest multiple of 2^-(BaseLog*Level).
type KeySwitchGadget struct {
	BaseLog int
	Level   int
}

// NewKeySwitchGadget checks that the decomposition fits in the torus width.
func NewKeySwitchGadget(baseLog, level int) (KeySwitchGadget, error) {
	if baseLog < 1 || level < 1 || baseLog*level > Bits-1 {
		return KeySwitchGadget{}, fmt.Errorf("invalid key-switch gadget: base 2^%d with %d digits does not fit in %d bits", baseLog, level, Bits)
	}
	return KeySwitchGadget{BaseLog: baseLog, Level: level}, nil
}

// Base returns 2^BaseLog.
func (g KeySwitchGadget) Base() int {
	return 1 << g.BaseLog
}

// Factor returns the torus encoding of base^-(j+1).
func (g KeySwitchGadget) Factor(j int) Torus {
	return 1 << (Bits - (j+1)*g.BaseLog)
}

// Decompose writes the Level unsigned digits of t into digits.
func (g KeySwitchGadget) Decompose(t Torus, digits []int) {
	u := t + 1<<(Bits-(1+g.BaseLog*g.Level))
	mask := Torus(1)<<g.BaseLog - 1
	for j := 0; j < g.Level; j++ {
		digits[j] = int((u >> (Bits - (j+1)*g.BaseLog)) & mask)
	}
}
