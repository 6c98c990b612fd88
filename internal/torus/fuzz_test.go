// Copyright (c) 2025, Lux Industries Inc
// SPDX-License-Identifier: BSD-3-Clause

package torus

import "testing"

// FuzzDecompose verifies the digit range and the reconstruction error of
// both decompositions for arbitrary inputs and shapes.
func FuzzDecompose(f *testing.F) {
	f.Add(uint32(0), uint8(7), uint8(3))
	f.Add(uint32(0xffffffff), uint8(10), uint8(2))
	f.Add(uint32(0x80000000), uint8(2), uint8(8))
	f.Add(uint32(0x12345678), uint8(1), uint8(1))

	f.Fuzz(func(t *testing.T, x uint32, baseLog, level uint8) {
		g, err := NewGadget(int(baseLog), int(level))
		if err != nil {
			return
		}

		digits := make([]int32, g.Level)
		g.Decompose(x, digits)
		half := g.Base() / 2
		for i, d := range digits {
			if d <= -half || d > half {
				t.Fatalf("digit %d = %d outside (-%d, %d]", i, d, half, half)
			}
		}
		maxErr := int64(1) << (Bits - g.Level*g.BaseLog - 1)
		if e := abs(int64(int32(x - g.Recompose(digits)))); e > maxErr {
			t.Fatalf("reconstruction error %d exceeds %d", e, maxErr)
		}

		ks, err := NewKeySwitchGadget(int(baseLog), int(level))
		if err != nil {
			return
		}
		ksDigits := make([]int, ks.Level)
		ks.Decompose(x, ksDigits)
		var rec Torus
		for j, d := range ksDigits {
			if d < 0 || d >= ks.Base() {
				t.Fatalf("key switch digit %d = %d outside [0, %d)", j, d, ks.Base())
			}
			rec += Torus(d) * ks.Factor(j)
		}
		if e := abs(int64(int32(x - rec))); e > maxErr {
			t.Fatalf("key switch reconstruction error %d exceeds %d", e, maxErr)
		}
	})
}
