// Copyright (c) 2025, Lux Industries Inc
// SPDX-License-Identifier: BSD-3-Clause

package tfhe

import "fmt"

// KeySwitchKey switches level-1 ciphertexts to the level-0 key.
// Value[i][j][v] is a level-0 encryption of v * s1[i] * base^-(j+1), for
// each bit i of the flattened ring key, each digit position j < t and each
// digit 0 < v < base. Value[i][j][0] is nil: zero digits contribute nothing.
type KeySwitchKey struct {
	Value [][][]*TLWE
}

func newKeySwitchKey(params Parameters) *KeySwitchKey {
	g := params.KeySwitchGadget()
	ksk := &KeySwitchKey{Value: make([][][]*TLWE, params.Dimension(Level1))}
	for i := range ksk.Value {
		ksk.Value[i] = make([][]*TLWE, g.Level)
		for j := range ksk.Value[i] {
			ksk.Value[i][j] = make([]*TLWE, g.Base())
		}
	}
	return ksk
}

// Validate reports whether ksk has the layout implied by params.
func (ksk *KeySwitchKey) Validate(params Parameters) error {
	if ksk == nil {
		return fmt.Errorf("%w: nil key switch key", ErrDimensionMismatch)
	}
	g := params.KeySwitchGadget()
	if len(ksk.Value) != params.Dimension(Level1) {
		return fmt.Errorf("%w: key switch key for %d key bits, want %d", ErrDimensionMismatch, len(ksk.Value), params.Dimension(Level1))
	}
	for i, digits := range ksk.Value {
		if len(digits) != g.Level {
			return fmt.Errorf("%w: key switch key bit %d has %d digit positions, want %d", ErrDimensionMismatch, i, len(digits), g.Level)
		}
		for j, values := range digits {
			if len(values) != g.Base() {
				return fmt.Errorf("%w: key switch key entry (%d, %d) has %d digit values, want %d", ErrDimensionMismatch, i, j, len(values), g.Base())
			}
			for v := 1; v < len(values); v++ {
				if err := checkTLWE(params, Level0, values[v]); err != nil {
					return fmt.Errorf("key switch key entry (%d, %d, %d): %w", i, j, v, err)
				}
			}
		}
	}
	return nil
}

// identityKeySwitch writes into out a level-0 encryption of the message of
// the level-1 ciphertext ct: out = (0, b) - sum_{i,j} ksk[i][j][digit_j(a_i)].
func identityKeySwitch(params Parameters, ct *TLWE, ksk *KeySwitchKey, digits []int, out *TLWE) {
	g := params.KeySwitchGadget()
	out.SetTrivial(ct.B)
	for i, a := range ct.A {
		g.Decompose(a, digits)
		for j, d := range digits {
			if d == 0 {
				continue
			}
			k := ksk.Value[i][j][d]
			for x := range out.A {
				out.A[x] -= k.A[x]
			}
			out.B -= k.B
		}
	}
}

// IdentityKeySwitch returns a level-0 encryption of the message of the
// level-1 ciphertext ct.
func IdentityKeySwitch(params Parameters, ct *TLWE, ksk *KeySwitchKey) (*TLWE, error) {
	if err := checkTLWE(params, Level1, ct); err != nil {
		return nil, fmt.Errorf("key switch: %w", err)
	}
	if err := ksk.Validate(params); err != nil {
		return nil, fmt.Errorf("key switch: %w", err)
	}
	out := NewTLWE(params, Level0)
	identityKeySwitch(params, ct, ksk, make([]int, params.KeySwitchGadget().Level), out)
	return out, nil
}
