// Copyright (c) 2025, Lux Industries Inc
// SPDX-License-Identifier: BSD-3-Clause

package tfhe

import (
	"fmt"

	"github.com/luxfi/tfhe/internal/torus"
)

// Evaluator evaluates boolean gates on encrypted data.
// SECURITY: This evaluator does NOT require the secret key.
// It uses blind rotation, sample extraction and key switching for
// bootstrapping.
//
// An Evaluator owns scratch buffers and is not safe for concurrent use.
// Use ShallowCopy to obtain an evaluator for another goroutine.
type Evaluator struct {
	params Parameters
	bsk    *BootstrappingKey
	ksk    *KeySwitchKey

	// test vector, constant 1/8
	tv *TRLWE

	// scratch
	acc, rot *TRLWE
	ep       *externalProductBuffer
	lin      *TLWE
	lvl1     [2]*TLWE
	digits   []int
}

// NewEvaluator creates a new evaluator with the evaluation key.
// SECURITY: No secret key is required.
func NewEvaluator(params Parameters, evk *EvaluationKey) (*Evaluator, error) {
	if evk == nil || evk.BSK == nil {
		return nil, fmt.Errorf("new evaluator: %w: missing bootstrapping key", ErrDimensionMismatch)
	}
	if len(evk.BSK.Value) != params.LWEDimension() || len(evk.BSK.ntt) != len(evk.BSK.Value) {
		return nil, fmt.Errorf("new evaluator: %w: bootstrapping key not built by NewBootstrappingKey for these parameters", ErrDimensionMismatch)
	}
	if err := evk.KSK.Validate(params); err != nil {
		return nil, fmt.Errorf("new evaluator: %w", err)
	}
	return newEvaluator(params, evk.BSK, evk.KSK), nil
}

func newEvaluator(params Parameters, bsk *BootstrappingKey, ksk *KeySwitchKey) *Evaluator {
	return &Evaluator{
		params: params,
		bsk:    bsk,
		ksk:    ksk,
		tv:     NewTestVector(params, Mu),
		acc:    NewTRLWE(params),
		rot:    NewTRLWE(params),
		ep:     newExternalProductBuffer(params),
		lin:    NewTLWE(params, Level0),
		lvl1:   [2]*TLWE{NewTLWE(params, Level1), NewTLWE(params, Level1)},
		digits: make([]int, params.KeySwitchGadget().Level),
	}
}

// ShallowCopy returns an evaluator sharing the keys of eval with fresh
// scratch buffers, for use by another goroutine.
func (eval *Evaluator) ShallowCopy() *Evaluator {
	return newEvaluator(eval.params, eval.bsk, eval.ksk)
}

// Parameters returns the parameters of the evaluator.
func (eval *Evaluator) Parameters() Parameters {
	return eval.params
}

// bootstrap refreshes ct into out: blind rotate, extract, key switch.
// out must not alias eval.lin.
func (eval *Evaluator) bootstrap(ct, out *TLWE) {
	eval.bootstrapToLevel1(ct, eval.lvl1[0])
	identityKeySwitch(eval.params, eval.lvl1[0], eval.ksk, eval.digits, out)
}

// GateBootstrap returns a fresh level-0 encryption of ±1/8 carrying the sign
// of the phase of ct.
func (eval *Evaluator) GateBootstrap(ct *TLWE) (*TLWE, error) {
	if err := checkTLWE(eval.params, Level0, ct); err != nil {
		return nil, fmt.Errorf("gate bootstrap: %w", err)
	}
	out := NewTLWE(eval.params, Level0)
	eval.bootstrap(ct, out)
	return out, nil
}

// KeySwitch switches a level-1 ciphertext to level 0.
func (eval *Evaluator) KeySwitch(ct *TLWE) (*TLWE, error) {
	if err := checkTLWE(eval.params, Level1, ct); err != nil {
		return nil, fmt.Errorf("key switch: %w", err)
	}
	out := NewTLWE(eval.params, Level0)
	identityKeySwitch(eval.params, ct, eval.ksk, eval.digits, out)
	return out, nil
}

// linearGate bootstraps offset + sum_i coeffs[i]*cts[i].
func (eval *Evaluator) linearGate(name string, offset uint32, coeffs []int32, cts ...*TLWE) (*TLWE, error) {
	for i, ct := range cts {
		if err := checkTLWE(eval.params, Level0, ct); err != nil {
			return nil, fmt.Errorf("%s: input %d: %w", name, i, err)
		}
	}
	eval.lin.SetTrivial(offset)
	for i, ct := range cts {
		eval.lin.AddMul(ct, coeffs[i])
	}
	out := NewTLWE(eval.params, Level0)
	eval.bootstrap(eval.lin, out)
	return out, nil
}

var (
	eighth  = torus.FromFraction(1, 3)
	quarter = torus.FromFraction(1, 2)
)

// ========== Boolean Gates ==========

// NOT computes the logical NOT of the input
// NOT(a) = -a (free operation - no bootstrap)
func (eval *Evaluator) NOT(ct *TLWE) *TLWE {
	return ct.CopyNew().Neg(ct)
}

// NAND computes the logical NAND of two inputs
// NAND(a, b) = bootstrap(1/8 - a - b)
func (eval *Evaluator) NAND(ct1, ct2 *TLWE) (*TLWE, error) {
	return eval.linearGate("NAND", eighth, []int32{-1, -1}, ct1, ct2)
}

// AND computes the logical AND of two inputs
// AND(a, b) = bootstrap(-1/8 + a + b)
func (eval *Evaluator) AND(ct1, ct2 *TLWE) (*TLWE, error) {
	return eval.linearGate("AND", -eighth, []int32{1, 1}, ct1, ct2)
}

// OR computes the logical OR of two inputs
// OR(a, b) = bootstrap(1/8 + a + b)
func (eval *Evaluator) OR(ct1, ct2 *TLWE) (*TLWE, error) {
	return eval.linearGate("OR", eighth, []int32{1, 1}, ct1, ct2)
}

// NOR computes the logical NOR of two inputs
// NOR(a, b) = bootstrap(-1/8 - a - b)
func (eval *Evaluator) NOR(ct1, ct2 *TLWE) (*TLWE, error) {
	return eval.linearGate("NOR", -eighth, []int32{-1, -1}, ct1, ct2)
}

// XOR computes the logical XOR of two inputs
// XOR(a, b) = bootstrap(1/4 + 2a + 2b)
// Doubling puts (T,T) at 3/4 = -1/4, on the same side as (F,F).
func (eval *Evaluator) XOR(ct1, ct2 *TLWE) (*TLWE, error) {
	return eval.linearGate("XOR", quarter, []int32{2, 2}, ct1, ct2)
}

// XNOR computes the logical XNOR of two inputs
// XNOR(a, b) = bootstrap(-1/4 - 2a - 2b)
func (eval *Evaluator) XNOR(ct1, ct2 *TLWE) (*TLWE, error) {
	return eval.linearGate("XNOR", -quarter, []int32{-2, -2}, ct1, ct2)
}

// ANDNY computes AND with negated first input: AND(NOT(a), b)
func (eval *Evaluator) ANDNY(ct1, ct2 *TLWE) (*TLWE, error) {
	return eval.linearGate("ANDNY", -eighth, []int32{-1, 1}, ct1, ct2)
}

// ANDYN computes AND with negated second input: AND(a, NOT(b))
func (eval *Evaluator) ANDYN(ct1, ct2 *TLWE) (*TLWE, error) {
	return eval.linearGate("ANDYN", -eighth, []int32{1, -1}, ct1, ct2)
}

// ORNY computes OR with negated first input: OR(NOT(a), b)
func (eval *Evaluator) ORNY(ct1, ct2 *TLWE) (*TLWE, error) {
	return eval.linearGate("ORNY", eighth, []int32{-1, 1}, ct1, ct2)
}

// ORYN computes OR with negated second input: OR(a, NOT(b))
func (eval *Evaluator) ORYN(ct1, ct2 *TLWE) (*TLWE, error) {
	return eval.linearGate("ORYN", eighth, []int32{1, -1}, ct1, ct2)
}

// MUX computes the multiplexer: if sel then a else b
// MUX(sel, a, b) = (sel AND a) OR (NOT(sel) AND b)
// The two ANDs are bootstrapped to level 1 without key switching, their sum
// plus 1/8 is the OR, and a single key switch brings it back to level 0.
func (eval *Evaluator) MUX(sel, ctTrue, ctFalse *TLWE) (*TLWE, error) {
	for i, ct := range []*TLWE{sel, ctTrue, ctFalse} {
		if err := checkTLWE(eval.params, Level0, ct); err != nil {
			return nil, fmt.Errorf("MUX: input %d: %w", i, err)
		}
	}
	u1, u2 := eval.lvl1[0], eval.lvl1[1]

	eval.lin.SetTrivial(-eighth).AddMul(sel, 1).AddMul(ctTrue, 1)
	eval.bootstrapToLevel1(eval.lin, u1)

	eval.lin.SetTrivial(-eighth).AddMul(sel, -1).AddMul(ctFalse, 1)
	eval.bootstrapToLevel1(eval.lin, u2)

	u1.Add(u1, u2).AddConstant(eighth)
	out := NewTLWE(eval.params, Level0)
	identityKeySwitch(eval.params, u1, eval.ksk, eval.digits, out)
	return out, nil
}

// ========== Multi-Input Gates ==========

// AND3 computes the logical AND of three inputs
// AND3(a, b, c) = AND(AND(a, b), c)
func (eval *Evaluator) AND3(ct1, ct2, ct3 *TLWE) (*TLWE, error) {
	ab, err := eval.AND(ct1, ct2)
	if err != nil {
		return nil, err
	}
	return eval.AND(ab, ct3)
}

// OR3 computes the logical OR of three inputs
// OR3(a, b, c) = OR(OR(a, b), c)
func (eval *Evaluator) OR3(ct1, ct2, ct3 *TLWE) (*TLWE, error) {
	ab, err := eval.OR(ct1, ct2)
	if err != nil {
		return nil, err
	}
	return eval.OR(ab, ct3)
}

// MAJORITY computes the majority vote of three inputs with single bootstrap
// MAJORITY(a, b, c) = bootstrap(a + b + c)
// One true input sums to -1/8 and two to +1/8, so the sign separates them.
func (eval *Evaluator) MAJORITY(ct1, ct2, ct3 *TLWE) (*TLWE, error) {
	return eval.linearGate("MAJORITY", 0, []int32{1, 1, 1}, ct1, ct2, ct3)
}

// NAND3 computes the logical NAND of three inputs
// NAND3(a, b, c) = NOT(AND3(a, b, c))
func (eval *Evaluator) NAND3(ct1, ct2, ct3 *TLWE) (*TLWE, error) {
	result, err := eval.AND3(ct1, ct2, ct3)
	if err != nil {
		return nil, err
	}
	return eval.NOT(result), nil
}

// NOR3 computes the logical NOR of three inputs
// NOR3(a, b, c) = NOT(OR3(a, b, c))
func (eval *Evaluator) NOR3(ct1, ct2, ct3 *TLWE) (*TLWE, error) {
	result, err := eval.OR3(ct1, ct2, ct3)
	if err != nil {
		return nil, err
	}
	return eval.NOT(result), nil
}

// Copy creates a copy of a ciphertext
func (eval *Evaluator) Copy(ct *TLWE) *TLWE {
	return ct.CopyNew()
}

// Constant returns a noiseless level-0 encryption of value
func (eval *Evaluator) Constant(value bool) *TLWE {
	return NewTLWETrivial(eval.params, Level0, encodeBool(value))
}

// Refresh bootstraps a ciphertext to reduce noise
func (eval *Evaluator) Refresh(ct *TLWE) (*TLWE, error) {
	return eval.linearGate("Refresh", 0, []int32{1}, ct)
}
