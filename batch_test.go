// Copyright (c) 2025, Lux Industries Inc
// SPDX-License-Identifier: BSD-3-Clause

package tfhe

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGateString(t *testing.T) {
	require.Equal(t, "NAND", GateNAND.String())
	require.Equal(t, "MUX", GateMUX.String())
	require.Equal(t, "REFRESH", GateRefresh.String())
	require.Equal(t, "Gate(99)", Gate(99).String())
	require.Equal(t, "Gate(-1)", Gate(-1).String())

	require.Equal(t, 2, GateXOR.Arity())
	require.Equal(t, 3, GateMUX.Arity())
	require.Equal(t, 3, GateMAJORITY.Arity())
	require.Equal(t, 1, GateNOT.Arity())
	require.Equal(t, 1, GateRefresh.Arity())
}

func TestEvaluateBatch(t *testing.T) {
	tc := newTestContext(t)
	rng := testPRNG(t, "batch")

	bits := randomBits(rng, 3*trials(8, 3))
	cts := tc.enc.EncryptBits(bits)

	gates := []Gate{GateNAND, GateXOR, GateMUX, GateORNY, GateMAJORITY, GateNOT, GateCopy, GateRefresh, GateXNOR}
	var (
		ops  []GateOp
		want []bool
	)
	for i := 0; i+2 < len(cts); i += 3 {
		g := gates[(i/3)%len(gates)]
		a, b, c := bits[i], bits[i+1], bits[i+2]
		op := GateOp{Gate: g, Inputs: cts[i : i+g.Arity()]}
		var w bool
		switch g {
		case GateNAND:
			w = !(a && b)
		case GateXOR:
			w = a != b
		case GateXNOR:
			w = a == b
		case GateORNY:
			w = !a || b
		case GateMUX:
			w = c
			if a {
				w = b
			}
		case GateMAJORITY:
			w = (a && b) || (a && c) || (b && c)
		case GateNOT:
			w = !a
		case GateCopy, GateRefresh:
			w = a
		}
		ops = append(ops, op)
		want = append(want, w)
	}

	for _, workers := range []int{0, 1, 4} {
		out, err := tc.eval.EvaluateBatch(ops, workers)
		require.NoError(t, err)
		require.Equal(t, want, tc.dec.DecryptBits(out), "workers %d", workers)
	}
}

func TestEvaluateBatchErrors(t *testing.T) {
	tc := newTestContext(t)
	ct := tc.enc.Encrypt(true)

	out, err := tc.eval.EvaluateBatch(nil, 4)
	require.NoError(t, err)
	require.Empty(t, out)

	_, err = tc.eval.Evaluate(GateOp{Gate: Gate(42), Inputs: []*TLWE{ct, ct}})
	require.Error(t, err)
	_, err = tc.eval.Evaluate(GateOp{Gate: GateAND, Inputs: []*TLWE{ct}})
	require.Error(t, err)
	_, err = tc.eval.Evaluate(GateOp{Gate: GateNOT, Inputs: []*TLWE{NewTLWE(tc.params, Level1)}})
	require.ErrorIs(t, err, ErrDimensionMismatch)

	ops := []GateOp{
		{Gate: GateNOT, Inputs: []*TLWE{ct}},
		{Gate: GateXOR, Inputs: []*TLWE{ct, NewTLWE(tc.params, Level1)}},
	}
	_, err = tc.eval.EvaluateBatch(ops, 2)
	require.ErrorIs(t, err, ErrDimensionMismatch)
	require.ErrorContains(t, err, "op 1")
}
