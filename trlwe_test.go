// Copyright (c) 2025, Lux Industries Inc
// SPDX-License-Identifier: BSD-3-Clause

package tfhe

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/luxfi/tfhe/internal/poly"
	"github.com/luxfi/tfhe/internal/torus"
)

func randomBits(rng RandomSource, n int) []bool {
	bits := make([]bool, n)
	for i := range bits {
		bits[i] = UniformBit(rng) == 1
	}
	return bits
}

func TestTRLWERoundTrip(t *testing.T) {
	tc := newTestContext(t)
	rng := testPRNG(t, "trlwe round trip")

	for i := 0; i < trials(20, 5); i++ {
		bits := randomBits(rng, tc.params.PolyDegree())
		ct, err := EncryptTRLWE(tc.params, tc.sk, bits, rng)
		require.NoError(t, err)
		got, err := ct.DecryptPolyBool(tc.params, tc.sk)
		require.NoError(t, err)
		require.Equal(t, bits, got)
	}
}

func TestTRLWEPhaseNoise(t *testing.T) {
	tc := newTestContext(t)
	rng := testPRNG(t, "trlwe noise")

	mu := make([]uint32, tc.params.PolyDegree())
	for i := range mu {
		mu[i] = rng.UniformTorus()
	}
	ct, err := EncryptTRLWETorus(tc.params, tc.sk, mu, tc.params.StdDev(Level1), rng)
	require.NoError(t, err)
	p, err := ct.Phase(tc.params, tc.sk)
	require.NoError(t, err)
	for i := range mu {
		require.Less(t, torus.Distance(p[i], mu[i]), 1e-6)
	}
}

func TestTRLWEMonomialMul(t *testing.T) {
	tc := newTestContext(t)
	rng := testPRNG(t, "trlwe monomial")
	n := tc.params.PolyDegree()

	bits := randomBits(rng, n)
	ct, err := EncryptTRLWE(tc.params, tc.sk, bits, rng)
	require.NoError(t, err)

	mu := make([]int32, n)
	for i, b := range bits {
		mu[i] = 1
		if !b {
			mu[i] = -1
		}
	}
	for _, e := range []int{0, 1, 17, n - 1, n, n + 5, 2*n - 1} {
		rot := NewTRLWE(tc.params).MonomialMul(ct, e)
		got, err := rot.DecryptPolyBool(tc.params, tc.sk)
		require.NoError(t, err)

		want := make([]int32, n)
		poly.MonomialMul(mu, e, want)
		for i := range want {
			require.Equal(t, want[i] > 0, got[i], "X^%d coefficient %d", e, i)
		}
	}
}

func TestTRLWEAddSubTrivial(t *testing.T) {
	tc := newTestContext(t)
	rng := testPRNG(t, "trlwe add")
	n := tc.params.PolyDegree()

	bits := randomBits(rng, n)
	ct, err := EncryptTRLWE(tc.params, tc.sk, bits, rng)
	require.NoError(t, err)

	// adding the trivial encryption of 1/4 in every coefficient flips false
	// (-1/8) to true (+1/8) and leaves true at 3/8
	quarter := make([]uint32, n)
	for i := range quarter {
		quarter[i] = torus.FromFraction(1, 2)
	}
	sum := NewTRLWE(tc.params).Add(ct, NewTRLWETrivial(tc.params, quarter))
	got, err := sum.DecryptPolyBool(tc.params, tc.sk)
	require.NoError(t, err)
	for i := range got {
		require.True(t, got[i])
	}

	diff := sum.CopyNew().Sub(sum, NewTRLWETrivial(tc.params, quarter))
	got, err = diff.DecryptPolyBool(tc.params, tc.sk)
	require.NoError(t, err)
	require.Equal(t, bits, got)
}

func TestTRLWEDimensionMismatch(t *testing.T) {
	tc := newTestContext(t)
	rng := testPRNG(t, "trlwe mismatch")

	_, err := EncryptTRLWE(tc.params, tc.sk, make([]bool, 3), rng)
	require.ErrorIs(t, err, ErrDimensionMismatch)

	ct := &TRLWE{Value: [][]uint32{make([]uint32, tc.params.PolyDegree())}}
	_, err = ct.Phase(tc.params, tc.sk)
	require.ErrorIs(t, err, ErrDimensionMismatch)

	full := NewTRLWE(tc.params)
	short := NewTRLWE(tc.params)
	short.Value[0] = short.Value[0][:tc.params.PolyDegree()/2]

	requirePanicsWithError(t, ErrDimensionMismatch, func() { NewTRLWE(tc.params).Copy(ct) })
	requirePanicsWithError(t, ErrDimensionMismatch, func() { NewTRLWE(tc.params).Add(full, ct) })
	requirePanicsWithError(t, ErrDimensionMismatch, func() { NewTRLWE(tc.params).Sub(full, short) })
	requirePanicsWithError(t, ErrDimensionMismatch, func() { NewTRLWE(tc.params).MonomialMul(short, 1) })
	requirePanicsWithError(t, ErrDimensionMismatch, func() { NewTRLWE(tc.params).Add(full, nil) })
}
