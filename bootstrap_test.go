// Copyright (c) 2025, Lux Industries Inc
// SPDX-License-Identifier: BSD-3-Clause

package tfhe

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/luxfi/tfhe/internal/torus"
)

func TestSampleExtract(t *testing.T) {
	tc := newTestContext(t)
	rng := testPRNG(t, "sample extract")
	n := tc.params.PolyDegree()

	mu := make([]uint32, n)
	for i := range mu {
		mu[i] = rng.UniformTorus()
	}
	ct, err := EncryptTRLWETorus(tc.params, tc.sk, mu, tc.params.StdDev(Level1), rng)
	require.NoError(t, err)
	want, err := ct.Phase(tc.params, tc.sk)
	require.NoError(t, err)

	for _, index := range []int{0, 1, 2, n / 2, n - 1} {
		lwe, err := SampleExtract(tc.params, ct, index)
		require.NoError(t, err)
		require.Equal(t, Level1, lwe.Level)
		got, err := lwe.Phase(tc.params, tc.sk)
		require.NoError(t, err)
		require.Equal(t, want[index], got, "index %d", index)
	}

	_, err = SampleExtract(tc.params, ct, n)
	require.ErrorIs(t, err, ErrDimensionMismatch)
}

func TestBlindRotate(t *testing.T) {
	tc := newTestContext(t)
	n := tc.params.PolyDegree()

	// Trivial inputs make the rotation amount exact: phase j/2N rotates the
	// test vector by -j.
	tv := make([]uint32, n)
	for i := range tv {
		tv[i] = torus.FromFraction(int64(i), 16)
	}
	tvct := NewTRLWETrivial(tc.params, tv)

	for _, j := range []int{0, 1, 5, n - 1, n, n + 3, 2*n - 1} {
		in := NewTLWETrivial(tc.params, Level0, uint32(j)<<(torus.Bits-tc.params.LogPolyDegree()-1))
		acc, err := tc.eval.BlindRotate(in, tvct)
		require.NoError(t, err)
		got, err := acc.Phase(tc.params, tc.sk)
		require.NoError(t, err)

		rot := NewTRLWE(tc.params).MonomialMul(tvct, (2*n-j)%(2*n))
		want := rot.Value[tc.params.GLWERank()]
		for i := range want {
			require.Less(t, torus.Distance(want[i], got[i]), 1e-6, "shift %d coefficient %d", j, i)
		}
	}
}

func TestGateBootstrappingTLWEToTLWE(t *testing.T) {
	tc := newTestContext(t)
	rng := testPRNG(t, "gate bootstrapping")
	s1 := tc.sk.Level1()

	for i := 0; i < trials(16, 4); i++ {
		bit := i%2 == 0
		ct, err := EncryptTLWE(tc.params, tc.sk, Level0, bit, rng)
		require.NoError(t, err)
		out, err := tc.eval.GateBootstrappingTLWEToTLWE(ct)
		require.NoError(t, err)
		require.Equal(t, Level1, out.Level)

		p := phase(s1, out)
		require.Less(t, torus.Distance(p, encodeBool(bit)), 1.0/64)
	}
}

func TestBootstrapIdempotent(t *testing.T) {
	tc := newTestContext(t)
	rng := testPRNG(t, "bootstrap idempotent")

	// Inputs far noisier than fresh encryptions come out with the same
	// bounded noise as fresh ones.
	for _, stdDev := range []float64{tc.params.StdDev(Level0), 1.0 / 128} {
		n := trials(12, 4)
		cts := make([]*TLWE, n)
		want := make([]bool, n)
		for i := range cts {
			want[i] = UniformBit(rng) == 1
			ct, err := EncryptTLWETorus(tc.params, tc.sk, Level0, encodeBool(want[i]), stdDev, rng)
			require.NoError(t, err)
			// bootstrap twice: the second pass sees a bootstrapped input
			for pass := 0; pass < 2; pass++ {
				ct, err = tc.eval.GateBootstrap(ct)
				require.NoError(t, err)
			}
			cts[i] = ct
		}
		ns, err := MeasureNoise(tc.dec, cts, want)
		require.NoError(t, err)
		require.Zero(t, ns.Failures)
		require.Less(t, ns.MaxAbs, 1.0/32, "input stddev %v: %v", stdDev, ns)
		require.Greater(t, ns.MaxAbs, 0.0, "bootstrapped noise is not zero")
	}
}

func TestNewBootstrappingKeyValidation(t *testing.T) {
	tc := newTestContext(t)
	_, err := NewBootstrappingKey(tc.params, tc.evk.BSK.Value[:3])
	require.ErrorIs(t, err, ErrDimensionMismatch)

	rows := append([]*TRGSW(nil), tc.evk.BSK.Value...)
	rows[5] = &TRGSW{}
	_, err = NewBootstrappingKey(tc.params, rows)
	require.ErrorIs(t, err, ErrDimensionMismatch)

	_, err = tc.eval.BlindRotate(NewTLWE(tc.params, Level1), NewTestVector(tc.params, Mu))
	require.ErrorIs(t, err, ErrDimensionMismatch)
}
