// Copyright (c) 2025, Lux Industries Inc
// SPDX-License-Identifier: BSD-3-Clause

package tfhe

import (
	"bytes"
	"math"
	"testing"

	"github.com/montanaflynn/stats"
	"github.com/stretchr/testify/require"

	"github.com/luxfi/tfhe/internal/torus"
)

func TestPRNGDeterminism(t *testing.T) {
	a := testPRNG(t, "determinism")
	b := testPRNG(t, "determinism")
	c := testPRNG(t, "other seed")

	same := true
	for i := 0; i < 2000; i++ {
		x, y, z := a.UniformTorus(), b.UniformTorus(), c.UniformTorus()
		require.Equal(t, x, y)
		same = same && x == z
	}
	require.False(t, same, "different seeds produced the same stream")

	for i := 0; i < 100; i++ {
		require.Equal(t, a.NormalTorus(0.01), b.NormalTorus(0.01))
		require.Equal(t, a.UniformInt(3, 9), b.UniformInt(3, 9))
	}
}

func TestPRNGFork(t *testing.T) {
	p := testPRNG(t, "fork")
	c0, c0again, c1 := p.Fork(0), p.Fork(0), p.Fork(1)

	require.Equal(t, c0.Seed(), c0again.Seed())
	require.NotEqual(t, c0.Seed(), c1.Seed())
	require.Len(t, c0.Seed(), SeedSize)
	require.False(t, bytes.Equal(p.Seed(), c0.Seed()))

	for i := 0; i < 10; i++ {
		require.Equal(t, c0.UniformTorus(), c0again.UniformTorus())
	}

	// Forking does not consume the parent's stream.
	q := testPRNG(t, "fork")
	require.Equal(t, q.UniformTorus(), p.UniformTorus())
}

func TestPRNGSeedTooLong(t *testing.T) {
	_, err := NewPRNG(make([]byte, 65))
	require.Error(t, err)

	p, err := NewRandomPRNG()
	require.NoError(t, err)
	require.Len(t, p.Seed(), SeedSize)
}

func TestUniformInt(t *testing.T) {
	p := testPRNG(t, "uniform int")
	seen := make(map[uint32]int)
	for i := 0; i < 7000; i++ {
		v := p.UniformInt(10, 16)
		require.GreaterOrEqual(t, v, uint32(10))
		require.LessOrEqual(t, v, uint32(16))
		seen[v]++
	}
	require.Len(t, seen, 7)
	for v, n := range seen {
		require.InDelta(t, 1000, n, 200, "value %d", v)
	}

	require.Equal(t, uint32(5), p.UniformInt(5, 5))
	p.UniformInt(0, math.MaxUint32)
	require.Panics(t, func() { p.UniformInt(2, 1) })

	ones := 0
	for i := 0; i < 1000; i++ {
		b := UniformBit(p)
		require.Contains(t, []int32{0, 1}, b)
		ones += int(b)
	}
	require.InDelta(t, 500, ones, 100)
}

func TestNormalTorus(t *testing.T) {
	p := testPRNG(t, "normal")
	const stdDev = 1.0 / 1024
	samples := make(stats.Float64Data, 20000)
	for i := range samples {
		samples[i] = torus.ToFloat(p.NormalTorus(stdDev))
	}
	mean, err := stats.Mean(samples)
	require.NoError(t, err)
	sd, err := stats.StandardDeviation(samples)
	require.NoError(t, err)
	require.InDelta(t, 0, mean, 5*stdDev/math.Sqrt(float64(len(samples))))
	require.InEpsilon(t, stdDev, sd, 0.05)
}

func TestUniformTorusSpread(t *testing.T) {
	p := testPRNG(t, "uniform torus")
	var buckets [8]int
	for i := 0; i < 8000; i++ {
		buckets[p.UniformTorus()>>29]++
	}
	for i, n := range buckets {
		require.InDelta(t, 1000, n, 200, "bucket %d", i)
	}
}
