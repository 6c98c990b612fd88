// Copyright (c) 2025, Lux Industries Inc
// SPDX-License-Identifier: BSD-3-Clause

package tfhe

import (
	"fmt"
	"math"

	"github.com/montanaflynn/stats"

	"github.com/luxfi/tfhe/internal/torus"
)

// NoiseStats summarizes the phase errors of a set of ciphertexts with known
// plaintexts. Errors are signed fractions of the torus.
type NoiseStats struct {
	Samples int
	Mean    float64
	StdDev  float64
	// MaxAbs is the largest absolute error; decryption fails beyond 1/8.
	MaxAbs float64
	// Failures counts the ciphertexts that decrypt to the wrong bit.
	Failures int
}

func (s NoiseStats) String() string {
	return fmt.Sprintf("samples=%d mean=%.3g stddev=%.3g (2^%.2f) max=%.3g failures=%d",
		s.Samples, s.Mean, s.StdDev, math.Log2(s.StdDev), s.MaxAbs, s.Failures)
}

// MeasureNoise decrypts cts and compares their phases to the encodings of
// want.
func MeasureNoise(dec *Decryptor, cts []*TLWE, want []bool) (NoiseStats, error) {
	if len(cts) != len(want) {
		return NoiseStats{}, fmt.Errorf("measure noise: %d ciphertexts for %d plaintexts", len(cts), len(want))
	}
	errs := make(stats.Float64Data, len(cts))
	abs := make(stats.Float64Data, len(cts))
	ns := NoiseStats{Samples: len(cts)}
	for i, ct := range cts {
		p := dec.Phase(ct)
		errs[i] = torus.ToFloat(p - encodeBool(want[i]))
		abs[i] = math.Abs(errs[i])
		if (int32(p) > 0) != want[i] {
			ns.Failures++
		}
	}

	var err error
	if ns.Mean, err = stats.Mean(errs); err != nil {
		return NoiseStats{}, fmt.Errorf("measure noise: %w", err)
	}
	if ns.StdDev, err = stats.StandardDeviation(errs); err != nil {
		return NoiseStats{}, fmt.Errorf("measure noise: %w", err)
	}
	if ns.MaxAbs, err = stats.Max(abs); err != nil {
		return NoiseStats{}, fmt.Errorf("measure noise: %w", err)
	}
	return ns, nil
}
