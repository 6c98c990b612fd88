// Copyright (c) 2025, Lux Industries Inc
// SPDX-License-Identifier: BSD-3-Clause

package tfhe

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"
	mrand "math/rand/v2"

	"github.com/luxfi/lattice/v7/utils/sampling"
	"golang.org/x/crypto/blake2b"

	"github.com/luxfi/tfhe/internal/torus"
)

// RandomSource is the randomness capability consumed by key generation and
// encryption. Implementations are deterministic for a given seed.
type RandomSource interface {
	// UniformTorus returns a uniformly distributed torus element.
	UniformTorus() uint32
	// NormalTorus returns the torus encoding of a sample of N(0, stdDev^2),
	// stdDev being a fraction of the torus.
	NormalTorus(stdDev float64) uint32
	// UniformInt returns a uniform integer in the closed range [lo, hi].
	UniformInt(lo, hi uint32) uint32
}

// SeedSize is the size in bytes of the seeds produced by NewRandomPRNG and Fork.
const SeedSize = 32

const prngBufferSize = 4096

// PRNG is a RandomSource drawing its bytes from a keyed blake2b XOF.
// Two PRNGs built from the same seed produce the same stream.
//
// A PRNG is not safe for concurrent use. Concurrent encryptors should each
// own a PRNG obtained with Fork.
type PRNG struct {
	seed []byte
	xof  *sampling.KeyedPRNG
	buf  [prngBufferSize]byte
	pos  int
	rand *mrand.Rand
}

// NewPRNG creates a PRNG keyed with seed (at most 64 bytes).
func NewPRNG(seed []byte) (*PRNG, error) {
	if len(seed) > blake2b.Size {
		return nil, fmt.Errorf("prng seed of %d bytes exceeds %d", len(seed), blake2b.Size)
	}
	xof, err := sampling.NewKeyedPRNG(seed)
	if err != nil {
		return nil, fmt.Errorf("keyed prng: %w", err)
	}
	p := &PRNG{
		seed: append([]byte(nil), seed...),
		xof:  xof,
		pos:  prngBufferSize,
	}
	p.rand = mrand.New(p)
	return p, nil
}

// NewRandomPRNG creates a PRNG keyed with SeedSize bytes from crypto/rand.
func NewRandomPRNG() (*PRNG, error) {
	seed := make([]byte, SeedSize)
	if _, err := rand.Read(seed); err != nil {
		return nil, fmt.Errorf("read seed: %w", err)
	}
	return NewPRNG(seed)
}

// Seed returns a copy of the key of the PRNG.
func (p *PRNG) Seed() []byte {
	return append([]byte(nil), p.seed...)
}

// Fork returns the i-th child of p. Children are keyed with
// blake2b(seed || i) and are independent of each other and of p's stream.
func (p *PRNG) Fork(i uint64) *PRNG {
	msg := make([]byte, len(p.seed)+8)
	copy(msg, p.seed)
	binary.LittleEndian.PutUint64(msg[len(p.seed):], i)
	child := blake2b.Sum256(msg)
	c, err := NewPRNG(child[:])
	if err != nil {
		// a 32-byte key is always accepted
		panic(fmt.Sprintf("fork prng: %v", err))
	}
	return c
}

// Uint64 implements math/rand/v2.Source.
func (p *PRNG) Uint64() uint64 {
	if p.pos+8 > prngBufferSize {
		if _, err := p.xof.Read(p.buf[:]); err != nil {
			panic(fmt.Sprintf("prng exhausted: %v", err))
		}
		p.pos = 0
	}
	v := binary.LittleEndian.Uint64(p.buf[p.pos:])
	p.pos += 8
	return v
}

// UniformTorus implements RandomSource.
func (p *PRNG) UniformTorus() uint32 {
	return uint32(p.Uint64() >> 32)
}

// NormalTorus implements RandomSource.
func (p *PRNG) NormalTorus(stdDev float64) uint32 {
	return torus.FromFloat(p.rand.NormFloat64() * stdDev)
}

// UniformInt implements RandomSource. It panics if hi < lo.
func (p *PRNG) UniformInt(lo, hi uint32) uint32 {
	if hi < lo {
		panic(fmt.Sprintf("UniformInt: empty range [%d, %d]", lo, hi))
	}
	span := hi - lo + 1
	if span == 0 {
		return p.UniformTorus()
	}
	return lo + p.rand.Uint32N(span)
}

// UniformBit returns a uniform bit in {0, 1}.
func UniformBit(rng RandomSource) int32 {
	return int32(rng.UniformInt(0, 1))
}
