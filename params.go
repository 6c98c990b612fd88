// Copyright (c) 2025, Lux Industries Inc
// SPDX-License-Identifier: BSD-3-Clause

package tfhe

import (
	"errors"
	"fmt"
	"math"

	"github.com/luxfi/tfhe/internal/poly"
	"github.com/luxfi/tfhe/internal/torus"
)

var (
	// ErrInvalidParameters is returned for parameter literals that cannot
	// instantiate the scheme.
	ErrInvalidParameters = errors.New("invalid parameters")
	// ErrDimensionMismatch is returned when a ciphertext or key does not
	// have the dimensions implied by the active Parameters.
	ErrDimensionMismatch = errors.New("dimension mismatch")
)

// Level selects one of the two TLWE key levels.
type Level int

const (
	// Level0 ciphertexts have dimension n and are the gate inputs and outputs.
	Level0 Level = iota
	// Level1 ciphertexts have dimension k*N and come out of sample extraction.
	Level1
)

func (l Level) String() string {
	switch l {
	case Level0:
		return "level0"
	case Level1:
		return "level1"
	default:
		return fmt.Sprintf("Level(%d)", int(l))
	}
}

// ParametersLiteral is a user-friendly parameter specification
type ParametersLiteral struct {
	// LWEDimension is the level-0 dimension n
	LWEDimension int
	// LogPolyDegree is log2 of the ring degree N
	LogPolyDegree int
	// GLWERank is the number k of mask polynomials of a TRLWE ciphertext
	GLWERank int

	// LWEStdDev is the level-0 noise standard deviation (alpha_0), as a
	// fraction of the torus
	LWEStdDev float64
	// GLWEStdDev is the level-1 noise standard deviation (alpha_1)
	GLWEStdDev float64
	// KeySwitchStdDev overrides the noise of the key-switching key.
	// Defaults to LWEStdDev.
	KeySwitchStdDev *float64

	// BlindRotateBaseLog is log2 of the gadget base Bg
	BlindRotateBaseLog int
	// BlindRotateLevel is the gadget digit count l
	BlindRotateLevel int
	// KeySwitchBaseLog is log2 of the key-switch base
	KeySwitchBaseLog int
	// KeySwitchLevel is the key-switch digit count t
	KeySwitchLevel int
}

// Parameters is the validated, immutable form of a ParametersLiteral.
// It is a small value type and is passed by value to every component; the
// NTT engine it carries is shared and read-only.
type Parameters struct {
	n       int
	logN    int
	k       int
	alpha0  float64
	alpha1  float64
	alphaKS float64

	gadget   torus.Gadget
	ksGadget torus.KeySwitchGadget

	ntt *poly.NTTEngine
}

// NewParametersFromLiteral creates Parameters from a literal specification
func NewParametersFromLiteral(lit ParametersLiteral) (params Parameters, err error) {
	switch {
	case lit.LWEDimension < 1:
		return params, fmt.Errorf("%w: LWE dimension %d", ErrInvalidParameters, lit.LWEDimension)
	case lit.LogPolyDegree < 4 || lit.LogPolyDegree > 16:
		return params, fmt.Errorf("%w: log poly degree %d", ErrInvalidParameters, lit.LogPolyDegree)
	case lit.GLWERank < 1:
		return params, fmt.Errorf("%w: GLWE rank %d", ErrInvalidParameters, lit.GLWERank)
	case !validStdDev(lit.LWEStdDev) || !validStdDev(lit.GLWEStdDev):
		return params, fmt.Errorf("%w: noise standard deviations must be in (0, 1/8)", ErrInvalidParameters)
	}

	params.n = lit.LWEDimension
	params.logN = lit.LogPolyDegree
	params.k = lit.GLWERank
	params.alpha0 = lit.LWEStdDev
	params.alpha1 = lit.GLWEStdDev
	params.alphaKS = lit.LWEStdDev
	if lit.KeySwitchStdDev != nil {
		if !validStdDev(*lit.KeySwitchStdDev) {
			return params, fmt.Errorf("%w: key-switch standard deviation %v", ErrInvalidParameters, *lit.KeySwitchStdDev)
		}
		params.alphaKS = *lit.KeySwitchStdDev
	}

	if params.gadget, err = torus.NewGadget(lit.BlindRotateBaseLog, lit.BlindRotateLevel); err != nil {
		return params, fmt.Errorf("%w: %w", ErrInvalidParameters, err)
	}
	if params.ksGadget, err = torus.NewKeySwitchGadget(lit.KeySwitchBaseLog, lit.KeySwitchLevel); err != nil {
		return params, fmt.Errorf("%w: %w", ErrInvalidParameters, err)
	}

	if params.ntt, err = poly.NewNTTEngine(1 << lit.LogPolyDegree); err != nil {
		return params, fmt.Errorf("%w: %w", ErrInvalidParameters, err)
	}

	// The external product accumulates (k+1)*l products of a balanced digit
	// polynomial by a signed torus polynomial; each coefficient must stay
	// inside the exact range of the NTT.
	worst := float64((params.k+1)*params.gadget.Level) * float64(params.PolyDegree()) *
		float64(params.gadget.Base()/2) * math.Exp2(torus.Bits-1)
	if worst >= params.ntt.Bound() {
		return params, fmt.Errorf("%w: external product magnitude 2^%.1f exceeds the NTT range 2^%.1f",
			ErrInvalidParameters, math.Log2(worst), math.Log2(params.ntt.Bound()))
	}

	return params, nil
}

func validStdDev(s float64) bool {
	return s > 0 && s < 0.125
}

// LWEDimension returns the level-0 dimension n
func (p Parameters) LWEDimension() int {
	return p.n
}

// PolyDegree returns the ring degree N
func (p Parameters) PolyDegree() int {
	return 1 << p.logN
}

// LogPolyDegree returns log2(N)
func (p Parameters) LogPolyDegree() int {
	return p.logN
}

// GLWERank returns k
func (p Parameters) GLWERank() int {
	return p.k
}

// Dimension returns the length of the mask of a TLWE ciphertext at level.
func (p Parameters) Dimension(level Level) int {
	if level == Level0 {
		return p.n
	}
	return p.k << p.logN
}

// StdDev returns the fresh-encryption noise at level.
func (p Parameters) StdDev(level Level) float64 {
	if level == Level0 {
		return p.alpha0
	}
	return p.alpha1
}

// KeySwitchStdDev returns the noise of the key-switching key.
func (p Parameters) KeySwitchStdDev() float64 {
	return p.alphaKS
}

// Gadget returns the blind-rotation gadget (Bg, l).
func (p Parameters) Gadget() torus.Gadget {
	return p.gadget
}

// KeySwitchGadget returns the key-switch decomposition (base, t).
func (p Parameters) KeySwitchGadget() torus.KeySwitchGadget {
	return p.ksGadget
}

// NTT returns the shared negacyclic transform engine for degree N.
func (p Parameters) NTT() *poly.NTTEngine {
	return p.ntt
}

// Literal returns the literal these parameters were built from.
func (p Parameters) Literal() ParametersLiteral {
	ks := p.alphaKS
	return ParametersLiteral{
		LWEDimension:       p.n,
		LogPolyDegree:      p.logN,
		GLWERank:           p.k,
		LWEStdDev:          p.alpha0,
		GLWEStdDev:         p.alpha1,
		KeySwitchStdDev:    &ks,
		BlindRotateBaseLog: p.gadget.BaseLog,
		BlindRotateLevel:   p.gadget.Level,
		KeySwitchBaseLog:   p.ksGadget.BaseLog,
		KeySwitchLevel:     p.ksGadget.Level,
	}
}
