// Package tfhe - Security Levels
//
// This file defines the named parameter sets of the gate-bootstrapping
// scheme. Every set uses a 32-bit torus, binary secret keys, a ring of
// degree N = 1024 with a single mask polynomial (k = 1), and the
// blind-rotate → extract → key-switch bootstrapping order.
//
// # Parameter Sets
//
//	Name     n    N     alpha_0   alpha_1   Bg    l  KS base  t
//	-------------------------------------------------------------
//	STD110   500  1024  2.44e-5   7.18e-9   2^10  2  2^2      8
//	STD128   630  1024  2^-15     2^-25     2^7   3  2^2      8
//
// STD110 is the original TFHE gate-bootstrapping set. STD128 is the set
// recommended after the 2020 re-estimation of the LWE hardness, and is the
// default.
//
// Copyright (c) 2025, Lux Industries Inc
// SPDX-License-Identifier: BSD-3-Clause
package tfhe

import (
	"fmt"
	"math"

	"github.com/luxfi/lattice/v7/utils"
)

// SecurityLevel represents the target security level
type SecurityLevel int

const (
	// Security110 is the legacy TFHE level
	Security110 SecurityLevel = 110
	// Security128 provides 128-bit classical security
	Security128 SecurityLevel = 128
)

// SecurityParams names a parameter literal and its target security level
type SecurityParams struct {
	// Name is the parameter set identifier
	Name string
	// Security is the target security level
	Security SecurityLevel
	// Literal is the parameter specification
	Literal ParametersLiteral
}

// Standard parameter literals
var (
	// STD110 is the original TFHE gate-bootstrapping parameter set.
	STD110 = ParametersLiteral{
		LWEDimension:       500,
		LogPolyDegree:      10,
		GLWERank:           1,
		LWEStdDev:          2.44e-5,
		GLWEStdDev:         7.18e-9,
		KeySwitchStdDev:    utils.Pointy(2.44e-5),
		BlindRotateBaseLog: 10,
		BlindRotateLevel:   2,
		KeySwitchBaseLog:   2,
		KeySwitchLevel:     8,
	}

	// STD128 provides ~128-bit security and is the recommended default.
	STD128 = ParametersLiteral{
		LWEDimension:       630,
		LogPolyDegree:      10,
		GLWERank:           1,
		LWEStdDev:          math.Exp2(-15),
		GLWEStdDev:         math.Exp2(-25),
		KeySwitchStdDev:    utils.Pointy(math.Exp2(-15)),
		BlindRotateBaseLog: 7,
		BlindRotateLevel:   3,
		KeySwitchBaseLog:   2,
		KeySwitchLevel:     8,
	}
)

// AllSecurityParams returns all available security parameter sets
func AllSecurityParams() []SecurityParams {
	return []SecurityParams{
		{Name: "STD110", Security: Security110, Literal: STD110},
		{Name: "STD128", Security: Security128, Literal: STD128},
	}
}

// GetSecurityParams returns the SecurityParams for a given name
func GetSecurityParams(name string) (SecurityParams, bool) {
	for _, p := range AllSecurityParams() {
		if p.Name == name {
			return p, true
		}
	}
	return SecurityParams{}, false
}

// ParametersLiteralFor returns the literal of the set targeting level.
func ParametersLiteralFor(level SecurityLevel) (ParametersLiteral, error) {
	for _, p := range AllSecurityParams() {
		if p.Security == level {
			return p.Literal, nil
		}
	}
	return ParametersLiteral{}, fmt.Errorf("%w: no parameter set for security level %d", ErrInvalidParameters, int(level))
}
