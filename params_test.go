// Copyright (c) 2025, Lux Industries Inc
// SPDX-License-Identifier: BSD-3-Clause

package tfhe

import (
	"math"
	"testing"

	"github.com/luxfi/lattice/v7/utils"
	"github.com/stretchr/testify/require"
)

func TestStandardParameters(t *testing.T) {
	for _, sp := range AllSecurityParams() {
		t.Run(sp.Name, func(t *testing.T) {
			params, err := NewParametersFromLiteral(sp.Literal)
			require.NoError(t, err)
			require.Equal(t, 1024, params.PolyDegree())
			require.Equal(t, sp.Literal.LWEDimension, params.Dimension(Level0))
			require.Equal(t, params.GLWERank()*params.PolyDegree(), params.Dimension(Level1))
			require.Equal(t, sp.Literal, params.Literal())

			got, ok := GetSecurityParams(sp.Name)
			require.True(t, ok)
			require.Equal(t, sp.Security, got.Security)

			lit, err := ParametersLiteralFor(sp.Security)
			require.NoError(t, err)
			require.Equal(t, sp.Literal, lit)
		})
	}

	_, ok := GetSecurityParams("STD256")
	require.False(t, ok)
	_, err := ParametersLiteralFor(SecurityLevel(80))
	require.ErrorIs(t, err, ErrInvalidParameters)
}

func TestSTD128Values(t *testing.T) {
	params, err := NewParametersFromLiteral(STD128)
	require.NoError(t, err)
	require.Equal(t, 630, params.LWEDimension())
	require.Equal(t, 10, params.LogPolyDegree())
	require.Equal(t, 1, params.GLWERank())
	require.Equal(t, math.Exp2(-15), params.StdDev(Level0))
	require.Equal(t, math.Exp2(-25), params.StdDev(Level1))
	require.Equal(t, math.Exp2(-15), params.KeySwitchStdDev())
	require.Equal(t, int32(128), params.Gadget().Base())
	require.Equal(t, 3, params.Gadget().Level)
	require.Equal(t, 4, params.KeySwitchGadget().Base())
	require.Equal(t, 8, params.KeySwitchGadget().Level)
	require.NotNil(t, params.NTT())
}

func TestKeySwitchStdDevDefault(t *testing.T) {
	lit := STD128
	lit.KeySwitchStdDev = nil
	params, err := NewParametersFromLiteral(lit)
	require.NoError(t, err)
	require.Equal(t, lit.LWEStdDev, params.KeySwitchStdDev())

	lit.KeySwitchStdDev = utils.Pointy(math.Exp2(-17))
	params, err = NewParametersFromLiteral(lit)
	require.NoError(t, err)
	require.Equal(t, math.Exp2(-17), params.KeySwitchStdDev())
}

func TestInvalidParameters(t *testing.T) {
	for name, mutate := range map[string]func(*ParametersLiteral){
		"zero LWE dimension":  func(l *ParametersLiteral) { l.LWEDimension = 0 },
		"zero poly degree":    func(l *ParametersLiteral) { l.LogPolyDegree = 0 },
		"tiny poly degree":    func(l *ParametersLiteral) { l.LogPolyDegree = 3 },
		"huge poly degree":    func(l *ParametersLiteral) { l.LogPolyDegree = 17 },
		"zero rank":           func(l *ParametersLiteral) { l.GLWERank = 0 },
		"zero noise":          func(l *ParametersLiteral) { l.LWEStdDev = 0 },
		"noise too large":     func(l *ParametersLiteral) { l.GLWEStdDev = 0.2 },
		"bad key switch std":  func(l *ParametersLiteral) { l.KeySwitchStdDev = utils.Pointy(-1.0) },
		"gadget too wide":     func(l *ParametersLiteral) { l.BlindRotateBaseLog, l.BlindRotateLevel = 11, 3 },
		"zero gadget level":   func(l *ParametersLiteral) { l.BlindRotateLevel = 0 },
		"key switch too wide": func(l *ParametersLiteral) { l.KeySwitchBaseLog, l.KeySwitchLevel = 4, 8 },
		"NTT overflow": func(l *ParametersLiteral) {
			l.LogPolyDegree, l.GLWERank, l.BlindRotateBaseLog, l.BlindRotateLevel = 14, 4, 10, 3
		},
	} {
		t.Run(name, func(t *testing.T) {
			lit := STD128
			mutate(&lit)
			_, err := NewParametersFromLiteral(lit)
			require.ErrorIs(t, err, ErrInvalidParameters)
		})
	}
}

func TestLevelString(t *testing.T) {
	require.Equal(t, "level0", Level0.String())
	require.Equal(t, "level1", Level1.String())
	require.Equal(t, "Level(7)", Level(7).String())
}
