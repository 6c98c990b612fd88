// Copyright (c) 2025, Lux Industries Inc
// SPDX-License-Identifier: BSD-3-Clause

package tfhe

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

// testContext bundles the keys shared by the tests of this package. Key
// generation dominates the cost of the suite, so it runs once.
type testContext struct {
	params Parameters
	sk     *SecretKey
	evk    *EvaluationKey
	enc    *Encryptor
	dec    *Decryptor
	eval   *Evaluator
}

var (
	testCtxOnce sync.Once
	testCtx     *testContext
	testCtxErr  error
)

// testPRNG returns a deterministic PRNG keyed by label.
func testPRNG(t testing.TB, label string) *PRNG {
	t.Helper()
	p, err := NewPRNG([]byte(label))
	require.NoError(t, err)
	return p
}

func newTestContext(t testing.TB) *testContext {
	t.Helper()
	testCtxOnce.Do(func() {
		testCtx, testCtxErr = buildTestContext(STD128, []byte("tfhe test keys"))
	})
	require.NoError(t, testCtxErr)
	return testCtx
}

func buildTestContext(lit ParametersLiteral, seed []byte) (*testContext, error) {
	params, err := NewParametersFromLiteral(lit)
	if err != nil {
		return nil, err
	}
	prng, err := NewPRNG(seed)
	if err != nil {
		return nil, err
	}
	kg := NewKeyGenerator(params, prng.Fork(0))
	sk := kg.GenSecretKey()
	evk, err := kg.GenEvaluationKey(sk)
	if err != nil {
		return nil, fmt.Errorf("gen evaluation key: %w", err)
	}
	enc, err := NewEncryptor(params, sk, prng.Fork(1))
	if err != nil {
		return nil, err
	}
	dec, err := NewDecryptor(params, sk)
	if err != nil {
		return nil, err
	}
	eval, err := NewEvaluator(params, evk)
	if err != nil {
		return nil, err
	}
	return &testContext{params: params, sk: sk, evk: evk, enc: enc, dec: dec, eval: eval}, nil
}

// trials returns full in normal runs and short with -short.
func trials(full, short int) int {
	if testing.Short() {
		return short
	}
	return full
}
