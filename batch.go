// Copyright (c) 2025, Lux Industries Inc
// SPDX-License-Identifier: BSD-3-Clause

package tfhe

import (
	"errors"
	"fmt"
	"runtime"
	"sync"
)

// Gate identifies a homomorphic gate for batch evaluation.
type Gate int

const (
	GateNAND Gate = iota
	GateAND
	GateOR
	GateNOR
	GateXOR
	GateXNOR
	GateANDNY
	GateANDYN
	GateORNY
	GateORYN
	GateMUX
	GateMAJORITY
	GateNOT
	GateCopy
	GateRefresh
)

var gateNames = [...]string{
	GateNAND:     "NAND",
	GateAND:      "AND",
	GateOR:       "OR",
	GateNOR:      "NOR",
	GateXOR:      "XOR",
	GateXNOR:     "XNOR",
	GateANDNY:    "ANDNY",
	GateANDYN:    "ANDYN",
	GateORNY:     "ORNY",
	GateORYN:     "ORYN",
	GateMUX:      "MUX",
	GateMAJORITY: "MAJORITY",
	GateNOT:      "NOT",
	GateCopy:     "COPY",
	GateRefresh:  "REFRESH",
}

func (g Gate) String() string {
	if g < 0 || int(g) >= len(gateNames) {
		return fmt.Sprintf("Gate(%d)", int(g))
	}
	return gateNames[g]
}

// Arity returns the number of inputs of g.
func (g Gate) Arity() int {
	switch g {
	case GateMUX, GateMAJORITY:
		return 3
	case GateNOT, GateCopy, GateRefresh:
		return 1
	default:
		return 2
	}
}

// GateOp is one gate application. For GateMUX the inputs are
// (sel, ctTrue, ctFalse).
type GateOp struct {
	Gate   Gate
	Inputs []*TLWE
}

// Evaluate applies a single gate operation.
func (eval *Evaluator) Evaluate(op GateOp) (*TLWE, error) {
	if op.Gate < 0 || int(op.Gate) >= len(gateNames) {
		return nil, fmt.Errorf("unknown gate %v", op.Gate)
	}
	if len(op.Inputs) != op.Gate.Arity() {
		return nil, fmt.Errorf("%v: %d inputs, want %d", op.Gate, len(op.Inputs), op.Gate.Arity())
	}
	in := op.Inputs
	switch op.Gate {
	case GateNAND:
		return eval.NAND(in[0], in[1])
	case GateAND:
		return eval.AND(in[0], in[1])
	case GateOR:
		return eval.OR(in[0], in[1])
	case GateNOR:
		return eval.NOR(in[0], in[1])
	case GateXOR:
		return eval.XOR(in[0], in[1])
	case GateXNOR:
		return eval.XNOR(in[0], in[1])
	case GateANDNY:
		return eval.ANDNY(in[0], in[1])
	case GateANDYN:
		return eval.ANDYN(in[0], in[1])
	case GateORNY:
		return eval.ORNY(in[0], in[1])
	case GateORYN:
		return eval.ORYN(in[0], in[1])
	case GateMUX:
		return eval.MUX(in[0], in[1], in[2])
	case GateMAJORITY:
		return eval.MAJORITY(in[0], in[1], in[2])
	case GateRefresh:
		return eval.Refresh(in[0])
	}
	// NOT and COPY need no bootstrap
	if err := checkTLWE(eval.params, Level0, in[0]); err != nil {
		return nil, fmt.Errorf("%v: %w", op.Gate, err)
	}
	if op.Gate == GateNOT {
		return eval.NOT(in[0]), nil
	}
	return eval.Copy(in[0]), nil
}

// EvaluateBatch evaluates independent gate operations in parallel over
// workers goroutines (GOMAXPROCS if workers <= 0), each with its own
// shallow copy of eval. Results are in the order of ops.
func (eval *Evaluator) EvaluateBatch(ops []GateOp, workers int) ([]*TLWE, error) {
	batchSize := len(ops)
	results := make([]*TLWE, batchSize)
	errs := make([]error, batchSize)

	numWorkers := workers
	if numWorkers <= 0 {
		numWorkers = runtime.GOMAXPROCS(0)
	}
	if numWorkers > batchSize {
		numWorkers = batchSize
	}
	if numWorkers == 0 {
		return results, nil
	}

	chunkSize := (batchSize + numWorkers - 1) / numWorkers

	var wg sync.WaitGroup
	for w := 0; w < numWorkers; w++ {
		start := w * chunkSize
		end := min(start+chunkSize, batchSize)
		if start >= end {
			continue
		}

		wg.Add(1)
		go func(s, end int, ev *Evaluator) {
			defer wg.Done()
			for i := s; i < end; i++ {
				res, err := ev.Evaluate(ops[i])
				if err != nil {
					errs[i] = fmt.Errorf("op %d: %w", i, err)
					continue
				}
				results[i] = res
			}
		}(start, end, eval.ShallowCopy())
	}

	wg.Wait()

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return results, nil
}
