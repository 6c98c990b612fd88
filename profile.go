// Copyright (c) 2025, Lux Industries Inc
// SPDX-License-Identifier: BSD-3-Clause

//go:build profile

package tfhe

import (
	"errors"
	"fmt"
	"os"
	"runtime"
	"runtime/pprof"
	"runtime/trace"
	"time"
)

// ProfileConfig names the output files of a profiling session. Empty fields
// are skipped.
type ProfileConfig struct {
	CPUProfile string
	MemProfile string
	TraceFile  string
}

// StartProfiling starts CPU profiling and execution tracing as configured.
// The returned stop function ends both and then writes the heap profile.
func StartProfiling(cfg ProfileConfig) (stop func() error, err error) {
	var closers []func() error
	closeAll := func() error {
		var errs []error
		for i := len(closers) - 1; i >= 0; i-- {
			errs = append(errs, closers[i]())
		}
		return errors.Join(errs...)
	}

	if cfg.CPUProfile != "" {
		f, err := os.Create(cfg.CPUProfile)
		if err != nil {
			return nil, fmt.Errorf("create CPU profile: %w", err)
		}
		if err := pprof.StartCPUProfile(f); err != nil {
			f.Close()
			return nil, fmt.Errorf("start CPU profile: %w", err)
		}
		closers = append(closers, func() error {
			pprof.StopCPUProfile()
			return f.Close()
		})
	}

	if cfg.TraceFile != "" {
		f, err := os.Create(cfg.TraceFile)
		if err != nil {
			closeAll()
			return nil, fmt.Errorf("create trace: %w", err)
		}
		if err := trace.Start(f); err != nil {
			f.Close()
			closeAll()
			return nil, fmt.Errorf("start trace: %w", err)
		}
		closers = append(closers, func() error {
			trace.Stop()
			return f.Close()
		})
	}

	return func() error {
		err := closeAll()
		if cfg.MemProfile != "" {
			err = errors.Join(err, writeHeapProfile(cfg.MemProfile))
		}
		return err
	}, nil
}

func writeHeapProfile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create memory profile: %w", err)
	}
	defer f.Close()
	runtime.GC()
	if err := pprof.WriteHeapProfile(f); err != nil {
		return fmt.Errorf("write memory profile: %w", err)
	}
	return nil
}

// HeapSummary reports live heap, cumulative allocation, and GC count in MB.
func HeapSummary() string {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	return fmt.Sprintf("heap %d MB, allocated %d MB, sys %d MB, %d GCs",
		m.Alloc>>20, m.TotalAlloc>>20, m.Sys>>20, m.NumGC)
}

// Measurement is the wall time of Ops repetitions of a named operation.
type Measurement struct {
	Name  string
	Ops   int
	Total time.Duration
}

// PerOp returns the mean latency of one repetition.
func (m Measurement) PerOp() time.Duration {
	return m.Total / time.Duration(max(m.Ops, 1))
}

func (m Measurement) String() string {
	if m.Ops > 1 {
		return fmt.Sprintf("%-28s %12v %12v/op", m.Name, m.Total, m.PerOp())
	}
	return fmt.Sprintf("%-28s %12v", m.Name, m.Total)
}

// Measure runs f ops times, stopping at the first error.
func Measure(name string, ops int, f func(i int) error) (Measurement, error) {
	start := time.Now()
	for i := 0; i < ops; i++ {
		if err := f(i); err != nil {
			return Measurement{}, fmt.Errorf("%s: %w", name, err)
		}
	}
	return Measurement{Name: name, Ops: ops, Total: time.Since(start)}, nil
}

// TimeGates measures every bootstrapped gate, from NAND to MAJORITY, over
// iterations evaluations on the inputs (true, false, true).
func TimeGates(eval *Evaluator, enc *Encryptor, iterations int) ([]Measurement, error) {
	in := []*TLWE{enc.Encrypt(true), enc.Encrypt(false), enc.Encrypt(true)}
	out := make([]Measurement, 0, GateMAJORITY-GateNAND+1)
	for g := GateNAND; g <= GateMAJORITY; g++ {
		op := GateOp{Gate: g, Inputs: in[:g.Arity()]}
		m, err := Measure(g.String(), iterations, func(int) error {
			_, err := eval.Evaluate(op)
			return err
		})
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, nil
}
