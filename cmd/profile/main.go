// Copyright (c) 2025, Lux Industries Inc
// SPDX-License-Identifier: BSD-3-Clause

//go:build profile

// Command profile runs performance profiling on TFHE operations.
//
// Usage:
//
//	go build -tags profile -o profile ./cmd/profile
//	./profile -params=STD128 -cpu=cpu.prof -mem=mem.prof -iterations=10
//
// Analyze profiles:
//
//	go tool pprof -http=:8080 cpu.prof
//	go tool pprof -http=:8081 mem.prof
package main

import (
	"encoding/hex"
	"flag"
	"fmt"
	"log"
	"runtime"
	"time"

	"github.com/luxfi/tfhe"
)

var (
	cpuProfile = flag.String("cpu", "", "write cpu profile to file")
	memProfile = flag.String("mem", "", "write memory profile to file")
	traceFile  = flag.String("trace", "", "write execution trace to file")
	paramsName = flag.String("params", "STD128", "parameter set: STD110, STD128")
	seedHex    = flag.String("seed", "", "hex PRNG seed (random if empty)")
	iterations = flag.Int("iterations", 10, "number of iterations for each operation")
	operation  = flag.String("op", "all", "operation to profile: all, encrypt, gates, circuit, batch, noise")
	workers    = flag.Int("workers", 0, "batch workers (GOMAXPROCS if 0)")
)

type session struct {
	params tfhe.Parameters
	sk     *tfhe.SecretKey
	enc    *tfhe.Encryptor
	dec    *tfhe.Decryptor
	eval   *tfhe.Evaluator
}

func main() {
	flag.Parse()
	log.SetFlags(0)

	cfg := tfhe.ProfileConfig{
		CPUProfile: *cpuProfile,
		MemProfile: *memProfile,
		TraceFile:  *traceFile,
	}
	stop, err := tfhe.StartProfiling(cfg)
	if err != nil {
		log.Fatalf("Failed to start profiler: %v", err)
	}
	start := time.Now()

	fmt.Printf("Running %d iterations of '%s' with %s\n", *iterations, *operation, *paramsName)
	fmt.Printf("GOMAXPROCS: %d\n", runtime.GOMAXPROCS(0))

	s, err := setup()
	if err != nil {
		log.Fatal(err)
	}

	ops := map[string]func(*session) error{
		"encrypt": profileEncrypt,
		"gates":   profileGates,
		"circuit": profileCircuit,
		"batch":   profileBatch,
		"noise":   profileNoise,
	}
	order := []string{"encrypt", "gates", "circuit", "batch", "noise"}

	switch fn, ok := ops[*operation]; {
	case *operation == "all":
		for _, name := range order {
			if err := ops[name](s); err != nil {
				log.Fatalf("%s: %v", name, err)
			}
		}
	case ok:
		if err := fn(s); err != nil {
			log.Fatalf("%s: %v", *operation, err)
		}
	default:
		log.Fatalf("Unknown operation: %s", *operation)
	}

	fmt.Printf("\nProfiling duration: %v\n", time.Since(start))
	if err := stop(); err != nil {
		log.Fatal(err)
	}
	for _, f := range []string{cfg.CPUProfile, cfg.TraceFile, cfg.MemProfile} {
		if f != "" {
			fmt.Printf("Wrote %s\n", f)
		}
	}
	fmt.Println(tfhe.HeapSummary())
}

// report times ops repetitions of f and prints the measurement.
func report(name string, ops int, f func(i int) error) error {
	m, err := tfhe.Measure(name, ops, f)
	if err != nil {
		return err
	}
	fmt.Println(m)
	return nil
}

func setup() (*session, error) {
	sp, ok := tfhe.GetSecurityParams(*paramsName)
	if !ok {
		return nil, fmt.Errorf("unknown parameter set %q", *paramsName)
	}
	params, err := tfhe.NewParametersFromLiteral(sp.Literal)
	if err != nil {
		return nil, err
	}

	var prng *tfhe.PRNG
	if *seedHex == "" {
		prng, err = tfhe.NewRandomPRNG()
	} else {
		var seed []byte
		if seed, err = hex.DecodeString(*seedHex); err != nil {
			return nil, fmt.Errorf("decode seed: %w", err)
		}
		prng, err = tfhe.NewPRNG(seed)
	}
	if err != nil {
		return nil, err
	}
	fmt.Printf("Seed: %x\n", prng.Seed())

	fmt.Println("\n=== Key Generation ===")
	kg := tfhe.NewKeyGenerator(params, prng.Fork(0))

	var (
		sk  *tfhe.SecretKey
		bsk *tfhe.BootstrappingKey
		ksk *tfhe.KeySwitchKey
	)
	if err := report("SecretKey generation", 1, func(int) error {
		sk = kg.GenSecretKey()
		return nil
	}); err != nil {
		return nil, err
	}
	if err := report("BootstrappingKey generation", 1, func(int) (err error) {
		bsk, err = kg.GenBootstrappingKey(sk)
		return err
	}); err != nil {
		return nil, err
	}
	if err := report("KeySwitchKey generation", 1, func(int) (err error) {
		ksk, err = kg.GenKeySwitchKey(sk)
		return err
	}); err != nil {
		return nil, err
	}

	enc, err := tfhe.NewEncryptor(params, sk, prng.Fork(1))
	if err != nil {
		return nil, err
	}
	dec, err := tfhe.NewDecryptor(params, sk)
	if err != nil {
		return nil, err
	}
	eval, err := tfhe.NewEvaluator(params, &tfhe.EvaluationKey{BSK: bsk, KSK: ksk})
	if err != nil {
		return nil, err
	}
	return &session{params: params, sk: sk, enc: enc, dec: dec, eval: eval}, nil
}

func profileEncrypt(s *session) error {
	fmt.Println("\n=== Encryption/Decryption ===")
	n := *iterations * 100

	if err := report("Bit encryption", n, func(i int) error {
		s.enc.Encrypt(i%2 == 0)
		return nil
	}); err != nil {
		return err
	}

	ct := s.enc.Encrypt(true)
	return report("Bit decryption", n, func(int) error {
		if !s.dec.Decrypt(ct) {
			return fmt.Errorf("decrypted false, want true")
		}
		return nil
	})
}

func profileGates(s *session) error {
	fmt.Println("\n=== Boolean Gates ===")
	times, err := tfhe.TimeGates(s.eval, s.enc, *iterations)
	if err != nil {
		return err
	}
	for _, m := range times {
		fmt.Println(m)
	}
	return nil
}

// profileCircuit times an 8-bit ripple-carry adder and checks its result.
func profileCircuit(s *session) error {
	fmt.Println("\n=== Circuit Evaluation ===")
	const x, y = 0x42, 0x37
	a := s.enc.EncryptByte(x)
	b := s.enc.EncryptByte(y)

	var sum [8]*tfhe.TLWE
	if err := report("8-bit addition", *iterations, func(int) error {
		carry := s.eval.Constant(false)
		for i := 0; i < 8; i++ {
			axb, err := s.eval.XOR(a[i], b[i])
			if err != nil {
				return err
			}
			if sum[i], err = s.eval.XOR(axb, carry); err != nil {
				return err
			}
			if carry, err = s.eval.MUX(axb, carry, a[i]); err != nil {
				return err
			}
		}
		return nil
	}); err != nil {
		return err
	}

	if got := s.dec.DecryptByte(sum); got != byte(x+y) {
		return fmt.Errorf("adder computed %#x, want %#x", got, byte(x+y))
	}
	return nil
}

func profileBatch(s *session) error {
	fmt.Println("\n=== Batch Evaluation ===")
	n := *iterations * runtime.GOMAXPROCS(0)
	ops := make([]tfhe.GateOp, n)
	for i := range ops {
		ops[i] = tfhe.GateOp{
			Gate:   tfhe.GateNAND,
			Inputs: []*tfhe.TLWE{s.enc.Encrypt(i%2 == 0), s.enc.Encrypt(i%3 == 0)},
		}
	}
	m, err := tfhe.Measure(fmt.Sprintf("%d NAND gates", n), 1, func(int) error {
		_, err := s.eval.EvaluateBatch(ops, *workers)
		return err
	})
	if err != nil {
		return err
	}
	fmt.Printf("%v (%v/gate)\n", m, m.Total/time.Duration(n))
	return nil
}

func profileNoise(s *session) error {
	fmt.Println("\n=== Noise ===")
	n := *iterations * 10
	fresh := make([]*tfhe.TLWE, n)
	boot := make([]*tfhe.TLWE, n)
	want := make([]bool, n)
	for i := range fresh {
		want[i] = i%2 == 0
		fresh[i] = s.enc.Encrypt(want[i])
		var err error
		if boot[i], err = s.eval.Refresh(fresh[i]); err != nil {
			return err
		}
	}
	for _, c := range []struct {
		name string
		cts  []*tfhe.TLWE
	}{{"fresh", fresh}, {"bootstrapped", boot}} {
		ns, err := tfhe.MeasureNoise(s.dec, c.cts, want)
		if err != nil {
			return err
		}
		fmt.Printf("%-13s %v\n", c.name, ns)
	}
	return nil
}
