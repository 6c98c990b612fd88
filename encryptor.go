// Copyright (c) 2025, Lux Industries Inc
// SPDX-License-Identifier: BSD-3-Clause

package tfhe

import "fmt"

// Encryptor encrypts boolean values into level-0 TLWE ciphertexts
type Encryptor struct {
	params Parameters
	sk     *SecretKey
	rng    RandomSource
}

// NewEncryptor creates a new encryptor from secret key. The encryptor owns
// rng; concurrent encryptors need distinct sources (see PRNG.Fork).
func NewEncryptor(params Parameters, sk *SecretKey, rng RandomSource) (*Encryptor, error) {
	if err := sk.Validate(params); err != nil {
		return nil, fmt.Errorf("new encryptor: %w", err)
	}
	return &Encryptor{params: params, sk: sk, rng: rng}, nil
}

// Encrypt encrypts a boolean value
// - true  -> +1/8
// - false -> -1/8
func (enc *Encryptor) Encrypt(value bool) *TLWE {
	ct := NewTLWE(enc.params, Level0)
	encryptTLWE(enc.sk.LWE, encodeBool(value), enc.params.StdDev(Level0), enc.rng, ct)
	return ct
}

// EncryptBit is an alias for Encrypt
func (enc *Encryptor) EncryptBit(bit int) *TLWE {
	return enc.Encrypt(bit != 0)
}

// EncryptBits encrypts a slice of booleans
func (enc *Encryptor) EncryptBits(values []bool) []*TLWE {
	cts := make([]*TLWE, len(values))
	for i, v := range values {
		cts[i] = enc.Encrypt(v)
	}
	return cts
}

// EncryptByte encrypts a byte as 8 ciphertexts (LSB first)
func (enc *Encryptor) EncryptByte(b byte) [8]*TLWE {
	var cts [8]*TLWE
	for i := 0; i < 8; i++ {
		cts[i] = enc.Encrypt((b>>i)&1 == 1)
	}
	return cts
}

// EncryptUint32 encrypts a uint32 as 32 ciphertexts (LSB first)
func (enc *Encryptor) EncryptUint32(v uint32) [32]*TLWE {
	var cts [32]*TLWE
	for i := 0; i < 32; i++ {
		cts[i] = enc.Encrypt((v>>i)&1 == 1)
	}
	return cts
}

// EncryptUint64 encrypts a uint64 as 64 ciphertexts (LSB first)
func (enc *Encryptor) EncryptUint64(v uint64) [64]*TLWE {
	var cts [64]*TLWE
	for i := 0; i < 64; i++ {
		cts[i] = enc.Encrypt((v>>i)&1 == 1)
	}
	return cts
}
