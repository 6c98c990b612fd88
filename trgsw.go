// Copyright (c) 2025, Lux Industries Inc
// SPDX-License-Identifier: BSD-3-Clause

package tfhe

import (
	"fmt"
)

// TRGSW is a gadget encryption of a small integer polynomial m. It has
// (k+1)*l TRLWE rows; row blk*l+i is an encryption of zero plus
// m * Bg^-(i+1) added to component blk.
type TRGSW struct {
	Value []*TRLWE
}

// NewTRGSW allocates a zero TRGSW ciphertext.
func NewTRGSW(params Parameters) *TRGSW {
	c := &TRGSW{Value: make([]*TRLWE, (params.GLWERank()+1)*params.Gadget().Level)}
	for i := range c.Value {
		c.Value[i] = NewTRLWE(params)
	}
	return c
}

// EncryptTRGSW encrypts the constant polynomial value.
func EncryptTRGSW(params Parameters, sk *SecretKey, value int32, rng RandomSource) (*TRGSW, error) {
	if err := sk.Validate(params); err != nil {
		return nil, fmt.Errorf("encrypt trgsw: %w", err)
	}
	c := NewTRGSW(params)
	encryptTRGSWConst(params, newRingKey(params, sk), value, rng, c)
	return c, nil
}

// EncryptTRGSWPoly encrypts an integer polynomial of degree < N.
func EncryptTRGSWPoly(params Parameters, sk *SecretKey, value []int32, rng RandomSource) (*TRGSW, error) {
	if err := sk.Validate(params); err != nil {
		return nil, fmt.Errorf("encrypt trgsw: %w", err)
	}
	if len(value) != params.PolyDegree() {
		return nil, fmt.Errorf("encrypt trgsw: %w: polynomial of degree %d, want %d", ErrDimensionMismatch, len(value), params.PolyDegree())
	}
	c := NewTRGSW(params)
	rk := newRingKey(params, sk)
	g := params.Gadget()
	for r, row := range c.Value {
		encryptTRLWE(params, rk, nil, params.StdDev(Level1), rng, row)
		blk, i := r/g.Level, r%g.Level
		f := g.Factor(i)
		for j, v := range value {
			row.Value[blk][j] += uint32(v) * f
		}
	}
	return c, nil
}

// encryptTRGSWConst overwrites c with a fresh encryption of value.
func encryptTRGSWConst(params Parameters, rk *ringKey, value int32, rng RandomSource, c *TRGSW) {
	g := params.Gadget()
	for r, row := range c.Value {
		encryptTRLWE(params, rk, nil, params.StdDev(Level1), rng, row)
		blk, i := r/g.Level, r%g.Level
		row.Value[blk][0] += uint32(value) * g.Factor(i)
	}
}

// TRGSWNTT is a TRGSW ciphertext with every polynomial in NTT and
// Montgomery form, ready for the external product.
type TRGSWNTT struct {
	// Value[r][c] is component c of row r.
	Value [][][]uint64
}

// NTT returns the transformed image of c.
func (c *TRGSW) NTT(params Parameters) *TRGSWNTT {
	ntt := params.NTT()
	out := &TRGSWNTT{Value: make([][][]uint64, len(c.Value))}
	for r, row := range c.Value {
		out.Value[r] = make([][]uint64, len(row.Value))
		for j, p := range row.Value {
			f := make([]uint64, params.PolyDegree())
			ntt.ForwardTorus(p, f)
			ntt.ToMontgomery(f)
			out.Value[r][j] = f
		}
	}
	return out
}

// externalProductBuffer holds the scratch space of one external product.
type externalProductBuffer struct {
	digits   [][]int32
	digitNTT []uint64
	acc      [][]uint64
}

func newExternalProductBuffer(params Parameters) *externalProductBuffer {
	n := params.PolyDegree()
	buf := &externalProductBuffer{
		digits:   make([][]int32, params.Gadget().Level),
		digitNTT: make([]uint64, n),
		acc:      make([][]uint64, params.GLWERank()+1),
	}
	for i := range buf.digits {
		buf.digits[i] = make([]int32, n)
	}
	for i := range buf.acc {
		buf.acc[i] = make([]uint64, n)
	}
	return buf
}

// externalProduct sets out = c ⊡ ct. out may alias ct.
//
// Every polynomial of ct is decomposed into l balanced digit polynomials;
// the result is sum_{blk,i} digit_{blk,i} * row_{blk*l+i}.
func (buf *externalProductBuffer) externalProduct(params Parameters, c *TRGSWNTT, ct, out *TRLWE) {
	ntt := params.NTT()
	g := params.Gadget()
	for _, a := range buf.acc {
		clear(a)
	}
	for blk, p := range ct.Value {
		g.DecomposePoly(p, buf.digits)
		for i, d := range buf.digits {
			ntt.ForwardInt(d, buf.digitNTT)
			row := c.Value[blk*g.Level+i]
			for j, a := range buf.acc {
				ntt.PolyMulMontAccum(buf.digitNTT, row[j], a)
			}
		}
	}
	for j, a := range buf.acc {
		ntt.InverseTorus(a, out.Value[j])
	}
}

// ExternalProduct returns c ⊡ ct, a TRLWE encryption of m*msg(ct) whose
// noise grows additively.
func ExternalProduct(params Parameters, c *TRGSW, ct *TRLWE) (*TRLWE, error) {
	if err := checkTRGSW(params, c); err != nil {
		return nil, fmt.Errorf("external product: %w", err)
	}
	if err := checkTRLWE(params, ct); err != nil {
		return nil, fmt.Errorf("external product: %w", err)
	}
	out := NewTRLWE(params)
	newExternalProductBuffer(params).externalProduct(params, c.NTT(params), ct, out)
	return out, nil
}

// CMUX returns an encryption of then if sel encrypts 1 and of els if sel
// encrypts 0, computed as sel ⊡ (then - els) + els.
func CMUX(params Parameters, sel *TRGSW, then, els *TRLWE) (*TRLWE, error) {
	if err := checkTRGSW(params, sel); err != nil {
		return nil, fmt.Errorf("cmux: %w", err)
	}
	for _, ct := range []*TRLWE{then, els} {
		if err := checkTRLWE(params, ct); err != nil {
			return nil, fmt.Errorf("cmux: %w", err)
		}
	}
	out := NewTRLWE(params)
	cmux(params, newExternalProductBuffer(params), sel.NTT(params), then, els, out)
	return out, nil
}

// cmux sets out = sel ⊡ (then - els) + els. out must not alias els.
func cmux(params Parameters, buf *externalProductBuffer, sel *TRGSWNTT, then, els, out *TRLWE) {
	out.Sub(then, els)
	buf.externalProduct(params, sel, out, out)
	out.Add(out, els)
}

// checkTRGSW returns an error if c does not have (k+1)*l well-formed rows.
func checkTRGSW(params Parameters, c *TRGSW) error {
	if c == nil {
		return fmt.Errorf("%w: nil TRGSW ciphertext", ErrDimensionMismatch)
	}
	rows := (params.GLWERank() + 1) * params.Gadget().Level
	if len(c.Value) != rows {
		return fmt.Errorf("%w: TRGSW with %d rows, want %d", ErrDimensionMismatch, len(c.Value), rows)
	}
	for _, row := range c.Value {
		if err := checkTRLWE(params, row); err != nil {
			return err
		}
	}
	return nil
}
