//
// Copyright (c) 2026 Markku Rossi
//
// All rights reserved.
//

// Package algebra implements the black-box field and curve arithmetic
// the compute fabric is built on: scalars and points of the P-256
// group, reduced modulo the group order, with constant-time equality
// and canonical wire encodings.
package algebra

import (
	"crypto/elliptic"
	"crypto/subtle"
	"io"
	"math/big"
)

var (
	curve       = elliptic.P256()
	curveParams = curve.Params()

	// Order is the order of the P-256 base point; all Scalar
	// arithmetic is performed modulo Order.
	Order = curveParams.N
)

// ScalarSize is the canonical little-endian encoding size of a
// Scalar.
const ScalarSize = 32

// Scalar is an element of the P-256 scalar field, always held in
// reduced form (0 <= v < Order).
type Scalar struct {
	v *big.Int
}

// ZeroScalar returns the additive identity.
func ZeroScalar() Scalar {
	return Scalar{v: new(big.Int)}
}

// OneScalar returns the multiplicative identity.
func OneScalar() Scalar {
	return Scalar{v: big.NewInt(1)}
}

// NewScalar reduces v modulo Order and returns the resulting Scalar.
func NewScalar(v *big.Int) Scalar {
	return Scalar{v: reduce(v)}
}

// ScalarFromUint64 constructs a Scalar from a small unsigned
// integer.
func ScalarFromUint64(v uint64) Scalar {
	return Scalar{v: new(big.Int).SetUint64(v)}
}

// ScalarFromBytes decodes a canonical little-endian encoding
// produced by Bytes.
func ScalarFromBytes(b []byte) Scalar {
	be := reverseCopy(b)
	return NewScalar(new(big.Int).SetBytes(be))
}

// RandomScalar draws a uniformly random Scalar from r.
func RandomScalar(r io.Reader) (Scalar, error) {
	b := make([]byte, ScalarSize)
	if _, err := io.ReadFull(r, b); err != nil {
		return Scalar{}, err
	}
	return NewScalar(new(big.Int).SetBytes(b)), nil
}

func reduce(v *big.Int) *big.Int {
	z := new(big.Int).Mod(v, Order)
	if z.Sign() < 0 {
		z.Add(z, Order)
	}
	return z
}

func reverseCopy(b []byte) []byte {
	out := make([]byte, len(b))
	for i, c := range b {
		out[len(b)-1-i] = c
	}
	return out
}

// Add returns a + b mod Order.
func (a Scalar) Add(b Scalar) Scalar {
	return NewScalar(new(big.Int).Add(a.v, b.v))
}

// Sub returns a - b mod Order.
func (a Scalar) Sub(b Scalar) Scalar {
	return NewScalar(new(big.Int).Sub(a.v, b.v))
}

// Neg returns -a mod Order.
func (a Scalar) Neg() Scalar {
	return NewScalar(new(big.Int).Neg(a.v))
}

// Mul returns a * b mod Order.
func (a Scalar) Mul(b Scalar) Scalar {
	return NewScalar(new(big.Int).Mul(a.v, b.v))
}

// Inverse returns the multiplicative inverse of a modulo Order. a
// must be non-zero.
func (a Scalar) Inverse() Scalar {
	return Scalar{v: new(big.Int).ModInverse(a.v, Order)}
}

// IsZero reports whether a is the additive identity.
func (a Scalar) IsZero() bool {
	return a.v.Sign() == 0
}

// Equal reports whether a and b are the same field element, in
// constant time.
func (a Scalar) Equal(b Scalar) bool {
	return subtle.ConstantTimeCompare(a.Bytes(), b.Bytes()) == 1
}

// Bytes returns the canonical little-endian, fixed-width encoding of
// a, per spec.md's wire format ("Endianness is little-endian for
// scalars").
func (a Scalar) Bytes() []byte {
	be := make([]byte, ScalarSize)
	src := a.v.Bytes()
	copy(be[ScalarSize-len(src):], src)
	return reverseCopy(be)
}

// BigInt returns a copy of the scalar's big.Int representation, for
// callers (e.g. the algebra-aware network codec) that need direct
// access to the reduced value.
func (a Scalar) BigInt() *big.Int {
	return new(big.Int).Set(a.v)
}

// String implements fmt.Stringer for debugging output.
func (a Scalar) String() string {
	return a.v.Text(16)
}
