//
// Copyright (c) 2026 Markku Rossi
//
// All rights reserved.
//

// Package beaver defines the fabric's pluggable source of correlated
// randomness (spec.md §6): Beaver triples, shared random bits,
// inverse pairs, and shared random values, each handed out as
// additive algebra.Scalar shares.
package beaver

import (
	"errors"

	"github.com/markkurossi/mpcfabric/algebra"
)

// ErrExhausted is returned when the underlying correlated-randomness
// source cannot produce any more values (spec.md's BeaverExhausted).
var ErrExhausted = errors.New("beaver: randomness source exhausted")

// Triplet is an additive share of (a, b, c) with c = a*b.
type Triplet struct {
	A algebra.Scalar
	B algebra.Scalar
	C algebra.Scalar
}

// ScalarPointTriplet is an additive share of (a, B, C) with a a
// scalar, B and C points, and C = a·B — the scalar-times-point analog
// of Triplet (spec.md §4.3's "Group-point analogs... scalar × point
// multiplication replacing field multiplication"), used by the
// authenticated value layer to Beaver-multiply a shared MAC key
// against a shared point.
type ScalarPointTriplet struct {
	A algebra.Scalar
	B algebra.Point
	C algebra.Point
}

// Source is the contract a party's Beaver oracle satisfies. It is
// drawn serially, by the fabric, during gate construction — never
// from inside a gate's execution (spec.md §5).
type Source interface {
	// NextTriplet returns one share of a fresh Beaver triple.
	NextTriplet() (Triplet, error)

	// NextScalarPointTriplet returns one share of a fresh
	// scalar-point triple.
	NextScalarPointTriplet() (ScalarPointTriplet, error)

	// NextSharedBit returns a share of a uniform bit in {0, 1}.
	NextSharedBit() (algebra.Scalar, error)

	// NextSharedInversePair returns shares of (r, r^-1) for a
	// uniform, non-zero r.
	NextSharedInversePair() (algebra.Scalar, algebra.Scalar, error)

	// NextSharedValue returns a share of a uniform field element.
	NextSharedValue() (algebra.Scalar, error)
}

// DeriveScalarPointTriplet projects a scalar Triplet's B and C shares
// onto the curve via the base point: since B_i = b_i·G and C_i =
// c_i·G sum to (Σb_i)·G = b·G and (Σc_i)·G = (a·b)·G respectively,
// (A, B_i·G, C_i·G) is a valid scalar-point triple whenever (A, B, C)
// is a valid scalar triple — no extra correlated-randomness round is
// needed, so every Source derives its ScalarPointTriplet from its own
// NextTriplet this way.
func DeriveScalarPointTriplet(t Triplet) ScalarPointTriplet {
	return ScalarPointTriplet{
		A: t.A,
		B: algebra.ScalarBaseMultPoint(t.B),
		C: algebra.ScalarBaseMultPoint(t.C),
	}
}
