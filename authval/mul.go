//
// Copyright (c) 2026 Markku Rossi
//
// All rights reserved.
//

package authval

import (
	"fmt"

	"github.com/markkurossi/mpcfabric/algebra"
	"github.com/markkurossi/mpcfabric/beaver"
	"github.com/markkurossi/mpcfabric/fabric"
	"github.com/markkurossi/mpcfabric/mpcval"
	"github.com/markkurossi/mpcfabric/network"
)

// Mul computes a*b via Beaver multiplication on the value shares, then
// derives the product's MAC share exactly as ShareScalars does for any
// freshly shared value: a second Beaver multiplication of the product
// against δ (spec.md §4.4). A local product of shares (key_share_i ·
// triple-share_i) does not sum to δ·(a*b) for the same reason it
// doesn't for a freshly split secret — δ is itself only additively
// shared, not public — so it gets no shortcut here either.
func (a AuthenticatedScalar) Mul(b AuthenticatedScalar) (AuthenticatedScalar, error) {
	f := a.f

	prod, _, _, _, err := beaverMul(f, a.value, b.value, 1)
	if err != nil {
		return AuthenticatedScalar{}, err
	}

	mac, err := macOf(f, a.keyShare, prod, 1)
	if err != nil {
		return AuthenticatedScalar{}, err
	}

	return AuthenticatedScalar{
		f:          f,
		value:      prod,
		macShare:   mac,
		keyShare:   a.keyShare,
		visibility: mpcval.Shared,
	}, nil
}

// macOf derives the MAC share of an n-element shared value v under
// the party's keyShare, by wrapping keyShare as a Shared handle and
// Beaver-multiplying it against v (see ShareScalars and Mul).
func macOf(f *fabric.Fabric, keyShare algebra.Scalar, v mpcval.MpcScalar, n int) (mpcval.MpcScalar, error) {
	deltaID, err := f.Allocate(&fabric.LiteralGate{Value: fabric.Scalars(repeatScalar(keyShare, n)...)})
	if err != nil {
		return mpcval.MpcScalar{}, err
	}
	delta := mpcval.WrapScalar(f, deltaID, mpcval.Shared)

	mac, _, _, _, err := beaverMul(f, delta, v, n)
	return mac, err
}

// beaverMul is mpcval.MpcScalar.Mul's decomposition, generalized to
// n-element vectors and exported to this package so macOf can reuse
// it to Beaver-multiply a value against a wrapped δ handle.
func beaverMul(f *fabric.Fabric, x, y mpcval.MpcScalar, n int) (prod, dOpen, eOpen mpcval.MpcScalar, triple beaver.Triplet, err error) {
	triple, err = f.Beaver().NextTriplet()
	if err != nil {
		return mpcval.MpcScalar{}, mpcval.MpcScalar{}, mpcval.MpcScalar{}, beaver.Triplet{}, fmt.Errorf("authval: drawing beaver triple: %w", err)
	}

	aPub, err := mpcval.PublicScalar(f, repeatScalar(triple.A, n)...)
	if err != nil {
		return mpcval.MpcScalar{}, mpcval.MpcScalar{}, mpcval.MpcScalar{}, beaver.Triplet{}, err
	}
	bPub, err := mpcval.PublicScalar(f, repeatScalar(triple.B, n)...)
	if err != nil {
		return mpcval.MpcScalar{}, mpcval.MpcScalar{}, mpcval.MpcScalar{}, beaver.Triplet{}, err
	}

	dShare, err := x.Sub(aPub)
	if err != nil {
		return mpcval.MpcScalar{}, mpcval.MpcScalar{}, mpcval.MpcScalar{}, beaver.Triplet{}, err
	}
	eShare, err := y.Sub(bPub)
	if err != nil {
		return mpcval.MpcScalar{}, mpcval.MpcScalar{}, mpcval.MpcScalar{}, beaver.Triplet{}, err
	}

	dOpen, err = dShare.Open()
	if err != nil {
		return mpcval.MpcScalar{}, mpcval.MpcScalar{}, mpcval.MpcScalar{}, beaver.Triplet{}, err
	}
	eOpen, err = eShare.Open()
	if err != nil {
		return mpcval.MpcScalar{}, mpcval.MpcScalar{}, mpcval.MpcScalar{}, beaver.Triplet{}, err
	}

	valueID, err := f.Allocate(&fabric.BeaverCombineGate{
		DOpenID:  dOpen.OpID(),
		EOpenID:  eOpen.OpID(),
		Triple:   triple,
		IsParty0: f.PartyID() == network.PARTY0,
	})
	if err != nil {
		return mpcval.MpcScalar{}, mpcval.MpcScalar{}, mpcval.MpcScalar{}, beaver.Triplet{}, err
	}
	return mpcval.WrapScalar(f, valueID, mpcval.Shared), dOpen, eOpen, triple, nil
}

// repeatScalar broadcasts a single public scalar across an n-element
// vector, for multiplying a length-1 public value (a drawn triple's
// component) against an n-element shared vector.
func repeatScalar(s algebra.Scalar, n int) []algebra.Scalar {
	out := make([]algebra.Scalar, n)
	for i := range out {
		out[i] = s
	}
	return out
}

// macOfPoint is macOf's point analog: the MAC share of an n-element
// shared point v, derived by wrapping keyShare as a Shared scalar
// handle and Beaver-multiplying it against v with a scalar-point
// triple (see SharePoints).
func macOfPoint(f *fabric.Fabric, keyShare algebra.Scalar, v mpcval.MpcPoint, n int) (mpcval.MpcPoint, error) {
	deltaID, err := f.Allocate(&fabric.LiteralGate{Value: fabric.Scalars(repeatScalar(keyShare, n)...)})
	if err != nil {
		return mpcval.MpcPoint{}, err
	}
	delta := mpcval.WrapScalar(f, deltaID, mpcval.Shared)

	return beaverMulScalarPoint(f, delta, v, n)
}

// beaverMulScalarPoint Beaver-multiplies a shared scalar x against a
// shared point y using a beaver.ScalarPointTriplet (a, B, C = a·B):
// d = open(x - a) (scalar), e = open(y - B) (point), and the share of
// x·y is d·e·[1_i] + d·B_i + e·a_i + C_i — mpcval's scalar Mul
// decomposition with the second operand and the combine gate's output
// promoted from field elements to group elements.
func beaverMulScalarPoint(f *fabric.Fabric, x mpcval.MpcScalar, y mpcval.MpcPoint, n int) (mpcval.MpcPoint, error) {
	triple, err := f.Beaver().NextScalarPointTriplet()
	if err != nil {
		return mpcval.MpcPoint{}, fmt.Errorf("authval: drawing scalar-point beaver triple: %w", err)
	}

	aPub, err := mpcval.PublicScalar(f, repeatScalar(triple.A, n)...)
	if err != nil {
		return mpcval.MpcPoint{}, err
	}
	bPub, err := mpcval.PublicPoint(f, repeatPoint(triple.B, n)...)
	if err != nil {
		return mpcval.MpcPoint{}, err
	}

	dShare, err := x.Sub(aPub)
	if err != nil {
		return mpcval.MpcPoint{}, err
	}
	eShare, err := y.Sub(bPub)
	if err != nil {
		return mpcval.MpcPoint{}, err
	}

	dOpen, err := dShare.Open()
	if err != nil {
		return mpcval.MpcPoint{}, err
	}
	eOpen, err := eShare.Open()
	if err != nil {
		return mpcval.MpcPoint{}, err
	}

	valueID, err := f.Allocate(&fabric.ScalarPointCombineGate{
		DOpenID:  dOpen.OpID(),
		EOpenID:  eOpen.OpID(),
		Triple:   triple,
		IsParty0: f.PartyID() == network.PARTY0,
	})
	if err != nil {
		return mpcval.MpcPoint{}, err
	}
	return mpcval.WrapPoint(f, valueID, mpcval.Shared), nil
}

// repeatPoint is repeatScalar's point analog.
func repeatPoint(p algebra.Point, n int) []algebra.Point {
	out := make([]algebra.Point, n)
	for i := range out {
		out[i] = p
	}
	return out
}
