//
// Copyright (c) 2026 Markku Rossi
//
// All rights reserved.
//

package mpcval

import (
	"fmt"

	"github.com/markkurossi/mpcfabric/algebra"
	"github.com/markkurossi/mpcfabric/fabric"
	"github.com/markkurossi/mpcfabric/network"
)

// Mul computes m*other via Beaver multiplication (spec.md §4.1's
// BeaverMul variant, §4.3's mul): draw a triple (a, b, c=a*b), locally
// diff x-a and y-b, open both differences, then locally combine
// d*e*[1_i] + d*[b] + e*[a] + [c]. Mul itself allocates the identical
// sequence of gates on both parties, so its own OpID counter stays in
// lockstep with no special-casing; each Open call internally mirrors
// its own send/receive ordinals by party (see MpcScalar.Open).
//
// Mul operates on single-element handles; a caller multiplying a
// batch draws one triple and one BeaverCombineGate per element.
func (m MpcScalar) Mul(other MpcScalar) (MpcScalar, error) {
	f := m.f

	triple, err := f.Beaver().NextTriplet()
	if err != nil {
		return MpcScalar{}, fmt.Errorf("mpcval: drawing beaver triple: %w", err)
	}

	aLit, err := f.Allocate(&fabric.LiteralGate{Value: fabric.Scalars(triple.A)})
	if err != nil {
		return MpcScalar{}, err
	}
	bLit, err := f.Allocate(&fabric.LiteralGate{Value: fabric.Scalars(triple.B)})
	if err != nil {
		return MpcScalar{}, err
	}

	dShare, err := m.sub(aLit)
	if err != nil {
		return MpcScalar{}, err
	}
	eShare, err := other.sub(bLit)
	if err != nil {
		return MpcScalar{}, err
	}

	dOpen, err := dShare.Open()
	if err != nil {
		return MpcScalar{}, err
	}
	eOpen, err := eShare.Open()
	if err != nil {
		return MpcScalar{}, err
	}

	combID, err := f.Allocate(&fabric.BeaverCombineGate{
		DOpenID:  dOpen.opID,
		EOpenID:  eOpen.opID,
		Triple:   triple,
		IsParty0: f.PartyID() == network.PARTY0,
	})
	if err != nil {
		return MpcScalar{}, err
	}
	return MpcScalar{f: f, opID: combID, visibility: Shared}, nil
}

// sub computes m - (the literal at id), reusing the linear combinator
// without requiring a second MpcScalar wrapper for the diff Beaver
// uses internally.
func (m MpcScalar) sub(litID fabric.OpID) (MpcScalar, error) {
	return m.linear(MpcScalar{f: m.f, opID: litID}, algebra.OneScalar(), algebra.OneScalar().Neg(), algebra.ZeroScalar())
}
