//
// Copyright (c) 2026 Markku Rossi
//
// All rights reserved.
//

package mpcval

import (
	"crypto/rand"

	"github.com/markkurossi/mpcfabric/algebra"
	"github.com/markkurossi/mpcfabric/fabric"
	"github.com/markkurossi/mpcfabric/network"
)

// MpcPoint is the group-element analog of MpcScalar. It supports the
// same share/open/add/sub/neg/mul_public surface. It has no Mul: the
// only secret-shared scalar-times-point multiplication in the module
// is authval's beaverMulScalarPoint, which derives MAC shares from a
// beaver.ScalarPointTriplet.
type MpcPoint struct {
	f          *fabric.Fabric
	opID       fabric.OpID
	visibility Visibility
}

// OpID returns the handle's graph node id.
func (m MpcPoint) OpID() fabric.OpID { return m.opID }

// Visibility reports whether m is Public, Shared, or Private.
func (m MpcPoint) Visibility() Visibility { return m.visibility }

// WrapPoint constructs an MpcPoint handle directly from a graph node
// id already allocated by a higher layer, the point analog of
// WrapScalar (authval's scalar-point Beaver multiplication uses this
// to wrap the combine gate's result).
func WrapPoint(f *fabric.Fabric, id fabric.OpID, visibility Visibility) MpcPoint {
	return MpcPoint{f: f, opID: id, visibility: visibility}
}

// PublicPoint wraps a value both parties already hold identically as
// a handle, with no network interaction.
func PublicPoint(f *fabric.Fabric, values ...algebra.Point) (MpcPoint, error) {
	id, err := f.Allocate(&fabric.LiteralGate{Value: fabric.Points(values...)})
	if err != nil {
		return MpcPoint{}, err
	}
	return MpcPoint{f: f, opID: id, visibility: Public}, nil
}

// SharePoint shares a single group element; see ShareScalar for the
// additive-masking protocol and the OpID lockstep rationale.
func SharePoint(f *fabric.Fabric, value algebra.Point, sender network.PartyID) (MpcPoint, error) {
	return SharePoints(f, []algebra.Point{value}, sender)
}

// SharePoints is SharePoint's batched form.
func SharePoints(f *fabric.Fabric, values []algebra.Point, sender network.PartyID) (MpcPoint, error) {
	isSender := f.PartyID() == sender

	mask := make([]algebra.Point, len(values))
	toSend := make([]algebra.Point, len(values))
	if isSender {
		for i, v := range values {
			r, err := algebra.RandomScalar(rand.Reader)
			if err != nil {
				return MpcPoint{}, err
			}
			rp := algebra.ScalarBaseMultPoint(r)
			mask[i] = rp
			toSend[i] = v.Sub(rp)
		}
	}

	shareID, err := f.Allocate(&fabric.LiteralGate{Value: fabric.Points(mask...)})
	if err != nil {
		return MpcPoint{}, err
	}

	if isSender {
		maskedID, err := f.Allocate(&fabric.LiteralGate{Value: fabric.Points(toSend...)})
		if err != nil {
			return MpcPoint{}, err
		}
		if _, err := f.Allocate(&fabric.NetworkSendGate{Input: maskedID, Peer: sender.Other()}); err != nil {
			return MpcPoint{}, err
		}
		return MpcPoint{f: f, opID: shareID, visibility: Shared}, nil
	}

	if _, err := f.Allocate(&fabric.LiteralGate{Value: fabric.Points(toSend...)}); err != nil {
		return MpcPoint{}, err
	}
	recvID, err := f.Allocate(&fabric.NetworkReceiveGate{})
	if err != nil {
		return MpcPoint{}, err
	}
	return MpcPoint{f: f, opID: recvID, visibility: Shared}, nil
}

// Open reveals m by exchanging shares and locally adding them. See
// MpcScalar.Open for why the send and receive must be allocated at
// mirrored ordinals rather than the same order on both sides.
func (m MpcPoint) Open() (MpcPoint, error) {
	isParty0 := m.f.PartyID() == network.PARTY0
	peer := m.f.PartyID().Other()

	var recvID fabric.OpID
	var err error
	if isParty0 {
		if _, err = m.f.Allocate(&fabric.NetworkSendGate{Input: m.opID, Peer: peer}); err != nil {
			return MpcPoint{}, err
		}
		recvID, err = m.f.Allocate(&fabric.NetworkReceiveGate{})
		if err != nil {
			return MpcPoint{}, err
		}
	} else {
		recvID, err = m.f.Allocate(&fabric.NetworkReceiveGate{})
		if err != nil {
			return MpcPoint{}, err
		}
		if _, err = m.f.Allocate(&fabric.NetworkSendGate{Input: m.opID, Peer: peer}); err != nil {
			return MpcPoint{}, err
		}
	}

	sumID, err := m.f.Allocate(&fabric.LocalGate{
		Inputs_: []fabric.OpID{m.opID, recvID},
		Fn: func(in []fabric.ResultValue) (fabric.ResultValue, error) {
			return addPointVectors(in[0], in[1])
		},
	})
	if err != nil {
		return MpcPoint{}, err
	}
	return MpcPoint{f: m.f, opID: sumID, visibility: Public}, nil
}

// Await blocks until m's result is available.
func (m MpcPoint) Await() ([]algebra.Point, error) {
	v, err := m.f.Await(m.opID)
	if err != nil {
		return nil, err
	}
	return v.Points, nil
}

// Add returns m + other, componentwise on shares.
func (m MpcPoint) Add(other MpcPoint) (MpcPoint, error) {
	return m.combine(other, false)
}

// Sub returns m - other, componentwise on shares.
func (m MpcPoint) Sub(other MpcPoint) (MpcPoint, error) {
	return m.combine(other, true)
}

// Neg returns -m.
func (m MpcPoint) Neg() (MpcPoint, error) {
	id, err := m.f.Allocate(&fabric.LocalGate{
		Inputs_: []fabric.OpID{m.opID},
		Fn: func(in []fabric.ResultValue) (fabric.ResultValue, error) {
			out := make([]algebra.Point, len(in[0].Points))
			for i, p := range in[0].Points {
				out[i] = p.Neg()
			}
			return fabric.ResultValue{Kind: fabric.KindPoints, Points: out}, nil
		},
	})
	if err != nil {
		return MpcPoint{}, err
	}
	return MpcPoint{f: m.f, opID: id, visibility: m.visibility}, nil
}

// MulPublic scales each share of m by the public scalar constant c
// (spec.md §8 scenario 6's "3 · [G]").
func (m MpcPoint) MulPublic(c algebra.Scalar) (MpcPoint, error) {
	id, err := m.f.Allocate(&fabric.LocalGate{
		Inputs_: []fabric.OpID{m.opID},
		Fn: func(in []fabric.ResultValue) (fabric.ResultValue, error) {
			out := make([]algebra.Point, len(in[0].Points))
			for i, p := range in[0].Points {
				out[i] = p.Mul(c)
			}
			return fabric.ResultValue{Kind: fabric.KindPoints, Points: out}, nil
		},
	})
	if err != nil {
		return MpcPoint{}, err
	}
	return MpcPoint{f: m.f, opID: id, visibility: m.visibility}, nil
}

func (m MpcPoint) combine(other MpcPoint, negateOther bool) (MpcPoint, error) {
	id, err := m.f.Allocate(&fabric.LocalGate{
		Inputs_: []fabric.OpID{m.opID, other.opID},
		Fn: func(in []fabric.ResultValue) (fabric.ResultValue, error) {
			a := in[0].Points
			b := in[1].Points
			if len(a) != len(b) {
				return fabric.ResultValue{}, fabric.ErrProtocol
			}
			out := make([]algebra.Point, len(a))
			for i := range a {
				if negateOther {
					out[i] = a[i].Sub(b[i])
				} else {
					out[i] = a[i].Add(b[i])
				}
			}
			return fabric.ResultValue{Kind: fabric.KindPoints, Points: out}, nil
		},
	})
	if err != nil {
		return MpcPoint{}, err
	}
	return MpcPoint{f: m.f, opID: id, visibility: Shared}, nil
}

func addPointVectors(a, b fabric.ResultValue) (fabric.ResultValue, error) {
	if len(a.Points) != len(b.Points) {
		return fabric.ResultValue{}, fabric.ErrProtocol
	}
	out := make([]algebra.Point, len(a.Points))
	for i := range a.Points {
		out[i] = a.Points[i].Add(b.Points[i])
	}
	return fabric.ResultValue{Kind: fabric.KindPoints, Points: out}, nil
}
