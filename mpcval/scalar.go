//
// Copyright (c) 2026 Markku Rossi
//
// All rights reserved.
//

// Package mpcval implements the MPC value layer (spec.md §4.3): plain
// secret-shared scalars and points, with share/open/arithmetic and
// Beaver-triple multiplication. Handles are {fabric, OpID} pairs —
// "handles as indices, not pointers" (spec.md §9) — so cloning one is
// a cheap struct copy that shares the underlying graph node.
package mpcval

import (
	"crypto/rand"

	"github.com/markkurossi/mpcfabric/algebra"
	"github.com/markkurossi/mpcfabric/fabric"
	"github.com/markkurossi/mpcfabric/network"
)

// Visibility mirrors spec.md §3's three value visibilities.
type Visibility int

// The three visibilities a value can carry.
const (
	Public Visibility = iota
	Shared
	Private
)

// MpcScalar is a handle to a (possibly vector-valued) secret-shared
// or public scalar living in a Fabric's result graph. It owns no
// payload directly — the payload lives in the fabric's result table,
// keyed by OpID.
type MpcScalar struct {
	f          *fabric.Fabric
	opID       fabric.OpID
	visibility Visibility
}

// OpID returns the handle's graph node id, the key by which other
// gates may depend on this value.
func (m MpcScalar) OpID() fabric.OpID { return m.opID }

// Visibility reports whether m is Public, Shared, or Private.
func (m MpcScalar) Visibility() Visibility { return m.visibility }

// WrapScalar constructs an MpcScalar handle directly from a graph
// node id already allocated by a higher layer (authval's Beaver
// multiplication uses this to wrap the BeaverCombineGate results it
// allocates itself, and to wrap its key-share literal as a Shared
// handle, without mpcval exposing its internals).
func WrapScalar(f *fabric.Fabric, id fabric.OpID, visibility Visibility) MpcScalar {
	return MpcScalar{f: f, opID: id, visibility: visibility}
}

// PublicScalar wraps a value both parties already hold identically
// (spec.md §3's Public visibility) as a handle, with no network
// interaction.
func PublicScalar(f *fabric.Fabric, values ...algebra.Scalar) (MpcScalar, error) {
	id, err := f.Allocate(&fabric.LiteralGate{Value: fabric.Scalars(values...)})
	if err != nil {
		return MpcScalar{}, err
	}
	return MpcScalar{f: f, opID: id, visibility: Public}, nil
}

// ShareScalar shares a single value (spec.md §4.3's share). The
// caller identified by sender supplies value; the other party's
// value argument is ignored but must still be supplied (zero is
// conventional) so both parties allocate the same number of graph
// nodes — the fabric's OpID counters must stay in lockstep across
// paired network operations (spec.md §9's Open Question).
func ShareScalar(f *fabric.Fabric, value algebra.Scalar, sender network.PartyID) (MpcScalar, error) {
	return ShareScalars(f, []algebra.Scalar{value}, sender)
}

// ShareScalars is ShareScalar's batched form: it shares an entire
// vector through a single pair of graph nodes, avoiding per-element
// allocation (spec.md §4.3's "Batched variants").
func ShareScalars(f *fabric.Fabric, values []algebra.Scalar, sender network.PartyID) (MpcScalar, error) {
	isSender := f.PartyID() == sender

	var toSend []algebra.Scalar
	var mask []algebra.Scalar
	if isSender {
		mask = make([]algebra.Scalar, len(values))
		toSend = make([]algebra.Scalar, len(values))
		for i, v := range values {
			r, err := algebra.RandomScalar(rand.Reader)
			if err != nil {
				return MpcScalar{}, err
			}
			mask[i] = r
			toSend[i] = v.Sub(r)
		}
	} else {
		mask = make([]algebra.Scalar, len(values))
		toSend = make([]algebra.Scalar, len(values))
	}

	// Node 1: the sender's own share (mask); the receiver allocates
	// an equivalent placeholder node purely to keep its OpID counter
	// aligned with the sender's.
	shareID, err := f.Allocate(&fabric.LiteralGate{Value: fabric.Scalars(mask...)})
	if err != nil {
		return MpcScalar{}, err
	}

	if isSender {
		// Node 2: the masked value to transmit.
		maskedID, err := f.Allocate(&fabric.LiteralGate{Value: fabric.Scalars(toSend...)})
		if err != nil {
			return MpcScalar{}, err
		}
		// Node 3: forward it to the peer.
		if _, err := f.Allocate(&fabric.NetworkSendGate{Input: maskedID, Peer: sender.Other()}); err != nil {
			return MpcScalar{}, err
		}
		return MpcScalar{f: f, opID: shareID, visibility: Shared}, nil
	}

	// Receiver: node 2 is a discarded placeholder, node 3 is the
	// real NetworkReceive whose delivered payload is this party's
	// share.
	if _, err := f.Allocate(&fabric.LiteralGate{Value: fabric.Scalars(toSend...)}); err != nil {
		return MpcScalar{}, err
	}
	recvID, err := f.Allocate(&fabric.NetworkReceiveGate{})
	if err != nil {
		return MpcScalar{}, err
	}
	return MpcScalar{f: f, opID: recvID, visibility: Shared}, nil
}

// Open reveals m by exchanging shares (spec.md §4.3's open): both
// parties send their own share and receive the peer's, then locally
// sum the two to the cleartext. A NetworkSendGate stamps its *own*
// node id on the wire, and the peer completes the matching local node
// by that same id (fabric.Fabric.Complete) — so the two sides must
// allocate their send and receive at mirrored ordinals, one send-then-
// receive and the other receive-then-send, exactly as ShareScalars
// mirrors sender and receiver. Allocating both sides in the same
// send-then-receive order (the obvious-looking symmetric reading of
// "both parties send and receive") makes each side's send collide
// with the peer's own already-completed send node and leaves both
// receive nodes unfulfilled forever.
func (m MpcScalar) Open() (MpcScalar, error) {
	isParty0 := m.f.PartyID() == network.PARTY0
	peer := m.f.PartyID().Other()

	var recvID fabric.OpID
	var err error
	if isParty0 {
		if _, err = m.f.Allocate(&fabric.NetworkSendGate{Input: m.opID, Peer: peer}); err != nil {
			return MpcScalar{}, err
		}
		recvID, err = m.f.Allocate(&fabric.NetworkReceiveGate{})
		if err != nil {
			return MpcScalar{}, err
		}
	} else {
		recvID, err = m.f.Allocate(&fabric.NetworkReceiveGate{})
		if err != nil {
			return MpcScalar{}, err
		}
		if _, err = m.f.Allocate(&fabric.NetworkSendGate{Input: m.opID, Peer: peer}); err != nil {
			return MpcScalar{}, err
		}
	}

	sumID, err := m.f.Allocate(&fabric.LocalGate{
		Inputs_: []fabric.OpID{m.opID, recvID},
		Fn: func(in []fabric.ResultValue) (fabric.ResultValue, error) {
			return addScalarVectors(in[0], in[1])
		},
	})
	if err != nil {
		return MpcScalar{}, err
	}
	return MpcScalar{f: m.f, opID: sumID, visibility: Public}, nil
}

// Await blocks until m's result is available and returns its scalar
// vector.
func (m MpcScalar) Await() ([]algebra.Scalar, error) {
	v, err := m.f.Await(m.opID)
	if err != nil {
		return nil, err
	}
	return v.Scalars, nil
}

// Add returns m + other, componentwise on shares.
func (m MpcScalar) Add(other MpcScalar) (MpcScalar, error) {
	return m.linear(other, algebra.OneScalar(), algebra.OneScalar(), algebra.ZeroScalar())
}

// Sub returns m - other, componentwise on shares.
func (m MpcScalar) Sub(other MpcScalar) (MpcScalar, error) {
	return m.linear(other, algebra.OneScalar(), algebra.OneScalar().Neg(), algebra.ZeroScalar())
}

// Neg returns -m.
func (m MpcScalar) Neg() (MpcScalar, error) {
	id, err := m.f.Allocate(&fabric.LocalGate{
		Inputs_: []fabric.OpID{m.opID},
		Fn: func(in []fabric.ResultValue) (fabric.ResultValue, error) {
			out := make([]algebra.Scalar, len(in[0].Scalars))
			for i, s := range in[0].Scalars {
				out[i] = s.Neg()
			}
			return fabric.ResultValue{Kind: fabric.KindScalars, Scalars: out}, nil
		},
	})
	if err != nil {
		return MpcScalar{}, err
	}
	return MpcScalar{f: m.f, opID: id, visibility: m.visibility}, nil
}

// AddPublicConstant returns m + c, adding c into party 0's share
// only, per spec.md §4.3 ("if one operand is Public, add to party 0's
// share only").
func (m MpcScalar) AddPublicConstant(c algebra.Scalar) (MpcScalar, error) {
	isParty0 := m.f.PartyID() == network.PARTY0
	id, err := m.f.Allocate(&fabric.LocalGate{
		Inputs_: []fabric.OpID{m.opID},
		Fn: func(in []fabric.ResultValue) (fabric.ResultValue, error) {
			out := make([]algebra.Scalar, len(in[0].Scalars))
			for i, s := range in[0].Scalars {
				if isParty0 {
					out[i] = s.Add(c)
				} else {
					out[i] = s
				}
			}
			return fabric.ResultValue{Kind: fabric.KindScalars, Scalars: out}, nil
		},
	})
	if err != nil {
		return MpcScalar{}, err
	}
	return MpcScalar{f: m.f, opID: id, visibility: m.visibility}, nil
}

// MulPublic scales each share of m by the public constant c
// (spec.md §4.3's mul_public).
func (m MpcScalar) MulPublic(c algebra.Scalar) (MpcScalar, error) {
	id, err := m.f.Allocate(&fabric.LocalGate{
		Inputs_: []fabric.OpID{m.opID},
		Fn: func(in []fabric.ResultValue) (fabric.ResultValue, error) {
			out := make([]algebra.Scalar, len(in[0].Scalars))
			for i, s := range in[0].Scalars {
				out[i] = s.Mul(c)
			}
			return fabric.ResultValue{Kind: fabric.KindScalars, Scalars: out}, nil
		},
	})
	if err != nil {
		return MpcScalar{}, err
	}
	return MpcScalar{f: m.f, opID: id, visibility: m.visibility}, nil
}

// linear computes aCoef*m + bCoef*other + cConst, the shared
// primitive behind Add/Sub.
func (m MpcScalar) linear(other MpcScalar, aCoef, bCoef, cConst algebra.Scalar) (MpcScalar, error) {
	isParty0 := m.f.PartyID() == network.PARTY0
	id, err := m.f.Allocate(&fabric.LocalGate{
		Inputs_: []fabric.OpID{m.opID, other.opID},
		Fn: func(in []fabric.ResultValue) (fabric.ResultValue, error) {
			a := in[0].Scalars
			b := in[1].Scalars
			if len(a) != len(b) {
				return fabric.ResultValue{}, fabric.ErrProtocol
			}
			out := make([]algebra.Scalar, len(a))
			for i := range a {
				out[i] = a[i].Mul(aCoef).Add(b[i].Mul(bCoef))
				if isParty0 && !cConst.IsZero() {
					out[i] = out[i].Add(cConst)
				}
			}
			return fabric.ResultValue{Kind: fabric.KindScalars, Scalars: out}, nil
		},
	})
	if err != nil {
		return MpcScalar{}, err
	}
	return MpcScalar{f: m.f, opID: id, visibility: Shared}, nil
}

func addScalarVectors(a, b fabric.ResultValue) (fabric.ResultValue, error) {
	if len(a.Scalars) != len(b.Scalars) {
		return fabric.ResultValue{}, fabric.ErrProtocol
	}
	out := make([]algebra.Scalar, len(a.Scalars))
	for i := range a.Scalars {
		out[i] = a.Scalars[i].Add(b.Scalars[i])
	}
	return fabric.ResultValue{Kind: fabric.KindScalars, Scalars: out}, nil
}
