//
// Copyright (c) 2026 Markku Rossi
//
// All rights reserved.
//

package fabric

import (
	"fmt"

	"github.com/markkurossi/mpcfabric/algebra"
	"github.com/markkurossi/mpcfabric/beaver"
	"github.com/markkurossi/mpcfabric/network"
)

// Gate is the recipe for producing one OpResult (spec.md §3). It is
// a small tagged-variant interface rather than a type hierarchy:
// polymorphism over scalar vs point values lives in ResultValue, not
// here (spec.md §9).
type Gate interface {
	// inputs lists the OpIDs this gate depends on, in the order its
	// execute method expects them.
	inputs() []OpID

	// execute runs the gate's pure combinator over its resolved
	// inputs. Local arithmetic never errors (spec.md §7); a gate
	// returns an error only for malformed inputs (ErrProtocol on a
	// payload kind or vector length mismatch).
	execute(in []ResultValue) (ResultValue, error)
}

// LiteralGate completes immediately with a fixed value.
type LiteralGate struct {
	Value ResultValue
}

func (g *LiteralGate) inputs() []OpID { return nil }
func (g *LiteralGate) execute([]ResultValue) (ResultValue, error) {
	return g.Value, nil
}

// Combinator is a pure, deterministic function over a gate's
// resolved inputs.
type Combinator func(in []ResultValue) (ResultValue, error)

// LocalGate runs a pure combinator once all of its inputs are
// available. It never touches the network.
type LocalGate struct {
	Inputs_ []OpID
	Fn      Combinator
}

func (g *LocalGate) inputs() []OpID { return g.Inputs_ }
func (g *LocalGate) execute(in []ResultValue) (ResultValue, error) {
	return g.Fn(in)
}

// NetworkSendGate forwards its single input's payload to the
// outbound queue and simultaneously completes locally with that same
// payload (spec.md §4.1).
type NetworkSendGate struct {
	Input OpID
	Peer  network.PartyID

	fabric *Fabric
	opID   OpID
}

func (g *NetworkSendGate) inputs() []OpID { return []OpID{g.Input} }
func (g *NetworkSendGate) execute(in []ResultValue) (ResultValue, error) {
	value := in[0]
	g.fabric.enqueueOutbound(network.NetworkOutbound{
		OpID:    uint64(g.opID),
		Payload: payloadFromResult(value),
	})
	return value, nil
}

// NetworkReceiveGate has no inputs; it is never pushed onto the
// ready queue by the executor. It completes only when the sender
// task delivers a matching inbound OpResult, matched by OpID
// (spec.md §4.1).
type NetworkReceiveGate struct{}

func (g *NetworkReceiveGate) inputs() []OpID { return nil }
func (g *NetworkReceiveGate) execute([]ResultValue) (ResultValue, error) {
	panic("fabric: NetworkReceiveGate.execute must never be called directly")
}

// BeaverCombineGate is the final local-combine step of a Beaver
// multiplication (spec.md §3's BeaverMul variant): given the two
// opened differences d = x - a and e = y - b, it computes the share
// of x*y as d*e*[1_i] + d*[b] + e*[a] + [c], where [1_i] is 1 for
// party 0 and 0 for party 1. The multiplication's two open
// sub-computations (NetworkSend/NetworkReceive pairs feeding Local
// sum gates) are allocated by the caller — see mpcval.Mul — matching
// spec.md §4.1's description of BeaverMul as orchestrating "two
// open-gates, and a final local combine".
type BeaverCombineGate struct {
	DOpenID OpID
	EOpenID OpID
	Triple  beaver.Triplet
	IsParty0 bool
}

func (g *BeaverCombineGate) inputs() []OpID { return []OpID{g.DOpenID, g.EOpenID} }
func (g *BeaverCombineGate) execute(in []ResultValue) (ResultValue, error) {
	if len(in) != 2 || in[0].Kind != KindScalars || in[1].Kind != KindScalars {
		return ResultValue{}, fmt.Errorf("%w: BeaverCombineGate expects two scalar opens", ErrProtocol)
	}
	d := in[0].Scalars
	e := in[1].Scalars
	if len(d) != len(e) {
		return ResultValue{}, fmt.Errorf("%w: batched beaver multiplication size mismatch", ErrProtocol)
	}

	out := make([]algebra.Scalar, len(d))
	for i := range d {
		term := g.Triple.C.Add(d[i].Mul(g.Triple.B)).Add(e[i].Mul(g.Triple.A))
		if g.IsParty0 {
			term = term.Add(d[i].Mul(e[i]))
		}
		out[i] = term
	}
	return ResultValue{Kind: KindScalars, Scalars: out}, nil
}

// ScalarPointCombineGate is BeaverCombineGate's scalar-times-point
// analog (spec.md §4.3's "Group-point analogs... scalar × point
// multiplication replacing field multiplication"): given d = open(x -
// a) (scalar) and e = open(y - B) (point) drawn against a
// beaver.ScalarPointTriplet, computes the share of x·y as
// d·e·[1_i] + d·B_i + e·a_i + C_i.
type ScalarPointCombineGate struct {
	DOpenID  OpID
	EOpenID  OpID
	Triple   beaver.ScalarPointTriplet
	IsParty0 bool
}

func (g *ScalarPointCombineGate) inputs() []OpID { return []OpID{g.DOpenID, g.EOpenID} }
func (g *ScalarPointCombineGate) execute(in []ResultValue) (ResultValue, error) {
	if len(in) != 2 || in[0].Kind != KindScalars || in[1].Kind != KindPoints {
		return ResultValue{}, fmt.Errorf("%w: ScalarPointCombineGate expects a scalar open and a point open", ErrProtocol)
	}
	d := in[0].Scalars
	e := in[1].Points
	if len(d) != len(e) {
		return ResultValue{}, fmt.Errorf("%w: batched scalar-point beaver multiplication size mismatch", ErrProtocol)
	}

	out := make([]algebra.Point, len(d))
	for i := range d {
		term := g.Triple.C.Add(g.Triple.B.Mul(d[i])).Add(e[i].Mul(g.Triple.A))
		if g.IsParty0 {
			term = term.Add(e[i].Mul(d[i]))
		}
		out[i] = term
	}
	return ResultValue{Kind: KindPoints, Points: out}, nil
}

func payloadFromResult(v ResultValue) network.NetworkPayload {
	switch v.Kind {
	case KindScalars:
		return network.ScalarsPayload(v.Scalars...)
	case KindPoints:
		return network.PointsPayload(v.Points...)
	case KindBytes:
		return network.NetworkPayload{Kind: network.KindBytes, Bytes: v.Bytes}
	default:
		panic("fabric: unknown ResultValue kind")
	}
}

func resultFromPayload(p network.NetworkPayload) ResultValue {
	switch p.Kind {
	case network.KindScalars:
		return ResultValue{Kind: KindScalars, Scalars: p.Scalars}
	case network.KindPoints:
		return ResultValue{Kind: KindPoints, Points: p.Points}
	case network.KindBytes:
		return ResultValue{Kind: KindBytes, Bytes: p.Bytes}
	default:
		panic("fabric: unsupported payload kind on the wire")
	}
}
