//
// Copyright (c) 2026 Markku Rossi
//
// All rights reserved.
//

// Package fabric implements the compute fabric's deferred-execution
// dataflow engine: the result graph and its cooperative executor,
// the network sender task, and a thin façade (Fabric) exposed to
// callers. Every value flowing through the graph is a ResultValue,
// so scalar and batched operations share one representation
// (spec.md §3).
package fabric

import "github.com/markkurossi/mpcfabric/algebra"

// OpID is a process-unique, monotonically increasing operation
// identifier, assigned at graph-insertion time. It determines FIFO
// ordering of operations allocated by one party and is the key by
// which peers reference operations on the wire (spec.md §3).
type OpID uint64

// Kind discriminates the three ResultValue variants.
type Kind uint8

// ResultValue variants (spec.md §3, plus Bytes for the authenticated
// layer's commit-then-open exchange — a hash commitment is not a
// field or group element, but it still flows through the same
// OpId-addressed graph so the lockstep-allocation discipline applies
// uniformly).
const (
	KindScalars Kind = iota
	KindPoints
	KindBytes
)

// ResultValue is the tagged variant every gate produces: a vector of
// field elements, a vector of group elements, or a vector of opaque
// byte strings.
type ResultValue struct {
	Kind    Kind
	Scalars []algebra.Scalar
	Points  []algebra.Point
	Bytes   [][]byte
}

// Scalars constructs a Scalars-kind ResultValue.
func Scalars(s ...algebra.Scalar) ResultValue {
	return ResultValue{Kind: KindScalars, Scalars: s}
}

// Points constructs a Points-kind ResultValue.
func Points(p ...algebra.Point) ResultValue {
	return ResultValue{Kind: KindPoints, Points: p}
}

// BytesValue constructs a Bytes-kind ResultValue.
func BytesValue(b ...[]byte) ResultValue {
	return ResultValue{Kind: KindBytes, Bytes: b}
}

// Bytes1 returns the single byte string carried by a length-1 Bytes
// value; it panics otherwise.
func (v ResultValue) Bytes1() []byte {
	if v.Kind != KindBytes || len(v.Bytes) != 1 {
		panic("fabric: ResultValue is not a single byte string")
	}
	return v.Bytes[0]
}

// Scalar returns the single scalar carried by a length-1 Scalars
// value; it panics if the value is not a single scalar, mirroring
// the reference implementation's `to_scalar` convenience on a
// handle the caller already knows the shape of.
func (v ResultValue) Scalar() algebra.Scalar {
	if v.Kind != KindScalars || len(v.Scalars) != 1 {
		panic("fabric: ResultValue is not a single scalar")
	}
	return v.Scalars[0]
}

// Point returns the single point carried by a length-1 Points value.
func (v ResultValue) Point() algebra.Point {
	if v.Kind != KindPoints || len(v.Points) != 1 {
		panic("fabric: ResultValue is not a single point")
	}
	return v.Points[0]
}

// Len returns the vector length regardless of kind.
func (v ResultValue) Len() int {
	switch v.Kind {
	case KindScalars:
		return len(v.Scalars)
	case KindPoints:
		return len(v.Points)
	default:
		return len(v.Bytes)
	}
}

// OpResult is the (OpID, ResultValue) pair a gate produces on
// completion (spec.md §3).
type OpResult struct {
	OpID  OpID
	Value ResultValue
}
