//
// Copyright (c) 2026 Markku Rossi
//
// All rights reserved.
//

// Package network defines the fabric's transport contract: a
// reliable, ordered, framed two-party byte stream. The fabric treats
// the concrete transport as a black box (spec.md §6); this package
// also ships two implementations, an in-memory pipe for tests and a
// github.com/markkurossi/mpc/p2p.Conn-backed transport for real
// deployments.
package network

import (
	"encoding/binary"
	"fmt"

	"github.com/markkurossi/mpcfabric/algebra"
)

// PartyID identifies one of the two protocol participants.
type PartyID uint8

// The two fixed party roles (spec.md §6).
const (
	PARTY0 PartyID = 0
	PARTY1 PartyID = 1
)

// Other returns the counterparty's ID.
func (p PartyID) Other() PartyID {
	if p == PARTY0 {
		return PARTY1
	}
	return PARTY0
}

// PayloadKind discriminates the variants of NetworkPayload.
type PayloadKind uint8

// Payload variants, matching spec.md §3's ResultValue and §6's
// NetworkPayload.
const (
	KindScalars PayloadKind = iota
	KindPoints
	KindBytes
)

// NetworkPayload is the wire-level discriminated union carried by
// NetworkOutbound messages.
type NetworkPayload struct {
	Kind    PayloadKind
	Scalars []algebra.Scalar
	Points  []algebra.Point
	Bytes   [][]byte
}

// ScalarsPayload constructs a Scalars-variant payload.
func ScalarsPayload(s ...algebra.Scalar) NetworkPayload {
	return NetworkPayload{Kind: KindScalars, Scalars: s}
}

// PointsPayload constructs a Points-variant payload.
func PointsPayload(p ...algebra.Point) NetworkPayload {
	return NetworkPayload{Kind: KindPoints, Points: p}
}

// NetworkOutbound is the unit of exchange between the two parties'
// sender tasks (spec.md §6): an OpId tag and its payload.
type NetworkOutbound struct {
	OpID    uint64
	Payload NetworkPayload
}

// Encode serializes m into a self-framed byte slice: a uint64 OpID,
// a payload-kind byte, a uint32 element count, then the elements
// themselves (little-endian scalars, SEC1-compressed points, or
// length-prefixed byte strings).
func (m NetworkOutbound) Encode() []byte {
	var body []byte
	switch m.Payload.Kind {
	case KindScalars:
		body = make([]byte, 4+len(m.Payload.Scalars)*algebra.ScalarSize)
		binary.LittleEndian.PutUint32(body, uint32(len(m.Payload.Scalars)))
		off := 4
		for _, s := range m.Payload.Scalars {
			copy(body[off:], s.Bytes())
			off += algebra.ScalarSize
		}
	case KindPoints:
		body = make([]byte, 4+len(m.Payload.Points)*algebra.PointSize)
		binary.LittleEndian.PutUint32(body, uint32(len(m.Payload.Points)))
		off := 4
		for _, p := range m.Payload.Points {
			copy(body[off:], p.Bytes())
			off += algebra.PointSize
		}
	case KindBytes:
		var total int
		for _, b := range m.Payload.Bytes {
			total += 4 + len(b)
		}
		body = make([]byte, 4+total)
		binary.LittleEndian.PutUint32(body, uint32(len(m.Payload.Bytes)))
		off := 4
		for _, b := range m.Payload.Bytes {
			binary.LittleEndian.PutUint32(body[off:], uint32(len(b)))
			off += 4
			copy(body[off:], b)
			off += len(b)
		}
	}

	out := make([]byte, 9+len(body))
	binary.LittleEndian.PutUint64(out, m.OpID)
	out[8] = byte(m.Payload.Kind)
	copy(out[9:], body)
	return out
}

// DecodeOutbound is the inverse of Encode.
func DecodeOutbound(b []byte) (NetworkOutbound, error) {
	if len(b) < 9 {
		return NetworkOutbound{}, fmt.Errorf("%w: truncated message header", ErrProtocol)
	}
	opID := binary.LittleEndian.Uint64(b)
	kind := PayloadKind(b[8])
	body := b[9:]
	if len(body) < 4 {
		return NetworkOutbound{}, fmt.Errorf("%w: truncated message count", ErrProtocol)
	}
	count := int(binary.LittleEndian.Uint32(body))
	body = body[4:]

	switch kind {
	case KindScalars:
		if len(body) != count*algebra.ScalarSize {
			return NetworkOutbound{}, fmt.Errorf("%w: scalar payload size mismatch", ErrProtocol)
		}
		scalars := make([]algebra.Scalar, count)
		for i := 0; i < count; i++ {
			scalars[i] = algebra.ScalarFromBytes(body[i*algebra.ScalarSize : (i+1)*algebra.ScalarSize])
		}
		return NetworkOutbound{OpID: opID, Payload: NetworkPayload{Kind: KindScalars, Scalars: scalars}}, nil

	case KindPoints:
		if len(body) != count*algebra.PointSize {
			return NetworkOutbound{}, fmt.Errorf("%w: point payload size mismatch", ErrProtocol)
		}
		points := make([]algebra.Point, count)
		for i := 0; i < count; i++ {
			p, err := algebra.DecodePoint(body[i*algebra.PointSize : (i+1)*algebra.PointSize])
			if err != nil {
				return NetworkOutbound{}, fmt.Errorf("%w: %v", ErrProtocol, err)
			}
			points[i] = p
		}
		return NetworkOutbound{OpID: opID, Payload: NetworkPayload{Kind: KindPoints, Points: points}}, nil

	case KindBytes:
		out := make([][]byte, count)
		off := 0
		for i := 0; i < count; i++ {
			if len(body[off:]) < 4 {
				return NetworkOutbound{}, fmt.Errorf("%w: truncated bytes entry", ErrProtocol)
			}
			n := int(binary.LittleEndian.Uint32(body[off:]))
			off += 4
			if len(body[off:]) < n {
				return NetworkOutbound{}, fmt.Errorf("%w: truncated bytes body", ErrProtocol)
			}
			out[i] = append([]byte(nil), body[off:off+n]...)
			off += n
		}
		return NetworkOutbound{OpID: opID, Payload: NetworkPayload{Kind: KindBytes, Bytes: out}}, nil

	default:
		return NetworkOutbound{}, fmt.Errorf("%w: unknown payload kind %d", ErrProtocol, kind)
	}
}
