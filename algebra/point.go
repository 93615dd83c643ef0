//
// Copyright (c) 2026 Markku Rossi
//
// All rights reserved.
//

package algebra

import (
	"crypto/subtle"
	"errors"
	"math/big"
)

// PointSize is the length of a SEC1-compressed P-256 point.
const PointSize = 33

// ErrInvalidPoint is returned when decoding a malformed or
// off-curve point encoding.
var ErrInvalidPoint = errors.New("algebra: invalid point encoding")

// Point is a P-256 group element in affine coordinates. The zero
// value is the point at infinity.
type Point struct {
	x, y *big.Int // nil, nil means the point at infinity
}

// InfinityPoint returns the group identity.
func InfinityPoint() Point {
	return Point{}
}

// GeneratorPoint returns the P-256 base point G.
func GeneratorPoint() Point {
	return Point{x: new(big.Int).Set(curveParams.Gx), y: new(big.Int).Set(curveParams.Gy)}
}

// NewPoint wraps raw affine coordinates. Callers are responsible for
// ensuring (x, y) lies on the curve; ScalarBaseMultPoint and
// DecodePoint are the normal ways to construct a trusted Point.
func NewPoint(x, y *big.Int) Point {
	if x == nil || y == nil {
		return Point{}
	}
	if x.Sign() == 0 && y.Sign() == 0 {
		// crypto/elliptic reports the point at infinity as (0, 0).
		return Point{}
	}
	return Point{x: new(big.Int).Set(x), y: new(big.Int).Set(y)}
}

// ScalarBaseMultPoint returns k*G.
func ScalarBaseMultPoint(k Scalar) Point {
	x, y := curve.ScalarBaseMult(k.Bytes2())
	return NewPoint(x, y)
}

// Bytes2 returns the minimal big-endian encoding of a's reduced value,
// the form curve.ScalarBaseMult and curve.ScalarMult take; Bytes is
// the canonical little-endian wire encoding.
func (a Scalar) Bytes2() []byte {
	return a.v.Bytes()
}

// Add returns p + q.
func (p Point) Add(q Point) Point {
	if p.IsInfinity() {
		return q
	}
	if q.IsInfinity() {
		return p
	}
	x, y := curve.Add(p.x, p.y, q.x, q.y)
	return NewPoint(x, y)
}

// Neg returns -p.
func (p Point) Neg() Point {
	if p.IsInfinity() {
		return p
	}
	negY := new(big.Int).Sub(curveParams.P, p.y)
	return NewPoint(p.x, negY)
}

// Sub returns p - q.
func (p Point) Sub(q Point) Point {
	return p.Add(q.Neg())
}

// Mul returns k*p, scalar multiplication of a point by a field
// element.
func (p Point) Mul(k Scalar) Point {
	if p.IsInfinity() {
		return p
	}
	x, y := curve.ScalarMult(p.x, p.y, k.Bytes2())
	return NewPoint(x, y)
}

// IsInfinity reports whether p is the group identity.
func (p Point) IsInfinity() bool {
	return p.x == nil || p.y == nil
}

// Equal reports whether p and q are the same group element, in
// constant time.
func (p Point) Equal(q Point) bool {
	return subtle.ConstantTimeCompare(p.Bytes(), q.Bytes()) == 1
}

// Bytes returns the SEC1-compressed encoding of p (spec.md: "point
// serialization is the curve's canonical compressed form").
func (p Point) Bytes() []byte {
	if p.IsInfinity() {
		return make([]byte, PointSize)
	}
	out := make([]byte, PointSize)
	if p.y.Bit(0) == 0 {
		out[0] = 0x02
	} else {
		out[0] = 0x03
	}
	xb := p.x.Bytes()
	copy(out[1+(PointSize-1-len(xb)):], xb)
	return out
}

// DecodePoint decodes a SEC1-compressed point previously produced by
// Bytes.
func DecodePoint(b []byte) (Point, error) {
	if len(b) != PointSize {
		return Point{}, ErrInvalidPoint
	}
	allZero := true
	for _, c := range b {
		if c != 0 {
			allZero = false
			break
		}
	}
	if allZero {
		return InfinityPoint(), nil
	}
	if b[0] != 0x02 && b[0] != 0x03 {
		return Point{}, ErrInvalidPoint
	}

	x := new(big.Int).SetBytes(b[1:])
	ySquared := new(big.Int).Exp(x, big.NewInt(3), curveParams.P)
	threeX := new(big.Int).Mul(x, big.NewInt(3))
	ySquared.Sub(ySquared, threeX)
	ySquared.Add(ySquared, curveParams.B)
	ySquared.Mod(ySquared, curveParams.P)

	y := new(big.Int).ModSqrt(ySquared, curveParams.P)
	if y == nil {
		return Point{}, ErrInvalidPoint
	}
	wantOdd := b[0] == 0x03
	if y.Bit(0) == 1 != wantOdd {
		y.Sub(curveParams.P, y)
	}
	if !curve.IsOnCurve(x, y) {
		return Point{}, ErrInvalidPoint
	}
	return NewPoint(x, y), nil
}
