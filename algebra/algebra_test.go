//
// Copyright (c) 2026 Markku Rossi
//
// All rights reserved.
//

package algebra

import (
	"crypto/rand"
	"testing"
)

func TestScalarRoundTrip(t *testing.T) {
	for i := 0; i < 16; i++ {
		s, err := RandomScalar(rand.Reader)
		if err != nil {
			t.Fatalf("RandomScalar: %v", err)
		}
		got := ScalarFromBytes(s.Bytes())
		if !got.Equal(s) {
			t.Fatalf("round trip mismatch: %s != %s", got, s)
		}
	}
}

func TestScalarArithmetic(t *testing.T) {
	a := ScalarFromUint64(4)
	b := ScalarFromUint64(6)

	if !a.Add(b).Equal(ScalarFromUint64(10)) {
		t.Fatal("add mismatch")
	}
	if !b.Sub(a).Equal(ScalarFromUint64(2)) {
		t.Fatal("sub mismatch")
	}
	if !a.Mul(b).Equal(ScalarFromUint64(24)) {
		t.Fatal("mul mismatch")
	}
	if !a.Neg().Add(a).IsZero() {
		t.Fatal("neg mismatch")
	}
	inv := a.Inverse()
	if !a.Mul(inv).Equal(OneScalar()) {
		t.Fatal("inverse mismatch")
	}
}

func TestPointAddAndScalarMult(t *testing.T) {
	g := GeneratorPoint()
	two := g.Add(g)
	viaMul := g.Mul(ScalarFromUint64(2))
	if !two.Equal(viaMul) {
		t.Fatal("2G via Add != 2G via Mul")
	}

	three := ScalarBaseMultPoint(ScalarFromUint64(3))
	if !three.Equal(g.Add(two)) {
		t.Fatal("3G mismatch")
	}

	back, err := DecodePoint(three.Bytes())
	if err != nil {
		t.Fatalf("DecodePoint: %v", err)
	}
	if !back.Equal(three) {
		t.Fatal("point round trip mismatch")
	}
}

func TestInfinityPoint(t *testing.T) {
	g := GeneratorPoint()
	inf := InfinityPoint()
	if !g.Add(inf).Equal(g) {
		t.Fatal("G + infinity != G")
	}
	if !g.Sub(g).Equal(inf) {
		t.Fatal("G - G != infinity")
	}
}
