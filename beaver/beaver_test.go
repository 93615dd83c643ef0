//
// Copyright (c) 2026 Markku Rossi
//
// All rights reserved.
//

package beaver

import (
	"testing"

	"github.com/markkurossi/mpcfabric/network"
)

func TestStaticSourceTripleCorrectness(t *testing.T) {
	p0 := NewStaticSource(network.PARTY0)
	p1 := NewStaticSource(network.PARTY1)

	t0, err := p0.NextTriplet()
	if err != nil {
		t.Fatalf("party0 NextTriplet: %v", err)
	}
	t1, err := p1.NextTriplet()
	if err != nil {
		t.Fatalf("party1 NextTriplet: %v", err)
	}

	a := t0.A.Add(t1.A)
	b := t0.B.Add(t1.B)
	c := t0.C.Add(t1.C)

	if !a.Mul(b).Equal(c) {
		t.Fatalf("triple is not valid: a*b = %s, c = %s", a.Mul(b), c)
	}
}
