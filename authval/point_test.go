//
// Copyright (c) 2026 Markku Rossi
//
// All rights reserved.
//

package authval

import (
	"testing"

	"github.com/markkurossi/mpcfabric/algebra"
	"github.com/markkurossi/mpcfabric/fabric"
	"github.com/markkurossi/mpcfabric/network"
)

type authPointResult struct {
	vals []algebra.Point
	err  error
}

func TestAuthenticatedPointShareOpenIdentity(t *testing.T) {
	fa, fb := newAuthPartyPair(t, algebra.ScalarFromUint64(11), algebra.ScalarFromUint64(22))
	g := algebra.GeneratorPoint()

	doneA := make(chan authPointResult, 1)
	doneB := make(chan authPointResult, 1)

	go func() {
		h, err := SharePoint(fa, algebra.InfinityPoint(), network.PARTY1)
		if err != nil {
			doneA <- authPointResult{nil, err}
			return
		}
		v, err := h.Open()
		doneA <- authPointResult{[]algebra.Point{v}, err}
	}()
	go func() {
		h, err := SharePoint(fb, g, network.PARTY1)
		if err != nil {
			doneB <- authPointResult{nil, err}
			return
		}
		v, err := h.Open()
		doneB <- authPointResult{[]algebra.Point{v}, err}
	}()

	ra := <-doneA
	rb := <-doneB
	if ra.err != nil {
		t.Fatalf("party0 open: %v", ra.err)
	}
	if rb.err != nil {
		t.Fatalf("party1 open: %v", rb.err)
	}
	if !ra.vals[0].Equal(g) || !rb.vals[0].Equal(g) {
		t.Fatalf("expected the generator, got %x / %x", ra.vals[0].Bytes(), rb.vals[0].Bytes())
	}
}

func TestAuthenticatedPointLinearAndScale(t *testing.T) {
	fa, fb := newAuthPartyPair(t, algebra.ScalarFromUint64(11), algebra.ScalarFromUint64(22))
	g := algebra.GeneratorPoint()
	three := algebra.ScalarFromUint64(3)

	doneA := make(chan authPointResult, 1)
	doneB := make(chan authPointResult, 1)

	run := func(f *fabric.Fabric, ch chan authPointResult) {
		h, err := SharePoint(f, g, network.PARTY0)
		if err != nil {
			ch <- authPointResult{nil, err}
			return
		}
		doubled, err := h.Add(h)
		if err != nil {
			ch <- authPointResult{nil, err}
			return
		}
		scaled, err := h.MulPublic(three)
		if err != nil {
			ch <- authPointResult{nil, err}
			return
		}
		doubledVal, err := doubled.Open()
		if err != nil {
			ch <- authPointResult{nil, err}
			return
		}
		scaledVal, err := scaled.Open()
		if err != nil {
			ch <- authPointResult{nil, err}
			return
		}
		ch <- authPointResult{[]algebra.Point{doubledVal, scaledVal}, nil}
	}

	go run(fa, doneA)
	go run(fb, doneB)

	ra := <-doneA
	rb := <-doneB
	if ra.err != nil {
		t.Fatalf("party0: %v", ra.err)
	}
	if rb.err != nil {
		t.Fatalf("party1: %v", rb.err)
	}
	wantDoubled := g.Add(g)
	wantScaled := g.Mul(three)
	if !ra.vals[0].Equal(wantDoubled) || !rb.vals[0].Equal(wantDoubled) {
		t.Fatalf("doubled: expected %x, got %x / %x", wantDoubled.Bytes(), ra.vals[0].Bytes(), rb.vals[0].Bytes())
	}
	if !ra.vals[1].Equal(wantScaled) || !rb.vals[1].Equal(wantScaled) {
		t.Fatalf("scaled: expected %x, got %x / %x", wantScaled.Bytes(), ra.vals[1].Bytes(), rb.vals[1].Bytes())
	}
}
