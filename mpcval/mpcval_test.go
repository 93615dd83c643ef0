//
// Copyright (c) 2026 Markku Rossi
//
// All rights reserved.
//

package mpcval

import (
	"testing"

	"github.com/markkurossi/mpcfabric/algebra"
	"github.com/markkurossi/mpcfabric/beaver"
	"github.com/markkurossi/mpcfabric/fabric"
	"github.com/markkurossi/mpcfabric/network"
)

func newPartyPair(t *testing.T) (*fabric.Fabric, *fabric.Fabric) {
	t.Helper()
	a, b := network.Pipe()
	fa := fabric.New(fabric.Config{
		Transport: a,
		Beaver:    beaver.NewStaticSource(network.PARTY0),
		KeyShare:  algebra.ZeroScalar(),
		PartyID:   network.PARTY0,
	})
	fb := fabric.New(fabric.Config{
		Transport: b,
		Beaver:    beaver.NewStaticSource(network.PARTY1),
		KeyShare:  algebra.ZeroScalar(),
		PartyID:   network.PARTY1,
	})
	t.Cleanup(func() {
		fa.Shutdown()
		fb.Shutdown()
	})
	return fa, fb
}

func TestShareOpenIdentityScalar(t *testing.T) {
	fa, fb := newPartyPair(t)

	secret := algebra.ScalarFromUint64(99)

	type res struct {
		vals []algebra.Scalar
		err  error
	}
	doneA := make(chan res, 1)
	doneB := make(chan res, 1)

	go func() {
		h, err := ShareScalar(fa, secret, network.PARTY0)
		if err != nil {
			doneA <- res{nil, err}
			return
		}
		opened, err := h.Open()
		if err != nil {
			doneA <- res{nil, err}
			return
		}
		v, err := opened.Await()
		doneA <- res{v, err}
	}()
	go func() {
		h, err := ShareScalar(fb, algebra.ZeroScalar(), network.PARTY0)
		if err != nil {
			doneB <- res{nil, err}
			return
		}
		opened, err := h.Open()
		if err != nil {
			doneB <- res{nil, err}
			return
		}
		v, err := opened.Await()
		doneB <- res{v, err}
	}()

	ra := <-doneA
	rb := <-doneB
	if ra.err != nil {
		t.Fatalf("party0: %v", ra.err)
	}
	if rb.err != nil {
		t.Fatalf("party1: %v", rb.err)
	}
	if !ra.vals[0].Equal(secret) || !rb.vals[0].Equal(secret) {
		t.Fatalf("expected both parties to recover %s, got %s / %s", secret, ra.vals[0], rb.vals[0])
	}
}

func TestLinearCombinationScalar(t *testing.T) {
	fa, fb := newPartyPair(t)

	x := algebra.ScalarFromUint64(10)
	y := algebra.ScalarFromUint64(4)

	type res struct {
		vals []algebra.Scalar
		err  error
	}
	doneA := make(chan res, 1)
	doneB := make(chan res, 1)

	run := func(f *fabric.Fabric, mine algebra.Scalar, sender network.PartyID, ch chan res) {
		xh, err := ShareScalar(f, mine, network.PARTY0)
		if err != nil {
			ch <- res{nil, err}
			return
		}
		yh, err := ShareScalar(f, mine, network.PARTY1)
		if err != nil {
			ch <- res{nil, err}
			return
		}
		sum, err := xh.Add(yh)
		if err != nil {
			ch <- res{nil, err}
			return
		}
		withConst, err := sum.AddPublicConstant(algebra.ScalarFromUint64(5))
		if err != nil {
			ch <- res{nil, err}
			return
		}
		opened, err := withConst.Open()
		if err != nil {
			ch <- res{nil, err}
			return
		}
		v, err := opened.Await()
		ch <- res{v, err}
	}

	go run(fa, x, network.PARTY0, doneA)
	go run(fb, y, network.PARTY1, doneB)

	ra := <-doneA
	rb := <-doneB
	if ra.err != nil {
		t.Fatalf("party0: %v", ra.err)
	}
	if rb.err != nil {
		t.Fatalf("party1: %v", rb.err)
	}
	want := x.Add(y).Add(algebra.ScalarFromUint64(5))
	if !ra.vals[0].Equal(want) || !rb.vals[0].Equal(want) {
		t.Fatalf("expected %s, got %s / %s", want, ra.vals[0], rb.vals[0])
	}
}

func TestBeaverMultiplication(t *testing.T) {
	fa, fb := newPartyPair(t)

	x := algebra.ScalarFromUint64(6)
	y := algebra.ScalarFromUint64(7)

	type res struct {
		vals []algebra.Scalar
		err  error
	}
	doneA := make(chan res, 1)
	doneB := make(chan res, 1)

	run := func(f *fabric.Fabric, mine algebra.Scalar, ch chan res) {
		xh, err := ShareScalar(f, x, network.PARTY0)
		if err != nil {
			ch <- res{nil, err}
			return
		}
		yh, err := ShareScalar(f, y, network.PARTY1)
		if err != nil {
			ch <- res{nil, err}
			return
		}
		prod, err := xh.Mul(yh)
		if err != nil {
			ch <- res{nil, err}
			return
		}
		opened, err := prod.Open()
		if err != nil {
			ch <- res{nil, err}
			return
		}
		v, err := opened.Await()
		ch <- res{v, err}
	}

	go run(fa, x, doneA)
	go run(fb, y, doneB)

	ra := <-doneA
	rb := <-doneB
	if ra.err != nil {
		t.Fatalf("party0: %v", ra.err)
	}
	if rb.err != nil {
		t.Fatalf("party1: %v", rb.err)
	}
	want := x.Mul(y)
	if !ra.vals[0].Equal(want) || !rb.vals[0].Equal(want) {
		t.Fatalf("expected %s, got %s / %s", want, ra.vals[0], rb.vals[0])
	}
}

func TestSharePointAndMulPublic(t *testing.T) {
	fa, fb := newPartyPair(t)

	g := algebra.GeneratorPoint()

	type res struct {
		vals []algebra.Point
		err  error
	}
	doneA := make(chan res, 1)
	doneB := make(chan res, 1)

	run := func(f *fabric.Fabric, ch chan res) {
		gh, err := SharePoint(f, g, network.PARTY0)
		if err != nil {
			ch <- res{nil, err}
			return
		}
		scaled, err := gh.MulPublic(algebra.ScalarFromUint64(3))
		if err != nil {
			ch <- res{nil, err}
			return
		}
		opened, err := scaled.Open()
		if err != nil {
			ch <- res{nil, err}
			return
		}
		v, err := opened.Await()
		ch <- res{v, err}
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
	want := g.Mul(algebra.ScalarFromUint64(3))
	if !ra.vals[0].Equal(want) || !rb.vals[0].Equal(want) {
		t.Fatalf("expected %s, got mismatched points", want.Bytes())
	}
}
