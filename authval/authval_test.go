//
// Copyright (c) 2026 Markku Rossi
//
// All rights reserved.
//

package authval

import (
	"testing"

	"github.com/markkurossi/mpcfabric/algebra"
	"github.com/markkurossi/mpcfabric/beaver"
	"github.com/markkurossi/mpcfabric/fabric"
	"github.com/markkurossi/mpcfabric/network"
)

func newAuthPartyPair(t *testing.T, keyShare0, keyShare1 algebra.Scalar) (*fabric.Fabric, *fabric.Fabric) {
	t.Helper()
	a, b := network.Pipe()
	fa := fabric.New(fabric.Config{
		Transport: a,
		Beaver:    beaver.NewStaticSource(network.PARTY0),
		KeyShare:  keyShare0,
		PartyID:   network.PARTY0,
	})
	fb := fabric.New(fabric.Config{
		Transport: b,
		Beaver:    beaver.NewStaticSource(network.PARTY1),
		KeyShare:  keyShare1,
		PartyID:   network.PARTY1,
	})
	t.Cleanup(func() {
		fa.Shutdown()
		fb.Shutdown()
	})
	return fa, fb
}

type authResult struct {
	vals []algebra.Scalar
	err  error
}

func TestAuthenticatedShareOpenIdentity(t *testing.T) {
	fa, fb := newAuthPartyPair(t, algebra.ScalarFromUint64(11), algebra.ScalarFromUint64(22))
	secret := algebra.ScalarFromUint64(77)

	doneA := make(chan authResult, 1)
	doneB := make(chan authResult, 1)

	go func() {
		h, err := ShareScalar(fa, secret, network.PARTY0)
		if err != nil {
			doneA <- authResult{nil, err}
			return
		}
		v, err := h.Open()
		doneA <- authResult{[]algebra.Scalar{v}, err}
	}()
	go func() {
		h, err := ShareScalar(fb, algebra.ZeroScalar(), network.PARTY0)
		if err != nil {
			doneB <- authResult{nil, err}
			return
		}
		v, err := h.Open()
		doneB <- authResult{[]algebra.Scalar{v}, err}
	}()

	ra := <-doneA
	rb := <-doneB
	if ra.err != nil {
		t.Fatalf("party0 open: %v", ra.err)
	}
	if rb.err != nil {
		t.Fatalf("party1 open: %v", rb.err)
	}
	if !ra.vals[0].Equal(secret) || !rb.vals[0].Equal(secret) {
		t.Fatalf("expected %s, got %s / %s", secret, ra.vals[0], rb.vals[0])
	}
}

func TestAuthenticatedLinearAndMul(t *testing.T) {
	fa, fb := newAuthPartyPair(t, algebra.ScalarFromUint64(11), algebra.ScalarFromUint64(22))

	x := algebra.ScalarFromUint64(6)
	y := algebra.ScalarFromUint64(7)

	doneA := make(chan authResult, 1)
	doneB := make(chan authResult, 1)

	run := func(f *fabric.Fabric, ch chan authResult) {
		xh, err := ShareScalar(f, x, network.PARTY0)
		if err != nil {
			ch <- authResult{nil, err}
			return
		}
		yh, err := ShareScalar(f, y, network.PARTY1)
		if err != nil {
			ch <- authResult{nil, err}
			return
		}
		sum, err := xh.Add(yh)
		if err != nil {
			ch <- authResult{nil, err}
			return
		}
		withConst, err := sum.AddPublicConstant(algebra.ScalarFromUint64(3))
		if err != nil {
			ch <- authResult{nil, err}
			return
		}
		prod, err := xh.Mul(yh)
		if err != nil {
			ch <- authResult{nil, err}
			return
		}
		sumVal, err := withConst.Open()
		if err != nil {
			ch <- authResult{nil, err}
			return
		}
		prodVal, err := prod.Open()
		if err != nil {
			ch <- authResult{nil, err}
			return
		}
		ch <- authResult{[]algebra.Scalar{sumVal, prodVal}, nil}
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
	wantSum := x.Add(y).Add(algebra.ScalarFromUint64(3))
	wantProd := x.Mul(y)
	if !ra.vals[0].Equal(wantSum) || !rb.vals[0].Equal(wantSum) {
		t.Fatalf("sum: expected %s, got %s / %s", wantSum, ra.vals[0], rb.vals[0])
	}
	if !ra.vals[1].Equal(wantProd) || !rb.vals[1].Equal(wantProd) {
		t.Fatalf("product: expected %s, got %s / %s", wantProd, ra.vals[1], rb.vals[1])
	}
}

func TestAuthenticatedOpenBatch(t *testing.T) {
	fa, fb := newAuthPartyPair(t, algebra.ScalarFromUint64(5), algebra.ScalarFromUint64(9))

	values := []algebra.Scalar{
		algebra.ScalarFromUint64(1),
		algebra.ScalarFromUint64(2),
		algebra.ScalarFromUint64(3),
	}

	doneA := make(chan authResult, 1)
	doneB := make(chan authResult, 1)

	run := func(f *fabric.Fabric, ch chan authResult) {
		h, err := ShareScalars(f, values, network.PARTY0)
		if err != nil {
			ch <- authResult{nil, err}
			return
		}
		vals, err := h.OpenBatch()
		ch <- authResult{vals, err}
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
	for i, want := range values {
		if !ra.vals[i].Equal(want) || !rb.vals[i].Equal(want) {
			t.Fatalf("index %d: expected %s, got %s / %s", i, want, ra.vals[i], rb.vals[i])
		}
	}
}

func TestAuthenticatedOpenDetectsTamperedMac(t *testing.T) {
	fa, fb := newAuthPartyPair(t, algebra.ScalarFromUint64(11), algebra.ScalarFromUint64(22))

	doneA := make(chan error, 1)
	doneB := make(chan error, 1)

	go func() {
		h, err := ShareScalar(fa, algebra.ScalarFromUint64(41), network.PARTY0)
		if err != nil {
			doneA <- err
			return
		}
		// Tamper with the MAC share before opening: add 1 to it
		// (mpcval's AddPublicConstant changes party 0's share only)
		// without changing the value share, simulating a corrupted MAC.
		// Party 1 makes the same calls so both allocate in lockstep.
		tampered, err := h.MulPublic(algebra.OneScalar())
		if err != nil {
			doneA <- err
			return
		}
		tampered.macShare, err = tampered.macShare.AddPublicConstant(algebra.OneScalar())
		if err != nil {
			doneA <- err
			return
		}
		_, err = tampered.Open()
		doneA <- err
	}()
	go func() {
		h, err := ShareScalar(fb, algebra.ZeroScalar(), network.PARTY0)
		if err != nil {
			doneB <- err
			return
		}
		tampered, err := h.MulPublic(algebra.OneScalar())
		if err != nil {
			doneB <- err
			return
		}
		tampered.macShare, err = tampered.macShare.AddPublicConstant(algebra.OneScalar())
		if err != nil {
			doneB <- err
			return
		}
		_, err = tampered.Open()
		doneB <- err
	}()

	errA := <-doneA
	errB := <-doneB
	if errA == nil && errB == nil {
		t.Fatalf("expected authentication failure on at least one party, got none")
	}
}
