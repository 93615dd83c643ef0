//
// Copyright (c) 2026 Markku Rossi
//
// All rights reserved.
//

package fabric

import (
	"testing"

	"github.com/markkurossi/mpcfabric/algebra"
	"github.com/markkurossi/mpcfabric/beaver"
	"github.com/markkurossi/mpcfabric/network"
)

func newTestFabric(t *testing.T, transport network.Transport, party network.PartyID) *Fabric {
	t.Helper()
	return New(Config{
		Transport: transport,
		Beaver:    beaver.NewStaticSource(party),
		KeyShare:  algebra.ZeroScalar(),
		PartyID:   party,
	})
}

func TestLocalGateChain(t *testing.T) {
	a, _ := network.Pipe()
	f := newTestFabric(t, a, network.PARTY0)
	defer f.Shutdown()

	lit, err := f.Allocate(&LiteralGate{Value: Scalars(algebra.ScalarFromUint64(7))})
	if err != nil {
		t.Fatalf("allocate literal: %v", err)
	}

	doubled, err := f.Allocate(&LocalGate{
		Inputs_: []OpID{lit},
		Fn: func(in []ResultValue) (ResultValue, error) {
			return Scalars(in[0].Scalar().Add(in[0].Scalar())), nil
		},
	})
	if err != nil {
		t.Fatalf("allocate local: %v", err)
	}

	res, err := f.Await(doubled)
	if err != nil {
		t.Fatalf("await: %v", err)
	}
	if !res.Scalar().Equal(algebra.ScalarFromUint64(14)) {
		t.Fatalf("expected 14, got %s", res.Scalar())
	}
}

func TestNetworkSendReceiveRoundTrip(t *testing.T) {
	a, b := network.Pipe()
	fa := newTestFabric(t, a, network.PARTY0)
	fb := newTestFabric(t, b, network.PARTY1)
	defer fa.Shutdown()
	defer fb.Shutdown()

	lit, err := fa.Allocate(&LiteralGate{Value: Scalars(algebra.ScalarFromUint64(42))})
	if err != nil {
		t.Fatalf("allocate literal: %v", err)
	}
	sendID, err := fa.Allocate(&NetworkSendGate{Input: lit, Peer: network.PARTY1})
	if err != nil {
		t.Fatalf("allocate send: %v", err)
	}

	// A send stamps its own OpID on the wire, so the receive must land
	// on the same OpID as fa's send: fb allocates a placeholder first.
	if _, err := fb.Allocate(&LiteralGate{Value: Scalars(algebra.ZeroScalar())}); err != nil {
		t.Fatalf("allocate placeholder: %v", err)
	}
	recvID, err := fb.Allocate(&NetworkReceiveGate{})
	if err != nil {
		t.Fatalf("allocate receive: %v", err)
	}

	if _, err := fa.Await(sendID); err != nil {
		t.Fatalf("await send: %v", err)
	}

	got, err := fb.Await(recvID)
	if err != nil {
		t.Fatalf("await receive: %v", err)
	}
	if !got.Scalar().Equal(algebra.ScalarFromUint64(42)) {
		t.Fatalf("expected 42, got %s", got.Scalar())
	}
}
