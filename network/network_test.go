//
// Copyright (c) 2026 Markku Rossi
//
// All rights reserved.
//

package network

import (
	"testing"

	"github.com/markkurossi/mpcfabric/algebra"
)

func TestEncodeDecodeScalars(t *testing.T) {
	msg := NetworkOutbound{
		OpID: 42,
		Payload: ScalarsPayload(
			algebra.ScalarFromUint64(1),
			algebra.ScalarFromUint64(2),
			algebra.ScalarFromUint64(3),
		),
	}

	got, err := DecodeOutbound(msg.Encode())
	if err != nil {
		t.Fatalf("DecodeOutbound: %v", err)
	}
	if got.OpID != msg.OpID {
		t.Fatalf("OpID mismatch: %d != %d", got.OpID, msg.OpID)
	}
	if len(got.Payload.Scalars) != 3 {
		t.Fatalf("expected 3 scalars, got %d", len(got.Payload.Scalars))
	}
	for i, s := range got.Payload.Scalars {
		if !s.Equal(msg.Payload.Scalars[i]) {
			t.Fatalf("scalar %d mismatch", i)
		}
	}
}

func TestEncodeDecodePoints(t *testing.T) {
	g := algebra.GeneratorPoint()
	msg := NetworkOutbound{OpID: 7, Payload: PointsPayload(g, g.Add(g))}

	got, err := DecodeOutbound(msg.Encode())
	if err != nil {
		t.Fatalf("DecodeOutbound: %v", err)
	}
	if len(got.Payload.Points) != 2 || !got.Payload.Points[0].Equal(g) {
		t.Fatal("point payload round trip mismatch")
	}
}

func TestPipeTransport(t *testing.T) {
	a, b := Pipe()
	defer a.Close()
	defer b.Close()

	msg := NetworkOutbound{OpID: 1, Payload: ScalarsPayload(algebra.ScalarFromUint64(9))}
	if err := a.SendMessage(msg); err != nil {
		t.Fatalf("SendMessage: %v", err)
	}
	got, err := b.ReceiveMessage()
	if err != nil {
		t.Fatalf("ReceiveMessage: %v", err)
	}
	if got.OpID != 1 || !got.Payload.Scalars[0].Equal(algebra.ScalarFromUint64(9)) {
		t.Fatal("pipe did not deliver message intact")
	}
}
