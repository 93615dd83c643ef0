//
// Copyright (c) 2026 Markku Rossi
//
// All rights reserved.
//

package fabric

import "github.com/markkurossi/mpcfabric/network"

// SendValue forwards value to the peer and returns immediately (the
// local completion of a NetworkSendGate), for callers that need to
// move a ResultValue across the wire without going through the MPC
// value layer's share/open protocol — e.g. forwarding a public
// tabulation result for display on both ends. value must already be
// the OpID of an allocated, resolvable node.
func (f *Fabric) SendValue(value OpID, peer network.PartyID) (OpID, error) {
	return f.Allocate(&NetworkSendGate{Input: value, Peer: peer})
}

// ReceiveValue allocates a NetworkReceiveGate and blocks until the
// peer's matching SendValue delivers its payload. Caller and peer
// must allocate their SendValue/ReceiveValue pair in the same
// relative order as every other paired operation on this fabric
// (spec.md §4.1's Ordering guarantees).
func (f *Fabric) ReceiveValue() (ResultValue, error) {
	id, err := f.Allocate(&NetworkReceiveGate{})
	if err != nil {
		return ResultValue{}, err
	}
	return f.Await(id)
}
