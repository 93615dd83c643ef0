//
// Copyright (c) 2026 Markku Rossi
//
// All rights reserved.
//

package network

import "errors"

// ErrTransport is returned for any I/O or framing failure. Per
// spec.md §7, a TransportError is always fatal: the fabric poisons
// itself on the first one.
var ErrTransport = errors.New("network: transport error")

// ErrProtocol signals an OpId mismatch, an unexpected payload
// variant, or a size mismatch on a batched operation (spec.md §7).
var ErrProtocol = errors.New("network: protocol error")

// Transport is the fabric's external collaborator: a reliable,
// ordered, message-framed byte stream between the two parties
// (spec.md §6). The fabric's sender task is the transport's sole
// owner and caller.
type Transport interface {
	// SendMessage writes one framed NetworkOutbound to the peer.
	SendMessage(msg NetworkOutbound) error

	// ReceiveMessage blocks until the next framed NetworkOutbound
	// arrives from the peer.
	ReceiveMessage() (NetworkOutbound, error)

	// Close releases the transport's resources. Close is idempotent.
	Close() error
}
