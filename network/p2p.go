//
// Copyright (c) 2026 Markku Rossi
//
// All rights reserved.
//

package network

import (
	"fmt"
	"sync"

	"github.com/markkurossi/mpc/p2p"
)

// P2PTransport adapts the teacher's own two-party networking
// primitive, github.com/markkurossi/mpc/p2p.Conn, to the Transport
// contract. It is grounded on crypto/spdz/spdz.go's sendField /
// recvField / conn.Flush usage: every SendMessage call writes one
// length-framed message (via NetworkOutbound.Encode) and flushes
// immediately, matching the teacher's own convention of flushing
// after every logical round rather than batching.
type P2PTransport struct {
	conn *p2p.Conn

	sendMu sync.Mutex
}

// NewP2PTransport wraps an established p2p.Conn.
func NewP2PTransport(conn *p2p.Conn) *P2PTransport {
	return &P2PTransport{conn: conn}
}

// SendMessage implements Transport.
func (t *P2PTransport) SendMessage(msg NetworkOutbound) error {
	t.sendMu.Lock()
	defer t.sendMu.Unlock()

	if err := t.conn.SendData(msg.Encode()); err != nil {
		return fmt.Errorf("%w: %v", ErrTransport, err)
	}
	if err := t.conn.Flush(); err != nil {
		return fmt.Errorf("%w: %v", ErrTransport, err)
	}
	return nil
}

// ReceiveMessage implements Transport.
func (t *P2PTransport) ReceiveMessage() (NetworkOutbound, error) {
	b, err := t.conn.ReceiveData()
	if err != nil {
		return NetworkOutbound{}, fmt.Errorf("%w: %v", ErrTransport, err)
	}
	msg, err := DecodeOutbound(b)
	if err != nil {
		return NetworkOutbound{}, err
	}
	return msg, nil
}

// Close implements Transport.
func (t *P2PTransport) Close() error {
	return t.conn.Close()
}
