//
// Copyright (c) 2026 Markku Rossi
//
// All rights reserved.
//

package fabric

import (
	"log"

	"github.com/markkurossi/mpcfabric/network"
)

// runSender is the fabric's single long-lived network sender task
// (spec.md §4.2): it owns the transport exclusively, multiplexing
// the outbound queue against inbound delivery, exactly mirroring the
// teacher's Rust reference (original_source's
// src/fabric/network_sender.rs tokio::select! loop) translated into
// a Go select over two channels — one fed by outgoing gate
// completions, the other by a dedicated receive goroutine, since Go
// has no single call that multiplexes a channel send with a blocking
// network read.
func (f *Fabric) runSender() {
	defer f.senderWG.Done()

	inbound := make(chan opResultOrErr, 16)
	go f.runReceiver(inbound)

	for {
		select {
		case msg, ok := <-f.outbound:
			if !ok {
				return
			}
			if err := f.transport.SendMessage(msg); err != nil {
				log.Printf("fabric: error sending message: %v", err)
				f.poison(err)
				return
			}

		case res := <-inbound:
			if res.err != nil {
				log.Printf("fabric: error receiving message: %v", res.err)
				f.poison(res.err)
				return
			}
			f.Complete(OpID(res.msg.OpID), resultFromPayload(res.msg.Payload))

		case <-f.poisonCh:
			return
		}
	}
}

type opResultOrErr struct {
	msg network.NetworkOutbound
	err error
}

func (f *Fabric) runReceiver(out chan<- opResultOrErr) {
	for {
		msg, err := f.transport.ReceiveMessage()
		if err != nil {
			select {
			case out <- opResultOrErr{err: err}:
			case <-f.poisonCh:
			}
			return
		}
		select {
		case out <- opResultOrErr{msg: msg}:
		case <-f.poisonCh:
			return
		}
	}
}
