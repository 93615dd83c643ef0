//
// Copyright (c) 2026 Markku Rossi
//
// All rights reserved.
//

package fabric

import (
	"sync"

	"github.com/markkurossi/mpcfabric/algebra"
	"github.com/markkurossi/mpcfabric/beaver"
	"github.com/markkurossi/mpcfabric/network"
)

// node is one entry in the result graph: a gate plus its dependency
// bookkeeping (spec.md §3's "Graph node").
type node struct {
	gate             Gate
	deps             []OpID
	remaining        int
	dependents       []OpID
	isNetworkReceive bool

	done    bool
	value   ResultValue
	waitCh  chan struct{}
}

// readyQueue is an unbounded FIFO of ready OpIDs, drained by the
// executor's worker pool.
type readyQueue struct {
	mu     sync.Mutex
	cond   *sync.Cond
	q      []OpID
	closed bool
}

func newReadyQueue() *readyQueue {
	rq := &readyQueue{}
	rq.cond = sync.NewCond(&rq.mu)
	return rq
}

func (r *readyQueue) push(id OpID) {
	r.mu.Lock()
	r.q = append(r.q, id)
	r.mu.Unlock()
	r.cond.Signal()
}

func (r *readyQueue) pop() (OpID, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for len(r.q) == 0 && !r.closed {
		r.cond.Wait()
	}
	if len(r.q) == 0 {
		return 0, false
	}
	id := r.q[0]
	r.q = r.q[1:]
	return id, true
}

func (r *readyQueue) close() {
	r.mu.Lock()
	r.closed = true
	r.mu.Unlock()
	r.cond.Broadcast()
}

// Fabric owns the result graph, the cooperative executor, and the
// network sender task for one two-party computation (spec.md §4.1,
// §4.2, §4.5). It is the engine every MpcScalar/MpcPoint and
// AuthenticatedScalar/Point handle ultimately runs on.
type Fabric struct {
	mu       sync.Mutex
	nextOpID OpID
	nodes    map[OpID]*node

	ready *readyQueue

	outbound chan network.NetworkOutbound

	transport  network.Transport
	beaverSrc  beaver.Source
	keyShare   algebra.Scalar
	partyID    network.PartyID

	poisoned  bool
	poisonErr error
	poisonCh  chan struct{}

	workers  int
	workerWG sync.WaitGroup
	senderWG sync.WaitGroup
}

// Config bundles the external collaborators a Fabric is constructed
// from (spec.md §4.5: transport, beaver source, key share).
type Config struct {
	Transport network.Transport
	Beaver    beaver.Source
	KeyShare  algebra.Scalar
	PartyID   network.PartyID

	// Workers is the size of the executor's worker pool. Zero means
	// 1, the "single-threaded cooperative by default" mode spec.md
	// §5 describes; a larger pool opts into the permitted
	// multi-threaded mode.
	Workers int
}

// New constructs a Fabric and starts its executor workers and
// network sender task.
func New(cfg Config) *Fabric {
	workers := cfg.Workers
	if workers <= 0 {
		workers = 1
	}

	f := &Fabric{
		nodes:     make(map[OpID]*node),
		ready:     newReadyQueue(),
		outbound:  make(chan network.NetworkOutbound, 256),
		transport: cfg.Transport,
		beaverSrc: cfg.Beaver,
		keyShare:  cfg.KeyShare,
		partyID:   cfg.PartyID,
		poisonCh:  make(chan struct{}),
		workers:   workers,
	}

	for i := 0; i < workers; i++ {
		f.workerWG.Add(1)
		go f.runWorker()
	}

	f.senderWG.Add(1)
	go f.runSender()

	return f
}

// PartyID returns this fabric's party role.
func (f *Fabric) PartyID() network.PartyID {
	return f.partyID
}

// KeyShare returns this party's additive share of the global MAC key
// δ, handed to every AuthenticatedScalar/Point at construction
// (spec.md §9).
func (f *Fabric) KeyShare() algebra.Scalar {
	return f.keyShare
}

// Beaver exposes the fabric's correlated-randomness oracle to the
// value layers, which draw from it while they build gates, never from
// inside a gate's execute (spec.md §5). The fabric takes no lock
// around these draws.
func (f *Fabric) Beaver() beaver.Source {
	return f.beaverSrc
}

func (f *Fabric) enqueueOutbound(msg network.NetworkOutbound) {
	select {
	case f.outbound <- msg:
	case <-f.poisonCh:
	}
}

// Allocate inserts a gate and returns its OpID, matching spec.md
// §4.1. If the gate has zero unfulfilled inputs it is immediately
// pushed to the ready queue; NetworkReceiveGate is never auto-ready —
// it is parked until the sender task delivers a matching result.
func (f *Fabric) Allocate(gate Gate) (OpID, error) {
	f.mu.Lock()

	if f.poisoned {
		err := f.poisonErr
		f.mu.Unlock()
		return 0, err
	}

	id := f.nextOpID
	f.nextOpID++

	if send, ok := gate.(*NetworkSendGate); ok {
		send.fabric = f
		send.opID = id
	}

	_, isRecv := gate.(*NetworkReceiveGate)

	n := &node{
		gate:             gate,
		deps:             gate.inputs(),
		isNetworkReceive: isRecv,
		waitCh:           make(chan struct{}),
	}
	if early, ok := f.nodes[id]; ok && isRecv && early.done {
		// The peer's message for this id arrived before the receive
		// was allocated (see Complete): the receive is already fulfilled.
		n.value = early.value
		n.done = true
		close(n.waitCh)
	}
	f.nodes[id] = n

	if isRecv {
		f.mu.Unlock()
		return id, nil
	}

	remaining := 0
	for _, dep := range n.deps {
		depNode, ok := f.nodes[dep]
		if !ok {
			continue
		}
		if depNode.done {
			continue
		}
		depNode.dependents = append(depNode.dependents, id)
		remaining++
	}
	n.remaining = remaining
	readyNow := remaining == 0
	f.mu.Unlock()

	if readyNow {
		f.ready.push(id)
	}
	return id, nil
}

// Await blocks until id's result is available, or returns
// ErrFabricShutdown if the fabric is poisoned first (spec.md §4.1).
func (f *Fabric) Await(id OpID) (ResultValue, error) {
	f.mu.Lock()
	n, ok := f.nodes[id]
	if !ok {
		f.mu.Unlock()
		return ResultValue{}, ErrProtocol
	}
	if n.done {
		v := n.value
		f.mu.Unlock()
		return v, nil
	}
	wait := n.waitCh
	f.mu.Unlock()

	select {
	case <-wait:
		f.mu.Lock()
		v := n.value
		f.mu.Unlock()
		return v, nil
	case <-f.poisonCh:
		f.mu.Lock()
		err := f.poisonErr
		f.mu.Unlock()
		return ResultValue{}, err
	}
}

// Complete stores id's result, decrements remaining_inputs on every
// dependent, and pushes newly-ready dependents to the ready queue
// (spec.md §4.1). It is invoked both by worker gate execution and by
// the network sender task delivering an inbound message.
func (f *Fabric) Complete(id OpID, value ResultValue) {
	f.mu.Lock()
	n, ok := f.nodes[id]
	if !ok {
		// An inbound message can arrive before this party allocates the
		// matching NetworkReceiveGate; park it as a completed placeholder
		// that Allocate picks up.
		waitCh := make(chan struct{})
		close(waitCh)
		f.nodes[id] = &node{done: true, value: value, waitCh: waitCh}
		f.mu.Unlock()
		return
	}
	if n.done {
		f.mu.Unlock()
		return
	}
	n.value = value
	n.done = true
	dependents := n.dependents
	close(n.waitCh)

	var newlyReady []OpID
	for _, depID := range dependents {
		dn := f.nodes[depID]
		dn.remaining--
		if dn.remaining == 0 {
			newlyReady = append(newlyReady, depID)
		}
	}
	f.mu.Unlock()

	for _, id := range newlyReady {
		f.ready.push(id)
	}
}

func (f *Fabric) resolveInputs(deps []OpID) []ResultValue {
	f.mu.Lock()
	defer f.mu.Unlock()
	in := make([]ResultValue, len(deps))
	for i, d := range deps {
		in[i] = f.nodes[d].value
	}
	return in
}

func (f *Fabric) runWorker() {
	defer f.workerWG.Done()
	for {
		id, ok := f.ready.pop()
		if !ok {
			return
		}
		f.mu.Lock()
		n := f.nodes[id]
		f.mu.Unlock()

		in := f.resolveInputs(n.deps)
		value, err := n.gate.execute(in)
		if err != nil {
			f.poison(err)
			return
		}
		f.Complete(id, value)
	}
}

// poison enters the poisoned state: all pending Await calls fail
// with ErrFabricShutdown (wrapping err), and subsequent Allocate
// calls fail the same way (spec.md §4.1, §7).
func (f *Fabric) poison(err error) {
	f.mu.Lock()
	if f.poisoned {
		f.mu.Unlock()
		return
	}
	f.poisoned = true
	f.poisonErr = &poisonedError{cause: err}
	f.mu.Unlock()

	close(f.poisonCh)
	f.ready.close()
}

// Shutdown deliberately poisons the fabric and stops its workers and
// sender task (spec.md §5's explicit shutdown()).
func (f *Fabric) Shutdown() {
	f.poison(ErrFabricShutdown)
	f.transport.Close()
}
