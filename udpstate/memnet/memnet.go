// Copyright (c) 2024, 2026 by Marko Gaćeša.
// Licensed under the Apache License, Version 2.0.
// See the LICENSE file or http://www.apache.org/licenses/LICENSE-2.0 for details.

// Package memnet is an in-memory datagram network for tests.
// Delivery is instant on Flush and the network never loses, reorders or duplicates
// datagrams unless told to with a filter.
package memnet

import (
	"sync"

	"github.com/marko-gacesa/udpstate/udpstate"
	"github.com/marko-gacesa/udpstate/udpstate/message"
)

type datagram struct {
	data []byte
	from message.Address
}

// Filter decides whether a datagram is delivered.
type Filter func(data []byte, from, to message.Address) bool

type Network struct {
	mx     sync.Mutex
	nodes  map[message.Address]*Node
	filter Filter
}

func New() *Network {
	return &Network{
		nodes: make(map[message.Address]*Node),
	}
}

// SetFilter installs a delivery filter. A nil filter delivers everything.
func (w *Network) SetFilter(filter Filter) {
	w.mx.Lock()
	w.filter = filter
	w.mx.Unlock()
}

// Node attaches a new endpoint with the address. Attaching the same address twice panics.
func (w *Network) Node(addr message.Address) *Node {
	w.mx.Lock()
	defer w.mx.Unlock()

	if _, ok := w.nodes[addr]; ok {
		panic("memnet: duplicate address " + addr.String())
	}

	n := &Node{addr: addr, network: w}
	w.nodes[addr] = n

	return n
}

func (w *Network) deliver(from message.Address, out []outgoing) {
	w.mx.Lock()
	defer w.mx.Unlock()

	for _, o := range out {
		if w.filter != nil && !w.filter(o.data, from, o.to) {
			continue
		}

		dst, ok := w.nodes[o.to]
		if !ok {
			continue
		}

		dst.push(datagram{data: o.data, from: from})
	}
}

type outgoing struct {
	data []byte
	to   message.Address
}

// Node is a network endpoint implementing udpstate.Transport.
type Node struct {
	addr    message.Address
	network *Network

	mx    sync.Mutex
	inbox []datagram

	out []outgoing
}

var _ udpstate.Transport = (*Node)(nil)

func (n *Node) Addr() message.Address {
	return n.addr
}

func (n *Node) push(d datagram) {
	n.mx.Lock()
	n.inbox = append(n.inbox, d)
	n.mx.Unlock()
}

// Inject queues a datagram as if it was received from the address.
func (n *Node) Inject(data []byte, from message.Address) {
	n.push(datagram{data: append([]byte(nil), data...), from: from})
}

func (n *Node) Drain(fn func(data []byte, addr message.Address)) {
	n.mx.Lock()
	inbox := n.inbox
	n.inbox = nil
	n.mx.Unlock()

	for _, d := range inbox {
		fn(d.data, d.from)
	}
}

func (n *Node) Send(data []byte, addr message.Address) {
	n.out = append(n.out, outgoing{data: append([]byte(nil), data...), to: addr})
}

func (n *Node) Flush() error {
	out := n.out
	n.out = nil
	n.network.deliver(n.addr, out)
	return nil
}
