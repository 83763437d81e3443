// Copyright (c) 2026 by Marko Gaćeša.
// Licensed under the Apache License, Version 2.0.
// See the LICENSE file or http://www.apache.org/licenses/LICENSE-2.0 for details.

package udpstate

import (
	"net"

	"github.com/marko-gacesa/udpstate/udp"
	"github.com/marko-gacesa/udpstate/udpstate/message"
)

// Transport moves datagrams for a frame driven relay or peer.
// All methods are called from the frame goroutine.
type Transport interface {
	// Drain calls fn for every datagram received since the previous call, without blocking.
	Drain(fn func(data []byte, addr message.Address))

	// Send queues a datagram. The data may be reused by the caller after the call returns.
	Send(data []byte, addr message.Address)

	// Flush writes all queued datagrams.
	Flush() error
}

var _ Transport = (*SocketTransport)(nil)

// SocketTransport is a Transport over a UDP socket. Datagrams from non-IPv4 senders are ignored.
type SocketTransport struct {
	socket *udp.Socket
}

func NewSocketTransport(socket *udp.Socket) *SocketTransport {
	return &SocketTransport{socket: socket}
}

func (t *SocketTransport) Drain(fn func(data []byte, addr message.Address)) {
	t.socket.Drain(func(data []byte, udpAddr *net.UDPAddr) {
		addr, ok := message.AddressFromUDP(udpAddr)
		if !ok {
			return
		}
		fn(data, addr)
	})
}

func (t *SocketTransport) Send(data []byte, addr message.Address) {
	t.socket.Send(data, addr.UDPAddr())
}

func (t *SocketTransport) Flush() error {
	return t.socket.Flush()
}
