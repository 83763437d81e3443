// Copyright (c) 2023, 2026 by Marko Gaćeša.
// Licensed under the Apache License, Version 2.0.
// See the LICENSE file or http://www.apache.org/licenses/LICENSE-2.0 for details.

package server

import (
	"context"
	"errors"
	"log/slog"

	"github.com/marko-gacesa/udpstate/udpstate"
	"github.com/marko-gacesa/udpstate/udpstate/frame"
	"github.com/marko-gacesa/udpstate/udpstate/message"
	"github.com/marko-gacesa/udpstate/udpstate/util"
)

// MaxClients is the size of the client table.
const MaxClients = 128

// PortDefault is the port a relay listens on unless configured otherwise.
const PortDefault = 54321

const publishEveryDefault = 15

// Client is a slot in the client table. A slot, once connected, stays connected
// for the lifetime of the relay.
type Client struct {
	Connected bool
	Nickname  message.Nickname
	Address   message.Address
	Snapshot  message.Snapshot
}

// Relay accepts peers and forwards every peer's latest snapshot to every other peer.
// All methods except Clients and Metrics must be called from the frame goroutine.
type Relay struct {
	transport udpstate.Transport
	clients   [MaxClients]Client

	metrics Metrics
	view    view

	publishEvery uint64

	buf [message.MaxMessageSize]byte

	log *slog.Logger
}

func New(transport udpstate.Transport, opts ...func(*Relay)) *Relay {
	r := &Relay{
		transport:    transport,
		publishEvery: publishEveryDefault,
		log:          slog.Default(),
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

var WithLogger = func(log *slog.Logger) func(*Relay) {
	return func(r *Relay) {
		if log != nil {
			r.log = log
		}
	}
}

// WithPublishEvery sets after how many frames the client table is copied for readers.
var WithPublishEvery = func(frames int) func(*Relay) {
	return func(r *Relay) {
		if frames > 0 {
			r.publishEvery = uint64(frames)
		}
	}
}

// Run drives the relay with the frame loop until the context is done.
func (r *Relay) Run(ctx context.Context, loop *frame.Loop) error {
	r.log.Info("relay started", "hz", loop.Hz(), "slots", MaxClients)
	defer r.log.Info("relay stopped")

	return loop.Run(ctx, r.Tick)
}

// Tick processes one frame: drains the transport, relays snapshots and flushes.
func (r *Relay) Tick(f *frame.Frame) {
	f.Measure(frame.PhaseReceive, r.Receive)
	f.Measure(frame.PhaseSend, r.Broadcast)

	if f.Index%r.publishEvery == 0 {
		r.Publish()
	}
}

// Receive handles every datagram that arrived since the previous frame.
func (r *Relay) Receive() {
	r.transport.Drain(r.HandlePacket)
}

// HandlePacket processes a single datagram.
func (r *Relay) HandlePacket(data []byte, addr message.Address) {
	defer util.Recover(r.log)

	r.metrics.PacketsReceived.Add(1)

	msg, err := message.Parse(data)
	if errors.Is(err, message.ErrShortPacket) || errors.Is(err, message.ErrShortBody) {
		r.metrics.ShortPackets.Add(1)
		r.log.Debug("dropped short packet", "addr", addr, "size", len(data), "err", err)
		return
	}
	if err != nil {
		r.metrics.UnknownTypes.Add(1)
		r.log.Warn("dropped packet of unknown type", "addr", addr, "err", err)
		return
	}

	switch msg := msg.(type) {
	case *message.Connect:
		err = r.handleConnect(addr, msg)
	case *message.Disconnect:
		r.metrics.DisconnectsIgnored.Add(1)
		r.log.Info("disconnect received, ignored", "addr", addr)
	case *message.Snapshot:
		err = r.handleSnapshot(addr, msg)
	default:
		r.metrics.UnknownTypes.Add(1)
		r.log.Warn("unexpected packet", "addr", addr, "type", msg.Type())
	}

	if err != nil {
		r.log.Debug("packet dropped", "addr", addr, "type", msg.Type(), "err", err)
	}
}

// lookup returns the slot of the address. Slots are probed starting at the address IP
// modulo the table size, and the first slot that is either free or owned by the address is returned.
func (r *Relay) lookup(addr message.Address) (int, *Client) {
	for offset := uint32(0); offset < MaxClients; offset++ {
		idx := int((addr.IP + offset) % MaxClients)
		c := &r.clients[idx]
		if !c.Connected || c.Address == addr {
			return idx, c
		}
	}

	return -1, nil
}

func (r *Relay) handleConnect(addr message.Address, msg *message.Connect) error {
	idx, c := r.lookup(addr)
	if c == nil {
		r.metrics.FullRejections.Add(1)
		r.log.Info("server full, rejecting", "addr", addr, "nickname", msg.Nickname.String())
		r.send(&message.Disconnect{}, addr)
		return ErrServerFull
	}

	if c.Connected {
		return ErrAlreadyConnected
	}

	for i := range r.clients {
		other := &r.clients[i]
		if i != idx && other.Connected && other.Nickname.Equal(msg.Nickname) {
			r.metrics.DuplicateNicknames.Add(1)
			r.log.Info("nickname taken", "addr", addr, "nickname", msg.Nickname.String(), "owner", other.Address)
			return ErrDuplicateName
		}
	}

	c.Connected = true
	c.Address = addr
	c.Nickname = msg.Nickname
	c.Snapshot = message.Snapshot{}

	r.metrics.ConnectsAccepted.Add(1)
	r.log.Info("client connected", "addr", addr, "slot", idx, "nickname", msg.Nickname.String())

	r.send(&message.Accept{}, addr)

	return nil
}

func (r *Relay) handleSnapshot(addr message.Address, msg *message.Snapshot) error {
	_, c := r.lookup(addr)
	if c == nil || !c.Connected {
		r.metrics.UnconnectedSenders.Add(1)
		return ErrNotConnected
	}

	if !msg.Sequence.IsNewer(c.Snapshot.Sequence) {
		r.metrics.StaleSnapshots.Add(1)
		return ErrStaleSnapshot
	}

	c.Snapshot = *msg
	r.metrics.SnapshotsAccepted.Add(1)

	return nil
}

// Broadcast sends, to every connected client, the stored snapshot of every other
// connected client and flushes the transport. Each forwarded snapshot carries the slot
// of its owner and the sequence last received from its destination.
func (r *Relay) Broadcast() {
	for dst := range r.clients {
		to := &r.clients[dst]
		if !to.Connected {
			continue
		}

		for src := range r.clients {
			from := &r.clients[src]
			if src == dst || !from.Connected {
				continue
			}

			s := from.Snapshot
			s.Idx = uint8(src)
			s.Sequence = to.Snapshot.Sequence

			r.send(&s, to.Address)
			r.metrics.SnapshotsRelayed.Add(1)
		}
	}

	if err := r.transport.Flush(); err != nil {
		r.log.Warn("failed to flush", "err", err)
	}
}

func (r *Relay) send(msg message.Packet, addr message.Address) {
	n := message.Encode(msg, r.buf[:])
	r.transport.Send(r.buf[:n], addr)
}

// Client returns a copy of the slot. Must be called from the frame goroutine.
func (r *Relay) Client(idx int) Client {
	return r.clients[idx]
}

// Publish copies the connected clients for concurrent readers.
func (r *Relay) Publish() {
	var clients []ClientInfo
	for i := range r.clients {
		c := &r.clients[i]
		if !c.Connected {
			continue
		}

		clients = append(clients, ClientInfo{
			Slot:     i,
			Nickname: c.Nickname.String(),
			Address:  c.Address.String(),
			Sequence: uint16(c.Snapshot.Sequence),
			X:        c.Snapshot.Entity.P.Unit.X,
			Y:        c.Snapshot.Entity.P.Unit.Y,
			Spell:    c.Snapshot.Entity.SpellActive(),
		})
	}

	r.view.set(clients)
}

// Clients returns the connected clients as of the last Publish. Safe for concurrent use.
func (r *Relay) Clients() []ClientInfo {
	return r.view.get()
}

// Metrics is safe for concurrent use.
func (r *Relay) Metrics() *Metrics {
	return &r.metrics
}
