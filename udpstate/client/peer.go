// Copyright (c) 2023, 2026 by Marko Gaćeša.
// Licensed under the Apache License, Version 2.0.
// See the LICENSE file or http://www.apache.org/licenses/LICENSE-2.0 for details.

package client

import (
	"context"
	"errors"
	"log/slog"

	"github.com/marko-gacesa/udpstate/sequence"
	"github.com/marko-gacesa/udpstate/udpstate"
	"github.com/marko-gacesa/udpstate/udpstate/frame"
	"github.com/marko-gacesa/udpstate/udpstate/message"
	"github.com/marko-gacesa/udpstate/udpstate/physics"
	"github.com/marko-gacesa/udpstate/udpstate/server"
	"github.com/marko-gacesa/udpstate/udpstate/util"
)

type remote struct {
	seen     bool
	snapshot message.Snapshot
}

// Peer simulates the local player, sends its state to the relay every frame
// and keeps the latest state of every other player received from the relay.
//
// Until the relay accepts it, the peer sends Connect every frame and does nothing else.
// All methods must be called from the frame goroutine.
type Peer struct {
	transport udpstate.Transport
	server    message.Address
	nickname  message.Nickname
	input     InputSource

	connected bool
	frameIdx  sequence.Counter

	spec   physics.Spec
	level  physics.Level
	entity physics.Entity
	camera physics.Camera

	remotes [server.MaxClients]remote

	buf [message.MaxMessageSize]byte

	log *slog.Logger
}

func New(transport udpstate.Transport, serverAddr message.Address, nickname string, opts ...func(*Peer)) *Peer {
	spec := physics.DefaultSpec()

	p := &Peer{
		transport: transport,
		server:    serverAddr,
		nickname:  message.NewNickname(nickname),
		input:     IdleInput{},
		spec:      spec,
		level:     physics.DefaultLevel(spec.MetersToUnits),
		entity:    physics.NewPlayer(),
		log:       slog.Default(),
	}

	for _, opt := range opts {
		opt(p)
	}

	p.camera = physics.NewCamera(p.entity.P)
	p.log = p.log.With("nickname", p.nickname.String())

	return p
}

var WithLogger = func(log *slog.Logger) func(*Peer) {
	return func(p *Peer) {
		if log != nil {
			p.log = log
		}
	}
}

var WithInput = func(input InputSource) func(*Peer) {
	return func(p *Peer) {
		if input != nil {
			p.input = input
		}
	}
}

// WithSpec replaces the movement tuning. The level is rebuilt for the new scale.
var WithSpec = func(spec physics.Spec) func(*Peer) {
	return func(p *Peer) {
		p.spec = spec
		p.level = physics.DefaultLevel(spec.MetersToUnits)
	}
}

var WithLevel = func(level physics.Level) func(*Peer) {
	return func(p *Peer) {
		p.level = level
	}
}

// WithEntity replaces the spawn state of the local player.
var WithEntity = func(e physics.Entity) func(*Peer) {
	return func(p *Peer) {
		p.entity = e
	}
}

// Run drives the peer with the frame loop until the context is done.
func (p *Peer) Run(ctx context.Context, loop *frame.Loop) error {
	p.log.Info("peer started", "server", p.server, "hz", loop.Hz())
	defer p.log.Info("peer stopped")

	return loop.Run(ctx, p.Tick)
}

// Tick processes one frame.
func (p *Peer) Tick(f *frame.Frame) {
	p.step(f.DT, f.Measure)
}

// Step processes one frame of dt seconds.
func (p *Peer) Step(dt float32) {
	p.step(dt, func(_ frame.Phase, fn func()) { fn() })
}

func (p *Peer) step(dt float32, measure func(frame.Phase, func())) {
	if !p.connected {
		measure(frame.PhaseSend, p.sendConnect)
		measure(frame.PhaseReceive, p.receive)
	}

	if p.connected {
		p.age(dt)
		measure(frame.PhaseReceive, p.receive)

		physics.Step(&p.entity, p.input.Intent(), p.level, p.spec, dt)
		p.camera.Follow(p.entity.P, dt)

		measure(frame.PhaseSend, p.sendSnapshot)
	}

	p.frameIdx.Inc()
}

func (p *Peer) age(dt float32) {
	for i := range p.remotes {
		if p.remotes[i].seen {
			p.remotes[i].snapshot.TimeSinceUpdate += dt
		}
	}
}

func (p *Peer) receive() {
	p.transport.Drain(p.HandlePacket)
}

// HandlePacket processes a single datagram. Datagrams not sent by the relay are ignored.
func (p *Peer) HandlePacket(data []byte, addr message.Address) {
	defer util.Recover(p.log)

	if addr != p.server {
		p.log.Debug("ignored datagram from unknown sender", "addr", addr)
		return
	}

	msg, err := message.Parse(data)
	if errors.Is(err, message.ErrUnknownType) {
		p.log.Warn("dropped packet of unknown type", "err", err)
		return
	}
	if err != nil {
		p.log.Debug("dropped malformed packet", "size", len(data), "err", err)
		return
	}

	switch msg := msg.(type) {
	case *message.Accept:
		if !p.connected {
			p.connected = true
			p.log.Info("connected", "server", p.server)
		}
	case *message.Disconnect:
		if !p.connected {
			p.log.Warn("server full", "server", p.server)
		}
	case *message.Snapshot:
		if p.connected {
			p.merge(msg)
		}
	}
}

// merge stores the snapshot if its slot was never seen or if it is newer than the stored one.
func (p *Peer) merge(s *message.Snapshot) {
	if int(s.Idx) >= len(p.remotes) {
		p.log.Debug("snapshot for an invalid slot", "slot", s.Idx)
		return
	}

	r := &p.remotes[s.Idx]
	if r.seen && !s.Sequence.IsNewer(r.snapshot.Sequence) {
		return
	}

	r.seen = true
	r.snapshot = *s
	r.snapshot.TimeSinceUpdate = 0
}

func (p *Peer) sendConnect() {
	p.send(&message.Connect{Nickname: p.nickname})
}

func (p *Peer) sendSnapshot() {
	p.send(&message.Snapshot{
		Sequence: p.frameIdx.Current(),
		Entity:   p.entity,
	})
}

func (p *Peer) send(msg message.Packet) {
	n := message.Encode(msg, p.buf[:])
	p.transport.Send(p.buf[:n], p.server)

	if err := p.transport.Flush(); err != nil {
		p.log.Warn("failed to flush", "err", err)
	}
}

func (p *Peer) Connected() bool { return p.connected }

func (p *Peer) Nickname() string { return p.nickname.String() }

// FrameIndex returns the sequence number of the next frame.
func (p *Peer) FrameIndex() sequence.Seq16 { return p.frameIdx.Current() }

func (p *Peer) Entity() physics.Entity { return p.entity }

func (p *Peer) Camera() physics.Position { return p.camera.P }

// Remote returns the latest snapshot of the slot and whether the slot has ever been seen.
func (p *Peer) Remote(idx int) (message.Snapshot, bool) {
	if idx < 0 || idx >= len(p.remotes) {
		return message.Snapshot{}, false
	}
	r := p.remotes[idx]
	return r.snapshot, r.seen
}

// Remotes returns the snapshots of all seen slots, ordered by slot.
func (p *Peer) Remotes() []message.Snapshot {
	var list []message.Snapshot
	for i := range p.remotes {
		if p.remotes[i].seen {
			list = append(list, p.remotes[i].snapshot)
		}
	}
	return list
}
