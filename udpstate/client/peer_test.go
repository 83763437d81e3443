// Copyright (c) 2026 by Marko Gaćeša.
// Licensed under the Apache License, Version 2.0.
// See the LICENSE file or http://www.apache.org/licenses/LICENSE-2.0 for details.

package client

import (
	"io"
	"log/slog"
	"testing"

	"github.com/marko-gacesa/udpstate/sequence"
	"github.com/marko-gacesa/udpstate/udpstate/memnet"
	"github.com/marko-gacesa/udpstate/udpstate/message"
	"github.com/marko-gacesa/udpstate/udpstate/physics"
)

const dt = float32(1.0 / 60)

var (
	addrServer = message.Address{IP: 0x7F000001, Port: 54321}
	addrPeer   = message.Address{IP: 0x7F000001, Port: 40000}
	addrOther  = message.Address{IP: 0x7F000002, Port: 54321}
)

func newTestPeer(opts ...func(*Peer)) (*Peer, *memnet.Node, *memnet.Node) {
	w := memnet.New()
	peerNode := w.Node(addrPeer)
	serverNode := w.Node(addrServer)

	opts = append([]func(*Peer){WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))}, opts...)
	p := New(peerNode, addrServer, "tester", opts...)

	return p, peerNode, serverNode
}

func encode(msg message.Packet) []byte {
	buf := make([]byte, message.Size(msg))
	message.Encode(msg, buf)
	return buf
}

func collect(t *testing.T, node *memnet.Node) []message.Packet {
	t.Helper()

	var list []message.Packet
	node.Drain(func(data []byte, addr message.Address) {
		if want, got := addrPeer, addr; want != got {
			t.Errorf("sender: want=%v, got=%v", want, got)
		}
		msg, err := message.Parse(data)
		if err != nil {
			t.Fatalf("failed to parse: %v", err)
		}
		list = append(list, msg)
	})

	return list
}

func connectPeer(t *testing.T, p *Peer, peerNode, serverNode *memnet.Node) {
	t.Helper()

	p.Step(dt)
	peerNode.Inject(encode(&message.Accept{}), addrServer)
	p.Step(dt)

	if !p.Connected() {
		t.Fatalf("peer did not connect")
	}

	collect(t, serverNode)
}

func TestPeer_Connect(t *testing.T) {
	p, peerNode, serverNode := newTestPeer()

	for i := 0; i < 3; i++ {
		p.Step(dt)
	}

	sent := collect(t, serverNode)
	if want, got := 3, len(sent); want != got {
		t.Fatalf("sent: want=%d, got=%d", want, got)
	}
	for _, msg := range sent {
		c, ok := msg.(*message.Connect)
		if !ok {
			t.Fatalf("expected connect, got %+v", msg)
		}
		if want, got := "tester", c.Nickname.String(); want != got {
			t.Errorf("nickname: want=%s, got=%s", want, got)
		}
	}

	if p.Connected() {
		t.Fatalf("connected without accept")
	}
	if want, got := sequence.Seq16(3), p.FrameIndex(); want != got {
		t.Errorf("frame index: want=%d, got=%d", want, got)
	}

	spawn := p.Entity()

	peerNode.Inject(encode(&message.Accept{}), addrServer)
	p.Step(dt)

	if !p.Connected() {
		t.Fatalf("not connected after accept")
	}

	sent = collect(t, serverNode)
	if want, got := 2, len(sent); want != got {
		t.Fatalf("sent: want=%d, got=%d", want, got)
	}
	if _, ok := sent[0].(*message.Connect); !ok {
		t.Errorf("expected connect first, got %+v", sent[0])
	}

	s, ok := sent[1].(*message.Snapshot)
	if !ok {
		t.Fatalf("expected snapshot, got %+v", sent[1])
	}
	if want, got := sequence.Seq16(3), s.Sequence; want != got {
		t.Errorf("sequence: want=%d, got=%d", want, got)
	}
	if s.Entity == spawn {
		t.Errorf("the entity was not simulated")
	}
	if want, got := p.Entity(), s.Entity; want != got {
		t.Errorf("snapshot must carry the simulated entity: want=%+v, got=%+v", want, got)
	}

	// accept is idempotent and connect is no longer sent
	peerNode.Inject(encode(&message.Accept{}), addrServer)
	p.Step(dt)

	sent = collect(t, serverNode)
	if want, got := 1, len(sent); want != got {
		t.Fatalf("sent: want=%d, got=%d", want, got)
	}
	if s, ok := sent[0].(*message.Snapshot); !ok || s.Sequence != 4 {
		t.Errorf("expected snapshot 4, got %+v", sent[0])
	}
}

func TestPeer_ServerFull(t *testing.T) {
	p, peerNode, serverNode := newTestPeer()

	p.Step(dt)
	peerNode.Inject(encode(&message.Disconnect{}), addrServer)
	p.Step(dt)
	p.Step(dt)

	if p.Connected() {
		t.Fatalf("connected after disconnect")
	}

	sent := collect(t, serverNode)
	if want, got := 3, len(sent); want != got {
		t.Fatalf("the peer must keep retrying: want=%d, got=%d", want, got)
	}
	for _, msg := range sent {
		if _, ok := msg.(*message.Connect); !ok {
			t.Errorf("expected connect, got %+v", msg)
		}
	}
}

func TestPeer_IgnoresForeignSender(t *testing.T) {
	p, peerNode, _ := newTestPeer()

	peerNode.Inject(encode(&message.Accept{}), addrOther)
	peerNode.Inject([]byte{1, 2, 3}, addrServer)
	p.Step(dt)

	if p.Connected() {
		t.Errorf("accepted by a stranger")
	}
}

func TestPeer_SnapshotsBeforeAccept(t *testing.T) {
	p, peerNode, serverNode := newTestPeer()

	peerNode.Inject(encode(&message.Snapshot{Idx: 3, Sequence: 1}), addrServer)
	p.Step(dt)

	if _, seen := p.Remote(3); seen {
		t.Errorf("snapshot stored before connecting")
	}

	connectPeer(t, p, peerNode, serverNode)
}

func TestPeer_Merge(t *testing.T) {
	p, peerNode, serverNode := newTestPeer()
	connectPeer(t, p, peerNode, serverNode)

	remoteEntity := func(x int32) physics.Entity {
		e := physics.NewPlayer()
		e.P.Unit.X = x
		return e
	}

	receive := func(idx uint8, seq sequence.Seq16, x int32) {
		peerNode.Inject(encode(&message.Snapshot{
			Idx:             idx,
			Sequence:        seq,
			TimeSinceUpdate: 99,
			Entity:          remoteEntity(x),
		}), addrServer)
		p.Step(dt)
	}

	check := func(name string, idx int, expX int32, expAge float32) {
		t.Helper()

		s, seen := p.Remote(idx)
		if !seen {
			t.Fatalf("%s: slot %d not seen", name, idx)
		}
		if want, got := expX, s.Entity.P.Unit.X; want != got {
			t.Errorf("%s: x: want=%d, got=%d", name, want, got)
		}
		if want, got := expAge, s.TimeSinceUpdate; want != got {
			t.Errorf("%s: age: want=%v, got=%v", name, want, got)
		}
	}

	receive(5, 100, 1)
	check("first", 5, 1, 0)

	p.Step(dt)
	check("aged", 5, 1, dt)

	receive(5, 99, 2)
	check("older", 5, 1, dt+dt)

	receive(5, 100, 3)
	check("equal", 5, 1, dt+dt+dt)

	receive(5, 101, 4)
	check("newer", 5, 4, 0)

	// first sighting is accepted whatever the sequence
	receive(6, 40000, 5)
	check("first-high", 6, 5, 0)

	receive(200, 1, 6)
	if _, seen := p.Remote(200); seen {
		t.Errorf("out of range slot stored")
	}

	remotes := p.Remotes()
	if want, got := 2, len(remotes); want != got {
		t.Fatalf("remotes: want=%d, got=%d", want, got)
	}
	if remotes[0].Idx != 5 || remotes[1].Idx != 6 {
		t.Errorf("remotes must be ordered by slot: %d, %d", remotes[0].Idx, remotes[1].Idx)
	}
}

func TestPeer_Simulates(t *testing.T) {
	p, peerNode, serverNode := newTestPeer()
	connectPeer(t, p, peerNode, serverNode)

	for i := 0; i < 300; i++ {
		p.Step(dt)
	}

	if want, got := int32(8), p.Entity().P.Unit.Y; want != got {
		t.Errorf("the player must land on the level: want=%d, got=%d", want, got)
	}

	cam := p.Camera()
	if d := cam.Diff(p.Entity().P); d.Y < -1 || d.Y > 1 {
		t.Errorf("camera did not follow: camera=%+v player=%+v", cam, p.Entity().P)
	}

	sent := collect(t, serverNode)
	if want, got := 300, len(sent); want != got {
		t.Fatalf("one snapshot per frame: want=%d, got=%d", want, got)
	}

	last := sent[len(sent)-1].(*message.Snapshot)
	if want, got := p.FrameIndex()-1, last.Sequence; want != got {
		t.Errorf("sequence: want=%d, got=%d", want, got)
	}
}

func TestPeer_Input(t *testing.T) {
	right := InputFunc(func() physics.Intent { return physics.Intent{MoveX: 1} })

	level := physics.NewLevel(physics.Rect{X0: -1000, Y0: -16, X1: 1000, Y1: 0})
	start := physics.NewPlayer()
	start.P = physics.Position{}

	p, peerNode, serverNode := newTestPeer(WithInput(right), WithLevel(level), WithEntity(start))
	connectPeer(t, p, peerNode, serverNode)

	for i := 0; i < 60; i++ {
		p.Step(dt)
	}

	if x := p.Entity().P.Unit.X; x <= 0 {
		t.Errorf("the player must run right, x=%d", x)
	}
	if want, got := int32(1), p.Entity().Direction; want != got {
		t.Errorf("direction: want=%d, got=%d", want, got)
	}
}
