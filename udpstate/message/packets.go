// Copyright (c) 2026 by Marko Gaćeša.
// Licensed under the Apache License, Version 2.0.
// See the LICENSE file or http://www.apache.org/licenses/LICENSE-2.0 for details.

package message

import (
	"github.com/marko-gacesa/udpstate/sequence"
	"github.com/marko-gacesa/udpstate/udpstate/physics"
)

// Connect is sent by a peer to the relay, every tick, until accepted.
type Connect struct {
	Nickname Nickname
}

var _ Packet = (*Connect)(nil)

func (*Connect) Type() PacketType { return TypeConnect }
func (*Connect) size() int        { return SizeOfNickname }

func (m *Connect) Put(buf []byte) int {
	s := NewSerializer(buf)
	s.Put(&m.Nickname)
	return s.Len()
}

func (m *Connect) Get(buf []byte) (int, error) {
	d := NewDeserializer(buf)
	d.Get(&m.Nickname)
	return d.Len(), d.Error()
}

// Accept is the relay's reply to a successful Connect.
type Accept struct{}

var _ Packet = (*Accept)(nil)

func (*Accept) Type() PacketType        { return TypeAccept }
func (*Accept) size() int               { return 0 }
func (*Accept) Put([]byte) int          { return 0 }
func (*Accept) Get([]byte) (int, error) { return 0, nil }

// Disconnect is sent by the relay when it has no free slot for a peer.
type Disconnect struct{}

var _ Packet = (*Disconnect)(nil)

func (*Disconnect) Type() PacketType        { return TypeDisconnect }
func (*Disconnect) size() int               { return 0 }
func (*Disconnect) Put([]byte) int          { return 0 }
func (*Disconnect) Get([]byte) (int, error) { return 0, nil }

// Snapshot carries the complete state of one player.
//
// Idx is the relay slot of the player the state belongs to; peers ignore it when sending.
// TimeSinceUpdate is local bookkeeping of the receiver and carries no meaning on the wire.
type Snapshot struct {
	Idx             uint8
	Sequence        sequence.Seq16
	TimeSinceUpdate float32
	Entity          physics.Entity
}

var _ Packet = (*Snapshot)(nil)

const SizeOfSnapshot = 1 + 2 + 4 + SizeOfEntity

func (*Snapshot) Type() PacketType { return TypeSnapshot }
func (*Snapshot) size() int        { return SizeOfSnapshot }

func (m *Snapshot) Put(buf []byte) int {
	s := NewSerializer(buf)
	s.Put8(m.Idx)
	s.Put16(uint16(m.Sequence))
	s.PutFloat32(m.TimeSinceUpdate)
	putEntity(&s, &m.Entity)
	return s.Len()
}

func (m *Snapshot) Get(buf []byte) (int, error) {
	d := NewDeserializer(buf)
	d.Get8(&m.Idx)
	d.Get16((*uint16)(&m.Sequence))
	d.GetFloat32(&m.TimeSinceUpdate)
	getEntity(&d, &m.Entity)
	return d.Len(), d.Error()
}
