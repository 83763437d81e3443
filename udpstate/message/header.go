// Copyright (c) 2026 by Marko Gaćeša.
// Licensed under the Apache License, Version 2.0.
// See the LICENSE file or http://www.apache.org/licenses/LICENSE-2.0 for details.

package message

import "strconv"

// MaxMessageSize is maximum safe UDP message size.
// https://stackoverflow.com/questions/1098897/what-is-the-largest-safe-udp-packet-size-on-the-internet
const MaxMessageSize = 508

// ProtocolVersion is written into every header. Receivers do not check it.
const ProtocolVersion = 0

type PacketType uint32

const (
	TypeInvalid PacketType = iota
	TypeConnect
	TypeAccept
	TypeDisconnect
	TypeSnapshot
)

func (t PacketType) String() string {
	switch t {
	case TypeInvalid:
		return "invalid"
	case TypeConnect:
		return "connect"
	case TypeAccept:
		return "accept"
	case TypeDisconnect:
		return "disconnect"
	case TypeSnapshot:
		return "snapshot"
	}
	return "unknown(" + strconv.FormatUint(uint64(t), 10) + ")"
}

type Header struct {
	Protocol uint32
	Type     PacketType
}

const SizeOfHeader = 8

func (h *Header) Put(buf []byte) int {
	s := NewSerializer(buf)
	s.Put32(h.Protocol)
	s.Put32(uint32(h.Type))
	return s.Len()
}

func (h *Header) Get(buf []byte) (int, error) {
	d := NewDeserializer(buf)
	d.Get32(&h.Protocol)
	d.Get32((*uint32)(&h.Type))
	return d.Len(), d.Error()
}
