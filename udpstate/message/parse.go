// Copyright (c) 2023, 2026 by Marko Gaćeša.
// Licensed under the Apache License, Version 2.0.
// See the LICENSE file or http://www.apache.org/licenses/LICENSE-2.0 for details.

package message

import "fmt"

// Parse reads a datagram. It checks, in order, that the buffer holds a header,
// that the packet type is known and that the body is long enough for the type.
func Parse(buf []byte) (Packet, error) {
	var h Header
	n, err := h.Get(buf)
	if err != nil {
		return nil, ErrShortPacket
	}

	var msg Packet

	switch h.Type {
	case TypeConnect:
		msg = &Connect{}
	case TypeAccept:
		msg = &Accept{}
	case TypeDisconnect:
		msg = &Disconnect{}
	case TypeSnapshot:
		msg = &Snapshot{}
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownType, h.Type)
	}

	if len(buf)-n < msg.size() {
		return nil, fmt.Errorf("%w: %s needs %d bytes, got %d", ErrShortBody, h.Type, msg.size(), len(buf)-n)
	}

	if _, err = msg.Get(buf[n:]); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrShortBody, h.Type, err)
	}

	return msg, nil
}

// Encode writes the header and the packet into buf and returns the number of bytes written.
// It panics if buf is too small.
func Encode(msg Packet, buf []byte) int {
	h := Header{Protocol: ProtocolVersion, Type: msg.Type()}

	s := NewSerializer(buf)
	s.Put(&h)
	s.Put(msg)
	return s.Len()
}

// Size returns the encoded size of the packet, including the header.
func Size(msg Packet) int {
	return SizeOfHeader + msg.size()
}
