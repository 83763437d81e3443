// Copyright (c) 2024, 2026 by Marko Gaćeša.
// Licensed under the Apache License, Version 2.0.
// See the LICENSE file or http://www.apache.org/licenses/LICENSE-2.0 for details.

package message

import "encoding/binary"

// Prefix starts every announcement and must be there for successful deserialization.
var Prefix = binary.BigEndian.Uint32([]byte("<u*>"))

const SizeOfPrefix = 4

// Announce is multicast on the local network by a relay so that peers can find it.
type Announce struct {
	Port uint16
	Name string
}

func (m *Announce) Put(buf []byte) int {
	s := NewSerializer(buf)
	s.Put32(Prefix)
	s.Put16(m.Port)
	s.PutStr(m.Name)
	return s.Len()
}

func (m *Announce) Get(buf []byte) (int, error) {
	d := NewDeserializer(buf)

	var prefix uint32
	d.Get32(&prefix)
	if d.Error() == nil && prefix != Prefix {
		return d.Len(), ErrNotAnnounce
	}

	d.Get16(&m.Port)
	d.GetStr(&m.Name)

	return d.Len(), d.Error()
}

// ParseAnnounce reads an announcement datagram.
func ParseAnnounce(buf []byte) (Announce, error) {
	var a Announce
	if _, err := a.Get(buf); err != nil {
		return Announce{}, err
	}
	return a, nil
}
