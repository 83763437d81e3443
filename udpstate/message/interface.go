// Copyright (c) 2023, 2026 by Marko Gaćeša.
// Licensed under the Apache License, Version 2.0.
// See the LICENSE file or http://www.apache.org/licenses/LICENSE-2.0 for details.

package message

type Putter interface {
	Put([]byte) int
}

type Getter interface {
	Get([]byte) (int, error)
}

// Packet is a datagram body. Every packet on the wire is preceded by a Header.
type Packet interface {
	Putter
	Getter
	Type() PacketType
	size() int
}
