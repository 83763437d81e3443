// Copyright (c) 2026 by Marko Gaćeša.
// Licensed under the Apache License, Version 2.0.
// See the LICENSE file or http://www.apache.org/licenses/LICENSE-2.0 for details.

package message

import "bytes"

const (
	nicknameCapacity = 32

	// MaxNicknameLen is the number of usable nickname bytes.
	MaxNicknameLen = nicknameCapacity - 1

	SizeOfNickname = nicknameCapacity + 4
)

// Nickname is a player name in a fixed buffer with an explicit length.
// The length never exceeds MaxNicknameLen.
type Nickname struct {
	buf  [nicknameCapacity]byte
	size uint32
}

// NewNickname returns the nickname, truncated to MaxNicknameLen bytes.
func NewNickname(s string) Nickname {
	var n Nickname
	n.size = uint32(copy(n.buf[:MaxNicknameLen], s))
	return n
}

func (n Nickname) String() string {
	return string(n.buf[:n.size])
}

func (n Nickname) Len() int {
	return int(n.size)
}

func (n Nickname) Equal(other Nickname) bool {
	return bytes.Equal(n.buf[:n.size], other.buf[:other.size])
}

func (n *Nickname) Put(buf []byte) int {
	s := NewSerializer(buf)
	s.PutRaw(n.buf[:])
	s.Put32(n.size)
	return s.Len()
}

// Get reads a nickname. A size larger than MaxNicknameLen is truncated.
func (n *Nickname) Get(buf []byte) (int, error) {
	d := NewDeserializer(buf)
	d.GetRaw(n.buf[:])
	d.Get32(&n.size)

	if n.size > MaxNicknameLen {
		n.size = MaxNicknameLen
	}
	n.buf[MaxNicknameLen] = 0

	return d.Len(), d.Error()
}
