// Copyright (c) 2026 by Marko Gaćeša.
// Licensed under the Apache License, Version 2.0.
// See the LICENSE file or http://www.apache.org/licenses/LICENSE-2.0 for details.

package message

import "errors"

var (
	ErrBufferOverrun  = errors.New("message: buffer overrun")
	ErrShortPacket    = errors.New("message: packet shorter than header")
	ErrUnknownType    = errors.New("message: unknown packet type")
	ErrShortBody      = errors.New("message: packet body too short")
	ErrNotAnnounce    = errors.New("message: not an announcement")
	ErrInvalidAddress = errors.New("message: invalid IPv4 address")
	ErrInvalidPort    = errors.New("message: invalid port")
)
