// Copyright (c) 2026 by Marko Gaćeša.
// Licensed under the Apache License, Version 2.0.
// See the LICENSE file or http://www.apache.org/licenses/LICENSE-2.0 for details.

package server

import (
	"slices"

	"github.com/sasha-s/go-deadlock"
)

// ClientInfo is a read-only description of a connected client.
type ClientInfo struct {
	Slot     int    `json:"slot" msgpack:"slot"`
	Nickname string `json:"nickname" msgpack:"nickname"`
	Address  string `json:"address" msgpack:"address"`
	Sequence uint16 `json:"sequence" msgpack:"sequence"`
	X        int32  `json:"x" msgpack:"x"`
	Y        int32  `json:"y" msgpack:"y"`
	Spell    bool   `json:"spell" msgpack:"spell"`
}

// view is the copy of the client table that other goroutines are allowed to read.
type view struct {
	mx      deadlock.RWMutex
	clients []ClientInfo
}

func (v *view) set(clients []ClientInfo) {
	v.mx.Lock()
	v.clients = clients
	v.mx.Unlock()
}

func (v *view) get() []ClientInfo {
	v.mx.RLock()
	defer v.mx.RUnlock()
	return slices.Clone(v.clients)
}
