// Copyright (c) 2026 by Marko Gaćeša.
// Licensed under the Apache License, Version 2.0.
// See the LICENSE file or http://www.apache.org/licenses/LICENSE-2.0 for details.

package server

import "sync/atomic"

// Metrics counts what the relay did with incoming packets.
// Counters are updated by the frame goroutine and can be read at any time.
type Metrics struct {
	PacketsReceived    atomic.Uint64
	ShortPackets       atomic.Uint64
	UnknownTypes       atomic.Uint64
	ConnectsAccepted   atomic.Uint64
	DuplicateNicknames atomic.Uint64
	FullRejections     atomic.Uint64
	DisconnectsIgnored atomic.Uint64
	SnapshotsAccepted  atomic.Uint64
	StaleSnapshots     atomic.Uint64
	UnconnectedSenders atomic.Uint64
	SnapshotsRelayed   atomic.Uint64
}

// Snapshot returns a read-only copy, keyed for JSON output.
func (m *Metrics) Snapshot() map[string]uint64 {
	return map[string]uint64{
		"packets_received":    m.PacketsReceived.Load(),
		"short_packets":       m.ShortPackets.Load(),
		"unknown_types":       m.UnknownTypes.Load(),
		"connects_accepted":   m.ConnectsAccepted.Load(),
		"duplicate_nicknames": m.DuplicateNicknames.Load(),
		"full_rejections":     m.FullRejections.Load(),
		"disconnects_ignored": m.DisconnectsIgnored.Load(),
		"snapshots_accepted":  m.SnapshotsAccepted.Load(),
		"stale_snapshots":     m.StaleSnapshots.Load(),
		"unconnected_senders": m.UnconnectedSenders.Load(),
		"snapshots_relayed":   m.SnapshotsRelayed.Load(),
	}
}
