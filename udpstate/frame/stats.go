// Copyright (c) 2026 by Marko Gaćeša.
// Licensed under the Apache License, Version 2.0.
// See the LICENSE file or http://www.apache.org/licenses/LICENSE-2.0 for details.

package frame

import (
	"sync/atomic"
	"time"
)

// Phase is a measured part of a frame.
type Phase int

const (
	// PhaseCycle is the whole frame, including the sleep.
	PhaseCycle Phase = iota
	// PhaseWork is the tick function.
	PhaseWork
	PhaseReceive
	PhaseSend
	phaseCount
)

func (p Phase) String() string {
	switch p {
	case PhaseCycle:
		return "cycle"
	case PhaseWork:
		return "work"
	case PhaseReceive:
		return "receive"
	case PhaseSend:
		return "send"
	}
	return "unknown"
}

// Stats holds the last measured duration and the hit count of every phase.
// It is written by the frame goroutine and can be read concurrently.
type Stats struct {
	last [phaseCount]atomic.Int64
	hits [phaseCount]atomic.Uint64
}

func (s *Stats) record(phase Phase, d time.Duration) {
	s.last[phase].Store(int64(d))
	s.hits[phase].Add(1)
}

// Last returns the most recent duration of the phase.
func (s *Stats) Last(phase Phase) time.Duration {
	return time.Duration(s.last[phase].Load())
}

// Hits returns how many times the phase has been measured.
func (s *Stats) Hits(phase Phase) uint64 {
	return s.hits[phase].Load()
}

type PhaseStats struct {
	LastMS float64 `json:"last_ms"`
	Hits   uint64  `json:"hits"`
}

// Snapshot returns all phases keyed by name.
func (s *Stats) Snapshot() map[string]PhaseStats {
	m := make(map[string]PhaseStats, phaseCount)
	for p := PhaseCycle; p < phaseCount; p++ {
		m[p.String()] = PhaseStats{
			LastMS: float64(s.Last(p)) / float64(time.Millisecond),
			Hits:   s.Hits(p),
		}
	}
	return m
}
