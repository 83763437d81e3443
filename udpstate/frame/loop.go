// Copyright (c) 2026 by Marko Gaćeša.
// Licensed under the Apache License, Version 2.0.
// See the LICENSE file or http://www.apache.org/licenses/LICENSE-2.0 for details.

package frame

import (
	"context"
	"log/slog"
	"time"
)

const HzDefault = 60

// Loop calls a tick function at a fixed rate. After each tick it sleeps for
// what is left of the frame period, rounded up to the next millisecond.
// A tick that takes longer than the period is followed immediately by the next one.
type Loop struct {
	hz     int
	period time.Duration
	now    func() time.Time
	sleep  func(ctx context.Context, d time.Duration)
	stats  Stats
	log    *slog.Logger
}

// Frame is passed to the tick function.
type Frame struct {
	Index uint64
	DT    float32 // seconds

	loop *Loop
}

// Measure calls fn and records its duration as the phase.
func (f *Frame) Measure(phase Phase, fn func()) {
	start := f.loop.now()
	fn()
	f.loop.stats.record(phase, f.loop.now().Sub(start))
}

func New(opts ...func(*Loop)) *Loop {
	l := &Loop{
		hz:    HzDefault,
		now:   time.Now,
		sleep: sleepCtx,
		log:   slog.Default(),
	}

	for _, opt := range opts {
		opt(l)
	}

	l.period = time.Second / time.Duration(l.hz)

	return l
}

var WithHz = func(hz int) func(*Loop) {
	return func(l *Loop) {
		if hz > 0 {
			l.hz = hz
		}
	}
}

var WithClock = func(now func() time.Time) func(*Loop) {
	return func(l *Loop) {
		if now != nil {
			l.now = now
		}
	}
}

var WithSleep = func(sleep func(ctx context.Context, d time.Duration)) func(*Loop) {
	return func(l *Loop) {
		if sleep != nil {
			l.sleep = sleep
		}
	}
}

var WithLogger = func(log *slog.Logger) func(*Loop) {
	return func(l *Loop) {
		if log != nil {
			l.log = log
		}
	}
}

func (l *Loop) Hz() int { return l.hz }

func (l *Loop) Period() time.Duration { return l.period }

// DT returns the frame period in seconds.
func (l *Loop) DT() float32 { return float32(l.period.Seconds()) }

func (l *Loop) Stats() *Stats { return &l.stats }

// Run calls tick once per frame until the context is cancelled.
// Cancellation is checked at the start of every frame. Run returns nil when stopped by the context.
func (l *Loop) Run(ctx context.Context, tick func(*Frame)) error {
	l.log.Debug("frame loop started", "hz", l.hz)
	defer l.log.Debug("frame loop stopped")

	f := Frame{DT: l.DT(), loop: l}

	for ; ; f.Index++ {
		if ctx.Err() != nil {
			return nil
		}

		start := l.now()

		tick(&f)

		work := l.now().Sub(start)
		l.stats.record(PhaseWork, work)

		if remaining := l.period - work; remaining > 0 {
			l.sleep(ctx, ceilMillisecond(remaining))
		}

		l.stats.record(PhaseCycle, l.now().Sub(start))
	}
}

func ceilMillisecond(d time.Duration) time.Duration {
	return (d + time.Millisecond - 1).Truncate(time.Millisecond)
}

func sleepCtx(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
