// Copyright (c) 2026 by Marko Gaćeša.
// Licensed under the Apache License, Version 2.0.
// See the LICENSE file or http://www.apache.org/licenses/LICENSE-2.0 for details.

package frame

import (
	"context"
	"reflect"
	"testing"
	"time"
)

type fakeClock struct {
	t      time.Time
	sleeps []time.Duration
}

func (c *fakeClock) now() time.Time { return c.t }

func (c *fakeClock) sleep(_ context.Context, d time.Duration) {
	c.sleeps = append(c.sleeps, d)
	c.t = c.t.Add(d)
}

func TestLoop_Run(t *testing.T) {
	clock := &fakeClock{t: time.Unix(1000, 0)}
	loop := New(WithClock(clock.now), WithSleep(clock.sleep))

	if want, got := time.Duration(16666666), loop.Period(); want != got {
		t.Fatalf("period: want=%v, got=%v", want, got)
	}

	work := []time.Duration{
		5 * time.Millisecond,
		16 * time.Millisecond,
		20 * time.Millisecond,
		0,
		16666666 * time.Nanosecond,
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var indices []uint64

	err := loop.Run(ctx, func(f *Frame) {
		indices = append(indices, f.Index)
		clock.t = clock.t.Add(work[f.Index])
		if int(f.Index) == len(work)-1 {
			cancel()
		}
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if want, got := []uint64{0, 1, 2, 3, 4}, indices; !reflect.DeepEqual(want, got) {
		t.Errorf("indices: want=%v, got=%v", want, got)
	}

	// 11.67ms -> 12ms, 0.67ms -> 1ms, overrun -> none, 16.67ms -> 17ms, exact -> none
	exp := []time.Duration{12 * time.Millisecond, time.Millisecond, 17 * time.Millisecond}
	if want, got := exp, clock.sleeps; !reflect.DeepEqual(want, got) {
		t.Errorf("sleeps: want=%v, got=%v", want, got)
	}

	stats := loop.Stats()
	if want, got := uint64(len(work)), stats.Hits(PhaseWork); want != got {
		t.Errorf("work hits: want=%d, got=%d", want, got)
	}
	if want, got := uint64(len(work)), stats.Hits(PhaseCycle); want != got {
		t.Errorf("cycle hits: want=%d, got=%d", want, got)
	}
	if want, got := work[len(work)-1], stats.Last(PhaseWork); want != got {
		t.Errorf("last work: want=%v, got=%v", want, got)
	}
}

func TestLoop_CancelledBeforeStart(t *testing.T) {
	loop := New()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	if err := loop.Run(ctx, func(*Frame) { called = true }); err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	if called {
		t.Errorf("tick must not be called after cancellation")
	}
}

func TestFrame_Measure(t *testing.T) {
	clock := &fakeClock{t: time.Unix(1000, 0)}
	loop := New(WithHz(30), WithClock(clock.now), WithSleep(clock.sleep))

	if want, got := float32(1.0/30), loop.DT(); got < want-1e-6 || got > want+1e-6 {
		t.Errorf("dt: want=%v, got=%v", want, got)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	_ = loop.Run(ctx, func(f *Frame) {
		f.Measure(PhaseReceive, func() { clock.t = clock.t.Add(3 * time.Millisecond) })
		f.Measure(PhaseSend, func() { clock.t = clock.t.Add(time.Millisecond) })
		cancel()
	})

	stats := loop.Stats().Snapshot()

	if want, got := 3.0, stats["receive"].LastMS; want != got {
		t.Errorf("receive: want=%v, got=%v", want, got)
	}
	if want, got := 1.0, stats["send"].LastMS; want != got {
		t.Errorf("send: want=%v, got=%v", want, got)
	}
	if want, got := 4.0, stats["work"].LastMS; want != got {
		t.Errorf("work: want=%v, got=%v", want, got)
	}
	if want, got := uint64(1), stats["cycle"].Hits; want != got {
		t.Errorf("cycle hits: want=%d, got=%d", want, got)
	}
}

func TestCeilMillisecond(t *testing.T) {
	tests := []struct {
		in, exp time.Duration
	}{
		{in: 0, exp: 0},
		{in: 1, exp: time.Millisecond},
		{in: time.Millisecond, exp: time.Millisecond},
		{in: time.Millisecond + 1, exp: 2 * time.Millisecond},
		{in: 11666666, exp: 12 * time.Millisecond},
	}

	for _, test := range tests {
		if want, got := test.exp, ceilMillisecond(test.in); want != got {
			t.Errorf("in=%v: want=%v, got=%v", test.in, want, got)
		}
	}
}
