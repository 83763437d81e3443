// Copyright (c) 2025, 2026 by Marko Gaćeša.
// Licensed under the Apache License, Version 2.0.
// See the LICENSE file or http://www.apache.org/licenses/LICENSE-2.0 for details.

package udp

import (
	"context"
	"errors"
	"net"
	"slices"
	"sync"
	"testing"
	"time"
)

func listenLoopback(t *testing.T) *Socket {
	t.Helper()

	s, err := ListenAddr(&net.UDPAddr{IP: net.IPv4(127, 0, 0, 1), Port: 0},
		WithBreakPeriod(50*time.Millisecond),
		WithHandleError(func(err error) { t.Log(err) }))
	if err != nil {
		t.Fatalf("failed to listen: %v", err)
	}

	return s
}

func TestSocket(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	a := listenLoopback(t)
	b := listenLoopback(t)

	var wg sync.WaitGroup
	wg.Add(2)
	for _, s := range []*Socket{a, b} {
		go func() {
			defer wg.Done()
			if err := s.Run(ctx); err != nil {
				t.Errorf("run failed: %v", err)
			}
		}()
	}

	exp := []string{"one", "two", "three"}
	for _, msg := range exp {
		a.Send([]byte(msg), b.LocalAddr())
	}

	if err := a.Flush(); err != nil {
		t.Fatalf("failed to flush: %v", err)
	}

	var got []string
	deadline := time.Now().Add(2 * time.Second)
	for len(got) < len(exp) && time.Now().Before(deadline) {
		b.Drain(func(data []byte, addr *net.UDPAddr) {
			if want, got := a.LocalAddr().Port, addr.Port; want != got {
				t.Errorf("sender port: want=%d, got=%d", want, got)
			}
			got = append(got, string(data))
		})
		time.Sleep(time.Millisecond)
	}

	slices.Sort(exp)
	slices.Sort(got)
	if !slices.Equal(exp, got) {
		t.Errorf("want=%v, got=%v", exp, got)
	}

	if n := b.Drain(func([]byte, *net.UDPAddr) {}); n != 0 {
		t.Errorf("expected an empty queue, got %d datagrams", n)
	}

	cancel()
	wg.Wait()

	_ = a.Close()
	_ = b.Close()
}

func TestSocket_FlushEmpty(t *testing.T) {
	s := listenLoopback(t)
	defer s.Close()

	if err := s.Flush(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestSocket_RunStopsOnClose(t *testing.T) {
	s := listenLoopback(t)

	done := make(chan error)
	go func() {
		done <- s.Run(context.Background())
	}()

	time.Sleep(10 * time.Millisecond)
	_ = s.Close()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("run did not stop")
	}
}

func TestListen_FailedToStart(t *testing.T) {
	s := listenLoopback(t)
	defer s.Close()

	_, err := ListenAddr(s.LocalAddr())

	var errStart FailedToStartError
	if !errors.As(err, &errStart) {
		t.Errorf("expected FailedToStartError, got %v", err)
	}
}
