// Copyright (c) 2023, 2026 by Marko Gaćeša.
// Licensed under the Apache License, Version 2.0.
// See the LICENSE file or http://www.apache.org/licenses/LICENSE-2.0 for details.

package udp

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"sync/atomic"
	"time"

	"golang.org/x/net/ipv4"
)

var _ = interface {
	Run(ctx context.Context) error
	Drain(fn func(data []byte, addr *net.UDPAddr)) int
	Send(data []byte, addr *net.UDPAddr)
	Flush() error
	Close() error
}((*Socket)(nil))

const (
	durBreakDefault  = 5 * time.Second
	batchSizeDefault = 64
	inboxSizeDefault = 1024
	bufferSize       = 2 << 10
)

// Datagram is a received UDP packet.
type Datagram struct {
	Data []byte
	Addr *net.UDPAddr
}

// Socket is a bound IPv4 UDP socket for a frame driven program.
//
// Run reads datagrams in batches on its own goroutine and queues them.
// Drain hands over everything queued so far without blocking.
// Send queues outgoing datagrams which are written in batches by Flush.
// Drain, Send and Flush must be called from a single goroutine.
type Socket struct {
	conn *net.UDPConn
	pc   *ipv4.PacketConn

	inbox   chan Datagram
	dropped atomic.Uint64

	out      []ipv4.Message
	outCount int

	batchSize   int
	inboxSize   int
	durBreak    time.Duration
	handleError func(error)
}

// Listen binds a socket to the port on all IPv4 interfaces. Port 0 picks an ephemeral port.
func Listen(port int, opts ...func(*Socket)) (*Socket, error) {
	return ListenAddr(&net.UDPAddr{IP: net.IPv4zero, Port: port}, opts...)
}

func ListenAddr(addr *net.UDPAddr, opts ...func(*Socket)) (*Socket, error) {
	s := &Socket{
		batchSize: batchSizeDefault,
		inboxSize: inboxSizeDefault,
		durBreak:  durBreakDefault,
		handleError: func(err error) {
			log.Println(err)
		},
	}

	for _, opt := range opts {
		opt(s)
	}

	conn, err := net.ListenUDP("udp4", addr)
	if err != nil {
		return nil, fmt.Errorf("udp socket: failed to listen: %w", FailedToStartError{err})
	}

	s.conn = conn
	s.pc = ipv4.NewPacketConn(conn)
	s.inbox = make(chan Datagram, s.inboxSize)

	return s, nil
}

var WithBatchSize = func(n int) func(*Socket) {
	return func(s *Socket) {
		if n > 0 {
			s.batchSize = n
		}
	}
}

// WithInboxSize sets how many received datagrams can wait for Drain.
var WithInboxSize = func(n int) func(*Socket) {
	return func(s *Socket) {
		if n > 0 {
			s.inboxSize = n
		}
	}
}

var WithBreakPeriod = func(durBreak time.Duration) func(*Socket) {
	return func(s *Socket) {
		if durBreak > 0 {
			s.durBreak = durBreak
		}
	}
}

var WithHandleError = func(handleError func(error)) func(*Socket) {
	return func(s *Socket) {
		if handleError != nil {
			s.handleError = handleError
		}
	}
}

func (s *Socket) LocalAddr() *net.UDPAddr {
	return s.conn.LocalAddr().(*net.UDPAddr)
}

// Dropped returns the number of received datagrams discarded because the queue was full.
func (s *Socket) Dropped() uint64 {
	return s.dropped.Load()
}

// Run reads datagrams until the context is done or the socket is closed.
func (s *Socket) Run(ctx context.Context) error {
	msgs := make([]ipv4.Message, s.batchSize)
	for i := range msgs {
		msgs[i].Buffers = [][]byte{make([]byte, bufferSize)}
	}

	if err := s.pc.SetReadDeadline(time.Now().Add(s.durBreak)); errors.Is(err, net.ErrClosed) {
		return nil
	} else if err != nil {
		return fmt.Errorf("udp socket: failed to set read deadline: %w", err)
	}

	for {
		n, err := s.pc.ReadBatch(msgs, 0)
		if errTimeout, ok := err.(net.Error); ok && errTimeout.Timeout() {
			if ctx.Err() != nil {
				return nil
			}

			if err := s.pc.SetReadDeadline(time.Now().Add(s.durBreak)); err != nil {
				return fmt.Errorf("udp socket: failed to set read deadline: %w", err)
			}

			continue
		}
		if errors.Is(err, net.ErrClosed) {
			return nil
		}
		if err != nil {
			s.handleError(fmt.Errorf("udp socket: failed to read: %w", err))
			if ctx.Err() != nil {
				return nil
			}
			continue
		}

		for i := 0; i < n; i++ {
			addr, ok := msgs[i].Addr.(*net.UDPAddr)
			if !ok {
				continue
			}

			data := make([]byte, msgs[i].N)
			copy(data, msgs[i].Buffers[0][:msgs[i].N])

			select {
			case s.inbox <- Datagram{Data: data, Addr: addr}:
			default:
				s.dropped.Add(1)
			}
		}

		if ctx.Err() != nil {
			return nil
		}
	}
}

// Drain calls fn for every queued datagram and returns the number of datagrams processed.
// It never blocks.
func (s *Socket) Drain(fn func(data []byte, addr *net.UDPAddr)) int {
	count := 0
	for {
		select {
		case d := <-s.inbox:
			fn(d.Data, d.Addr)
			count++
		default:
			return count
		}
	}
}

// Send queues a datagram. The data is copied.
func (s *Socket) Send(data []byte, addr *net.UDPAddr) {
	if s.outCount == len(s.out) {
		s.out = append(s.out, ipv4.Message{Buffers: [][]byte{nil}})
	}

	msg := &s.out[s.outCount]
	msg.Buffers[0] = append(msg.Buffers[0][:0], data...)
	msg.Addr = addr
	s.outCount++
}

// Flush writes all queued datagrams. Datagrams that fail to be written are discarded.
func (s *Socket) Flush() error {
	pending := s.out[:s.outCount]
	s.outCount = 0

	var errs []error

	for len(pending) > 0 {
		end := min(len(pending), s.batchSize)

		n, err := s.pc.WriteBatch(pending[:end], 0)
		if err != nil {
			n = max(0, min(n, end-1))
			errs = append(errs, fmt.Errorf("udp socket: failed to send to %s: %w", pending[n].Addr, err))
			n++
		} else if n == 0 {
			n = end
		}

		pending = pending[n:]
	}

	return errors.Join(errs...)
}

func (s *Socket) Close() error {
	if err := s.conn.Close(); err != nil {
		return fmt.Errorf("udp socket: failed to close: %w", err)
	}
	return nil
}

type FailedToStartError struct {
	inner error
}

func (e FailedToStartError) Error() string { return e.inner.Error() }
func (e FailedToStartError) Unwrap() error { return e.inner }
