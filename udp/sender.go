// Copyright (c) 2024, 2026 by Marko Gaćeša.
// Licensed under the Apache License, Version 2.0.
// See the LICENSE file or http://www.apache.org/licenses/LICENSE-2.0 for details.

package udp

import (
	"fmt"
	"net"

	"golang.org/x/net/ipv4"
)

var _ = interface {
	Send(data []byte) error
	Close() error
}((*Sender)(nil))

// Sender writes datagrams to a single destination.
type Sender struct {
	connection *net.UDPConn
}

func NewSender(addr net.UDPAddr) (*Sender, error) {
	connection, err := net.DialUDP("udp", nil, &addr)
	if err != nil {
		return nil, fmt.Errorf("udp sender: failed to dial: %w", err)
	}

	return &Sender{
		connection: connection,
	}, nil
}

// NewMulticastSender returns a sender to an IPv4 multicast group.
// Datagrams are looped back so that listeners on the same host receive them too.
func NewMulticastSender(groupAddr net.UDPAddr, ttl int) (*Sender, error) {
	if groupAddr.IP.To4() == nil || !groupAddr.IP.IsMulticast() {
		return nil, fmt.Errorf("udp sender: %s is not an IPv4 multicast address", groupAddr.IP)
	}

	s, err := NewSender(groupAddr)
	if err != nil {
		return nil, err
	}

	p := ipv4.NewPacketConn(s.connection)

	if err := p.SetMulticastTTL(ttl); err != nil {
		_ = s.Close()
		return nil, fmt.Errorf("udp sender: failed to set multicast TTL: %w", err)
	}

	if err := p.SetMulticastLoopback(true); err != nil {
		_ = s.Close()
		return nil, fmt.Errorf("udp sender: failed to enable multicast loopback: %w", err)
	}

	return s, nil
}

func (s *Sender) Send(data []byte) error {
	_, err := s.connection.Write(data)
	if err != nil {
		return fmt.Errorf("udp sender: failed to send message: %w", err)
	}

	return nil
}

func (s *Sender) Close() error {
	err := s.connection.Close()
	if err != nil {
		return fmt.Errorf("udp sender: failed to close connection: %w", err)
	}

	return nil
}
