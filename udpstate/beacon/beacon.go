// Copyright (c) 2026 by Marko Gaćeša.
// Licensed under the Apache License, Version 2.0.
// See the LICENSE file or http://www.apache.org/licenses/LICENSE-2.0 for details.

// Package beacon lets peers find relays on the local network.
// A relay periodically multicasts an announcement with its port and name,
// and a peer listening on the same group collects the relays it hears.
package beacon

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"time"

	"github.com/marko-gacesa/udpstate/udp"
	"github.com/marko-gacesa/udpstate/udpstate/message"
)

const (
	GroupDefault  = "239.255.231.79:45286" // organization-local scope
	PeriodDefault = 2 * time.Second
	TTLDefault    = 1

	maxNameLen = 255
)

// Sender is implemented by udp.Sender.
type Sender interface {
	Send(data []byte) error
}

type Announcer struct {
	sender Sender
	msg    message.Announce
	period time.Duration
	log    *slog.Logger
}

// NewAnnouncer returns an announcer for a relay listening on the port. Names longer than 255 bytes are truncated.
func NewAnnouncer(sender Sender, port uint16, name string, opts ...func(*Announcer)) *Announcer {
	if len(name) > maxNameLen {
		name = name[:maxNameLen]
	}

	a := &Announcer{
		sender: sender,
		msg:    message.Announce{Port: port, Name: name},
		period: PeriodDefault,
		log:    slog.Default(),
	}

	for _, opt := range opts {
		opt(a)
	}

	return a
}

var WithPeriod = func(period time.Duration) func(*Announcer) {
	return func(a *Announcer) {
		if period > 0 {
			a.period = period
		}
	}
}

var WithLogger = func(log *slog.Logger) func(*Announcer) {
	return func(a *Announcer) {
		if log != nil {
			a.log = log
		}
	}
}

// Run sends the announcement right away and then once every period until the context is done.
// Send failures are logged and do not stop the announcer.
func (a *Announcer) Run(ctx context.Context) error {
	var buf [message.MaxMessageSize]byte
	n := a.msg.Put(buf[:])
	data := buf[:n]

	a.log.Info("announcing relay", "port", a.msg.Port, "name", a.msg.Name, "period", a.period)

	ticker := time.NewTicker(a.period)
	defer ticker.Stop()

	for {
		if err := a.sender.Send(data); err != nil {
			a.log.Warn("failed to announce", "err", err)
		}

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

// Relay is a relay heard on the local network.
type Relay struct {
	Name    string
	Address message.Address
}

// Discovery turns announcements into relay addresses. Every relay is reported once.
type Discovery struct {
	seen  map[message.Address]struct{}
	found func(Relay)
	log   *slog.Logger
}

func NewDiscovery(found func(Relay), log *slog.Logger) *Discovery {
	if log == nil {
		log = slog.Default()
	}
	return &Discovery{
		seen:  make(map[message.Address]struct{}),
		found: found,
		log:   log,
	}
}

// HandleDatagram processes one received datagram. The relay address is the sender's IP with the announced port.
func (d *Discovery) HandleDatagram(data []byte, from *net.UDPAddr) {
	a, err := message.ParseAnnounce(data)
	if err != nil {
		d.log.Debug("ignored datagram", "from", from, "err", err)
		return
	}

	addr, ok := message.AddressFromUDP(from)
	if !ok {
		return
	}
	addr.Port = a.Port

	if _, ok := d.seen[addr]; ok {
		return
	}
	d.seen[addr] = struct{}{}

	d.found(Relay{Name: a.Name, Address: addr})
}

// Listen joins the multicast group and reports relays until the context is done.
// An empty interface name selects the interface automatically.
func (d *Discovery) Listen(ctx context.Context, group, iface string) error {
	groupAddr, err := net.ResolveUDPAddr("udp4", group)
	if err != nil {
		return fmt.Errorf("beacon: invalid group %q: %w", group, err)
	}

	return udp.ListenMulticast(ctx, *groupAddr, d.HandleDatagram, udp.WithInterface(iface))
}

// NewMulticastSender returns a sender to the group for an Announcer.
func NewMulticastSender(group string) (*udp.Sender, error) {
	groupAddr, err := net.ResolveUDPAddr("udp4", group)
	if err != nil {
		return nil, fmt.Errorf("beacon: invalid group %q: %w", group, err)
	}

	return udp.NewMulticastSender(*groupAddr, TTLDefault)
}
