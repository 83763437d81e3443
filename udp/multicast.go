// Copyright (c) 2024, 2026 by Marko Gaćeša.
// Licensed under the Apache License, Version 2.0.
// See the LICENSE file or http://www.apache.org/licenses/LICENSE-2.0 for details.

package udp

import (
	"context"
	"errors"
	"fmt"
	"net"
	"slices"
	"strings"
	"time"

	"golang.org/x/net/ipv4"
	"golang.org/x/net/ipv6"
)

var ErrNoInterface = errors.New("no available network interfaces")

type multicastListener struct {
	ifaceName string
	durBreak  time.Duration
}

// WithInterface selects the network interface to join the group on.
// By default the first running multicast capable interface is used, preferring en* and eth* names.
var WithInterface = func(name string) func(*multicastListener) {
	return func(l *multicastListener) {
		l.ifaceName = name
	}
}

var WithMulticastBreakPeriod = func(durBreak time.Duration) func(*multicastListener) {
	return func(l *multicastListener) {
		if durBreak > 0 {
			l.durBreak = durBreak
		}
	}
}

// ListenMulticast joins the multicast group and calls processFn for every received datagram
// until the context is done. The data passed to processFn is only valid during the call.
func ListenMulticast(
	ctx context.Context,
	groupAddr net.UDPAddr,
	processFn func(data []byte, addr *net.UDPAddr),
	opts ...func(*multicastListener),
) (err error) {
	if groupAddr.IP == nil || !groupAddr.IP.IsMulticast() {
		return errors.New("udp multicast: group address is not multicast")
	}

	l := multicastListener{durBreak: durBreakDefault}
	for _, opt := range opts {
		opt(&l)
	}

	iface, err := findInterface(l.ifaceName)
	if err != nil {
		return fmt.Errorf("udp multicast: failed to get network interface: %w", err)
	}

	conn, err := net.ListenUDP("udp", &net.UDPAddr{
		IP:   groupAddr.IP,
		Port: groupAddr.Port,
		Zone: iface.Name,
	})
	if err != nil {
		return fmt.Errorf("udp multicast: failed to listen: %w", FailedToStartError{err})
	}

	defer func() {
		errClose := conn.Close()
		if errClose != nil && err == nil {
			err = fmt.Errorf("udp multicast: failed to close udp listener: %w", errClose)
		}
	}()

	group := &net.UDPAddr{IP: groupAddr.IP, Zone: iface.Name}

	var p interface {
		JoinGroup(*net.Interface, net.Addr) error
		LeaveGroup(*net.Interface, net.Addr) error
	}
	if ip4 := group.IP.To4(); ip4 != nil {
		p = ipv4.NewPacketConn(conn)
	} else {
		p = ipv6.NewPacketConn(conn)
	}

	if err = p.JoinGroup(iface, group); err != nil {
		return fmt.Errorf("udp multicast: failed to join group: %w", err)
	}

	defer func() {
		errLeave := p.LeaveGroup(iface, group)
		if errLeave != nil && err == nil {
			err = fmt.Errorf("udp multicast: failed to leave group: %w", errLeave)
		}
	}()

	var buffer [bufferSize]byte

	for {
		if err = conn.SetReadDeadline(time.Now().Add(l.durBreak)); err != nil {
			return fmt.Errorf("udp multicast: failed to set read deadline: %w", err)
		}

		n, addr, errRead := conn.ReadFromUDP(buffer[:])

		if ctx.Err() != nil {
			return nil
		}

		if errTimeout, ok := errRead.(net.Error); ok && errTimeout.Timeout() {
			continue
		}

		if errRead != nil {
			return fmt.Errorf("udp multicast: failed to read udp message: %w", errRead)
		}

		processFn(buffer[:n], addr)
	}
}

func findInterface(name string) (*net.Interface, error) {
	if name != "" {
		iface, err := net.InterfaceByName(name)
		if err != nil {
			return nil, fmt.Errorf("interface %q: %w", name, err)
		}
		return iface, nil
	}

	interfaces, err := net.Interfaces()
	if err != nil {
		return nil, fmt.Errorf("failed to get network interfaces: %w", err)
	}

	var ifaces []*net.Interface
	for i := range interfaces {
		iface := &interfaces[i]

		if iface.Flags&net.FlagUp == 0 || iface.Flags&net.FlagRunning == 0 ||
			iface.Flags&net.FlagLoopback > 0 || iface.Flags&net.FlagMulticast == 0 ||
			iface.Flags&net.FlagPointToPoint > 0 {
			continue
		}

		if addrs, err := iface.Addrs(); err != nil || len(addrs) == 0 {
			continue
		}

		ifaces = append(ifaces, iface)
	}

	if len(ifaces) == 0 {
		return nil, ErrNoInterface
	}

	slices.SortFunc(ifaces, func(a, b *net.Interface) int {
		return strings.Compare(a.Name, b.Name)
	})

	for _, prefix := range []string{"en", "eth"} {
		for _, iface := range ifaces {
			if strings.HasPrefix(iface.Name, prefix) {
				return iface, nil
			}
		}
	}

	return ifaces[0], nil
}
