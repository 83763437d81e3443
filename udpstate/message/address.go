// Copyright (c) 2026 by Marko Gaćeša.
// Licensed under the Apache License, Version 2.0.
// See the LICENSE file or http://www.apache.org/licenses/LICENSE-2.0 for details.

package message

import (
	"encoding/binary"
	"fmt"
	"net"
	"strconv"
)

// Address is an IPv4 endpoint. Two addresses are equal when both fields match.
type Address struct {
	IP   uint32
	Port uint16
}

// AddressFromUDP converts a UDP address. It returns false for a non-IPv4 address.
func AddressFromUDP(addr *net.UDPAddr) (Address, bool) {
	if addr == nil {
		return Address{}, false
	}

	ip := addr.IP.To4()
	if ip == nil || addr.Port < 0 || addr.Port > 0xFFFF {
		return Address{}, false
	}

	return Address{IP: binary.BigEndian.Uint32(ip), Port: uint16(addr.Port)}, true
}

// ParseAddress parses a dotted IPv4 address and a port number.
// Valid ports are in range [1, 65535].
func ParseAddress(host string, port string) (Address, error) {
	ip := net.ParseIP(host).To4()
	if ip == nil {
		return Address{}, fmt.Errorf("%w: %q", ErrInvalidAddress, host)
	}

	p, err := strconv.Atoi(port)
	if err != nil || p <= 0 || p > 0xFFFF {
		return Address{}, fmt.Errorf("%w: %q", ErrInvalidPort, port)
	}

	return Address{IP: binary.BigEndian.Uint32(ip), Port: uint16(p)}, nil
}

func (a Address) UDPAddr() *net.UDPAddr {
	ip := make(net.IP, net.IPv4len)
	binary.BigEndian.PutUint32(ip, a.IP)
	return &net.UDPAddr{IP: ip, Port: int(a.Port)}
}

func (a Address) String() string {
	return net.JoinHostPort(
		fmt.Sprintf("%d.%d.%d.%d", byte(a.IP>>24), byte(a.IP>>16), byte(a.IP>>8), byte(a.IP)),
		strconv.Itoa(int(a.Port)))
}

func (a Address) IsZero() bool {
	return a == Address{}
}
