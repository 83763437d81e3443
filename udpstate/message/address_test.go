// Copyright (c) 2026 by Marko Gaćeša.
// Licensed under the Apache License, Version 2.0.
// See the LICENSE file or http://www.apache.org/licenses/LICENSE-2.0 for details.

package message

import (
	"errors"
	"net"
	"testing"
)

func TestParseAddress(t *testing.T) {
	tests := []struct {
		name string
		host string
		port string
		exp  Address
		err  error
	}{
		{name: "ok", host: "127.0.0.1", port: "54321", exp: Address{IP: 0x7F000001, Port: 54321}},
		{name: "max-port", host: "10.1.2.3", port: "65535", exp: Address{IP: 0x0A010203, Port: 65535}},
		{name: "zero-port", host: "127.0.0.1", port: "0", err: ErrInvalidPort},
		{name: "negative-port", host: "127.0.0.1", port: "-5", err: ErrInvalidPort},
		{name: "large-port", host: "127.0.0.1", port: "100000", err: ErrInvalidPort},
		{name: "text-port", host: "127.0.0.1", port: "http", err: ErrInvalidPort},
		{name: "bad-host", host: "localhost", port: "1", err: ErrInvalidAddress},
		{name: "ipv6", host: "::1", port: "1", err: ErrInvalidAddress},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			addr, err := ParseAddress(test.host, test.port)
			if !errors.Is(err, test.err) {
				t.Fatalf("error: want=%v, got=%v", test.err, err)
			}
			if want, got := test.exp, addr; want != got {
				t.Errorf("want=%v, got=%v", want, got)
			}
		})
	}
}

func TestAddress_UDP(t *testing.T) {
	addr := Address{IP: 0xC0A80107, Port: 7777}

	udpAddr := addr.UDPAddr()
	if want, got := "192.168.1.7:7777", udpAddr.String(); want != got {
		t.Errorf("want=%s, got=%s", want, got)
	}
	if want, got := "192.168.1.7:7777", addr.String(); want != got {
		t.Errorf("want=%s, got=%s", want, got)
	}

	back, ok := AddressFromUDP(udpAddr)
	if !ok {
		t.Fatalf("conversion failed")
	}
	if want, got := addr, back; want != got {
		t.Errorf("want=%v, got=%v", want, got)
	}

	if _, ok := AddressFromUDP(&net.UDPAddr{IP: net.IPv6loopback, Port: 1}); ok {
		t.Errorf("IPv6 address must be rejected")
	}
	if _, ok := AddressFromUDP(nil); ok {
		t.Errorf("nil address must be rejected")
	}
}

func TestAnnounce(t *testing.T) {
	var buf [MaxMessageSize]byte

	a := Announce{Port: 54321, Name: "relay"}
	size := a.Put(buf[:])

	if want, got := "<u*>", string(buf[:SizeOfPrefix]); want != got {
		t.Errorf("prefix: want=%q, got=%q", want, got)
	}

	clone, err := ParseAnnounce(buf[:size])
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want, got := a, clone; want != got {
		t.Errorf("want=%+v, got=%+v", want, got)
	}

	buf[0] = 'x'
	if _, err := ParseAnnounce(buf[:size]); !errors.Is(err, ErrNotAnnounce) {
		t.Errorf("want=%v, got=%v", ErrNotAnnounce, err)
	}
}
