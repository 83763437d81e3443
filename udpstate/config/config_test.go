// Copyright (c) 2026 by Marko Gaćeša.
// Licensed under the Apache License, Version 2.0.
// See the LICENSE file or http://www.apache.org/licenses/LICENSE-2.0 for details.

package config

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/marko-gacesa/udpstate/udpstate/beacon"
	"github.com/marko-gacesa/udpstate/udpstate/message"
)

func TestParsePeer(t *testing.T) {
	tests := []struct {
		name  string
		args  []string
		exp   Peer
		isErr bool
	}{
		{
			name: "positional",
			args: []string{"alice", "127.0.0.1", "54321"},
			exp: Peer{
				Nickname:    "alice",
				Server:      message.Address{IP: 0x7F000001, Port: 54321},
				Hz:          60,
				BeaconGroup: beacon.GroupDefault,
				Bot:         true,
			},
		},
		{
			name: "flags",
			args: []string{"-hz", "30", "-bot=false", "-log-level", "debug", "bob", "10.1.2.3", "1000"},
			exp: Peer{
				Nickname:    "bob",
				Server:      message.Address{IP: 0x0A010203, Port: 1000},
				Hz:          30,
				BeaconGroup: beacon.GroupDefault,
			},
		},
		{
			name: "discover",
			args: []string{"-discover"},
			exp: Peer{
				Hz:          60,
				Discover:    true,
				BeaconGroup: beacon.GroupDefault,
				Bot:         true,
			},
		},
		{name: "missing", args: []string{"alice", "127.0.0.1"}, isErr: true},
		{name: "extra", args: []string{"alice", "127.0.0.1", "1", "2"}, isErr: true},
		{name: "bad-ip", args: []string{"alice", "localhost", "54321"}, isErr: true},
		{name: "ipv6", args: []string{"alice", "::1", "54321"}, isErr: true},
		{name: "bad-port", args: []string{"alice", "127.0.0.1", "99999"}, isErr: true},
		{name: "zero-port", args: []string{"alice", "127.0.0.1", "0"}, isErr: true},
		{name: "empty-nickname", args: []string{"", "127.0.0.1", "54321"}, isErr: true},
		{name: "unknown-flag", args: []string{"-x", "alice", "127.0.0.1", "54321"}, isErr: true},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			cfg, err := ParsePeer(test.args, io.Discard)
			if test.isErr {
				if !errors.Is(err, ErrUsage) {
					t.Errorf("expected usage error, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			test.exp.Log.Level = cfg.Log.Level
			if want, got := test.exp, cfg; want != got {
				t.Errorf("want=%+v, got=%+v", want, got)
			}
		})
	}
}

func TestParseRelay(t *testing.T) {
	cfg, err := ParseRelay([]string{"-port", "6000", "-admin", ":8080", "-beacon", "-name", "lan"}, io.Discard)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	exp := Relay{
		Port:        6000,
		Hz:          60,
		Admin:       ":8080",
		Name:        "lan",
		Beacon:      true,
		BeaconGroup: beacon.GroupDefault,
		Log:         cfg.Log,
	}
	if want, got := exp, cfg; want != got {
		t.Errorf("want=%+v, got=%+v", want, got)
	}

	for _, args := range [][]string{{"extra"}, {"-port", "0"}, {"-port", "70000"}, {"-hz", "0"}} {
		if _, err := ParseRelay(args, io.Discard); !errors.Is(err, ErrUsage) {
			t.Errorf("%v: expected usage error, got %v", args, err)
		}
	}
}

func TestEnvDefaults(t *testing.T) {
	t.Setenv(EnvPort, "7000")
	t.Setenv(EnvHz, "not a number")
	t.Setenv(EnvLogLevel, "warn")

	cfg, err := ParseRelay(nil, io.Discard)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if want, got := 7000, cfg.Port; want != got {
		t.Errorf("port: want=%d, got=%d", want, got)
	}
	if want, got := 60, cfg.Hz; want != got {
		t.Errorf("hz: want=%d, got=%d", want, got)
	}
	if want, got := "warn", cfg.Log.Level; want != got {
		t.Errorf("log level: want=%s, got=%s", want, got)
	}
}

func TestLoadEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.env")

	if err := os.WriteFile(path, []byte("UDPSTATE_ADMIN=:9090\nUDPSTATE_PORT=6001\n"), 0o600); err != nil {
		t.Fatalf("failed to write env file: %v", err)
	}

	t.Setenv(EnvAdmin, "")
	os.Unsetenv(EnvAdmin)
	t.Setenv(EnvPort, "6500")

	if err := LoadEnv(path, filepath.Join(dir, "missing.env")); err != nil {
		t.Fatalf("failed to load: %v", err)
	}

	cfg, err := ParseRelay(nil, io.Discard)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if want, got := ":9090", cfg.Admin; want != got {
		t.Errorf("admin: want=%s, got=%s", want, got)
	}
	if want, got := 6500, cfg.Port; want != got {
		t.Errorf("the environment must win over the file: want=%d, got=%d", want, got)
	}
}
