// Copyright (c) 2026 by Marko Gaćeša.
// Licensed under the Apache License, Version 2.0.
// See the LICENSE file or http://www.apache.org/licenses/LICENSE-2.0 for details.

// Package config reads process configuration from command line flags.
// Flag defaults come from UDPSTATE_* environment variables, which may be set in a .env file.
package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/marko-gacesa/udpstate/udpstate/beacon"
	"github.com/marko-gacesa/udpstate/udpstate/frame"
	"github.com/marko-gacesa/udpstate/udpstate/logging"
	"github.com/marko-gacesa/udpstate/udpstate/message"
	"github.com/marko-gacesa/udpstate/udpstate/server"
)

// ErrUsage is returned when the command line is incomplete or invalid.
var ErrUsage = errors.New("invalid usage")

const (
	EnvPort        = "UDPSTATE_PORT"
	EnvHz          = "UDPSTATE_HZ"
	EnvAdmin       = "UDPSTATE_ADMIN"
	EnvName        = "UDPSTATE_NAME"
	EnvBeacon      = "UDPSTATE_BEACON"
	EnvBeaconGroup = "UDPSTATE_BEACON_GROUP"
	EnvInterface   = "UDPSTATE_INTERFACE"
	EnvLogLevel    = "UDPSTATE_LOG_LEVEL"
	EnvLogFile     = "UDPSTATE_LOG_FILE"
	EnvLogJSON     = "UDPSTATE_LOG_JSON"
)

// LoadEnv loads the .env files into the process environment. Missing files are skipped
// and variables already set are not overridden.
func LoadEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}

	for _, file := range files {
		err := godotenv.Load(file)
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err != nil {
			return fmt.Errorf("config: failed to load %s: %w", file, err)
		}
	}

	return nil
}

type Relay struct {
	Port        int
	Hz          int
	Admin       string // admin HTTP listen address, empty disables it
	Name        string
	Beacon      bool
	BeaconGroup string
	Log         logging.Config
}

type Peer struct {
	Nickname    string
	Server      message.Address
	Hz          int
	Discover    bool
	BeaconGroup string
	Interface   string
	Bot         bool
	Log         logging.Config
}

// ParseRelay parses the relay command line. The relay takes no positional arguments.
func ParseRelay(args []string, output io.Writer) (Relay, error) {
	var cfg Relay

	fs := newFlagSet("relay", output)
	fs.IntVar(&cfg.Port, "port", envInt(EnvPort, server.PortDefault), "UDP port to listen on")
	fs.IntVar(&cfg.Hz, "hz", envInt(EnvHz, frame.HzDefault), "frames per second")
	fs.StringVar(&cfg.Admin, "admin", envString(EnvAdmin, ""), "admin HTTP address, e.g. :8080")
	fs.StringVar(&cfg.Name, "name", envString(EnvName, hostname()), "name announced on the local network")
	fs.BoolVar(&cfg.Beacon, "beacon", envBool(EnvBeacon, false), "announce the relay on the local network")
	fs.StringVar(&cfg.BeaconGroup, "beacon-group", envString(EnvBeaconGroup, beacon.GroupDefault), "multicast group of announcements")
	logFlags(fs, &cfg.Log)

	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "usage: relay [flags]\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return Relay{}, fmt.Errorf("%w: %w", ErrUsage, err)
	}

	if fs.NArg() != 0 {
		fs.Usage()
		return Relay{}, fmt.Errorf("%w: unexpected arguments %q", ErrUsage, fs.Args())
	}

	if cfg.Port < 1 || cfg.Port > 65535 {
		return Relay{}, fmt.Errorf("%w: invalid port %d", ErrUsage, cfg.Port)
	}

	if cfg.Hz < 1 {
		return Relay{}, fmt.Errorf("%w: invalid frame rate %d", ErrUsage, cfg.Hz)
	}

	return cfg, nil
}

// ParsePeer parses the peer command line: [flags] <nickname> <ipv4> <port>.
// With -discover only the nickname is required.
func ParsePeer(args []string, output io.Writer) (Peer, error) {
	var cfg Peer

	fs := newFlagSet("peer", output)
	fs.IntVar(&cfg.Hz, "hz", envInt(EnvHz, frame.HzDefault), "frames per second")
	fs.BoolVar(&cfg.Discover, "discover", false, "list relays announced on the local network and exit")
	fs.StringVar(&cfg.BeaconGroup, "beacon-group", envString(EnvBeaconGroup, beacon.GroupDefault), "multicast group of announcements")
	fs.StringVar(&cfg.Interface, "interface", envString(EnvInterface, ""), "network interface for discovery")
	fs.BoolVar(&cfg.Bot, "bot", true, "drive the player with a scripted bot")
	logFlags(fs, &cfg.Log)

	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "usage: peer [flags] <nickname> <ipv4> <port>\n")
		fmt.Fprintf(fs.Output(), "       peer -discover\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return Peer{}, fmt.Errorf("%w: %w", ErrUsage, err)
	}

	if cfg.Discover && fs.NArg() == 0 {
		return cfg, nil
	}

	if fs.NArg() != 3 {
		fs.Usage()
		return Peer{}, fmt.Errorf("%w: expected 3 arguments, got %d", ErrUsage, fs.NArg())
	}

	cfg.Nickname = fs.Arg(0)
	if cfg.Nickname == "" {
		fs.Usage()
		return Peer{}, fmt.Errorf("%w: empty nickname", ErrUsage)
	}

	addr, err := message.ParseAddress(fs.Arg(1), fs.Arg(2))
	if err != nil {
		fs.Usage()
		return Peer{}, fmt.Errorf("%w: %w", ErrUsage, err)
	}
	cfg.Server = addr

	if cfg.Hz < 1 {
		return Peer{}, fmt.Errorf("%w: invalid frame rate %d", ErrUsage, cfg.Hz)
	}

	return cfg, nil
}

func newFlagSet(name string, output io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	if output != nil {
		fs.SetOutput(output)
	}
	return fs
}

func logFlags(fs *flag.FlagSet, cfg *logging.Config) {
	fs.StringVar(&cfg.Level, "log-level", envString(EnvLogLevel, "info"), "log level: debug, info, warn or error")
	fs.StringVar(&cfg.File, "log-file", envString(EnvLogFile, ""), "rotated log file")
	fs.BoolVar(&cfg.JSON, "log-json", envBool(EnvLogJSON, false), "log in JSON")
}

func envString(key, def string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return def
	}
	return v
}

func envBool(key string, def bool) bool {
	v, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return def
	}
	return v
}

func hostname() string {
	name, err := os.Hostname()
	if err != nil {
		return "relay"
	}
	return name
}
