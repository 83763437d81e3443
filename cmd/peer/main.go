// Copyright (c) 2026 by Marko Gaćeša.
// Licensed under the Apache License, Version 2.0.
// See the LICENSE file or http://www.apache.org/licenses/LICENSE-2.0 for details.

package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/marko-gacesa/udpstate/udp"
	"github.com/marko-gacesa/udpstate/udpstate"
	"github.com/marko-gacesa/udpstate/udpstate/beacon"
	"github.com/marko-gacesa/udpstate/udpstate/client"
	"github.com/marko-gacesa/udpstate/udpstate/config"
	"github.com/marko-gacesa/udpstate/udpstate/frame"
	"github.com/marko-gacesa/udpstate/udpstate/logging"
)

const discoverDuration = 3 * beacon.PeriodDefault

func main() {
	os.Exit(run())
}

func run() int {
	if err := config.LoadEnv(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	cfg, err := config.ParsePeer(os.Args[1:], os.Stderr)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		if errors.Is(err, config.ErrUsage) {
			return 2
		}
		return 1
	}

	log, logCloser, err := logging.New(cfg.Log, os.Stderr)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}
	defer logCloser.Close()

	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Discover {
		return discover(ctx, cfg, log)
	}

	socket, err := udp.Listen(0, udp.WithHandleError(func(err error) {
		log.Warn("socket error", "err", err)
	}))
	if err != nil {
		log.Error("failed to open socket", "err", err)
		return 1
	}
	defer socket.Close()

	var input client.InputSource = client.IdleInput{}
	if cfg.Bot {
		input = client.NewBotInput()
	}

	loop := frame.New(frame.WithHz(cfg.Hz), frame.WithLogger(log))
	peer := client.New(udpstate.NewSocketTransport(socket), cfg.Server, cfg.Nickname,
		client.WithLogger(log),
		client.WithInput(input))

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return socket.Run(ctx)
	})

	g.Go(func() error {
		return peer.Run(ctx, loop)
	})

	if err := g.Wait(); err != nil {
		log.Error("peer failed", "err", err)
		return 1
	}

	log.Info("peer shut down", "connected", peer.Connected(), "remotes", len(peer.Remotes()))

	return 0
}

func discover(ctx context.Context, cfg config.Peer, log *slog.Logger) int {
	ctx, cancel := context.WithTimeout(ctx, discoverDuration)
	defer cancel()

	var count int
	d := beacon.NewDiscovery(func(r beacon.Relay) {
		count++
		fmt.Printf("%s\t%s\n", r.Address, r.Name)
	}, log)

	log.Info("looking for relays", "group", cfg.BeaconGroup, "for", discoverDuration.Round(time.Second))

	if err := d.Listen(ctx, cfg.BeaconGroup, cfg.Interface); err != nil {
		log.Error("discovery failed", "err", err)
		return 1
	}

	if count == 0 {
		log.Warn("no relays found")
	}

	return 0
}
