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

	"golang.org/x/sync/errgroup"

	"github.com/marko-gacesa/udpstate/udp"
	"github.com/marko-gacesa/udpstate/udpstate"
	"github.com/marko-gacesa/udpstate/udpstate/admin"
	"github.com/marko-gacesa/udpstate/udpstate/beacon"
	"github.com/marko-gacesa/udpstate/udpstate/config"
	"github.com/marko-gacesa/udpstate/udpstate/frame"
	"github.com/marko-gacesa/udpstate/udpstate/logging"
	"github.com/marko-gacesa/udpstate/udpstate/server"
)

func main() {
	os.Exit(run())
}

func run() int {
	if err := config.LoadEnv(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	cfg, err := config.ParseRelay(os.Args[1:], os.Stderr)
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

	socket, err := udp.Listen(cfg.Port, udp.WithHandleError(func(err error) {
		log.Warn("socket error", "err", err)
	}))
	if err != nil {
		log.Error("failed to start relay", "port", cfg.Port, "err", err)
		return 1
	}
	defer socket.Close()

	var announcer *beacon.Announcer
	if cfg.Beacon {
		sender, err := beacon.NewMulticastSender(cfg.BeaconGroup)
		if err != nil {
			log.Error("failed to start beacon", "group", cfg.BeaconGroup, "err", err)
			return 1
		}
		defer sender.Close()

		announcer = beacon.NewAnnouncer(sender, uint16(cfg.Port), cfg.Name, beacon.WithLogger(log))
	}

	loop := frame.New(frame.WithHz(cfg.Hz), frame.WithLogger(log))
	relay := server.New(udpstate.NewSocketTransport(socket), server.WithLogger(log))

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return socket.Run(ctx)
	})

	g.Go(func() error {
		return relay.Run(ctx, loop)
	})

	if cfg.Admin != "" {
		a := admin.New(relay, admin.WithFrameStats(loop.Stats()), admin.WithLogger(log))
		g.Go(func() error {
			return a.ListenAndServe(ctx, cfg.Admin)
		})
	}

	if announcer != nil {
		g.Go(func() error {
			return announcer.Run(ctx)
		})
	}

	log.Info("relay listening", "addr", socket.LocalAddr().String())

	if err := g.Wait(); err != nil {
		log.Error("relay failed", "err", err)
		return 1
	}

	log.Info("relay shut down",
		"packets_received", relay.Metrics().PacketsReceived.Load(),
		"connects_accepted", relay.Metrics().ConnectsAccepted.Load(),
		"socket_dropped", socket.Dropped())

	return 0
}
