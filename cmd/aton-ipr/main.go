// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jessevdk/go-flags"
	"github.com/jonboulle/clockwork"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"go.aton.dev/ipr/core"
	"go.aton.dev/ipr/logging"
	"go.aton.dev/ipr/metrics"
	"go.aton.dev/ipr/overrides"
	"go.aton.dev/ipr/sequencer"
	"go.aton.dev/ipr/session"
	"go.aton.dev/ipr/standalone"
	"go.aton.dev/ipr/telemetry"
)

type options struct {
	LogLevel      string        `long:"log-level" env:"ATON_LOG_LEVEL" default:"info" description:"log level"`
	Address       string        `long:"address" env:"ATON_ADDRESS" default:"127.0.0.1:9210" description:"control API listen address"`
	Translator    string        `long:"translator" default:"aton" description:"display driver translator used while a session runs"`
	RenderTime    time.Duration `long:"render-time" default:"2s" description:"time the simulated engine takes to render a frame"`
	PollInterval  time.Duration `long:"poll-interval" default:"50ms" description:"how often the sequencer samples the engine"`
	StartTimeout  time.Duration `long:"frame-start-timeout" default:"5s" description:"give up waiting for a frame to start rendering, 0 waits forever"`
	FinishTimeout time.Duration `long:"frame-finish-timeout" default:"0s" description:"give up waiting for a frame to finish rendering, 0 waits forever"`
	Overrides     string        `long:"overrides" env:"ATON_OVERRIDES" description:"YAML override document, watched and applied to the running session"`
	AutoStart     bool          `long:"start" description:"start a session as soon as the server is up"`
}

func main() {
	opts := getCLIArgs()
	logging.SetLogLevel(opts.LogLevel)

	clock := clockwork.NewRealClock()
	world := newWorld(clock, opts.RenderTime)

	standaloneEvents := telemetry.NewStandaloneEventsAPI(clock)
	hub := standalone.NewHub()
	standaloneEvents.AddListener(hub.Broadcast)
	eventsAPI := telemetry.Fanout{standaloneEvents, &metrics.Recorder{}}

	ctrl := session.NewBuilder(world.engine, world.scene, world.driver, world.events).
		SetEventsAPI(eventsAPI).
		SetTranslator(opts.Translator).
		SetClock(clock).
		Build()
	seq := sequencer.New(ctrl, world.engine, core.NewPoller(clock, opts.PollInterval)).
		SetEventsAPI(eventsAPI).
		SetTimeouts(opts.StartTimeout, opts.FinishTimeout)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	g, ctx := errgroup.WithContext(ctx)

	initial := overrides.Defaults(world.scene)
	if opts.Overrides != "" {
		var err error
		if initial, err = loadOrCreate(opts.Overrides, initial); err != nil {
			log.WithError(err).Fatalf("Failed to load overrides from %s", opts.Overrides)
		}
		watcher := overrides.NewWatcher(opts.Overrides, initial, func(set overrides.OverrideSet, changed []overrides.Group) {
			applyChanges(ctrl, set, changed)
		})
		g.Go(func() error { return watcher.Run(ctx) })
	}

	router := standalone.NewHTTPRouter(ctrl, seq, world.scene, standaloneEvents, hub)
	g.Go(func() error { return serveHTTP(ctx, opts.Address, router) })

	g.Go(func() error {
		<-ctx.Done()
		seq.Stop()
		if err := ctrl.Stop(); err != nil {
			log.WithError(err).Warn("Failed to stop session on shutdown")
		}
		hub.Close()
		return nil
	})

	if opts.AutoStart {
		autoStart(ctrl, seq, initial)
	}

	if err := g.Wait(); err != nil {
		log.WithError(err).Fatal("IPR server failed")
	}
	log.Info("IPR server stopped")
}

// autoStart starts a session with o, and its sequence when enabled.
func autoStart(ctrl *session.Controller, seq *sequencer.Sequencer, o overrides.OverrideSet) {
	if err := ctrl.Start(o); err != nil {
		log.WithError(err).Error("Failed to start session")
		return
	}
	if !o.Sequence.Enabled {
		return
	}
	frames, err := o.Sequence.Frames()
	if err == nil {
		err = seq.Start(frames)
	}
	if err != nil {
		log.WithError(err).Error("Failed to start sequence")
	}
}

func getCLIArgs() options {
	var opts options
	parser := flags.NewParser(&opts, flags.IgnoreUnknown)
	_, err := parser.ParseArgs(os.Args)

	if err != nil {
		log.WithError(err).Fatal("Failed to parse command line arguments:", os.Args)
	}

	return opts
}

// loadOrCreate reads the override document, writing base to it first when
// it does not exist yet.
func loadOrCreate(path string, base overrides.OverrideSet) (overrides.OverrideSet, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		log.Infof("Writing default overrides to %s", path)
		if err := overrides.Save(path, base); err != nil {
			return base, err
		}
	}
	return overrides.Load(path, base)
}

// overridesApplier is the part of the session controller the document
// watcher feeds.
type overridesApplier interface {
	ApplyOverrides(o overrides.OverrideSet, group overrides.Group) error
}

func applyChanges(ctrl overridesApplier, set overrides.OverrideSet, changed []overrides.Group) {
	for _, group := range changed {
		if err := ctrl.ApplyOverrides(set, group); err != nil {
			log.WithError(err).Warnf("Failed to apply %s overrides from document", group)
		}
	}
}
