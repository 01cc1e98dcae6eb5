// Copyright (c) 2026, the ESPA Project contributors
//
// SPDX-License-Identifier: Apache-2.0

// Package agent serves scene processing requests over NATS so a fleet of
// workers can share the load of a processing campaign
package agent

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/usgs-eros/espa-wrappers/internal/facts"
	"github.com/usgs-eros/espa-wrappers/metrics"
	"github.com/usgs-eros/espa-wrappers/model"
	"github.com/usgs-eros/espa-wrappers/wrapper"
)

const minFactUpdateInterval = 2 * time.Minute

type Agent struct {
	cfg    *Config
	log    model.Logger
	nats   NatsConnProvider
	runner model.CommandRunner

	started           bool
	previousFacts     map[string]any
	previousFactsTime time.Time

	ctx    context.Context
	cancel context.CancelFunc

	wwg sync.WaitGroup

	mu sync.Mutex
}

// New creates a new processing agent
func New(cfg *Config, opts ...Option) (*Agent, error) {
	err := cfg.Validate()
	if err != nil {
		return nil, err
	}

	a := &Agent{
		cfg: cfg,
		log: cfg.NewLogger(),
	}

	for _, opt := range opts {
		err = opt(a)
		if err != nil {
			return nil, err
		}
	}

	if a.nats == nil {
		if cfg.NatsContext != "" {
			a.nats = &cachingContextProvider{}
		} else {
			a.nats = &cachingServerProvider{}
		}
	}

	return a, nil
}

// Run subscribes to the request subject and serves until the context ends
func (a *Agent) Run(ctx context.Context, wg *sync.WaitGroup) error {
	defer wg.Done()

	a.mu.Lock()

	if a.started {
		a.mu.Unlock()
		return fmt.Errorf("already started")
	}

	a.ctx, a.cancel = context.WithCancel(ctx)
	defer a.cancel()
	a.started = true

	a.mu.Unlock()

	subject := a.cfg.Subject + ".>"
	a.log.Warn("Starting agent", "subject", subject, "queue", a.cfg.Queue)

	if a.cfg.MonitorPort > 0 {
		metrics.RegisterMetrics()
		metrics.ListenAndServe(a.cfg.MonitorPort, a.log)
	}

	target := a.cfg.NatsContext
	if target == "" {
		target = a.cfg.Servers
	}

	nc, err := a.nats.Connect(target,
		nats.Name("espa agent"),
		nats.MaxReconnects(-1),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			a.log.Warn("NATS connection lost", "error", err)
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			a.log.Info("NATS connection restored", "server", nc.ConnectedUrl())
		}),
	)
	if err != nil {
		return fmt.Errorf("could not connect: %w", err)
	}

	sub, err := nc.QueueSubscribe(subject, a.cfg.Queue, func(msg *nats.Msg) {
		a.wwg.Add(1)
		go a.serve(msg)
	})
	if err != nil {
		return fmt.Errorf("could not subscribe: %w", err)
	}

	<-a.ctx.Done()

	sub.Drain()
	a.wwg.Wait()

	a.log.Warn("Agent stopped")

	return nil
}

func (a *Agent) Stop() {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.cancel != nil {
		a.cancel()
	}

	a.started = false
}

// tool runs take minutes, each request gets its own goroutine so the
// subscription keeps draining
func (a *Agent) serve(msg *nats.Msg) {
	defer a.wwg.Done()

	reply := a.handleRequest(a.ctx, msg.Data)

	if msg.Reply == "" {
		return
	}

	err := msg.RespondMsg(&nats.Msg{Subject: msg.Reply, Data: reply.Bytes()})
	if err != nil {
		a.log.Error("Could not publish reply", "error", err)
	}
}

// workerFacts refreshes host facts at most every few minutes, requests in
// between reuse the previous snapshot
func (a *Agent) workerFacts(ctx context.Context) map[string]any {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.previousFacts != nil && time.Since(a.previousFactsTime) < minFactUpdateInterval {
		return a.previousFacts
	}

	var executables []string
	for _, spec := range wrapper.Products() {
		if spec.Executable != "" {
			executables = append(executables, spec.Executable)
		}
	}

	a.previousFacts = facts.WorkerFacts(ctx, a.log, a.cfg.BinDir, executables)
	a.previousFactsTime = time.Now()

	return a.previousFacts
}
