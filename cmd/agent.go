// Copyright (c) 2026, the ESPA Project contributors
//
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"strconv"
	"sync"

	"github.com/choria-io/fisk"

	"github.com/usgs-eros/espa-wrappers/agent"
	"github.com/usgs-eros/espa-wrappers/config"
)

type agentCommand struct {
	natsContext string
	servers     string
	subject     string
	queue       string
	monitorPort int
	binDir      string
}

func registerAgentCommand(app *fisk.Application, cfg *config.Config) {
	cmd := &agentCommand{}

	ag := app.Command("agent", "Serves processing requests over NATS").Action(cmd.runAction)
	ag.Flag("context", "NATS Context to connect with").Envar("NATS_CONTEXT").Default(cfg.Nats.Context).StringVar(&cmd.natsContext)
	ag.Flag("servers", "NATS servers to connect to").Envar("NATS_URL").Default(cfg.Nats.Servers).StringVar(&cmd.servers)
	ag.Flag("subject", "Subject prefix to receive requests on").Default(orDefault(cfg.Nats.Subject, agent.DefaultSubject)).StringVar(&cmd.subject)
	ag.Flag("queue", "Queue group for load sharing").Default(orDefault(cfg.Nats.Queue, agent.DefaultQueue)).StringVar(&cmd.queue)
	ag.Flag("monitor-port", "Port to serve monitoring data on").Default(strconv.Itoa(cfg.Nats.MonitorPort)).IntVar(&cmd.monitorPort)
	ag.Flag("bin-dir", "Directory holding the science tools").Envar("BIN").Default(cfg.BinDir).PlaceHolder("DIR").StringVar(&cmd.binDir)
}

func (a *agentCommand) runAction(_ *fisk.ParseContext) error {
	acfg := &agent.Config{
		NatsContext: a.natsContext,
		Servers:     a.servers,
		Subject:     a.subject,
		Queue:       a.queue,
		MonitorPort: a.monitorPort,
		BinDir:      a.binDir,
	}

	switch {
	case debug:
		acfg.LogLevel = "debug"
	case info:
		acfg.LogLevel = "info"
	}

	ag, err := agent.New(acfg)
	if err != nil {
		return err
	}

	wg := sync.WaitGroup{}
	wg.Add(1)
	err = ag.Run(ctx, &wg)
	if err != nil {
		return err
	}

	wg.Wait()

	return nil
}
