// Copyright (c) 2026, the ESPA Project contributors
//
// SPDX-License-Identifier: Apache-2.0

package agent

import (
	"github.com/usgs-eros/espa-wrappers/model"
)

type Option func(a *Agent) error

// WithLogger sets the agent logger, replacing the configured one
func WithLogger(log model.Logger) Option {
	return func(a *Agent) error {
		a.log = log
		return nil
	}
}

// WithNatsConnection supplies the NATS connection provider
func WithNatsConnection(provider NatsConnProvider) Option {
	return func(a *Agent) error {
		a.nats = provider
		return nil
	}
}

// WithRunner overrides the command runner used for tool execution
func WithRunner(runner model.CommandRunner) Option {
	return func(a *Agent) error {
		a.runner = runner
		return nil
	}
}
