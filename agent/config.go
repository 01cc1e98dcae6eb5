// Copyright (c) 2026, the ESPA Project contributors
//
// SPDX-License-Identifier: Apache-2.0

package agent

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/usgs-eros/espa-wrappers/model"
	"github.com/usgs-eros/espa-wrappers/wrapper"
)

const (
	DefaultSubject = "espa.process"
	DefaultQueue   = "espa-wrappers"
)

// Config configures a processing agent
type Config struct {
	// NatsContext is a named NATS context to connect with, wins over Servers
	NatsContext string `json:"nats_context" yaml:"nats_context"`
	// Servers is a comma separated list of NATS servers
	Servers string `json:"servers" yaml:"servers"`
	// Subject is the subject prefix requests arrive on
	Subject string `json:"subject" yaml:"subject"`
	// Queue is the queue group shared by cooperating agents
	Queue string `json:"queue" yaml:"queue"`
	// MonitorPort serves prometheus metrics when positive
	MonitorPort int `json:"monitor_port" yaml:"monitor_port"`
	// BinDir resolves science tools from a directory instead of the PATH
	BinDir string `json:"bin_dir" yaml:"bin_dir"`

	// LogLevel is one of debug, info, warn or error
	LogLevel string `json:"log_level" yaml:"log_level"`
}

// Validate checks the configuration and fills in defaults
func (c *Config) Validate() error {
	if c.NatsContext == "" && c.Servers == "" {
		return fmt.Errorf("a nats context or server list is required")
	}

	if c.Subject == "" {
		c.Subject = DefaultSubject
	}

	if c.Queue == "" {
		c.Queue = DefaultQueue
	}

	return nil
}

// NewLogger creates the agent logger honoring the configured level
func (c *Config) NewLogger() model.Logger {
	level := slog.LevelInfo

	switch c.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})

	return wrapper.NewSlogLogger(slog.New(handler))
}
