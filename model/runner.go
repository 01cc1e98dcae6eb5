// Copyright (c) 2026, the ESPA Project contributors
//
// SPDX-License-Identifier: Apache-2.0

package model

import (
	"context"
)

// ExecOptions adjust how a command is spawned, there is deliberately no
// timeout, a hung tool blocks the wrapper until the context is canceled
type ExecOptions struct {
	Cwd         string
	Environment []string
	Path        string
}

// CommandRunner executes a Command synchronously, capturing the merged
// stdout and stderr streams. A nil error means the tool exited 0, any
// other outcome is reported as a *ExecutionError.
type CommandRunner interface {
	Run(ctx context.Context, cmd *Command) (output []byte, err error)
	RunWithOptions(ctx context.Context, cmd *Command, opts ExecOptions) (output []byte, err error)
}
