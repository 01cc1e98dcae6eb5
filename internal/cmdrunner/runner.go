// Copyright (c) 2026, the ESPA Project contributors
//
// SPDX-License-Identifier: Apache-2.0

package cmdrunner

import (
	"bytes"
	"context"
	"errors"
	"os"
	"os/exec"
	"syscall"

	"github.com/usgs-eros/espa-wrappers/model"
)

// CommandRunner executes external tools and captures their output
type CommandRunner struct {
	logger model.Logger
}

var _ model.CommandRunner = (*CommandRunner)(nil)

// NewCommandRunner creates a new CommandRunner instance with the provided logger
func NewCommandRunner(log model.Logger) (*CommandRunner, error) {
	return &CommandRunner{logger: log}, nil
}

// Run executes the command in the current working directory with the
// inherited environment
func (c *CommandRunner) Run(ctx context.Context, cmd *model.Command) ([]byte, error) {
	return c.RunWithOptions(ctx, cmd, model.ExecOptions{})
}

// RunWithOptions executes the command and blocks until it exits, stdout and
// stderr are captured merged in arrival order. Exit status 0 returns a nil
// error, every other outcome returns a *model.ExecutionError holding the
// classification and the captured output.
func (c *CommandRunner) RunWithOptions(ctx context.Context, cmd *model.Command, opts model.ExecOptions) ([]byte, error) {
	if cmd == nil {
		return nil, errors.New("command not specified")
	}

	logOpts := []any{"command", cmd.Program(), "args", cmd.Args()}
	if opts.Cwd != "" {
		logOpts = append(logOpts, "cwd", opts.Cwd)
	}

	c.logger.Debug("Running command", logOpts...)

	// the argument vector goes to the spawn primitive directly, values are
	// never interpreted by a shell
	execCmd := exec.CommandContext(ctx, cmd.Program(), cmd.Args()...)

	execCmd.Env = environment(opts)

	if opts.Cwd != "" {
		execCmd.Dir = opts.Cwd
	}

	output := bytes.NewBuffer([]byte{})
	execCmd.Stdout = output
	execCmd.Stderr = output

	err := execCmd.Run()

	var exitErr *exec.ExitError
	switch {
	case err == nil:
		return output.Bytes(), nil

	case errors.As(err, &exitErr):
		return output.Bytes(), classify(exitErr, cmd, output.String())

	default:
		// the tool could not be started at all
		return output.Bytes(), err
	}
}

func classify(exitErr *exec.ExitError, cmd *model.Command, output string) *model.ExecutionError {
	ee := &model.ExecutionError{
		Output:  output,
		Command: cmd.String(),
	}

	ws, ok := exitErr.Sys().(syscall.WaitStatus)
	if ok && ws.Signaled() {
		ee.Outcome = model.OutcomeSignalTerminated
		ee.Signal = ws.Signal().String()
		ee.ExitCode = -1

		return ee
	}

	ee.Outcome = model.OutcomeNonZeroExit
	ee.ExitCode = exitErr.ExitCode()

	return ee
}

func environment(opts model.ExecOptions) []string {
	env := os.Environ()

	if opts.Path != "" {
		env = append(env, "PATH="+opts.Path)
	}

	env = append(env, opts.Environment...)

	return env
}
