// Copyright (c) 2026, the ESPA Project contributors
//
// SPDX-License-Identifier: Apache-2.0

package model

import (
	"fmt"
	"strings"

	"github.com/kballard/go-shellquote"
)

// Command is an ordered argument vector for an external tool. The first
// token is the program path or name, every following token is a flag or a
// flag value. Tokens are handed to the process spawn primitive verbatim,
// never through a shell, so values containing shell metacharacters cannot
// change the meaning of the invocation.
type Command struct {
	tokens []string
}

// NewCommand creates a command for the given program
func NewCommand(program string) (*Command, error) {
	if strings.TrimSpace(program) == "" {
		return nil, ErrInvalidProgram
	}

	return &Command{tokens: []string{program}}, nil
}

// AddFlag appends a boolean switch such as --verbose
func (c *Command) AddFlag(name string) *Command {
	c.tokens = append(c.tokens, name)

	return c
}

// AddFlagValue appends a flag followed by its values, each value is kept
// as its own token
func (c *Command) AddFlagValue(name string, values ...string) *Command {
	c.tokens = append(c.tokens, name)
	c.tokens = append(c.tokens, values...)

	return c
}

// AddArgs appends pre-split tokens, used for user supplied extra tool arguments
func (c *Command) AddArgs(args ...string) *Command {
	c.tokens = append(c.tokens, args...)

	return c
}

// Program is the first token of the vector
func (c *Command) Program() string {
	return c.tokens[0]
}

// Args are all tokens after the program
func (c *Command) Args() []string {
	if len(c.tokens) == 1 {
		return nil
	}

	return c.tokens[1:]
}

// Tokens returns a copy of the full vector including the program
func (c *Command) Tokens() []string {
	out := make([]string, len(c.tokens))
	copy(out, c.tokens)

	return out
}

// String renders the vector quoted for display in log lines, the rendered
// form is never what gets executed
func (c *Command) String() string {
	return shellquote.Join(c.tokens...)
}

// Outcome classifies how a child process ended
type Outcome int

const (
	// OutcomeSuccess is a normal exit with code 0
	OutcomeSuccess Outcome = iota
	// OutcomeNonZeroExit is a normal exit with a failure code
	OutcomeNonZeroExit
	// OutcomeSignalTerminated is a process killed by a signal
	OutcomeSignalTerminated
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSuccess:
		return "success"
	case OutcomeNonZeroExit:
		return "nonzero-exit"
	case OutcomeSignalTerminated:
		return "signal-terminated"
	default:
		return "unknown"
	}
}

// ExecutionError is returned by the command runner for any non success
// outcome, it carries the classification and whatever the tool wrote so
// callers can relay the underlying diagnostics
type ExecutionError struct {
	Outcome  Outcome
	ExitCode int
	Signal   string
	Output   string
	Command  string
}

func (e *ExecutionError) Error() string {
	switch e.Outcome {
	case OutcomeSignalTerminated:
		return fmt.Sprintf("application terminated by signal %s [%s]", e.Signal, e.Command)
	default:
		return fmt.Sprintf("application [%s] returned error code [%d]", e.Command, e.ExitCode)
	}
}
