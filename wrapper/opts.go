// Copyright (c) 2026, the ESPA Project contributors
//
// SPDX-License-Identifier: Apache-2.0

package wrapper

import (
	"fmt"

	iu "github.com/usgs-eros/espa-wrappers/internal/util"
	"github.com/usgs-eros/espa-wrappers/model"
)

// Option is a functional option for configuring a Controller
type Option func(*Controller) error

// WithLogger sets the diagnostic logger
func WithLogger(log model.Logger) Option {
	return func(c *Controller) error {
		c.log = log

		return nil
	}
}

// WithOutputLogger sets the logger that carries the execute header, the
// relayed tool output and the completion message
func WithOutputLogger(log model.Logger) Option {
	return func(c *Controller) error {
		c.out = log

		return nil
	}
}

// WithRunner sets the command runner used to spawn tools
func WithRunner(runner model.CommandRunner) Option {
	return func(c *Controller) error {
		c.runner = runner

		return nil
	}
}

// WithBinDir resolves executables below a directory instead of the PATH,
// the original scripts call this the BIN directory
func WithBinDir(dir string) Option {
	return func(c *Controller) error {
		if dir != "" && !iu.IsDirectory(dir) {
			return fmt.Errorf("bin directory %s does not exist", dir)
		}

		c.binDir = dir

		return nil
	}
}

// WithoutSceneDirectory keeps the tool in the inherited working directory
// instead of the metadata file directory
func WithoutSceneDirectory() Option {
	return func(c *Controller) error {
		c.runInSceneDir = false

		return nil
	}
}
