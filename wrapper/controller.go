// Copyright (c) 2026, the ESPA Project contributors
//
// SPDX-License-Identifier: Apache-2.0

// Package wrapper runs one external science tool on behalf of a product
// request. A single Controller parameterized by a declarative ProductSpec
// replaces the per product script variants of the original pipeline.
package wrapper

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/expr-lang/expr"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/segmentio/ksuid"

	"github.com/usgs-eros/espa-wrappers/internal/cmdrunner"
	iu "github.com/usgs-eros/espa-wrappers/internal/util"
	"github.com/usgs-eros/espa-wrappers/metrics"
	"github.com/usgs-eros/espa-wrappers/model"
	"github.com/usgs-eros/espa-wrappers/scene"
)

// Controller validates a request against a product specification, builds
// the tool command line and executes it exactly once. Instances are safe
// to reuse across invocations, each Run is independent.
type Controller struct {
	spec   model.ProductSpec
	log    model.Logger
	out    model.Logger
	runner model.CommandRunner
	binDir string

	// the original scripts change into the metadata directory before
	// invoking the tool since outputs are produced next to the inputs
	runInSceneDir bool
}

// New creates a controller for one product family
func New(spec model.ProductSpec, opts ...Option) (*Controller, error) {
	err := spec.Validate()
	if err != nil {
		return nil, err
	}

	c := &Controller{spec: spec, runInSceneDir: true}

	for _, opt := range opts {
		err = opt(c)
		if err != nil {
			return nil, err
		}
	}

	if c.log == nil {
		c.log = NewSlogLogger(slog.New(slog.DiscardHandler))
	}
	c.log = c.log.With("product", spec.Name)

	if c.out == nil {
		c.out = c.log
	}

	if c.runner == nil {
		c.runner, err = cmdrunner.NewCommandRunner(c.log)
		if err != nil {
			return nil, err
		}
	}

	return c, nil
}

// Spec returns the product specification driving this controller
func (c *Controller) Spec() model.ProductSpec {
	return c.spec
}

// Run performs one wrapper invocation: preconditions, executable
// resolution, command construction, execution and output relay. Failed
// preconditions return before any subprocess is spawned.
func (c *Controller) Run(ctx context.Context, req model.Request) error {
	err := c.checkPreconditions(req)
	if err != nil {
		return err
	}

	exe, err := c.resolveExecutable(req)
	if err != nil {
		metrics.PreconditionFailures.WithLabelValues(c.spec.Name, "metadata").Inc()
		return err
	}

	cmd, err := c.BuildCommand(req, exe)
	if err != nil {
		return err
	}

	runID := ksuid.New().String()
	c.out.Info(fmt.Sprintf("%s is processing Landsat data associated with xml file (%s)", c.spec.Title, req.XMLFile), "run_id", runID)
	c.out.Info("Using the command line", "command", cmd.String())

	opts := model.ExecOptions{}
	if c.runInSceneDir {
		opts.Cwd = filepath.Dir(req.XMLFile)
	}

	timer := prometheus.NewTimer(metrics.RunTime.WithLabelValues(c.spec.Name))
	output, err := c.runner.RunWithOptions(ctx, cmd, opts)
	timer.ObserveDuration()

	c.relayOutput(output)

	if err != nil {
		metrics.RunsTotal.WithLabelValues(c.spec.Name, outcomeLabel(err)).Inc()
		return err
	}

	metrics.RunsTotal.WithLabelValues(c.spec.Name, model.OutcomeSuccess.String()).Inc()
	c.out.Info(fmt.Sprintf("Completion of %s", c.spec.Title), "run_id", runID)

	return nil
}

// BuildCommand assembles the tool argument vector for a request, tokens
// appear in declaration order, values stay separate tokens
func (c *Controller) BuildCommand(req model.Request, exe string) (*model.Command, error) {
	cmd, err := model.NewCommand(exe)
	if err != nil {
		return nil, err
	}

	cmd.AddFlagValue("--xml", req.XMLFile)

	for _, vf := range c.spec.ValueFlags {
		if v := req.Value(vf.Name); v != "" {
			cmd.AddFlagValue("--"+vf.Name, v)
		}
	}

	for _, mf := range c.spec.ModifierFlags {
		if req.IsEnabled(mf.Name) {
			cmd.AddFlag("--" + mf.Name)
		}
	}

	for _, pf := range c.spec.ProductFlags {
		if req.IsEnabled(pf.Name) {
			cmd.AddFlag("--" + pf.Name)
		}
	}

	if req.Verbose && c.spec.SupportsVerbose {
		cmd.AddFlag("--verbose")
	}

	if req.Debug && c.spec.SupportsDebug {
		cmd.AddFlag("--debug")
	}

	if len(req.ExtraArgs) > 0 {
		cmd.AddArgs(req.ExtraArgs...)
	}

	return cmd, nil
}

// ToolHelp runs the underlying tool with --help and returns whatever it
// printed, tools that exit nonzero from --help still produce usable text
func (c *Controller) ToolHelp(ctx context.Context, req model.Request) (string, error) {
	return c.passthrough(ctx, req, "--help")
}

// ToolVersion runs the underlying tool with --version
func (c *Controller) ToolVersion(ctx context.Context, req model.Request) (string, error) {
	return c.passthrough(ctx, req, "--version")
}

func (c *Controller) passthrough(ctx context.Context, req model.Request, flag string) (string, error) {
	exe, err := c.resolveExecutable(req)
	if err != nil {
		return "", err
	}

	cmd, err := model.NewCommand(exe)
	if err != nil {
		return "", err
	}
	cmd.AddFlag(flag)

	output, err := c.runner.Run(ctx, cmd)
	if err != nil {
		var ee *model.ExecutionError
		if errors.As(err, &ee) {
			return string(output), nil
		}

		return "", err
	}

	return string(output), nil
}

func (c *Controller) checkPreconditions(req model.Request) error {
	if req.XMLFile == "" {
		return fmt.Errorf("%w: xml metadata file is required", model.ErrInvalidRequest)
	}

	if len(c.spec.ProductFlags) > 0 && !c.anyProductRequested(req) {
		metrics.PreconditionFailures.WithLabelValues(c.spec.Name, "no-action").Inc()
		return fmt.Errorf("%w for %s", model.ErrNoActionRequested, c.spec.Title)
	}

	if !iu.FileExists(req.XMLFile) {
		metrics.PreconditionFailures.WithLabelValues(c.spec.Name, "missing-input").Inc()
		return fmt.Errorf("%w: XML file %s", model.ErrMissingInputFile, req.XMLFile)
	}

	for _, vf := range c.spec.ValueFlags {
		v := req.Value(vf.Name)

		if vf.Required && v == "" {
			return fmt.Errorf("%w: --%s is required", model.ErrInvalidRequest, vf.Name)
		}

		if vf.MustExist && v != "" && !iu.FileExists(v) {
			metrics.PreconditionFailures.WithLabelValues(c.spec.Name, "missing-input").Inc()
			return fmt.Errorf("%w: %s file %s", model.ErrMissingInputFile, vf.Name, v)
		}
	}

	return nil
}

func (c *Controller) anyProductRequested(req model.Request) bool {
	for _, pf := range c.spec.ProductFlags {
		if req.IsEnabled(pf.Name) {
			return true
		}
	}

	return false
}

// resolveExecutable determines which tool serves the request, consulting
// the scene metadata when the product declares a selection rule
func (c *Controller) resolveExecutable(req model.Request) (string, error) {
	exe := c.spec.Executable

	if c.spec.SelectsExecutable() {
		md, err := scene.Parse(req.XMLFile)
		if err != nil {
			return "", err
		}

		exe, err = selectExecutable(c.spec.ExecutableRule, md)
		if err != nil {
			return "", err
		}

		c.log.Debug("Selected executable from scene metadata", "executable", exe, "satellite", md.Satellite)
	}

	if c.binDir != "" {
		exe = filepath.Join(c.binDir, exe)
	}

	return exe, nil
}

func selectExecutable(rule string, md *scene.Metadata) (string, error) {
	facts := md.Facts()

	program, err := expr.Compile(rule, expr.Env(facts))
	if err != nil {
		return "", fmt.Errorf("invalid executable rule: %w", err)
	}

	out, err := expr.Run(program, facts)
	if err != nil {
		return "", fmt.Errorf("executable rule failed: %w", err)
	}

	exe, ok := out.(string)
	if !ok || exe == "" {
		return "", fmt.Errorf("%w: %s", model.ErrInvalidSatellite, md.Satellite)
	}

	return exe, nil
}

func (c *Controller) relayOutput(output []byte) {
	if len(output) == 0 {
		return
	}

	scanner := bufio.NewScanner(bytes.NewReader(output))
	for scanner.Scan() {
		c.out.Info(scanner.Text())
	}
}

func outcomeLabel(err error) string {
	var ee *model.ExecutionError
	if errors.As(err, &ee) {
		return ee.Outcome.String()
	}

	return "start-failure"
}
