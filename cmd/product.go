// Copyright (c) 2026, the ESPA Project contributors
//
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"

	"github.com/choria-io/fisk"
	"github.com/kballard/go-shellquote"

	"github.com/usgs-eros/espa-wrappers/config"
	"github.com/usgs-eros/espa-wrappers/metrics"
	"github.com/usgs-eros/espa-wrappers/model"
	"github.com/usgs-eros/espa-wrappers/wrapper"
)

type productCommand struct {
	spec model.ProductSpec

	xml         string
	flags       map[string]*bool
	values      map[string]*string
	verbose     bool
	toolDebug   bool
	toolHelp    bool
	toolVersion bool
	toolArgs    string
	binDir      string
	logFile     string
	metricsFile string
}

func registerProductCommands(app *fisk.Application, cfg *config.Config) {
	for _, spec := range wrapper.Products() {
		registerProductCommand(app, spec, cfg)
	}
}

func registerProductCommand(app *fisk.Application, spec model.ProductSpec, cfg *config.Config) {
	cmd := &productCommand{
		spec:   spec,
		flags:  map[string]*bool{},
		values: map[string]*string{},
	}

	pc := app.Command(spec.Name, spec.Description).Action(cmd.runAction)

	pc.Flag("xml", "The XML metadata file to use").PlaceHolder("FILE").StringVar(&cmd.xml)

	for _, pf := range spec.ProductFlags {
		cmd.flags[pf.Name] = pc.Flag(pf.Name, pf.Help).UnNegatableBool()
	}

	for _, mf := range spec.ModifierFlags {
		cmd.flags[mf.Name] = pc.Flag(mf.Name, mf.Help).UnNegatableBool()
	}

	for _, vf := range spec.ValueFlags {
		f := pc.Flag(vf.Name, vf.Help)
		if vf.PlaceHolder != "" {
			f.PlaceHolder(vf.PlaceHolder)
		}
		cmd.values[vf.Name] = f.String()
	}

	if spec.SupportsVerbose {
		pc.Flag("verbose", "Turn verbose tool output on").UnNegatableBoolVar(&cmd.verbose)
	}

	if spec.SupportsDebug {
		pc.Flag("tool-debug", "Turn tool debug output on").UnNegatableBoolVar(&cmd.toolDebug)
	}

	pc.Flag("tool-help", "Show the underlying tool usage and exit").UnNegatableBoolVar(&cmd.toolHelp)
	pc.Flag("tool-version", "Show the underlying tool version and exit").UnNegatableBoolVar(&cmd.toolVersion)
	pc.Flag("tool-args", "Additional arguments passed to the tool verbatim").PlaceHolder("ARGS").StringVar(&cmd.toolArgs)
	pc.Flag("bin-dir", "Directory holding the science tools").Envar("BIN").Default(cfg.BinDir).PlaceHolder("DIR").StringVar(&cmd.binDir)
	pc.Flag("logfile", "Append processing output to this log file").Default(cfg.LogFile).PlaceHolder("FILE").StringVar(&cmd.logFile)
	pc.Flag("metrics", "Write prometheus metrics to this textfile").Default(cfg.MetricsFile).PlaceHolder("FILE").StringVar(&cmd.metricsFile)
}

func (c *productCommand) runAction(_ *fisk.ParseContext) error {
	log := newLogger()

	out := newOutputLogger()
	if c.logFile != "" {
		fileLog, err := newFileLogger(c.logFile)
		if err != nil {
			return err
		}
		out = newTeeLogger(out, fileLog)
	}

	opts := []wrapper.Option{
		wrapper.WithLogger(log),
		wrapper.WithOutputLogger(out),
	}
	if c.binDir != "" {
		opts = append(opts, wrapper.WithBinDir(c.binDir))
	}

	controller, err := wrapper.New(c.spec, opts...)
	if err != nil {
		return err
	}

	req, err := c.request()
	if err != nil {
		return err
	}

	switch {
	case c.toolHelp:
		usage, err := controller.ToolHelp(ctx, req)
		if err != nil {
			return exitForError(log, err)
		}
		fmt.Print(usage)
		return nil

	case c.toolVersion:
		version, err := controller.ToolVersion(ctx, req)
		if err != nil {
			return exitForError(log, err)
		}
		fmt.Print(version)
		return nil
	}

	metrics.RegisterMetrics()

	err = controller.Run(ctx, req)

	if c.metricsFile != "" {
		werr := metrics.WriteTextfile(c.metricsFile)
		if werr != nil {
			log.Warn("Could not write metrics", "file", c.metricsFile, "error", werr)
		}
	}

	if err != nil {
		return exitForError(log, err)
	}

	return nil
}

func (c *productCommand) request() (model.Request, error) {
	req := model.Request{
		XMLFile: c.xml,
		Enabled: map[string]bool{},
		Values:  map[string]string{},
		Verbose: c.verbose,
		Debug:   c.toolDebug,
	}

	for name, v := range c.flags {
		if v != nil && *v {
			req.Enabled[name] = true
		}
	}

	for name, v := range c.values {
		if v != nil && *v != "" {
			req.Values[name] = *v
		}
	}

	if c.toolArgs != "" {
		args, err := shellquote.Split(c.toolArgs)
		if err != nil {
			return req, fmt.Errorf("%w: invalid tool arguments: %w", model.ErrInvalidRequest, err)
		}
		req.ExtraArgs = args
	}

	return req, nil
}
