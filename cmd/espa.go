// Copyright (c) 2026, the ESPA Project contributors
//
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"log"
	"os"
	"os/signal"

	"github.com/choria-io/fisk"

	"github.com/usgs-eros/espa-wrappers/config"
)

var (
	ctx     context.Context
	debug   bool
	info    bool
	Version = "development"
)

func main() {
	app := fisk.New("espa", "ESPA science product wrappers")
	app.Version(Version)
	app.Author("https://espa.cr.usgs.gov")

	app.Flag("debug", "Enable debug logging").UnNegatableBoolVar(&debug)
	app.Flag("info", "Enable info logging").UnNegatableBoolVar(&info)

	cfg, err := config.LoadDefault()
	if err != nil {
		log.Fatalf("Could not load configuration: %s", err)
	}

	registerProductCommands(app, cfg)
	registerSceneCommand(app)
	registerAgentCommand(app, cfg)

	ctx, _ = signal.NotifyContext(context.Background(), os.Interrupt)

	app.MustParseWithUsage(os.Args[1:])
}
