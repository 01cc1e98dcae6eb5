// Copyright (c) 2026, the ESPA Project contributors
//
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/choria-io/fisk"
	"github.com/goccy/go-yaml"
	"github.com/tidwall/gjson"

	"github.com/usgs-eros/espa-wrappers/scene"
)

type sceneCommand struct {
	xml        string
	query      string
	yamlFormat bool
}

func registerSceneCommand(app *fisk.Application) {
	cmd := &sceneCommand{}

	sc := app.Command("scene", "Shows scene metadata facts").Action(cmd.sceneAction)
	sc.Arg("xml", "The XML metadata file to inspect").Required().StringVar(&cmd.xml)
	sc.Arg("query", "Query to execute").StringVar(&cmd.query)
	sc.Flag("yaml", "Output facts in YAML format").UnNegatableBoolVar(&cmd.yamlFormat)
}

func (c *sceneCommand) sceneAction(_ *fisk.ParseContext) error {
	log := newLogger()

	md, err := scene.Parse(c.xml)
	if err != nil {
		return exitForError(log, err)
	}

	f, err := md.FactsRaw()
	if err != nil {
		return err
	}

	if c.query != "" {
		res := gjson.GetBytes(f, c.query)
		f = []byte(res.Raw)
	}

	if c.yamlFormat {
		y, err := yaml.JSONToYAML(f)
		if err != nil {
			return err
		}

		fmt.Println(string(y))
		return nil
	}

	j := bytes.NewBuffer([]byte{})
	err = json.Indent(j, f, "", "  ")
	if err != nil {
		return err
	}

	fmt.Println(j.String())

	return nil
}
