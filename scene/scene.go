// Copyright (c) 2026, the ESPA Project contributors
//
// SPDX-License-Identifier: Apache-2.0

// Package scene reads the small slice of the ESPA XML metadata the
// wrappers need. The file is otherwise opaque, full schema handling
// belongs to the underlying tools.
package scene

import (
	"encoding/json"
	"encoding/xml"
	"fmt"
	"os"
	"slices"

	"github.com/usgs-eros/espa-wrappers/model"
)

var landsat8 = []string{"LANDSAT_8"}
var legacyLandsat = []string{"LANDSAT_4", "LANDSAT_5", "LANDSAT_7"}

// Metadata is the satellite scene information extracted from
// <global_metadata> in the ESPA metadata file
type Metadata struct {
	Satellite       string `json:"satellite"`
	Instrument      string `json:"instrument"`
	AcquisitionDate string `json:"acquisition_date,omitempty"`
}

type xmlDocument struct {
	Global struct {
		Satellite       string `xml:"satellite"`
		Instrument      string `xml:"instrument"`
		AcquisitionDate string `xml:"acquisition_date"`
	} `xml:"global_metadata"`
}

// Parse reads the metadata file and extracts the global metadata fields
func Parse(path string) (*Metadata, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", model.ErrMissingInputFile, path)
	}

	doc := &xmlDocument{}
	err = xml.Unmarshal(raw, doc)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", model.ErrInvalidMetadata, path, err)
	}

	if doc.Global.Satellite == "" {
		return nil, fmt.Errorf("%w: %s: no satellite in global metadata", model.ErrInvalidMetadata, path)
	}

	return &Metadata{
		Satellite:       doc.Global.Satellite,
		Instrument:      doc.Global.Instrument,
		AcquisitionDate: doc.Global.AcquisitionDate,
	}, nil
}

// IsLandsat8 reports if the scene was acquired by Landsat 8, satellites
// outside the supported list are an error
func (m *Metadata) IsLandsat8() (bool, error) {
	switch {
	case slices.Contains(landsat8, m.Satellite):
		return true, nil
	case slices.Contains(legacyLandsat, m.Satellite):
		return false, nil
	default:
		return false, fmt.Errorf("%w: %s", model.ErrInvalidSatellite, m.Satellite)
	}
}

// Facts returns the metadata as a map for expression environments
func (m *Metadata) Facts() map[string]any {
	return map[string]any{
		"satellite":        m.Satellite,
		"instrument":       m.Instrument,
		"acquisition_date": m.AcquisitionDate,
	}
}

// FactsRaw returns the metadata rendered as JSON
func (m *Metadata) FactsRaw() (json.RawMessage, error) {
	return json.Marshal(m)
}
