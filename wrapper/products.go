// Copyright (c) 2026, the ESPA Project contributors
//
// SPDX-License-Identifier: Apache-2.0

package wrapper

import (
	"fmt"

	"github.com/usgs-eros/espa-wrappers/model"
)

// SpectralIndices produces the desired spectral index products for the
// input surface reflectance or TOA reflectance bands
func SpectralIndices() model.ProductSpec {
	return model.ProductSpec{
		Name:  "spectral-indices",
		Title: "Spectral Indices",
		Description: "Produces the desired spectral index products for the input surface " +
			"reflectance or TOA reflectance bands. The options include: NDVI, EVI, SAVI, " +
			"MSAVI, NDMI (also known as NDWI or NDII), NBR, and NBR2. One, some, or all " +
			"of the supported indices may be requested.",
		Executable: "spectral_indices",
		ProductFlags: []model.FlagSpec{
			{Name: "ndvi", Help: "Process NDVI (normalized difference vegetation index)"},
			{Name: "evi", Help: "Process EVI (enhanced vegetation index)"},
			{Name: "savi", Help: "Process SAVI (soil adjusted vegetation index)"},
			{Name: "msavi", Help: "Process modified SAVI (soil adjusted vegetation index)"},
			{Name: "ndmi", Help: "Process NDMI (normalized difference moisture index)"},
			{Name: "nbr", Help: "Process NBR (normalized burn ratio)"},
			{Name: "nbr2", Help: "Process NBR2 (normalized burn ratio 2)"},
		},
		ModifierFlags: []model.FlagSpec{
			{Name: "toa", Help: "Process TOA bands instead of surface reflectance bands"},
		},
		SupportsVerbose: true,
	}
}

// SurfaceWaterExtent runs the scene based dynamic surface water algorithm
func SurfaceWaterExtent() model.ProductSpec {
	return model.ProductSpec{
		Name:        "surface-water-extent",
		Title:       "Surface Water Extent",
		Description: "Builds the command line and kicks off the Dynamic Surface Water Extent application",
		Executable:  "dswe",
		ValueFlags: []model.ValueFlagSpec{
			{Name: "dem", Help: "The DEM metadata file to use", PlaceHolder: "FILE", Required: true, MustExist: true},
		},
		SupportsVerbose: true,
		SupportsDebug:   true,
	}
}

// Cfmask generates the cloud function mask, Landsat 8 scenes are served by
// a dedicated tool
func Cfmask() model.ProductSpec {
	return model.ProductSpec{
		Name:           "cfmask",
		Title:          "Cloud Function Mask",
		Description:    "Generates the cloud, cloud shadow and snow mask for a scene",
		ExecutableRule: `satellite == "LANDSAT_8" ? "l8cfmask" : (satellite in ["LANDSAT_4", "LANDSAT_5", "LANDSAT_7"] ? "cfmask" : "")`,
		ValueFlags: []model.ValueFlagSpec{
			{Name: "prob", Help: "Cloud probability threshold", PlaceHolder: "PERCENT"},
			{Name: "cldpix", Help: "Cloud dilation in pixels", PlaceHolder: "PIXELS"},
			{Name: "sdpix", Help: "Cloud shadow dilation in pixels", PlaceHolder: "PIXELS"},
		},
		SupportsVerbose: true,
	}
}

// SurfaceReflectance corrects the scene to surface reflectance using the
// satellite specific atmospheric correction tool
func SurfaceReflectance() model.ProductSpec {
	return model.ProductSpec{
		Name:           "surface-reflectance",
		Title:          "Surface Reflectance",
		Description:    "Runs the atmospheric correction application producing surface reflectance and optionally TOA bands",
		ExecutableRule: `satellite == "LANDSAT_8" ? "l8_sr" : (satellite in ["LANDSAT_4", "LANDSAT_5", "LANDSAT_7"] ? "lndsr" : "")`,
		ProductFlags: []model.FlagSpec{
			{Name: "sr", Help: "Process surface reflectance bands"},
			{Name: "toa", Help: "Process top of atmosphere reflectance bands"},
		},
		SupportsVerbose: true,
		SupportsDebug:   true,
	}
}

// Products lists every known product specification
func Products() []model.ProductSpec {
	return []model.ProductSpec{
		SpectralIndices(),
		SurfaceWaterExtent(),
		Cfmask(),
		SurfaceReflectance(),
	}
}

// Product looks a product specification up by its CLI name
func Product(name string) (model.ProductSpec, error) {
	for _, spec := range Products() {
		if spec.Name == name {
			return spec, nil
		}
	}

	return model.ProductSpec{}, fmt.Errorf("%w: %s", model.ErrUnknownProduct, name)
}
