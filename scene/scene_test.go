// Copyright (c) 2026, the ESPA Project contributors
//
// SPDX-License-Identifier: Apache-2.0

package scene

import (
	"os"
	"path/filepath"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/tidwall/gjson"

	"github.com/usgs-eros/espa-wrappers/model"
)

func TestScene(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Scene")
}

const sampleMetadata = `<espa_metadata version="2.0">
  <global_metadata>
    <satellite>LANDSAT_8</satellite>
    <instrument>OLI_TIRS</instrument>
    <acquisition_date>2015-07-01</acquisition_date>
  </global_metadata>
</espa_metadata>`

var _ = Describe("Scene", func() {
	var dir string

	writeMetadata := func(name string, body string) string {
		path := filepath.Join(dir, name)
		Expect(os.WriteFile(path, []byte(body), 0644)).To(Succeed())
		return path
	}

	BeforeEach(func() {
		dir = GinkgoT().TempDir()
	})

	Describe("Parse", func() {
		It("Should extract the global metadata", func() {
			md, err := Parse(writeMetadata("scene.xml", sampleMetadata))
			Expect(err).ToNot(HaveOccurred())
			Expect(md.Satellite).To(Equal("LANDSAT_8"))
			Expect(md.Instrument).To(Equal("OLI_TIRS"))
			Expect(md.AcquisitionDate).To(Equal("2015-07-01"))
		})

		It("Should fail for missing files", func() {
			_, err := Parse(filepath.Join(dir, "missing.xml"))
			Expect(err).To(MatchError(model.ErrMissingInputFile))
		})

		It("Should fail for malformed XML", func() {
			_, err := Parse(writeMetadata("bad.xml", "<espa_metadata><global"))
			Expect(err).To(MatchError(model.ErrInvalidMetadata))
		})

		It("Should require a satellite", func() {
			_, err := Parse(writeMetadata("nosat.xml", "<espa_metadata><global_metadata><instrument>TM</instrument></global_metadata></espa_metadata>"))
			Expect(err).To(MatchError(model.ErrInvalidMetadata))
		})
	})

	Describe("IsLandsat8", func() {
		It("Should recognise Landsat 8", func() {
			md := &Metadata{Satellite: "LANDSAT_8"}
			is, err := md.IsLandsat8()
			Expect(err).ToNot(HaveOccurred())
			Expect(is).To(BeTrue())
		})

		It("Should recognise legacy Landsat satellites", func() {
			for _, sat := range []string{"LANDSAT_4", "LANDSAT_5", "LANDSAT_7"} {
				md := &Metadata{Satellite: sat}
				is, err := md.IsLandsat8()
				Expect(err).ToNot(HaveOccurred())
				Expect(is).To(BeFalse())
			}
		})

		It("Should reject unsupported satellites", func() {
			md := &Metadata{Satellite: "SENTINEL_2"}
			_, err := md.IsLandsat8()
			Expect(err).To(MatchError(model.ErrInvalidSatellite))
		})
	})

	Describe("Facts", func() {
		It("Should expose the metadata for expression environments", func() {
			md := &Metadata{Satellite: "LANDSAT_7", Instrument: "ETM"}
			Expect(md.Facts()).To(Equal(map[string]any{
				"satellite":        "LANDSAT_7",
				"instrument":       "ETM",
				"acquisition_date": "",
			}))
		})
	})

	Describe("FactsRaw", func() {
		It("Should render queryable JSON", func() {
			md, err := Parse(writeMetadata("scene.xml", sampleMetadata))
			Expect(err).ToNot(HaveOccurred())

			raw, err := md.FactsRaw()
			Expect(err).ToNot(HaveOccurred())
			Expect(gjson.GetBytes(raw, "satellite").String()).To(Equal("LANDSAT_8"))
			Expect(gjson.GetBytes(raw, "instrument").String()).To(Equal("OLI_TIRS"))
		})
	})
})
