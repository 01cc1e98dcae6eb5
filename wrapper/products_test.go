// Copyright (c) 2026, the ESPA Project contributors
//
// SPDX-License-Identifier: Apache-2.0

package wrapper

import (
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/usgs-eros/espa-wrappers/model"
)

var _ = Describe("Products", func() {
	It("Should expose valid specifications only", func() {
		specs := Products()
		Expect(specs).To(HaveLen(4))

		for _, spec := range specs {
			Expect(spec.Validate()).To(Succeed(), spec.Name)
		}
	})

	It("Should look products up by name", func() {
		spec, err := Product("spectral-indices")
		Expect(err).ToNot(HaveOccurred())
		Expect(spec.Executable).To(Equal("spectral_indices"))

		_, err = Product("thermal")
		Expect(err).To(MatchError(model.ErrUnknownProduct))
		Expect(errors.Is(err, model.ErrUnknownProduct)).To(BeTrue())
	})

	Describe("SpectralIndices", func() {
		It("Should offer every supported index", func() {
			spec := SpectralIndices()

			var names []string
			for _, f := range spec.ProductFlags {
				names = append(names, f.Name)
			}
			Expect(names).To(Equal([]string{"ndvi", "evi", "savi", "msavi", "ndmi", "nbr", "nbr2"}))
			Expect(spec.ModifierFlags).To(HaveLen(1))
			Expect(spec.ModifierFlags[0].Name).To(Equal("toa"))
			Expect(spec.SelectsExecutable()).To(BeFalse())
		})
	})

	Describe("SurfaceWaterExtent", func() {
		It("Should require an existing dem file", func() {
			spec := SurfaceWaterExtent()

			Expect(spec.ProductFlags).To(BeEmpty())
			Expect(spec.ValueFlags).To(HaveLen(1))
			Expect(spec.ValueFlags[0].Name).To(Equal("dem"))
			Expect(spec.ValueFlags[0].Required).To(BeTrue())
			Expect(spec.ValueFlags[0].MustExist).To(BeTrue())
		})
	})

	Describe("Cfmask", func() {
		It("Should select its executable from the satellite", func() {
			spec := Cfmask()

			Expect(spec.Executable).To(BeEmpty())
			Expect(spec.SelectsExecutable()).To(BeTrue())
		})
	})

	Describe("SurfaceReflectance", func() {
		It("Should select its executable from the satellite", func() {
			spec := SurfaceReflectance()

			Expect(spec.SelectsExecutable()).To(BeTrue())

			var names []string
			for _, f := range spec.ProductFlags {
				names = append(names, f.Name)
			}
			Expect(names).To(Equal([]string{"sr", "toa"}))
		})
	})
})
