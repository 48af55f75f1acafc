package units_test

import (
	"errors"
	"testing"

	"github.com/blakkis/promille/internal/domain/units"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMassOfEthanol(t *testing.T) {
	Convey("Given the ethanol mass converter", t, func() {
		Convey("When converting a 0.33 L 4.7% beverage", func() {
			grams, err := units.MassOfEthanol(0.33, 0.047)

			Convey("Then it yields the reference dose of roughly 12.2 grams", func() {
				So(err, ShouldBeNil)
				So(grams, ShouldAlmostEqual, 12.237, 0.001)
			})
		})

		Convey("When converting a 4 cl 40% shot", func() {
			grams, err := units.MassOfEthanol(0.04, 0.40)
			So(err, ShouldBeNil)
			So(grams, ShouldAlmostEqual, 12.624, 0.001)
		})

		Convey("When converting zero volume", func() {
			grams, err := units.MassOfEthanol(0, 0.5)
			So(err, ShouldBeNil)
			So(grams, ShouldEqual, 0)
		})

		Convey("When the fraction is above 1", func() {
			_, err := units.MassOfEthanol(0.5, 1.2)
			So(errors.Is(err, units.ErrInvalidDrinkSpec), ShouldBeTrue)
		})

		Convey("When the fraction is negative", func() {
			_, err := units.MassOfEthanol(0.5, -0.1)
			So(errors.Is(err, units.ErrInvalidDrinkSpec), ShouldBeTrue)
		})

		Convey("When the volume exceeds the sanity cap", func() {
			_, err := units.MassOfEthanol(10.5, 0.05)
			So(errors.Is(err, units.ErrInvalidDrinkSpec), ShouldBeTrue)
		})

		Convey("When the volume is negative", func() {
			_, err := units.MassOfEthanol(-0.33, 0.047)
			So(errors.Is(err, units.ErrInvalidDrinkSpec), ShouldBeTrue)
		})
	})
}

func TestPresets(t *testing.T) {
	Convey("Given the preset table", t, func() {
		Convey("Then every named preset resolves to a positive gram amount", func() {
			for _, name := range units.PresetNames() {
				grams, ok := units.Preset(name)
				So(ok, ShouldBeTrue)
				So(grams, ShouldBeGreaterThan, 0)
			}
		})

		Convey("Then an unknown preset does not resolve", func() {
			_, ok := units.Preset("olut12")
			So(ok, ShouldBeFalse)
		})

		Convey("Then the reference dose equals the 0.33 L 4.7% preset", func() {
			So(units.ReferenceDoseGrams, ShouldEqual, units.Kalja033)
		})

		Convey("Then one reference dose is exactly one standard unit", func() {
			So(units.StandardUnits(units.ReferenceDoseGrams), ShouldEqual, 1.0)
		})
	})
}
