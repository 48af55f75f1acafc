package model_test

import (
	"testing"

	"github.com/blakkis/promille/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func TestDistributionRatio(t *testing.T) {
	Convey("Given the sex categories", t, func() {
		Convey("When resolving the male ratio", func() {
			So(model.SexMale.DistributionRatio(), ShouldEqual, 0.7)
		})

		Convey("When resolving the female ratio", func() {
			So(model.SexFemale.DistributionRatio(), ShouldEqual, 0.6)
		})

		Convey("When resolving an unrecognized category", func() {
			So(model.Sex("goat").DistributionRatio(), ShouldEqual, 0)
			So(model.Sex("").DistributionRatio(), ShouldEqual, 0)
		})
	})

	Convey("Given a profile", t, func() {
		p := model.BiometricProfile{WeightKg: 80, Sex: model.SexMale}

		Convey("Then it resolves the ratio through the sex category", func() {
			So(p.DistributionRatio(), ShouldEqual, 0.7)
		})
	})
}
