package alcomath_test

import (
	"errors"
	"testing"
	"time"

	"github.com/blakkis/promille/internal/domain/alcomath"
	"github.com/blakkis/promille/internal/domain/model"
	"github.com/blakkis/promille/internal/domain/units"
	. "github.com/smartystreets/goconvey/convey"
)

func TestCurrentState(t *testing.T) {
	Convey("Given an 80 kg male profile", t, func() {
		profile := model.BiometricProfile{WeightKg: 80, Sex: model.SexMale}
		t0 := time.Date(2026, 8, 1, 20, 0, 0, 0, time.UTC)

		Convey("When no drinks were logged", func() {
			state, err := alcomath.CurrentState(profile, nil, t0)

			Convey("Then everything is zero and no error is returned", func() {
				So(err, ShouldBeNil)
				So(state.Permilles, ShouldEqual, 0)
				So(state.UnburnedGrams, ShouldEqual, 0)
				So(state.HoursUntilSober, ShouldEqual, 0)
				So(state.TotalGrams, ShouldEqual, 0)
			})
		})

		Convey("When a single drink of g grams lands at the query instant", func() {
			events := []model.DrinkEvent{
				{EthanolGrams: 14, OccurredAt: t0},
			}
			state, err := alcomath.CurrentState(profile, events, t0)

			Convey("Then the concentration is exactly g over weight times ratio", func() {
				So(err, ShouldBeNil)
				So(state.Permilles, ShouldEqual, 14.0/(80*0.7))
				So(state.UnburnedGrams, ShouldEqual, 14.0)
			})

			Convey("Then time to sober is the unburned mass over the burn rate", func() {
				So(state.HoursUntilSober, ShouldAlmostEqual, 14.0/(80*0.7*0.15), 1e-9)
			})
		})

		Convey("When one hour passes after a single drink", func() {
			events := []model.DrinkEvent{
				{EthanolGrams: 14, OccurredAt: t0},
			}
			later := t0.Add(time.Hour)
			unburned, err := alcomath.UnburnedGrams(profile, events, later)

			Convey("Then the burn is linear at weight*ratio*0.15 grams per hour", func() {
				So(err, ShouldBeNil)
				// 80 kg male burns 8.4 g/h, so 5.6 g of the dose remain.
				So(unburned, ShouldAlmostEqual, 14.0-80*0.7*0.15, 1e-9)
			})
		})

		Convey("When the dose outlives several sample instants", func() {
			events := []model.DrinkEvent{
				{EthanolGrams: 42, OccurredAt: t0},
			}
			rate := 80 * 0.7 * 0.15

			Convey("Then each positive-regime sample sits on the same line", func() {
				for _, hours := range []float64{0.5, 1, 2, 4} {
					at := t0.Add(time.Duration(hours * float64(time.Hour)))
					unburned, err := alcomath.UnburnedGrams(profile, events, at)
					So(err, ShouldBeNil)
					So(unburned, ShouldAlmostEqual, 42.0-rate*hours, 1e-9)
				}
			})
		})

		Convey("When enough time passes to burn everything", func() {
			events := []model.DrinkEvent{
				{EthanolGrams: 10, OccurredAt: t0},
			}
			muchLater := t0.Add(48 * time.Hour)

			Convey("Then the pool clamps at zero, never negative", func() {
				unburned, err := alcomath.UnburnedGrams(profile, events, muchLater)
				So(err, ShouldBeNil)
				So(unburned, ShouldEqual, 0)

				permilles, err := alcomath.Permilles(profile, events, muchLater)
				So(err, ShouldBeNil)
				So(permilles, ShouldEqual, 0)

				hours, err := alcomath.HoursUntilSober(profile, events, muchLater)
				So(err, ShouldBeNil)
				So(hours, ShouldEqual, 0)
			})
		})

		Convey("When the query instant precedes the only drink", func() {
			events := []model.DrinkEvent{
				{EthanolGrams: 20, OccurredAt: t0.Add(time.Hour)},
			}
			unburned, err := alcomath.UnburnedGrams(profile, events, t0)

			Convey("Then the future drink contributes nothing", func() {
				So(err, ShouldBeNil)
				So(unburned, ShouldEqual, 0)
			})
		})

		Convey("When drinks overlap in time", func() {
			events := []model.DrinkEvent{
				{EthanolGrams: 14, OccurredAt: t0},
				{EthanolGrams: 14, OccurredAt: t0.Add(30 * time.Minute)},
			}
			at := t0.Add(time.Hour)
			unburned, err := alcomath.UnburnedGrams(profile, events, at)

			Convey("Then each event decays independently from its own start", func() {
				rate := 80 * 0.7 * 0.15
				So(err, ShouldBeNil)
				So(unburned, ShouldAlmostEqual, (14.0-rate*1.0)+(14.0-rate*0.5), 1e-9)
			})
		})

		Convey("When the pool is sampled twice with no drinks in between", func() {
			events := []model.DrinkEvent{
				{EthanolGrams: 25, OccurredAt: t0},
				{EthanolGrams: 13, OccurredAt: t0.Add(time.Hour)},
			}

			Convey("Then unburned grams never increase between doses", func() {
				prev, err := alcomath.UnburnedGrams(profile, events, t0.Add(2*time.Hour))
				So(err, ShouldBeNil)
				for i := 1; i <= 20; i++ {
					at := t0.Add(2*time.Hour + time.Duration(i)*15*time.Minute)
					cur, err := alcomath.UnburnedGrams(profile, events, at)
					So(err, ShouldBeNil)
					So(cur, ShouldBeLessThanOrEqualTo, prev)
					prev = cur
				}
			})

			Convey("Then unburned grams never exceed total grams consumed", func() {
				for i := 0; i <= 10; i++ {
					at := t0.Add(time.Duration(i) * time.Hour)
					unburned, err := alcomath.UnburnedGrams(profile, events, at)
					So(err, ShouldBeNil)
					So(unburned, ShouldBeLessThanOrEqualTo, alcomath.SumGrams(events))
				}
			})
		})
	})
}

func TestProfileValidation(t *testing.T) {
	Convey("Given invalid profiles", t, func() {
		now := time.Now()

		Convey("When the weight is zero", func() {
			_, err := alcomath.CurrentState(model.BiometricProfile{WeightKg: 0, Sex: model.SexFemale}, nil, now)
			So(errors.Is(err, alcomath.ErrInvalidProfile), ShouldBeTrue)
		})

		Convey("When the weight is negative", func() {
			_, err := alcomath.Permilles(model.BiometricProfile{WeightKg: -70, Sex: model.SexMale}, nil, now)
			So(errors.Is(err, alcomath.ErrInvalidProfile), ShouldBeTrue)
		})

		Convey("When the sex category is unresolvable", func() {
			_, err := alcomath.BurnRate(model.BiometricProfile{WeightKg: 70, Sex: "unknown"})
			So(errors.Is(err, alcomath.ErrInvalidProfile), ShouldBeTrue)
		})
	})
}

func TestSumGrams(t *testing.T) {
	Convey("Given a lifetime history", t, func() {
		events := []model.DrinkEvent{
			{EthanolGrams: units.Kalja033},
			{EthanolGrams: units.Kalja033},
			{EthanolGrams: units.Shotti40},
		}

		Convey("Then the total is the plain gram sum", func() {
			So(alcomath.SumGrams(events), ShouldAlmostEqual, 2*units.Kalja033+units.Shotti40, 1e-9)
		})

		Convey("Then standard units divide by the reference dose", func() {
			So(alcomath.StandardUnits(2*units.ReferenceDoseGrams), ShouldEqual, 2.0)
		})
	})
}
