// Package alcomath implements the Widmark blood alcohol model extended to
// a sequence of discrete doses.
//
// Each drink enters the blood pool instantly at its timestamp and burns
// off on its own straight line from its own start amount; overlapping
// drinks are summed, not pooled. This per-event decay is an intentional
// approximation inherited from the model's first implementation, kept so
// displayed numbers stay comparable over time.
package alcomath

import (
	"fmt"
	"time"

	"github.com/blakkis/promille/internal/domain/model"
	"github.com/blakkis/promille/internal/domain/units"
)

// eliminationPerMillePerHour is the zero-order elimination constant: the
// concentration drop per hour, independent of the current level.
const eliminationPerMillePerHour = 0.15

// State is the derived burn state at a single query instant. Never cached
// across calls; the history can change between queries.
type State struct {
	Permilles       float64
	UnburnedGrams   float64
	HoursUntilSober float64
	TotalGrams      float64
}

// BurnRate returns the profile's constant elimination rate in grams/hour.
func BurnRate(p model.BiometricProfile) (float64, error) {
	if err := validateProfile(p); err != nil {
		return 0, err
	}
	return burnRate(p), nil
}

// UnburnedGrams returns the grams of ethanol still in the blood at the
// given instant. Events after the instant are ignored; a fully burned
// event contributes nothing, never a negative amount.
func UnburnedGrams(p model.BiometricProfile, events []model.DrinkEvent, at time.Time) (float64, error) {
	if err := validateProfile(p); err != nil {
		return 0, err
	}
	return unburnedGrams(p, events, at), nil
}

// Permilles returns the blood alcohol concentration in per-mille at the
// given instant.
func Permilles(p model.BiometricProfile, events []model.DrinkEvent, at time.Time) (float64, error) {
	if err := validateProfile(p); err != nil {
		return 0, err
	}
	return unburnedGrams(p, events, at) / bodyWater(p), nil
}

// HoursUntilSober projects how long until the unburned pool reaches zero,
// assuming no further drinks. Zero when already sober.
func HoursUntilSober(p model.BiometricProfile, events []model.DrinkEvent, at time.Time) (float64, error) {
	if err := validateProfile(p); err != nil {
		return 0, err
	}
	return unburnedGrams(p, events, at) / burnRate(p), nil
}

// CurrentState computes the full burn state at the given instant.
func CurrentState(p model.BiometricProfile, events []model.DrinkEvent, at time.Time) (State, error) {
	if err := validateProfile(p); err != nil {
		return State{}, err
	}
	unburned := unburnedGrams(p, events, at)
	return State{
		Permilles:       unburned / bodyWater(p),
		UnburnedGrams:   unburned,
		HoursUntilSober: unburned / burnRate(p),
		TotalGrams:      SumGrams(events),
	}, nil
}

// SumGrams totals the ethanol grams over a full history.
func SumGrams(events []model.DrinkEvent) float64 {
	var total float64
	for _, e := range events {
		total += e.EthanolGrams
	}
	return total
}

// StandardUnits expresses a gram amount in standard reference drinks.
func StandardUnits(grams float64) float64 {
	return units.StandardUnits(grams)
}

// bodyWater is the Widmark divisor: weight times the sex-keyed
// distribution ratio. The concentration is the plain ratio of unburned
// grams to this divisor, presented as per-mille with no further scaling.
func bodyWater(p model.BiometricProfile) float64 {
	return p.WeightKg * p.DistributionRatio()
}

func burnRate(p model.BiometricProfile) float64 {
	return bodyWater(p) * eliminationPerMillePerHour
}

func unburnedGrams(p model.BiometricProfile, events []model.DrinkEvent, at time.Time) float64 {
	rate := burnRate(p)
	var unburned float64
	for _, e := range events {
		if e.OccurredAt.After(at) {
			continue
		}
		hours := at.Sub(e.OccurredAt).Hours()
		left := e.EthanolGrams - rate*hours
		if left > 0 {
			unburned += left
		}
	}
	return unburned
}

func validateProfile(p model.BiometricProfile) error {
	if p.WeightKg <= 0 {
		return fmt.Errorf("weight %v kg must be positive: %w", p.WeightKg, ErrInvalidProfile)
	}
	if p.DistributionRatio() <= 0 {
		return fmt.Errorf("sex category %q has no distribution ratio: %w", p.Sex, ErrInvalidProfile)
	}
	return nil
}
