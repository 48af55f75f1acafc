// Package model contains domain models passed between layers.
package model

import "time"

// Sex is the two-valued category the Widmark distribution ratio is keyed by.
type Sex string

// Recognized sex categories.
const (
	SexMale   Sex = "male"
	SexFemale Sex = "female"
)

// Widmark body-water distribution ratios per sex category.
const (
	ratioMale   = 0.7
	ratioFemale = 0.6
)

// DistributionRatio returns the Widmark ratio for the category, or 0 for an
// unrecognized value. Callers must treat 0 as unresolvable.
func (s Sex) DistributionRatio() float64 {
	switch s {
	case SexMale:
		return ratioMale
	case SexFemale:
		return ratioFemale
	default:
		return 0
	}
}

// BiometricProfile is the read-only biometric record a computation runs
// against. Owned by the external profile store; never mutated here.
type BiometricProfile struct {
	WeightKg float64
	Sex      Sex
}

// DistributionRatio resolves the profile's Widmark ratio.
func (p BiometricProfile) DistributionRatio() float64 {
	return p.Sex.DistributionRatio()
}

// DrinkEvent is one logged drink, reduced to pure ethanol mass.
type DrinkEvent struct {
	EventID      string    // unique id minted at creation
	EthanolGrams float64   // grams of pure ethanol
	Description  string    // display string, e.g. "/kalja033" or "viina 38 0.5"
	OccurredAt   time.Time // absolute instant the drink entered the body
}

// DrinkSpec describes a drink by volume and strength, before conversion
// to ethanol grams.
type DrinkSpec struct {
	VolumeLiters     float64
	FractionByVolume float64
	Description      string
}

// RetroPlan is a user-declared batch of forgotten drinks to backdate over
// a trailing span. Transient; consumed by the distribution planner.
type RetroPlan struct {
	SpanHours float64
	Drinks    []DrinkSpec
}

// RankingEntry is one leaderboard row for group display.
type RankingEntry struct {
	DisplayName string
	Permilles   float64
	Units12h    float64 // standard drinks in the trailing 12h
	Units24h    float64 // standard drinks in the trailing 24h
}
