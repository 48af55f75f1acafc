// Package units converts drink volume and strength into grams of pure
// ethanol, and resolves the fixed drink presets.
package units

import "fmt"

// Conversion constants and sanity bounds for drink specifications.
const (
	// ethanolDensityGramsPerML is the density of pure ethanol.
	ethanolDensityGramsPerML = 0.789

	millilitersPerLiter = 1000.0

	// maxVolumeLiters caps a single drink at a real-world plausible size.
	maxVolumeLiters = 10.0
)

// MassOfEthanol converts a drink volume and a percentage-by-volume fraction
// into grams of pure ethanol. Inputs outside their sane ranges fail with
// ErrInvalidDrinkSpec.
func MassOfEthanol(volumeLiters, fractionByVolume float64) (float64, error) {
	if fractionByVolume < 0 || fractionByVolume > 1 {
		return 0, fmt.Errorf("fraction by volume %v outside [0, 1]: %w", fractionByVolume, ErrInvalidDrinkSpec)
	}
	if volumeLiters < 0 || volumeLiters > maxVolumeLiters {
		return 0, fmt.Errorf("volume %v liters outside [0, %v]: %w", volumeLiters, maxVolumeLiters, ErrInvalidDrinkSpec)
	}
	return volumeLiters * millilitersPerLiter * fractionByVolume * ethanolDensityGramsPerML, nil
}

// Named presets, resolved to fixed gram amounts at load time.
var (
	// Kalja033 is a 0.33 L, 4.7% beverage. Also the reference dose.
	Kalja033 = mustMass(0.33, 0.047)
	// Kalja05 is a 0.5 L, 4.7% beverage.
	Kalja05 = mustMass(0.5, 0.047)
	// Nelonen is a 0.33 L, 5.5% can.
	Nelonen = mustMass(0.33, 0.055)
	// Shotti40 is a 4 cl shot of 40% spirit.
	Shotti40 = mustMass(0.04, 0.40)
)

// ReferenceDoseGrams is the gram amount of one standard drink, used to
// normalize gram sums into "standard drinks" for display.
var ReferenceDoseGrams = Kalja033

var presets = map[string]float64{
	"kalja033": Kalja033,
	"kalja05":  Kalja05,
	"nelonen":  Nelonen,
	"shotti40": Shotti40,
}

// Preset resolves a named preset to its fixed gram amount.
func Preset(name string) (float64, bool) {
	grams, ok := presets[name]
	return grams, ok
}

// PresetNames returns the recognized preset names.
func PresetNames() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	return names
}

// StandardUnits expresses a gram amount as a count of reference doses.
func StandardUnits(grams float64) float64 {
	return grams / ReferenceDoseGrams
}

func mustMass(volumeLiters, fractionByVolume float64) float64 {
	grams, err := MassOfEthanol(volumeLiters, fractionByVolume)
	if err != nil {
		panic(err)
	}
	return grams
}
