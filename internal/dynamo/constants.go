package dynamo

// Physical constants and unit conversions.
const (
	// G is the gravitational constant in N·m²/kg².
	G = 6.6743e-11

	// AU is the astronomical unit in meters.
	AU = 1.496e11

	SecondsPerDay = 86400.0

	// KilometersToMeters converts ephemeris kilometers (and km/s) to SI.
	KilometersToMeters = 1000.0
)
