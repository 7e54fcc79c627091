package config

import (
	"sort"
)

// Solar system barycentric state vectors for 2022-05-16 TDB, km and km/s.
var solarBodies = []BodyConfig{
	{Name: "Sun", Mass: 1.989e30,
		Position: [3]float64{-1.337802732464156e+06, 3.259070687973434e+05, 2.857406953363138e+04},
		Velocity: [3]float64{-3.401697178605676e-03, -1.546423174317109e-02, 2.022019805635019e-04}},
	{Name: "Earth", Mass: 5.972e24,
		Position: [3]float64{-8.845568359343487e+07, -1.232920159424238e+08, 3.523754350750893e+04},
		Velocity: [3]float64{2.385103124309283e+01, -1.728119023775613e+01, 2.156876333995861e-03}},
	{Name: "mercury", Mass: 3.302e23,
		Position: [3]float64{-4.967857508918729e+07, -4.590085738340439e+07, 6.851089667090010e+05},
		Velocity: [3]float64{2.374093765344752e+01, -3.301290891958826e+01, -4.874311558794187e+00}},
	{Name: "venus", Mass: 48.685e23,
		Position: [3]float64{7.165055875623713e+07, -8.037227570294720e+07, -5.290818498977233e+06},
		Velocity: [3]float64{2.573962145070925e+01, 2.334979765107016e+01, -1.164485971754976e+00}},
	{Name: "mars", Mass: 6.4171e23,
		Position: [3]float64{1.407829778726926e+08, -1.514923030686029e+08, -6.639406796639733e+06},
		Velocity: [3]float64{1.860092566130745e+01, 1.862144154103242e+01, -6.556948326662848e-02}},
	{Name: "jupiter", Mass: 1.899e27,
		Position: [3]float64{7.330064286798198e+08, -1.138627564283834e+08, -1.592681184619932e+07},
		Velocity: [3]float64{1.851309562442064e+00, 1.352451544659290e+01, -9.747965584743845e-02}},
	{Name: "saturn", Mass: 5.685e26,
		Position: [3]float64{1.110969009336197e+09, -9.749872333028338e+08, -2.727994992253995e+07},
		Velocity: [3]float64{5.829459597623179e+00, 7.240774022372236e+00, -3.578312742970602e-01}},
}

// Moons need a much smaller step than the planets; with the default Euler
// step they fly off.
var moonBodies = []BodyConfig{
	{Name: "io", Mass: 8.93e22,
		Position: [3]float64{7.326627459121795e+08, -1.136211038571918e+08, -1.592347246995617e+07},
		Velocity: [3]float64{-8.176372813170511e+00, -6.848843874649442e-01, -7.585241980527306e-01}},
	{Name: "moon", Mass: 7.349e22,
		Position: [3]float64{-8.867706657366812e+07, -1.235791777496837e+08, 3.516301230825484e+04},
		Velocity: [3]float64{2.472717774736751e+01, -1.791624729142814e+01, -9.792200298491238e-02}},
}

func defaultStepper() StepperConfig {
	return StepperConfig{
		DtDays:   DefaultDtDays,
		Force:    DefaultForce,
		Ordering: DefaultOrdering,
		Scheme:   DefaultScheme,
	}
}

var Presets = map[string]*Config{
	"solar": {
		Name: "solar", Units: UnitsKilometers, Stepper: defaultStepper(),
		DurationDays: 365, SampleEvery: 10,
		Bodies: solarBodies,
	},
	"solar-moons": {
		Name: "solar-moons", Units: UnitsKilometers, Stepper: defaultStepper(),
		DurationDays: 30, SampleEvery: 10,
		Bodies: append(append([]BodyConfig(nil), solarBodies...), moonBodies...),
	},
	"earth-sun": {
		Name: "earth-sun", Units: UnitsMeters, Stepper: defaultStepper(),
		DurationDays: 365, SampleEvery: 10,
		Bodies: []BodyConfig{
			{Name: "Earth", Mass: 5.972e24},
			{Name: "Sun", Mass: 1.989e30,
				Position: [3]float64{1.496e11, 0, 0},
				Velocity: [3]float64{0, 29780, 0}},
		},
	},
	// equal masses half an AU either side of the origin on circular orbits
	"binary": {
		Name: "binary", Units: UnitsMeters,
		Stepper: StepperConfig{
			DtDays: DefaultDtDays, Force: DefaultForce, Ordering: "two-phase", Scheme: DefaultScheme,
		},
		DurationDays: 730, SampleEvery: 10,
		Bodies: []BodyConfig{
			{Name: "A", Mass: 1e30,
				Position: [3]float64{-7.48e10, 0, 0},
				Velocity: [3]float64{0, -14935.6, 0}},
			{Name: "B", Mass: 1e30,
				Position: [3]float64{7.48e10, 0, 0},
				Velocity: [3]float64{0, 14935.6, 0}},
		},
	},
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	return cfg.Clone()
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
