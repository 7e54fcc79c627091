package config

import (
	"fmt"
	"math"
	"os"

	"gonum.org/v1/gonum/spatial/r3"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/gravsim/internal/dynamo"
)

const (
	DefaultDtDays       = 0.01
	DefaultDurationDays = 365.0
	DefaultSampleEvery  = 10
	DefaultForce        = "newtonian"
	DefaultOrdering     = "sequential"
	DefaultScheme       = "euler"
)

const (
	UnitsKilometers = "km"
	UnitsMeters     = "m"
)

// Config is a system file: the bodies plus how to step them.
type Config struct {
	Name  string `yaml:"name"`
	Units string `yaml:"units"`
	// GravitationalConstant overrides dynamo.G when non-zero.
	GravitationalConstant float64       `yaml:"gravitational_constant,omitempty"`
	Stepper               StepperConfig `yaml:"stepper"`
	DurationDays          float64       `yaml:"duration_days"`
	SampleEvery           int           `yaml:"sample_every"`
	Bodies                []BodyConfig  `yaml:"bodies"`
}

type StepperConfig struct {
	DtDays   float64 `yaml:"dt_days"`
	Force    string  `yaml:"force"`
	Ordering string  `yaml:"ordering"`
	Scheme   string  `yaml:"scheme"`
	Guard    bool    `yaml:"guard"`
}

// BodyConfig holds position and velocity in the file's units: km and km/s,
// or m and m/s.
type BodyConfig struct {
	Name     string     `yaml:"name"`
	Mass     float64    `yaml:"mass"`
	Position [3]float64 `yaml:"position,flow"`
	Velocity [3]float64 `yaml:"velocity,flow"`
}

func DefaultConfig() *Config {
	return &Config{
		Units: UnitsMeters,
		Stepper: StepperConfig{
			DtDays:   DefaultDtDays,
			Force:    DefaultForce,
			Ordering: DefaultOrdering,
			Scheme:   DefaultScheme,
		},
		DurationDays: DefaultDurationDays,
		SampleEvery:  DefaultSampleEvery,
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid system %s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate checks the file's structure. Force, ordering and scheme names
// are resolved later by the experiment registry.
func (c *Config) Validate() error {
	if len(c.Bodies) == 0 {
		return dynamo.ErrEmptySystem
	}
	if c.Units != UnitsKilometers && c.Units != UnitsMeters {
		return fmt.Errorf("units must be %q or %q, got %q", UnitsKilometers, UnitsMeters, c.Units)
	}
	if c.Stepper.DtDays < 0 {
		return fmt.Errorf("dt_days must not be negative, got %g", c.Stepper.DtDays)
	}
	if c.DurationDays < 0 {
		return fmt.Errorf("duration_days must not be negative, got %g", c.DurationDays)
	}
	if c.GravitationalConstant < 0 {
		return fmt.Errorf("gravitational_constant must not be negative, got %g", c.GravitationalConstant)
	}

	seen := make(map[string]bool, len(c.Bodies))
	for i, b := range c.Bodies {
		if b.Name == "" {
			return fmt.Errorf("body %d: name is empty", i)
		}
		if seen[b.Name] {
			return fmt.Errorf("body %d: duplicate name %q", i, b.Name)
		}
		seen[b.Name] = true

		if b.Mass < 0 || math.IsNaN(b.Mass) || math.IsInf(b.Mass, 0) {
			return fmt.Errorf("body %d (%s): invalid mass %g", i, b.Name, b.Mass)
		}
		for _, v := range append(b.Position[:], b.Velocity[:]...) {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return &dynamo.BodyError{Index: i, Name: b.Name, Wrapped: dynamo.ErrNonFinite}
			}
		}
	}
	return nil
}

// G returns the gravitational constant the system is built with.
func (c *Config) G() float64 {
	if c.GravitationalConstant > 0 {
		return c.GravitationalConstant
	}
	return dynamo.G
}

// Dt returns the step in seconds.
func (c *Config) Dt() float64 {
	return c.Stepper.DtDays * dynamo.SecondsPerDay
}

// Duration returns the run length in seconds.
func (c *Config) Duration() float64 {
	return c.DurationDays * dynamo.SecondsPerDay
}

// BuildSystem converts the bodies to SI units and returns a fresh system.
func (c *Config) BuildSystem() (*dynamo.System, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	scale := 1.0
	if c.Units == UnitsKilometers {
		scale = dynamo.KilometersToMeters
	}

	g := c.G()
	bodies := make([]*dynamo.Body, len(c.Bodies))
	for i, b := range c.Bodies {
		pos := r3.Scale(scale, r3.Vec{X: b.Position[0], Y: b.Position[1], Z: b.Position[2]})
		vel := r3.Scale(scale, r3.Vec{X: b.Velocity[0], Y: b.Velocity[1], Z: b.Velocity[2]})
		bodies[i] = dynamo.NewBodyWithG(b.Name, b.Mass, g, pos, vel)
	}
	return dynamo.NewSystem(bodies...)
}

// Clone returns a deep copy, so presets can be handed out and edited.
func (c *Config) Clone() *Config {
	out := *c
	out.Bodies = append([]BodyConfig(nil), c.Bodies...)
	return &out
}
