// Package dynamo provides the core state of a gravitational simulation.
//
// The package defines the primitives every other package builds on:
//
//   - [Body]: one massive point particle (mass, gravitational parameter,
//     position, velocity, acceleration)
//   - [System]: the ordered, fixed-size set of bodies a run advances
//   - [Kinematics]: the mutable view a stepper receives through [Body.Advance]
//
// Quantities are SI: meters, meters/second, meters/second², kilograms.
// Vectors are [r3.Vec] values from gonum.
//
// # Example
//
//	sun := dynamo.NewBody("Sun", 1.989e30, r3.Vec{}, r3.Vec{})
//	earth := dynamo.NewBody("Earth", 5.972e24, r3.Vec{X: dynamo.AU}, r3.Vec{Y: 29780})
//	sys, _ := dynamo.NewSystem(sun, earth)
//
// # Thread Safety
//
// Bodies and systems are NOT thread-safe. A system is owned by exactly one
// goroutine for the lifetime of a run.
//
// [r3.Vec]: https://pkg.go.dev/gonum.org/v1/gonum/spatial/r3#Vec
package dynamo
