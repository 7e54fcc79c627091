// Package physics provides the gravitational force laws a stepper sums.
//
// Each law implements [ForceLaw], returning the acceleration one body
// receives from another:
//
//   - [Newtonian]: standard inverse-square attraction along the separation
//   - [AsBuilt]: the ephemeris viewer's origin-relative formula
//
// [Acceleration] sums a law over every other body of a [dynamo.System],
// skipping the body itself.
//
// # Degenerate Input
//
// Two bodies at zero separation produce NaN or Inf. The laws do not guard
// against it; see [dynamo.ErrNonFinite] and the guarded stepper.
package physics
