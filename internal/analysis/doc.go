// Package analysis reads orbital properties out of sampled trajectories.
//
//   - [OrbitalPeriod]: dominant period of a body's motion around a center, by FFT
//   - [RadiusStats]: mean, spread and extremes of the body-center distance
//
// Both take the positions a run recorded, so they work equally on a fresh
// sim.Result and on a run loaded back from storage.
package analysis
