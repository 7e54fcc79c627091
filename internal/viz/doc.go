// Package viz draws a running system in the terminal.
//
// [Projection] maps simulation meters to screen coordinates, [StyleFor]
// gives each body its color and size, [Canvas] is a braille dot grid and
// [Model] is the bubbletea program tying them to a sim.Session.
//
// The gui package reuses Projection and StyleFor for its window.
package viz
