// Package world is the reference simulation engine: equally sized marbles
// bouncing inside a rectangle and off each other.
//
// [World] implements [loop.Engine]. Times are in milliseconds and lengths in
// logical pixels, so velocities are pixels per millisecond.
//
// # Sub-stepping
//
// A delta larger than the configured maximum step is split into equal
// sub-steps (a factor of Substeps at a time) until each one fits, which keeps
// fast marbles from tunnelling after a long frame.
package world
