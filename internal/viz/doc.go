// Package viz provides a terminal preview of a running field simulation.
//
// The preview is a Bubble Tea program that owns one engine and ticks it on
// a timer:
//
//   - [Model]: the interactive program; particles and trails on the left,
//     field strengths, score and collision history on the right
//   - [Canvas]: Braille-based pixel canvas for high-fidelity rendering
//
// # Key Bindings
//
//	Space - Start/Stop the clock
//	R     - Reset to the initial configuration
//	Up/Dn - Electric field strength
//	Lt/Rt - Magnetic field strength
//	C     - Complete the run once the score gate is open
//	Q     - Quit
package viz
