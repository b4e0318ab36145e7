// Package viz provides the interactive terminal view of a grabber.
//
// [App] is a Bubble Tea program that steps an experiment in real time and
// draws a top-down view on a Braille [Canvas]:
//
//	Space  - Toggle pulling
//	Arrows - Move the grabber (also h/j/k/l)
//	+ / -  - Grow or shrink the grab radius
//	P      - Pause/Resume
//	R      - Rebuild the scene
//	Q      - Quit
//
// Grabbed bodies are drawn as filled dots, free bodies as single dots and
// the grab radius as a ring around the anchor.
package viz
