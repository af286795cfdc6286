// Package scene is the host layout for the bottleneck diagram.
//
// A [Scene] plays the role a page layout engine plays in a browser: it owns
// the five boxes, sizes them from their label text, and positions them inside
// a container:
//
//	┌───────────────────────────────────────────────┐
//	│            ┌─────┐                            │
//	│            │ top │                            │
//	│ ┌──────┐   ├─────┴──┐              ┌────────┐ │
//	│ │source│   │ middle │              │ output │ │
//	│ └──────┘   ├────────┤              └────────┘ │
//	│            │ bottom │                         │
//	│            └────────┘                         │
//	└───────────────────────────────────────────────┘
//
// The branch column is laid out from the top padding and then translated by
// the stack shift, which the measurement engine computes and hands back via
// [Scene.ApplyShift]. Labels depend on the cycle state, so a state change can
// resize boxes; every change to a box rectangle is announced to geometry
// subscribers and every container resize to viewport subscribers.
package scene
