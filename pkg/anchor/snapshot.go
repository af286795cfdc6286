package anchor

import "github.com/matzehuels/bottleneck/pkg/geom"

// Snapshot is the anchor set produced by one successful measurement pass.
// Snapshots are values; the engine replaces its snapshot wholesale and never
// mutates one after publishing it.
type Snapshot struct {
	Source    geom.Point    `json:"source"`
	Branches  [3]geom.Point `json:"branches"`
	MidRight  geom.Point    `json:"midRight"`
	Output    geom.Point    `json:"output"`
	Container geom.Size     `json:"containerSize"`
}

// Valid reports whether every anchor coordinate and the container size are finite.
func (s Snapshot) Valid() bool {
	for _, p := range s.points() {
		if !p.Finite() {
			return false
		}
	}
	return geom.IsFiniteNumber(s.Container.W) && geom.IsFiniteNumber(s.Container.H)
}

func (s Snapshot) points() [6]geom.Point {
	return [6]geom.Point{s.Source, s.Branches[0], s.Branches[1], s.Branches[2], s.MidRight, s.Output}
}
