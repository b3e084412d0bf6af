package rbtree

// Stats counts what the fixup state machine did, cumulatively over the life of a tree.
type Stats struct {
	// Inserts is the number of values inserted.
	Inserts int64

	// RootRecolors counts red roots painted black.
	RootRecolors int64

	// Recolors counts red-uncle steps (parent and uncle black, grandparent red).
	Recolors int64

	// Restructure cases under a black uncle.
	LeftLeft   int64
	LeftRight  int64
	RightLeft  int64
	RightRight int64

	// Rotations counts single rotations; double-rotation cases contribute two.
	Rotations int64
}

// Restructures returns the number of black-uncle cases resolved.
func (s Stats) Restructures() int64 {
	return s.LeftLeft + s.LeftRight + s.RightLeft + s.RightRight
}

// Sub returns the counters accumulated since prev.
func (s Stats) Sub(prev Stats) Stats {
	return Stats{
		Inserts:      s.Inserts - prev.Inserts,
		RootRecolors: s.RootRecolors - prev.RootRecolors,
		Recolors:     s.Recolors - prev.Recolors,
		LeftLeft:     s.LeftLeft - prev.LeftLeft,
		LeftRight:    s.LeftRight - prev.LeftRight,
		RightLeft:    s.RightLeft - prev.RightLeft,
		RightRight:   s.RightRight - prev.RightRight,
		Rotations:    s.Rotations - prev.Rotations,
	}
}
