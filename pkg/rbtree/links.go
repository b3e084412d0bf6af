package rbtree

// side names a child slot.
type side uint8

const (
	left side = iota
	right
)

func (s side) opposite() side {
	return 1 - s
}

func doAssert(condition bool) {
	if !condition {
		panic("rbtree internal assertion failed")
	}
}

// Internal node attribute accessors. They take the storage slice explicitly so
// that no relation is ever reached through anything but parent/child indices.

func getColor[T any](nodeIdx uint32, alloc []node[T]) Color {
	if nodeIdx == 0 {
		return Black
	}

	return alloc[nodeIdx].color
}

func child[T any](nodeIdx uint32, s side, alloc []node[T]) uint32 {
	if s == left {
		return alloc[nodeIdx].left
	}

	return alloc[nodeIdx].right
}

func setChild[T any](nodeIdx uint32, s side, childIdx uint32, alloc []node[T]) {
	if s == left {
		alloc[nodeIdx].left = childIdx
	} else {
		alloc[nodeIdx].right = childIdx
	}
}

// sideOf reports which slot of its parent nodeIdx occupies.
//
// REQUIRES: alloc[nodeIdx].parent != 0.
func sideOf[T any](nodeIdx uint32, alloc []node[T]) side {
	parent := alloc[nodeIdx].parent
	doAssert(parent != 0)

	if alloc[parent].left == nodeIdx {
		return left
	}

	doAssert(alloc[parent].right == nodeIdx)

	return right
}

func sibling[T any](nodeIdx uint32, alloc []node[T]) uint32 {
	return child(alloc[nodeIdx].parent, sideOf(nodeIdx, alloc).opposite(), alloc)
}

// extreme follows the s-side children of nodeIdx to their end.
func extreme[T any](nodeIdx uint32, s side, alloc []node[T]) uint32 {
	for next := child(nodeIdx, s, alloc); next != 0; next = child(nodeIdx, s, alloc) {
		nodeIdx = next
	}

	return nodeIdx
}

// Return the in-order neighbour of nodeIdx in direction s (right = successor).
// Return 0 if there is none.
func step[T any](nodeIdx uint32, s side, alloc []node[T]) uint32 {
	if next := child(nodeIdx, s, alloc); next != 0 {
		return extreme(next, s.opposite(), alloc)
	}

	for {
		parent := alloc[nodeIdx].parent
		if parent == 0 {
			return 0
		}

		if child(parent, s.opposite(), alloc) == nodeIdx {
			return parent
		}

		nodeIdx = parent
	}
}
