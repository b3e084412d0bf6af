package rbtree

// rotate turns the subtree rooted at top in direction s. The child on the
// opposite side (the pivot) takes top's slot, top becomes the pivot's s-side
// child and the pivot's inner subtree moves under top.
//
// Left rotation:
//
//	  X              Y
//	A   Y    =>    X   C
//	  B C        A B
//
// Right rotation:
//
//	    Y            X
//	  X   C  =>    A   Y
//	A B              B C
//
// The in-order sequence is unchanged. Every parent index touched (top, pivot
// and the inner subtree) is rewritten together with the child indices.
//
//nolint:dupword // ASCII art diagrams contain intentional repeated letters.
func (tree *Tree[T]) rotate(top uint32, s side) {
	alloc := tree.storage()

	pivot := child(top, s.opposite(), alloc)
	doAssert(pivot != 0)

	inner := child(pivot, s, alloc)
	setChild(top, s.opposite(), inner, alloc)

	if inner != 0 {
		alloc[inner].parent = top
	}

	parent := alloc[top].parent
	alloc[pivot].parent = parent

	if parent == 0 {
		tree.root = pivot
	} else {
		setChild(parent, sideOf(top, alloc), pivot, alloc)
	}

	setChild(pivot, s, top, alloc)
	alloc[top].parent = pivot

	tree.stats.Rotations++
}

func (tree *Tree[T]) rotateLeft(nodeIdx uint32) {
	tree.rotate(nodeIdx, left)
}

func (tree *Tree[T]) rotateRight(nodeIdx uint32) {
	tree.rotate(nodeIdx, right)
}
