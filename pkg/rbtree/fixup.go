package rbtree

// fixupCase classifies a red-red violation whose uncle is black.
type fixupCase uint8

const (
	caseLeftLeft fixupCase = iota
	caseLeftRight
	caseRightLeft
	caseRightRight
)

// classify names the shape formed by nodeIdx, its parent and its grandparent.
func classify[T any](nodeIdx uint32, alloc []node[T]) fixupCase {
	nodeSide := sideOf(nodeIdx, alloc)
	parentSide := sideOf(alloc[nodeIdx].parent, alloc)

	switch {
	case parentSide == left && nodeSide == left:
		return caseLeftLeft
	case parentSide == left:
		return caseLeftRight
	case nodeSide == right:
		return caseRightRight
	default:
		return caseRightLeft
	}
}

// fixup restores the red-black invariants after nodeIdx was linked as a red leaf.
// Only the red-uncle case moves upwards; every other case terminates.
func (tree *Tree[T]) fixup(nodeIdx uint32) {
	alloc := tree.storage()

	for {
		parent := alloc[nodeIdx].parent

		// Case 1: N is at the root.
		if parent == 0 {
			if alloc[nodeIdx].color == Red {
				alloc[nodeIdx].color = Black
				tree.stats.RootRecolors++
			}

			return
		}

		// Case 2: the parent is black, so the tree already
		// satisfies the RB properties.
		if alloc[parent].color == Black {
			return
		}

		// Case 3: the parent is red, hence not the root.
		grandparent := alloc[parent].parent
		doAssert(grandparent != 0)

		uncle := sibling(parent, alloc)

		// Case 3a: parent and uncle are both red.
		// Then paint both black and make grandparent red.
		if getColor(uncle, alloc) == Red {
			alloc[parent].color = Black
			alloc[uncle].color = Black
			alloc[grandparent].color = Red
			tree.stats.Recolors++
			nodeIdx = grandparent

			continue
		}

		// Case 3b: parent is red, uncle is black.
		tree.restructure(nodeIdx, parent, grandparent)

		return
	}
}

// restructure resolves a red-red edge under a black uncle with one single or
// double rotation. The node that surfaces as the subtree root turns black and
// both of its children red.
func (tree *Tree[T]) restructure(nodeIdx, parent, grandparent uint32) {
	alloc := tree.storage()
	top := parent

	switch classify(nodeIdx, alloc) {
	case caseLeftLeft:
		tree.rotateRight(grandparent)
		tree.stats.LeftLeft++
	case caseRightRight:
		tree.rotateLeft(grandparent)
		tree.stats.RightRight++
	case caseLeftRight:
		tree.rotateLeft(parent)
		tree.rotateRight(grandparent)
		tree.stats.LeftRight++
		top = nodeIdx
	case caseRightLeft:
		tree.rotateRight(parent)
		tree.rotateLeft(grandparent)
		tree.stats.RightLeft++
		top = nodeIdx
	}

	doAssert(alloc[top].left != 0 && alloc[top].right != 0)

	alloc[top].color = Black
	alloc[alloc[top].left].color = Red
	alloc[alloc[top].right].color = Red
}
