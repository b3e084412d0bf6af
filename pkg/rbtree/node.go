package rbtree

// Node is a read-only handle to a tree node. The zero Node and handles to the
// absent leaf are invalid.
type Node[T any] struct {
	tree *Tree[T]
	idx  uint32
}

// Valid reports whether the handle points at a node.
func (nd Node[T]) Valid() bool {
	return nd.tree != nil && nd.idx != 0
}

// ID returns the arena index of the node; 0 for an invalid handle.
func (nd Node[T]) ID() uint32 {
	return nd.idx
}

// Value returns the stored value.
//
// REQUIRES: nd.Valid().
func (nd Node[T]) Value() T {
	doAssert(nd.Valid())

	return nd.tree.storage()[nd.idx].value
}

// Color returns the node color. Invalid handles are Black, like absent leaves.
func (nd Node[T]) Color() Color {
	if !nd.Valid() {
		return Black
	}

	return nd.tree.storage()[nd.idx].color
}

func (nd Node[T]) relative(pick func(n *node[T]) uint32) Node[T] {
	if !nd.Valid() {
		return Node[T]{}
	}

	return Node[T]{nd.tree, pick(&nd.tree.storage()[nd.idx])}
}

// Parent returns the parent node, invalid for the root.
func (nd Node[T]) Parent() Node[T] {
	return nd.relative(func(n *node[T]) uint32 { return n.parent })
}

// Left returns the left child, invalid when absent.
func (nd Node[T]) Left() Node[T] {
	return nd.relative(func(n *node[T]) uint32 { return n.left })
}

// Right returns the right child, invalid when absent.
func (nd Node[T]) Right() Node[T] {
	return nd.relative(func(n *node[T]) uint32 { return n.right })
}

// IsRoot reports whether the node is the root of its tree.
func (nd Node[T]) IsRoot() bool {
	return nd.Valid() && nd.tree.root == nd.idx
}

// Depth returns the number of edges between the root and the node.
// The root has depth 0; an invalid handle has depth -1.
func (nd Node[T]) Depth() int {
	if !nd.Valid() {
		return -1
	}

	alloc := nd.tree.storage()
	depth := 0

	for idx := alloc[nd.idx].parent; idx != 0; idx = alloc[idx].parent {
		depth++
	}

	return depth
}

// Next returns the in-order successor, invalid after the last node.
func (nd Node[T]) Next() Node[T] {
	if !nd.Valid() {
		return Node[T]{}
	}

	return Node[T]{nd.tree, step(nd.idx, right, nd.tree.storage())}
}

// Prev returns the in-order predecessor, invalid before the first node.
func (nd Node[T]) Prev() Node[T] {
	if !nd.Valid() {
		return Node[T]{}
	}

	return Node[T]{nd.tree, step(nd.idx, left, nd.tree.storage())}
}

// Equal reports whether both handles point at the same node of the same tree.
// Any two invalid handles are equal.
func (nd Node[T]) Equal(other Node[T]) bool {
	if !nd.Valid() || !other.Valid() {
		return nd.Valid() == other.Valid()
	}

	return nd.tree == other.tree && nd.idx == other.idx
}
