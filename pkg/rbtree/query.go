package rbtree

// Lookup returns the first node equal to value on the search path, invalid if none.
func (tree *Tree[T]) Lookup(value T) Node[T] {
	if tree.root == 0 {
		return Node[T]{}
	}

	alloc := tree.storage()
	nodeIdx := tree.root

	for nodeIdx != 0 {
		switch c := tree.compare(value, alloc[nodeIdx].value); {
		case c == 0:
			return Node[T]{tree, nodeIdx}
		case c < 0:
			nodeIdx = alloc[nodeIdx].left
		default:
			nodeIdx = alloc[nodeIdx].right
		}
	}

	return Node[T]{}
}

// Find returns the stored value equal to value.
func (tree *Tree[T]) Find(value T) (T, bool) {
	nd := tree.Lookup(value)
	if !nd.Valid() {
		var zero T

		return zero, false
	}

	return nd.Value(), true
}

// Contains reports whether a value equal to value is stored.
func (tree *Tree[T]) Contains(value T) bool {
	return tree.Lookup(value).Valid()
}

// Min returns the in-order first node, invalid for an empty tree.
func (tree *Tree[T]) Min() Node[T] {
	return Node[T]{tree, tree.minNode}
}

// Max returns the in-order last node, invalid for an empty tree.
func (tree *Tree[T]) Max() Node[T] {
	return Node[T]{tree, tree.maxNode}
}

// FindMinimum returns the smallest value.
func (tree *Tree[T]) FindMinimum() (T, bool) {
	return valueOf(tree.Min())
}

// FindMaximum returns the largest value.
func (tree *Tree[T]) FindMaximum() (T, bool) {
	return valueOf(tree.Max())
}

// FindGE returns the first node in order whose value is >= value, invalid if none.
func (tree *Tree[T]) FindGE(value T) Node[T] {
	return tree.bound(value, func(c int) bool { return c <= 0 })
}

// FindLE returns the last node in order whose value is <= value, invalid if none.
func (tree *Tree[T]) FindLE(value T) Node[T] {
	found := tree.bound(value, func(c int) bool { return c < 0 })
	if found.Valid() {
		return found.Prev()
	}

	return tree.Max()
}

// bound returns the first node in order for which goLeft holds, where goLeft
// receives compare(value, node). goLeft must be monotone along the in-order walk.
func (tree *Tree[T]) bound(value T, goLeft func(c int) bool) Node[T] {
	if tree.root == 0 {
		return Node[T]{}
	}

	alloc := tree.storage()
	nodeIdx := tree.root
	found := uint32(0)

	for nodeIdx != 0 {
		if goLeft(tree.compare(value, alloc[nodeIdx].value)) {
			found = nodeIdx
			nodeIdx = alloc[nodeIdx].left
		} else {
			nodeIdx = alloc[nodeIdx].right
		}
	}

	return Node[T]{tree, found}
}

func valueOf[T any](nd Node[T]) (T, bool) {
	if !nd.Valid() {
		var zero T

		return zero, false
	}

	return nd.Value(), true
}
