// Package rbtree provides an arena-allocated red-black tree of ordered values.
//
// Nodes live in an Allocator and reference each other by uint32 index; the
// parent index is a plain back-reference used for upward walks only. Duplicate
// values are kept and always routed to the right subtree.
//
// A Tree is not safe for concurrent use: a rotation rewrites several indices in
// sequence, so writers must be serialised by the caller and readers must not run
// alongside a writer.
package rbtree

import "cmp"

// Tree is a red-black binary search tree.
//
// The implementation is derived from the literate programs red-black tree in C:
// http://en.literateprograms.org/Red-black_tree_(C), reworked for index-addressed
// nodes and arbitrary value types.
type Tree[T any] struct {
	// Nodes allocator.
	allocator *Allocator[T]

	// Total order over values: negative, zero or positive like cmp.Compare.
	compare func(a, b T) int

	// Root of the tree.
	root uint32

	// The minimum and maximum nodes under the tree, in in-order sense.
	minNode, maxNode uint32

	// Number of nodes under root, including the root.
	count int

	stats Stats
}

// New creates an empty tree ordered by cmp.Compare.
func New[T cmp.Ordered]() *Tree[T] {
	return NewWithAllocator(NewAllocator[T](), cmp.Compare[T])
}

// NewFunc creates an empty tree ordered by compare, which must be a total order.
func NewFunc[T any](compare func(a, b T) int) *Tree[T] {
	return NewWithAllocator(NewAllocator[T](), compare)
}

// NewWithAllocator creates an empty tree whose nodes are taken from allocator.
// Several trees may share one allocator.
func NewWithAllocator[T any](allocator *Allocator[T], compare func(a, b T) int) *Tree[T] {
	return &Tree[T]{allocator: allocator, compare: compare}
}

func (tree *Tree[T]) storage() []node[T] {
	tree.allocator.mustBeAwake()

	return tree.allocator.storage
}

// Allocator returns the bound nodes allocator.
func (tree *Tree[T]) Allocator() *Allocator[T] {
	return tree.allocator
}

// Len returns the number of values in the tree.
func (tree *Tree[T]) Len() int {
	return tree.count
}

// IsEmpty reports whether the tree holds no values.
func (tree *Tree[T]) IsEmpty() bool {
	return tree.root == 0
}

// Root returns a handle to the root node, invalid when the tree is empty.
func (tree *Tree[T]) Root() Node[T] {
	return Node[T]{tree, tree.root}
}

// Stats returns the cumulative fixup counters.
func (tree *Tree[T]) Stats() Stats {
	return tree.stats
}

// Insert adds value to the tree and rebalances it. Equal values are kept:
// the new one is linked to the right of the existing ones.
func (tree *Tree[T]) Insert(value T) Node[T] {
	nodeIdx := tree.link(value)
	tree.stats.Inserts++
	tree.fixup(nodeIdx)

	return Node[T]{tree, nodeIdx}
}

// link places a new red leaf at the position found by a comparator descent.
func (tree *Tree[T]) link(value T) uint32 {
	nodeIdx := tree.allocator.malloc()
	alloc := tree.storage()
	alloc[nodeIdx] = node[T]{value: value, color: Red}
	tree.count++

	if tree.root == 0 {
		tree.root = nodeIdx
		tree.minNode = nodeIdx
		tree.maxNode = nodeIdx

		return nodeIdx
	}

	parent := tree.root

	for {
		dir := right
		if tree.compare(value, alloc[parent].value) < 0 {
			dir = left
		}

		next := child(parent, dir, alloc)
		if next == 0 {
			setChild(parent, dir, nodeIdx, alloc)

			break
		}

		parent = next
	}

	alloc[nodeIdx].parent = parent

	// Strictly smaller values always descend left and equal-or-greater ones
	// always right, so these comparisons track the in-order ends exactly.
	if tree.compare(value, alloc[tree.minNode].value) < 0 {
		tree.minNode = nodeIdx
	}

	if tree.compare(value, alloc[tree.maxNode].value) >= 0 {
		tree.maxNode = nodeIdx
	}

	return nodeIdx
}

// Clear removes all the nodes from the tree and returns them to the allocator.
func (tree *Tree[T]) Clear() {
	nodes := make([]uint32, 0, tree.count)

	for nd := range tree.PostOrder() {
		nodes = append(nodes, nd.idx)
	}

	for _, nd := range nodes {
		tree.allocator.free(nd)
	}

	tree.root = 0
	tree.minNode = 0
	tree.maxNode = 0
	tree.count = 0
}

// CloneShallow performs a shallow copy of the tree - the nodes are assumed to
// already exist in the allocator (typically a Clone of the original one).
func (tree *Tree[T]) CloneShallow(allocator *Allocator[T]) *Tree[T] {
	clone := *tree
	clone.allocator = allocator

	return &clone
}

// CloneDeep performs a deep copy of the tree - the nodes are created from scratch
// in allocator, preserving shape and colors.
func (tree *Tree[T]) CloneDeep(allocator *Allocator[T]) *Tree[T] {
	clone := &Tree[T]{
		allocator: allocator,
		compare:   tree.compare,
		count:     tree.count,
		stats:     tree.stats,
	}

	nodeMap := map[uint32]uint32{0: 0}

	for nd := range tree.PreOrder() {
		nodeMap[nd.idx] = allocator.malloc()
	}

	origin := tree.storage()
	cloneStorage := allocator.storage

	for originIdx, cloneIdx := range nodeMap {
		if originIdx == 0 {
			continue
		}

		originNode := origin[originIdx]
		cloneStorage[cloneIdx] = node[T]{
			value:  originNode.value,
			color:  originNode.color,
			parent: nodeMap[originNode.parent],
			left:   nodeMap[originNode.left],
			right:  nodeMap[originNode.right],
		}
	}

	clone.root = nodeMap[tree.root]
	clone.minNode = nodeMap[tree.minNode]
	clone.maxNode = nodeMap[tree.maxNode]

	return clone
}
