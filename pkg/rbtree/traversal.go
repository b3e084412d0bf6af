package rbtree

import (
	"errors"
	"fmt"
	"iter"
	"strings"
)

// ErrUnknownOrder is returned by ParseOrder for an unrecognised traversal name.
var ErrUnknownOrder = errors.New("unknown traversal order")

// Order selects a depth-first traversal.
type Order uint8

// Supported traversal orders.
const (
	InOrder Order = iota
	PreOrder
	PostOrder
)

var orderNames = [...]string{
	InOrder:   "in",
	PreOrder:  "pre",
	PostOrder: "post",
}

func (o Order) String() string {
	if int(o) < len(orderNames) {
		return orderNames[o]
	}

	return fmt.Sprintf("Order(%d)", uint8(o))
}

// ParseOrder accepts "in", "pre", "post" and their "-order"/"order" suffixed forms.
func ParseOrder(name string) (Order, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	key = strings.TrimSuffix(strings.TrimSuffix(key, "order"), "-")

	for o, known := range orderNames {
		if key == known {
			return Order(o), nil
		}
	}

	return 0, fmt.Errorf("%w: %q", ErrUnknownOrder, name)
}

// Traverse returns the nodes in the given order. An unknown order yields nothing.
func (tree *Tree[T]) Traverse(order Order) iter.Seq[Node[T]] {
	switch order {
	case InOrder:
		return tree.InOrder()
	case PreOrder:
		return tree.PreOrder()
	case PostOrder:
		return tree.PostOrder()
	default:
		return func(func(Node[T]) bool) {}
	}
}

// walk yields first and every node produced by next until next returns 0.
func (tree *Tree[T]) walk(first func(alloc []node[T]) uint32,
	next func(nodeIdx uint32, alloc []node[T]) uint32,
) iter.Seq[Node[T]] {
	return func(yield func(Node[T]) bool) {
		if tree.root == 0 {
			return
		}

		for nodeIdx := first(tree.storage()); nodeIdx != 0; nodeIdx = next(nodeIdx, tree.storage()) {
			if !yield(Node[T]{tree, nodeIdx}) {
				return
			}
		}
	}
}

// InOrder returns the nodes in ascending order, equal values in insertion order.
func (tree *Tree[T]) InOrder() iter.Seq[Node[T]] {
	return tree.walk(
		func(alloc []node[T]) uint32 { return extreme(tree.root, left, alloc) },
		func(nodeIdx uint32, alloc []node[T]) uint32 { return step(nodeIdx, right, alloc) },
	)
}

// PreOrder returns every node before its subtrees, left subtree first.
func (tree *Tree[T]) PreOrder() iter.Seq[Node[T]] {
	return tree.walk(func([]node[T]) uint32 { return tree.root }, preNext[T])
}

// PostOrder returns every node after its subtrees, left subtree first.
func (tree *Tree[T]) PostOrder() iter.Seq[Node[T]] {
	return tree.walk(
		func(alloc []node[T]) uint32 { return firstLeaf(tree.root, alloc) },
		postNext[T],
	)
}

// Values returns the stored values in ascending order.
func (tree *Tree[T]) Values() iter.Seq[T] {
	return func(yield func(T) bool) {
		for nd := range tree.InOrder() {
			if !yield(nd.Value()) {
				return
			}
		}
	}
}

func preNext[T any](nodeIdx uint32, alloc []node[T]) uint32 {
	if alloc[nodeIdx].left != 0 {
		return alloc[nodeIdx].left
	}

	if alloc[nodeIdx].right != 0 {
		return alloc[nodeIdx].right
	}

	// Climb until we leave a left subtree whose parent has a right child.
	for parent := alloc[nodeIdx].parent; parent != 0; parent = alloc[nodeIdx].parent {
		if alloc[parent].left == nodeIdx && alloc[parent].right != 0 {
			return alloc[parent].right
		}

		nodeIdx = parent
	}

	return 0
}

// firstLeaf descends from nodeIdx preferring left children until a leaf.
func firstLeaf[T any](nodeIdx uint32, alloc []node[T]) uint32 {
	for {
		switch {
		case alloc[nodeIdx].left != 0:
			nodeIdx = alloc[nodeIdx].left
		case alloc[nodeIdx].right != 0:
			nodeIdx = alloc[nodeIdx].right
		default:
			return nodeIdx
		}
	}
}

func postNext[T any](nodeIdx uint32, alloc []node[T]) uint32 {
	parent := alloc[nodeIdx].parent
	if parent == 0 {
		return 0
	}

	if alloc[parent].left == nodeIdx && alloc[parent].right != 0 {
		return firstLeaf(alloc[parent].right, alloc)
	}

	return parent
}

// CountNodes counts the nodes by walking the whole tree.
// Len returns the same number in O(1).
func (tree *Tree[T]) CountNodes() int {
	count := 0

	for range tree.PreOrder() {
		count++
	}

	return count
}

// Height returns the number of nodes on the longest root-to-leaf path; 0 when empty.
func (tree *Tree[T]) Height() int {
	if tree.root == 0 {
		return 0
	}

	return subtreeHeight(tree.root, tree.storage())
}

// The recursion depth is bounded by the tree height, at most 2*log2(n+1).
func subtreeHeight[T any](nodeIdx uint32, alloc []node[T]) int {
	if nodeIdx == 0 {
		return 0
	}

	return 1 + max(subtreeHeight(alloc[nodeIdx].left, alloc), subtreeHeight(alloc[nodeIdx].right, alloc))
}
