package rbtree

import (
	"errors"
	"fmt"
)

// Invariant violations reported by Validate.
var (
	ErrRedRoot       = errors.New("root is red")
	ErrRedRedEdge    = errors.New("red node has a red child")
	ErrBlackHeight   = errors.New("black height differs between paths")
	ErrOrder         = errors.New("in-order sequence is not sorted")
	ErrBrokenLink    = errors.New("parent and child indices disagree")
	ErrCountMismatch = errors.New("node count differs from the cached length")
)

// Validate checks every red-black and search tree invariant and returns the
// first violation found, or nil.
func (tree *Tree[T]) Validate() error {
	if tree.root == 0 {
		if tree.count != 0 || tree.minNode != 0 || tree.maxNode != 0 {
			return fmt.Errorf("%w: empty tree caches count %d", ErrCountMismatch, tree.count)
		}

		return nil
	}

	alloc := tree.storage()

	if alloc[tree.root].parent != 0 {
		return fmt.Errorf("%w: root #%d has parent #%d", ErrBrokenLink, tree.root, alloc[tree.root].parent)
	}

	if alloc[tree.root].color != Black {
		return fmt.Errorf("%w: #%d", ErrRedRoot, tree.root)
	}

	checker := validator[T]{alloc: alloc, budget: len(alloc)}

	if _, err := checker.blackHeight(tree.root); err != nil {
		return err
	}

	if checker.visited != tree.count {
		return fmt.Errorf("%w: reached %d nodes, cached %d", ErrCountMismatch, checker.visited, tree.count)
	}

	return tree.validateOrder()
}

func (tree *Tree[T]) validateOrder() error {
	alloc := tree.storage()

	if first := extreme(tree.root, left, alloc); first != tree.minNode {
		return fmt.Errorf("%w: minimum is #%d, cached #%d", ErrBrokenLink, first, tree.minNode)
	}

	if last := extreme(tree.root, right, alloc); last != tree.maxNode {
		return fmt.Errorf("%w: maximum is #%d, cached #%d", ErrBrokenLink, last, tree.maxNode)
	}

	prev := uint32(0)

	for nd := range tree.InOrder() {
		if prev != 0 && tree.compare(alloc[prev].value, alloc[nd.idx].value) > 0 {
			return fmt.Errorf("%w: #%d precedes #%d", ErrOrder, prev, nd.idx)
		}

		prev = nd.idx
	}

	return nil
}

type validator[T any] struct {
	alloc   []node[T]
	visited int
	// budget bounds the walk so that a cycle in the links cannot recurse forever.
	budget int
}

// blackHeight returns the number of black nodes on every path from nodeIdx
// down to an absent leaf, counting the leaf.
func (v *validator[T]) blackHeight(nodeIdx uint32) (int, error) {
	if nodeIdx == 0 {
		return 1, nil
	}

	v.visited++
	if v.visited > v.budget {
		return 0, fmt.Errorf("%w: cycle through #%d", ErrBrokenLink, nodeIdx)
	}

	nd := v.alloc[nodeIdx]

	for _, childIdx := range [2]uint32{nd.left, nd.right} {
		if childIdx == 0 {
			continue
		}

		if v.alloc[childIdx].parent != nodeIdx {
			return 0, fmt.Errorf("%w: #%d is a child of #%d but points at #%d",
				ErrBrokenLink, childIdx, nodeIdx, v.alloc[childIdx].parent)
		}

		if nd.color == Red && v.alloc[childIdx].color == Red {
			return 0, fmt.Errorf("%w: #%d -> #%d", ErrRedRedEdge, nodeIdx, childIdx)
		}
	}

	leftHeight, err := v.blackHeight(nd.left)
	if err != nil {
		return 0, err
	}

	rightHeight, err := v.blackHeight(nd.right)
	if err != nil {
		return 0, err
	}

	if leftHeight != rightHeight {
		return 0, fmt.Errorf("%w: #%d has %d on the left and %d on the right",
			ErrBlackHeight, nodeIdx, leftHeight, rightHeight)
	}

	if nd.color == Black {
		leftHeight++
	}

	return leftHeight, nil
}
