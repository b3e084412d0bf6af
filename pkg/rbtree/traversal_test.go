package rbtree_test

import (
	"iter"
	"math/rand"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/redblack/pkg/rbtree"
)

// 20B(10B(5R, 15R), 30B(25R, -)).
func newSampleTree() *rbtree.Tree[int] {
	tree := rbtree.New[int]()

	for _, value := range []int{10, 20, 30, 15, 25, 5} {
		tree.Insert(value)
	}

	return tree
}

func collect(seq iter.Seq[rbtree.Node[int]]) []int {
	values := []int{}

	for nd := range seq {
		values = append(values, nd.Value())
	}

	return values
}

func TestTraversals(t *testing.T) {
	t.Parallel()

	tree := newSampleTree()

	tests := []struct {
		order rbtree.Order
		want  []int
	}{
		{rbtree.InOrder, []int{5, 10, 15, 20, 25, 30}},
		{rbtree.PreOrder, []int{20, 10, 5, 15, 30, 25}},
		{rbtree.PostOrder, []int{5, 15, 10, 25, 30, 20}},
	}

	for _, tt := range tests {
		t.Run(tt.order.String(), func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, collect(tree.Traverse(tt.order)))
			// Restartable.
			assert.Equal(t, tt.want, collect(tree.Traverse(tt.order)))
		})
	}

	assert.Empty(t, collect(tree.Traverse(rbtree.Order(42))))
}

func TestTraversalEmpty(t *testing.T) {
	t.Parallel()

	tree := rbtree.New[int]()

	assert.Empty(t, collect(tree.InOrder()))
	assert.Empty(t, collect(tree.PreOrder()))
	assert.Empty(t, collect(tree.PostOrder()))
	assert.Empty(t, slices.Collect(tree.Values()))
}

func TestTraversalEarlyStop(t *testing.T) {
	t.Parallel()

	tree := newSampleTree()

	for _, order := range []rbtree.Order{rbtree.InOrder, rbtree.PreOrder, rbtree.PostOrder} {
		visited := 0

		for range tree.Traverse(order) {
			visited++
			if visited == 2 {
				break
			}
		}

		assert.Equal(t, 2, visited, order.String())
	}

	for value := range tree.Values() {
		assert.Equal(t, 5, value)

		break
	}
}

func TestTraversalExposesParents(t *testing.T) {
	t.Parallel()

	tree := newSampleTree()

	for nd := range tree.PreOrder() {
		if nd.IsRoot() {
			assert.False(t, nd.Parent().Valid())
			assert.Equal(t, 0, nd.Depth())

			continue
		}

		parent := nd.Parent()
		require.True(t, parent.Valid())
		assert.Equal(t, parent.Depth()+1, nd.Depth())
		assert.True(t, parent.Left().Equal(nd) || parent.Right().Equal(nd))
	}
}

func TestNodeNavigation(t *testing.T) {
	t.Parallel()

	tree := newSampleTree()

	forward := []int{}
	for nd := tree.Min(); nd.Valid(); nd = nd.Next() {
		forward = append(forward, nd.Value())
	}

	backward := []int{}
	for nd := tree.Max(); nd.Valid(); nd = nd.Prev() {
		backward = append(backward, nd.Value())
	}

	assert.Equal(t, []int{5, 10, 15, 20, 25, 30}, forward)
	assert.Equal(t, []int{30, 25, 20, 15, 10, 5}, backward)
	assert.Equal(t, 15, tree.Lookup(10).Next().Value())
	assert.Equal(t, 20, tree.Lookup(25).Prev().Value())
}

func TestInvalidNode(t *testing.T) {
	t.Parallel()

	var nd rbtree.Node[int]

	assert.False(t, nd.Valid())
	assert.Equal(t, uint32(0), nd.ID())
	assert.Equal(t, rbtree.Black, nd.Color())
	assert.Equal(t, -1, nd.Depth())
	assert.False(t, nd.IsRoot())
	assert.False(t, nd.Parent().Valid())
	assert.False(t, nd.Left().Valid())
	assert.False(t, nd.Right().Valid())
	assert.False(t, nd.Next().Valid())
	assert.False(t, nd.Prev().Valid())
	assert.True(t, nd.Equal(rbtree.New[int]().Root()))
	assert.Panics(t, func() { nd.Value() })

	tree := newSampleTree()
	assert.False(t, nd.Equal(tree.Root()))
	assert.False(t, tree.Root().Equal(newSampleTree().Root()))
}

func TestCountAndHeight(t *testing.T) {
	t.Parallel()

	tree := newSampleTree()
	assert.Equal(t, 6, tree.CountNodes())
	assert.Equal(t, tree.Len(), tree.CountNodes())
	assert.Equal(t, 3, tree.Height())
}

func TestTraversalsVisitEveryNodeUnderInconsistentCompare(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewSource(7)) //nolint:gosec // deterministic workload.
	tree := rbtree.NewFunc(func(int, int) int { return rng.Intn(3) - 1 })

	for idx := range 2000 {
		tree.Insert(idx)
	}

	require.Equal(t, 2000, tree.CountNodes())

	for _, order := range []rbtree.Order{rbtree.InOrder, rbtree.PreOrder, rbtree.PostOrder} {
		seen := map[int]bool{}

		for nd := range tree.Traverse(order) {
			seen[nd.Value()] = true
		}

		assert.Len(t, seen, 2000, order.String())
	}
}

func TestParseOrder(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		want  rbtree.Order
	}{
		{"in", rbtree.InOrder},
		{"inorder", rbtree.InOrder},
		{"In-Order", rbtree.InOrder},
		{"pre", rbtree.PreOrder},
		{" preorder ", rbtree.PreOrder},
		{"post-order", rbtree.PostOrder},
	}

	for _, tt := range tests {
		got, err := rbtree.ParseOrder(tt.input)
		require.NoError(t, err, tt.input)
		assert.Equal(t, tt.want, got, tt.input)
	}

	for _, input := range []string{"", "order", "level", "random"} {
		_, err := rbtree.ParseOrder(input)
		require.ErrorIs(t, err, rbtree.ErrUnknownOrder, input)
	}

	assert.Equal(t, "Order(9)", rbtree.Order(9).String())
}
