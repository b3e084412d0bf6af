package rbtree //nolint:testpackage // tests corrupt unexported links on purpose

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		corrupt func(tree *Tree[int])
		wantErr error
	}{
		{"valid", func(*Tree[int]) {}, nil},
		{"red root", func(tree *Tree[int]) {
			tree.allocator.storage[tree.root].color = Red
		}, ErrRedRoot},
		{"red red edge", func(tree *Tree[int]) {
			tree.allocator.storage[tree.Lookup(10).idx].color = Red
		}, ErrRedRedEdge},
		{"black height", func(tree *Tree[int]) {
			tree.allocator.storage[tree.Lookup(25).idx].color = Black
		}, ErrBlackHeight},
		{"order", func(tree *Tree[int]) {
			tree.allocator.storage[tree.Lookup(5).idx].value = 100
		}, ErrOrder},
		{"parent link", func(tree *Tree[int]) {
			tree.allocator.storage[tree.Lookup(5).idx].parent = tree.root
		}, ErrBrokenLink},
		{"root parent", func(tree *Tree[int]) {
			tree.allocator.storage[tree.root].parent = tree.Lookup(30).idx
		}, ErrBrokenLink},
		{"cached minimum", func(tree *Tree[int]) {
			tree.minNode = tree.root
		}, ErrBrokenLink},
		{"count", func(tree *Tree[int]) {
			tree.count++
		}, ErrCountMismatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			tree := New[int]()
			for _, value := range []int{10, 20, 30, 15, 25, 5} {
				tree.Insert(value)
			}

			tt.corrupt(tree)

			err := tree.Validate()
			if tt.wantErr == nil {
				require.NoError(t, err)

				return
			}

			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestValidateEmptyCount(t *testing.T) {
	t.Parallel()

	tree := New[int]()
	tree.count = 3

	require.ErrorIs(t, tree.Validate(), ErrCountMismatch)
}
