package rbtree //nolint:testpackage // tests require access to unexported fields (storage, gaps, hibernated state)

import (
	"errors"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllocatorFreeZero(t *testing.T) {
	t.Parallel()

	alloc := NewAllocator[int]()
	alloc.malloc()
	assert.PanicsWithValue(t, "node #0 is special and cannot be deallocated", func() { alloc.free(0) })
}

func TestAllocatorReservesZero(t *testing.T) {
	t.Parallel()

	alloc := NewAllocator[string]()
	assert.Equal(t, 0, alloc.Size())
	assert.Equal(t, uint32(1), alloc.malloc())
	assert.Equal(t, uint32(2), alloc.malloc())
	assert.Equal(t, Black, alloc.storage[0].color)
	assert.Equal(t, 3, alloc.Used())

	alloc.free(1)
	assert.Equal(t, 2, alloc.Used())
	assert.Equal(t, uint32(1), alloc.malloc())
	assert.Equal(t, 3, alloc.Size())
	assert.Positive(t, alloc.Bytes())
}

func TestAllocatorDoubleFree(t *testing.T) {
	t.Parallel()

	alloc := NewAllocator[int]()
	idx := alloc.malloc()
	alloc.free(idx)
	assert.PanicsWithValue(t, "rbtree internal assertion failed", func() { alloc.free(idx) })
}

func TestAllocatorHibernateBoot(t *testing.T) {
	t.Parallel()

	alloc := NewAllocator[int]()

	for idx := range 10000 {
		nd := alloc.malloc()
		alloc.storage[nd].value = idx
		alloc.storage[nd].left = uint32(idx)
		alloc.storage[nd].right = uint32(idx)
		alloc.storage[nd].parent = uint32(idx)
		alloc.storage[nd].color = Color(idx % 2)
	}

	for idx := range 10000 {
		alloc.gaps[uint32(idx)] = true // Makes no sense, only to test.
	}

	require.NoError(t, alloc.Hibernate())
	assert.PanicsWithValue(t, "cannot hibernate an already hibernated Allocator", func() { _ = alloc.Hibernate() })
	assert.True(t, alloc.Hibernated())
	assert.Nil(t, alloc.storage)
	assert.Nil(t, alloc.gaps)
	assert.Equal(t, 0, alloc.Size())
	assert.Equal(t, 10001, alloc.hibernatedStorageLen)
	assert.Equal(t, 10000, alloc.hibernatedGapsLen)
	assert.Positive(t, alloc.HibernatedBytes())
	assert.PanicsWithValue(t, "hibernated allocators cannot be used", func() { alloc.Used() })
	assert.PanicsWithValue(t, "hibernated allocators cannot be used", func() { alloc.malloc() })
	assert.PanicsWithValue(t, "hibernated allocators cannot be used", func() { alloc.free(0) })
	assert.PanicsWithValue(t, "cannot clone a hibernated allocator", func() { alloc.Clone() })

	require.NoError(t, alloc.Boot())
	assert.False(t, alloc.Hibernated())
	assert.Equal(t, 0, alloc.hibernatedStorageLen)
	assert.Equal(t, 0, alloc.hibernatedGapsLen)
	assert.Zero(t, alloc.HibernatedBytes())

	for nd := 1; nd <= 10000; nd++ {
		assert.Equal(t, nd-1, alloc.storage[nd].value)
		assert.Equal(t, uint32(nd-1), alloc.storage[nd].left)
		assert.Equal(t, uint32(nd-1), alloc.storage[nd].right)
		assert.Equal(t, uint32(nd-1), alloc.storage[nd].parent)
		assert.Equal(t, Color((nd-1)%2), alloc.storage[nd].color)
		assert.True(t, alloc.gaps[uint32(nd-1)])
	}
}

func TestAllocatorHibernateBootEmpty(t *testing.T) {
	t.Parallel()

	alloc := NewAllocator[int]()
	require.NoError(t, alloc.Hibernate())
	require.NoError(t, alloc.Boot())
	assert.NotNil(t, alloc.gaps)
	assert.Equal(t, 0, alloc.Size())
	assert.Equal(t, 0, alloc.Used())
}

func TestAllocatorHibernateBootThreshold(t *testing.T) {
	t.Parallel()

	alloc := NewAllocator[int]()
	alloc.malloc()
	alloc.HibernationThreshold = 3
	assert.Equal(t, 3, alloc.Clone().HibernationThreshold)

	require.NoError(t, alloc.Hibernate())
	assert.Equal(t, 0, alloc.hibernatedStorageLen)
	assert.False(t, alloc.Hibernated())

	require.NoError(t, alloc.Boot())
	alloc.malloc()
	require.NoError(t, alloc.Hibernate())
	assert.Equal(t, 0, alloc.hibernatedGapsLen)
	assert.Equal(t, 3, alloc.hibernatedStorageLen)

	require.NoError(t, alloc.Boot())
	assert.Equal(t, 3, alloc.Size())
	assert.Equal(t, 3, alloc.Used())
	assert.NotNil(t, alloc.gaps)
}

func TestTreeSurvivesHibernation(t *testing.T) {
	t.Parallel()

	tree := New[int]()

	for idx := range 2000 {
		tree.Insert((idx * 7919) % 2000)
	}

	want := slices.Collect(tree.Values())

	require.NoError(t, tree.Allocator().Hibernate())
	assert.Panics(t, func() { tree.Insert(1) })
	assert.Panics(t, func() { tree.Min().Value() })

	require.NoError(t, tree.Allocator().Boot())
	require.NoError(t, tree.Validate())
	assert.Equal(t, want, slices.Collect(tree.Values()))

	tree.Insert(5000)
	assert.Equal(t, 5000, tree.Max().Value())
}

func TestAllocatorBootCorrupt(t *testing.T) {
	t.Parallel()

	alloc := NewAllocator[int]()
	for range 100 {
		alloc.malloc()
	}

	require.NoError(t, alloc.Hibernate())

	alloc.hibernatedData[columnLeft] = []byte{0xff, 1, 2, 3}

	err := alloc.Boot()
	require.ErrorIs(t, err, ErrHibernate)
	require.ErrorIs(t, err, ErrCorruptColumn)
	assert.True(t, alloc.Hibernated())
}

//nolint:paralleltest // swaps the package-level column compressor.
func TestAllocatorHibernateFailureKeepsStorage(t *testing.T) {
	errBoom := errors.New("boom")

	compressColumn = func([]uint32) ([]byte, error) { return nil, errBoom }
	t.Cleanup(func() { compressColumn = CompressUInt32Slice })

	tree := New[int]()
	for idx := range 50 {
		tree.Insert(idx)
	}

	err := tree.Allocator().Hibernate()
	require.ErrorIs(t, err, ErrHibernate)
	require.ErrorIs(t, err, errBoom)
	assert.False(t, tree.Allocator().Hibernated())
	assert.Zero(t, tree.Allocator().HibernatedBytes())

	tree.Insert(100)
	require.NoError(t, tree.Validate())
	assert.Equal(t, 51, tree.Len())

	compressColumn = CompressUInt32Slice

	require.NoError(t, tree.Allocator().Hibernate())
	require.NoError(t, tree.Allocator().Boot())
	require.NoError(t, tree.Validate())
}
