package rbtree

import (
	"errors"
	"hash/fnv"
	"sync"
)

// ShardedAllocator spreads trees over independent allocators so that trees on
// different shards can be written from different goroutines, and so that
// hibernation runs on all shards in parallel.
type ShardedAllocator[T any] struct {
	shards []*Allocator[T]
}

// NewShardedAllocator creates shardCount allocators (at least one) sharing the
// hibernation threshold evenly.
func NewShardedAllocator[T any](shardCount, hibernationThreshold int) *ShardedAllocator[T] {
	shardCount = max(shardCount, 1)
	shards := make([]*Allocator[T], shardCount)

	for idx := range shards {
		shards[idx] = NewAllocator[T]()
		shards[idx].HibernationThreshold = hibernationThreshold / shardCount
	}

	return &ShardedAllocator[T]{shards: shards}
}

// ShardFor returns the allocator owning key. The same key always maps to the same shard.
func (sa *ShardedAllocator[T]) ShardFor(key string) *Allocator[T] {
	hasher := fnv.New32a()
	_, _ = hasher.Write([]byte(key))

	return sa.shards[hasher.Sum32()%uint32(len(sa.shards))]
}

// Shards returns all underlying allocators.
func (sa *ShardedAllocator[T]) Shards() []*Allocator[T] {
	return sa.shards
}

// Size returns the slot count over all shards.
func (sa *ShardedAllocator[T]) Size() int {
	total := 0
	for _, shard := range sa.shards {
		total += shard.Size()
	}

	return total
}

// HibernatedBytes returns the compressed size over all shards.
func (sa *ShardedAllocator[T]) HibernatedBytes() int {
	total := 0
	for _, shard := range sa.shards {
		total += shard.HibernatedBytes()
	}

	return total
}

// Hibernate hibernates all shards in parallel.
func (sa *ShardedAllocator[T]) Hibernate() error {
	return sa.each((*Allocator[T]).Hibernate)
}

// Boot boots all shards in parallel.
func (sa *ShardedAllocator[T]) Boot() error {
	return sa.each((*Allocator[T]).Boot)
}

func (sa *ShardedAllocator[T]) each(op func(*Allocator[T]) error) error {
	errs := make([]error, len(sa.shards))

	var wg sync.WaitGroup

	for idx, shard := range sa.shards {
		wg.Add(1)

		go func() {
			defer wg.Done()

			errs[idx] = op(shard)
		}()
	}

	wg.Wait()

	return errors.Join(errs...)
}
