package rbtree

import (
	"errors"
	"fmt"
	"maps"
	"math"
	"sync"
	"unsafe"

	"github.com/Sumatoshi-tech/redblack/pkg/safeconv"
)

// ErrHibernate is returned when the allocator could not be compressed or restored.
var ErrHibernate = errors.New("hibernation failed")

// compressColumn packs one hibernated column. Tests replace it to simulate failures.
var compressColumn = CompressUInt32Slice

// growCapacityNumerator and growCapacityDenominator define the 3/2 growth factor for storage.
const (
	growCapacityNumerator   = 3
	growCapacityDenominator = 2
)

// Index math.MaxUint32 is never handed out so that the capacity check stays simple.
const limitNode = math.MaxUint32

// Columns the link structure is split into while hibernated.
const (
	columnParent = iota
	columnLeft
	columnRight
	columnColor
	columnCount
)

// node is the arena slot. Index 0 is the absent leaf.
type node[T any] struct {
	value               T
	parent, left, right uint32
	color               Color
}

// Allocator owns the nodes of one or more trees. Nodes are addressed by their
// index in storage; freed slots are recycled through gaps.
type Allocator[T any] struct {
	storage []node[T]
	gaps    map[uint32]bool

	// Hibernated state: one compressed column per link field, plus the gaps.
	hibernatedData   [columnCount + 1][]byte
	hibernatedValues []T

	// HibernationThreshold is the minimal storage size for Hibernate to compress anything.
	HibernationThreshold int

	hibernatedStorageLen int
	hibernatedGapsLen    int
}

// NewAllocator creates a new allocator for tree nodes.
func NewAllocator[T any]() *Allocator[T] {
	return &Allocator[T]{
		storage: []node[T]{},
		gaps:    map[uint32]bool{},
	}
}

// Size returns the number of allocated slots, including the reserved one.
func (allocator *Allocator[T]) Size() int {
	return len(allocator.storage)
}

// Used returns the number of slots currently holding nodes, including the reserved one.
func (allocator *Allocator[T]) Used() int {
	allocator.mustBeAwake()

	return len(allocator.storage) - len(allocator.gaps)
}

// Bytes estimates the memory held by the node slots.
func (allocator *Allocator[T]) Bytes() int {
	return cap(allocator.storage) * int(unsafe.Sizeof(node[T]{}))
}

// Hibernated reports whether the allocator is compressed and unusable until Boot.
func (allocator *Allocator[T]) Hibernated() bool {
	return allocator.storage == nil
}

// HibernatedBytes returns the size of the compressed link columns.
func (allocator *Allocator[T]) HibernatedBytes() int {
	total := 0

	for _, column := range allocator.hibernatedData {
		total += len(column)
	}

	return total
}

// Clone copies an existing allocator. Trees bound to the original can be moved
// onto the copy with Tree.CloneShallow.
func (allocator *Allocator[T]) Clone() *Allocator[T] {
	if allocator.storage == nil {
		panic("cannot clone a hibernated allocator")
	}

	clone := &Allocator[T]{
		HibernationThreshold: allocator.HibernationThreshold,
		storage:              make([]node[T], len(allocator.storage), cap(allocator.storage)),
		gaps:                 make(map[uint32]bool, len(allocator.gaps)),
	}
	copy(clone.storage, allocator.storage)
	maps.Copy(clone.gaps, allocator.gaps)

	return clone
}

// Hibernate compresses the link structure of every node. Values are kept aside
// uncompressed. Nothing happens while the storage is below HibernationThreshold.
func (allocator *Allocator[T]) Hibernate() error {
	if allocator.hibernatedStorageLen > 0 {
		panic("cannot hibernate an already hibernated Allocator")
	}

	if len(allocator.storage) < allocator.HibernationThreshold {
		return nil
	}

	allocator.hibernatedStorageLen = len(allocator.storage)
	if allocator.hibernatedStorageLen == 0 {
		allocator.storage = nil
		allocator.gaps = nil

		return nil
	}

	columns := [columnCount][]uint32{}

	for idx := range columns {
		columns[idx] = make([]uint32, len(allocator.storage))
	}

	allocator.hibernatedValues = make([]T, len(allocator.storage))

	// Deinterleaving gives LZ4 long runs of similar indices.
	for idx, nd := range allocator.storage {
		allocator.hibernatedValues[idx] = nd.value
		columns[columnParent][idx] = nd.parent
		columns[columnLeft][idx] = nd.left
		columns[columnRight][idx] = nd.right
		columns[columnColor][idx] = uint32(nd.color)
	}

	gaps := make([]uint32, 0, len(allocator.gaps))
	for key := range allocator.gaps {
		gaps = append(gaps, key)
	}

	storage, gapSet := allocator.storage, allocator.gaps
	allocator.hibernatedGapsLen = len(gaps)
	allocator.storage = nil
	allocator.gaps = nil

	errs := make([]error, columnCount+1)
	wg := &sync.WaitGroup{}
	wg.Add(columnCount + 1)

	for idx, column := range columns {
		go func(colIdx int, col []uint32) {
			defer wg.Done()

			allocator.hibernatedData[colIdx], errs[colIdx] = compressColumn(col)
		}(idx, column)
	}

	go func() {
		defer wg.Done()

		allocator.hibernatedData[columnCount], errs[columnCount] = compressColumn(gaps)
	}()

	wg.Wait()

	err := errors.Join(errs...)
	if err != nil {
		allocator.storage, allocator.gaps = storage, gapSet
		allocator.hibernatedData = [columnCount + 1][]byte{}
		allocator.hibernatedValues = nil
		allocator.hibernatedStorageLen = 0
		allocator.hibernatedGapsLen = 0

		return fmt.Errorf("%w: %w", ErrHibernate, err)
	}

	return nil
}

// Boot performs the opposite of Hibernate: decompresses and restores the nodes.
func (allocator *Allocator[T]) Boot() error {
	if allocator.storage == nil && allocator.hibernatedStorageLen == 0 {
		allocator.storage = []node[T]{}
		allocator.gaps = map[uint32]bool{}

		return nil
	}

	if allocator.hibernatedStorageLen == 0 {
		// Not hibernated.
		return nil
	}

	columns := [columnCount][]uint32{}
	gaps := make([]uint32, allocator.hibernatedGapsLen)
	errs := make([]error, columnCount+1)

	wg := &sync.WaitGroup{}
	wg.Add(columnCount + 1)

	for idx := range columns {
		go func(colIdx int) {
			defer wg.Done()

			columns[colIdx] = make([]uint32, allocator.hibernatedStorageLen)
			errs[colIdx] = DecompressUInt32Slice(allocator.hibernatedData[colIdx], columns[colIdx])
		}(idx)
	}

	go func() {
		defer wg.Done()

		errs[columnCount] = DecompressUInt32Slice(allocator.hibernatedData[columnCount], gaps)
	}()

	wg.Wait()

	err := errors.Join(errs...)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrHibernate, err)
	}

	capSize := (allocator.hibernatedStorageLen * growCapacityNumerator) / growCapacityDenominator
	allocator.storage = make([]node[T], allocator.hibernatedStorageLen, capSize)
	allocator.gaps = make(map[uint32]bool, len(gaps))

	for idx := range allocator.storage {
		nd := &allocator.storage[idx]
		nd.value = allocator.hibernatedValues[idx]
		nd.parent = columns[columnParent][idx]
		nd.left = columns[columnLeft][idx]
		nd.right = columns[columnRight][idx]
		nd.color = Color(columns[columnColor][idx])
	}

	for _, key := range gaps {
		allocator.gaps[key] = true
	}

	allocator.hibernatedData = [columnCount + 1][]byte{}
	allocator.hibernatedValues = nil
	allocator.hibernatedStorageLen = 0
	allocator.hibernatedGapsLen = 0

	return nil
}

func (allocator *Allocator[T]) mustBeAwake() {
	if allocator.storage == nil {
		panic("hibernated allocators cannot be used")
	}
}

func (allocator *Allocator[T]) malloc() uint32 {
	allocator.mustBeAwake()

	if len(allocator.gaps) > 0 {
		var key uint32

		for key = range allocator.gaps {
			break
		}

		delete(allocator.gaps, key)

		return key
	}

	nodeLen := len(allocator.storage)
	if nodeLen == 0 {
		// Zero is reserved.
		allocator.storage = append(allocator.storage, node[T]{color: Black})
		nodeLen = 1
	}

	if uint64(nodeLen) >= limitNode {
		panic("the node allocator has reached the maximum value for uint32")
	}

	allocator.storage = append(allocator.storage, node[T]{})

	return safeconv.MustIntToUint32(nodeLen)
}

func (allocator *Allocator[T]) free(nodeIdx uint32) {
	allocator.mustBeAwake()

	if nodeIdx == 0 {
		panic("node #0 is special and cannot be deallocated")
	}

	_, exists := allocator.gaps[nodeIdx]
	doAssert(!exists)

	allocator.storage[nodeIdx] = node[T]{}
	allocator.gaps[nodeIdx] = true
}
