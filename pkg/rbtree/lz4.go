package rbtree

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/pierrec/lz4/v4"
)

// ErrCorruptColumn is returned when a hibernated column cannot be restored.
var ErrCorruptColumn = errors.New("corrupt hibernated column")

// uint32ByteSize is the number of bytes in a uint32.
const uint32ByteSize = 4

// Column encodings. Incompressible input is kept raw, because lz4.CompressBlock
// reports 0 written bytes for it.
const (
	columnRaw byte = iota
	columnLZ4
)

// CompressUInt32Slice packs a slice of uint32-s little-endian and compresses it with LZ4.
// The first byte of the result tells whether the payload is compressed or raw.
func CompressUInt32Slice(data []uint32) ([]byte, error) {
	raw := make([]byte, 0, len(data)*uint32ByteSize)

	for _, val := range data {
		raw = binary.LittleEndian.AppendUint32(raw, val)
	}

	compressed := make([]byte, 1+lz4.CompressBlockBound(len(raw)))

	written, err := lz4.CompressBlock(raw, compressed[1:], nil)
	if err != nil {
		return nil, fmt.Errorf("lz4 compress: %w", err)
	}

	if written == 0 || written >= len(raw) {
		return append([]byte{columnRaw}, raw...), nil
	}

	compressed[0] = columnLZ4

	return compressed[:1+written], nil
}

// DecompressUInt32Slice restores a slice previously packed by CompressUInt32Slice.
// `result` must be preallocated with the original length.
func DecompressUInt32Slice(data []byte, result []uint32) error {
	if len(data) == 0 {
		if len(result) == 0 {
			return nil
		}

		return fmt.Errorf("%w: empty payload for %d values", ErrCorruptColumn, len(result))
	}

	raw := data[1:]

	switch data[0] {
	case columnRaw:
	case columnLZ4:
		raw = make([]byte, len(result)*uint32ByteSize)

		read, err := lz4.UncompressBlock(data[1:], raw)
		if err != nil {
			return fmt.Errorf("lz4 uncompress: %w", err)
		}

		raw = raw[:read]
	default:
		return fmt.Errorf("%w: encoding %d", ErrCorruptColumn, data[0])
	}

	if len(raw) != len(result)*uint32ByteSize {
		return fmt.Errorf("%w: %d bytes for %d values", ErrCorruptColumn, len(raw), len(result))
	}

	for idx := range result {
		result[idx] = binary.LittleEndian.Uint32(raw[idx*uint32ByteSize:])
	}

	return nil
}
