// Package binary provides type-safe binary reading primitives with bounds checking
package binary

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/simonhull/audiohdr/internal/types"
)

// SafeReader wraps io.ReaderAt with bounds checking and helpful error messages.
//
// Every bounds violation is reported as a *types.MalformedContainerError.
type SafeReader struct {
	r    io.ReaderAt
	path string
	size int64
}

// NewSafeReader creates a new SafeReader.
func NewSafeReader(r io.ReaderAt, size int64, path string) *SafeReader {
	return &SafeReader{
		r:    r,
		size: size,
		path: path,
	}
}

// Path returns the file path associated with this reader.
func (sr *SafeReader) Path() string {
	return sr.path
}

// Size returns the length of the underlying medium.
func (sr *SafeReader) Size() int64 {
	return sr.size
}

// ReadAt reads bytes at the given offset with context for error messages.
func (sr *SafeReader) ReadAt(b []byte, off int64, what string) error {
	if len(b) == 0 && off >= 0 && off <= sr.size {
		return nil
	}

	// Check bounds
	if off < 0 || off >= sr.size || off+int64(len(b)) > sr.size {
		return &types.MalformedContainerError{
			Path:   sr.path,
			What:   what,
			Offset: off,
			Length: int64(len(b)),
			Size:   sr.size,
		}
	}

	n, err := sr.r.ReadAt(b, off)
	if err != nil && err != io.EOF {
		return fmt.Errorf("%s: failed to read %s at offset %d: %w", sr.path, what, off, err)
	}

	if n < len(b) {
		return &types.MalformedContainerError{
			Path:   sr.path,
			What:   what,
			Offset: off,
			Reason: fmt.Sprintf("short read for %s: got %d bytes, expected %d", what, n, len(b)),
		}
	}

	return nil
}

// Read reads a value of type T from the given offset.
// T must be uint8, uint16, uint32, or uint64.
func Read[T uint8 | uint16 | uint32 | uint64](sr *SafeReader, off int64, what string) (T, error) {
	return ReadEndian[T](sr, off, what, BigEndian)
}

// sizeOf returns the encoded width of T in bytes.
func sizeOf[T uint8 | uint16 | uint32 | uint64]() int {
	var zero T
	switch any(zero).(type) {
	case uint8:
		return 1
	case uint16:
		return 2
	case uint32:
		return 4
	default:
		return 8
	}
}

// decode converts buf to T using the given byte order.
func decode[T uint8 | uint16 | uint32 | uint64](buf []byte, endian Endianness) T {
	var order binary.ByteOrder = binary.BigEndian
	if endian == LittleEndian {
		order = binary.LittleEndian
	}

	var zero T
	switch any(zero).(type) {
	case uint8:
		return T(buf[0])
	case uint16:
		return T(order.Uint16(buf))
	case uint32:
		return T(order.Uint32(buf))
	default:
		return T(order.Uint64(buf))
	}
}
