package binary

import (
	"bytes"
	"fmt"
	"math"

	"github.com/simonhull/audiohdr/internal/types"
)

// Cursor provides sequential reading with automatic offset tracking over a
// window [0, end) of a SafeReader.
//
// A Cursor never reads past its end, even when the underlying medium is
// longer: Limit hands out sub-cursors bounded to a single record.
type Cursor struct {
	sr    *SafeReader
	off   int64
	end   int64
	order Endianness
}

// NewCursor creates a cursor over the whole medium starting at offset 0.
func NewCursor(sr *SafeReader, order Endianness) *Cursor {
	return &Cursor{sr: sr, end: sr.size, order: order}
}

// Path returns the file path associated with the cursor.
func (c *Cursor) Path() string {
	return c.sr.path
}

// Offset returns the current absolute offset.
func (c *Cursor) Offset() int64 {
	return c.off
}

// End returns the exclusive absolute limit of the cursor.
func (c *Cursor) End() int64 {
	return c.end
}

// Remaining returns the number of bytes between the offset and End.
func (c *Cursor) Remaining() int64 {
	return c.end - c.off
}

// EOF reports whether the cursor has reached its end.
func (c *Cursor) EOF() bool {
	return c.off >= c.end
}

// Order returns the byte order used for multi-byte reads.
func (c *Cursor) Order() Endianness {
	return c.order
}

// Seek moves to an absolute offset within [0, End].
func (c *Cursor) Seek(off int64) error {
	if off < 0 || off > c.end {
		return c.malformed("seek", off, 0, fmt.Sprintf("seek to offset %d outside [0, %d]", off, c.end))
	}
	c.off = off
	return nil
}

// Skip moves n bytes relative to the current offset.
func (c *Cursor) Skip(n int64) error {
	return c.Seek(c.off + n)
}

// Limit returns a cursor over the next n bytes and leaves c unchanged.
// It fails if the window would extend past End.
func (c *Cursor) Limit(n int64, what string) (*Cursor, error) {
	if n < 0 || n > c.Remaining() {
		return nil, c.bounds(what, n)
	}
	return &Cursor{sr: c.sr, off: c.off, end: c.off + n, order: c.order}, nil
}

// Bytes reads the next n bytes.
func (c *Cursor) Bytes(n int64, what string) ([]byte, error) {
	if n < 0 || n > c.Remaining() {
		return nil, c.bounds(what, n)
	}
	buf := make([]byte, n)
	if err := c.sr.ReadAt(buf, c.off, what); err != nil {
		return nil, err
	}
	c.off += n
	return buf, nil
}

// Peek reads the next n bytes without advancing.
func (c *Cursor) Peek(n int, what string) ([]byte, error) {
	if int64(n) > c.Remaining() {
		return nil, c.bounds(what, int64(n))
	}
	buf := make([]byte, n)
	if err := c.sr.ReadAt(buf, c.off, what); err != nil {
		return nil, err
	}
	return buf, nil
}

// String reads a fixed-length byte string.
func (c *Cursor) String(n int, what string) (string, error) {
	buf, err := c.Bytes(int64(n), what)
	if err != nil {
		return "", err
	}
	return string(buf), nil
}

// F64 reads an IEEE 754 double in the cursor's byte order.
func (c *Cursor) F64(what string) (float64, error) {
	bits, err := Next[uint64](c, what)
	if err != nil {
		return 0, err
	}
	return math.Float64frombits(bits), nil
}

// CString reads a NUL-terminated byte string and consumes the terminator.
// The returned string excludes the terminator.
func (c *Cursor) CString(what string) (string, error) {
	start := c.off
	var out []byte
	buf := make([]byte, 64)
	for {
		n := min(int64(len(buf)), c.Remaining())
		if n == 0 {
			return "", c.malformed(what, start, c.off-start, "unterminated string")
		}
		if err := c.sr.ReadAt(buf[:n], c.off, what); err != nil {
			return "", err
		}
		if i := bytes.IndexByte(buf[:n], 0); i >= 0 {
			out = append(out, buf[:i]...)
			c.off += int64(i) + 1
			return string(out), nil
		}
		out = append(out, buf[:n]...)
		c.off += n
	}
}

// CString16 reads 2-byte code units up to a 0x0000 unit and consumes the
// terminator. It returns the raw bytes of the units before the terminator.
func (c *Cursor) CString16(what string) ([]byte, error) {
	start := c.off
	var out []byte
	unit := make([]byte, 2)
	for {
		if c.Remaining() < 2 {
			return nil, c.malformed(what, start, c.off-start, "unterminated UTF-16 string")
		}
		if err := c.sr.ReadAt(unit, c.off, what); err != nil {
			return nil, err
		}
		c.off += 2
		if unit[0] == 0 && unit[1] == 0 {
			return out, nil
		}
		out = append(out, unit...)
	}
}

// Next reads a numeric value of type T in the cursor's byte order and
// advances the offset.
func Next[T uint8 | uint16 | uint32 | uint64](c *Cursor, what string) (T, error) {
	return NextEndian[T](c, what, c.order)
}

// NextEndian is Next with an explicit byte order.
func NextEndian[T uint8 | uint16 | uint32 | uint64](c *Cursor, what string, endian Endianness) (T, error) {
	var zero T
	size := int64(sizeOf[T]())
	if size > c.Remaining() {
		return zero, c.bounds(what, size)
	}
	val, err := ReadEndian[T](c.sr, c.off, what, endian)
	if err != nil {
		return zero, err
	}
	c.off += size
	return val, nil
}

// bounds reports a read of n bytes that does not fit before End.
func (c *Cursor) bounds(what string, n int64) error {
	return &types.MalformedContainerError{
		Path:   c.sr.path,
		What:   what,
		Offset: c.off,
		Length: n,
		Size:   c.end,
	}
}

func (c *Cursor) malformed(what string, off, n int64, reason string) error {
	return &types.MalformedContainerError{
		Path:   c.sr.path,
		What:   what,
		Offset: off,
		Length: n,
		Size:   c.end,
		Reason: reason,
	}
}
