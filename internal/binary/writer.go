package binary

import (
	"encoding/binary"
	"fmt"
	"io"
)

// SafeWriter wraps io.Writer with position tracking.
type SafeWriter struct {
	w      io.Writer
	offset int64
}

// NewSafeWriter creates a new SafeWriter.
func NewSafeWriter(w io.Writer) *SafeWriter {
	return &SafeWriter{w: w}
}

// Offset returns the current position (number of bytes written).
func (sw *SafeWriter) Offset() int64 {
	return sw.offset
}

// WriteBytes writes raw bytes to the underlying writer.
func (sw *SafeWriter) WriteBytes(b []byte) error {
	n, err := sw.w.Write(b)
	sw.offset += int64(n)
	return err
}

// WriteTag writes a four-character record tag such as "RIFF" or "fmt ".
func (sw *SafeWriter) WriteTag(tag string) error {
	if len(tag) != 4 {
		return fmt.Errorf("tag %q is not four bytes", tag)
	}
	return sw.WriteBytes([]byte(tag))
}

// Write writes a value of type T in big-endian byte order.
func Write[T uint8 | uint16 | uint32 | uint64](sw *SafeWriter, val T) error {
	return WriteEndian(sw, val, BigEndian)
}

// WriteLE writes a value of type T in little-endian byte order.
func WriteLE[T uint8 | uint16 | uint32 | uint64](sw *SafeWriter, val T) error {
	return WriteEndian(sw, val, LittleEndian)
}

// WriteEndian writes a value of type T with the given byte order.
func WriteEndian[T uint8 | uint16 | uint32 | uint64](sw *SafeWriter, val T, endian Endianness) error {
	var order binary.ByteOrder = binary.BigEndian
	if endian == LittleEndian {
		order = binary.LittleEndian
	}

	buf := make([]byte, sizeOf[T]())
	switch len(buf) {
	case 1:
		buf[0] = byte(val)
	case 2:
		order.PutUint16(buf, uint16(val))
	case 4:
		order.PutUint32(buf, uint32(val))
	default:
		order.PutUint64(buf, uint64(val))
	}

	return sw.WriteBytes(buf)
}
