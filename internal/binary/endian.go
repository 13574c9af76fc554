package binary

// Endianness represents byte order for multi-byte values.
type Endianness int

const (
	// BigEndian uses big-endian byte order.
	// Used by: CAFF, MP3 ID3v2 and MPEG frame headers.
	BigEndian Endianness = iota

	// LittleEndian uses little-endian byte order.
	// Used by: RIFF/WAVE, Ogg pages and Vorbis headers.
	LittleEndian
)

func (e Endianness) String() string {
	if e == LittleEndian {
		return "little-endian"
	}
	return "big-endian"
}

// ReadLE reads a numeric value of type T at the given offset using little-endian byte order.
//
// Example:
//
//	size, err := binary.ReadLE[uint32](sr, 4, "RIFF size")
func ReadLE[T uint8 | uint16 | uint32 | uint64](sr *SafeReader, off int64, what string) (T, error) {
	return ReadEndian[T](sr, off, what, LittleEndian)
}

// ReadBE reads a numeric value of type T at the given offset using big-endian byte order.
//
// Example:
//
//	chunkSize, err := binary.ReadBE[uint64](sr, offset+4, "chunk size")
func ReadBE[T uint8 | uint16 | uint32 | uint64](sr *SafeReader, off int64, what string) (T, error) {
	return ReadEndian[T](sr, off, what, BigEndian)
}

// ReadEndian reads a numeric value of type T at the given offset with specified byte order.
//
// This is the low-level function used by Read, ReadLE, and ReadBE.
// Most code should use the convenience wrappers instead.
func ReadEndian[T uint8 | uint16 | uint32 | uint64](sr *SafeReader, off int64, what string, endian Endianness) (T, error) {
	buf := make([]byte, sizeOf[T]())
	if err := sr.ReadAt(buf, off, what); err != nil {
		var zero T
		return zero, err
	}
	return decode[T](buf, endian), nil
}
