package chunk

import (
	"math"

	"github.com/simonhull/audiohdr/internal/binary"
	"github.com/simonhull/audiohdr/internal/types"
)

// Layout reads one record header at the cursor and leaves the cursor at the
// first payload byte. Offset and Body are filled in by the walker.
type Layout interface {
	Header(c *binary.Cursor) (Record, error)
}

// LayoutFunc adapts a function to Layout.
type LayoutFunc func(c *binary.Cursor) (Record, error)

// Header calls f(c).
func (f LayoutFunc) Header(c *binary.Cursor) (Record, error) {
	return f(c)
}

// CAFF reads Core Audio Format chunk headers: a 4-byte type and a 64-bit
// big-endian size.
//
// A 'data' chunk whose size has every bit set runs to the end of the
// stream; the size is resolved here so the bounds check sees a real length.
var CAFF Layout = LayoutFunc(func(c *binary.Cursor) (Record, error) {
	tag, err := c.String(4, "chunk type")
	if err != nil {
		return Record{}, err
	}
	size, err := binary.NextEndian[uint64](c, "chunk size", binary.BigEndian)
	if err != nil {
		return Record{}, err
	}
	if size == math.MaxUint64 && tag == "data" {
		return Record{Tag: tag, Size: c.Remaining()}, nil
	}
	if size > math.MaxInt64 {
		return Record{}, &types.MalformedContainerError{
			Path:   c.Path(),
			What:   "chunk size",
			Offset: c.Offset() - 8,
			Size:   c.End(),
			Reason: "chunk size overflows",
		}
	}
	return Record{Tag: tag, Size: int64(size)}, nil
})

// RIFF reads RIFF sub-chunk headers: a 4-byte id and a 32-bit
// little-endian size.
var RIFF Layout = LayoutFunc(func(c *binary.Cursor) (Record, error) {
	tag, err := c.String(4, "chunk id")
	if err != nil {
		return Record{}, err
	}
	size, err := binary.NextEndian[uint32](c, "chunk size", binary.LittleEndian)
	if err != nil {
		return Record{}, err
	}
	return Record{Tag: tag, Size: int64(size)}, nil
})

// ID3v2 reads ID3v2.3 frame headers: a 4-character id, a 32-bit big-endian
// size and 16 bits of flags. A NUL first id byte marks the start of padding
// and ends the walk.
var ID3v2 Layout = id3Layout{}

// ID3v24 reads ID3v2.4 frame headers, whose sizes are synchsafe.
var ID3v24 Layout = id3Layout{synchsafe: true}

type id3Layout struct {
	synchsafe bool
}

func (l id3Layout) Header(c *binary.Cursor) (Record, error) {
	first, err := c.Peek(1, "frame id")
	if err != nil {
		return Record{}, err
	}
	if first[0] == 0 {
		return Record{}, Stop
	}
	tag, err := c.String(4, "frame id")
	if err != nil {
		return Record{}, err
	}
	raw, err := c.Bytes(4, "frame size")
	if err != nil {
		return Record{}, err
	}
	var size uint32
	if l.synchsafe {
		size, err = Synchsafe(raw)
		if err != nil {
			return Record{}, &types.MalformedContainerError{
				Path:   c.Path(),
				What:   "frame size",
				Offset: c.Offset() - 4,
				Size:   c.End(),
				Reason: err.Error(),
			}
		}
	} else {
		size = uint32(raw[0])<<24 | uint32(raw[1])<<16 | uint32(raw[2])<<8 | uint32(raw[3])
	}
	flags, err := binary.NextEndian[uint16](c, "frame flags", binary.BigEndian)
	if err != nil {
		return Record{}, err
	}
	return Record{Tag: tag, Size: int64(size), Flags: flags}, nil
}
