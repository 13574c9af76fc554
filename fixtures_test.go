package audiohdr

import (
	"bytes"
	"encoding/binary"
	"math"
	"os"
	"path/filepath"
	"testing"
)

// wavFixture is 16-bit stereo PCM at 44.1kHz carrying data.
func wavFixture(data []byte) []byte {
	buf := &bytes.Buffer{}
	buf.WriteString("RIFF")
	binary.Write(buf, binary.LittleEndian, uint32(4+8+16+8+len(data)))
	buf.WriteString("WAVE")

	buf.WriteString("fmt ")
	binary.Write(buf, binary.LittleEndian, uint32(16))
	binary.Write(buf, binary.LittleEndian, uint16(1))
	binary.Write(buf, binary.LittleEndian, uint16(2))
	binary.Write(buf, binary.LittleEndian, uint32(44100))
	binary.Write(buf, binary.LittleEndian, uint32(176400))
	binary.Write(buf, binary.LittleEndian, uint16(4))
	binary.Write(buf, binary.LittleEndian, uint16(16))

	buf.WriteString("data")
	binary.Write(buf, binary.LittleEndian, uint32(len(data)))
	buf.Write(data)
	return buf.Bytes()
}

// caffFixture is linear PCM with a desc chunk, an unknown "uuid" chunk when
// withUnknown is set, and a data chunk.
func caffFixture(data []byte, withUnknown bool) []byte {
	buf := &bytes.Buffer{}
	buf.WriteString("caff")
	binary.Write(buf, binary.BigEndian, uint16(1))
	binary.Write(buf, binary.BigEndian, uint16(0))

	buf.WriteString("desc")
	binary.Write(buf, binary.BigEndian, uint64(32))
	binary.Write(buf, binary.BigEndian, math.Float64bits(44100))
	buf.WriteString("lpcm")
	binary.Write(buf, binary.BigEndian, uint32(0x0C))
	binary.Write(buf, binary.BigEndian, uint32(4))
	binary.Write(buf, binary.BigEndian, uint32(1))
	binary.Write(buf, binary.BigEndian, uint32(2))
	binary.Write(buf, binary.BigEndian, uint32(16))

	if withUnknown {
		buf.WriteString("uuid")
		binary.Write(buf, binary.BigEndian, uint64(16))
		buf.Write(make([]byte, 16))
	}

	buf.WriteString("data")
	binary.Write(buf, binary.BigEndian, uint64(len(data)))
	buf.Write(data)
	return buf.Bytes()
}

func oggPage(buf *bytes.Buffer, headerType byte, granule uint64, sequence uint32, data []byte) {
	buf.WriteString("OggS")
	buf.WriteByte(0)
	buf.WriteByte(headerType)
	binary.Write(buf, binary.LittleEndian, granule)
	binary.Write(buf, binary.LittleEndian, uint32(1))
	binary.Write(buf, binary.LittleEndian, sequence)
	binary.Write(buf, binary.LittleEndian, uint32(0))
	buf.WriteByte(1)
	buf.WriteByte(byte(len(data)))
	buf.Write(data)
}

// oggFixture is a mono 8kHz Vorbis stream with the given comments.
func oggFixture(comments ...string) []byte {
	ident := &bytes.Buffer{}
	ident.WriteByte(1)
	ident.WriteString("vorbis")
	binary.Write(ident, binary.LittleEndian, uint32(0))
	ident.WriteByte(1)
	binary.Write(ident, binary.LittleEndian, uint32(8000))
	binary.Write(ident, binary.LittleEndian, [3]uint32{0, 64000, 0})
	ident.WriteByte(0xB8)
	ident.WriteByte(1)

	comment := &bytes.Buffer{}
	comment.WriteByte(3)
	comment.WriteString("vorbis")
	binary.Write(comment, binary.LittleEndian, uint32(4))
	comment.WriteString("test")
	binary.Write(comment, binary.LittleEndian, uint32(len(comments)))
	for _, c := range comments {
		binary.Write(comment, binary.LittleEndian, uint32(len(c)))
		comment.WriteString(c)
	}
	comment.WriteByte(1)

	buf := &bytes.Buffer{}
	oggPage(buf, 0x02, 0, 0, ident.Bytes())
	oggPage(buf, 0x00, 0, 1, comment.Bytes())
	return buf.Bytes()
}

// mp3Fixture is one 128 kbps MPEG-1 Layer III frame at 44.1kHz, optionally
// behind an empty ID3v2.3 tag.
func mp3Fixture(withTag bool) []byte {
	buf := &bytes.Buffer{}
	if withTag {
		buf.WriteString("ID3")
		buf.Write([]byte{3, 0, 0, 0, 0, 0, 10})
		buf.Write(make([]byte, 10))
	}
	binary.Write(buf, binary.BigEndian, uint32(0xFFFB9064))
	buf.Write(make([]byte, 413))
	return buf.Bytes()
}

func writeTemp(t testing.TB, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}
