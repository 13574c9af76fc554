package types

// OggPageHeader is the fixed header of one Ogg page.
type OggPageHeader struct {
	// Segments is the segment table; it is kept for inspection only.
	Segments []byte

	CapturePattern  string
	GranulePosition uint64
	SerialNumber    uint32
	SequenceNumber  uint32
	Checksum        uint32
	Version         uint8
	HeaderType      uint8
}

// BodySize is the sum of the segment table entries.
func (h OggPageHeader) BodySize() int {
	n := 0
	for _, s := range h.Segments {
		n += int(s)
	}
	return n
}

// Vorbis holds the identification and comment headers of one Ogg/Vorbis stream.
type Vorbis struct {
	// Comments are the user comments in stream order.
	Comments []string
	Vendor   string

	// Pages are the two page headers that framed the identification and
	// comment packets.
	Pages [2]OggPageHeader

	// SourceChecksum is parsed from the first "source=" comment; zero when
	// there is none.
	SourceChecksum int64

	SampleRate     uint32
	Version        uint32
	BitrateMaximum uint32
	BitrateNominal uint32
	BitrateMinimum uint32

	Channels  uint8
	Blocksize uint8
}
