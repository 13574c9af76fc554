package types

// CAFF holds the metadata of one Core Audio Format file.
type CAFF struct {
	// Info holds the key/value pairs of every 'info' chunk, later keys
	// overwriting earlier ones.
	Info map[string]string

	PacketTable []byte
	SourceHash  []byte
	Data        []byte

	// FileType is the preamble tag, normally "caff".
	FileType string
	// FormatID is the four-character codec code from 'desc' (e.g. "lpcm").
	FormatID string

	SampleRate float64
	FreeSize   uint64

	FormatFlags     uint32
	BytesPerPacket  uint32
	FramesPerPacket uint32
	Channels        uint32
	BitsPerChannel  uint32

	FileVersion uint16
	FileFlags   uint16
}
