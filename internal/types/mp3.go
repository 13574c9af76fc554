package types

// ID3Header is the 10-byte ID3v2 tag header.
type ID3Header struct {
	// Size is the decoded synchsafe tag size, excluding the 10-byte header.
	Size    uint32
	Version uint16
	Flags   uint8
}

// MajorVersion returns the ID3v2 major version (3 for ID3v2.3).
func (h ID3Header) MajorVersion() uint8 {
	return uint8(h.Version >> 8)
}

// MP3 holds the first frame header of an MPEG audio stream plus the ID3v2
// comment, if any.
type MP3 struct {
	ID3 *ID3Header

	Version            string
	ChannelMode        string
	Comment            string
	CommentLanguage    string
	CommentDescription string

	// BitRate is in kbps, SampleRate in Hz.
	BitRate    Rate
	SampleRate Rate
	Layer      int

	// FrameOffset is the absolute offset of the decoded frame header.
	FrameOffset int64
	FrameHeader uint32

	VersionID       uint8
	LayerID         uint8
	ProtectionBit   uint8
	BitrateIndex    uint8
	SampleRateIndex uint8
	PaddingBit      uint8
	PrivateBit      uint8
	ChannelModeID   uint8
}

// Channels returns 1 for single channel mode and 2 otherwise.
func (m *MP3) Channels() int {
	if m.ChannelModeID == 3 {
		return 1
	}
	return 2
}
