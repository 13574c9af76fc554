package types

import (
	"sync"
	"time"

	"github.com/simonhull/audiohdr/internal/digest"
)

// WaveFormatExtensible is the fmt chunk size that carries the extensible
// fields (valid bits, channel mask, sub-format GUID).
const WaveFormatExtensible = 40

// Wave holds the metadata and payload of one RIFF/WAVE file.
type Wave struct {
	// SubFormat is the 16-byte sub-format GUID, nil unless the fmt chunk
	// was exactly WaveFormatExtensible bytes.
	SubFormat []byte
	Data      []byte

	// LengthMillis is len(Data)*1000/ByteRate.
	LengthMillis float64

	hashOnce sync.Once
	hash     []byte

	SampleRate  uint32
	ByteRate    uint32
	ChannelMask uint32

	AudioFormat        uint16
	Channels           uint16
	BlockAlign         uint16
	BitsPerSample      uint16
	ExtensionSize      uint16
	ValidBitsPerSample uint16
}

// Duration returns LengthMillis as a time.Duration.
func (w *Wave) Duration() time.Duration {
	return time.Duration(w.LengthMillis * float64(time.Millisecond))
}

// DataHash returns the SHA-1 digest of Data, computing it on first use.
func (w *Wave) DataHash() []byte {
	w.hashOnce.Do(func() {
		w.hash = digest.Sum(digest.SHA1, w.Data)
	})
	return w.hash
}

// Extensible reports whether the extensible fmt fields were present.
func (w *Wave) Extensible() bool {
	return w.SubFormat != nil
}
