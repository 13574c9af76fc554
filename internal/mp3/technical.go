package mp3

import (
	"time"

	binutil "github.com/simonhull/audiohdr/internal/binary"
	"github.com/simonhull/audiohdr/internal/types"
)

// audioInfo derives the stream summary from the first frame header.
// Duration comes from a Xing/Info or VBRI header when one follows the
// frame, and is otherwise estimated from the bit rate and file size.
func audioInfo(sr *binutil.SafeReader, m *types.MP3) types.AudioInfo {
	info := types.AudioInfo{
		Codec:     []string{"", "MP1", "MP2", "MP3"}[m.Layer],
		Container: "MPEG",
		Channels:  m.Channels(),
	}
	rate, rateOK := m.SampleRate.Known()
	if rateOK {
		info.SampleRate = rate
	}
	kbit, kbitOK := m.BitRate.Known()
	if kbitOK {
		info.Bitrate = kbit * 1000
	}

	if frames, ok := vbrFrameCount(sr, m); ok && rateOK {
		samples := float64(frames) * float64(samplesPerFrame(m))
		info.Duration = time.Duration(samples / float64(rate) * float64(time.Second))
		return info
	}
	if kbitOK {
		audioSize := sr.Size() - m.FrameOffset
		info.Duration = time.Duration(float64(audioSize*8) / float64(info.Bitrate) * float64(time.Second))
	}
	return info
}

// vbrFrameCount returns the frame count from a Xing/Info or VBRI header in
// the first frame.
func vbrFrameCount(sr *binutil.SafeReader, m *types.MP3) (uint32, bool) {
	if m.Layer == 3 {
		xing := m.FrameOffset + 4 + int64(sideInfoSize(m))
		if m.ProtectionBit == 0 {
			xing += 2 // CRC
		}
		buf := make([]byte, 12)
		if err := sr.ReadAt(buf, xing, "Xing header"); err == nil {
			tag := string(buf[0:4])
			flags := be32(buf[4:8])
			// Frames field is present if bit 0 is set
			if (tag == "Xing" || tag == "Info") && flags&0x0001 != 0 {
				return be32(buf[8:12]), true
			}
		}
	}

	// VBRI always sits 32 bytes after the frame header.
	buf := make([]byte, 18)
	if err := sr.ReadAt(buf, m.FrameOffset+4+32, "VBRI header"); err == nil && string(buf[0:4]) == "VBRI" {
		return be32(buf[14:18]), true
	}
	return 0, false
}

func be32(b []byte) uint32 {
	return uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3])
}
