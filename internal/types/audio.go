package types

import (
	"fmt"
	"time"
)

// AudioInfo is the format-agnostic summary of a decoded stream.
//
// Every decoder fills the fields it knows; the format-specific descriptor
// on File holds the complete record.
type AudioInfo struct {
	Codec     string
	Container string
	Duration  time.Duration

	// SampleRate is truncated to whole Hz for CAFF's floating point rate.
	SampleRate int
	BitDepth   int
	Channels   int

	// Bitrate in bits per second; zero when not signalled.
	Bitrate  int
	Lossless bool
}

// String returns a human-readable representation of the audio info.
// Example output: "PCM 44.1kHz 16-bit stereo lossless".
func (a AudioInfo) String() string {
	sampleRate := fmt.Sprintf("%.1fkHz", float64(a.SampleRate)/1000)

	bitDepth := ""
	if a.BitDepth > 0 {
		bitDepth = fmt.Sprintf("%d-bit", a.BitDepth)
	}

	channels := channelDescription(a.Channels)

	quality := ""
	if a.Lossless {
		quality = "lossless"
	} else if a.Bitrate > 0 {
		quality = fmt.Sprintf("%dkbps", a.Bitrate/1000)
	}

	parts := []string{a.Codec, sampleRate, bitDepth, channels, quality}
	return join(parts, " ")
}

// channelDescription returns a human-readable channel description.
func channelDescription(channels int) string {
	switch channels {
	case 0:
		return ""
	case 1:
		return "mono"
	case 2:
		return "stereo"
	case 4:
		return "quad"
	case 6:
		return "5.1"
	case 8:
		return "7.1"
	default:
		return fmt.Sprintf("%dch", channels)
	}
}

// join concatenates strings with a separator, skipping empty strings.
func join(parts []string, sep string) string {
	var result string
	for _, part := range parts {
		if part == "" {
			continue
		}
		if result != "" {
			result += sep
		}
		result += part
	}
	return result
}

// IsHighRes returns true if the audio is high-resolution.
//
// High-resolution is defined as:
//   - Sample rate > 48kHz, OR
//   - Bit depth > 16
func (a AudioInfo) IsHighRes() bool {
	return a.SampleRate > 48000 || a.BitDepth > 16
}
