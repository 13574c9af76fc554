package types

import "strings"

// Format represents an audio container format.
type Format int

const (
	// FormatUnknown represents an unknown or unsupported format.
	FormatUnknown Format = iota
	// FormatCAFF represents Core Audio Format files.
	FormatCAFF
	// FormatWAV represents RIFF/WAVE files.
	FormatWAV
	// FormatOgg represents Ogg Vorbis files.
	FormatOgg
	// FormatMP3 represents MPEG audio elementary streams.
	FormatMP3
)

var formatNames = [...]string{
	FormatUnknown: "Unknown",
	FormatCAFF:    "CAFF",
	FormatWAV:     "WAV",
	FormatOgg:     "Ogg Vorbis",
	FormatMP3:     "MP3",
}

func (f Format) String() string {
	if f < 0 || int(f) >= len(formatNames) {
		return formatNames[FormatUnknown]
	}
	return formatNames[f]
}

// Extensions returns common file extensions for this format.
func (f Format) Extensions() []string {
	switch f {
	case FormatCAFF:
		return []string{".caf", ".caff"}
	case FormatWAV:
		return []string{".wav", ".wave"}
	case FormatOgg:
		return []string{".ogg", ".oga"}
	case FormatMP3:
		return []string{".mp3"}
	default:
		return nil
	}
}

// ParseFormat maps a short name ("caff", "wav", "ogg", "mp3") to a Format.
// Matching is case-insensitive; unknown names return FormatUnknown.
func ParseFormat(name string) Format {
	switch strings.ToLower(name) {
	case "caf", "caff":
		return FormatCAFF
	case "wav", "wave", "riff":
		return FormatWAV
	case "ogg", "vorbis":
		return FormatOgg
	case "mp3", "mpeg":
		return FormatMP3
	default:
		return FormatUnknown
	}
}
