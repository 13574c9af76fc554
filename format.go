package audiohdr

import (
	"errors"
	"fmt"
	"io"

	"github.com/simonhull/audiohdr/internal/registry"
	"github.com/simonhull/audiohdr/internal/types"
)

// Format identifies an audio container.
type Format = types.Format

const (
	FormatUnknown = types.FormatUnknown
	FormatCAFF    = types.FormatCAFF
	FormatWAV     = types.FormatWAV
	FormatOgg     = types.FormatOgg
	FormatMP3     = types.FormatMP3
)

// sniffSize is how many leading bytes DetectFormat inspects.
const sniffSize = 16

// DetectFormat identifies the container from its leading bytes.
//
// The file extension in path is not consulted; it only labels errors.
func DetectFormat(r io.ReaderAt, size int64, path string) (Format, error) {
	n := min(size, sniffSize)
	if n <= 0 {
		return FormatUnknown, &UnsupportedFormatError{Path: path, Reason: "empty file"}
	}

	head := make([]byte, n)
	read, err := r.ReadAt(head, 0)
	if err != nil && !errors.Is(err, io.EOF) {
		return FormatUnknown, fmt.Errorf("read format signature: %w", err)
	}

	if f := registry.Sniff(head[:read]); f != FormatUnknown {
		return f, nil
	}
	return FormatUnknown, &UnsupportedFormatError{
		Path:   path,
		Reason: fmt.Sprintf("unrecognized signature % x", head[:min(read, 4)]),
	}
}

// ParseFormat maps a short name ("caff", "wav", "ogg", "mp3") to a Format.
func ParseFormat(name string) Format {
	return types.ParseFormat(name)
}

// Formats returns every format a decoder is registered for.
func Formats() []Format {
	return registry.Formats()
}
