// Package mp3 decodes the optional ID3v2 comment and the first frame header
// of an MPEG audio stream.
package mp3

import (
	"io"
	"log/slog"

	binutil "github.com/simonhull/audiohdr/internal/binary"
	"github.com/simonhull/audiohdr/internal/registry"
	"github.com/simonhull/audiohdr/internal/types"
)

// parser implements registry.FormatParser and registry.Sniffer.
type parser struct{}

func init() {
	registry.Register(types.FormatMP3, &parser{})
}

// Sniff accepts an ID3v2 tag or a frame sync word at offset 0.
func (p *parser) Sniff(head []byte) bool {
	if len(head) >= 3 && string(head[:3]) == "ID3" {
		return true
	}
	return len(head) >= 4 && be32(head)&syncMask == syncMask
}

// Parse runs two phases: an optional ID3v2 tag, then one frame header at
// the first byte after the tag (or at offset 0 without one). There is no
// scan for a later sync word.
func (p *parser) Parse(r io.ReaderAt, size int64, path string, logger *slog.Logger) (*types.File, error) {
	logger = registry.Logger(logger)
	sr := binutil.NewSafeReader(r, size, path)
	c := binutil.NewCursor(sr, binutil.BigEndian)

	m := &types.MP3{}
	file := &types.File{
		Path:   path,
		Format: types.FormatMP3,
		Size:   size,
		MP3:    m,
	}

	// Peek, so a missing tag leaves the cursor at 0.
	var audioStart int64
	if head, err := c.Peek(3, "ID3 identifier"); err == nil && string(head) == "ID3" {
		if audioStart, err = parseID3(c, file, logger); err != nil {
			return nil, err
		}
	}

	if err := c.Seek(audioStart); err != nil {
		return nil, err
	}
	word, err := binutil.Next[uint32](c, "frame header")
	if err != nil {
		return nil, err
	}
	if word&syncMask != syncMask {
		return nil, &types.FrameSyncError{Path: path, Offset: audioStart, Word: word}
	}
	m.FrameOffset = audioStart
	if err := decodeFrameHeader(m, word); err != nil {
		return nil, err
	}

	file.Audio = audioInfo(sr, m)
	return file, nil
}
