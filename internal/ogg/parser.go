package ogg

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"time"

	"github.com/simonhull/audiohdr/internal/binary"
	"github.com/simonhull/audiohdr/internal/registry"
	"github.com/simonhull/audiohdr/internal/types"
	"github.com/simonhull/audiohdr/internal/vorbis"
)

// sourceKey names the comment that carries the checksum of the file the
// stream was encoded from.
const sourceKey = "source"

// parser implements registry.FormatParser and registry.Sniffer for Ogg Vorbis files.
type parser struct{}

func init() {
	registry.Register(types.FormatOgg, &parser{})
}

func (p *parser) Sniff(head []byte) bool {
	return bytes.HasPrefix(head, []byte(capturePattern))
}

// Parse reads exactly two pages: the first must carry the identification
// packet and the second the comment packet. Headers split across more
// pages are not supported.
func (p *parser) Parse(r io.ReaderAt, size int64, path string, logger *slog.Logger) (*types.File, error) {
	logger = registry.Logger(logger)
	sr := binary.NewSafeReader(r, size, path)
	c := binary.NewCursor(sr, binary.LittleEndian)

	file := &types.File{
		Path:   path,
		Format: types.FormatOgg,
		Size:   size,
	}
	v := &types.Vorbis{}

	var err error
	if v.Pages[0], err = readPageHeader(c); err != nil {
		return nil, fmt.Errorf("first page: %w", err)
	}
	if err := parseIdentification(c, v); err != nil {
		return nil, err
	}
	if v.Pages[1], err = readPageHeader(c); err != nil {
		return nil, fmt.Errorf("second page: %w", err)
	}
	if err := parseComment(c, v); err != nil {
		return nil, err
	}

	if text, ok := vorbis.Prefixed(v.Comments, sourceKey); ok {
		sum, err := strconv.ParseInt(text, 10, 64)
		if err != nil {
			file.Warn("comment", fmt.Sprintf("ignoring unparsable source checksum %q", text), 0, err)
			logger.Warn("ignoring unparsable source checksum", "path", path, "value", text, "error", err)
		} else {
			v.SourceChecksum = sum
		}
	}

	file.Vorbis = v
	file.Audio = types.AudioInfo{
		Codec:      "Vorbis",
		Container:  "Ogg",
		SampleRate: int(v.SampleRate),
		Channels:   int(v.Channels),
		Bitrate:    int(int32(v.BitrateNominal)),
	}
	if file.Audio.Bitrate < 0 {
		file.Audio.Bitrate = 0
	}

	// Duration comes from the last page's granule position; it is best effort.
	if granule, ok := lastGranulePosition(sr); ok && v.SampleRate > 0 && granule != ^uint64(0) {
		file.Audio.Duration = time.Duration(float64(granule) / float64(v.SampleRate) * float64(time.Second))
	} else {
		logger.Debug("no duration for Ogg stream", "path", path)
	}

	return file, nil
}
