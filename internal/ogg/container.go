// Package ogg decodes the two header pages of an Ogg/Vorbis stream.
package ogg

import (
	"bytes"
	"fmt"

	"github.com/simonhull/audiohdr/internal/binary"
	"github.com/simonhull/audiohdr/internal/types"
)

// capturePattern starts every Ogg page.
const capturePattern = "OggS"

// lastPageWindow is how far back from the end of the file the final page
// is searched for.
const lastPageWindow = 65536

// readPageHeader reads an Ogg page header and its segment table. The
// cursor is left on the first body byte; the segment table is kept but not
// used to delimit packets.
func readPageHeader(c *binary.Cursor) (types.OggPageHeader, error) {
	var h types.OggPageHeader
	start := c.Offset()

	var err error
	if h.CapturePattern, err = c.String(4, "capture pattern"); err != nil {
		return h, err
	}
	if h.CapturePattern != capturePattern {
		return h, &types.MalformedContainerError{
			Path:   c.Path(),
			What:   "capture pattern",
			Offset: start,
			Size:   c.End(),
			Reason: "missing OggS capture pattern",
		}
	}
	if h.Version, err = binary.Next[uint8](c, "stream structure version"); err != nil {
		return h, err
	}
	if h.Version != 0 {
		return h, &types.UnsupportedFeatureError{
			Path:    c.Path(),
			Feature: fmt.Sprintf("Ogg stream structure version %d", h.Version),
			Offset:  start + 4,
		}
	}
	if h.HeaderType, err = binary.Next[uint8](c, "header type"); err != nil {
		return h, err
	}
	if h.GranulePosition, err = binary.Next[uint64](c, "granule position"); err != nil {
		return h, err
	}
	if h.SerialNumber, err = binary.Next[uint32](c, "serial number"); err != nil {
		return h, err
	}
	if h.SequenceNumber, err = binary.Next[uint32](c, "sequence number"); err != nil {
		return h, err
	}
	if h.Checksum, err = binary.Next[uint32](c, "page checksum"); err != nil {
		return h, err
	}
	count, err := binary.Next[uint8](c, "segment count")
	if err != nil {
		return h, err
	}
	h.Segments, err = c.Bytes(int64(count), "segment table")
	return h, err
}

// lastGranulePosition searches backwards from the end of the file for the
// final page and returns its granule position.
//
// This is used to calculate the duration of the audio stream.
func lastGranulePosition(sr *binary.SafeReader) (uint64, bool) {
	size := sr.Size()
	searchStart := max(size-lastPageWindow, 0)

	buf := make([]byte, size-searchStart)
	if err := sr.ReadAt(buf, searchStart, "last page search"); err != nil {
		return 0, false
	}

	i := bytes.LastIndex(buf, []byte(capturePattern))
	if i < 0 {
		return 0, false
	}

	// Granule position sits 6 bytes after the capture pattern.
	granule, err := binary.ReadLE[uint64](sr, searchStart+int64(i)+6, "granule position")
	if err != nil {
		return 0, false
	}
	return granule, true
}
