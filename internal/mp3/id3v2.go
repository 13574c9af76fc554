package mp3

import (
	"bytes"
	"fmt"
	"log/slog"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"

	binutil "github.com/simonhull/audiohdr/internal/binary"
	"github.com/simonhull/audiohdr/internal/chunk"
	"github.com/simonhull/audiohdr/internal/types"
)

// ID3v2 header flags.
const (
	flagUnsynchronisation = 0x80
	flagExtendedHeader    = 0x40
	flagFooter            = 0x10
)

// id3HeaderSize is the length of the tag header and of the optional footer.
const id3HeaderSize = 10

// Text encodings of ID3v2 text fields.
const (
	encodingLatin1  = 0
	encodingUTF16   = 1 // UCS-2 with byte order mark
	encodingUTF16BE = 2
	encodingUTF8    = 3
)

// readID3Header reads the 10-byte tag header at the cursor and returns the
// header and the offset where audio starts.
func readID3Header(c *binutil.Cursor) (*types.ID3Header, int64, error) {
	start := c.Offset()
	if _, err := c.String(3, "ID3 identifier"); err != nil {
		return nil, 0, err
	}
	h := &types.ID3Header{}
	var err error
	if h.Version, err = binutil.Next[uint16](c, "ID3 version"); err != nil {
		return nil, 0, err
	}
	if h.Flags, err = binutil.Next[uint8](c, "ID3 flags"); err != nil {
		return nil, 0, err
	}
	raw, err := c.Bytes(4, "ID3 size")
	if err != nil {
		return nil, 0, err
	}
	if h.Size, err = chunk.Synchsafe(raw); err != nil {
		return nil, 0, &types.MalformedContainerError{
			Path:   c.Path(),
			What:   "ID3 size",
			Offset: start + 6,
			Size:   c.End(),
			Reason: err.Error(),
		}
	}

	if !frameLayoutKnown(h) {
		return h, start + id3HeaderSize + int64(h.Size), nil
	}
	if h.Flags&flagExtendedHeader != 0 {
		return nil, 0, &types.UnsupportedFeatureError{
			Path:    c.Path(),
			Feature: "ID3v2 extended header",
			Offset:  start + 5,
		}
	}

	end := start + id3HeaderSize + int64(h.Size)
	if h.MajorVersion() == 4 && h.Flags&flagFooter != 0 {
		end += id3HeaderSize
	}
	return h, end, nil
}

// frameLayoutKnown reports whether the tag's frames use the v2.3/v2.4
// header layout. Flags of other majors mean something else.
func frameLayoutKnown(h *types.ID3Header) bool {
	major := h.MajorVersion()
	return major == 3 || major == 4
}

// parseID3 walks the frames of the tag whose header the cursor sits on and
// stores the last COMM frame in file.MP3. It returns the offset just past
// the tag. Tags of other major versions are skipped whole with a warning.
func parseID3(c *binutil.Cursor, file *types.File, logger *slog.Logger) (int64, error) {
	start := c.Offset()
	h, audioStart, err := readID3Header(c)
	if err != nil {
		return 0, err
	}
	m := file.MP3
	m.ID3 = h

	if !frameLayoutKnown(h) {
		feature := fmt.Sprintf("ID3v2.%d tag", h.MajorVersion())
		logger.Warn("skipping ID3 tag frames", "path", c.Path(), "version", feature, "size", h.Size)
		file.Warn("metadata", "frames of "+feature+" skipped", start+3, &types.UnsupportedFeatureError{
			Path:    c.Path(),
			Feature: feature,
			Offset:  start + 3,
		})
		return audioStart, nil
	}

	tagEnd := start + id3HeaderSize + int64(h.Size)
	layout := chunk.ID3v2
	if h.MajorVersion() == 4 {
		layout = chunk.ID3v24
	}
	if h.Flags&flagUnsynchronisation != 0 {
		logger.Debug("ID3 tag is unsynchronised; frame bodies are read as stored", "path", c.Path())
	}

	w := &chunk.Walker{Layout: layout, Until: tagEnd, Bound: tagEnd}
	err = w.Walk(c, func(rec chunk.Record, body *binutil.Cursor) error {
		if rec.Tag != "COMM" {
			logger.Debug("skipping ID3 frame", "path", c.Path(), "id", rec.Tag, "size", rec.Size)
			return nil
		}
		return parseComment(body, m)
	})
	if err != nil {
		return 0, err
	}
	return audioStart, nil
}

// parseComment decodes a COMM frame body: encoding byte, 3-byte language,
// terminated description, then the comment text filling the rest of the frame.
func parseComment(c *binutil.Cursor, m *types.MP3) error {
	start := c.Offset()
	enc, err := binutil.Next[uint8](c, "COMM text encoding")
	if err != nil {
		return err
	}
	switch {
	case enc == encodingUTF16BE || enc == encodingUTF8:
		return &types.UnsupportedEncodingError{Path: c.Path(), Offset: start, Encoding: enc}
	case enc > encodingUTF8:
		return &types.InvalidEncodingError{Path: c.Path(), Offset: start, Encoding: enc}
	}

	lang, err := c.String(3, "COMM language")
	if err != nil {
		return err
	}

	var desc, text []byte
	if enc == encodingLatin1 {
		s, err := c.CString("COMM description")
		if err != nil {
			return err
		}
		desc = []byte(s)
		if text, err = c.Bytes(c.Remaining(), "COMM text"); err != nil {
			return err
		}
	} else {
		if desc, err = c.CString16("COMM description"); err != nil {
			return err
		}
		// Whole code units only; a stray odd byte is ignored.
		if text, err = c.Bytes(c.Remaining()&^1, "COMM text"); err != nil {
			return err
		}
	}

	description, err := decodeText(desc, enc)
	if err != nil {
		return fmt.Errorf("COMM description: %w", err)
	}
	comment, err := decodeText(text, enc)
	if err != nil {
		return fmt.Errorf("COMM text: %w", err)
	}

	m.CommentLanguage = lang
	m.CommentDescription = description
	m.Comment = comment
	return nil
}

// decodeText converts Latin-1 or BOM-prefixed UTF-16 bytes to UTF-8 and
// drops trailing NUL padding.
func decodeText(b []byte, enc uint8) (string, error) {
	var s string
	var err error
	if enc == encodingLatin1 {
		b = bytes.TrimRight(b, "\x00")
		s, err = charmap.ISO8859_1.NewDecoder().String(string(b))
	} else {
		b = trimNUL16(b)
		s, err = unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewDecoder().String(string(b))
	}
	return s, err
}

// trimNUL16 drops trailing 0x0000 code units.
func trimNUL16(b []byte) []byte {
	for len(b) >= 2 && b[len(b)-2] == 0 && b[len(b)-1] == 0 {
		b = b[:len(b)-2]
	}
	return b
}
