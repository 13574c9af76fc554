// Package caff decodes Apple Core Audio Format headers and chunks.
package caff

import (
	"bytes"
	"io"
	"log/slog"
	"time"

	binutil "github.com/simonhull/audiohdr/internal/binary"
	"github.com/simonhull/audiohdr/internal/chunk"
	"github.com/simonhull/audiohdr/internal/registry"
	"github.com/simonhull/audiohdr/internal/types"
)

// Magic is the file type tag every CAFF file starts with.
const Magic = "caff"

// parser implements registry.FormatParser and registry.Sniffer.
type parser struct{}

func init() {
	registry.Register(types.FormatCAFF, &parser{})
}

func (p *parser) Sniff(head []byte) bool {
	return bytes.HasPrefix(head, []byte(Magic))
}

// Parse reads the preamble and walks chunks to the end of the file.
func (p *parser) Parse(r io.ReaderAt, size int64, path string, logger *slog.Logger) (*types.File, error) {
	logger = registry.Logger(logger)
	sr := binutil.NewSafeReader(r, size, path)
	c := binutil.NewCursor(sr, binutil.BigEndian)

	file := &types.File{
		Path:   path,
		Format: types.FormatCAFF,
		Size:   size,
	}
	desc := &types.CAFF{Info: make(map[string]string)}

	var err error
	if desc.FileType, err = c.String(4, "file type"); err != nil {
		return nil, err
	}
	if desc.FileVersion, err = binutil.Next[uint16](c, "file version"); err != nil {
		return nil, err
	}
	if desc.FileFlags, err = binutil.Next[uint16](c, "file flags"); err != nil {
		return nil, err
	}

	w := &chunk.Walker{
		Layout: chunk.CAFF,
		Until:  -1,
		Unknown: func(rec chunk.Record, uerr *types.UnknownTagError) {
			file.Warn("chunk", uerr.Error(), rec.Offset, uerr)
			logger.Warn("skipping unknown chunk",
				"path", path, "tag", rec.Tag, "offset", rec.Offset, "size", rec.Size)
		},
	}
	err = w.Walk(c, func(rec chunk.Record, body *binutil.Cursor) error {
		return decodeChunk(desc, rec, body)
	})
	if err != nil {
		return nil, err
	}

	file.CAFF = desc
	file.Audio = audioInfo(desc)
	return file, nil
}

// decodeChunk fills desc from one chunk body.
func decodeChunk(desc *types.CAFF, rec chunk.Record, body *binutil.Cursor) error {
	var err error
	switch rec.Tag {
	case "desc":
		return decodeDesc(desc, body)
	case "info":
		return decodeInfo(desc.Info, body)
	case "pakt":
		desc.PacketTable, err = body.Bytes(rec.Size, "packet table")
	case "hash":
		desc.SourceHash, err = body.Bytes(rec.Size, "source hash")
	case "data":
		desc.Data, err = body.Bytes(rec.Size, "audio data")
	case "free":
		desc.FreeSize = uint64(rec.Size)
	default:
		return chunk.ErrUnknownTag
	}
	return err
}

// decodeDesc reads the audio description: a float64 sample rate, the
// format id and five u32 fields.
func decodeDesc(desc *types.CAFF, c *binutil.Cursor) error {
	var err error
	if desc.SampleRate, err = c.F64("sample rate"); err != nil {
		return err
	}
	if desc.FormatID, err = c.String(4, "format id"); err != nil {
		return err
	}
	for _, field := range []struct {
		dst  *uint32
		name string
	}{
		{&desc.FormatFlags, "format flags"},
		{&desc.BytesPerPacket, "bytes per packet"},
		{&desc.FramesPerPacket, "frames per packet"},
		{&desc.Channels, "channels per frame"},
		{&desc.BitsPerChannel, "bits per channel"},
	} {
		if *field.dst, err = binutil.Next[uint32](c, field.name); err != nil {
			return err
		}
	}
	return nil
}

// decodeInfo reads a u32 entry count followed by NUL-terminated key/value
// pairs. A repeated key overwrites the earlier value.
func decodeInfo(info map[string]string, c *binutil.Cursor) error {
	count, err := binutil.Next[uint32](c, "info entry count")
	if err != nil {
		return err
	}
	for range count {
		key, err := c.CString("info key")
		if err != nil {
			return err
		}
		value, err := c.CString("info value")
		if err != nil {
			return err
		}
		info[key] = value
	}
	return nil
}

// codecNames maps CAFF format ids to display names.
var codecNames = map[string]string{
	"lpcm": "PCM",
	"alac": "ALAC",
	"aac ": "AAC",
	"flac": "FLAC",
	"opus": "Opus",
	"ulaw": "µ-law",
	"alaw": "A-law",
	"ima4": "IMA ADPCM",
	".mp3": "MP3",
}

var losslessIDs = map[string]bool{
	"lpcm": true,
	"alac": true,
	"flac": true,
}

func audioInfo(desc *types.CAFF) types.AudioInfo {
	info := types.AudioInfo{
		Codec:      codecNames[desc.FormatID],
		Container:  "CAFF",
		SampleRate: int(desc.SampleRate),
		BitDepth:   int(desc.BitsPerChannel),
		Channels:   int(desc.Channels),
		Lossless:   losslessIDs[desc.FormatID],
	}
	if info.Codec == "" {
		info.Codec = desc.FormatID
	}

	// Constant-bitrate streams only; variable packet sizes need the packet table.
	if desc.BytesPerPacket > 0 && desc.FramesPerPacket > 0 && desc.SampleRate > 0 {
		packets := len(desc.Data) / int(desc.BytesPerPacket)
		frames := float64(packets) * float64(desc.FramesPerPacket)
		seconds := frames / desc.SampleRate
		info.Duration = time.Duration(seconds * float64(time.Second))
		if seconds > 0 {
			info.Bitrate = int(float64(len(desc.Data)) * 8 / seconds)
		}
	}
	return info
}
