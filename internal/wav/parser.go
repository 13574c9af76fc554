// Package wav decodes and encodes RIFF/WAVE files.
package wav

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"

	binutil "github.com/simonhull/audiohdr/internal/binary"
	"github.com/simonhull/audiohdr/internal/chunk"
	"github.com/simonhull/audiohdr/internal/registry"
	"github.com/simonhull/audiohdr/internal/types"
)

// pcmFmtSize is the size of the core fmt chunk every WAVE file carries.
const pcmFmtSize = 16

// Format tags from the fmt chunk.
const (
	formatPCM        = 0x0001
	formatIEEEFloat  = 0x0003
	formatALaw       = 0x0006
	formatMuLaw      = 0x0007
	formatExtensible = 0xFFFE
)

// parser implements registry.FormatParser, registry.Sniffer and
// registry.FormatWriter.
type parser struct{}

func init() {
	registry.Register(types.FormatWAV, &parser{})
	registry.RegisterWriter(types.FormatWAV, &parser{})
}

func (p *parser) Sniff(head []byte) bool {
	return len(head) >= 12 && bytes.Equal(head[0:4], []byte("RIFF")) && bytes.Equal(head[8:12], []byte("WAVE"))
}

// Parse reads the RIFF preamble and walks sub-chunks up to the declared
// RIFF size. The preamble id and form type are not validated.
func (p *parser) Parse(r io.ReaderAt, size int64, path string, logger *slog.Logger) (*types.File, error) {
	logger = registry.Logger(logger)
	sr := binutil.NewSafeReader(r, size, path)
	c := binutil.NewCursor(sr, binutil.LittleEndian)

	file := &types.File{
		Path:   path,
		Format: types.FormatWAV,
		Size:   size,
	}
	desc := &types.Wave{}

	if _, err := c.String(4, "RIFF id"); err != nil {
		return nil, err
	}
	declared, err := binutil.Next[uint32](c, "RIFF size")
	if err != nil {
		return nil, err
	}
	if _, err := c.String(4, "RIFF form type"); err != nil {
		return nil, err
	}

	w := &chunk.Walker{
		Layout: chunk.RIFF,
		// Fewer than 4 bytes left before the declared end cannot hold a
		// sub-chunk id.
		Until: int64(declared) + 8 - 3,
		Unknown: func(rec chunk.Record, uerr *types.UnknownTagError) {
			file.Warn("chunk", uerr.Error(), rec.Offset, uerr)
			logger.Debug("skipping sub-chunk",
				"path", path, "id", rec.Tag, "offset", rec.Offset, "size", rec.Size)
		},
	}
	err = w.Walk(c, func(rec chunk.Record, body *binutil.Cursor) error {
		switch rec.Tag {
		case "fmt ":
			return decodeFmt(desc, rec, body)
		case "data":
			data, err := body.Bytes(rec.Size, "sample data")
			desc.Data = data
			return err
		default:
			return chunk.ErrUnknownTag
		}
	})
	if err != nil {
		return nil, err
	}

	// Chunk order is free, so duration waits until fmt and data are both known.
	if desc.Data != nil {
		if desc.ByteRate == 0 {
			return nil, &types.MalformedContainerError{
				Path:   path,
				What:   "byte rate",
				Offset: 12,
				Size:   size,
				Reason: "data chunk present but byte rate is zero",
			}
		}
		desc.LengthMillis = float64(len(desc.Data)) * 1000 / float64(desc.ByteRate)
	}

	file.WAV = desc
	file.Audio = audioInfo(desc)
	return file, nil
}

// decodeFmt reads the 16-byte PCM core, then the extension size when the
// chunk is longer, then the extensible fields when it is exactly 40 bytes.
func decodeFmt(desc *types.Wave, rec chunk.Record, c *binutil.Cursor) error {
	var err error
	if desc.AudioFormat, err = binutil.Next[uint16](c, "audio format"); err != nil {
		return err
	}
	if desc.Channels, err = binutil.Next[uint16](c, "channel count"); err != nil {
		return err
	}
	if desc.SampleRate, err = binutil.Next[uint32](c, "sample rate"); err != nil {
		return err
	}
	if desc.ByteRate, err = binutil.Next[uint32](c, "byte rate"); err != nil {
		return err
	}
	if desc.BlockAlign, err = binutil.Next[uint16](c, "block align"); err != nil {
		return err
	}
	if desc.BitsPerSample, err = binutil.Next[uint16](c, "bits per sample"); err != nil {
		return err
	}
	if rec.Size <= pcmFmtSize {
		return nil
	}

	if desc.ExtensionSize, err = binutil.Next[uint16](c, "extension size"); err != nil {
		return err
	}
	if rec.Size != types.WaveFormatExtensible {
		return nil
	}
	if desc.ValidBitsPerSample, err = binutil.Next[uint16](c, "valid bits per sample"); err != nil {
		return err
	}
	if desc.ChannelMask, err = binutil.Next[uint32](c, "channel mask"); err != nil {
		return err
	}
	desc.SubFormat, err = c.Bytes(16, "sub-format GUID")
	return err
}

// formatTag returns the effective format tag, looking through the
// extensible wrapper to the first two bytes of the sub-format GUID.
func formatTag(desc *types.Wave) uint16 {
	if desc.AudioFormat == formatExtensible && len(desc.SubFormat) >= 2 {
		return uint16(desc.SubFormat[0]) | uint16(desc.SubFormat[1])<<8
	}
	return desc.AudioFormat
}

func audioInfo(desc *types.Wave) types.AudioInfo {
	info := types.AudioInfo{
		Container:  "WAV",
		SampleRate: int(desc.SampleRate),
		BitDepth:   int(desc.BitsPerSample),
		Channels:   int(desc.Channels),
		Bitrate:    int(desc.ByteRate) * 8,
		Duration:   desc.Duration(),
	}
	switch tag := formatTag(desc); tag {
	case formatPCM:
		info.Codec, info.Lossless = "PCM", true
	case formatIEEEFloat:
		info.Codec, info.Lossless = "IEEE Float", true
	case formatALaw:
		info.Codec = "A-law"
	case formatMuLaw:
		info.Codec = "µ-law"
	default:
		info.Codec = fmt.Sprintf("0x%04X", tag)
	}
	return info
}
