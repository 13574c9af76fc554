package wav

import (
	"fmt"
	"io"
	"math"

	binutil "github.com/simonhull/audiohdr/internal/binary"
	"github.com/simonhull/audiohdr/internal/types"
)

// Write implements registry.FormatWriter.
func (p *parser) Write(w io.Writer, file *types.File) error {
	if file.WAV == nil {
		return &types.UnsupportedWriteError{Format: file.Format, Reason: "file has no WAVE descriptor"}
	}
	return Encode(w, file.WAV)
}

// Encode writes desc as a canonical WAVE file: the RIFF header, a 16-byte
// PCM fmt chunk and the data chunk, in that order. Extensible fields and
// any other chunks are not written.
func Encode(w io.Writer, desc *types.Wave) error {
	// 'WAVE' + fmt header and body + data header and body
	total := uint64(4) + 8 + pcmFmtSize + 8 + uint64(len(desc.Data))
	if total > math.MaxUint32 {
		return fmt.Errorf("encode wave: %d bytes of sample data exceed the RIFF size limit", len(desc.Data))
	}

	sw := binutil.NewSafeWriter(w)
	steps := []func() error{
		func() error { return sw.WriteTag("RIFF") },
		func() error { return binutil.WriteLE(sw, uint32(total)) },
		func() error { return sw.WriteTag("WAVE") },

		func() error { return sw.WriteTag("fmt ") },
		func() error { return binutil.WriteLE(sw, uint32(pcmFmtSize)) },
		func() error { return binutil.WriteLE(sw, desc.AudioFormat) },
		func() error { return binutil.WriteLE(sw, desc.Channels) },
		func() error { return binutil.WriteLE(sw, desc.SampleRate) },
		func() error { return binutil.WriteLE(sw, desc.ByteRate) },
		func() error { return binutil.WriteLE(sw, desc.BlockAlign) },
		func() error { return binutil.WriteLE(sw, desc.BitsPerSample) },

		func() error { return sw.WriteTag("data") },
		func() error { return binutil.WriteLE(sw, uint32(len(desc.Data))) },
		func() error { return sw.WriteBytes(desc.Data) },
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return fmt.Errorf("encode wave at offset %d: %w", sw.Offset(), err)
		}
	}
	return nil
}
