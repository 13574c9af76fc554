package main

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"

	"github.com/fxamacker/cbor/v2"
	"gopkg.in/yaml.v3"

	"github.com/simonhull/audiohdr"
	"github.com/simonhull/audiohdr/internal/vorbis"
)

// report is the serializable view of one decoded file.
type report struct {
	Path      string   `json:"path" yaml:"path" cbor:"path"`
	Format    string   `json:"format" yaml:"format" cbor:"format"`
	Codec     string   `json:"codec" yaml:"codec" cbor:"codec"`
	Duration  string   `json:"duration,omitempty" yaml:"duration,omitempty" cbor:"duration,omitempty"`
	Seconds   float64  `json:"seconds" yaml:"seconds" cbor:"seconds"`
	Rate      int      `json:"sample_rate" yaml:"sample_rate" cbor:"sample_rate"`
	Channels  int      `json:"channels" yaml:"channels" cbor:"channels"`
	BitDepth  int      `json:"bit_depth,omitempty" yaml:"bit_depth,omitempty" cbor:"bit_depth,omitempty"`
	Bitrate   int      `json:"bitrate,omitempty" yaml:"bitrate,omitempty" cbor:"bitrate,omitempty"`
	Lossless  bool     `json:"lossless" yaml:"lossless" cbor:"lossless"`
	HighRes   bool     `json:"high_res,omitempty" yaml:"high_res,omitempty" cbor:"high_res,omitempty"`
	Digest    string   `json:"digest,omitempty" yaml:"digest,omitempty" cbor:"digest,omitempty"`
	Algorithm string   `json:"digest_algorithm,omitempty" yaml:"digest_algorithm,omitempty" cbor:"digest_algorithm,omitempty"`
	Warnings  []string `json:"warnings,omitempty" yaml:"warnings,omitempty" cbor:"warnings,omitempty"`

	CAFF   *caffDetails   `json:"caff,omitempty" yaml:"caff,omitempty" cbor:"caff,omitempty"`
	WAV    *waveDetails   `json:"wav,omitempty" yaml:"wav,omitempty" cbor:"wav,omitempty"`
	Vorbis *vorbisDetails `json:"vorbis,omitempty" yaml:"vorbis,omitempty" cbor:"vorbis,omitempty"`
	MP3    *mp3Details    `json:"mp3,omitempty" yaml:"mp3,omitempty" cbor:"mp3,omitempty"`
}

type caffDetails struct {
	FormatID        string            `json:"format_id" yaml:"format_id" cbor:"format_id"`
	FileVersion     uint16            `json:"file_version" yaml:"file_version" cbor:"file_version"`
	FormatFlags     uint32            `json:"format_flags" yaml:"format_flags" cbor:"format_flags"`
	BytesPerPacket  uint32            `json:"bytes_per_packet" yaml:"bytes_per_packet" cbor:"bytes_per_packet"`
	FramesPerPacket uint32            `json:"frames_per_packet" yaml:"frames_per_packet" cbor:"frames_per_packet"`
	Channels        uint32            `json:"channels_per_frame" yaml:"channels_per_frame" cbor:"channels_per_frame"`
	BitsPerChannel  uint32            `json:"bits_per_channel" yaml:"bits_per_channel" cbor:"bits_per_channel"`
	SourceHash      string            `json:"source_hash,omitempty" yaml:"source_hash,omitempty" cbor:"source_hash,omitempty"`
	DataBytes       int               `json:"data_bytes" yaml:"data_bytes" cbor:"data_bytes"`
	PacketTable     int               `json:"packet_table_bytes,omitempty" yaml:"packet_table_bytes,omitempty" cbor:"packet_table_bytes,omitempty"`
	FreeSize        uint64            `json:"free_bytes,omitempty" yaml:"free_bytes,omitempty" cbor:"free_bytes,omitempty"`
	Info            map[string]string `json:"info,omitempty" yaml:"info,omitempty" cbor:"info,omitempty"`
}

type waveDetails struct {
	AudioFormat  uint16  `json:"audio_format" yaml:"audio_format" cbor:"audio_format"`
	ByteRate     uint32  `json:"byte_rate" yaml:"byte_rate" cbor:"byte_rate"`
	BlockAlign   uint16  `json:"block_align" yaml:"block_align" cbor:"block_align"`
	Extensible   bool    `json:"extensible" yaml:"extensible" cbor:"extensible"`
	ChannelMask  uint32  `json:"channel_mask,omitempty" yaml:"channel_mask,omitempty" cbor:"channel_mask,omitempty"`
	DataBytes    int     `json:"data_bytes" yaml:"data_bytes" cbor:"data_bytes"`
	LengthMillis float64 `json:"length_ms" yaml:"length_ms" cbor:"length_ms"`
}

type vorbisDetails struct {
	Vendor         string              `json:"vendor" yaml:"vendor" cbor:"vendor"`
	Comments       []string            `json:"comments,omitempty" yaml:"comments,omitempty" cbor:"comments,omitempty"`
	Fields         map[string][]string `json:"fields,omitempty" yaml:"fields,omitempty" cbor:"fields,omitempty"`
	SourceChecksum int64               `json:"source_checksum" yaml:"source_checksum" cbor:"source_checksum"`
	Serial         uint32              `json:"serial" yaml:"serial" cbor:"serial"`
}

type mp3Details struct {
	Version     string             `json:"version" yaml:"version" cbor:"version"`
	Layer       int                `json:"layer" yaml:"layer" cbor:"layer"`
	BitRate     audiohdr.Rate      `json:"bitrate_kbps" yaml:"bitrate_kbps" cbor:"bitrate_kbps"`
	SampleRate  audiohdr.Rate      `json:"sample_rate_hz" yaml:"sample_rate_hz" cbor:"sample_rate_hz"`
	ChannelMode string             `json:"channel_mode" yaml:"channel_mode" cbor:"channel_mode"`
	FrameOffset int64              `json:"frame_offset" yaml:"frame_offset" cbor:"frame_offset"`
	ID3Version  string             `json:"id3_version,omitempty" yaml:"id3_version,omitempty" cbor:"id3_version,omitempty"`
	Comment     *mp3CommentDetails `json:"comment,omitempty" yaml:"comment,omitempty" cbor:"comment,omitempty"`
}

type mp3CommentDetails struct {
	Language    string `json:"language" yaml:"language" cbor:"language"`
	Description string `json:"description,omitempty" yaml:"description,omitempty" cbor:"description,omitempty"`
	Text        string `json:"text" yaml:"text" cbor:"text"`
}

func newReport(f *audiohdr.File) report {
	r := report{
		Path:     f.Path,
		Format:   f.Format.String(),
		Codec:    f.Audio.Codec,
		Seconds:  f.Audio.Duration.Seconds(),
		Rate:     f.Audio.SampleRate,
		Channels: f.Audio.Channels,
		BitDepth: f.Audio.BitDepth,
		Bitrate:  f.Audio.Bitrate,
		Lossless: f.Audio.Lossless,
		HighRes:  f.Audio.IsHighRes(),
	}
	if f.Audio.Duration > 0 {
		r.Duration = f.Audio.Duration.String()
	}
	if digest := f.PayloadDigestHex(); digest != "" {
		r.Digest = digest
		r.Algorithm = f.DigestAlgorithm().String()
	}
	for _, w := range f.Warnings {
		r.Warnings = append(r.Warnings, w.String())
	}

	switch {
	case f.CAFF != nil:
		c := f.CAFF
		r.CAFF = &caffDetails{
			FormatID:        c.FormatID,
			FileVersion:     c.FileVersion,
			FormatFlags:     c.FormatFlags,
			BytesPerPacket:  c.BytesPerPacket,
			FramesPerPacket: c.FramesPerPacket,
			Channels:        c.Channels,
			BitsPerChannel:  c.BitsPerChannel,
			SourceHash:      hex.EncodeToString(c.SourceHash),
			DataBytes:       len(c.Data),
			PacketTable:     len(c.PacketTable),
			FreeSize:        c.FreeSize,
		}
		if len(c.Info) > 0 {
			r.CAFF.Info = c.Info
		}
	case f.WAV != nil:
		w := f.WAV
		r.WAV = &waveDetails{
			AudioFormat:  w.AudioFormat,
			ByteRate:     w.ByteRate,
			BlockAlign:   w.BlockAlign,
			Extensible:   w.Extensible(),
			ChannelMask:  w.ChannelMask,
			DataBytes:    len(w.Data),
			LengthMillis: w.LengthMillis,
		}
	case f.Vorbis != nil:
		v := f.Vorbis
		r.Vorbis = &vorbisDetails{
			Vendor:         v.Vendor,
			Comments:       v.Comments,
			Fields:         vorbis.Fields(v.Comments),
			SourceChecksum: v.SourceChecksum,
			Serial:         v.Pages[0].SerialNumber,
		}
	case f.MP3 != nil:
		m := f.MP3
		r.MP3 = &mp3Details{
			Version:     m.Version,
			Layer:       m.Layer,
			BitRate:     m.BitRate,
			SampleRate:  m.SampleRate,
			ChannelMode: m.ChannelMode,
			FrameOffset: m.FrameOffset,
		}
		if m.ID3 != nil {
			r.MP3.ID3Version = fmt.Sprintf("2.%d", m.ID3.MajorVersion())
			if m.CommentLanguage != "" || m.Comment != "" {
				r.MP3.Comment = &mp3CommentDetails{
					Language:    m.CommentLanguage,
					Description: m.CommentDescription,
					Text:        m.Comment,
				}
			}
		}
	}
	return r
}

var cborMode = func() cbor.EncMode {
	opts := cbor.CoreDetEncOptions()
	opts.TextMarshaler = cbor.TextMarshalerTextString
	mode, err := opts.EncMode()
	if err != nil {
		panic("audiohdr: CBOR encoder initialization failed: " + err.Error())
	}
	return mode
}()

// writeReports renders reports to w in the named output format.
func writeReports(w io.Writer, output string, reports []report) error {
	switch output {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(reports)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(reports); err != nil {
			return err
		}
		return enc.Close()
	case "cbor":
		data, err := cborMode.Marshal(reports)
		if err != nil {
			return err
		}
		_, err = w.Write(data)
		return err
	default:
		for _, r := range reports {
			if err := writeText(w, r); err != nil {
				return err
			}
		}
		return nil
	}
}

func writeText(w io.Writer, r report) error {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %s", r.Path, r.Format)
	if r.Codec != "" {
		fmt.Fprintf(&b, " (%s)", r.Codec)
	}
	b.WriteString("\n")

	line := func(key string, value any) {
		fmt.Fprintf(&b, "  %-14s %v\n", key+":", value)
	}
	if r.Duration != "" {
		line("duration", r.Duration)
	}
	line("sample rate", r.Rate)
	line("channels", r.Channels)
	if r.BitDepth > 0 {
		line("bit depth", r.BitDepth)
	}
	if r.Bitrate > 0 {
		line("bitrate", r.Bitrate)
	}
	if r.HighRes {
		line("high res", true)
	}

	switch {
	case r.CAFF != nil:
		line("format id", r.CAFF.FormatID)
		line("format flags", fmt.Sprintf("0x%08x", r.CAFF.FormatFlags))
		line("data bytes", r.CAFF.DataBytes)
		if r.CAFF.SourceHash != "" {
			line("source hash", r.CAFF.SourceHash)
		}
		for _, k := range slices.Sorted(maps.Keys(r.CAFF.Info)) {
			line("info "+k, r.CAFF.Info[k])
		}
	case r.WAV != nil:
		line("data bytes", r.WAV.DataBytes)
		line("length ms", r.WAV.LengthMillis)
	case r.Vorbis != nil:
		line("vendor", r.Vorbis.Vendor)
		line("source", r.Vorbis.SourceChecksum)
		for _, c := range r.Vorbis.Comments {
			line("comment", c)
		}
	case r.MP3 != nil:
		line("mpeg", fmt.Sprintf("%s layer %d", r.MP3.Version, r.MP3.Layer))
		line("channel mode", r.MP3.ChannelMode)
		line("frame offset", r.MP3.FrameOffset)
		if r.MP3.Comment != nil {
			line("comment", fmt.Sprintf("[%s] %s", r.MP3.Comment.Language, r.MP3.Comment.Text))
		}
	}

	if r.Digest != "" {
		line(r.Algorithm, r.Digest)
	}
	for _, warn := range r.Warnings {
		line("warning", warn)
	}

	_, err := io.WriteString(w, b.String())
	return err
}
