package audiohdr

import (
	"github.com/simonhull/audiohdr/internal/types"
)

// MalformedContainerError reports a size or offset that is inconsistent
// with the input, including any truncated read.
type MalformedContainerError = types.MalformedContainerError

// UnknownTagError describes a skipped record. It is carried in Warning.Err.
type UnknownTagError = types.UnknownTagError

// UnsupportedFeatureError reports a valid structure the decoders do not handle.
type UnsupportedFeatureError = types.UnsupportedFeatureError

// UnsupportedEncodingError reports an ID3v2 text encoding the COMM decoder does not handle.
type UnsupportedEncodingError = types.UnsupportedEncodingError

// InvalidEncodingError reports an ID3v2 text encoding byte outside 0..3.
type InvalidEncodingError = types.InvalidEncodingError

// FrameSyncError reports a missing MPEG frame sync at the audio start.
type FrameSyncError = types.FrameSyncError

// InvalidTableIndexError reports a header field that indexes a reserved table slot.
type InvalidTableIndexError = types.InvalidTableIndexError

// UnsupportedFormatError is returned when no decoder handles the input.
type UnsupportedFormatError = types.UnsupportedFormatError

// UnsupportedWriteError is returned by SaveAs for formats without a writer.
type UnsupportedWriteError = types.UnsupportedWriteError

// Warning is a non-fatal issue found while decoding.
type Warning = types.Warning

// IsMalformed reports whether err is, or wraps, a MalformedContainerError.
func IsMalformed(err error) bool {
	return types.IsMalformed(err)
}
