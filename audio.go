package audiohdr

import (
	"github.com/simonhull/audiohdr/internal/types"
)

// AudioInfo is the format-independent summary of a decoded file.
type AudioInfo = types.AudioInfo

// Per-format descriptors, one of which is set on every decoded File.
type (
	CAFF          = types.CAFF
	Wave          = types.Wave
	Vorbis        = types.Vorbis
	OggPageHeader = types.OggPageHeader
	MP3           = types.MP3
	ID3Header     = types.ID3Header
	Rate          = types.Rate
)
