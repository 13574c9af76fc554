package mp3

import (
	"github.com/simonhull/audiohdr/internal/types"
)

// syncMask covers the 11 frame sync bits at the top of a header word.
const syncMask = 0xFFE00000

// Version ids as they appear in header bits 20-19.
const (
	versionID25       = 0
	versionIDReserved = 1
	versionID2        = 2
	versionID1        = 3
)

// layerIDReserved is the forbidden layer id; 1, 2 and 3 mean Layer III, II and I.
const layerIDReserved = 0

var versionNames = [4]string{"2.5", "reserved", "2", "1"}

var channelModes = [4]string{"Stereo", "Joint Stereo", "Dual Channel", "Single Channel"}

// kbps builds a bit-rate row: slot 0 is free format, slots 1-14 are the
// given values, slot 15 is forbidden.
func kbps(values ...int) [16]types.Rate {
	var row [16]types.Rate
	row[0] = types.Rate{Kind: types.RateFree}
	for i, v := range values {
		row[i+1] = types.KnownRate(v)
	}
	row[15] = types.Rate{Kind: types.RateInvalid}
	return row
}

// hz builds a sample-rate row whose last slot is reserved.
func hz(a, b, c int) [4]types.Rate {
	return [4]types.Rate{types.KnownRate(a), types.KnownRate(b), types.KnownRate(c), {Kind: types.RateReserved}}
}

// bitRates is indexed by [version id][layer id][bit-rate index]. MPEG 2.5
// shares the MPEG 2 rows.
var bitRates = func() [4][4][16]types.Rate {
	var t [4][4][16]types.Rate
	t[versionID1][3] = kbps(32, 64, 96, 128, 160, 192, 224, 256, 288, 320, 352, 384, 416, 448)
	t[versionID1][2] = kbps(32, 48, 56, 64, 80, 96, 112, 128, 160, 192, 224, 256, 320, 384)
	t[versionID1][1] = kbps(32, 40, 48, 56, 64, 80, 96, 112, 128, 160, 192, 224, 256, 320)

	t[versionID2][3] = kbps(32, 48, 56, 64, 80, 96, 112, 128, 144, 160, 176, 192, 224, 256)
	t[versionID2][2] = kbps(8, 16, 24, 32, 40, 48, 56, 64, 80, 96, 112, 128, 144, 160)
	t[versionID2][1] = t[versionID2][2]

	t[versionID25] = t[versionID2]
	return t
}()

// sampleRates is indexed by [version id][sample-rate index].
var sampleRates = [4][4]types.Rate{
	versionID25: hz(11025, 12000, 8000),
	versionID2:  hz(22050, 24000, 16000),
	versionID1:  hz(44100, 48000, 32000),
}

// decodeFrameHeader splits a frame header word into its fields and resolves
// them against the lookup tables. The caller has already checked sync.
func decodeFrameHeader(m *types.MP3, word uint32) error {
	m.FrameHeader = word
	m.VersionID = uint8(word>>19) & 0x03
	m.LayerID = uint8(word>>17) & 0x03
	m.ProtectionBit = uint8(word>>16) & 0x01
	m.BitrateIndex = uint8(word>>12) & 0x0F
	m.SampleRateIndex = uint8(word>>10) & 0x03
	m.PaddingBit = uint8(word>>9) & 0x01
	m.PrivateBit = uint8(word>>8) & 0x01
	m.ChannelModeID = uint8(word>>6) & 0x03

	if m.VersionID == versionIDReserved {
		return &types.InvalidTableIndexError{Table: "MPEG version", Index: int(m.VersionID)}
	}
	if m.LayerID == layerIDReserved {
		return &types.InvalidTableIndexError{Table: "layer", Index: int(m.LayerID)}
	}

	m.Version = versionNames[m.VersionID]
	m.Layer = 4 - int(m.LayerID)
	m.BitRate = bitRates[m.VersionID][m.LayerID][m.BitrateIndex]
	m.SampleRate = sampleRates[m.VersionID][m.SampleRateIndex]
	m.ChannelMode = channelModes[m.ChannelModeID]
	return nil
}

// samplesPerFrame returns the PCM samples one frame decodes to.
func samplesPerFrame(m *types.MP3) int {
	switch {
	case m.Layer == 1:
		return 384
	case m.Layer == 3 && m.VersionID != versionID1:
		return 576
	default:
		return 1152
	}
}

// sideInfoSize returns the Layer III side information length that sits
// between the frame header (and CRC) and the first data byte.
func sideInfoSize(m *types.MP3) int {
	mono := m.ChannelModeID == 3
	switch {
	case m.VersionID == versionID1 && mono:
		return 17
	case m.VersionID == versionID1:
		return 32
	case mono:
		return 9
	default:
		return 17
	}
}
