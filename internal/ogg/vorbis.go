package ogg

import (
	"fmt"

	"github.com/simonhull/audiohdr/internal/binary"
	"github.com/simonhull/audiohdr/internal/types"
)

// Vorbis header packet types.
const (
	packetIdentification = 0x01
	packetComment        = 0x03
)

const vorbisMagic = "vorbis"

// readPacketPreamble checks the packet type byte and the "vorbis" magic.
func readPacketPreamble(c *binary.Cursor, want uint8, name string) error {
	start := c.Offset()
	typ, err := binary.Next[uint8](c, name+" packet type")
	if err != nil {
		return err
	}
	magic, err := c.String(len(vorbisMagic), name+" magic")
	if err != nil {
		return err
	}
	if typ != want || magic != vorbisMagic {
		return &types.MalformedContainerError{
			Path:   c.Path(),
			What:   name + " packet",
			Offset: start,
			Size:   c.End(),
			Reason: fmt.Sprintf("expected Vorbis %s packet (type %d), got type %d magic %q", name, want, typ, magic),
		}
	}
	return nil
}

// parseIdentification reads the identification packet: version, channels,
// sample rate, three bitrates, packed blocksizes and the framing byte.
func parseIdentification(c *binary.Cursor, v *types.Vorbis) error {
	if err := readPacketPreamble(c, packetIdentification, "identification"); err != nil {
		return err
	}
	var err error
	if v.Version, err = binary.Next[uint32](c, "vorbis version"); err != nil {
		return err
	}
	if v.Channels, err = binary.Next[uint8](c, "channel count"); err != nil {
		return err
	}
	if v.SampleRate, err = binary.Next[uint32](c, "sample rate"); err != nil {
		return err
	}
	if v.BitrateMaximum, err = binary.Next[uint32](c, "maximum bitrate"); err != nil {
		return err
	}
	if v.BitrateNominal, err = binary.Next[uint32](c, "nominal bitrate"); err != nil {
		return err
	}
	if v.BitrateMinimum, err = binary.Next[uint32](c, "minimum bitrate"); err != nil {
		return err
	}
	if v.Blocksize, err = binary.Next[uint8](c, "blocksizes"); err != nil {
		return err
	}
	_, err = binary.Next[uint8](c, "framing flag")
	return err
}

// parseComment reads the comment packet: the vendor string, then a count
// of length-prefixed comments appended in stream order, then the framing
// byte.
func parseComment(c *binary.Cursor, v *types.Vorbis) error {
	if err := readPacketPreamble(c, packetComment, "comment"); err != nil {
		return err
	}
	vendor, err := lengthPrefixed(c, "vendor string")
	if err != nil {
		return err
	}
	v.Vendor = vendor

	count, err := binary.Next[uint32](c, "comment count")
	if err != nil {
		return err
	}
	for i := range count {
		comment, err := lengthPrefixed(c, fmt.Sprintf("comment %d", i))
		if err != nil {
			return err
		}
		v.Comments = append(v.Comments, comment)
	}
	_, err = binary.Next[uint8](c, "framing bit")
	return err
}

// lengthPrefixed reads a u32 length followed by that many bytes.
func lengthPrefixed(c *binary.Cursor, what string) (string, error) {
	n, err := binary.Next[uint32](c, what+" length")
	if err != nil {
		return "", err
	}
	b, err := c.Bytes(int64(n), what)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
