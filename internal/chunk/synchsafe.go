package chunk

import "fmt"

// Synchsafe decodes a 4-byte synchsafe integer: seven value bits per byte,
// most significant byte first. A byte with its high bit set is rejected.
func Synchsafe(b []byte) (uint32, error) {
	if len(b) != 4 {
		return 0, fmt.Errorf("synchsafe integer needs 4 bytes, got %d", len(b))
	}
	var v uint32
	for i, x := range b {
		if x&0x80 != 0 {
			return 0, fmt.Errorf("synchsafe byte %d has high bit set (0x%02X)", i, x)
		}
		v = v<<7 | uint32(x)
	}
	return v, nil
}
