package frame

import "encoding/binary"

// Checksum returns the additive checksum of data: the sum of all
// bytes, modulo 2^16.
func Checksum(data []byte) uint16 {
	var sum uint16
	for _, b := range data {
		sum += uint16(b)
	}
	return sum
}

// VerifyChecksum reports whether data holds a frame whose trailing
// two bytes are the big-endian additive checksum of everything before
// them. Any slice shorter than the minimum frame size fails the check
// before indexing.
func VerifyChecksum(data []byte) bool {
	if len(data) < MinFrameSize {
		return false
	}
	trailer := binary.BigEndian.Uint16(data[len(data)-ChecksumSize:])
	return Checksum(data[:len(data)-ChecksumSize]) == trailer
}
