package frame

import "errors"

// Frame decoding errors.
var (
	ErrFrameTooShort  = errors.New("frame: data too short")
	ErrStartCode      = errors.New("frame: bad start code")
	ErrSubStartCode   = errors.New("frame: bad sub-start code")
	ErrChecksum       = errors.New("frame: checksum mismatch")
	ErrLengthMismatch = errors.New("frame: message length does not match frame")
)
