// Package uid implements the 48-bit device identifier used by RDM
// (ANSI E1.20). A UID is a 16-bit ESTA manufacturer ID followed by a
// 32-bit device ID, written as "7a70:01020304".
package uid

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Size is the packed size of a UID in bytes.
const Size = 6

// AllDevices is the broadcast UID addressing every device on the bus.
const AllDevices UID = 0xFFFFFFFFFFFF

// allDevicesID is the device-ID field of every broadcast form.
const allDevicesID uint32 = 0xFFFFFFFF

// ErrUIDTooShort is returned when decoding from fewer than Size bytes.
var ErrUIDTooShort = errors.New("uid: data too short")

// UID is a 48-bit RDM unique identifier. The upper 16 bits hold the
// manufacturer ID, the lower 32 bits the device ID. UIDs are compared
// and ordered by their raw value.
type UID uint64

// New builds a UID from a manufacturer ID and a device ID.
func New(manufacturer uint16, device uint32) UID {
	return UID(uint64(manufacturer)<<32 | uint64(device))
}

// Vendorcast returns the broadcast UID addressing every device of one
// manufacturer.
func Vendorcast(manufacturer uint16) UID {
	return New(manufacturer, allDevicesID)
}

// ManufacturerID returns the 16-bit manufacturer ID field.
func (u UID) ManufacturerID() uint16 {
	return uint16(u >> 32)
}

// DeviceID returns the 32-bit device ID field.
func (u UID) DeviceID() uint32 {
	return uint32(u)
}

// IsBroadcast reports whether the device ID field is all-ones, which
// covers both the all-devices UID and every vendorcast form.
func (u UID) IsBroadcast() bool {
	return u.DeviceID() == allDevicesID
}

// Encode returns the 6-byte big-endian wire form.
func (u UID) Encode() []byte {
	buf := make([]byte, Size)
	u.EncodeTo(buf)
	return buf
}

// EncodeTo writes the 6-byte wire form into buf, which must be at
// least Size bytes long. Returns the number of bytes written.
func (u UID) EncodeTo(buf []byte) int {
	buf[0] = byte(u >> 40)
	buf[1] = byte(u >> 32)
	buf[2] = byte(u >> 24)
	buf[3] = byte(u >> 16)
	buf[4] = byte(u >> 8)
	buf[5] = byte(u)
	return Size
}

// Decode reads a UID from the first Size bytes of data.
func Decode(data []byte) (UID, error) {
	if len(data) < Size {
		return 0, ErrUIDTooShort
	}
	return UID(uint64(data[0])<<40 | uint64(data[1])<<32 |
		uint64(data[2])<<24 | uint64(data[3])<<16 |
		uint64(data[4])<<8 | uint64(data[5])), nil
}

// Parse reads the "mmmm:dddddddd" hex form produced by String.
func Parse(s string) (UID, error) {
	manu, dev, ok := strings.Cut(s, ":")
	if !ok {
		return 0, fmt.Errorf("uid: %q is not of the form mmmm:dddddddd", s)
	}
	m, err := strconv.ParseUint(manu, 16, 16)
	if err != nil {
		return 0, fmt.Errorf("uid: bad manufacturer id in %q: %w", s, err)
	}
	d, err := strconv.ParseUint(dev, 16, 32)
	if err != nil {
		return 0, fmt.Errorf("uid: bad device id in %q: %w", s, err)
	}
	return New(uint16(m), uint32(d)), nil
}

// String returns the conventional "mmmm:dddddddd" representation.
func (u UID) String() string {
	return fmt.Sprintf("%04x:%08x", u.ManufacturerID(), u.DeviceID())
}
