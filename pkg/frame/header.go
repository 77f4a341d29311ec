package frame

import (
	"encoding/binary"

	"github.com/openlighting/rdm-responder/pkg/uid"
)

// Header is a decoded view of the fixed 24-byte RDM message header.
// It never owns the parameter data; callers slice that out of the
// frame buffer themselves, and the slice is only valid while the
// buffer is.
type Header struct {
	// MessageLength is the slot count from the start code through the
	// parameter data, i.e. the offset of the checksum.
	MessageLength uint8

	DestUID uid.UID
	SrcUID  uid.UID

	// TransactionNumber is echoed back in responses.
	TransactionNumber uint8

	// PortID is the controller port for requests. In responses the
	// same slot carries the ResponseType.
	PortID uint8

	MessageCount uint8
	SubDevice    uint16
	CommandClass CommandClass
	ParamID      ParameterID

	// ParamDataLength is the length the header claims for the
	// parameter data that follows it.
	ParamDataLength uint8
}

// DecodeHeader parses the fixed header at the start of data. The
// checksum is not examined here; transports verify it before decoding.
func DecodeHeader(data []byte) (Header, error) {
	var h Header

	if len(data) < HeaderSize {
		return h, ErrFrameTooShort
	}
	if data[offStartCode] != StartCode {
		return h, ErrStartCode
	}
	if data[offSubStartCode] != SubStartCode {
		return h, ErrSubStartCode
	}

	h.MessageLength = data[offMessageLength]
	h.DestUID, _ = uid.Decode(data[offDestUID:])
	h.SrcUID, _ = uid.Decode(data[offSrcUID:])
	h.TransactionNumber = data[offTransaction]
	h.PortID = data[offPortID]
	h.MessageCount = data[offMessageCount]
	h.SubDevice = binary.BigEndian.Uint16(data[offSubDevice:])
	h.CommandClass = CommandClass(data[offCommandClass])
	h.ParamID = ParameterID(binary.BigEndian.Uint16(data[offParamID:]))
	h.ParamDataLength = data[offParamDataLength]

	return h, nil
}
