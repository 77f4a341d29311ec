// Package frame implements the RDM (ANSI E1.20) frame format: the
// 24-byte message header, the additive checksum trailer and the
// encoding of response frames. All multi-byte fields are big-endian
// on the wire.
package frame

// Frame format constants (E1.20 Section 6).
const (
	// StartCode is the RDM alternate start code (SC_RDM).
	StartCode uint8 = 0xCC

	// SubStartCode is the message sub-start code (SC_SUB_MESSAGE).
	SubStartCode uint8 = 0x01

	// HeaderSize is the fixed header length in bytes, from the start
	// code through the parameter data length field.
	HeaderSize = 24

	// ChecksumSize is the size of the checksum trailer in bytes.
	ChecksumSize = 2

	// MinFrameSize is the smallest legal frame: a header with no
	// parameter data, plus the checksum.
	MinFrameSize = HeaderSize + ChecksumSize

	// MaxParamDataSize is the protocol maximum for parameter data.
	MaxParamDataSize = 231

	// MaxFrameSize is the largest legal frame.
	MaxFrameSize = HeaderSize + MaxParamDataSize + ChecksumSize
)

// Header field offsets within a frame.
const (
	offStartCode       = 0
	offSubStartCode    = 1
	offMessageLength   = 2
	offDestUID         = 3
	offSrcUID          = 9
	offTransaction     = 15
	offPortID          = 16
	offMessageCount    = 17
	offSubDevice       = 18
	offCommandClass    = 20
	offParamID         = 21
	offParamDataLength = 23
)

// Sub-device addressing.
const (
	// SubDeviceRoot addresses the root device.
	SubDeviceRoot uint16 = 0x0000

	// SubDeviceAll addresses every sub-device.
	SubDeviceAll uint16 = 0xFFFF
)

// CommandClass identifies the kind of RDM command.
type CommandClass uint8

// Command classes (E1.20 Table A-1).
const (
	DiscoverCommand         CommandClass = 0x10
	DiscoverCommandResponse CommandClass = 0x11
	GetCommand              CommandClass = 0x20
	GetCommandResponse      CommandClass = 0x21
	SetCommand              CommandClass = 0x30
	SetCommandResponse      CommandClass = 0x31
)

// Response returns the response command class paired with a request
// command class.
func (c CommandClass) Response() CommandClass {
	return c + 1
}

// String returns the name of the command class.
func (c CommandClass) String() string {
	switch c {
	case DiscoverCommand:
		return "DISCOVER_COMMAND"
	case DiscoverCommandResponse:
		return "DISCOVER_COMMAND_RESPONSE"
	case GetCommand:
		return "GET_COMMAND"
	case GetCommandResponse:
		return "GET_COMMAND_RESPONSE"
	case SetCommand:
		return "SET_COMMAND"
	case SetCommandResponse:
		return "SET_COMMAND_RESPONSE"
	default:
		return "Unknown"
	}
}

// ResponseType is the response type field of a reply frame. It shares
// a byte with the request's port ID.
type ResponseType uint8

// Response types (E1.20 Table A-2).
const (
	ResponseAck         ResponseType = 0x00
	ResponseAckTimer    ResponseType = 0x01
	ResponseNack        ResponseType = 0x02
	ResponseAckOverflow ResponseType = 0x03
)

// String returns the name of the response type.
func (r ResponseType) String() string {
	switch r {
	case ResponseAck:
		return "ACK"
	case ResponseAckTimer:
		return "ACK_TIMER"
	case ResponseNack:
		return "NACK_REASON"
	case ResponseAckOverflow:
		return "ACK_OVERFLOW"
	default:
		return "Unknown"
	}
}

// NackReason is the 16-bit reason code carried by a NACK reply.
type NackReason uint16

// NACK reason codes (E1.20 Table A-17).
const (
	NackUnknownPID              NackReason = 0x0000
	NackFormatError             NackReason = 0x0001
	NackHardwareFault           NackReason = 0x0002
	NackProxyReject             NackReason = 0x0003
	NackWriteProtect            NackReason = 0x0004
	NackUnsupportedCommandClass NackReason = 0x0005
	NackDataOutOfRange          NackReason = 0x0006
	NackBufferFull              NackReason = 0x0007
	NackPacketSizeUnsupported   NackReason = 0x0008
	NackSubDeviceOutOfRange     NackReason = 0x0009
	NackProxyBufferFull         NackReason = 0x000A
)

// String returns the name of the NACK reason.
func (n NackReason) String() string {
	switch n {
	case NackUnknownPID:
		return "NR_UNKNOWN_PID"
	case NackFormatError:
		return "NR_FORMAT_ERROR"
	case NackHardwareFault:
		return "NR_HARDWARE_FAULT"
	case NackProxyReject:
		return "NR_PROXY_REJECT"
	case NackWriteProtect:
		return "NR_WRITE_PROTECT"
	case NackUnsupportedCommandClass:
		return "NR_UNSUPPORTED_COMMAND_CLASS"
	case NackDataOutOfRange:
		return "NR_DATA_OUT_OF_RANGE"
	case NackBufferFull:
		return "NR_BUFFER_FULL"
	case NackPacketSizeUnsupported:
		return "NR_PACKET_SIZE_UNSUPPORTED"
	case NackSubDeviceOutOfRange:
		return "NR_SUB_DEVICE_OUT_OF_RANGE"
	case NackProxyBufferFull:
		return "NR_PROXY_BUFFER_FULL"
	default:
		return "Unknown"
	}
}

// ParameterID identifies an RDM parameter.
type ParameterID uint16

// Parameter IDs implemented by this responder (E1.20 Table A-3).
const (
	PIDDiscUniqueBranch       ParameterID = 0x0001
	PIDDiscMute               ParameterID = 0x0002
	PIDDiscUnMute             ParameterID = 0x0003
	PIDSupportedParameters    ParameterID = 0x0050
	PIDDeviceInfo             ParameterID = 0x0060
	PIDDeviceModelDescription ParameterID = 0x0080
	PIDManufacturerLabel      ParameterID = 0x0081
	PIDSoftwareVersionLabel   ParameterID = 0x00C0
	PIDIdentifyDevice         ParameterID = 0x1000
)
