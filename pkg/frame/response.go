package frame

import (
	"encoding/binary"
	"fmt"

	"github.com/openlighting/rdm-responder/pkg/uid"
)

// Response describes a reply frame to be serialized. A fresh Response
// is built for every request; instances are never reused.
type Response struct {
	DestUID           uid.UID
	SrcUID            uid.UID
	TransactionNumber uint8
	ResponseType      ResponseType
	MessageCount      uint8
	SubDevice         uint16
	CommandClass      CommandClass
	ParamID           ParameterID
	ParamData         []byte
}

// Size returns the encoded frame size in bytes.
func (r *Response) Size() int {
	return HeaderSize + len(r.ParamData) + ChecksumSize
}

// Encode serializes the response: fixed header, parameter data, then
// the big-endian additive checksum. The message length field is
// computed, never supplied.
//
// Parameter data larger than the protocol maximum is unreachable for
// any frame this responder builds, so it is treated as a programming
// error rather than a recoverable one.
func (r *Response) Encode() []byte {
	if len(r.ParamData) > MaxParamDataSize {
		panic(fmt.Sprintf("frame: %d byte parameter data exceeds maximum %d",
			len(r.ParamData), MaxParamDataSize))
	}

	buf := make([]byte, r.Size())
	buf[offStartCode] = StartCode
	buf[offSubStartCode] = SubStartCode
	buf[offMessageLength] = uint8(HeaderSize + len(r.ParamData))
	r.DestUID.EncodeTo(buf[offDestUID:])
	r.SrcUID.EncodeTo(buf[offSrcUID:])
	buf[offTransaction] = r.TransactionNumber
	buf[offPortID] = uint8(r.ResponseType)
	buf[offMessageCount] = r.MessageCount
	binary.BigEndian.PutUint16(buf[offSubDevice:], r.SubDevice)
	buf[offCommandClass] = uint8(r.CommandClass)
	binary.BigEndian.PutUint16(buf[offParamID:], uint16(r.ParamID))
	buf[offParamDataLength] = uint8(len(r.ParamData))
	copy(buf[HeaderSize:], r.ParamData)

	checksumAt := len(buf) - ChecksumSize
	binary.BigEndian.PutUint16(buf[checksumAt:], Checksum(buf[:checksumAt]))
	return buf
}

// AckResponse builds an ACK reply to the request described by h, sent
// from src. The transaction number and parameter ID are mirrored; the
// sub-device field is always the root device in replies from this
// responder.
func AckResponse(h *Header, src uid.UID, paramData []byte) *Response {
	return &Response{
		DestUID:           h.SrcUID,
		SrcUID:            src,
		TransactionNumber: h.TransactionNumber,
		ResponseType:      ResponseAck,
		SubDevice:         SubDeviceRoot,
		CommandClass:      h.CommandClass.Response(),
		ParamID:           h.ParamID,
		ParamData:         paramData,
	}
}

// NackResponse builds a NACK reply carrying the given reason code as
// its 2-byte parameter data.
func NackResponse(h *Header, src uid.UID, reason NackReason) *Response {
	resp := AckResponse(h, src, []byte{byte(reason >> 8), byte(reason)})
	resp.ResponseType = ResponseNack
	return resp
}

// AckTimerResponse builds an ACK_TIMER reply asking the controller to
// retry after the given delay, expressed in 100ms units.
func AckTimerResponse(h *Header, src uid.UID, delay uint16) *Response {
	resp := AckResponse(h, src, []byte{byte(delay >> 8), byte(delay)})
	resp.ResponseType = ResponseAckTimer
	return resp
}
