package frame

import (
	"bytes"
	"errors"
	"testing"

	"github.com/openlighting/rdm-responder/pkg/uid"
)

func TestDecodeHeader(t *testing.T) {
	h, err := DecodeHeader(sampleFrame)
	if err != nil {
		t.Fatalf("DecodeHeader() error: %v", err)
	}

	if h.MessageLength != 0x18 {
		t.Errorf("MessageLength = %d, want 24", h.MessageLength)
	}
	if want := uid.New(0x7a70, 0); h.DestUID != want {
		t.Errorf("DestUID = %v, want %v", h.DestUID, want)
	}
	if want := uid.New(0x7a70, 0x12345678); h.SrcUID != want {
		t.Errorf("SrcUID = %v, want %v", h.SrcUID, want)
	}
	if h.TransactionNumber != 0 {
		t.Errorf("TransactionNumber = %d, want 0", h.TransactionNumber)
	}
	if h.SubDevice != SubDeviceRoot {
		t.Errorf("SubDevice = %d, want 0", h.SubDevice)
	}
	if h.CommandClass != DiscoverCommand {
		t.Errorf("CommandClass = %v, want DISCOVER_COMMAND", h.CommandClass)
	}
	if h.ParamID != PIDDiscMute {
		t.Errorf("ParamID = %04x, want DISC_MUTE", uint16(h.ParamID))
	}
	if h.ParamDataLength != 0 {
		t.Errorf("ParamDataLength = %d, want 0", h.ParamDataLength)
	}
}

func TestDecodeHeaderErrors(t *testing.T) {
	badStart := make([]byte, len(sampleFrame))
	copy(badStart, sampleFrame)
	badStart[0] = 0x00

	badSubStart := make([]byte, len(sampleFrame))
	copy(badSubStart, sampleFrame)
	badSubStart[1] = 0x02

	tests := []struct {
		name string
		data []byte
		want error
	}{
		{"empty", nil, ErrFrameTooShort},
		{"truncated header", sampleFrame[:HeaderSize-1], ErrFrameTooShort},
		{"bad start code", badStart, ErrStartCode},
		{"bad sub-start code", badSubStart, ErrSubStartCode},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := DecodeHeader(tc.data); !errors.Is(err, tc.want) {
				t.Errorf("DecodeHeader() error = %v, want %v", err, tc.want)
			}
		})
	}
}

func TestResponseEncode(t *testing.T) {
	// A DISC_MUTE acknowledgement, checked byte for byte.
	want := []byte{
		0xcc, 0x01, 26,
		0x7a, 0x70, 0x10, 0x00, 0x00, 0x00, // dst UID
		0x7a, 0x70, 0x01, 0x02, 0x03, 0x04, // src UID
		0x00, 0x00, 0x00, 0x00, 0x00,
		0x11, 0x00, 0x02, 0x02,
		0x00, 0x00,
		0x02, 0xea,
	}

	resp := &Response{
		DestUID:      uid.New(0x7a70, 0x10000000),
		SrcUID:       uid.New(0x7a70, 0x01020304),
		ResponseType: ResponseAck,
		CommandClass: DiscoverCommandResponse,
		ParamID:      PIDDiscMute,
		ParamData:    []byte{0x00, 0x00},
	}

	got := resp.Encode()
	if !bytes.Equal(got, want) {
		t.Errorf("Encode() mismatch:\n  got:  %x\n  want: %x", got, want)
	}
	if resp.Size() != len(want) {
		t.Errorf("Size() = %d, want %d", resp.Size(), len(want))
	}
	if !VerifyChecksum(got) {
		t.Error("encoded frame fails VerifyChecksum")
	}
}

func TestAckResponseMirrorsRequest(t *testing.T) {
	h := Header{
		DestUID:           uid.New(0x7a70, 0x01020304),
		SrcUID:            uid.New(0x7a70, 0x10000000),
		TransactionNumber: 0x42,
		SubDevice:         3,
		CommandClass:      GetCommand,
		ParamID:           PIDDeviceInfo,
	}
	src := uid.New(0x7a70, 0x01020304)

	resp := AckResponse(&h, src, []byte{0x01})
	if resp.DestUID != h.SrcUID {
		t.Errorf("DestUID = %v, want request source %v", resp.DestUID, h.SrcUID)
	}
	if resp.SrcUID != src {
		t.Errorf("SrcUID = %v, want %v", resp.SrcUID, src)
	}
	if resp.TransactionNumber != 0x42 {
		t.Errorf("TransactionNumber = %d, want 0x42", resp.TransactionNumber)
	}
	if resp.CommandClass != GetCommandResponse {
		t.Errorf("CommandClass = %v, want GET_COMMAND_RESPONSE", resp.CommandClass)
	}
	// Replies always carry the root sub-device.
	if resp.SubDevice != SubDeviceRoot {
		t.Errorf("SubDevice = %d, want 0", resp.SubDevice)
	}
}

func TestNackResponse(t *testing.T) {
	h := Header{
		SrcUID:       uid.New(0x7a70, 0x10000000),
		CommandClass: GetCommand,
		ParamID:      ParameterID(0x1fff),
	}

	resp := NackResponse(&h, uid.New(0x7a70, 0x01020304), NackSubDeviceOutOfRange)
	if resp.ResponseType != ResponseNack {
		t.Errorf("ResponseType = %v, want NACK_REASON", resp.ResponseType)
	}
	if !bytes.Equal(resp.ParamData, []byte{0x00, 0x09}) {
		t.Errorf("ParamData = %x, want 0009", resp.ParamData)
	}
}

func TestAckTimerResponse(t *testing.T) {
	h := Header{
		SrcUID:       uid.New(0x7a70, 0x10000000),
		CommandClass: SetCommand,
		ParamID:      PIDIdentifyDevice,
	}

	resp := AckTimerResponse(&h, uid.New(0x7a70, 0x01020304), 0x0102)
	if resp.ResponseType != ResponseAckTimer {
		t.Errorf("ResponseType = %v, want ACK_TIMER", resp.ResponseType)
	}
	if !bytes.Equal(resp.ParamData, []byte{0x01, 0x02}) {
		t.Errorf("ParamData = %x, want 0102", resp.ParamData)
	}
}

func TestEncodeOversizedParamDataPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("Encode() did not panic on oversized parameter data")
		}
	}()

	resp := &Response{ParamData: make([]byte, MaxParamDataSize+1)}
	resp.Encode()
}
