package responder

import (
	"encoding/binary"

	"github.com/openlighting/rdm-responder/pkg/frame"
)

// Stock device identity.
const (
	rdmProtocolVersion uint16 = 0x0100
	deviceModelID      uint16 = 0x0100
	productCategory    uint16 = 0x7101 // test equipment
	softwareVersionID  uint32 = 0

	defaultModelDescription     = "Ja Rule Responder"
	defaultManufacturerLabel    = "Open Lighting Project"
	defaultSoftwareVersionLabel = "Alpha"
)

// supportedParameters is the list returned for SUPPORTED_PARAMETERS.
// Parameters every responder must implement are excluded per E1.20.
var supportedParameters = []frame.ParameterID{
	frame.PIDDeviceModelDescription,
	frame.PIDManufacturerLabel,
}

// deviceInfoSize is the fixed DEVICE_INFO payload length.
const deviceInfoSize = 19

// handlerFunc executes one parameter's semantics. It may mutate the
// responder state and drive the indicator pins, and returns the reply
// to send, or nil for silence. Reply suppression for broadcast
// destinations happens later, in respond.
type handlerFunc func(r *Responder, h *frame.Header, paramData []byte) *frame.Response

// paramHandler pairs the GET and SET behavior of one parameter. A nil
// entry draws an unsupported-command-class NACK.
type paramHandler struct {
	get handlerFunc
	set handlerFunc
}

// paramHandlers is the dispatch table for GET and SET requests.
// Discovery parameters are routed separately; see handleDiscovery.
var paramHandlers = map[frame.ParameterID]paramHandler{
	frame.PIDSupportedParameters:    {get: (*Responder).getSupportedParameters},
	frame.PIDDeviceInfo:             {get: (*Responder).getDeviceInfo},
	frame.PIDDeviceModelDescription: {get: (*Responder).getDeviceModelDescription},
	frame.PIDManufacturerLabel:      {get: (*Responder).getManufacturerLabel},
	frame.PIDSoftwareVersionLabel:   {get: (*Responder).getSoftwareVersionLabel},
	frame.PIDIdentifyDevice: {
		get: (*Responder).getIdentifyDevice,
		set: (*Responder).setIdentifyDevice,
	},
}

func (r *Responder) getSupportedParameters(h *frame.Header, paramData []byte) *frame.Response {
	if len(paramData) != 0 {
		return frame.NackResponse(h, r.settings.UID, frame.NackFormatError)
	}
	payload := make([]byte, 0, 2*len(supportedParameters))
	for _, pid := range supportedParameters {
		payload = append(payload, byte(pid>>8), byte(pid))
	}
	return frame.AckResponse(h, r.settings.UID, payload)
}

func (r *Responder) getDeviceInfo(h *frame.Header, paramData []byte) *frame.Response {
	if len(paramData) != 0 {
		return frame.NackResponse(h, r.settings.UID, frame.NackFormatError)
	}

	payload := make([]byte, deviceInfoSize)
	binary.BigEndian.PutUint16(payload[0:], rdmProtocolVersion)
	binary.BigEndian.PutUint16(payload[2:], deviceModelID)
	binary.BigEndian.PutUint16(payload[4:], productCategory)
	binary.BigEndian.PutUint32(payload[6:], softwareVersionID)
	// No DMX footprint: zero footprint and personalities, start
	// address 0xffff (unpatched), no sub-devices, no sensors.
	binary.BigEndian.PutUint16(payload[10:], 0)
	payload[12] = 0
	payload[13] = 0
	binary.BigEndian.PutUint16(payload[14:], 0xFFFF)
	binary.BigEndian.PutUint16(payload[16:], 0)
	payload[18] = 0

	return frame.AckResponse(h, r.settings.UID, payload)
}

func (r *Responder) getDeviceModelDescription(h *frame.Header, paramData []byte) *frame.Response {
	return r.labelResponse(h, paramData, r.settings.ModelDescription)
}

func (r *Responder) getManufacturerLabel(h *frame.Header, paramData []byte) *frame.Response {
	return r.labelResponse(h, paramData, r.settings.ManufacturerLabel)
}

func (r *Responder) getSoftwareVersionLabel(h *frame.Header, paramData []byte) *frame.Response {
	return r.labelResponse(h, paramData, r.settings.SoftwareVersionLabel)
}

func (r *Responder) labelResponse(h *frame.Header, paramData []byte, label string) *frame.Response {
	if len(paramData) != 0 {
		return frame.NackResponse(h, r.settings.UID, frame.NackFormatError)
	}
	return frame.AckResponse(h, r.settings.UID, []byte(label))
}

func (r *Responder) getIdentifyDevice(h *frame.Header, paramData []byte) *frame.Response {
	if len(paramData) != 0 {
		return frame.NackResponse(h, r.settings.UID, frame.NackFormatError)
	}
	state := byte(0)
	if r.identifyOn {
		state = 1
	}
	return frame.AckResponse(h, r.settings.UID, []byte{state})
}

func (r *Responder) setIdentifyDevice(h *frame.Header, paramData []byte) *frame.Response {
	if len(paramData) != 1 {
		return frame.NackResponse(h, r.settings.UID, frame.NackFormatError)
	}
	if paramData[0] > 1 {
		return frame.NackResponse(h, r.settings.UID, frame.NackDataOutOfRange)
	}
	r.setIdentify(paramData[0] == 1)
	return frame.AckResponse(h, r.settings.UID, nil)
}

// setIdentify updates the identify flag and drives the indicator.
// The pin is driven on every accepted SET, including ones that do not
// change the flag; controllers use repeated sets to re-flash fixtures.
func (r *Responder) setIdentify(on bool) {
	r.identifyOn = on
	if on {
		r.ports.Set(r.settings.IdentifyPin)
	} else {
		r.ports.Clear(r.settings.IdentifyPin)
	}
	r.log.Debugf("identify %v", on)
}
