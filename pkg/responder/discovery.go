package responder

import (
	"net"

	"github.com/openlighting/rdm-responder/pkg/frame"
	"github.com/openlighting/rdm-responder/pkg/uid"
)

// dubResponseSize is the fixed size of a DISC_UNIQUE_BRANCH reply:
// 7 preamble bytes, the separator, then 8 source bytes expanded to
// pairs.
const dubResponseSize = 24

// handleDiscovery routes the DISCOVER command class. Discovery never
// NACKs: an unsolicited reply without a break would collide with
// other responders in the discovery slot, so anything unexpected is
// dropped.
func (r *Responder) handleDiscovery(h *frame.Header, paramData []byte) {
	switch h.ParamID {
	case frame.PIDDiscMute:
		r.handleMute(h, paramData, true)
	case frame.PIDDiscUnMute:
		r.handleMute(h, paramData, false)
	case frame.PIDDiscUniqueBranch:
		r.handleUniqueBranch(h, paramData)
	default:
		r.log.Debugf("ignoring discovery request for pid 0x%04x", uint16(h.ParamID))
	}
}

// handleMute applies a Mute or UnMute. The flag and the indicator pin
// are driven on every delivery, redundant or broadcast ones included;
// only unicast requests are acknowledged.
func (r *Responder) handleMute(h *frame.Header, paramData []byte, mute bool) {
	if len(paramData) != 0 {
		return
	}

	r.muted = mute
	// The mute indicator is active low.
	if mute {
		r.ports.Clear(r.settings.MutePin)
	} else {
		r.ports.Set(r.settings.MutePin)
	}
	r.log.Debugf("muted %v", mute)

	// Control field: no managed proxy, no sub-devices, no boot-loader,
	// single endpoint.
	r.respond(h, frame.AckResponse(h, r.settings.UID, []byte{0x00, 0x00}))
}

// handleUniqueBranch answers a DISC_UNIQUE_BRANCH probe when this
// responder is unmuted and its UID lies within the probed range.
// The reply is sent without a break and as a single segment. DUB
// never mutates state, muted or not.
func (r *Responder) handleUniqueBranch(h *frame.Header, paramData []byte) {
	if r.muted || len(paramData) != 2*uid.Size {
		return
	}

	lower, _ := uid.Decode(paramData[:uid.Size])
	upper, _ := uid.Decode(paramData[uid.Size:])
	own := r.settings.UID
	if own < lower || own > upper {
		return
	}

	r.log.Tracef("answering discovery probe [%s, %s]", lower, upper)
	r.sendFrame(false, net.Buffers{encodeUniqueBranchResponse(own)})
}

// encodeUniqueBranchResponse produces the 24-byte discovery reply:
// seven 0xFE preamble bytes, the 0xAA separator, then the 6 UID bytes
// followed by the 16-bit checksum of the already-encoded UID bytes,
// each source byte b expanded to the pair (b | 0xAA, b | 0x55). The
// OR masks keep the line transition-rich so controllers can recover
// the reply without framing; the masks are wire-mandated and must not
// be altered.
func encodeUniqueBranchResponse(id uid.UID) []byte {
	buf := make([]byte, 0, dubResponseSize)
	buf = append(buf, 0xFE, 0xFE, 0xFE, 0xFE, 0xFE, 0xFE, 0xFE, 0xAA)

	var sum uint16
	for _, b := range id.Encode() {
		hi, lo := b|0xAA, b|0x55
		sum += uint16(hi) + uint16(lo)
		buf = append(buf, hi, lo)
	}

	buf = append(buf,
		byte(sum>>8)|0xAA, byte(sum>>8)|0x55,
		byte(sum)|0xAA, byte(sum)|0x55)
	return buf
}
