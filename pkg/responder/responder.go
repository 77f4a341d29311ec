// Package responder implements the device-side RDM protocol engine:
// it decides whether an incoming request concerns this device,
// dispatches it to the matching parameter handler, drives the
// identify and mute indicators, and produces reply frames.
//
// The engine is single-threaded by design. One request is fully
// processed, and its reply (if any) handed to the send capability,
// before the transport delivers the next one; no locking is needed.
package responder

import (
	"net"

	"github.com/pion/logging"

	"github.com/openlighting/rdm-responder/pkg/frame"
	"github.com/openlighting/rdm-responder/pkg/ports"
	"github.com/openlighting/rdm-responder/pkg/uid"
)

// SendFunc transmits a reply onto the bus. includeBreak asks the
// transport for a leading break; standard responses need one,
// discovery responses must not have one. The segments together form
// one frame.
type SendFunc func(includeBreak bool, segments net.Buffers) error

// Settings is the fixed configuration of a responder. It is captured
// at construction; building a new Responder is how the device
// re-initializes.
type Settings struct {
	// UID is the responder's own unique identifier.
	UID uid.UID

	// IdentifyPin drives the identify indicator.
	IdentifyPin ports.Pin

	// MutePin drives the mute indicator. The indicator is active low:
	// a Mute clears the pin, an UnMute sets it.
	MutePin ports.Pin

	// Label overrides. Empty fields keep the stock device strings.
	// Labels longer than the protocol maximum are truncated.
	ModelDescription     string
	ManufacturerLabel    string
	SoftwareVersionLabel string
}

// Config carries the settings and the injected capabilities.
type Config struct {
	Settings Settings

	// Send transmits reply frames. A nil Send silently discards
	// replies, which is useful for receive-only diagnostics.
	Send SendFunc

	// Ports drives the indicator pins. Defaults to ports.Nop.
	Ports ports.Controller

	// LoggerFactory creates the engine's logger. Defaults to the
	// pion default factory.
	LoggerFactory logging.LoggerFactory
}

// Responder is an RDM responder instance modelling a single root
// device. It owns all mutable protocol state.
type Responder struct {
	settings Settings
	send     SendFunc
	ports    ports.Controller
	log      logging.LeveledLogger

	muted      bool
	identifyOn bool
}

// maxLabelSize is the E1.20 limit for label parameter data.
const maxLabelSize = 32

// New creates a responder with cleared state: not muted, identify
// off. Replacing an existing instance is a full re-initialization.
func New(cfg Config) *Responder {
	settings := cfg.Settings
	if settings.ModelDescription == "" {
		settings.ModelDescription = defaultModelDescription
	}
	if settings.ManufacturerLabel == "" {
		settings.ManufacturerLabel = defaultManufacturerLabel
	}
	if settings.SoftwareVersionLabel == "" {
		settings.SoftwareVersionLabel = defaultSoftwareVersionLabel
	}
	settings.ModelDescription = truncateLabel(settings.ModelDescription)
	settings.ManufacturerLabel = truncateLabel(settings.ManufacturerLabel)
	settings.SoftwareVersionLabel = truncateLabel(settings.SoftwareVersionLabel)

	portController := cfg.Ports
	if portController == nil {
		portController = ports.Nop{}
	}

	loggerFactory := cfg.LoggerFactory
	if loggerFactory == nil {
		loggerFactory = logging.NewDefaultLoggerFactory()
	}

	return &Responder{
		settings: settings,
		send:     cfg.Send,
		ports:    portController,
		log:      loggerFactory.NewLogger("rdm-responder"),
	}
}

func truncateLabel(s string) string {
	if len(s) > maxLabelSize {
		return s[:maxLabelSize]
	}
	return s
}

// SetSend installs the send capability. Transports are usually
// constructed after the responder they feed, so the capability can be
// wired in afterwards; a nil value discards replies.
func (r *Responder) SetSend(send SendFunc) {
	r.send = send
}

// UID returns the responder's own UID.
func (r *Responder) UID() uid.UID {
	return r.settings.UID
}

// IsMuted reports whether the responder is currently muted and will
// therefore stay silent during discovery.
func (r *Responder) IsMuted() bool {
	return r.muted
}

// IdentifyOn reports the state of the identify flag.
func (r *Responder) IdentifyOn() bool {
	return r.identifyOn
}

// RequiresAction reports whether a request addressed to dest must be
// processed by this responder: its own UID, the all-devices
// broadcast, or a vendorcast for its manufacturer. Whether a
// processed request also gets a reply is decided separately; see
// respond.
func (r *Responder) RequiresAction(dest uid.UID) bool {
	if dest == r.settings.UID || dest == uid.AllDevices {
		return true
	}
	return dest.IsBroadcast() &&
		dest.ManufacturerID() == r.settings.UID.ManufacturerID()
}

// HandleRequest processes one decoded request. The transport has
// already verified the checksum; paramData is borrowed from the frame
// buffer and must not be retained.
func (r *Responder) HandleRequest(h frame.Header, paramData []byte) {
	if !r.RequiresAction(h.DestUID) {
		r.log.Tracef("ignoring request for %s", h.DestUID)
		return
	}

	switch h.CommandClass {
	case frame.DiscoverCommand:
		r.handleDiscovery(&h, paramData)
		return
	case frame.GetCommand, frame.SetCommand:
	default:
		r.log.Debugf("unsupported command class 0x%02x", uint8(h.CommandClass))
		r.respond(&h, frame.NackResponse(&h, r.settings.UID,
			frame.NackUnsupportedCommandClass))
		return
	}

	// Root device only; no parameter here supports sub-devices.
	if h.SubDevice != frame.SubDeviceRoot {
		r.respond(&h, frame.NackResponse(&h, r.settings.UID,
			frame.NackSubDeviceOutOfRange))
		return
	}

	handler, ok := paramHandlers[h.ParamID]
	if !ok {
		r.log.Debugf("unknown pid 0x%04x", uint16(h.ParamID))
		r.respond(&h, frame.NackResponse(&h, r.settings.UID,
			frame.NackUnknownPID))
		return
	}

	fn := handler.get
	if h.CommandClass == frame.SetCommand {
		fn = handler.set
	}
	if fn == nil {
		r.respond(&h, frame.NackResponse(&h, r.settings.UID,
			frame.NackUnsupportedCommandClass))
		return
	}

	r.respond(&h, fn(r, &h, paramData))
}

// respond encodes and transmits resp, unless the request was
// addressed to a broadcast or vendorcast destination: those are
// processed for their side effects but never answered.
func (r *Responder) respond(h *frame.Header, resp *frame.Response) {
	if resp == nil {
		return
	}
	if h.DestUID.IsBroadcast() {
		r.log.Tracef("suppressing reply to broadcast %s", h.DestUID)
		return
	}
	r.sendFrame(true, net.Buffers{resp.Encode()})
}

func (r *Responder) sendFrame(includeBreak bool, segments net.Buffers) {
	if r.send == nil {
		return
	}
	if err := r.send(includeBreak, segments); err != nil {
		r.log.Warnf("send failed: %v", err)
	}
}
