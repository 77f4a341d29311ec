package transport

import (
	"github.com/pion/logging"

	"github.com/openlighting/rdm-responder/pkg/frame"
)

// AdapterConfig configures an Adapter.
type AdapterConfig struct {
	// Handler receives validated requests. Required.
	Handler Handler

	// LoggerFactory creates the adapter's logger. Defaults to the
	// pion default factory.
	LoggerFactory logging.LoggerFactory
}

// AdapterStats counts frames the adapter dropped, by reason.
// Malformed traffic is normal on a shared bus, so drops are counted
// rather than surfaced as failures.
type AdapterStats struct {
	// ShortFrames counts buffers below the minimum frame size.
	ShortFrames uint64

	// BadChecksums counts frames failing checksum verification.
	BadChecksums uint64

	// BadHeaders counts frames with bad start codes or a message
	// length that does not describe the received bytes.
	BadHeaders uint64
}

// Adapter is the inbound glue between the bus and the protocol
// engine: it checks frame length and checksum, decodes the header,
// bounds-checks the parameter data and invokes the handler. It runs
// on the transport's single receive path and needs no locking.
type Adapter struct {
	handler Handler
	log     logging.LeveledLogger
	stats   AdapterStats
}

// NewAdapter creates an adapter for the given handler.
func NewAdapter(cfg AdapterConfig) *Adapter {
	loggerFactory := cfg.LoggerFactory
	if loggerFactory == nil {
		loggerFactory = logging.NewDefaultLoggerFactory()
	}
	return &Adapter{
		handler: cfg.Handler,
		log:     loggerFactory.NewLogger("rdm-transport"),
	}
}

// HandleFrame validates one raw frame received from the bus and
// dispatches it. Malformed frames are dropped without a reply: the
// controller times out and retries, per the protocol. The returned
// error classifies a drop for callers that want it; it is nil when
// the frame was dispatched.
func (a *Adapter) HandleFrame(data []byte) error {
	if len(data) < frame.MinFrameSize {
		a.stats.ShortFrames++
		a.log.Tracef("dropping %d byte fragment", len(data))
		return frame.ErrFrameTooShort
	}

	if !frame.VerifyChecksum(data) {
		a.stats.BadChecksums++
		a.log.Debugf("dropping frame with bad checksum")
		return frame.ErrChecksum
	}

	h, err := frame.DecodeHeader(data)
	if err != nil {
		a.stats.BadHeaders++
		a.log.Debugf("dropping frame: %v", err)
		return err
	}

	// The message length must describe the frame we actually hold.
	if int(h.MessageLength) != frame.HeaderSize+int(h.ParamDataLength) ||
		len(data) < int(h.MessageLength)+frame.ChecksumSize {
		a.stats.BadHeaders++
		a.log.Debugf("dropping frame: length fields inconsistent")
		return frame.ErrLengthMismatch
	}

	paramData := data[frame.HeaderSize : frame.HeaderSize+int(h.ParamDataLength)]
	a.handler.HandleRequest(h, paramData)
	return nil
}

// Stats returns a snapshot of the drop counters.
func (a *Adapter) Stats() AdapterStats {
	return a.stats
}
