package transport

import (
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/pion/logging"
	"github.com/pion/transport/v3/test"
)

// defaultProcessInterval is how often the bus pump delivers queued
// frames.
const defaultProcessInterval = time.Millisecond

// BusConfig configures an in-memory Bus.
type BusConfig struct {
	// Handler receives validated requests on the device end. Required.
	Handler Handler

	// LoggerFactory creates the bus logger. Defaults to the pion
	// default factory.
	LoggerFactory logging.LoggerFactory

	// ProcessInterval is how often queued frames are delivered.
	// Defaults to one millisecond.
	ProcessInterval time.Duration
}

// BusFrame is one reply captured on the bus, with the framing
// metadata the device supplied.
type BusFrame struct {
	// IncludeBreak records whether the device asked for a leading
	// break. True for standard responses, false for discovery ones.
	IncludeBreak bool

	// SegmentCount is the number of buffer segments composing the
	// frame.
	SegmentCount int

	// Data is the concatenated frame bytes.
	Data []byte
}

// Bus is an in-memory stand-in for the RDM line connecting a test
// controller to the device pipeline. Frames written by the controller
// are delivered to the adapter; replies the device sends travel back
// and are also captured with their framing metadata for assertions.
//
// The bus pumps frames in a background goroutine, so delivery is
// asynchronous; use WaitResponse to collect replies.
type Bus struct {
	bridge     *test.Bridge
	controller net.Conn
	device     net.Conn
	adapter    *Adapter
	log        logging.LeveledLogger

	respCh chan []byte
	stopCh chan struct{}
	wg     sync.WaitGroup

	mu        sync.Mutex
	responses []BusFrame
	closed    bool
}

// NewBus creates a running bus.
func NewBus(cfg BusConfig) *Bus {
	loggerFactory := cfg.LoggerFactory
	if loggerFactory == nil {
		loggerFactory = logging.NewDefaultLoggerFactory()
	}
	interval := cfg.ProcessInterval
	if interval == 0 {
		interval = defaultProcessInterval
	}

	bridge := test.NewBridge()
	b := &Bus{
		bridge:     bridge,
		controller: bridge.GetConn0(),
		device:     bridge.GetConn1(),
		adapter: NewAdapter(AdapterConfig{
			Handler:       cfg.Handler,
			LoggerFactory: loggerFactory,
		}),
		log:    loggerFactory.NewLogger("rdm-bus"),
		respCh: make(chan []byte, 16),
		stopCh: make(chan struct{}),
	}

	b.wg.Add(3)
	go b.pump(interval)
	go b.deviceLoop()
	go b.controllerLoop()
	return b
}

// pump delivers queued frames across the bridge.
func (b *Bus) pump(interval time.Duration) {
	defer b.wg.Done()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-b.stopCh:
			return
		case <-ticker.C:
			b.bridge.Tick()
		}
	}
}

// deviceLoop feeds frames arriving on the device end to the adapter.
// Each bridge delivery is one complete frame, so no scanning is
// needed here.
func (b *Bus) deviceLoop() {
	defer b.wg.Done()

	buf := make([]byte, 4096)
	for {
		n, err := b.device.Read(buf)
		if err != nil {
			return
		}
		f := make([]byte, n)
		copy(f, buf[:n])
		_ = b.adapter.HandleFrame(f)
	}
}

// controllerLoop collects replies arriving on the controller end.
func (b *Bus) controllerLoop() {
	defer b.wg.Done()

	buf := make([]byte, 4096)
	for {
		n, err := b.controller.Read(buf)
		if err != nil {
			return
		}
		f := make([]byte, n)
		copy(f, buf[:n])
		select {
		case b.respCh <- f:
		case <-b.stopCh:
			return
		}
	}
}

// ControllerSend puts one request frame on the bus.
func (b *Bus) ControllerSend(data []byte) error {
	if _, err := b.controller.Write(data); err != nil {
		return fmt.Errorf("bus: controller send: %w", err)
	}
	return nil
}

// Send implements Sender for the device end: the reply is captured
// with its framing metadata and travels back to the controller.
func (b *Bus) Send(includeBreak bool, segments net.Buffers) error {
	var data []byte
	for _, segment := range segments {
		data = append(data, segment...)
	}

	b.mu.Lock()
	b.responses = append(b.responses, BusFrame{
		IncludeBreak: includeBreak,
		SegmentCount: len(segments),
		Data:         data,
	})
	b.mu.Unlock()

	if _, err := b.device.Write(data); err != nil {
		return fmt.Errorf("bus: device send: %w", err)
	}
	return nil
}

// WaitResponse returns the next reply seen by the controller, or an
// error if none arrives within the timeout.
func (b *Bus) WaitResponse(timeout time.Duration) ([]byte, error) {
	select {
	case data := <-b.respCh:
		return data, nil
	case <-time.After(timeout):
		return nil, fmt.Errorf("bus: no response within %v", timeout)
	}
}

// Responses returns a snapshot of every reply the device has sent.
func (b *Bus) Responses() []BusFrame {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]BusFrame, len(b.responses))
	copy(out, b.responses)
	return out
}

// Stats returns the adapter's drop counters.
func (b *Bus) Stats() AdapterStats {
	return b.adapter.Stats()
}

// Close shuts the bus down.
func (b *Bus) Close() error {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return nil
	}
	b.closed = true
	b.mu.Unlock()

	close(b.stopCh)
	err0 := b.controller.Close()
	err1 := b.device.Close()
	b.wg.Wait()

	if err0 != nil {
		return err0
	}
	return err1
}
