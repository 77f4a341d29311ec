package transport

import (
	"errors"
	"fmt"
	"io"
	"net"
	"sync"
	"time"

	"github.com/goburrow/serial"
	"github.com/pion/logging"

	"github.com/openlighting/rdm-responder/pkg/frame"
)

// DefaultBaudRate is the DMX512/RDM line rate.
const DefaultBaudRate = 250000

// defaultReadTimeout bounds each serial read so Close can take
// effect promptly.
const defaultReadTimeout = 100 * time.Millisecond

// UARTConfig configures a UART transport.
type UARTConfig struct {
	// Address is the serial device, e.g. "/dev/ttyUSB0". Required
	// unless Port is supplied.
	Address string

	// BaudRate defaults to DefaultBaudRate.
	BaudRate int

	// BreakFunc generates a line break before responses that require
	// one. The serial layer cannot assert a break itself; leave nil
	// when the line driver generates breaks in hardware.
	BreakFunc func() error

	// Handler receives validated requests. Required.
	Handler Handler

	// LoggerFactory creates the transport's logger. Defaults to the
	// pion default factory.
	LoggerFactory logging.LoggerFactory

	// Port overrides the opened serial port. Used by tests.
	Port io.ReadWriteCloser
}

// UART drives the responder pipeline over a serial port: a single
// read loop scans the byte stream into frames and hands them to the
// adapter, and Send writes reply segments back to the line. The whole
// request/reply pipeline runs on the read loop goroutine.
type UART struct {
	port    io.ReadWriteCloser
	adapter *Adapter
	scanner Scanner
	breakFn func() error
	log     logging.LeveledLogger

	closeOnce sync.Once
	closed    chan struct{}
	wg        sync.WaitGroup
}

// OpenUART opens the serial port and returns a stopped transport.
// Call Start to begin receiving.
func OpenUART(cfg UARTConfig) (*UART, error) {
	loggerFactory := cfg.LoggerFactory
	if loggerFactory == nil {
		loggerFactory = logging.NewDefaultLoggerFactory()
	}

	port := cfg.Port
	if port == nil {
		baud := cfg.BaudRate
		if baud == 0 {
			baud = DefaultBaudRate
		}
		p, err := serial.Open(&serial.Config{
			Address:  cfg.Address,
			BaudRate: baud,
			DataBits: 8,
			StopBits: 2,
			Parity:   "N",
			Timeout:  defaultReadTimeout,
		})
		if err != nil {
			return nil, fmt.Errorf("uart: open %s: %w", cfg.Address, err)
		}
		port = p
	}

	return &UART{
		port: port,
		adapter: NewAdapter(AdapterConfig{
			Handler:       cfg.Handler,
			LoggerFactory: loggerFactory,
		}),
		breakFn: cfg.BreakFunc,
		log:     loggerFactory.NewLogger("rdm-uart"),
		closed:  make(chan struct{}),
	}, nil
}

// Start launches the read loop.
func (u *UART) Start() {
	u.wg.Add(1)
	go u.readLoop()
}

// readLoop pulls bytes off the line and dispatches complete frames.
func (u *UART) readLoop() {
	defer u.wg.Done()

	buf := make([]byte, frame.MaxFrameSize)
	for {
		select {
		case <-u.closed:
			return
		default:
		}

		n, err := u.port.Read(buf)
		if n > 0 {
			u.scanner.Write(buf[:n])
			for f := u.scanner.Next(); f != nil; f = u.scanner.Next() {
				// Drops are already counted by the adapter.
				_ = u.adapter.HandleFrame(f)
			}
		}
		if err != nil {
			if errors.Is(err, serial.ErrTimeout) {
				continue
			}
			select {
			case <-u.closed:
			default:
				u.log.Warnf("read failed: %v", err)
			}
			return
		}
	}
}

// Send implements Sender. Segments are written to the line in order,
// preceded by a break when requested and a break source is
// configured.
func (u *UART) Send(includeBreak bool, segments net.Buffers) error {
	if includeBreak && u.breakFn != nil {
		if err := u.breakFn(); err != nil {
			return fmt.Errorf("uart: break: %w", err)
		}
	}
	for _, segment := range segments {
		if _, err := u.port.Write(segment); err != nil {
			return fmt.Errorf("uart: write: %w", err)
		}
	}
	return nil
}

// Stats returns the adapter's drop counters.
func (u *UART) Stats() AdapterStats {
	return u.adapter.Stats()
}

// Close stops the read loop and closes the port.
func (u *UART) Close() error {
	var err error
	u.closeOnce.Do(func() {
		close(u.closed)
		err = u.port.Close()
		u.wg.Wait()
	})
	return err
}
