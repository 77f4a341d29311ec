// Package transport connects the protocol engine to the physical
// bus. The Adapter validates raw frames and feeds them to a Handler;
// the UART transport runs that pipeline over a serial port, and the
// Bus provides an in-memory wire for tests and loopback use.
package transport

import (
	"net"

	"github.com/openlighting/rdm-responder/pkg/frame"
)

// Handler consumes decoded requests. *responder.Responder satisfies
// this interface.
type Handler interface {
	HandleRequest(header frame.Header, paramData []byte)
}

// Sender transmits one reply frame onto the bus. includeBreak asks
// for a leading break: standard responses require one, discovery
// responses must be sent without it. The segments together form one
// frame and are written back to back.
type Sender interface {
	Send(includeBreak bool, segments net.Buffers) error
}

// SenderFunc adapts a function to the Sender interface.
type SenderFunc func(includeBreak bool, segments net.Buffers) error

// Send implements Sender.
func (f SenderFunc) Send(includeBreak bool, segments net.Buffers) error {
	return f(includeBreak, segments)
}
