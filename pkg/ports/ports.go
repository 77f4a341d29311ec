// Package ports abstracts the digital output lines the responder
// drives: the identify indicator and the mute indicator.
package ports

import "fmt"

// Channel identifies a port channel (bank) on the device.
type Channel uint8

// Port channels, matching the banks found on PIC32-class parts.
const (
	ChannelA Channel = iota
	ChannelB
	ChannelC
	ChannelD
	ChannelE
)

// ParseChannel reads a single-letter channel name such as "D".
func ParseChannel(s string) (Channel, error) {
	switch s {
	case "A", "a":
		return ChannelA, nil
	case "B", "b":
		return ChannelB, nil
	case "C", "c":
		return ChannelC, nil
	case "D", "d":
		return ChannelD, nil
	case "E", "e":
		return ChannelE, nil
	default:
		return 0, fmt.Errorf("ports: unknown channel %q", s)
	}
}

// String returns the channel letter.
func (c Channel) String() string {
	if c > ChannelE {
		return "Unknown"
	}
	return string('A' + byte(c))
}

// Pin addresses one bit of one channel.
type Pin struct {
	Channel Channel
	Bit     uint8
}

// String returns a "D0"-style pin name.
func (p Pin) String() string {
	return fmt.Sprintf("%s%d", p.Channel, p.Bit)
}

// Controller drives digital output pins. Implementations must be
// synchronous and non-blocking; parameter handlers call them inline
// while a request is being processed.
type Controller interface {
	// Set drives the pin high.
	Set(pin Pin)
	// Clear drives the pin low.
	Clear(pin Pin)
}

// Nop is a Controller wired to nothing, for headless operation.
type Nop struct{}

// Set implements Controller.
func (Nop) Set(Pin) {}

// Clear implements Controller.
func (Nop) Clear(Pin) {}
