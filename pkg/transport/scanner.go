package transport

import "github.com/openlighting/rdm-responder/pkg/frame"

// Scanner reassembles RDM frames from a raw serial byte stream. The
// stream may contain line noise and traffic that is not ours between
// frames; bytes that cannot begin a frame are discarded until a
// start-code pair lines up.
//
// Scanner keeps no timing state. Inter-slot timing is the line
// driver's concern; by the time bytes reach the scanner only their
// order matters.
type Scanner struct {
	buf []byte
}

// Write appends received bytes to the scanner.
func (s *Scanner) Write(p []byte) {
	s.buf = append(s.buf, p...)
}

// Next returns the next complete frame, or nil when more bytes are
// needed. The returned slice is a copy and stays valid across
// subsequent writes.
func (s *Scanner) Next() []byte {
	for {
		s.sync()
		if len(s.buf) < frame.HeaderSize {
			return nil
		}

		messageLength := int(s.buf[2])
		if messageLength < frame.HeaderSize {
			// Bogus length field; skip this start code and rescan.
			s.buf = s.buf[1:]
			continue
		}

		total := messageLength + frame.ChecksumSize
		if len(s.buf) < total {
			return nil
		}

		out := make([]byte, total)
		copy(out, s.buf[:total])
		s.buf = append(s.buf[:0], s.buf[total:]...)
		return out
	}
}

// sync discards leading bytes until the buffer starts with the RDM
// start-code pair, or is exhausted.
func (s *Scanner) sync() {
	i := 0
	for i < len(s.buf) {
		if s.buf[i] == frame.StartCode &&
			(i+1 >= len(s.buf) || s.buf[i+1] == frame.SubStartCode) {
			break
		}
		i++
	}
	if i > 0 {
		s.buf = append(s.buf[:0], s.buf[i:]...)
	}
}
