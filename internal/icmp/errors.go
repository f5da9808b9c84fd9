package icmp

import "errors"

// Codec and framing errors.
var (
	ErrTooShort        = errors.New("icmp: message too short")
	ErrChecksumInvalid = errors.New("icmp: invalid checksum")
	ErrUnknownType     = errors.New("icmp: unknown message type")
	ErrMalformedPacket = errors.New("icmp: expected IPv4 header at the beginning")
)

// Transport errors.
var (
	// ErrTimeout is returned when no datagram arrived within the receive timeout.
	ErrTimeout               = errors.New("icmp: receive timed out")
	ErrAddressFamilyMismatch = errors.New("icmp: not an IPv4 address")
	ErrUnsupportedPlatform   = errors.New("icmp: raw sockets are not supported on this platform")
)

// OSError records a failed socket system call.
type OSError struct {
	Op  string
	Err error
}

func (e *OSError) Error() string {
	return e.Op + ": " + e.Err.Error()
}

// Unwrap returns the underlying errno so callers can use errors.Is.
func (e *OSError) Unwrap() error {
	return e.Err
}
