//go:build !linux

package icmp

import (
	"net/netip"
	"time"
)

// Open is only implemented on Linux.
func Open() (*Socket, error) {
	return nil, ErrUnsupportedPlatform
}

// SetTimeout is only implemented on Linux.
func (s *Socket) SetTimeout(d time.Duration) error {
	return ErrUnsupportedPlatform
}

// SendTo is only implemented on Linux.
func (s *Socket) SendTo(m *Message, dst netip.Addr) error {
	return ErrUnsupportedPlatform
}

// ReadPacket is only implemented on Linux.
func (s *Socket) ReadPacket() (*Packet, error) {
	return nil, ErrUnsupportedPlatform
}

func closeFD(fd int) error {
	return nil
}
