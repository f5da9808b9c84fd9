package icmp

import (
	"net/netip"
	"sync"
)

// recvBufferSize holds the largest IPv4 datagram, header included.
const recvBufferSize = 65535

// Packet is an ICMP message received from the network.
type Packet struct {
	Message *Message
	From    netip.Addr

	// TTL is the time-to-live of the carrying IPv4 header, or -1 when the
	// header could not be decoded.
	TTL int
}

// Socket is a raw ICMPv4 socket. It exclusively owns its file descriptor,
// which is closed exactly once by Close.
type Socket struct {
	fd  int
	buf []byte

	closeOnce sync.Once
}

// RecvFrom blocks for one datagram, subject to the configured receive
// timeout, and returns the parsed message with its source address.
func (s *Socket) RecvFrom() (*Message, netip.Addr, error) {
	p, err := s.ReadPacket()
	if err != nil {
		return nil, netip.Addr{}, err
	}
	return p.Message, p.From, nil
}

// Close releases the socket. Calls after the first are no-ops.
func (s *Socket) Close() error {
	var err error
	s.closeOnce.Do(func() {
		err = closeFD(s.fd)
		s.fd = -1
	})
	return err
}
