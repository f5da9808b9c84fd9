//go:build linux

package icmp

import (
	"errors"
	"fmt"
	"net/netip"
	"runtime"
	"time"

	"golang.org/x/net/ipv4"
	"golang.org/x/sys/unix"
)

// Open creates a raw IPv4 ICMP socket. The descriptor is close-on-exec.
func Open() (*Socket, error) {
	fd, err := unix.Socket(unix.AF_INET, unix.SOCK_RAW|unix.SOCK_CLOEXEC, unix.IPPROTO_ICMP)
	if err != nil {
		return nil, &OSError{Op: "socket", Err: err}
	}

	s := &Socket{
		fd:  fd,
		buf: make([]byte, recvBufferSize),
	}
	runtime.SetFinalizer(s, (*Socket).Close)
	return s, nil
}

// SetTimeout applies d as both the send and the receive timeout.
// A zero or negative d clears the timeout so calls block indefinitely.
func (s *Socket) SetTimeout(d time.Duration) error {
	if d < 0 {
		d = 0
	}
	// A zero timeval means "no timeout", so never round a positive
	// duration down to it.
	if d > 0 && d < time.Microsecond {
		d = time.Microsecond
	}

	tv := unix.NsecToTimeval(d.Nanoseconds())
	for _, opt := range []int{unix.SO_SNDTIMEO, unix.SO_RCVTIMEO} {
		if err := unix.SetsockoptTimeval(s.fd, unix.SOL_SOCKET, opt, &tv); err != nil {
			return &OSError{Op: "setsockopt", Err: err}
		}
	}
	return nil
}

// SendTo marshals m and sends it as a single datagram to dst.
func (s *Socket) SendTo(m *Message, dst netip.Addr) error {
	dst = dst.Unmap()
	if !dst.Is4() {
		return ErrAddressFamilyMismatch
	}

	data := m.Marshal()
	sa := &unix.SockaddrInet4{Addr: dst.As4()}
	for {
		err := unix.Sendto(s.fd, data, 0, sa)
		if errors.Is(err, unix.EINTR) {
			continue
		}
		if err != nil {
			return &OSError{Op: "sendto", Err: err}
		}
		return nil
	}
}

// ReadPacket blocks for one datagram, strips its IPv4 header and parses the
// ICMP message that follows.
func (s *Socket) ReadPacket() (*Packet, error) {
	var (
		n    int
		from unix.Sockaddr
		err  error
	)
	for {
		// MSG_TRUNC makes recvfrom report the full datagram length.
		n, from, err = unix.Recvfrom(s.fd, s.buf, unix.MSG_TRUNC)
		if !errors.Is(err, unix.EINTR) {
			break
		}
	}
	if err != nil {
		if errors.Is(err, unix.EAGAIN) || errors.Is(err, unix.EWOULDBLOCK) {
			return nil, ErrTimeout
		}
		return nil, &OSError{Op: "recvfrom", Err: err}
	}

	if n > len(s.buf) {
		return nil, fmt.Errorf("%w: datagram of %d bytes truncated to %d", ErrMalformedPacket, n, len(s.buf))
	}

	raw := s.buf[:n]
	if len(raw) < ipv4.HeaderLen {
		return nil, fmt.Errorf("%w: %d bytes", ErrMalformedPacket, len(raw))
	}

	msg, err := ParseMessage(raw[ipv4.HeaderLen:])
	if err != nil {
		return nil, err
	}

	sa, ok := from.(*unix.SockaddrInet4)
	if !ok {
		return nil, ErrAddressFamilyMismatch
	}

	p := &Packet{
		Message: msg,
		From:    netip.AddrFrom4(sa.Addr),
		TTL:     -1,
	}
	if h, err := ipv4.ParseHeader(raw); err == nil {
		p.TTL = h.TTL
	}
	return p, nil
}

func closeFD(fd int) error {
	if fd < 0 {
		return nil
	}
	if err := unix.Close(fd); err != nil {
		return &OSError{Op: "close", Err: err}
	}
	return nil
}
