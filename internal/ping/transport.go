package ping

import (
	"net/netip"
	"time"

	"github.com/postalsys/rawping/internal/icmp"
)

// Transport sends and receives whole ICMP datagrams.
// *icmp.Socket is the production implementation.
type Transport interface {
	// SetTimeout applies d as the send and receive timeout; d <= 0 clears it.
	SetTimeout(d time.Duration) error

	// SendTo transmits m as one datagram to dst.
	SendTo(m *icmp.Message, dst netip.Addr) error

	// ReadPacket blocks for one datagram. It returns icmp.ErrTimeout when
	// the receive timeout expires.
	ReadPacket() (*icmp.Packet, error)

	// Close releases the transport.
	Close() error
}

var _ Transport = (*icmp.Socket)(nil)
