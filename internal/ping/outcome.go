package ping

import (
	"net/netip"
	"time"
)

// Status is the terminal state of one echo attempt.
type Status int

const (
	// StatusReplied means a matching echo reply arrived.
	StatusReplied Status = iota
	// StatusTimedOut means no matching reply arrived within the timeout.
	StatusTimedOut
	// StatusSendFailed means the request could not be sent.
	StatusSendFailed
	// StatusReceiveFailed means the socket reported an unexpected receive error.
	StatusReceiveFailed
)

// String returns a human-readable name for the status.
func (s Status) String() string {
	switch s {
	case StatusReplied:
		return "REPLIED"
	case StatusTimedOut:
		return "TIMED_OUT"
	case StatusSendFailed:
		return "SEND_FAILED"
	case StatusReceiveFailed:
		return "RECEIVE_FAILED"
	default:
		return "UNKNOWN"
	}
}

// Outcome is the result of a single PingOnce call.
type Outcome struct {
	Seq    uint32
	Status Status

	// Set when Status is StatusReplied.
	RTT  time.Duration
	From netip.Addr
	TTL  int

	// Set when Status is StatusSendFailed or StatusReceiveFailed.
	Err error
}

// OK reports whether the attempt received its reply.
func (o Outcome) OK() bool {
	return o.Status == StatusReplied
}
