package ping

import (
	"errors"
	"fmt"
	"log/slog"
	"net/netip"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/postalsys/rawping/internal/icmp"
	"github.com/postalsys/rawping/internal/logging"
	"github.com/postalsys/rawping/internal/metrics"
)

// Session sends echo requests to one destination at a time and matches the
// replies. It is not safe for concurrent use.
type Session struct {
	transport Transport
	timeout   time.Duration
	payload   []byte
	next      uint32

	logger  *slog.Logger
	metrics *metrics.Metrics
	now     func() time.Time
}

// NewSession wraps an already configured transport. The session takes
// ownership of t and closes it in Close.
// A nil metrics uses a private registry.
func NewSession(t Transport, cfg Config, logger *slog.Logger, m *metrics.Metrics) *Session {
	if m == nil {
		m = metrics.NewMetricsWithRegistry(prometheus.NewRegistry())
	}

	return &Session{
		transport: t,
		timeout:   cfg.Timeout,
		payload:   cfg.payload(),
		next:      1,
		logger:    logging.ForComponent(logger, "ping"),
		metrics:   m,
		now:       time.Now,
	}
}

// Open creates a raw ICMP socket, applies the configured timeout and returns
// a session that owns it. Errors here usually mean the process lacks the
// privilege to open raw sockets and are fatal to the caller.
func Open(cfg Config, logger *slog.Logger, m *metrics.Metrics) (*Session, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid ping config: %w", err)
	}

	sock, err := icmp.Open()
	if err != nil {
		return nil, fmt.Errorf("open raw ICMP socket: %w", err)
	}

	s := NewSession(sock, cfg, logger, m)
	if err := s.SetTimeout(cfg.Timeout); err != nil {
		s.Close()
		return nil, err
	}

	return s, nil
}

// SetTimeout changes the reply timeout. A zero duration waits forever.
func (s *Session) SetTimeout(d time.Duration) error {
	if err := s.transport.SetTimeout(d); err != nil {
		return fmt.Errorf("set socket timeout: %w", err)
	}
	s.timeout = d
	return nil
}

// NextSequence returns the sequence number the next PingOnce will use.
func (s *Session) NextSequence() uint32 {
	return s.next
}

// PingOnce sends one echo request to dst and waits for the matching reply.
// Timeouts and send failures are reported in the Outcome, not as errors.
func (s *Session) PingOnce(dst netip.Addr) Outcome {
	seq := s.next
	s.next++ // before waiting, so a failed attempt never reuses its number

	token := icmp.EchoToken(seq)
	req := &icmp.Message{
		Type:         icmp.TypeEcho,
		Code:         0,
		RestOfHeader: token,
		Body:         s.payload,
	}

	out := Outcome{Seq: seq}
	logger := s.logger.With(logging.KeySeq, seq, logging.KeyAddress, dst.String())

	start := s.now()
	if err := s.transport.SendTo(req, dst); err != nil {
		s.metrics.RecordSendFailure()
		logger.Debug("echo request not sent", logging.KeyError, err)
		out.Status = StatusSendFailed
		out.Err = err
		return out
	}
	s.metrics.RecordRequest()

	// Discarded packets must not extend the wait, so every read after the
	// first gets only the time left until the deadline.
	var deadline time.Time
	if s.timeout > 0 {
		deadline = start.Add(s.timeout)
	}
	narrowed := false
	defer func() {
		if !narrowed {
			return
		}
		if err := s.transport.SetTimeout(s.timeout); err != nil {
			logger.Warn("failed to restore socket timeout", logging.KeyError, err)
		}
	}()

	for reads := 0; ; reads++ {
		if reads > 0 && !deadline.IsZero() {
			remaining := deadline.Sub(s.now())
			if remaining <= 0 {
				return s.timedOut(out, logger)
			}
			if err := s.transport.SetTimeout(remaining); err != nil {
				logger.Warn("failed to narrow receive timeout", logging.KeyError, err)
			} else {
				narrowed = true
			}
		}

		pkt, err := s.transport.ReadPacket()
		if err != nil {
			if errors.Is(err, icmp.ErrTimeout) {
				return s.timedOut(out, logger)
			}

			var osErr *icmp.OSError
			if errors.As(err, &osErr) {
				s.metrics.RecordReceiveFailure()
				logger.Warn("receive failed", logging.KeyError, err)
				out.Status = StatusReceiveFailed
				out.Err = err
				return out
			}

			reason := discardReason(err)
			s.metrics.RecordDiscard(reason)
			logger.Warn("error receiving response", logging.KeyReason, reason, logging.KeyError, err)
			continue
		}

		msg := pkt.Message
		if msg.Type != icmp.TypeEchoReply || msg.RestOfHeader != token {
			s.metrics.RecordDiscard(metrics.ReasonUnmatched)
			logger.Debug("discarding unmatched packet",
				logging.KeyFrom, pkt.From.String(),
				logging.KeyType, msg.Type.String(),
				logging.KeyCode, msg.Code,
				"token", msg.Token(),
			)
			continue
		}

		out.Status = StatusReplied
		out.RTT = s.now().Sub(start)
		out.From = pkt.From
		out.TTL = pkt.TTL
		s.metrics.RecordReply(out.RTT)
		logger.Debug("echo reply received", logging.KeyRTT, out.RTT, logging.KeyTTL, out.TTL)
		return out
	}
}

func (s *Session) timedOut(out Outcome, logger *slog.Logger) Outcome {
	s.metrics.RecordTimeout()
	logger.Debug("no reply before timeout", logging.KeyDuration, s.timeout)
	out.Status = StatusTimedOut
	return out
}

// Close closes the underlying transport. Errors are logged and returned.
func (s *Session) Close() error {
	if err := s.transport.Close(); err != nil {
		s.logger.Warn("failed to close socket", logging.KeyError, err)
		return err
	}
	return nil
}

// discardReason maps a codec or framing error to a metrics label.
func discardReason(err error) string {
	switch {
	case errors.Is(err, icmp.ErrChecksumInvalid):
		return metrics.ReasonChecksum
	case errors.Is(err, icmp.ErrTooShort):
		return metrics.ReasonTooShort
	case errors.Is(err, icmp.ErrUnknownType):
		return metrics.ReasonUnknownType
	case errors.Is(err, icmp.ErrMalformedPacket):
		return metrics.ReasonMalformed
	case errors.Is(err, icmp.ErrAddressFamilyMismatch):
		return metrics.ReasonAddress
	default:
		return metrics.ReasonOther
	}
}
