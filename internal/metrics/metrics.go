// Package metrics provides Prometheus metrics for rawping.
package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	namespace = "rawping"
)

// Discard reasons used as the "reason" label of DiscardedPackets.
const (
	ReasonUnmatched   = "unmatched"
	ReasonChecksum    = "checksum"
	ReasonTooShort    = "too_short"
	ReasonUnknownType = "unknown_type"
	ReasonMalformed   = "malformed"
	ReasonAddress     = "address_family"
	ReasonOther       = "other"
)

// Metrics contains all Prometheus metrics for a ping session.
type Metrics struct {
	RequestsSent     prometheus.Counter
	Replies          prometheus.Counter
	Timeouts         prometheus.Counter
	SendFailures     prometheus.Counter
	ReceiveFailures  prometheus.Counter
	DiscardedPackets *prometheus.CounterVec
	RTT              prometheus.Histogram
}

var (
	defaultMetrics *Metrics
	metricsOnce    sync.Once
)

// Default returns the default metrics instance.
func Default() *Metrics {
	metricsOnce.Do(func() {
		defaultMetrics = NewMetrics()
	})
	return defaultMetrics
}

// NewMetrics creates a new Metrics instance registered with the default registry.
func NewMetrics() *Metrics {
	return NewMetricsWithRegistry(prometheus.DefaultRegisterer)
}

// NewMetricsWithRegistry creates a new Metrics instance with a custom registry.
func NewMetricsWithRegistry(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		RequestsSent: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "requests_sent_total",
			Help:      "Total number of ICMP echo requests sent",
		}),
		Replies: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "replies_total",
			Help:      "Total number of matching echo replies received",
		}),
		Timeouts: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "timeouts_total",
			Help:      "Total number of attempts that timed out waiting for a reply",
		}),
		SendFailures: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "send_failures_total",
			Help:      "Total number of echo requests the socket failed to send",
		}),
		ReceiveFailures: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "receive_failures_total",
			Help:      "Total number of attempts aborted by a socket receive error",
		}),
		DiscardedPackets: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "discarded_packets_total",
			Help:      "Total inbound packets discarded while waiting for a reply, by reason",
		}, []string{"reason"}),
		RTT: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "rtt_seconds",
			Help:      "Round-trip time of matched echo replies",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 2, 16), // 100µs .. ~3.3s
		}),
	}
}

// RecordRequest records an echo request handed to the socket.
func (m *Metrics) RecordRequest() {
	m.RequestsSent.Inc()
}

// RecordReply records a matched reply and its round-trip time.
func (m *Metrics) RecordReply(rtt time.Duration) {
	m.Replies.Inc()
	m.RTT.Observe(rtt.Seconds())
}

// RecordTimeout records an attempt that ended without a reply.
func (m *Metrics) RecordTimeout() {
	m.Timeouts.Inc()
}

// RecordSendFailure records a failed send.
func (m *Metrics) RecordSendFailure() {
	m.SendFailures.Inc()
}

// RecordReceiveFailure records an attempt aborted by a receive error.
func (m *Metrics) RecordReceiveFailure() {
	m.ReceiveFailures.Inc()
}

// RecordDiscard records an inbound packet that did not satisfy the current attempt.
func (m *Metrics) RecordDiscard(reason string) {
	m.DiscardedPackets.WithLabelValues(reason).Inc()
}
