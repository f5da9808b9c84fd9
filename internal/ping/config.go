package ping

import (
	"fmt"
	"time"
)

// MaxPayloadSize is the largest echo body that fits in one IPv4 datagram.
const MaxPayloadSize = 65535 - 20 - 8

// Config holds configuration for a ping session.
type Config struct {
	// Timeout bounds the wait for a matching reply, measured from the send.
	// 0 means wait forever.
	Timeout time.Duration

	// PayloadSize is the number of body bytes carried by each echo request.
	// Default is 0 (header only).
	PayloadSize int
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Timeout: 3 * time.Second,
	}
}

// Validate checks the configuration for errors.
func (c Config) Validate() error {
	if c.Timeout < 0 {
		return fmt.Errorf("timeout must not be negative")
	}
	if c.PayloadSize < 0 || c.PayloadSize > MaxPayloadSize {
		return fmt.Errorf("payload size must be between 0 and %d", MaxPayloadSize)
	}
	return nil
}

// payload builds the echo body: a repeating 0x00..0xff byte pattern.
func (c Config) payload() []byte {
	if c.PayloadSize == 0 {
		return nil
	}
	b := make([]byte, c.PayloadSize)
	for i := range b {
		b[i] = byte(i)
	}
	return b
}
