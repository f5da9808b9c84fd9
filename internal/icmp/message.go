package icmp

import (
	"encoding/binary"
	"fmt"
)

// HeaderLen is the length of the fixed ICMP header, including the
// rest-of-header word.
const HeaderLen = 8

// Message is a single ICMPv4 datagram.
type Message struct {
	Type         Type
	Code         uint8
	RestOfHeader [4]byte
	Body         []byte
}

// EchoToken encodes an echo sequence number as a rest-of-header token.
func EchoToken(seq uint32) [4]byte {
	var tok [4]byte
	binary.BigEndian.PutUint32(tok[:], seq)
	return tok
}

// Token returns the rest-of-header word as a big-endian integer.
func (m *Message) Token() uint32 {
	return binary.BigEndian.Uint32(m.RestOfHeader[:])
}

// Len returns the marshaled length of the message.
func (m *Message) Len() int {
	return HeaderLen + len(m.Body)
}

// Marshal encodes the message and fills in its checksum.
func (m *Message) Marshal() []byte {
	b := make([]byte, m.Len())
	b[0] = byte(m.Type)
	b[1] = m.Code
	copy(b[4:HeaderLen], m.RestOfHeader[:])
	copy(b[HeaderLen:], m.Body)

	binary.BigEndian.PutUint16(b[2:4], Checksum(b))
	return b
}

// ParseMessage decodes an ICMP message. The body is copied, so b may be
// reused after the call returns.
func ParseMessage(b []byte) (*Message, error) {
	if len(b) < HeaderLen {
		return nil, fmt.Errorf("%w: %d bytes", ErrTooShort, len(b))
	}
	if !ValidChecksum(b) {
		return nil, ErrChecksumInvalid
	}

	typ, ok := TypeFromByte(b[0])
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownType, b[0])
	}

	m := &Message{
		Type: typ,
		Code: b[1],
	}
	copy(m.RestOfHeader[:], b[4:HeaderLen])
	if len(b) > HeaderLen {
		m.Body = append([]byte(nil), b[HeaderLen:]...)
	}

	return m, nil
}
