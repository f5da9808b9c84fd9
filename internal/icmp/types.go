package icmp

import "strconv"

// Type is an ICMPv4 message type.
type Type uint8

// Recognized ICMPv4 message types.
const (
	TypeEchoReply              Type = 0
	TypeDestinationUnreachable Type = 3
	TypeRedirect               Type = 5
	TypeEcho                   Type = 8
	TypeRouterAdvertisement    Type = 9
	TypeRouterSolicitation     Type = 10
	TypeTimeExceeded           Type = 11
	TypeParameterProblem       Type = 12
	TypeTimestamp              Type = 13
	TypeTimestampReply         Type = 14
	TypePhoturis               Type = 40
	TypeExtendedEchoRequest    Type = 42
	TypeExtendedEchoReply      Type = 43
)

var typeNames = map[Type]string{
	TypeEchoReply:              "echo reply",
	TypeDestinationUnreachable: "destination unreachable",
	TypeRedirect:               "redirect",
	TypeEcho:                   "echo",
	TypeRouterAdvertisement:    "router advertisement",
	TypeRouterSolicitation:     "router solicitation",
	TypeTimeExceeded:           "time exceeded",
	TypeParameterProblem:       "parameter problem",
	TypeTimestamp:              "timestamp",
	TypeTimestampReply:         "timestamp reply",
	TypePhoturis:               "photuris",
	TypeExtendedEchoRequest:    "extended echo request",
	TypeExtendedEchoReply:      "extended echo reply",
}

// TypeFromByte converts a wire value to a Type.
// The boolean is false when b is not a recognized message type.
func TypeFromByte(b byte) (Type, bool) {
	t := Type(b)
	_, ok := typeNames[t]
	return t, ok
}

// String returns a human-readable name for the type.
func (t Type) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}
	return "unknown(" + strconv.Itoa(int(t)) + ")"
}
