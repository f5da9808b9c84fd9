// Package icmp implements the ICMPv4 message codec and a raw-socket transport
// used to exchange echo requests and replies with IPv4 hosts.
//
// # Wire Format
//
//	 0                   1                   2                   3
//	 0 1 2 3 4 5 6 7 8 9 0 1 2 3 4 5 6 7 8 9 0 1 2 3 4 5 6 7 8 9 0 1
//	+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+
//	|     Type      |     Code      |          Checksum             |
//	+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+
//	|                        Rest of Header                         |
//	+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+
//	|                             Body ...                          |
//	+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+
//
// All multi-byte fields are big-endian. The checksum is the RFC 1071
// Internet Checksum over the whole message with the checksum field zeroed.
// The rest-of-header word is kept opaque: for echo messages it carries the
// correlation token that pairs a reply with its request.
//
// # Raw Sockets
//
// The transport opens an AF_INET/SOCK_RAW/IPPROTO_ICMP socket, which needs
// root or CAP_NET_RAW on Linux:
//
//	sudo setcap cap_net_raw+ep ./rawping
//
// Datagrams read from the socket start with the 20-byte IPv4 header, which is
// stripped before the ICMP message is parsed.
package icmp
