// Package ping drives ICMP echo rounds over a raw socket.
//
// A Session owns one transport and a sequence counter. Each call to
// PingOnce is a self-contained request/response cycle:
//
//  1. The current sequence number is encoded into the echo's 4-byte
//     rest-of-header token and the counter advances (wrapping at 2^32).
//  2. The request is sent; a send failure ends the attempt.
//  3. Datagrams are read until an echo reply carrying the same token
//     arrives or the receive timeout expires. Stale replies, unrelated ICMP
//     messages, and undecodable packets are logged and skipped.
//
// Only one request is ever in flight, so correlation is a single token
// comparison. To ping several hosts concurrently, use one Session per host.
package ping
