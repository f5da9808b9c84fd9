package icmp

// Checksum calculates the Internet Checksum (RFC 1071) of data.
// Words are read big-endian; an odd trailing byte is the high-order byte of
// a zero-padded final word.
func Checksum(data []byte) uint16 {
	var sum uint64

	n := len(data)
	for i := 0; i+1 < n; i += 2 {
		sum += uint64(data[i])<<8 | uint64(data[i+1])
	}
	if n%2 == 1 {
		sum += uint64(data[n-1]) << 8
	}

	// End-around carry
	for sum>>16 != 0 {
		sum = sum&0xffff + sum>>16
	}

	return ^uint16(sum)
}

// ValidChecksum reports whether data, including its embedded checksum field,
// sums to zero in one's-complement arithmetic. Both representations of zero
// (0x0000 and 0xffff) are accepted.
func ValidChecksum(data []byte) bool {
	cs := Checksum(data)
	return cs == 0 || cs == 0xffff
}
